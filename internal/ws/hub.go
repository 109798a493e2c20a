package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/dailyhire/backend/internal/goroutine"
	"github.com/dailyhire/backend/internal/logger"
)

// EventSaver сохраняет отправленное событие как уведомление, чтобы
// пользователь увидел его и после переподключения.
type EventSaver interface {
	SaveEvent(ctx context.Context, userID uuid.UUID, event string, data any) error
}

// Hub ведёт реестр активных WebSocket-подключений и маршрутизирует
// события по идентификатору пользователя. У пользователя может быть
// несколько подключений одновременно (телефон и браузер), событие
// уходит на все.
type Hub struct {
	mu         sync.RWMutex
	clients    map[uuid.UUID]map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan envelope
	saver      EventSaver
	ctx        context.Context
}

type envelope struct {
	userID  uuid.UUID
	payload []byte
}

// NewHub создаёт хаб. Контекст ограничивает время жизни фоновых записей
// уведомлений и главного цикла.
func NewHub(ctx context.Context) *Hub {
	return &Hub{
		clients:    make(map[uuid.UUID]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan envelope, 32),
		ctx:        ctx,
	}
}

// SetEventSaver включает сохранение событий в ленту уведомлений.
func (h *Hub) SetEventSaver(saver EventSaver) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.saver = saver
}

// Run крутит главный цикл хаба до отмены контекста.
func (h *Hub) Run() {
	for {
		select {
		case <-h.ctx.Done():
			return
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case env := <-h.broadcast:
			h.send(env.userID, env.payload)
		}
	}
}

// Register добавляет подключение в реестр.
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister убирает подключение из реестра.
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// BroadcastToUser отправляет событие на все подключения пользователя.
// Сообщение на проводе: {"type": <имя события>, "data": <нагрузка>}.
func (h *Hub) BroadcastToUser(userID uuid.UUID, event string, data any) error {
	raw, err := json.Marshal(map[string]any{
		"type": event,
		"data": data,
	})
	if err != nil {
		return fmt.Errorf("ws: не удалось сериализовать событие %s: %w", event, err)
	}

	h.mu.RLock()
	saver := h.saver
	h.mu.RUnlock()

	if saver != nil {
		// Запись в ленту уведомлений не должна задерживать доставку
		goroutine.SafeGoWithContext(h.ctx, func(ctx context.Context) {
			if err := saver.SaveEvent(ctx, userID, event, data); err != nil && logger.Log != nil {
				logger.Log.WithFields(logrus.Fields{
					"user_id": userID,
					"event":   event,
					"error":   err.Error(),
				}).Warn("ws: не удалось сохранить уведомление")
			}
		})
	}

	h.broadcast <- envelope{userID: userID, payload: raw}
	return nil
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.userID]; !ok {
		h.clients[client.userID] = make(map[*Client]struct{})
	}
	h.clients[client.userID][client] = struct{}{}
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, ok := h.clients[client.userID]; ok {
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.clients, client.userID)
		}
	}
}

// send раздаёт событие подключениям пользователя. Подключение с забитым
// буфером считается мёртвым и закрывается.
func (h *Hub) send(userID uuid.UUID, payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients[userID] {
		select {
		case client.send <- payload:
		default:
			goroutine.SafeGo(client.Close)
		}
	}
}
