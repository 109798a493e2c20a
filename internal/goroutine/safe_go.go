package goroutine

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/dailyhire/backend/internal/logger"
)

// SafeGo запускает горутину и гасит panic внутри неё, чтобы фоновая
// отправка уведомления не уронила процесс.
func SafeGo(fn func()) {
	go func() {
		defer recoverPanic()
		fn()
	}()
}

// SafeGoWithContext — то же, но функция получает контекст.
func SafeGoWithContext(ctx context.Context, fn func(context.Context)) {
	go func() {
		defer recoverPanic()
		fn(ctx)
	}()
}

func recoverPanic() {
	r := recover()
	if r == nil {
		return
	}
	if logger.Log != nil {
		logger.Log.Errorf("panic в фоновой горутине: %v\n%s", r, debug.Stack())
		return
	}
	fmt.Printf("panic в фоновой горутине: %v\n%s\n", r, debug.Stack())
}
