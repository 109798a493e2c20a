package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/dailyhire/backend/internal/logger"
)

// ErrorHandler логирует ошибки, накопленные обработчиками, и закрывает
// запрос ответом 500, если обработчик сам ничего не отправил. Понятные
// клиенту ошибки обработчики отдают сами через apperror, сюда долетают
// только внутренние.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		if logger.Log != nil {
			for _, ginErr := range c.Errors {
				logger.Log.WithFields(logrus.Fields{
					"error":  ginErr.Error(),
					"path":   c.Request.URL.Path,
					"method": c.Request.Method,
					"status": c.Writer.Status(),
				}).Error("request error")
			}
		}

		if !c.Writer.Written() {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "внутренняя ошибка сервера"})
		}
	}
}
