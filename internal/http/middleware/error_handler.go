package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/kyc-backend/internal/logger"
	"github.com/ignatzorin/kyc-backend/internal/pkg/apperror"
	"github.com/ignatzorin/kyc-backend/internal/repository"
)

// ErrorHandler обрабатывает ошибки централизованно.
// Маскирует внутренние ошибки и возвращает понятные сообщения клиенту.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		if len(c.Errors) > 0 {
			err := c.Errors.Last()

			statusCode := http.StatusInternalServerError
			message := "внутренняя ошибка сервера"

			if logger.Log != nil {
				logger.Log.WithFields(logrus.Fields{
					"error":  err.Error(),
					"path":   c.Request.URL.Path,
					"method": c.Request.Method,
				}).Error("Request error")
			}

			var appErr *apperror.AppError
			switch {
			case errors.As(err.Err, &appErr):
				statusCode = appErr.HTTPStatus
				message = appErr.Message
			case errors.Is(err.Err, repository.ErrUserNotFound):
				statusCode = http.StatusNotFound
				message = "пользователь не найден"
			case errors.Is(err.Err, repository.ErrTokenNotFound):
				statusCode = http.StatusNotFound
				message = "токен не найден"
			case errors.Is(err.Err, repository.ErrDocumentNotFound):
				statusCode = http.StatusNotFound
				message = "документ пользователя не найден"
			case errors.Is(err.Err, repository.ErrDuplicateGovID), errors.Is(err.Err, repository.ErrDuplicateEmail):
				statusCode = http.StatusBadRequest
				message = err.Err.Error()
			}

			c.JSON(statusCode, gin.H{"error": message})
		}
	}
}
