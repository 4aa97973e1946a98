package api

import (
	"errors"
	"net/http"

	"shardbot/internal/service"
	"shardbot/pkg/auth"
	"shardbot/pkg/logger"

	"github.com/gin-gonic/gin"
)

// telegramUser pulls the authenticated caller out of the gin context.
// A missing entry means the auth middleware did not run; the response
// is written here so handlers can just return.
func telegramUser(c *gin.Context) (*auth.TelegramUserData, bool) {
	log := logger.Logger()

	userData, exists := c.Get("telegram_user")
	if !exists {
		log.Error("telegram user data not found in context")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return nil, false
	}

	user, ok := userData.(*auth.TelegramUserData)
	if !ok {
		log.Error("invalid type assertion for telegram user data")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return nil, false
	}

	return user, true
}

func serviceErrorStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidTaskIndex),
		errors.Is(err, service.ErrInvalidDate),
		errors.Is(err, service.ErrUnknownItem),
		errors.Is(err, service.ErrUnknownOffer),
		errors.Is(err, service.ErrPassNotUsable):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrInsufficientItems),
		errors.Is(err, service.ErrTaskAlreadyCompleted),
		errors.Is(err, service.ErrPassAlreadyUsedToday),
		errors.Is(err, service.ErrChannelAlreadyUnlocked):
		return http.StatusConflict
	case errors.Is(err, service.ErrTicketNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrTicketExpired):
		return http.StatusGone
	case errors.Is(err, service.ErrChannelGateUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
