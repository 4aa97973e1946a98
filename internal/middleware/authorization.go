package middleware

import (
	"net/http"

	"shardbot/pkg/auth"
	"shardbot/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Authorization gates admin endpoints against the configured admin id
// list. Admin status lives in config rather than user records so a
// data wipe cannot lock the operators out.
type Authorization struct {
	admins map[int64]struct{}
}

func NewAuthorization(adminIDs []int64) *Authorization {
	admins := make(map[int64]struct{}, len(adminIDs))
	for _, id := range adminIDs {
		admins[id] = struct{}{}
	}
	return &Authorization{
		admins: admins,
	}
}

func (a *Authorization) IsAdmin(telegramID int64) bool {
	_, ok := a.admins[telegramID]
	return ok
}

func (a *Authorization) AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logger.Logger()

		userData, exists := c.Get("telegram_user")
		if !exists {
			log.Error("telegram user data not found in context")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		telegramUser, ok := userData.(*auth.TelegramUserData)
		if !ok {
			log.Error("invalid type assertion for telegram user data")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}

		if !a.IsAdmin(telegramUser.ID) {
			log.Info("unauthorized access attempt to admin endpoint",
				zap.Int64("telegram_id", telegramUser.ID))
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			return
		}

		c.Set("is_admin", true)
		c.Next()
	}
}
