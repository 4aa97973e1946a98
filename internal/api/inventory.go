package api

import (
	"net/http"

	"shardbot/internal/service"
	"shardbot/pkg/auth"

	"github.com/gin-gonic/gin"
)

type inventoryRoutes struct {
	inv *service.InventoryService
	a   *auth.TelegramAuth
}

func NewInventoryRoutes(handler *gin.RouterGroup, inv *service.InventoryService, a *auth.TelegramAuth) {
	r := &inventoryRoutes{inv: inv, a: a}
	h := handler.Group("/inventory")
	h.Use(a.TelegramAuthMiddleware())
	{
		h.GET("/", r.GetInventory)
	}
}

func (r *inventoryRoutes) GetInventory(c *gin.Context) {
	user, ok := telegramUser(c)
	if !ok {
		return
	}

	r.inv.GetOrCreate(c.Request.Context(), user.ID)

	c.JSON(http.StatusOK, gin.H{
		"telegram_id": user.ID,
		"items":       r.inv.Counts(user.ID),
	})
}
