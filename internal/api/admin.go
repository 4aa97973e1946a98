package api

import (
	"net/http"

	"shardbot/internal/middleware"
	"shardbot/internal/model"
	"shardbot/internal/service"
	"shardbot/pkg/auth"
	"shardbot/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type adminRoutes struct {
	inv   *service.InventoryService
	cycle *service.CycleService
	a     *auth.TelegramAuth
}

func NewAdminRoutes(handler *gin.RouterGroup, inv *service.InventoryService, cycle *service.CycleService, a *auth.TelegramAuth, authz *middleware.Authorization) {
	r := &adminRoutes{inv: inv, cycle: cycle, a: a}
	h := handler.Group("/admin")
	h.Use(a.TelegramAuthMiddleware())
	h.Use(authz.AdminOnly())
	{
		h.POST("/items", r.AdjustItems)
		h.POST("/reset-daily", r.ResetDaily)
		h.POST("/reset-all", r.ResetAll)
	}
}

type AdjustItemsRequest struct {
	Action     string `json:"action" binding:"required"`
	TelegramID int64  `json:"telegram_id" binding:"required"`
	Item       string `json:"item" binding:"required"`
	Amount     int    `json:"amount"`
}

func (r *adminRoutes) AdjustItems(c *gin.Context) {
	log := logger.Logger()

	var req AdjustItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("failed to bind request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if req.Amount < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount must not be negative"})
		return
	}

	item, err := model.ParseItem(req.Item)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown item"})
		return
	}

	ctx := c.Request.Context()
	switch req.Action {
	case "give":
		err = r.inv.Give(ctx, req.TelegramID, item, req.Amount)
	case "take":
		err = r.inv.Take(ctx, req.TelegramID, item, req.Amount)
	case "set":
		err = r.inv.SetCount(ctx, req.TelegramID, item, req.Amount)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown action"})
		return
	}
	if err != nil {
		log.Info("inventory adjustment rejected",
			zap.Int64("telegram_id", req.TelegramID),
			zap.String("action", req.Action),
			zap.Error(err))
		c.JSON(serviceErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	log.Info("inventory adjusted by admin",
		zap.Int64("telegram_id", req.TelegramID),
		zap.String("action", req.Action),
		zap.String("item", string(item)),
		zap.Int("amount", req.Amount))

	c.JSON(http.StatusOK, gin.H{
		"telegram_id": req.TelegramID,
		"item":        item,
		"count":       r.inv.Count(req.TelegramID, item),
	})
}

func (r *adminRoutes) ResetDaily(c *gin.Context) {
	log := logger.Logger()

	if err := r.cycle.ManualReset(c.Request.Context()); err != nil {
		log.Error("manual reset failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "reset applied but board publishing failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"reset": "daily"})
}

func (r *adminRoutes) ResetAll(c *gin.Context) {
	r.cycle.WipeAll(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"reset": "all"})
}
