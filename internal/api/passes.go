package api

import (
	"errors"
	"net/http"

	"shardbot/internal/model"
	"shardbot/internal/service"
	"shardbot/pkg/auth"
	"shardbot/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type passRoutes struct {
	ps *service.PassService
	a  *auth.TelegramAuth
}

func NewPassRoutes(handler *gin.RouterGroup, ps *service.PassService, a *auth.TelegramAuth) {
	r := &passRoutes{ps: ps, a: a}
	h := handler.Group("/passes")
	h.Use(a.TelegramAuthMiddleware())
	{
		h.POST("/request", r.RequestUse)
		h.POST("/confirm", r.ConfirmUse)
		h.POST("/cancel", r.CancelUse)
	}
}

type RequestUseRequest struct {
	Pass string `json:"pass"`
}

func (r *passRoutes) RequestUse(c *gin.Context) {
	log := logger.Logger()

	user, ok := telegramUser(c)
	if !ok {
		return
	}

	var req RequestUseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("failed to bind request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	pass, err := model.ParseItem(req.Pass)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown pass"})
		return
	}

	ticket, err := r.ps.Request(c.Request.Context(), user.ID, pass)
	if err != nil {
		log.Info("pass use request rejected",
			zap.Int64("telegram_id", user.ID),
			zap.String("pass", string(pass)),
			zap.Error(err))
		c.JSON(serviceErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ticket_id":  ticket.ID,
		"pass":       ticket.Pass,
		"expires_in": service.TicketTTL.String(),
	})
}

type ConfirmUseRequest struct {
	TicketID string `json:"ticket_id"`
}

func (r *passRoutes) ConfirmUse(c *gin.Context) {
	log := logger.Logger()

	user, ok := telegramUser(c)
	if !ok {
		return
	}

	var req ConfirmUseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("failed to bind request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	ticketID, err := uuid.Parse(req.TicketID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ticket_id"})
		return
	}

	result, err := r.ps.Confirm(c.Request.Context(), user.ID, ticketID)
	if err != nil {
		log.Info("pass use confirmation failed",
			zap.Int64("telegram_id", user.ID),
			zap.Error(err))

		// The gate failing is the one case where the pass was still
		// consumed; the client needs to know that.
		if errors.Is(err, service.ErrChannelGateUnavailable) {
			c.JSON(serviceErrorStatus(err), gin.H{
				"error":         err.Error(),
				"pass_consumed": true,
			})
			return
		}
		c.JSON(serviceErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"pass":             result.Pass,
		"channel_unlocked": result.ChannelUnlocked,
	})
}

func (r *passRoutes) CancelUse(c *gin.Context) {
	user, ok := telegramUser(c)
	if !ok {
		return
	}

	var req ConfirmUseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	ticketID, err := uuid.Parse(req.TicketID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ticket_id"})
		return
	}

	r.ps.Cancel(user.ID, ticketID)
	c.JSON(http.StatusOK, gin.H{"cancelled": true})
}
