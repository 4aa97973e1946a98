package api

import (
	"net/http"

	"shardbot/internal/service"
	"shardbot/pkg/auth"
	"shardbot/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type shopRoutes struct {
	trade *service.TradeService
	a     *auth.TelegramAuth
}

func NewShopRoutes(handler *gin.RouterGroup, trade *service.TradeService, a *auth.TelegramAuth) {
	r := &shopRoutes{trade: trade, a: a}
	h := handler.Group("/shop")
	h.Use(a.TelegramAuthMiddleware())
	{
		h.GET("/offers", r.GetOffers)
		h.POST("/trades", r.ExecuteTrade)
	}
}

func (r *shopRoutes) GetOffers(c *gin.Context) {
	offers := r.trade.Offers()

	out := make([]gin.H, len(offers))
	for i, offer := range offers {
		out[i] = gin.H{
			"id":   offer.ID,
			"cost": offer.Cost,
			"from": offer.From,
			"to":   offer.To,
		}
	}

	c.JSON(http.StatusOK, out)
}

type ExecuteTradeRequest struct {
	OfferID string `json:"offer_id"`
}

func (r *shopRoutes) ExecuteTrade(c *gin.Context) {
	log := logger.Logger()

	user, ok := telegramUser(c)
	if !ok {
		return
	}

	var req ExecuteTradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("failed to bind request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	result, err := r.trade.Execute(c.Request.Context(), user.ID, req.OfferID)
	if err != nil {
		log.Info("trade rejected",
			zap.Int64("telegram_id", user.ID),
			zap.String("offer_id", req.OfferID),
			zap.Error(err))
		c.JSON(serviceErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"offer_id": result.Offer.ID,
		"spent":    gin.H{"item": result.Offer.From, "quantity": result.Offer.Cost},
		"received": gin.H{"item": result.Offer.To, "quantity": 1},
	})
}
