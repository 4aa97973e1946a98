package service

import (
	"context"

	"shardbot/internal/model"
)

// Offer is one fixed exchange: Cost units of From buy exactly one To.
// No partial trades, no rate negotiation.
type Offer struct {
	ID   string
	Cost int
	From model.Item
	To   model.Item
}

var offers = []Offer{
	{ID: "talk_shards_to_talk_pass", Cost: 7, From: model.TalkShard, To: model.TalkPass},
	{ID: "mlbb_shards_to_mlbb_pass", Cost: 3, From: model.MlbbShard, To: model.MlbbPass},
	{ID: "mlbb_passes_to_talk_pass", Cost: 2, From: model.MlbbPass, To: model.TalkPass},
}

type TradeRepository interface {
	GetOrCreateUser(ctx context.Context, userID int64) *model.UserAccount
	AddItem(ctx context.Context, userID int64, item model.Item, quantity int)
	RemoveItems(ctx context.Context, userID int64, item model.Item, quantity int) bool
}

type TradeService struct {
	repo TradeRepository
}

func NewTradeService(repo TradeRepository) *TradeService {
	return &TradeService{
		repo: repo,
	}
}

// Offers returns the fixed conversion table, for shop rendering.
func (s *TradeService) Offers() []Offer {
	return append([]Offer(nil), offers...)
}

type TradeResult struct {
	UserID int64
	Offer  Offer
}

// Execute runs one conversion. The removal carries the funds check, so
// an insufficient holding leaves both counts untouched.
func (s *TradeService) Execute(ctx context.Context, userID int64, offerID string) (*TradeResult, error) {
	var offer *Offer
	for i := range offers {
		if offers[i].ID == offerID {
			offer = &offers[i]
			break
		}
	}
	if offer == nil {
		return nil, ErrUnknownOffer
	}

	s.repo.GetOrCreateUser(ctx, userID)
	if !s.repo.RemoveItems(ctx, userID, offer.From, offer.Cost) {
		return nil, ErrInsufficientItems
	}
	s.repo.AddItem(ctx, userID, offer.To, 1)

	return &TradeResult{UserID: userID, Offer: *offer}, nil
}
