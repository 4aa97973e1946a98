package service

import (
	"context"
	"testing"

	"shardbot/internal/model"
	"shardbot/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTradeService_Execute(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		offerID   string
		held      map[model.Item]int
		wantErr   error
		wantAfter map[model.Item]int
	}{
		{
			name:      "talk shards to talk pass with exact cost",
			offerID:   "talk_shards_to_talk_pass",
			held:      map[model.Item]int{model.TalkShard: 7},
			wantAfter: map[model.Item]int{model.TalkShard: 0, model.TalkPass: 1},
		},
		{
			name:      "cost minus one fails without mutation",
			offerID:   "talk_shards_to_talk_pass",
			held:      map[model.Item]int{model.TalkShard: 6},
			wantErr:   ErrInsufficientItems,
			wantAfter: map[model.Item]int{model.TalkShard: 6, model.TalkPass: 0},
		},
		{
			name:      "mlbb shards to mlbb pass",
			offerID:   "mlbb_shards_to_mlbb_pass",
			held:      map[model.Item]int{model.MlbbShard: 5},
			wantAfter: map[model.Item]int{model.MlbbShard: 2, model.MlbbPass: 1},
		},
		{
			name:      "mlbb passes to talk pass",
			offerID:   "mlbb_passes_to_talk_pass",
			held:      map[model.Item]int{model.MlbbPass: 2},
			wantAfter: map[model.Item]int{model.MlbbPass: 0, model.TalkPass: 1},
		},
		{
			name:    "unknown offer",
			offerID: "shards_to_gold",
			wantErr: ErrUnknownOffer,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := repository.NewInMemory()
			svc := NewTradeService(repo)

			for item, count := range tt.held {
				repo.SetItems(ctx, 77, item, count)
			}

			result, err := svc.Execute(ctx, 77, tt.offerID)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.offerID, result.Offer.ID)
			}

			for item, want := range tt.wantAfter {
				assert.Equal(t, want, repo.CountItem(77, item), "count of %s", item)
			}
		})
	}
}

func TestTradeService_Offers(t *testing.T) {
	svc := NewTradeService(repository.NewInMemory())

	offers := svc.Offers()
	require.Len(t, offers, 3)

	// Mutating the returned slice must not touch the table.
	offers[0].Cost = 999
	assert.Equal(t, 7, svc.Offers()[0].Cost)
}
