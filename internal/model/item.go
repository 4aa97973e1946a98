package model

import (
	"fmt"
	"strings"
)

// Item is the closed set of ledger item kinds. There is no floating
// catalog: every kind the economy knows about is listed here.
type Item string

const (
	TalkShard     Item = "talk_shard"
	MlbbShard     Item = "mlbb_shard"
	TalkPass      Item = "talk_pass"
	MlbbPass      Item = "mlbb_pass"
	NegativeShard Item = "negative_shard"
)

var AllItems = []Item{TalkShard, MlbbShard, TalkPass, MlbbPass, NegativeShard}

var itemNames = map[Item]string{
	TalkShard:     "Talk Shard",
	MlbbShard:     "MLBB Shard",
	TalkPass:      "Talk Pass",
	MlbbPass:      "MLBB Pass",
	NegativeShard: "Negative Shard",
}

var itemEmojis = map[Item]string{
	TalkShard:     "🧩",
	MlbbShard:     "🧩",
	TalkPass:      "🎫",
	MlbbPass:      "🎟️",
	NegativeShard: "💔",
}

func (i Item) Valid() bool {
	_, ok := itemNames[i]
	return ok
}

func (i Item) DisplayName() string {
	if name, ok := itemNames[i]; ok {
		return name
	}
	return string(i)
}

// Display renders the item the way it appears in user-facing messages,
// e.g. "Talk Pass 🎫".
func (i Item) Display() string {
	return strings.TrimSpace(i.DisplayName() + " " + itemEmojis[i])
}

func (i Item) DisplayWithQuantity(quantity int) string {
	return fmt.Sprintf("%s x%d", i.Display(), quantity)
}

// ParseItem resolves admin-facing input into an item kind. Both the
// wire form ("talk_shard") and the display name ("Talk Shard") are
// accepted, case-insensitively.
func ParseItem(s string) (Item, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	if item := Item(normalized); item.Valid() {
		return item, nil
	}
	for item, name := range itemNames {
		if strings.EqualFold(name, strings.TrimSpace(s)) {
			return item, nil
		}
	}
	return "", fmt.Errorf("unknown item %q", s)
}
