package model

// ChatChannelState is the single shared lockable resource: the chat
// channel's open/closed state. At most one unlock owner at a time.
type ChatChannelState struct {
	IsUnlocked   bool   `json:"is_unlocked"`
	UnlockedBy   *int64 `json:"unlocked_by,omitempty"`
	UnlockedDate *Date  `json:"unlocked_date,omitempty"`
}

// MessageRef is an opaque handle to a posted board message, kept only
// so rollover knows what to delete.
type MessageRef struct {
	ChatID    int64 `json:"chat_id"`
	MessageID int   `json:"message_id"`
}

// TaskBoardRef tracks the daily task list message plus its optional
// intro line.
type TaskBoardRef struct {
	Intro *MessageRef `json:"intro,omitempty"`
	Board MessageRef  `json:"board"`
}

// Snapshot is the full persisted state. Every mutation writes the
// whole snapshot through to the store.
type Snapshot struct {
	TaskBoards    map[Date]TaskBoardRef  `json:"task_boards"`
	ShopBoards    map[Date]MessageRef    `json:"shop_boards"`
	UseItemsBoard *MessageRef            `json:"use_items_board,omitempty"`
	Users         map[int64]*UserAccount `json:"users"`
	ChannelState  ChatChannelState       `json:"chat_channel_state"`
}

func NewSnapshot() *Snapshot {
	return &Snapshot{
		TaskBoards: make(map[Date]TaskBoardRef),
		ShopBoards: make(map[Date]MessageRef),
		Users:      make(map[int64]*UserAccount),
	}
}

// Normalize fills in maps that may be nil after decoding an older or
// partial snapshot file.
func (s *Snapshot) Normalize() {
	if s.TaskBoards == nil {
		s.TaskBoards = make(map[Date]TaskBoardRef)
	}
	if s.ShopBoards == nil {
		s.ShopBoards = make(map[Date]MessageRef)
	}
	if s.Users == nil {
		s.Users = make(map[int64]*UserAccount)
	}
	for userID, user := range s.Users {
		if user == nil {
			s.Users[userID] = NewUserAccount(userID)
			continue
		}
		user.UserID = userID
		if user.CompletedTasksByDate == nil {
			user.CompletedTasksByDate = make(map[Date][]int)
		}
		if user.ItemCounts == nil {
			user.ItemCounts = make(map[Item]int)
		}
		if user.RewardsClaimed == nil {
			user.RewardsClaimed = make(map[Date]RewardClaims)
		}
		if user.PassUsageByDate == nil {
			user.PassUsageByDate = make(map[Item]Date)
		}
	}
}
