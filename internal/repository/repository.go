package repository

import (
	"context"
	"fmt"
	"sync"

	"shardbot/internal/model"
	"shardbot/pkg/logger"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var (
	ErrNotFound = errors.New("not found")
)

// Persister is the opaque snapshot store behind the repository. Load
// must fail softly to an empty-default snapshot when no data exists.
type Persister interface {
	Load(ctx context.Context) (*model.Snapshot, error)
	Save(ctx context.Context, snap *model.Snapshot) error
	Close() error
}

// Repository owns the in-memory snapshot and writes it through to the
// persister after every mutation. All access goes through the embedded
// mutex; callers never hold references into the snapshot.
type Repository struct {
	persister Persister
	snap      *model.Snapshot
	sync.Mutex
}

func New(ctx context.Context, persister Persister) (*Repository, error) {
	snap, err := persister.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}
	snap.Normalize()

	logger.Logger().Info("snapshot loaded",
		zap.Int("users", len(snap.Users)),
		zap.Bool("chat_unlocked", snap.ChannelState.IsUnlocked))

	return &Repository{
		persister: persister,
		snap:      snap,
	}, nil
}

// NewInMemory builds a repository with no durable backing, used by
// tests and the "memory" storage driver.
func NewInMemory() *Repository {
	return &Repository{
		persister: nopPersister{},
		snap:      model.NewSnapshot(),
	}
}

func (r *Repository) Close() error {
	return r.persister.Close()
}

// persist writes the snapshot through. Failures are logged and
// swallowed: the in-memory effect stands and the next successful save
// reconciles.
func (r *Repository) persist(ctx context.Context) {
	if err := r.persister.Save(ctx, r.snap); err != nil {
		logger.Logger().Error("failed to save snapshot", zap.Error(err))
	}
}

func (r *Repository) getOrCreateLocked(ctx context.Context, userID int64) (*model.UserAccount, bool) {
	if user, ok := r.snap.Users[userID]; ok {
		return user, false
	}
	user := model.NewUserAccount(userID)
	r.snap.Users[userID] = user
	r.persist(ctx)
	return user, true
}

// GetOrCreateUser returns a copy of the account, creating and
// persisting a zero-valued one on first sight of the user.
func (r *Repository) GetOrCreateUser(ctx context.Context, userID int64) *model.UserAccount {
	r.Lock()
	defer r.Unlock()

	user, _ := r.getOrCreateLocked(ctx, userID)
	return user.Clone()
}

// User returns a copy of an existing account without creating one.
func (r *Repository) User(userID int64) (*model.UserAccount, error) {
	r.Lock()
	defer r.Unlock()

	user, ok := r.snap.Users[userID]
	if !ok {
		return nil, ErrNotFound
	}
	return user.Clone(), nil
}

func (r *Repository) UserIDs() []int64 {
	r.Lock()
	defer r.Unlock()

	ids := make([]int64, 0, len(r.snap.Users))
	for id := range r.snap.Users {
		ids = append(ids, id)
	}
	return ids
}

// AllUsers returns copies of every account, for board rendering.
func (r *Repository) AllUsers() []*model.UserAccount {
	r.Lock()
	defer r.Unlock()

	users := make([]*model.UserAccount, 0, len(r.snap.Users))
	for _, user := range r.snap.Users {
		users = append(users, user.Clone())
	}
	return users
}

func (r *Repository) ChannelState() model.ChatChannelState {
	r.Lock()
	defer r.Unlock()

	return r.snap.ChannelState
}

func (r *Repository) SetChannelState(ctx context.Context, state model.ChatChannelState) {
	r.Lock()
	defer r.Unlock()

	r.snap.ChannelState = state
	r.persist(ctx)
}

// PurgeDate removes every per-date record keyed to the given date from
// every account. Board refs are handled separately by the presenter.
func (r *Repository) PurgeDate(ctx context.Context, date model.Date) {
	r.Lock()
	defer r.Unlock()

	for _, user := range r.snap.Users {
		user.PurgeDate(date)
	}
	r.persist(ctx)
}

// PurgeTaskRecords removes completion sets and reward flags for the
// given date from every account, keeping pass-usage entries.
func (r *Repository) PurgeTaskRecords(ctx context.Context, date model.Date) {
	r.Lock()
	defer r.Unlock()

	for _, user := range r.snap.Users {
		user.PurgeTaskRecords(date)
	}
	r.persist(ctx)
}

// Wipe discards every account, board ref and the channel state.
func (r *Repository) Wipe(ctx context.Context) {
	r.Lock()
	defer r.Unlock()

	r.snap = model.NewSnapshot()
	r.persist(ctx)
}

type nopPersister struct{}

func (nopPersister) Load(context.Context) (*model.Snapshot, error)       { return model.NewSnapshot(), nil }
func (nopPersister) Save(context.Context, *model.Snapshot) error         { return nil }
func (nopPersister) Close() error                                        { return nil }
