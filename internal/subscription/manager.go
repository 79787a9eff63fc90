package subscription

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/yatube/yatube/internal/db"
	"github.com/yatube/yatube/internal/models"
	"github.com/yatube/yatube/pkg/logging"
)

// ErrSelfFollow is returned when a user tries to follow themselves. The
// HTTP layer treats it as a declined no-op rather than an error page.
var ErrSelfFollow = errors.New("users cannot follow themselves")

// Manager mutates follow edges on behalf of an authenticated user.
type Manager struct {
	follows *db.FollowRepository
	logger  *zap.Logger
}

// NewManager creates a new subscription manager
func NewManager(repo *db.Repository) *Manager {
	return &Manager{
		follows: db.NewFollowRepository(repo),
		logger:  logging.GetLogger().With(zap.String("component", "subscription-manager")),
	}
}

// Follow creates the user→author edge. Repeated calls leave a single
// edge; uniqueness is enforced by the storage layer so concurrent
// duplicate requests cannot race past a check.
func (m *Manager) Follow(ctx context.Context, userID, authorID int64) error {
	if userID == authorID {
		return ErrSelfFollow
	}

	created, err := m.follows.Create(ctx, &models.Follow{
		UserID:   userID,
		AuthorID: authorID,
	})
	if err != nil {
		return err
	}
	if created {
		m.logger.Debug("follow edge created",
			zap.Int64("user_id", userID),
			zap.Int64("author_id", authorID))
	}
	return nil
}

// Unfollow removes the user→author edge if present. A missing edge is a
// no-op, not an error.
func (m *Manager) Unfollow(ctx context.Context, userID, authorID int64) error {
	return m.follows.Delete(ctx, userID, authorID)
}

// IsFollowing reports whether the edge exists
func (m *Manager) IsFollowing(ctx context.Context, userID, authorID int64) (bool, error) {
	return m.follows.Exists(ctx, userID, authorID)
}
