package repository

import (
	"context"
	"errors"

	"inkspace/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Store groups the engagement repositories over one connection or
// transaction. Repositories obtained from the Store passed to a
// Transaction callback share that transaction.
type Store interface {
	Users() UserRepository
	Posts() PostRepository
	Comments() CommentRepository
	Likes() LikeRepository
	Follows() FollowRepository
	Notifications() NotificationRepository
	Searches() SearchHistoryRepository

	// Transaction runs fn in a database transaction, committing when fn
	// returns nil and rolling back on error or panic.
	Transaction(ctx context.Context, fn func(tx Store) error) error
	// Ping checks that the underlying database answers.
	Ping(ctx context.Context) error
}

type gormStore struct {
	db *gorm.DB
}

// NewStore returns a Store backed by db.
func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) Users() UserRepository { return NewUserRepository(s.db) }
func (s *gormStore) Posts() PostRepository { return NewPostRepository(s.db) }
func (s *gormStore) Comments() CommentRepository { return NewCommentRepository(s.db) }
func (s *gormStore) Likes() LikeRepository { return NewLikeRepository(s.db) }
func (s *gormStore) Follows() FollowRepository { return NewFollowRepository(s.db) }
func (s *gormStore) Notifications() NotificationRepository { return NewNotificationRepository(s.db) }
func (s *gormStore) Searches() SearchHistoryRepository { return NewSearchHistoryRepository(s.db) }

func (s *gormStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormStore{db: tx})
	})
}

func (s *gormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// IsUniqueViolation reports whether err is a unique constraint failure,
// either translated by gorm or raw from pgx.
func IsUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// wrapNotFound converts gorm.ErrRecordNotFound into a NOT_FOUND AppError
// and everything else into INTERNAL_ERROR.
func wrapNotFound(err error, resource string, id interface{}) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError(resource, id)
	}
	return models.NewInternalError(err)
}

func normalizeLimit(limit, def, max int) int {
	if limit <= 0 {
		return def
	}
	if limit > max {
		return max
	}
	return limit
}
