// Package testutil provides shared fixtures for backend tests.
package testutil

import (
	"context"
	"fmt"
	"path/filepath"
	"sync/atomic"
	"testing"

	"inkspace/internal/config"
	"inkspace/internal/database"
	"inkspace/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var seq atomic.Uint64

// NewSQLiteDB opens a migrated file-backed SQLite database in t.TempDir.
// A file is used instead of :memory: so concurrent transactions share one
// database across pool connections.
func NewSQLiteDB(t testing.TB) *gorm.DB {
	t.Helper()
	cfg := &config.Config{
		Env:            "test",
		DBDriver:       "sqlite",
		DBSQLitePath:   filepath.Join(t.TempDir(), "inkspace_test.db"),
		DBMaxOpenConns: 8,
	}
	db, err := database.ConnectWithOptions(cfg, database.ConnectOptions{})
	require.NoError(t, err)
	require.NoError(t, database.ApplySchema(context.Background(), db, cfg))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// CreateUser inserts a user with a unique fake username.
func CreateUser(t testing.TB, db *gorm.DB, overrides ...func(*models.User)) *models.User {
	t.Helper()
	u := &models.User{
		Username: fmt.Sprintf("%s_%d", gofakeit.Username(), seq.Add(1)),
		Nickname: gofakeit.FirstName(),
	}
	for _, o := range overrides {
		o(u)
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

// CreatePost inserts a published post by author.
func CreatePost(t testing.TB, db *gorm.DB, author *models.User, overrides ...func(*models.Post)) *models.Post {
	t.Helper()
	content := gofakeit.Sentence(12)
	p := &models.Post{
		AuthorID:  author.ID,
		Title:     models.DeriveTitle(content),
		Content:   content,
		Slug:      fmt.Sprintf("post-test-%d", seq.Add(1)),
		Published: true,
	}
	for _, o := range overrides {
		o(p)
	}
	require.NoError(t, db.Omit("Author").Create(p).Error)
	return p
}
