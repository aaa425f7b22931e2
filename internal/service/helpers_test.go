package service

import (
	"context"
	"sync"
	"testing"

	"inkspace/internal/models"
	"inkspace/internal/repository"
	"inkspace/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestStore(t *testing.T) (*gorm.DB, repository.Store) {
	t.Helper()
	db := testutil.NewSQLiteDB(t)
	return db, repository.NewStore(db)
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, models.IsCode(err, code), "expected %s, got %v", code, err)
}

// txErrorStore fails every transaction with err.
type txErrorStore struct {
	repository.Store
	err error
}

func (s txErrorStore) Transaction(_ context.Context, _ func(tx repository.Store) error) error {
	return s.err
}

// recordingPublisher captures realtime payloads per recipient.
type recordingPublisher struct {
	mu       sync.Mutex
	payloads map[uint][]string
}

func (p *recordingPublisher) PublishUser(_ context.Context, userID uint, payload string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.payloads == nil {
		p.payloads = make(map[uint][]string)
	}
	p.payloads[userID] = append(p.payloads[userID], payload)
	return nil
}

func (p *recordingPublisher) For(userID uint) []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.payloads[userID]...)
}

type followCall struct{ actor, target uint }

type followNotifierStub struct {
	calls []followCall
}

func (s *followNotifierStub) NotifyFollow(_ context.Context, actorID, targetID uint) {
	s.calls = append(s.calls, followCall{actorID, targetID})
}
