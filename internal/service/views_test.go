package service

import (
	"bytes"
	"log/slog"
	"testing"

	"inkspace/internal/middleware"
	"inkspace/internal/models"

	"github.com/stretchr/testify/assert"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	orig := middleware.Logger
	middleware.Logger = slog.New(slog.NewTextHandler(&buf, nil))
	t.Cleanup(func() { middleware.Logger = orig })
	return &buf
}

func TestCopyView(t *testing.T) {
	logs := captureLogs(t)

	var s models.UserSummary
	ok := copyView(&s, &models.User{ID: 4, Username: "mira", Nickname: "Mira", AboutMe: "not copied"})
	assert.True(t, ok)
	assert.Equal(t, models.UserSummary{ID: 4, Username: "mira", Nickname: "Mira"}, s)
	assert.Empty(t, logs.String())

	var empty models.UserSummary
	assert.False(t, copyView(&empty, nil))
	assert.Contains(t, logs.String(), "failed to build response view")
	assert.Contains(t, logs.String(), "UserSummary")
}

func TestSummarize_SkipsMissingUser(t *testing.T) {
	assert.Nil(t, summarize(nil))
	assert.Nil(t, summarize(&models.User{}))
}
