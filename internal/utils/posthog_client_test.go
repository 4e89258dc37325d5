package utils_test

import (
	"io"
	"log/slog"
	"testing"

	"github.com/SscSPs/movie_review_app/internal/utils"
	"github.com/stretchr/testify/assert"
)

func TestPosthogClientWrapper_NoopWithoutKey(t *testing.T) {
	w := utils.InitializePosthogClient("", slog.New(slog.NewTextHandler(io.Discard, nil)))

	assert.False(t, w.IsInitialized())
	assert.NotPanics(t, func() {
		w.Enqueue("account-1", "user_logged_in", nil)
		w.Close()
	})

	var nilWrapper *utils.PosthogClientWrapper
	assert.False(t, nilWrapper.IsInitialized())
	assert.NotPanics(t, func() { nilWrapper.Enqueue("account-1", "user_logged_in", nil) })
}
