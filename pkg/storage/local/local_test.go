package local

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kamazuxa/tender/pkg/logger"
)

func newStorage(t *testing.T) *LocalStorage {
	t.Helper()
	return &LocalStorage{root: t.TempDir(), logger: logger.NewTestLogger()}
}

func TestStoreAndGet(t *testing.T) {
	s := newStorage(t)
	ctx := context.Background()

	key, err := s.Store(ctx, strings.NewReader(`{"analysis":"ok"}`), "reports/task-1.json")
	require.NoError(t, err)
	assert.Equal(t, "reports/task-1.json", key)

	rc, err := s.Get(ctx, key)
	require.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, `{"analysis":"ok"}`, string(data))
}

func TestGetMissingKey(t *testing.T) {
	s := newStorage(t)
	_, err := s.Get(context.Background(), "reports/absent.json")
	assert.Error(t, err)
}

func TestDelete(t *testing.T) {
	s := newStorage(t)
	ctx := context.Background()

	_, err := s.Store(ctx, strings.NewReader("data"), "reports/task-2.json")
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, "reports/task-2.json"))
	_, err = s.Get(ctx, "reports/task-2.json")
	assert.Error(t, err)
}

func TestKeyEscapingRootRejected(t *testing.T) {
	s := newStorage(t)
	ctx := context.Background()

	_, err := s.Store(ctx, strings.NewReader("x"), "../escape.json")
	assert.Error(t, err)

	_, err = s.Get(ctx, "../../etc/passwd")
	assert.Error(t, err)

	assert.Error(t, s.Delete(ctx, "../escape.json"))
}

func TestCleanupBefore(t *testing.T) {
	s := newStorage(t)
	ctx := context.Background()

	_, err := s.Store(ctx, strings.NewReader("old"), "reports/old.json")
	require.NoError(t, err)
	_, err = s.Store(ctx, strings.NewReader("fresh"), "reports/fresh.json")
	require.NoError(t, err)

	stale := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(s.root, "reports", "old.json"), stale, stale))

	require.NoError(t, s.CleanupBefore(ctx, time.Now().Add(-24*time.Hour)))

	_, err = s.Get(ctx, "reports/old.json")
	assert.Error(t, err)
	rc, err := s.Get(ctx, "reports/fresh.json")
	require.NoError(t, err)
	rc.Close()
}
