package slack

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seladavis/forgebot/internal/domain"
)

// memoryNameCache is a map-backed NameCache for tests.
type memoryNameCache struct {
	mu    sync.Mutex
	names map[string]*domain.UserNames
}

func newMemoryNameCache() *memoryNameCache {
	return &memoryNameCache{names: make(map[string]*domain.UserNames)}
}

func (c *memoryNameCache) Get(_ context.Context, userID string) (*domain.UserNames, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.names[userID], nil
}

func (c *memoryNameCache) Set(_ context.Context, userID string, names *domain.UserNames) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.names[userID] = names
	return nil
}

const userListBody = `{
	"ok": true,
	"members": [
		{"id": "U1", "name": "atrebek", "profile": {"real_name": "Alex Trebek", "first_name": "Alex", "last_name": "Trebek"}},
		{"id": "U2", "name": "bare"}
	]
}`

func newTestDirectory(t *testing.T, body string) (*UserDirectory, *int) {
	t.Helper()
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/users.list", r.URL.Path)
		assert.Equal(t, "secret-token", r.URL.Query().Get("token"))
		calls++
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return NewUserDirectory(srv.URL, "secret-token", newMemoryNameCache()), &calls
}

func TestDisplayName_FirstAndRealName(t *testing.T) {
	dir, _ := newTestDirectory(t, userListBody)
	ctx := context.Background()

	assert.Equal(t, "Alex", dir.DisplayName(ctx, "U1", false))
	assert.Equal(t, "Alex Trebek", dir.DisplayName(ctx, "U1", true))
}

func TestDisplayName_FallsBackToUsername(t *testing.T) {
	dir, _ := newTestDirectory(t, userListBody)
	assert.Equal(t, "bare", dir.DisplayName(context.Background(), "U2", false))
}

func TestDisplayName_CachesLookups(t *testing.T) {
	dir, calls := newTestDirectory(t, userListBody)
	ctx := context.Background()

	dir.DisplayName(ctx, "U1", false)
	dir.DisplayName(ctx, "U1", true)
	dir.DisplayName(ctx, "U1", false)
	assert.Equal(t, 1, *calls)
}

func TestDisplayName_UnknownUserGetsFallback(t *testing.T) {
	dir, _ := newTestDirectory(t, userListBody)
	assert.Equal(t, FallbackName, dir.DisplayName(context.Background(), "U999", false))
}

func TestDisplayName_APIErrorGetsFallback(t *testing.T) {
	dir, _ := newTestDirectory(t, `{"ok": false, "error": "invalid_auth"}`)
	assert.Equal(t, FallbackName, dir.DisplayName(context.Background(), "U1", true))
}
