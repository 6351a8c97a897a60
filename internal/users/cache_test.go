package users

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingDirectory records how often each lookup hits the source.
type countingDirectory struct {
	mu        sync.Mutex
	users     map[uuid.UUID]*User
	userCalls int
}

func (d *countingDirectory) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.userCalls++
	u, ok := d.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return u, nil
}

func (d *countingDirectory) GetOrganization(ctx context.Context, id uuid.UUID) (*Organization, error) {
	return &Organization{ID: id, Name: "Acme Architects"}, nil
}

func TestCachedDirectoryReadThrough(t *testing.T) {
	id := uuid.New()
	source := &countingDirectory{users: map[uuid.UUID]*User{
		id: {ID: id, Email: "alice@example.com", Name: "Alice"},
	}}
	cached := NewCachedDirectory(source, time.Minute)
	defer cached.Stop()

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		u, err := cached.GetUser(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "alice@example.com", u.Email)
	}
	assert.Equal(t, 1, source.userCalls, "repeat lookups must hit the cache")
}

func TestCachedDirectoryMissIsNotCached(t *testing.T) {
	source := &countingDirectory{users: map[uuid.UUID]*User{}}
	cached := NewCachedDirectory(source, time.Minute)
	defer cached.Stop()

	ctx := context.Background()
	id := uuid.New()

	_, err := cached.GetUser(ctx, id)
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = cached.GetUser(ctx, id)
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.Equal(t, 2, source.userCalls)
}

func TestCachedDirectoryInvalidate(t *testing.T) {
	id := uuid.New()
	source := &countingDirectory{users: map[uuid.UUID]*User{
		id: {ID: id, Email: "old@example.com"},
	}}
	cached := NewCachedDirectory(source, time.Minute)
	defer cached.Stop()

	ctx := context.Background()
	u, err := cached.GetUser(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "old@example.com", u.Email)

	source.mu.Lock()
	source.users[id] = &User{ID: id, Email: "new@example.com"}
	source.mu.Unlock()

	// Still served from cache until invalidated.
	u, err = cached.GetUser(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "old@example.com", u.Email)

	cached.InvalidateUser(id)
	u, err = cached.GetUser(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", u.Email)
}
