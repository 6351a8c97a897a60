package users

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jellydator/ttlcache/v3"
)

// CachedDirectory is a read-through TTL cache in front of a Directory.
// Entries are dropped on Invalidate when the underlying account mutates.
type CachedDirectory struct {
	source Directory
	users  *ttlcache.Cache[uuid.UUID, *User]
	orgs   *ttlcache.Cache[uuid.UUID, *Organization]
}

// NewCachedDirectory wraps source with per-entry TTL caches.
func NewCachedDirectory(source Directory, ttl time.Duration) *CachedDirectory {
	d := &CachedDirectory{
		source: source,
		users: ttlcache.New(
			ttlcache.WithTTL[uuid.UUID, *User](ttl),
		),
		orgs: ttlcache.New(
			ttlcache.WithTTL[uuid.UUID, *Organization](ttl),
		),
	}
	go d.users.Start()
	go d.orgs.Start()
	return d
}

func (d *CachedDirectory) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	if item := d.users.Get(id); item != nil {
		return item.Value(), nil
	}
	user, err := d.source.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	d.users.Set(id, user, ttlcache.DefaultTTL)
	return user, nil
}

func (d *CachedDirectory) GetOrganization(ctx context.Context, id uuid.UUID) (*Organization, error) {
	if item := d.orgs.Get(id); item != nil {
		return item.Value(), nil
	}
	org, err := d.source.GetOrganization(ctx, id)
	if err != nil {
		return nil, err
	}
	d.orgs.Set(id, org, ttlcache.DefaultTTL)
	return org, nil
}

// InvalidateUser drops the cached entry for a mutated account.
func (d *CachedDirectory) InvalidateUser(id uuid.UUID) {
	d.users.Delete(id)
}

// InvalidateOrganization drops the cached entry for a mutated organization.
func (d *CachedDirectory) InvalidateOrganization(id uuid.UUID) {
	d.orgs.Delete(id)
}

// Stop shuts down the cache janitors.
func (d *CachedDirectory) Stop() {
	d.users.Stop()
	d.orgs.Stop()
}
