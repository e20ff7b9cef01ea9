package memory

import (
	"time"

	"github.com/patrickmn/go-cache"

	"ideabot-be/internal/entity"
)

// ConnectionCache keeps recently used connection configs in memory so a
// busy widget does not hit the database on every turn. Entries expire on
// a short TTL because provisioning changes must be picked up quickly.
type ConnectionCache struct {
	cache *cache.Cache
}

func NewConnectionCache(ttl time.Duration) *ConnectionCache {
	c := cache.New(ttl, 2*ttl)
	return &ConnectionCache{
		cache: c,
	}
}

func (r *ConnectionCache) Save(conn *entity.Connection) {
	if conn == nil {
		return
	}
	r.cache.Set(conn.ConnectionID, conn, cache.DefaultExpiration)
}

func (r *ConnectionCache) Get(connectionID string) (*entity.Connection, bool) {
	if x, found := r.cache.Get(connectionID); found {
		return x.(*entity.Connection), true
	}
	return nil, false
}

func (r *ConnectionCache) Delete(connectionID string) {
	r.cache.Delete(connectionID)
}
