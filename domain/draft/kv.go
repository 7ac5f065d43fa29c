package draft

import (
	"time"

	"github.com/patrickmn/go-cache"
)

const DraftExpiration = 7 * 24 * time.Hour

// KV is the per-user scratch space, values are JSON documents.
type KV interface {
	Get(key string) (string, bool)
	Set(key, value string)
	Delete(key string)
}

type cacheKV struct {
	c *cache.Cache
}

// NewCacheKV keeps values for expiration, cache.NoExpiration keeps them until deleted.
func NewCacheKV(expiration time.Duration) KV {
	return &cacheKV{c: cache.New(expiration, 10*time.Minute)}
}

func (kv *cacheKV) Get(key string) (string, bool) {
	v, found := kv.c.Get(key)
	if !found {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func (kv *cacheKV) Set(key, value string) {
	kv.c.SetDefault(key, value)
}

func (kv *cacheKV) Delete(key string) {
	kv.c.Delete(key)
}

var (
	DraftKV      = NewCacheKV(DraftExpiration)
	PreferenceKV = NewCacheKV(cache.NoExpiration)
)
