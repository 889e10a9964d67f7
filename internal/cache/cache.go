package cache

import (
	"encoding/json"
	"strconv"
	"time"

	gocache "github.com/patrickmn/go-cache"
	log "github.com/sirupsen/logrus"

	"github.com/maxaizer/vacancy-service/internal/logger"
)

const (
	tokenPrefix = "token"
	userPrefix  = "user"
)

// Repository is a prefix-namespaced TTL cache holding JSON-serialized
// snapshots. A miss is never an error; callers fall through to the
// database and repopulate.
type Repository struct {
	cache *gocache.Cache
}

func NewRepository() *Repository {
	return &Repository{cache: gocache.New(time.Hour, 10*time.Minute)}
}

func cacheKey(prefix string, id string) string {
	return prefix + ":" + id
}

func (r *Repository) GetCachedItem(prefix string, id string, dest any) bool {

	value, found := r.cache.Get(cacheKey(prefix, id))
	if !found {
		return false
	}

	data, ok := value.([]byte)
	if !ok {
		return false
	}

	if err := json.Unmarshal(data, dest); err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeCache).
			Errorf("failed to decode cached %v item: %v", prefix, err)
		return false
	}
	return true
}

// CacheItem stores data under prefix:id; ttl <= 0 stores without expiry.
func (r *Repository) CacheItem(prefix string, id string, data any, ttl time.Duration) {

	encoded, err := json.Marshal(data)
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeCache).
			Errorf("failed to encode %v item for cache: %v", prefix, err)
		return
	}

	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	r.cache.Set(cacheKey(prefix, id), encoded, ttl)
}

func (r *Repository) DeleteCache(prefix string, id string) {
	r.cache.Delete(cacheKey(prefix, id))
}

func (r *Repository) GetCachedToken(token string, dest any) bool {
	return r.GetCachedItem(tokenPrefix, token, dest)
}

func (r *Repository) CacheToken(token string, data any, ttl time.Duration) {
	r.CacheItem(tokenPrefix, token, data, ttl)
}

func (r *Repository) DeleteTokenCache(token string) {
	r.DeleteCache(tokenPrefix, token)
}

func (r *Repository) GetCachedUser(userID int, dest any) bool {
	return r.GetCachedItem(userPrefix, strconv.Itoa(userID), dest)
}

func (r *Repository) CacheUser(userID int, data any, ttl time.Duration) {
	r.CacheItem(userPrefix, strconv.Itoa(userID), data, ttl)
}

func (r *Repository) DeleteUserCache(userID int) {
	r.DeleteCache(userPrefix, strconv.Itoa(userID))
}
