package service

import (
	"context"
	"encoding/json"
	"time"

	"rbac_system/internal/domain/model"

	"github.com/redis/go-redis/v9"
)

const identityCacheKeyPrefix = "identity:user:"

// IdentityCache is a read-through cache of resolved user records,
// keyed by email. Entries never hold the password hash; login always
// goes to the repository. Update and delete invalidate the entry so a
// deleted user's still-live token stops resolving within one request.
type IdentityCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewIdentityCache(rdb *redis.Client, ttl time.Duration) *IdentityCache {
	return &IdentityCache{rdb: rdb, ttl: ttl}
}

type cachedUser struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Role      model.Role `json:"role"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (c *IdentityCache) Get(ctx context.Context, email string) (*model.User, bool) {
	if c == nil || c.rdb == nil {
		return nil, false
	}
	data, err := c.rdb.Get(ctx, identityCacheKeyPrefix+email).Bytes()
	if err != nil {
		return nil, false // miss or redis unavailable, fall through to storage
	}
	var entry cachedUser
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, false
	}
	return &model.User{
		ID:        entry.ID,
		Name:      entry.Name,
		Email:     entry.Email,
		Role:      entry.Role,
		CreatedAt: entry.CreatedAt,
		UpdatedAt: entry.UpdatedAt,
	}, true
}

func (c *IdentityCache) Set(ctx context.Context, user *model.User) {
	if c == nil || c.rdb == nil {
		return
	}
	data, err := json.Marshal(cachedUser{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	})
	if err != nil {
		return
	}
	c.rdb.Set(ctx, identityCacheKeyPrefix+user.Email, data, c.ttl)
}

func (c *IdentityCache) Invalidate(ctx context.Context, emails ...string) {
	if c == nil || c.rdb == nil || len(emails) == 0 {
		return
	}
	keys := make([]string, len(emails))
	for i, email := range emails {
		keys[i] = identityCacheKeyPrefix + email
	}
	c.rdb.Del(ctx, keys...)
}
