package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gamassss/linkdash/internal/domain"
	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

var ErrCacheMiss = errors.New("cache miss")

type LinkCache struct {
	client *redis.Client
}

func NewLinkCache(client *redis.Client) *LinkCache {
	return &LinkCache{client: client}
}

// cachedLink carries the fields the redirect path needs, including the
// password, which domain.Link keeps out of JSON.
type cachedLink struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user_id"`
	Slug      string     `json:"slug"`
	URL       string     `json:"url"`
	Name      string     `json:"name"`
	Password  string     `json:"password"`
	Enabled   bool       `json:"enabled"`
	StartsAt  *time.Time `json:"starts_at"`
	ExpiresAt *time.Time `json:"expires_at"`
}

func linkKey(slug string) string {
	return fmt.Sprintf("link:%s", slug)
}

func visitorsKey(linkID string) string {
	return fmt.Sprintf("visitors:%s", linkID)
}

func (c *LinkCache) GetLink(ctx context.Context, slug string) (*domain.Link, error) {
	data, err := c.client.Get(ctx, linkKey(slug)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, err
	}

	var cl cachedLink
	if err := json.Unmarshal(data, &cl); err != nil {
		return nil, err
	}

	return &domain.Link{
		ID:        cl.ID,
		UserID:    cl.UserID,
		Slug:      cl.Slug,
		URL:       cl.URL,
		Name:      cl.Name,
		Password:  cl.Password,
		Enabled:   cl.Enabled,
		StartsAt:  cl.StartsAt,
		ExpiresAt: cl.ExpiresAt,
	}, nil
}

func (c *LinkCache) SetLink(ctx context.Context, link *domain.Link, ttl time.Duration) error {
	data, err := json.Marshal(cachedLink{
		ID:        link.ID,
		UserID:    link.UserID,
		Slug:      link.Slug,
		URL:       link.URL,
		Name:      link.Name,
		Password:  link.Password,
		Enabled:   link.Enabled,
		StartsAt:  link.StartsAt,
		ExpiresAt: link.ExpiresAt,
	})
	if err != nil {
		return err
	}

	return c.client.Set(ctx, linkKey(link.Slug), data, ttl).Err()
}

func (c *LinkCache) DeleteLink(ctx context.Context, slug string) error {
	return c.client.Del(ctx, linkKey(slug)).Err()
}

// AddVisitor records visitorKey against the link and reports whether it was
// seen for the first time.
func (c *LinkCache) AddVisitor(ctx context.Context, linkID, visitorKey string) (bool, error) {
	added, err := c.client.SAdd(ctx, visitorsKey(linkID), visitorKey).Result()
	if err != nil {
		return false, err
	}
	return added == 1, nil
}

func (c *LinkCache) ForgetVisitors(ctx context.Context, linkID string) error {
	return c.client.Del(ctx, visitorsKey(linkID)).Err()
}
