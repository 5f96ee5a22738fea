package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gamassss/linkdash/internal/analytics"
	"github.com/gamassss/linkdash/internal/domain"
	"github.com/gamassss/linkdash/internal/logger"
	"github.com/gamassss/linkdash/pkg/generator"
	"github.com/gamassss/linkdash/pkg/urlutil"
	"github.com/gamassss/linkdash/pkg/validator"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const (
	maxSlugAttempts = 10
	startsAtSkew    = time.Minute

	errBulkItemFailed = "failed to update link"
)

var expiryDurations = map[domain.ExpiryOption]time.Duration{
	domain.ExpiryOneHour:   time.Hour,
	domain.ExpiryOneDay:    24 * time.Hour,
	domain.ExpirySevenDays: 7 * 24 * time.Hour,
	domain.ExpiryThirtyDay: 30 * 24 * time.Hour,
}

type LinkRepository interface {
	Create(ctx context.Context, link *domain.Link) error
	GetByID(ctx context.Context, id string) (*domain.Link, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Link, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	URLExists(ctx context.Context, userID, normalizedURL string) (bool, error)
	ListByUser(ctx context.Context, userID string, order domain.LinkOrder) ([]domain.Link, error)
	SetEnabled(ctx context.Context, id string, enabled bool) error
	Rename(ctx context.Context, id, name string) error
	Delete(ctx context.Context, id string) error
}

type CacheRepository interface {
	GetLink(ctx context.Context, slug string) (*domain.Link, error)
	SetLink(ctx context.Context, link *domain.Link, ttl time.Duration) error
	DeleteLink(ctx context.Context, slug string) error
}

type VisitorTracker interface {
	AddVisitor(ctx context.Context, linkID, visitorKey string) (bool, error)
	ForgetVisitors(ctx context.Context, linkID string) error
}

type BulkOptions struct {
	BatchSize  int
	BatchDelay time.Duration
}

type LinkService struct {
	links    LinkRepository
	cache    CacheRepository
	visitors VisitorTracker
	bulk     BulkOptions
	now      func() time.Time
}

func NewLinkService(links LinkRepository, cache CacheRepository, visitors VisitorTracker, bulk BulkOptions) *LinkService {
	if bulk.BatchSize <= 0 {
		bulk.BatchSize = 50
	}
	return &LinkService{
		links:    links,
		cache:    cache,
		visitors: visitors,
		bulk:     bulk,
		now:      time.Now,
	}
}

// WithClock replaces the time source. Used by tests.
func (s *LinkService) WithClock(now func() time.Time) *LinkService {
	s.now = now
	return s
}

func (s *LinkService) CreateLink(ctx context.Context, userID string, req *domain.CreateLinkRequest) (*domain.Link, error) {
	if errs := validator.Validate(req); len(errs) > 0 {
		return nil, domain.NewValidationError(errs[0].Field, errs[0].Message)
	}

	formatted := urlutil.FormatURL(req.URL)
	if !validator.IsValidURL(formatted) {
		return nil, domain.NewValidationError("URL", "URL must be a valid URL")
	}

	now := s.now()
	link := &domain.Link{
		ID:            uuid.NewString(),
		UserID:        userID,
		URL:           formatted,
		NormalizedURL: urlutil.NormalizeURL(formatted),
		Name:          strings.TrimSpace(req.Name),
		Password:      req.Password,
		Enabled:       true,
	}

	startsAt := now
	if req.StartsAt != "" {
		parsed, err := time.Parse(time.RFC3339, req.StartsAt)
		if err != nil {
			return nil, domain.NewValidationError("StartsAt", "StartsAt must be an RFC3339 timestamp")
		}
		if parsed.Before(now.Add(-startsAtSkew)) {
			return nil, domain.NewValidationError("StartsAt", "StartsAt cannot be in the past")
		}
		startsAt = parsed
	}
	link.StartsAt = &startsAt

	if d, ok := expiryDurations[req.ExpiresIn]; ok {
		expiresAt := now.Add(d)
		if !expiresAt.After(startsAt) {
			return nil, domain.NewValidationError("StartsAt", "StartsAt must be before the link expires")
		}
		link.ExpiresAt = &expiresAt
	}

	duplicate, err := s.links.URLExists(ctx, userID, link.NormalizedURL)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing links: %w", err)
	}
	if duplicate {
		return nil, domain.ErrDuplicateURL
	}

	if req.Slug != "" {
		return s.createWithCustomSlug(ctx, link, req.Slug)
	}
	return s.createWithGeneratedSlug(ctx, link)
}

func (s *LinkService) createWithCustomSlug(ctx context.Context, link *domain.Link, slug string) (*domain.Link, error) {
	if !validator.IsValidSlug(slug) {
		return nil, domain.NewValidationError("Slug", "Slug may only contain letters, numbers, hyphens and underscores")
	}
	if validator.IsReservedKeyword(slug) {
		return nil, domain.NewValidationError("Slug", "Slug is reserved")
	}

	taken, err := s.links.SlugExists(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("failed to check slug: %w", err)
	}
	if taken {
		return nil, domain.ErrSlugTaken
	}

	link.Slug = slug
	if err := s.links.Create(ctx, link); err != nil {
		if errors.Is(err, domain.ErrSlugTaken) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create link: %w", err)
	}

	return link, nil
}

func (s *LinkService) createWithGeneratedSlug(ctx context.Context, link *domain.Link) (*domain.Link, error) {
	for attempt := 0; attempt < maxSlugAttempts; attempt++ {
		slug, err := generator.GenerateShortCode()
		if err != nil {
			return nil, err
		}

		taken, err := s.links.SlugExists(ctx, slug)
		if err != nil {
			return nil, fmt.Errorf("failed to check slug: %w", err)
		}
		if taken {
			continue
		}

		link.Slug = slug
		err = s.links.Create(ctx, link)
		if errors.Is(err, domain.ErrSlugTaken) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to create link: %w", err)
		}
		return link, nil
	}

	return nil, domain.ErrSlugGenerationExhausted
}

// BulkCreate creates each request independently, pacing batches so a large
// upload does not flood the database. One item failing does not stop the rest.
// If ctx ends between batches, the outcomes so far are returned with the error.
func (s *LinkService) BulkCreate(ctx context.Context, userID string, reqs []domain.CreateLinkRequest) (*domain.BulkResult, error) {
	if len(reqs) == 0 {
		return nil, domain.ErrNoItems
	}
	if len(reqs) > domain.MaxBulkCreate {
		return nil, fmt.Errorf("%w: at most %d links per upload", domain.ErrTooManyItems, domain.MaxBulkCreate)
	}

	limit := rate.Inf
	if s.bulk.BatchDelay > 0 {
		limit = rate.Every(s.bulk.BatchDelay)
	}
	limiter := rate.NewLimiter(limit, 1)

	results := make([]domain.BulkItemResult, 0, len(reqs))
	for start := 0; start < len(reqs); start += s.bulk.BatchSize {
		if err := limiter.Wait(ctx); err != nil {
			return domain.NewBulkResult(results), err
		}

		end := min(start+s.bulk.BatchSize, len(reqs))
		for i := start; i < end; i++ {
			link, err := s.CreateLink(ctx, userID, &reqs[i])
			if err != nil {
				results = append(results, domain.BulkItemResult{Index: i, Error: err.Error()})
				continue
			}
			results = append(results, domain.BulkItemResult{Index: i, ID: link.ID, Success: true, Link: link})
		}
	}

	return domain.NewBulkResult(results), nil
}

func (s *LinkService) ListLinks(ctx context.Context, userID string, q analytics.Query) (*domain.LinkList, error) {
	links, err := s.links.ListByUser(ctx, userID, domain.OrderByCreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to list links: %w", err)
	}

	now := s.now()
	return &domain.LinkList{
		Links:  analytics.FilterAndSort(links, q, now),
		Counts: analytics.FilteredCounts(links, q.Search, q.TimeRange, now),
	}, nil
}

func (s *LinkService) ToggleLink(ctx context.Context, userID, id string) (*domain.Link, error) {
	link, err := s.ownedLink(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if err := s.links.SetEnabled(ctx, id, !link.Enabled); err != nil {
		return nil, fmt.Errorf("failed to toggle link: %w", err)
	}
	link.Enabled = !link.Enabled
	s.invalidate(ctx, link.Slug)

	return link, nil
}

func (s *LinkService) RenameLink(ctx context.Context, userID, id, name string) (*domain.Link, error) {
	name = strings.TrimSpace(name)
	if utf8.RuneCountInString(name) > domain.MaxLinkNameLength {
		return nil, domain.NewValidationError("Name", fmt.Sprintf("Name must be at most %d characters", domain.MaxLinkNameLength))
	}

	link, err := s.ownedLink(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if err := s.links.Rename(ctx, id, name); err != nil {
		return nil, fmt.Errorf("failed to rename link: %w", err)
	}
	link.Name = name
	s.invalidate(ctx, link.Slug)

	return link, nil
}

func (s *LinkService) DeleteLink(ctx context.Context, userID, id string) error {
	link, err := s.ownedLink(ctx, userID, id)
	if err != nil {
		return err
	}

	if err := s.links.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete link: %w", err)
	}

	s.invalidate(ctx, link.Slug)
	if err := s.visitors.ForgetVisitors(ctx, link.ID); err != nil {
		logger.FromContext(ctx).Warn("Failed to drop visitor set", slog.String("link_id", link.ID), slog.String("error", err.Error()))
	}

	return nil
}

func (s *LinkService) BulkToggle(ctx context.Context, userID string, ids []string, enabled bool) (*domain.BulkResult, error) {
	if err := checkBatch(ids, domain.MaxBulkToggle); err != nil {
		return nil, err
	}

	return s.eachOwned(ctx, userID, ids, func(link *domain.Link) error {
		if err := s.links.SetEnabled(ctx, link.ID, enabled); err != nil {
			return err
		}
		link.Enabled = enabled
		s.invalidate(ctx, link.Slug)
		return nil
	}), nil
}

func (s *LinkService) BulkDelete(ctx context.Context, userID string, ids []string) (*domain.BulkResult, error) {
	if err := checkBatch(ids, domain.MaxBulkDelete); err != nil {
		return nil, err
	}

	return s.eachOwned(ctx, userID, ids, func(link *domain.Link) error {
		if err := s.links.Delete(ctx, link.ID); err != nil {
			return err
		}
		s.invalidate(ctx, link.Slug)
		if err := s.visitors.ForgetVisitors(ctx, link.ID); err != nil {
			logger.FromContext(ctx).Warn("Failed to drop visitor set", slog.String("link_id", link.ID), slog.String("error", err.Error()))
		}
		return nil
	}), nil
}

func checkBatch(ids []string, limit int) error {
	if len(ids) == 0 {
		return domain.ErrNoItems
	}
	if len(ids) > limit {
		return fmt.Errorf("%w: at most %d links per request", domain.ErrTooManyItems, limit)
	}
	return nil
}

func (s *LinkService) eachOwned(ctx context.Context, userID string, ids []string, apply func(*domain.Link) error) *domain.BulkResult {
	results := make([]domain.BulkItemResult, 0, len(ids))
	for i, id := range ids {
		item := domain.BulkItemResult{Index: i, ID: id}

		link, err := s.ownedLink(ctx, userID, id)
		if err == nil {
			err = apply(link)
		}
		if err != nil {
			item.Error = bulkItemError(ctx, id, err)
		} else {
			item.Success = true
		}

		results = append(results, item)
	}
	return domain.NewBulkResult(results)
}

// bulkItemError keeps storage failures out of per-item results.
func bulkItemError(ctx context.Context, id string, err error) string {
	if errors.Is(err, domain.ErrLinkNotFound) {
		return domain.ErrLinkNotFound.Error()
	}
	logger.FromContext(ctx).Error("Bulk item failed", slog.String("link_id", id), slog.String("error", err.Error()))
	return errBulkItemFailed
}

// ownedLink loads a link and hides links that belong to someone else behind
// ErrLinkNotFound.
func (s *LinkService) ownedLink(ctx context.Context, userID, id string) (*domain.Link, error) {
	link, err := s.links.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrLinkNotFound) {
			return nil, domain.ErrLinkNotFound
		}
		return nil, fmt.Errorf("failed to get link: %w", err)
	}
	if link.UserID != userID {
		return nil, domain.ErrLinkNotFound
	}
	return link, nil
}

func (s *LinkService) invalidate(ctx context.Context, slug string) {
	if err := s.cache.DeleteLink(ctx, slug); err != nil {
		logger.FromContext(ctx).Warn("Failed to invalidate cached link", slog.String("slug", slug), slog.String("error", err.Error()))
	}
}
