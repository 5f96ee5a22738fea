package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gamassss/linkdash/internal/domain"
	"github.com/gamassss/linkdash/internal/logger"
	"github.com/gamassss/linkdash/internal/metrics"
)

const (
	defaultCacheTTL = 24 * time.Hour
	trackTimeout    = 5 * time.Second
)

type ClickRecorder interface {
	RecordClick(ctx context.Context, click *domain.Click, newVisitor bool) error
}

type CountryResolver interface {
	Country(ctx context.Context, ip string) (string, error)
}

type RedirectService struct {
	links    LinkRepository
	cache    CacheRepository
	clicks   ClickRecorder
	visitors VisitorTracker
	geo      CountryResolver
	now      func() time.Time

	inflight sync.WaitGroup
}

func NewRedirectService(links LinkRepository, cache CacheRepository, clicks ClickRecorder, visitors VisitorTracker, geo CountryResolver) *RedirectService {
	return &RedirectService{
		links:    links,
		cache:    cache,
		clicks:   clicks,
		visitors: visitors,
		geo:      geo,
		now:      time.Now,
	}
}

func (s *RedirectService) WithClock(now func() time.Time) *RedirectService {
	s.now = now
	return s
}

// Resolve returns the link behind slug when it may be followed right now.
// Password-gated links need the matching password; an empty password yields
// ErrPasswordRequired.
func (s *RedirectService) Resolve(ctx context.Context, slug, password string) (*domain.Link, error) {
	link, err := s.lookup(ctx, slug)
	if err != nil {
		metrics.Redirects.WithLabelValues(outcome(err)).Inc()
		return nil, err
	}

	switch link.Status(s.now()) {
	case domain.StatusDisabled:
		err = domain.ErrLinkDisabled
	case domain.StatusExpired:
		err = domain.ErrLinkExpired
	case domain.StatusInactive:
		err = domain.ErrLinkNotStarted
	}
	if err == nil && link.HasPassword() {
		switch {
		case password == "":
			err = domain.ErrPasswordRequired
		case subtle.ConstantTimeCompare([]byte(password), []byte(link.Password)) != 1:
			err = domain.ErrInvalidPassword
		}
	}

	metrics.Redirects.WithLabelValues(outcome(err)).Inc()
	if err != nil {
		return nil, err
	}
	return link, nil
}

func (s *RedirectService) lookup(ctx context.Context, slug string) (*domain.Link, error) {
	link, err := s.cache.GetLink(ctx, slug)
	if err == nil && link != nil {
		return link, nil
	}

	link, err = s.links.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, domain.ErrLinkNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get link: %w", err)
	}

	ttl := defaultCacheTTL
	if link.ExpiresAt != nil {
		if until := link.ExpiresAt.Sub(s.now()); until < ttl {
			ttl = until
		}
	}
	if ttl > 0 {
		if err := s.cache.SetLink(ctx, link, ttl); err != nil {
			logger.FromContext(ctx).Warn("Failed to cache link", slog.String("slug", slug), slog.String("error", err.Error()))
		}
	}

	return link, nil
}

// TrackClick records the visit in the background. It never reports an error:
// a failed lookup or insert must not affect the redirect.
func (s *RedirectService) TrackClick(ctx context.Context, link *domain.Link, req domain.ClickRequest) {
	ctx = context.WithoutCancel(ctx)

	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()

		ctx, cancel := context.WithTimeout(ctx, trackTimeout)
		defer cancel()

		s.recordClick(ctx, link, req)
	}()
}

// Wait blocks until background click tracking has finished.
func (s *RedirectService) Wait() {
	s.inflight.Wait()
}

func (s *RedirectService) recordClick(ctx context.Context, link *domain.Link, req domain.ClickRequest) {
	log := logger.FromContext(ctx).With(slog.String("link_id", link.ID))

	click := &domain.Click{
		LinkID:    link.ID,
		IPAddress: req.IPAddress,
		UserAgent: req.UserAgent,
		Referer:   req.Referer,
		Device:    req.DeviceType,
	}

	if code, err := s.geo.Country(ctx, req.IPAddress); err != nil {
		log.Warn("Geo lookup failed", slog.String("error", err.Error()))
	} else if code != "" {
		click.Country = &code
	}

	visitorKey := req.IPAddress
	if visitorKey == "" {
		visitorKey = req.UserAgent
	}
	newVisitor, err := s.visitors.AddVisitor(ctx, link.ID, visitorKey)
	if err != nil {
		log.Warn("Failed to track visitor", slog.String("error", err.Error()))
	}

	if err := s.clicks.RecordClick(ctx, click, newVisitor); err != nil {
		metrics.ClicksRecorded.WithLabelValues("error").Inc()
		log.Error("Failed to record click", slog.String("error", err.Error()))
		return
	}

	metrics.ClicksRecorded.WithLabelValues("ok").Inc()
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrLinkNotFound), errors.Is(err, domain.ErrLinkDisabled), errors.Is(err, domain.ErrLinkNotStarted):
		return "not_found"
	case errors.Is(err, domain.ErrLinkExpired):
		return "expired"
	case errors.Is(err, domain.ErrPasswordRequired), errors.Is(err, domain.ErrInvalidPassword):
		return "password_required"
	default:
		return "error"
	}
}
