//go:build integration
// +build integration

package integration

import (
	"context"
	"testing"
	"time"

	"github.com/gamassss/linkdash/internal/domain"
	"github.com/gamassss/linkdash/internal/repository/postgres"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLink(userID, slug, url string) *domain.Link {
	return &domain.Link{
		ID:            uuid.NewString(),
		UserID:        userID,
		Slug:          slug,
		URL:           url,
		NormalizedURL: url,
		Enabled:       true,
	}
}

func TestLinkRepository_CreateAndGet(t *testing.T) {
	db, cleanup := setupTestDatabase(t)
	defer cleanup()

	repo := postgres.NewLinkRepository(db)
	ctx := context.Background()

	expiresAt := time.Now().Add(24 * time.Hour).UTC().Truncate(time.Microsecond)
	link := newTestLink("user-1", "docs", "https://docs.example.com")
	link.Name = "Docs"
	link.Password = "s3cret"
	link.ExpiresAt = &expiresAt

	require.NoError(t, repo.Create(ctx, link))
	assert.NotZero(t, link.CreatedAt, "CreatedAt should be set")

	bySlug, err := repo.GetBySlug(ctx, "docs")
	require.NoError(t, err)
	assert.Equal(t, link.ID, bySlug.ID)
	assert.Equal(t, "Docs", bySlug.Name)
	assert.Equal(t, "s3cret", bySlug.Password)
	require.NotNil(t, bySlug.ExpiresAt)
	assert.True(t, expiresAt.Equal(*bySlug.ExpiresAt))
	assert.Nil(t, bySlug.StartsAt)

	byID, err := repo.GetByID(ctx, link.ID)
	require.NoError(t, err)
	assert.Equal(t, "docs", byID.Slug)
}

func TestLinkRepository_DuplicateSlug(t *testing.T) {
	db, cleanup := setupTestDatabase(t)
	defer cleanup()

	repo := postgres.NewLinkRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newTestLink("user-1", "dup", "https://a.example.com")))

	err := repo.Create(ctx, newTestLink("user-2", "dup", "https://b.example.com"))
	assert.ErrorIs(t, err, domain.ErrSlugTaken)

	exists, err := repo.SlugExists(ctx, "dup")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestLinkRepository_URLExistsIsPerUser(t *testing.T) {
	db, cleanup := setupTestDatabase(t)
	defer cleanup()

	repo := postgres.NewLinkRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newTestLink("user-1", "one", "https://example.com")))

	exists, err := repo.URLExists(ctx, "user-1", "https://example.com")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.URLExists(ctx, "user-2", "https://example.com")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestLinkRepository_NotFound(t *testing.T) {
	db, cleanup := setupTestDatabase(t)
	defer cleanup()

	repo := postgres.NewLinkRepository(db)
	ctx := context.Background()

	_, err := repo.GetBySlug(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrLinkNotFound)

	err = repo.SetEnabled(ctx, uuid.NewString(), false)
	assert.ErrorIs(t, err, domain.ErrLinkNotFound)
}

func TestLinkRepository_UpdateAndDelete(t *testing.T) {
	db, cleanup := setupTestDatabase(t)
	defer cleanup()

	repo := postgres.NewLinkRepository(db)
	clicks := postgres.NewClickRepository(db)
	ctx := context.Background()

	link := newTestLink("user-1", "edit", "https://example.com")
	require.NoError(t, repo.Create(ctx, link))
	require.NoError(t, clicks.RecordClick(ctx, &domain.Click{LinkID: link.ID, Device: "desktop"}, true))

	require.NoError(t, repo.SetEnabled(ctx, link.ID, false))
	require.NoError(t, repo.Rename(ctx, link.ID, "Renamed"))

	got, err := repo.GetByID(ctx, link.ID)
	require.NoError(t, err)
	assert.False(t, got.Enabled)
	assert.Equal(t, "Renamed", got.Name)

	require.NoError(t, repo.Delete(ctx, link.ID))

	_, err = repo.GetByID(ctx, link.ID)
	assert.ErrorIs(t, err, domain.ErrLinkNotFound)

	var remaining int
	require.NoError(t, db.QueryRow(ctx, `SELECT COUNT(*) FROM clicks WHERE link_id = $1`, link.ID).Scan(&remaining))
	assert.Zero(t, remaining, "clicks should be removed with their link")
}

func TestLinkRepository_ListByUserOrdering(t *testing.T) {
	db, cleanup := setupTestDatabase(t)
	defer cleanup()

	repo := postgres.NewLinkRepository(db)
	clicks := postgres.NewClickRepository(db)
	ctx := context.Background()

	first := newTestLink("user-1", "first", "https://first.example.com")
	second := newTestLink("user-1", "second", "https://second.example.com")
	other := newTestLink("user-2", "other", "https://other.example.com")
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))
	require.NoError(t, repo.Create(ctx, other))

	for i := 0; i < 3; i++ {
		require.NoError(t, clicks.RecordClick(ctx, &domain.Click{LinkID: first.ID}, i == 0))
	}

	byCreated, err := repo.ListByUser(ctx, "user-1", domain.OrderByCreatedAt)
	require.NoError(t, err)
	require.Len(t, byCreated, 2)
	assert.Equal(t, "second", byCreated[0].Slug)

	byClicks, err := repo.ListByUser(ctx, "user-1", domain.OrderByClickCount)
	require.NoError(t, err)
	require.Len(t, byClicks, 2)
	assert.Equal(t, "first", byClicks[0].Slug)
	assert.EqualValues(t, 3, byClicks[0].ClickCount)
	assert.EqualValues(t, 1, byClicks[0].VisitorCount)
}
