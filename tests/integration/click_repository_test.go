//go:build integration
// +build integration

package integration

import (
	"context"
	"testing"

	"github.com/gamassss/linkdash/internal/domain"
	"github.com/gamassss/linkdash/internal/repository/postgres"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClickRepository_RecordAndHistory(t *testing.T) {
	db, cleanup := setupTestDatabase(t)
	defer cleanup()

	links := postgres.NewLinkRepository(db)
	clicks := postgres.NewClickRepository(db)
	ctx := context.Background()

	link := newTestLink("user-1", "hist", "https://example.com")
	link.Name = "History"
	require.NoError(t, links.Create(ctx, link))

	country := "US"
	for i := 0; i < 5; i++ {
		click := &domain.Click{LinkID: link.ID, IPAddress: "203.0.113.1", UserAgent: "test", Device: "desktop", Country: &country}
		require.NoError(t, clicks.RecordClick(ctx, click, false))
		assert.NotZero(t, click.ID)
	}

	history, err := clicks.History(ctx, link.ID, 2, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 5, history.Total)
	assert.Equal(t, 3, history.TotalPages)
	assert.Len(t, history.Clicks, 2)

	recent, err := clicks.RecentByUser(ctx, "user-1", 3)
	require.NoError(t, err)
	require.Len(t, recent, 3)
	assert.Equal(t, "History", recent[0].LinkName)
	assert.Equal(t, "hist", recent[0].LinkSlug)
	require.NotNil(t, recent[0].Country)
	assert.Equal(t, "US", *recent[0].Country)

	none, err := clicks.RecentByUser(ctx, "user-2", 3)
	require.NoError(t, err)
	assert.Empty(t, none)
}
