package analytics

import (
	"time"

	"github.com/gamassss/linkdash/internal/domain"
)

// BuildOverview assembles the dashboard payload from a user's links, ordered by
// click count descending, and a recency-ordered click sample.
func BuildOverview(links []domain.Link, clicks []domain.Click, now time.Time) *domain.Overview {
	return &domain.Overview{
		Summary:        Summarize(links, now),
		TopLinks:       TopLinks(links),
		TopCountries:   TopCountries(clicks),
		DailyActivity:  DailyClicks(clicks, now),
		RecentActivity: RecentActivity(clicks),
	}
}
