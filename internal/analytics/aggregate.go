package analytics

import (
	"fmt"
	"slices"
	"time"

	"github.com/gamassss/linkdash/internal/domain"
)

const (
	TopLinksLimit       = 10
	TopCountriesLimit   = 10
	DailyWindowDays     = 30
	RecentActivityLimit = 50

	dateLayout = "2006-01-02"
)

// Summarize counts links by lifecycle state. Click and visitor totals come from
// the stored counters on each link, not from any click sample.
func Summarize(links []domain.Link, now time.Time) domain.OverviewSummary {
	s := domain.OverviewSummary{TotalLinks: len(links)}
	for i := range links {
		l := &links[i]
		if l.Enabled {
			s.ActiveLinks++
		}
		switch l.Status(now) {
		case domain.StatusExpired:
			s.ExpiredLinks++
		case domain.StatusInactive:
			s.PendingLinks++
		}
		s.TotalClicks += l.ClickCount
		s.TotalVisitors += l.VisitorCount
	}
	s.InactiveLinks = s.TotalLinks - s.ActiveLinks
	return s
}

// TopLinks expects links already ordered by click count, highest first.
func TopLinks(links []domain.Link) []domain.TopLink {
	top := make([]domain.TopLink, 0, TopLinksLimit)
	for _, l := range links {
		if len(top) == TopLinksLimit {
			break
		}
		if l.ClickCount <= 0 {
			continue
		}
		top = append(top, domain.TopLink{
			ID:       l.ID,
			Name:     l.Name,
			Slug:     l.Slug,
			URL:      l.URL,
			Clicks:   l.ClickCount,
			Visitors: l.VisitorCount,
			CTR:      clicksPerVisitor(l.ClickCount, l.VisitorCount),
		})
	}
	return top
}

func clicksPerVisitor(clicks, visitors int64) string {
	if visitors <= 0 {
		return "0"
	}
	return fmt.Sprintf("%.2f", float64(clicks)/float64(visitors))
}

// TopCountries groups the sample by country, skipping clicks without one.
// Percentages are relative to the clicks that do carry a country.
func TopCountries(clicks []domain.Click) []domain.CountryStat {
	counts := make(map[string]int)
	var order []string
	located := 0
	for _, c := range clicks {
		if c.Country == nil || *c.Country == "" {
			continue
		}
		if _, seen := counts[*c.Country]; !seen {
			order = append(order, *c.Country)
		}
		counts[*c.Country]++
		located++
	}

	slices.SortStableFunc(order, func(a, b string) int { return counts[b] - counts[a] })
	if len(order) > TopCountriesLimit {
		order = order[:TopCountriesLimit]
	}

	stats := make([]domain.CountryStat, 0, len(order))
	for _, country := range order {
		stats = append(stats, domain.CountryStat{
			Country:    country,
			Clicks:     counts[country],
			Percentage: fmt.Sprintf("%.1f", float64(counts[country])/float64(located)*100),
		})
	}
	return stats
}

// DailyClicks buckets the sample into the trailing DailyWindowDays UTC calendar
// days ending today. Days without clicks are present with a zero count.
func DailyClicks(clicks []domain.Click, now time.Time) []domain.DailyActivity {
	perDay := make(map[string]int)
	for _, c := range clicks {
		perDay[c.Timestamp.UTC().Format(dateLayout)]++
	}

	today := now.UTC()
	start := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, -(DailyWindowDays - 1))

	days := make([]domain.DailyActivity, DailyWindowDays)
	for i := range days {
		date := start.AddDate(0, 0, i).Format(dateLayout)
		days[i] = domain.DailyActivity{Date: date, Clicks: perDay[date]}
	}
	return days
}

// RecentActivity expects the sample ordered newest first.
func RecentActivity(clicks []domain.Click) []domain.RecentActivity {
	n := min(len(clicks), RecentActivityLimit)
	recent := make([]domain.RecentActivity, 0, n)
	for _, c := range clicks[:n] {
		recent = append(recent, domain.RecentActivity{
			ID:        c.ID,
			Timestamp: c.Timestamp,
			Country:   c.Country,
			LinkName:  c.LinkName,
			LinkSlug:  c.LinkSlug,
		})
	}
	return recent
}
