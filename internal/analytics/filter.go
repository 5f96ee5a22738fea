// Package analytics holds the pure data transformations behind the dashboard:
// link filtering and sorting, status counts, and click aggregation. Nothing in
// here touches storage or the clock; callers pass the current time in.
package analytics

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/gamassss/linkdash/internal/domain"
)

type SortField string

const (
	SortByCreatedAt    SortField = "createdAt"
	SortByClickCount   SortField = "clickCount"
	SortByVisitorCount SortField = "visitorCount"
	SortBySlug         SortField = "slug"
	SortByURL          SortField = "url"
)

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

type StatusFilter string

const (
	FilterAll      StatusFilter = "all"
	FilterActive   StatusFilter = "active"
	FilterExpired  StatusFilter = "expired"
	FilterDisabled StatusFilter = "disabled"
)

type TimeRange string

const (
	RangeAll        TimeRange = "all"
	RangeSevenDays  TimeRange = "7d"
	RangeThirtyDays TimeRange = "30d"
	RangeNinetyDays TimeRange = "90d"
)

var rangeDays = map[TimeRange]int{
	RangeSevenDays:  7,
	RangeThirtyDays: 30,
	RangeNinetyDays: 90,
}

type Query struct {
	Search    string
	SortBy    SortField
	SortOrder SortOrder
	Status    StatusFilter
	TimeRange TimeRange
}

// FilterAndSort returns a new slice holding the links that pass every filter
// in q, ordered by q.SortBy. The input slice is left untouched. Equal keys keep
// their input order.
func FilterAndSort(links []domain.Link, q Query, now time.Time) []domain.Link {
	out := make([]domain.Link, 0, len(links))
	for _, l := range links {
		if !matchesSearch(&l, q.Search) || !withinRange(&l, q.TimeRange, now) || !matchesStatus(&l, q.Status, now) {
			continue
		}
		out = append(out, l)
	}

	compare := comparator(q.SortBy)
	if q.SortOrder == SortAsc {
		slices.SortStableFunc(out, compare)
	} else {
		slices.SortStableFunc(out, func(a, b domain.Link) int { return compare(b, a) })
	}

	return out
}

// FilteredCounts applies the search and time-range filters, then counts the
// remaining links under each status predicate. The status predicates overlap,
// so active+expired+disabled need not equal Total.
func FilteredCounts(links []domain.Link, search string, tr TimeRange, now time.Time) domain.LinkCounts {
	var counts domain.LinkCounts
	for _, l := range links {
		if !matchesSearch(&l, search) || !withinRange(&l, tr, now) {
			continue
		}
		counts.Total++
		if isActive(&l, now) {
			counts.Active++
		}
		if isExpired(&l, now) {
			counts.Expired++
		}
		if isDisabled(&l) {
			counts.Disabled++
		}
	}
	return counts
}

func matchesSearch(l *domain.Link, term string) bool {
	if term == "" {
		return true
	}
	term = strings.ToLower(term)
	return strings.Contains(strings.ToLower(l.URL), term) || strings.Contains(strings.ToLower(l.Slug), term)
}

func withinRange(l *domain.Link, tr TimeRange, now time.Time) bool {
	days, ok := rangeDays[tr]
	if !ok {
		return true
	}
	return !l.CreatedAt.Before(now.AddDate(0, 0, -days))
}

func matchesStatus(l *domain.Link, f StatusFilter, now time.Time) bool {
	switch f {
	case FilterActive:
		return isActive(l, now)
	case FilterExpired:
		return isExpired(l, now)
	case FilterDisabled:
		return isDisabled(l)
	default:
		return true
	}
}

// These predicates are independent of domain.ClassifyStatus: a link that is
// both disabled and expired matches the expired and disabled filters alike,
// and links that have not started yet match none of them.
func isActive(l *domain.Link, now time.Time) bool {
	return l.Enabled &&
		(l.ExpiresAt == nil || l.ExpiresAt.After(now)) &&
		(l.StartsAt == nil || !l.StartsAt.After(now))
}

func isExpired(l *domain.Link, now time.Time) bool {
	return l.ExpiresAt != nil && !l.ExpiresAt.After(now)
}

func isDisabled(l *domain.Link) bool {
	return !l.Enabled
}

func comparator(field SortField) func(a, b domain.Link) int {
	switch field {
	case SortByClickCount:
		return func(a, b domain.Link) int { return cmp.Compare(a.ClickCount, b.ClickCount) }
	case SortByVisitorCount:
		return func(a, b domain.Link) int { return cmp.Compare(a.VisitorCount, b.VisitorCount) }
	case SortBySlug:
		return func(a, b domain.Link) int { return cmp.Compare(strings.ToLower(a.Slug), strings.ToLower(b.Slug)) }
	case SortByURL:
		return func(a, b domain.Link) int { return cmp.Compare(strings.ToLower(a.URL), strings.ToLower(b.URL)) }
	default:
		return func(a, b domain.Link) int { return a.CreatedAt.Compare(b.CreatedAt) }
	}
}
