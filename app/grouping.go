package app

import (
	"sort"
	"time"

	"github.com/CrestNiraj12/ourjournal/domain"
)

const (
	longDayLayout  = "Monday, January 2"
	shortDayLayout = "Jan 2"
)

// DayGroup buckets the posts written on one local calendar day.
type DayGroup struct {
	Key        string    // DayKey
	Date       time.Time // Local midnight of the day
	Label      string    // "Today", "Yesterday" or "Monday, January 2"
	ShortLabel string    // "Today", "Yesterday" or "Jan 2"
	Posts      []domain.Post
}

// Count returns the number of posts in the group.
func (g DayGroup) Count() int {
	return len(g.Posts)
}

// GroupByDay buckets posts by local day in a single pass. Within a group the
// input order is kept; groups are then sorted newest day first.
func GroupByDay(posts []domain.Post, now time.Time, loc *time.Location) []DayGroup {
	if loc == nil {
		loc = time.Local
	}
	today := DayKey(now, loc)
	y, m, d := now.In(loc).Date()
	// Noon avoids landing on a skipped hour when stepping back across DST.
	yesterday := DayKey(time.Date(y, m, d-1, 12, 0, 0, 0, loc), loc)

	groups := make([]DayGroup, 0)
	index := make(map[string]int)
	for _, p := range posts {
		key := DayKey(p.CreatedAt, loc)
		if i, ok := index[key]; ok {
			groups[i].Posts = append(groups[i].Posts, p)
			continue
		}
		py, pm, pd := p.CreatedAt.In(loc).Date()
		date := time.Date(py, pm, pd, 0, 0, 0, 0, loc)
		g := DayGroup{
			Key:        key,
			Date:       date,
			Label:      date.Format(longDayLayout),
			ShortLabel: date.Format(shortDayLayout),
			Posts:      []domain.Post{p},
		}
		switch key {
		case today:
			g.Label, g.ShortLabel = "Today", "Today"
		case yesterday:
			g.Label, g.ShortLabel = "Yesterday", "Yesterday"
		}
		index[key] = len(groups)
		groups = append(groups, g)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Date.After(groups[j].Date)
	})
	return groups
}
