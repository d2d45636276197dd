package services

import (
	"sort"
	"strings"
	"time"

	"lexcase_app_go/models"
)

// Pure view computations over loaded cases and tasks. Nothing here touches
// persistence; callers pass the reference day so results are reproducible.

// DashboardStats is the firm-level summary shown on the dashboard.
type DashboardStats struct {
	OpenCases      int `json:"openCases"`
	TotalCases     int `json:"totalCases"`
	PendingTasks   int `json:"pendingTasks"`
	CompletionRate int `json:"completionRate"`
}

// ComputeDashboardStats aggregates a firm's cases and tasks.
// CompletionRate is 0 when there are no tasks.
func ComputeDashboardStats(cases []models.CaseRecord, tasks []models.TaskRecord) DashboardStats {
	stats := DashboardStats{TotalCases: len(cases)}

	for _, c := range cases {
		if strings.EqualFold(c.Status, models.CaseStatusOpen) {
			stats.OpenCases++
		}
	}

	done := 0
	for _, t := range tasks {
		switch {
		case t.IsDone():
			done++
		case t.IsPending():
			stats.PendingTasks++
		}
	}

	if len(tasks) > 0 {
		// round(100 * done / total)
		stats.CompletionRate = int((float64(done)/float64(len(tasks)))*100 + 0.5)
	}
	return stats
}

func parseDay(date string) (time.Time, bool) {
	d, err := time.Parse("2006-01-02", strings.TrimSpace(date))
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// NextHearing returns the earliest hearing on or after today (date-only
// comparison). The second return is false when no hearing qualifies.
func NextHearing(chronology []models.Hearing, today time.Time) (models.Hearing, bool) {
	today = time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)

	var best models.Hearing
	var bestDay time.Time
	found := false

	for _, h := range chronology {
		d, ok := parseDay(h.Date)
		if !ok || d.Before(today) {
			continue
		}
		if !found || d.Before(bestDay) {
			best, bestDay, found = h, d, true
		}
	}
	return best, found
}

// EarliestHearingDate is the write-boundary rule for nextHearingDate: the
// earliest dated entry of the whole chronology, past entries included.
// Returns "" when no entry carries a parseable date.
func EarliestHearingDate(chronology []models.Hearing) string {
	var bestDate string
	var bestDay time.Time
	found := false

	for _, h := range chronology {
		if h.IsEmpty() {
			continue
		}
		d, ok := parseDay(h.Date)
		if !ok {
			continue
		}
		if !found || d.Before(bestDay) {
			bestDate, bestDay, found = h.Date, d, true
		}
	}
	return bestDate
}

// TimelineEntry is a (case, hearing) pair on the upcoming timeline.
type TimelineEntry struct {
	Case    models.CaseRecord `json:"case"`
	Hearing models.Hearing    `json:"hearing"`
}

// TimelineGroup is all hearings falling on one calendar date.
type TimelineGroup struct {
	Date     string          `json:"date"`
	Count    int             `json:"count"`
	Hearings []TimelineEntry `json:"hearings"`
}

// UpcomingTimeline flattens (case, hearing) pairs across a firm's cases,
// keeps hearings within [today, today+30 days] inclusive, groups them by
// calendar date and returns the groups with date keys ascending. Within a
// date, insertion order is preserved.
func UpcomingTimeline(cases []models.CaseRecord, today time.Time) []TimelineGroup {
	start := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 30)

	grouped := make(map[string][]TimelineEntry)
	for _, c := range cases {
		for _, h := range c.HearingsChronology {
			d, ok := parseDay(h.Date)
			if !ok || d.Before(start) || d.After(end) {
				continue
			}
			key := d.Format("2006-01-02")
			grouped[key] = append(grouped[key], TimelineEntry{Case: c, Hearing: h})
		}
	}

	keys := make([]string, 0, len(grouped))
	for key := range grouped {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	groups := make([]TimelineGroup, 0, len(keys))
	for _, key := range keys {
		groups = append(groups, TimelineGroup{
			Date:     key,
			Count:    len(grouped[key]),
			Hearings: grouped[key],
		})
	}
	return groups
}

// TaskBoard partitions a case's tasks into the three fixed columns in
// To Do / In Progress / Done order. A task whose status is any other value
// does not appear on the board; the plain task listings still return it.
func TaskBoard(tasks []models.TaskRecord) map[string][]models.TaskRecord {
	board := make(map[string][]models.TaskRecord, len(models.TaskBoardColumns))
	for _, column := range models.TaskBoardColumns {
		board[column] = []models.TaskRecord{}
	}
	for _, t := range tasks {
		if _, ok := board[t.Status]; ok {
			board[t.Status] = append(board[t.Status], t)
		}
	}
	return board
}

// RecentCases returns the top n cases by createdAt descending.
func RecentCases(cases []models.CaseRecord, n int) []models.CaseRecord {
	sorted := make([]models.CaseRecord, len(cases))
	copy(sorted, cases)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt > sorted[j].CreatedAt
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// RecentTasks returns the top n tasks by createdAt descending.
func RecentTasks(tasks []models.TaskRecord, n int) []models.TaskRecord {
	sorted := make([]models.TaskRecord, len(tasks))
	copy(sorted, tasks)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt > sorted[j].CreatedAt
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
