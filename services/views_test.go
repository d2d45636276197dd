package services

import (
	"testing"
	"time"

	"lexcase_app_go/models"

	"github.com/stretchr/testify/assert"
)

func day(value string) time.Time {
	d, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}
	return d
}

func TestComputeDashboardStats(t *testing.T) {
	cases := make([]models.CaseRecord, 0, 10)
	for i := 0; i < 4; i++ {
		cases = append(cases, models.CaseRecord{Status: models.CaseStatusOpen})
	}
	for i := 0; i < 6; i++ {
		cases = append(cases, models.CaseRecord{Status: models.CaseStatusArchived})
	}

	tasks := []models.TaskRecord{
		{Status: models.TaskStatusDone},
		{Status: models.TaskStatusDone},
		{Status: models.TaskStatusToDo},
		{Status: models.TaskStatusToDo},
		{Status: models.TaskStatusInProgress},
	}

	stats := ComputeDashboardStats(cases, tasks)
	assert.Equal(t, 4, stats.OpenCases)
	assert.Equal(t, 10, stats.TotalCases)
	assert.Equal(t, 3, stats.PendingTasks)
	assert.Equal(t, 40, stats.CompletionRate)
}

func TestComputeDashboardStatsEmpty(t *testing.T) {
	stats := ComputeDashboardStats(nil, nil)
	assert.Equal(t, DashboardStats{}, stats)
}

func TestCompletionRateBounds(t *testing.T) {
	all := []models.TaskRecord{{Status: models.TaskStatusDone}, {Status: models.TaskStatusDone}}
	assert.Equal(t, 100, ComputeDashboardStats(nil, all).CompletionRate)

	third := []models.TaskRecord{
		{Status: models.TaskStatusDone},
		{Status: models.TaskStatusToDo},
		{Status: models.TaskStatusToDo},
	}
	// round(100/3) = 33
	assert.Equal(t, 33, ComputeDashboardStats(nil, third).CompletionRate)

	twoThirds := []models.TaskRecord{
		{Status: models.TaskStatusDone},
		{Status: models.TaskStatusDone},
		{Status: models.TaskStatusToDo},
	}
	// round(200/3) = 67
	assert.Equal(t, 67, ComputeDashboardStats(nil, twoThirds).CompletionRate)
}

func TestNextHearing(t *testing.T) {
	chronology := []models.Hearing{
		{Date: "2024-01-10", Time: "09:00"},
		{Date: "2024-01-05", Time: "14:00"},
		{Date: "2023-12-20", Time: "10:00"},
	}

	h, ok := NextHearing(chronology, day("2024-01-01"))
	assert.True(t, ok)
	assert.Equal(t, "2024-01-05", h.Date)

	// A later reference day skips the passed hearing
	h, ok = NextHearing(chronology, day("2024-01-06"))
	assert.True(t, ok)
	assert.Equal(t, "2024-01-10", h.Date)

	// A hearing today still qualifies
	h, ok = NextHearing(chronology, day("2024-01-10"))
	assert.True(t, ok)
	assert.Equal(t, "2024-01-10", h.Date)

	// All in the past
	_, ok = NextHearing(chronology, day("2024-02-01"))
	assert.False(t, ok)

	// Empty chronology
	_, ok = NextHearing(nil, day("2024-01-01"))
	assert.False(t, ok)

	// Entries without a usable date are skipped
	_, ok = NextHearing([]models.Hearing{{Date: "", Time: "10:00"}}, day("2024-01-01"))
	assert.False(t, ok)
}

func TestEarliestHearingDate(t *testing.T) {
	// The write-boundary rule includes past hearings
	assert.Equal(t, "2023-12-20", EarliestHearingDate([]models.Hearing{
		{Date: "2024-01-10", Time: "09:00"},
		{Date: "2023-12-20", Time: "10:00"},
	}))

	assert.Equal(t, "", EarliestHearingDate(nil))
	assert.Equal(t, "", EarliestHearingDate([]models.Hearing{{Date: "", Time: "09:00"}}))
}

func TestUpcomingTimeline(t *testing.T) {
	today := day("2024-01-01")

	caseA := models.CaseRecord{ID: "a", CaseNumber: "1", HearingsChronology: []models.Hearing{
		{Date: "2024-01-05", Time: "09:00"},
		{Date: "2024-01-31", Time: "10:00"}, // day 30, inclusive
		{Date: "2024-02-01", Time: "11:00"}, // day 31, excluded
		{Date: "2023-12-31", Time: "12:00"}, // past, excluded
	}}
	caseB := models.CaseRecord{ID: "b", CaseNumber: "2", HearingsChronology: []models.Hearing{
		{Date: "2024-01-05", Time: "14:00"},
		{Date: "2024-01-01", Time: "08:00"}, // today, inclusive
	}}

	groups := UpcomingTimeline([]models.CaseRecord{caseA, caseB}, today)

	assert.Len(t, groups, 3)
	assert.Equal(t, "2024-01-01", groups[0].Date)
	assert.Equal(t, "2024-01-05", groups[1].Date)
	assert.Equal(t, "2024-01-31", groups[2].Date)

	assert.Equal(t, 2, groups[1].Count)
	// Insertion order within a date: caseA's hearing first
	assert.Equal(t, "a", groups[1].Hearings[0].Case.ID)
	assert.Equal(t, "b", groups[1].Hearings[1].Case.ID)
}

func TestUpcomingTimelineEmpty(t *testing.T) {
	assert.Empty(t, UpcomingTimeline(nil, day("2024-01-01")))
}

func TestTaskBoard(t *testing.T) {
	tasks := []models.TaskRecord{
		{ID: "1", Status: models.TaskStatusToDo},
		{ID: "2", Status: models.TaskStatusDone},
		{ID: "3", Status: models.TaskStatusInProgress},
		{ID: "4", Status: models.TaskStatusToDo},
		{ID: "5", Status: "Blocked"}, // unknown status stays off the board
	}

	board := TaskBoard(tasks)

	assert.Len(t, board, 3)
	assert.Len(t, board[models.TaskStatusToDo], 2)
	assert.Len(t, board[models.TaskStatusInProgress], 1)
	assert.Len(t, board[models.TaskStatusDone], 1)

	total := len(board[models.TaskStatusToDo]) + len(board[models.TaskStatusInProgress]) + len(board[models.TaskStatusDone])
	assert.Equal(t, 4, total)
}

func TestTaskBoardColumnsAlwaysPresent(t *testing.T) {
	board := TaskBoard(nil)
	for _, column := range models.TaskBoardColumns {
		assert.NotNil(t, board[column])
		assert.Empty(t, board[column])
	}
}

func TestRecentCasesAndTasks(t *testing.T) {
	cases := []models.CaseRecord{
		{ID: "old", CreatedAt: 100},
		{ID: "newest", CreatedAt: 300},
		{ID: "mid", CreatedAt: 200},
	}

	recent := RecentCases(cases, 2)
	assert.Len(t, recent, 2)
	assert.Equal(t, "newest", recent[0].ID)
	assert.Equal(t, "mid", recent[1].ID)

	// n larger than the set returns everything
	assert.Len(t, RecentCases(cases, 10), 3)

	tasks := []models.TaskRecord{
		{ID: "t1", CreatedAt: 5},
		{ID: "t2", CreatedAt: 7},
	}
	recentTasks := RecentTasks(tasks, 1)
	assert.Len(t, recentTasks, 1)
	assert.Equal(t, "t2", recentTasks[0].ID)

	// The input slice is not reordered
	assert.Equal(t, "old", cases[0].ID)
}
