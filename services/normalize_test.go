package services

import (
	"testing"
	"time"

	"lexcase_app_go/docstore"
	"lexcase_app_go/models"

	"github.com/stretchr/testify/assert"
)

func withFixedNow(t *testing.T, fixed time.Time) {
	old := nowFunc
	nowFunc = func() time.Time { return fixed }
	t.Cleanup(func() { nowFunc = old })
}

func TestNormalizeDateString(t *testing.T) {
	// Plain string, already date-only
	assert.Equal(t, "2024-01-05", NormalizeDateString("2024-01-05"))

	// Longer ISO string truncates to the first 10 characters
	assert.Equal(t, "2024-01-05", NormalizeDateString("2024-01-05T14:00:00Z"))

	// Provider-native timestamp object
	secs := time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC).Unix()
	assert.Equal(t, "2024-03-15", NormalizeDateString(map[string]interface{}{
		"seconds":     float64(secs),
		"nanoseconds": float64(0),
	}))

	// Serialized timestamp wrapper
	assert.Equal(t, "2024-03-15", NormalizeDateString(map[string]interface{}{
		"timestampValue": "2024-03-15T09:30:00Z",
	}))

	// Absent and unknown shapes normalize to no-date, never panic
	assert.Equal(t, "", NormalizeDateString(nil))
	assert.Equal(t, "", NormalizeDateString(""))
	assert.Equal(t, "", NormalizeDateString(map[string]interface{}{"bogus": 1}))
	assert.Equal(t, "", NormalizeDateString([]interface{}{"2024-01-01"}))
}

func TestNormalizeEpochMillis(t *testing.T) {
	fixed := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	withFixedNow(t, fixed)

	// Plain number (JSON decodes to float64)
	assert.Equal(t, int64(1700000000000), NormalizeEpochMillis(float64(1700000000000)))

	// Provider-native timestamp object
	assert.Equal(t, int64(1700000000500), NormalizeEpochMillis(map[string]interface{}{
		"seconds":     float64(1700000000),
		"nanoseconds": float64(500_000_000),
	}))

	// Serialized wrapper
	iso := time.Date(2023, 11, 14, 22, 13, 20, 0, time.UTC)
	assert.Equal(t, iso.UnixMilli(), NormalizeEpochMillis(map[string]interface{}{
		"timestampValue": iso.Format(time.RFC3339),
	}))

	// Absent or malformed falls back to now
	assert.Equal(t, fixed.UnixMilli(), NormalizeEpochMillis(nil))
	assert.Equal(t, fixed.UnixMilli(), NormalizeEpochMillis("not-a-timestamp"))
	assert.Equal(t, fixed.UnixMilli(), NormalizeEpochMillis(map[string]interface{}{
		"timestampValue": "garbage",
	}))
}

func TestNormalizeCase(t *testing.T) {
	fields := docstore.Fields{
		"firmId":        "firm-1",
		"firmName":      "Iusta & Partners",
		"caseNumber":    "123",
		"caseYear":      "2024",
		"type":          "civil",
		"court":         "District Court",
		"formation":     "Single judge",
		"status":        "open",
		"isStarred":     true,
		"clientName":    "John Smith",
		"opposingParty": "Acme Corp",
		"notes":         "internal",
		"isPublic":      false,
		"partiesInitials": []interface{}{"J. S.", "A. C."},
		"initiationDate":  "2024-01-02T10:00:00.000Z",
		"hearingsChronology": []interface{}{
			map[string]interface{}{"date": "2024-01-10", "time": "09:00"},
			map[string]interface{}{"date": "2024-01-05", "time": "14:00"},
		},
		"nextHearingDate": "2024-01-05",
		"createdAt":       float64(1700000000000),
		"updatedAt":       float64(1700000001000),
	}

	record := NormalizeCase("case-1", fields)

	assert.Equal(t, "case-1", record.ID)
	assert.Equal(t, "firm-1", record.FirmID)
	assert.Equal(t, "123/2024", record.Reference())
	assert.Equal(t, "2024-01-02", record.InitiationDate)
	assert.Equal(t, "2024-01-05", record.NextHearingDate)
	assert.True(t, record.IsStarred)
	assert.False(t, record.IsPublic)
	assert.Equal(t, []string{"J. S.", "A. C."}, record.PartiesInitials)
	assert.Equal(t, []models.Hearing{
		{Date: "2024-01-10", Time: "09:00"},
		{Date: "2024-01-05", Time: "14:00"},
	}, record.HearingsChronology)
	assert.Equal(t, int64(1700000000000), record.CreatedAt)
	assert.Equal(t, int64(1700000001000), record.UpdatedAt)
}

func TestNormalizeCaseToleratesMissingFields(t *testing.T) {
	fixed := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	withFixedNow(t, fixed)

	record := NormalizeCase("case-x", docstore.Fields{})

	assert.Equal(t, "case-x", record.ID)
	assert.Equal(t, "", record.CaseNumber)
	assert.Equal(t, "", record.NextHearingDate)
	assert.Empty(t, record.HearingsChronology)
	assert.Empty(t, record.PartiesInitials)
	assert.Equal(t, fixed.UnixMilli(), record.CreatedAt)
	assert.Equal(t, fixed.UnixMilli(), record.UpdatedAt)
}

func TestNormalizeCaseCoercesNonStringScalars(t *testing.T) {
	record := NormalizeCase("c", docstore.Fields{
		"caseNumber": float64(123),
		"caseYear":   float64(2024),
	})
	assert.Equal(t, "123", record.CaseNumber)
	assert.Equal(t, "2024", record.CaseYear)
}

func TestNormalizeTask(t *testing.T) {
	record := NormalizeTask("task-1", docstore.Fields{
		"caseId":    "case-1",
		"firmId":    "firm-1",
		"title":     "Draft response",
		"dueDate":   "2024-02-01",
		"status":    "In Progress",
		"notes":     "check exhibits",
		"createdAt": float64(1700000000000),
		"updatedAt": float64(1700000000000),
	})

	assert.Equal(t, "task-1", record.ID)
	assert.Equal(t, "case-1", record.CaseID)
	assert.Equal(t, "firm-1", record.FirmID)
	assert.Equal(t, "Draft response", record.Title)
	assert.Equal(t, "2024-02-01", record.DueDate)
	assert.True(t, record.IsPending())
	assert.False(t, record.IsDone())
}
