package services

import (
	"fmt"
	"time"

	"lexcase_app_go/docstore"
	"lexcase_app_go/models"
)

// nowFunc is the clock used for timestamp fallbacks. Overridden in tests.
var nowFunc = time.Now

// Stored date and timestamp fields arrive in one of three raw shapes,
// depending on which client wrote them: a plain string, a provider-native
// timestamp object ({seconds, nanoseconds}), or a serialized timestamp
// wrapper ({timestampValue: "<ISO>"}). Each shape is classified once and
// decoded explicitly; anything else is an absent value.
type rawTimeKind int

const (
	rawTimeNone rawTimeKind = iota
	rawTimeString
	rawTimeProvider
	rawTimeSerialized
	rawTimeMillis
)

type rawTime struct {
	kind    rawTimeKind
	str     string
	seconds int64
	nanos   int64
	millis  int64
}

func classifyRawTime(raw interface{}) rawTime {
	switch v := raw.(type) {
	case nil:
		return rawTime{kind: rawTimeNone}
	case string:
		if v == "" {
			return rawTime{kind: rawTimeNone}
		}
		return rawTime{kind: rawTimeString, str: v}
	case float64:
		return rawTime{kind: rawTimeMillis, millis: int64(v)}
	case int64:
		return rawTime{kind: rawTimeMillis, millis: v}
	case int:
		return rawTime{kind: rawTimeMillis, millis: int64(v)}
	case map[string]interface{}:
		if iso, ok := v["timestampValue"].(string); ok {
			return rawTime{kind: rawTimeSerialized, str: iso}
		}
		if secs, ok := numberValue(v["seconds"]); ok {
			nanos, _ := numberValue(v["nanoseconds"])
			return rawTime{kind: rawTimeProvider, seconds: secs, nanos: nanos}
		}
		return rawTime{kind: rawTimeNone}
	default:
		return rawTime{kind: rawTimeNone}
	}
}

func numberValue(raw interface{}) (int64, bool) {
	switch v := raw.(type) {
	case float64:
		return int64(v), true
	case int64:
		return v, true
	case int:
		return int64(v), true
	default:
		return 0, false
	}
}

// NormalizeDateString decodes a raw date field to a YYYY-MM-DD string.
// Unknown or absent values normalize to "" (explicit no-date); never panics.
func NormalizeDateString(raw interface{}) string {
	rt := classifyRawTime(raw)
	switch rt.kind {
	case rawTimeString:
		if len(rt.str) > 10 {
			return rt.str[:10]
		}
		return rt.str
	case rawTimeProvider:
		return time.Unix(rt.seconds, rt.nanos).UTC().Format("2006-01-02")
	case rawTimeSerialized:
		if len(rt.str) > 10 {
			return rt.str[:10]
		}
		return rt.str
	default:
		return ""
	}
}

// NormalizeEpochMillis decodes a raw timestamp field to epoch milliseconds.
// A completely absent or malformed value falls back to "now" at decode time;
// best effort, not a guarantee of original truth.
func NormalizeEpochMillis(raw interface{}) int64 {
	rt := classifyRawTime(raw)
	switch rt.kind {
	case rawTimeMillis:
		return rt.millis
	case rawTimeProvider:
		return rt.seconds*1000 + rt.nanos/int64(time.Millisecond)
	case rawTimeSerialized, rawTimeString:
		t, err := time.Parse(time.RFC3339, rt.str)
		if err != nil {
			return nowFunc().UnixMilli()
		}
		return t.UnixMilli()
	default:
		return nowFunc().UnixMilli()
	}
}

func stringField(raw interface{}) string {
	switch v := raw.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

func boolField(raw interface{}) bool {
	b, ok := raw.(bool)
	return ok && b
}

func stringSliceField(raw interface{}) []string {
	items, ok := raw.([]interface{})
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, stringField(item))
	}
	return out
}

func hearingsField(raw interface{}) []models.Hearing {
	items, ok := raw.([]interface{})
	if !ok {
		return []models.Hearing{}
	}
	out := make([]models.Hearing, 0, len(items))
	for _, item := range items {
		entry, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		out = append(out, models.Hearing{
			Date: stringField(entry["date"]),
			Time: stringField(entry["time"]),
		})
	}
	return out
}

// NormalizeCase converts a raw stored document plus its assigned id into a
// fully-typed CaseRecord.
func NormalizeCase(id string, fields docstore.Fields) models.CaseRecord {
	return models.CaseRecord{
		ID: id,

		FirmID:   stringField(fields["firmId"]),
		FirmName: stringField(fields["firmName"]),

		CaseNumber: stringField(fields["caseNumber"]),
		CaseYear:   stringField(fields["caseYear"]),
		Type:       stringField(fields["type"]),
		Court:      stringField(fields["court"]),
		Formation:  stringField(fields["formation"]),
		Status:     stringField(fields["status"]),
		IsStarred:  boolField(fields["isStarred"]),

		ClientName:    stringField(fields["clientName"]),
		OpposingParty: stringField(fields["opposingParty"]),

		Notes: stringField(fields["notes"]),

		NextHearingDate: NormalizeDateString(fields["nextHearingDate"]),

		IsPublic:          boolField(fields["isPublic"]),
		PublicDescription: stringField(fields["publicDescription"]),

		PartiesInitials: stringSliceField(fields["partiesInitials"]),
		InitiationDate:  NormalizeDateString(fields["initiationDate"]),

		HearingsChronology: hearingsField(fields["hearingsChronology"]),

		ArchiveNumber: stringField(fields["archiveNumber"]),

		CreatedAt: NormalizeEpochMillis(fields["createdAt"]),
		UpdatedAt: NormalizeEpochMillis(fields["updatedAt"]),
	}
}

// NormalizeTask converts a raw stored document plus its assigned id into a
// fully-typed TaskRecord.
func NormalizeTask(id string, fields docstore.Fields) models.TaskRecord {
	return models.TaskRecord{
		ID:     id,
		CaseID: stringField(fields["caseId"]),
		FirmID: stringField(fields["firmId"]),

		Title: stringField(fields["title"]),

		DueDate: NormalizeDateString(fields["dueDate"]),
		Status:  stringField(fields["status"]),

		Notes: stringField(fields["notes"]),

		CreatedAt: NormalizeEpochMillis(fields["createdAt"]),
		UpdatedAt: NormalizeEpochMillis(fields["updatedAt"]),
	}
}
