package services

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"lexcase_app_go/docstore"
	"lexcase_app_go/models"

	"github.com/microcosm-cc/bluemonday"
)

const casesCollection = "cases"

// sanitizer strips markup from free-text narrative fields at the write
// boundary. Sanitization never rejects a write.
var sanitizer = bluemonday.UGCPolicy()

// CaseInput is the caller-supplied payload for creating a case. Ownership
// and timestamps are stamped by the store, never taken from the caller.
type CaseInput struct {
	CaseNumber         string           `json:"caseNumber"`
	CaseYear           string           `json:"caseYear"`
	Type               string           `json:"type"`
	Court              string           `json:"court"`
	Formation          string           `json:"formation"`
	Status             string           `json:"status"`
	IsStarred          bool             `json:"isStarred"`
	ClientName         string           `json:"clientName"`
	OpposingParty      string           `json:"opposingParty"`
	Notes              string           `json:"notes"`
	IsPublic           bool             `json:"isPublic"`
	PublicDescription  string           `json:"publicDescription"`
	InitiationDate     string           `json:"initiationDate"`
	HearingsChronology []models.Hearing `json:"hearingsChronology"`
}

// Validate checks required fields and enumerations before any store call.
func (in *CaseInput) Validate() error {
	required := []struct{ field, value string }{
		{"caseNumber", in.CaseNumber},
		{"caseYear", in.CaseYear},
		{"type", in.Type},
		{"court", in.Court},
		{"formation", in.Formation},
		{"clientName", in.ClientName},
		{"opposingParty", in.OpposingParty},
		{"initiationDate", in.InitiationDate},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return NewValidationError(r.field, "is required")
		}
	}
	if !models.IsValidCaseType(in.Type) {
		return NewValidationError("type", "unknown case type")
	}
	if in.Status != "" && !models.IsValidCaseStatus(in.Status) {
		return NewValidationError("status", "unknown case status")
	}
	return nil
}

// CaseStore holds the loaded case collections and persists every mutation
// through the document store before touching memory. One instance is created
// at process start and injected into the HTTP layer.
type CaseStore struct {
	docs  *docstore.Store
	cache *PublicCaseCache // optional, may be nil

	mu           sync.RWMutex
	firmCases    map[string][]models.CaseRecord
	publicCases  []models.CaseRecord
	publicLoaded bool
	loading      bool
	lastError    string
}

// NewCaseStore creates a CaseStore. cache may be nil when Redis is not
// configured.
func NewCaseStore(docs *docstore.Store, cache *PublicCaseCache) *CaseStore {
	return &CaseStore{
		docs:      docs,
		cache:     cache,
		firmCases: make(map[string][]models.CaseRecord),
	}
}

// Loading reports whether a load operation is in flight.
func (s *CaseStore) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Error returns the message of the last failed load, or "".
func (s *CaseStore) Error() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastError
}

func (s *CaseStore) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	if v {
		s.lastError = ""
	}
	s.mu.Unlock()
}

func (s *CaseStore) setError(msg string) {
	s.mu.Lock()
	s.lastError = msg
	s.loading = false
	s.mu.Unlock()
}

// LoadFirmCases fetches all cases owned by a firm and replaces that firm's
// in-memory collection. Failures are surfaced, not retried.
func (s *CaseStore) LoadFirmCases(firmID string) ([]models.CaseRecord, error) {
	s.setLoading(true)

	docs, err := s.docs.Query(casesCollection, docstore.Where("firmId", firmID))
	if err != nil {
		storeErr := NewStoreError("load firm cases", err)
		s.setError(storeErr.Message)
		return nil, storeErr
	}

	records := make([]models.CaseRecord, 0, len(docs))
	for _, doc := range docs {
		records = append(records, NormalizeCase(doc.ID, doc.Fields))
	}

	s.mu.Lock()
	s.firmCases[firmID] = records
	s.loading = false
	s.mu.Unlock()

	return records, nil
}

// LoadPublicCases fetches all publicly visible cases into the independent
// public collection. The Redis cache, when configured, is consulted first
// and refreshed on a miss; cache failures degrade to a direct query.
func (s *CaseStore) LoadPublicCases() ([]models.CaseRecord, error) {
	s.setLoading(true)

	if s.cache != nil {
		if cached, ok := s.cache.Get(); ok {
			s.mu.Lock()
			s.publicCases = cached
			s.publicLoaded = true
			s.loading = false
			s.mu.Unlock()
			return cached, nil
		}
	}

	docs, err := s.docs.Query(casesCollection, docstore.Where("isPublic", true))
	if err != nil {
		storeErr := NewStoreError("load public cases", err)
		s.setError(storeErr.Message)
		return nil, storeErr
	}

	records := make([]models.CaseRecord, 0, len(docs))
	for _, doc := range docs {
		records = append(records, NormalizeCase(doc.ID, doc.Fields))
	}

	if s.cache != nil {
		s.cache.Set(records)
	}

	s.mu.Lock()
	s.publicCases = records
	s.publicLoaded = true
	s.loading = false
	s.mu.Unlock()

	return records, nil
}

// CreateCase persists a new case owned by firmUser and appends it to the
// firm's in-memory collection. The in-memory mutation happens only after
// the persistence call succeeds.
func (s *CaseStore) CreateCase(input CaseInput, firmUser models.FirmUser) (models.CaseRecord, error) {
	if err := input.Validate(); err != nil {
		return models.CaseRecord{}, err
	}

	status := input.Status
	if status == "" {
		status = models.CaseStatusOpen
	}

	// Hearing entries with both date and time empty are not persisted.
	hearings := make([]models.Hearing, 0, len(input.HearingsChronology))
	for _, h := range input.HearingsChronology {
		if !h.IsEmpty() {
			hearings = append(hearings, h)
		}
	}

	now := nowFunc().UnixMilli()
	nextHearing := EarliestHearingDate(hearings)

	archiveNumber := ""
	if status == models.CaseStatusArchived {
		archiveNumber = input.CaseNumber
	}

	fields := docstore.Fields{
		"firmId":             firmUser.UID,
		"firmName":           firmUser.FirmName,
		"caseNumber":         input.CaseNumber,
		"caseYear":           input.CaseYear,
		"type":               input.Type,
		"court":              input.Court,
		"formation":          input.Formation,
		"status":             status,
		"isStarred":          input.IsStarred,
		"clientName":         input.ClientName,
		"opposingParty":      input.OpposingParty,
		"notes":              nullableString(sanitizer.Sanitize(input.Notes)),
		"isPublic":           input.IsPublic,
		"publicDescription":  nullableString(sanitizer.Sanitize(input.PublicDescription)),
		"partiesInitials":    models.PartiesInitials(input.ClientName, input.OpposingParty),
		"initiationDate":     input.InitiationDate,
		"hearingsChronology": hearings,
		"nextHearingDate":    nullableString(nextHearing),
		"archiveNumber":      nullableString(archiveNumber),
		"createdAt":          now,
		"updatedAt":          now,
	}

	id, err := s.docs.Add(casesCollection, fields)
	if err != nil {
		return models.CaseRecord{}, NewStoreError("create case", err)
	}

	record := models.CaseRecord{
		ID:                 id,
		FirmID:             firmUser.UID,
		FirmName:           firmUser.FirmName,
		CaseNumber:         input.CaseNumber,
		CaseYear:           input.CaseYear,
		Type:               input.Type,
		Court:              input.Court,
		Formation:          input.Formation,
		Status:             status,
		IsStarred:          input.IsStarred,
		ClientName:         input.ClientName,
		OpposingParty:      input.OpposingParty,
		Notes:              sanitizer.Sanitize(input.Notes),
		IsPublic:           input.IsPublic,
		PublicDescription:  sanitizer.Sanitize(input.PublicDescription),
		PartiesInitials:    models.PartiesInitials(input.ClientName, input.OpposingParty),
		InitiationDate:     input.InitiationDate,
		HearingsChronology: hearings,
		NextHearingDate:    nextHearing,
		ArchiveNumber:      archiveNumber,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	s.mu.Lock()
	s.firmCases[record.FirmID] = append(s.firmCases[record.FirmID], record)
	s.mu.Unlock()

	s.invalidatePublicCache()
	return record, nil
}

// UpdateCase merges partial fields into the stored document, re-stamps
// updatedAt, and replaces the matching in-memory record with the canonical
// post-update record re-fetched from the store.
func (s *CaseStore) UpdateCase(caseID string, partial docstore.Fields) (models.CaseRecord, error) {
	existing, err := s.docs.Get(casesCollection, caseID)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return models.CaseRecord{}, fmt.Errorf("update case: %w", ErrNotFound)
		}
		return models.CaseRecord{}, NewStoreError("update case", err)
	}

	update := make(docstore.Fields, len(partial)+4)
	for k, v := range partial {
		update[k] = v
	}

	if status, ok := update["status"].(string); ok && !models.IsValidCaseStatus(status) {
		return models.CaseRecord{}, NewValidationError("status", "unknown case status")
	}

	// Narrative fields are sanitized on every write.
	if notes, ok := update["notes"].(string); ok {
		update["notes"] = nullableString(sanitizer.Sanitize(notes))
	}
	if desc, ok := update["publicDescription"].(string); ok {
		update["publicDescription"] = nullableString(sanitizer.Sanitize(desc))
	}

	// partiesInitials is derived, never edited independently.
	if _, hasClient := update["clientName"]; hasClient || hasField(update, "opposingParty") {
		client := mergedString(update, existing, "clientName")
		opposing := mergedString(update, existing, "opposingParty")
		update["partiesInitials"] = models.PartiesInitials(client, opposing)
	}
	delete(update, "id")

	// A changed chronology re-derives nextHearingDate with the write rule.
	// Bound JSON arrives as []interface{}, direct callers pass []models.Hearing.
	if raw, ok := update["hearingsChronology"]; ok {
		hearings, typed := raw.([]models.Hearing)
		if !typed {
			hearings = hearingsField(raw)
		}
		kept := make([]models.Hearing, 0, len(hearings))
		for _, h := range hearings {
			if !h.IsEmpty() {
				kept = append(kept, h)
			}
		}
		update["hearingsChronology"] = kept
		update["nextHearingDate"] = nullableString(EarliestHearingDate(kept))
	}

	// archiveNumber mirrors caseNumber only while archived.
	if status, ok := update["status"].(string); ok {
		if status == models.CaseStatusArchived {
			update["archiveNumber"] = mergedString(update, existing, "caseNumber")
		} else {
			update["archiveNumber"] = nil
		}
	} else if hasField(update, "caseNumber") && stringField(existing["status"]) == models.CaseStatusArchived {
		update["archiveNumber"] = stringField(update["caseNumber"])
	}

	update["updatedAt"] = nowFunc().UnixMilli()

	if err := s.docs.Update(casesCollection, caseID, update); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return models.CaseRecord{}, fmt.Errorf("update case: %w", ErrNotFound)
		}
		return models.CaseRecord{}, NewStoreError("update case", err)
	}

	// Re-fetch so store-side derived values stay correct instead of echoing
	// the input back.
	canonical, err := s.docs.Get(casesCollection, caseID)
	if err != nil {
		return models.CaseRecord{}, NewStoreError("update case", err)
	}
	record := NormalizeCase(caseID, canonical)

	s.mu.Lock()
	collection := s.firmCases[record.FirmID]
	for i := range collection {
		if collection[i].ID == record.ID {
			collection[i] = record
			break
		}
	}
	s.mu.Unlock()

	s.invalidatePublicCache()
	return record, nil
}

// DeleteCase removes the document and the matching record from the firm
// collection. The public collection is independent and left untouched.
func (s *CaseStore) DeleteCase(caseID string) (string, error) {
	if err := s.docs.Delete(casesCollection, caseID); err != nil {
		return "", NewStoreError("delete case", err)
	}

	s.mu.Lock()
	for firmID, collection := range s.firmCases {
		kept := collection[:0]
		for _, c := range collection {
			if c.ID != caseID {
				kept = append(kept, c)
			}
		}
		s.firmCases[firmID] = kept
	}
	s.mu.Unlock()

	s.invalidatePublicCache()
	return caseID, nil
}

// FirmCases returns the loaded collection for a firm.
func (s *CaseStore) FirmCases(firmID string) []models.CaseRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.CaseRecord, len(s.firmCases[firmID]))
	copy(out, s.firmCases[firmID])
	return out
}

// PublicCases returns the loaded public collection.
func (s *CaseStore) PublicCases() []models.CaseRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.CaseRecord, len(s.publicCases))
	copy(out, s.publicCases)
	return out
}

// FirmCaseByID looks up a case in the loaded firm collection. The second
// return is false when the case is not there.
func (s *CaseStore) FirmCaseByID(firmID, id string) (models.CaseRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.firmCases[firmID] {
		if c.ID == id {
			return c, true
		}
	}
	return models.CaseRecord{}, false
}

// PublicCaseByID looks up a case in the loaded public collection.
func (s *CaseStore) PublicCaseByID(id string) (models.CaseRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.publicCases {
		if c.ID == id {
			return c, true
		}
	}
	return models.CaseRecord{}, false
}

// GetCase fetches a case straight from the document store, bypassing the
// in-memory collections. Used for ownership checks before mutations.
func (s *CaseStore) GetCase(caseID string) (models.CaseRecord, error) {
	fields, err := s.docs.Get(casesCollection, caseID)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return models.CaseRecord{}, fmt.Errorf("get case: %w", ErrNotFound)
		}
		return models.CaseRecord{}, NewStoreError("get case", err)
	}
	return NormalizeCase(caseID, fields), nil
}

func (s *CaseStore) invalidatePublicCache() {
	if s.cache != nil {
		s.cache.Invalidate()
	}
}

func nullableString(v string) interface{} {
	if v == "" {
		return nil
	}
	return v
}

func hasField(fields docstore.Fields, key string) bool {
	_, ok := fields[key]
	return ok
}

func mergedString(update, existing docstore.Fields, key string) string {
	if v, ok := update[key]; ok {
		return stringField(v)
	}
	return stringField(existing[key])
}
