package models

import "strings"

// Case status constants. "archived" is the only terminal state; some UIs
// render a "closed" label but it is never a stored value.
const (
	CaseStatusOpen     = "open"
	CaseStatusArchived = "archived"
)

// Case type constants
const (
	CaseTypeCivil                  = "civil"
	CaseTypeCommercial             = "commercial"
	CaseTypeCriminal               = "criminal"
	CaseTypeAdministrative         = "administrative"
	CaseTypeAdministrativeCriminal = "administrative-criminal"
)

// Hearing is a single scheduled entry in a case's chronology.
type Hearing struct {
	Date string `json:"date"`
	Time string `json:"time"`
}

// IsEmpty reports whether the entry carries neither a date nor a time.
// Empty entries are filtered out at the write boundary and never persisted.
func (h Hearing) IsEmpty() bool {
	return strings.TrimSpace(h.Date) == "" && strings.TrimSpace(h.Time) == ""
}

// CaseRecord is a legal case as stored in the "cases" document collection.
// Field names match the stored document keys.
type CaseRecord struct {
	ID string `json:"id"`

	FirmID   string `json:"firmId"`
	FirmName string `json:"firmName"`

	CaseNumber string `json:"caseNumber"`
	CaseYear   string `json:"caseYear"`
	Type       string `json:"type"`
	Court      string `json:"court"`
	Formation  string `json:"formation"`
	Status     string `json:"status"`
	IsStarred  bool   `json:"isStarred"`

	ClientName    string `json:"clientName"`
	OpposingParty string `json:"opposingParty"`

	Notes string `json:"notes"`

	NextHearingDate string `json:"nextHearingDate"`

	IsPublic          bool   `json:"isPublic"`
	PublicDescription string `json:"publicDescription"`

	PartiesInitials []string `json:"partiesInitials"`
	InitiationDate  string   `json:"initiationDate"`

	HearingsChronology []Hearing `json:"hearingsChronology"`

	ArchiveNumber string `json:"archiveNumber"`

	CreatedAt int64 `json:"createdAt"`
	UpdatedAt int64 `json:"updatedAt"`
}

// Reference returns the composite human identifier, e.g. "123/2024".
// It is unique per firm by convention only.
func (c *CaseRecord) Reference() string {
	return c.CaseNumber + "/" + c.CaseYear
}

// IsOpen checks if the case is open
func (c *CaseRecord) IsOpen() bool {
	return c.Status == CaseStatusOpen
}

// IsArchived checks if the case is archived
func (c *CaseRecord) IsArchived() bool {
	return c.Status == CaseStatusArchived
}

// PublicCaseView is the restricted field subset exposed to unauthenticated
// visitors. Internal notes and client identities never leave the firm scope.
type PublicCaseView struct {
	ID                 string    `json:"id"`
	FirmName           string    `json:"firmName"`
	CaseNumber         string    `json:"caseNumber"`
	CaseYear           string    `json:"caseYear"`
	Type               string    `json:"type"`
	Court              string    `json:"court"`
	Formation          string    `json:"formation"`
	Status             string    `json:"status"`
	PartiesInitials    []string  `json:"partiesInitials"`
	PublicDescription  string    `json:"publicDescription"`
	InitiationDate     string    `json:"initiationDate"`
	NextHearingDate    string    `json:"nextHearingDate"`
	HearingsChronology []Hearing `json:"hearingsChronology"`
}

// PublicView projects the case onto its public field subset.
func (c *CaseRecord) PublicView() PublicCaseView {
	return PublicCaseView{
		ID:                 c.ID,
		FirmName:           c.FirmName,
		CaseNumber:         c.CaseNumber,
		CaseYear:           c.CaseYear,
		Type:               c.Type,
		Court:              c.Court,
		Formation:          c.Formation,
		Status:             c.Status,
		PartiesInitials:    c.PartiesInitials,
		PublicDescription:  c.PublicDescription,
		InitiationDate:     c.InitiationDate,
		NextHearingDate:    c.NextHearingDate,
		HearingsChronology: c.HearingsChronology,
	}
}

// IsValidCaseStatus checks if the status is valid
func IsValidCaseStatus(status string) bool {
	return status == CaseStatusOpen || status == CaseStatusArchived
}

// IsValidCaseType checks if the case type is valid
func IsValidCaseType(caseType string) bool {
	validTypes := []string{
		CaseTypeCivil,
		CaseTypeCommercial,
		CaseTypeCriminal,
		CaseTypeAdministrative,
		CaseTypeAdministrativeCriminal,
	}
	for _, t := range validTypes {
		if t == caseType {
			return true
		}
	}
	return false
}

// ToInitials abbreviates a full name to dotted initials, e.g.
// "John Smith" -> "J. S.".
func ToInitials(fullName string) string {
	trimmed := strings.TrimSpace(fullName)
	if trimmed == "" {
		return ""
	}
	parts := strings.Fields(trimmed)
	initials := make([]string, 0, len(parts))
	for _, p := range parts {
		r := []rune(p)
		initials = append(initials, strings.ToUpper(string(r[0]))+".")
	}
	return strings.Join(initials, " ")
}

// PartiesInitials computes the two abbreviated party names stored on a case.
// Always recomputed from clientName/opposingParty at create/update time.
func PartiesInitials(clientName, opposingParty string) []string {
	return []string{ToInitials(clientName), ToInitials(opposingParty)}
}
