package services

import (
	"testing"
	"time"

	"lexcase_app_go/docstore"
	"lexcase_app_go/models"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupDocs(t *testing.T) *docstore.Store {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	assert.NoError(t, err)

	docs := docstore.New(db)
	assert.NoError(t, docs.AutoMigrate())
	return docs
}

func setupCaseStore(t *testing.T) *CaseStore {
	return NewCaseStore(setupDocs(t), nil)
}

func testFirmUser() models.FirmUser {
	return models.FirmUser{UID: "firm-1", Email: "firm@example.com", FirmName: "Iusta & Partners"}
}

func validCaseInput() CaseInput {
	return CaseInput{
		CaseNumber:     "123",
		CaseYear:       "2024",
		Type:           models.CaseTypeCivil,
		Court:          "District Court",
		Formation:      "Single judge",
		Status:         models.CaseStatusOpen,
		ClientName:     "John Smith",
		OpposingParty:  "Acme Corp",
		InitiationDate: "2024-01-01",
	}
}

func TestCreateCaseStampsOwnershipAndTimestamps(t *testing.T) {
	store := setupCaseStore(t)
	fixed := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	withFixedNow(t, fixed)

	record, err := store.CreateCase(validCaseInput(), testFirmUser())
	assert.NoError(t, err)
	assert.NotEmpty(t, record.ID)
	assert.Equal(t, "firm-1", record.FirmID)
	assert.Equal(t, "Iusta & Partners", record.FirmName)
	assert.Equal(t, fixed.UnixMilli(), record.CreatedAt)
	assert.Equal(t, fixed.UnixMilli(), record.UpdatedAt)
	assert.Equal(t, []string{"J. S.", "A. C."}, record.PartiesInitials)

	// Appended to the in-memory firm collection
	assert.Len(t, store.FirmCases("firm-1"), 1)
}

func TestCreateCaseComputesNextHearingDate(t *testing.T) {
	store := setupCaseStore(t)
	withFixedNow(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	input := validCaseInput()
	input.HearingsChronology = []models.Hearing{
		{Date: "2024-01-10", Time: "09:00"},
		{Date: "2024-01-05", Time: "14:00"},
	}

	record, err := store.CreateCase(input, testFirmUser())
	assert.NoError(t, err)
	assert.Equal(t, "2024-01-05", record.NextHearingDate)
}

func TestCreateCaseFiltersEmptyHearings(t *testing.T) {
	store := setupCaseStore(t)

	input := validCaseInput()
	input.HearingsChronology = []models.Hearing{
		{Date: "2024-03-01", Time: "09:00"},
		{Date: "", Time: ""},
		{Date: "", Time: "10:00"}, // time-only entries survive
	}

	record, err := store.CreateCase(input, testFirmUser())
	assert.NoError(t, err)
	assert.Len(t, record.HearingsChronology, 2)

	// Round-trip: the persisted document holds the filtered chronology
	loaded, err := store.LoadFirmCases("firm-1")
	assert.NoError(t, err)
	assert.Len(t, loaded[0].HearingsChronology, 2)
}

func TestCreateCaseArchiveNumberMirrorsCaseNumber(t *testing.T) {
	store := setupCaseStore(t)

	input := validCaseInput()
	input.Status = models.CaseStatusArchived

	record, err := store.CreateCase(input, testFirmUser())
	assert.NoError(t, err)
	assert.Equal(t, "123", record.ArchiveNumber)

	open, err := store.CreateCase(validCaseInput(), testFirmUser())
	assert.NoError(t, err)
	assert.Equal(t, "", open.ArchiveNumber)
}

func TestCreateCaseValidation(t *testing.T) {
	store := setupCaseStore(t)

	input := validCaseInput()
	input.ClientName = "  "
	_, err := store.CreateCase(input, testFirmUser())
	var vErr *ValidationError
	assert.ErrorAs(t, err, &vErr)
	assert.Equal(t, "clientName", vErr.Field)

	input = validCaseInput()
	input.Type = "maritime"
	_, err = store.CreateCase(input, testFirmUser())
	assert.ErrorAs(t, err, &vErr)

	input = validCaseInput()
	input.Status = "closed" // UI label, not a stored status
	_, err = store.CreateCase(input, testFirmUser())
	assert.ErrorAs(t, err, &vErr)

	// Nothing was persisted
	loaded, err := store.LoadFirmCases("firm-1")
	assert.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestCreateCaseSanitizesNarrativeFields(t *testing.T) {
	store := setupCaseStore(t)

	input := validCaseInput()
	input.Notes = `<script>alert(1)</script>internal note`
	input.PublicDescription = `<img src=x onerror=alert(1)>visible`

	record, err := store.CreateCase(input, testFirmUser())
	assert.NoError(t, err)
	assert.NotContains(t, record.Notes, "<script>")
	assert.Contains(t, record.Notes, "internal note")
	assert.NotContains(t, record.PublicDescription, "onerror")
}

func TestLoadFirmCasesIsFirmScoped(t *testing.T) {
	store := setupCaseStore(t)

	_, err := store.CreateCase(validCaseInput(), testFirmUser())
	assert.NoError(t, err)

	other := validCaseInput()
	other.CaseNumber = "999"
	_, err = store.CreateCase(other, models.FirmUser{UID: "firm-2", FirmName: "Other"})
	assert.NoError(t, err)

	mine, err := store.LoadFirmCases("firm-1")
	assert.NoError(t, err)
	assert.Len(t, mine, 1)
	for _, c := range mine {
		assert.Equal(t, "firm-1", c.FirmID)
	}

	_, found := store.FirmCaseByID("firm-1", mine[0].ID)
	assert.True(t, found)

	// Never a case from another firm
	theirs, err := store.LoadFirmCases("firm-2")
	assert.NoError(t, err)
	_, found = store.FirmCaseByID("firm-1", theirs[0].ID)
	assert.False(t, found)
}

func TestLoadPublicCasesOnlyPublic(t *testing.T) {
	store := setupCaseStore(t)

	pub := validCaseInput()
	pub.IsPublic = true
	created, err := store.CreateCase(pub, testFirmUser())
	assert.NoError(t, err)

	private := validCaseInput()
	private.CaseNumber = "456"
	_, err = store.CreateCase(private, testFirmUser())
	assert.NoError(t, err)

	public, err := store.LoadPublicCases()
	assert.NoError(t, err)
	assert.Len(t, public, 1)
	assert.Equal(t, created.ID, public[0].ID)

	record, found := store.PublicCaseByID(created.ID)
	assert.True(t, found)
	assert.True(t, record.IsPublic)
}

func TestUpdateCaseMergesAndRestamps(t *testing.T) {
	store := setupCaseStore(t)
	created := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	withFixedNow(t, created)

	record, err := store.CreateCase(validCaseInput(), testFirmUser())
	assert.NoError(t, err)
	_, err = store.LoadFirmCases("firm-1")
	assert.NoError(t, err)

	later := created.Add(time.Hour)
	nowFunc = func() time.Time { return later }

	updated, err := store.UpdateCase(record.ID, docstore.Fields{"court": "Appellate Court"})
	assert.NoError(t, err)
	assert.Equal(t, "Appellate Court", updated.Court)
	assert.Equal(t, record.CaseNumber, updated.CaseNumber)
	assert.Equal(t, created.UnixMilli(), updated.CreatedAt)
	assert.Equal(t, later.UnixMilli(), updated.UpdatedAt)

	// In-memory record replaced by id
	inMem, found := store.FirmCaseByID("firm-1", record.ID)
	assert.True(t, found)
	assert.Equal(t, "Appellate Court", inMem.Court)
}

func TestUpdateCaseEmptyPartialChangesOnlyUpdatedAt(t *testing.T) {
	store := setupCaseStore(t)
	created := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	withFixedNow(t, created)

	input := validCaseInput()
	input.HearingsChronology = []models.Hearing{{Date: "2024-02-01", Time: "09:00"}}
	record, err := store.CreateCase(input, testFirmUser())
	assert.NoError(t, err)

	later := created.Add(time.Minute)
	nowFunc = func() time.Time { return later }

	updated, err := store.UpdateCase(record.ID, docstore.Fields{})
	assert.NoError(t, err)

	record.UpdatedAt = later.UnixMilli()
	assert.Equal(t, record, updated)
}

func TestUpdateCaseRecomputesPartiesInitials(t *testing.T) {
	store := setupCaseStore(t)

	record, err := store.CreateCase(validCaseInput(), testFirmUser())
	assert.NoError(t, err)

	updated, err := store.UpdateCase(record.ID, docstore.Fields{"clientName": "Maria Ann Jones"})
	assert.NoError(t, err)
	assert.Equal(t, []string{"M. A. J.", "A. C."}, updated.PartiesInitials)
}

func TestUpdateCaseArchivingMirrorsArchiveNumber(t *testing.T) {
	store := setupCaseStore(t)

	record, err := store.CreateCase(validCaseInput(), testFirmUser())
	assert.NoError(t, err)

	archived, err := store.UpdateCase(record.ID, docstore.Fields{"status": models.CaseStatusArchived})
	assert.NoError(t, err)
	assert.Equal(t, "123", archived.ArchiveNumber)

	reopened, err := store.UpdateCase(record.ID, docstore.Fields{"status": models.CaseStatusOpen})
	assert.NoError(t, err)
	assert.Equal(t, "", reopened.ArchiveNumber)
}

func TestUpdateCaseHearingsFromBoundJSON(t *testing.T) {
	store := setupCaseStore(t)

	input := validCaseInput()
	input.HearingsChronology = []models.Hearing{{Date: "2024-03-01", Time: "09:00"}}
	record, err := store.CreateCase(input, testFirmUser())
	assert.NoError(t, err)
	assert.Equal(t, "2024-03-01", record.NextHearingDate)

	// A bound request body delivers the chronology as []interface{} of maps
	updated, err := store.UpdateCase(record.ID, docstore.Fields{
		"hearingsChronology": []interface{}{
			map[string]interface{}{"date": "2024-03-01", "time": "09:00"},
			map[string]interface{}{"date": "2024-02-01", "time": "10:00"},
			map[string]interface{}{"date": "", "time": ""},
		},
	})
	assert.NoError(t, err)
	assert.Len(t, updated.HearingsChronology, 2, "empty entries are not persisted")
	assert.Equal(t, "2024-02-01", updated.NextHearingDate)
}

func TestUpdateCaseHearingsFromTypedSlice(t *testing.T) {
	store := setupCaseStore(t)

	record, err := store.CreateCase(validCaseInput(), testFirmUser())
	assert.NoError(t, err)

	updated, err := store.UpdateCase(record.ID, docstore.Fields{
		"hearingsChronology": []models.Hearing{
			{Date: "2024-05-01", Time: ""},
			{Date: "", Time: ""},
		},
	})
	assert.NoError(t, err)
	assert.Len(t, updated.HearingsChronology, 1)
	assert.Equal(t, "2024-05-01", updated.NextHearingDate)
}

func TestUpdateCaseNumberChangeRemirrorsArchiveNumber(t *testing.T) {
	store := setupCaseStore(t)

	input := validCaseInput()
	input.Status = models.CaseStatusArchived
	record, err := store.CreateCase(input, testFirmUser())
	assert.NoError(t, err)
	assert.Equal(t, "123", record.ArchiveNumber)

	// Renumbering an archived case moves the mirror along with it
	updated, err := store.UpdateCase(record.ID, docstore.Fields{"caseNumber": "777"})
	assert.NoError(t, err)
	assert.Equal(t, "777", updated.ArchiveNumber)

	// An open case never grows one
	open, err := store.CreateCase(validCaseInput(), testFirmUser())
	assert.NoError(t, err)
	renumbered, err := store.UpdateCase(open.ID, docstore.Fields{"caseNumber": "888"})
	assert.NoError(t, err)
	assert.Equal(t, "", renumbered.ArchiveNumber)
}

func TestUpdateCaseNotFound(t *testing.T) {
	store := setupCaseStore(t)

	_, err := store.UpdateCase("ghost", docstore.Fields{"court": "Nowhere"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteCaseLeavesPublicCollectionAlone(t *testing.T) {
	store := setupCaseStore(t)

	pub := validCaseInput()
	pub.IsPublic = true
	record, err := store.CreateCase(pub, testFirmUser())
	assert.NoError(t, err)

	_, err = store.LoadFirmCases("firm-1")
	assert.NoError(t, err)
	_, err = store.LoadPublicCases()
	assert.NoError(t, err)

	id, err := store.DeleteCase(record.ID)
	assert.NoError(t, err)
	assert.Equal(t, record.ID, id)

	// Removed from the firm collection
	_, found := store.FirmCaseByID("firm-1", record.ID)
	assert.False(t, found)

	// The public collection is an independent view and is not touched until
	// its next load
	_, found = store.PublicCaseByID(record.ID)
	assert.True(t, found)

	reloaded, err := store.LoadPublicCases()
	assert.NoError(t, err)
	assert.Empty(t, reloaded)
}

func TestRoundTripNormalization(t *testing.T) {
	store := setupCaseStore(t)
	withFixedNow(t, time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC))

	input := validCaseInput()
	input.HearingsChronology = []models.Hearing{{Date: "2024-02-01", Time: "09:00"}}
	input.Notes = "plain note"
	record, err := store.CreateCase(input, testFirmUser())
	assert.NoError(t, err)

	loaded, err := store.LoadFirmCases("firm-1")
	assert.NoError(t, err)
	assert.Len(t, loaded, 1)
	assert.Equal(t, record, loaded[0])
}
