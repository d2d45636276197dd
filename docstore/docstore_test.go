package docstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupStore(t *testing.T) *Store {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	assert.NoError(t, err)

	store := New(db)
	assert.NoError(t, store.AutoMigrate())
	return store
}

func TestAddAndGet(t *testing.T) {
	store := setupStore(t)

	id, err := store.Add("cases", Fields{"caseNumber": "123", "isPublic": true})
	assert.NoError(t, err)
	assert.NotEmpty(t, id)

	fields, err := store.Get("cases", id)
	assert.NoError(t, err)
	assert.Equal(t, "123", fields["caseNumber"])
	assert.Equal(t, true, fields["isPublic"])
}

func TestGetMissing(t *testing.T) {
	store := setupStore(t)

	_, err := store.Get("cases", "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetIsCollectionScoped(t *testing.T) {
	store := setupStore(t)

	id, err := store.Add("cases", Fields{"caseNumber": "1"})
	assert.NoError(t, err)

	_, err = store.Get("tasks", id)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSetCreatesAndReplaces(t *testing.T) {
	store := setupStore(t)

	err := store.Set("firms", "acct-1", Fields{"firmName": "Iusta", "email": "a@b.c"})
	assert.NoError(t, err)

	// Full replace: the email field must not survive
	err = store.Set("firms", "acct-1", Fields{"firmName": "Iusta & Partners"})
	assert.NoError(t, err)

	fields, err := store.Get("firms", "acct-1")
	assert.NoError(t, err)
	assert.Equal(t, "Iusta & Partners", fields["firmName"])
	_, hasEmail := fields["email"]
	assert.False(t, hasEmail)
}

func TestUpdateMergesPartial(t *testing.T) {
	store := setupStore(t)

	id, err := store.Add("cases", Fields{"caseNumber": "7", "court": "Civil Court", "status": "open"})
	assert.NoError(t, err)

	err = store.Update("cases", id, Fields{"status": "archived"})
	assert.NoError(t, err)

	fields, err := store.Get("cases", id)
	assert.NoError(t, err)
	assert.Equal(t, "archived", fields["status"])
	assert.Equal(t, "Civil Court", fields["court"])
	assert.Equal(t, "7", fields["caseNumber"])
}

func TestUpdateMissing(t *testing.T) {
	store := setupStore(t)

	err := store.Update("cases", "ghost", Fields{"status": "archived"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDelete(t *testing.T) {
	store := setupStore(t)

	id, err := store.Add("tasks", Fields{"title": "File brief"})
	assert.NoError(t, err)

	assert.NoError(t, store.Delete("tasks", id))

	_, err = store.Get("tasks", id)
	assert.ErrorIs(t, err, ErrNotFound)

	// Deleting again is a no-op
	assert.NoError(t, store.Delete("tasks", id))
}

func TestQueryEqualityFilters(t *testing.T) {
	store := setupStore(t)

	_, err := store.Add("cases", Fields{"firmId": "firm-a", "isPublic": true, "caseNumber": "1"})
	assert.NoError(t, err)
	_, err = store.Add("cases", Fields{"firmId": "firm-a", "isPublic": false, "caseNumber": "2"})
	assert.NoError(t, err)
	_, err = store.Add("cases", Fields{"firmId": "firm-b", "isPublic": true, "caseNumber": "3"})
	assert.NoError(t, err)

	byFirm, err := store.Query("cases", Where("firmId", "firm-a"))
	assert.NoError(t, err)
	assert.Len(t, byFirm, 2)

	public, err := store.Query("cases", Where("isPublic", true))
	assert.NoError(t, err)
	assert.Len(t, public, 2)

	both, err := store.Query("cases", Where("firmId", "firm-a"), Where("isPublic", true))
	assert.NoError(t, err)
	assert.Len(t, both, 1)
	assert.Equal(t, "1", both[0].Fields["caseNumber"])
}

func TestQueryEmptyCollection(t *testing.T) {
	store := setupStore(t)

	docs, err := store.Query("cases", Where("firmId", "none"))
	assert.NoError(t, err)
	assert.Empty(t, docs)
}
