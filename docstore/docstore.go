// Package docstore provides a collection/document persistence layer with
// equality-filtered queries, backed by a single gorm-managed table. Documents
// are schemaless JSON; filterable fields are reached through json_extract.
package docstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a document does not exist.
var ErrNotFound = errors.New("document not found")

// Fields is the raw field map of a stored document.
type Fields map[string]interface{}

// Document is a stored row. Data holds the serialized field map.
type Document struct {
	ID         string    `gorm:"primarykey;type:varchar(36)"`
	Collection string    `gorm:"not null;index:idx_documents_collection"`
	Data       string    `gorm:"type:text;not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// TableName specifies the table name for Document model
func (Document) TableName() string {
	return "documents"
}

// Doc is a decoded document returned by queries.
type Doc struct {
	ID     string
	Fields Fields
}

// Filter is a single equality condition on a document field.
type Filter struct {
	Field string
	Value interface{}
}

// Where builds an equality filter, e.g. Where("firmId", id).
func Where(field string, value interface{}) Filter {
	return Filter{Field: field, Value: value}
}

// Store wraps a gorm connection with document-collection operations.
type Store struct {
	db *gorm.DB
}

// New creates a Store on top of an existing gorm connection.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// AutoMigrate creates the backing table.
func (s *Store) AutoMigrate() error {
	if err := s.db.AutoMigrate(&Document{}); err != nil {
		return fmt.Errorf("failed to migrate documents table: %w", err)
	}
	return nil
}

// Add inserts a new document with a store-assigned id and returns the id.
func (s *Store) Add(collection string, fields Fields) (string, error) {
	data, err := json.Marshal(fields)
	if err != nil {
		return "", fmt.Errorf("failed to encode document: %w", err)
	}

	doc := Document{
		ID:         uuid.New().String(),
		Collection: collection,
		Data:       string(data),
	}
	if err := s.db.Create(&doc).Error; err != nil {
		return "", fmt.Errorf("failed to create document: %w", err)
	}
	return doc.ID, nil
}

// Set writes a document under a caller-chosen id, creating or fully
// replacing it.
func (s *Store) Set(collection, id string, fields Fields) error {
	data, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}

	var existing Document
	err = s.db.Where("collection = ? AND id = ?", collection, id).First(&existing).Error
	if err == nil {
		existing.Data = string(data)
		if err := s.db.Save(&existing).Error; err != nil {
			return fmt.Errorf("failed to replace document: %w", err)
		}
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to look up document: %w", err)
	}

	doc := Document{ID: id, Collection: collection, Data: string(data)}
	if err := s.db.Create(&doc).Error; err != nil {
		return fmt.Errorf("failed to create document: %w", err)
	}
	return nil
}

// Get fetches a single document by id.
func (s *Store) Get(collection, id string) (Fields, error) {
	var doc Document
	err := s.db.Where("collection = ? AND id = ?", collection, id).First(&doc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch document: %w", err)
	}
	return decodeFields(doc.Data)
}

// Update merges partial fields into an existing document. Fields not named
// in partial are left untouched.
func (s *Store) Update(collection, id string, partial Fields) error {
	var doc Document
	err := s.db.Where("collection = ? AND id = ?", collection, id).First(&doc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to fetch document: %w", err)
	}

	fields, err := decodeFields(doc.Data)
	if err != nil {
		return err
	}
	for k, v := range partial {
		fields[k] = v
	}

	data, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}
	doc.Data = string(data)
	if err := s.db.Save(&doc).Error; err != nil {
		return fmt.Errorf("failed to update document: %w", err)
	}
	return nil
}

// Delete removes a document. Deleting a missing document is not an error.
func (s *Store) Delete(collection, id string) error {
	result := s.db.Where("collection = ? AND id = ?", collection, id).Delete(&Document{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete document: %w", result.Error)
	}
	return nil
}

// Query returns all documents in a collection matching every filter.
func (s *Store) Query(collection string, filters ...Filter) ([]Doc, error) {
	query := s.db.Where("collection = ?", collection)
	for _, f := range filters {
		query = query.Where("json_extract(data, ?) = ?", "$."+f.Field, filterValue(f.Value))
	}

	var rows []Document
	if err := query.Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query collection %s: %w", collection, err)
	}

	docs := make([]Doc, 0, len(rows))
	for _, row := range rows {
		fields, err := decodeFields(row.Data)
		if err != nil {
			return nil, err
		}
		docs = append(docs, Doc{ID: row.ID, Fields: fields})
	}
	return docs, nil
}

func decodeFields(data string) (Fields, error) {
	var fields Fields
	if err := json.Unmarshal([]byte(data), &fields); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}
	return fields, nil
}

// filterValue normalizes Go values to what json_extract yields in sqlite:
// JSON booleans compare as integers 0/1.
func filterValue(v interface{}) interface{} {
	if b, ok := v.(bool); ok {
		if b {
			return 1
		}
		return 0
	}
	return v
}
