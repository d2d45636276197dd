package services

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"lexcase_app_go/docstore"
	"lexcase_app_go/models"
)

const tasksCollection = "tasks"

// TaskInput is the caller-supplied payload for creating a task.
type TaskInput struct {
	CaseID  string `json:"caseId"`
	Title   string `json:"title"`
	DueDate string `json:"dueDate"`
	Status  string `json:"status"`
	Notes   string `json:"notes"`
}

// Validate checks required fields and the status enumeration.
func (in *TaskInput) Validate() error {
	if strings.TrimSpace(in.CaseID) == "" {
		return NewValidationError("caseId", "is required")
	}
	if strings.TrimSpace(in.Title) == "" {
		return NewValidationError("title", "is required")
	}
	if in.Status != "" && !models.IsValidTaskStatus(in.Status) {
		return NewValidationError("status", "unknown task status")
	}
	return nil
}

// TaskStore holds two deliberately independent in-memory views of the same
// entity: tasks grouped by case and tasks grouped by firm. A task loaded via
// one path is not merged into the other; a mutation updates both views when
// the task is present in each.
type TaskStore struct {
	docs *docstore.Store

	mu        sync.RWMutex
	caseTasks map[string][]models.TaskRecord
	firmTasks map[string][]models.TaskRecord
	loading   bool
	lastError string
}

// NewTaskStore creates a TaskStore.
func NewTaskStore(docs *docstore.Store) *TaskStore {
	return &TaskStore{
		docs:      docs,
		caseTasks: make(map[string][]models.TaskRecord),
		firmTasks: make(map[string][]models.TaskRecord),
	}
}

// Loading reports whether a load operation is in flight.
func (s *TaskStore) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Error returns the message of the last failed load, or "".
func (s *TaskStore) Error() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastError
}

// LoadCaseTasks fetches all tasks of a case and replaces the case-scoped
// view.
func (s *TaskStore) LoadCaseTasks(caseID string) ([]models.TaskRecord, error) {
	s.mu.Lock()
	s.loading = true
	s.lastError = ""
	s.mu.Unlock()

	docs, err := s.docs.Query(tasksCollection, docstore.Where("caseId", caseID))
	if err != nil {
		storeErr := NewStoreError("load case tasks", err)
		s.mu.Lock()
		s.lastError = storeErr.Message
		s.loading = false
		s.mu.Unlock()
		return nil, storeErr
	}

	records := make([]models.TaskRecord, 0, len(docs))
	for _, doc := range docs {
		records = append(records, NormalizeTask(doc.ID, doc.Fields))
	}

	s.mu.Lock()
	s.caseTasks[caseID] = records
	s.loading = false
	s.mu.Unlock()

	return records, nil
}

// LoadFirmTasks fetches all tasks of a firm and replaces the firm-scoped
// view.
func (s *TaskStore) LoadFirmTasks(firmID string) ([]models.TaskRecord, error) {
	s.mu.Lock()
	s.loading = true
	s.lastError = ""
	s.mu.Unlock()

	docs, err := s.docs.Query(tasksCollection, docstore.Where("firmId", firmID))
	if err != nil {
		storeErr := NewStoreError("load firm tasks", err)
		s.mu.Lock()
		s.lastError = storeErr.Message
		s.loading = false
		s.mu.Unlock()
		return nil, storeErr
	}

	records := make([]models.TaskRecord, 0, len(docs))
	for _, doc := range docs {
		records = append(records, NormalizeTask(doc.ID, doc.Fields))
	}

	s.mu.Lock()
	s.firmTasks[firmID] = records
	s.loading = false
	s.mu.Unlock()

	return records, nil
}

// CreateTask persists a new task scoped to a case and to firmUser's firm,
// then appends it to both in-memory views.
func (s *TaskStore) CreateTask(input TaskInput, firmUser models.FirmUser) (models.TaskRecord, error) {
	if err := input.Validate(); err != nil {
		return models.TaskRecord{}, err
	}

	status := input.Status
	if status == "" {
		status = models.TaskStatusToDo
	}

	now := nowFunc().UnixMilli()
	fields := docstore.Fields{
		"caseId":    input.CaseID,
		"firmId":    firmUser.UID,
		"title":     input.Title,
		"dueDate":   nullableString(input.DueDate),
		"status":    status,
		"notes":     nullableString(input.Notes),
		"createdAt": now,
		"updatedAt": now,
	}

	id, err := s.docs.Add(tasksCollection, fields)
	if err != nil {
		return models.TaskRecord{}, NewStoreError("create task", err)
	}

	record := models.TaskRecord{
		ID:        id,
		CaseID:    input.CaseID,
		FirmID:    firmUser.UID,
		Title:     input.Title,
		DueDate:   input.DueDate,
		Status:    status,
		Notes:     input.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.mu.Lock()
	s.caseTasks[record.CaseID] = append(s.caseTasks[record.CaseID], record)
	s.firmTasks[record.FirmID] = append(s.firmTasks[record.FirmID], record)
	s.mu.Unlock()

	return record, nil
}

// UpdateTask merges partial fields, re-stamps updatedAt, and replaces the
// task in both views with the canonical post-update record.
func (s *TaskStore) UpdateTask(taskID string, partial docstore.Fields) (models.TaskRecord, error) {
	if status, ok := partial["status"].(string); ok && !models.IsValidTaskStatus(status) {
		return models.TaskRecord{}, NewValidationError("status", "unknown task status")
	}

	update := make(docstore.Fields, len(partial)+1)
	for k, v := range partial {
		update[k] = v
	}
	delete(update, "id")
	delete(update, "caseId")
	delete(update, "firmId")
	update["updatedAt"] = nowFunc().UnixMilli()

	if err := s.docs.Update(tasksCollection, taskID, update); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return models.TaskRecord{}, fmt.Errorf("update task: %w", ErrNotFound)
		}
		return models.TaskRecord{}, NewStoreError("update task", err)
	}

	canonical, err := s.docs.Get(tasksCollection, taskID)
	if err != nil {
		return models.TaskRecord{}, NewStoreError("update task", err)
	}
	record := NormalizeTask(taskID, canonical)

	s.mu.Lock()
	replaceTask(s.caseTasks[record.CaseID], record)
	replaceTask(s.firmTasks[record.FirmID], record)
	s.mu.Unlock()

	return record, nil
}

// DeleteTask removes the document and drops the task from both views.
func (s *TaskStore) DeleteTask(taskID string) (string, error) {
	if err := s.docs.Delete(tasksCollection, taskID); err != nil {
		return "", NewStoreError("delete task", err)
	}

	s.mu.Lock()
	for caseID, tasks := range s.caseTasks {
		s.caseTasks[caseID] = dropTask(tasks, taskID)
	}
	for firmID, tasks := range s.firmTasks {
		s.firmTasks[firmID] = dropTask(tasks, taskID)
	}
	s.mu.Unlock()

	return taskID, nil
}

// GetTask fetches a task straight from the document store, bypassing the
// in-memory views. Used for ownership checks before mutations.
func (s *TaskStore) GetTask(taskID string) (models.TaskRecord, error) {
	fields, err := s.docs.Get(tasksCollection, taskID)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return models.TaskRecord{}, fmt.Errorf("get task: %w", ErrNotFound)
		}
		return models.TaskRecord{}, NewStoreError("get task", err)
	}
	return NormalizeTask(taskID, fields), nil
}

// CaseTasks returns the loaded case-scoped view.
func (s *TaskStore) CaseTasks(caseID string) []models.TaskRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.TaskRecord, len(s.caseTasks[caseID]))
	copy(out, s.caseTasks[caseID])
	return out
}

// FirmTasks returns the loaded firm-scoped view.
func (s *TaskStore) FirmTasks(firmID string) []models.TaskRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.TaskRecord, len(s.firmTasks[firmID]))
	copy(out, s.firmTasks[firmID])
	return out
}

func replaceTask(tasks []models.TaskRecord, record models.TaskRecord) {
	for i := range tasks {
		if tasks[i].ID == record.ID {
			tasks[i] = record
			return
		}
	}
}

func dropTask(tasks []models.TaskRecord, taskID string) []models.TaskRecord {
	kept := tasks[:0]
	for _, t := range tasks {
		if t.ID != taskID {
			kept = append(kept, t)
		}
	}
	return kept
}
