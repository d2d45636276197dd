package models

// Task status constants, in board-column display order.
const (
	TaskStatusToDo       = "To Do"
	TaskStatusInProgress = "In Progress"
	TaskStatusDone       = "Done"
)

// TaskBoardColumns is the fixed column order of the task board.
var TaskBoardColumns = []string{TaskStatusToDo, TaskStatusInProgress, TaskStatusDone}

// TaskRecord is a task as stored in the "tasks" document collection.
// FirmID is denormalized so firm-wide task queries never join through cases.
type TaskRecord struct {
	ID     string `json:"id"`
	CaseID string `json:"caseId"`
	FirmID string `json:"firmId"`

	Title string `json:"title"`

	DueDate string `json:"dueDate"`
	Status  string `json:"status"`

	Notes string `json:"notes"`

	CreatedAt int64 `json:"createdAt"`
	UpdatedAt int64 `json:"updatedAt"`
}

// IsDone checks if the task is completed
func (t *TaskRecord) IsDone() bool {
	return t.Status == TaskStatusDone
}

// IsPending checks if the task still needs work (To Do or In Progress)
func (t *TaskRecord) IsPending() bool {
	return t.Status == TaskStatusToDo || t.Status == TaskStatusInProgress
}

// IsValidTaskStatus checks if the status is one of the three board values
func IsValidTaskStatus(status string) bool {
	for _, s := range TaskBoardColumns {
		if s == status {
			return true
		}
	}
	return false
}
