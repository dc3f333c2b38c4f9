package entity

import "time"

type TaskStatus string

const (
	TaskPending   TaskStatus = "pending"
	TaskRunning   TaskStatus = "running"
	TaskCompleted TaskStatus = "completed"
	TaskFailed    TaskStatus = "failed"
)

// AcquisitionTask — статус фонового сбора объявлений.
// Живёт только в памяти процесса: после рестарта статус теряется,
// сами данные к этому моменту уже в базе.
type AcquisitionTask struct {
	ID          string     `json:"task_id"`
	Status      TaskStatus `json:"status"`
	Progress    int        `json:"progress"`
	TotalFound  int        `json:"total_found"`
	TotalSaved  int        `json:"total_saved"`
	Duplicates  int        `json:"duplicates"`
	Error       string     `json:"error,omitempty"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt time.Time  `json:"completed_at"`
}
