package worker

import (
	"sync"
	"time"

	"github.com/rs/xid"

	"carprice/internal/domain"
	"carprice/internal/domain/entity"
	"carprice/pkg/errcodes"
)

// registryRetention — сколько держим завершённые задачи для опроса статуса.
const registryRetention = time.Hour

// TaskRegistry — потокобезопасный реестр задач сбора в памяти процесса.
// Статусы не переживают рестарт: это осознанный компромисс, сам сбор
// идемпотентен (дедупликация по URL) и его можно просто перезапустить.
type TaskRegistry struct {
	mu    sync.RWMutex
	tasks map[string]*entity.AcquisitionTask
}

func NewTaskRegistry() *TaskRegistry {
	return &TaskRegistry{
		tasks: make(map[string]*entity.AcquisitionTask),
	}
}

// Create регистрирует новую задачу в статусе pending и возвращает её ID.
func (r *TaskRegistry) Create() string {
	id := xid.New().String()

	r.mu.Lock()
	defer r.mu.Unlock()

	r.evictStale()

	r.tasks[id] = &entity.AcquisitionTask{
		ID:        id,
		Status:    entity.TaskPending,
		StartedAt: time.Now(),
	}

	return id
}

// Get возвращает копию задачи по ID.
func (r *TaskRegistry) Get(id string) (entity.AcquisitionTask, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	task, ok := r.tasks[id]
	if !ok {
		return entity.AcquisitionTask{}, domain.NewError(errcodes.TaskNotFound, "task not found")
	}

	return *task, nil
}

// Update атомарно изменяет задачу; незнакомый ID молча игнорируется.
func (r *TaskRegistry) Update(id string, fn func(*entity.AcquisitionTask)) {
	r.mu.Lock()
	defer r.mu.Unlock()

	task, ok := r.tasks[id]
	if !ok {
		return
	}

	fn(task)
}

// evictStale выбрасывает давно завершённые задачи. Вызывается под mu.
func (r *TaskRegistry) evictStale() {
	cutoff := time.Now().Add(-registryRetention)

	for id, task := range r.tasks {
		if !task.CompletedAt.IsZero() && task.CompletedAt.Before(cutoff) {
			delete(r.tasks, id)
		}
	}
}
