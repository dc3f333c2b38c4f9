package worker

import (
	"context"
	"time"

	"github.com/hibiken/asynq"
	jsoniter "github.com/json-iterator/go"

	"carprice/internal/domain"
	"carprice/internal/domain/entity"
	"carprice/pkg/errcodes"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

const (
	// TypeScrapeListings — тип фоновой задачи сбора объявлений.
	TypeScrapeListings = "scrape:listings"

	// ScrapeQueue — отдельная очередь: скрейпинг долгий и не должен
	// задерживать остальные задачи.
	ScrapeQueue = "scrape"
)

// ScrapePayload — сериализуемые параметры задачи.
type ScrapePayload struct {
	TaskID  string             `json:"task_id"`
	Request AcquisitionRequest `json:"request"`
}

// NewScrapeTask упаковывает запрос сбора в задачу asynq.
func NewScrapeTask(taskID string, req AcquisitionRequest) (*asynq.Task, error) {
	payload, err := json.Marshal(ScrapePayload{TaskID: taskID, Request: req})
	if err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to marshal scrape payload")
	}

	return asynq.NewTask(TypeScrapeListings, payload, asynq.Queue(ScrapeQueue), asynq.MaxRetry(1)), nil
}

// ScrapeTaskHandler связывает asynq-задачу со сборщиком и реестром статусов.
type ScrapeTaskHandler struct {
	acquirer *Acquirer
	registry *TaskRegistry
}

func NewScrapeTaskHandler(acquirer *Acquirer, registry *TaskRegistry) *ScrapeTaskHandler {
	return &ScrapeTaskHandler{
		acquirer: acquirer,
		registry: registry,
	}
}

// Handle выполняет задачу сбора и ведёт её статус в реестре.
// Ошибка не отдаётся asynq на ретрай как есть: повторный полный скрейпинг
// дороже, чем подождать следующего запроса пользователя.
func (h *ScrapeTaskHandler) Handle(ctx context.Context, task *asynq.Task) error {
	var payload ScrapePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to unmarshal scrape payload")
	}

	h.registry.Update(payload.TaskID, func(t *entity.AcquisitionTask) {
		t.Status = entity.TaskRunning
	})

	result, err := h.acquirer.Acquire(ctx, payload.Request, func(progress int) {
		h.registry.Update(payload.TaskID, func(t *entity.AcquisitionTask) {
			t.Progress = progress
		})
	})

	completedAt := time.Now()

	if err != nil {
		h.registry.Update(payload.TaskID, func(t *entity.AcquisitionTask) {
			t.Status = entity.TaskFailed
			t.Error = err.Error()
			t.CompletedAt = completedAt
		})

		logger(ctx).Error("scrape task failed", "task_id", payload.TaskID, "error", err)

		return nil
	}

	h.registry.Update(payload.TaskID, func(t *entity.AcquisitionTask) {
		t.Status = entity.TaskCompleted
		t.Progress = 100
		t.TotalFound = result.TotalFound
		t.TotalSaved = result.TotalSaved
		t.Duplicates = result.Duplicates
		t.CompletedAt = completedAt
	})

	return nil
}
