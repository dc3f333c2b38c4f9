package server

import (
	"context"
	"fmt"
	"net/http"

	"git.appkode.ru/pub/go/failure"
	"github.com/hibiken/asynq"

	"carprice/internal/domain"
	"carprice/internal/worker"
	"carprice/pkg/errcodes"
	"carprice/pkg/httpx/reply"
	"carprice/pkg/httpx/req"
	"carprice/pkg/rest"
)

type taskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

type ScrapeServer struct {
	enqueuer taskEnqueuer
	registry *worker.TaskRegistry
}

func NewScrapeServer(enqueuer taskEnqueuer, registry *worker.TaskRegistry) ScrapeServer {
	return ScrapeServer{
		enqueuer: enqueuer,
		registry: registry,
	}
}

func (s ScrapeServer) postV1Scrape(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var request rest.ScrapeRequest

	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	acquisition, err := newScrapeAcquisitionRequest(request)
	if err != nil {
		return fmt.Errorf("newScrapeAcquisitionRequest: %w", err)
	}

	taskID := s.registry.Create()

	task, err := worker.NewScrapeTask(taskID, acquisition)
	if err != nil {
		return fmt.Errorf("worker.NewScrapeTask: %w", err)
	}

	if _, err = s.enqueuer.EnqueueContext(ctx, task); err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to enqueue scrape task")
	}

	reply.JSON(ctx, w, http.StatusAccepted, rest.ScrapeStarted{
		TaskID:  taskID,
		Status:  "pending",
		Message: fmt.Sprintf("Scraping started for %s %s", acquisition.Brand, acquisition.Model),
	})

	return nil
}

func (s ScrapeServer) getV1ScrapeTask(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	task, err := s.registry.Get(r.PathValue("taskID"))
	if err != nil {
		return failure.NewNotFoundErrorFromError(
			fmt.Errorf("registry.Get: %w", err),
			failure.WithCode(errcodes.TaskNotFound),
		)
	}

	reply.JSON(ctx, w, http.StatusOK, task)

	return nil
}
