package server

import (
	"context"
	"fmt"
	"net/http"

	"carprice/internal/domain/entity"
	"carprice/internal/worker"
	"carprice/pkg/httpx/reply"
	"carprice/pkg/httpx/req"
	"carprice/pkg/rest"
)

type analyzer interface {
	AnalyzeWithAcquisition(ctx context.Context, req worker.AcquisitionRequest) entity.PriceQuote
}

type AnalysisServer struct {
	analyzer analyzer
}

func NewAnalysisServer(analyzer analyzer) AnalysisServer {
	return AnalysisServer{
		analyzer: analyzer,
	}
}

func (s AnalysisServer) postV1Analysis(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var request rest.AnalysisRequest

	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	acquisition, err := newAnalysisAcquisitionRequest(request)
	if err != nil {
		return fmt.Errorf("newAnalysisAcquisitionRequest: %w", err)
	}

	quote := s.analyzer.AnalyzeWithAcquisition(ctx, acquisition)

	reply.JSON(ctx, w, http.StatusOK, quote)

	return nil
}
