package coach

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/2beens/traincoach/internal/telemetry/metrics"
	"github.com/2beens/traincoach/internal/telemetry/tracing"
	"github.com/2beens/traincoach/internal/training/program"
	"github.com/2beens/traincoach/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type Handler struct {
	analyzer *Analyzer
	metrics  *metrics.Manager
}

func NewHandler(
	programRepo programRepo,
	historyRepo historyRepo,
	instrumentation *metrics.Manager,
) *Handler {
	return &Handler{
		analyzer: NewAnalyzer(programRepo, historyRepo),
		metrics:  instrumentation,
	}
}

func (handler *Handler) HandleWeekReview(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.coach.weekReview")
	defer span.End()

	vars := mux.Vars(r)
	weekNumberStr := vars["weekNumber"]
	if weekNumberStr == "" {
		http.Error(w, "error, week number empty", http.StatusBadRequest)
		return
	}
	weekNumber, err := strconv.Atoi(weekNumberStr)
	if err != nil {
		http.Error(w, "error, week number NaN", http.StatusBadRequest)
		return
	}

	review, err := handler.analyzer.WeekReview(ctx, weekNumber)
	if err != nil {
		switch {
		case errors.Is(err, ErrWeekNotFound):
			http.Error(w, "week not found", http.StatusNotFound)
		case errors.Is(err, program.ErrProgramNotFound):
			http.Error(w, "program not found", http.StatusNotFound)
		default:
			log.Errorf("failed to get review for week %d: %s", weekNumber, err)
			http.Error(w, "failed to get week review", http.StatusInternalServerError)
		}
		return
	}

	handler.metrics.CounterCoachReviews.Inc()

	reviewJson, err := json.Marshal(review)
	if err != nil {
		log.Errorf("failed to marshal week review: %s", err)
		http.Error(w, "failed to marshal week review", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, reviewJson, http.StatusOK)
}

func (handler *Handler) HandleActiveBlockRecommendation(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.coach.activeBlockRecommendation")
	defer span.End()

	blockReview, err := handler.analyzer.ActiveBlockRecommendation(ctx)
	if err != nil {
		switch {
		case errors.Is(err, ErrNoActiveBlock):
			http.Error(w, "no active block", http.StatusNotFound)
		case errors.Is(err, program.ErrProgramNotFound):
			http.Error(w, "program not found", http.StatusNotFound)
		default:
			log.Errorf("failed to get active block recommendation: %s", err)
			http.Error(w, "failed to get block recommendation", http.StatusInternalServerError)
		}
		return
	}

	blockReviewJson, err := json.Marshal(blockReview)
	if err != nil {
		log.Errorf("failed to marshal block review: %s", err)
		http.Error(w, "failed to marshal block review", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, blockReviewJson, http.StatusOK)
}
