package program

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/2beens/traincoach/internal/telemetry/metrics"
	"github.com/2beens/traincoach/internal/telemetry/tracing"
	"github.com/2beens/traincoach/internal/training/history"
	"github.com/2beens/traincoach/pkg"

	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=program_mocks_test.go -package=program_test

type programRepo interface {
	Save(ctx context.Context, p *MultiWeek) error
	Get(ctx context.Context) (*MultiWeek, error)
}

type historyRepo interface {
	ListAll(ctx context.Context) ([]history.Entry, error)
}

// nextWeekGenerator extends a program snapshot by one week, deciding the
// phase and the block bookkeeping along the way.
type nextWeekGenerator interface {
	GenerateNextWeekAndBlock(p *MultiWeek, entries []history.Entry, now time.Time) *MultiWeek
}

type SaveProgramResponse struct {
	Weeks            int `json:"weeks"`
	Blocks           int `json:"blocks"`
	CurrentWeekIndex int `json:"currentWeekIndex"`
}

type BlocksResponse struct {
	Blocks []Block `json:"blocks"`
}

type GenerateNextWeekResponse struct {
	Week             Week    `json:"week"`
	CurrentWeekIndex int     `json:"currentWeekIndex"`
	Blocks           []Block `json:"blocks"`
}

type Handler struct {
	repo        programRepo
	historyRepo historyRepo
	generator   nextWeekGenerator
	metrics     *metrics.Manager
}

func NewHandler(
	repo programRepo,
	historyRepo historyRepo,
	generator nextWeekGenerator,
	instrumentation *metrics.Manager,
) *Handler {
	return &Handler{
		repo:        repo,
		historyRepo: historyRepo,
		generator:   generator,
		metrics:     instrumentation,
	}
}

func (handler *Handler) HandleSave(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.program.save")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var p MultiWeek
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		log.Errorf("save program, unmarshal json params: %s", err)
		http.Error(w, "save program failed", http.StatusBadRequest)
		return
	}

	if err := p.Validate(); err != nil {
		log.Warnf("save program, invalid program: %s", err)
		http.Error(w, "invalid program: "+err.Error(), http.StatusBadRequest)
		return
	}

	if err := handler.repo.Save(ctx, &p); err != nil {
		log.Errorf("failed to save program: %s", err)
		http.Error(w, "error, failed to save program", http.StatusInternalServerError)
		return
	}

	log.Debugf("program saved: %d weeks, %d blocks", len(p.Weeks), len(p.Blocks))

	respJson, err := json.Marshal(SaveProgramResponse{
		Weeks:            len(p.Weeks),
		Blocks:           len(p.Blocks),
		CurrentWeekIndex: p.CurrentWeekIndex,
	})
	if err != nil {
		log.Errorf("failed to marshal save program response: %s", err)
		http.Error(w, "error, failed to save program", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, http.StatusCreated)
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.program.get")
	defer span.End()

	p, err := handler.repo.Get(ctx)
	if err != nil {
		if errors.Is(err, ErrProgramNotFound) {
			http.Error(w, "program not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to get program: %s", err)
		http.Error(w, "failed to get program", http.StatusInternalServerError)
		return
	}

	programJson, err := json.Marshal(p)
	if err != nil {
		log.Errorf("failed to marshal program: %s", err)
		http.Error(w, "failed to marshal program", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, programJson, http.StatusOK)
}

func (handler *Handler) HandleGetBlocks(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.program.blocks")
	defer span.End()

	p, err := handler.repo.Get(ctx)
	if err != nil {
		if errors.Is(err, ErrProgramNotFound) {
			http.Error(w, "program not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to get program blocks: %s", err)
		http.Error(w, "failed to get program blocks", http.StatusInternalServerError)
		return
	}

	blocksJson, err := json.Marshal(BlocksResponse{Blocks: p.Blocks})
	if err != nil {
		log.Errorf("failed to marshal program blocks: %s", err)
		http.Error(w, "failed to marshal program blocks", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, blocksJson, http.StatusOK)
}

// HandleGenerateNextWeek loads the program and the full workout history,
// extends the program by one week and persists the new snapshot.
func (handler *Handler) HandleGenerateNextWeek(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.program.generateNextWeek")
	defer span.End()

	p, err := handler.repo.Get(ctx)
	if err != nil {
		if errors.Is(err, ErrProgramNotFound) {
			http.Error(w, "program not found", http.StatusNotFound)
			return
		}
		log.Errorf("generate next week, failed to get program: %s", err)
		http.Error(w, "failed to get program", http.StatusInternalServerError)
		return
	}

	if len(p.Weeks) == 0 {
		http.Error(w, "error, program has no weeks to extend", http.StatusBadRequest)
		return
	}

	entries, err := handler.historyRepo.ListAll(ctx)
	if err != nil {
		log.Errorf("generate next week, failed to list history: %s", err)
		http.Error(w, "failed to get workout history", http.StatusInternalServerError)
		return
	}

	updated := handler.generator.GenerateNextWeekAndBlock(p, entries, time.Now())

	if err := handler.repo.Save(ctx, updated); err != nil {
		log.Errorf("generate next week, failed to save program: %s", err)
		http.Error(w, "error, failed to save program", http.StatusInternalServerError)
		return
	}

	handler.metrics.CounterWeeksGenerated.Inc()

	newWeek := updated.Weeks[len(updated.Weeks)-1]
	log.Debugf(
		"next week generated: week %d, phase [%s], %d blocks",
		newWeek.WeekNumber, newWeek.Phase, len(updated.Blocks),
	)

	respJson, err := json.Marshal(GenerateNextWeekResponse{
		Week:             newWeek,
		CurrentWeekIndex: updated.CurrentWeekIndex,
		Blocks:           updated.Blocks,
	})
	if err != nil {
		log.Errorf("failed to marshal generate next week response: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, http.StatusCreated)
}
