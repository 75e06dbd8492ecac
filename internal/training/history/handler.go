package history

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/2beens/traincoach/internal/telemetry/metrics"
	"github.com/2beens/traincoach/internal/telemetry/tracing"
	"github.com/2beens/traincoach/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=history_mocks_test.go -package=history_test

type entriesRepo interface {
	Add(ctx context.Context, entry Entry) (*Entry, error)
	Get(ctx context.Context, id int) (*Entry, error)
	List(ctx context.Context, params ListParams) (_ []Entry, total int, err error)
	CountForWeek(ctx context.Context, weekNumber int) (int, error)
}

type AddEntryResponse struct {
	Entry
	WeekSessionCount int `json:"weekSessionCount"`
}

type ListResponse struct {
	Entries []Entry `json:"entries"`
	Total   int     `json:"total"`
}

type Handler struct {
	repo    entriesRepo
	metrics *metrics.Manager
}

func NewHandler(repo entriesRepo, instrumentation *metrics.Manager) *Handler {
	return &Handler{
		repo:    repo,
		metrics: instrumentation,
	}
}

func (handler *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.history.new")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var entry Entry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		log.Tracef("new history entry, unmarshal json params: %s", err)
		http.Error(w, "add history entry failed", http.StatusBadRequest)
		return
	}

	if entry.Day == "" || entry.WeekNumber < 1 {
		http.Error(w, "error, day or week number missing", http.StatusBadRequest)
		return
	}
	if len(entry.Exercises) == 0 {
		http.Error(w, "error, exercises empty", http.StatusBadRequest)
		return
	}

	if entry.CompletedAt.IsZero() {
		entry.CompletedAt = time.Now()
	}

	addedEntry, err := handler.repo.Add(ctx, entry)
	if err != nil {
		log.Errorf("failed to add history entry [week %d, %s]: %s", entry.WeekNumber, entry.Day, err)
		http.Error(w, "error, failed to add history entry", http.StatusInternalServerError)
		return
	}

	handler.metrics.CounterWorkoutsLogged.Inc()

	weekSessionCount, err := handler.repo.CountForWeek(ctx, addedEntry.WeekNumber)
	if err != nil {
		// just log the error, no need to return error to the client
		log.Errorf("failed to count sessions for week %d: %s", addedEntry.WeekNumber, err)
	}

	addEntryResponse := AddEntryResponse{
		Entry:            *addedEntry,
		WeekSessionCount: weekSessionCount,
	}

	addedEntryJson, err := json.Marshal(addEntryResponse)
	if err != nil {
		log.Errorf("failed to marshal new history entry: %s", err)
		http.Error(w, "error, failed to add history entry", http.StatusInternalServerError)
		return
	}

	log.Debugf("new history entry added: %s", addedEntryJson)
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, addedEntryJson, http.StatusCreated)
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.history.get")
	defer span.End()

	vars := mux.Vars(r)
	idStr := vars["id"]
	if idStr == "" {
		http.Error(w, "error, id empty", http.StatusBadRequest)
		return
	}
	id, err := strconv.Atoi(idStr)
	if err != nil {
		http.Error(w, "error, id NaN", http.StatusBadRequest)
		return
	}

	entry, err := handler.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrEntryNotFound) {
			http.Error(w, "history entry not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to get history entry %d: %s", id, err)
		http.Error(w, "failed to get history entry", http.StatusInternalServerError)
		return
	}

	entryJson, err := json.Marshal(entry)
	if err != nil {
		log.Errorf("failed to marshal history entry: %s", err)
		http.Error(w, "failed to marshal history entry", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, entryJson, http.StatusOK)
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.history.list")
	defer span.End()

	vars := mux.Vars(r)

	pageStr := vars["page"]
	page, err := strconv.Atoi(pageStr)
	if err != nil {
		log.Errorf("handle list history, from <page> param: %s", err)
		http.Error(w, "parse form error, parameter <page>", http.StatusBadRequest)
		return
	}
	sizeStr := vars["size"]
	size, err := strconv.Atoi(sizeStr)
	if err != nil {
		log.Errorf("handle list history, from <size> param: %s", err)
		http.Error(w, "parse form error, parameter <size>", http.StatusBadRequest)
		return
	}

	if page < 1 {
		http.Error(w, "invalid page (has to be non-zero value)", http.StatusBadRequest)
		return
	}
	if size < 1 {
		http.Error(w, "invalid size (has to be non-zero value)", http.StatusBadRequest)
		return
	}

	entries, total, err := handler.repo.List(ctx, ListParams{
		Page: page,
		Size: size,
	})
	if err != nil {
		log.Errorf("list history entries error: %s", err)
		http.Error(w, "failed to get history entries", http.StatusInternalServerError)
		return
	}

	listResponseJson, err := json.Marshal(ListResponse{
		Entries: entries,
		Total:   total,
	})
	if err != nil {
		log.Errorf("marshal history entries error: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, listResponseJson, http.StatusOK)
}
