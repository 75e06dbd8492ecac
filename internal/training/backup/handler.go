package backup

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/2beens/traincoach/internal/telemetry/tracing"
	"github.com/2beens/traincoach/pkg"

	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=backup_mocks_test.go -package=backup

type backupRunner interface {
	BackupHistory(ctx context.Context, baseTime time.Time) (*Result, error)
}

type Handler struct {
	service backupRunner
}

// NewHandler accepts a nil service when the Google Drive credentials are
// not configured, in which case backup requests get a 503.
func NewHandler(service backupRunner) *Handler {
	return &Handler{
		service: service,
	}
}

func (handler *Handler) HandleBackupHistory(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.backup.history")
	defer span.End()

	if handler.service == nil {
		http.Error(w, "history backup not configured", http.StatusServiceUnavailable)
		return
	}

	result, err := handler.service.BackupHistory(ctx, time.Now())
	if err != nil {
		log.Errorf("failed to backup history: %s", err)
		http.Error(w, "history backup failed", http.StatusInternalServerError)
		return
	}

	resultJson, err := json.Marshal(result)
	if err != nil {
		log.Errorf("failed to marshal backup result: %s", err)
		http.Error(w, "failed to marshal backup result", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, resultJson, http.StatusOK)
}
