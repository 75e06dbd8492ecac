// Package backup pushes workout history snapshots to Google Drive as
// chunked JSON files, so a wiped database can be rebuilt from the last
// backup run.
package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/2beens/traincoach/internal/telemetry/metrics"
	"github.com/2beens/traincoach/internal/telemetry/tracing"
	"github.com/2beens/traincoach/internal/training/history"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

// number of history entries in one backup file
const entriesFileChunkSize = 350

type historyRepo interface {
	ListSince(ctx context.Context, completedSince *time.Time) ([]history.Entry, error)
}

// Service backs the workout history up to a Google Drive folder. Each run
// uploads only the entries completed after the newest existing backup file.
type Service struct {
	historyRepo       historyRepo
	driveService      *drive.Service
	backupsFolderName string
	backupsFolderId   string
	metrics           *metrics.Manager
}

// Result is what a single backup run produced.
type Result struct {
	EntriesBackedUp int    `json:"entriesBackedUp"`
	FilesCreated    int    `json:"filesCreated"`
	BaseFileName    string `json:"baseFileName"`
}

func NewService(
	ctx context.Context,
	credentialsJson []byte,
	backupsFolderName string,
	historyRepo historyRepo,
	metricsManager *metrics.Manager,
) (*Service, error) {
	driveService, err := drive.NewService(ctx, option.WithCredentialsJSON(credentialsJson))
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve drive client: %w", err)
	}

	rootFolderQuery := fmt.Sprintf(
		"mimeType = 'application/vnd.google-apps.folder' and trashed = false and name = '%s'",
		backupsFolderName,
	)
	rootFolderList, err := driveService.
		Files.List().
		Q(rootFolderQuery).
		Fields("files(id, name)").
		Do()
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve files: %w", err)
	}

	backupsFolderId := ""
	switch len(rootFolderList.Files) {
	case 0:
		log.Warnln("root backups folder not found, will recreate")
	case 1:
		backupsFolderId = rootFolderList.Files[0].Id
		log.Debugf("root backups folder found: %s", backupsFolderId)
	default:
		backupsFolderId = rootFolderList.Files[0].Id
		log.Warnf(
			"attention: found %d root backups folders, will take the first one: %s",
			len(rootFolderList.Files), backupsFolderId,
		)
	}

	s := &Service{
		historyRepo:       historyRepo,
		driveService:      driveService,
		backupsFolderName: backupsFolderName,
		metrics:           metricsManager,
	}

	if backupsFolderId == "" {
		backupsFolderId, err = s.createRootBackupsFolder()
		if err != nil {
			return nil, fmt.Errorf("failed to create root backups folder: %w", err)
		}
		log.Debugf("new root backups folder created: %s", backupsFolderId)
	}

	s.backupsFolderId = backupsFolderId

	return s, nil
}

// BackupHistory uploads the history entries completed since the last run.
// The very first run uploads the complete history.
func (s *Service) BackupHistory(ctx context.Context, baseTime time.Time) (_ *Result, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "backup.history")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	backupStart := time.Now()
	defer func() {
		s.metrics.HistHistoryBackupDuration.Observe(time.Since(backupStart).Seconds())
	}()

	currentBackupFiles, err := s.getBackupFiles()
	if err != nil {
		return nil, fmt.Errorf("get current backup files: %w", err)
	}

	var completedSince *time.Time
	for _, file := range currentBackupFiles {
		createdAt, err := time.Parse(time.RFC3339, file.CreatedTime)
		if err != nil {
			log.Errorf("backup history: parse created at for file %s: %s", file.Name, err)
			continue
		}
		if completedSince == nil || createdAt.After(*completedSince) {
			completedSince = &createdAt
		}
	}

	entries, err := s.historyRepo.ListSince(ctx, completedSince)
	if err != nil {
		return nil, fmt.Errorf("list history entries: %w", err)
	}

	if len(entries) == 0 {
		log.Debugln("backup history: no new entries to backup, done")
		return &Result{}, nil
	}

	baseFileName := fmt.Sprintf(
		"workout-history-%d-%d-%d",
		baseTime.Day(), baseTime.Month(), baseTime.Year(),
	)
	nextFileName := baseFileName
	for runCounter := 2; backupFileNameTaken(currentBackupFiles, nextFileName); runCounter++ {
		nextFileName = fmt.Sprintf("%s_%d", baseFileName, runCounter)
	}
	baseFileName = nextFileName

	filesCreated, err := s.uploadEntries(entries, baseFileName)
	if err != nil {
		return nil, fmt.Errorf("upload history entries: %w", err)
	}

	s.metrics.CounterHistoryBackups.Inc()

	span.SetAttributes(attribute.Int("entries", len(entries)))
	span.SetAttributes(attribute.Int("files", filesCreated))
	log.Debugf("backup history: %d entries saved in %d files [%s]", len(entries), filesCreated, baseFileName)

	return &Result{
		EntriesBackedUp: len(entries),
		FilesCreated:    filesCreated,
		BaseFileName:    baseFileName,
	}, nil
}

func (s *Service) uploadEntries(entries []history.Entry, baseFileName string) (int, error) {
	chunks := chunkEntries(entries, entriesFileChunkSize)
	for i, chunk := range chunks {
		nextFileName := fmt.Sprintf("%s_part-%d.json", baseFileName, i+1)

		chunkJson, err := json.Marshal(chunk)
		if err != nil {
			return i, fmt.Errorf("%s: marshal entries: %w", nextFileName, err)
		}

		fileMeta := &drive.File{
			Name: nextFileName,
			// https://developers.google.com/drive/api/v3/mime-types
			MimeType: "application/vnd.google-apps.file",
			Parents:  []string{s.backupsFolderId},
		}
		backupFile, err := s.driveService.
			Files.Create(fileMeta).
			Fields("id, parents").
			Media(bytes.NewReader(chunkJson)).
			Do()
		if err != nil {
			return i, fmt.Errorf("%s: create backup file: %w", nextFileName, err)
		}

		log.Debugf("backup file %s with %d entries saved: %s", nextFileName, len(chunk), backupFile.Id)
	}

	return len(chunks), nil
}

func (s *Service) createRootBackupsFolder() (string, error) {
	backupsFolderMeta := &drive.File{
		Name:     s.backupsFolderName,
		MimeType: "application/vnd.google-apps.folder",
	}

	bfRes, err := s.driveService.
		Files.Create(backupsFolderMeta).
		Fields("id").
		Do()
	if err != nil {
		return "", err
	}

	return bfRes.Id, nil
}

func (s *Service) getBackupFiles() ([]*drive.File, error) {
	backupFilesQuery := fmt.Sprintf(
		"'%s' in parents and mimeType != 'application/vnd.google-apps.folder' and trashed = false",
		s.backupsFolderId,
	)
	backups, err := s.driveService.
		Files.List().
		Q(backupFilesQuery).
		Fields("files(id, name, createdTime)").
		Do()
	if err != nil {
		return nil, err
	}

	return backups.Files, nil
}

func backupFileNameTaken(files []*drive.File, baseFileName string) bool {
	for _, file := range files {
		if file.Name == baseFileName+"_part-1.json" {
			return true
		}
	}
	return false
}

// chunkEntries splits the entries into slices of at most chunkSize,
// preserving order. The returned chunks share the backing array.
func chunkEntries(entries []history.Entry, chunkSize int) [][]history.Entry {
	if len(entries) == 0 || chunkSize < 1 {
		return nil
	}

	chunks := make([][]history.Entry, 0, (len(entries)+chunkSize-1)/chunkSize)
	for from := 0; from < len(entries); from += chunkSize {
		to := from + chunkSize
		if to > len(entries) {
			to = len(entries)
		}
		chunks = append(chunks, entries[from:to])
	}

	return chunks
}
