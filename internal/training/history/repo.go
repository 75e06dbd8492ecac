package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/traincoach/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var ErrEntryNotFound = errors.New("history entry not found")

type ListParams struct {
	Page int
	Size int
}

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Add(ctx context.Context, entry Entry) (_ *Entry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.history.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	exercisesJson, err := json.Marshal(entry.Exercises)
	if err != nil {
		return nil, fmt.Errorf("marshal exercises: %w", err)
	}

	rows, err := r.db.Query(
		ctx,
		`INSERT INTO workout_history
				(day, week_number, completed_at, exercises)
				VALUES ($1, $2, $3, $4)
			RETURNING id;`,
		entry.Day, entry.WeekNumber, entry.CompletedAt, exercisesJson,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if !rows.Next() {
		return nil, errors.New("unexpected error [no rows next]")
	}

	var id int
	if err := rows.Scan(&id); err != nil {
		return nil, fmt.Errorf("rows scan: %w", err)
	}

	span.SetAttributes(attribute.Int("entry.id", id))

	entry.ID = id
	return &entry, nil
}

func (r *Repo) Get(ctx context.Context, id int) (_ *Entry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.history.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	rows, err := r.db.Query(
		ctx,
		`SELECT id, day, week_number, completed_at, exercises
			FROM workout_history
			WHERE id = $1;`,
		id,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	entries, err := r.rows2entries(rows)
	if err != nil {
		return nil, err
	}

	if len(entries) != 1 {
		return nil, ErrEntryNotFound
	}

	return &entries[0], nil
}

// ListAll returns the complete workout history, oldest session first.
// The periodization engine works on full history snapshots.
func (r *Repo) ListAll(ctx context.Context) (_ []Entry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.history.listall")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`SELECT id, day, week_number, completed_at, exercises
			FROM workout_history
			ORDER BY completed_at ASC;`,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	entries, err := r.rows2entries(rows)
	if err != nil {
		return nil, fmt.Errorf("rows2entries: %w", err)
	}
	return entries, nil
}

// ListSince returns the entries completed after the given timestamp,
// oldest first. A nil timestamp returns the complete history.
func (r *Repo) ListSince(ctx context.Context, completedSince *time.Time) (_ []Entry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.history.listSince")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	if completedSince != nil {
		span.SetAttributes(attribute.String("completed-since", completedSince.String()))
	} else {
		span.SetAttributes(attribute.String("completed-since", "nil"))
	}

	var rows pgx.Rows
	if completedSince != nil {
		rows, err = r.db.Query(
			ctx,
			`SELECT id, day, week_number, completed_at, exercises
				FROM workout_history
				WHERE completed_at > $1
				ORDER BY completed_at ASC;`,
			completedSince,
		)
	} else {
		rows, err = r.db.Query(
			ctx,
			`SELECT id, day, week_number, completed_at, exercises
				FROM workout_history
				ORDER BY completed_at ASC;`,
		)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return r.rows2entries(rows)
}

// List is like ListAll, but returns the specific PAGE of entries,
// newest session first, i.e. is used for pagination.
func (r *Repo) List(ctx context.Context, params ListParams) (_ []Entry, total int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.history.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("page", params.Page))
	span.SetAttributes(attribute.Int("size", params.Size))

	if params.Page < 1 {
		return nil, -1, errors.New("page must be greater than 0")
	}
	if params.Size < 1 {
		return nil, -1, errors.New("size must be greater than 0")
	}

	limit := params.Size
	offset := (params.Page - 1) * params.Size
	countAll, err := r.EntriesCount(ctx)
	if err != nil {
		return nil, -1, err
	}

	if countAll <= limit {
		limit = countAll
		offset = 0
	}

	if countAll-offset < limit {
		offset = countAll - limit
	}

	span.SetAttributes(attribute.Int("count_all", countAll))
	span.SetAttributes(attribute.Int("limit", limit))
	span.SetAttributes(attribute.Int("offset", offset))

	rows, err := r.db.Query(
		ctx,
		`SELECT id, day, week_number, completed_at, exercises
			FROM workout_history
			ORDER BY completed_at DESC
			LIMIT $1
			OFFSET $2;`,
		limit, offset,
	)
	if err != nil {
		return nil, -1, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, -1, err
	}

	entries, err := r.rows2entries(rows)
	if err != nil {
		return nil, -1, err
	}
	return entries, countAll, nil
}

func (r *Repo) EntriesCount(ctx context.Context) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.history.count")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(ctx, `SELECT COUNT(*) FROM workout_history;`)
	if err != nil {
		return -1, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return -1, err
	}

	if rows.Next() {
		var count int
		if err := rows.Scan(&count); err == nil {
			return count, nil
		}
	}

	return -1, errors.New("unexpected error, failed to get history entries count")
}

// CountForWeek returns the number of logged sessions for a program week.
func (r *Repo) CountForWeek(ctx context.Context, weekNumber int) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.history.countForWeek")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("week_number", weekNumber))

	rows, err := r.db.Query(
		ctx,
		`SELECT COUNT(*) FROM workout_history WHERE week_number = $1;`,
		weekNumber,
	)
	if err != nil {
		return -1, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return -1, err
	}

	if rows.Next() {
		var count int
		if err := rows.Scan(&count); err == nil {
			return count, nil
		}
	}

	return -1, errors.New("unexpected error, failed to get week session count")
}

func (r *Repo) rows2entries(rows pgx.Rows) ([]Entry, error) {
	var entries []Entry
	for rows.Next() {
		var id int
		var day string
		var weekNumber int
		var completedAt time.Time
		var exercisesBytes []byte
		if err := rows.Scan(&id, &day, &weekNumber, &completedAt, &exercisesBytes); err != nil {
			return nil, err
		}

		e := Entry{
			ID:          id,
			Day:         day,
			WeekNumber:  weekNumber,
			CompletedAt: completedAt,
		}

		if len(exercisesBytes) > 0 {
			if err := json.Unmarshal(exercisesBytes, &e.Exercises); err != nil {
				return nil, fmt.Errorf("unmarshal exercises for entry %d: %w", id, err)
			}
		}
		if e.Exercises == nil {
			e.Exercises = make([]ExerciseLog, 0)
		}

		entries = append(entries, e)
	}

	if entries == nil {
		entries = make([]Entry, 0)
	}

	return entries, nil
}
