package program

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/traincoach/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var ErrProgramNotFound = errors.New("program not found")

// programRowID: the service keeps a single program snapshot per deployment,
// stored in one well-known row.
const programRowID = 1

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Save(ctx context.Context, p *MultiWeek) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.program.save")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("weeks", len(p.Weeks)))
	span.SetAttributes(attribute.Int("blocks", len(p.Blocks)))

	programJson, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal program: %w", err)
	}

	_, err = r.db.Exec(
		ctx,
		`INSERT INTO training_program (id, program, updated_at)
			VALUES ($1, $2, $3)
			ON CONFLICT (id) DO UPDATE
				SET program = EXCLUDED.program, updated_at = EXCLUDED.updated_at;`,
		programRowID, programJson, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("save program: %w", err)
	}

	return nil
}

func (r *Repo) Get(ctx context.Context) (_ *MultiWeek, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.program.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`SELECT program FROM training_program WHERE id = $1;`,
		programRowID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if !rows.Next() {
		return nil, ErrProgramNotFound
	}

	var programBytes []byte
	if err := rows.Scan(&programBytes); err != nil {
		return nil, fmt.Errorf("rows scan: %w", err)
	}

	var p MultiWeek
	if err := json.Unmarshal(programBytes, &p); err != nil {
		return nil, fmt.Errorf("unmarshal program: %w", err)
	}

	return &p, nil
}
