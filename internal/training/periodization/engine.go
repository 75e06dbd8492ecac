package periodization

import (
	"time"

	"github.com/2beens/traincoach/internal/training/history"
	"github.com/2beens/traincoach/internal/training/program"
)

// Engine binds the pure periodization functions behind a value that can be
// injected (and mocked) where handlers want an interface instead of free
// functions.
type Engine struct{}

func NewEngine() *Engine {
	return &Engine{}
}

func (e *Engine) GenerateNextWeekAndBlock(
	p *program.MultiWeek,
	entries []history.Entry,
	now time.Time,
) *program.MultiWeek {
	return GenerateNextWeekAndBlock(p, entries, now)
}
