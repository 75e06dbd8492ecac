package program

import (
	"errors"
	"fmt"
	"time"
)

// Phase says what kind of training week it is.
type Phase string

const (
	PhaseBuild  Phase = "build"
	PhaseDeload Phase = "deload"
)

// Goal is the training goal shared by all weeks of one block.
type Goal string

const (
	GoalStrength         Goal = "strength"
	GoalHypertrophy      Goal = "hypertrophy"
	GoalGeneral          Goal = "general"
	GoalReturnToTraining Goal = "return_to_training"
)

type DayFocus string

const (
	DayFocusUpper        DayFocus = "upper"
	DayFocusLower        DayFocus = "lower"
	DayFocusFull         DayFocus = "full"
	DayFocusConditioning DayFocus = "conditioning"
	DayFocusOther        DayFocus = "other"
)

// Exercise is an immutable exercise template within a program day.
// Weeks copy exercise templates, they never share or mutate them.
type Exercise struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Sets int    `json:"sets"`
	// Reps is the target rep range, e.g. "8-10"
	Reps  string `json:"reps"`
	Notes string `json:"notes,omitempty"`
}

type Day struct {
	// Day is the day-of-week tag, e.g. "monday"
	Day       string     `json:"day"`
	Focus     DayFocus   `json:"focus"`
	Exercises []Exercise `json:"exercises"`
}

type Week struct {
	ID         string    `json:"id"`
	WeekNumber int       `json:"weekNumber"`
	StartDate  time.Time `json:"startDate"`
	Focus      string    `json:"focus"`
	Days       []Day     `json:"days"`
	Phase      Phase     `json:"phase"`
}

// Block is a contiguous run of weeks sharing a training goal (a mesocycle).
// EndWeekIndex is nil while the block is still active.
type Block struct {
	ID             string `json:"id"`
	Goal           Goal   `json:"goal"`
	StartWeekIndex int    `json:"startWeekIndex"`
	EndWeekIndex   *int   `json:"endWeekIndex"`
}

// MultiWeek is the root program aggregate: all weeks, all blocks and
// the index of the week currently being trained.
type MultiWeek struct {
	Weeks            []Week  `json:"weeks"`
	Blocks           []Block `json:"blocks"`
	CurrentWeekIndex int     `json:"currentWeekIndex"`
}

// WindowContains reports whether ts falls into the week window
// [startDate, startDate+7days), half-open.
func (w Week) WindowContains(ts time.Time) bool {
	end := w.StartDate.AddDate(0, 0, 7)
	return !ts.Before(w.StartDate) && ts.Before(end)
}

func (w Week) Clone() Week {
	clone := w
	clone.Days = CopyDays(w.Days)
	return clone
}

// CopyDays deep-copies program days so that a new week never shares
// exercise slices with the week it was derived from.
func CopyDays(days []Day) []Day {
	if days == nil {
		return nil
	}
	copied := make([]Day, len(days))
	for i, d := range days {
		copied[i] = d
		copied[i].Exercises = make([]Exercise, len(d.Exercises))
		copy(copied[i].Exercises, d.Exercises)
	}
	return copied
}

func (b Block) IsActive() bool {
	return b.EndWeekIndex == nil
}

func (b Block) Clone() Block {
	clone := b
	if b.EndWeekIndex != nil {
		end := *b.EndWeekIndex
		clone.EndWeekIndex = &end
	}
	return clone
}

// ActiveBlock returns a pointer to the block with no end index set,
// or nil if there is none.
func (p *MultiWeek) ActiveBlock() *Block {
	for i := range p.Blocks {
		if p.Blocks[i].IsActive() {
			return &p.Blocks[i]
		}
	}
	return nil
}

// CurrentWeek returns the week at CurrentWeekIndex, nil when out of range.
func (p *MultiWeek) CurrentWeek() *Week {
	if p.CurrentWeekIndex < 0 || p.CurrentWeekIndex >= len(p.Weeks) {
		return nil
	}
	return &p.Weeks[p.CurrentWeekIndex]
}

// WeekByNumber returns the first week with the given week number, nil if absent.
func (p *MultiWeek) WeekByNumber(weekNumber int) *Week {
	for i := range p.Weeks {
		if p.Weeks[i].WeekNumber == weekNumber {
			return &p.Weeks[i]
		}
	}
	return nil
}

// WeekIndexByNumber returns the index of the first week with the given
// week number, or -1 if absent.
func (p *MultiWeek) WeekIndexByNumber(weekNumber int) int {
	for i := range p.Weeks {
		if p.Weeks[i].WeekNumber == weekNumber {
			return i
		}
	}
	return -1
}

// RecentWeeks returns up to n weeks ending with the current week,
// ordered oldest to newest.
func (p *MultiWeek) RecentWeeks(n int) []Week {
	if n <= 0 || len(p.Weeks) == 0 {
		return nil
	}
	end := p.CurrentWeekIndex
	if end < 0 || end >= len(p.Weeks) {
		end = len(p.Weeks) - 1
	}
	start := end - n + 1
	if start < 0 {
		start = 0
	}
	return p.Weeks[start : end+1]
}

func (p *MultiWeek) Clone() *MultiWeek {
	if p == nil {
		return nil
	}
	clone := &MultiWeek{
		Weeks:            make([]Week, len(p.Weeks)),
		Blocks:           make([]Block, len(p.Blocks)),
		CurrentWeekIndex: p.CurrentWeekIndex,
	}
	for i, w := range p.Weeks {
		clone.Weeks[i] = w.Clone()
	}
	for i, b := range p.Blocks {
		clone.Blocks[i] = b.Clone()
	}
	return clone
}

// Validate checks the aggregate invariants that must hold before a
// program snapshot gets persisted. Derived data integrity (overlapping
// block ranges etc.) is reported by diagnostics elsewhere, not here.
func (p *MultiWeek) Validate() error {
	if len(p.Weeks) == 0 {
		return errors.New("program weeks empty")
	}
	if p.CurrentWeekIndex < 0 || p.CurrentWeekIndex >= len(p.Weeks) {
		return fmt.Errorf("current week index %d out of range", p.CurrentWeekIndex)
	}
	if len(p.Blocks) == 0 {
		return nil
	}
	activeBlocks := 0
	for _, b := range p.Blocks {
		if b.IsActive() {
			activeBlocks++
		}
	}
	if activeBlocks != 1 {
		return fmt.Errorf("program must have exactly one active block, got %d", activeBlocks)
	}
	return nil
}
