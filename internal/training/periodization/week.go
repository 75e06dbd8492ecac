package periodization

import (
	"fmt"
	"time"

	"github.com/2beens/traincoach/internal/training/history"
	"github.com/2beens/traincoach/internal/training/program"
)

// NextWeek builds the follow-up week to previous: same days and exercise
// targets (progressive overload is applied at session start, outside this
// engine), new week number, new start date, the given phase.
func NextWeek(previous program.Week, weekNumber int, startDate time.Time, phase program.Phase) program.Week {
	return program.Week{
		ID:         nextWeekID(weekNumber),
		WeekNumber: weekNumber,
		StartDate:  startDate,
		Focus:      previous.Focus,
		Days:       program.CopyDays(previous.Days),
		Phase:      phase,
	}
}

// GenerateNextWeekAndBlock produces a new program snapshot with the next
// week appended, its phase decided from the recent volume trend, and the
// block bookkeeping updated. The input program is never mutated, all
// existing weeks carry over untouched. A program without weeks has nothing
// to extend and comes back unchanged.
func GenerateNextWeekAndBlock(p *program.MultiWeek, entries []history.Entry, now time.Time) *program.MultiWeek {
	if p == nil {
		return nil
	}

	updated := p.Clone()
	if len(updated.Weeks) == 0 {
		return updated
	}

	previousWeek := updated.Weeks[len(updated.Weeks)-1]
	nextPhase := DecideNextPhase(updated.RecentWeeks(phaseLookbackWeeks), entries)

	// block closure looks at the current week, not the one being generated
	if ShouldCloseActiveBlock(updated) {
		closeActiveBlockAndOpenNext(updated)
	}

	nextWeek := NextWeek(previousWeek, nextWeekNumber(updated), now, nextPhase)
	updated.Weeks = append(updated.Weeks, nextWeek)
	updated.CurrentWeekIndex = len(updated.Weeks) - 1

	return updated
}

// nextWeekNumber continues the numbering from the latest week, falling back
// to the week count for programs predating the weekNumber field.
func nextWeekNumber(p *program.MultiWeek) int {
	latest := p.Weeks[len(p.Weeks)-1]
	if latest.WeekNumber > 0 {
		return latest.WeekNumber + 1
	}
	return len(p.Weeks) + 1
}

func nextWeekID(weekNumber int) string {
	return fmt.Sprintf("week-%d", weekNumber)
}

func nextBlockID(blockNumber int) string {
	return fmt.Sprintf("block-%d", blockNumber)
}
