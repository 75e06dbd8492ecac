package periodization

import "github.com/2beens/traincoach/internal/training/program"

// minWeeksPerBlock: a block never closes before running this many weeks.
const minWeeksPerBlock = 4

// ShouldCloseActiveBlock reports whether the active block is done: it ran
// for at least minWeeksPerBlock weeks and the current week is a deload.
// Programs without an active block never close anything, broken block
// bookkeeping is surfaced by diagnostics elsewhere, not repaired here.
func ShouldCloseActiveBlock(p *program.MultiWeek) bool {
	activeBlock := p.ActiveBlock()
	if activeBlock == nil {
		return false
	}

	currentWeek := p.CurrentWeek()
	if currentWeek == nil {
		return false
	}

	weeksInBlock := p.CurrentWeekIndex - activeBlock.StartWeekIndex + 1
	return weeksInBlock >= minWeeksPerBlock && currentWeek.Phase == program.PhaseDeload
}

// closeActiveBlockAndOpenNext stamps the active block with the current week
// index and opens a follow-up block starting at the next week's index. The
// goal carries over verbatim, goal re-selection is a coaching conversation,
// not an engine decision.
func closeActiveBlockAndOpenNext(p *program.MultiWeek) {
	activeBlock := p.ActiveBlock()
	if activeBlock == nil {
		return
	}

	endIndex := p.CurrentWeekIndex
	activeBlock.EndWeekIndex = &endIndex

	p.Blocks = append(p.Blocks, program.Block{
		ID:             nextBlockID(len(p.Blocks) + 1),
		Goal:           activeBlock.Goal,
		StartWeekIndex: len(p.Weeks),
		EndWeekIndex:   nil,
	})
}
