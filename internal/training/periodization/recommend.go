package periodization

import "fmt"

// Action is what the lifter should do with the next training block.
type Action string

const (
	ActionAdvance Action = "advance"
	ActionRepeat  Action = "repeat"
	ActionAdjust  Action = "adjust"
)

// BlockMetrics aggregates the weekly metrics of one training block.
// VolumeChangePercent and AvgRpe stay nil when the block has no usable
// volume or RPE data.
type BlockMetrics struct {
	SessionAdherence    float64  `json:"sessionAdherence"`
	SetAdherence        float64  `json:"setAdherence"`
	VolumeChangePercent *float64 `json:"volumeChangePercent"`
	AvgRpe              *float64 `json:"avgRpe"`
	LiftProgressCount   int      `json:"liftProgressCount"`
	TotalKeyLifts       int      `json:"totalKeyLifts"`
}

// liftProgressRatio is the fraction of key lifts that progressed, 0 when
// the block tracked no key lifts.
func (m BlockMetrics) liftProgressRatio() float64 {
	if m.TotalKeyLifts == 0 {
		return 0
	}
	return float64(m.LiftProgressCount) / float64(m.TotalKeyLifts)
}

type BlockRecommendation struct {
	Title             string `json:"title"`
	Message           string `json:"message"`
	RecommendedAction Action `json:"recommendedAction"`
}

type recommendationRule struct {
	matches func(m BlockMetrics) bool
	build   func(m BlockMetrics) BlockRecommendation
}

// recommendationRules is a strictly ordered decision list: the FIRST
// matching rule wins, so the order below carries meaning. Reordering the
// rules changes behavior even though several predicates can hold at once.
var recommendationRules = []recommendationRule{
	{
		matches: func(m BlockMetrics) bool {
			return m.SessionAdherence < 0.7
		},
		build: func(m BlockMetrics) BlockRecommendation {
			return BlockRecommendation{
				Title: "Consistency comes first",
				Message: fmt.Sprintf(
					"You completed %.0f%% of planned sessions. Repeat this block and aim for at least 70%% session consistency before progressing.",
					m.SessionAdherence*100,
				),
				RecommendedAction: ActionRepeat,
			}
		},
	},
	{
		matches: func(m BlockMetrics) bool {
			return m.SessionAdherence >= 0.7 && m.SetAdherence < 0.7
		},
		build: func(m BlockMetrics) BlockRecommendation {
			return BlockRecommendation{
				Title: "Reduce volume or intensity",
				Message: fmt.Sprintf(
					"Sessions were consistent (%.0f%%), but only %.0f%% of planned sets got done. Adjust the next block with less volume or intensity per session.",
					m.SessionAdherence*100, m.SetAdherence*100,
				),
				RecommendedAction: ActionAdjust,
			}
		},
	},
	{
		matches: func(m BlockMetrics) bool {
			return m.AvgRpe != nil && *m.AvgRpe >= 8.5 &&
				m.VolumeChangePercent != nil && *m.VolumeChangePercent > 15 &&
				m.liftProgressRatio() < 0.5
		},
		build: func(m BlockMetrics) BlockRecommendation {
			return BlockRecommendation{
				Title: "High stress, limited progress",
				Message: fmt.Sprintf(
					"Average RPE %.1f with volume up %.0f%%, but only %d of %d key lifts progressed. Adjust: pull volume back and consolidate before pushing on.",
					*m.AvgRpe, *m.VolumeChangePercent, m.LiftProgressCount, m.TotalKeyLifts,
				),
				RecommendedAction: ActionAdjust,
			}
		},
	},
	{
		matches: func(m BlockMetrics) bool {
			return m.SessionAdherence >= 0.9 && m.SetAdherence >= 0.85 &&
				m.VolumeChangePercent != nil &&
				*m.VolumeChangePercent >= 5 && *m.VolumeChangePercent <= 20 &&
				m.liftProgressRatio() >= 0.6
		},
		build: func(m BlockMetrics) BlockRecommendation {
			return BlockRecommendation{
				Title: "Strong block",
				Message: fmt.Sprintf(
					"Excellent block: %.0f%% sessions, %.0f%% sets, volume up %.0f%% and %d of %d key lifts progressing. Advance to the next block.",
					m.SessionAdherence*100, m.SetAdherence*100,
					*m.VolumeChangePercent, m.LiftProgressCount, m.TotalKeyLifts,
				),
				RecommendedAction: ActionAdvance,
			}
		},
	},
	{
		matches: func(m BlockMetrics) bool {
			return m.SessionAdherence >= 0.8 && m.SetAdherence >= 0.75 &&
				m.liftProgressRatio() >= 0.4
		},
		build: func(m BlockMetrics) BlockRecommendation {
			return BlockRecommendation{
				Title: "Solid progress",
				Message: fmt.Sprintf(
					"Solid block: %.0f%% sessions, %.0f%% sets and progress on %d of %d key lifts. Ready to advance.",
					m.SessionAdherence*100, m.SetAdherence*100,
					m.LiftProgressCount, m.TotalKeyLifts,
				),
				RecommendedAction: ActionAdvance,
			}
		},
	},
	{
		matches: func(m BlockMetrics) bool {
			return m.SessionAdherence >= 0.7 && m.SessionAdherence < 0.8 &&
				m.liftProgressRatio() >= 0.3
		},
		build: func(m BlockMetrics) BlockRecommendation {
			return BlockRecommendation{
				Title: "Repeat with minor adjustments",
				Message: fmt.Sprintf(
					"Session consistency at %.0f%% with some lift progress. Repeat the block with minor adjustments and build momentum.",
					m.SessionAdherence*100,
				),
				RecommendedAction: ActionRepeat,
			}
		},
	},
	{
		matches: func(m BlockMetrics) bool {
			return m.VolumeChangePercent != nil && *m.VolumeChangePercent > 20 &&
				m.liftProgressRatio() < 0.3
		},
		build: func(m BlockMetrics) BlockRecommendation {
			return BlockRecommendation{
				Title: "Volume outpacing progress",
				Message: fmt.Sprintf(
					"Volume jumped %.0f%% but only %d of %d key lifts progressed. Reduce the volume or rotate exercises in the next block.",
					*m.VolumeChangePercent, m.LiftProgressCount, m.TotalKeyLifts,
				),
				RecommendedAction: ActionAdjust,
			}
		},
	},
	{
		matches: func(m BlockMetrics) bool {
			return m.AvgRpe != nil && *m.AvgRpe >= 9.0
		},
		build: func(m BlockMetrics) BlockRecommendation {
			return BlockRecommendation{
				Title: "Manage fatigue",
				Message: fmt.Sprintf(
					"Average RPE of %.1f across the block is very high. Adjust the next block to manage fatigue and recovery.",
					*m.AvgRpe,
				),
				RecommendedAction: ActionAdjust,
			}
		},
	},
	{
		matches: func(m BlockMetrics) bool {
			return true
		},
		build: func(m BlockMetrics) BlockRecommendation {
			return BlockRecommendation{
				Title:             "Stay the course",
				Message:           "Metrics look stable. Maintain the current approach and advance to the next block.",
				RecommendedAction: ActionAdvance,
			}
		},
	},
}

// NextBlockRecommendation turns aggregated block metrics into a single
// prioritized recommendation for what to do with the next block.
func NextBlockRecommendation(m BlockMetrics) BlockRecommendation {
	for _, rule := range recommendationRules {
		if rule.matches(m) {
			return rule.build(m)
		}
	}
	// unreachable, the last rule always matches
	return BlockRecommendation{}
}
