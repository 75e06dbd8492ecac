// Package coach turns program and history snapshots into reviews and
// recommendations served over the API. The math lives in the periodization
// package, this one loads the snapshots, aggregates block metrics and
// caches the results.
package coach

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/2beens/traincoach/internal/telemetry/tracing"
	"github.com/2beens/traincoach/internal/training/history"
	"github.com/2beens/traincoach/internal/training/periodization"
	"github.com/2beens/traincoach/internal/training/program"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=coach_mocks_test.go -package=coach_test

var (
	ErrWeekNotFound  = errors.New("week not found")
	ErrNoActiveBlock = errors.New("no active block")
)

type programRepo interface {
	Get(ctx context.Context) (*program.MultiWeek, error)
}

type historyRepo interface {
	ListAll(ctx context.Context) ([]history.Entry, error)
}

const (
	megabyte        = 1024 * 1024
	reviewCacheSize = 10 * megabyte
	// a freshly logged workout shows up in the week review with at most
	// this delay, in seconds
	reviewCacheExpire = 5 * 60
)

// WeekReview is the full coaching view of one program week.
type WeekReview struct {
	WeekNumber int                                  `json:"weekNumber"`
	Phase      program.Phase                        `json:"phase"`
	Adherence  periodization.WeeklyAdherenceMetrics `json:"adherence"`
	Stress     periodization.WeeklyStressMetrics    `json:"stress"`
	KeyLifts   []periodization.KeyLiftSummary       `json:"keyLifts"`
	Insights   []periodization.CoachInsight         `json:"insights"`
}

// BlockReview sums up the active block and says what to do with the next one.
type BlockReview struct {
	BlockID        string                            `json:"blockId"`
	Goal           program.Goal                      `json:"goal"`
	StartWeekIndex int                               `json:"startWeekIndex"`
	WeeksInBlock   int                               `json:"weeksInBlock"`
	Metrics        periodization.BlockMetrics        `json:"metrics"`
	Recommendation periodization.BlockRecommendation `json:"recommendation"`
}

type Analyzer struct {
	programRepo programRepo
	historyRepo historyRepo
	cache       *freecache.Cache
}

func NewAnalyzer(programRepo programRepo, historyRepo historyRepo) *Analyzer {
	return &Analyzer{
		programRepo: programRepo,
		historyRepo: historyRepo,
		cache:       freecache.NewCache(reviewCacheSize),
	}
}

// WeekReview computes adherence, stress, key lifts and coach insights for
// the given week number. Reviews get cached for a few minutes, the review
// of a finished week rarely changes.
func (a *Analyzer) WeekReview(ctx context.Context, weekNumber int) (_ *WeekReview, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "analyzer.coach.weekReview")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("week.number", weekNumber))

	cacheKey := fmt.Sprintf("week-review::%d", weekNumber)
	if reviewBytes, err := a.cache.Get([]byte(cacheKey)); err == nil {
		log.Tracef("found review for week %d in cache", weekNumber)
		review := &WeekReview{}
		if err = json.Unmarshal(reviewBytes, review); err == nil {
			span.SetAttributes(attribute.Bool("from-cache", true))
			return review, nil
		}
		log.Errorf("failed to unmarshal cached review for week %d: %s", weekNumber, err)
	}

	p, err := a.programRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("get program: %w", err)
	}

	weekIndex := p.WeekIndexByNumber(weekNumber)
	if weekIndex < 0 {
		return nil, ErrWeekNotFound
	}
	week := p.Weeks[weekIndex]

	var previousWeek *program.Week
	if weekIndex > 0 {
		previousWeek = &p.Weeks[weekIndex-1]
	}

	entries, err := a.historyRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}

	adherence := periodization.CalculateWeeklyAdherence(week, entries)
	stress := periodization.CalculateWeeklyStress(week, previousWeek, entries)
	keyLifts := periodization.SummarizeKeyLifts(week, previousWeek, entries, periodization.DefaultKeyLiftCount)
	insights := periodization.SortInsightsByPriority(
		periodization.GenerateCoachInsights(periodization.InsightParams{
			WeekNumber: week.WeekNumber,
			Phase:      week.Phase,
			Adherence:  adherence,
			Stress:     stress,
			KeyLifts:   keyLifts,
		}),
	)

	review := &WeekReview{
		WeekNumber: week.WeekNumber,
		Phase:      week.Phase,
		Adherence:  adherence,
		Stress:     stress,
		KeyLifts:   keyLifts,
		Insights:   insights,
	}

	if reviewBytes, err := json.Marshal(review); err != nil {
		log.Errorf("failed to marshal review for week %d: %s", weekNumber, err)
	} else if err := a.cache.Set([]byte(cacheKey), reviewBytes, reviewCacheExpire); err != nil {
		log.Errorf("failed to write review cache for week %d: %s", weekNumber, err)
	}

	return review, nil
}

// ActiveBlockRecommendation aggregates the weekly metrics of the active
// block and turns them into a recommendation for the next block. Broken
// block bookkeeping (indices pointing outside the program) is an error,
// it is never silently repaired.
func (a *Analyzer) ActiveBlockRecommendation(ctx context.Context) (_ *BlockReview, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "analyzer.coach.activeBlockRecommendation")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	p, err := a.programRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("get program: %w", err)
	}

	activeBlock := p.ActiveBlock()
	if activeBlock == nil {
		return nil, ErrNoActiveBlock
	}

	if activeBlock.StartWeekIndex < 0 || activeBlock.StartWeekIndex >= len(p.Weeks) {
		return nil, fmt.Errorf("active block start index %d out of range", activeBlock.StartWeekIndex)
	}
	if p.CurrentWeekIndex < activeBlock.StartWeekIndex || p.CurrentWeekIndex >= len(p.Weeks) {
		return nil, fmt.Errorf("current week index %d outside the active block", p.CurrentWeekIndex)
	}

	blockWeeks := p.Weeks[activeBlock.StartWeekIndex : p.CurrentWeekIndex+1]

	entries, err := a.historyRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}

	metrics := blockMetrics(blockWeeks, entries)
	recommendation := periodization.NextBlockRecommendation(metrics)

	span.SetAttributes(
		attribute.String("block.id", activeBlock.ID),
		attribute.Int("block.weeks", len(blockWeeks)),
		attribute.String("recommendation.action", string(recommendation.RecommendedAction)),
	)

	return &BlockReview{
		BlockID:        activeBlock.ID,
		Goal:           activeBlock.Goal,
		StartWeekIndex: activeBlock.StartWeekIndex,
		WeeksInBlock:   len(blockWeeks),
		Metrics:        metrics,
		Recommendation: recommendation,
	}, nil
}

// blockMetrics folds per-week metrics into one BlockMetrics value:
// adherence ratios are averaged across the block weeks, the volume change
// compares the first and the last week, and key lift progress compares the
// last week against the first.
func blockMetrics(blockWeeks []program.Week, entries []history.Entry) periodization.BlockMetrics {
	metrics := periodization.BlockMetrics{}
	if len(blockWeeks) == 0 {
		return metrics
	}

	sessionSum, setSum := 0.0, 0.0
	rpeSum, rpeCount := 0.0, 0
	for _, week := range blockWeeks {
		adherence := periodization.CalculateWeeklyAdherence(week, entries)
		sessionSum += adherence.SessionAdherence
		setSum += adherence.SetAdherence

		if avgRpe := periodization.CalculateWeeklyStress(week, nil, entries).AvgRpe; avgRpe != nil {
			rpeSum += *avgRpe
			rpeCount++
		}
	}

	weekCount := float64(len(blockWeeks))
	metrics.SessionAdherence = sessionSum / weekCount
	metrics.SetAdherence = setSum / weekCount

	if rpeCount > 0 {
		avgRpe := rpeSum / float64(rpeCount)
		metrics.AvgRpe = &avgRpe
	}

	firstWeek := blockWeeks[0]
	lastWeek := blockWeeks[len(blockWeeks)-1]

	var previousWeek *program.Week
	if len(blockWeeks) > 1 {
		previousWeek = &firstWeek

		firstVolume := periodization.WeekTotalVolume(entries, firstWeek)
		lastVolume := periodization.WeekTotalVolume(entries, lastWeek)
		if firstVolume > 0 {
			change := (lastVolume - firstVolume) / firstVolume * 100
			metrics.VolumeChangePercent = &change
		}
	}

	keyLifts := periodization.SummarizeKeyLifts(lastWeek, previousWeek, entries, periodization.DefaultKeyLiftCount)
	metrics.TotalKeyLifts = len(keyLifts)
	for _, lift := range keyLifts {
		if lift.ChangePercent != nil && *lift.ChangePercent > 0 {
			metrics.LiftProgressCount++
		}
	}

	return metrics
}
