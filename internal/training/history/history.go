package history

import "time"

// SetStatus marks how a logged set went.
type SetStatus string

const (
	SetStatusCompleted SetStatus = "completed"
	SetStatusSkipped   SetStatus = "skipped"
	SetStatusFailed    SetStatus = "failed"
)

// SetLog is one performed set. Load, Reps and Rpe stay nil when the
// lifter did not track them, absence of data is not an error.
type SetLog struct {
	Status SetStatus `json:"status"`
	// Load is the performed load in kilos
	Load *float64 `json:"load,omitempty"`
	Reps *int     `json:"reps,omitempty"`
	// Rpe is the rate of perceived exertion, 0-10
	Rpe *float64 `json:"rpe,omitempty"`
}

type ExerciseLog struct {
	ExerciseID   string   `json:"exerciseId"`
	ExerciseName string   `json:"exerciseName,omitempty"`
	Sets         []SetLog `json:"sets"`
}

// Entry is one completed training session. The history is an append-only
// log, entries never get edited retroactively.
type Entry struct {
	ID int `json:"id"`
	// Day is the program day tag this session fulfilled, e.g. "monday"
	Day         string        `json:"day"`
	WeekNumber  int           `json:"weekNumber"`
	CompletedAt time.Time     `json:"completedAt"`
	Exercises   []ExerciseLog `json:"exercises"`
}

// CompletedSetCount counts sets with status completed across all exercises.
func (e Entry) CompletedSetCount() int {
	count := 0
	for _, exLog := range e.Exercises {
		for _, set := range exLog.Sets {
			if set.Status == SetStatusCompleted {
				count++
			}
		}
	}
	return count
}
