package models

import "time"

// WorkoutLog records one completed workout session. Logs are immutable once
// created: the session runner produces the whole log atomically at the end of
// a session, and it is never partially present in the local store.
//
// WorkoutID is a reference, not ownership: the referenced Workout may later be
// deleted, so WorkoutName keeps a denormalized snapshot of the name.
type WorkoutLog struct {
	ID              string              `json:"id"`
	WorkoutID       string              `json:"workoutId"`
	WorkoutName     string              `json:"workoutName"`
	Date            string              `json:"date"` // calendar day, YYYY-MM-DD
	StartedAt       time.Time           `json:"startedAt"`
	CompletedAt     time.Time           `json:"completedAt"`
	DurationMinutes int                 `json:"durationMinutes"`
	Exercises       []CompletedExercise `json:"exercises"`
}

// CompletedExercise is one exercise performed during a session, with its
// original targets and the sets actually completed.
type CompletedExercise struct {
	ExerciseID  string         `json:"exerciseId"`
	TargetSets  int            `json:"targetSets"`
	TargetReps  int            `json:"targetReps"`
	RestSeconds int            `json:"restSeconds"`
	Sets        []CompletedSet `json:"sets"`
}

// CompletedSet is a single set result.
type CompletedSet struct {
	Reps      int  `json:"reps"`
	Completed bool `json:"completed"`
}
