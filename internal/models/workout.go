// Package models defines client-side data models persisted in the local
// store and exchanged with the remote API.
package models

import "time"

// Workout is a user-built workout template. It is owned by exactly one user
// and synchronized with the server.
type Workout struct {
	// ID is a globally unique, caller-assigned identifier. IDs created
	// offline never collide with IDs assigned elsewhere.
	ID string `json:"id"`

	// Name is the user-facing workout title.
	Name string `json:"name"`

	// Exercises is the ordered exercise list making up the workout.
	Exercises []WorkoutExercise `json:"exercises"`

	// CreatedAt is the creation time in UTC.
	CreatedAt time.Time `json:"createdAt"`
}

// WorkoutExercise is one planned exercise inside a Workout.
type WorkoutExercise struct {
	ExerciseID  string `json:"exerciseId"`
	Sets        int    `json:"sets"`
	Reps        int    `json:"reps"`
	RestSeconds int    `json:"restSeconds"`
}
