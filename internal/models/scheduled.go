package models

// ScheduledWorkout places a workout on the calendar.
type ScheduledWorkout struct {
	ID          string `json:"id"`
	WorkoutID   string `json:"workoutId"`
	WorkoutName string `json:"workoutName"` // denormalized, survives workout deletion
	Date        string `json:"date"`        // YYYY-MM-DD
	Time        string `json:"time,omitempty"`
}
