package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// EntityType identifies which synchronized entity a queue item refers to.
type EntityType string

const (
	EntityWorkout    EntityType = "workout"
	EntityWorkoutLog EntityType = "workout_log"
	EntityScheduled  EntityType = "scheduled"
)

// ActionKind is the mutation recorded in the outbox. Entities are mutated
// only by full replacement, so create and delete are the only kinds.
type ActionKind string

const (
	ActionCreate ActionKind = "create"
	ActionDelete ActionKind = "delete"
)

// QueueItem is one durable outbox row: a mutation whose confirmation from the
// server is still unknown. Ordering is preserved by Seq (auto-increment at
// insertion), not wall-clock time.
type QueueItem struct {
	Seq       int64
	Entity    EntityType
	EntityID  string
	Action    ActionKind
	Payload   []byte // full entity JSON for creates, nil for deletes
	CreatedAt time.Time
}

// Action is a pending mutation in its typed form. The payload is encoded once
// at enqueue time; the sync coordinator never needs to sniff untyped blobs.
//
// The concrete implementations are CreateWorkout, DeleteWorkout, CreateLog,
// CreateScheduled, and DeleteScheduled.
type Action interface {
	Entity() EntityType
	EntityID() string
	Kind() ActionKind
	// Payload returns the JSON body replayed to the server for creates,
	// or nil for deletes.
	Payload() ([]byte, error)
}

// CreateWorkout replays a full workout create.
type CreateWorkout struct {
	Workout Workout
}

func (a CreateWorkout) Entity() EntityType { return EntityWorkout }
func (a CreateWorkout) EntityID() string   { return a.Workout.ID }
func (a CreateWorkout) Kind() ActionKind   { return ActionCreate }
func (a CreateWorkout) Payload() ([]byte, error) {
	return json.Marshal(a.Workout)
}

// DeleteWorkout records a workout deletion by id.
type DeleteWorkout struct {
	ID string
}

func (a DeleteWorkout) Entity() EntityType       { return EntityWorkout }
func (a DeleteWorkout) EntityID() string         { return a.ID }
func (a DeleteWorkout) Kind() ActionKind         { return ActionDelete }
func (a DeleteWorkout) Payload() ([]byte, error) { return nil, nil }

// CreateLog replays a completed-session log. Logs are immutable, so there is
// no delete counterpart.
type CreateLog struct {
	Log WorkoutLog
}

func (a CreateLog) Entity() EntityType { return EntityWorkoutLog }
func (a CreateLog) EntityID() string   { return a.Log.ID }
func (a CreateLog) Kind() ActionKind   { return ActionCreate }
func (a CreateLog) Payload() ([]byte, error) {
	return json.Marshal(a.Log)
}

// CreateScheduled replays placing a workout on the calendar.
type CreateScheduled struct {
	Scheduled ScheduledWorkout
}

func (a CreateScheduled) Entity() EntityType { return EntityScheduled }
func (a CreateScheduled) EntityID() string   { return a.Scheduled.ID }
func (a CreateScheduled) Kind() ActionKind   { return ActionCreate }
func (a CreateScheduled) Payload() ([]byte, error) {
	return json.Marshal(a.Scheduled)
}

// DeleteScheduled records removing a calendar entry by id.
type DeleteScheduled struct {
	ID string
}

func (a DeleteScheduled) Entity() EntityType       { return EntityScheduled }
func (a DeleteScheduled) EntityID() string         { return a.ID }
func (a DeleteScheduled) Kind() ActionKind         { return ActionDelete }
func (a DeleteScheduled) Payload() ([]byte, error) { return nil, nil }

// NewQueueItem encodes a typed action into its durable outbox form.
// Seq is assigned by the store on insert.
func NewQueueItem(a Action) (QueueItem, error) {
	payload, err := a.Payload()
	if err != nil {
		return QueueItem{}, fmt.Errorf("encoding outbox payload: %w", err)
	}
	return QueueItem{
		Entity:    a.Entity(),
		EntityID:  a.EntityID(),
		Action:    a.Kind(),
		Payload:   payload,
		CreatedAt: time.Now().UTC(),
	}, nil
}
