package api

import (
	"encoding/json"

	"github.com/fitsyncapp/fitsync/internal/models"
)

// User is the server-side identity behind the session.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Session is the result of a successful authentication.
type Session struct {
	Token string
	User  User
}

// authRequest is the JSON body for /auth/login and /auth/register.
type authRequest struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// authResponse is the JSON reply from the auth endpoints.
type authResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// SyncAction is one outbox item in wire form.
type SyncAction struct {
	Entity   string          `json:"entity"`
	EntityID string          `json:"entity_id"`
	Action   string          `json:"action"`
	Payload  json.RawMessage `json:"payload,omitempty"`
}

// SyncRequest is the body of POST /workouts/sync.
type SyncRequest struct {
	Actions  []SyncAction `json:"actions"`
	LastSync string       `json:"lastSync,omitempty"`
}

// SyncData is the authoritative snapshot included in a sync reply.
type SyncData struct {
	Workouts  []models.Workout          `json:"workouts"`
	Logs      []models.WorkoutLog       `json:"logs"`
	Scheduled []models.ScheduledWorkout `json:"scheduled"`
}

// SyncResponse is the reply of POST /workouts/sync.
type SyncResponse struct {
	Processed  int       `json:"processed"`
	ServerTime string    `json:"serverTime,omitempty"`
	Data       *SyncData `json:"data,omitempty"`
}

// QueueItemToAction converts a durable outbox row into its wire form.
func QueueItemToAction(item models.QueueItem) SyncAction {
	return SyncAction{
		Entity:   string(item.Entity),
		EntityID: item.EntityID,
		Action:   string(item.Action),
		Payload:  json.RawMessage(item.Payload),
	}
}
