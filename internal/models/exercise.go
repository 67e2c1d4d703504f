package models

// Exercise is a catalog entry: read-mostly reference data cached locally for
// offline browsing. The client never mutates it, so the catalog is excluded
// from the outbox and the sync merge.
type Exercise struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	MuscleGroups []string `json:"muscleGroups"`
	Equipment    []string `json:"equipment"`
	Difficulty   string   `json:"difficulty"`
	Description  string   `json:"description"`
	Steps        []string `json:"steps"`
}
