package audit

import "time"

// Action describes what was done to a project.
type Action string

const (
	ActionProjectCreated      Action = "project_created"
	ActionProjectSaved        Action = "project_saved"
	ActionProjectRenamed      Action = "project_renamed"
	ActionProjectDeleted      Action = "project_deleted"
	ActionPageAdded           Action = "page_added"
	ActionPageUpdated         Action = "page_updated"
	ActionPageDeleted         Action = "page_deleted"
	ActionComponentInserted   Action = "component_inserted"
	ActionComponentUpdated    Action = "component_updated"
	ActionComponentRemoved    Action = "component_removed"
	ActionComponentDuplicated Action = "component_duplicated"
	ActionHistoryUndo         Action = "history_undo"
	ActionHistoryRedo         Action = "history_redo"
	ActionSiteExported        Action = "site_exported"
)

// Entry is a single audit trail record.
type Entry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	ActorID   string    `json:"actor_id"`
	Action    Action    `json:"action"`
	ProjectID string    `json:"project_id,omitempty"`
	TargetID  string    `json:"target_id,omitempty"`
	Summary   string    `json:"summary,omitempty"`
	Detail    string    `json:"detail,omitempty"`
}
