package models

// Planner modal modes. Editing is reachable only from ViewingDay; both
// Creating and Editing return to Closed on save or explicit cancel.
const (
	ModeClosed     = "closed"
	ModeViewingDay = "viewing_day"
	ModeCreating   = "creating"
	ModeEditing    = "editing"
)

// PlannerSession is the transient calendar-form state for one user:
// the viewed day, the event being edited and the draft fields. It is
// deliberately throwaway; closing the modal discards it.
type PlannerSession struct {
	UserID       string `json:"user_id"`
	Mode         string `json:"mode"`
	SelectedDate string `json:"selected_date"`
	DraftTitle   string `json:"draft_title"`
	DraftTime    string `json:"draft_time"`
	DraftDate    string `json:"draft_date"`

	// Snapshot of the event selected for editing. EditingDate/EditingTime
	// keep the original pair so an unchanged save skips the conflict check.
	EditingID   string    `json:"editing_id,omitempty"`
	EditingType EventType `json:"editing_type,omitempty"`
	EditingDate string    `json:"editing_date,omitempty"`
	EditingTime string    `json:"editing_time,omitempty"`
}
