package calendar

import (
	"context"
	"errors"

	"eventhorizon/internal/domain"
	"eventhorizon/internal/models"
)

var (
	ErrPlannerClosed = errors.New("planner is not open")
	ErrNotViewingDay = errors.New("operation requires an open day view")
	ErrNotEditing    = errors.New("operation requires edit mode")
	ErrUnknownEvent  = errors.New("event not found on selected day")
)

// EventSource re-derives the projection on demand. The planner never
// caches events between calls.
type EventSource func(ctx context.Context) ([]models.CalendarEvent, error)

// Confirmer resolves the "continue anyway?" prompt on a detected
// conflict. Returning true overrides the conflict and commits.
type Confirmer func(ctx context.Context, prompt string) bool

// Callbacks connect the planner to the owning stores. The planner holds
// no persistence of its own; a nil callback disables that action. A
// non-nil OnDateSelect turns the calendar read-only: day clicks are
// forwarded downstream and the modal never opens.
type Callbacks struct {
	OnAdd         func(ctx context.Context, date, slotTime, title string) error
	OnEdit        func(ctx context.Context, event models.CalendarEvent, newTime, newDate string) error
	OnDelete      func(ctx context.Context, eventID string) error
	CheckConflict func(ctx context.Context, date, slotTime string) (bool, error)
	OnDateSelect  func(ctx context.Context, date string) error
}

// Draft mirrors the three form fields of the event modal.
type Draft struct {
	Title string
	Time  string
	Date  string
}

// SaveResult reports what a save attempt did. Saved=false with
// Conflict=false means the draft was incomplete and the save was a
// silent no-op; Saved=false with Conflict=true means the user declined
// the override prompt. The session survives either way.
type SaveResult struct {
	Saved      bool `json:"saved"`
	Conflict   bool `json:"conflict"`
	Overridden bool `json:"overridden"`
}

// Planner drives the modal state machine
// Closed -> ViewingDay -> {Creating, Editing} -> Closed
// over per-user sessions. All mutations are dispatched through
// Callbacks; the planner itself only reads.
type Planner struct {
	sessions domain.SessionRepository
	events   EventSource
	cb       Callbacks
	confirm  Confirmer
}

func NewPlanner(sessions domain.SessionRepository, events EventSource, cb Callbacks, confirm Confirmer) *Planner {
	return &Planner{sessions: sessions, events: events, cb: cb, confirm: confirm}
}

// OpenDay handles a day-cell click. With OnDateSelect wired the click is
// forwarded and the modal stays closed; otherwise the day view opens
// with a fresh draft anchored to the clicked date.
func (p *Planner) OpenDay(ctx context.Context, userID, date string) ([]models.CalendarEvent, error) {
	if p.cb.OnDateSelect != nil {
		return nil, p.cb.OnDateSelect(ctx, date)
	}

	sess := &models.PlannerSession{
		UserID:       userID,
		Mode:         models.ModeViewingDay,
		SelectedDate: date,
		DraftDate:    date,
	}
	if err := p.sessions.SetSession(ctx, sess); err != nil {
		return nil, err
	}

	return p.dayEvents(ctx, date)
}

// SelectEvent enters edit mode for one of the selected day's events.
func (p *Planner) SelectEvent(ctx context.Context, userID, eventID string) error {
	sess, err := p.session(ctx, userID)
	if err != nil {
		return err
	}
	if sess.Mode != models.ModeViewingDay {
		return ErrNotViewingDay
	}

	dayEvents, err := p.dayEvents(ctx, sess.SelectedDate)
	if err != nil {
		return err
	}

	for _, ev := range dayEvents {
		if ev.ID != eventID {
			continue
		}
		sess.Mode = models.ModeEditing
		sess.EditingID = ev.ID
		sess.EditingType = ev.Type
		sess.EditingDate = ev.Date
		sess.EditingTime = ev.Time
		sess.DraftTitle = ev.Title
		sess.DraftTime = ev.Time
		sess.DraftDate = ev.Date
		return p.sessions.SetSession(ctx, sess)
	}

	return ErrUnknownEvent
}

// UpdateDraft replaces the form fields. Touching the draft from the day
// view moves the planner into create mode.
func (p *Planner) UpdateDraft(ctx context.Context, userID string, draft Draft) error {
	sess, err := p.session(ctx, userID)
	if err != nil {
		return err
	}

	if sess.Mode == models.ModeViewingDay {
		sess.Mode = models.ModeCreating
	}

	sess.DraftTitle = draft.Title
	sess.DraftTime = draft.Time
	sess.DraftDate = draft.Date
	return p.sessions.SetSession(ctx, sess)
}

// Save commits the draft: a create when no event is selected, an edit
// otherwise. An incomplete draft no-ops. A detected conflict goes
// through the Confirmer; declining leaves the modal open with the draft
// intact. On success the modal closes.
func (p *Planner) Save(ctx context.Context, userID string) (SaveResult, error) {
	sess, err := p.session(ctx, userID)
	if err != nil {
		return SaveResult{}, err
	}

	if sess.DraftTitle == "" || sess.DraftTime == "" || sess.DraftDate == "" {
		return SaveResult{}, nil
	}

	var result SaveResult
	if p.cb.CheckConflict != nil && !p.selfEdit(sess) {
		conflict, err := p.cb.CheckConflict(ctx, sess.DraftDate, sess.DraftTime)
		if err != nil {
			return SaveResult{}, err
		}
		if conflict {
			result.Conflict = true
			if p.confirm == nil || !p.confirm(ctx, "Slot conflict detected. Continue anyway?") {
				return result, nil
			}
			result.Overridden = true
		}
	}

	editing := sess.Mode == models.ModeEditing
	switch {
	case editing && p.cb.OnEdit != nil:
		event := models.CalendarEvent{
			ID:    sess.EditingID,
			Title: sess.DraftTitle,
			Date:  sess.EditingDate,
			Time:  sess.EditingTime,
			Type:  sess.EditingType,
		}
		if err := p.cb.OnEdit(ctx, event, sess.DraftTime, sess.DraftDate); err != nil {
			return result, err
		}
	case editing:
		// Editing with no OnEdit wired must not create a duplicate.
		return result, nil
	case p.cb.OnAdd != nil:
		if err := p.cb.OnAdd(ctx, sess.DraftDate, sess.DraftTime, sess.DraftTitle); err != nil {
			return result, err
		}
	default:
		// Neither action is wired; the form should not have been shown.
		return result, nil
	}

	result.Saved = true
	return result, p.sessions.ClearSession(ctx, userID)
}

// Delete removes the selected event. Only offered in edit mode; the
// Confirmer guards against accidental taps.
func (p *Planner) Delete(ctx context.Context, userID string) (bool, error) {
	sess, err := p.session(ctx, userID)
	if err != nil {
		return false, err
	}
	if sess.Mode != models.ModeEditing {
		return false, ErrNotEditing
	}
	if p.cb.OnDelete == nil {
		return false, nil
	}
	if p.confirm != nil && !p.confirm(ctx, "Delete this event?") {
		return false, nil
	}

	if err := p.cb.OnDelete(ctx, sess.EditingID); err != nil {
		return false, err
	}
	return true, p.sessions.ClearSession(ctx, userID)
}

// CancelEdit drops back from edit mode to the day view.
func (p *Planner) CancelEdit(ctx context.Context, userID string) error {
	sess, err := p.session(ctx, userID)
	if err != nil {
		return err
	}
	if sess.Mode != models.ModeEditing {
		return ErrNotEditing
	}

	sess.Mode = models.ModeViewingDay
	sess.EditingID = ""
	sess.EditingType = ""
	sess.EditingDate = ""
	sess.EditingTime = ""
	return p.sessions.SetSession(ctx, sess)
}

// Close discards the session; an unsaved draft is simply forgotten.
func (p *Planner) Close(ctx context.Context, userID string) error {
	return p.sessions.ClearSession(ctx, userID)
}

// Session exposes the current state for rendering.
func (p *Planner) Session(ctx context.Context, userID string) (*models.PlannerSession, error) {
	sess, err := p.sessions.GetSession(ctx, userID)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return &models.PlannerSession{UserID: userID, Mode: models.ModeClosed}, nil
	}
	return sess, nil
}

// selfEdit reports an edit whose (date, time) pair is unchanged; the
// conflict check is skipped so an event never collides with itself.
func (p *Planner) selfEdit(sess *models.PlannerSession) bool {
	return sess.Mode == models.ModeEditing &&
		sess.EditingTime == sess.DraftTime &&
		sess.EditingDate == sess.DraftDate
}

func (p *Planner) session(ctx context.Context, userID string) (*models.PlannerSession, error) {
	sess, err := p.sessions.GetSession(ctx, userID)
	if err != nil {
		return nil, err
	}
	if sess == nil || sess.Mode == models.ModeClosed || sess.Mode == "" {
		return nil, ErrPlannerClosed
	}
	return sess, nil
}

func (p *Planner) dayEvents(ctx context.Context, date string) ([]models.CalendarEvent, error) {
	all, err := p.events(ctx)
	if err != nil {
		return nil, err
	}
	return EventsForDate(all, date), nil
}
