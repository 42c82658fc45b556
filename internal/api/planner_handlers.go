package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"eventhorizon/internal/calendar"
)

// plannerRequest is the union body for all planner actions. Confirm
// answers the override and delete prompts; with Confirm=false a
// conflicting save reports Conflict=true and keeps the session.
type plannerRequest struct {
	Date    string `json:"date,omitempty"`
	EventID string `json:"event_id,omitempty"`
	Title   string `json:"title,omitempty"`
	Time    string `json:"time,omitempty"`
	Confirm bool   `json:"confirm,omitempty"`
}

// /api/v1/planner/{vendorID}/session GET
// /api/v1/planner/{vendorID}/{open|select|draft|save|delete|cancel|close} POST
func (s *HTTPServer) handlePlanner(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/v1/planner/")
	parts := strings.SplitN(rest, "/", 2)
	if len(parts) != 2 || parts[0] == "" {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	vendorID, action := parts[0], parts[1]

	if action == "session" {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		planner := s.calendars.VendorPlanner(vendorID, nil)
		sess, err := planner.Session(r.Context(), vendorID)
		if err != nil {
			writeError(w, httpStatus(err), err.Error())
			return
		}
		writeJSON(w, http.StatusOK, sess)
		return
	}

	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var body plannerRequest
	if r.ContentLength != 0 {
		if err := decodeBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
	}

	// The HTTP caller answers prompts up front via the confirm flag.
	confirm := func(ctx context.Context, prompt string) bool { return body.Confirm }
	planner := s.calendars.VendorPlanner(vendorID, confirm)

	switch action {
	case "open":
		if body.Date == "" {
			writeError(w, http.StatusBadRequest, "date is required")
			return
		}
		events, err := planner.OpenDay(r.Context(), vendorID, body.Date)
		if err != nil {
			writePlannerError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"events": events})

	case "select":
		if body.EventID == "" {
			writeError(w, http.StatusBadRequest, "event_id is required")
			return
		}
		if err := planner.SelectEvent(r.Context(), vendorID, body.EventID); err != nil {
			writePlannerError(w, err)
			return
		}
		s.writePlannerSession(w, r, planner, vendorID)

	case "draft":
		draft := calendar.Draft{Title: body.Title, Time: body.Time, Date: body.Date}
		if err := planner.UpdateDraft(r.Context(), vendorID, draft); err != nil {
			writePlannerError(w, err)
			return
		}
		s.writePlannerSession(w, r, planner, vendorID)

	case "save":
		result, err := planner.Save(r.Context(), vendorID)
		if err != nil {
			writePlannerError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, result)

	case "delete":
		deleted, err := planner.Delete(r.Context(), vendorID)
		if err != nil {
			writePlannerError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"deleted": deleted})

	case "cancel":
		if err := planner.CancelEdit(r.Context(), vendorID); err != nil {
			writePlannerError(w, err)
			return
		}
		s.writePlannerSession(w, r, planner, vendorID)

	case "close":
		if err := planner.Close(r.Context(), vendorID); err != nil {
			writePlannerError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "closed"})

	default:
		writeError(w, http.StatusNotFound, "not found")
	}
}

func (s *HTTPServer) writePlannerSession(w http.ResponseWriter, r *http.Request, planner *calendar.Planner, vendorID string) {
	sess, err := planner.Session(r.Context(), vendorID)
	if err != nil {
		writeError(w, httpStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func writePlannerError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, calendar.ErrPlannerClosed),
		errors.Is(err, calendar.ErrNotViewingDay),
		errors.Is(err, calendar.ErrNotEditing):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, calendar.ErrUnknownEvent):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		writeError(w, httpStatus(err), err.Error())
	}
}
