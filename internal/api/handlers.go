package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"eventhorizon/internal/calendar"
	"eventhorizon/internal/domain"
	"eventhorizon/internal/models"
)

func httpStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrSlotUnavailable), errors.Is(err, domain.ErrAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrUserBlocked):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// GET /api/v1/availability/{vendorID}?date=YYYY-MM-DD&time=HH:MM
func (s *HTTPServer) handleAvailability(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	vendorID := strings.TrimPrefix(r.URL.Path, "/api/v1/availability/")
	if vendorID == "" || strings.Contains(vendorID, "/") {
		writeError(w, http.StatusBadRequest, "vendor id is required")
		return
	}

	date := strings.TrimSpace(r.URL.Query().Get("date"))
	slotTime := strings.TrimSpace(r.URL.Query().Get("time"))
	if date == "" || slotTime == "" {
		writeError(w, http.StatusBadRequest, "date and time are required")
		return
	}

	available, err := s.availability.IsAvailable(r.Context(), vendorID, date, slotTime)
	if err != nil {
		writeError(w, httpStatus(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"vendor_id": vendorID,
		"date":      date,
		"time":      slotTime,
		"available": available,
	})
}

// GET /api/v1/vendors
func (s *HTTPServer) handleVendors(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	vendors, err := s.vendors.ListVendors(r.Context())
	if err != nil {
		writeError(w, httpStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"vendors": vendors})
}

// /api/v1/vendors/{id}[/blocked-dates|/packages|/menu-items|/amenities|/images]
func (s *HTTPServer) handleVendorSubresource(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/v1/vendors/")
	parts := strings.SplitN(rest, "/", 2)
	vendorID := parts[0]
	if vendorID == "" {
		writeError(w, http.StatusBadRequest, "vendor id is required")
		return
	}

	if len(parts) == 1 {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		vendor, err := s.vendors.GetVendor(r.Context(), vendorID)
		if err != nil {
			writeError(w, httpStatus(err), err.Error())
			return
		}
		writeJSON(w, http.StatusOK, vendor)
		return
	}

	switch parts[1] {
	case "blocked-dates":
		s.handleBlockedDates(w, r, vendorID)
	case "packages":
		s.handleAddPackage(w, r, vendorID)
	case "menu-items":
		s.handleAddMenuItem(w, r, vendorID)
	case "amenities":
		s.handleToggleAmenity(w, r, vendorID)
	case "images":
		s.handleAddImage(w, r, vendorID)
	default:
		writeError(w, http.StatusNotFound, "not found")
	}
}

func (s *HTTPServer) handleBlockedDates(w http.ResponseWriter, r *http.Request, vendorID string) {
	switch r.Method {
	case http.MethodGet:
		dates, err := s.vendors.GetBlockedDates(r.Context(), vendorID)
		if err != nil {
			writeError(w, httpStatus(err), err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"blocked_dates": dates})
	case http.MethodPost:
		var body struct {
			Date string `json:"date"`
		}
		if err := decodeBody(r, &body); err != nil || body.Date == "" {
			writeError(w, http.StatusBadRequest, "date is required")
			return
		}
		blocked, err := s.vendors.ToggleBlockedDate(r.Context(), vendorID, body.Date)
		if err != nil {
			writeError(w, httpStatus(err), err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"date": body.Date, "blocked": blocked})
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) handleAddPackage(w http.ResponseWriter, r *http.Request, vendorID string) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var pkg models.Package
	if err := decodeBody(r, &pkg); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	created, err := s.vendors.AddPackage(r.Context(), vendorID, pkg)
	if err != nil {
		writeError(w, httpStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *HTTPServer) handleAddMenuItem(w http.ResponseWriter, r *http.Request, vendorID string) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var item models.MenuItem
	if err := decodeBody(r, &item); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	created, err := s.vendors.AddMenuItem(r.Context(), vendorID, item)
	if err != nil {
		writeError(w, httpStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *HTTPServer) handleToggleAmenity(w http.ResponseWriter, r *http.Request, vendorID string) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var body struct {
		Amenity string `json:"amenity"`
	}
	if err := decodeBody(r, &body); err != nil || body.Amenity == "" {
		writeError(w, http.StatusBadRequest, "amenity is required")
		return
	}
	if err := s.vendors.ToggleAmenity(r.Context(), vendorID, body.Amenity); err != nil {
		writeError(w, httpStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *HTTPServer) handleAddImage(w http.ResponseWriter, r *http.Request, vendorID string) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var body struct {
		URL string `json:"url"`
	}
	if err := decodeBody(r, &body); err != nil || body.URL == "" {
		writeError(w, http.StatusBadRequest, "url is required")
		return
	}
	if err := s.vendors.AddImage(r.Context(), vendorID, body.URL); err != nil {
		writeError(w, httpStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GET /api/v1/bookings[?vendor_id=|client_id=]
// POST /api/v1/bookings
func (s *HTTPServer) handleBookings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		var (
			bookings []*models.Booking
			err      error
		)
		if vendorID := r.URL.Query().Get("vendor_id"); vendorID != "" {
			bookings, err = s.bookings.BookingsForVendor(r.Context(), vendorID)
		} else if clientID := r.URL.Query().Get("client_id"); clientID != "" {
			bookings, err = s.bookings.BookingsForClient(r.Context(), clientID)
		} else {
			bookings, err = s.bookings.ListBookings(r.Context())
		}
		if err != nil {
			writeError(w, httpStatus(err), err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"bookings": bookings})

	case http.MethodPost:
		var body struct {
			models.Booking
			Override bool `json:"override"`
		}
		if err := decodeBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if body.VendorID == "" || body.ClientID == "" || body.Date == "" || body.Time == "" {
			writeError(w, http.StatusBadRequest, "vendor_id, client_id, date and time are required")
			return
		}
		if err := s.bookings.ValidateBookingDate(body.Date); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		booking := body.Booking
		if err := s.bookings.CreateBooking(r.Context(), &booking, body.Override); err != nil {
			writeError(w, httpStatus(err), err.Error())
			return
		}
		writeJSON(w, http.StatusCreated, booking)

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// /api/v1/bookings/{id} GET, PATCH
// /api/v1/bookings/{id}/status POST
func (s *HTTPServer) handleBookingByID(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/v1/bookings/")
	parts := strings.SplitN(rest, "/", 2)
	bookingID := parts[0]
	if bookingID == "" {
		writeError(w, http.StatusBadRequest, "booking id is required")
		return
	}

	if len(parts) == 2 && parts[1] == "status" {
		s.handleBookingStatus(w, r, bookingID)
		return
	}

	switch r.Method {
	case http.MethodGet:
		booking, err := s.bookings.GetBooking(r.Context(), bookingID)
		if err != nil {
			writeError(w, httpStatus(err), err.Error())
			return
		}
		writeJSON(w, http.StatusOK, booking)

	case http.MethodPatch:
		var upd models.BookingUpdate
		if err := decodeBody(r, &upd); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		override := r.URL.Query().Get("override") == "true"

		// A date or time move goes through the reschedule path with its
		// availability re-check; other fields update in place.
		if upd.Date != nil || upd.Time != nil {
			booking, err := s.bookings.GetBooking(r.Context(), bookingID)
			if err != nil {
				writeError(w, httpStatus(err), err.Error())
				return
			}
			newDate, newTime := booking.Date, booking.Time
			if upd.Date != nil {
				newDate = *upd.Date
			}
			if upd.Time != nil {
				newTime = *upd.Time
			}
			if err := s.bookings.RescheduleBooking(r.Context(), bookingID, newDate, newTime, override); err != nil {
				writeError(w, httpStatus(err), err.Error())
				return
			}
			upd.Date, upd.Time = nil, nil
		}

		if upd != (models.BookingUpdate{}) {
			if err := s.bookings.UpdateBooking(r.Context(), bookingID, upd); err != nil {
				writeError(w, httpStatus(err), err.Error())
				return
			}
		}

		booking, err := s.bookings.GetBooking(r.Context(), bookingID)
		if err != nil {
			writeError(w, httpStatus(err), err.Error())
			return
		}
		writeJSON(w, http.StatusOK, booking)

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) handleBookingStatus(w http.ResponseWriter, r *http.Request, bookingID string) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	var err error
	switch body.Status {
	case models.StatusConfirmed:
		err = s.bookings.ConfirmBooking(r.Context(), bookingID)
	case models.StatusRejected:
		err = s.bookings.RejectBooking(r.Context(), bookingID)
	case models.StatusCancelled:
		err = s.bookings.CancelBooking(r.Context(), bookingID)
	case models.StatusCompleted:
		err = s.bookings.CompleteBooking(r.Context(), bookingID)
	default:
		writeError(w, http.StatusBadRequest, "unknown status")
		return
	}
	if err != nil {
		writeError(w, httpStatus(err), err.Error())
		return
	}

	booking, err := s.bookings.GetBooking(r.Context(), bookingID)
	if err != nil {
		writeError(w, httpStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

// GET /api/v1/calendar?year=&month=
func (s *HTTPServer) handleGlobalCalendar(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	view, err := monthViewFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	events, err := s.calendars.GlobalEvents(r.Context())
	if err != nil {
		writeError(w, httpStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"grid": view.Grid(), "events": events})
}

// GET /api/v1/calendar/{vendorID}?year=&month=
func (s *HTTPServer) handleVendorCalendar(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	vendorID := strings.TrimPrefix(r.URL.Path, "/api/v1/calendar/")
	if vendorID == "" || strings.Contains(vendorID, "/") {
		writeError(w, http.StatusBadRequest, "vendor id is required")
		return
	}

	view, err := monthViewFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	page, err := s.calendars.VendorMonth(r.Context(), vendorID, view)
	if err != nil {
		writeError(w, httpStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func monthViewFromQuery(r *http.Request) (calendar.MonthView, error) {
	view := calendar.ViewOf(time.Now())

	if raw := r.URL.Query().Get("year"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			return calendar.MonthView{}, errors.New("invalid year")
		}
		view.Year = year
	}
	if raw := r.URL.Query().Get("month"); raw != "" {
		month, err := strconv.Atoi(raw)
		if err != nil || month < 1 || month > 12 {
			return calendar.MonthView{}, errors.New("invalid month; expected 1-12")
		}
		view.Month = time.Month(month)
	}
	return view, nil
}

// /api/v1/notifications/{userID} GET ?since=RFC3339
// /api/v1/notifications/{userID}/read POST
func (s *HTTPServer) handleNotifications(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/v1/notifications/")
	parts := strings.SplitN(rest, "/", 2)
	userID := parts[0]
	if userID == "" {
		writeError(w, http.StatusBadRequest, "user id is required")
		return
	}

	if len(parts) == 2 && parts[1] == "read" {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		if err := s.notifications.MarkAllRead(r.Context(), userID); err != nil {
			writeError(w, httpStatus(err), err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		return
	}

	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var (
		list []*models.Notification
		err  error
	)
	if raw := r.URL.Query().Get("since"); raw != "" {
		since, parseErr := time.Parse(time.RFC3339, raw)
		if parseErr != nil {
			writeError(w, http.StatusBadRequest, "invalid since; expected RFC3339")
			return
		}
		list, err = s.notifications.Poll(r.Context(), userID, since)
	} else {
		list, err = s.notifications.List(r.Context(), userID)
	}
	if err != nil {
		writeError(w, httpStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"notifications": list})
}

// POST /api/v1/auth/register
func (s *HTTPServer) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	// Password never serializes out of models.User, so it rides in
	// alongside the embedded struct here.
	var body struct {
		models.User
		Password string `json:"password"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if body.Email == "" || body.Name == "" || body.Role == "" {
		writeError(w, http.StatusBadRequest, "name, email and role are required")
		return
	}

	user := body.User
	user.Password = body.Password
	created, err := s.users.Register(r.Context(), &user)
	if err != nil {
		writeError(w, httpStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// POST /api/v1/auth/login
func (s *HTTPServer) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	user, err := s.users.Login(r.Context(), body.Email, body.Password)
	if err != nil {
		writeError(w, httpStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// /api/v1/users/{id}/block POST
// /api/v1/users/{id}/verification POST
// /api/v1/users/{id}/favorites POST
func (s *HTTPServer) handleUserSubresource(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/v1/users/")
	parts := strings.SplitN(rest, "/", 2)
	userID := parts[0]
	if userID == "" || len(parts) != 2 {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	switch parts[1] {
	case "block":
		blocked, err := s.users.ToggleUserBlock(r.Context(), userID)
		if err != nil {
			writeError(w, httpStatus(err), err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"blocked": blocked})
	case "verification":
		var body struct {
			Status string `json:"status"`
			Reason string `json:"reason"`
		}
		if err := decodeBody(r, &body); err != nil || body.Status == "" {
			writeError(w, http.StatusBadRequest, "status is required")
			return
		}
		if err := s.users.UpdateVerificationStatus(r.Context(), userID, body.Status, body.Reason); err != nil {
			writeError(w, httpStatus(err), err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	case "favorites":
		var body struct {
			VendorID string `json:"vendor_id"`
		}
		if err := decodeBody(r, &body); err != nil || body.VendorID == "" {
			writeError(w, http.StatusBadRequest, "vendor_id is required")
			return
		}
		favorite, err := s.users.ToggleFavorite(r.Context(), userID, body.VendorID)
		if err != nil {
			writeError(w, httpStatus(err), err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"favorite": favorite})
	default:
		writeError(w, http.StatusNotFound, "not found")
	}
}

// /api/v1/admin/payouts GET, /api/v1/admin/payouts/{id}/process POST
// /api/v1/admin/tickets GET, /api/v1/admin/tickets/{id}/resolve POST
func (s *HTTPServer) handleAdmin(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/v1/admin/")
	parts := strings.Split(rest, "/")

	switch {
	case rest == "payouts" && r.Method == http.MethodGet:
		payouts, err := s.admin.ListPayouts(r.Context())
		if err != nil {
			writeError(w, httpStatus(err), err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"payouts": payouts})

	case len(parts) == 3 && parts[0] == "payouts" && parts[2] == "process" && r.Method == http.MethodPost:
		if err := s.admin.ProcessPayout(r.Context(), parts[1]); err != nil {
			writeError(w, httpStatus(err), err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "processed"})

	case rest == "tickets" && r.Method == http.MethodGet:
		tickets, err := s.admin.ListTickets(r.Context())
		if err != nil {
			writeError(w, httpStatus(err), err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"tickets": tickets})

	case len(parts) == 3 && parts[0] == "tickets" && parts[2] == "resolve" && r.Method == http.MethodPost:
		if err := s.admin.ResolveTicket(r.Context(), parts[1]); err != nil {
			writeError(w, httpStatus(err), err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "resolved"})

	default:
		writeError(w, http.StatusNotFound, "not found")
	}
}

// GET /api/v1/quotations, POST /api/v1/quotations
func (s *HTTPServer) handleQuotations(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		quotations, err := s.admin.ListQuotations(r.Context())
		if err != nil {
			writeError(w, httpStatus(err), err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"quotations": quotations})

	case http.MethodPost:
		var q models.Quotation
		if err := decodeBody(r, &q); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if q.ClientID == "" || q.VendorID == "" {
			writeError(w, http.StatusBadRequest, "client_id and vendor_id are required")
			return
		}
		created, err := s.admin.RequestQuotation(r.Context(), &q)
		if err != nil {
			writeError(w, httpStatus(err), err.Error())
			return
		}
		writeJSON(w, http.StatusCreated, created)

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// POST /api/v1/quotations/{id}/respond
func (s *HTTPServer) handleQuotationByID(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/v1/quotations/")
	parts := strings.SplitN(rest, "/", 2)
	if len(parts) != 2 || parts[1] != "respond" || parts[0] == "" {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var body struct {
		Response string  `json:"response"`
		Amount   float64 `json:"amount"`
	}
	if err := decodeBody(r, &body); err != nil || body.Response == "" {
		writeError(w, http.StatusBadRequest, "response is required")
		return
	}

	if err := s.admin.RespondQuotation(r.Context(), parts[0], body.Response, body.Amount); err != nil {
		writeError(w, httpStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "replied"})
}

// POST /api/v1/export?start=YYYY-MM-DD&end=YYYY-MM-DD
func (s *HTTPServer) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if s.exporter == nil {
		writeError(w, http.StatusServiceUnavailable, "export is not configured")
		return
	}

	start := r.URL.Query().Get("start")
	end := r.URL.Query().Get("end")
	if start == "" || end == "" {
		writeError(w, http.StatusBadRequest, "start and end are required")
		return
	}

	path, err := s.exporter.ExportSchedule(r.Context(), start, end)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"file_path": path})
}
