package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"eventhorizon/internal/config"
	"eventhorizon/internal/domain"
	"eventhorizon/internal/models"
)

// MemoryStore keeps everything behind one mutex. It is the default
// driver and the one the demo seed loads into; all methods return
// copies so callers can never mutate shared state in place.
type MemoryStore struct {
	mu            sync.RWMutex
	bookings      map[string]*models.Booking
	vendors       map[string]*models.VendorProfile
	users         map[string]*models.User
	notifications map[string][]*models.Notification
	payouts       map[string]*models.Payout
	tickets       map[string]*models.SupportTicket
	quotations    map[string]*models.Quotation
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		bookings:      make(map[string]*models.Booking),
		vendors:       make(map[string]*models.VendorProfile),
		users:         make(map[string]*models.User),
		notifications: make(map[string][]*models.Notification),
		payouts:       make(map[string]*models.Payout),
		tickets:       make(map[string]*models.SupportTicket),
		quotations:    make(map[string]*models.Quotation),
	}
}

// LoadSeed bulk-loads the demo dataset. Existing records with the same
// id are replaced.
func (s *MemoryStore) LoadSeed(seed *config.SeedData) {
	if seed == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range seed.Users {
		u := seed.Users[i]
		s.users[u.ID] = &u
	}
	for i := range seed.Vendors {
		v := seed.Vendors[i]
		s.vendors[v.ID] = &v
	}
	for i := range seed.Bookings {
		b := seed.Bookings[i]
		s.bookings[b.ID] = &b
	}
	for i := range seed.Payouts {
		p := seed.Payouts[i]
		s.payouts[p.ID] = &p
	}
	for i := range seed.Tickets {
		t := seed.Tickets[i]
		s.tickets[t.ID] = &t
	}
	for i := range seed.Quotations {
		q := seed.Quotations[i]
		s.quotations[q.ID] = &q
	}
}

// Bookings

func (s *MemoryStore) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.bookings[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (s *MemoryStore) CreateBooking(ctx context.Context, booking *models.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.bookings[booking.ID]; exists {
		return domain.ErrAlreadyExists
	}
	now := time.Now()
	if booking.CreatedAt.IsZero() {
		booking.CreatedAt = now
	}
	booking.UpdatedAt = now
	cp := *booking
	s.bookings[booking.ID] = &cp
	return nil
}

func (s *MemoryStore) UpdateBookingFields(ctx context.Context, id string, upd models.BookingUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return domain.ErrNotFound
	}
	if upd.Date != nil {
		b.Date = *upd.Date
	}
	if upd.Time != nil {
		b.Time = *upd.Time
	}
	if upd.Notes != nil {
		b.Notes = *upd.Notes
	}
	if upd.Amount != nil {
		b.Amount = *upd.Amount
	}
	if upd.PackageID != nil {
		b.PackageID = *upd.PackageID
	}
	if upd.PackageName != nil {
		b.PackageName = *upd.PackageName
	}
	b.UpdatedAt = time.Now()
	return nil
}

func (s *MemoryStore) UpdateBookingStatus(ctx context.Context, id string, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return domain.ErrNotFound
	}
	b.Status = status
	b.UpdatedAt = time.Now()
	return nil
}

func (s *MemoryStore) FindBookingsByVendor(ctx context.Context, vendorID string) ([]*models.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Booking
	for _, b := range s.bookings {
		if b.VendorID == vendorID {
			cp := *b
			out = append(out, &cp)
		}
	}
	sortBookings(out)
	return out, nil
}

func (s *MemoryStore) FindBookingsByClient(ctx context.Context, clientID string) ([]*models.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Booking
	for _, b := range s.bookings {
		if b.ClientID == clientID {
			cp := *b
			out = append(out, &cp)
		}
	}
	sortBookings(out)
	return out, nil
}

func (s *MemoryStore) ListBookings(ctx context.Context) ([]*models.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Booking, 0, len(s.bookings))
	for _, b := range s.bookings {
		cp := *b
		out = append(out, &cp)
	}
	sortBookings(out)
	return out, nil
}

func sortBookings(bookings []*models.Booking) {
	sort.Slice(bookings, func(i, j int) bool {
		if bookings[i].Date != bookings[j].Date {
			return bookings[i].Date < bookings[j].Date
		}
		if bookings[i].Time != bookings[j].Time {
			return bookings[i].Time < bookings[j].Time
		}
		return bookings[i].ID < bookings[j].ID
	})
}

// Vendors

func (s *MemoryStore) GetVendor(ctx context.Context, id string) (*models.VendorProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.vendors[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := cloneVendor(v)
	return &cp, nil
}

func (s *MemoryStore) ListVendors(ctx context.Context) ([]*models.VendorProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.VendorProfile, 0, len(s.vendors))
	for _, v := range s.vendors {
		cp := cloneVendor(v)
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) CreateVendor(ctx context.Context, vendor *models.VendorProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.vendors[vendor.ID]; exists {
		return domain.ErrAlreadyExists
	}
	cp := cloneVendor(vendor)
	s.vendors[vendor.ID] = &cp
	return nil
}

func (s *MemoryStore) UpdateVendor(ctx context.Context, vendor *models.VendorProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.vendors[vendor.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := cloneVendor(vendor)
	s.vendors[vendor.ID] = &cp
	return nil
}

func (s *MemoryStore) GetBlockedDates(ctx context.Context, vendorID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.vendors[vendorID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return append([]string(nil), v.BlockedDates...), nil
}

func (s *MemoryStore) ToggleBlockedDate(ctx context.Context, vendorID, date string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.vendors[vendorID]
	if !ok {
		return false, domain.ErrNotFound
	}
	for i, d := range v.BlockedDates {
		if d == date {
			v.BlockedDates = append(v.BlockedDates[:i], v.BlockedDates[i+1:]...)
			return false, nil
		}
	}
	v.BlockedDates = append(v.BlockedDates, date)
	return true, nil
}

func (s *MemoryStore) AddPackage(ctx context.Context, vendorID string, pkg models.Package) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.vendors[vendorID]
	if !ok {
		return domain.ErrNotFound
	}
	v.Packages = append(v.Packages, pkg)
	return nil
}

func (s *MemoryStore) AddMenuItem(ctx context.Context, vendorID string, item models.MenuItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.vendors[vendorID]
	if !ok {
		return domain.ErrNotFound
	}
	v.MenuItems = append(v.MenuItems, item)
	return nil
}

func (s *MemoryStore) ToggleAmenity(ctx context.Context, vendorID, amenity string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.vendors[vendorID]
	if !ok {
		return domain.ErrNotFound
	}
	for i, a := range v.Amenities {
		if a == amenity {
			v.Amenities = append(v.Amenities[:i], v.Amenities[i+1:]...)
			return nil
		}
	}
	v.Amenities = append(v.Amenities, amenity)
	return nil
}

func (s *MemoryStore) AddImage(ctx context.Context, vendorID, imageURL string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.vendors[vendorID]
	if !ok {
		return domain.ErrNotFound
	}
	v.Images = append(v.Images, imageURL)
	return nil
}

func cloneVendor(v *models.VendorProfile) models.VendorProfile {
	cp := *v
	cp.Images = append([]string(nil), v.Images...)
	cp.Tags = append([]string(nil), v.Tags...)
	cp.Amenities = append([]string(nil), v.Amenities...)
	cp.BlockedDates = append([]string(nil), v.BlockedDates...)
	cp.Packages = append([]models.Package(nil), v.Packages...)
	cp.MenuItems = append([]models.MenuItem(nil), v.MenuItems...)
	cp.ProductsUsed = append([]string(nil), v.ProductsUsed...)
	return cp
}

// Users

func (s *MemoryStore) GetUser(ctx context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	cp.Favorites = append([]string(nil), u.Favorites...)
	return &cp, nil
}

func (s *MemoryStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			cp.Favorites = append([]string(nil), u.Favorites...)
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *MemoryStore) CreateUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.users[user.ID]; exists {
		return domain.ErrAlreadyExists
	}
	for _, u := range s.users {
		if u.Email == user.Email {
			return domain.ErrAlreadyExists
		}
	}
	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now
	cp := *user
	s.users[user.ID] = &cp
	return nil
}

func (s *MemoryStore) UpdateUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.ID]; !ok {
		return domain.ErrNotFound
	}
	user.UpdatedAt = time.Now()
	cp := *user
	s.users[user.ID] = &cp
	return nil
}

func (s *MemoryStore) ListUsers(ctx context.Context) ([]*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.User, 0, len(s.users))
	for _, u := range s.users {
		cp := *u
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Notifications

func (s *MemoryStore) AppendNotification(ctx context.Context, n *models.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *n
	s.notifications[n.UserID] = append(s.notifications[n.UserID], &cp)
	return nil
}

func (s *MemoryStore) ListNotifications(ctx context.Context, userID string) ([]*models.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := s.notifications[userID]
	out := make([]*models.Notification, 0, len(list))
	for _, n := range list {
		cp := *n
		out = append(out, &cp)
	}
	return out, nil
}

func (s *MemoryStore) ListNotificationsAfter(ctx context.Context, userID string, since time.Time) ([]*models.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Notification
	for _, n := range s.notifications[userID] {
		if n.CreatedAt.After(since) {
			cp := *n
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *MemoryStore) MarkAllNotificationsRead(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range s.notifications[userID] {
		n.Read = true
	}
	return nil
}

// Admin

func (s *MemoryStore) ListPayouts(ctx context.Context) ([]*models.Payout, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Payout, 0, len(s.payouts))
	for _, p := range s.payouts {
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) MarkPayoutProcessed(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.payouts[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.Status = "processed"
	return nil
}

func (s *MemoryStore) ListTickets(ctx context.Context) ([]*models.SupportTicket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.SupportTicket, 0, len(s.tickets))
	for _, t := range s.tickets {
		cp := *t
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) UpdateTicketStatus(ctx context.Context, id, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tickets[id]
	if !ok {
		return domain.ErrNotFound
	}
	t.Status = status
	return nil
}

func (s *MemoryStore) CreateQuotation(ctx context.Context, q *models.Quotation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.quotations[q.ID]; exists {
		return domain.ErrAlreadyExists
	}
	if q.CreatedAt.IsZero() {
		q.CreatedAt = time.Now()
	}
	cp := *q
	s.quotations[q.ID] = &cp
	return nil
}

func (s *MemoryStore) ListQuotations(ctx context.Context) ([]*models.Quotation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Quotation, 0, len(s.quotations))
	for _, q := range s.quotations {
		cp := *q
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) RespondQuotation(ctx context.Context, id, response string, amount float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.quotations[id]
	if !ok {
		return domain.ErrNotFound
	}
	q.Response = response
	q.EstimatedAmount = amount
	q.Status = "replied"
	return nil
}
