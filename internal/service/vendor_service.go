package service

import (
	"context"

	"eventhorizon/internal/domain"
	"eventhorizon/internal/events"
	"eventhorizon/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// VendorService manages vendor profiles and the blocked-date calendar.
type VendorService struct {
	store    domain.Store
	eventBus domain.EventPublisher
	logger   *zerolog.Logger
}

func NewVendorService(store domain.Store, eventBus domain.EventPublisher, logger *zerolog.Logger) *VendorService {
	return &VendorService{
		store:    store,
		eventBus: eventBus,
		logger:   logger,
	}
}

func (s *VendorService) GetVendor(ctx context.Context, id string) (*models.VendorProfile, error) {
	return s.store.GetVendor(ctx, id)
}

func (s *VendorService) ListVendors(ctx context.Context) ([]*models.VendorProfile, error) {
	return s.store.ListVendors(ctx)
}

func (s *VendorService) UpdateVendor(ctx context.Context, vendor *models.VendorProfile) error {
	return s.store.UpdateVendor(ctx, vendor)
}

func (s *VendorService) GetBlockedDates(ctx context.Context, vendorID string) ([]string, error) {
	return s.store.GetBlockedDates(ctx, vendorID)
}

// ToggleBlockedDate flips a whole-day block. There is no separate edit:
// moving a block is a toggle-off on the old date plus a toggle-on on
// the new one. No validation against existing bookings on purpose; a
// block coexists with bookings and only affects future availability.
func (s *VendorService) ToggleBlockedDate(ctx context.Context, vendorID, date string) (bool, error) {
	blocked, err := s.store.ToggleBlockedDate(ctx, vendorID, date)
	if err != nil {
		return false, err
	}

	if s.eventBus != nil {
		eventType := events.EventDateUnblocked
		if blocked {
			eventType = events.EventDateBlocked
		}
		payload := events.BlockedDatePayload{VendorID: vendorID, Date: date, Blocked: blocked}
		if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
			s.logger.Error().Err(err).Str("vendor_id", vendorID).Str("date", date).Msg("publish event error")
		}
	}

	return blocked, nil
}

func (s *VendorService) AddPackage(ctx context.Context, vendorID string, pkg models.Package) (models.Package, error) {
	if pkg.ID == "" {
		pkg.ID = uuid.NewString()
	}
	if err := s.store.AddPackage(ctx, vendorID, pkg); err != nil {
		return models.Package{}, err
	}
	return pkg, nil
}

func (s *VendorService) AddMenuItem(ctx context.Context, vendorID string, item models.MenuItem) (models.MenuItem, error) {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if err := s.store.AddMenuItem(ctx, vendorID, item); err != nil {
		return models.MenuItem{}, err
	}
	return item, nil
}

func (s *VendorService) ToggleAmenity(ctx context.Context, vendorID, amenity string) error {
	return s.store.ToggleAmenity(ctx, vendorID, amenity)
}

func (s *VendorService) AddImage(ctx context.Context, vendorID, imageURL string) error {
	return s.store.AddImage(ctx, vendorID, imageURL)
}
