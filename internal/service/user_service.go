package service

import (
	"context"
	"fmt"

	"eventhorizon/internal/domain"
	"eventhorizon/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// UserService handles registration, login and account moderation.
// Auth is deliberately mock-grade: plain credential equality, no
// tokens. The store never hands passwords out in JSON.
type UserService struct {
	store    domain.Store
	notifier domain.NotificationSink
	logger   *zerolog.Logger
}

func NewUserService(store domain.Store, notifier domain.NotificationSink, logger *zerolog.Logger) *UserService {
	return &UserService{
		store:    store,
		notifier: notifier,
		logger:   logger,
	}
}

// Register creates the account and, for vendor roles, a placeholder
// profile so the calendar works before onboarding finishes. Clients
// are auto-verified; vendors start pending KYC.
func (s *UserService) Register(ctx context.Context, user *models.User) (*models.User, error) {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.Language == "" {
		user.Language = "en"
	}

	if user.Role == models.RoleClient || user.Role == models.RoleAdmin {
		user.VerificationStatus = models.VerificationVerified
	} else {
		user.VerificationStatus = models.VerificationPending
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	s.notifier.Send(ctx, user.ID, "Welcome!",
		fmt.Sprintf("Welcome to EventHorizon, %s!", user.Name), models.NotificationSuccess)

	if user.Vendor() {
		companyName := user.CompanyName
		if companyName == "" {
			companyName = user.Name
		}
		profile := &models.VendorProfile{
			ID:           user.ID,
			Role:         user.Role,
			Name:         user.Name,
			CompanyName:  companyName,
			Location:     "Location Pending",
			PriceRange:   "₹₹",
			Description:  "New vendor profile.",
			Images:       []string{"https://picsum.photos/800/600?grayscale"},
			Tags:         []string{},
			BlockedDates: []string{},
			Packages:     []models.Package{},
			MenuItems:    []models.MenuItem{},
		}
		if err := s.store.CreateVendor(ctx, profile); err != nil {
			s.logger.Error().Err(err).Str("user_id", user.ID).Msg("create vendor profile error")
		}
	}

	return user, nil
}

// Login validates mock credentials. Blocked accounts are refused even
// with a correct password.
func (s *UserService) Login(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if err == domain.ErrNotFound {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if user.Password != password {
		return nil, domain.ErrInvalidCredentials
	}
	if user.IsBlocked {
		return nil, domain.ErrUserBlocked
	}

	return user, nil
}

func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	return s.store.GetUser(ctx, id)
}

func (s *UserService) ListUsers(ctx context.Context) ([]*models.User, error) {
	return s.store.ListUsers(ctx)
}

// UpdateVerificationStatus drives the KYC flow and keeps the vendor
// profile's verified flag in step.
func (s *UserService) UpdateVerificationStatus(ctx context.Context, userID, status, reason string) error {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return err
	}

	user.VerificationStatus = status
	switch status {
	case models.VerificationRejected:
		user.RejectionReason = reason
		s.notifier.Send(ctx, userID, "KYC Rejected",
			fmt.Sprintf("Reason: %s", reason), models.NotificationError)
	case models.VerificationVerified:
		user.RejectionReason = ""
		s.notifier.Send(ctx, userID, "KYC Verified",
			"Your account is now verified!", models.NotificationSuccess)
	}

	if err := s.store.UpdateUser(ctx, user); err != nil {
		return err
	}

	if vendor, err := s.store.GetVendor(ctx, userID); err == nil {
		vendor.Verified = status == models.VerificationVerified
		if err := s.store.UpdateVendor(ctx, vendor); err != nil {
			s.logger.Error().Err(err).Str("vendor_id", userID).Msg("sync vendor verified flag error")
		}
	}

	return nil
}

func (s *UserService) ToggleUserBlock(ctx context.Context, userID string) (bool, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return false, err
	}

	user.IsBlocked = !user.IsBlocked
	if err := s.store.UpdateUser(ctx, user); err != nil {
		return false, err
	}

	if user.IsBlocked {
		s.notifier.Send(ctx, userID, "Account Blocked",
			"Your account has been blocked by admin.", models.NotificationError)
	} else {
		s.notifier.Send(ctx, userID, "Account Unblocked",
			"Your account access has been restored.", models.NotificationSuccess)
	}
	return user.IsBlocked, nil
}

// ToggleFavorite flips a vendor in the user's favorites list.
func (s *UserService) ToggleFavorite(ctx context.Context, userID, vendorID string) (bool, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return false, err
	}

	for i, id := range user.Favorites {
		if id == vendorID {
			user.Favorites = append(user.Favorites[:i], user.Favorites[i+1:]...)
			return false, s.store.UpdateUser(ctx, user)
		}
	}

	user.Favorites = append(user.Favorites, vendorID)
	if err := s.store.UpdateUser(ctx, user); err != nil {
		return false, err
	}
	s.notifier.Send(ctx, userID, "Added to Favorites", "Vendor saved to your list.", models.NotificationSuccess)
	return true, nil
}
