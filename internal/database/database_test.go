package database

import (
	"context"
	"testing"
	"time"

	"eventhorizon/internal/domain"
	"eventhorizon/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *DB {
	db, err := NewDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestBookingsCRUD(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	booking := &models.Booking{
		ID:         "b1",
		ClientID:   "c1",
		ClientName: "Alice Johnson",
		VendorID:   "v1",
		VendorName: "Lens & Light Studios",
		VendorRole: models.RolePhotographer,
		Date:       "2024-06-10",
		Time:       "14:00",
		Status:     models.StatusPending,
		Amount:     1500,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	require.NoError(t, db.CreateBooking(ctx, booking))

	t.Run("Get", func(t *testing.T) {
		got, err := db.GetBooking(ctx, "b1")
		require.NoError(t, err)
		assert.Equal(t, "Alice Johnson", got.ClientName)
		assert.Equal(t, "2024-06-10", got.Date)
		assert.Equal(t, 1500.0, got.Amount)
	})

	t.Run("GetMissing", func(t *testing.T) {
		_, err := db.GetBooking(ctx, "missing")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("UpdateStatus", func(t *testing.T) {
		require.NoError(t, db.UpdateBookingStatus(ctx, "b1", models.StatusConfirmed))
		got, err := db.GetBooking(ctx, "b1")
		require.NoError(t, err)
		assert.Equal(t, models.StatusConfirmed, got.Status)

		assert.ErrorIs(t, db.UpdateBookingStatus(ctx, "missing", models.StatusConfirmed), domain.ErrNotFound)
	})

	t.Run("UpdateFields", func(t *testing.T) {
		newDate, newTime := "2024-06-12", "16:00"
		require.NoError(t, db.UpdateBookingFields(ctx, "b1", models.BookingUpdate{
			Date: &newDate, Time: &newTime,
		}))

		got, err := db.GetBooking(ctx, "b1")
		require.NoError(t, err)
		assert.Equal(t, "2024-06-12", got.Date)
		assert.Equal(t, "16:00", got.Time)
		// Untouched fields survive the partial update.
		assert.Equal(t, "Alice Johnson", got.ClientName)
	})

	t.Run("EmptyUpdateIsNoop", func(t *testing.T) {
		assert.NoError(t, db.UpdateBookingFields(ctx, "b1", models.BookingUpdate{}))
	})

	t.Run("FindByVendorSorted", func(t *testing.T) {
		second := *booking
		second.ID = "b2"
		second.Date = "2024-05-01"
		second.Time = "09:00"
		require.NoError(t, db.CreateBooking(ctx, &second))

		list, err := db.FindBookingsByVendor(ctx, "v1")
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "b2", list[0].ID)
		assert.Equal(t, "b1", list[1].ID)
	})

	t.Run("FindByClient", func(t *testing.T) {
		list, err := db.FindBookingsByClient(ctx, "c1")
		require.NoError(t, err)
		assert.Len(t, list, 2)

		list, err = db.FindBookingsByClient(ctx, "nobody")
		require.NoError(t, err)
		assert.Empty(t, list)
	})
}

func TestVendorsCRUD(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	vendor := &models.VendorProfile{
		ID:           "v1",
		Role:         models.RolePhotographer,
		Name:         "Lens & Light Studios",
		Location:     "Chennai, TN",
		PriceRange:   "₹₹",
		Images:       []string{"https://picsum.photos/800/600?random=1"},
		Tags:         []string{"Wedding", "Candid"},
		BlockedDates: []string{"2024-12-25"},
		Packages: []models.Package{
			{ID: "p1", Name: "Basic Coverage", Price: 1500, Features: []string{"4 Hours"}},
		},
	}
	require.NoError(t, db.CreateVendor(ctx, vendor))

	t.Run("JSONColumnsRoundTrip", func(t *testing.T) {
		got, err := db.GetVendor(ctx, "v1")
		require.NoError(t, err)
		assert.Equal(t, vendor.Images, got.Images)
		assert.Equal(t, vendor.Tags, got.Tags)
		assert.Equal(t, vendor.BlockedDates, got.BlockedDates)
		require.Len(t, got.Packages, 1)
		assert.Equal(t, "Basic Coverage", got.Packages[0].Name)
		// Absent collections come back as empty slices, not nil.
		assert.NotNil(t, got.Amenities)
		assert.NotNil(t, got.MenuItems)
	})

	t.Run("ToggleBlockedDate", func(t *testing.T) {
		blocked, err := db.ToggleBlockedDate(ctx, "v1", "2024-01-01")
		require.NoError(t, err)
		assert.True(t, blocked)

		dates, err := db.GetBlockedDates(ctx, "v1")
		require.NoError(t, err)
		assert.Contains(t, dates, "2024-01-01")

		blocked, err = db.ToggleBlockedDate(ctx, "v1", "2024-01-01")
		require.NoError(t, err)
		assert.False(t, blocked)

		dates, err = db.GetBlockedDates(ctx, "v1")
		require.NoError(t, err)
		assert.NotContains(t, dates, "2024-01-01")
	})

	t.Run("AddPackage", func(t *testing.T) {
		require.NoError(t, db.AddPackage(ctx, "v1", models.Package{ID: "p2", Name: "Premium Cinematic", Price: 2500}))
		got, err := db.GetVendor(ctx, "v1")
		require.NoError(t, err)
		assert.Len(t, got.Packages, 2)
	})

	t.Run("ToggleAmenity", func(t *testing.T) {
		require.NoError(t, db.ToggleAmenity(ctx, "v1", "Parking"))
		got, _ := db.GetVendor(ctx, "v1")
		assert.Contains(t, got.Amenities, "Parking")

		require.NoError(t, db.ToggleAmenity(ctx, "v1", "Parking"))
		got, _ = db.GetVendor(ctx, "v1")
		assert.NotContains(t, got.Amenities, "Parking")
	})

	t.Run("UnknownVendor", func(t *testing.T) {
		_, err := db.GetVendor(ctx, "missing")
		assert.ErrorIs(t, err, domain.ErrNotFound)
		_, err = db.ToggleBlockedDate(ctx, "missing", "2024-01-01")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestUsersCRUD(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	user := &models.User{
		ID:                 "u1",
		Name:               "Alice Client",
		Email:              "alice@demo.com",
		Password:           "password",
		Role:               models.RoleClient,
		VerificationStatus: models.VerificationVerified,
		Language:           "en",
		Favorites:          []string{"v1"},
		CreatedAt:          time.Now(),
		UpdatedAt:          time.Now(),
	}
	require.NoError(t, db.CreateUser(ctx, user))

	t.Run("GetByEmail", func(t *testing.T) {
		got, err := db.GetUserByEmail(ctx, "alice@demo.com")
		require.NoError(t, err)
		assert.Equal(t, "u1", got.ID)
		assert.Equal(t, []string{"v1"}, got.Favorites)

		_, err = db.GetUserByEmail(ctx, "nobody@demo.com")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("Update", func(t *testing.T) {
		user.IsBlocked = true
		user.Favorites = []string{"v1", "v2"}
		require.NoError(t, db.UpdateUser(ctx, user))

		got, err := db.GetUser(ctx, "u1")
		require.NoError(t, err)
		assert.True(t, got.IsBlocked)
		assert.Equal(t, []string{"v1", "v2"}, got.Favorites)
	})
}

func TestNotifications(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	base := time.Now()
	for i, title := range []string{"first", "second"} {
		require.NoError(t, db.AppendNotification(ctx, &models.Notification{
			ID:        title,
			UserID:    "u1",
			Title:     title,
			Message:   "msg",
			Type:      models.NotificationInfo,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	t.Run("ListAfter", func(t *testing.T) {
		got, err := db.ListNotificationsAfter(ctx, "u1", base.Add(30*time.Second))
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "second", got[0].Title)
	})

	t.Run("MarkAllRead", func(t *testing.T) {
		require.NoError(t, db.MarkAllNotificationsRead(ctx, "u1"))
		list, err := db.ListNotifications(ctx, "u1")
		require.NoError(t, err)
		for _, n := range list {
			assert.True(t, n.Read)
		}
	})
}

func TestAdminTables(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	t.Run("Quotations", func(t *testing.T) {
		require.NoError(t, db.CreateQuotation(ctx, &models.Quotation{
			ID: "q1", ClientID: "c1", VendorID: "v2", VendorName: "Gourmet Delights",
			Status: "pending", Details: "Vegan menu for 200 guests.", CreatedAt: time.Now(),
		}))
		require.NoError(t, db.RespondQuotation(ctx, "q1", "Can do.", 100000))

		quotations, err := db.ListQuotations(ctx)
		require.NoError(t, err)
		require.Len(t, quotations, 1)
		assert.Equal(t, "replied", quotations[0].Status)
		assert.Equal(t, "Can do.", quotations[0].Response)

		assert.ErrorIs(t, db.RespondQuotation(ctx, "missing", "x", 0), domain.ErrNotFound)
	})
}
