package availability

import (
	"context"
	"testing"

	"eventhorizon/internal/models"
	"eventhorizon/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupOracle(t *testing.T) (*Oracle, *repository.MemoryStore) {
	store := repository.NewMemoryStore()
	err := store.CreateVendor(context.Background(), &models.VendorProfile{
		ID:           "v1",
		Name:         "Lens & Light Studios",
		Role:         models.RolePhotographer,
		BlockedDates: []string{"2024-12-25"},
	})
	require.NoError(t, err)
	return NewOracle(store, store), store
}

func TestIsAvailable(t *testing.T) {
	oracle, store := setupOracle(t)
	ctx := context.Background()

	err := store.CreateBooking(ctx, &models.Booking{
		ID:       "b1",
		VendorID: "v1",
		ClientID: "c1",
		Date:     "2024-06-10",
		Time:     "14:00",
		Status:   models.StatusConfirmed,
	})
	require.NoError(t, err)

	t.Run("FreeSlot", func(t *testing.T) {
		available, err := oracle.IsAvailable(ctx, "v1", "2024-06-11", "14:00")
		require.NoError(t, err)
		assert.True(t, available)
	})

	t.Run("BookedSlot", func(t *testing.T) {
		available, err := oracle.IsAvailable(ctx, "v1", "2024-06-10", "14:00")
		require.NoError(t, err)
		assert.False(t, available)
	})

	t.Run("DifferentTimeSameDay", func(t *testing.T) {
		// Matching is exact string equality, not interval overlap.
		available, err := oracle.IsAvailable(ctx, "v1", "2024-06-10", "14:30")
		require.NoError(t, err)
		assert.True(t, available)
	})

	t.Run("BlockedDateShadowsAllTimes", func(t *testing.T) {
		for _, slot := range []string{"09:00", "14:00", "23:59"} {
			available, err := oracle.IsAvailable(ctx, "v1", "2024-12-25", slot)
			require.NoError(t, err)
			assert.False(t, available, "slot %s", slot)
		}
	})

	t.Run("CancelledBookingFreesSlot", func(t *testing.T) {
		require.NoError(t, store.UpdateBookingStatus(ctx, "b1", models.StatusCancelled))
		available, err := oracle.IsAvailable(ctx, "v1", "2024-06-10", "14:00")
		require.NoError(t, err)
		assert.True(t, available)

		require.NoError(t, store.UpdateBookingStatus(ctx, "b1", models.StatusConfirmed))
	})

	t.Run("RejectedBookingFreesSlot", func(t *testing.T) {
		err := store.CreateBooking(ctx, &models.Booking{
			ID:       "b2",
			VendorID: "v1",
			ClientID: "c2",
			Date:     "2024-07-01",
			Time:     "10:00",
			Status:   models.StatusRejected,
		})
		require.NoError(t, err)

		available, err := oracle.IsAvailable(ctx, "v1", "2024-07-01", "10:00")
		require.NoError(t, err)
		assert.True(t, available)
	})

	t.Run("UnknownVendor", func(t *testing.T) {
		_, err := oracle.IsAvailable(ctx, "missing", "2024-06-10", "14:00")
		assert.Error(t, err)
	})
}

func TestIsAvailableForEdit(t *testing.T) {
	oracle, store := setupOracle(t)
	ctx := context.Background()

	err := store.CreateBooking(ctx, &models.Booking{
		ID:       "b1",
		VendorID: "v1",
		ClientID: "c1",
		Date:     "2024-06-10",
		Time:     "14:00",
		Status:   models.StatusConfirmed,
	})
	require.NoError(t, err)

	t.Run("UnchangedSlotSkipsCheck", func(t *testing.T) {
		// Keeping the original pair must never conflict with itself,
		// even though the slot is occupied.
		available, err := oracle.IsAvailableForEdit(ctx, "v1", "2024-06-10", "14:00", "2024-06-10", "14:00")
		require.NoError(t, err)
		assert.True(t, available)
	})

	t.Run("MovedSlotIsRechecked", func(t *testing.T) {
		available, err := oracle.IsAvailableForEdit(ctx, "v1", "2024-12-25", "10:00", "2024-06-10", "14:00")
		require.NoError(t, err)
		assert.False(t, available)
	})
}
