package notify

import (
	"io"
	"testing"

	"eventhorizon/internal/events"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type botRecorder struct {
	messages []string
}

func (b *botRecorder) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		b.messages = append(b.messages, msg.Text)
	}
	return tgbotapi.Message{}, nil
}

func TestBookingEventForwarded(t *testing.T) {
	bot := &botRecorder{}
	bus := events.NewEventBus()
	notifier := NewTelegramNotifier(bot, 42, zerolog.New(io.Discard))
	notifier.SubscribeAll(bus)

	require.NoError(t, bus.PublishJSON(events.EventBookingCreated, events.BookingEventPayload{
		BookingID:  "b1",
		ClientName: "Alice Johnson",
		VendorName: "Lens & Light Studios",
		Status:     "pending",
		Date:       "2024-06-10",
		Time:       "14:00",
	}))

	require.Len(t, bot.messages, 1)
	assert.Contains(t, bot.messages[0], "New booking request")
	assert.Contains(t, bot.messages[0], "Alice Johnson")
	assert.Contains(t, bot.messages[0], "2024-06-10 14:00")
}

func TestBlockedDateForwarded(t *testing.T) {
	bot := &botRecorder{}
	bus := events.NewEventBus()
	NewTelegramNotifier(bot, 42, zerolog.New(io.Discard)).SubscribeAll(bus)

	require.NoError(t, bus.PublishJSON(events.EventDateBlocked, events.BlockedDatePayload{
		VendorID: "v1", Date: "2024-12-25", Blocked: true,
	}))
	require.NoError(t, bus.PublishJSON(events.EventDateUnblocked, events.BlockedDatePayload{
		VendorID: "v1", Date: "2024-12-25", Blocked: false,
	}))

	require.Len(t, bot.messages, 2)
	assert.Equal(t, "Vendor v1 blocked date 2024-12-25", bot.messages[0])
	assert.Equal(t, "Vendor v1 unblocked date 2024-12-25", bot.messages[1])
}

func TestUnsubscribedEventIgnored(t *testing.T) {
	bot := &botRecorder{}
	bus := events.NewEventBus()
	NewTelegramNotifier(bot, 42, zerolog.New(io.Discard)).SubscribeAll(bus)

	require.NoError(t, bus.PublishJSON(events.EventBookingCompleted, events.BookingEventPayload{BookingID: "b1"}))
	assert.Empty(t, bot.messages)
}
