package notify

import (
	"encoding/json"
	"fmt"

	"eventhorizon/internal/events"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// TelegramSender is the bot surface the notifier needs; satisfied by
// *tgbotapi.BotAPI.
type TelegramSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramNotifier forwards booking lifecycle events into an ops chat.
// It subscribes to the event bus and is strictly best-effort: a failed
// send is logged and forgotten.
type TelegramNotifier struct {
	bot         TelegramSender
	adminChatID int64
	logger      zerolog.Logger
}

func NewTelegramNotifier(bot TelegramSender, adminChatID int64, logger zerolog.Logger) *TelegramNotifier {
	return &TelegramNotifier{
		bot:         bot,
		adminChatID: adminChatID,
		logger:      logger,
	}
}

// SubscribeAll attaches the notifier to every event it reports on.
func (n *TelegramNotifier) SubscribeAll(bus *events.EventBus) {
	for _, eventType := range []string{
		events.EventBookingCreated,
		events.EventBookingConfirmed,
		events.EventBookingRejected,
		events.EventBookingCancelled,
		events.EventBookingMoved,
	} {
		bus.Subscribe(eventType, n.handleBookingEvent)
	}
	bus.Subscribe(events.EventDateBlocked, n.handleBlockedEvent)
	bus.Subscribe(events.EventDateUnblocked, n.handleBlockedEvent)
}

func (n *TelegramNotifier) handleBookingEvent(event *events.Event) error {
	var payload events.BookingEventPayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		n.logger.Error().Err(err).Str("event_type", event.Type).Msg("decode event payload error")
		return nil
	}

	text := fmt.Sprintf("%s\nBooking: %s\nClient: %s\nVendor: %s\nSlot: %s %s\nStatus: %s",
		eventHeadline(event.Type),
		payload.BookingID,
		payload.ClientName,
		payload.VendorName,
		payload.Date,
		payload.Time,
		payload.Status,
	)

	n.send(text)
	return nil
}

func (n *TelegramNotifier) handleBlockedEvent(event *events.Event) error {
	var payload events.BlockedDatePayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		n.logger.Error().Err(err).Str("event_type", event.Type).Msg("decode event payload error")
		return nil
	}

	action := "unblocked"
	if payload.Blocked {
		action = "blocked"
	}
	n.send(fmt.Sprintf("Vendor %s %s date %s", payload.VendorID, action, payload.Date))
	return nil
}

func (n *TelegramNotifier) send(text string) {
	msg := tgbotapi.NewMessage(n.adminChatID, text)
	if _, err := n.bot.Send(msg); err != nil {
		n.logger.Error().Err(err).Msg("telegram send error")
	}
}

func eventHeadline(eventType string) string {
	switch eventType {
	case events.EventBookingCreated:
		return "New booking request"
	case events.EventBookingConfirmed:
		return "Booking confirmed"
	case events.EventBookingRejected:
		return "Booking rejected"
	case events.EventBookingCancelled:
		return "Booking cancelled"
	case events.EventBookingMoved:
		return "Booking rescheduled"
	default:
		return eventType
	}
}
