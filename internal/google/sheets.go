package google

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"eventhorizon/internal/models"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

var errRowNotFound = errors.New("booking row not found")

// SheetsService mirrors bookings into a Google spreadsheet. Row lookups
// by booking id are cached; the cache is warmed in the background and
// repaired lazily on misses.
type SheetsService struct {
	service         *sheets.Service
	bookingsSheetID string
	rowCache        map[string]int
	cacheMu         sync.RWMutex
}

func NewSheetsService(credentialsFile, bookingsSheetID string) (*SheetsService, error) {
	ctx := context.Background()

	credentialsJSON, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("unable to read credentials file: %w", err)
	}

	config, err := google.JWTConfigFromJSON(credentialsJSON, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse credentials: %w", err)
	}

	srv, err := sheets.NewService(ctx, option.WithHTTPClient(config.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("unable to create Sheets service: %w", err)
	}

	service := &SheetsService{
		service:         srv,
		bookingsSheetID: bookingsSheetID,
		rowCache:        make(map[string]int),
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		service.warmUpCache(ctx)
	}()

	return service, nil
}

// TestConnection проверяет подключение к таблице
func (s *SheetsService) TestConnection(ctx context.Context) error {
	_, err := s.service.Spreadsheets.Values.Get(s.bookingsSheetID, "Bookings!A1").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("connection test failed: %w", err)
	}
	return nil
}

// UpsertBooking updates the booking's row or appends a new one.
func (s *SheetsService) UpsertBooking(booking *models.Booking) error {
	if booking == nil {
		return fmt.Errorf("booking is nil")
	}

	ctx, cancel := s.callContext()
	defer cancel()

	rowIdx, err := s.findBookingRow(ctx, booking.ID)
	if err != nil {
		if errors.Is(err, errRowNotFound) {
			return s.appendBooking(ctx, booking)
		}
		return err
	}

	rangeData := fmt.Sprintf("Bookings!A%d:K%d", rowIdx, rowIdx)
	valueRange := &sheets.ValueRange{
		Values: [][]interface{}{bookingRowValues(booking)},
	}

	_, err = s.service.Spreadsheets.Values.Update(s.bookingsSheetID, rangeData, valueRange).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	return err
}

// UpdateBookingStatus rewrites the status and updated-at cells only.
func (s *SheetsService) UpdateBookingStatus(bookingID, status string) error {
	ctx, cancel := s.callContext()
	defer cancel()

	rowIdx, err := s.findBookingRow(ctx, bookingID)
	if err != nil {
		return err
	}

	statusRange := fmt.Sprintf("Bookings!G%d:G%d", rowIdx, rowIdx)
	_, err = s.service.Spreadsheets.Values.Update(s.bookingsSheetID, statusRange, &sheets.ValueRange{
		Values: [][]interface{}{{status}},
	}).ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return err
	}

	now := time.Now().Format("2006-01-02 15:04:05")
	updatedRange := fmt.Sprintf("Bookings!K%d:K%d", rowIdx, rowIdx)
	_, err = s.service.Spreadsheets.Values.Update(s.bookingsSheetID, updatedRange, &sheets.ValueRange{
		Values: [][]interface{}{{now}},
	}).ValueInputOption("RAW").Context(ctx).Do()
	return err
}

func (s *SheetsService) appendBooking(ctx context.Context, booking *models.Booking) error {
	valueRange := &sheets.ValueRange{
		Values: [][]interface{}{bookingRowValues(booking)},
	}

	_, err := s.service.Spreadsheets.Values.Append(s.bookingsSheetID, "Bookings!A:K", valueRange).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	return err
}

// findBookingRow locates the 1-based row for a booking id in column A.
func (s *SheetsService) findBookingRow(ctx context.Context, bookingID string) (int, error) {
	if bookingID == "" {
		return 0, fmt.Errorf("booking id is required")
	}

	if row, ok := s.getCachedRow(bookingID); ok {
		return row, nil
	}

	resp, err := s.service.Spreadsheets.Values.Get(s.bookingsSheetID, "Bookings!A:A").Context(ctx).Do()
	if err != nil {
		return 0, err
	}

	for i, row := range resp.Values {
		if len(row) == 0 {
			continue
		}
		if v, ok := row[0].(string); ok && v == bookingID {
			rowIdx := i + 1 // Values are zero-based; sheet rows are 1-based
			s.setCachedRow(bookingID, rowIdx)
			return rowIdx, nil
		}
	}

	return 0, errRowNotFound
}

func (s *SheetsService) warmUpCache(ctx context.Context) {
	resp, err := s.service.Spreadsheets.Values.Get(s.bookingsSheetID, "Bookings!A:A").Context(ctx).Do()
	if err != nil {
		return
	}

	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	for i, row := range resp.Values {
		if len(row) == 0 {
			continue
		}
		if v, ok := row[0].(string); ok && v != "" {
			s.rowCache[v] = i + 1
		}
	}
}

func (s *SheetsService) getCachedRow(id string) (int, bool) {
	s.cacheMu.RLock()
	defer s.cacheMu.RUnlock()
	row, ok := s.rowCache[id]
	return row, ok
}

func (s *SheetsService) setCachedRow(id string, row int) {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	s.rowCache[id] = row
}

func (s *SheetsService) callContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}

func bookingRowValues(b *models.Booking) []interface{} {
	return []interface{}{
		b.ID,
		b.ClientID,
		b.ClientName,
		b.VendorID,
		b.VendorName,
		b.VendorRole,
		b.Status,
		b.Date,
		b.Time,
		b.Amount,
		b.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}
