package config

import (
	"fmt"
	"os"

	"eventhorizon/internal/models"

	"gopkg.in/yaml.v2"
)

// SeedData is the demo dataset loaded into the memory store at startup.
// It stands in for the original mock arrays.
type SeedData struct {
	Users      []models.User          `yaml:"users"`
	Vendors    []models.VendorProfile `yaml:"vendors"`
	Bookings   []models.Booking       `yaml:"bookings"`
	Payouts    []models.Payout        `yaml:"payouts"`
	Tickets    []models.SupportTicket `yaml:"tickets"`
	Quotations []models.Quotation     `yaml:"quotations"`
}

// LoadSeed reads the seed YAML. A missing path yields an empty dataset,
// not an error; the sqlite driver typically runs unseeded.
func LoadSeed(path string) (*SeedData, error) {
	if path == "" {
		return &SeedData{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &SeedData{}, nil
		}
		return nil, fmt.Errorf("read seed file: %w", err)
	}

	var seed SeedData
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}

	if err := ValidateSeed(&seed); err != nil {
		return nil, fmt.Errorf("seed validation failed: %w", err)
	}

	return &seed, nil
}

// ValidateSeed rejects duplicate ids inside each collection.
func ValidateSeed(seed *SeedData) error {
	vendorIDs := make(map[string]bool)
	for _, v := range seed.Vendors {
		if v.ID == "" {
			return fmt.Errorf("vendor %q has empty id", v.Name)
		}
		if vendorIDs[v.ID] {
			return fmt.Errorf("duplicate vendor id: %s", v.ID)
		}
		vendorIDs[v.ID] = true
	}

	bookingIDs := make(map[string]bool)
	for _, b := range seed.Bookings {
		if b.ID == "" {
			return fmt.Errorf("booking for vendor %q has empty id", b.VendorID)
		}
		if bookingIDs[b.ID] {
			return fmt.Errorf("duplicate booking id: %s", b.ID)
		}
		bookingIDs[b.ID] = true
	}

	return nil
}
