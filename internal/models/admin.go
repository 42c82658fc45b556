package models

import "time"

type Payout struct {
	ID         string  `json:"id" yaml:"id"`
	VendorID   string  `json:"vendor_id" yaml:"vendor_id"`
	VendorName string  `json:"vendor_name" yaml:"vendor_name"`
	Amount     float64 `json:"amount" yaml:"amount"`
	Status     string  `json:"status" yaml:"status"` // pending, processed
	Date       string  `json:"date" yaml:"date"`
}

type SupportTicket struct {
	ID       string `json:"id" yaml:"id"`
	UserID   string `json:"user_id" yaml:"user_id"`
	UserName string `json:"user_name" yaml:"user_name"`
	Subject  string `json:"subject" yaml:"subject"`
	Status   string `json:"status" yaml:"status"`     // open, in_progress, resolved
	Priority string `json:"priority" yaml:"priority"` // low, medium, high
	Date     string `json:"date" yaml:"date"`
}

type Quotation struct {
	ID              string    `json:"id" yaml:"id"`
	ClientID        string    `json:"client_id" yaml:"client_id"`
	VendorID        string    `json:"vendor_id" yaml:"vendor_id"`
	VendorName      string    `json:"vendor_name" yaml:"vendor_name"`
	Status          string    `json:"status" yaml:"status"` // pending, replied, accepted, rejected
	Details         string    `json:"details" yaml:"details"`
	Response        string    `json:"response,omitempty" yaml:"response"`
	EstimatedAmount float64   `json:"estimated_amount,omitempty" yaml:"estimated_amount"`
	CreatedAt       time.Time `json:"created_at" yaml:"created_at"`
}
