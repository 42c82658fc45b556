package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"eventhorizon/internal/domain"

	_ "github.com/mattn/go-sqlite3"
)

// DB is the sqlite-backed implementation of domain.Store. Vendor
// sub-collections (packages, menu items, images and so on) are kept as
// JSON columns; nothing queries inside them.
type DB struct {
	db *sql.DB
}

func NewDB(path string) (*DB, error) {
	// Создаем директорию для БД, если её нет
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := createTables(db); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return &DB{db: db}, nil
}

func createTables(db *sql.DB) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS users (
            id TEXT PRIMARY KEY,
            name TEXT NOT NULL,
            email TEXT UNIQUE NOT NULL,
            password TEXT NOT NULL,
            role TEXT NOT NULL,
            phone TEXT,
            company_name TEXT,
            verification_status TEXT NOT NULL DEFAULT 'pending',
            rejection_reason TEXT,
            is_blocked BOOLEAN NOT NULL DEFAULT 0,
            language TEXT,
            city TEXT,
            bio TEXT,
            favorites TEXT NOT NULL DEFAULT '[]',
            created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
            updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
        )`,
		`CREATE TABLE IF NOT EXISTS vendors (
            id TEXT PRIMARY KEY,
            role TEXT NOT NULL,
            name TEXT NOT NULL,
            company_name TEXT,
            rating REAL NOT NULL DEFAULT 0,
            review_count INTEGER NOT NULL DEFAULT 0,
            location TEXT,
            price_range TEXT,
            starting_price REAL NOT NULL DEFAULT 0,
            description TEXT,
            images TEXT NOT NULL DEFAULT '[]',
            tags TEXT NOT NULL DEFAULT '[]',
            amenities TEXT NOT NULL DEFAULT '[]',
            verified BOOLEAN NOT NULL DEFAULT 0,
            capacity INTEGER NOT NULL DEFAULT 0,
            blocked_dates TEXT NOT NULL DEFAULT '[]',
            packages TEXT NOT NULL DEFAULT '[]',
            menu_items TEXT NOT NULL DEFAULT '[]',
            products_used TEXT NOT NULL DEFAULT '[]',
            venue_type TEXT,
            rooms INTEGER NOT NULL DEFAULT 0,
            parking BOOLEAN NOT NULL DEFAULT 0
        )`,
		`CREATE TABLE IF NOT EXISTS bookings (
            id TEXT PRIMARY KEY,
            client_id TEXT NOT NULL,
            client_name TEXT NOT NULL,
            vendor_id TEXT NOT NULL,
            vendor_name TEXT NOT NULL,
            vendor_role TEXT,
            date TEXT NOT NULL,
            time TEXT NOT NULL,
            status TEXT NOT NULL DEFAULT 'pending',
            payment_status TEXT,
            amount REAL NOT NULL DEFAULT 0,
            event_type TEXT,
            package_id TEXT,
            package_name TEXT,
            notes TEXT,
            created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
            updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
        )`,
		`CREATE TABLE IF NOT EXISTS notifications (
            id TEXT PRIMARY KEY,
            user_id TEXT NOT NULL,
            title TEXT NOT NULL,
            message TEXT NOT NULL,
            type TEXT NOT NULL,
            read BOOLEAN NOT NULL DEFAULT 0,
            link TEXT,
            created_at DATETIME DEFAULT CURRENT_TIMESTAMP
        )`,
		`CREATE TABLE IF NOT EXISTS payouts (
            id TEXT PRIMARY KEY,
            vendor_id TEXT NOT NULL,
            vendor_name TEXT NOT NULL,
            amount REAL NOT NULL DEFAULT 0,
            status TEXT NOT NULL DEFAULT 'pending',
            date TEXT
        )`,
		`CREATE TABLE IF NOT EXISTS tickets (
            id TEXT PRIMARY KEY,
            user_id TEXT NOT NULL,
            user_name TEXT NOT NULL,
            subject TEXT NOT NULL,
            status TEXT NOT NULL DEFAULT 'open',
            priority TEXT NOT NULL DEFAULT 'medium',
            date TEXT
        )`,
		`CREATE TABLE IF NOT EXISTS quotations (
            id TEXT PRIMARY KEY,
            client_id TEXT NOT NULL,
            vendor_id TEXT NOT NULL,
            vendor_name TEXT NOT NULL,
            status TEXT NOT NULL DEFAULT 'pending',
            details TEXT,
            response TEXT,
            estimated_amount REAL NOT NULL DEFAULT 0,
            created_at DATETIME DEFAULT CURRENT_TIMESTAMP
        )`,

		// Индексы для бронирований
		`CREATE INDEX IF NOT EXISTS idx_bookings_vendor_id ON bookings(vendor_id)`,
		`CREATE INDEX IF NOT EXISTS idx_bookings_client_id ON bookings(client_id)`,
		`CREATE INDEX IF NOT EXISTS idx_bookings_date ON bookings(date)`,
		`CREATE INDEX IF NOT EXISTS idx_bookings_status ON bookings(status)`,

		`CREATE INDEX IF NOT EXISTS idx_notifications_user_id ON notifications(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_users_email ON users(email)`,
	}

	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("error executing query %s: %w", query, err)
		}
	}
	return nil
}

func (db *DB) Close() error {
	return db.db.Close()
}

// rowErr maps sql.ErrNoRows onto the shared sentinel so callers branch
// the same way regardless of driver.
func rowErr(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	return err
}

func (db *DB) execAffectingOne(ctx context.Context, query string, args ...interface{}) error {
	result, err := db.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
