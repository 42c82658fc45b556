package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"eventhorizon/internal/models"
)

const userColumns = `id, name, email, password, role, phone, company_name, verification_status,
	rejection_reason, is_blocked, language, city, bio, favorites, created_at, updated_at`

func (db *DB) CreateUser(ctx context.Context, user *models.User) error {
	favorites, err := json.Marshal(emptySlice(user.Favorites))
	if err != nil {
		return fmt.Errorf("failed to marshal favorites: %w", err)
	}

	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	query := `INSERT INTO users (` + userColumns + `)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = db.db.ExecContext(ctx, query,
		user.ID,
		user.Name,
		user.Email,
		user.Password,
		user.Role,
		user.Phone,
		user.CompanyName,
		user.VerificationStatus,
		user.RejectionReason,
		user.IsBlocked,
		user.Language,
		user.City,
		user.Bio,
		string(favorites),
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (db *DB) UpdateUser(ctx context.Context, user *models.User) error {
	favorites, err := json.Marshal(emptySlice(user.Favorites))
	if err != nil {
		return fmt.Errorf("failed to marshal favorites: %w", err)
	}
	user.UpdatedAt = time.Now()

	query := `UPDATE users SET name = ?, email = ?, password = ?, role = ?, phone = ?,
			company_name = ?, verification_status = ?, rejection_reason = ?, is_blocked = ?,
			language = ?, city = ?, bio = ?, favorites = ?, updated_at = ? WHERE id = ?`
	return db.execAffectingOne(ctx, query,
		user.Name,
		user.Email,
		user.Password,
		user.Role,
		user.Phone,
		user.CompanyName,
		user.VerificationStatus,
		user.RejectionReason,
		user.IsBlocked,
		user.Language,
		user.City,
		user.Bio,
		string(favorites),
		user.UpdatedAt,
		user.ID,
	)
}

func (db *DB) GetUser(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ?`
	return db.scanUserRow(ctx, query, id)
}

func (db *DB) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = ?`
	return db.scanUserRow(ctx, query, email)
}

func (db *DB) scanUserRow(ctx context.Context, query string, arg interface{}) (*models.User, error) {
	var u models.User
	var favorites string
	err := db.db.QueryRowContext(ctx, query, arg).Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.Password,
		&u.Role,
		&u.Phone,
		&u.CompanyName,
		&u.VerificationStatus,
		&u.RejectionReason,
		&u.IsBlocked,
		&u.Language,
		&u.City,
		&u.Bio,
		&favorites,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, rowErr(err)
	}
	if favorites != "" {
		if err := json.Unmarshal([]byte(favorites), &u.Favorites); err != nil {
			return nil, fmt.Errorf("failed to unmarshal favorites: %w", err)
		}
	}
	return &u, nil
}

func (db *DB) ListUsers(ctx context.Context) ([]*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY id`
	rows, err := db.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		var u models.User
		var favorites string
		err := rows.Scan(
			&u.ID,
			&u.Name,
			&u.Email,
			&u.Password,
			&u.Role,
			&u.Phone,
			&u.CompanyName,
			&u.VerificationStatus,
			&u.RejectionReason,
			&u.IsBlocked,
			&u.Language,
			&u.City,
			&u.Bio,
			&favorites,
			&u.CreatedAt,
			&u.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		if favorites != "" {
			if err := json.Unmarshal([]byte(favorites), &u.Favorites); err != nil {
				return nil, fmt.Errorf("failed to unmarshal favorites: %w", err)
			}
		}
		users = append(users, &u)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}
