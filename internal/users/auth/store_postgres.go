// Copyright (c) 2026 Vidora. All rights reserved.
// Author: eng@vidora.dev

// PostgreSQL implementation of the auth data access contracts.
//
// # Architecture
//
// Repositories in this file are strictly separated from domain logic. They
// implement domain-defined interfaces (e.g., [UserRepository]) using the
// [pgxpool.Pool] connection manager.
//
// # Error Mapping
//
// Storage-specific errors (like pgx.ErrNoRows and unique violations) are
// mapped to domain-friendly [apperr.AppError] types to avoid leaking storage
// implementation details.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vidora/vidora/internal/platform/apperr"
	"github.com/vidora/vidora/internal/platform/dberr"
)

// userColumns is the canonical SELECT column list for users.account.
const userColumns = `
	id, channelname, slug, email, phone, passwordhash,
	logourl, logokey, subscribers, refreshtoken, role, createdat, updatedat`

// # User Repository

// PostgresUserRepository implements the UserRepository interface using pgx.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new PostgreSQL implementation of the UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

/*
Create persists a new user record into the users.account table.

Description: Deep-persists account metadata, ensuring timestamps are initialized
if not provided.

Parameters:
  - context: context.Context
  - user: *User (Entity to persist)

Returns:
  - error: apperr.Conflict on duplicate email/channel, or connectivity errors
*/
func (repository *PostgresUserRepository) Create(context context.Context, user *User) error {
	const query = `
		INSERT INTO users.account (
			id, channelname, slug, email, phone, passwordhash,
			logourl, logokey, subscribers, refreshtoken, role, createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		user.ID,
		user.ChannelName,
		user.Slug,
		user.Email,
		user.Phone,
		user.PasswordHash,
		user.LogoURL,
		user.LogoKey,
		user.Subscribers,
		user.RefreshToken,
		user.Role,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		if dberr.IsUniqueViolation(err) {
			return apperr.Conflict("Account already exists")
		}
		return fmt.Errorf("postgres_user_repo_create_failed: %w", err)
	}

	return nil
}

/*
FindByEmail retrieves a user record by their unique email address.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresUserRepository) FindByEmail(context context.Context, email string) (*User, error) {
	query := `SELECT` + userColumns + `
		FROM users.account
		WHERE email = $1`

	return repository.scanOne(context, query, email)
}

/*
FindByID retrieves a user record by their unique ID.

Description: Primary key resolution for user accounts.

Parameters:
  - context: context.Context
  - id: string (UUIDv7)

Returns:
  - *User: Hydrated account entity
  - error: Not found or execution errors
*/
func (repository *PostgresUserRepository) FindByID(context context.Context, id string) (*User, error) {
	query := `SELECT` + userColumns + `
		FROM users.account
		WHERE id = $1`

	return repository.scanOne(context, query, id)
}

/*
UpdateRefreshToken replaces the stored refresh token for a user.

Description: An empty token invalidates the active session server-side.

Parameters:
  - context: context.Context
  - userID: string
  - token: string

Returns:
  - error: Execution errors
*/
func (repository *PostgresUserRepository) UpdateRefreshToken(context context.Context, userID, token string) error {
	const query = `
		UPDATE users.account
		SET refreshtoken = $2, updatedat = $3
		WHERE id = $1`

	_, err := repository.pool.Exec(context, query, userID, token, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_user_repo_update_refresh_token_failed: %w", err)
	}

	return nil
}

/*
CountByRole returns the number of accounts holding the given role.

Parameters:
  - context: context.Context
  - role: string

Returns:
  - int64: Account count
  - error: Execution errors
*/
func (repository *PostgresUserRepository) CountByRole(context context.Context, role string) (int64, error) {
	const query = "SELECT COUNT(*) FROM users.account WHERE role = $1"

	var count int64
	if err := repository.pool.QueryRow(context, query, role).Scan(&count); err != nil {
		return 0, fmt.Errorf("postgres_user_repo_count_by_role_failed: %w", err)
	}

	return count, nil
}

/*
SubscribedChannelIDs returns the IDs of every channel the user subscribes to.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - []string: Channel IDs ordered by subscription recency
  - error: Execution errors
*/
func (repository *PostgresUserRepository) SubscribedChannelIDs(context context.Context, userID string) ([]string, error) {
	const query = `
		SELECT channelid
		FROM users.subscription
		WHERE subscriberid = $1
		ORDER BY createdat DESC`

	rows, err := repository.pool.Query(context, query, userID)
	if err != nil {
		return nil, fmt.Errorf("postgres_user_repo_subscriptions_failed: %w", err)
	}
	defer rows.Close()

	channelIDs := make([]string, 0)
	for rows.Next() {
		var channelID string
		if err := rows.Scan(&channelID); err != nil {
			return nil, fmt.Errorf("postgres_user_repo_subscriptions_scan_failed: %w", err)
		}
		channelIDs = append(channelIDs, channelID)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres_user_repo_subscriptions_rows_failed: %w", err)
	}

	return channelIDs, nil
}

// scanOne executes a single-row user query and hydrates the entity.
func (repository *PostgresUserRepository) scanOne(context context.Context, query string, arg any) (*User, error) {
	user := &User{}
	err := repository.pool.QueryRow(context, query, arg).Scan(
		&user.ID,
		&user.ChannelName,
		&user.Slug,
		&user.Email,
		&user.Phone,
		&user.PasswordHash,
		&user.LogoURL,
		&user.LogoKey,
		&user.Subscribers,
		&user.RefreshToken,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User")
		}
		return nil, fmt.Errorf("postgres_user_repo_find_failed: %w", err)
	}

	return user, nil
}
