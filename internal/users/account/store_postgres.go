// Copyright (c) 2026 Vidora. All rights reserved.
// Author: eng@vidora.dev

package account

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vidora/vidora/internal/platform/apperr"
	"github.com/vidora/vidora/internal/users/auth"
	"github.com/vidora/vidora/pkg/pagination"
)

// PostgresStore implements [Store] using pgx.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgreSQL implementation of the account [Store].
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// FindByID returns the full account entity for the owner.
func (store *PostgresStore) FindByID(context context.Context, id string) (*auth.User, error) {
	const query = `
		SELECT id, channelname, slug, email, phone, passwordhash,
		       logourl, logokey, subscribers, refreshtoken, role, createdat, updatedat
		FROM users.account
		WHERE id = $1`

	user := &auth.User{}
	err := store.pool.QueryRow(context, query, id).Scan(
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
		return nil, fmt.Errorf("postgres_account_store_find_failed: %w", err)
	}

	return user, nil
}

// UpdateProfile persists mutable profile fields.
func (store *PostgresStore) UpdateProfile(context context.Context, user *auth.User) error {
	const query = `
		UPDATE users.account
		SET channelname = $2, slug = $3, phone = $4, logourl = $5, logokey = $6, updatedat = $7
		WHERE id = $1`

	user.UpdatedAt = time.Now()
	_, err := store.pool.Exec(context, query,
		user.ID,
		user.ChannelName,
		user.Slug,
		user.Phone,
		user.LogoURL,
		user.LogoKey,
		user.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("postgres_account_store_update_profile_failed: %w", err)
	}

	return nil
}

// UpdatePassword replaces the user's password hash and revokes the active
// refresh token, so a password change ends any existing session.
func (store *PostgresStore) UpdatePassword(context context.Context, userID, newHash string) error {
	const query = `
		UPDATE users.account
		SET passwordhash = $2, refreshtoken = '', updatedat = $3
		WHERE id = $1`

	_, err := store.pool.Exec(context, query, userID, newHash, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_account_store_update_password_failed: %w", err)
	}

	return nil
}

// Channel returns the public projection of a channel, including its video count.
func (store *PostgresStore) Channel(context context.Context, channelID string) (*ChannelProfile, error) {
	const query = `
		SELECT a.id, a.channelname, a.slug, a.logourl, a.subscribers, a.createdat,
		       (SELECT COUNT(*) FROM core.video v WHERE v.ownerid = a.id) AS totalvideos
		FROM users.account a
		WHERE a.id = $1`

	profile := &ChannelProfile{}
	err := store.pool.QueryRow(context, query, channelID).Scan(
		&profile.ID,
		&profile.ChannelName,
		&profile.Slug,
		&profile.LogoURL,
		&profile.Subscribers,
		&profile.JoinedAt,
		&profile.TotalVideos,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Channel")
		}
		return nil, fmt.Errorf("postgres_account_store_channel_failed: %w", err)
	}

	return profile, nil
}

/*
Subscribe records a subscription edge and refreshes the derived counter.

Description: The edge insert and the counter refresh run in one transaction,
so the subscribers column is always exactly the COUNT of edges. Duplicate
subscriptions are absorbed by ON CONFLICT DO NOTHING.
*/
func (store *PostgresStore) Subscribe(context context.Context, subscriberID, channelID string) error {
	return store.mutateSubscription(context, channelID, func(tx pgx.Tx) error {
		const insertEdge = `
			INSERT INTO users.subscription (subscriberid, channelid, createdat)
			VALUES ($1, $2, $3)
			ON CONFLICT (subscriberid, channelid) DO NOTHING`

		_, err := tx.Exec(context, insertEdge, subscriberID, channelID, time.Now())
		return err
	})
}

// Unsubscribe removes the subscription edge and refreshes the counter.
func (store *PostgresStore) Unsubscribe(context context.Context, subscriberID, channelID string) error {
	return store.mutateSubscription(context, channelID, func(tx pgx.Tx) error {
		const deleteEdge = `
			DELETE FROM users.subscription
			WHERE subscriberid = $1 AND channelid = $2`

		_, err := tx.Exec(context, deleteEdge, subscriberID, channelID)
		return err
	})
}

// mutateSubscription wraps an edge mutation and the counter refresh in a transaction.
func (store *PostgresStore) mutateSubscription(context context.Context, channelID string, mutate func(tx pgx.Tx) error) error {
	tx, err := store.pool.Begin(context)
	if err != nil {
		return fmt.Errorf("postgres_account_store_subscription_begin_failed: %w", err)
	}
	defer func() { _ = tx.Rollback(context) }()

	if err := mutate(tx); err != nil {
		return fmt.Errorf("postgres_account_store_subscription_mutate_failed: %w", err)
	}

	// The counter is strictly derived from the edge table.
	const refreshCounter = `
		UPDATE users.account
		SET subscribers = (SELECT COUNT(*) FROM users.subscription WHERE channelid = $1)
		WHERE id = $1`

	if _, err := tx.Exec(context, refreshCounter, channelID); err != nil {
		return fmt.Errorf("postgres_account_store_subscription_counter_failed: %w", err)
	}

	if err := tx.Commit(context); err != nil {
		return fmt.Errorf("postgres_account_store_subscription_commit_failed: %w", err)
	}

	return nil
}

// WatchHistory returns the user's watch feed, most recent first.
func (store *PostgresStore) WatchHistory(context context.Context, userID string, page pagination.Params) ([]WatchEntry, int, error) {
	const countQuery = "SELECT COUNT(*) FROM users.watchhistory WHERE userid = $1"

	var total int
	if err := store.pool.QueryRow(context, countQuery, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres_account_store_history_count_failed: %w", err)
	}

	const query = `
		SELECT w.videoid, v.title, v.thumburl, a.channelname, w.watchedat
		FROM users.watchhistory w
		JOIN core.video v ON v.id = w.videoid
		JOIN users.account a ON a.id = v.ownerid
		WHERE w.userid = $1
		ORDER BY w.watchedat DESC
		LIMIT $2 OFFSET $3`

	rows, err := store.pool.Query(context, query, userID, page.Limit, page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_account_store_history_failed: %w", err)
	}
	defer rows.Close()

	entries := make([]WatchEntry, 0, page.Limit)
	for rows.Next() {
		var entry WatchEntry
		if err := rows.Scan(&entry.VideoID, &entry.Title, &entry.ThumbURL, &entry.ChannelName, &entry.WatchedAt); err != nil {
			return nil, 0, fmt.Errorf("postgres_account_store_history_scan_failed: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres_account_store_history_rows_failed: %w", err)
	}

	return entries, total, nil
}

// RecordWatch upserts a watch history row, bumping the timestamp on rewatch.
func (store *PostgresStore) RecordWatch(context context.Context, userID, videoID string) error {
	const query = `
		INSERT INTO users.watchhistory (userid, videoid, watchedat)
		VALUES ($1, $2, $3)
		ON CONFLICT (userid, videoid) DO UPDATE SET watchedat = EXCLUDED.watchedat`

	_, err := store.pool.Exec(context, query, userID, videoID, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_account_store_record_watch_failed: %w", err)
	}

	return nil
}
