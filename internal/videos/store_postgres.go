// Copyright (c) 2026 Vidora. All rights reserved.
// Author: eng@vidora.dev

package videos

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vidora/vidora/internal/platform/apperr"
	"github.com/vidora/vidora/pkg/pagination"
)

// videoColumns is the canonical SELECT column list for core.video joined
// with the owner's channel name.
const videoColumns = `
	v.id, v.ownerid, a.channelname, v.title, v.description, v.category, v.tags,
	v.videourl, v.videokey, v.thumburl, v.thumbkey,
	v.likes, v.dislikes, v.views, v.createdat, v.updatedat`

// PostgresStore implements [Store] using pgx.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgreSQL implementation of the video [Store].
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Create persists a brand-new video row.
func (store *PostgresStore) Create(context context.Context, video *Video) error {
	const query = `
		INSERT INTO core.video (
			id, ownerid, title, description, category, tags,
			videourl, videokey, thumburl, thumbkey,
			likes, dislikes, views, createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

	now := time.Now()
	if video.CreatedAt.IsZero() {
		video.CreatedAt = now
	}
	video.UpdatedAt = now

	_, err := store.pool.Exec(context, query,
		video.ID,
		video.OwnerID,
		video.Title,
		video.Description,
		video.Category,
		video.Tags,
		video.VideoURL,
		video.VideoKey,
		video.ThumbURL,
		video.ThumbKey,
		video.Likes,
		video.Dislikes,
		video.Views,
		video.CreatedAt,
		video.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("postgres_video_store_create_failed: %w", err)
	}

	return nil
}

// FindByID returns the video with the given ID, including its channel name.
func (store *PostgresStore) FindByID(context context.Context, id string) (*Video, error) {
	query := `SELECT` + videoColumns + `
		FROM core.video v
		JOIN users.account a ON a.id = v.ownerid
		WHERE v.id = $1`

	video := &Video{}
	err := store.pool.QueryRow(context, query, id).Scan(
		&video.ID,
		&video.OwnerID,
		&video.ChannelName,
		&video.Title,
		&video.Description,
		&video.Category,
		&video.Tags,
		&video.VideoURL,
		&video.VideoKey,
		&video.ThumbURL,
		&video.ThumbKey,
		&video.Likes,
		&video.Dislikes,
		&video.Views,
		&video.CreatedAt,
		&video.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Video")
		}
		return nil, fmt.Errorf("postgres_video_store_find_failed: %w", err)
	}

	return video, nil
}

// Exists reports whether a video row exists without hydrating it.
func (store *PostgresStore) Exists(context context.Context, id string) (bool, error) {
	const query = "SELECT EXISTS (SELECT 1 FROM core.video WHERE id = $1)"

	var exists bool
	if err := store.pool.QueryRow(context, query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("postgres_video_store_exists_failed: %w", err)
	}

	return exists, nil
}

// VideoExists implements the comment domain's existence check.
func (store *PostgresStore) VideoExists(context context.Context, id string) (bool, error) {
	return store.Exists(context, id)
}

// Update persists mutable metadata fields.
func (store *PostgresStore) Update(context context.Context, video *Video) error {
	const query = `
		UPDATE core.video
		SET title = $2, description = $3, category = $4, tags = $5,
		    thumburl = $6, thumbkey = $7, updatedat = $8
		WHERE id = $1`

	video.UpdatedAt = time.Now()
	_, err := store.pool.Exec(context, query,
		video.ID,
		video.Title,
		video.Description,
		video.Category,
		video.Tags,
		video.ThumbURL,
		video.ThumbKey,
		video.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("postgres_video_store_update_failed: %w", err)
	}

	return nil
}

// Delete removes the row. Comments, reactions, views and watch history
// entries cascade at the schema level.
func (store *PostgresStore) Delete(context context.Context, id string) error {
	const query = "DELETE FROM core.video WHERE id = $1"

	tag, err := store.pool.Exec(context, query, id)
	if err != nil {
		return fmt.Errorf("postgres_video_store_delete_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Video")
	}

	return nil
}

// List returns a filtered page of videos, newest first, with the total count.
func (store *PostgresStore) List(context context.Context, filter ListFilter, page pagination.Params) ([]Video, int, error) {
	// Build the WHERE clause from the optional filters.
	where := "WHERE TRUE"
	args := []any{}

	if filter.OwnerID != "" {
		args = append(args, filter.OwnerID)
		where += fmt.Sprintf(" AND v.ownerid = $%d", len(args))
	}
	if filter.Category != "" {
		args = append(args, filter.Category)
		where += fmt.Sprintf(" AND v.category = $%d", len(args))
	}
	if filter.Tag != "" {
		args = append(args, filter.Tag)
		where += fmt.Sprintf(" AND $%d = ANY(v.tags)", len(args))
	}

	countQuery := "SELECT COUNT(*) FROM core.video v " + where
	var total int
	if err := store.pool.QueryRow(context, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres_video_store_list_count_failed: %w", err)
	}

	args = append(args, page.Limit, page.Offset())
	listQuery := `SELECT` + videoColumns + `
		FROM core.video v
		JOIN users.account a ON a.id = v.ownerid
		` + where + `
		ORDER BY v.createdat DESC
		LIMIT $` + fmt.Sprint(len(args)-1) + ` OFFSET $` + fmt.Sprint(len(args))

	rows, err := store.pool.Query(context, listQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_video_store_list_failed: %w", err)
	}
	defer rows.Close()

	items := make([]Video, 0, page.Limit)
	for rows.Next() {
		var video Video
		err := rows.Scan(
			&video.ID,
			&video.OwnerID,
			&video.ChannelName,
			&video.Title,
			&video.Description,
			&video.Category,
			&video.Tags,
			&video.VideoURL,
			&video.VideoKey,
			&video.ThumbURL,
			&video.ThumbKey,
			&video.Likes,
			&video.Dislikes,
			&video.Views,
			&video.CreatedAt,
			&video.UpdatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres_video_store_list_scan_failed: %w", err)
		}
		items = append(items, video)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres_video_store_list_rows_failed: %w", err)
	}

	return items, total, nil
}

/*
React applies the user's reaction to a video inside one transaction.

Description: Reads the current reaction under FOR UPDATE, applies the
mutual-exclusion rules, then refreshes both counters from the reaction table
so the derived values can never drift. Repeating the same reaction is a
no-op; an opposite reaction replaces the existing one.
*/
func (store *PostgresStore) React(context context.Context, videoID, userID string, reaction Reaction) error {
	tx, err := store.pool.Begin(context)
	if err != nil {
		return fmt.Errorf("postgres_video_store_react_begin_failed: %w", err)
	}
	defer func() { _ = tx.Rollback(context) }()

	// 1. Read the current stance, locking the row against concurrent reactions.
	const currentQuery = `
		SELECT reaction FROM core.videoreaction
		WHERE videoid = $1 AND userid = $2
		FOR UPDATE`

	var current Reaction
	err = tx.QueryRow(context, currentQuery, videoID, userID).Scan(&current)
	hasReaction := err == nil
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("postgres_video_store_react_read_failed: %w", err)
	}

	// 2. Apply the reaction. Repeating the same reaction changes nothing;
	// an opposite reaction replaces the row, enforcing mutual exclusion.
	if !hasReaction || current != reaction {
		const upsertQuery = `
			INSERT INTO core.videoreaction (videoid, userid, reaction, createdat)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (videoid, userid) DO UPDATE SET reaction = EXCLUDED.reaction`
		if _, err := tx.Exec(context, upsertQuery, videoID, userID, reaction, time.Now()); err != nil {
			return fmt.Errorf("postgres_video_store_react_upsert_failed: %w", err)
		}
	}

	// 3. Refresh the derived counters in the same transaction.
	const refreshQuery = `
		UPDATE core.video SET
			likes = (SELECT COUNT(*) FROM core.videoreaction WHERE videoid = $1 AND reaction = 'like'),
			dislikes = (SELECT COUNT(*) FROM core.videoreaction WHERE videoid = $1 AND reaction = 'dislike')
		WHERE id = $1`

	if _, err := tx.Exec(context, refreshQuery, videoID); err != nil {
		return fmt.Errorf("postgres_video_store_react_refresh_failed: %w", err)
	}

	if err := tx.Commit(context); err != nil {
		return fmt.Errorf("postgres_video_store_react_commit_failed: %w", err)
	}

	return nil
}

// RecordView registers a unique (video, user) view and refreshes the counter.
func (store *PostgresStore) RecordView(context context.Context, videoID, userID string) error {
	tx, err := store.pool.Begin(context)
	if err != nil {
		return fmt.Errorf("postgres_video_store_view_begin_failed: %w", err)
	}
	defer func() { _ = tx.Rollback(context) }()

	const insertQuery = `
		INSERT INTO core.videoview (videoid, userid, createdat)
		VALUES ($1, $2, $3)
		ON CONFLICT (videoid, userid) DO NOTHING`

	if _, err := tx.Exec(context, insertQuery, videoID, userID, time.Now()); err != nil {
		return fmt.Errorf("postgres_video_store_view_insert_failed: %w", err)
	}

	const refreshQuery = `
		UPDATE core.video
		SET views = (SELECT COUNT(*) FROM core.videoview WHERE videoid = $1)
		WHERE id = $1`

	if _, err := tx.Exec(context, refreshQuery, videoID); err != nil {
		return fmt.Errorf("postgres_video_store_view_refresh_failed: %w", err)
	}

	if err := tx.Commit(context); err != nil {
		return fmt.Errorf("postgres_video_store_view_commit_failed: %w", err)
	}

	return nil
}
