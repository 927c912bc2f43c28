// Copyright (c) 2026 Vidora. All rights reserved.
// Author: eng@vidora.dev

package comments

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

// commentColumns is the canonical SELECT column list for core.comment joined
// with the author's public identity.
const commentColumns = `
	c.id, c.videoid, c.authorid, a.channelname, a.logourl, c.body,
	c.createdat, c.updatedat`

// PostgresStore implements [Store] using pgx.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgreSQL implementation of the comment [Store].
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Create persists a brand-new comment row.
func (store *PostgresStore) Create(context context.Context, comment *Comment) error {
	const query = `
		INSERT INTO core.comment (id, videoid, authorid, body, createdat, updatedat)
		VALUES ($1, $2, $3, $4, $5, $6)`

	now := time.Now()
	comment.CreatedAt = now
	comment.UpdatedAt = now

	_, err := store.pool.Exec(context, query,
		comment.ID,
		comment.VideoID,
		comment.AuthorID,
		comment.Body,
		comment.CreatedAt,
		comment.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("postgres_comment_store_create_failed: %w", err)
	}

	return nil
}

// FindByID returns the comment with the given ID, including author details.
func (store *PostgresStore) FindByID(context context.Context, id string) (*Comment, error) {
	query := `SELECT` + commentColumns + `
		FROM core.comment c
		JOIN users.account a ON a.id = c.authorid
		WHERE c.id = $1`

	comment := &Comment{}
	err := store.pool.QueryRow(context, query, id).Scan(
		&comment.ID,
		&comment.VideoID,
		&comment.AuthorID,
		&comment.ChannelName,
		&comment.LogoURL,
		&comment.Body,
		&comment.CreatedAt,
		&comment.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Comment")
		}
		return nil, fmt.Errorf("postgres_comment_store_find_failed: %w", err)
	}

	return comment, nil
}

// Update persists a changed comment body.
func (store *PostgresStore) Update(context context.Context, comment *Comment) error {
	const query = "UPDATE core.comment SET body = $2, updatedat = $3 WHERE id = $1"

	comment.UpdatedAt = time.Now()
	_, err := store.pool.Exec(context, query, comment.ID, comment.Body, comment.UpdatedAt)
	if err != nil {
		return fmt.Errorf("postgres_comment_store_update_failed: %w", err)
	}

	return nil
}

// Delete removes the comment row.
func (store *PostgresStore) Delete(context context.Context, id string) error {
	const query = "DELETE FROM core.comment WHERE id = $1"

	tag, err := store.pool.Exec(context, query, id)
	if err != nil {
		return fmt.Errorf("postgres_comment_store_delete_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Comment")
	}

	return nil
}

// ListByVideo returns a page of a video's comments, newest first.
func (store *PostgresStore) ListByVideo(context context.Context, videoID string, page pagination.Params) ([]Comment, int, error) {
	const countQuery = "SELECT COUNT(*) FROM core.comment WHERE videoid = $1"

	var total int
	if err := store.pool.QueryRow(context, countQuery, videoID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres_comment_store_list_count_failed: %w", err)
	}

	listQuery := `SELECT` + commentColumns + `
		FROM core.comment c
		JOIN users.account a ON a.id = c.authorid
		WHERE c.videoid = $1
		ORDER BY c.createdat DESC
		LIMIT $2 OFFSET $3`

	rows, err := store.pool.Query(context, listQuery, videoID, page.Limit, page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_comment_store_list_failed: %w", err)
	}
	defer rows.Close()

	items := make([]Comment, 0, page.Limit)
	for rows.Next() {
		var comment Comment
		err := rows.Scan(
			&comment.ID,
			&comment.VideoID,
			&comment.AuthorID,
			&comment.ChannelName,
			&comment.LogoURL,
			&comment.Body,
			&comment.CreatedAt,
			&comment.UpdatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres_comment_store_list_scan_failed: %w", err)
		}
		items = append(items, comment)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres_comment_store_list_rows_failed: %w", err)
	}

	return items, total, nil
}
