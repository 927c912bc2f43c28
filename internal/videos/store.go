// Copyright (c) 2026 Vidora. All rights reserved.
// Author: eng@vidora.dev

package videos

import (
	"context"

	"github.com/vidora/vidora/pkg/pagination"
)

// ListFilter narrows a video listing. Zero-value fields are ignored.
type ListFilter struct {
	OwnerID  string
	Category string
	Tag      string
}

// Store defines the data access contract for the video catalog.
type Store interface {

	// Create persists a brand-new video row.
	Create(context context.Context, video *Video) error

	// FindByID returns the video with the given ID, including its channel name.
	FindByID(context context.Context, id string) (*Video, error)

	// Exists reports whether a video row exists without hydrating it.
	Exists(context context.Context, id string) (bool, error)

	// Update persists mutable metadata fields (title, description, category,
	// tags, thumbnail asset).
	Update(context context.Context, video *Video) error

	// Delete removes the row. Comments and reactions cascade at the schema level.
	Delete(context context.Context, id string) error

	// List returns a filtered page of videos, newest first, with the total count.
	List(context context.Context, filter ListFilter, page pagination.Params) ([]Video, int, error)

	/*
		React applies the user's reaction to a video inside one transaction:

		  - no existing reaction  -> the reaction is recorded
		  - same reaction exists  -> no-op, the reaction stays
		  - opposite exists       -> it is replaced (mutual exclusion)

		The likes/dislikes counters are refreshed from the reaction table in
		the same transaction.
	*/
	React(context context.Context, videoID, userID string, reaction Reaction) error

	// RecordView registers a unique (video, user) view and refreshes the
	// derived views counter. Repeat views by the same user are no-ops.
	RecordView(context context.Context, videoID, userID string) error
}

// WatchRecorder records a video in the viewer's watch history.
//
// Implemented by the account store; declared here so the video service does
// not depend on the account package.
type WatchRecorder interface {
	RecordWatch(context context.Context, userID, videoID string) error
}
