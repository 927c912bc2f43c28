// Copyright (c) 2026 Vidora. All rights reserved.
// Author: eng@vidora.dev

package comments

import (
	"context"

	"github.com/vidora/vidora/pkg/pagination"
)

// Store defines the data access contract for comments.
type Store interface {

	// Create persists a brand-new comment row.
	Create(context context.Context, comment *Comment) error

	// FindByID returns the comment with the given ID, including author details.
	FindByID(context context.Context, id string) (*Comment, error)

	// Update persists a changed comment body.
	Update(context context.Context, comment *Comment) error

	// Delete removes the comment row.
	Delete(context context.Context, id string) error

	// ListByVideo returns a page of a video's comments, newest first, with
	// the total count.
	ListByVideo(context context.Context, videoID string, page pagination.Params) ([]Comment, int, error)
}

// VideoChecker verifies a video exists before a comment is attached to it.
//
// Implemented by the video store; declared here so the comment service does
// not depend on the videos package.
type VideoChecker interface {
	VideoExists(context context.Context, id string) (bool, error)
}
