// Copyright (c) 2026 Vidora. All rights reserved.
// Author: eng@vidora.dev

/*
Package comments implements threaded discussion under videos.

# Architecture

  - Entity: Comment rows carry the author's channel name and logo, joined at
    read time so the client never needs a second lookup.
  - Authorization: Authors edit and delete their own comments; nobody
    else may.
  - Lifecycle: Comments cascade away with their video at the schema level.
*/
package comments

import (
	"time"
)

// MaxBodyLength caps a single comment's character count.
const MaxBodyLength = 2000

// Comment represents a single comment under a video.
type Comment struct {
	ID      string `json:"id"`
	VideoID string `json:"video_id"`

	AuthorID    string `json:"author_id"`
	ChannelName string `json:"channel_name"` // Joined from the author account.
	LogoURL     string `json:"logo_url"`     // Joined from the author account.

	Body string `json:"body"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Field identifiers for validation in the comments domain.
const (
	FieldBody      = "body"
	FieldVideoID   = "video_id"
	FieldCommentID = "comment_id"
	FieldMessage   = "message"
)
