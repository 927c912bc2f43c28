// Copyright (c) 2026 Vidora. All rights reserved.
// Author: eng@vidora.dev

/*
Package videos implements the video catalog: upload, metadata, listings,
reactions (like/dislike), and view accounting.

# Architecture

  - Entity: Video rows own their media assets ({URL, Key} pairs) so deleting
    a video can destroy its objects in storage.
  - Counters: likes, dislikes, and views are DERIVED values. They are
    refreshed from the reaction/view tables inside the same transaction as
    the mutation and are never incremented blindly.
  - Authorization: Mutations require the owner or an admin moderator.
*/
package videos

import (
	"time"
)

// Video represents a published video and its denormalized counters.
type Video struct {
	ID          string   `json:"id"`
	OwnerID     string   `json:"owner_id"`
	ChannelName string   `json:"channel_name"` // Joined from the owner account for list views.
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`

	VideoURL string `json:"video_url"`
	VideoKey string `json:"-"`
	ThumbURL string `json:"thumb_url"`
	ThumbKey string `json:"-"`

	// Derived counters. Source of truth is the reaction/view tables.
	Likes    int64 `json:"likes"`
	Dislikes int64 `json:"dislikes"`
	Views    int64 `json:"views"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Reaction is a user's stance on a video. A user holds at most one.
type Reaction string

const (
	ReactionLike    Reaction = "like"
	ReactionDislike Reaction = "dislike"
)

// Field identifiers for validation in the videos domain.
const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldCategory    = "category"
	FieldTags        = "tags"
	FieldVideo       = "video"
	FieldThumbnail   = "thumbnail"
	FieldVideoID     = "video_id"
	FieldMessage     = "message"
)
