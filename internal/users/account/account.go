// Copyright (c) 2026 Vidora. All rights reserved.
// Author: eng@vidora.dev

/*
Package account implements the channel profile and social graph layer.

It covers everything an authenticated channel does with its own identity after
login: profile reads and edits, password changes, subscribing to other
channels, and the watch history feed.

# Architecture

The account package builds on the [auth.User] entity owned by the auth
package. It adds read-model projections (ChannelProfile, WatchEntry) and the
subscription edge table.
*/
package account

import (
	"time"
)

// ChannelProfile is the public projection of a channel, safe for anonymous reads.
//
// It is the cacheable unit for hot channel pages.
type ChannelProfile struct {
	ID          string    `json:"id"`
	ChannelName string    `json:"channel_name"`
	Slug        string    `json:"slug"`
	LogoURL     string    `json:"logo_url"`
	Subscribers int64     `json:"subscribers"`
	TotalVideos int64     `json:"total_videos"`
	JoinedAt    time.Time `json:"joined_at"`
}

// WatchEntry is a single row of a user's watch history feed.
type WatchEntry struct {
	VideoID     string    `json:"video_id"`
	Title       string    `json:"title"`
	ThumbURL    string    `json:"thumb_url"`
	ChannelName string    `json:"channel_name"`
	WatchedAt   time.Time `json:"watched_at"`
}

// Field identifiers for validation in the account domain.
const (
	FieldChannelName     = "channel_name"
	FieldPhone           = "phone"
	FieldLogo            = "logo"
	FieldCurrentPassword = "current_password"
	FieldNewPassword     = "new_password"
	FieldChannelID       = "channel_id"
	FieldMessage         = "message"
)
