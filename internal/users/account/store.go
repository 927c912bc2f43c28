// Copyright (c) 2026 Vidora. All rights reserved.
// Author: eng@vidora.dev

package account

import (
	"context"

	"github.com/vidora/vidora/internal/users/auth"
	"github.com/vidora/vidora/pkg/pagination"
)

// Store defines the data access contract for profiles and the social graph.
type Store interface {

	// FindByID returns the full account entity (including secrets) for the owner.
	FindByID(context context.Context, id string) (*auth.User, error)

	// UpdateProfile persists mutable profile fields (channel name, slug, phone, logo).
	UpdateProfile(context context.Context, user *auth.User) error

	// UpdatePassword replaces the user's password hash and revokes the
	// active refresh token.
	UpdatePassword(context context.Context, userID, newHash string) error

	// Channel returns the public projection of a channel, including its video count.
	Channel(context context.Context, channelID string) (*ChannelProfile, error)

	/*
		Subscribe records a subscription edge and refreshes the derived
		subscriber counter inside one transaction.

		Idempotent: subscribing twice leaves exactly one edge and an
		unchanged counter.
	*/
	Subscribe(context context.Context, subscriberID, channelID string) error

	// Unsubscribe removes the subscription edge and refreshes the counter.
	// Removing a non-existent edge is not an error.
	Unsubscribe(context context.Context, subscriberID, channelID string) error

	// WatchHistory returns the user's watch feed, most recent first.
	WatchHistory(context context.Context, userID string, page pagination.Params) ([]WatchEntry, int, error)

	// RecordWatch upserts a watch history row, bumping the timestamp on rewatch.
	RecordWatch(context context.Context, userID, videoID string) error
}
