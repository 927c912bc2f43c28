// Copyright (c) 2026 Vidora. All rights reserved.
// Author: eng@vidora.dev

package account

import (
	"context"
	"fmt"
	"strings"

	"github.com/vidora/vidora/internal/platform/apperr"
	"github.com/vidora/vidora/internal/platform/ctxutil"
	"github.com/vidora/vidora/internal/platform/dberr"
	"github.com/vidora/vidora/internal/platform/sec"
	"github.com/vidora/vidora/internal/platform/storage"
	"github.com/vidora/vidora/internal/users/auth"
	"github.com/vidora/vidora/pkg/pagination"
	"github.com/vidora/vidora/pkg/slug"
)

// ChannelCache is the read-through cache contract for public channel pages.
type ChannelCache interface {
	Get(context context.Context, channelID string) (*ChannelProfile, error)
	Set(context context.Context, profile *ChannelProfile) error
	Invalidate(context context.Context, channelID string) error
}

// Service implements profile and social graph use cases.
type Service struct {
	store       Store
	cache       ChannelCache
	objectStore storage.ObjectStore
}

// NewService constructs a new account [Service].
func NewService(store Store, cache ChannelCache, objectStore storage.ObjectStore) *Service {
	return &Service{
		store:       store,
		cache:       cache,
		objectStore: objectStore,
	}
}

// # Profile Reads

// Me returns the caller's own account entity.
func (service *Service) Me(context context.Context, userID string) (*auth.User, error) {
	return service.store.FindByID(context, userID)
}

/*
Channel returns the public projection of a channel.

Description: Read-through cache. Cache failures degrade to a direct database
read instead of failing the request.

Parameters:
  - context: context.Context
  - channelID: string

Returns:
  - *ChannelProfile: Public channel page data
  - error: NotFound or storage errors
*/
func (service *Service) Channel(context context.Context, channelID string) (*ChannelProfile, error) {
	if cached, err := service.cache.Get(context, channelID); err == nil && cached != nil {
		return cached, nil
	}

	profile, err := service.store.Channel(context, channelID)
	if err != nil {
		return nil, err
	}

	// Best-effort cache fill.
	if err := service.cache.Set(context, profile); err != nil {
		ctxutil.GetLogger(context).Warn("channel_cache_fill_failed", "channel_id", channelID, "error", err)
	}

	return profile, nil
}

// # Profile Mutations

// UpdateProfileInput carries optional profile changes. Nil fields are untouched.
type UpdateProfileInput struct {
	ChannelName *string
	Phone       *string

	// Logo replaces the current channel logo when present.
	Logo *storage.LocalFile
}

/*
UpdateProfile applies partial changes to the caller's channel profile.

Description: Applies only the provided fields. A new logo is uploaded before
the database write; the previous logo object is destroyed only after the row
update succeeded, so a failed update never orphans the current logo.

Parameters:
  - context: context.Context
  - userID: string
  - input: UpdateProfileInput

Returns:
  - *auth.User: Updated entity
  - error: Conflict (channel name taken), UnsupportedMedia, or storage errors
*/
func (service *Service) UpdateProfile(context context.Context, userID string, input UpdateProfileInput) (*auth.User, error) {
	user, err := service.store.FindByID(context, userID)
	if err != nil {
		return nil, err
	}

	if input.ChannelName != nil {
		trimmed := strings.TrimSpace(*input.ChannelName)
		if trimmed == "" {
			return nil, apperr.ValidationError("Validation failed", apperr.FieldError{
				Field: FieldChannelName, Message: "This field is required",
			})
		}
		user.ChannelName = trimmed
		user.Slug = slug.From(trimmed)
		if user.Slug == "" {
			user.Slug = user.ID
		}
	}

	if input.Phone != nil {
		user.Phone = strings.TrimSpace(*input.Phone)
	}

	previousLogoKey := ""
	if input.Logo != nil {
		if !auth.IsAllowedLogoMime(input.Logo.ContentType) {
			return nil, apperr.UnsupportedMedia("Logo must be a JPEG or PNG image")
		}

		logoAsset, err := service.objectStore.Upload(context, storage.UploadInput{
			File:    input.Logo,
			Folder:  storage.FolderLogos,
			Profile: storage.ProfileImage,
		})
		if err != nil {
			return nil, fmt.Errorf("account_service_logo_upload_failed: %w", err)
		}

		previousLogoKey = user.LogoKey
		user.LogoURL = logoAsset.URL
		user.LogoKey = logoAsset.Key
	}

	if err := service.store.UpdateProfile(context, user); err != nil {
		// Roll back the just-uploaded logo on failure.
		if input.Logo != nil {
			_ = service.objectStore.Delete(context, user.LogoKey)
		}
		if dberr.IsUniqueViolation(err) {
			return nil, apperr.Conflict("Channel name is already taken")
		}
		return nil, err
	}

	// The row now points at the new logo; destroy the old object.
	if previousLogoKey != "" {
		_ = service.objectStore.Delete(context, previousLogoKey)
	}

	service.invalidateChannel(context, userID)
	return user, nil
}

/*
ChangePassword rotates the caller's password.

Parameters:
  - context: context.Context
  - userID: string
  - currentPassword: string
  - newPassword: string

Returns:
  - error: Unauthorized (wrong current password) or storage errors
*/
func (service *Service) ChangePassword(context context.Context, userID, currentPassword, newPassword string) error {
	user, err := service.store.FindByID(context, userID)
	if err != nil {
		return err
	}

	if !sec.CheckPasswordHash(currentPassword, user.PasswordHash) {
		return apperr.Unauthorized("Current password is incorrect")
	}

	hashedPassword, err := sec.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("account_service_hash_failed: %w", err)
	}

	if err := service.store.UpdatePassword(context, userID, hashedPassword); err != nil {
		return fmt.Errorf("account_service_change_password_failed: %w", err)
	}

	return nil
}

// # Subscriptions

/*
Subscribe adds the caller to a channel's subscriber set.

Description: Idempotent. The subscriber counter is derived from the edge
table inside the store transaction, so repeated calls never inflate it.

Parameters:
  - context: context.Context
  - subscriberID: string (the caller)
  - channelID: string (the target channel)

Returns:
  - error: BadRequest (self-subscribe), NotFound, or storage errors
*/
func (service *Service) Subscribe(context context.Context, subscriberID, channelID string) error {
	if subscriberID == channelID {
		return apperr.BadRequest("You cannot subscribe to your own channel")
	}

	// Ensure the target channel exists before creating an edge.
	if _, err := service.store.Channel(context, channelID); err != nil {
		return err
	}

	if err := service.store.Subscribe(context, subscriberID, channelID); err != nil {
		return err
	}

	service.invalidateChannel(context, channelID)
	return nil
}

// Unsubscribe removes the caller from a channel's subscriber set. Idempotent.
func (service *Service) Unsubscribe(context context.Context, subscriberID, channelID string) error {
	if subscriberID == channelID {
		return apperr.BadRequest("You cannot unsubscribe from your own channel")
	}

	if _, err := service.store.Channel(context, channelID); err != nil {
		return err
	}

	if err := service.store.Unsubscribe(context, subscriberID, channelID); err != nil {
		return err
	}

	service.invalidateChannel(context, channelID)
	return nil
}

// # Watch History

// WatchHistory returns the caller's watch feed, most recent first.
func (service *Service) WatchHistory(context context.Context, userID string, page pagination.Params) ([]WatchEntry, int, error) {
	return service.store.WatchHistory(context, userID, page)
}

// invalidateChannel drops the cached projection; failures are logged, not fatal.
func (service *Service) invalidateChannel(context context.Context, channelID string) {
	if err := service.cache.Invalidate(context, channelID); err != nil {
		ctxutil.GetLogger(context).Warn("channel_cache_invalidate_failed", "channel_id", channelID, "error", err)
	}
}
