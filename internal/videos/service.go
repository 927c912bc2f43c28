// Copyright (c) 2026 Vidora. All rights reserved.
// Author: eng@vidora.dev

package videos

import (
	"context"
	"fmt"
	"strings"

	"github.com/vidora/vidora/internal/platform/apperr"
	"github.com/vidora/vidora/internal/platform/ctxutil"
	"github.com/vidora/vidora/internal/platform/sec"
	"github.com/vidora/vidora/internal/platform/storage"
	"github.com/vidora/vidora/pkg/pagination"
	"github.com/vidora/vidora/pkg/slice"
	"github.com/vidora/vidora/pkg/uuid"
)

// Service implements the video catalog use cases.
type Service struct {
	store         Store
	objectStore   storage.ObjectStore
	watchRecorder WatchRecorder
}

// NewService constructs a new [Service] with necessary dependencies.
func NewService(store Store, objectStore storage.ObjectStore, watchRecorder WatchRecorder) *Service {
	return &Service{
		store:         store,
		objectStore:   objectStore,
		watchRecorder: watchRecorder,
	}
}

// # Publishing Flow

// UploadInput holds the data required to publish a new video.
type UploadInput struct {
	Title       string
	Description string
	Category    string
	Tags        []string

	// VideoFile is the mandatory media file, already spooled to disk.
	VideoFile *storage.LocalFile

	// Thumbnail is the mandatory cover image, already spooled to disk.
	Thumbnail *storage.LocalFile
}

/*
Upload publishes a new video owned by the caller.

Description: Validates the media formats, pushes both objects to storage,
then persists the catalog row. A failed row insert rolls back the freshly
uploaded objects so the bucket never accumulates orphans.

Parameters:
  - context: context.Context
  - ownerID: string
  - input: UploadInput

Returns:
  - *Video: Created entity with zeroed counters
  - err: ValidationError, UnsupportedMedia, or storage failures
*/
func (service *Service) Upload(context context.Context, ownerID string, input UploadInput) (*Video, error) {

	// Both media parts are mandatory at publish time.
	if input.VideoFile == nil {
		return nil, apperr.ValidationError("Validation failed", apperr.FieldError{
			Field: FieldVideo, Message: "Video file is required",
		})
	}
	if input.Thumbnail == nil {
		return nil, apperr.ValidationError("Validation failed", apperr.FieldError{
			Field: FieldThumbnail, Message: "Thumbnail is required",
		})
	}

	// Closed allow-lists of media formats.
	if !IsAllowedVideoMime(input.VideoFile.ContentType) {
		return nil, apperr.UnsupportedMedia("Video must be MP4, WebM or Ogg")
	}
	if !IsAllowedThumbMime(input.Thumbnail.ContentType) {
		return nil, apperr.UnsupportedMedia("Thumbnail must be a JPEG or PNG image")
	}

	// Push the video first. It is the expensive part; if it fails nothing
	// needs rolling back.
	videoAsset, err := service.objectStore.Upload(context, storage.UploadInput{
		File:    input.VideoFile,
		Folder:  storage.FolderVideos,
		Profile: storage.ProfileVideo,
	})
	if err != nil {
		return nil, fmt.Errorf("video_service_upload_failed: %w", err)
	}

	thumbAsset, err := service.objectStore.Upload(context, storage.UploadInput{
		File:    input.Thumbnail,
		Folder:  storage.FolderThumbnails,
		Profile: storage.ProfileImage,
	})
	if err != nil {
		_ = service.objectStore.Delete(context, videoAsset.Key)
		return nil, fmt.Errorf("video_service_thumb_upload_failed: %w", err)
	}

	video := &Video{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Category:    strings.TrimSpace(strings.ToLower(input.Category)),
		Tags:        normalizeTags(input.Tags),
		VideoURL:    videoAsset.URL,
		VideoKey:    videoAsset.Key,
		ThumbURL:    thumbAsset.URL,
		ThumbKey:    thumbAsset.Key,
	}

	if err := service.store.Create(context, video); err != nil {
		// Roll back both orphaned objects.
		_ = service.objectStore.Delete(context, videoAsset.Key)
		_ = service.objectStore.Delete(context, thumbAsset.Key)
		return nil, fmt.Errorf("video_service_create_failed: %w", err)
	}

	return video, nil
}

// # Metadata Flow

// UpdateInput holds partial metadata changes. Nil fields are left untouched.
type UpdateInput struct {
	Title       *string
	Description *string
	Category    *string
	Tags        []string

	// Thumbnail, when provided, replaces the current cover image.
	Thumbnail *storage.LocalFile
}

/*
Update applies partial metadata changes to a video.

Description: Only the owner may mutate a video. A new
thumbnail is uploaded before the row update; the previous object is destroyed
only after the row persists, so a failure never leaves the video coverless.

Parameters:
  - context: context.Context
  - caller: *sec.AuthClaims
  - videoID: string
  - input: UpdateInput

Returns:
  - *Video: Updated entity
  - err: NotFound, Forbidden, UnsupportedMedia, or storage failures
*/
func (service *Service) Update(context context.Context, caller *sec.AuthClaims, videoID string, input UpdateInput) (*Video, error) {
	video, err := service.store.FindByID(context, videoID)
	if err != nil {
		return nil, err
	}

	if err := authorizeMutation(caller, video); err != nil {
		return nil, err
	}

	if input.Title != nil {
		video.Title = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		video.Description = strings.TrimSpace(*input.Description)
	}
	if input.Category != nil {
		video.Category = strings.TrimSpace(strings.ToLower(*input.Category))
	}
	if input.Tags != nil {
		video.Tags = normalizeTags(input.Tags)
	}

	previousThumbKey := ""
	if input.Thumbnail != nil {
		if !IsAllowedThumbMime(input.Thumbnail.ContentType) {
			return nil, apperr.UnsupportedMedia("Thumbnail must be a JPEG or PNG image")
		}

		thumbAsset, err := service.objectStore.Upload(context, storage.UploadInput{
			File:    input.Thumbnail,
			Folder:  storage.FolderThumbnails,
			Profile: storage.ProfileImage,
		})
		if err != nil {
			return nil, fmt.Errorf("video_service_thumb_upload_failed: %w", err)
		}

		previousThumbKey = video.ThumbKey
		video.ThumbURL = thumbAsset.URL
		video.ThumbKey = thumbAsset.Key
	}

	if err := service.store.Update(context, video); err != nil {
		if video.ThumbKey != previousThumbKey && previousThumbKey != "" {
			// Roll back the orphaned replacement object.
			_ = service.objectStore.Delete(context, video.ThumbKey)
		}
		return nil, fmt.Errorf("video_service_update_failed: %w", err)
	}

	// The old cover is unreachable now; destroy it best-effort.
	if previousThumbKey != "" {
		_ = service.objectStore.Delete(context, previousThumbKey)
	}

	return video, nil
}

/*
Delete removes a video and destroys its media objects.

Description: Only the owner may delete. The row goes
first (comments, reactions and views cascade), then the objects; a leaked
object is recoverable, a dangling row is not.

Parameters:
  - context: context.Context
  - caller: *sec.AuthClaims
  - videoID: string

Returns:
  - err: NotFound, Forbidden, or persistence failures
*/
func (service *Service) Delete(context context.Context, caller *sec.AuthClaims, videoID string) error {
	video, err := service.store.FindByID(context, videoID)
	if err != nil {
		return err
	}

	if err := authorizeMutation(caller, video); err != nil {
		return err
	}

	if err := service.store.Delete(context, videoID); err != nil {
		return fmt.Errorf("video_service_delete_failed: %w", err)
	}

	_ = service.objectStore.Delete(context, video.VideoKey)
	_ = service.objectStore.Delete(context, video.ThumbKey)

	return nil
}

// # Read Flow

/*
GetByID returns a video and, for authenticated viewers, records the view.

Description: View accounting is unique per (video, user) and feeds the
viewer's watch history. Both writes are best-effort: a failed view record
never blocks playback.

Parameters:
  - context: context.Context
  - videoID: string
  - viewer: *sec.AuthClaims (nil for anonymous requests)

Returns:
  - *Video: Full catalog entry
  - err: NotFound or persistence failures
*/
func (service *Service) GetByID(context context.Context, videoID string, viewer *sec.AuthClaims) (*Video, error) {
	video, err := service.store.FindByID(context, videoID)
	if err != nil {
		return nil, err
	}

	if viewer != nil && viewer.UserID != "" {
		logger := ctxutil.GetLogger(context)
		if err := service.store.RecordView(context, videoID, viewer.UserID); err != nil {
			logger.Warn("view_record_failed", "video_id", videoID, "error", err)
		} else if refreshed, err := service.store.FindByID(context, videoID); err == nil {
			// Pick up the counter refreshed by the view transaction.
			video.Views = refreshed.Views
		}
		if err := service.watchRecorder.RecordWatch(context, viewer.UserID, videoID); err != nil {
			logger.Warn("watch_record_failed", "video_id", videoID, "error", err)
		}
	}

	return video, nil
}

// List returns a filtered page of the public catalog, newest first.
func (service *Service) List(context context.Context, filter ListFilter, page pagination.Params) ([]Video, int, error) {
	return service.store.List(context, filter, page)
}

// ByChannel returns a page of a single channel's videos, newest first.
func (service *Service) ByChannel(context context.Context, ownerID string, page pagination.Params) ([]Video, int, error) {
	return service.store.List(context, ListFilter{OwnerID: ownerID}, page)
}

// # Reaction Flow

// Like records the caller's like on a video. Repeating it is a no-op.
func (service *Service) Like(context context.Context, userID, videoID string) error {
	return service.react(context, userID, videoID, ReactionLike)
}

// Dislike records the caller's dislike, replacing an existing like.
func (service *Service) Dislike(context context.Context, userID, videoID string) error {
	return service.react(context, userID, videoID, ReactionDislike)
}

func (service *Service) react(context context.Context, userID, videoID string, reaction Reaction) error {
	exists, err := service.store.Exists(context, videoID)
	if err != nil {
		return fmt.Errorf("video_service_react_lookup_failed: %w", err)
	}
	if !exists {
		return apperr.NotFound("Video")
	}

	if err := service.store.React(context, videoID, userID, reaction); err != nil {
		return fmt.Errorf("video_service_react_failed: %w", err)
	}

	return nil
}

// # Helpers

// authorizeMutation enforces the owner-only rule for write operations.
func authorizeMutation(caller *sec.AuthClaims, video *Video) error {
	if caller == nil {
		return apperr.Unauthorized("Authentication required")
	}
	if caller.UserID != video.OwnerID {
		return apperr.Forbidden("You do not have permission to modify this video")
	}
	return nil
}

// normalizeTags trims, lowercases, drops empties and deduplicates.
func normalizeTags(tags []string) []string {
	cleaned := slice.Map(tags, func(tag string) string {
		return strings.ToLower(strings.TrimSpace(tag))
	})
	cleaned = slice.Filter(cleaned, func(tag string) bool { return tag != "" })
	return slice.Unique(cleaned)
}
