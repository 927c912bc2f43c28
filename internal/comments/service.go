// Copyright (c) 2026 Vidora. All rights reserved.
// Author: eng@vidora.dev

package comments

import (
	"context"
	"fmt"
	"strings"

	"github.com/vidora/vidora/internal/platform/apperr"
	"github.com/vidora/vidora/internal/platform/sec"
	"github.com/vidora/vidora/pkg/pagination"
	"github.com/vidora/vidora/pkg/uuid"
)

// Service implements comment use cases.
type Service struct {
	store        Store
	videoChecker VideoChecker
}

// NewService constructs a new [Service] with necessary dependencies.
func NewService(store Store, videoChecker VideoChecker) *Service {
	return &Service{store: store, videoChecker: videoChecker}
}

/*
Create attaches a new comment to a video.

Description: Verifies the target video exists, then persists the comment and
returns it hydrated with the author's public identity.

Parameters:
  - context: context.Context
  - authorID: string
  - videoID: string
  - body: string

Returns:
  - *Comment: Created entity
  - err: NotFound (unknown video) or persistence failures
*/
func (service *Service) Create(context context.Context, authorID, videoID, body string) (*Comment, error) {
	exists, err := service.videoChecker.VideoExists(context, videoID)
	if err != nil {
		return nil, fmt.Errorf("comment_service_video_lookup_failed: %w", err)
	}
	if !exists {
		return nil, apperr.NotFound("Video")
	}

	comment := &Comment{
		ID:       uuid.New(),
		VideoID:  videoID,
		AuthorID: authorID,
		Body:     strings.TrimSpace(body),
	}

	if err := service.store.Create(context, comment); err != nil {
		return nil, fmt.Errorf("comment_service_create_failed: %w", err)
	}

	// Re-read to hydrate the joined author identity for the response.
	return service.store.FindByID(context, comment.ID)
}

/*
Update changes the body of an existing comment.

Description: Only the author may edit their own comment.

Parameters:
  - context: context.Context
  - caller: *sec.AuthClaims
  - commentID: string
  - body: string

Returns:
  - *Comment: Updated entity
  - err: NotFound, Forbidden, or persistence failures
*/
func (service *Service) Update(context context.Context, caller *sec.AuthClaims, commentID, body string) (*Comment, error) {
	comment, err := service.store.FindByID(context, commentID)
	if err != nil {
		return nil, err
	}

	if caller == nil || caller.UserID != comment.AuthorID {
		return nil, apperr.Forbidden("You can only edit your own comments")
	}

	comment.Body = strings.TrimSpace(body)
	if err := service.store.Update(context, comment); err != nil {
		return nil, fmt.Errorf("comment_service_update_failed: %w", err)
	}

	return comment, nil
}

/*
Delete removes a comment.

Description: Only the author may delete their own comment, the same rule
Update enforces.

Parameters:
  - context: context.Context
  - caller: *sec.AuthClaims
  - commentID: string

Returns:
  - err: NotFound, Forbidden, or persistence failures
*/
func (service *Service) Delete(context context.Context, caller *sec.AuthClaims, commentID string) error {
	comment, err := service.store.FindByID(context, commentID)
	if err != nil {
		return err
	}

	if caller == nil {
		return apperr.Unauthorized("Authentication required")
	}
	if caller.UserID != comment.AuthorID {
		return apperr.Forbidden("You do not have permission to delete this comment")
	}

	if err := service.store.Delete(context, commentID); err != nil {
		return fmt.Errorf("comment_service_delete_failed: %w", err)
	}

	return nil
}

// ListByVideo returns a page of a video's comments, newest first.
func (service *Service) ListByVideo(context context.Context, videoID string, page pagination.Params) ([]Comment, int, error) {
	exists, err := service.videoChecker.VideoExists(context, videoID)
	if err != nil {
		return nil, 0, fmt.Errorf("comment_service_video_lookup_failed: %w", err)
	}
	if !exists {
		return nil, 0, apperr.NotFound("Video")
	}

	return service.store.ListByVideo(context, videoID, page)
}
