// Copyright (c) 2026 Vidora. All rights reserved.
// Author: eng@vidora.dev

package videos

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/vidora/vidora/internal/platform/constants"
	"github.com/vidora/vidora/internal/platform/middleware"
	requestutil "github.com/vidora/vidora/internal/platform/request"
	"github.com/vidora/vidora/internal/platform/respond"
	"github.com/vidora/vidora/internal/platform/validate"
	"github.com/vidora/vidora/pkg/pagination"
	"github.com/vidora/vidora/pkg/pointer"
)

// Handler implements video catalog HTTP endpoints.
type Handler struct {
	videoService *Service
	tempDir      string
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service, uploadTempDir string) *Handler {
	return &Handler{videoService: service, tempDir: uploadTempDir}
}

// Routes returns a [chi.Router] configured with video-specific routes.
//
// # Endpoints
//   - GET    /                    : Public catalog listing (filterable).
//   - GET    /{videoID}           : Public playback view (records views).
//   - POST   /                    : Publish a new video (multipart).
//   - GET    /mine                : Caller's own uploads.
//   - PATCH  /{videoID}           : Partial metadata update.
//   - DELETE /{videoID}           : Remove a video and its media.
//   - POST   /{videoID}/like      : Record a like.
//   - POST   /{videoID}/dislike   : Record a dislike.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public endpoints
	router.Get("/", handler.list)
	router.Get("/{videoID}", handler.getByID)

	// Protected endpoints
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/", handler.upload)
		r.Get("/mine", handler.mine)
		r.Patch("/{videoID}", handler.update)
		r.Delete("/{videoID}", handler.remove)
		r.Post("/{videoID}/like", handler.like)
		r.Post("/{videoID}/dislike", handler.dislike)
	})

	return router
}

/*
List returns a page of the public catalog.

GET /api/videos?page=&limit=&category=&tag=&channel=

Description: Newest first. Optional filters narrow by category, tag, or
owning channel.

Response:
  - 200: []Video with pagination meta
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	filter := ListFilter{
		Category: strings.TrimSpace(strings.ToLower(request.URL.Query().Get("category"))),
		Tag:      strings.TrimSpace(strings.ToLower(request.URL.Query().Get("tag"))),
		OwnerID:  strings.TrimSpace(request.URL.Query().Get("channel")),
	}

	if filter.OwnerID != "" {
		validator := &validate.Validator{}
		if err := validator.UUID("channel", filter.OwnerID).Err(); err != nil {
			respond.Error(writer, request, err)
			return
		}
	}

	page := pagination.FromRequest(request)
	items, total, err := handler.videoService.List(request.Context(), filter, page)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, items, pagination.NewMeta(page.Page, page.Limit, total))
}

/*
GetByID returns a single video for playback.

GET /api/videos/{videoID}

Description: Open to anonymous visitors. When the caller is authenticated the
view is counted (once per user) and the video lands in their watch history.

Response:
  - 200: Video: Full catalog entry
  - 404: ErrNotFound: Unknown video
*/
func (handler *Handler) getByID(writer http.ResponseWriter, request *http.Request) {
	videoID := requestutil.Param(request, "videoID")

	validator := &validate.Validator{}
	if err := validator.UUID(FieldVideoID, videoID).Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	video, err := handler.videoService.GetByID(request.Context(), videoID, requestutil.Claims(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, video)
}

/*
Upload publishes a new video.

POST /api/videos

Description: Accepts multipart/form-data with the media file, its thumbnail,
and the catalog metadata.

Request:
  - Form fields: title, description (optional), category, tags (repeatable)
  - File fields: video (MP4/WebM/Ogg), thumbnail (JPEG/PNG)

Response:
  - 201: Video: Published entry with zeroed counters
  - 400: ErrValidation: Bad metadata or missing file
  - 415: ErrUnsupportedMedia: Disallowed media format
*/
func (handler *Handler) upload(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	requestutil.LimitBody(writer, request, constants.MaxVideoUploadBytes)

	videoFile, err := requestutil.RequiredUpload(request, FieldVideo, handler.tempDir)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	defer videoFile.Cleanup()

	thumbnail, err := requestutil.RequiredUpload(request, FieldThumbnail, handler.tempDir)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	defer thumbnail.Cleanup()

	title := request.FormValue(FieldTitle)
	description := request.FormValue(FieldDescription)
	category := request.FormValue(FieldCategory)
	tags := request.Form[FieldTags]

	validator := &validate.Validator{}
	validator.Required(FieldTitle, title).
		MaxLen(FieldTitle, title, MaxTitleLength).
		MaxLen(FieldDescription, description, MaxDescriptionLength).
		Required(FieldCategory, category).
		Custom(FieldTags, len(tags) > MaxTags, "Maximum 20 tags")

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	video, err := handler.videoService.Upload(request.Context(), userID, UploadInput{
		Title:       title,
		Description: description,
		Category:    category,
		Tags:        tags,
		VideoFile:   videoFile,
		Thumbnail:   thumbnail,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, video)
}

/*
Mine returns the caller's own uploads.

GET /api/videos/mine?page=&limit=

Response:
  - 200: []Video with pagination meta
*/
func (handler *Handler) mine(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	page := pagination.FromRequest(request)
	items, total, err := handler.videoService.ByChannel(request.Context(), userID, page)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, items, pagination.NewMeta(page.Page, page.Limit, total))
}

/*
Update applies partial metadata changes to a video.

PATCH /api/videos/{videoID}

Description: Accepts multipart/form-data so the thumbnail can be replaced in
the same request. Only provided fields change.

Request:
  - Form fields (optional): title, description, category, tags (repeatable)
  - File field (optional): thumbnail (JPEG/PNG)

Response:
  - 200: Video: Updated entry
  - 403: ErrForbidden: Caller is not the owner
  - 404: ErrNotFound: Unknown video
  - 415: ErrUnsupportedMedia: Disallowed thumbnail format
*/
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	videoID := requestutil.Param(request, "videoID")
	validator := &validate.Validator{}
	if err := validator.UUID(FieldVideoID, videoID).Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	requestutil.LimitBody(writer, request, constants.MaxImageUploadBytes)

	thumbnail, err := requestutil.SaveUpload(request, FieldThumbnail, handler.tempDir)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	defer thumbnail.Cleanup()

	input := UpdateInput{Thumbnail: thumbnail}
	if request.Form.Has(FieldTitle) {
		title := request.FormValue(FieldTitle)
		validator.Required(FieldTitle, title).MaxLen(FieldTitle, title, MaxTitleLength)
		input.Title = pointer.To(title)
	}
	if request.Form.Has(FieldDescription) {
		description := request.FormValue(FieldDescription)
		validator.MaxLen(FieldDescription, description, MaxDescriptionLength)
		input.Description = pointer.To(description)
	}
	if request.Form.Has(FieldCategory) {
		input.Category = pointer.To(request.FormValue(FieldCategory))
	}
	if request.Form.Has(FieldTags) {
		tags := request.Form[FieldTags]
		validator.Custom(FieldTags, len(tags) > MaxTags, "Maximum 20 tags")
		input.Tags = tags
	}

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	video, err := handler.videoService.Update(request.Context(), claims, videoID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, video)
}

/*
Remove deletes a video and destroys its stored media.

DELETE /api/videos/{videoID}

Response:
  - 204: No Content: Deleted
  - 403: ErrForbidden: Caller is not the owner
  - 404: ErrNotFound: Unknown video
*/
func (handler *Handler) remove(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	videoID := requestutil.Param(request, "videoID")
	validator := &validate.Validator{}
	if err := validator.UUID(FieldVideoID, videoID).Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.videoService.Delete(request.Context(), claims, videoID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

/*
Like records the caller's like on a video. Repeated likes are no-ops.

POST /api/videos/{videoID}/like

Response:
  - 200: Success: Reaction recorded
  - 404: ErrNotFound: Unknown video
*/
func (handler *Handler) like(writer http.ResponseWriter, request *http.Request) {
	handler.react(writer, request, handler.videoService.Like, "Reaction updated")
}

/*
Dislike records the caller's dislike, replacing an existing like.

POST /api/videos/{videoID}/dislike

Response:
  - 200: Success: Reaction recorded
  - 404: ErrNotFound: Unknown video
*/
func (handler *Handler) dislike(writer http.ResponseWriter, request *http.Request) {
	handler.react(writer, request, handler.videoService.Dislike, "Reaction updated")
}

// react shares the parameter plumbing of like/dislike.
func (handler *Handler) react(
	writer http.ResponseWriter,
	request *http.Request,
	operation func(ctx context.Context, userID, videoID string) error,
	successMessage string,
) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	videoID := requestutil.Param(request, "videoID")
	validator := &validate.Validator{}
	if err := validator.UUID(FieldVideoID, videoID).Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := operation(request.Context(), userID, videoID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{
		FieldMessage: successMessage,
	})
}
