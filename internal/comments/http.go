// Copyright (c) 2026 Vidora. All rights reserved.
// Author: eng@vidora.dev

package comments

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vidora/vidora/internal/platform/middleware"
	requestutil "github.com/vidora/vidora/internal/platform/request"
	"github.com/vidora/vidora/internal/platform/respond"
	"github.com/vidora/vidora/internal/platform/validate"
	"github.com/vidora/vidora/pkg/pagination"
)

// Handler implements comment HTTP endpoints.
type Handler struct {
	commentService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{commentService: service}
}

// Routes returns a [chi.Router] configured with comment-specific routes.
//
// # Endpoints
//   - GET    /video/{videoID}  : Public comment feed of a video.
//   - POST   /video/{videoID}  : Attach a new comment.
//   - PATCH  /{commentID}      : Edit own comment.
//   - DELETE /{commentID}      : Remove own comment.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public endpoints
	router.Get("/video/{videoID}", handler.listByVideo)

	// Protected endpoints
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/video/{videoID}", handler.create)
		r.Patch("/{commentID}", handler.update)
		r.Delete("/{commentID}", handler.remove)
	})

	return router
}

type commentRequest struct {
	Body string `json:"body"`
}

/*
ListByVideo returns a page of a video's comments.

GET /api/comments/video/{videoID}?page=&limit=

Response:
  - 200: []Comment with pagination meta
  - 404: ErrNotFound: Unknown video
*/
func (handler *Handler) listByVideo(writer http.ResponseWriter, request *http.Request) {
	videoID := requestutil.Param(request, "videoID")

	validator := &validate.Validator{}
	if err := validator.UUID(FieldVideoID, videoID).Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	page := pagination.FromRequest(request)
	items, total, err := handler.commentService.ListByVideo(request.Context(), videoID, page)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, items, pagination.NewMeta(page.Page, page.Limit, total))
}

/*
Create attaches a new comment to a video.

POST /api/comments/video/{videoID}

Request:
  - Body: commentRequest (Body)

Response:
  - 201: Comment: Created comment with author identity
  - 404: ErrNotFound: Unknown video
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	videoID := requestutil.Param(request, "videoID")

	var input commentRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.UUID(FieldVideoID, videoID).
		Required(FieldBody, input.Body).
		MaxLen(FieldBody, input.Body, MaxBodyLength)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	comment, err := handler.commentService.Create(request.Context(), userID, videoID, input.Body)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, comment)
}

/*
Update edits the caller's own comment.

PATCH /api/comments/{commentID}

Request:
  - Body: commentRequest (Body)

Response:
  - 200: Comment: Updated comment
  - 403: ErrForbidden: Caller is not the author
  - 404: ErrNotFound: Unknown comment
*/
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	commentID := requestutil.Param(request, "commentID")

	var input commentRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.UUID(FieldCommentID, commentID).
		Required(FieldBody, input.Body).
		MaxLen(FieldBody, input.Body, MaxBodyLength)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	comment, err := handler.commentService.Update(request.Context(), claims, commentID, input.Body)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, comment)
}

/*
Remove deletes a comment.

DELETE /api/comments/{commentID}

Response:
  - 204: No Content: Deleted
  - 403: ErrForbidden: Caller is not the author
  - 404: ErrNotFound: Unknown comment
*/
func (handler *Handler) remove(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	commentID := requestutil.Param(request, "commentID")
	validator := &validate.Validator{}
	if err := validator.UUID(FieldCommentID, commentID).Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.commentService.Delete(request.Context(), claims, commentID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
