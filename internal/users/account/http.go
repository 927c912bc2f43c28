// Copyright (c) 2026 Vidora. All rights reserved.
// Author: eng@vidora.dev

package account

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vidora/vidora/internal/platform/constants"
	"github.com/vidora/vidora/internal/platform/middleware"
	requestutil "github.com/vidora/vidora/internal/platform/request"
	"github.com/vidora/vidora/internal/platform/respond"
	"github.com/vidora/vidora/internal/platform/validate"
	"github.com/vidora/vidora/internal/users/auth"
	"github.com/vidora/vidora/pkg/pagination"
	"github.com/vidora/vidora/pkg/pointer"
)

// Handler implements profile and social graph HTTP endpoints.
type Handler struct {
	accountService *Service
	tempDir        string
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service, uploadTempDir string) *Handler {
	return &Handler{accountService: service, tempDir: uploadTempDir}
}

// Routes returns a [chi.Router] configured with account-specific routes.
//
// # Endpoints
//   - GET   /me                       : Caller's own profile.
//   - PATCH /me                       : Partial profile update (multipart).
//   - POST  /me/change-password      : Password rotation.
//   - GET   /me/history              : Watch history feed.
//   - GET   /{channelID}             : Public channel page.
//   - POST  /{channelID}/subscribe   : Subscribe to a channel.
//   - POST  /{channelID}/unsubscribe : Unsubscribe from a channel.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public endpoints
	router.Get("/{channelID}", handler.channel)

	// Protected endpoints
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/me", handler.me)
		r.Patch("/me", handler.updateProfile)
		r.Post("/me/change-password", handler.changePassword)
		r.Get("/me/history", handler.watchHistory)
		r.Post("/{channelID}/subscribe", handler.subscribe)
		r.Post("/{channelID}/unsubscribe", handler.unsubscribe)
	})

	return router
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

/*
Me returns the authenticated user's own profile.

GET /api/users/me

Response:
  - 200: User: Full own-profile view
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) me(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.Me(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
Channel returns the public page of any channel.

GET /api/users/{channelID}

Response:
  - 200: ChannelProfile: Public projection (cached)
  - 404: ErrNotFound: Unknown channel
*/
func (handler *Handler) channel(writer http.ResponseWriter, request *http.Request) {
	channelID := requestutil.Param(request, "channelID")

	validator := &validate.Validator{}
	if err := validator.UUID(FieldChannelID, channelID).Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	profile, err := handler.accountService.Channel(request.Context(), channelID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, profile)
}

/*
UpdateProfile applies partial changes to the caller's profile.

PATCH /api/users/me

Description: Accepts multipart/form-data. Only provided fields change; an
uploaded "logo" file replaces the current channel logo.

Request:
  - Form fields (optional): channel_name, phone
  - File field (optional): logo (JPEG/PNG)

Response:
  - 200: User: Updated profile
  - 409: ErrConflict: Channel name already taken
  - 415: ErrUnsupportedMedia: Logo is not JPEG/PNG
*/
func (handler *Handler) updateProfile(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	requestutil.LimitBody(writer, request, constants.MaxImageUploadBytes)

	logo, err := requestutil.SaveUpload(request, FieldLogo, handler.tempDir)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	defer logo.Cleanup()

	input := UpdateProfileInput{Logo: logo}
	if request.Form.Has(FieldChannelName) {
		input.ChannelName = pointer.To(request.FormValue(FieldChannelName))
	}
	if request.Form.Has(FieldPhone) {
		phone := request.FormValue(FieldPhone)
		validator := &validate.Validator{}
		if err := validator.Phone(FieldPhone, phone).Err(); err != nil {
			respond.Error(writer, request, err)
			return
		}
		input.Phone = pointer.To(phone)
	}

	user, err := handler.accountService.UpdateProfile(request.Context(), userID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
ChangePassword rotates the caller's password.

POST /api/users/me/change-password

Request:
  - Body: changePasswordRequest (CurrentPassword, NewPassword)

Response:
  - 200: Success: Password changed
  - 401: ErrUnauthorized: Wrong current password
*/
func (handler *Handler) changePassword(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input changePasswordRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldCurrentPassword, input.CurrentPassword).
		Required(FieldNewPassword, input.NewPassword).
		MinLen(FieldNewPassword, input.NewPassword, auth.MinPasswordLength)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.accountService.ChangePassword(request.Context(), userID, input.CurrentPassword, input.NewPassword); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{
		FieldMessage: "Password changed successfully",
	})
}

/*
WatchHistory returns the caller's watch feed.

GET /api/users/me/history?page=&limit=

Response:
  - 200: []WatchEntry with pagination meta
*/
func (handler *Handler) watchHistory(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	page := pagination.FromRequest(request)
	entries, total, err := handler.accountService.WatchHistory(request.Context(), userID, page)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, entries, pagination.NewMeta(page.Page, page.Limit, total))
}

/*
Subscribe adds the caller to the channel's subscriber set.

POST /api/users/{channelID}/subscribe

Response:
  - 200: Success: Subscribed (idempotent)
  - 400: ErrBadRequest: Self-subscription attempt
  - 404: ErrNotFound: Unknown channel
*/
func (handler *Handler) subscribe(writer http.ResponseWriter, request *http.Request) {
	handler.mutateSubscription(writer, request, handler.accountService.Subscribe, "Subscribed successfully")
}

/*
Unsubscribe removes the caller from the channel's subscriber set.

POST /api/users/{channelID}/unsubscribe

Response:
  - 200: Success: Unsubscribed (idempotent)
  - 404: ErrNotFound: Unknown channel
*/
func (handler *Handler) unsubscribe(writer http.ResponseWriter, request *http.Request) {
	handler.mutateSubscription(writer, request, handler.accountService.Unsubscribe, "Unsubscribed successfully")
}

// mutateSubscription shares the parameter plumbing of subscribe/unsubscribe.
func (handler *Handler) mutateSubscription(
	writer http.ResponseWriter,
	request *http.Request,
	operation func(ctx context.Context, subscriberID, channelID string) error,
	successMessage string,
) {
	subscriberID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	channelID := requestutil.Param(request, "channelID")
	validator := &validate.Validator{}
	if err := validator.UUID(FieldChannelID, channelID).Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := operation(request.Context(), subscriberID, channelID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{
		FieldMessage: successMessage,
	})
}
