// Copyright (c) 2026 Vidora. All rights reserved.
// Author: eng@vidora.dev

/*
Package auth provides the HTTP delivery layer for user identity management.

It implements the gateway for the authentication lifecycle—from channel creation
to session establishment and teardown.

# Architecture

The handler acts as a thin mediation layer between the web and domain services:
  - Protocol: RESTful JSON, with multipart/form-data for registration (logo upload).
  - Security: Handles JWT orchestration and refresh token cookie injection.
  - Verification: Enforces strict input validation before passing to [Service].

This layer is strictly responsible for transport concerns (status codes, headers, JSON).
*/
package auth

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/vidora/vidora/internal/platform/constants"
	"github.com/vidora/vidora/internal/platform/middleware"
	requestutil "github.com/vidora/vidora/internal/platform/request"
	"github.com/vidora/vidora/internal/platform/respond"
	"github.com/vidora/vidora/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements authentication-related HTTP endpoints.
//
// # Scope
//
// This handler manages everything related to the account lifecycle entry
// points (Registration, Login, Logout).
type Handler struct {
	authService *Service
	tempDir     string
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service, uploadTempDir string) *Handler {
	return &Handler{authService: service, tempDir: uploadTempDir}
}

// Routes returns a [chi.Router] configured with authentication-specific routes.
//
// # Endpoints
//   - POST /register : Creates a new channel account (multipart, logo required).
//   - POST /login    : Authenticates and returns a JWT.
//   - POST /logout   : Invalidates the active session.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public endpoints
	router.Post("/register", handler.register)
	router.Post("/login", handler.login)

	// Protected endpoints
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/logout", handler.logout)
	})

	return router
}

// # Request Payloads

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

/*
Register handles the creation of a new channel account.

POST /api/auth/register

Description: Parses the multipart payload, spools the mandatory logo to disk,
validates input, and persists a new channel profile. The new account is
logged in immediately: the response carries an access token and the refresh
token cookie, exactly like login.

Request:
  - Form fields: channel_name, email, phone, password, role (optional)
  - File field: logo (JPEG/PNG)

Response:
  - 201: Session: Access token plus the created channel profile
  - 400: ErrValidation: Bad input or missing logo
  - 403: ErrForbidden: Elevated role requested without superadmin caller
  - 409: ErrConflict: Email or channel name already exists
  - 415: ErrUnsupportedMedia: Logo is not JPEG/PNG
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	requestutil.LimitBody(writer, request, constants.MaxImageUploadBytes)

	logo, err := requestutil.SaveUpload(request, FieldLogo, handler.tempDir)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	defer logo.Cleanup()

	channelName := request.FormValue(FieldChannelName)
	email := request.FormValue(FieldEmail)
	phone := request.FormValue(FieldPhone)
	password := request.FormValue(FieldPassword)
	requestedRole := request.FormValue(FieldRole)

	validator := &validate.Validator{}
	validator.Required(FieldChannelName, channelName).
		MinLen(FieldChannelName, channelName, 2).
		MaxLen(FieldChannelName, channelName, 80).
		Required(FieldEmail, email).
		Email(FieldEmail, email).
		Required(FieldPhone, phone).
		Phone(FieldPhone, phone).
		Required(FieldPassword, password).
		MinLen(FieldPassword, password, MinPasswordLength)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.authService.Register(request.Context(), RegisterInput{
		ChannelName:   channelName,
		Email:         email,
		Phone:         phone,
		Password:      password,
		RequestedRole: requestedRole,
		Logo:          logo,
	}, requestutil.Claims(request))

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	setRefreshCookie(writer, session)
	respond.Created(writer, sessionPayload(session))
}

/*
Login authenticates a user and establishes a session.

POST /api/auth/login

Description: Verifies credentials, generates JWT access tokens, and injects
a secure refresh token cookie into the response.

Request:
  - Body: loginRequest (Email, Password)

Response:
  - 200: Session: Access token, channel profile, and subscription state
  - 400: ErrBadRequest: Invalid credentials (generic message)
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email)
	validator.Required(FieldPassword, input.Password)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.authService.Login(request.Context(), LoginInput{
		Email:    input.Email,
		Password: input.Password,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	setRefreshCookie(writer, session)
	respond.OK(writer, sessionPayload(session))
}

// setRefreshCookie delivers the refresh token as a hardened cookie.
func setRefreshCookie(writer http.ResponseWriter, session *LoginSession) {
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.RefreshTokenCookieName,
		Value:    session.RefreshToken,
		Path:     constants.RefreshTokenCookiePath,
		Expires:  session.RefreshTokenExpiresAt,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

// sessionPayload is the JSON body shared by register and login responses.
func sessionPayload(session *LoginSession) map[string]any {
	return map[string]any{
		FieldAccessToken:      session.AccessToken,
		FieldTokenType:        "Bearer",
		FieldExpiresIn:        AccessTokenTTL / time.Second,
		FieldUser:             session.User,
		"subscribed_channels": session.SubscribedChannels,
	}
}

/*
Logout terminates the current user session.

POST /api/auth/logout

Description: Clears the stored refresh token server-side and removes the
security cookie from the client.

Response:
  - 204: No Content: Session terminated
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.Logout(request.Context(), claims.UserID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	http.SetCookie(writer, &http.Cookie{
		Name:     constants.RefreshTokenCookieName,
		Value:    "",
		Path:     constants.RefreshTokenCookiePath,
		MaxAge:   -1,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})

	respond.NoContent(writer)
}
