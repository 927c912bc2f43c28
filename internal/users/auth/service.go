// Copyright (c) 2026 Vidora. All rights reserved.
// Author: eng@vidora.dev

/*
Package auth implements the core identity and access management (IAM) system.

It handles everything from channel registration and secure password hashing to
session lifecycle management via JWT access and refresh tokens.

Architecture:

  - Service: Orchestrates business logic (Register, Login, Logout).
  - Repository: Abstracted interface for Postgres (Users).
  - Security: Leverages Bcrypt and HMAC-signed JWTs.

The package ensures that identity data remains consistent and secure throughout
the platform's lifecycle.
*/
package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/vidora/vidora/internal/platform/apperr"
	"github.com/vidora/vidora/internal/platform/sec"
	"github.com/vidora/vidora/internal/platform/storage"
	"github.com/vidora/vidora/pkg/slug"
	"github.com/vidora/vidora/pkg/uuid"
)

// # Contracts & Types

// TokenProvider defines the contract for generating security tokens.
type TokenProvider interface {
	// GenerateAccessToken creates a signed JWT string embedding the user identity.
	GenerateAccessToken(identity sec.AuthClaims, timeToLive time.Duration) (string, error)

	// GenerateRefreshToken creates a signed long-lived JWT for the given user.
	GenerateRefreshToken(userID string, timeToLive time.Duration) (string, error)
}

// Service implements user authentication use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, registration,
// or role issuance logic must be reviewed by the security team.
type Service struct {
	userRepository UserRepository
	objectStore    storage.ObjectStore
	tokenProvider  TokenProvider
}

// NewService constructs a new [Service] with necessary dependencies.
func NewService(
	userRepo UserRepository,
	objectStore storage.ObjectStore,
	tokenProv TokenProvider,
) *Service {
	return &Service{
		userRepository: userRepo,
		objectStore:    objectStore,
		tokenProvider:  tokenProv,
	}
}

// # Registration Flow

// RegisterInput holds the data required to enroll a new channel.
type RegisterInput struct {
	ChannelName string
	Email       string
	Phone       string
	Password    string

	// RequestedRole is optional. Anything above the default role requires a
	// superadmin caller (see Register for the bootstrap exception).
	RequestedRole string

	// Logo is the mandatory channel logo, already spooled to disk.
	Logo *storage.LocalFile
}

/*
Register validates, hashes, and persists a brand new channel account.

Description: Deep-enrollment of a new channel, handling role authorization,
logo upload to object storage, and password hashing.

Role issuance rules:
  - No requested role (or "user"): always allowed.
  - "admin" / "superadmin": the caller must be an authenticated superadmin.
  - Bootstrap exception: an anonymous caller may create the FIRST superadmin
    while zero superadmin accounts exist.

The new account is logged in immediately: the returned session carries a
token pair, and the refresh token is persisted on the account row.

Parameters:
  - context: context.Context
  - input: RegisterInput
  - caller: *sec.AuthClaims (nil for anonymous requests)

Returns:
  - *LoginSession: Created entity plus an established session
  - err: Conflict (if identity exists), Forbidden (role rules) or storage errors
*/
func (service *Service) Register(context context.Context, input RegisterInput, caller *sec.AuthClaims) (*LoginSession, error) {

	// Resolve the effective role before doing any expensive work.
	role, err := service.resolveRole(context, input.RequestedRole, caller)
	if err != nil {
		return nil, err
	}

	// Verify email uniqueness. Return a client-safe Conflict err.
	_, err = service.userRepository.FindByEmail(context, input.Email)
	if err == nil {
		return nil, apperr.Conflict("Email is already registered")
	}

	// Closed allow-list of logo formats.
	if input.Logo == nil {
		return nil, apperr.ValidationError("Validation failed", apperr.FieldError{
			Field: FieldLogo, Message: "Channel logo is required",
		})
	}
	if !IsAllowedLogoMime(input.Logo.ContentType) {
		return nil, apperr.UnsupportedMedia("Logo must be a JPEG or PNG image")
	}

	// Prevent storing plain-text passwords. Default cost is used for balance
	// between security and CPU utilization during registration spikes.
	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	// Push the logo to object storage before touching the database so a
	// failed upload never leaves a logo-less account behind.
	logoAsset, err := service.objectStore.Upload(context, storage.UploadInput{
		File:    input.Logo,
		Folder:  storage.FolderLogos,
		Profile: storage.ProfileImage,
	})
	if err != nil {
		return nil, fmt.Errorf("auth_service_logo_upload_failed: %w", err)
	}

	// Construct the new User entity. Time-sortable ID to prevent PG index fragmentation.
	user := &User{
		ID:           uuid.New(),
		ChannelName:  strings.TrimSpace(input.ChannelName),
		Slug:         slug.From(input.ChannelName),
		Email:        strings.ToLower(strings.TrimSpace(input.Email)),
		Phone:        strings.TrimSpace(input.Phone),
		PasswordHash: hashedPassword,
		LogoURL:      logoAsset.URL,
		LogoKey:      logoAsset.Key,
		Role:         role,
	}
	if user.Slug == "" {
		user.Slug = user.ID
	}

	// Persist the user. On a slug collision, retry once with a unique suffix;
	// other conflicts (email, channel name) surface to the client.
	if err := service.userRepository.Create(context, user); err != nil {
		if appError := apperr.As(err); appError != nil && appError.Code == "CONFLICT" {
			user.Slug = user.Slug + "-" + user.ID[:8]
			err = service.userRepository.Create(context, user)
		}
		if err != nil {
			// Roll back the orphaned logo object.
			_ = service.objectStore.Delete(context, logoAsset.Key)
			return nil, fmt.Errorf("auth_service_register_failed: %w", err)
		}
	}

	// Log the fresh account in right away; a brand-new channel has no
	// subscriptions to hydrate.
	session, err := service.establishSession(context, user)
	if err != nil {
		return nil, err
	}
	session.SubscribedChannels = []string{}

	return session, nil
}

// resolveRole applies the role issuance rules and returns the effective role.
func (service *Service) resolveRole(context context.Context, requested string, caller *sec.AuthClaims) (sec.UserRole, error) {
	if requested == "" {
		return sec.RoleUser, nil
	}

	role, ok := sec.ParseRole(requested)
	if !ok {
		return "", apperr.ValidationError("Validation failed", apperr.FieldError{
			Field: FieldRole, Message: "Must be one of: user, admin, superadmin",
		})
	}

	if role == sec.RoleUser {
		return role, nil
	}

	// Elevated roles require a superadmin caller...
	if caller != nil {
		if sec.UserRole(caller.Role).AtLeast(sec.RoleSuperAdmin) {
			return role, nil
		}
		return "", apperr.Forbidden("Only a superadmin can assign elevated roles")
	}

	// ...except while the platform has no superadmin yet (first boot).
	if role == sec.RoleSuperAdmin {
		existing, err := service.userRepository.CountByRole(context, string(sec.RoleSuperAdmin))
		if err != nil {
			return "", fmt.Errorf("auth_service_bootstrap_check_failed: %w", err)
		}
		if existing == 0 {
			return role, nil
		}
	}

	return "", apperr.Forbidden("Only a superadmin can assign elevated roles")
}

// # Authentication Flow

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Email    string
	Password string
}

// LoginSession represents a successfully established user session.
type LoginSession struct {
	AccessToken           string
	RefreshToken          string
	RefreshTokenExpiresAt time.Time
	User                  *User
	SubscribedChannels    []string
}

/*
Login validates user credentials and issues security tokens.

Description: Verifies identity, performs constant-time password comparison,
persists the issued refresh token, and returns the channel's subscription state.

Parameters:
  - context: context.Context
  - input: LoginInput

Returns:
  - *LoginSession: Transport-ready session identifiers
  - err: BadRequest (generic message to prevent enumeration) or internal failures
*/
func (service *Service) Login(context context.Context, input LoginInput) (*LoginSession, error) {
	user, err := service.userRepository.FindByEmail(context, strings.ToLower(strings.TrimSpace(input.Email)))

	// If (err != nil) the user does not exist. Generic message to prevent enumeration.
	if err != nil {
		return nil, apperr.BadRequest("Invalid email or password")
	}

	// Verify password hash using constant-time comparison in bcrypt to prevent timing attacks
	if !sec.CheckPasswordHash(input.Password, user.PasswordHash) {
		return nil, apperr.BadRequest("Invalid email or password")
	}

	session, err := service.establishSession(context, user)
	if err != nil {
		return nil, err
	}

	// Hydrate the subscription state for the client's initial render.
	session.SubscribedChannels, err = service.userRepository.SubscribedChannelIDs(context, user.ID)
	if err != nil {
		return nil, fmt.Errorf("auth_service_subscriptions_failed: %w", err)
	}

	return session, nil
}

// establishSession issues the token pair and persists the refresh token so
// logout can invalidate it server-side. Shared by Register and Login.
func (service *Service) establishSession(context context.Context, user *User) (*LoginSession, error) {

	// Generate short-lived Access Token
	accessToken, err := service.tokenProvider.GenerateAccessToken(claimsFor(user), AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}

	// Generate long-lived Refresh Token
	refreshToken, err := service.tokenProvider.GenerateRefreshToken(user.ID, RefreshTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("auth_service_refresh_token_failed: %w", err)
	}

	if err := service.userRepository.UpdateRefreshToken(context, user.ID, refreshToken); err != nil {
		return nil, fmt.Errorf("auth_service_session_persist_failed: %w", err)
	}

	return &LoginSession{
		AccessToken:           accessToken,
		RefreshToken:          refreshToken,
		RefreshTokenExpiresAt: time.Now().Add(RefreshTokenTTL),
		User:                  user,
	}, nil
}

/*
Logout invalidates the user's active session.

Description: Clears the stored refresh token so it can never be redeemed again.
Idempotent: logging out an already-logged-out user succeeds.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - err: Persistence failures
*/
func (service *Service) Logout(context context.Context, userID string) error {
	if err := service.userRepository.UpdateRefreshToken(context, userID, ""); err != nil {
		return fmt.Errorf("auth_service_logout_failed: %w", err)
	}
	return nil
}

// claimsFor builds the JWT identity payload from a user entity.
func claimsFor(user *User) sec.AuthClaims {
	return sec.AuthClaims{
		UserID:      user.ID,
		ChannelName: user.ChannelName,
		Email:       user.Email,
		Phone:       user.Phone,
		LogoURL:     user.LogoURL,
		Role:        string(user.Role),
	}
}
