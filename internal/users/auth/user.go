// Copyright (c) 2026 Vidora. All rights reserved.
// Author: eng@vidora.dev

/*
Package auth implements the user identity and session management layer.

It defines the core domain entity (User) and logic for registration,
authentication, role issuance, and session teardown.

# Architecture

This layer is the "Truth" of the system. Every registered account IS a
channel: the channel name, logo, and subscriber count live directly on the
user entity.
*/
package auth

import (
	"time"

	"github.com/vidora/vidora/internal/platform/sec"
)

// # Domain Entities

// User represents a registered channel on the Vidora platform.
type User struct {
	ID           string       `json:"id"`
	ChannelName  string       `json:"channel_name"`
	Slug         string       `json:"slug"`
	Email        string       `json:"email"`
	Phone        string       `json:"phone"`
	PasswordHash string       `json:"-"` // Explicitly omitted from JSON for security.
	LogoURL      string       `json:"logo_url"`
	LogoKey      string       `json:"-"` // Object storage key. Omitted for security.
	Subscribers  int64        `json:"subscribers"`
	RefreshToken string       `json:"-"` // Currently active refresh token. Omitted for security.
	Role         sec.UserRole `json:"role"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// # Field Identifiers

// Global field names for validation and identity mapping in the authentication domain.
const (
	FieldChannelName = "channel_name"
	FieldEmail       = "email"
	FieldPhone       = "phone"
	FieldPassword    = "password"
	FieldLogo        = "logo"
	FieldRole        = "role"
	FieldAccessToken = "access_token"
	FieldTokenType   = "token_type"
	FieldExpiresIn   = "expires_in"
	FieldUser        = "user"
	FieldMessage     = "message"
)
