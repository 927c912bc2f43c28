// Copyright (c) 2026 Vidora. All rights reserved.
// Author: eng@vidora.dev

package auth

import "time"

// # Authentication Constraints

const (
	// AccessTokenTTL is the duration a JWT access token remains valid.
	// We keep it short (15m) to minimize the impact of a leaked token.
	AccessTokenTTL = 15 * time.Minute

	// RefreshTokenTTL is the duration a refresh token remains valid.
	// Long-lived (7 days) to provide a good user experience.
	RefreshTokenTTL = 7 * 24 * time.Hour

	// MinPasswordLength is the minimum accepted password length.
	MinPasswordLength = 8
)

// # Media Constraints

// allowedLogoMimeTypes is the closed set of acceptable channel logo formats.
var allowedLogoMimeTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/jpg":  {},
	"image/png":  {},
}

// IsAllowedLogoMime reports whether mime is an acceptable logo content type.
func IsAllowedLogoMime(mime string) bool {
	_, ok := allowedLogoMimeTypes[mime]
	return ok
}
