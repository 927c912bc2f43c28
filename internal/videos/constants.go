// Copyright (c) 2026 Vidora. All rights reserved.
// Author: eng@vidora.dev

package videos

// # Metadata Constraints

const (
	MaxTitleLength       = 120
	MaxDescriptionLength = 5000
	MaxTags              = 20
)

// # Media Constraints

// allowedVideoMimeTypes is the closed set of acceptable video container formats.
var allowedVideoMimeTypes = map[string]struct{}{
	"video/mp4":  {},
	"video/webm": {},
	"video/ogg":  {},
}

// allowedThumbMimeTypes is the closed set of acceptable thumbnail formats.
var allowedThumbMimeTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/jpg":  {},
	"image/png":  {},
}

// IsAllowedVideoMime reports whether mime is an acceptable video content type.
func IsAllowedVideoMime(mime string) bool {
	_, ok := allowedVideoMimeTypes[mime]
	return ok
}

// IsAllowedThumbMime reports whether mime is an acceptable thumbnail content type.
func IsAllowedThumbMime(mime string) bool {
	_, ok := allowedThumbMimeTypes[mime]
	return ok
}
