// Copyright (c) 2026 Vidora. All rights reserved.
// Author: eng@vidora.dev

/*
Package request provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction and common
body decoding patterns, ensuring consistent error handling and type safety.
*/
package requestutil

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"

	"github.com/vidora/vidora/internal/platform/apperr"
	"github.com/vidora/vidora/internal/platform/ctxutil"
	"github.com/vidora/vidora/internal/platform/sec"
	"github.com/vidora/vidora/internal/platform/storage"
	"github.com/vidora/vidora/internal/platform/validate"
)

/*
DecodeJSON reads the request body and decodes it into the target structure.

Parameters:
  - request: *http.Request
  - target: interface{} (Pointer to the destination struct)

Returns:
  - error: validate.ErrInvalidJSON if decoding fails, otherwise nil
*/
func DecodeJSON(request *http.Request, target interface{}) error {
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
Param retrieves a named URL parameter from the request.
*/
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
Claims extracts the authenticated user claims from the request context.

Returns nil if the request is not authenticated.
*/
func Claims(request *http.Request) *sec.AuthClaims {
	return ctxutil.GetAuthUser(request.Context())
}

/*
RequiredClaims ensures the request is authenticated and returns the user claims.

Returns:
  - *sec.AuthClaims: The authenticated user claims
  - error: apperr.Unauthorized if the request is not authenticated
*/
func RequiredClaims(request *http.Request) (*sec.AuthClaims, error) {

	// Get user claims
	claims := ctxutil.GetAuthUser(request.Context())

	// If the user is not authenticated, return an error
	if claims == nil {
		return nil, apperr.Unauthorized("Authentication required")
	}

	return claims, nil
}

/*
RequiredUserID returns the User ID of the currently logged-in user.

Returns:
  - string: User UUID
  - error: apperr.Unauthorized if not authenticated
*/
func RequiredUserID(request *http.Request) (string, error) {

	// Get user claims
	claims, err := RequiredClaims(request)

	// If the user is not authenticated, return an error
	if err != nil {
		return "", err
	}

	return claims.UserID, nil
}

// # Multipart Uploads

/*
LimitBody caps the total size of the request body.

Must be called before any form parsing. Oversized bodies surface as
decode/parse errors downstream.
*/
func LimitBody(writer http.ResponseWriter, request *http.Request, maxBytes int64) {
	request.Body = http.MaxBytesReader(writer, request.Body, maxBytes)
}

/*
SaveUpload spools a multipart file field to a temporary file on disk.

The caller owns the returned file and must remove it (typically with a
deferred [storage.LocalFile.Cleanup]) once the object store upload finished.

Parameters:
  - request: *http.Request (multipart/form-data)
  - field: Form field name (e.g. "video", "logo")
  - tempDir: Spool directory, created if missing

Returns:
  - *storage.LocalFile: nil when the field is absent
  - error: apperr.BadRequest on malformed multipart payloads
*/
func SaveUpload(request *http.Request, field, tempDir string) (*storage.LocalFile, error) {
	formFile, header, err := request.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, apperr.BadRequest("Malformed multipart payload")
	}
	defer formFile.Close()

	if err := os.MkdirAll(tempDir, 0o755); err != nil {
		return nil, apperr.Internal(err)
	}

	tempFile, err := os.CreateTemp(tempDir, "upload-*"+filepath.Ext(header.Filename))
	if err != nil {
		return nil, apperr.Internal(err)
	}

	written, err := io.Copy(tempFile, formFile)
	closeErr := tempFile.Close()
	if err != nil || closeErr != nil {
		_ = os.Remove(tempFile.Name())
		if err == nil {
			err = closeErr
		}
		return nil, apperr.Internal(err)
	}

	return &storage.LocalFile{
		Path:        tempFile.Name(),
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        written,
	}, nil
}

/*
RequiredUpload behaves like [SaveUpload] but fails when the field is absent.
*/
func RequiredUpload(request *http.Request, field, tempDir string) (*storage.LocalFile, error) {
	file, err := SaveUpload(request, field, tempDir)
	if err != nil {
		return nil, err
	}
	if file == nil {
		return nil, validate.RequiredError(field, "This file is required")
	}
	return file, nil
}
