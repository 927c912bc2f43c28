// Copyright (c) 2026 Vidora. All rights reserved.
// Author: eng@vidora.dev

/*
Package storage provides the object storage layer for user-generated media.

Videos, thumbnails, and channel logos are persisted to an S3-compatible
bucket (Cloudflare R2 in production) and served through a public CDN base URL.

Architecture:

  - ObjectStore: The interface consumed by domain services.
  - S3Store: The aws-sdk-go-v2 backed implementation.
  - Asset: The {URL, Key} pair stored alongside domain rows so media can be
    destroyed when its owning row is deleted.
*/
package storage

import (
	"context"
	"os"
)

// Asset identifies a stored object.
//
// The URL is what clients consume; the Key is what the platform needs to
// delete or replace the object later. Both are persisted.
type Asset struct {
	URL string `json:"url"`
	Key string `json:"-"`
}

// LocalFile describes an upload spooled to the local filesystem, waiting to
// be pushed to the object store.
type LocalFile struct {
	// Path is the temporary on-disk location of the file.
	Path string
	// Name is the original client-supplied filename.
	Name string
	// ContentType is the MIME type declared in the multipart part header.
	ContentType string
	// Size is the byte count written to disk.
	Size int64
}

// Cleanup removes the spooled file from disk. Safe to call multiple times.
func (f *LocalFile) Cleanup() {
	if f == nil || f.Path == "" {
		return
	}
	_ = os.Remove(f.Path)
	f.Path = ""
}

// Profile carries per-media-kind delivery hints applied at upload time.
type Profile struct {
	// CacheControl is the Cache-Control header stored with the object.
	CacheControl string
	// Metadata is attached to the object for downstream processors
	// (e.g. transcode or crop pipelines reading the bucket).
	Metadata map[string]string
}

// Upload profiles per media kind. Videos are immutable once uploaded, so they
// get a long public cache; images carry crop/quality hints for the CDN
// transform layer.
var (
	ProfileVideo = Profile{
		CacheControl: "public, max-age=31536000, immutable",
		Metadata:     map[string]string{"transform": "transcode-eager"},
	}
	ProfileImage = Profile{
		CacheControl: "public, max-age=86400",
		Metadata:     map[string]string{"transform": "crop-fill", "quality": "auto"},
	}
)

// UploadInput carries a spooled file, its destination folder, and the
// delivery profile for its media kind.
type UploadInput struct {
	File *LocalFile
	// Folder is the top-level key prefix (e.g. "videos", "thumbnails", "logos").
	Folder string
	// Profile holds the delivery hints. The zero value applies none.
	Profile Profile
}

// ObjectStore is the interface domain services use to persist media.
type ObjectStore interface {
	// Upload pushes the file to the bucket and returns the stored asset.
	Upload(ctx context.Context, input UploadInput) (Asset, error)

	// Delete removes the object identified by key. Deleting a key that no
	// longer exists is not an error.
	Delete(ctx context.Context, key string) error
}

// Well-known key prefixes.
const (
	FolderVideos     = "videos"
	FolderThumbnails = "thumbnails"
	FolderLogos      = "logos"
)
