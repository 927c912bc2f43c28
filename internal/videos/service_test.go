// Copyright (c) 2026 Vidora. All rights reserved.
// Author: eng@vidora.dev

package videos_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidora/vidora/internal/platform/apperr"
	"github.com/vidora/vidora/internal/platform/sec"
	"github.com/vidora/vidora/internal/platform/storage"
	"github.com/vidora/vidora/internal/videos"
	"github.com/vidora/vidora/pkg/pagination"
)

// # Test Doubles

type reactionKey struct {
	videoID string
	userID  string
}

// fakeStore is an in-memory video Store mirroring the derived-counter
// semantics of the real implementation.
type fakeStore struct {
	items     map[string]*videos.Video
	reactions map[reactionKey]videos.Reaction
	views     map[reactionKey]struct{}

	createErr error
	updateErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		items:     make(map[string]*videos.Video),
		reactions: make(map[reactionKey]videos.Reaction),
		views:     make(map[reactionKey]struct{}),
	}
}

func (s *fakeStore) Create(_ context.Context, video *videos.Video) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.items[video.ID] = video
	return nil
}

func (s *fakeStore) FindByID(_ context.Context, id string) (*videos.Video, error) {
	video, ok := s.items[id]
	if !ok {
		return nil, apperr.NotFound("Video")
	}
	copied := *video
	return &copied, nil
}

func (s *fakeStore) Exists(_ context.Context, id string) (bool, error) {
	_, ok := s.items[id]
	return ok, nil
}

func (s *fakeStore) Update(_ context.Context, video *videos.Video) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	s.items[video.ID] = video
	return nil
}

func (s *fakeStore) Delete(_ context.Context, id string) error {
	if _, ok := s.items[id]; !ok {
		return apperr.NotFound("Video")
	}
	delete(s.items, id)
	return nil
}

func (s *fakeStore) List(_ context.Context, filter videos.ListFilter, _ pagination.Params) ([]videos.Video, int, error) {
	result := []videos.Video{}
	for _, video := range s.items {
		if filter.OwnerID != "" && video.OwnerID != filter.OwnerID {
			continue
		}
		if filter.Category != "" && video.Category != filter.Category {
			continue
		}
		result = append(result, *video)
	}
	return result, len(result), nil
}

func (s *fakeStore) React(_ context.Context, videoID, userID string, reaction videos.Reaction) error {
	// Add or replace; repeating the same reaction changes nothing.
	s.reactions[reactionKey{videoID, userID}] = reaction
	s.refreshCounters(videoID)
	return nil
}

func (s *fakeStore) RecordView(_ context.Context, videoID, userID string) error {
	s.views[reactionKey{videoID, userID}] = struct{}{}
	var count int64
	for key := range s.views {
		if key.videoID == videoID {
			count++
		}
	}
	s.items[videoID].Views = count
	return nil
}

func (s *fakeStore) refreshCounters(videoID string) {
	var likes, dislikes int64
	for key, reaction := range s.reactions {
		if key.videoID != videoID {
			continue
		}
		if reaction == videos.ReactionLike {
			likes++
		} else {
			dislikes++
		}
	}
	s.items[videoID].Likes = likes
	s.items[videoID].Dislikes = dislikes
}

// fakeObjectStore records uploads and deletions.
type fakeObjectStore struct {
	uploads   []string
	profiles  map[string]storage.Profile
	deletions []string

	failThumb bool
}

func (s *fakeObjectStore) Upload(_ context.Context, input storage.UploadInput) (storage.Asset, error) {
	if s.failThumb && input.Folder == storage.FolderThumbnails {
		return storage.Asset{}, fmt.Errorf("bucket unavailable")
	}
	key := input.Folder + "/" + input.File.Name
	s.uploads = append(s.uploads, key)
	if s.profiles == nil {
		s.profiles = make(map[string]storage.Profile)
	}
	s.profiles[key] = input.Profile
	return storage.Asset{URL: "https://cdn.test/" + key, Key: key}, nil
}

func (s *fakeObjectStore) Delete(_ context.Context, key string) error {
	s.deletions = append(s.deletions, key)
	return nil
}

// fakeWatchRecorder remembers the watch feed writes.
type fakeWatchRecorder struct {
	watches []reactionKey
}

func (r *fakeWatchRecorder) RecordWatch(_ context.Context, userID, videoID string) error {
	r.watches = append(r.watches, reactionKey{videoID, userID})
	return nil
}

// # Helpers

func uploadInput() videos.UploadInput {
	return videos.UploadInput{
		Title:       "My First Video",
		Description: "A description",
		Category:    "Tech",
		Tags:        []string{"Go", "go", "  backend  ", ""},
		VideoFile:   &storage.LocalFile{Name: "clip.mp4", ContentType: "video/mp4", Size: 2048},
		Thumbnail:   &storage.LocalFile{Name: "cover.png", ContentType: "image/png", Size: 512},
	}
}

func ownerClaims(userID string) *sec.AuthClaims {
	return &sec.AuthClaims{UserID: userID, Role: string(sec.RoleUser)}
}

func adminClaims() *sec.AuthClaims {
	return &sec.AuthClaims{UserID: "moderator", Role: string(sec.RoleAdmin)}
}

// # Publishing

/*
TestUpload verifies both objects are stored under their delivery profiles,
metadata is normalized, and counters start at zero.
*/
func TestUpload(t *testing.T) {
	store := newFakeStore()
	objects := &fakeObjectStore{}
	service := videos.NewService(store, objects, &fakeWatchRecorder{})

	video, err := service.Upload(context.Background(), "owner-1", uploadInput())
	require.NoError(t, err)

	assert.Equal(t, "owner-1", video.OwnerID)
	assert.Equal(t, "tech", video.Category)
	assert.Equal(t, []string{"go", "backend"}, video.Tags)
	assert.Len(t, objects.uploads, 2)
	assert.Zero(t, video.Likes)
	assert.Zero(t, video.Views)

	// The media file ships with the long-cache video profile, the cover
	// with the image crop/quality profile.
	assert.Equal(t, storage.ProfileVideo, objects.profiles[video.VideoKey])
	assert.Equal(t, storage.ProfileImage, objects.profiles[video.ThumbKey])
}

/*
TestUpload_MimeRules verifies the closed media format allow-lists.
*/
func TestUpload_MimeRules(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*videos.UploadInput)
	}{
		{"bad_video_mime", func(in *videos.UploadInput) { in.VideoFile.ContentType = "video/x-msvideo" }},
		{"bad_thumb_mime", func(in *videos.UploadInput) { in.Thumbnail.ContentType = "image/gif" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			objects := &fakeObjectStore{}
			service := videos.NewService(newFakeStore(), objects, &fakeWatchRecorder{})

			input := uploadInput()
			tt.mutate(&input)

			_, err := service.Upload(context.Background(), "owner-1", input)
			require.Error(t, err)
			assert.Equal(t, "UNSUPPORTED_MEDIA", apperr.As(err).Code)
			assert.Empty(t, objects.uploads)
		})
	}
}

/*
TestUpload_RollbackOnThumbFailure verifies the already-uploaded video object
is destroyed when the thumbnail upload fails.
*/
func TestUpload_RollbackOnThumbFailure(t *testing.T) {
	objects := &fakeObjectStore{failThumb: true}
	service := videos.NewService(newFakeStore(), objects, &fakeWatchRecorder{})

	_, err := service.Upload(context.Background(), "owner-1", uploadInput())
	require.Error(t, err)

	require.Len(t, objects.uploads, 1)
	assert.Equal(t, objects.uploads, objects.deletions)
}

/*
TestUpload_RollbackOnCreateFailure verifies both objects are destroyed when
the catalog insert fails.
*/
func TestUpload_RollbackOnCreateFailure(t *testing.T) {
	store := newFakeStore()
	store.createErr = fmt.Errorf("connection reset")
	objects := &fakeObjectStore{}
	service := videos.NewService(store, objects, &fakeWatchRecorder{})

	_, err := service.Upload(context.Background(), "owner-1", uploadInput())
	require.Error(t, err)

	require.Len(t, objects.uploads, 2)
	assert.ElementsMatch(t, objects.uploads, objects.deletions)
}

// # Mutations & Authorization

/*
TestUpdate_Authorization verifies only the owner may mutate; every other
caller, admins included, is rejected with 403.
*/
func TestUpdate_Authorization(t *testing.T) {
	store := newFakeStore()
	service := videos.NewService(store, &fakeObjectStore{}, &fakeWatchRecorder{})

	video, err := service.Upload(context.Background(), "owner-1", uploadInput())
	require.NoError(t, err)

	newTitle := "Renamed"

	// A stranger may not edit.
	_, err = service.Update(context.Background(), ownerClaims("stranger"), video.ID, videos.UpdateInput{Title: &newTitle})
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", apperr.As(err).Code)

	// Neither may an admin who does not own the video.
	_, err = service.Update(context.Background(), adminClaims(), video.ID, videos.UpdateInput{Title: &newTitle})
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", apperr.As(err).Code)

	// The owner may.
	updated, err := service.Update(context.Background(), ownerClaims("owner-1"), video.ID, videos.UpdateInput{Title: &newTitle})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)
}

/*
TestUpdate_ThumbnailReplacement verifies the old cover object is destroyed
only after a successful row update.
*/
func TestUpdate_ThumbnailReplacement(t *testing.T) {
	store := newFakeStore()
	objects := &fakeObjectStore{}
	service := videos.NewService(store, objects, &fakeWatchRecorder{})

	video, err := service.Upload(context.Background(), "owner-1", uploadInput())
	require.NoError(t, err)
	oldThumbKey := video.ThumbKey

	updated, err := service.Update(context.Background(), ownerClaims("owner-1"), video.ID, videos.UpdateInput{
		Thumbnail: &storage.LocalFile{Name: "cover2.png", ContentType: "image/png"},
	})
	require.NoError(t, err)

	assert.NotEqual(t, oldThumbKey, updated.ThumbKey)
	assert.Contains(t, objects.deletions, oldThumbKey)
}

/*
TestDelete verifies the row goes away and both media objects are destroyed.
*/
func TestDelete(t *testing.T) {
	store := newFakeStore()
	objects := &fakeObjectStore{}
	service := videos.NewService(store, objects, &fakeWatchRecorder{})

	video, err := service.Upload(context.Background(), "owner-1", uploadInput())
	require.NoError(t, err)

	// A stranger may not delete, and neither may a non-owner admin.
	err = service.Delete(context.Background(), ownerClaims("stranger"), video.ID)
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", apperr.As(err).Code)

	err = service.Delete(context.Background(), adminClaims(), video.ID)
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", apperr.As(err).Code)
	assert.Empty(t, objects.deletions)

	require.NoError(t, service.Delete(context.Background(), ownerClaims("owner-1"), video.ID))

	_, err = service.GetByID(context.Background(), video.ID, nil)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
	assert.Contains(t, objects.deletions, video.VideoKey)
	assert.Contains(t, objects.deletions, video.ThumbKey)
}

// # Reactions

/*
TestReactions_Semantics verifies the like/dislike state machine: add,
repeat as no-op, and mutual exclusion.
*/
func TestReactions_Semantics(t *testing.T) {
	store := newFakeStore()
	service := videos.NewService(store, &fakeObjectStore{}, &fakeWatchRecorder{})

	video, err := service.Upload(context.Background(), "owner-1", uploadInput())
	require.NoError(t, err)

	// Like adds.
	require.NoError(t, service.Like(context.Background(), "viewer-1", video.ID))
	assert.Equal(t, int64(1), store.items[video.ID].Likes)
	assert.Equal(t, int64(0), store.items[video.ID].Dislikes)

	// Repeating the like is a no-op: the like stays, the counter holds.
	require.NoError(t, service.Like(context.Background(), "viewer-1", video.ID))
	assert.Equal(t, int64(1), store.items[video.ID].Likes)
	assert.Equal(t, int64(0), store.items[video.ID].Dislikes)

	// Dislike replaces the like (mutual exclusion).
	require.NoError(t, service.Dislike(context.Background(), "viewer-1", video.ID))
	assert.Equal(t, int64(0), store.items[video.ID].Likes)
	assert.Equal(t, int64(1), store.items[video.ID].Dislikes)

	// Repeating the dislike is equally a no-op.
	require.NoError(t, service.Dislike(context.Background(), "viewer-1", video.ID))
	assert.Equal(t, int64(0), store.items[video.ID].Likes)
	assert.Equal(t, int64(1), store.items[video.ID].Dislikes)

	// Unknown videos are a 404, not a silent write.
	err = service.Like(context.Background(), "viewer-1", "ghost")
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}

// # View Accounting

/*
TestGetByID_ViewAccounting verifies authenticated playback counts a unique
view and lands in the watch history, while anonymous playback does neither.
*/
func TestGetByID_ViewAccounting(t *testing.T) {
	store := newFakeStore()
	recorder := &fakeWatchRecorder{}
	service := videos.NewService(store, &fakeObjectStore{}, recorder)

	video, err := service.Upload(context.Background(), "owner-1", uploadInput())
	require.NoError(t, err)

	// Anonymous playback: no view, no history.
	_, err = service.GetByID(context.Background(), video.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(0), store.items[video.ID].Views)
	assert.Empty(t, recorder.watches)

	// Authenticated playback counts once.
	got, err := service.GetByID(context.Background(), video.ID, ownerClaims("viewer-1"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.Views)
	assert.Len(t, recorder.watches, 1)

	// A repeat view by the same user does not inflate the counter.
	got, err = service.GetByID(context.Background(), video.ID, ownerClaims("viewer-1"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.Views)

	// A second user adds one more.
	got, err = service.GetByID(context.Background(), video.ID, ownerClaims("viewer-2"))
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.Views)
}
