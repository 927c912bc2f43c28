// Copyright (c) 2026 Vidora. All rights reserved.
// Author: eng@vidora.dev

package account_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidora/vidora/internal/platform/apperr"
	"github.com/vidora/vidora/internal/platform/sec"
	"github.com/vidora/vidora/internal/platform/storage"
	"github.com/vidora/vidora/internal/users/account"
	"github.com/vidora/vidora/internal/users/auth"
	"github.com/vidora/vidora/pkg/pagination"
)

// # Test Doubles

type subscriptionEdge struct {
	subscriberID string
	channelID    string
}

// fakeStore is an in-memory account Store.
type fakeStore struct {
	users    map[string]*auth.User
	profiles map[string]*account.ChannelProfile
	edges    []subscriptionEdge

	updateProfileErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:    make(map[string]*auth.User),
		profiles: make(map[string]*account.ChannelProfile),
	}
}

func (s *fakeStore) FindByID(_ context.Context, id string) (*auth.User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, apperr.NotFound("User")
	}
	return user, nil
}

func (s *fakeStore) UpdateProfile(_ context.Context, user *auth.User) error {
	if s.updateProfileErr != nil {
		return s.updateProfileErr
	}
	s.users[user.ID] = user
	return nil
}

func (s *fakeStore) UpdatePassword(_ context.Context, userID, newHash string) error {
	if user, ok := s.users[userID]; ok {
		user.PasswordHash = newHash
		user.RefreshToken = ""
	}
	return nil
}

func (s *fakeStore) Channel(_ context.Context, channelID string) (*account.ChannelProfile, error) {
	profile, ok := s.profiles[channelID]
	if !ok {
		return nil, apperr.NotFound("Channel")
	}
	return profile, nil
}

func (s *fakeStore) Subscribe(_ context.Context, subscriberID, channelID string) error {
	for _, edge := range s.edges {
		if edge.subscriberID == subscriberID && edge.channelID == channelID {
			return nil // idempotent
		}
	}
	s.edges = append(s.edges, subscriptionEdge{subscriberID, channelID})
	s.profiles[channelID].Subscribers = s.countSubscribers(channelID)
	return nil
}

func (s *fakeStore) Unsubscribe(_ context.Context, subscriberID, channelID string) error {
	kept := s.edges[:0]
	for _, edge := range s.edges {
		if edge.subscriberID != subscriberID || edge.channelID != channelID {
			kept = append(kept, edge)
		}
	}
	s.edges = kept
	s.profiles[channelID].Subscribers = s.countSubscribers(channelID)
	return nil
}

func (s *fakeStore) countSubscribers(channelID string) int64 {
	var count int64
	for _, edge := range s.edges {
		if edge.channelID == channelID {
			count++
		}
	}
	return count
}

func (s *fakeStore) WatchHistory(_ context.Context, _ string, _ pagination.Params) ([]account.WatchEntry, int, error) {
	return nil, 0, nil
}

func (s *fakeStore) RecordWatch(_ context.Context, _, _ string) error {
	return nil
}

// fakeCache is an in-memory ChannelCache that counts operations.
type fakeCache struct {
	entries       map[string]*account.ChannelProfile
	hits          int
	fills         int
	invalidations int

	getErr error
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string]*account.ChannelProfile)}
}

func (c *fakeCache) Get(_ context.Context, channelID string) (*account.ChannelProfile, error) {
	if c.getErr != nil {
		return nil, c.getErr
	}
	if profile, ok := c.entries[channelID]; ok {
		c.hits++
		return profile, nil
	}
	return nil, nil
}

func (c *fakeCache) Set(_ context.Context, profile *account.ChannelProfile) error {
	c.fills++
	c.entries[profile.ID] = profile
	return nil
}

func (c *fakeCache) Invalidate(_ context.Context, channelID string) error {
	c.invalidations++
	delete(c.entries, channelID)
	return nil
}

// fakeObjectStore records uploads and deletions.
type fakeObjectStore struct {
	uploads   []string
	deletions []string
}

func (s *fakeObjectStore) Upload(_ context.Context, input storage.UploadInput) (storage.Asset, error) {
	key := input.Folder + "/" + input.File.Name
	s.uploads = append(s.uploads, key)
	return storage.Asset{URL: "https://cdn.test/" + key, Key: key}, nil
}

func (s *fakeObjectStore) Delete(_ context.Context, key string) error {
	s.deletions = append(s.deletions, key)
	return nil
}

// # Helpers

func seedUser(store *fakeStore, id, channelName string) *auth.User {
	hash, _ := sec.HashPassword("original-pass")
	user := &auth.User{
		ID:           id,
		ChannelName:  channelName,
		Slug:         channelName,
		Email:        id + "@example.com",
		PasswordHash: hash,
		LogoKey:      "logos/old-" + id + ".png",
		LogoURL:      "https://cdn.test/logos/old-" + id + ".png",
		RefreshToken: "refresh-" + id,
		Role:         sec.RoleUser,
	}
	store.users[id] = user
	store.profiles[id] = &account.ChannelProfile{ID: id, ChannelName: channelName}
	return user
}

func ptr(s string) *string { return &s }

// # Channel Reads

/*
TestChannel_ReadThrough verifies the cache is filled on the first read and
served from on the second.
*/
func TestChannel_ReadThrough(t *testing.T) {
	store := newFakeStore()
	cache := newFakeCache()
	service := account.NewService(store, cache, &fakeObjectStore{})
	seedUser(store, "chan-1", "maria")

	first, err := service.Channel(context.Background(), "chan-1")
	require.NoError(t, err)
	assert.Equal(t, 1, cache.fills)
	assert.Equal(t, 0, cache.hits)

	second, err := service.Channel(context.Background(), "chan-1")
	require.NoError(t, err)
	assert.Equal(t, 1, cache.fills)
	assert.Equal(t, 1, cache.hits)
	assert.Equal(t, first.ID, second.ID)
}

/*
TestChannel_CacheFailureDegrades verifies a broken cache falls back to the
database instead of failing the request.
*/
func TestChannel_CacheFailureDegrades(t *testing.T) {
	store := newFakeStore()
	cache := newFakeCache()
	cache.getErr = fmt.Errorf("redis gone")
	service := account.NewService(store, cache, &fakeObjectStore{})
	seedUser(store, "chan-1", "maria")

	profile, err := service.Channel(context.Background(), "chan-1")
	require.NoError(t, err)
	assert.Equal(t, "chan-1", profile.ID)
}

// # Profile Mutations

/*
TestUpdateProfile_ReplacesLogo verifies the new logo is uploaded, the old
object destroyed, and the cached channel page invalidated.
*/
func TestUpdateProfile_ReplacesLogo(t *testing.T) {
	store := newFakeStore()
	cache := newFakeCache()
	objects := &fakeObjectStore{}
	service := account.NewService(store, cache, objects)
	user := seedUser(store, "u-1", "maria")
	oldKey := user.LogoKey

	updated, err := service.UpdateProfile(context.Background(), "u-1", account.UpdateProfileInput{
		Logo: &storage.LocalFile{Name: "new.png", ContentType: "image/png"},
	})
	require.NoError(t, err)

	assert.Len(t, objects.uploads, 1)
	assert.Equal(t, []string{oldKey}, objects.deletions)
	assert.NotEqual(t, oldKey, updated.LogoKey)
	assert.Equal(t, 1, cache.invalidations)
}

/*
TestUpdateProfile_LogoMime verifies disallowed logo formats are rejected
before anything is uploaded.
*/
func TestUpdateProfile_LogoMime(t *testing.T) {
	store := newFakeStore()
	objects := &fakeObjectStore{}
	service := account.NewService(store, newFakeCache(), objects)
	seedUser(store, "u-1", "maria")

	_, err := service.UpdateProfile(context.Background(), "u-1", account.UpdateProfileInput{
		Logo: &storage.LocalFile{Name: "anim.gif", ContentType: "image/gif"},
	})
	require.Error(t, err)
	assert.Equal(t, "UNSUPPORTED_MEDIA", apperr.As(err).Code)
	assert.Empty(t, objects.uploads)
}

/*
TestUpdateProfile_ChannelRename verifies the slug is regenerated alongside
the channel name.
*/
func TestUpdateProfile_ChannelRename(t *testing.T) {
	store := newFakeStore()
	service := account.NewService(store, newFakeCache(), &fakeObjectStore{})
	seedUser(store, "u-1", "maria")

	updated, err := service.UpdateProfile(context.Background(), "u-1", account.UpdateProfileInput{
		ChannelName: ptr("  Tech With María  "),
	})
	require.NoError(t, err)
	assert.Equal(t, "Tech With María", updated.ChannelName)
	assert.Equal(t, "tech-with-maria", updated.Slug)
}

/*
TestChangePassword verifies the wrong current password is rejected with 401
and the right one rotates the hash and ends the active session.
*/
func TestChangePassword(t *testing.T) {
	store := newFakeStore()
	service := account.NewService(store, newFakeCache(), &fakeObjectStore{})
	seedUser(store, "u-1", "maria")

	err := service.ChangePassword(context.Background(), "u-1", "wrong-pass", "brand-new-pass")
	require.Error(t, err)
	assert.Equal(t, "UNAUTHORIZED", apperr.As(err).Code)
	assert.NotEmpty(t, store.users["u-1"].RefreshToken)

	err = service.ChangePassword(context.Background(), "u-1", "original-pass", "brand-new-pass")
	require.NoError(t, err)
	assert.True(t, sec.CheckPasswordHash("brand-new-pass", store.users["u-1"].PasswordHash))

	// Rotating the password revokes the stored refresh token.
	assert.Empty(t, store.users["u-1"].RefreshToken)
}

// # Subscriptions

/*
TestSubscribe_Rules covers self-subscription, unknown channels, idempotency,
and cache invalidation.
*/
func TestSubscribe_Rules(t *testing.T) {
	store := newFakeStore()
	cache := newFakeCache()
	service := account.NewService(store, cache, &fakeObjectStore{})
	seedUser(store, "u-1", "maria")
	seedUser(store, "u-2", "bob")

	// Self-subscription is a client error.
	err := service.Subscribe(context.Background(), "u-1", "u-1")
	require.Error(t, err)
	assert.Equal(t, "BAD_REQUEST", apperr.As(err).Code)

	// Unknown target channel.
	err = service.Subscribe(context.Background(), "u-1", "ghost")
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)

	// First subscribe creates the edge and bumps the derived counter.
	require.NoError(t, service.Subscribe(context.Background(), "u-1", "u-2"))
	assert.Equal(t, int64(1), store.profiles["u-2"].Subscribers)
	assert.Equal(t, 1, cache.invalidations)

	// Repeat subscribe is idempotent: one edge, unchanged counter.
	require.NoError(t, service.Subscribe(context.Background(), "u-1", "u-2"))
	assert.Equal(t, int64(1), store.profiles["u-2"].Subscribers)

	// Unsubscribe removes the edge and refreshes the counter.
	require.NoError(t, service.Unsubscribe(context.Background(), "u-1", "u-2"))
	assert.Equal(t, int64(0), store.profiles["u-2"].Subscribers)

	// Unsubscribing again is not an error.
	require.NoError(t, service.Unsubscribe(context.Background(), "u-1", "u-2"))

	// Self-unsubscription is rejected the same way self-subscription is.
	err = service.Unsubscribe(context.Background(), "u-1", "u-1")
	require.Error(t, err)
	assert.Equal(t, "BAD_REQUEST", apperr.As(err).Code)
}
