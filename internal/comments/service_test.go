// Copyright (c) 2026 Vidora. All rights reserved.
// Author: eng@vidora.dev

package comments_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidora/vidora/internal/comments"
	"github.com/vidora/vidora/internal/platform/apperr"
	"github.com/vidora/vidora/internal/platform/sec"
	"github.com/vidora/vidora/pkg/pagination"
)

// # Test Doubles

// fakeStore is an in-memory comment Store.
type fakeStore struct {
	items map[string]*comments.Comment
}

func newFakeStore() *fakeStore {
	return &fakeStore{items: make(map[string]*comments.Comment)}
}

func (s *fakeStore) Create(_ context.Context, comment *comments.Comment) error {
	s.items[comment.ID] = comment
	return nil
}

func (s *fakeStore) FindByID(_ context.Context, id string) (*comments.Comment, error) {
	comment, ok := s.items[id]
	if !ok {
		return nil, apperr.NotFound("Comment")
	}
	copied := *comment
	return &copied, nil
}

func (s *fakeStore) Update(_ context.Context, comment *comments.Comment) error {
	s.items[comment.ID] = comment
	return nil
}

func (s *fakeStore) Delete(_ context.Context, id string) error {
	if _, ok := s.items[id]; !ok {
		return apperr.NotFound("Comment")
	}
	delete(s.items, id)
	return nil
}

func (s *fakeStore) ListByVideo(_ context.Context, videoID string, _ pagination.Params) ([]comments.Comment, int, error) {
	result := []comments.Comment{}
	for _, comment := range s.items {
		if comment.VideoID == videoID {
			result = append(result, *comment)
		}
	}
	return result, len(result), nil
}

// fakeVideoChecker knows a fixed set of video IDs.
type fakeVideoChecker struct {
	known map[string]bool
}

func (c *fakeVideoChecker) VideoExists(_ context.Context, id string) (bool, error) {
	return c.known[id], nil
}

// # Helpers

func newService(store *fakeStore) *comments.Service {
	return comments.NewService(store, &fakeVideoChecker{known: map[string]bool{"vid-1": true}})
}

func claims(userID string, role sec.UserRole) *sec.AuthClaims {
	return &sec.AuthClaims{UserID: userID, Role: string(role)}
}

// # Tests

/*
TestCreate verifies a comment lands under an existing video and unknown
videos are rejected with 404.
*/
func TestCreate(t *testing.T) {
	store := newFakeStore()
	service := newService(store)

	comment, err := service.Create(context.Background(), "author-1", "vid-1", "  nice video  ")
	require.NoError(t, err)
	assert.Equal(t, "nice video", comment.Body)
	assert.Equal(t, "author-1", comment.AuthorID)

	_, err = service.Create(context.Background(), "author-1", "ghost", "hello")
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}

/*
TestUpdate_AuthorOnly verifies only the author may edit; not even an admin
can rewrite someone else's words.
*/
func TestUpdate_AuthorOnly(t *testing.T) {
	store := newFakeStore()
	service := newService(store)

	comment, err := service.Create(context.Background(), "author-1", "vid-1", "original")
	require.NoError(t, err)

	_, err = service.Update(context.Background(), claims("stranger", sec.RoleUser), comment.ID, "hijacked")
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", apperr.As(err).Code)

	_, err = service.Update(context.Background(), claims("moderator", sec.RoleAdmin), comment.ID, "moderated")
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", apperr.As(err).Code)

	updated, err := service.Update(context.Background(), claims("author-1", sec.RoleUser), comment.ID, "edited")
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Body)
}

/*
TestDelete_AuthorOnly verifies only the author may delete; strangers and
admins alike get a 403.
*/
func TestDelete_AuthorOnly(t *testing.T) {
	store := newFakeStore()
	service := newService(store)

	comment, err := service.Create(context.Background(), "author-1", "vid-1", "one")
	require.NoError(t, err)

	err = service.Delete(context.Background(), claims("stranger", sec.RoleUser), comment.ID)
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", apperr.As(err).Code)

	err = service.Delete(context.Background(), claims("moderator", sec.RoleAdmin), comment.ID)
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", apperr.As(err).Code)

	require.NoError(t, service.Delete(context.Background(), claims("author-1", sec.RoleUser), comment.ID))

	items, total, err := service.ListByVideo(context.Background(), "vid-1", pagination.Params{Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Zero(t, total)
}

/*
TestListByVideo_UnknownVideo verifies listing under a missing video is a 404.
*/
func TestListByVideo_UnknownVideo(t *testing.T) {
	service := newService(newFakeStore())

	_, _, err := service.ListByVideo(context.Background(), "ghost", pagination.Params{Page: 1, Limit: 20})
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}
