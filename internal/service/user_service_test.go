package service

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blogly/internal/cache"
	apperrors "blogly/internal/errors"
	"blogly/internal/model"
	"blogly/internal/testutil"
)

func TestUserService_CreateUser(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	tests := []struct {
		name      string
		in        UserInput
		wantErr   error
		wantMsg   string
		wantImage *string
	}{
		{name: "empty image url is null", in: UserInput{FirstName: "Ada", LastName: "Lovelace"}},
		{name: "with image url", in: UserInput{FirstName: "Alan", LastName: "Turing", ImageURL: "https://example.com/a.png"}, wantImage: strPtr("https://example.com/a.png")},
		{name: "missing first name", in: UserInput{LastName: "Lovelace"}, wantErr: apperrors.ErrValidation, wantMsg: "first_name is required"},
		{name: "blank last name", in: UserInput{FirstName: "Ada", LastName: "   "}, wantErr: apperrors.ErrValidation, wantMsg: "last_name is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := f.users.CreateUser(ctx, tt.in)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Contains(t, err.Error(), tt.wantMsg)
				assert.Nil(t, user)
				return
			}
			require.NoError(t, err)
			assert.NotZero(t, user.ID)
			assert.Equal(t, tt.wantImage, user.ImageURL)
		})
	}
}

func TestUserService_UpdateUser(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	user := testutil.CreateUser(t, f.db, "Ada", "Byron")

	updated, err := f.users.UpdateUser(ctx, user.ID, UserInput{FirstName: "Ada", LastName: "Lovelace", ImageURL: "https://example.com/ada.png"})
	require.NoError(t, err)
	assert.Equal(t, "Lovelace", updated.LastName)

	// same values again must not be mistaken for a missing row
	_, err = f.users.UpdateUser(ctx, user.ID, UserInput{FirstName: "Ada", LastName: "Lovelace", ImageURL: "https://example.com/ada.png"})
	require.NoError(t, err)

	_, err = f.users.UpdateUser(ctx, user.ID+100, UserInput{FirstName: "X", LastName: "Y"})
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestUserService_DeleteUserCascade(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	ada := testutil.CreateUser(t, f.db, "Ada", "Lovelace")
	alan := testutil.CreateUser(t, f.db, "Alan", "Turing")
	tag := testutil.CreateTag(t, f.db, "math")
	testutil.CreatePost(t, f.db, ada.ID, "a1", tag.ID)
	testutil.CreatePost(t, f.db, ada.ID, "a2", tag.ID)
	kept := testutil.CreatePost(t, f.db, alan.ID, "t1", tag.ID)

	require.NoError(t, f.users.DeleteUser(ctx, ada.ID))

	_, err := f.users.GetUser(ctx, ada.ID)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
	assert.Equal(t, int64(1), f.countRows(t, &model.Post{}))
	assert.Equal(t, []model.PostTag{{PostID: kept.ID, TagID: tag.ID}}, testutil.JunctionRows(t, f.db))
	assert.Equal(t, int64(1), f.countRows(t, &model.Tag{}))

	assert.ErrorIs(t, f.users.DeleteUser(ctx, ada.ID), apperrors.ErrUserNotFound)
}

func TestUserService_DeleteUserRestrict(t *testing.T) {
	ctx := context.Background()
	f := newFixtureWith(t, RestrictWithPosts, nil)
	author := testutil.CreateUser(t, f.db, "Ada", "Lovelace")
	reader := testutil.CreateUser(t, f.db, "Alan", "Turing")
	testutil.CreatePost(t, f.db, author.ID, "a1")

	err := f.users.DeleteUser(ctx, author.ID)
	assert.ErrorIs(t, err, apperrors.ErrUserHasPosts)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	assert.Equal(t, int64(1), f.countRows(t, &model.Post{}))

	require.NoError(t, f.users.DeleteUser(ctx, reader.ID))
	assert.Equal(t, int64(1), f.countRows(t, &model.User{}))
}

func TestUserService_ListPostsForUser(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	ada := testutil.CreateUser(t, f.db, "Ada", "Lovelace")
	alan := testutil.CreateUser(t, f.db, "Alan", "Turing")
	testutil.CreatePost(t, f.db, ada.ID, "a1")
	testutil.CreatePost(t, f.db, alan.ID, "t1")

	posts, err := f.users.ListPostsForUser(ctx, ada.ID)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "a1", posts[0].Title)

	_, err = f.users.ListPostsForUser(ctx, alan.ID+100)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)

	users, err := f.users.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2)
}

func TestUserService_GetUserUsesCache(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	c := cache.New(mr.Addr(), "", 0)
	t.Cleanup(func() { c.Close() })
	f := newFixtureWith(t, CascadePosts, c)
	user := testutil.CreateUser(t, f.db, "Ada", "Byron")

	got, err := f.users.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Byron", got.LastName)
	assert.True(t, mr.Exists(cache.UserKey(user.ID)))

	_, err = f.users.UpdateUser(ctx, user.ID, UserInput{FirstName: "Ada", LastName: "Lovelace"})
	require.NoError(t, err)
	assert.False(t, mr.Exists(cache.UserKey(user.ID)), "update must invalidate the cached user")

	got, err = f.users.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Lovelace", got.LastName)

	require.NoError(t, f.users.DeleteUser(ctx, user.ID))
	assert.False(t, mr.Exists(cache.UserKey(user.ID)))
	_, err = f.users.GetUser(ctx, user.ID)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func strPtr(s string) *string { return &s }
