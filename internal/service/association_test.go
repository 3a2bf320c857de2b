package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "blogly/internal/errors"
	"blogly/internal/model"
	"blogly/internal/repository"
	"blogly/internal/testutil"
)

func TestAssociationManager_ReplaceTagSet(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	user := testutil.CreateUser(t, f.db, "Ada", "Lovelace")
	a := testutil.CreateTag(t, f.db, "a")
	b := testutil.CreateTag(t, f.db, "b")
	c := testutil.CreateTag(t, f.db, "c")

	tests := []struct {
		name        string
		initial     []uint
		desired     []uint
		want        []uint
		wantAdded   []uint
		wantRemoved []uint
	}{
		{name: "empty to set", desired: []uint{a.ID, b.ID}, want: []uint{a.ID, b.ID}, wantAdded: []uint{a.ID, b.ID}},
		{name: "set to empty", initial: []uint{a.ID, b.ID}, desired: nil, want: []uint{}, wantRemoved: []uint{a.ID, b.ID}},
		{name: "swap one", initial: []uint{a.ID, b.ID}, desired: []uint{b.ID, c.ID}, want: []uint{b.ID, c.ID}, wantAdded: []uint{c.ID}, wantRemoved: []uint{a.ID}},
		{name: "unknown ids ignored", initial: []uint{a.ID}, desired: []uint{a.ID, 999, 1000}, want: []uint{a.ID}},
		{name: "duplicates collapsed", desired: []uint{c.ID, c.ID, c.ID}, want: []uint{c.ID}, wantAdded: []uint{c.ID}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			post := testutil.CreatePost(t, f.db, user.ID, tt.name, tt.initial...)

			var change TagSetChange
			err := f.coord.Run(ctx, "test", func(ctx context.Context, tx repository.Store) error {
				var err error
				change, err = f.assoc.ReplaceTagSet(ctx, tx, post.ID, tt.desired)
				return err
			})
			require.NoError(t, err)

			assert.ElementsMatch(t, tt.want, f.tagIDsOf(t, post.ID))
			assert.ElementsMatch(t, tt.wantAdded, change.Added)
			assert.ElementsMatch(t, tt.wantRemoved, change.Removed)
		})
	}
}

func TestAssociationManager_ReplaceTagSetIsIdempotent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	user := testutil.CreateUser(t, f.db, "Ada", "Lovelace")
	a := testutil.CreateTag(t, f.db, "a")
	b := testutil.CreateTag(t, f.db, "b")
	post := testutil.CreatePost(t, f.db, user.ID, "p")
	desired := []uint{b.ID, a.ID}

	replace := func() TagSetChange {
		var change TagSetChange
		require.NoError(t, f.coord.Run(ctx, "test", func(ctx context.Context, tx repository.Store) error {
			var err error
			change, err = f.assoc.ReplaceTagSet(ctx, tx, post.ID, desired)
			return err
		}))
		return change
	}

	first := replace()
	assert.False(t, first.Empty())

	second := replace()
	assert.True(t, second.Empty(), "second call must not write: %+v", second)
	assert.Len(t, testutil.JunctionRows(t, f.db), 2)
	assert.ElementsMatch(t, desired, f.tagIDsOf(t, post.ID))
}

func TestAssociationManager_DetachTagFromAllPosts(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	user := testutil.CreateUser(t, f.db, "Ada", "Lovelace")
	target := testutil.CreateTag(t, f.db, "target")
	keep := testutil.CreateTag(t, f.db, "keep")
	lonely := testutil.CreateTag(t, f.db, "lonely")
	p1 := testutil.CreatePost(t, f.db, user.ID, "p1", target.ID, keep.ID)
	p2 := testutil.CreatePost(t, f.db, user.ID, "p2", target.ID)

	var detached int64
	require.NoError(t, f.coord.Run(ctx, "test", func(ctx context.Context, tx repository.Store) error {
		var err error
		detached, err = f.assoc.DetachTagFromAllPosts(ctx, tx, target.ID)
		return err
	}))
	assert.Equal(t, int64(2), detached)
	assert.Equal(t, []uint{keep.ID}, f.tagIDsOf(t, p1.ID))
	assert.Empty(t, f.tagIDsOf(t, p2.ID))

	require.NoError(t, f.coord.Run(ctx, "test", func(ctx context.Context, tx repository.Store) error {
		var err error
		detached, err = f.assoc.DetachTagFromAllPosts(ctx, tx, lonely.ID)
		return err
	}))
	assert.Zero(t, detached)
}

func TestAssociationManager_DeleteCascadingNotFound(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	err := f.coord.Run(ctx, "test", func(ctx context.Context, tx repository.Store) error {
		_, err := f.assoc.DeleteTagCascading(ctx, tx, 404)
		return err
	})
	assert.ErrorIs(t, err, apperrors.ErrTagNotFound)

	err = f.coord.Run(ctx, "test", func(ctx context.Context, tx repository.Store) error {
		return f.assoc.DeletePostCascading(ctx, tx, 404)
	})
	assert.ErrorIs(t, err, apperrors.ErrPostNotFound)
}

func TestAssociationManager_DeletePostCascading(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	user := testutil.CreateUser(t, f.db, "Ada", "Lovelace")
	a := testutil.CreateTag(t, f.db, "a")
	b := testutil.CreateTag(t, f.db, "b")
	doomed := testutil.CreatePost(t, f.db, user.ID, "doomed", a.ID, b.ID)
	survivor := testutil.CreatePost(t, f.db, user.ID, "survivor", a.ID)

	require.NoError(t, f.coord.Run(ctx, "test", func(ctx context.Context, tx repository.Store) error {
		return f.assoc.DeletePostCascading(ctx, tx, doomed.ID)
	}))

	for _, row := range testutil.JunctionRows(t, f.db) {
		assert.NotEqual(t, doomed.ID, row.PostID)
	}
	assert.Equal(t, []uint{a.ID}, f.tagIDsOf(t, survivor.ID))
	assert.Equal(t, int64(2), f.countRows(t, &model.Tag{}))
}
