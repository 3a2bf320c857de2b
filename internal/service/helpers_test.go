package service

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"blogly/internal/cache"
	"blogly/internal/model"
	"blogly/internal/repository"
	"blogly/internal/testutil"
)

type fixture struct {
	db    *gorm.DB
	store repository.Store
	coord *Coordinator
	assoc *AssociationManager
	users UserService
	posts PostService
	tags  TagService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWith(t, CascadePosts, nil)
}

func newFixtureWith(t *testing.T, policy UserDeletePolicy, c *cache.Client) *fixture {
	t.Helper()
	gdb := testutil.NewDB(t)
	return newFixtureOver(gdb, repository.NewStore(gdb), policy, c)
}

func newFixtureOver(gdb *gorm.DB, store repository.Store, policy UserDeletePolicy, c *cache.Client) *fixture {
	coord := NewCoordinator(store, nil)
	assoc := NewAssociationManager()
	return &fixture{
		db:    gdb,
		store: store,
		coord: coord,
		assoc: assoc,
		users: NewUserService(store, coord, assoc, c, policy),
		posts: NewPostService(store, coord, assoc),
		tags:  NewTagService(store, coord, assoc),
	}
}

func (f *fixture) tagIDsOf(t *testing.T, postID uint) []uint {
	t.Helper()
	ids, err := f.store.PostTags().TagIDsForPost(context.Background(), postID)
	require.NoError(t, err)
	return ids
}

func (f *fixture) countRows(t *testing.T, m interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(m).Count(&n).Error)
	return n
}

func tagIDs(tags []model.Tag) []uint {
	ids := make([]uint, 0, len(tags))
	for _, tag := range tags {
		ids = append(ids, tag.ID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
