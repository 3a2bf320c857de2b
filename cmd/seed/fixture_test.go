package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"blogly/internal/model"
	"blogly/internal/repository"
	"blogly/internal/service"
	"blogly/internal/testutil"
)

const sampleFixture = `
tags: [math, computing]
users:
  - first_name: Ada
    last_name: Lovelace
    posts:
      - title: Notes
        content: On the engine
        tags: [math, computing, unknown]
  - first_name: Alan
    last_name: Turing
`

func newTestSeeder(t *testing.T) (*seeder, *gorm.DB) {
	t.Helper()
	gdb := testutil.NewDB(t)
	store := repository.NewStore(gdb)
	coord := service.NewCoordinator(store, nil)
	assoc := service.NewAssociationManager()
	return &seeder{
		users: service.NewUserService(store, coord, assoc, nil, service.CascadePosts),
		posts: service.NewPostService(store, coord, assoc),
		tags:  service.NewTagService(store, coord, assoc),
	}, gdb
}

func TestParseFixture(t *testing.T) {
	fx, err := parseFixture([]byte(sampleFixture))
	require.NoError(t, err)

	assert.Equal(t, []string{"math", "computing"}, fx.Tags)
	require.Len(t, fx.Users, 2)
	require.Len(t, fx.Users[0].Posts, 1)
	assert.Equal(t, []string{"math", "computing", "unknown"}, fx.Users[0].Posts[0].Tags)
	assert.Empty(t, fx.Users[1].Posts)

	_, err = parseFixture([]byte("users: [unclosed"))
	assert.Error(t, err)
}

func TestLoadFixture_BundledFile(t *testing.T) {
	fx, err := loadFixture(context.Background(), "../../fixtures/seed.yaml")
	require.NoError(t, err)
	assert.NotEmpty(t, fx.Tags)
	assert.NotEmpty(t, fx.Users)
}

func TestLoadFixture_URL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/seed.yaml" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(sampleFixture))
	}))
	defer srv.Close()

	fx, err := loadFixture(context.Background(), srv.URL+"/seed.yaml")
	require.NoError(t, err)
	assert.Len(t, fx.Users, 2)

	_, err = loadFixture(context.Background(), srv.URL+"/missing.yaml")
	assert.ErrorContains(t, err, "unexpected status 404")
}

func TestSeeder_Seed(t *testing.T) {
	ctx := context.Background()
	s, gdb := newTestSeeder(t)
	fx, err := parseFixture([]byte(sampleFixture))
	require.NoError(t, err)

	summary, err := s.seed(ctx, fx)
	require.NoError(t, err)
	assert.Equal(t, Summary{Tags: 2, Users: 2, Posts: 1}, summary)

	posts, err := s.posts.ListPosts(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	detailed, err := s.posts.GetPost(ctx, posts[0].ID)
	require.NoError(t, err)
	assert.Len(t, detailed.Tags, 2)

	// a second run reuses the tags and adds the users again
	summary, err = s.seed(ctx, fx)
	require.NoError(t, err)
	assert.Equal(t, Summary{TagsExisting: 2, Users: 2, Posts: 1}, summary)

	var tagCount int64
	require.NoError(t, gdb.Model(&model.Tag{}).Count(&tagCount).Error)
	assert.Equal(t, int64(2), tagCount)
}
