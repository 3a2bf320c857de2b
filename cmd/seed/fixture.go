package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"blogly/internal/service"
)

// Fixture is the YAML seed document.
type Fixture struct {
	Tags  []string      `yaml:"tags"`
	Users []FixtureUser `yaml:"users"`
}

// FixtureUser is a user together with the posts they wrote.
type FixtureUser struct {
	FirstName string        `yaml:"first_name"`
	LastName  string        `yaml:"last_name"`
	ImageURL  string        `yaml:"image_url"`
	Posts     []FixturePost `yaml:"posts"`
}

// FixturePost references its tags by name.
type FixturePost struct {
	Title   string   `yaml:"title"`
	Content string   `yaml:"content"`
	Tags    []string `yaml:"tags"`
}

// Summary counts what a seed run created.
type Summary struct {
	Tags         int
	TagsExisting int
	Users        int
	Posts        int
}

func loadFixture(ctx context.Context, source string) (*Fixture, error) {
	var (
		raw []byte
		err error
	)
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		raw, err = fetchFixture(ctx, source)
	} else {
		raw, err = os.ReadFile(source)
	}
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", source, err)
	}
	return parseFixture(raw)
}

func parseFixture(raw []byte) (*Fixture, error) {
	var fx Fixture
	if err := yaml.Unmarshal(raw, &fx); err != nil {
		return nil, fmt.Errorf("parse fixture: %w", err)
	}
	return &fx, nil
}

func fetchFixture(ctx context.Context, url string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

type seeder struct {
	users service.UserService
	posts service.PostService
	tags  service.TagService
}

// seed creates tags first so posts can reference them by name. Tags that
// already exist are reused; everything else is created anew on every run.
func (s *seeder) seed(ctx context.Context, fx *Fixture) (Summary, error) {
	var summary Summary

	tagIDs, err := s.existingTags(ctx)
	if err != nil {
		return summary, err
	}
	for _, name := range fx.Tags {
		name = strings.TrimSpace(name)
		if _, ok := tagIDs[name]; ok {
			summary.TagsExisting++
			continue
		}
		tag, err := s.tags.CreateTag(ctx, service.TagInput{Name: name})
		if err != nil {
			return summary, fmt.Errorf("create tag %q: %w", name, err)
		}
		tagIDs[tag.Name] = tag.ID
		summary.Tags++
	}

	for _, fu := range fx.Users {
		user, err := s.users.CreateUser(ctx, service.UserInput{
			FirstName: fu.FirstName,
			LastName:  fu.LastName,
			ImageURL:  fu.ImageURL,
		})
		if err != nil {
			return summary, fmt.Errorf("create user %s %s: %w", fu.FirstName, fu.LastName, err)
		}
		summary.Users++

		for _, fp := range fu.Posts {
			ids := make([]uint, 0, len(fp.Tags))
			for _, name := range fp.Tags {
				id, ok := tagIDs[name]
				if !ok {
					slog.Warn("post references unknown tag", slog.String("post", fp.Title), slog.String("tag", name))
					continue
				}
				ids = append(ids, id)
			}
			_, err := s.posts.CreatePost(ctx, user.ID, service.PostInput{
				Title:   fp.Title,
				Content: fp.Content,
				TagIDs:  ids,
			})
			if err != nil {
				return summary, fmt.Errorf("create post %q: %w", fp.Title, err)
			}
			summary.Posts++
		}
	}
	return summary, nil
}

func (s *seeder) existingTags(ctx context.Context) (map[string]uint, error) {
	tags, err := s.tags.ListTags(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	ids := make(map[string]uint, len(tags))
	for _, tag := range tags {
		ids[tag.Name] = tag.ID
	}
	return ids, nil
}
