package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/sngm3741/storecatalog/api/internal/catalog/domain"
	"github.com/sngm3741/storecatalog/api/internal/server"
)

type fixture struct {
	Users   []userFixture   `yaml:"users"`
	Stores  []storeFixture  `yaml:"stores"`
	Reviews []reviewFixture `yaml:"reviews"`
}

type userFixture struct {
	Name  string `yaml:"name"`
	Email string `yaml:"email"`
}

type storeFixture struct {
	Name        string    `yaml:"name"`
	Author      string    `yaml:"author"`
	Description string    `yaml:"description"`
	Tags        []string  `yaml:"tags"`
	Address     string    `yaml:"address"`
	Coordinates []float64 `yaml:"coordinates"`
	Photo       string    `yaml:"photo"`
}

// reviewFixture references its store by the slug the store ends up with.
type reviewFixture struct {
	Store  string `yaml:"store"`
	Author string `yaml:"author"`
	Rating int    `yaml:"rating"`
	Text   string `yaml:"text"`
}

type seedResult struct {
	Users   int
	Stores  int
	Reviews int
}

func readFixture(path string) (fixture, error) {
	data := defaultFixture
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return fixture{}, fmt.Errorf("read fixture: %w", err)
		}
		data = b
	}
	return parseFixture(data)
}

func parseFixture(data []byte) (fixture, error) {
	var fx fixture
	if err := yaml.Unmarshal(data, &fx); err != nil {
		return fixture{}, fmt.Errorf("parse fixture: %w", err)
	}
	return fx, nil
}

// seed inserts the fixture through the application services, so slugs and validation
// behave exactly as they do for API writes.
func seed(ctx context.Context, svc server.Services, fx fixture, logger *zap.Logger) (seedResult, error) {
	var result seedResult
	users := make(map[string]string, len(fx.Users))
	for _, u := range fx.Users {
		created, err := svc.Users.Register(ctx, u.Name, u.Email)
		if err != nil {
			return result, fmt.Errorf("user %q: %w", u.Email, err)
		}
		users[created.Email] = created.ID
		result.Users++
	}

	stores := make(map[string]string, len(fx.Stores))
	for _, s := range fx.Stores {
		authorID, ok := users[strings.ToLower(s.Author)]
		if !ok {
			return result, fmt.Errorf("store %q: unknown author %q", s.Name, s.Author)
		}
		created, err := svc.Stores.Create(ctx, domain.StoreInput{
			Name:        s.Name,
			Description: s.Description,
			Tags:        s.Tags,
			Address:     s.Address,
			Coordinates: s.Coordinates,
			PhotoRef:    s.Photo,
		}, authorID)
		if err != nil {
			return result, fmt.Errorf("store %q: %w", s.Name, err)
		}
		stores[created.Slug] = created.ID
		logger.Debug("店舗を投入しました", zap.String("slug", created.Slug))
		result.Stores++
	}

	for _, r := range fx.Reviews {
		storeID, ok := stores[r.Store]
		if !ok {
			return result, fmt.Errorf("review: unknown store %q", r.Store)
		}
		authorID, ok := users[strings.ToLower(r.Author)]
		if !ok {
			return result, fmt.Errorf("review on %q: unknown author %q", r.Store, r.Author)
		}
		if _, err := svc.Reviews.Create(ctx, storeID, authorID, domain.ReviewInput{Text: r.Text, Rating: r.Rating}); err != nil {
			return result, fmt.Errorf("review on %q: %w", r.Store, err)
		}
		result.Reviews++
	}
	return result, nil
}
