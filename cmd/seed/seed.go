package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"gamereviews/internal/auth"
	"gamereviews/internal/model"
	"gamereviews/internal/repository"
)

// CatalogData is the document accepted by the catalog command.
type CatalogData struct {
	Genres []model.Genre `json:"genres"`
	Games  []model.Game  `json:"games"`
}

// CatalogStats counts what a catalog seed run changed.
type CatalogStats struct {
	GenresCreated int
	GenresUpdated int
	GamesCreated  int
	GamesUpdated  int
	Skipped       int
}

func readCatalogFile(path string) (*CatalogData, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()
	return decodeCatalog(f)
}

func fetchCatalog(ctx context.Context, url string) (*CatalogData, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch catalog: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog source returned status code: %d", resp.StatusCode)
	}
	return decodeCatalog(resp.Body)
}

func decodeCatalog(r io.Reader) (*CatalogData, error) {
	var data CatalogData
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to parse catalog JSON: %w", err)
	}
	return &data, nil
}

// seedCatalog creates new genres and games or updates existing ones by id.
// Entries with a non-positive id, an empty name or title, or an unknown genre
// are skipped.
func seedCatalog(ctx context.Context, genres repository.GenreRepository, games repository.GameRepository, data *CatalogData, log *zap.Logger) (CatalogStats, error) {
	var stats CatalogStats

	for _, g := range data.Genres {
		genre := g
		genre.Name = strings.TrimSpace(genre.Name)
		if genre.ID <= 0 || genre.Name == "" {
			log.Warn("skipping genre", zap.Int("genre_id", genre.ID), zap.String("name", genre.Name))
			stats.Skipped++
			continue
		}

		existing, err := genres.FindByID(ctx, genre.ID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return stats, fmt.Errorf("error checking genre %d: %w", genre.ID, err)
		}
		if existing != nil {
			existing.Name = genre.Name
			if err := genres.Update(ctx, existing); err != nil {
				return stats, fmt.Errorf("error updating genre %d: %w", genre.ID, err)
			}
			stats.GenresUpdated++
			continue
		}
		if err := genres.Create(ctx, &genre); err != nil {
			return stats, fmt.Errorf("error creating genre %d: %w", genre.ID, err)
		}
		stats.GenresCreated++
	}

	for _, g := range data.Games {
		game := g
		game.Title = strings.TrimSpace(game.Title)
		if game.ID <= 0 || game.Title == "" {
			log.Warn("skipping game", zap.Int("game_id", game.ID), zap.String("title", game.Title))
			stats.Skipped++
			continue
		}
		if _, err := genres.FindByID(ctx, game.GenreID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				log.Warn("skipping game with unknown genre", zap.Int("game_id", game.ID), zap.Int("genre_id", game.GenreID))
				stats.Skipped++
				continue
			}
			return stats, fmt.Errorf("error checking genre %d: %w", game.GenreID, err)
		}

		existing, err := games.FindByID(ctx, game.ID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return stats, fmt.Errorf("error checking game %d: %w", game.ID, err)
		}
		if existing != nil {
			existing.Title = game.Title
			existing.Description = game.Description
			existing.ImageURL = game.ImageURL
			existing.GenreID = game.GenreID
			if err := games.Update(ctx, existing); err != nil {
				return stats, fmt.Errorf("error updating game %d: %w", game.ID, err)
			}
			stats.GamesUpdated++
			continue
		}
		if err := games.Create(ctx, &game); err != nil {
			return stats, fmt.Errorf("error creating game %d: %w", game.ID, err)
		}
		stats.GamesCreated++
	}

	return stats, nil
}

// seedAdmin creates a user with the Admin role. When usernames are not case
// sensitive, a case variant of an existing name counts as taken.
func seedAdmin(ctx context.Context, users repository.UserRepository, hasher *auth.PasswordHasher, caseSensitive bool, username, password string) (*model.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || strings.TrimSpace(password) == "" {
		return nil, fmt.Errorf("username and password are required")
	}

	existing, err := users.FindByUsername(ctx, username, caseSensitive)
	if err == nil && existing != nil {
		return nil, fmt.Errorf("username %q is already taken by %q", username, existing.Username)
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check username: %w", err)
	}

	digest, err := hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := &model.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: digest,
		Role:         model.RoleAdmin,
	}
	if err := users.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("username %q is already taken", username)
		}
		return nil, fmt.Errorf("create admin: %w", err)
	}
	return user, nil
}
