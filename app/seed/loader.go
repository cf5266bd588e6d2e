package seed

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/kivotos-dev/fanhub/app/database"
)

// Seed is one subscription definition from a seeds-dir YAML file. Seeds
// are upserted by uid at startup so a fresh deployment starts tracking
// its uploaders without manual API calls.
type Seed struct {
	UID                 string `yaml:"uid"`
	UpName              string `yaml:"up_name"`
	IsActive            *bool  `yaml:"is_active"`
	DefaultNature       string `yaml:"default_nature"`
	AutoPublishKeywords string `yaml:"auto_publish_keywords"`
}

type Loader struct {
	seedsDir string
	subRepo  database.SubscriptionRepository
}

func NewLoader(seedsDir string, subRepo database.SubscriptionRepository) *Loader {
	return &Loader{
		seedsDir: seedsDir,
		subRepo:  subRepo,
	}
}

func (l *Loader) Run() error {
	if l.seedsDir == "" {
		return nil
	}
	if _, err := os.Stat(l.seedsDir); os.IsNotExist(err) {
		return nil
	}

	files, err := filepath.Glob(filepath.Join(l.seedsDir, "*.yml"))
	if err != nil {
		return fmt.Errorf("failed to find YML files: %w", err)
	}

	for _, file := range files {
		seed, err := l.parseSeed(file)
		if err != nil {
			return fmt.Errorf("error loading %s: %w", file, err)
		}

		if err := l.upsert(seed); err != nil {
			return fmt.Errorf("error seeding %s: %w", file, err)
		}

		slog.Debug("Subscription seeded", "uid", seed.UID, "up", seed.UpName)
	}

	return nil
}

func (l *Loader) parseSeed(file string) (*Seed, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if seed.UID == "" {
		return nil, fmt.Errorf("uid is required")
	}
	if seed.UpName == "" {
		return nil, fmt.Errorf("up_name is required")
	}
	if seed.DefaultNature == "" {
		seed.DefaultNature = "fanmade"
	}

	return &seed, nil
}

func (l *Loader) upsert(seed *Seed) error {
	isActive := true
	if seed.IsActive != nil {
		isActive = *seed.IsActive
	}

	sub := database.Subscription{
		UID:                 seed.UID,
		UpName:              seed.UpName,
		IsActive:            isActive,
		DefaultNature:       seed.DefaultNature,
		AutoPublishKeywords: seed.AutoPublishKeywords,
	}

	existing, err := l.subRepo.GetByUID(seed.UID)
	if err != nil {
		return err
	}

	if existing == nil {
		_, err = l.subRepo.Create(sub)
		return err
	}

	return l.subRepo.Update(existing.ID, sub)
}
