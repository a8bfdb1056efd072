package seed

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"even/internal/cache"
	"even/internal/models"
	"even/internal/validation"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:embed hubs.yml
var hubCatalog []byte

// HubSeed is one entry of the built-in hub catalog.
type HubSeed struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Image       string `yaml:"image"`
}

// Slug is the hub's URL slug, derived the same way user-created hubs are.
func (h HubSeed) Slug() string {
	return validation.Slugify(h.Name)
}

// LoadHubCatalog parses the embedded hub catalog.
func LoadHubCatalog() ([]HubSeed, error) {
	return parseHubCatalog(hubCatalog)
}

func parseHubCatalog(data []byte) ([]HubSeed, error) {
	var hubs []HubSeed
	if err := yaml.Unmarshal(data, &hubs); err != nil {
		return nil, fmt.Errorf("parse hub catalog: %w", err)
	}
	seen := make(map[string]struct{}, len(hubs))
	for i, h := range hubs {
		if strings.TrimSpace(h.Name) == "" || strings.TrimSpace(h.Description) == "" {
			return nil, fmt.Errorf("hub catalog entry %d: name and description are required", i)
		}
		if err := validation.ValidateHubSlug(h.Slug()); err != nil {
			return nil, fmt.Errorf("hub catalog entry %q: %w", h.Name, err)
		}
		if _, dup := seen[h.Slug()]; dup {
			return nil, fmt.Errorf("hub catalog entry %q: duplicate slug %q", h.Name, h.Slug())
		}
		seen[h.Slug()] = struct{}{}
	}
	return hubs, nil
}

// Hubs upserts the built-in catalog by slug. Subscriber counts of existing
// hubs are left alone, so it is safe to run on every boot.
func Hubs(ctx context.Context, db *gorm.DB) ([]models.TechHub, error) {
	catalog, err := LoadHubCatalog()
	if err != nil {
		return nil, err
	}

	hubs := make([]models.TechHub, 0, len(catalog))
	for _, item := range catalog {
		hub := models.TechHub{
			Name:        item.Name,
			Slug:        item.Slug(),
			Description: item.Description,
			Image:       item.Image,
		}
		err := db.WithContext(ctx).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "slug"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "description", "image", "updated_at"}),
		}).Create(&hub).Error
		if err != nil {
			return nil, fmt.Errorf("seed hub %s: %w", hub.Slug, err)
		}
		if err := db.WithContext(ctx).Where("slug = ?", hub.Slug).First(&hub).Error; err != nil {
			return nil, fmt.Errorf("reload hub %s: %w", hub.Slug, err)
		}
		hubs = append(hubs, hub)
	}

	cache.InvalidateHubs(ctx)
	return hubs, nil
}
