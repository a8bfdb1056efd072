package validation

import (
	"fmt"
	"regexp"
	"strings"
)

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// MaxHubSlugLength matches the tech_hubs.slug column.
const MaxHubSlugLength = 100

// Slugify lowercases s and collapses every run of non-alphanumerics into a
// single hyphen, trimming hyphens from both ends.
func Slugify(s string) string {
	slug := nonSlugChars.ReplaceAllString(strings.ToLower(strings.TrimSpace(s)), "-")
	return strings.Trim(slug, "-")
}

// ValidateHubSlug checks a slug derived from a hub name. Hubs live under
// /hubs/:slug, so any non-empty slug is routable.
func ValidateHubSlug(slug string) error {
	if slug == "" {
		return fmt.Errorf("hub name must contain at least one letter or number")
	}
	if len(slug) > MaxHubSlugLength {
		return fmt.Errorf("hub name must produce a slug of at most %d characters", MaxHubSlugLength)
	}
	return nil
}
