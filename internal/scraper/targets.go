package scraper

import (
	"crypto/md5"
	"encoding/json"
	"fmt"
	"os"

	apperrors "pricetracker/pkg/errors"
)

// LoadTargets reads the tracked-product list from a JSON file. An
// unreadable or malformed list is a configuration error: no targets can
// be processed, so the whole run fails.
func LoadTargets(path string) ([]ProductTarget, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.NewConfiguration(fmt.Sprintf("failed to read target list %s", path), err)
	}

	var targets []ProductTarget
	if err := json.Unmarshal(data, &targets); err != nil {
		return nil, apperrors.NewConfiguration(fmt.Sprintf("failed to parse target list %s", path), err)
	}

	for i := range targets {
		if targets[i].URL == "" {
			return nil, apperrors.NewConfiguration(fmt.Sprintf("target %d in %s has no url", i, path), nil)
		}
		if targets[i].ID == "" {
			targets[i].ID = DeriveID(targets[i].URL)
		}
	}

	return targets, nil
}

// DeriveID generates a stable short identifier from a product URL.
func DeriveID(rawURL string) string {
	return fmt.Sprintf("%x", md5.Sum([]byte(rawURL)))[:8]
}
