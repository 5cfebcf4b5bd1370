// Package beatmap implements the AutoPick beatmap catalog loader, the
// HTTP metadata fetcher, and the pick-policy evaluator.
package beatmap

import (
	"encoding/json"
	"fmt"
	"os"
)

// Record is a beatmap entry, shared by the on-disk catalog and a room's
// live AutoPick rotation queue.
type Record struct {
	ID               int     `json:"beatmap_id"`
	Title            string  `json:"title"`
	DifficultyRating float64 `json:"d"`
	Version          string  `json:"version"`
	Status           string  `json:"status"`
	DownloadDisabled bool    `json:"-"`
}

// LoadCatalog reads a JSON array of beatmap records from path. Unknown
// fields are ignored, fields whose tags match ride along in the decoded
// Record, and absent fields (beatmap_id and title included) are left at
// their zero values without an error.
func LoadCatalog(path string) ([]Record, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read beatmap catalog %s: %w", path, err)
	}
	var records []Record
	if err := json.Unmarshal(b, &records); err != nil {
		return nil, fmt.Errorf("parse beatmap catalog %s: %w", path, err)
	}
	return records, nil
}

// FilterByStars selects records whose DifficultyRating lies within
// [min, max] inclusive (a rating exactly equal to min or max is
// accepted). A pure function: it never mutates records.
func FilterByStars(records []Record, min, max float64) []Record {
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if r.DifficultyRating >= min && r.DifficultyRating <= max {
			out = append(out, r)
		}
	}
	return out
}
