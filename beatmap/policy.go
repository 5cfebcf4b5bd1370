package beatmap

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// Category tags a rejected pick with the reason it was rejected.
type Category string

const (
	CategoryNotFound         Category = "NotFound"
	CategoryHTTPError        Category = "HttpError"
	CategoryDownloadDisabled Category = "DownloadDisabled"
	CategoryStar             Category = "star"
)

// sentinelNotSubmittedURL is the placeholder osu! emits for a beatmap
// that was deleted or never submitted.
const sentinelNotSubmittedURL = "https://osu.ppy.sh/b/0"

// PickRequest is the input to Evaluate: a user's manual beatmap_picked
// cue plus the room context needed to judge it.
type PickRequest struct {
	Title   string
	Version string
	URL     string
	PlayMode         int
	MinStar, MaxStar float64
}

// Outcome is the result of Evaluate: either an accepted pick (with the
// matched record's full metadata) or a violation with a category and
// human-readable reason.
type Outcome struct {
	Accepted         bool
	Category         Category
	Reason           string
	AcceptedID       int
	DifficultyRating float64
	Status           string
	CircleSize       float64
	ApproachRate     float64
	URL              string
	BeatmapsetID     int
	BeatmapsetTitle  string
}

// Policy evaluates beatmap picks against a fetched metadata page.
type Policy struct {
	Fetcher Fetcher
}

// NewPolicy builds a Policy backed by fetcher.
func NewPolicy(fetcher Fetcher) *Policy {
	return &Policy{Fetcher: fetcher}
}

var beatmapsetJSONPattern = regexp.MustCompile(`\{"artist".+`)

type beatmapsetBeatmapJSON struct {
	ID               int     `json:"id"`
	Version          string  `json:"version"`
	DifficultyRating float64 `json:"difficulty_rating"`
	Status           string  `json:"status"`
	CS               float64 `json:"cs"`
	AR               float64 `json:"ar"`
	URL              string  `json:"url"`
}

type beatmapsetJSON struct {
	ID           int    `json:"id"`
	Title        string `json:"title"`
	Availability struct {
		DownloadDisabled bool `json:"download_disabled"`
	} `json:"availability"`
	Beatmaps []beatmapsetBeatmapJSON `json:"beatmaps"`
}

// Evaluate runs the full accept/violation procedure for one pick.
func (p *Policy) Evaluate(req PickRequest) Outcome {
	// step 1
	if req.Version == "" || req.URL == "" {
		return Outcome{Category: CategoryNotFound, Reason: "NotFound"}
	}
	// step 2
	if req.URL == sentinelNotSubmittedURL {
		return Outcome{Category: CategoryNotFound, Reason: "Beatmap Not Submitted"}
	}
	// step 3
	result, err := p.Fetcher.Fetch(req.URL)
	if err != nil {
		reason := fmt.Sprintf("%s | [https://beatconnect.io/b/%s/ Beatconnect]", err.Error(), lastPathSegment(req.URL))
		return Outcome{Category: CategoryHTTPError, Reason: reason}
	}
	if result.StatusCode < 200 || result.StatusCode >= 300 {
		return Outcome{Category: CategoryNotFound, Reason: fmt.Sprintf("NotFound (status %d)", result.StatusCode)}
	}
	// step 4
	raw := extractBeatmapsetJSON(result.Body)
	if raw == "" {
		return Outcome{Category: CategoryNotFound, Reason: "NotFound"}
	}
	// A json.Decoder (rather than Unmarshal) stops after the first
	// value, tolerating trailing markup on the same line (the matched
	// text is a JSON object embedded in an HTML page, not a standalone
	// document).
	var parsed beatmapsetJSON
	if err := json.NewDecoder(strings.NewReader(raw)).Decode(&parsed); err != nil {
		return Outcome{Category: CategoryNotFound, Reason: "NotFound"}
	}
	// step 5
	if parsed.Availability.DownloadDisabled {
		return Outcome{Category: CategoryDownloadDisabled, Reason: "DownloadDisabled"}
	}
	// step 6
	var found *beatmapsetBeatmapJSON
	for i := range parsed.Beatmaps {
		if parsed.Beatmaps[i].Version == req.Version {
			found = &parsed.Beatmaps[i]
			break
		}
	}
	if found == nil {
		return Outcome{Category: CategoryNotFound, Reason: "NotFound"}
	}
	// step 7
	if found.DifficultyRating < req.MinStar {
		return Outcome{Category: CategoryStar, Reason: "Low Star", DifficultyRating: found.DifficultyRating}
	}
	if found.DifficultyRating > req.MaxStar {
		return Outcome{Category: CategoryStar, Reason: "High Star", DifficultyRating: found.DifficultyRating}
	}
	title := parsed.Title
	if title == "" {
		title = "link"
	}
	return Outcome{
		Accepted:         true,
		AcceptedID:       found.ID,
		DifficultyRating: found.DifficultyRating,
		Status:           found.Status,
		CircleSize:       found.CS,
		ApproachRate:     found.AR,
		URL:              found.URL,
		BeatmapsetID:     parsed.ID,
		BeatmapsetTitle:  title,
	}
}

// extractBeatmapsetJSON returns the first line's worth of JSON object
// text matching `{"artist"...` to end-of-line, or "" if none found.
func extractBeatmapsetJSON(body []byte) string {
	for _, line := range strings.Split(string(body), "\n") {
		if m := beatmapsetJSONPattern.FindString(line); m != "" {
			return m
		}
	}
	return ""
}

// lastPathSegment returns the trailing path component of a beatmap URL,
// the beatmap id on both osu! direct links and the shortened /b/<id>
// form, for building a beatconnect.io mirror link when the primary fetch
// fails.
func lastPathSegment(url string) string {
	parts := strings.Split(strings.TrimSuffix(url, "/"), "/")
	return parts[len(parts)-1]
}
