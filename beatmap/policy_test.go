package beatmap

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	result FetchResult
	err    error
	calls  int
}

func (f *fakeFetcher) Fetch(url string) (FetchResult, error) {
	f.calls++
	return f.result, f.err
}

const sampleBody = `{"artist":"Artist","id":55,"title":"Song","availability":{"download_disabled":false},"beatmaps":[{"id":99,"version":"Insane","difficulty_rating":6.5,"status":"ranked","cs":4,"ar":9,"url":"https://osu.ppy.sh/b/99"},{"id":98,"version":"Hard","difficulty_rating":4.0,"status":"ranked","cs":3.5,"ar":8,"url":"https://osu.ppy.sh/b/98"}]}`

func TestEvaluateMissingVersionOrURLIsNotFound(t *testing.T) {
	p := NewPolicy(&fakeFetcher{})
	outcome := p.Evaluate(PickRequest{Title: "Song", Version: "", URL: "https://osu.ppy.sh/b/1"})
	assert.Equal(t, CategoryNotFound, outcome.Category)
	assert.False(t, outcome.Accepted)
}

func TestEvaluateSentinelURLSkipsFetch(t *testing.T) {
	fetcher := &fakeFetcher{}
	p := NewPolicy(fetcher)

	outcome := p.Evaluate(PickRequest{Version: "Insane", URL: sentinelNotSubmittedURL})

	require.False(t, outcome.Accepted)
	assert.Equal(t, CategoryNotFound, outcome.Category)
	assert.Equal(t, "Beatmap Not Submitted", outcome.Reason)
	assert.Equal(t, 0, fetcher.calls, "sentinel URL must not trigger an HTTP fetch")
}

func TestEvaluateNetworkFailureIsHttpError(t *testing.T) {
	p := NewPolicy(&fakeFetcher{err: errors.New("connection reset")})
	outcome := p.Evaluate(PickRequest{Version: "Insane", URL: "https://osu.ppy.sh/b/99"})
	assert.Equal(t, CategoryHTTPError, outcome.Category)
	assert.Contains(t, outcome.Reason, "connection reset")
	assert.Contains(t, outcome.Reason, "https://beatconnect.io/b/99/ Beatconnect")
}

func TestEvaluateNon2xxIsNotFound(t *testing.T) {
	p := NewPolicy(&fakeFetcher{result: FetchResult{StatusCode: 404}})
	outcome := p.Evaluate(PickRequest{Version: "Insane", URL: "https://osu.ppy.sh/b/99"})
	assert.Equal(t, CategoryNotFound, outcome.Category)
}

func TestEvaluateUnparseableBodyIsNotFound(t *testing.T) {
	p := NewPolicy(&fakeFetcher{result: FetchResult{StatusCode: 200, Body: []byte("no json here")}})
	outcome := p.Evaluate(PickRequest{Version: "Insane", URL: "https://osu.ppy.sh/b/99"})
	assert.Equal(t, CategoryNotFound, outcome.Category)
}

func TestEvaluateDownloadDisabled(t *testing.T) {
	body := `{"artist":"A","availability":{"download_disabled":true},"beatmaps":[{"id":1,"version":"Insane","difficulty_rating":5.5}]}`
	p := NewPolicy(&fakeFetcher{result: FetchResult{StatusCode: 200, Body: []byte(body)}})
	outcome := p.Evaluate(PickRequest{Version: "Insane", URL: "https://osu.ppy.sh/b/99", MinStar: 5, MaxStar: 6})
	assert.Equal(t, CategoryDownloadDisabled, outcome.Category)
}

func TestEvaluateVersionNotFound(t *testing.T) {
	p := NewPolicy(&fakeFetcher{result: FetchResult{StatusCode: 200, Body: []byte(sampleBody)}})
	outcome := p.Evaluate(PickRequest{Version: "Expert", URL: "https://osu.ppy.sh/b/99", MinStar: 5, MaxStar: 6})
	assert.Equal(t, CategoryNotFound, outcome.Category)
}

func TestEvaluateHighStarViolation(t *testing.T) {
	p := NewPolicy(&fakeFetcher{result: FetchResult{StatusCode: 200, Body: []byte(sampleBody)}})
	outcome := p.Evaluate(PickRequest{Version: "Insane", URL: "https://osu.ppy.sh/b/99", MinStar: 5, MaxStar: 6})
	require.False(t, outcome.Accepted)
	assert.Equal(t, CategoryStar, outcome.Category)
	assert.Equal(t, "High Star", outcome.Reason)
}

func TestEvaluateLowStarViolation(t *testing.T) {
	p := NewPolicy(&fakeFetcher{result: FetchResult{StatusCode: 200, Body: []byte(sampleBody)}})
	outcome := p.Evaluate(PickRequest{Version: "Hard", URL: "https://osu.ppy.sh/b/99", MinStar: 5, MaxStar: 6})
	require.False(t, outcome.Accepted)
	assert.Equal(t, CategoryStar, outcome.Category)
	assert.Equal(t, "Low Star", outcome.Reason)
}

func TestEvaluateAcceptsWithinBounds(t *testing.T) {
	p := NewPolicy(&fakeFetcher{result: FetchResult{StatusCode: 200, Body: []byte(sampleBody)}})
	outcome := p.Evaluate(PickRequest{Version: "Insane", URL: "https://osu.ppy.sh/b/99", MinStar: 6, MaxStar: 7})
	require.True(t, outcome.Accepted)
	assert.Equal(t, 99, outcome.AcceptedID)
	assert.Equal(t, 6.5, outcome.DifficultyRating)
	assert.Equal(t, "ranked", outcome.Status)
	assert.Equal(t, 4.0, outcome.CircleSize)
	assert.Equal(t, 9.0, outcome.ApproachRate)
	assert.Equal(t, "https://osu.ppy.sh/b/99", outcome.URL)
	assert.Equal(t, 55, outcome.BeatmapsetID)
	assert.Equal(t, "Song", outcome.BeatmapsetTitle)
}

func TestEvaluateAcceptsExactlyAtBounds(t *testing.T) {
	p := NewPolicy(&fakeFetcher{result: FetchResult{StatusCode: 200, Body: []byte(sampleBody)}})
	outcome := p.Evaluate(PickRequest{Version: "Insane", URL: "https://osu.ppy.sh/b/99", MinStar: 6.5, MaxStar: 6.5})
	assert.True(t, outcome.Accepted)
}

func TestEvaluateAcceptFallsBackToLinkWhenTitleMissing(t *testing.T) {
	body := `{"artist":"A","id":7,"availability":{"download_disabled":false},"beatmaps":[{"id":1,"version":"Insane","difficulty_rating":5.5,"status":"ranked","cs":4,"ar":9,"url":"https://osu.ppy.sh/b/1"}]}`
	p := NewPolicy(&fakeFetcher{result: FetchResult{StatusCode: 200, Body: []byte(body)}})
	outcome := p.Evaluate(PickRequest{Version: "Insane", URL: "https://osu.ppy.sh/b/1", MinStar: 5, MaxStar: 6})
	require.True(t, outcome.Accepted)
	assert.Equal(t, "link", outcome.BeatmapsetTitle)
}

func TestEvaluateToleratesTrailingHTMLOnMatchedLine(t *testing.T) {
	htmlBody := `<script>var data = ` + sampleBody + `;</script>`
	p := NewPolicy(&fakeFetcher{result: FetchResult{StatusCode: 200, Body: []byte(htmlBody)}})
	outcome := p.Evaluate(PickRequest{Version: "Insane", URL: "https://osu.ppy.sh/b/99", MinStar: 6, MaxStar: 7})
	require.True(t, outcome.Accepted)
	assert.Equal(t, 99, outcome.AcceptedID)
}
