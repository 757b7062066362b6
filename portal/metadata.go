package portal

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"lectsync/catalog"
)

// Series is the top-level course metadata reported by the portal.
type Series struct {
	Title      string
	Protection catalog.Protection
	// Episodes is chronological, oldest first. The portal delivers the
	// list newest-first; the reversal happens here and nowhere else.
	Episodes []EpisodeStub
}

// EpisodeStub is the per-episode entry of the series listing. Duration
// and presentations require a separate per-episode fetch.
type EpisodeStub struct {
	ID        string
	Title     string
	CreatedAt time.Time
}

// Wire formats.

type seriesDocument struct {
	Title      string        `json:"title"`
	Protection string        `json:"protection"`
	Episodes   []episodeStub `json:"episodes"`
}

type episodeStub struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"createdAt"`
}

type episodeDocument struct {
	SelectedEpisode struct {
		ID        string    `json:"id"`
		Title     string    `json:"title"`
		CreatedAt time.Time `json:"createdAt"`
		Duration  string    `json:"duration"`
		Media     struct {
			Presentations []presentationDocument `json:"presentations"`
		} `json:"media"`
	} `json:"selectedEpisode"`
}

type presentationDocument struct {
	Height int    `json:"height"`
	URL    string `json:"url"`
}

// FetchSeries retrieves the course's series metadata: display name,
// protection kind and the episode stub listing.
func (c *Client) FetchSeries(ctx context.Context, base string) (*Series, error) {
	body, err := c.Get(ctx, seriesMetadataURL(base))
	if err != nil {
		return nil, fmt.Errorf("fetch series metadata for %s: %w", base, err)
	}

	var doc seriesDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("parse series metadata for %s: %w", base, err)
	}

	series := &Series{
		Title:      doc.Title,
		Protection: catalog.Protection(doc.Protection),
		Episodes:   make([]EpisodeStub, 0, len(doc.Episodes)),
	}
	// Newest-first on the wire, chronological from here on.
	for i := len(doc.Episodes) - 1; i >= 0; i-- {
		e := doc.Episodes[i]
		series.Episodes = append(series.Episodes, EpisodeStub{
			ID:        e.ID,
			Title:     e.Title,
			CreatedAt: e.CreatedAt,
		})
	}

	return series, nil
}

// FetchEpisode retrieves one episode's full metadata and returns it as a
// catalog episode with the duration parsed to seconds.
func (c *Client) FetchEpisode(ctx context.Context, base string, stub EpisodeStub) (catalog.Episode, error) {
	body, err := c.Get(ctx, episodeMetadataURL(base, stub.ID))
	if err != nil {
		return catalog.Episode{}, fmt.Errorf("fetch episode %s: %w", stub.ID, err)
	}

	var doc episodeDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		return catalog.Episode{}, fmt.Errorf("parse episode %s: %w", stub.ID, err)
	}

	sel := doc.SelectedEpisode
	ep := catalog.Episode{
		ID:              stub.ID,
		Title:           stub.Title,
		CreatedAt:       stub.CreatedAt,
		DurationSeconds: ParseDuration(sel.Duration),
		Presentations:   make([]catalog.Presentation, 0, len(sel.Media.Presentations)),
	}
	if ep.Title == "" {
		ep.Title = sel.Title
	}
	for _, p := range sel.Media.Presentations {
		ep.Presentations = append(ep.Presentations, catalog.Presentation{
			Height: p.Height,
			URL:    p.URL,
		})
	}

	return ep, nil
}
