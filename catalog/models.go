package catalog

import "time"

// Protection identifies the authentication protocol a course requires.
// The values are exactly what the portal reports in its series metadata.
type Protection string

const (
	// ProtectionNone marks an open course, no authentication required.
	ProtectionNone Protection = "NONE"
	// ProtectionPassword marks a course behind the portal's form login
	// with a JSON success flag.
	ProtectionPassword Protection = "PWD"
	// ProtectionETH marks a course behind the institutional security
	// check, which signals failure only through a marker substring.
	ProtectionETH Protection = "ETH"
)

// Course is a registered lecture series, keyed by its registration URL.
type Course struct {
	URL        string     `json:"url"`
	Name       string     `json:"name"`
	Protection Protection `json:"protection"`

	// Username is the stored login name for protected courses.
	Username string `json:"username,omitempty"`
	// Password is persisted only for ProtectionPassword courses.
	// Institutional credentials are never written to disk.
	Password string `json:"password,omitempty"`

	// Episodes is always chronological, oldest first. The portal
	// delivers newest-first; the order is fixed once at fetch time and
	// never reversed again downstream.
	Episodes []Episode `json:"episodes"`

	// LastPlayedSeconds is the absolute resume offset in seconds across
	// the concatenated course timeline. Zero or absent means playback
	// starts from the beginning.
	LastPlayedSeconds int `json:"last_played_seconds,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Episode is one recorded session within a course.
type Episode struct {
	ID              string         `json:"id"` // identifier issued by the portal
	Title           string         `json:"title,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	DurationSeconds float64        `json:"duration_seconds"`
	Presentations   []Presentation `json:"presentations"`
}

// Presentation is one resolution-specific playable stream for an episode.
type Presentation struct {
	Height int    `json:"height"` // vertical resolution in pixels
	URL    string `json:"url"`
}

// FirstEpisode returns the chronologically first episode, or nil for a
// course with no episodes. Its creation timestamp drives the staleness
// check during updates.
func (c *Course) FirstEpisode() *Episode {
	if len(c.Episodes) == 0 {
		return nil
	}
	return &c.Episodes[0]
}

// TotalDurationSeconds is the length of the whole course timeline.
func (c *Course) TotalDurationSeconds() float64 {
	var total float64
	for _, ep := range c.Episodes {
		total += ep.DurationSeconds
	}
	return total
}
