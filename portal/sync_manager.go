package portal

import (
	"context"
	"errors"
	"log"

	"lectsync/catalog"
)

// SyncManager orchestrates course registration and re-synchronization
// against the portal. It owns the staleness decision, the stored-credential
// adapters for updates, and a per-run cache of institutional passwords so
// one process run never prompts twice for the same course.
type SyncManager struct {
	store            *catalog.Store
	client           *Client
	auth             *Authenticator
	maxLoginAttempts int

	// sessionPasswords caches institutional passwords for this run only,
	// keyed by course URL. They are never persisted.
	sessionPasswords map[string]string
}

// NewSyncManager creates a sync manager. maxLoginAttempts bounds
// interactive credential retries; stored credentials always get a single
// attempt.
func NewSyncManager(store *catalog.Store, client *Client, auth *Authenticator, maxLoginAttempts int) *SyncManager {
	if maxLoginAttempts < 1 {
		maxLoginAttempts = 1
	}
	return &SyncManager{
		store:            store,
		client:           client,
		auth:             auth,
		maxLoginAttempts: maxLoginAttempts,
		sessionPasswords: make(map[string]string),
	}
}

// Add registers the course at rawURL: validates the URL, logs in if the
// course is protected, synchronizes every episode, and inserts the course.
// Registration is first-write-wins: adding an already registered URL is a
// no-op returning the existing course. On any failure nothing is persisted.
func (m *SyncManager) Add(ctx context.Context, rawURL string, creds CredentialSource) (*catalog.Course, error) {
	base, err := CourseURL(rawURL)
	if err != nil {
		return nil, err
	}

	if existing, err := m.store.Get(base); err == nil {
		log.Printf("lectsync: %s already registered, keeping existing entry", base)
		return existing, nil
	}

	m.client.SetReferer(refererURL(base))

	series, err := m.client.FetchSeries(ctx, base)
	if err != nil {
		return nil, err
	}

	if series.Protection != catalog.ProtectionNone {
		if err := m.auth.Login(ctx, base, series.Protection, creds, m.maxLoginAttempts); err != nil {
			return nil, err
		}
	}

	episodes, err := m.fetchEpisodes(ctx, base, series.Episodes)
	if err != nil {
		return nil, err
	}

	course := &catalog.Course{
		URL:        base,
		Name:       series.Title,
		Protection: series.Protection,
		Episodes:   episodes,
	}
	switch series.Protection {
	case catalog.ProtectionPassword:
		course.Username = m.auth.LastUsername
		course.Password = m.auth.LastPassword
	case catalog.ProtectionETH:
		course.Username = m.auth.LastUsername
		m.sessionPasswords[base] = m.auth.LastPassword
	}

	if err := m.store.Insert(course); err != nil {
		return nil, err
	}
	log.Printf("lectsync: registered %s (%d episodes)", base, len(episodes))
	return course, nil
}

// Update re-synchronizes the course at url. Unless force is set, the
// per-episode fetches are skipped when the chronologically first episode's
// creation timestamp matches the portal's. prompt supplies credentials
// when none are stored; it may be nil for courses with a stored or cached
// password.
func (m *SyncManager) Update(ctx context.Context, url string, force bool, prompt CredentialSource) error {
	course, err := m.store.Get(url)
	if err != nil {
		return err
	}

	m.client.SetReferer(refererURL(url))

	series, err := m.client.FetchSeries(ctx, url)
	if err != nil {
		return err
	}
	if series.Protection != course.Protection {
		// Protection kind is immutable for a URL's lifetime; trust the
		// stored value and flag the mismatch.
		log.Printf("lectsync: portal reports protection %s for %s, stored %s", series.Protection, url, course.Protection)
	}

	if course.Protection != catalog.ProtectionNone {
		if err := m.loginStored(ctx, course, prompt); err != nil {
			return err
		}
	}

	if !force && !m.stale(course, series) {
		log.Printf("lectsync: %s is up to date, skipping episode sync", url)
		return nil
	}

	episodes, err := m.fetchEpisodes(ctx, url, series.Episodes)
	if err != nil {
		return err
	}

	course.Name = series.Title
	course.Episodes = episodes
	if err := m.store.Put(course); err != nil {
		return err
	}
	log.Printf("lectsync: synchronized %s (%d episodes)", url, len(episodes))
	return nil
}

// loginStored authenticates an update using the stored username and either
// the stored password (PWD) or the per-run cached password (ETH). A stored
// credential set gets exactly one attempt; only an interactive prompt gets
// the full attempt budget.
func (m *SyncManager) loginStored(ctx context.Context, course *catalog.Course, prompt CredentialSource) error {
	var creds CredentialSource
	attempts := 1

	switch course.Protection {
	case catalog.ProtectionPassword:
		creds = StaticCredentials{User: course.Username, Pass: course.Password}
	case catalog.ProtectionETH:
		if pass, ok := m.sessionPasswords[course.URL]; ok {
			creds = StaticCredentials{User: course.Username, Pass: pass}
		} else {
			if prompt == nil {
				return &AuthError{Course: course.URL, Err: errors.New("no credentials available")}
			}
			creds = storedUserCredentials{username: course.Username, fallback: prompt}
			attempts = m.maxLoginAttempts
		}
	default:
		return &AuthError{Course: course.URL, Err: ErrUnknownAuthMethod}
	}

	if err := m.auth.Login(ctx, course.URL, course.Protection, creds, attempts); err != nil {
		return err
	}
	if course.Protection == catalog.ProtectionETH {
		m.sessionPasswords[course.URL] = m.auth.LastPassword
	}
	return nil
}

// stale reports whether the portal's chronologically first episode differs
// from the stored one. Courses with no stored episodes are always stale.
func (m *SyncManager) stale(course *catalog.Course, series *Series) bool {
	first := course.FirstEpisode()
	if first == nil || len(series.Episodes) == 0 {
		return true
	}
	return !first.CreatedAt.Equal(series.Episodes[0].CreatedAt)
}

// fetchEpisodes retrieves full metadata for every episode stub, preserving
// the chronological order established by FetchSeries.
func (m *SyncManager) fetchEpisodes(ctx context.Context, base string, stubs []EpisodeStub) ([]catalog.Episode, error) {
	episodes := make([]catalog.Episode, 0, len(stubs))
	for _, stub := range stubs {
		ep, err := m.client.FetchEpisode(ctx, base, stub)
		if err != nil {
			return nil, err
		}
		episodes = append(episodes, ep)
	}
	return episodes, nil
}

// storedUserCredentials pins the stored username while deferring the
// password to an interactive source.
type storedUserCredentials struct {
	username string
	fallback CredentialSource
}

func (s storedUserCredentials) Username() (string, error) {
	if s.username != "" {
		return s.username, nil
	}
	return s.fallback.Username()
}

func (s storedUserCredentials) Password(username string) (string, error) {
	return s.fallback.Password(username)
}
