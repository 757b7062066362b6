// Package lectsync is a personal catalog and playback client for a
// lecture-video portal.
//
// It registers courses by their portal URL, authenticates against the
// portal's session protocols, keeps episode metadata synchronized in a
// persisted catalog, and produces resolution-filtered playlists with a
// resumable playback offset.
//
// Overview
//
// A registered course goes through the following flow:
//
//   - add: validate the registration URL, log in if the course is
//     protected, fetch every episode's metadata, and insert the course
//     into the catalog
//   - play: re-synchronize the course (skipped when the portal reports
//     nothing new), render a playlist at the target resolution, launch
//     the external player, and record the resume offset from the
//     player's output after it exits
//   - remove: delete the course from the catalog
//
// Quick Start
//
// Open a catalog and register a course:
//
//	store, err := catalog.Open("catalog.json")
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer store.Close()
//
//	client, err := portal.NewClient(nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//	auth := portal.NewAuthenticator(client)
//	mgr := portal.NewSyncManager(store, client, auth, 3)
//	course, err := mgr.Add(ctx, courseURL, portal.StaticCredentials{User: "u", Pass: "p"})
//
// Render a playlist for playback:
//
//	path, err := playlist.Write(".", course, 1080)
//
// Configuration
//
// lectsync loads settings from multiple sources:
//
//   1. Environment variables (highest priority)
//   2. Config file (lectsync.json or ~/.config/lectsync/lectsync.json)
//   3. An optional .env file in the working directory
//   4. Default values (lowest priority)
//
// Environment variables:
//
//   - LECTSYNC_CATALOG: Path to the catalog file
//   - LECTSYNC_PLAYLIST_DIR: Directory for generated playlists
//   - LECTSYNC_RESOLUTION: Target vertical resolution in pixels
//   - LECTSYNC_PLAYER: Path to the media player binary
//   - LECTSYNC_HTTP_TIMEOUT: Timeout for portal requests
//   - LECTSYNC_MAX_LOGIN_ATTEMPTS: Credential prompt budget
//
// Error Handling
//
// All operations return errors that implement standard Go error handling:
//
//	if errors.Is(err, lectsync.ErrInvalidURL) {
//		fmt.Println("not a course registration URL")
//	}
//
//	var authErr *lectsync.AuthError
//	if errors.As(err, &authErr) {
//		fmt.Printf("login to %s failed: %v\n", authErr.Course, authErr.Err)
//	}
//
// Sub-packages:
//
//   - portal: portal endpoints, authentication, and metadata sync
//   - catalog: persistent course catalog storage
//   - playlist: playlist generation
//   - player: external player launch and resume tracking
//   - config: configuration management
//   - retry: exponential backoff retry logic
//
// Dependencies
//
// Playback requires an mpv-compatible media player installed in PATH or
// configured via LECTSYNC_PLAYER.
package lectsync
