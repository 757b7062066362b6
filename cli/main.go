package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"

	"golang.org/x/crypto/ssh/terminal"

	"lectsync/catalog"
	"lectsync/config"
	"lectsync/player"
	"lectsync/playlist"
	"lectsync/portal"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	// A stray Ctrl-C during a prompt or sync should say goodbye and leave;
	// catalog saves are atomic, so the file on disk stays consistent.
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	go func() {
		<-interrupt
		fmt.Fprintln(os.Stderr, "\nBye.")
		os.Exit(0)
	}()

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "add":
		cmdAdd(args)
	case "remove", "delete":
		cmdRemove(args)
	case "play":
		cmdPlay(args)
	case "list":
		cmdList(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command %q\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `lectsync - lecture portal catalog and playback client

Usage:
  lectsync add [flags] <course-url>     Register a course
  lectsync remove [flags] <course-url>  Remove a course (alias: delete)
  lectsync play [flags] <course-url>    Sync, generate a playlist, and play
  lectsync list [flags]                 List registered courses
  lectsync help                         Show this help message

Examples:
  lectsync add https://portal.example/lectures/d-infk/2022/spring/252-0027-00L
  lectsync play -res 720 <course-url>            # Play at 720p
  lectsync play -force <course-url>              # Refetch even if unchanged
  lectsync remove <course-url>                   # Forget a course

For help on a specific command: lectsync <command> -h
`)
}

func cmdAdd(args []string) {
	fs := newFlagSet("add", "Usage: lectsync add [flags] <course-url>")
	catalogPath := fs.String("catalog", "", "Catalog file path (overrides config)")
	fs.Parse(args)

	url := singleURLArg(fs)
	cfg := loadConfig(*catalogPath)

	store := openStore(cfg)
	defer store.Close()

	mgr, client := newManager(cfg, store)
	defer client.Close()

	fmt.Fprintf(os.Stderr, "Registering %s...\n", url)
	course, err := mgr.Add(context.Background(), url, promptCredentials{})
	if err != nil {
		exitOnAddError(url, err)
	}

	fmt.Fprintf(os.Stderr, "Registered %q (%d episodes, protection %s)\n",
		course.Name, len(course.Episodes), course.Protection)
}

func cmdRemove(args []string) {
	fs := newFlagSet("remove", "Usage: lectsync remove [flags] <course-url>")
	catalogPath := fs.String("catalog", "", "Catalog file path (overrides config)")
	fs.Parse(args)

	url := singleURLArg(fs)
	cfg := loadConfig(*catalogPath)

	base, err := portal.CourseURL(url)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %q is not a course registration URL\n", url)
		os.Exit(1)
	}

	store := openStore(cfg)
	defer store.Close()

	removed, err := store.Delete(base)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error removing course: %v\n", err)
		os.Exit(1)
	}
	if removed {
		fmt.Fprintf(os.Stderr, "Removed %s\n", base)
	} else {
		fmt.Fprintf(os.Stderr, "%s is not registered\n", base)
	}
}

func cmdPlay(args []string) {
	fs := newFlagSet("play", "Usage: lectsync play [flags] <course-url>")
	catalogPath := fs.String("catalog", "", "Catalog file path (overrides config)")
	playlistDir := fs.String("dir", "", "Playlist directory (overrides config)")
	resolution := fs.Int("res", 0, "Target vertical resolution in pixels (overrides config)")
	playerPath := fs.String("player", "", "Media player binary (overrides config)")
	force := fs.Bool("force", false, "Refetch episodes even when the course looks unchanged")
	fs.Parse(args)

	url := singleURLArg(fs)
	cfg := loadConfig(*catalogPath)
	if *playlistDir != "" {
		cfg.PlaylistDir = *playlistDir
	}
	if *resolution != 0 {
		cfg.Resolution = *resolution
	}
	if *playerPath != "" {
		cfg.PlayerPath = *playerPath
	}

	base, err := portal.CourseURL(url)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %q is not a course registration URL\n", url)
		os.Exit(1)
	}

	store := openStore(cfg)
	defer store.Close()

	mgr, client := newManager(cfg, store)
	defer client.Close()

	ctx := context.Background()

	fmt.Fprintf(os.Stderr, "Synchronizing %s...\n", base)
	if err := mgr.Update(ctx, base, *force, promptCredentials{}); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			fmt.Fprintf(os.Stderr, "Error: %s is not registered, run 'lectsync add' first\n", base)
		} else {
			fmt.Fprintf(os.Stderr, "Error synchronizing course: %v\n", err)
		}
		os.Exit(1)
	}

	course, err := store.Get(base)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	path, err := playlist.Write(cfg.PlaylistDir, course, cfg.Resolution)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error writing playlist: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "Playlist saved in %s\n", path)

	if len(playlist.Build(course, cfg.Resolution).Entries) == 0 {
		fmt.Fprintf(os.Stderr, "No presentations at %dp, nothing to play\n", cfg.Resolution)
		return
	}

	fmt.Fprintf(os.Stderr, "Launching %s...\n", cfg.PlayerPath)
	result, err := player.New(cfg.PlayerPath).Play(ctx, path, course.LastPlayedSeconds)
	if err != nil {
		if errors.Is(err, player.ErrPlayerNotInstalled) {
			fmt.Fprintf(os.Stderr, "Error: player %q not found\n", cfg.PlayerPath)
			os.Exit(1)
		}
		// The player quitting non-zero is normal; its output may still
		// carry a usable resume position.
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	if result == nil {
		return
	}

	offset, ok := player.ResumeOffset(course, result.Stdout, result.Stderr)
	if !ok {
		fmt.Fprintln(os.Stderr, "No playback progress detected, resume position unchanged")
		return
	}
	if err := store.SetResumeOffset(base, offset); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not save resume position: %v\n", err)
		return
	}
	fmt.Fprintf(os.Stderr, "Resume position saved at %s\n", formatOffset(offset))
}

func cmdList(args []string) {
	fs := newFlagSet("list", "Usage: lectsync list [flags]")
	catalogPath := fs.String("catalog", "", "Catalog file path (overrides config)")
	fs.Parse(args)

	cfg := loadConfig(*catalogPath)

	store := openStore(cfg)
	defer store.Close()

	courses := store.List()
	if len(courses) == 0 {
		fmt.Println("No courses registered.")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "COURSE\tNAME\tPROTECTION\tEPISODES\tRESUME")
	for _, c := range courses {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
			portal.LectureNumber(c.URL),
			truncate(c.Name, 40),
			c.Protection,
			len(c.Episodes),
			formatOffset(c.LastPlayedSeconds),
		)
	}
	w.Flush()

	fmt.Fprintf(os.Stderr, "\nTotal: %d courses\n", len(courses))
}

// --- helpers ---

func newFlagSet(name, usage string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "%s\n\nFlags:\n", usage)
		fs.PrintDefaults()
	}
	return fs
}

func singleURLArg(fs *flag.FlagSet) string {
	argv := fs.Args()
	if len(argv) == 0 {
		fmt.Fprintf(os.Stderr, "Error: missing course-url\n")
		fs.Usage()
		os.Exit(1)
	}
	return argv[0]
}

func loadConfig(catalogOverride string) *config.Config {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if catalogOverride != "" {
		cfg.CatalogPath = catalogOverride
	}
	return cfg
}

func openStore(cfg *config.Config) *catalog.Store {
	store, err := catalog.Open(cfg.CatalogPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening catalog: %v\n", err)
		os.Exit(1)
	}
	return store
}

func newManager(cfg *config.Config, store *catalog.Store) (*portal.SyncManager, *portal.Client) {
	clientCfg := portal.DefaultClientConfig()
	clientCfg.Timeout = cfg.HTTPTimeout
	clientCfg.RequestsPerSecond = cfg.RequestsPerSecond

	client, err := portal.NewClient(clientCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating portal client: %v\n", err)
		os.Exit(1)
	}

	auth := portal.NewAuthenticator(client)
	return portal.NewSyncManager(store, client, auth, cfg.MaxLoginAttempts), client
}

func exitOnAddError(url string, err error) {
	switch {
	case errors.Is(err, portal.ErrInvalidURL):
		fmt.Fprintf(os.Stderr, "Error: %q is not a course registration URL\n", url)
	case errors.Is(err, portal.ErrUnknownAuthMethod):
		fmt.Fprintln(os.Stderr, "Error: unknown authentication method")
	case errors.Is(err, portal.ErrInvalidAuth):
		fmt.Fprintln(os.Stderr, "Error: unable to log in, check your username and password")
	default:
		fmt.Fprintf(os.Stderr, "Error registering course: %v\n", err)
	}
	os.Exit(1)
}

// promptCredentials asks for credentials on the terminal.
type promptCredentials struct{}

func (promptCredentials) Username() (string, error) {
	fmt.Fprint(os.Stderr, "Username: ")
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (promptCredentials) Password(username string) (string, error) {
	fmt.Fprint(os.Stderr, "Password: ")
	if terminal.IsTerminal(int(os.Stdin.Fd())) {
		pass, err := terminal.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", err
		}
		return string(pass), nil
	}
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func formatOffset(seconds int) string {
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	secs := seconds % 60

	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, secs)
	}
	return fmt.Sprintf("%d:%02d", minutes, secs)
}
