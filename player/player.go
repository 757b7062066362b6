// Package player launches the external media player on a generated
// playlist and inspects its captured output to track the resume position.
package player

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
)

const defaultPlayerPath = "mpv"

// ErrPlayerNotInstalled indicates the player binary was not found.
var ErrPlayerNotInstalled = errors.New("player: binary not found")

// Player runs an mpv-compatible media player as a separate process.
type Player struct {
	// Path is the player binary. Defaults to "mpv".
	Path string
}

// New creates a player for the given binary path; empty means the default.
func New(path string) *Player {
	return &Player{Path: path}
}

// Result holds the player's captured terminal output after it exited.
type Result struct {
	Stdout string
	Stderr string
}

// Play launches the player on the playlist, blocks until it exits, and
// returns the captured output. startSeconds, when positive, is passed as
// the player's start option so players that ignore the playlist-level
// start directive still resume.
//
// A non-zero player exit still returns the captured output: playback the
// user quit midway is a normal outcome and the output is what the resume
// tracker needs.
func (p *Player) Play(ctx context.Context, playlistPath string, startSeconds int) (*Result, error) {
	if err := p.checkInstalled(ctx); err != nil {
		return nil, err
	}

	args := []string{"--playlist=" + playlistPath}
	if startSeconds > 0 {
		args = append(args, fmt.Sprintf("--start=%d", startSeconds))
	}

	cmd := exec.CommandContext(ctx, p.path(), args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := &Result{Stdout: stdout.String(), Stderr: stderr.String()}
	if err != nil {
		if ctx.Err() != nil {
			return result, ctx.Err()
		}
		return result, fmt.Errorf("player exited: %w", err)
	}
	return result, nil
}

// checkInstalled verifies that the player binary is available.
func (p *Player) checkInstalled(ctx context.Context) error {
	cmd := exec.CommandContext(ctx, p.path(), "--version")
	if err := cmd.Run(); err != nil {
		return ErrPlayerNotInstalled
	}
	return nil
}

func (p *Player) path() string {
	if p.Path != "" {
		return p.Path
	}
	return defaultPlayerPath
}
