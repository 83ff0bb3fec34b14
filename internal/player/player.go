// Package player hands resolved streams to mpv or vlc.
package player

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/leoallday/movwatch/internal/util"
	"github.com/pkg/errors"
)

const (
	MPV = "mpv"
	VLC = "vlc"

	socketAttempts = 30
	socketInterval = 100 * time.Millisecond
)

// Request describes one playback
type Request struct {
	URL       string
	Title     string
	Subtitles []string
	// OnStart runs once the player is actually playing
	OnStart func()
}

// Player launches an external media player and blocks until it exits
type Player struct {
	kind     string
	lookPath func(string) (string, error)
	command  func(ctx context.Context, name string, args ...string) *exec.Cmd
}

// New returns a player for kind ("mpv" or "vlc"); anything else means mpv
func New(kind string) *Player {
	kind = strings.ToLower(strings.TrimSpace(kind))
	if kind != VLC {
		kind = MPV
	}
	return &Player{kind: kind, lookPath: exec.LookPath, command: exec.CommandContext}
}

// Kind returns the configured player binary
func (p *Player) Kind() string {
	return p.kind
}

// Play starts the player and waits for it to exit
func (p *Player) Play(ctx context.Context, req Request) error {
	if req.URL == "" {
		return errors.New("nothing to play")
	}

	bin, err := p.lookPath(p.kind)
	if err != nil {
		return errors.Wrapf(err, "%s not found in PATH", p.kind)
	}

	var (
		args   []string
		socket string
	)
	if p.kind == VLC {
		args = VLCArgs(req.URL, req.Title, req.Subtitles)
	} else {
		socket = socketPath()
		args = MPVArgs(req.URL, req.Title, req.Subtitles, socket)
		defer removeSocket(socket)
	}

	util.Debug("Starting player", "player", p.kind, "args", args)
	cmd := p.command(ctx, bin, args...)
	setProcessGroup(cmd)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return errors.Wrapf(err, "failed to start %s", p.kind)
	}

	exited := make(chan struct{})
	watchDone := make(chan struct{})
	go func() {
		defer close(watchDone)
		if socket != "" && !waitForSocket(ctx, socket, exited) {
			util.Debug("mpv IPC socket never appeared", "socket", socket)
			return
		}
		if req.OnStart != nil {
			req.OnStart()
		}
	}()

	err = cmd.Wait()
	close(exited)
	<-watchDone
	if err != nil && ctx.Err() == nil {
		return errors.Wrapf(err, "%s exited: %s", p.kind, strings.TrimSpace(stderr.String()))
	}
	return nil
}

// MPVArgs builds the mpv command line; every subtitle gets its own --sub-file
func MPVArgs(url, title string, subtitles []string, socket string) []string {
	args := []string{"--no-terminal", "--quiet"}
	if title != "" {
		args = append(args, "--force-media-title="+title)
	}
	for _, sub := range subtitles {
		args = append(args, "--sub-file="+sub)
	}
	if socket != "" {
		args = append(args, "--input-ipc-server="+socket)
	}
	return append(args, url)
}

// VLCArgs builds the vlc command line; vlc only takes the first subtitle
func VLCArgs(url, title string, subtitles []string) []string {
	args := []string{"--play-and-exit"}
	if title != "" {
		args = append(args, "--meta-title="+title)
	}
	if len(subtitles) > 0 {
		args = append(args, "--sub-file="+subtitles[0])
	}
	return append(args, url)
}

// waitForSocket polls until mpv answers on its IPC socket. It gives up when
// ctx ends or the player process exits.
func waitForSocket(ctx context.Context, socket string, exited <-chan struct{}) bool {
	for i := 0; i < socketAttempts; i++ {
		if _, err := SendCommand(socket, "get_property", "pid"); err == nil {
			return true
		}
		select {
		case <-ctx.Done():
			return false
		case <-exited:
			return false
		case <-time.After(socketInterval):
		}
	}
	return false
}

// SendCommand sends a JSON IPC command to mpv and returns its data field
func SendCommand(socket string, command ...interface{}) (interface{}, error) {
	conn, err := dialMPVSocket(socket)
	if err != nil {
		return nil, err
	}
	defer func() { _ = conn.Close() }()
	_ = conn.SetDeadline(time.Now().Add(2 * time.Second))

	payload, err := json.Marshal(map[string]interface{}{"command": command})
	if err != nil {
		return nil, err
	}
	if _, err := conn.Write(append(payload, '\n')); err != nil {
		return nil, err
	}

	buffer := make([]byte, 4096)
	n, err := conn.Read(buffer)
	if err != nil {
		return nil, err
	}

	// mpv may interleave event lines with the reply
	for _, line := range bytes.Split(buffer[:n], []byte("\n")) {
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		var response map[string]interface{}
		if err := json.Unmarshal(line, &response); err != nil {
			util.Debug("Skipping malformed mpv reply", "error", err)
			continue
		}
		if _, isEvent := response["event"]; isEvent {
			continue
		}
		if msg, ok := response["error"].(string); ok && msg != "success" {
			return nil, fmt.Errorf("mpv: %s", msg)
		}
		if data, exists := response["data"]; exists {
			return data, nil
		}
	}
	return nil, errors.New("no data field in mpv response")
}
