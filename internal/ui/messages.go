package ui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/ktr0731/go-fuzzyfinder"
	"github.com/manifoldco/promptui"
)

// ErrBack is returned by every picker when the user backs out
var ErrBack = errors.New("back")

// Generic user-facing messages
const (
	MsgNoMedia       = "No media found"
	MsgNoStream      = "Could not resolve stream"
	MsgNoEpisodes    = "No seasons/episodes found"
	MsgNoHistory     = "No watch history yet"
	MsgNoFavorites   = "No favorites yet"
	MsgSettingsSaved = "Settings saved"
)

// MessageKind selects the styling of a message box
type MessageKind int

const (
	MessageInfo MessageKind = iota
	MessageSuccess
	MessageError
)

// backOut maps the abort errors of the prompt libraries onto ErrBack
func backOut(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, fuzzyfinder.ErrAbort),
		errors.Is(err, promptui.ErrInterrupt),
		errors.Is(err, promptui.ErrEOF),
		errors.Is(err, promptui.ErrAbort),
		errors.Is(err, huh.ErrUserAborted):
		return ErrBack
	}
	return err
}

// RenderMessage draws a boxed message
func RenderMessage(st Styles, kind MessageKind, title, body string) string {
	var head string
	switch kind {
	case MessageError:
		head = st.Error.Render("✗ " + title)
	case MessageSuccess:
		head = st.Success.Render("✓ " + title)
	default:
		head = st.Title.Render(title)
	}
	if body = strings.TrimSpace(body); body != "" {
		head += "\n" + st.Muted.Render(body)
	}
	return st.Box.Render(head)
}

// RenderNowPlaying draws the banner shown while the player runs
func RenderNowPlaying(st Styles, title, episode string) string {
	body := st.Title.Render("▶ Now playing") + "\n" + title
	if episode != "" {
		body += "\n" + st.Muted.Render(episode)
	}
	body += "\n\n" + st.Muted.Render("close the player to return")
	return st.Box.Render(body)
}
