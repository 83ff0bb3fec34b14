package util

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	gray        = lipgloss.Color("#A9A9A9")
	darkGray    = lipgloss.Color("#5A5A5A")
	lightGreen  = lipgloss.Color("#90EE90")
	brightGreen = lipgloss.Color("#00FF7F")
	blue        = lipgloss.Color("#6366F1")

	helpTitleStyle = lipgloss.NewStyle().
			Foreground(blue).
			Bold(true).
			PaddingBottom(1).
			MarginLeft(2)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(gray).
			Italic(true).
			PaddingBottom(1).
			MarginLeft(2)

	sectionTitleStyle = lipgloss.NewStyle().
				Foreground(lightGreen).
				Bold(true).
				PaddingLeft(2)

	commandStyle = lipgloss.NewStyle().
			Foreground(brightGreen).
			Bold(true).
			PaddingLeft(4)

	descriptionStyle = lipgloss.NewStyle().
				Foreground(gray).
				PaddingLeft(6).
				Width(80 - 6)

	separatorStyle = lipgloss.NewStyle().
			Foreground(darkGray)
)

// ShowHelp prints the usage message
func ShowHelp() {
	var b strings.Builder

	b.WriteString(helpTitleStyle.Render("movwatch - browse and watch movies and TV shows from the terminal"))
	b.WriteString("\n")
	b.WriteString(subtitleStyle.Render("Search, pick an episode and play it in mpv or vlc."))
	b.WriteString("\n\n")

	b.WriteString(separatorStyle.Render(strings.Repeat("─", 80)))
	b.WriteString("\n")
	b.WriteString(sectionTitleStyle.Render("Usage:"))
	b.WriteString("\n")
	addEntry(&b, "movwatch", "Open the main menu")
	addEntry(&b, "movwatch [options] [query]", "Search directly for a movie or TV show")
	b.WriteString("\n")

	b.WriteString(separatorStyle.Render(strings.Repeat("─", 80)))
	b.WriteString("\n")
	b.WriteString(sectionTitleStyle.Render("Options:"))
	b.WriteString("\n")
	addEntry(&b, "-i, -interactive", "Force the minimal interactive CLI mode")
	addEntry(&b, "-l, -subs-lang <lang>", "Preferred subtitle language, tried before the configured list")
	addEntry(&b, "-config <path>", "Use a specific config file")
	addEntry(&b, "-debug", "Enable debug logging (also written to ~/.mov-watch/logs)")
	addEntry(&b, "-perf", "Print network timings on exit")
	addEntry(&b, "-update", "Download and install the latest release")
	addEntry(&b, "-version", "Show version information")
	addEntry(&b, "-help, -h", "Show this help message")
	b.WriteString("\n")

	b.WriteString(separatorStyle.Render(strings.Repeat("─", 80)))
	b.WriteString("\n")
	b.WriteString(sectionTitleStyle.Render("Main menu keys:"))
	b.WriteString("\n")
	addEntry(&b, "s", "Search")
	addEntry(&b, "l", "Watch history")
	addEntry(&b, "f", "Favorites")
	addEntry(&b, "c", "Settings")
	addEntry(&b, "q", "Quit")
	b.WriteString("\n")

	fmt.Print(b.String())
}

func addEntry(b *strings.Builder, cmd, desc string) {
	b.WriteString(commandStyle.Render("  " + cmd))
	b.WriteString("\n")
	b.WriteString(descriptionStyle.Render("    " + desc))
	b.WriteString("\n")
}
