package session

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const banner = `
$$$$$$$$\                             $$$$$$\             $$\               $$\
\__$$  __|                           $$  __$$\            $$ |              $$ |
   $$ |$$\   $$\ $$$$$$$\   $$$$$$\  $$ /  \__| $$$$$$\ $$$$$$\    $$$$$$$\ $$$$$$$\   $$$$$$\   $$$$$$\
   $$ |$$ |  $$ |$$  __$$\ $$  __$$\ $$ |       \____$$\\_$$  _|  $$  _____|$$  __$$\ $$  __$$\ $$  __$$\
   $$ |$$ |  $$ |$$ |  $$ |$$$$$$$$ |$$ |       $$$$$$$ | $$ |    $$ /      $$ |  $$ |$$$$$$$$ |$$ |  \__|
   $$ |$$ |  $$ |$$ |  $$ |$$   ____|$$ |  $$\ $$  __$$ | $$ |$$\ $$ |      $$ |  $$ |$$   ____|$$ |
   $$ |\$$$$$$  |$$ |  $$ |\$$$$$$$\ \$$$$$$  |\$$$$$$$ | \$$$$  |\$$$$$$$\ $$ |  $$ |\$$$$$$$\ $$ |
   \__| \______/ \__|  \__| \_______| \______/  \_______|  \____/  \_______|\__|  \__| \_______|\__|
`

var (
	bannerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7FDBFF")).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F8F8F2"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00F5D4")).
			Bold(true)

	dividerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A6ADC8")).
			Faint(true)

	commandStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFD166"))

	noticeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00F5D4"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7FDBFF"))
)

// renderMenu shows the banner and current settings above the command list.
func renderMenu(state State, outputRoot string) string {
	var b strings.Builder

	b.WriteString(bannerStyle.Render(banner))
	b.WriteString("\n")

	modeDisplay := "M4A Audio"
	qualityInfo := "High Quality"
	if state.Mode == ModeVideo {
		modeDisplay = "MKV Video"
		qualityInfo = fmt.Sprintf("Max: %dp", state.Quality)
	}
	limitDisplay := "all"
	if state.PlaylistLimit > 0 {
		limitDisplay = fmt.Sprintf("%d", state.PlaylistLimit)
	}

	b.WriteString(fmt.Sprintf("%s %s %s %s\n",
		labelStyle.Render("Mode:"),
		valueStyle.Render(modeDisplay),
		dividerStyle.Render("|"),
		valueStyle.Render(qualityInfo),
	))
	b.WriteString(fmt.Sprintf("%s %s %s %s %s\n",
		labelStyle.Render("Output:"),
		valueStyle.Render(outputRoot),
		dividerStyle.Render("|"),
		labelStyle.Render("Playlist:"),
		valueStyle.Render(limitDisplay),
	))
	b.WriteString(dividerStyle.Render(strings.Repeat("=", 80)))
	b.WriteString("\n")
	b.WriteString(commandStyle.Render("[1] Toggle Mode  [2] Video Quality  [3] Playlist Limit  [q] Quit"))
	b.WriteString("\n")
	b.WriteString(promptStyle.Render("Paste URL or command:"))
	b.WriteString("\n> ")

	return b.String()
}
