package session

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/tunecatcher/tunecatcher/internal/downloader"
)

// DownloadFunc is the external download capability the controller
// dispatches to. It must never be fatal: any error it returns is reported
// and the session continues.
type DownloadFunc func(ctx context.Context, url string, req downloader.Request) error

// Controller runs the interactive loop. It is the sole owner of the
// session State; nothing else mutates it.
type Controller struct {
	state      State
	outputRoot string
	in         *bufio.Reader
	out        io.Writer
	download   DownloadFunc

	// probePlaylist and pickQuality are swappable for tests; pickQuality
	// is nil when stdin is not a terminal.
	probePlaylist func(string) bool
	pickQuality   func(current int) (int, error)
}

func NewController(outputRoot string, download DownloadFunc) *Controller {
	c := &Controller{
		state:         NewState(),
		outputRoot:    outputRoot,
		in:            bufio.NewReader(os.Stdin),
		out:           os.Stdout,
		download:      download,
		probePlaylist: downloader.LooksLikePlaylist,
	}
	if isTerminal(os.Stdin) && isTerminal(os.Stderr) {
		c.pickQuality = runQualityPicker
	}
	return c
}

// Run reads one command per iteration until the exit command or EOF.
func (c *Controller) Run(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		fmt.Fprint(c.out, renderMenu(c.state, c.outputRoot))

		line, err := c.in.ReadString('\n')
		input := strings.TrimSpace(line)
		if err != nil {
			if err == io.EOF {
				if input != "" {
					c.dispatch(ctx, input)
				}
				return nil
			}
			return err
		}
		if input == "" {
			continue
		}
		if isExitCommand(input) {
			fmt.Fprintln(c.out, noticeStyle.Render("Goodbye!"))
			return nil
		}
		c.dispatch(ctx, input)
	}
}

func isExitCommand(input string) bool {
	switch strings.ToLower(input) {
	case "q", "quit", "exit":
		return true
	}
	return false
}

func isDigits(input string) bool {
	for _, r := range input {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(input) > 0
}

func (c *Controller) dispatch(ctx context.Context, input string) {
	switch {
	case input == "1":
		c.state.Mode = c.state.Mode.Toggle()
		fmt.Fprintln(c.out, noticeStyle.Render(">> Mode: "+strings.ToUpper(c.state.Mode.String())))
	case input == "2":
		c.changeQuality()
	case input == "3":
		c.changePlaylistLimit()
	case isDigits(input):
		fmt.Fprintln(c.out, errorStyle.Render("Invalid command."))
	default:
		c.handleURL(ctx, input)
	}
}

// changeQuality updates the quality cap. Invalid input keeps the previous
// value; validation never resets to a default.
func (c *Controller) changeQuality() {
	if c.pickQuality != nil {
		quality, err := c.pickQuality(c.state.Quality)
		if err == nil && quality > 0 {
			c.state.Quality = quality
			fmt.Fprintln(c.out, noticeStyle.Render(fmt.Sprintf(">> Set to %dp", quality)))
		}
		return
	}

	fmt.Fprintln(c.out, promptStyle.Render("Video Quality:"))
	for _, q := range AllowedQualities {
		fmt.Fprintf(c.out, "  %dp\n", q)
	}
	fmt.Fprint(c.out, "> ")
	input, err := c.readLine()
	if err != nil {
		return
	}
	quality, err := ValidateQuality(input)
	if err != nil {
		fmt.Fprintln(c.out, errorStyle.Render("Invalid choice."))
		return
	}
	c.state.Quality = quality
	fmt.Fprintln(c.out, noticeStyle.Render(fmt.Sprintf(">> Set to %dp", quality)))
}

func (c *Controller) changePlaylistLimit() {
	fmt.Fprint(c.out, promptStyle.Render("Playlist items ('5' or 'all'): "))
	input, err := c.readLine()
	if err != nil {
		return
	}
	limit, err := ParsePlaylistLimit(input)
	if err != nil {
		fmt.Fprintln(c.out, errorStyle.Render("Invalid input."))
		return
	}
	c.state.PlaylistLimit = limit
	if limit == 0 {
		fmt.Fprintln(c.out, noticeStyle.Render(">> Set to all"))
	} else {
		fmt.Fprintln(c.out, noticeStyle.Render(fmt.Sprintf(">> Set to %d", limit)))
	}
}

// handleURL builds an immutable download request from current settings and
// dispatches it. Download failures are reported and swallowed; a failed
// download never ends the session.
func (c *Controller) handleURL(ctx context.Context, raw string) {
	url, err := downloader.ValidateURL(raw)
	if err != nil {
		fmt.Fprintln(c.out, errorStyle.Render("Invalid input: "+err.Error()))
		return
	}

	limit := 0
	if c.probePlaylist(url) {
		limit = c.promptPlaylistItems()
	}

	req := downloader.BuildRequest(c.state.Mode == ModeAudio, c.state.Quality, c.outputRoot, limit)
	if err := c.download(ctx, url, req); err != nil {
		if !downloader.IsReported(err) {
			fmt.Fprintln(c.out, errorStyle.Render("✗ Error: "+err.Error()))
		}
		return
	}
	fmt.Fprintln(c.out, noticeStyle.Render("✓ Complete! Files in: "+req.OutputDir))
}

// promptPlaylistItems asks how many entries to take from a detected
// playlist. Empty or malformed input falls back to the stored limit.
func (c *Controller) promptPlaylistItems() int {
	defaultDisplay := "all"
	if c.state.PlaylistLimit > 0 {
		defaultDisplay = fmt.Sprintf("%d", c.state.PlaylistLimit)
	}
	fmt.Fprintln(c.out, promptStyle.Render("Playlist detected."))
	fmt.Fprintf(c.out, "Items to download (default %s): ", defaultDisplay)

	input, err := c.readLine()
	if err != nil || input == "" {
		return c.state.PlaylistLimit
	}
	limit, err := ParsePlaylistLimit(input)
	if err != nil {
		return c.state.PlaylistLimit
	}
	return limit
}

func (c *Controller) readLine() (string, error) {
	line, err := c.in.ReadString('\n')
	input := strings.TrimSpace(line)
	if err != nil && input == "" {
		return "", err
	}
	return input, nil
}

func isTerminal(file *os.File) bool {
	info, err := file.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
