package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/wippyai/tardis-games/config"
	"github.com/wippyai/tardis-games/host"
)

const asciiRamp = " .:-=+*#%@"

// halfBlocks renders two canvas rows per terminal line: the upper pixel
// as the foreground of "▀" and the lower one as its background.
func halfBlocks(c *host.Canvas) string {
	var b strings.Builder
	for y := 0; y < c.Height(); y += 2 {
		for x := 0; x < c.Width(); x++ {
			top, bottom := hexColor(c.Raw(x, y)), hexColor(c.Raw(x, y+1))
			b.WriteString(lipgloss.NewStyle().
				Foreground(lipgloss.Color(top)).
				Background(lipgloss.Color(bottom)).
				Render("▀"))
		}
		if y+2 < c.Height() {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func hexColor(raw uint8) string {
	rgb, ok := host.Color(raw)
	if !ok {
		return "#000000"
	}
	return fmt.Sprintf("#%02x%02x%02x", rgb.R, rgb.G, rgb.B)
}

// ascii renders the canvas as text no wider than cols characters, two
// canvas rows per line.
func ascii(c *host.Canvas, cols int) string {
	step := 1
	if cols > 0 && c.Width() > cols {
		step = (c.Width() + cols - 1) / cols
	}
	var b strings.Builder
	for y := 0; y < c.Height(); y += 2 * step {
		for x := 0; x < c.Width(); x += step {
			b.WriteByte(asciiRamp[luma(c.Raw(x, y))*(len(asciiRamp)-1)/255])
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func luma(raw uint8) int {
	rgb, ok := host.Color(raw)
	if !ok {
		return 0
	}
	return (299*int(rgb.R) + 587*int(rgb.G) + 114*int(rgb.B)) / 1000
}

func terminalWidth(f *os.File) int {
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return 0
	}
	w, _, err := term.GetSize(fd)
	if err != nil {
		return 0
	}
	return w
}

// dump renders the game headless and prints the final screen.
func dump(ctx context.Context, g *loaded, cfg *config.Config, clickArg string, frames int) error {
	c := host.NewCanvas(cfg.Width, cfg.Height)
	if g.session == nil {
		host.DrawMissingGame(c, 0)
		writeScreen(os.Stdout, g.title, c)
		return fmt.Errorf("game %q not found", g.id)
	}

	s := g.session
	defer s.Unload(ctx)
	if err := s.Open(ctx); err != nil {
		return err
	}
	if clickArg != "" {
		ck, err := parseClick(clickArg)
		if err != nil {
			return err
		}
		consumed, err := s.Click(ctx, ck.click, ck.x, ck.y)
		if err != nil {
			return err
		}
		fmt.Printf("click consumed: %v\n", consumed)
	}
	for i := 0; i < max(frames, 1) && !s.Terminated(); i++ {
		if err := s.Tick(ctx); err != nil {
			return err
		}
		if err := s.Render(ctx); err != nil {
			return err
		}
	}

	writeScreen(os.Stdout, g.title, s.Snapshot())
	if s.Terminated() {
		fmt.Println("game closed itself")
	}
	return s.Close(ctx)
}

func writeScreen(w io.Writer, title string, c *host.Canvas) {
	fmt.Fprintf(w, "%s (%dx%d)\n", title, c.Width(), c.Height())
	fmt.Fprint(w, ascii(c, terminalWidth(os.Stdout)))
}

// soundLog keeps the latest sound requests for the status line.
type soundLog struct {
	mu   sync.Mutex
	last []host.Sound
}

func (l *soundLog) add(s host.Sound) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.last = append(l.last, s)
	if len(l.last) > 3 {
		l.last = l.last[len(l.last)-3:]
	}
}

func (l *soundLog) String() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	parts := make([]string, len(l.last))
	for i, s := range l.last {
		parts[i] = fmt.Sprintf("%s [%s]", s.ID, s.Category)
	}
	return strings.Join(parts, ", ")
}
