package trace

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

const clearHome = "\x1b[2J\x1b[H"

type castHeader struct {
	Version int    `json:"version"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	Title   string `json:"title,omitempty"`
}

// WriteCast writes frames as an asciinema v2 recording. Each frame redraws
// the whole screen.
func WriteCast(w io.Writer, title string, frames []Frame) error {
	width, height := 20, 1
	for _, f := range frames {
		if len(f.Lines) > height {
			height = len(f.Lines)
		}
		for _, l := range f.Lines {
			if n := len([]rune(l)); n > width {
				width = n
			}
		}
	}

	enc := json.NewEncoder(w)
	if err := enc.Encode(castHeader{Version: 2, Width: width + 2, Height: height + 1, Title: title}); err != nil {
		return fmt.Errorf("write cast header: %w", err)
	}
	for _, f := range frames {
		event := []any{f.At.Seconds(), "o", clearHome + strings.Join(f.Lines, "\r\n")}
		if err := enc.Encode(event); err != nil {
			return fmt.Errorf("write cast event: %w", err)
		}
	}
	return nil
}
