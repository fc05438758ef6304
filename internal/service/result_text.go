package service

import (
	"fmt"
	"io"
	"strings"
)

// WriteText renders view for a terminal. A nil view writes nothing.
func WriteText(w io.Writer, view *ResultView) error {
	if view == nil {
		return nil
	}
	var b strings.Builder
	b.WriteString("JSON Script Analysis Result\n")
	for _, p := range view.Panels {
		fmt.Fprintf(&b, "\n== %s (%d)\n", p.Tab, len(p.Items))
		if p.Empty {
			fmt.Fprintf(&b, "  %s\n", p.EmptyMessage)
			continue
		}
		for _, item := range p.Items {
			fmt.Fprintf(&b, "  %s\n", item.Title)
			for _, line := range strings.Split(item.Body, "\n") {
				fmt.Fprintf(&b, "      %s\n", line)
			}
		}
	}
	if len(view.Links) > 0 {
		b.WriteString("\nEducational Materials\n")
		for _, l := range view.Links {
			fmt.Fprintf(&b, "  - %s: %s\n", l.Title, l.URL)
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}
