package menu

import (
	"bufio"
	"io"
	"strings"
)

// Format renders a single line for flavor f.
func Format(l Line, f Flavor) string {
	prefix := strings.Repeat("--", l.Depth)
	if l.Separator {
		return prefix + "---"
	}

	text := strings.ReplaceAll(l.Text, "\n", " ")
	attrs := f.attrs(l.Attrs)
	if len(attrs) == 0 {
		return prefix + text
	}
	return prefix + text + " | " + strings.Join(attrs, f.joiner())
}

// Write prints lines to w, one per row.
func Write(w io.Writer, lines []Line, f Flavor) error {
	bw := bufio.NewWriter(w)
	for _, l := range lines {
		if _, err := bw.WriteString(Format(l, f) + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}
