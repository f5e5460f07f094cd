package components

import (
	"context"
	"io"

	"github.com/a-h/templ"
	"github.com/robert-nix/ansihtml"
)

// Logs shows the colored log lines kept in memory, oldest first
func Logs(lines [][]byte) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := &htmlWriter{w: w}
		hw.raw(`<header><h1>Recent logs</h1><p><a href="/">Back to the board</a></p></header>`)
		if len(lines) == 0 {
			hw.raw(`<p class="empty">Nothing logged yet.</p>`)
			return hw.err
		}
		hw.raw(`<pre class="logs">`)
		for _, line := range lines {
			hw.raw(string(ansihtml.ConvertToHTML(line)))
			hw.raw("\n")
		}
		hw.raw(`</pre>`)
		return hw.err
	})
}
