package components

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"
)

// Page is the html shell, a refresh of zero turns the automatic reload off
func Page(title string, refreshSeconds int, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := &htmlWriter{w: w}
		hw.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		hw.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		if refreshSeconds > 0 {
			hw.raw(`<meta http-equiv="refresh" content="` + strconv.Itoa(refreshSeconds) + `">`)
		}
		hw.raw(`<title>`)
		hw.text(title)
		hw.raw(`</title><link rel="stylesheet" href="/static/style.css"></head><body><main>`)
		if hw.err != nil {
			return hw.err
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		hw.raw(`</main></body></html>`)
		return hw.err
	})
}
