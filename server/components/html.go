package components

import (
	"io"

	"github.com/a-h/templ"
)

// htmlWriter keeps the first write error so components can write freely
// and check once at the end
type htmlWriter struct {
	w   io.Writer
	err error
}

func (hw *htmlWriter) raw(s string) {
	if hw.err != nil {
		return
	}
	_, hw.err = io.WriteString(hw.w, s)
}

func (hw *htmlWriter) text(s string) {
	hw.raw(templ.EscapeString(s))
}
