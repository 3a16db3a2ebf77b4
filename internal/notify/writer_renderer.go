package notify

import (
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
)

type writerRenderer struct {
	out io.Writer
	mu  sync.Mutex
}

// NewWriterRenderer returns a Renderer that prints each Notice as a single
// colorized line. A stream cannot retract what it has printed, so expiry and
// dismissal are silent.
func NewWriterRenderer(out io.Writer) Renderer {
	return &writerRenderer{
		out: out,
	}
}

func (w *writerRenderer) Show(notice Notice) {
	var prefix string
	switch notice.Level {
	case LevelSuccess:
		prefix = color.GreenString("✔")
	case LevelError:
		prefix = color.RedString("✖")
	default:
		prefix = color.CyanString("•")
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	fmt.Fprintf(w.out, "%s %s\n", prefix, notice.Message)
}

func (w *writerRenderer) Hide(Notice) {}
