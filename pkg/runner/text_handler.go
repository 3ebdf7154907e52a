package runner

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/aretw0/paylist/pkg/domain"
)

// TextHandler implements the standard text-based interface.
type TextHandler struct {
	Reader   *bufio.Reader
	Writer   io.Writer
	Renderer ContentRenderer

	// Prompt is printed before every read. Empty disables it.
	Prompt string

	writeMu sync.Mutex
	lines   lineReader
}

// TextHandlerOption defines configuration for TextHandler.
type TextHandlerOption func(*TextHandler)

// WithTextHandlerRenderer configures the content renderer.
func WithTextHandlerRenderer(renderer ContentRenderer) TextHandlerOption {
	return func(h *TextHandler) {
		h.Renderer = renderer
	}
}

// WithPrompt overrides the input prompt.
func WithPrompt(prompt string) TextHandlerOption {
	return func(h *TextHandler) {
		h.Prompt = prompt
	}
}

// NewTextHandler creates a handler for standard text IO.
func NewTextHandler(r io.Reader, w io.Writer, opts ...TextHandlerOption) *TextHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	h := &TextHandler{
		Reader: bufio.NewReader(r),
		Writer: w,
		Prompt: "> ",
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Output writes the form as markdown, rendered when a Renderer is set.
func (h *TextHandler) Output(ctx context.Context, view domain.View) error {
	return h.write(FormatView(view))
}

// Input reads lines until one parses as a command. Oversized or malformed lines are
// reported to the user and retried; unknown commands are returned as errors.
func (h *TextHandler) Input(ctx context.Context) (Command, error) {
	inputs := h.lines.start(h.Reader)

	for {
		select {
		case <-ctx.Done():
			return Command{}, ctx.Err()
		default:
		}
		if h.Prompt != "" {
			h.writeMu.Lock()
			fmt.Fprint(h.Writer, h.Prompt)
			h.writeMu.Unlock()
		}

		select {
		case <-ctx.Done():
			return Command{}, ctx.Err()
		case res, ok := <-inputs:
			if !ok {
				return Command{}, io.EOF
			}
			if res.err != nil {
				return Command{}, res.err
			}

			clean, err := SanitizeInput(strings.TrimSpace(res.text))
			if err != nil {
				h.writeMu.Lock()
				fmt.Fprintf(h.Writer, "Error: %v. Please try again.\n", err)
				h.writeMu.Unlock()
				continue
			}
			if clean == "" {
				continue
			}
			return ParseCommand(clean)
		}
	}
}

// SystemOutput prints a meta-message.
func (h *TextHandler) SystemOutput(ctx context.Context, msg string) error {
	return h.write(msg)
}

func (h *TextHandler) write(markdown string) error {
	output := markdown
	if h.Renderer != nil {
		if rendered, err := h.Renderer(markdown); err == nil {
			output = rendered
		}
	}

	h.writeMu.Lock()
	defer h.writeMu.Unlock()
	_, err := fmt.Fprintln(h.Writer, strings.TrimSpace(output))
	return err
}
