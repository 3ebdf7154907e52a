package runner

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/aretw0/paylist/pkg/domain"
)

// Message is one line written by the JSONHandler.
type Message struct {
	Type    string       `json:"type"`
	View    *domain.View `json:"view,omitempty"`
	Message string       `json:"message,omitempty"`
}

// JSONHandler implements the IOHandler interface for structured JSON-Lines communication.
type JSONHandler struct {
	Reader  *bufio.Reader
	Encoder *json.Encoder

	mu    sync.Mutex
	lines lineReader
}

// NewJSONHandler creates a handler for JSON IO.
func NewJSONHandler(r io.Reader, w io.Writer) *JSONHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	return &JSONHandler{
		Reader:  bufio.NewReader(r),
		Encoder: json.NewEncoder(w),
	}
}

// Output emits {"type":"view","view":{...}}.
func (h *JSONHandler) Output(ctx context.Context, view domain.View) error {
	return h.emit(Message{Type: "view", View: &view})
}

// SystemOutput emits {"type":"system","message":"..."}.
func (h *JSONHandler) SystemOutput(ctx context.Context, msg string) error {
	return h.emit(Message{Type: "system", Message: msg})
}

// Input reads one line. It accepts a JSON command ({"action":"select","value":"in"})
// or the text syntax as a fallback.
func (h *JSONHandler) Input(ctx context.Context) (Command, error) {
	inputs := h.lines.start(h.Reader)

	for {
		var res inputResult
		select {
		case <-ctx.Done():
			return Command{}, ctx.Err()
		case r, ok := <-inputs:
			if !ok {
				return Command{}, io.EOF
			}
			res = r
		}
		if res.err != nil {
			return Command{}, res.err
		}

		text := strings.TrimSpace(res.text)
		if text == "" {
			continue
		}

		clean, serr := SanitizeInput(text)
		if serr != nil {
			return Command{}, fmt.Errorf("%w: %v", domain.ErrUnknownCommand, serr)
		}

		if strings.HasPrefix(clean, "{") {
			var raw Command
			if jerr := json.Unmarshal([]byte(clean), &raw); jerr != nil {
				return Command{}, fmt.Errorf("%w: invalid JSON: %v", domain.ErrUnknownCommand, jerr)
			}
			return newCommand(string(raw.Action), raw.Value)
		}
		return ParseCommand(clean)
	}
}

func (h *JSONHandler) emit(m Message) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.Encoder.Encode(m)
}
