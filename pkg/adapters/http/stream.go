package http

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/aretw0/paylist/pkg/domain"
)

// StreamManager fans view diffs out to SSE subscribers of each form.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan string]struct{}
	logger      *slog.Logger
}

// NewStreamManager creates an empty StreamManager.
func NewStreamManager(logger *slog.Logger) *StreamManager {
	if logger == nil {
		logger = slog.Default()
	}
	return &StreamManager{
		subscribers: make(map[string]map[chan string]struct{}),
		logger:      logger,
	}
}

// Subscribe registers a buffered channel for formID and returns it with its cancel func.
func (sm *StreamManager) Subscribe(formID string) (<-chan string, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan string, 10)
	if _, ok := sm.subscribers[formID]; !ok {
		sm.subscribers[formID] = make(map[chan string]struct{})
	}
	sm.subscribers[formID][ch] = struct{}{}

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			sm.mu.Lock()
			defer sm.mu.Unlock()
			if subs, ok := sm.subscribers[formID]; ok {
				delete(subs, ch)
				close(ch)
				if len(subs) == 0 {
					delete(sm.subscribers, formID)
				}
			}
		})
	}
}

// Publish broadcasts the diff between two views. It matches session.ViewObserver.
func (sm *StreamManager) Publish(formID string, before, after domain.View) {
	diff := domain.Diff(&before, &after)
	if diff == nil {
		return
	}
	payload, err := json.Marshal(diff)
	if err != nil {
		sm.logger.Warn("SSE: failed to encode diff", "form_id", formID, "err", err)
		return
	}
	sm.Broadcast(formID, string(payload))
}

// Broadcast sends msg to every subscriber of formID, dropping it for slow clients.
func (sm *StreamManager) Broadcast(formID string, msg string) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	for ch := range sm.subscribers[formID] {
		select {
		case ch <- msg:
		default:
			sm.logger.Warn("SSE: client buffer full, dropping message", "form_id", formID)
		}
	}
}
