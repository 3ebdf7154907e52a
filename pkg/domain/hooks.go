package domain

import (
	"context"
	"time"
)

// TransitionEvent describes one processed input.
type TransitionEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Event     EventType `json:"event"`
	From      Phase     `json:"from"`
	To        Phase     `json:"to"`
}

// RequestEvent describes one outbound request emitted by the controller.
type RequestEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Request   Request   `json:"request"`
}

// LifecycleHooks defines callbacks for controller observability.
type LifecycleHooks struct {
	OnTransition func(context.Context, *TransitionEvent)
	OnIgnored    func(context.Context, *TransitionEvent)
	OnRequest    func(context.Context, *RequestEvent)
}
