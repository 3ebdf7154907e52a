package runner

import (
	"fmt"
	"strings"

	"github.com/aretw0/paylist/pkg/domain"
)

// Action names a shell command.
type Action string

const (
	ActionSelect Action = "select"
	ActionFetch  Action = "fetch"
	ActionClear  Action = "clear"
	ActionView   Action = "view"
	ActionList   Action = "list"
	ActionQuit   Action = "quit"
)

// aliases maps accepted spellings to actions.
var aliases = map[string]Action{
	"select":    ActionSelect,
	"fetch":     ActionFetch,
	"get":       ActionFetch,
	"clear":     ActionClear,
	"view":      ActionView,
	"list":      ActionList,
	"countries": ActionList,
	"quit":      ActionQuit,
	"exit":      ActionQuit,
}

// Command is one parsed line of user input.
type Command struct {
	Action Action `json:"action"`
	Value  string `json:"value,omitempty"`
}

// ParseCommand parses the text syntax: "select <code>", "select", "fetch" ("get"),
// "clear", "view", "list" ("countries"), "quit" ("exit").
func ParseCommand(line string) (Command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Command{}, fmt.Errorf("%w: empty input", domain.ErrUnknownCommand)
	}
	return newCommand(fields[0], strings.Join(fields[1:], " "))
}

func newCommand(name, value string) (Command, error) {
	action, ok := aliases[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Command{}, fmt.Errorf("%w: %q", domain.ErrUnknownCommand, name)
	}
	value = strings.TrimSpace(value)
	if action != ActionSelect && value != "" {
		return Command{}, fmt.Errorf("%w: %s takes no argument", domain.ErrUnknownCommand, action)
	}
	return Command{Action: action, Value: value}, nil
}

// Event converts the command into a form event. Commands that only affect the
// shell (view, list, quit) return false.
func (c Command) Event() (domain.Event, bool) {
	switch c.Action {
	case ActionSelect:
		return domain.SelectCountry(c.Value), true
	case ActionFetch:
		return domain.Fetch(), true
	case ActionClear:
		return domain.Clear(), true
	default:
		return domain.Event{}, false
	}
}
