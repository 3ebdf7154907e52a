package domain

// EventType identifies an input to the workflow controller.
type EventType string

const (
	// EventCountriesReceived is the inbound country list. Payload: Countries.
	EventCountriesReceived EventType = "countries_received"

	// EventCountrySelected is a user change of the dropdown. Payload: Value.
	EventCountrySelected EventType = "country_selected"

	// EventFetchClicked is the "Get List" action.
	EventFetchClicked EventType = "fetch_clicked"

	// EventClearClicked is the "Clear" action.
	EventClearClicked EventType = "clear_clicked"

	// EventMethodsReceived is the inbound payment-method list. Payload: Methods.
	EventMethodsReceived EventType = "methods_received"
)

// Event is one discrete input processed by the controller.
type Event struct {
	Type      EventType       `json:"type"`
	Value     string          `json:"value,omitempty"`
	Countries []Country       `json:"countries,omitempty"`
	Methods   []PaymentMethod `json:"methods,omitempty"`

	// RequestID is the echoed id of the request a response answers (0 if unknown).
	RequestID int64 `json:"req_id,omitempty"`
}

// IsResponse reports whether the event originates from the connection.
func (e Event) IsResponse() bool {
	return e.Type == EventCountriesReceived || e.Type == EventMethodsReceived
}

// SelectCountry builds a selection event. An empty value selects the placeholder.
func SelectCountry(value string) Event {
	return Event{Type: EventCountrySelected, Value: value}
}

// Fetch builds a "Get List" event.
func Fetch() Event {
	return Event{Type: EventFetchClicked}
}

// Clear builds a "Clear" event.
func Clear() Event {
	return Event{Type: EventClearClicked}
}

// CountriesReceived builds the inbound country list event.
func CountriesReceived(countries ...Country) Event {
	return Event{Type: EventCountriesReceived, Countries: countries}
}

// MethodsReceived builds the inbound payment-method list event.
func MethodsReceived(methods ...PaymentMethod) Event {
	if methods == nil {
		methods = []PaymentMethod{}
	}
	return Event{Type: EventMethodsReceived, Methods: methods}
}
