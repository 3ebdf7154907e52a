package domain

// Phase is the coarse position of the workflow.
type Phase string

const (
	PhaseIdle            Phase = "idle"             // Waiting for the country list
	PhaseCountriesLoaded Phase = "countries_loaded" // Countries known, nothing selected
	PhaseCountrySelected Phase = "country_selected" // A country is selected
	PhaseMethodsLoaded   Phase = "methods_loaded"   // Rows received for the active selection
)

// Selection is the chosen country value, or none.
// "None" is kept distinct from the placeholder value (which is also "").
type Selection struct {
	Value string `json:"value"`
	Set   bool   `json:"set"`
}

// Selected returns a selection holding value.
func Selected(value string) Selection {
	return Selection{Value: value, Set: true}
}

// Active reports whether a non-placeholder country is selected.
func (s Selection) Active() bool {
	return s.Set && s.Value != ""
}

// State is the workflow snapshot of one mounted form.
// It is created on mount and only ever replaced by the controller.
type State struct {
	// Phase indicates where the workflow is.
	Phase Phase `json:"phase"`

	// Countries holds the placeholder followed by the received countries.
	// Nil until the countries response arrives.
	Countries []Country `json:"countries,omitempty"`

	// Selection is the current choice.
	Selection Selection `json:"selection"`

	// Methods holds the last accepted payment-method rows (possibly stale).
	Methods []PaymentMethod `json:"methods,omitempty"`

	// MethodsLoaded is true once a payment-methods response has been accepted
	// since mount or the last Clear. It distinguishes "no table" from "empty table".
	MethodsLoaded bool `json:"methods_loaded"`

	// LastRequestID numbers outbound requests for this form.
	LastRequestID int64 `json:"last_request_id"`

	// PendingFetch is the request id of the most recent Fetch (0 if none).
	PendingFetch int64 `json:"pending_fetch,omitempty"`
}

// NewState creates the Idle state of a freshly mounted form.
func NewState() *State {
	return &State{Phase: PhaseIdle}
}

// Clone returns a copy that shares no slices with s.
func (s *State) Clone() *State {
	if s == nil {
		return nil
	}
	c := *s
	if s.Countries != nil {
		c.Countries = make([]Country, len(s.Countries))
		copy(c.Countries, s.Countries)
	}
	c.Methods = CloneMethods(s.Methods)
	return &c
}

// HasCountry reports whether value is a non-placeholder entry of the country list.
func (s *State) HasCountry(value string) bool {
	if value == "" {
		return false
	}
	for _, c := range s.Countries {
		if c.Value == value {
			return true
		}
	}
	return false
}
