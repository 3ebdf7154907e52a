package domain

// Option is one entry of the country dropdown.
type Option struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	Selected bool   `json:"selected"`
}

// Table is the rendered payment-method result.
type Table struct {
	Rows []PaymentMethod `json:"rows"`
}

// View is the visible projection of a State.
type View struct {
	Options       []Option `json:"options"`
	SelectedValue string   `json:"selected_value"`
	ClearEnabled  bool     `json:"clear_enabled"`
	FetchEnabled  bool     `json:"fetch_enabled"`

	// Table is nil when no table must be rendered.
	Table *Table `json:"table"`
}

// SelectedOption returns the option currently marked as selected, if any.
func (v View) SelectedOption() (Option, bool) {
	for _, o := range v.Options {
		if o.Selected {
			return o, true
		}
	}
	return Option{}, false
}
