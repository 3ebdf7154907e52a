package domain

import (
	"reflect"
)

// ViewDiff represents the changes between two views.
// It is designed to be serialized to JSON for partial updates on the client.
type ViewDiff struct {
	Options       *[]Option `json:"options,omitempty"`
	SelectedValue *string   `json:"selected_value,omitempty"`
	ClearEnabled  *bool     `json:"clear_enabled,omitempty"`
	FetchEnabled  *bool     `json:"fetch_enabled,omitempty"`

	// TableChanged is set when the table appeared, disappeared or its rows changed.
	// Table then carries the new value (nil meaning "remove the table").
	TableChanged bool   `json:"table_changed,omitempty"`
	Table        *Table `json:"table,omitempty"`
}

// Diff calculates the difference between oldView and newView.
// If oldView is nil, it returns a diff representing the entire newView (initial load).
// It returns nil when nothing visible changed.
func Diff(oldView, newView *View) *ViewDiff {
	if newView == nil {
		return nil
	}

	diff := &ViewDiff{}

	if oldView == nil || !reflect.DeepEqual(oldView.Options, newView.Options) {
		opts := newView.Options
		diff.Options = &opts
	}
	if oldView == nil || oldView.SelectedValue != newView.SelectedValue {
		diff.SelectedValue = &newView.SelectedValue
	}
	if oldView == nil || oldView.ClearEnabled != newView.ClearEnabled {
		diff.ClearEnabled = &newView.ClearEnabled
	}
	if oldView == nil || oldView.FetchEnabled != newView.FetchEnabled {
		diff.FetchEnabled = &newView.FetchEnabled
	}
	if oldView == nil || !reflect.DeepEqual(oldView.Table, newView.Table) {
		diff.TableChanged = true
		diff.Table = newView.Table
	}

	if diff.IsEmpty() {
		return nil
	}
	return diff
}

// IsEmpty checks if the diff contains any actionable changes.
func (d *ViewDiff) IsEmpty() bool {
	return d.Options == nil &&
		d.SelectedValue == nil &&
		d.ClearEnabled == nil &&
		d.FetchEnabled == nil &&
		!d.TableChanged
}
