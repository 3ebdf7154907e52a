package domain

import "fmt"

// PlaceholderLabel is the prompt shown by the non-selectable first option.
const PlaceholderLabel = "Please select a country"

// Country is a selectable residence.
type Country struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Placeholder returns the synthetic first entry of every country list.
// Its value is the empty string and it can never be fetched.
func Placeholder() Country {
	return Country{Value: "", Label: PlaceholderLabel}
}

// IsPlaceholder reports whether c is the synthetic prompt entry.
func (c Country) IsPlaceholder() bool {
	return c.Value == ""
}

// OptionLabel is the text shown for the country in the dropdown (e.g. "India - in").
func (c Country) OptionLabel() string {
	if c.IsPlaceholder() {
		return c.Label
	}
	return fmt.Sprintf("%s - %s", c.Label, c.Value)
}
