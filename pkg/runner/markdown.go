package runner

import (
	"fmt"
	"strings"

	"github.com/aretw0/paylist/pkg/domain"
)

// column is one rendered field of a payment-method row.
type column struct {
	title string
	field string
}

var tableColumns = []column{
	{"Name", "display_name"},
	{"Type", "type_display_name"},
	{"Currencies", "supported_currencies"},
	{"Deposit", "deposit_time"},
	{"Withdrawal", "withdrawal_time"},
}

// FormatView renders the form as markdown.
func FormatView(v domain.View) string {
	var b strings.Builder
	b.WriteString("## Payment methods\n\n")

	switch {
	case len(v.Options) == 0:
		b.WriteString("_Loading countries..._\n\n")
	default:
		label := domain.PlaceholderLabel
		if opt, ok := v.SelectedOption(); ok {
			label = opt.Label
		}
		fmt.Fprintf(&b, "**Country:** %s  \n", label)
		fmt.Fprintf(&b, "%d countries available (`list` to show them).\n\n", len(v.Options)-1)
	}

	fmt.Fprintf(&b, "`get` Get List %s · `clear` Clear %s\n", enabled(v.FetchEnabled), enabled(v.ClearEnabled))

	if v.Table != nil {
		b.WriteString("\n")
		b.WriteString(formatTable(v.Table.Rows))
	}
	return b.String()
}

// FormatOptions renders the dropdown entries as a markdown list.
func FormatOptions(v domain.View) string {
	if len(v.Options) == 0 {
		return "No countries loaded yet."
	}
	var b strings.Builder
	for _, o := range v.Options {
		if o.Value == "" {
			continue
		}
		mark := " "
		if o.Selected {
			mark = "x"
		}
		fmt.Fprintf(&b, "- [%s] %s\n", mark, o.Label)
	}
	return b.String()
}

func formatTable(rows []domain.PaymentMethod) string {
	var b strings.Builder
	titles := make([]string, len(tableColumns))
	rule := make([]string, len(tableColumns))
	for i, c := range tableColumns {
		titles[i] = c.title
		rule[i] = "---"
	}
	fmt.Fprintf(&b, "| %s |\n| %s |\n", strings.Join(titles, " | "), strings.Join(rule, " | "))

	for _, row := range rows {
		cells := make([]string, len(tableColumns))
		for i, c := range tableColumns {
			cells[i] = escapeCell(row.Field(c.field))
		}
		fmt.Fprintf(&b, "| %s |\n", strings.Join(cells, " | "))
	}
	if len(rows) == 0 {
		b.WriteString("\n_No payment methods available for this country._\n")
	}
	return b.String()
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	return strings.ReplaceAll(s, "\n", " ")
}

func enabled(on bool) string {
	if on {
		return "(enabled)"
	}
	return "(disabled)"
}
