package runtime

import "github.com/aretw0/paylist/pkg/domain"

// Render projects a state onto the visible controls. It has no side effects.
func Render(state *domain.State) domain.View {
	view := domain.View{Options: []domain.Option{}}
	if state == nil {
		return view
	}

	if state.Selection.Set {
		view.SelectedValue = state.Selection.Value
	}

	for _, c := range state.Countries {
		view.Options = append(view.Options, domain.Option{
			Value:    c.Value,
			Label:    c.OptionLabel(),
			Selected: c.Value == view.SelectedValue,
		})
	}

	active := state.Selection.Active()
	view.ClearEnabled = active
	view.FetchEnabled = active

	if state.MethodsLoaded {
		rows := domain.CloneMethods(state.Methods)
		if rows == nil {
			rows = []domain.PaymentMethod{}
		}
		view.Table = &domain.Table{Rows: rows}
	}
	return view
}
