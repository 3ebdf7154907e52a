package runtime_test

import (
	"context"
	"testing"

	"github.com/aretw0/paylist/internal/runtime"
	"github.com/aretw0/paylist/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_Idle(t *testing.T) {
	e := runtime.NewEngine()
	state, reqs := e.Mount(context.Background())
	view := runtime.Render(state)

	assert.Empty(t, view.Options)
	assert.NotNil(t, view.Options, "options serialize as an empty list")
	assert.Nil(t, view.Table)
	assert.False(t, view.ClearEnabled)
	assert.False(t, view.FetchEnabled)
	assert.Len(t, reqs, 1)
}

func TestRender_CountriesLoaded(t *testing.T) {
	view := runtime.Render(loaded(t, runtime.NewEngine()))

	require.Len(t, view.Options, len(residences)+1)
	assert.Equal(t, domain.PlaceholderLabel, view.Options[0].Label)
	assert.True(t, view.Options[0].Selected, "placeholder selected")
	assert.Equal(t, "India - in", view.Options[1].Label)
	assert.Equal(t, "", view.SelectedValue)
	assert.False(t, view.ClearEnabled)
	assert.False(t, view.FetchEnabled)
}

func TestRender_Selection(t *testing.T) {
	ctx := context.Background()
	e := runtime.NewEngine()
	state, _ := e.Apply(ctx, loaded(t, e), domain.SelectCountry("in"))
	view := runtime.Render(state)

	opt, ok := view.SelectedOption()
	require.True(t, ok)
	assert.Equal(t, "in", opt.Value)
	assert.False(t, view.Options[0].Selected, "placeholder deselected")
	assert.True(t, view.ClearEnabled)
	assert.True(t, view.FetchEnabled)

	t.Run("Placeholder Reselected", func(t *testing.T) {
		back, _ := e.Apply(ctx, state, domain.SelectCountry(""))
		v := runtime.Render(back)
		assert.True(t, v.Options[0].Selected)
		assert.False(t, v.ClearEnabled)
		assert.False(t, v.FetchEnabled)
	})
}

func TestRender_ClearRemovesTable(t *testing.T) {
	ctx := context.Background()
	e := runtime.NewEngine()
	state, _ := e.Apply(ctx, loaded(t, e), domain.SelectCountry("in"))
	state, _ = e.Apply(ctx, state, domain.MethodsReceived(methods...))
	require.NotNil(t, runtime.Render(state).Table)

	state, _ = e.Apply(ctx, state, domain.Clear())
	view := runtime.Render(state)
	assert.Nil(t, view.Table)
	assert.True(t, view.Options[0].Selected)
}

func TestRender_EndToEnd(t *testing.T) {
	ctx := context.Background()
	e := runtime.NewEngine()

	state, reqs := e.Mount(ctx)
	require.Len(t, reqs, 1)

	state, _ = e.Apply(ctx, state, domain.CountriesReceived(domain.Country{Value: "in", Label: "India"}))
	state, _ = e.Apply(ctx, state, domain.SelectCountry("in"))

	// The rows arrive before the click.
	state, _ = e.Apply(ctx, state, domain.MethodsReceived(methods...))
	state, reqs = e.Apply(ctx, state, domain.Fetch())
	require.Len(t, reqs, 1)

	view := runtime.Render(state)
	require.NotNil(t, view.Table)
	assert.Equal(t, methods, view.Table.Rows)
}

func TestRender_RepeatedClearIsIdempotent(t *testing.T) {
	ctx := context.Background()
	e := runtime.NewEngine()
	state := loaded(t, e)

	for i := 0; i < 3; i++ {
		var reqs []domain.Request
		state, reqs = e.Apply(ctx, state, domain.Clear())
		assert.Empty(t, reqs)
		assert.False(t, runtime.Render(state).ClearEnabled)
	}
}

func TestRender_EmptyTable(t *testing.T) {
	ctx := context.Background()
	e := runtime.NewEngine()
	state, _ := e.Apply(ctx, loaded(t, e), domain.SelectCountry("in"))
	state, _ = e.Apply(ctx, state, domain.MethodsReceived())

	view := runtime.Render(state)
	require.NotNil(t, view.Table, "an empty answer still renders a table")
	assert.Empty(t, view.Table.Rows)
}

func TestRender_Nil(t *testing.T) {
	view := runtime.Render(nil)
	assert.Empty(t, view.Options)
	assert.Nil(t, view.Table)
}
