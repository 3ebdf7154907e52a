package runner_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"

	"github.com/aretw0/paylist/pkg/domain"
	"github.com/aretw0/paylist/pkg/runner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONHandler_Output(t *testing.T) {
	var out bytes.Buffer
	h := runner.NewJSONHandler(strings.NewReader(""), &out)
	ctx := context.Background()

	require.NoError(t, h.Output(ctx, sampleView()))
	require.NoError(t, h.SystemOutput(ctx, "hello"))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)

	var first runner.Message
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, "view", first.Type)
	require.NotNil(t, first.View)
	assert.Equal(t, "in", first.View.SelectedValue)
	require.NotNil(t, first.View.Table)
	assert.Equal(t, "UPI", first.View.Table.Rows[0].Field("display_name"))

	assert.JSONEq(t, `{"type":"system","message":"hello"}`, lines[1])
}

func TestJSONHandler_OutputNullTable(t *testing.T) {
	var out bytes.Buffer
	h := runner.NewJSONHandler(strings.NewReader(""), &out)

	require.NoError(t, h.Output(context.Background(), domain.View{Options: []domain.Option{}}))
	assert.Contains(t, out.String(), `"table":null`)
}

func TestJSONHandler_Input(t *testing.T) {
	in := strings.NewReader(strings.Join([]string{
		`{"action":"select","value":"in"}`,
		`{"action":"get"}`,
		`clear`,
		`{"action":"dance"}`,
		`{not json`,
	}, "\n"))
	h := runner.NewJSONHandler(in, io.Discard)
	ctx := context.Background()

	cmd, err := h.Input(ctx)
	require.NoError(t, err)
	assert.Equal(t, runner.Command{Action: runner.ActionSelect, Value: "in"}, cmd)

	cmd, err = h.Input(ctx)
	require.NoError(t, err)
	assert.Equal(t, runner.ActionFetch, cmd.Action)

	cmd, err = h.Input(ctx)
	require.NoError(t, err)
	assert.Equal(t, runner.ActionClear, cmd.Action)

	_, err = h.Input(ctx)
	assert.ErrorIs(t, err, domain.ErrUnknownCommand)

	_, err = h.Input(ctx)
	assert.ErrorIs(t, err, domain.ErrUnknownCommand)

	_, err = h.Input(ctx)
	assert.ErrorIs(t, err, io.EOF)
}
