package repl

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campainly/campaigner/pkg/errors"
	"github.com/campainly/campaigner/pkg/render"
	"github.com/campainly/campaigner/pkg/types"
)

func TestRun_HandlesLinesUntilQuit(t *testing.T) {
	var out bytes.Buffer
	s := New(strings.NewReader("hello\n\n  world  \n/quit\nignored\n"), &out, nil, renderOpts())

	var got []string
	err := s.Run(context.Background(), func(_ context.Context, line string) error {
		got = append(got, line)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"hello", "world"}, got)
}

func TestRun_ErrorsAreReportedNotFatal(t *testing.T) {
	var out bytes.Buffer
	s := New(strings.NewReader("a\nb\n"), &out, nil, renderOpts())

	calls := 0
	err := s.Run(context.Background(), func(context.Context, string) error {
		calls++
		if calls == 1 {
			return errors.New("boom")
		}
		return ErrQuit
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Contains(t, out.String(), "error: boom")
}

func TestRun_EndsOnEOF(t *testing.T) {
	var out bytes.Buffer
	s := New(strings.NewReader("only"), &out, nil, renderOpts())
	s.Prompt = func() string { return "[1/5] > " }

	n := 0
	require.NoError(t, s.Run(context.Background(), func(context.Context, string) error {
		n++
		return nil
	}))
	assert.Equal(t, 1, n)
	assert.Contains(t, out.String(), "[1/5] > ")
}

func TestPrint_Incremental(t *testing.T) {
	var out bytes.Buffer
	s := New(strings.NewReader(""), &out, nil, renderOpts())

	msgs := []types.Message{
		types.NewMessage(types.RoleUser, "first"),
		types.NewMessage(types.RoleAssistant, "second"),
	}
	s.Print(msgs[:1])
	s.Print(msgs)
	assert.Equal(t, 1, strings.Count(out.String(), "first"))
	assert.Equal(t, 1, strings.Count(out.String(), "second"))

	out.Reset()
	s.Print(nil)
	s.Print(msgs[:1])
	assert.Contains(t, out.String(), "first")
}

func TestCommand(t *testing.T) {
	name, rest, ok := Command("/Edit 1 headline New title")
	assert.True(t, ok)
	assert.Equal(t, "edit", name)
	assert.Equal(t, "1 headline New title", rest)

	_, _, ok = Command("just text")
	assert.False(t, ok)
}

func renderOpts() render.Options {
	return render.Options{}
}
