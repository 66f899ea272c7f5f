package onboard

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campainly/campaigner/internal/cmd/cmdtest"
	"github.com/campainly/campaigner/pkg/constants"
)

func TestOnboard_CompletionShowsLogin(t *testing.T) {
	backend := cmdtest.NewBackend(t)
	backend.Reply = "Thanks"
	backend.IsComplete = true
	app := backend.App(t, "")

	cmd := NewCommand(app)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetIn(strings.NewReader("I run a bakery\n/quit\n"))
	cmd.SetArgs([]string{"--no-greeting"})
	require.NoError(t, cmd.ExecuteContext(context.Background()))

	text := out.String()
	assert.Contains(t, text, "[0/5] > ")
	assert.Contains(t, text, "[1/5] > ")
	assert.Contains(t, text, "I run a bakery")
	assert.Contains(t, text, "Thanks")
	assert.Contains(t, text, "campaigner login")

	reqs := backend.Requests(constants.PathChat)
	require.Len(t, reqs, 1)
	assert.Contains(t, reqs[0].Body, `"message":"I run a bakery"`)
	assert.Empty(t, reqs[0].Auth)
}

func TestOnboard_Greeting(t *testing.T) {
	backend := cmdtest.NewBackend(t)
	app := backend.App(t, "")

	cmd := NewCommand(app)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetIn(strings.NewReader(""))
	cmd.SetArgs(nil)
	require.NoError(t, cmd.ExecuteContext(context.Background()))

	text := out.String()
	assert.True(t, strings.HasPrefix(text, "Assistant:\n  היי!"))
	assert.Equal(t, 1, strings.Count(text, "הקמפיינר האישי"), "greeting is typed once and not reprinted")
	assert.Empty(t, backend.Requests(constants.PathChat))
}

func TestOnboard_UnknownCommand(t *testing.T) {
	backend := cmdtest.NewBackend(t)
	app := backend.App(t, "")

	cmd := NewCommand(app)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetIn(strings.NewReader("/dance\n"))
	cmd.SetArgs([]string{"--no-greeting"})
	require.NoError(t, cmd.ExecuteContext(context.Background()))
	assert.Contains(t, out.String(), "unknown command /dance")
}
