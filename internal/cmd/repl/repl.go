// Package repl is the line-oriented chat loop shared by the interactive
// commands: it reads one line at a time, hands it to the command and
// prints whatever new messages the conversation gained.
package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/campainly/campaigner/pkg/errors"
	"github.com/campainly/campaigner/pkg/render"
	"github.com/campainly/campaigner/pkg/types"
)

// ErrQuit ends Run without an error.
var ErrQuit = errors.New("quit")

// Handler processes one non-blank input line.
type Handler func(ctx context.Context, line string) error

// Session prints a transcript incrementally and reads input lines.
type Session struct {
	in       io.Reader
	out      io.Writer
	renderer *render.Renderer
	opts     render.Options

	// Prompt returns the text shown before each line; "> " when nil.
	Prompt func() string

	printed int
}

// New creates a session. renderer may be nil, in which case message text is
// printed as is.
func New(in io.Reader, out io.Writer, renderer *render.Renderer, opts render.Options) *Session {
	return &Session{in: in, out: out, renderer: renderer, opts: opts}
}

// Out returns the output writer.
func (s *Session) Out() io.Writer {
	return s.out
}

// Print writes the messages of msgs that have not been printed yet. msgs is
// the full transcript; a transcript shorter than what was printed, as after
// a reset, starts over.
func (s *Session) Print(msgs []types.Message) {
	if len(msgs) < s.printed {
		s.printed = 0
	}
	for _, m := range msgs[s.printed:] {
		s.print(m)
	}
	s.printed = len(msgs)
}

// Skip marks the first n messages as printed.
func (s *Session) Skip(n int) {
	s.printed = n
}

func (s *Session) print(m types.Message) {
	v := render.Render(m, s.opts)
	if s.renderer != nil {
		fmt.Fprint(s.out, s.renderer.Text(v))
		return
	}
	if v.HasBubble() {
		fmt.Fprintf(s.out, "%s: %s\n", v.Role, v.Text)
	}
}

// Notice prints a line that is not part of the transcript.
func (s *Session) Notice(format string, args ...any) {
	fmt.Fprintf(s.out, format+"\n", args...)
}

// Run reads lines until input ends, ctx is done or handle returns ErrQuit.
// "/quit" and "/exit" also end the loop. Any other error from handle is
// printed and the loop continues.
func (s *Session) Run(ctx context.Context, handle Handler) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(s.in)
		scanner.Buffer(make([]byte, 64*1024), 1024*1024)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- scanner.Err()
	}()

	for {
		s.prompt()
		select {
		case <-ctx.Done():
			fmt.Fprintln(s.out)
			return nil
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-readErr:
					if err != nil {
						return errors.WrapIO("read", "stdin", err)
					}
				default:
				}
				fmt.Fprintln(s.out)
				return nil
			}
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			if line == "/quit" || line == "/exit" {
				return nil
			}
			if err := handle(ctx, line); err != nil {
				if errors.Is(err, ErrQuit) {
					return nil
				}
				s.Notice("error: %v", err)
			}
		}
	}
}

func (s *Session) prompt() {
	p := "> "
	if s.Prompt != nil {
		p = s.Prompt()
	}
	fmt.Fprint(s.out, p)
}

// Command splits a slash command line into its name and argument text.
// ok is false for ordinary chat input.
func Command(line string) (name, rest string, ok bool) {
	if !strings.HasPrefix(line, "/") {
		return "", "", false
	}
	name, rest, _ = strings.Cut(strings.TrimPrefix(line, "/"), " ")
	return strings.ToLower(name), strings.TrimSpace(rest), true
}
