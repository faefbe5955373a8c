package session

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog/log"

	contractx "triagebot/agent/contract"
)

// QueryHandler handles one fully-formed prompt. The router implements it.
type QueryHandler interface {
	HandleQuery(ctx context.Context, prompt string, user *contractx.UserContext) (string, error)
}

const (
	greeting    = "AI Bot: 👋 Hello! I am a console based support agent."
	farewell    = "AI Bot: 👋 Exiting. Thank you for using the bot!"
	promptLabel = "\nPrompt: "
)

// Loop reads one prompt at a time, awaits the handler fully, prints the
// reply, and repeats. One query is in flight at most; the user context is
// shared with the handler across the whole session.
type Loop struct {
	handler QueryHandler
	user    *contractx.UserContext
	in      io.Reader
	out     io.Writer
}

func New(handler QueryHandler, user *contractx.UserContext, in io.Reader, out io.Writer) (*Loop, error) {
	if handler == nil {
		return nil, errors.New("query handler is required")
	}
	if user == nil {
		return nil, errors.New("user context is required")
	}
	if in == nil || out == nil {
		return nil, errors.New("input and output streams are required")
	}
	return &Loop{
		handler: handler,
		user:    user,
		in:      in,
		out:     out,
	}, nil
}

// Run blocks until the context is cancelled or input reaches EOF. A failed
// query is reported and the loop continues; it never terminates the session.
func (l *Loop) Run(ctx context.Context) error {
	fmt.Fprintln(l.out, greeting)

	lines := l.readLines(ctx)

	for {
		fmt.Fprint(l.out, promptLabel)

		select {
		case <-ctx.Done():
			fmt.Fprintln(l.out, "\n"+farewell)
			return nil
		case line, ok := <-lines:
			if !ok {
				fmt.Fprintln(l.out, "\n"+farewell)
				return nil
			}

			prompt := strings.TrimSpace(line)
			if prompt == "" {
				continue
			}

			reply, err := l.handler.HandleQuery(ctx, prompt, l.user)
			if err != nil {
				fmt.Fprintf(l.out, "⚠️ Error: %v\n", err)
				log.Error().Err(err).Msg("query handling failed")
				continue
			}

			fmt.Fprintf(l.out, "\nAI Bot: %s\n", reply)
		}
	}
}

// readLines feeds console lines through a channel so cancellation is
// observed between queries. The channel closes on EOF.
func (l *Loop) readLines(ctx context.Context) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(l.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		if err := scanner.Err(); err != nil {
			log.Warn().Err(err).Msg("console input closed with error")
		}
	}()
	return lines
}
