package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/hupe1980/convoagent"
	"github.com/spf13/cobra"
)

func newChatCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive conversation",
		Long: `Start an interactive conversation. Each line is one turn.
Commands: /reset clears the conversation (keeping the system prompt),
/history prints the retained messages, /exit or Ctrl-D quits.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd, f)
		},
	}
}

func runChat(cmd *cobra.Command, f *flags) error {
	c, cfg, err := setup(cmd, f)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	// Restore default SIGINT handling after the first interrupt.
	context.AfterFunc(ctx, stop)

	id, err := c.NewSession()
	if err != nil {
		return err
	}
	defer c.EndSession(id)

	mc := c.Config()
	fmt.Fprintf(cmd.ErrOrStderr(), "convo %s: %s/%s (budget %d tokens). Type /exit to quit.\n",
		version, mc.Provider, mc.ModelName, mc.MaxTokens)

	return runREPL(ctx, c, id, cmd.InOrStdin(), cmd.OutOrStdout(), cfg.Timeout)
}

// runREPL reads one turn per line from in and writes replies to out. Turn
// failures are reported as readable messages and the loop continues. It
// returns nil on /exit, end of input or when ctx is cancelled, even while
// waiting at the prompt or for a reply.
func runREPL(ctx context.Context, c *convoagent.Convo, sessionID string, in io.Reader, out io.Writer, timeout time.Duration) error {
	lines, readErr := readLines(ctx, in)

	for {
		fmt.Fprint(out, "> ")

		var (
			line string
			ok   bool
		)
		select {
		case <-ctx.Done():
			fmt.Fprintln(out)
			return nil
		case line, ok = <-lines:
		}
		if !ok {
			fmt.Fprintln(out)
			return <-readErr
		}

		line = strings.TrimSpace(line)
		switch line {
		case "":
			continue
		case "/exit", "/quit":
			return nil
		case "/reset":
			if err := c.ResetSession(sessionID); err != nil {
				fmt.Fprintf(out, "error: %v\n", err)
			}
			continue
		case "/history":
			h, err := c.History(sessionID)
			if err != nil {
				fmt.Fprintf(out, "error: %v\n", err)
				continue
			}
			for _, m := range h {
				fmt.Fprintf(out, "[%s] %s\n", m.Role, m.Content)
			}
			continue
		}

		reply, err := chatTurn(ctx, c, sessionID, line, timeout)
		if err != nil {
			if ctx.Err() != nil {
				fmt.Fprintln(out)
				return nil
			}
			fmt.Fprintf(out, "An error occurred while calling the model: %v\n", err)
			continue
		}
		fmt.Fprintln(out, reply)
	}
}

// readLines scans in on its own goroutine so the caller can stop waiting for
// input when ctx is cancelled. lines is closed at end of input; readErr then
// yields the scanner error (nil at EOF). A read blocked in in outlives ctx
// until in returns.
func readLines(ctx context.Context, in io.Reader) (<-chan string, <-chan error) {
	lines := make(chan string)
	readErr := make(chan error, 1)

	go func() {
		defer close(lines)

		scanner := bufio.NewScanner(in)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				readErr <- nil
				return
			}
		}
		readErr <- scanner.Err()
	}()

	return lines, readErr
}

func chatTurn(ctx context.Context, c *convoagent.Convo, sessionID, input string, timeout time.Duration) (string, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return c.Chat(ctx, sessionID, input)
}
