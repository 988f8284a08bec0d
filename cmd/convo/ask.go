package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newAskCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:     "ask [question]",
		Short:   "Ask a single question and print the reply",
		Example: `  convo ask "What is a context window?"
  convo ask -p gemini -m gemini-2.0-flash "Summarise Go's error handling"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, cfg, err := setup(cmd, f)
			if err != nil {
				return err
			}

			id, err := c.NewSession()
			if err != nil {
				return err
			}
			defer c.EndSession(id)

			reply, err := chatTurn(cmd.Context(), c, id, strings.Join(args, " "), cfg.Timeout)
			if err != nil {
				return fmt.Errorf("an error occurred while calling the model: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), reply)
			return nil
		},
	}
}
