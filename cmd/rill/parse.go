package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rill-lang/rill/pkg/driver"
)

func newParseCommand() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "parse FILE",
		Short: "Parse a program without running it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			program, source, err := driver.ParseFile(args[0])
			if err != nil {
				if source == "" {
					return err
				}
				fmt.Fprintln(cmd.ErrOrStderr(), driver.RenderError(err, source))
				return errHandled
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if err := enc.Encode(program); err != nil {
					return fmt.Errorf("encode syntax tree: %w", err)
				}
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d top-level statements\n", args[0], len(program.Statements))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the syntax tree as JSON")
	return cmd
}
