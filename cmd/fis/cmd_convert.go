package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cognicore/fis/pkg/fis/config"
	"github.com/cognicore/fis/pkg/fis/internalerr"
)

func newConvertCmd() *cobra.Command {
	var to string
	cmd := &cobra.Command{
		Use:   "convert SPEC",
		Short: "Rewrite a spec in the text or YAML format",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, err := config.LoadSpec(args[0])
			if err != nil {
				return err
			}
			// Refuse to emit a spec that would not load back.
			if _, err := config.Build(spec); err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}

			switch to {
			case "text":
				return config.WriteText(cmd.OutOrStdout(), spec)
			case "yaml":
				return config.WriteYAML(cmd.OutOrStdout(), spec)
			default:
				return fmt.Errorf("unknown target format %q: %w", to, internalerr.ErrInvalidInput)
			}
		},
	}
	cmd.Flags().StringVar(&to, "to", "yaml", "Target format: text or yaml")
	return cmd
}
