package cmd

import (
	"fmt"

	"github.com/netonframework/docsite/pkg/site"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func NewValidateCommand() *cobra.Command {
	v := newViper()
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check the site config and list every problem",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			l := zap.L().Named("validate")

			cfg, err := loadConfig(l, v)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				problems := site.ValidationErrors(err)
				for _, problem := range problems {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", problem.Path, problem.Message)
				}
				return errors.Errorf("site config has %d problem(s)", len(problems))
			}
			revision, err := cfg.Revision()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "site config is valid, revision %s\n", revision)
			return nil
		},
	}

	addConfigFlag(cmd.Flags(), v)

	return cmd
}
