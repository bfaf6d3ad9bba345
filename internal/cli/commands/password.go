package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"sales-dashboard/internal/auth"
)

func newHashPasswordCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password <password>",
		Short: "print a bcrypt hash for the users file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := auth.HashPassword(args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(opts.stdout, hash)
			return err
		},
	}
}
