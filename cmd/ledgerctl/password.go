package main

import (
	"fmt"

	"github.com/ruralpay/webbank/internal/services"
	"github.com/spf13/cobra"
)

func passwordCommands(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "password",
		Short: "password utilities",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "hash <plaintext>",
		Short: "print the argon2id hash to store in the passwords table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hashed, err := services.NewAuthService(nil, nil, a.cfg.Auth).HashPassword(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hashed)
			return nil
		},
	})

	return cmd
}
