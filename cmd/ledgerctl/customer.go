package main

import (
	"fmt"

	"github.com/ruralpay/webbank/internal/database"
	"github.com/ruralpay/webbank/internal/ledger"
	"github.com/ruralpay/webbank/internal/models"
	"github.com/ruralpay/webbank/internal/services"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func customerCommands(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "customer",
		Short: "manage customer accounts",
	}
	cmd.AddCommand(customerCreateCommand(a))
	return cmd
}

func customerCreateCommand(a *app) *cobra.Command {
	var (
		account  models.Account
		password string
		balance  string
		hash     bool
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "open an account with an optional opening balance in dollars",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := services.NewValidationHelper().ValidateStruct(struct {
				ID string `json:"id" validate:"required,customer_id"`
			}{account.CustomerID}); err != nil {
				return fmt.Errorf("invalid --id: %w", err)
			}

			opening, err := decimal.NewFromString(balance)
			if err != nil {
				return fmt.Errorf("invalid --balance %q: %w", balance, err)
			}
			if account.Balance, err = ledger.MinorUnits(opening); err != nil {
				return err
			}

			stored := password
			if hash {
				stored, err = services.NewAuthService(nil, nil, a.cfg.Auth).HashPassword(password)
				if err != nil {
					return fmt.Errorf("error hashing password: %w", err)
				}
			}

			db, err := a.openDB(a.cfg.Database)
			if err != nil {
				return err
			}
			defer db.Close()

			store := database.NewLedgerStore(db, a.cfg.Database.Driver)
			if err := store.CreateCustomer(cmd.Context(), &account, stored); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created customer %s with balance $%s\n",
				account.CustomerID, ledger.MajorUnits(account.Balance).StringFixed(2))
			return nil
		},
	}

	cmd.Flags().StringVar(&account.CustomerID, "id", "", "customer id used to log in")
	cmd.Flags().StringVar(&account.FirstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&account.LastName, "last-name", "", "last name")
	cmd.Flags().StringVar(&password, "password", "", "login password")
	cmd.Flags().BoolVar(&hash, "hash", false, "store an argon2id hash instead of the plaintext password")
	cmd.Flags().StringVar(&balance, "balance", "0", "opening balance in dollars")
	_ = cmd.MarkFlagRequired("id")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}
