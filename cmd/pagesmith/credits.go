// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"pagesmith/internal/database"
	"pagesmith/internal/models"
	"pagesmith/internal/store"
)

var creditsCmd = &cobra.Command{
	Use:   "credits",
	Short: "Manage user credit balances",
}

var creditsGrantCmd = &cobra.Command{
	Use:   "grant <email> <amount>",
	Short: "Add credits to an account and record the grant in its ledger",
	Args:  cobra.ExactArgs(2),
	RunE:  runCreditsGrant,
}

func init() {
	creditsCmd.AddCommand(creditsGrantCmd)
}

func runCreditsGrant(cmd *cobra.Command, args []string) error {
	amount, err := strconv.Atoi(args[1])
	if err != nil || amount <= 0 {
		return fmt.Errorf("amount must be a positive integer, got %q", args[1])
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		return err
	}
	defer db.Close()

	users := store.NewUserStore(db)
	user, err := users.FindByEmail(args[0])
	if err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("no account for %s", args[0])
	}

	balance, err := users.AddCredits(user.ID, amount)
	if err != nil {
		return err
	}
	if err := store.NewCreditStore(db).Record(&models.CreditEvent{
		UserID: user.ID,
		Delta:  amount,
		Reason: store.ReasonGrant,
	}); err != nil {
		return fmt.Errorf("record grant: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s now has %d credits\n", user.Email, balance)
	return nil
}
