/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"errors"
	"fmt"

	"github.com/mentara/apiserver/internal/authz"
	"github.com/spf13/cobra"
)

// whoamiCmd represents the whoami command
var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged-in account from the local session",
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, err := defaultSessionManager()
		if err != nil {
			return err
		}

		s, err := authz.RequireRole(manager)
		if err != nil {
			if errors.Is(err, authz.ErrUnauthenticated) {
				return errors.New("not logged in, run `mentara login` first")
			}
			return err
		}

		fmt.Printf("%s (%s) <%s> role=%s\n", s.FullName, s.Username, s.Email, s.Role)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}
