/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"
	"syscall"

	"github.com/mentara/apiserver/internal/client"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var registerParams client.RegisterParams

// registerCmd represents the register command
var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a new account",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprint(os.Stderr, "Password: ")
		raw, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return fmt.Errorf("read password: %w", err)
		}
		registerParams.Password = string(raw)

		api, err := client.New(apiBaseURL())
		if err != nil {
			return err
		}

		result, err := api.Register(cmd.Context(), registerParams)
		if err != nil {
			return err
		}

		fmt.Println(result.Message)
		if result.Warning != "" {
			fmt.Fprintln(os.Stderr, "warning:", result.Warning)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(registerCmd)

	registerCmd.Flags().StringVarP(&registerParams.Username, "username", "u", "", "account username")
	registerCmd.Flags().StringVar(&registerParams.FullName, "name", "", "full display name")
	registerCmd.Flags().StringVar(&registerParams.Email, "email", "", "email address")
	registerCmd.Flags().StringVar(&registerParams.Role, "role", "student", "account role (student|teacher|admin)")
	registerCmd.Flags().StringVar(&registerParams.Phone, "phone", "", "phone number")
	registerCmd.Flags().StringVar(&registerParams.NISN, "nisn", "", "national student identifier")
	registerCmd.Flags().StringVar(&registerParams.NIP, "nip", "", "employee identifier")

	_ = registerCmd.MarkFlagRequired("username")
	_ = registerCmd.MarkFlagRequired("name")
	_ = registerCmd.MarkFlagRequired("email")
}
