/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/mentara/apiserver/internal/client"
	"github.com/mentara/apiserver/internal/session"
	"github.com/mentara/apiserver/types"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var loginUsername string

// loginCmd represents the login command
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and store the session locally",
	RunE: func(cmd *cobra.Command, args []string) error {
		username := strings.TrimSpace(loginUsername)
		if username == "" {
			return fmt.Errorf("--username is required")
		}

		fmt.Fprint(os.Stderr, "Password: ")
		raw, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return fmt.Errorf("read password: %w", err)
		}

		api, err := client.New(apiBaseURL())
		if err != nil {
			return err
		}

		result, err := api.Login(cmd.Context(), username, string(raw))
		if err != nil {
			return err
		}

		manager, err := defaultSessionManager()
		if err != nil {
			return err
		}
		if err := manager.Save(types.NewSession(*result.Account, result.Token)); err != nil {
			return fmt.Errorf("store session: %w", err)
		}

		fmt.Println(result.Message)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
	loginCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "account username")
}

func apiBaseURL() string {
	if url := strings.TrimSpace(os.Getenv("MENTARA_API_URL")); url != "" {
		return url
	}
	return "http://localhost:8080"
}

func defaultSessionManager() (*session.Manager, error) {
	path, err := session.DefaultPath()
	if err != nil {
		return nil, fmt.Errorf("locate session slot: %w", err)
	}
	return session.NewManager(afero.NewOsFs(), path), nil
}
