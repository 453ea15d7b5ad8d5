package main

import (
	"bufio"
	"fmt"
	"strings"
	"time"

	"connectrpc.com/connect"
	"github.com/spf13/cobra"

	"github.com/mmynk/mealbook/pkg/api"
)

var loginPassword string

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Exchange the shared password for a session token",
	Long: `Log in with the user or admin password. The user password unlocks the
dashboard and calendar, the admin password everything.

Examples:
  mealctl login
  echo "$PASSWORD" | mealctl login`,
	RunE: func(cmd *cobra.Command, args []string) error {
		password := loginPassword
		if password == "" {
			fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
			line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if err != nil && line == "" {
				return fmt.Errorf("failed to read password: %w", err)
			}
			password = strings.TrimRight(line, "\r\n")
		}

		c := newClients(serverURL, "")
		res, err := c.access.Login(cmd.Context(), connect.NewRequest(&api.LoginRequest{Password: password}))
		if err != nil {
			return err
		}

		path, err := saveToken(res.Msg.Token)
		if err != nil {
			return err
		}
		expires := time.UnixMilli(res.Msg.ExpiresAt).Format(time.DateOnly)
		printOK(cmd.OutOrStdout(), "logged in with %s access until %s", res.Msg.Level, expires)
		fmt.Fprintln(cmd.OutOrStdout(), dimStyle.Render("token saved to "+path))
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "password (read from stdin when empty)")
}
