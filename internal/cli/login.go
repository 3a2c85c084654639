package cli

import (
	"fmt"
	"os"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/ssh/terminal"
)

var loginUsername string

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and store the session",
	RunE: func(cmd *cobra.Command, args []string) error {
		api, session, store, err := newAPI()
		if err != nil {
			return err
		}

		username := loginUsername
		if username == "" {
			fmt.Print("Username: ")
			if _, err := fmt.Scanln(&username); err != nil {
				return err
			}
		}
		fmt.Print("Password: ")
		password, err := terminal.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err != nil {
			return err
		}

		if _, err := api.Login(username, string(password)); err != nil {
			return err
		}
		if err := store.Save(session); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "logged in as %s (%s)\n", session.Username, session.Role)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Drop the stored session",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, _, store, err := newAPI()
		if err != nil {
			return err
		}
		if err := store.Clear(); err != nil {
			return err
		}
		fmt.Println("logged out")
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "username to log in with")
	rootCmd.AddCommand(loginCmd, logoutCmd)
}
