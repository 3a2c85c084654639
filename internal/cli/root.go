package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"cup-admin/internal/client"
	"cup-admin/pkg/logger"
)

var (
	cfgFile string
	apiURL  string
)

var rootCmd = &cobra.Command{
	Use:   "cup-admin",
	Short: "Piehme Cup admin server and operator tools",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.Setup(os.Getenv("LOG_LEVEL"))
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "path to the config file")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", envOr("CUP_API_URL", "http://localhost:8080"), "base URL of the admin API")
}

func Execute() {
	// A missing .env is fine; the environment may carry everything.
	_ = godotenv.Load()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// newAPI builds a client on the stored session for the operator commands.
func newAPI() (*client.API, *client.Session, *client.SessionStore, error) {
	store, err := client.NewSessionStore()
	if err != nil {
		return nil, nil, nil, err
	}
	session, err := store.Load()
	if err != nil {
		return nil, nil, nil, err
	}
	return client.NewAPI(apiURL, session), session, store, nil
}

// requireLogin is for commands that cannot work anonymously.
func requireLogin() (*client.API, error) {
	api, session, _, err := newAPI()
	if err != nil {
		return nil, err
	}
	if !session.LoggedIn() {
		return nil, fmt.Errorf("not logged in, run: cup-admin login")
	}
	return api, nil
}
