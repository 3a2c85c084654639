package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"sync"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"cup-admin/internal/client"
	"cup-admin/internal/pagination"
)

var (
	usersPage   int
	usersSearch string
	usersByRank bool

	bulkFile string
	bulkOut  string
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Inspect and manage users",
}

var usersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List users one page at a time",
	RunE: func(cmd *cobra.Command, args []string) error {
		api, err := requireLogin()
		if err != nil {
			return err
		}
		req := pagination.Request{Page: usersPage, Search: usersSearch}
		fetch := api.Users
		if usersByRank {
			fetch = api.UsersByCoins
		}
		page, err := fetch(req)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tUSERNAME\tCOINS\tCONFIRMED")
		for _, u := range page.Data {
			fmt.Fprintf(w, "%d\t%s\t%d\t%v\n", u.ID, u.Username, u.Coins, u.Confirmed)
		}
		w.Flush()
		fmt.Printf("page %d of %d (%d users)\n", page.Page+1, page.TotalPages, page.TotalElements)
		return nil
	},
}

var usersBulkCmd = &cobra.Command{
	Use:   "bulk",
	Short: "Register many users from a file of names",
	Long: "Reads one username per line, registers them in a single call and " +
		"writes the generated passwords to a CSV sheet.",
	RunE: func(cmd *cobra.Command, args []string) error {
		api, err := requireLogin()
		if err != nil {
			return err
		}
		usernames, err := readLines(bulkFile)
		if err != nil {
			return err
		}

		credentials, err := api.CreateBulkUsers(usernames)
		if err != nil {
			return err
		}

		out, err := os.Create(bulkOut)
		if err != nil {
			return err
		}
		defer out.Close()
		if err := client.WriteCredentialsCSV(out, credentials); err != nil {
			return err
		}
		fmt.Printf("registered %d users, credentials written to %s\n", len(credentials), bulkOut)
		return nil
	},
}

var usersSearchCmd = &cobra.Command{
	Use:   "search",
	Short: "Live username search, one query per line on stdin",
	Long: "Reads queries from stdin and looks each one up, waiting out " +
		"rapid typing so only the last query of a burst hits the server.",
	RunE: func(cmd *cobra.Command, args []string) error {
		api, err := requireLogin()
		if err != nil {
			return err
		}

		var mu sync.Mutex
		debouncer := client.NewDebouncer(client.SearchDelay)
		defer debouncer.Stop()

		scanner := bufio.NewScanner(cmd.InOrStdin())
		for scanner.Scan() {
			query := strings.TrimSpace(scanner.Text())
			if query == "" {
				continue
			}
			debouncer.Trigger(func() {
				page, err := api.Users(pagination.Request{Page: 1, Search: query})
				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					fmt.Fprintln(os.Stderr, err)
					return
				}
				fmt.Printf("%q matched %d users\n", query, page.TotalElements)
				for _, u := range page.Data {
					fmt.Printf("  %d\t%s\t%d coins\n", u.ID, u.Username, u.Coins)
				}
			})
		}
		// let a lookup scheduled by the final line finish printing
		time.Sleep(2 * client.SearchDelay)
		return scanner.Err()
	},
}

func readLines(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	return lines, scanner.Err()
}

func init() {
	usersListCmd.Flags().IntVar(&usersPage, "page", 1, "page to show, starting at 1")
	usersListCmd.Flags().StringVar(&usersSearch, "search", "", "filter by username")
	usersListCmd.Flags().BoolVar(&usersByRank, "by-coins", false, "order by coin balance")
	usersBulkCmd.Flags().StringVar(&bulkFile, "file", "", "file with one username per line")
	usersBulkCmd.Flags().StringVar(&bulkOut, "out", "credentials.csv", "where to write the credentials sheet")
	usersBulkCmd.MarkFlagRequired("file")
	usersCmd.AddCommand(usersListCmd, usersBulkCmd, usersSearchCmd)
	rootCmd.AddCommand(usersCmd)
}
