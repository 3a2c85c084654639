package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"cup-admin/internal/client"
	"cup-admin/internal/models"
	"cup-admin/internal/pagination"
)

var (
	attendanceDate    string
	attendanceLiturgy string
	attendanceSearch  string
	attendanceIDs     []string
)

var attendanceCmd = &cobra.Command{
	Use:   "attendance",
	Short: "Record liturgy attendance",
}

var attendanceBulkCmd = &cobra.Command{
	Use:   "bulk",
	Short: "Approve one liturgy for many users at once",
	Long: "Loads the matching roster page by page, then submits a single " +
		"bulk request. Without --ids every matched user is included.",
	RunE: func(cmd *cobra.Command, args []string) error {
		api, err := requireLogin()
		if err != nil {
			return err
		}

		roster, err := loadRoster(api, attendanceSearch)
		if err != nil {
			return err
		}
		if len(attendanceIDs) > 0 {
			for _, raw := range attendanceIDs {
				id, err := strconv.ParseUint(raw, 10, 32)
				if err != nil {
					return fmt.Errorf("invalid user id %q", raw)
				}
				roster.Toggle(uint(id))
			}
		} else {
			roster.ToggleAll()
		}

		result, err := api.BulkAttendance(models.BulkAttendanceRequest{
			Date:        attendanceDate,
			LiturgyName: attendanceLiturgy,
			UserIDs:     roster.SelectedIDs(),
		})
		if err != nil {
			return err
		}

		if len(result.ApprovedUsers) > 0 {
			fmt.Printf("approved: %s\n", strings.Join(result.ApprovedUsers, ", "))
		}
		if len(result.FailedUsers) > 0 {
			fmt.Printf("already approved: %s\n", strings.Join(result.FailedUsers, ", "))
		}
		return nil
	},
}

// loadRoster pulls every matching page into one roster.
func loadRoster(api *client.API, search string) (*client.Roster, error) {
	roster := client.NewRoster()
	for page := 1; roster.HasMore(); page++ {
		result, err := api.Users(pagination.Request{Page: page, Search: search})
		if err != nil {
			return nil, err
		}
		if len(result.Data) == 0 {
			break
		}
		roster.Merge(result)
	}
	return roster, nil
}

func init() {
	attendanceBulkCmd.Flags().StringVar(&attendanceDate, "date", "", "attendance date, YYYY-MM-DD")
	attendanceBulkCmd.Flags().StringVar(&attendanceLiturgy, "liturgy", "", "liturgy name, must match a configured price")
	attendanceBulkCmd.Flags().StringVar(&attendanceSearch, "search", "", "restrict the roster to matching usernames")
	attendanceBulkCmd.Flags().StringSliceVar(&attendanceIDs, "ids", nil, "user ids to include instead of everyone")
	attendanceBulkCmd.MarkFlagRequired("date")
	attendanceBulkCmd.MarkFlagRequired("liturgy")
	attendanceCmd.AddCommand(attendanceBulkCmd)
	rootCmd.AddCommand(attendanceCmd)
}
