package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var controlsCmd = &cobra.Command{
	Use:   "controls",
	Short: "Toggle app feature visibility",
}

var controlsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the visibility flags",
	RunE: func(cmd *cobra.Command, args []string) error {
		api, err := requireLogin()
		if err != nil {
			return err
		}
		controls, err := api.Controls()
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tVISIBLE\tROLE")
		for _, c := range controls {
			fmt.Fprintf(w, "%s\t%v\t%s\n", c.Name, c.Visible, c.Role)
		}
		return w.Flush()
	},
}

var controlsSetCmd = &cobra.Command{
	Use:   "set <name> <0|1>",
	Short: "Show or hide one feature",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if args[1] != "0" && args[1] != "1" {
			return fmt.Errorf("visibility must be 0 or 1, got %q", args[1])
		}
		api, err := requireLogin()
		if err != nil {
			return err
		}
		control, err := api.SetControl(args[0], args[1] == "1")
		if err != nil {
			return err
		}
		fmt.Printf("%s is now visible=%v\n", control.Name, control.Visible)
		return nil
	},
}

func init() {
	controlsCmd.AddCommand(controlsListCmd, controlsSetCmd)
	rootCmd.AddCommand(controlsCmd)
}
