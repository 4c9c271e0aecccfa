package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/skillgap/internal/screens/skillmap"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show the stored profile, trends and learning speed",
	RunE: func(cmd *cobra.Command, args []string) error {
		p := newAssessment(nil).Profile()

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			out, err := json.MarshalIndent(p, "", "    ")
			if err != nil {
				return fmt.Errorf("marshal profile: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		}

		printProfile(cmd.OutOrStdout(), p)
		return nil
	},
}

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show the learning path, resources and summary from stored results",
	RunE: func(cmd *cobra.Command, args []string) error {
		printPlan(cmd.OutOrStdout(), newAssessment(nil).BuildPlan())
		return nil
	},
}

var mapCmd = &cobra.Command{
	Use:   "map",
	Short: "Browse topics by skill level in the terminal UI",
	RunE: func(cmd *cobra.Command, args []string) error {
		return skillmap.Run(newAssessment(nil).Profile())
	},
}

func init() {
	profileCmd.Flags().Bool("json", false, "Print the raw profile document")
}
