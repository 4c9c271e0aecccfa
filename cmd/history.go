package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/abhisek/skillgap/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List evaluated quizzes from the audit log",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		topic, _ := cmd.Flags().GetString("topic")

		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		attempts, err := st.EventRepo().QueryQuizAttempts(cmd.Context(), store.QueryOpts{Limit: limit}, topic)
		if err != nil {
			return fmt.Errorf("query attempts: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(attempts) == 0 {
			fmt.Fprintln(out, "No quiz attempts found.")
			return nil
		}

		t := newTable("ID", "Time", "Questions", "Overall", "Scores")
		for _, a := range attempts {
			scores := make([]string, 0, len(a.Scores))
			for _, name := range sortedKeys(a.Scores) {
				if topic != "" && name != topic {
					continue
				}
				scores = append(scores, fmt.Sprintf("%s %.2f%% (%s)", name, a.Scores[name], a.Levels[name]))
			}
			t.Row(
				strconv.Itoa(a.ID),
				a.Timestamp.Local().Format("2006-01-02 15:04:05"),
				strconv.Itoa(a.Questions),
				a.Overall,
				strings.Join(scores, "\n"),
			)
		}
		lipgloss.Fprintln(out, t.Render())
		return nil
	},
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 20, "Number of attempts to show")
	historyCmd.Flags().StringP("topic", "t", "", "Only attempts that scored this topic")
}
