package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/skillgap/internal/assessment"
	"github.com/abhisek/skillgap/internal/profile"
	"github.com/abhisek/skillgap/internal/tutor"
)

var tutorCmd = &cobra.Command{
	Use:   "tutor",
	Short: "Ask the AI tutor about your results",
}

var tutorExplainCmd = &cobra.Command{
	Use:   "explain <topic>",
	Short: "Explain a topic at your current level",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withTutor(cmd, func(ctx context.Context, gw *tutor.Gateway, svc *assessment.Service) (string, error) {
			e, err := svc.TopicStatus(args[0])
			if err != nil {
				return "", err
			}
			return gw.Explain(ctx, args[0], e.Level)
		})
	},
}

var tutorDiagnoseCmd = &cobra.Command{
	Use:   "diagnose <topic>",
	Short: "Diagnose likely misconceptions behind your latest score",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withTutor(cmd, func(ctx context.Context, gw *tutor.Gateway, svc *assessment.Service) (string, error) {
			e, err := svc.TopicStatus(args[0])
			if err != nil {
				return "", err
			}
			return gw.Diagnose(ctx, args[0], e.Score, e.Level)
		})
	},
}

var tutorRoadmapCmd = &cobra.Command{
	Use:   "roadmap",
	Short: "Generate a personalised study roadmap",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withTutor(cmd, func(ctx context.Context, gw *tutor.Gateway, svc *assessment.Service) (string, error) {
			p := svc.Profile()
			return gw.Roadmap(ctx, tutor.NewRoadmapInput(p, profile.CurrentSkills(p)))
		})
	},
}

// withTutor opens the audit log, builds the gateway and prints the reply.
func withTutor(cmd *cobra.Command, call func(context.Context, *tutor.Gateway, *assessment.Service) (string, error)) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := cmd.Context()
	gw, err := newTutor(ctx, st.EventRepo())
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.ErrOrStderr(), "Asking the tutor...")
	text, err := call(ctx, gw, newAssessment(st.EventRepo()))
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), text)
	return nil
}

func init() {
	tutorCmd.AddCommand(tutorExplainCmd)
	tutorCmd.AddCommand(tutorDiagnoseCmd)
	tutorCmd.AddCommand(tutorRoadmapCmd)
}
