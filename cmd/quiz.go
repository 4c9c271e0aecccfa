package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/skillgap/internal/quiz"
	"github.com/abhisek/skillgap/internal/skill"
	quizscreen "github.com/abhisek/skillgap/internal/screens/quiz"
)

type quizFlags struct {
	plain    bool
	adaptive bool
	seed     uint64
}

var quizCmd = &cobra.Command{
	Use:   "quiz",
	Short: "Take a diagnostic quiz",
	RunE: func(cmd *cobra.Command, args []string) error {
		var f quizFlags
		f.plain, _ = cmd.Flags().GetBool("plain")
		f.adaptive, _ = cmd.Flags().GetBool("adaptive")
		f.seed, _ = cmd.Flags().GetUint64("seed")
		return runQuiz(cmd, f)
	},
}

func init() {
	quizCmd.Flags().Bool("plain", false, "Use line prompts instead of the full-screen UI")
	quizCmd.Flags().Bool("adaptive", false, "Pick difficulty tiers from your stored overall level")
	quizCmd.Flags().Uint64("seed", 0, "Seed for question sampling (0 = random)")
}

func runQuiz(cmd *cobra.Command, f quizFlags) error {
	bank, err := loadBank()
	if err != nil {
		return err
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	svc := newAssessment(st.EventRepo())

	sess, err := quiz.NewQuiz(bank, f.seed)
	if err != nil {
		return err
	}
	if f.adaptive {
		sess = adapt(sess, svc.OverallLevel)
	}
	logger.Info("quiz started",
		zap.String("session_id", sess.ID),
		zap.Int("questions", len(sess.Questions())),
		zap.Bool("adaptive", f.adaptive))

	out := cmd.OutOrStdout()
	if f.plain {
		if err := askPlain(cmd.InOrStdin(), out, sess); err != nil {
			return err
		}
	} else {
		m, err := quizscreen.Run(sess)
		if err != nil {
			return err
		}
		if m.Outcome() != quizscreen.OutcomeSubmitted {
			fmt.Fprintln(out, "Quiz abandoned; nothing was saved.")
			return nil
		}
	}

	res, err := svc.Submit(cmd.Context(), sess)
	if err != nil {
		return err
	}
	printResult(out, res)
	return nil
}

// adapt narrows the quiz to the tiers suited to the stored overall level.
// The session is returned unchanged when there is no history or nothing would
// remain.
func adapt(sess *quiz.Session, overall func() (skill.Level, bool)) *quiz.Session {
	level, ok := overall()
	if !ok {
		return sess
	}
	filtered := quiz.FilterByLevel(sess.Questions(), level)
	if len(filtered) == 0 {
		return sess
	}
	return quiz.NewSession(filtered)
}

var errInputClosed = errors.New("input closed before the quiz finished")

// askPlain prompts for each question on w and reads answers from r. An
// answer is a letter A-D or the option text; an empty line skips.
func askPlain(r io.Reader, w io.Writer, sess *quiz.Session) error {
	in := bufio.NewScanner(r)
	questions := sess.Questions()

	for i, q := range questions {
		fmt.Fprintf(w, "\nQ%d/%d  [%s · %s]\n%s\n", i+1, len(questions), q.Topic, q.Difficulty, q.Text)
		for j, opt := range q.Options {
			fmt.Fprintf(w, "  %c) %s\n", 'A'+j, opt)
		}

		for {
			fmt.Fprint(w, "Answer (A-D, Enter to skip): ")
			if !in.Scan() {
				if err := in.Err(); err != nil {
					return fmt.Errorf("read answer: %w", err)
				}
				return errInputClosed
			}
			line := strings.TrimSpace(in.Text())
			if line == "" {
				break
			}
			opt, ok := resolveOption(q, line)
			if !ok {
				fmt.Fprintln(w, "Please enter A, B, C or D.")
				continue
			}
			if err := sess.Answer(q.ID, opt); err != nil {
				return err
			}
			break
		}
	}
	return nil
}

func resolveOption(q quiz.Question, input string) (string, bool) {
	if len(input) == 1 {
		c := strings.ToUpper(input)[0]
		if c >= 'A' && c <= 'D' {
			return q.Options[c-'A'], true
		}
	}
	for _, opt := range q.Options {
		if strings.EqualFold(opt, input) {
			return opt, true
		}
	}
	return "", false
}
