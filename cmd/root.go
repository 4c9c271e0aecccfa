package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/abhisek/skillgap/internal/config"
	"github.com/abhisek/skillgap/internal/logging"
)

// Populated by the root command before any subcommand runs.
var (
	cfg    *config.Config
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "skillgap",
	Short: "Diagnostic programming quiz with an AI tutor",
	Long: "SkillGap samples a short quiz, classifies each topic as Weak, Medium or Strong, " +
		"tracks progress across attempts and asks a language model for tutoring and a study roadmap.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup(cmd)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runQuiz(cmd, quizFlags{})
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	f := rootCmd.PersistentFlags()
	f.String("config", "", "Path to a YAML config file (default: <data-dir>/config.yaml)")
	f.String("data-dir", "", "Directory for the profile, database and logs (overrides SKILLGAP_DATA_DIR)")
	f.String("profile", "", "Path to the student profile JSON")
	f.String("questions", "", "Path to a question bank CSV (default: built-in bank)")
	f.String("db", "", "Path to SQLite database file (overrides SKILLGAP_DB)")
	f.BoolP("verbose", "v", false, "Log to stderr as well as the log file")

	rootCmd.AddCommand(quizCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(mapCmd)
	rootCmd.AddCommand(tutorCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

// setup resolves configuration (flags > env > config file > defaults) and
// builds the logger.
func setup(cmd *cobra.Command) error {
	v := viper.New()
	flags := cmd.Root().PersistentFlags()
	if err := bindFlags(v, flags); err != nil {
		return err
	}

	file, _ := flags.GetString("config")
	c, err := config.Load(v, file)
	if err != nil {
		return err
	}
	cfg = c

	l, err := logging.New(logging.Options{
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
		Level:      cfg.Log.Level,
		Verbose:    cfg.Verbose,
	})
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	logger = l.With(zap.String("student_id", cfg.StudentID))
	logger.Debug("configuration loaded",
		zap.String("data_dir", cfg.DataDir),
		zap.String("profile", cfg.ProfilePath),
		zap.String("db", cfg.DBPath),
		zap.String("llm_provider", cfg.LLM.Provider))
	return nil
}

// bindFlags maps persistent flags onto their config keys.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for key, name := range map[string]string{
		"data_dir":  "data-dir",
		"profile":   "profile",
		"questions": "questions",
		"db":        "db",
		"verbose":   "verbose",
	} {
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			return fmt.Errorf("bind flag %s: %w", name, err)
		}
	}
	return nil
}
