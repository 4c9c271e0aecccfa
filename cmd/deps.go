package cmd

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/abhisek/skillgap/internal/assessment"
	"github.com/abhisek/skillgap/internal/llm"
	"github.com/abhisek/skillgap/internal/profile"
	"github.com/abhisek/skillgap/internal/quiz"
	"github.com/abhisek/skillgap/internal/recommend"
	"github.com/abhisek/skillgap/internal/store"
	"github.com/abhisek/skillgap/internal/tutor"
)

// openStore opens the audit log at the configured path.
func openStore() (*store.Store, error) {
	s, err := store.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}

// loadBank reads the configured question bank, or the built-in one.
func loadBank() (*quiz.Bank, error) {
	var (
		bank *quiz.Bank
		err  error
	)
	if cfg.QuestionsPath != "" {
		bank, err = quiz.LoadBank(cfg.QuestionsPath)
	} else {
		bank, err = quiz.DefaultBank()
	}
	if err != nil {
		return nil, fmt.Errorf("load question bank: %w", err)
	}
	for _, w := range bank.Warnings {
		logger.Warn("question bank", zap.String("warning", w))
	}
	logger.Debug("question bank loaded", zap.Int("questions", len(bank.Questions)))
	return bank, nil
}

// newAssessment wires the profile store, audit log and recommendation
// engine. events may be nil.
func newAssessment(events store.EventRepo) *assessment.Service {
	profiles := profile.NewFileStore(cfg.ProfilePath,
		profile.WithLogger(logger.Named("profile")),
		profile.WithStudentID(cfg.StudentID),
	)
	return assessment.NewService(profiles, events, recommend.NewEngine(cfg.TopicSequence), logger)
}

// newTutor builds the gateway over the configured chat backend.
func newTutor(ctx context.Context, events store.EventRepo) (*tutor.Gateway, error) {
	lc := cfg.LLMSettings()
	provider, err := llm.NewProvider(ctx, lc, events, logger.Named("llm"))
	if err != nil {
		return nil, fmt.Errorf("configure LLM provider: %w", err)
	}
	return tutor.NewGateway(provider,
		tutor.WithTimeout(lc.Timeout),
		tutor.WithSampling(lc.MaxTokens, lc.Temperature),
	), nil
}
