// Package assessment ties a finished quiz session to the profile store, the
// audit log and the recommendation engine.
package assessment

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/abhisek/skillgap/internal/profile"
	"github.com/abhisek/skillgap/internal/quiz"
	"github.com/abhisek/skillgap/internal/recommend"
	"github.com/abhisek/skillgap/internal/skill"
	"github.com/abhisek/skillgap/internal/store"
)

// ErrUnknownTopic is returned when a topic has never been scored.
var ErrUnknownTopic = errors.New("topic has no results yet")

// Result is everything shown to the student after a submission.
type Result struct {
	SessionID    string                   `json:"session_id"`
	Scores       quiz.Scores              `json:"scores"`
	Skills       skill.Profile            `json:"skills"`
	Overall      skill.Level              `json:"overall"`
	Trends       map[string]profile.Trend `json:"trends"`
	LearningPath []recommend.Step         `json:"learning_path"`
	Summary      string                   `json:"summary"`
	QuizAttempts int                      `json:"quiz_attempts"`
}

// Plan is the recommendation view built from stored results.
type Plan struct {
	Skills       skill.Profile                 `json:"skills"`
	Trends       map[string]profile.Trend      `json:"trends"`
	Behaviors    map[string]profile.Behavior   `json:"learning_speed"`
	LearningPath []recommend.Step              `json:"learning_path"`
	Resources    map[string]recommend.Resource `json:"resources"`
	Tips         map[string]string             `json:"tips"`
	Reasons      map[string]string             `json:"reasons"`
	Summary      string                        `json:"summary"`
}

// Service evaluates sessions and builds plans.
type Service struct {
	profiles  *profile.FileStore
	eventRepo store.EventRepo
	engine    *recommend.Engine
	logger    *zap.Logger
}

// NewService wires the service. eventRepo may be nil, in which case
// attempts are not audited.
func NewService(profiles *profile.FileStore, eventRepo store.EventRepo, engine *recommend.Engine, logger *zap.Logger) *Service {
	if engine == nil {
		engine = recommend.NewEngine(nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		profiles:  profiles,
		eventRepo: eventRepo,
		engine:    engine,
		logger:    logger,
	}
}

// Profile loads the stored profile.
func (s *Service) Profile() *profile.Profile {
	return s.profiles.Load()
}

// Submit evaluates the session, persists the profile update and records the
// attempt. The profile write is the only fatal step.
func (s *Service) Submit(ctx context.Context, sess *quiz.Session) (*Result, error) {
	scores, err := sess.Submit()
	if err != nil {
		return nil, fmt.Errorf("submit quiz: %w", err)
	}

	skills := skill.Analyze(scores)
	p, err := s.profiles.Update(scores, skills)
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}

	overall := skill.Overall(scores)
	s.persist(ctx, sess, scores, skills, overall)

	s.logger.Info("quiz evaluated",
		zap.String("session_id", sess.ID),
		zap.Int("questions", len(sess.Questions())),
		zap.String("overall", string(overall)),
		zap.Int("quiz_attempts", p.QuizAttempts))

	return &Result{
		SessionID:    sess.ID,
		Scores:       scores,
		Skills:       skills,
		Overall:      overall,
		Trends:       profile.Trends(p),
		LearningPath: s.engine.LearningPath(skills),
		Summary:      recommend.Summary(skills),
		QuizAttempts: p.QuizAttempts,
	}, nil
}

func (s *Service) persist(ctx context.Context, sess *quiz.Session, scores quiz.Scores, skills skill.Profile, overall skill.Level) {
	if s.eventRepo == nil {
		return
	}
	levels := make(map[string]string, len(skills))
	for topic, e := range skills {
		levels[topic] = string(e.Level)
	}
	err := s.eventRepo.AppendQuizAttempt(context.WithoutCancel(ctx), store.QuizAttemptData{
		SessionID: sess.ID,
		Questions: len(sess.Questions()),
		Overall:   string(overall),
		Scores:    scores,
		Levels:    levels,
	})
	if err != nil {
		s.logger.Warn("failed to record quiz attempt", zap.String("session_id", sess.ID), zap.Error(err))
	}
}

// BuildPlan derives recommendations from the stored current results.
func (s *Service) BuildPlan() *Plan {
	p := s.profiles.Load()
	skills := profile.CurrentSkills(p)
	trends := profile.Trends(p)

	tips := make(map[string]string, len(trends))
	for topic, t := range trends {
		tips[topic] = recommend.TrendTip(t)
	}
	reasons := make(map[string]string, len(skills))
	for topic, e := range skills {
		reasons[topic] = recommend.Explain(topic, e.Level, trends[topic])
	}

	return &Plan{
		Skills:       skills,
		Trends:       trends,
		Behaviors:    profile.Behaviors(p),
		LearningPath: s.engine.LearningPath(skills),
		Resources:    recommend.Resources(skills),
		Tips:         tips,
		Reasons:      reasons,
		Summary:      recommend.Summary(skills),
	}
}

// TopicStatus returns the latest classification of topic.
func (s *Service) TopicStatus(topic string) (skill.Entry, error) {
	e, ok := profile.CurrentSkills(s.profiles.Load())[topic]
	if !ok {
		return skill.Entry{}, fmt.Errorf("%s: %w", topic, ErrUnknownTopic)
	}
	return e, nil
}

// OverallLevel classifies the mean of the stored current scores. It reports
// false when nothing has been scored yet.
func (s *Service) OverallLevel() (skill.Level, bool) {
	skills := profile.CurrentSkills(s.profiles.Load())
	if len(skills) == 0 {
		return "", false
	}
	scores := make(map[string]float64, len(skills))
	for topic, e := range skills {
		scores[topic] = e.Score
	}
	return skill.Overall(scores), true
}
