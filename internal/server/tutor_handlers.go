package server

import (
	"context"
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/abhisek/skillgap/internal/assessment"
	"github.com/abhisek/skillgap/internal/llm"
	"github.com/abhisek/skillgap/internal/profile"
	"github.com/abhisek/skillgap/internal/tutor"
)

type topicRequest struct {
	Topic string `json:"topic" binding:"required"`
}

func (s *Server) tutorExplain(c *gin.Context) {
	s.withTopic(c, tutor.PurposeExplain, func(ctx context.Context, topic string) (string, error) {
		e, err := s.deps.Assessment.TopicStatus(topic)
		if err != nil {
			return "", err
		}
		return s.deps.Tutor.Explain(ctx, topic, e.Level)
	})
}

func (s *Server) tutorDiagnose(c *gin.Context) {
	s.withTopic(c, tutor.PurposeDiagnosis, func(ctx context.Context, topic string) (string, error) {
		e, err := s.deps.Assessment.TopicStatus(topic)
		if err != nil {
			return "", err
		}
		return s.deps.Tutor.Diagnose(ctx, topic, e.Score, e.Level)
	})
}

func (s *Server) tutorRoadmap(c *gin.Context) {
	if !s.tutorReady(c) {
		return
	}
	p := s.deps.Assessment.Profile()
	text, err := s.deps.Tutor.Roadmap(c.Request.Context(), tutor.NewRoadmapInput(p, profile.CurrentSkills(p)))
	s.tutorReply(c, tutor.PurposeRoadmap, "", text, err)
}

func (s *Server) withTopic(c *gin.Context, purpose string, call func(ctx context.Context, topic string) (string, error)) {
	if !s.tutorReady(c) {
		return
	}
	var req topicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "body must be {\"topic\": \"...\"}")
		return
	}
	text, err := call(c.Request.Context(), req.Topic)
	s.tutorReply(c, purpose, req.Topic, text, err)
}

func (s *Server) tutorReady(c *gin.Context) bool {
	if s.deps.Tutor == nil {
		fail(c, http.StatusServiceUnavailable, "tutor is not configured")
		return false
	}
	return true
}

// tutorReply maps gateway failures: unknown topics to 404, deadlines to 504,
// upstream rate limits to 429 and any other upstream failure to 502.
func (s *Server) tutorReply(c *gin.Context, purpose, topic, text string, err error) {
	if err == nil {
		s.metrics.tutorCalls.WithLabelValues(purpose, "ok").Inc()
		success(c, gin.H{"topic": topic, "text": text})
		return
	}
	if errors.Is(err, assessment.ErrUnknownTopic) {
		fail(c, http.StatusNotFound, err.Error())
		return
	}

	kind := llm.KindOf(err)
	s.metrics.tutorCalls.WithLabelValues(purpose, string(kind)).Inc()
	s.logger.Warn("tutor call failed",
		zap.String("purpose", purpose),
		zap.String("kind", string(kind)),
		zap.Error(err))

	switch kind {
	case llm.FailureTimeout:
		fail(c, http.StatusGatewayTimeout, "tutor timed out")
	case llm.FailureRateLimit:
		c.Header("Retry-After", strconv.Itoa(upstreamRetryAfter(err)))
		fail(c, http.StatusTooManyRequests, "tutor provider is rate limiting, try again later")
	default:
		fail(c, http.StatusBadGateway, "tutor unavailable: "+err.Error())
	}
}

// upstreamRetryAfter is the provider's Retry-After in whole seconds, or a
// minute when it sent none.
func upstreamRetryAfter(err error) int {
	var rl *llm.ErrRateLimit
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		return int(math.Ceil(rl.RetryAfter.Seconds()))
	}
	return 60
}
