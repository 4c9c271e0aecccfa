package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/abhisek/skillgap/internal/quiz"
)

// questionView hides the answer key.
type questionView struct {
	ID         int             `json:"id"`
	Topic      string          `json:"topic"`
	Difficulty quiz.Difficulty `json:"difficulty"`
	Question   string          `json:"question"`
	Options    [4]string       `json:"options"`
}

type quizView struct {
	SessionID string         `json:"session_id"`
	State     string         `json:"state"`
	Questions []questionView `json:"questions"`
}

type answerRequest struct {
	Option string `json:"option" binding:"required"`
}

func (s *Server) startQuiz(c *gin.Context) {
	q, err := quiz.NewQuiz(s.deps.Bank, s.opts.Seed)
	if err != nil {
		fail(c, http.StatusServiceUnavailable, err.Error())
		return
	}
	s.registry.Add(q)

	if err := s.bindQuiz(c, q); err != nil {
		s.registry.Delete(q.ID)
		s.logger.Error("failed to save session cookie", zap.Error(err))
		fail(c, http.StatusInternalServerError, "could not start quiz")
		return
	}

	created(c, viewOf(q))
}

func (s *Server) answerQuestion(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		badRequest(c, "question id must be an integer")
		return
	}
	var req answerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "body must be {\"option\": \"...\"}")
		return
	}

	q, ok := s.quizOrFail(c)
	if !ok {
		return
	}
	if err := q.Answer(id, req.Option); err != nil {
		s.sessionError(c, err)
		return
	}
	success(c, gin.H{"question_id": id, "answered": len(q.Answers())})
}

func (s *Server) submitQuiz(c *gin.Context) {
	q, ok := s.quizOrFail(c)
	if !ok {
		return
	}

	res, err := s.deps.Assessment.Submit(c.Request.Context(), q)
	if err != nil {
		if errors.Is(err, quiz.ErrAlreadySubmitted) || errors.Is(err, quiz.ErrSessionReset) {
			s.sessionError(c, err)
			return
		}
		s.logger.Error("quiz submission failed", zap.String("session_id", q.ID), zap.Error(err))
		fail(c, http.StatusInternalServerError, "could not save results")
		return
	}
	s.metrics.submissions.WithLabelValues(string(res.Overall)).Inc()
	success(c, res)
}

func (s *Server) resetQuiz(c *gin.Context) {
	q, ok := s.quizOrFail(c)
	if !ok {
		return
	}
	q.Reset()
	success(c, gin.H{"session_id": q.ID, "state": q.State()})
}

func (s *Server) quizOrFail(c *gin.Context) (*quiz.Session, bool) {
	q, err := s.currentQuiz(c)
	if err != nil {
		fail(c, http.StatusNotFound, "no active quiz; POST /api/quiz to start one")
		return nil, false
	}
	return q, true
}

func (s *Server) sessionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, quiz.ErrUnknownQuestion):
		fail(c, http.StatusNotFound, err.Error())
	case errors.Is(err, quiz.ErrAlreadySubmitted), errors.Is(err, quiz.ErrSessionReset):
		fail(c, http.StatusConflict, err.Error())
	default:
		fail(c, http.StatusInternalServerError, err.Error())
	}
}

func viewOf(q *quiz.Session) quizView {
	questions := q.Questions()
	out := quizView{
		SessionID: q.ID,
		State:     string(q.State()),
		Questions: make([]questionView, len(questions)),
	}
	for i, item := range questions {
		out.Questions[i] = questionView{
			ID:         item.ID,
			Topic:      item.Topic,
			Difficulty: item.Difficulty,
			Question:   item.Text,
			Options:    item.Options,
		}
	}
	return out
}
