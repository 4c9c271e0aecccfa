package server

import (
	"github.com/gin-gonic/gin"

	"github.com/abhisek/skillgap/internal/quiz"
)

const (
	cookieName = "skillgap"
	quizIDKey  = "quiz_id"
)

// currentQuiz resolves the session referenced by the request cookie.
func (s *Server) currentQuiz(c *gin.Context) (*quiz.Session, error) {
	cs, _ := s.cookies.Get(c.Request, cookieName)
	id, ok := cs.Values[quizIDKey].(string)
	if !ok || id == "" {
		return nil, quiz.ErrSessionNotFound
	}
	return s.registry.Get(id)
}

// bindQuiz stores the session handle in the cookie, dropping any session
// the cookie pointed at before.
func (s *Server) bindQuiz(c *gin.Context, q *quiz.Session) error {
	// A stale or tampered cookie still yields a usable empty session.
	cs, _ := s.cookies.Get(c.Request, cookieName)
	if prev, ok := cs.Values[quizIDKey].(string); ok && prev != q.ID {
		s.registry.Delete(prev)
	}
	cs.Values[quizIDKey] = q.ID
	return cs.Save(c.Request, c.Writer)
}
