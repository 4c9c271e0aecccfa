package server

import (
	"github.com/gin-gonic/gin"

	"github.com/abhisek/skillgap/internal/profile"
)

func (s *Server) getProfile(c *gin.Context) {
	p := s.deps.Assessment.Profile()
	success(c, gin.H{
		"profile":        p,
		"trends":         profile.Trends(p),
		"learning_speed": profile.Behaviors(p),
	})
}

func (s *Server) getPlan(c *gin.Context) {
	success(c, s.deps.Assessment.BuildPlan())
}
