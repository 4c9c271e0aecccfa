// Package tutor builds tutoring prompts from quiz results and forwards them
// to a chat-completion provider.
package tutor

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/abhisek/skillgap/internal/profile"
	"github.com/abhisek/skillgap/internal/skill"
)

const explanationTemplate = `
You are an expert programming tutor.

Topic: %s
Student level: %s

Explain the topic clearly.

Include:
1. Definition (1–2 lines)
2. Brief explanation with example
3. Where it is used
4. YouTube search suggestions

Format:
Definition:
Explanation:
Usage:
YouTube searches:
`

const roadmapTemplate = `
You are an adaptive learning AI.

Student data:
- Skill gaps
- Learning trends
- Learning speed patterns
- Quiz attempts

%s

Generate a DAY-WISE adaptive learning plan.

Rules:
- Weak + slow learners → more revision
- Fast learners → compressed roadmap
- Declining topics → intervention focus
`

const diagnosisTemplate = `
You are an educational diagnostician.

Topic: %s
Score: %s%%
Level: %s

Explain:
- Why the student is weak
- Common mistakes
- How to improve
`

// RoadmapInput is the student snapshot embedded in a roadmap prompt.
type RoadmapInput struct {
	Skills    skill.Profile               `json:"skills"`
	Trends    map[string]profile.Trend    `json:"trends"`
	Behaviors map[string]profile.Behavior `json:"learning_speed"`
	Attempts  int                         `json:"attempts"`
}

// NewRoadmapInput assembles a snapshot from a stored profile. When skills is
// nil the levels stored in the profile are used.
func NewRoadmapInput(p *profile.Profile, skills skill.Profile) RoadmapInput {
	if skills == nil {
		skills = profile.CurrentSkills(p)
	}
	return RoadmapInput{
		Skills:    skills,
		Trends:    profile.Trends(p),
		Behaviors: profile.Behaviors(p),
		Attempts:  p.QuizAttempts,
	}
}

// BuildExplanationPrompt asks for a structured explanation of a topic.
func BuildExplanationPrompt(topic string, level skill.Level) string {
	return fmt.Sprintf(explanationTemplate, topic, level)
}

// BuildRoadmapPrompt asks for a day-wise plan from the student snapshot.
func BuildRoadmapPrompt(in RoadmapInput) string {
	// Scores are finite, so marshalling cannot fail.
	data, _ := json.MarshalIndent(in, "", "  ")
	return fmt.Sprintf(roadmapTemplate, data)
}

// BuildDiagnosisPrompt asks why a topic score is low.
func BuildDiagnosisPrompt(topic string, score float64, level skill.Level) string {
	return fmt.Sprintf(diagnosisTemplate, topic, formatScore(score), level)
}

// formatScore prints whole numbers with a trailing ".0" so 50 reads "50.0".
func formatScore(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}
