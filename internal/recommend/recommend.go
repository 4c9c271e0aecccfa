// Package recommend turns a skill profile into an ordered learning path and
// human-readable advice.
package recommend

import (
	"fmt"
	"slices"
	"strings"

	"github.com/abhisek/skillgap/internal/profile"
	"github.com/abhisek/skillgap/internal/skill"
)

// DefaultTopicSequence is the prerequisite order of the built-in topics.
var DefaultTopicSequence = []string{"Basics", "Loops", "Functions"}

// Step is a single recommended action on a topic.
type Step struct {
	Topic  string `json:"topic"`
	Action string `json:"action"`
	Reason string `json:"reason"`
}

// Resource suggests material difficulty and focus for a topic.
type Resource struct {
	RecommendedLevel string `json:"recommended_level"`
	Focus            string `json:"focus"`
}

// Engine builds recommendations over a fixed topic order.
type Engine struct {
	Sequence []string
}

// NewEngine returns an engine for the given order, or the default order when
// sequence is empty.
func NewEngine(sequence []string) *Engine {
	if len(sequence) == 0 {
		sequence = DefaultTopicSequence
	}
	return &Engine{Sequence: slices.Clone(sequence)}
}

// LearningPath walks the sequence and emits steps for every topic present in
// skills. Topics outside the sequence are ignored.
func (e *Engine) LearningPath(skills skill.Profile) []Step {
	var path []Step
	for _, topic := range e.Sequence {
		entry, ok := skills[topic]
		if !ok {
			continue
		}
		path = append(path, stepsFor(topic, entry.Level)...)
	}
	return path
}

func stepsFor(topic string, level skill.Level) []Step {
	switch level {
	case skill.LevelWeak:
		return []Step{
			{Topic: topic, Action: "Revise fundamentals", Reason: "Low quiz performance"},
			{Topic: topic, Action: "Practice basic problems", Reason: "Strengthen core understanding"},
			{Topic: topic, Action: "Re-attempt assessment", Reason: "Validate improvement"},
		}
	case skill.LevelMedium:
		return []Step{
			{Topic: topic, Action: "Practice intermediate problems", Reason: "Partial understanding detected"},
		}
	default:
		return []Step{
			{Topic: topic, Action: "Proceed to next topic", Reason: "Strong understanding confirmed"},
		}
	}
}

// Summary is a short paragraph naming weak and strong topics. Medium topics
// are not mentioned.
func Summary(skills skill.Profile) string {
	var parts []string

	if weak := skill.WeakTopics(skills); len(weak) > 0 {
		parts = append(parts, fmt.Sprintf(
			"Immediate focus needed on %s due to weak conceptual clarity.",
			strings.Join(weak, ", ")))
	}
	if strong := skill.StrongTopics(skills); len(strong) > 0 {
		parts = append(parts, fmt.Sprintf(
			"You show strong understanding in %s. These can be leveraged to learn advanced topics faster.",
			strings.Join(strong, ", ")))
	}
	parts = append(parts, "Follow the AI roadmap consistently and revise weak topics with hands-on practice.")

	return strings.Join(parts, " ")
}

// Resources maps every topic in skills to a material suggestion.
func Resources(skills skill.Profile) map[string]Resource {
	out := make(map[string]Resource, len(skills))
	for topic, entry := range skills {
		out[topic] = resourceFor(entry.Level)
	}
	return out
}

func resourceFor(level skill.Level) Resource {
	switch level {
	case skill.LevelWeak:
		return Resource{RecommendedLevel: "Beginner", Focus: "Concept clarity and examples"}
	case skill.LevelMedium:
		return Resource{RecommendedLevel: "Intermediate", Focus: "Practice and problem-solving"}
	default:
		return Resource{RecommendedLevel: "Advanced", Focus: "Application and optimization"}
	}
}

// Explain states the inputs a topic's recommendation was derived from.
func Explain(topic string, level skill.Level, trend profile.Trend) string {
	return fmt.Sprintf("This recommendation was generated because:\n- Topic: %s\n- Skill level: %s\n- Learning trend: %s",
		topic, level, trend)
}

// TrendTip is a one-line study tip for a topic's trend.
func TrendTip(t profile.Trend) string {
	switch t {
	case profile.TrendImproving:
		return "Keep going! Try slightly harder problems."
	case profile.TrendDeclining:
		return "Revise basics and watch concept videos."
	default:
		return "Practice daily for 20 minutes."
	}
}
