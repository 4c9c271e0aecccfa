package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/skillgap/internal/profile"
	"github.com/abhisek/skillgap/internal/skill"
)

func TestLearningPath_WeakTopic(t *testing.T) {
	e := NewEngine(nil)
	path := e.LearningPath(skill.Profile{"Basics": skill.NewEntry(20)})

	require.Len(t, path, 3)
	assert.Equal(t, Step{"Basics", "Revise fundamentals", "Low quiz performance"}, path[0])
	assert.Equal(t, Step{"Basics", "Practice basic problems", "Strengthen core understanding"}, path[1])
	assert.Equal(t, Step{"Basics", "Re-attempt assessment", "Validate improvement"}, path[2])
}

func TestLearningPath_SequenceOrder(t *testing.T) {
	e := NewEngine(nil)
	skills := skill.Profile{
		"Functions": skill.NewEntry(90),
		"Loops":     skill.NewEntry(60),
		"Basics":    skill.NewEntry(80),
		"Recursion": skill.NewEntry(10),
	}

	path := e.LearningPath(skills)
	require.Len(t, path, 3)
	assert.Equal(t, "Basics", path[0].Topic)
	assert.Equal(t, "Proceed to next topic", path[0].Action)
	assert.Equal(t, "Loops", path[1].Topic)
	assert.Equal(t, "Practice intermediate problems", path[1].Action)
	assert.Equal(t, "Partial understanding detected", path[1].Reason)
	assert.Equal(t, "Functions", path[2].Topic)
	assert.Equal(t, "Strong understanding confirmed", path[2].Reason)
}

func TestLearningPath_CustomSequence(t *testing.T) {
	seq := []string{"Recursion", "Basics"}
	e := NewEngine(seq)
	seq[0] = "mutated"

	path := e.LearningPath(skill.Profile{
		"Basics":    skill.NewEntry(100),
		"Recursion": skill.NewEntry(55),
	})
	require.Len(t, path, 2)
	assert.Equal(t, "Recursion", path[0].Topic)
	assert.Equal(t, "Basics", path[1].Topic)
}

func TestLearningPath_Empty(t *testing.T) {
	assert.Empty(t, NewEngine(nil).LearningPath(nil))
}

func TestSummary(t *testing.T) {
	tests := []struct {
		name   string
		skills skill.Profile
		want   string
	}{
		{
			name:   "no topics",
			skills: skill.Profile{},
			want:   "Follow the AI roadmap consistently and revise weak topics with hands-on practice.",
		},
		{
			name: "weak and strong",
			skills: skill.Profile{
				"Loops":     skill.NewEntry(10),
				"Basics":    skill.NewEntry(30),
				"Functions": skill.NewEntry(90),
				"Strings":   skill.NewEntry(60),
			},
			want: "Immediate focus needed on Basics, Loops due to weak conceptual clarity. " +
				"You show strong understanding in Functions. These can be leveraged to learn advanced topics faster. " +
				"Follow the AI roadmap consistently and revise weak topics with hands-on practice.",
		},
		{
			name:   "medium only",
			skills: skill.Profile{"Loops": skill.NewEntry(50)},
			want:   "Follow the AI roadmap consistently and revise weak topics with hands-on practice.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Summary(tt.skills))
		})
	}
}

func TestResources(t *testing.T) {
	got := Resources(skill.Profile{
		"Basics":    skill.NewEntry(0),
		"Loops":     skill.NewEntry(74.99),
		"Functions": skill.NewEntry(75),
	})

	assert.Equal(t, Resource{"Beginner", "Concept clarity and examples"}, got["Basics"])
	assert.Equal(t, Resource{"Intermediate", "Practice and problem-solving"}, got["Loops"])
	assert.Equal(t, Resource{"Advanced", "Application and optimization"}, got["Functions"])
}

func TestExplain(t *testing.T) {
	got := Explain("Loops", skill.LevelWeak, profile.TrendDeclining)
	assert.Equal(t, "This recommendation was generated because:\n- Topic: Loops\n- Skill level: Weak\n- Learning trend: Declining", got)
}

func TestTrendTip(t *testing.T) {
	assert.Equal(t, "Keep going! Try slightly harder problems.", TrendTip(profile.TrendImproving))
	assert.Equal(t, "Revise basics and watch concept videos.", TrendTip(profile.TrendDeclining))
	assert.Equal(t, "Practice daily for 20 minutes.", TrendTip(profile.TrendStagnant))
	assert.Equal(t, "Practice daily for 20 minutes.", TrendTip(profile.TrendNotEnoughData))
}
