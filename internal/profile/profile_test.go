package profile

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/abhisek/skillgap/internal/skill"
)

var fixedNow = time.Date(2025, 3, 14, 9, 26, 53, 589793000, time.UTC)

func newTestStore(t *testing.T, opts ...Option) *FileStore {
	t.Helper()
	path := filepath.Join(t.TempDir(), "student_profile.json")
	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	return NewFileStore(path, opts...)
}

func history(scores ...float64) []HistoryEntry {
	out := make([]HistoryEntry, len(scores))
	for i, s := range scores {
		out[i] = HistoryEntry{Score: s, Level: skill.Classify(s), Timestamp: NewTimestamp(fixedNow)}
	}
	return out
}

func TestLoad_MissingFile(t *testing.T) {
	s := newTestStore(t)
	p := s.Load()

	assert.Equal(t, DefaultStudentID, p.StudentID)
	assert.Equal(t, 0, p.QuizAttempts)
	assert.Empty(t, p.Topics)
	assert.Nil(t, p.LastUpdated)
	assert.Equal(t, fixedNow, p.CreatedAt.Time)
}

func TestLoad_CorruptFileSelfHeals(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	s := newTestStore(t, WithLogger(zap.New(core)))

	garbage := []byte("{not json")
	require.NoError(t, os.WriteFile(s.Path(), garbage, 0o644))

	p := s.Load()
	assert.Equal(t, 0, p.QuizAttempts)
	assert.Empty(t, p.Topics)

	backup, err := os.ReadFile(s.Path() + ".corrupt")
	require.NoError(t, err)
	assert.Equal(t, garbage, backup)
	assert.Equal(t, 1, logs.FilterMessage("profile corrupt, starting fresh").Len())
}

func TestLoad_SchemaViolationSelfHeals(t *testing.T) {
	s := newTestStore(t)
	doc := `{"student_id": "x", "created_at": "2025-01-01T00:00:00", "quiz_attempts": -1, "topics": {}}`
	require.NoError(t, os.WriteFile(s.Path(), []byte(doc), 0o644))

	p := s.Load()
	assert.Equal(t, DefaultStudentID, p.StudentID)
	assert.FileExists(t, s.Path()+".corrupt")
}

func TestLoad_LegacyDocument(t *testing.T) {
	s := newTestStore(t)
	doc := `{
    "student_id": "demo_student",
    "created_at": "2024-11-02T10:15:30.123456",
    "last_updated": "2024-11-03T08:00:00.000001",
    "quiz_attempts": 2,
    "topics": {
        "Loops": {
            "history": [
                {"score": 40.0, "level": "Weak", "timestamp": "2024-11-02T10:15:30.123456"},
                {"score": 66.67, "level": "Medium", "timestamp": "2024-11-03T08:00:00.000001"}
            ],
            "current_score": 66.67,
            "current_level": "Medium"
        }
    }
}`
	require.NoError(t, os.WriteFile(s.Path(), []byte(doc), 0o644))

	p := s.Load()
	require.Equal(t, 2, p.QuizAttempts)
	rec := p.Topics["Loops"]
	require.NotNil(t, rec)
	require.Len(t, rec.History, 2)
	assert.Equal(t, skill.LevelMedium, *rec.CurrentLevel)
	assert.Equal(t, 123456000, p.CreatedAt.Nanosecond())
	assert.NoFileExists(t, s.Path()+".corrupt")
}

func TestLoad_WholeNumberFloatAttempts(t *testing.T) {
	s := newTestStore(t)
	doc := `{"student_id": "x", "created_at": "2025-01-01T00:00:00", "quiz_attempts": 2.0, "topics": {}}`
	require.NoError(t, os.WriteFile(s.Path(), []byte(doc), 0o644))

	p := s.Load()
	assert.Equal(t, "x", p.StudentID)
	assert.Equal(t, 2, p.QuizAttempts)
	assert.NoFileExists(t, s.Path()+".corrupt")

	p, err := s.Update(map[string]float64{"Loops": 50}, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, p.QuizAttempts)
}

func TestProfile_UnmarshalRejectsFractionalAttempts(t *testing.T) {
	var p Profile
	assert.Error(t, json.Unmarshal([]byte(`{"quiz_attempts": 2.5, "topics": {}}`), &p))
}

func TestUpdate_AppendsHistory(t *testing.T) {
	s := newTestStore(t)

	for i, score := range []float64{40, 60, 80} {
		scores := map[string]float64{"Loops": score}
		p, err := s.Update(scores, skill.Analyze(scores))
		require.NoError(t, err)
		assert.Equal(t, i+1, p.QuizAttempts)
	}

	p := s.Load()
	assert.Equal(t, 3, p.QuizAttempts)
	rec := p.Topics["Loops"]
	require.Len(t, rec.History, 3)
	assert.Equal(t, 80.0, *rec.CurrentScore)
	assert.Equal(t, skill.LevelStrong, *rec.CurrentLevel)
	require.NotNil(t, p.LastUpdated)
	assert.Equal(t, fixedNow, p.LastUpdated.Time)
}

func TestUpdate_OnlyTouchesScoredTopics(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Update(map[string]float64{"Basics": 50, "Loops": 20}, nil)
	require.NoError(t, err)
	p, err := s.Update(map[string]float64{"Basics": 90}, nil)
	require.NoError(t, err)

	assert.Len(t, p.Topics["Basics"].History, 2)
	assert.Len(t, p.Topics["Loops"].History, 1)
	assert.Equal(t, skill.LevelWeak, *p.Topics["Loops"].CurrentLevel)
}

func TestSave_DocumentFormat(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Update(map[string]float64{"Functions": 100.0 / 3}, nil)
	require.NoError(t, err)

	raw, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	require.NoError(t, Validate(raw))
	assert.Contains(t, string(raw), "\n    \"student_id\"")
	assert.Contains(t, string(raw), `"timestamp": "2025-03-14T09:26:53.589793"`)
	assert.Contains(t, string(raw), `"score": 33.33`)

	var generic map[string]any
	require.NoError(t, json.Unmarshal(raw, &generic))
	assert.ElementsMatch(t,
		[]string{"student_id", "created_at", "last_updated", "quiz_attempts", "topics"},
		keys(generic))
}

func TestSave_LeavesNoTempFiles(t *testing.T) {
	s := newTestStore(t)
	for range 3 {
		_, err := s.Update(map[string]float64{"Basics": 70}, nil)
		require.NoError(t, err)
	}

	entries, err := os.ReadDir(filepath.Dir(s.Path()))
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasSuffix(e.Name(), ".tmp"), "leftover %s", e.Name())
	}
}

func TestSave_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "profile.json")
	s := NewFileStore(path, WithStudentID("alice"))
	require.NoError(t, s.Save(s.Load()))

	p := s.Load()
	assert.Equal(t, "alice", p.StudentID)
}

func TestTimestamp_RoundTrip(t *testing.T) {
	ts := NewTimestamp(time.Date(2025, 1, 2, 3, 4, 5, 6000, time.FixedZone("IST", 19800)))
	b, err := json.Marshal(ts)
	require.NoError(t, err)
	assert.Equal(t, `"2025-01-01T21:34:05.000006"`, string(b))

	var back Timestamp
	require.NoError(t, json.Unmarshal(b, &back))
	assert.True(t, ts.Equal(back.Time))

	require.NoError(t, json.Unmarshal([]byte(`"2025-01-02T03:04:05Z"`), &back))
	require.NoError(t, json.Unmarshal([]byte(`"2025-01-02T03:04:05"`), &back))
	assert.Error(t, json.Unmarshal([]byte(`"yesterday"`), &back))
}

func TestTrendOf(t *testing.T) {
	tests := []struct {
		name   string
		scores []float64
		want   Trend
	}{
		{"empty", nil, TrendNotEnoughData},
		{"single", []float64{50}, TrendNotEnoughData},
		{"improving", []float64{40, 50}, TrendImproving},
		{"declining", []float64{50, 40}, TrendDeclining},
		{"small gain", []float64{50, 52}, TrendStagnant},
		{"exactly threshold", []float64{50, 55}, TrendStagnant},
		{"only last two count", []float64{10, 90, 88}, TrendStagnant},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TrendOf(history(tt.scores...)))
		})
	}
}

func TestBehaviorOf(t *testing.T) {
	tests := []struct {
		name   string
		scores []float64
		want   Behavior
	}{
		{"two entries", []float64{10, 90}, BehaviorInsufficientData},
		{"fast", []float64{20, 40, 60}, BehaviorFast},
		{"slow", []float64{50, 52, 55}, BehaviorSlowImproving},
		{"flat", []float64{50, 60, 50}, BehaviorNeedsIntervention},
		{"falling", []float64{80, 60, 40}, BehaviorNeedsIntervention},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BehaviorOf(history(tt.scores...)))
		})
	}
}

func TestTrendsAndBehaviors(t *testing.T) {
	p := New("", fixedNow)
	p.Topics["Loops"] = &TopicRecord{History: history(40, 50)}
	p.Topics["Basics"] = &TopicRecord{History: history(30)}

	assert.Equal(t, map[string]Trend{"Loops": TrendImproving, "Basics": TrendNotEnoughData}, Trends(p))
	assert.Equal(t, map[string]Behavior{"Loops": BehaviorInsufficientData, "Basics": BehaviorInsufficientData}, Behaviors(p))
}

func TestCurrentSkills(t *testing.T) {
	p := New("", fixedNow)
	p.Record(map[string]float64{"Loops": 80, "Basics": 10}, nil, fixedNow)
	p.Topics["Functions"] = &TopicRecord{History: []HistoryEntry{}}

	got := CurrentSkills(p)
	assert.Len(t, got, 2)
	assert.Equal(t, skill.LevelStrong, got["Loops"].Level)
	assert.True(t, got["Basics"].NeedsAttention)
}

func keys(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
