package profile

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/abhisek/skillgap/internal/skill"
)

// DefaultStudentID is the identifier given to freshly created profiles.
const DefaultStudentID = "demo_student"

// timestampLayout is a naive UTC ISO-8601 timestamp with microseconds. It is
// the format existing profile documents use.
const timestampLayout = "2006-01-02T15:04:05.000000"

// Timestamp is a UTC instant serialised without a zone offset.
type Timestamp struct {
	time.Time
}

// NewTimestamp normalises t to UTC.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{t.UTC()}
}

func (ts Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(ts.UTC().Format(timestampLayout))
}

func (ts *Timestamp) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999999", "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			ts.Time = t.UTC()
			return nil
		}
	}
	return fmt.Errorf("invalid timestamp %q", s)
}

// HistoryEntry is one evaluation of a topic.
type HistoryEntry struct {
	Score     float64     `json:"score"`
	Level     skill.Level `json:"level"`
	Timestamp Timestamp   `json:"timestamp"`
}

// TopicRecord is the append-only history of a topic plus its latest result.
type TopicRecord struct {
	History      []HistoryEntry `json:"history"`
	CurrentScore *float64       `json:"current_score"`
	CurrentLevel *skill.Level   `json:"current_level"`
}

// Append records a new evaluation and updates the current fields.
func (r *TopicRecord) Append(e HistoryEntry) {
	r.History = append(r.History, e)
	score, level := e.Score, e.Level
	r.CurrentScore = &score
	r.CurrentLevel = &level
}

// Profile is the durable, cumulative record of a student's quiz history.
type Profile struct {
	StudentID    string                  `json:"student_id"`
	CreatedAt    Timestamp               `json:"created_at"`
	LastUpdated  *Timestamp              `json:"last_updated"`
	QuizAttempts int                     `json:"quiz_attempts"`
	Topics       map[string]*TopicRecord `json:"topics"`
}

// UnmarshalJSON accepts quiz_attempts written as an integral float (2.0),
// which the schema treats as an integer.
func (p *Profile) UnmarshalJSON(b []byte) error {
	type plain Profile
	doc := struct {
		*plain
		QuizAttempts json.Number `json:"quiz_attempts"`
	}{plain: (*plain)(p)}
	if err := json.Unmarshal(b, &doc); err != nil {
		return err
	}

	p.QuizAttempts = 0
	if doc.QuizAttempts == "" {
		return nil
	}
	if n, err := doc.QuizAttempts.Int64(); err == nil {
		p.QuizAttempts = int(n)
		return nil
	}
	f, err := doc.QuizAttempts.Float64()
	if err != nil || f != math.Trunc(f) {
		return fmt.Errorf("quiz_attempts %s is not a whole number", doc.QuizAttempts)
	}
	p.QuizAttempts = int(f)
	return nil
}

// New returns an empty profile created at now.
func New(studentID string, now time.Time) *Profile {
	if studentID == "" {
		studentID = DefaultStudentID
	}
	return &Profile{
		StudentID: studentID,
		CreatedAt: NewTimestamp(now),
		Topics:    make(map[string]*TopicRecord),
	}
}

// Record applies one completed evaluation to the profile: it stamps
// last_updated, increments quiz_attempts and appends a history entry for
// every scored topic. The level comes from skills when present, otherwise it
// is classified from the score.
func (p *Profile) Record(scores map[string]float64, skills skill.Profile, now time.Time) {
	ts := NewTimestamp(now)
	p.LastUpdated = &ts
	p.QuizAttempts++
	if p.Topics == nil {
		p.Topics = make(map[string]*TopicRecord)
	}

	for topic, score := range scores {
		rec, ok := p.Topics[topic]
		if !ok {
			rec = &TopicRecord{History: []HistoryEntry{}}
			p.Topics[topic] = rec
		}

		level := skill.Classify(score)
		if e, ok := skills[topic]; ok {
			level = e.Level
		}

		rec.Append(HistoryEntry{
			Score:     skill.Round2(score),
			Level:     level,
			Timestamp: ts,
		})
	}
}

// CurrentSkills rebuilds a skill profile from each topic's latest result.
// Topics that have never been scored are omitted.
func CurrentSkills(p *Profile) skill.Profile {
	out := make(skill.Profile)
	for topic, rec := range p.Topics {
		if rec.CurrentScore == nil {
			continue
		}
		out[topic] = skill.NewEntry(*rec.CurrentScore)
	}
	return out
}
