package skill

import (
	"math"
	"sort"
)

// Level is the ordinal skill classification for a topic.
type Level string

const (
	LevelWeak   Level = "Weak"
	LevelMedium Level = "Medium"
	LevelStrong Level = "Strong"
)

// Classification thresholds in percentage points.
const (
	WeakThreshold   = 50.0
	StrongThreshold = 75.0
)

// AllLevels returns the levels in ascending order.
func AllLevels() []Level {
	return []Level{LevelWeak, LevelMedium, LevelStrong}
}

// Classify maps a percentage score to a skill level.
func Classify(score float64) Level {
	switch {
	case score < WeakThreshold:
		return LevelWeak
	case score < StrongThreshold:
		return LevelMedium
	default:
		return LevelStrong
	}
}

// Valid reports whether l is one of the three known levels.
func (l Level) Valid() bool {
	switch l {
	case LevelWeak, LevelMedium, LevelStrong:
		return true
	}
	return false
}

// Entry is the per-topic classification derived from a single score.
type Entry struct {
	Score          float64 `json:"score"`
	Level          Level   `json:"level"`
	NeedsAttention bool    `json:"needs_attention"`
}

// NewEntry rounds the score to two decimals and classifies it.
// NeedsAttention is always derived from the level.
func NewEntry(score float64) Entry {
	level := Classify(score)
	return Entry{
		Score:          Round2(score),
		Level:          level,
		NeedsAttention: level == LevelWeak,
	}
}

// Profile maps topic name to its classification.
type Profile map[string]Entry

// Analyze classifies every topic score independently.
func Analyze(scores map[string]float64) Profile {
	p := make(Profile, len(scores))
	for topic, score := range scores {
		p[topic] = NewEntry(score)
	}
	return p
}

// Topics returns the topic names of p in sorted order.
func (p Profile) Topics() []string {
	topics := make([]string, 0, len(p))
	for t := range p {
		topics = append(topics, t)
	}
	sort.Strings(topics)
	return topics
}

// WeakTopics returns the sorted topics classified as Weak.
func WeakTopics(p Profile) []string {
	return topicsAt(p, LevelWeak)
}

// StrongTopics returns the sorted topics classified as Strong.
func StrongTopics(p Profile) []string {
	return topicsAt(p, LevelStrong)
}

func topicsAt(p Profile, level Level) []string {
	var out []string
	for _, topic := range p.Topics() {
		if p[topic].Level == level {
			out = append(out, topic)
		}
	}
	return out
}

// Counts tallies how many topics sit at each level. All three levels are
// always present in the result.
func Counts(p Profile) map[Level]int {
	counts := map[Level]int{LevelWeak: 0, LevelMedium: 0, LevelStrong: 0}
	for _, e := range p {
		counts[e.Level]++
	}
	return counts
}

// Overall classifies the mean of the given scores. An empty map is Weak.
func Overall(scores map[string]float64) Level {
	if len(scores) == 0 {
		return LevelWeak
	}
	var sum float64
	for _, s := range scores {
		sum += s
	}
	return Classify(sum / float64(len(scores)))
}

// Round2 rounds half away from zero to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
