package profile

// Trend describes the change between a topic's two most recent scores.
type Trend string

const (
	TrendImproving     Trend = "Improving"
	TrendDeclining     Trend = "Declining"
	TrendStagnant      Trend = "Stagnant"
	TrendNotEnoughData Trend = "Not enough data"
)

// TrendThreshold is the score delta, in percentage points, that counts as a
// real change between two attempts.
const TrendThreshold = 5.0

// Trends computes a trend for every topic in the profile.
func Trends(p *Profile) map[string]Trend {
	out := make(map[string]Trend, len(p.Topics))
	for topic, rec := range p.Topics {
		out[topic] = TrendOf(rec.History)
	}
	return out
}

// TrendOf classifies the last two entries of a history.
func TrendOf(history []HistoryEntry) Trend {
	n := len(history)
	if n < 2 {
		return TrendNotEnoughData
	}
	diff := history[n-1].Score - history[n-2].Score
	switch {
	case diff > TrendThreshold:
		return TrendImproving
	case diff < -TrendThreshold:
		return TrendDeclining
	default:
		return TrendStagnant
	}
}

// Behavior is a coarse learning-speed tag derived from a topic's history.
type Behavior string

const (
	BehaviorFast              Behavior = "Fast learner"
	BehaviorSlowImproving     Behavior = "Slow but improving"
	BehaviorNeedsIntervention Behavior = "Needs intervention"
	BehaviorInsufficientData  Behavior = "Insufficient data"
)

// Behaviors tags every topic in the profile.
func Behaviors(p *Profile) map[string]Behavior {
	out := make(map[string]Behavior, len(p.Topics))
	for topic, rec := range p.Topics {
		out[topic] = BehaviorOf(rec.History)
	}
	return out
}

// BehaviorOf needs at least three entries. The rate is the total change
// from first to last score divided by the number of entries.
func BehaviorOf(history []HistoryEntry) Behavior {
	n := len(history)
	if n < 3 {
		return BehaviorInsufficientData
	}
	rate := (history[n-1].Score - history[0].Score) / float64(n)
	switch {
	case rate > 5:
		return BehaviorFast
	case rate > 0:
		return BehaviorSlowImproving
	default:
		return BehaviorNeedsIntervention
	}
}
