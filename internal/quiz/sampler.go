package quiz

import (
	"math/rand/v2"

	"github.com/abhisek/skillgap/internal/skill"
)

// QuizSize is the target number of questions in a quiz.
const QuizSize = 10

// TierQuota is the number of questions drawn from one difficulty tier.
type TierQuota struct {
	Difficulty Difficulty
	Count      int
}

// DefaultQuotas returns the 3 Easy / 4 Medium / 3 Hard stratification.
func DefaultQuotas() []TierQuota {
	return []TierQuota{
		{DifficultyEasy, 3},
		{DifficultyMedium, 4},
		{DifficultyHard, 3},
	}
}

// Sample builds a quiz from the bank.
//
// Each tier contributes its quota sampled uniformly without replacement; a tier
// with fewer rows than its quota is skipped entirely. If the stratified draw
// does not come to exactly QuizSize, QuizSize rows are sampled from the whole
// bank instead (all rows when the bank is smaller). The result is shuffled.
func Sample(bank []Question, rng *rand.Rand) []Question {
	byTier := make(map[Difficulty][]Question)
	for _, q := range bank {
		byTier[q.Difficulty] = append(byTier[q.Difficulty], q)
	}

	var selected []Question
	for _, quota := range DefaultQuotas() {
		rows := byTier[quota.Difficulty]
		if len(rows) < quota.Count {
			continue
		}
		selected = append(selected, pick(rows, quota.Count, rng)...)
	}

	if len(selected) != QuizSize {
		selected = pick(bank, QuizSize, rng)
	}

	rng.Shuffle(len(selected), func(i, j int) {
		selected[i], selected[j] = selected[j], selected[i]
	})
	return selected
}

// pick returns k rows sampled uniformly without replacement. The input slice
// is not modified. When k exceeds the row count every row is returned.
func pick(rows []Question, k int, rng *rand.Rand) []Question {
	if k > len(rows) {
		k = len(rows)
	}
	out := make([]Question, 0, k)
	for _, i := range rng.Perm(len(rows))[:k] {
		out = append(out, rows[i])
	}
	return out
}

// FilterByLevel narrows a quiz to the tiers suited to a returning student:
// Weak keeps Easy and Medium, Medium keeps Medium and Hard, anything else
// keeps every question.
func FilterByLevel(questions []Question, level skill.Level) []Question {
	var keep map[Difficulty]bool
	switch level {
	case skill.LevelWeak:
		keep = map[Difficulty]bool{DifficultyEasy: true, DifficultyMedium: true}
	case skill.LevelMedium:
		keep = map[Difficulty]bool{DifficultyMedium: true, DifficultyHard: true}
	default:
		return questions
	}

	var out []Question
	for _, q := range questions {
		if keep[q.Difficulty] {
			out = append(out, q)
		}
	}
	return out
}

// NewRand returns a generator seeded from seed, or from runtime entropy when
// seed is zero.
func NewRand(seed uint64) *rand.Rand {
	if seed == 0 {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return rand.New(rand.NewPCG(seed, seed))
}
