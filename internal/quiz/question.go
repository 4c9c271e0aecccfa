package quiz

import "fmt"

// Difficulty is the tier a question belongs to.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

// ParseDifficulty validates a raw difficulty value from the bank.
func ParseDifficulty(s string) (Difficulty, error) {
	switch d := Difficulty(s); d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return d, nil
	}
	return "", fmt.Errorf("unknown difficulty %q", s)
}

// Question is an immutable multiple-choice item from the question bank.
type Question struct {
	ID         int        `json:"id"`
	Topic      string     `json:"topic"`
	Difficulty Difficulty `json:"difficulty"`
	Text       string     `json:"question"`
	Options    [4]string  `json:"options"`
	Answer     string     `json:"-"`
}

// HasAnswerOption reports whether the answer key matches one of the options.
// Questions without a matching option can never be answered correctly.
func (q Question) HasAnswerOption() bool {
	for _, o := range q.Options {
		if o == q.Answer {
			return true
		}
	}
	return false
}

// Scores maps topic name to percentage correct (0-100, unrounded).
type Scores map[string]float64
