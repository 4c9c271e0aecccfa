package quiz

// Evaluate scores submitted answers against the answer key.
//
// Answers are compared by exact string equality. A question with no entry in
// answers counts as incorrect. Only topics present in questions are emitted,
// so no topic ever has a zero denominator.
func Evaluate(questions []Question, answers map[int]string) Scores {
	type tally struct{ correct, total int }
	stats := make(map[string]*tally)

	for _, q := range questions {
		t, ok := stats[q.Topic]
		if !ok {
			t = &tally{}
			stats[q.Topic] = t
		}
		if got, ok := answers[q.ID]; ok && got == q.Answer {
			t.correct++
		}
		t.total++
	}

	scores := make(Scores, len(stats))
	for topic, t := range stats {
		scores[topic] = float64(t.correct) / float64(t.total) * 100
	}
	return scores
}
