package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

func (r *eventRepo) AppendQuizAttempt(ctx context.Context, data QuizAttemptData) error {
	scores, err := json.Marshal(data.Scores)
	if err != nil {
		return fmt.Errorf("marshal scores: %w", err)
	}
	levels, err := json.Marshal(data.Levels)
	if err != nil {
		return fmt.Errorf("marshal levels: %w", err)
	}

	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `INSERT INTO quiz_attempts
		(sequence, created_at, session_id, questions, overall, scores, levels)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		seqNum, time.Now().UnixMilli(), data.SessionID, data.Questions, data.Overall,
		string(scores), string(levels),
	)
	if err != nil {
		return fmt.Errorf("save quiz attempt: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryQuizAttempts(ctx context.Context, opts QueryOpts, topic string) ([]QuizAttempt, error) {
	where, args := opts.where()
	query := `SELECT id, sequence, created_at, session_id, questions, overall, scores, levels
		FROM quiz_attempts` + where + ` ORDER BY sequence DESC`

	// Topic filtering happens after decoding, so the limit is applied in Go
	// when a topic is given.
	if opts.Limit > 0 && topic == "" {
		query += ` LIMIT ?`
		args = append(args, opts.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query quiz attempts: %w", err)
	}
	defer rows.Close()

	var out []QuizAttempt
	for rows.Next() {
		var (
			a              QuizAttempt
			created        int64
			scores, levels string
		)
		if err := rows.Scan(&a.ID, &a.Sequence, &created, &a.SessionID, &a.Questions,
			&a.Overall, &scores, &levels); err != nil {
			return nil, fmt.Errorf("scan quiz attempt: %w", err)
		}
		if err := json.Unmarshal([]byte(scores), &a.Scores); err != nil {
			return nil, fmt.Errorf("decode scores of attempt %d: %w", a.ID, err)
		}
		if err := json.Unmarshal([]byte(levels), &a.Levels); err != nil {
			return nil, fmt.Errorf("decode levels of attempt %d: %w", a.ID, err)
		}
		a.Timestamp = time.UnixMilli(created)

		if topic != "" {
			if _, ok := a.Scores[topic]; !ok {
				continue
			}
		}
		out = append(out, a)
		if opts.Limit > 0 && len(out) == opts.Limit {
			break
		}
	}
	return out, rows.Err()
}
