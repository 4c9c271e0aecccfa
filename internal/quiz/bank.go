package quiz

import (
	"bytes"
	_ "embed"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

//go:embed questions.csv
var defaultBankCSV []byte

// bankColumns lists the columns every question source must provide.
var bankColumns = []string{
	"id", "topic", "difficulty", "question",
	"option1", "option2", "option3", "option4", "answer",
}

// ErrEmptyBank is returned when a quiz is requested from a bank with no rows.
var ErrEmptyBank = errors.New("question bank is empty")

// Bank is a parsed question source.
type Bank struct {
	Questions []Question

	// Warnings lists rows that loaded but cannot be scored correctly,
	// e.g. an answer that matches none of the options.
	Warnings []string
}

// LoadBank reads a CSV question bank from path.
func LoadBank(path string) (*Bank, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open question bank: %w", err)
	}
	defer f.Close()

	bank, err := ParseBank(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return bank, nil
}

// DefaultBank parses the sample bank compiled into the binary.
func DefaultBank() (*Bank, error) {
	return ParseBank(bytes.NewReader(defaultBankCSV))
}

// ParseBank reads CSV rows with a header line. Column order is taken from the
// header; unknown columns are ignored.
func ParseBank(r io.Reader) (*Bank, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return &Bank{}, nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, col := range bankColumns {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("missing column %q", col)
		}
	}

	bank := &Bank{}
	seen := make(map[int]bool)

	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		line, _ := cr.FieldPos(0)

		get := func(col string) string {
			return strings.TrimSpace(rec[idx[col]])
		}

		id, err := strconv.Atoi(get("id"))
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid id %q", line, get("id"))
		}
		if seen[id] {
			return nil, fmt.Errorf("line %d: duplicate id %d", line, id)
		}
		seen[id] = true

		diff, err := ParseDifficulty(get("difficulty"))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		q := Question{
			ID:         id,
			Topic:      get("topic"),
			Difficulty: diff,
			Text:       get("question"),
			Options: [4]string{
				get("option1"), get("option2"), get("option3"), get("option4"),
			},
			Answer: get("answer"),
		}
		if !q.HasAnswerOption() {
			bank.Warnings = append(bank.Warnings,
				fmt.Sprintf("line %d: question %d answer %q matches no option", line, id, q.Answer))
		}
		bank.Questions = append(bank.Questions, q)
	}

	return bank, nil
}
