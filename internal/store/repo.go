package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
}

// LLMRequestEventData captures the data for a single chat-completion call.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMEvent is a stored chat-completion call.
type LLMEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// LLMPurposeUsage aggregates calls sharing a purpose.
type LLMPurposeUsage struct {
	Purpose      string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// LLMModelUsage aggregates calls served by one model.
type LLMModelUsage struct {
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
}

// QuizAttemptData captures one evaluated quiz.
type QuizAttemptData struct {
	SessionID string
	Questions int
	Overall   string
	Scores    map[string]float64
	Levels    map[string]string
}

// QuizAttempt is a stored quiz evaluation.
type QuizAttempt struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	QuizAttemptData
}

// EventRepo provides append and query access to the audit log.
type EventRepo interface {
	// AppendLLMRequest records a chat-completion call.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns calls newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEvent, error)

	// GetLLMEvent returns a single call, or nil if id is unknown.
	GetLLMEvent(ctx context.Context, id int) (*LLMEvent, error)

	// LLMUsageByPurpose sums token usage per purpose.
	LLMUsageByPurpose(ctx context.Context) ([]LLMPurposeUsage, error)

	// LLMUsageByModel sums token usage per model.
	LLMUsageByModel(ctx context.Context) ([]LLMModelUsage, error)

	// AppendQuizAttempt records an evaluated quiz.
	AppendQuizAttempt(ctx context.Context, data QuizAttemptData) error

	// QueryQuizAttempts returns attempts newest first. A non-empty topic
	// keeps only attempts that scored that topic.
	QueryQuizAttempts(ctx context.Context, opts QueryOpts, topic string) ([]QuizAttempt, error)
}
