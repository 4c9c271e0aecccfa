package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/skillgap/internal/assessment"
	"github.com/abhisek/skillgap/internal/llm"
	"github.com/abhisek/skillgap/internal/profile"
	"github.com/abhisek/skillgap/internal/quiz"
	"github.com/abhisek/skillgap/internal/tutor"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

const testBank = `id,topic,difficulty,question,option1,option2,option3,option4,answer
1,Basics,Easy,q1,a,b,c,d,a
2,Basics,Medium,q2,a,b,c,d,b
3,Loops,Hard,q3,a,b,c,d,c
`

var answerKey = map[int]string{1: "a", 2: "b", 3: "c"}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type harness struct {
	t       *testing.T
	srv     *httptest.Server
	client  *http.Client
	server  *Server
	service *assessment.Service
}

func newHarness(t *testing.T, gw *tutor.Gateway, opts Options) *harness {
	t.Helper()

	bank, err := quiz.ParseBank(strings.NewReader(testBank))
	require.NoError(t, err)

	profiles := profile.NewFileStore(filepath.Join(t.TempDir(), "student_profile.json"))
	svc := assessment.NewService(profiles, nil, nil, nil)

	if opts.SessionSecret == "" {
		opts.SessionSecret = "test-secret-test-secret-test-sec"
	}
	s, err := New(Deps{Bank: bank, Assessment: svc, Tutor: gw}, opts)
	require.NoError(t, err)

	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &harness{
		t:       t,
		srv:     srv,
		client:  &http.Client{Jar: jar},
		server:  s,
		service: svc,
	}
}

func (h *harness) do(method, path string, body any) (int, envelope, http.Header) {
	h.t.Helper()

	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(h.t, err)
		r = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, h.srv.URL+path, r)
	require.NoError(h.t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.client.Do(req)
	require.NoError(h.t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(h.t, err)

	var env envelope
	if strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		require.NoError(h.t, json.Unmarshal(raw, &env))
	}
	return resp.StatusCode, env, resp.Header
}

func (h *harness) startQuiz() quizView {
	h.t.Helper()
	code, env, _ := h.do(http.MethodPost, "/api/quiz", nil)
	require.Equal(h.t, http.StatusCreated, code)

	var view quizView
	require.NoError(h.t, json.Unmarshal(env.Data, &view))
	return view
}

func TestQuizFlow(t *testing.T) {
	h := newHarness(t, nil, Options{})

	view := h.startQuiz()
	require.Len(t, view.Questions, 3)
	assert.Equal(t, string(quiz.StateCreated), view.State)

	for _, q := range view.Questions {
		opt := answerKey[q.ID]
		if q.ID == 2 {
			opt = "d"
		}
		code, _, _ := h.do(http.MethodPut, "/api/quiz/answers/"+itoa(q.ID), gin.H{"option": opt})
		require.Equal(t, http.StatusOK, code)
	}

	code, env, _ := h.do(http.MethodPost, "/api/quiz/submit", nil)
	require.Equal(t, http.StatusOK, code)

	var res assessment.Result
	require.NoError(t, json.Unmarshal(env.Data, &res))
	assert.Equal(t, 50.0, res.Scores["Basics"])
	assert.Equal(t, 100.0, res.Scores["Loops"])
	assert.Equal(t, 1, res.QuizAttempts)
	assert.NotEmpty(t, res.LearningPath)
	assert.Equal(t, 1, h.service.Profile().QuizAttempts)

	code, _, _ = h.do(http.MethodPost, "/api/quiz/submit", nil)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, 1, h.service.Profile().QuizAttempts)
}

func TestQuestionsHideAnswers(t *testing.T) {
	h := newHarness(t, nil, Options{})
	_, env, _ := h.do(http.MethodPost, "/api/quiz", nil)
	assert.NotContains(t, string(env.Data), "answer")
}

func TestNoActiveQuiz(t *testing.T) {
	h := newHarness(t, nil, Options{})

	code, _, _ := h.do(http.MethodPut, "/api/quiz/answers/1", gin.H{"option": "a"})
	assert.Equal(t, http.StatusNotFound, code)
	code, _, _ = h.do(http.MethodPost, "/api/quiz/submit", nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestAnswerValidation(t *testing.T) {
	h := newHarness(t, nil, Options{})
	h.startQuiz()

	code, _, _ := h.do(http.MethodPut, "/api/quiz/answers/abc", gin.H{"option": "a"})
	assert.Equal(t, http.StatusBadRequest, code)

	code, _, _ = h.do(http.MethodPut, "/api/quiz/answers/1", gin.H{})
	assert.Equal(t, http.StatusBadRequest, code)

	code, _, _ = h.do(http.MethodPut, "/api/quiz/answers/99", gin.H{"option": "a"})
	assert.Equal(t, http.StatusNotFound, code)
}

func TestResetLeavesProfileAlone(t *testing.T) {
	h := newHarness(t, nil, Options{})
	h.startQuiz()

	code, _, _ := h.do(http.MethodPost, "/api/quiz/reset", nil)
	require.Equal(t, http.StatusOK, code)

	code, _, _ = h.do(http.MethodPut, "/api/quiz/answers/1", gin.H{"option": "a"})
	assert.Equal(t, http.StatusConflict, code)
	code, _, _ = h.do(http.MethodPost, "/api/quiz/submit", nil)
	assert.Equal(t, http.StatusConflict, code)

	assert.Equal(t, 0, h.service.Profile().QuizAttempts)
}

func TestNewQuizReplacesPrevious(t *testing.T) {
	h := newHarness(t, nil, Options{})
	first := h.startQuiz()
	second := h.startQuiz()

	assert.NotEqual(t, first.SessionID, second.SessionID)
	assert.Equal(t, 1, h.server.registry.Len())
}

func TestCookielessClientsCannotGrowRegistry(t *testing.T) {
	h := newHarness(t, nil, Options{MaxSessions: 3})
	for range 10 {
		req, err := http.NewRequest(http.MethodPost, h.srv.URL+"/api/quiz", nil)
		require.NoError(t, err)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}
	assert.Equal(t, 3, h.server.registry.Len())
}

func TestProfileAndPlan(t *testing.T) {
	h := newHarness(t, nil, Options{})
	h.startQuiz()
	h.do(http.MethodPut, "/api/quiz/answers/3", gin.H{"option": "c"})
	h.do(http.MethodPost, "/api/quiz/submit", nil)

	code, env, _ := h.do(http.MethodGet, "/api/profile", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), `"quiz_attempts":1`)
	assert.Contains(t, string(env.Data), `"learning_speed"`)

	code, env, _ = h.do(http.MethodGet, "/api/plan", nil)
	require.Equal(t, http.StatusOK, code)

	var plan assessment.Plan
	require.NoError(t, json.Unmarshal(env.Data, &plan))
	assert.Equal(t, "Strong", string(plan.Skills["Loops"].Level))
	assert.Equal(t, "Weak", string(plan.Skills["Basics"].Level))
	assert.NotEmpty(t, plan.Summary)
}

// scoreLoops records one full-marks Loops result.
func scoreLoops(h *harness) {
	h.t.Helper()
	h.startQuiz()
	h.do(http.MethodPut, "/api/quiz/answers/3", gin.H{"option": "c"})
	code, _, _ := h.do(http.MethodPost, "/api/quiz/submit", nil)
	require.Equal(h.t, http.StatusOK, code)
}

func TestTutorExplain(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Text: "  loops are neat  "})
	h := newHarness(t, tutor.NewGateway(mock), Options{TutorRate: 100, TutorBurst: 10})
	scoreLoops(h)

	code, env, _ := h.do(http.MethodPost, "/api/tutor/explain", gin.H{"topic": "Loops"})
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), `"text":"loops are neat"`)
	require.Len(t, mock.Calls, 1)
	assert.Contains(t, mock.Calls[0].Messages[0].Content, "Strong")
}

func TestTutorDiagnoseAndRoadmap(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Text: "diagnosis"}, llm.MockResponse{Text: "roadmap"})
	h := newHarness(t, tutor.NewGateway(mock), Options{TutorRate: 100, TutorBurst: 10})
	scoreLoops(h)

	code, _, _ := h.do(http.MethodPost, "/api/tutor/diagnose", gin.H{"topic": "Loops"})
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, mock.Calls[0].Messages[0].Content, "Score: 100.0%")

	code, env, _ := h.do(http.MethodPost, "/api/tutor/roadmap", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), "roadmap")
}

func TestTutorErrors(t *testing.T) {
	t.Run("not configured", func(t *testing.T) {
		h := newHarness(t, nil, Options{})
		code, _, _ := h.do(http.MethodPost, "/api/tutor/roadmap", nil)
		assert.Equal(t, http.StatusServiceUnavailable, code)
	})

	t.Run("unknown topic", func(t *testing.T) {
		h := newHarness(t, tutor.NewGateway(llm.NewMockProvider()), Options{})
		code, _, _ := h.do(http.MethodPost, "/api/tutor/explain", gin.H{"topic": "Recursion"})
		assert.Equal(t, http.StatusNotFound, code)
	})

	t.Run("missing topic", func(t *testing.T) {
		h := newHarness(t, tutor.NewGateway(llm.NewMockProvider()), Options{})
		code, _, _ := h.do(http.MethodPost, "/api/tutor/explain", gin.H{})
		assert.Equal(t, http.StatusBadRequest, code)
	})

	t.Run("upstream failure", func(t *testing.T) {
		mock := llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrProviderUnavailable{Err: errors.New("connection refused")}})
		h := newHarness(t, tutor.NewGateway(mock), Options{})
		code, env, _ := h.do(http.MethodPost, "/api/tutor/roadmap", nil)
		assert.Equal(t, http.StatusBadGateway, code)
		assert.Contains(t, env.Message, "roadmap")
	})

	t.Run("upstream rate limit", func(t *testing.T) {
		mock := llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrRateLimit{Err: errors.New("429")}})
		h := newHarness(t, tutor.NewGateway(mock), Options{})
		code, _, header := h.do(http.MethodPost, "/api/tutor/roadmap", nil)
		assert.Equal(t, http.StatusTooManyRequests, code)
		assert.Equal(t, "60", header.Get("Retry-After"))
	})

	t.Run("timeout", func(t *testing.T) {
		mock := llm.NewMockProvider(llm.MockResponse{Text: "late", Delay: time.Second})
		h := newHarness(t, tutor.NewGateway(mock, tutor.WithTimeout(20*time.Millisecond)), Options{})
		code, _, _ := h.do(http.MethodPost, "/api/tutor/roadmap", nil)
		assert.Equal(t, http.StatusGatewayTimeout, code)
	})
}

func TestTutorRateLimited(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Text: "one"}, llm.MockResponse{Text: "two"})
	h := newHarness(t, tutor.NewGateway(mock), Options{TutorRate: 1, TutorBurst: 1})

	code, _, _ := h.do(http.MethodPost, "/api/tutor/roadmap", nil)
	require.Equal(t, http.StatusOK, code)

	code, _, header := h.do(http.MethodPost, "/api/tutor/roadmap", nil)
	assert.Equal(t, http.StatusTooManyRequests, code)
	assert.NotEmpty(t, header.Get("Retry-After"))
	assert.Len(t, mock.Calls, 1)
}

func TestHealthAndMetrics(t *testing.T) {
	h := newHarness(t, nil, Options{})

	code, env, _ := h.do(http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), `"questions":3`)

	resp, err := h.client.Get(h.srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `skillgap_http_requests_total{endpoint="/healthz",method="GET",status="200"} 1`)
}

func TestClientLimiter(t *testing.T) {
	l := newClientLimiter(2, 1, time.Minute)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	ok, _ := l.reserve("a")
	assert.True(t, ok)
	ok, wait := l.reserve("a")
	assert.False(t, ok)
	assert.InDelta(t, 30, wait.Seconds(), 0.01)

	ok, _ = l.reserve("b")
	assert.True(t, ok)

	now = now.Add(30 * time.Second)
	ok, _ = l.reserve("a")
	assert.True(t, ok)

	now = now.Add(10 * time.Minute)
	l.reserve("c")
	assert.Len(t, l.visitors, 1)
}

func TestNew_RequiresDeps(t *testing.T) {
	_, err := New(Deps{}, Options{})
	assert.Error(t, err)
}

func itoa(i int) string {
	b, _ := json.Marshal(i)
	return string(b)
}
