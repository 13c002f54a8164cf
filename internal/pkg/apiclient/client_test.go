package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-admin-console/internal/pkg/notify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

type tokenFunc func() string

func (f tokenFunc) Token() (*oauth2.Token, error) {
	tok := f()
	if tok == "" {
		return nil, errors.New("no token")
	}
	return &oauth2.Token{AccessToken: tok, TokenType: "Bearer"}, nil
}

type fakeSession struct {
	logouts atomic.Int32
}

func (s *fakeSession) Logout() { s.logouts.Add(1) }

type recordingNotifier struct {
	mu     sync.Mutex
	levels []notify.Level
	titles []string
}

func (n *recordingNotifier) Notify(level notify.Level, title, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.levels = append(n.levels, level)
	n.titles = append(n.titles, title)
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.levels)
}

func newTestClient(t *testing.T, handler http.HandlerFunc, token *string) (*Client, *fakeSession, *recordingNotifier) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	sess := &fakeSession{}
	notifier := &recordingNotifier{}
	c, err := New(Config{Name: "api", BaseURL: srv.URL + "/", Timeout: 2 * time.Second}, tokenFunc(func() string { return *token }), sess, notifier)
	require.NoError(t, err)
	return c, sess, notifier
}

func TestNew_InvalidBaseURL(t *testing.T) {
	_, err := New(Config{Name: "api", BaseURL: "not a url"}, nil, nil, nil)
	assert.Error(t, err)
}

func TestRequest_AttachesTokenReadAtCallTime(t *testing.T) {
	var mu sync.Mutex
	var seen []string
	token := ""
	c, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		seen = append(seen, r.Header.Get("Authorization"))
		mu.Unlock()
		assert.NotEmpty(t, r.Header.Get(RequestIDHeader))
		w.Write([]byte(`{}`))
	}, &token)

	_, err := c.Get(context.Background(), "/employees", nil)
	require.NoError(t, err)

	token = "tok-1"
	_, err = c.Get(context.Background(), "/employees", nil)
	require.NoError(t, err)

	token = "tok-2"
	_, err = c.Get(context.Background(), "/employees", nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"", "Bearer tok-1", "Bearer tok-2"}, seen)
}

func TestRequest_SendsBodyAndParams(t *testing.T) {
	token := "tok"
	c, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/employees", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Ann", body["name"])

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"statusCode":201,"success":true,"message":"created","data":{"id":"e-1","name":"Ann"}}`))
	}, &token)

	resp, err := c.Request(context.Background(), http.MethodPost, "employees", map[string]string{"name": "Ann"}, url.Values{"page": {"2"}})
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var out struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	require.NoError(t, resp.Into(&out))
	assert.Equal(t, "e-1", out.ID)
}

func TestRequest_StatusHandling(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		sentinel    error
		wantLogouts int32
		wantNotify  int
		wantMessage string
	}{
		{"unauthorized logs out", http.StatusUnauthorized, `{"message":"Unauthorized"}`, ErrUnauthorized, 1, 1, ErrUnauthorized.Error()},
		{"forbidden keeps session", http.StatusForbidden, `{"message":"Forbidden"}`, ErrForbidden, 0, 1, ErrForbidden.Error()},
		{"server error", http.StatusInternalServerError, `oops`, ErrServer, 0, 1, ErrServer.Error()},
		{"bad gateway", http.StatusBadGateway, ``, ErrServer, 0, 1, ErrServer.Error()},
		{"not found inline", http.StatusNotFound, `{"message":"Employee not found"}`, ErrNotFound, 0, 0, "Employee not found"},
		{"conflict inline", http.StatusConflict, `{"statusCode":409,"message":"Email already exists"}`, ErrConflict, 0, 0, "Email already exists"},
		{"validation list", http.StatusBadRequest, `{"message":["name must be longer","email must be an email"]}`, ErrBadRequest, 0, 0, "name must be longer, email must be an email"},
		{"nested error shape", http.StatusUnprocessableEntity, `{"success":false,"error":{"code":"VALIDATION_ERROR","message":"Invalid input","details":{"email":"taken"}}}`, ErrBadRequest, 0, 0, "Invalid input"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token := "tok"
			var calls atomic.Int32
			c, sess, notifier := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}, &token)

			_, err := c.Get(context.Background(), "/employees/e-1", nil)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.sentinel)

			var apiErr *Error
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.wantMessage, apiErr.UserMessage())

			assert.Equal(t, tt.wantLogouts, sess.logouts.Load())
			assert.Equal(t, tt.wantNotify, notifier.count())
			assert.Equal(t, int32(1), calls.Load(), "failures are never retried")
		})
	}
}

func TestRequest_UnauthorizedWithoutTokenIsCredentialFailure(t *testing.T) {
	token := ""
	c, sess, notifier := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"Invalid credentials"}`))
	}, &token)

	_, err := c.Request(context.Background(), http.MethodPost, "/auth/login", map[string]string{"email": "a@b.co"}, nil)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, int32(0), sess.logouts.Load())
	assert.Equal(t, 0, notifier.count())
}

func TestRequest_NestedErrorDetails(t *testing.T) {
	token := "tok"
	c, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"success":false,"error":{"code":"VALIDATION_ERROR","message":"Invalid input","details":{"email":"taken"}}}`))
	}, &token)

	_, err := c.Get(context.Background(), "/employees", nil)
	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "VALIDATION_ERROR", apiErr.Code)
	assert.Equal(t, map[string]string{"email": "taken"}, apiErr.Details)
	assert.False(t, errors.Is(err, ErrNotFound))
}

func TestRequest_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	c, err := New(Config{Name: "attendance", BaseURL: srv.URL}, nil, nil, nil)
	require.NoError(t, err)

	_, err = c.Get(context.Background(), "/attendance", nil)
	assert.ErrorIs(t, err, ErrUnreachable)
}

func TestRequest_ContextCanceled(t *testing.T) {
	token := ""
	c, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}, &token)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := c.Get(ctx, "/employees", nil)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestFetch_AbsoluteURL(t *testing.T) {
	token := "tok"
	c, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/uploads/a.jpg", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "image/jpeg")
		w.Write([]byte{0xff, 0xd8})
	}, &token)

	resp, err := c.Fetch(context.Background(), c.Origin()+"/uploads/a.jpg")
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", resp.ContentType())
	assert.Equal(t, []byte{0xff, 0xd8}, resp.Body)

	resp, err = c.Fetch(context.Background(), "uploads/a.jpg")
	require.NoError(t, err)
	assert.Len(t, resp.Body, 2)
}

func TestOrigin(t *testing.T) {
	c, err := New(Config{Name: "attendance", BaseURL: "https://attendance.example.com/api/v1"}, nil, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "https://attendance.example.com", c.Origin())
	assert.Equal(t, "https://attendance.example.com/api/v1/attendance?page=1", c.resolve("/attendance", url.Values{"page": {"1"}}))
}
