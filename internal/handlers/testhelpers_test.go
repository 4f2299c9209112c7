package handlers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/awarehq/aware-api/internal/database"
	"github.com/awarehq/aware-api/internal/models"
	"github.com/awarehq/aware-api/internal/queue"
	"github.com/awarehq/aware-api/internal/request"
)

// jsonBody wraps a JSON literal for request construction.
func jsonBody(s string) io.Reader {
	return strings.NewReader(s)
}

// newTestUser seeds one account in the given repositories.
func newTestUser(t *testing.T, repos *database.Repositories) *models.User {
	t.Helper()

	user := &models.User{Username: "alexjohnson", PasswordHash: "x", DisplayName: "Alex Johnson"}
	if err := repos.Users.Create(context.Background(), user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

// authedRequest builds a request carrying the user in its context, the way
// the auth middleware would.
func authedRequest(method, target string, body string, user *models.User) *http.Request {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	return req.WithContext(request.WithUser(req.Context(), user))
}

// fakeQueue records enqueued jobs and can be told to fail.
type fakeQueue struct {
	jobs    []*queue.Job
	failing bool
}

func (q *fakeQueue) Enqueue(_ context.Context, job *queue.Job) error {
	if q.failing {
		return context.DeadlineExceeded
	}
	q.jobs = append(q.jobs, job)
	return nil
}

func (q *fakeQueue) Consume(context.Context, int) (<-chan *queue.Message, <-chan error, error) {
	return nil, nil, nil
}

func (q *fakeQueue) Close() error { return nil }

func (q *fakeQueue) HealthCheck(context.Context) error {
	if q.failing {
		return context.DeadlineExceeded
	}
	return nil
}
