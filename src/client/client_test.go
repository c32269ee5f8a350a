package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(url, session string) *Client {
	c := New(url+"/", session)
	c.client.RetryWaitMin = time.Millisecond
	c.client.RetryWaitMax = 5 * time.Millisecond
	c.client.RetryMax = 3
	return c
}

func TestInputRetriesServerErrors(t *testing.T) {
	var requests int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/2022/day/7/input", r.URL.Path)
		cookie, err := r.Cookie("session")
		if assert.NoError(t, err) {
			assert.Equal(t, "abc123", cookie.Value)
		}
		if atomic.AddInt32(&requests, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("1\n2\n3\n"))
	}))
	defer server.Close()

	input, err := newTestClient(server.URL, "abc123").Input(context.Background(), 2022, 7)
	assert.NoError(t, err)
	assert.Equal(t, "1\n2\n3\n", string(input))
	assert.EqualValues(t, 2, atomic.LoadInt32(&requests))
}

func TestClientErrorIsNotRetried(t *testing.T) {
	var requests int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("Please don't repeatedly request this endpoint before it unlocks!\n"))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL, "abc123").Input(context.Background(), 2022, 25)
	var serr *StatusError
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, http.StatusBadRequest, serr.StatusCode)
	assert.Equal(t, "Please don't repeatedly request this endpoint before it unlocks!", serr.Body)
	assert.Contains(t, err.Error(), "before it unlocks")
	assert.EqualValues(t, 1, atomic.LoadInt32(&requests))
}

func TestServerErrorGivesUpEventually(t *testing.T) {
	var requests int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL, "").Input(context.Background(), 2022, 1)
	var serr *StatusError
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, http.StatusInternalServerError, serr.StatusCode)
	assert.EqualValues(t, 4, atomic.LoadInt32(&requests))
}

func TestNoSessionSendsNoCookie(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, err := r.Cookie("session")
		assert.ErrorIs(t, err, http.ErrNoCookie)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL, "").Input(context.Background(), 2022, 1)
	assert.NoError(t, err)
}

func TestPrivateLeaderboard(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/2021/leaderboard/private/view/12345.json", r.URL.Path)
		w.Write([]byte(`{"event":"2021","owner_id":12345,"members":{"12345":{"id":12345,"name":"Bob","completion_day_level":{"1":{"1":{"get_star_ts":1638338400}}}}}}`))
	}))
	defer server.Close()

	lb, err := newTestClient(server.URL, "abc").PrivateLeaderboard(context.Background(), 2021, "12345")
	require.NoError(t, err)
	assert.Equal(t, "2021", lb.Event)
	require.Contains(t, lb.Members, "12345")
	assert.Equal(t, "Bob", lb.Members["12345"].Name)
}

func TestPrivateLeaderboardInvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>login</html>`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL, "abc").PrivateLeaderboard(context.Background(), 2021, "1")
	assert.Error(t, err)
}

func TestValidToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if cookie, err := r.Cookie("session"); err != nil || cookie.Value != "good" {
			w.WriteHeader(http.StatusUnauthorized)
		}
	}))
	defer server.Close()

	valid, err := newTestClient(server.URL, "good").ValidToken(context.Background())
	assert.NoError(t, err)
	assert.True(t, valid)
	valid, err = newTestClient(server.URL, "bad").ValidToken(context.Background())
	assert.NoError(t, err)
	assert.False(t, valid)
}

func TestBackoff(t *testing.T) {
	assert.Equal(t, time.Second, backoff(time.Second, 30*time.Second, 0, nil))
	assert.Equal(t, 1100*time.Millisecond, backoff(time.Second, 30*time.Second, 1, nil))
	assert.Equal(t, 30*time.Second, backoff(time.Second, 30*time.Second, 100, nil))
}

func TestCancelledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer server.Close()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newTestClient(server.URL, "").Input(ctx, 2022, 1)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDescription(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/2022/day/3", r.URL.Path)
		w.Write([]byte(`<html><body><main><article class="day-desc"><h2>--- Day 3: Rucksack Reorganization ---</h2><p>One Elf has the important job.</p></article></main></body></html>`))
	}))
	defer server.Close()

	parts, err := newTestClient(server.URL, "abc").Description(context.Background(), 2022, 3)
	require.NoError(t, err)
	assert.Len(t, parts, 1)
}

func TestSubmitRetriesWithSameForm(t *testing.T) {
	var requests int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/2022/day/3/answer", r.URL.Path)
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "2", r.PostForm.Get("level"))
		assert.Equal(t, "8394", r.PostForm.Get("answer"))
		if atomic.AddInt32(&requests, 1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`<html><body><main><article><p>That's the right answer!  You are one gold star closer to collecting enough star fruit.</p></article></main></body></html>`))
	}))
	defer server.Close()

	feedback, err := newTestClient(server.URL, "abc").Submit(context.Background(), 2022, 3, 2, "8394")
	require.NoError(t, err)
	assert.True(t, feedback.Correct)
	assert.True(t, feedback.Done)
	assert.Equal(t, "That's the right answer! You are one gold star closer to collecting enough star fruit", feedback.Message)
	assert.EqualValues(t, 2, atomic.LoadInt32(&requests))
}

func TestSubmitUnauthorised(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL, "").Submit(context.Background(), 2022, 3, 1, "1")
	var serr *StatusError
	assert.True(t, errors.As(err, &serr))
}
