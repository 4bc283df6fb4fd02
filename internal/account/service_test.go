package account

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"testing"

	"arenax-client/internal/gateway"
	"arenax-client/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MockRoundTripper func(req *http.Request) *http.Response

func (f MockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req), nil
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewBufferString(body)),
		Header:     make(http.Header),
	}
}

func newTestService(rt MockRoundTripper) (*Service, *session.Store) {
	sess := session.New("")
	api := gateway.NewClientWithHTTP("https://api.arenax.gg", sess, &http.Client{Transport: rt})
	return NewService(api, sess), sess
}

func TestService_Login(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		svc, sess := newTestService(func(req *http.Request) *http.Response {
			assert.Equal(t, "/auth/login", req.URL.Path)

			sent, _ := io.ReadAll(req.Body)
			assert.JSONEq(t, `{"email":"player@example.com","password":"hunter2"}`, string(sent))

			return jsonResponse(http.StatusOK,
				`{"token":"tok-123","user":{"_id":"u1","name":"Player One","email":"player@example.com","role":"user"}}`)
		})

		user, err := svc.Login(context.Background(), "player@example.com", "hunter2")
		require.NoError(t, err)
		assert.Equal(t, "Player One", user.Name)
		assert.Equal(t, "tok-123", sess.Token(), "token must be stored on login success")
	})

	t.Run("Failure", func(t *testing.T) {
		svc, sess := newTestService(func(req *http.Request) *http.Response {
			return jsonResponse(http.StatusUnauthorized, `{"message":"Invalid credentials"}`)
		})

		_, err := svc.Login(context.Background(), "player@example.com", "wrong")

		var apiErr *gateway.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, "Invalid credentials", apiErr.Message)
		assert.Equal(t, "", sess.Token(), "token must not be stored on login failure")
	})
}

func TestService_Register(t *testing.T) {
	svc, sess := newTestService(func(req *http.Request) *http.Response {
		assert.Equal(t, "/auth/register", req.URL.Path)
		return jsonResponse(http.StatusCreated,
			`{"token":"tok-new","user":{"_id":"u2","name":"New Player","email":"new@example.com","role":"user"}}`)
	})

	user, err := svc.Register(context.Background(), "New Player", "new@example.com", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, "u2", user.ID)
	assert.Equal(t, "tok-new", sess.Token())
}

func TestService_Me(t *testing.T) {
	t.Run("FallbackPath", func(t *testing.T) {
		var paths []string
		svc, _ := newTestService(func(req *http.Request) *http.Response {
			paths = append(paths, req.URL.Path)
			if req.URL.Path == "/users/me" {
				return jsonResponse(http.StatusNotFound, `{"message":"Not found"}`)
			}
			return jsonResponse(http.StatusOK, `{"_id":"u1","name":"Player One","email":"player@example.com","role":"user"}`)
		})

		user, err := svc.Me(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "u1", user.ID)
		assert.Equal(t, []string{"/users/me", "/auth/me"}, paths)
	})
}

func TestService_Logout(t *testing.T) {
	svc, sess := newTestService(func(req *http.Request) *http.Response {
		t.Fatal("logout must not call the backend")
		return nil
	})

	sess.Set("tok-123")
	svc.Logout()
	assert.Equal(t, "", sess.Token())
}
