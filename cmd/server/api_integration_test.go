//go:build integration

package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/phrazzld/taskprefs-api/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type apiClient struct {
	t      *testing.T
	server *httptest.Server
	token  string
}

func (c *apiClient) do(method, path string, body any) (*http.Response, []byte) {
	c.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, c.server.URL+path, reader)
	require.NoError(c.t, err)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.server.Client().Do(req)
	require.NoError(c.t, err)
	defer func() { _ = resp.Body.Close() }()

	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(c.t, err)
	return resp, buf.Bytes()
}

func newIntegrationServer(t *testing.T) *httptest.Server {
	t.Helper()

	db := testdb.Open(t)
	testdb.Reset(t, db)

	app, err := newApplication(testConfig(), discardLogger(), db)
	require.NoError(t, err)

	server := httptest.NewServer(app.setupRouter())
	t.Cleanup(server.Close)
	return server
}

func register(t *testing.T, server *httptest.Server, email string) *apiClient {
	t.Helper()

	client := &apiClient{t: t, server: server}
	resp, body := client.do(http.MethodPost, "/auth/register", map[string]string{
		"email":    email,
		"password": "correct horse battery",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	var auth map[string]any
	require.NoError(t, json.Unmarshal(body, &auth))
	client.token, _ = auth["token"].(string)
	require.NotEmpty(t, client.token)
	return client
}

func TestAPIIntegration(t *testing.T) {
	server := newIntegrationServer(t)

	t.Run("health", func(t *testing.T) {
		client := &apiClient{t: t, server: server}
		resp, body := client.do(http.MethodGet, "/health", nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "OK", string(body))
	})

	t.Run("duplicate registration", func(t *testing.T) {
		register(t, server, "dup@example.com")

		client := &apiClient{t: t, server: server}
		resp, _ := client.do(http.MethodPost, "/auth/register", map[string]string{
			"email":    "DUP@example.com",
			"password": "correct horse battery",
		})
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("login and refresh", func(t *testing.T) {
		register(t, server, "login@example.com")
		client := &apiClient{t: t, server: server}

		resp, _ := client.do(http.MethodPost, "/auth/login", map[string]string{
			"email":    "login@example.com",
			"password": "wrong password here",
		})
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

		resp, body := client.do(http.MethodPost, "/auth/login", map[string]string{
			"email":    "login@example.com",
			"password": "correct horse battery",
		})
		require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
		var auth map[string]any
		require.NoError(t, json.Unmarshal(body, &auth))

		resp, body = client.do(http.MethodPost, "/auth/refresh", map[string]any{
			"refresh_token": auth["refresh_token"],
		})
		require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
		var pair map[string]any
		require.NoError(t, json.Unmarshal(body, &pair))
		assert.NotEmpty(t, pair["access_token"])
		assert.NotEmpty(t, pair["refresh_token"])
	})

	t.Run("task lifecycle", func(t *testing.T) {
		client := register(t, server, "tasks@example.com")

		resp, body := client.do(http.MethodPost, "/tasks", map[string]string{"description": "Buy milk"})
		require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
		var created map[string]any
		require.NoError(t, json.Unmarshal(body, &created))
		assert.Equal(t, "Buy milk", created["description"])
		assert.Equal(t, false, created["completed"])
		taskID, _ := created["id"].(string)
		require.NotEmpty(t, taskID)

		resp, body = client.do(http.MethodPut, "/tasks/"+taskID, map[string]any{"completed": true})
		require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
		var updated map[string]any
		require.NoError(t, json.Unmarshal(body, &updated))
		assert.Equal(t, true, updated["completed"])
		assert.Equal(t, "Buy milk", updated["description"])

		resp, body = client.do(http.MethodGet, "/tasks", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var tasks []map[string]any
		require.NoError(t, json.Unmarshal(body, &tasks))
		require.Len(t, tasks, 1)
		assert.Equal(t, taskID, tasks[0]["id"])

		resp, body = client.do(http.MethodDelete, "/tasks/"+taskID, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.JSONEq(t, `{"message":"Task deleted"}`, string(body))

		resp, _ = client.do(http.MethodDelete, "/tasks/"+taskID, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("tasks are not visible to other users", func(t *testing.T) {
		owner := register(t, server, "owner@example.com")
		other := register(t, server, "other@example.com")

		resp, body := owner.do(http.MethodPost, "/tasks", map[string]string{"description": "private"})
		require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
		var created map[string]any
		require.NoError(t, json.Unmarshal(body, &created))
		taskID, _ := created["id"].(string)

		resp, _ = other.do(http.MethodPut, "/tasks/"+taskID, map[string]any{"completed": true})
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)

		resp, _ = other.do(http.MethodDelete, "/tasks/"+taskID, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)

		resp, body = other.do(http.MethodGet, "/tasks", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.JSONEq(t, `[]`, string(body))
	})

	t.Run("preferences", func(t *testing.T) {
		client := register(t, server, "prefs@example.com")

		resp, body := client.do(http.MethodGet, "/preferences", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.JSONEq(t, `{}`, string(body))

		resp, body = client.do(http.MethodPost, "/preferences", map[string]any{
			"theme":    "dark",
			"pageSize": 25,
		})
		require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
		assert.JSONEq(t, `{"message":"Preferences updated"}`, string(body))

		resp, _ = client.do(http.MethodPost, "/preferences", map[string]any{"theme": "light"})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		resp, body = client.do(http.MethodGet, "/preferences", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.JSONEq(t, `{"theme":"light","pageSize":25}`, string(body))
	})
}
