package judge

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kiko915/techterview-mainapp-sub001/internal/config"
	"github.com/Kiko915/techterview-mainapp-sub001/internal/logger"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(config.JudgeConfig{BaseURL: srv.URL, Timeout: 5 * time.Second}, logger.NewNop())
}

func TestRun(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/execute", r.URL.Path)

		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "python", req["language"])
		assert.Equal(t, "*", req["version"])

		json.NewEncoder(w).Encode(map[string]any{
			"run": map[string]any{
				"stdout": "hello\n",
				"stderr": "",
				"output": "hello\n",
				"code":   0,
			},
		})
	})

	res, err := client.Run(context.Background(), RunInput{Language: "python", Code: `print("hello")`})
	require.NoError(t, err)
	assert.Equal(t, "hello\n", res.Stdout)
	assert.True(t, res.Succeeded())
}

func TestRunRequiresLanguage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})

	_, err := client.Run(context.Background(), RunInput{Code: "x"})
	assert.Error(t, err)
}

func TestRunServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{"message": "runtime unknown"})
	})

	_, err := client.Run(context.Background(), RunInput{Language: "cobol", Code: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "runtime unknown")
}

func TestCheckSolution(t *testing.T) {
	tests := []struct {
		name   string
		stdout string
		code   int
		passed bool
	}{
		{"marker present", "ALL TESTS PASSED\n", 0, true},
		{"marker missing", "2 of 5 failed\n", 0, false},
		{"nonzero exit never passes", "ALL TESTS PASSED\n", 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(map[string]any{
					"run": map[string]any{"stdout": tt.stdout, "code": tt.code},
				})
			})

			passed, _, err := client.CheckSolution(context.Background(), RunInput{Language: "python", Code: "x"}, "ALL TESTS PASSED")
			require.NoError(t, err)
			assert.Equal(t, tt.passed, passed)
		})
	}
}
