package judge0

import (
	"codequest_backend/internal/config"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client := NewClient(config.Judge0Config{URL: srv.URL, APIKey: "test-key", Host: "test-host"})
	return client, srv
}

func TestExecuteAccepted(t *testing.T) {
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/submissions" {
			t.Errorf("path = %q; want /submissions", r.URL.Path)
		}
		if r.URL.Query().Get("wait") != "true" {
			t.Error("expected wait=true")
		}
		if got := r.Header.Get("X-RapidAPI-Key"); got != "test-key" {
			t.Errorf("X-RapidAPI-Key = %q", got)
		}

		var req map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req["source_code"] != "print(1)" {
			t.Errorf("source_code = %v", req["source_code"])
		}
		if int(req["language_id"].(float64)) != LangPython {
			t.Errorf("language_id = %v; want %d", req["language_id"], LangPython)
		}

		json.NewEncoder(w).Encode(map[string]interface{}{
			"stdout": "1\n",
			"status": map[string]interface{}{"id": 3, "description": "Accepted"},
		})
	})

	result, err := client.Execute(context.Background(), "print(1)", LangPython)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !result.Success {
		t.Error("Success = false; want true for an accepted run")
	}
	if result.Output != "1\n" {
		t.Errorf("Output = %q; want stdout", result.Output)
	}
}

func TestExecuteCompileError(t *testing.T) {
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"compile_output": "error: expected ';'",
			"status":         map[string]interface{}{"id": 6, "description": "Compilation Error"},
		})
	})

	result, err := client.Execute(context.Background(), "int main( {", LangC)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if result.Success {
		t.Error("Success = true; want false")
	}
	if result.Output != "error: expected ';'" {
		t.Errorf("Output = %q; want the compile output", result.Output)
	}
}

func TestExecuteOutputFallbackChain(t *testing.T) {
	tests := []struct {
		name string
		body map[string]interface{}
		want string
	}{
		{
			"stderr when no compile output",
			map[string]interface{}{
				"stderr": "runtime panic",
				"status": map[string]interface{}{"id": 11, "description": "Runtime Error"},
			},
			"runtime panic",
		},
		{
			"message when streams are empty",
			map[string]interface{}{
				"message": "exec format error",
				"status":  map[string]interface{}{"id": 13, "description": "Internal Error"},
			},
			"exec format error",
		},
		{
			"status description as last resort",
			map[string]interface{}{
				"status": map[string]interface{}{"id": 5, "description": "Time Limit Exceeded"},
			},
			"Time Limit Exceeded",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(tt.body)
			})

			result, err := client.Execute(context.Background(), "x", LangPython)
			if err != nil {
				t.Fatalf("Execute() error = %v", err)
			}
			if result.Success {
				t.Error("Success = true; want false")
			}
			if result.Output != tt.want {
				t.Errorf("Output = %q; want %q", result.Output, tt.want)
			}
		})
	}
}

func TestExecuteHTTPError(t *testing.T) {
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	})

	if _, err := client.Execute(context.Background(), "print(1)", LangPython); err == nil {
		t.Fatal("Execute() should surface a non-2xx response as an error")
	}
}
