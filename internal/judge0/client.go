package judge0

import (
	"bytes"
	"codequest_backend/internal/config"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Judge0 submission status IDs.
const (
	statusAccepted     = 3
	statusWrongAnswer  = 4
	statusCompileError = 6
)

type Client struct {
	config config.Judge0Config
	http   *http.Client
}

func NewClient(cfg config.Judge0Config) *Client {
	return &Client{
		config: cfg,
		http:   &http.Client{Timeout: 30 * time.Second},
	}
}

// ExecutionResult is the sandbox verdict for one run. Success mirrors the
// Judge0 "Accepted" status; Output carries stdout on success and the
// compile/runtime error message otherwise.
type ExecutionResult struct {
	Success bool   `json:"success"`
	Output  string `json:"output"`
}

type submissionRequest struct {
	SourceCode string `json:"source_code"`
	LanguageID int    `json:"language_id"`
	Stdin      string `json:"stdin,omitempty"`
}

type submissionResponse struct {
	Stdout        string `json:"stdout"`
	Stderr        string `json:"stderr"`
	CompileOutput string `json:"compile_output"`
	Message       string `json:"message"`
	Status        struct {
		ID          int    `json:"id"`
		Description string `json:"description"`
	} `json:"status"`
}

// Execute runs source code in the sandbox and waits for the verdict.
func (c *Client) Execute(ctx context.Context, sourceCode string, languageID int) (*ExecutionResult, error) {
	body, _ := json.Marshal(submissionRequest{
		SourceCode: sourceCode,
		LanguageID: languageID,
	})

	url := strings.TrimRight(c.config.URL, "/") + "/submissions?base64_encoded=false&wait=true"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	if c.config.APIKey != "" {
		req.Header.Set("X-RapidAPI-Key", c.config.APIKey)
	}
	if c.config.Host != "" {
		req.Header.Set("X-RapidAPI-Host", c.config.Host)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("judge0 error (status %d): %s", resp.StatusCode, string(b))
	}

	var sub submissionResponse
	if err := json.NewDecoder(resp.Body).Decode(&sub); err != nil {
		return nil, err
	}

	if sub.Status.ID == statusAccepted {
		return &ExecutionResult{Success: true, Output: sub.Stdout}, nil
	}

	output := sub.CompileOutput
	if output == "" {
		output = sub.Stderr
	}
	if output == "" {
		output = sub.Message
	}
	if output == "" {
		output = sub.Status.Description
	}
	return &ExecutionResult{Success: false, Output: output}, nil
}
