// Package judge runs candidate code against a remote execution API with a
// Piston-compatible wire format. The server never executes submitted code
// itself.
package judge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/Kiko915/techterview-mainapp-sub001/internal/config"
	"github.com/Kiko915/techterview-mainapp-sub001/internal/logger"
)

// Client talks to one execution endpoint.
type Client struct {
	baseURL string
	hc      *http.Client
	log     *logger.Logger
}

func NewClient(cfg config.JudgeConfig, log *logger.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		hc:      &http.Client{Timeout: cfg.Timeout},
		log:     log.With("component", "judge"),
	}
}

// RunInput is one code execution request.
type RunInput struct {
	Language string `json:"language"`
	Version  string `json:"version,omitempty"`
	Code     string `json:"code"`
	Stdin    string `json:"stdin,omitempty"`
}

// RunResult is the outcome of an execution.
type RunResult struct {
	Stdout   string `json:"stdout"`
	Stderr   string `json:"stderr"`
	Output   string `json:"output"`
	ExitCode int    `json:"exitCode"`
}

// Succeeded reports whether the run itself finished cleanly.
func (r RunResult) Succeeded() bool {
	return r.ExitCode == 0
}

type executeRequest struct {
	Language string        `json:"language"`
	Version  string        `json:"version"`
	Files    []executeFile `json:"files"`
	Stdin    string        `json:"stdin,omitempty"`
}

type executeFile struct {
	Content string `json:"content"`
}

type executeResponse struct {
	Run struct {
		Stdout string `json:"stdout"`
		Stderr string `json:"stderr"`
		Output string `json:"output"`
		Code   int    `json:"code"`
	} `json:"run"`
	Message string `json:"message,omitempty"`
}

// Run executes the submission remotely.
func (c *Client) Run(ctx context.Context, in RunInput) (RunResult, error) {
	if in.Language == "" {
		return RunResult{}, fmt.Errorf("language is required")
	}
	version := in.Version
	if version == "" {
		version = "*"
	}

	body, err := json.Marshal(executeRequest{
		Language: in.Language,
		Version:  version,
		Files:    []executeFile{{Content: in.Code}},
		Stdin:    in.Stdin,
	})
	if err != nil {
		return RunResult{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/execute", bytes.NewReader(body))
	if err != nil {
		return RunResult{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		return RunResult{}, fmt.Errorf("judge request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return RunResult{}, fmt.Errorf("read judge response: %w", err)
	}

	var out executeResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return RunResult{}, fmt.Errorf("decode judge response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		msg := out.Message
		if msg == "" {
			msg = strings.TrimSpace(string(raw))
		}
		return RunResult{}, fmt.Errorf("judge returned %d: %s", resp.StatusCode, msg)
	}

	return RunResult{
		Stdout:   out.Run.Stdout,
		Stderr:   out.Run.Stderr,
		Output:   out.Run.Output,
		ExitCode: out.Run.Code,
	}, nil
}

// CheckSolution runs the submission and reports whether its stdout carries
// the lesson's success marker. A failed run never passes regardless of
// output.
func (c *Client) CheckSolution(ctx context.Context, in RunInput, marker string) (bool, RunResult, error) {
	res, err := c.Run(ctx, in)
	if err != nil {
		return false, RunResult{}, err
	}
	if !res.Succeeded() {
		return false, res, nil
	}
	return strings.Contains(res.Stdout, marker), res, nil
}
