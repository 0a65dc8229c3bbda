package asr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"listenlab/pkg/request"
)

// Client talks to a transcription HTTP service (GET /health,
// POST /transcribe with a multipart "audio" upload).
type Client struct {
	baseURL string
	http    *request.Client
}

// NewClient creates a service client. The request client's queuing and
// backoff apply to every call.
func NewClient(baseURL string, rc *request.Client) *Client {
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: rc}
}

// Health checks the service is up and has a model loaded.
func (c *Client) Health(ctx context.Context) error {
	body, err := c.http.Get(ctx, c.baseURL+"/health", "")
	if err != nil {
		return fmt.Errorf("transcription service unreachable: %w", err)
	}
	var status struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(body, &status); err != nil {
		return fmt.Errorf("bad health response: %w", err)
	}
	if status.Status != "healthy" {
		return fmt.Errorf("transcription service unhealthy: %s", status.Status)
	}
	return nil
}

// Transcribe uploads the audio file and returns the parsed result.
func (c *Client) Transcribe(ctx context.Context, audioPath string) (*Result, error) {
	data, err := os.ReadFile(audioPath)
	if err != nil {
		return nil, fmt.Errorf("read audio: %w", err)
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("audio", filepath.Base(audioPath))
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(data); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	body, err := c.http.Post(ctx, c.baseURL+"/transcribe", buf.Bytes(), mw.FormDataContentType())
	if err != nil {
		return nil, fmt.Errorf("transcription request failed: %w", err)
	}

	var res Result
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, fmt.Errorf("parse transcription response: %w", err)
	}
	return &res, nil
}
