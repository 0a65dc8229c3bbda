package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"listenlab/pkg/asr"
)

type fakeEngine struct {
	result *asr.Result
	err    error
}

func (f *fakeEngine) Transcribe(ctx context.Context, path string) (*asr.Result, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func testServer(t *testing.T, engine asr.Transcriber, model string) *httptest.Server {
	t.Helper()
	srv := NewServer("127.0.0.1:0", NewTranscribeHandler(engine, model))
	ts := httptest.NewServer(srv.Handler)
	t.Cleanup(ts.Close)
	return ts
}

func uploadAudio(t *testing.T, url string) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("audio", "clip.wav")
	require.NoError(t, err)
	_, err = part.Write([]byte("RIFF fake audio"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	resp, err := http.Post(url+"/transcribe", mw.FormDataContentType(), &buf)
	require.NoError(t, err)
	return resp
}

func TestHealth_ModelLoaded(t *testing.T) {
	ts := testServer(t, &fakeEngine{}, "base")

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "base", body["model"])
}

func TestHealth_NoModel(t *testing.T) {
	ts := testServer(t, nil, "")

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "unhealthy", body["status"])
	assert.Equal(t, "not_loaded", body["model"])
}

func TestTranscribe_Success(t *testing.T) {
	engine := &fakeEngine{result: &asr.Result{
		Text:       "good morning",
		Language:   "en",
		Duration:   2.4,
		Segments:   []asr.Segment{{Start: 0, End: 2.4, Text: "good morning"}},
		Confidence: 0.8,
	}}
	ts := testServer(t, engine, "base")

	resp := uploadAudio(t, ts.URL)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var res asr.Result
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	assert.Equal(t, "good morning", res.Text)
	require.Len(t, res.Segments, 1)
	assert.InDelta(t, 0.8, res.Confidence, 1e-9)
}

func TestTranscribe_NoModel503(t *testing.T) {
	ts := testServer(t, nil, "")

	resp := uploadAudio(t, ts.URL)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestTranscribe_MissingFile400(t *testing.T) {
	ts := testServer(t, &fakeEngine{}, "base")

	resp, err := http.Post(ts.URL+"/transcribe", "application/json", bytes.NewBufferString("{}"))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestTranscribe_EngineFailure500(t *testing.T) {
	ts := testServer(t, &fakeEngine{err: errors.New("decode failed")}, "base")

	resp := uploadAudio(t, ts.URL)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Contains(t, body["detail"], "decode failed")
}

func TestVersionEndpoint(t *testing.T) {
	ts := testServer(t, nil, "")

	resp, err := http.Get(ts.URL + "/version")
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.NotEmpty(t, body["version"])
}
