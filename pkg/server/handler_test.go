package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/abhaysharma000/Money-Muling/pkg/audit"
	"github.com/abhaysharma000/Money-Muling/pkg/config"
)

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	cfg := &config.Config{
		SampleRows:       100,
		DemoTransactions: 120,
	}
	h, err := NewHandler(cfg, audit.NopRecorder{}, zap.NewNop())
	require.NoError(t, err)
	return h
}

// multipartUpload builds a multipart body with a single "file" part
func multipartUpload(t *testing.T, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

// muleLedger fans twelve depositors into one mule, guaranteeing at least
// one flagged account in the result
func muleLedger() string {
	var sb strings.Builder
	sb.WriteString("sender_id,receiver_id,amount\n")
	for i := 0; i < 12; i++ {
		fmt.Fprintf(&sb, "ACC_%04d,MULE_01,250.00\n", i)
	}
	sb.WriteString("MULE_01,OFFSHORE_01,2900.00\n")
	return sb.String()
}

// sseFrames splits a text/event-stream body into its decoded JSON payloads
func sseFrames(t *testing.T, body string) []map[string]interface{} {
	t.Helper()
	var frames []map[string]interface{}
	for _, chunk := range strings.Split(body, "\n\n") {
		chunk = strings.TrimSpace(chunk)
		if chunk == "" {
			continue
		}
		require.True(t, strings.HasPrefix(chunk, "data: "), "frame %q lacks data prefix", chunk)
		var payload map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(chunk, "data: ")), &payload))
		frames = append(frames, payload)
	}
	return frames
}

func TestRootBanner(t *testing.T) {
	router := NewRouter(newTestHandler(t))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message": "Financial Forensics Engine API"}`, rec.Body.String())
}

func TestUploadStreamsAnalysis(t *testing.T) {
	router := NewRouter(newTestHandler(t))

	body, contentType := multipartUpload(t, "ledger.csv", muleLedger())
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))

	frames := sseFrames(t, rec.Body.String())
	require.Len(t, frames, 5)

	assert.Equal(t, "System Initializing...", frames[0]["status"])
	assert.Equal(t, 0.05, frames[0]["progress"])

	final := frames[4]
	require.Equal(t, true, final["complete"])

	accounts, ok := final["suspicious_accounts"].([]interface{})
	require.True(t, ok)
	require.NotEmpty(t, accounts)
	first := accounts[0].(map[string]interface{})
	assert.Equal(t, "MULE_01", first["account_id"])

	summary := final["summary"].(map[string]interface{})
	assert.Equal(t, float64(13), summary["total_transactions"])
}

func TestUploadRejectsNonCSVFilename(t *testing.T) {
	router := NewRouter(newTestHandler(t))

	body, contentType := multipartUpload(t, "ledger.xlsx", muleLedger())
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "CSV")
}

func TestUploadMissingFileField(t *testing.T) {
	router := NewRouter(newTestHandler(t))

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("note", "no file here"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploadUnresolvableSchemaRejectedBeforeStreaming(t *testing.T) {
	router := NewRouter(newTestHandler(t))

	body, contentType := multipartUpload(t, "ledger.csv", "From,Amt\nalice,abc\nbob,def\n")
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "column mapping failed")
	assert.NotEqual(t, "text/event-stream", rec.Header().Get("Content-Type"))
}

func TestDeepDiveWithoutPriorAnalysis(t *testing.T) {
	router := NewRouter(newTestHandler(t))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/ai-analyze/ACC_0001", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeepDiveAfterUpload(t *testing.T) {
	router := NewRouter(newTestHandler(t))

	body, contentType := multipartUpload(t, "ledger.csv", muleLedger())
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	router.ServeHTTP(httptest.NewRecorder(), req)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/ai-analyze/MULE_01", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp DeepDiveResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "MULE_01", resp.AccountID)
	assert.Contains(t, resp.ForensicSummary, "Aggregator (Fan-in)")
	assert.Equal(t, "IMMEDIATE FREEZE. High-velocity aggregator profile detected.", resp.Recommendation)
	assert.GreaterOrEqual(t, resp.PredictionConfidence, 0.85)
	assert.Len(t, resp.BehavioralFlags, 2)

	notFound := httptest.NewRecorder()
	router.ServeHTTP(notFound, httptest.NewRequest(http.MethodPost, "/ai-analyze/ACC_9999", nil))
	assert.Equal(t, http.StatusNotFound, notFound.Code)
}

func TestGenerateDemoStreams(t *testing.T) {
	router := NewRouter(newTestHandler(t))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/generate-demo", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	frames := sseFrames(t, rec.Body.String())
	require.NotEmpty(t, frames)

	final := frames[len(frames)-1]
	require.Equal(t, true, final["complete"])

	// The seeded demo ledger always embeds mule rings
	rings, ok := final["fraud_rings"].([]interface{})
	require.True(t, ok)
	assert.NotEmpty(t, rings)
}
