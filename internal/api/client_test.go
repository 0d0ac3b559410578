package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verdictx/vx/internal/chat"
	"github.com/verdictx/vx/internal/configuration"
	"github.com/verdictx/vx/internal/feature"
)

func newTestClient(masterURL, extractionURL string) *Client {
	return NewClient(&configuration.Config{
		MasterAPIURL:     masterURL,
		ExtractionAPIURL: extractionURL,
		RequestTimeout:   5,
	})
}

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestCallPrimary(t *testing.T) {
	t.Parallel()

	t.Run("mixed feature posts file and case text", func(t *testing.T) {
		t.Parallel()
		var gotPath, gotCaseText, gotFilename, gotFileBody, gotFileType string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			require.NoError(t, r.ParseMultipartForm(1<<20))
			gotCaseText = r.FormValue("case_text")
			f, header, err := r.FormFile("file")
			require.NoError(t, err)
			defer f.Close()
			gotFilename = header.Filename
			gotFileType = header.Header.Get("Content-Type")
			body, err := io.ReadAll(f)
			require.NoError(t, err)
			gotFileBody = string(body)
			json.NewEncoder(w).Encode(map[string]any{"status": "success", "prediction": "GRANT"})
		}))
		defer server.Close()

		client := newTestClient(server.URL, server.URL)
		descriptor, err := feature.Resolve(feature.JudgmentPrediction)
		require.NoError(t, err)

		path := writeTempFile(t, "case.pdf", "pdf-bytes")
		attachment := &chat.FileAttachment{Name: "case.pdf", Path: path, MIMEType: "application/pdf"}
		result, err := client.CallPrimary(context.Background(), descriptor, "the accused seeks bail", attachment)
		require.NoError(t, err)

		assert.Equal(t, "/predict/judgment", gotPath)
		assert.Equal(t, "the accused seeks bail", gotCaseText)
		assert.Equal(t, "case.pdf", gotFilename)
		assert.Equal(t, "application/pdf", gotFileType)
		assert.Equal(t, "pdf-bytes", gotFileBody)
		assert.Equal(t, "GRANT", result.JSON["prediction"])
	})

	t.Run("text-only feature posts a question and no file", func(t *testing.T) {
		t.Parallel()
		var gotQuestion string
		var hadFile bool
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, r.ParseMultipartForm(1<<20))
			gotQuestion = r.FormValue("question")
			_, _, err := r.FormFile("file")
			hadFile = err == nil
			json.NewEncoder(w).Encode(map[string]any{"response": "Bail is discretionary."})
		}))
		defer server.Close()

		client := newTestClient(server.URL, server.URL)
		descriptor, err := feature.Resolve(feature.VerdictxQAI)
		require.NoError(t, err)

		_, err = client.CallPrimary(context.Background(), descriptor, "what is bail?", nil)
		require.NoError(t, err)
		assert.Equal(t, "what is bail?", gotQuestion)
		assert.False(t, hadFile)
	})

	t.Run("file-only feature never posts text", func(t *testing.T) {
		t.Parallel()
		var form map[string][]string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, r.ParseMultipartForm(1<<20))
			form = r.MultipartForm.Value
			json.NewEncoder(w).Encode(map[string]any{"status": "success"})
		}))
		defer server.Close()

		client := newTestClient(server.URL, server.URL)
		descriptor, err := feature.Resolve(feature.BailAnalysis)
		require.NoError(t, err)

		path := writeTempFile(t, "case.pdf", "pdf-bytes")
		attachment := &chat.FileAttachment{Name: "case.pdf", Path: path, MIMEType: "application/pdf"}
		_, err = client.CallPrimary(context.Background(), descriptor, "stray text", attachment)
		require.NoError(t, err)
		assert.NotContains(t, form, "case_text")
		assert.NotContains(t, form, "question")
	})

	t.Run("extraction always targets the fixed endpoint", func(t *testing.T) {
		t.Parallel()
		var gotPath string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			json.NewEncoder(w).Encode(map[string]any{"status": "success"})
		}))
		defer server.Close()

		client := newTestClient("http://master.invalid", server.URL)
		descriptor, err := feature.Resolve(feature.InformationExtraction)
		require.NoError(t, err)

		_, err = client.CallPrimary(context.Background(), descriptor, "draft a bail application", nil)
		require.NoError(t, err)
		assert.Equal(t, feature.ExtractAndDownloadEndpoint, gotPath)
	})
}

func TestCallFollowup(t *testing.T) {
	t.Parallel()

	var gotPath, gotQuestion string
	var gotHistory []chat.HistoryEntry
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, r.ParseMultipartForm(1<<20))
		gotQuestion = r.FormValue("question")
		require.NoError(t, json.Unmarshal([]byte(r.FormValue("conversation_history")), &gotHistory))
		json.NewEncoder(w).Encode(map[string]any{"status": "success", "response": "Within 30 days."})
	}))
	defer server.Close()

	client := newTestClient(server.URL, server.URL)
	descriptor, err := feature.Resolve(feature.JudgmentPrediction)
	require.NoError(t, err)

	history := []chat.HistoryEntry{
		{Sender: chat.SenderUser, Text: "predict my case"},
		{Sender: chat.SenderBot, Text: "GRANT"},
	}
	result, err := client.CallFollowup(context.Background(), descriptor, "how soon?", history)
	require.NoError(t, err)

	assert.Equal(t, "/predict/followup/judgment", gotPath)
	assert.Equal(t, "how soon?", gotQuestion)
	assert.Equal(t, history, gotHistory)
	assert.Equal(t, "Within 30 days.", result.JSON["response"])
}

func TestDecodeResponse(t *testing.T) {
	t.Parallel()

	t.Run("application error payload", func(t *testing.T) {
		t.Parallel()
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]any{"status": "error", "error": "Case too short"})
		}))
		defer server.Close()

		client := newTestClient(server.URL, server.URL)
		descriptor, err := feature.Resolve(feature.VerdictxQAI)
		require.NoError(t, err)

		_, err = client.CallPrimary(context.Background(), descriptor, "hi", nil)
		var applicationError *ApplicationError
		require.True(t, errors.As(err, &applicationError))
		assert.Equal(t, "Case too short", applicationError.Message)
	})

	t.Run("http error carries status and host", func(t *testing.T) {
		t.Parallel()
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusBadGateway)
		}))
		defer server.Close()

		client := newTestClient(server.URL, server.URL)
		descriptor, err := feature.Resolve(feature.VerdictxQAI)
		require.NoError(t, err)

		_, err = client.CallPrimary(context.Background(), descriptor, "hi", nil)
		var httpError *HTTPError
		require.True(t, errors.As(err, &httpError))
		assert.Equal(t, http.StatusBadGateway, httpError.StatusCode)
		assert.NotEmpty(t, httpError.Host)
	})

	t.Run("pdf response becomes a named binary", func(t *testing.T) {
		t.Parallel()
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/pdf")
			w.Header().Set("Content-Disposition", `attachment; filename="drafted.pdf"`)
			w.Write([]byte("%PDF-1.4"))
		}))
		defer server.Close()

		client := newTestClient(server.URL, server.URL)
		descriptor, err := feature.Resolve(feature.InformationExtraction)
		require.NoError(t, err)

		result, err := client.CallPrimary(context.Background(), descriptor, "draft it", nil)
		require.NoError(t, err)
		require.NotNil(t, result.Binary)
		assert.Equal(t, "drafted.pdf", result.Binary.Filename)
		assert.Equal(t, []byte("%PDF-1.4"), result.Binary.Data)
	})

	t.Run("pdf response without disposition gets a default name", func(t *testing.T) {
		t.Parallel()
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/pdf")
			w.Write([]byte("%PDF-1.4"))
		}))
		defer server.Close()

		client := newTestClient(server.URL, server.URL)
		descriptor, err := feature.Resolve(feature.InformationExtraction)
		require.NoError(t, err)

		result, err := client.CallPrimary(context.Background(), descriptor, "draft it", nil)
		require.NoError(t, err)
		require.NotNil(t, result.Binary)
		assert.Equal(t, "extracted_file.pdf", result.Binary.Filename)
	})

	t.Run("empty binary body errors", func(t *testing.T) {
		t.Parallel()
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/pdf")
		}))
		defer server.Close()

		client := newTestClient(server.URL, server.URL)
		descriptor, err := feature.Resolve(feature.InformationExtraction)
		require.NoError(t, err)

		_, err = client.CallPrimary(context.Background(), descriptor, "draft it", nil)
		assert.True(t, errors.Is(err, ErrEmptyDownload))
	})

	t.Run("non-json body errors", func(t *testing.T) {
		t.Parallel()
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			w.Write([]byte("<html>ngrok interstitial</html>"))
		}))
		defer server.Close()

		client := newTestClient(server.URL, server.URL)
		descriptor, err := feature.Resolve(feature.VerdictxQAI)
		require.NoError(t, err)

		_, err = client.CallPrimary(context.Background(), descriptor, "hi", nil)
		assert.True(t, errors.Is(err, ErrMalformedResponse))
	})
}

func TestHealth(t *testing.T) {
	t.Parallel()

	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if r.URL.Path != "/health" {
			http.NotFound(w, r)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := newTestClient(server.URL, "http://extraction.invalid")
	require.NoError(t, client.Health(context.Background(), feature.HostMaster))
	assert.Equal(t, "/health", gotPath)
}
