// Package api implements the HTTP client for the legal-analysis backends.
// Every feature call is a multipart POST; responses are either JSON or a
// downloadable binary document.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/verdictx/vx/internal/chat"
	"github.com/verdictx/vx/internal/configuration"
	"github.com/verdictx/vx/internal/feature"
)

// Result of a feature call: exactly one of JSON or Binary is set.
type Result struct {
	// JSON payload of a structured response.
	JSON map[string]any
	// Binary document to be saved client-side.
	Binary *Binary
}

// Binary is a downloadable document returned by the extraction backend.
type Binary struct {
	Filename string
	Data     []byte
}

// Client calls the remote feature endpoints.
type Client struct {
	masterURL     string
	extractionURL string
	httpClient    *http.Client
}

// NewClient instantiates a client from configuration.
func NewClient(config *configuration.Config) *Client {
	return &Client{
		masterURL:     strings.TrimSuffix(config.MasterAPIURL, "/"),
		extractionURL: strings.TrimSuffix(config.ExtractionAPIURL, "/"),
		httpClient:    &http.Client{Timeout: time.Duration(config.RequestTimeout) * time.Second},
	}
}

// BaseURL returns the base URL a feature host resolves to.
func (c *Client) BaseURL(host feature.Host) string {
	if host == feature.HostExtraction {
		return c.extractionURL
	}
	return c.masterURL
}

// CallPrimary posts a fresh analysis request to a feature's primary
// endpoint: the attachment under `file` when the feature accepts one, the
// text under the feature's text field when it accepts text.
func (c *Client) CallPrimary(ctx context.Context, desc *feature.Descriptor, text string, attachment *chat.FileAttachment) (*Result, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	if desc.AcceptsFile && attachment != nil {
		if err := writeFilePart(writer, attachment); err != nil {
			return nil, errors.Wrap(err, "writing file part")
		}
	}
	if desc.AcceptsText && text != "" {
		if err := writer.WriteField(desc.TextField(), text); err != nil {
			return nil, errors.Wrap(err, "writing text field")
		}
	}
	if err := writer.Close(); err != nil {
		return nil, errors.Wrap(err, "closing multipart writer")
	}

	// The extraction feature always targets the fixed extract-and-download
	// endpoint, whatever its configured primary endpoint says.
	endpoint := desc.PrimaryEndpoint
	if desc.Key == feature.InformationExtraction {
		endpoint = feature.ExtractAndDownloadEndpoint
	}
	return c.post(ctx, desc.Host, endpoint, writer.FormDataContentType(), body)
}

// CallFollowup posts a continuation question along with the serialized
// prior conversation to a feature's follow-up endpoint.
func (c *Client) CallFollowup(ctx context.Context, desc *feature.Descriptor, question string, history []chat.HistoryEntry) (*Result, error) {
	serialized, err := json.Marshal(history)
	if err != nil {
		return nil, errors.Wrap(err, "marshaling conversation history")
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	if err := writer.WriteField("question", question); err != nil {
		return nil, errors.Wrap(err, "writing question field")
	}
	if err := writer.WriteField("conversation_history", string(serialized)); err != nil {
		return nil, errors.Wrap(err, "writing history field")
	}
	if err := writer.Close(); err != nil {
		return nil, errors.Wrap(err, "closing multipart writer")
	}

	return c.post(ctx, desc.Host, desc.FollowupEndpoint, writer.FormDataContentType(), body)
}

// Health pings the /health endpoint of a backend.
func (c *Client) Health(ctx context.Context, host feature.Host) error {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL(host)+"/health", nil)
	if err != nil {
		return errors.Wrap(err, "building request")
	}
	response, err := c.httpClient.Do(request)
	if err != nil {
		return err
	}
	defer response.Body.Close()
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return &HTTPError{StatusCode: response.StatusCode, Status: response.Status, Host: hostOf(c.BaseURL(host))}
	}
	return nil
}

func (c *Client) post(ctx context.Context, host feature.Host, endpoint, contentType string, body io.Reader) (*Result, error) {
	base := c.BaseURL(host)
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, base+endpoint, body)
	if err != nil {
		return nil, errors.Wrap(err, "building request")
	}
	request.Header.Set("Content-Type", contentType)

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, errors.Wrap(err, "posting request")
	}
	defer response.Body.Close()

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return nil, &HTTPError{StatusCode: response.StatusCode, Status: response.Status, Host: hostOf(base)}
	}
	return decodeResponse(response)
}

// decodeResponse branches on the response content type: binary documents
// are returned for client-side saving, everything else is decoded as JSON.
func decodeResponse(response *http.Response) (*Result, error) {
	contentType := response.Header.Get("Content-Type")
	if strings.Contains(contentType, "application/pdf") || strings.Contains(contentType, "image/") {
		data, err := io.ReadAll(response.Body)
		if err != nil {
			return nil, errors.Wrap(err, "reading binary body")
		}
		if len(data) == 0 {
			return nil, ErrEmptyDownload
		}
		filename := downloadFilename(response.Header.Get("Content-Disposition"), contentType)
		return &Result{Binary: &Binary{Filename: filename, Data: data}}, nil
	}

	var data map[string]any
	if err := json.NewDecoder(response.Body).Decode(&data); err != nil {
		return nil, errors.Wrap(ErrMalformedResponse, err.Error())
	}
	if status, _ := data["status"].(string); status == "error" {
		message, _ := data["error"].(string)
		return nil, &ApplicationError{Message: message}
	}
	return &Result{JSON: data}, nil
}

// downloadFilename extracts a filename from the Content-Disposition header,
// falling back to a content-type-derived default.
func downloadFilename(disposition, contentType string) string {
	if disposition != "" {
		if _, params, err := mime.ParseMediaType(disposition); err == nil {
			if name := params["filename"]; name != "" {
				return name
			}
		}
	}
	switch {
	case strings.Contains(contentType, "application/pdf"):
		return "extracted_file.pdf"
	case strings.Contains(contentType, "image/png"):
		return "extracted_file.png"
	case strings.Contains(contentType, "image/jpeg"):
		return "extracted_file.jpg"
	case strings.Contains(contentType, "image/"):
		return "extracted_file.img"
	}
	return "extracted_file"
}

// writeFilePart streams an attachment into the multipart body, preserving
// its original MIME type.
func writeFilePart(writer *multipart.Writer, attachment *chat.FileAttachment) error {
	f, err := os.Open(attachment.Path)
	if err != nil {
		return errors.Wrap(err, "opening attachment")
	}
	defer f.Close()

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition",
		mime.FormatMediaType("form-data", map[string]string{"name": "file", "filename": attachment.Name}))
	contentType := attachment.MIMEType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	header.Set("Content-Type", contentType)

	part, err := writer.CreatePart(header)
	if err != nil {
		return errors.Wrap(err, "creating part")
	}
	if _, err := io.Copy(part, f); err != nil {
		return errors.Wrap(err, "copying attachment")
	}
	return nil
}

// hostOf reduces a base URL to its host for error messages.
func hostOf(base string) string {
	parsed, err := url.Parse(base)
	if err != nil || parsed.Host == "" {
		return base
	}
	return parsed.Host
}
