// Package mediaupload performs signed direct uploads to Cloudinary.
//
// The backend issues a short-lived upload ticket (cloud name, api key,
// timestamp, signature, folder). The browser posts the file to us, and we
// forward it straight to Cloudinary with the ticket's credentials. The file
// never touches the backend.
package mediaupload

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.cloudinary.com/v1_1"

// Result is the subset of Cloudinary's upload response that we keep.
type Result struct {
	PublicID     string `json:"public_id"`
	SecureURL    string `json:"secure_url"`
	Format       string `json:"format"`
	Bytes        int64  `json:"bytes"`
	ResourceType string `json:"resource_type"`
}

// Ticket carries the signed parameters for one upload. It mirrors the
// ticket issued by the backend's sign endpoint.
type Ticket struct {
	CloudName      string
	APIKey         string
	Timestamp      int64
	Signature      string
	Folder         string
	ResourceType   string
	AllowedFormats []string
}

// Uploader posts files to Cloudinary's upload API.
type Uploader struct {
	baseURL string
	httpc   *http.Client
}

// New returns an Uploader with the given timeout. A zero timeout defaults
// to 30 seconds; uploads carry file bodies and need more headroom than
// ordinary API calls.
func New(timeout time.Duration) *Uploader {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Uploader{
		baseURL: defaultBaseURL,
		httpc:   &http.Client{Timeout: timeout},
	}
}

// UploadURL returns the Cloudinary endpoint for a cloud and resource type.
func UploadURL(cloudName, resourceType string) string {
	if resourceType == "" {
		resourceType = "auto"
	}
	return fmt.Sprintf("%s/%s/%s/upload", defaultBaseURL, cloudName, resourceType)
}

// SetBaseURL overrides the Cloudinary API base. Used by tests.
func (u *Uploader) SetBaseURL(base string) {
	u.baseURL = strings.TrimRight(base, "/")
}

// Upload sends the file to Cloudinary using the ticket's signed parameters
// and returns the stored asset's details.
func (u *Uploader) Upload(ctx context.Context, t Ticket, filename string, file io.Reader) (Result, error) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		err := writeUploadForm(mw, t, filename, file)
		if cerr := mw.Close(); err == nil {
			err = cerr
		}
		pw.CloseWithError(err)
	}()

	endpoint := fmt.Sprintf("%s/%s/%s/upload", u.baseURL, t.CloudName, resourceTypeOrAuto(t.ResourceType))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, pr)
	if err != nil {
		return Result{}, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := u.httpc.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("cloudinary upload: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Result{}, fmt.Errorf("cloudinary upload: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Result{}, fmt.Errorf("cloudinary upload failed (%d): %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var res Result
	if err := json.Unmarshal(body, &res); err != nil {
		return Result{}, fmt.Errorf("cloudinary upload: decode response: %w", err)
	}
	return res, nil
}

func writeUploadForm(mw *multipart.Writer, t Ticket, filename string, file io.Reader) error {
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return err
	}
	if _, err := io.Copy(fw, file); err != nil {
		return err
	}

	fields := map[string]string{
		"api_key":   t.APIKey,
		"timestamp": strconv.FormatInt(t.Timestamp, 10),
		"signature": t.Signature,
	}
	if t.Folder != "" {
		fields["folder"] = t.Folder
	}
	if len(t.AllowedFormats) > 0 {
		fields["allowed_formats"] = strings.Join(t.AllowedFormats, ",")
	}
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return err
		}
	}
	return nil
}

func resourceTypeOrAuto(rt string) string {
	if rt == "" {
		return "auto"
	}
	return rt
}
