package zoom

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/johnquangdev/meeting-actions/pkg/httpclient"
)

// maxTranscriptBytes bounds a downloaded transcript file
const maxTranscriptBytes = 20 << 20

// ErrForeignHost is returned before a token would be sent outside Zoom
var ErrForeignHost = errors.New("recording url is not on a zoom host")

var zoomHosts = []string{"zoom.us"}

// Client calls the Zoom REST API on behalf of a connected account
type Client struct {
	httpClient *http.Client
	apiBase    string
	hosts      []string
}

// NewClient creates a Zoom API client
func NewClient(httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{httpClient: httpClient, apiBase: "https://api.zoom.us/v2", hosts: zoomHosts}
}

// IsRecordingURL reports whether raw is an https URL on zoom.us or one of its subdomains
func IsRecordingURL(raw string) bool {
	return hostAllowed(raw, zoomHosts)
}

func hostAllowed(raw string, hosts []string) bool {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme != "https" || u.User != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	for _, h := range hosts {
		if host == h || strings.HasSuffix(host, "."+h) {
			return true
		}
	}
	return false
}

// RecordingFile is one file of a cloud recording
type RecordingFile struct {
	ID             string `json:"id"`
	FileType       string `json:"file_type"`
	FileExtension  string `json:"file_extension"`
	DownloadURL    string `json:"download_url"`
	RecordingType  string `json:"recording_type"`
	RecordingStart string `json:"recording_start"`
}

// Recording is the recording object of a meeting
type Recording struct {
	UUID           string          `json:"uuid"`
	ID             int64           `json:"id"`
	AccountID      string          `json:"account_id"`
	HostID         string          `json:"host_id"`
	Topic          string          `json:"topic"`
	StartTime      string          `json:"start_time"`
	Duration       int             `json:"duration"`
	RecordingFiles []RecordingFile `json:"recording_files"`
}

// TranscriptFile returns the TRANSCRIPT file of the recording, if any
func (r Recording) TranscriptFile() (RecordingFile, bool) {
	for _, f := range r.RecordingFiles {
		if strings.EqualFold(f.FileType, "TRANSCRIPT") && f.DownloadURL != "" {
			return f, true
		}
	}
	return RecordingFile{}, false
}

// AudioFile returns the first audio or video file of the recording, preferring M4A
func (r Recording) AudioFile() (RecordingFile, bool) {
	for _, want := range []string{"M4A", "MP4"} {
		for _, f := range r.RecordingFiles {
			if strings.EqualFold(f.FileType, want) && f.DownloadURL != "" {
				return f, true
			}
		}
	}
	return RecordingFile{}, false
}

// GetRecording fetches the recording of a meeting by its UUID or numeric ID
func (c *Client) GetRecording(ctx context.Context, accessToken, meetingID string) (*Recording, error) {
	// UUIDs starting with "/" or containing "//" must be double encoded
	id := meetingID
	if strings.HasPrefix(id, "/") || strings.Contains(id, "//") {
		id = url.PathEscape(url.PathEscape(id))
	} else {
		id = url.PathEscape(id)
	}

	var rec Recording
	if err := httpclient.DoJSON(ctx, c.httpClient, http.MethodGet, c.apiBase+"/meetings/"+id+"/recordings", httpclient.Bearer(accessToken), nil, &rec); err != nil {
		return nil, fmt.Errorf("failed to get recording: %w", err)
	}
	return &rec, nil
}

// DownloadTranscript downloads a recording transcript file (WebVTT)
func (c *Client) DownloadTranscript(ctx context.Context, accessToken, downloadURL string) (string, error) {
	if !hostAllowed(downloadURL, c.hosts) {
		return "", ErrForeignHost
	}
	b, err := httpclient.Download(ctx, c.httpClient, downloadURL, httpclient.Bearer(accessToken), maxTranscriptBytes)
	if err != nil {
		return "", fmt.Errorf("failed to download zoom transcript: %w", err)
	}
	return string(b), nil
}

// AuthorizedURL appends the access token to a recording download URL so a
// third party (the speech-to-text provider) can fetch it
func (c *Client) AuthorizedURL(downloadURL, accessToken string) (string, error) {
	if !hostAllowed(downloadURL, c.hosts) {
		return "", ErrForeignHost
	}
	u, err := url.Parse(downloadURL)
	if err != nil || accessToken == "" {
		return downloadURL, err
	}
	q := u.Query()
	q.Set("access_token", accessToken)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
