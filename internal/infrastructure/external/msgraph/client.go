package msgraph

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/johnquangdev/meeting-actions/pkg/httpclient"
)

const maxTranscriptBytes = 20 << 20

// ErrForeignResource is returned for resources that do not live on the Graph API
var ErrForeignResource = errors.New("resource is not a graph api path")

// Client calls Microsoft Graph on behalf of a connected Teams account
type Client struct {
	httpClient *http.Client
	apiBase    string
}

// NewClient creates a Graph client
func NewClient(httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{httpClient: httpClient, apiBase: "https://graph.microsoft.com/v1.0"}
}

// TranscriptContentURL is the WebVTT content URL of an online meeting transcript
func (c *Client) TranscriptContentURL(organizerID, meetingID, transcriptID string) string {
	return fmt.Sprintf("%s/users/%s/onlineMeetings/%s/transcripts/%s/content?$format=text/vtt",
		c.apiBase, url.PathEscape(organizerID), url.PathEscape(meetingID), url.PathEscape(transcriptID))
}

// ResourceURL turns a relative notification resource into an absolute Graph
// URL. Absolute resources are refused.
func (c *Client) ResourceURL(resource string) (string, error) {
	u, err := url.Parse(resource)
	if err != nil || u.IsAbs() || u.Host != "" || strings.Contains(resource, "..") {
		return "", ErrForeignResource
	}
	return c.apiBase + "/" + strings.TrimLeft(resource, "/"), nil
}

// onGraph reports whether raw points at this client's API base
func (c *Client) onGraph(raw string) bool {
	u, err := url.Parse(raw)
	base, _ := url.Parse(c.apiBase)
	return err == nil && base != nil && u.User == nil &&
		u.Scheme == base.Scheme && strings.EqualFold(u.Host, base.Host)
}

// DownloadTranscript fetches transcript content as WebVTT
func (c *Client) DownloadTranscript(ctx context.Context, accessToken, contentURL string) (string, error) {
	if !c.onGraph(contentURL) {
		return "", ErrForeignResource
	}
	h := httpclient.Bearer(accessToken)
	h.Set("Accept", "text/vtt")
	b, err := httpclient.Download(ctx, c.httpClient, contentURL, h, maxTranscriptBytes)
	if err != nil {
		return "", fmt.Errorf("failed to download teams transcript: %w", err)
	}
	return string(b), nil
}
