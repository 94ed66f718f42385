package slack

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/slack-go/slack"
)

// Client posts to Slack with a workspace's bot token
type Client struct {
	httpClient *http.Client
	apiURL     string
}

// NewClient creates a Slack client
func NewClient(httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{httpClient: httpClient, apiURL: slack.APIURL}
}

func (c *Client) api(token string) *slack.Client {
	return slack.New(token, slack.OptionHTTPClient(c.httpClient), slack.OptionAPIURL(c.apiURL))
}

// PostMessage posts text (and optional blocks) to a channel and returns the message timestamp
func (c *Client) PostMessage(ctx context.Context, token, channel, text string, blocks []slack.Block) (string, error) {
	opts := []slack.MsgOption{slack.MsgOptionText(text, false)}
	if len(blocks) > 0 {
		opts = append(opts, slack.MsgOptionBlocks(blocks...))
	}
	_, ts, err := c.api(token).PostMessageContext(ctx, channel, opts...)
	if err != nil {
		return "", fmt.Errorf("failed to post slack message: %w", err)
	}
	return ts, nil
}

// Channel is a conversation the bot can post to
type Channel struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	IsPrivate bool   `json:"is_private"`
}

// ListChannels lists the public and private channels visible to the bot
func (c *Client) ListChannels(ctx context.Context, token string) ([]Channel, error) {
	api := c.api(token)
	params := &slack.GetConversationsParameters{
		Types:           []string{"public_channel", "private_channel"},
		ExcludeArchived: true,
		Limit:           200,
	}

	var out []Channel
	for {
		chans, cursor, err := api.GetConversationsContext(ctx, params)
		if err != nil {
			return nil, fmt.Errorf("failed to list slack channels: %w", err)
		}
		for _, ch := range chans {
			out = append(out, Channel{ID: ch.ID, Name: ch.Name, IsPrivate: ch.IsPrivate})
		}
		if cursor == "" {
			return out, nil
		}
		params.Cursor = cursor
	}
}

// ActionLine is one action rendered in a meeting message
type ActionLine struct {
	Title    string
	Owner    string
	DueDate  string
	Priority string
}

// MeetingMessage renders a meeting summary and its actions as fallback text and blocks
func MeetingMessage(title, summary string, actions []ActionLine, link string) (string, []slack.Block) {
	fallback := fmt.Sprintf("Meeting summary: %s (%d action items)", title, len(actions))

	blocks := []slack.Block{
		slack.NewHeaderBlock(slack.NewTextBlockObject(slack.PlainTextType, truncate("📋 "+title, 150), false, false)),
	}
	if summary != "" {
		blocks = append(blocks, slack.NewSectionBlock(
			slack.NewTextBlockObject(slack.MarkdownType, truncate("*Summary*\n"+summary, 3000), false, false), nil, nil))
	}

	if len(actions) > 0 {
		var sb strings.Builder
		sb.WriteString("*Action items*\n")
		for _, a := range actions {
			sb.WriteString("• ")
			sb.WriteString(a.Title)
			var meta []string
			if a.Owner != "" {
				meta = append(meta, "👤 "+a.Owner)
			}
			if a.DueDate != "" {
				meta = append(meta, "📅 "+a.DueDate)
			}
			if a.Priority == "high" || a.Priority == "urgent" {
				meta = append(meta, "🔥 "+a.Priority)
			}
			if len(meta) > 0 {
				sb.WriteString(" (" + strings.Join(meta, ", ") + ")")
			}
			sb.WriteString("\n")
		}
		blocks = append(blocks, slack.NewDividerBlock(), slack.NewSectionBlock(
			slack.NewTextBlockObject(slack.MarkdownType, truncate(sb.String(), 3000), false, false), nil, nil))
	}

	if link != "" {
		blocks = append(blocks, slack.NewContextBlock("",
			slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("<%s|View in MeetingActions>", link), false, false)))
	}
	return fallback, blocks
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
