package linear

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/johnquangdev/meeting-actions/pkg/httpclient"
)

// Client calls the Linear GraphQL API with a workspace's OAuth token
type Client struct {
	httpClient *http.Client
	endpoint   string
}

// NewClient creates a Linear client
func NewClient(httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{httpClient: httpClient, endpoint: "https://api.linear.app/graphql"}
}

// IssueInput describes an issue to create
type IssueInput struct {
	TeamID      string
	Title       string
	Description string
	Priority    int
	AssigneeID  string
}

// Issue is a created Linear issue
type Issue struct {
	ID         string `json:"id"`
	Identifier string `json:"identifier"`
	URL        string `json:"url"`
}

// Team is a Linear team issues can be filed to
type Team struct {
	ID   string `json:"id"`
	Key  string `json:"key"`
	Name string `json:"name"`
}

type graphQLError struct {
	Message string `json:"message"`
}

type graphQLErrors []graphQLError

func (e graphQLErrors) err() error {
	if len(e) == 0 {
		return nil
	}
	msgs := make([]string, 0, len(e))
	for _, ge := range e {
		msgs = append(msgs, ge.Message)
	}
	return fmt.Errorf("linear: %s", strings.Join(msgs, "; "))
}

const issueCreateMutation = `mutation IssueCreate($input: IssueCreateInput!) {
  issueCreate(input: $input) {
    success
    issue { id identifier url }
  }
}`

// CreateIssue creates an issue in a team
func (c *Client) CreateIssue(ctx context.Context, token string, in IssueInput) (*Issue, error) {
	input := map[string]interface{}{
		"teamId": in.TeamID,
		"title":  in.Title,
	}
	if in.Description != "" {
		input["description"] = in.Description
	}
	if in.Priority > 0 {
		input["priority"] = in.Priority
	}
	if in.AssigneeID != "" {
		input["assigneeId"] = in.AssigneeID
	}

	var resp struct {
		Data struct {
			IssueCreate struct {
				Success bool   `json:"success"`
				Issue   *Issue `json:"issue"`
			} `json:"issueCreate"`
		} `json:"data"`
		Errors graphQLErrors `json:"errors"`
	}
	body := map[string]interface{}{
		"query":     issueCreateMutation,
		"variables": map[string]interface{}{"input": input},
	}
	if err := httpclient.DoJSON(ctx, c.httpClient, http.MethodPost, c.endpoint, httpclient.Bearer(token), body, &resp); err != nil {
		return nil, fmt.Errorf("failed to create linear issue: %w", err)
	}
	if err := resp.Errors.err(); err != nil {
		return nil, err
	}
	if !resp.Data.IssueCreate.Success || resp.Data.IssueCreate.Issue == nil {
		return nil, fmt.Errorf("linear: issue was not created")
	}
	return resp.Data.IssueCreate.Issue, nil
}

// ListTeams lists the teams of the connected organization
func (c *Client) ListTeams(ctx context.Context, token string) ([]Team, error) {
	var resp struct {
		Data struct {
			Teams struct {
				Nodes []Team `json:"nodes"`
			} `json:"teams"`
		} `json:"data"`
		Errors graphQLErrors `json:"errors"`
	}
	body := map[string]string{"query": "query { teams(first: 100) { nodes { id key name } } }"}
	if err := httpclient.DoJSON(ctx, c.httpClient, http.MethodPost, c.endpoint, httpclient.Bearer(token), body, &resp); err != nil {
		return nil, fmt.Errorf("failed to list linear teams: %w", err)
	}
	if err := resp.Errors.err(); err != nil {
		return nil, err
	}
	return resp.Data.Teams.Nodes, nil
}
