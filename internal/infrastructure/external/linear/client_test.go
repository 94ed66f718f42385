package linear

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	c := NewClient(ts.Client())
	c.endpoint = ts.URL + "/graphql"
	return c
}

func TestCreateIssue(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer lin-token" {
			t.Fatalf("missing token")
		}
		var req struct {
			Query     string `json:"query"`
			Variables struct {
				Input map[string]interface{} `json:"input"`
			} `json:"variables"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if !strings.Contains(req.Query, "issueCreate") {
			t.Fatalf("unexpected query %s", req.Query)
		}
		in := req.Variables.Input
		if in["teamId"] != "team-1" || in["title"] != "Ship it" || in["priority"] != float64(2) {
			t.Fatalf("unexpected input %v", in)
		}
		if _, ok := in["assigneeId"]; ok {
			t.Fatalf("empty assignee must be omitted")
		}
		w.Write([]byte(`{"data":{"issueCreate":{"success":true,"issue":{"id":"i-1","identifier":"ENG-7","url":"https://linear.app/acme/issue/ENG-7"}}}}`))
	})

	issue, err := c.CreateIssue(context.Background(), "lin-token", IssueInput{TeamID: "team-1", Title: "Ship it", Priority: 2})
	if err != nil {
		t.Fatalf("CreateIssue: %v", err)
	}
	if issue.Identifier != "ENG-7" || issue.ID != "i-1" {
		t.Fatalf("unexpected issue %+v", issue)
	}
}

func TestCreateIssue_GraphQLErrors(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"errors":[{"message":"Entity not found: Team"}]}`))
	})

	_, err := c.CreateIssue(context.Background(), "t", IssueInput{TeamID: "nope", Title: "x"})
	if err == nil || !strings.Contains(err.Error(), "Entity not found") {
		t.Fatalf("expected graphql error, got %v", err)
	}
}

func TestListTeams(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"teams":{"nodes":[{"id":"t1","key":"ENG","name":"Engineering"}]}}}`))
	})

	teams, err := c.ListTeams(context.Background(), "t")
	if err != nil {
		t.Fatalf("ListTeams: %v", err)
	}
	if len(teams) != 1 || teams[0].Key != "ENG" {
		t.Fatalf("unexpected teams %+v", teams)
	}
}
