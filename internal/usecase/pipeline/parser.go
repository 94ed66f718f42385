package pipeline

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/johnquangdev/meeting-actions/internal/domain/entities"
)

// ConfidenceFloor is the score an extracted item must exceed to be kept
const ConfidenceFloor = 0.6

// extractedItem is one element of the LLM extraction response
type extractedItem struct {
	Type            string   `json:"type"`
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	OwnerName       *string  `json:"owner_name"`
	DueDate         *string  `json:"due_date"`
	Priority        string   `json:"priority"`
	ConfidenceScore *float64 `json:"confidence_score"`
	RawText         string   `json:"raw_text"`
}

// ParseActions turns an extraction response into open actions for a meeting.
// The response may be wrapped in a markdown fence and may be either
// {"actions": [...]} or a bare array.
func ParseActions(content string, meetingID, workspaceID uuid.UUID) ([]*entities.Action, error) {
	items, err := decodeItems(extractJSON(content))
	if err != nil {
		return nil, err
	}

	actions := make([]*entities.Action, 0, len(items))
	for _, item := range items {
		title := strings.TrimSpace(item.Title)
		if title == "" {
			continue
		}
		if item.ConfidenceScore == nil || *item.ConfidenceScore <= ConfidenceFloor {
			continue
		}

		a := entities.NewAction(meetingID, workspaceID, entities.ParseActionType(item.Type), title)
		a.Priority = entities.ParsePriority(item.Priority)
		a.ConfidenceScore = *item.ConfidenceScore
		a.Description = optional(item.Description)
		a.RawText = optional(item.RawText)
		if item.OwnerName != nil {
			a.OwnerName = optional(*item.OwnerName)
		}
		if item.DueDate != nil {
			if due, err := time.Parse(entities.DueDateLayout, strings.TrimSpace(*item.DueDate)); err == nil {
				a.DueDate = &due
			}
		}
		actions = append(actions, a)
	}
	return actions, nil
}

func decodeItems(content string) ([]extractedItem, error) {
	if content == "" {
		return nil, fmt.Errorf("empty extraction response")
	}

	if strings.HasPrefix(content, "[") {
		var items []extractedItem
		if err := json.Unmarshal([]byte(content), &items); err != nil {
			return nil, fmt.Errorf("failed to parse action array: %w", err)
		}
		return items, nil
	}

	var wrapped struct {
		Actions     []extractedItem `json:"actions"`
		ActionItems []extractedItem `json:"action_items"`
	}
	if err := json.Unmarshal([]byte(content), &wrapped); err != nil {
		return nil, fmt.Errorf("failed to parse action object: %w", err)
	}
	if wrapped.Actions == nil {
		return wrapped.ActionItems, nil
	}
	return wrapped.Actions, nil
}

// extractJSON strips a markdown code fence around the response
func extractJSON(content string) string {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "```") {
		return content
	}

	content = strings.TrimPrefix(content, "```")
	content = strings.TrimPrefix(content, "json")
	if idx := strings.LastIndex(content, "```"); idx != -1 {
		content = content[:idx]
	}
	return strings.TrimSpace(content)
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
