package ai

import "fmt"

const extractSystemPrompt = "You are an expert meeting assistant that extracts actionable items from transcripts. Return only valid JSON."

const summarySystemPrompt = "You are an expert at summarizing meetings concisely. Focus on key points, decisions, and outcomes."

const extractTemplate = `You are an expert at analyzing meeting transcripts and extracting actionable items.

Meeting: %s

Transcript:
%s

Extract all action items, decisions, and follow-ups from this meeting. For each item:
1. Identify the type (task, decision, question, or followup)
2. Write a clear, concise title
3. Add a brief description if needed
4. Identify the owner (person responsible) if mentioned
5. Infer a due date if mentioned (format: YYYY-MM-DD)
6. Assign priority (low, medium, high, urgent) based on context
7. Provide a confidence score (0-1) for how certain you are this is an actionable item

Return a JSON object with this structure:
{
  "actions": [
    {
      "type": "task",
      "title": "Send the Q3 report to finance",
      "description": "Include the revised churn numbers",
      "owner_name": "Sarah",
      "due_date": "2024-07-15",
      "priority": "high",
      "confidence_score": 0.9,
      "raw_text": "Sarah, can you send the Q3 report to finance by Monday?"
    }
  ]
}

Only include items with confidence_score > 0.6. Be precise and avoid hallucinating information not in the transcript.`

const summaryTemplate = `Summarize this meeting in 3-5 bullet points. Keep it concise and actionable.

Meeting: %s

Transcript:
%s`

// ExtractPrompt builds the user message for action extraction
func ExtractPrompt(title, transcript string) string {
	return fmt.Sprintf(extractTemplate, title, transcript)
}

// SummaryPrompt builds the user message for the meeting summary
func SummaryPrompt(title, transcript string) string {
	return fmt.Sprintf(summaryTemplate, title, transcript)
}
