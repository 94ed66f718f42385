package pipeline

import (
	"regexp"
	"strings"
)

var (
	cueTiming = regexp.MustCompile(`^\d{1,2}:\d{2}(:\d{2})?[.,]\d{3}\s+-->`)
	voiceTag  = regexp.MustCompile(`^<v\s+([^>]+)>(.*?)(</v>)?$`)
	anyTag    = regexp.MustCompile(`</?[^>]+>`)
	cueIndex  = regexp.MustCompile(`^\d+$`)
)

// NormalizeTranscript converts a WebVTT document into "Speaker: text" lines.
// Anything that is not WebVTT is returned trimmed and otherwise untouched.
func NormalizeTranscript(text string) string {
	text = strings.TrimPrefix(text, "\ufeff")
	if !strings.HasPrefix(strings.TrimSpace(text), "WEBVTT") {
		return strings.TrimSpace(text)
	}

	var (
		out        []string
		inHeader   = true
		skipNote   bool
		blockStart bool
	)
	for _, raw := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		line := strings.TrimSpace(raw)

		if line == "" {
			inHeader = false
			skipNote = false
			blockStart = true
			continue
		}
		if inHeader {
			continue
		}
		// comment blocks and cue identifiers only open a block
		first := blockStart
		blockStart = false
		if first && (strings.HasPrefix(line, "NOTE") || strings.HasPrefix(line, "STYLE") || strings.HasPrefix(line, "REGION")) {
			skipNote = true
			continue
		}
		if skipNote || (first && cueIndex.MatchString(line)) || cueTiming.MatchString(line) {
			continue
		}

		if m := voiceTag.FindStringSubmatch(line); m != nil {
			speaker := strings.TrimSpace(anyTag.ReplaceAllString(m[1], ""))
			body := strings.TrimSpace(anyTag.ReplaceAllString(m[2], ""))
			if body != "" {
				out = append(out, speaker+": "+body)
			}
			continue
		}

		if body := strings.TrimSpace(anyTag.ReplaceAllString(line, "")); body != "" {
			out = append(out, body)
		}
	}
	return strings.Join(out, "\n")
}
