package service

import (
	"encoding/json"
	"strings"

	"github.com/set-night/pagecast/internal/domain"
)

const (
	noSummary     = "No summary available"
	noKeyPoints   = "No key points available"
	maxLinePoints = 3
)

// ParsedAnalysis is an AnalysisResult tagged with the parse path that produced it.
type ParsedAnalysis struct {
	Result domain.AnalysisResult
	Mode   domain.ParseMode
}

// ParseAnalysisResponse reduces a free-form model reply to an AnalysisResult.
// It first tries the span between the first '{' and the last '}' as JSON and
// falls back to reading lines. It never fails. Word counts that the reply does
// not supply are taken from originalContent.
func ParseAnalysisResponse(reply, originalContent string) ParsedAnalysis {
	if res, ok := parseStructured(reply, originalContent); ok {
		return ParsedAnalysis{Result: res, Mode: domain.ParseStructured}
	}
	return ParsedAnalysis{Result: parseLines(reply, originalContent), Mode: domain.ParseHeuristic}
}

func parseStructured(reply, originalContent string) (domain.AnalysisResult, bool) {
	start := strings.Index(reply, "{")
	end := strings.LastIndex(reply, "}")
	if start < 0 || end <= start {
		return domain.AnalysisResult{}, false
	}

	var raw map[string]any
	if err := json.Unmarshal([]byte(reply[start:end+1]), &raw); err != nil {
		return domain.AnalysisResult{}, false
	}

	res := domain.AnalysisResult{
		Summary:   noSummary,
		KeyPoints: []string{noKeyPoints},
		Sentiment: domain.SentimentNeutral,
		WordCount: countWords(originalContent),
	}
	if s, ok := raw["summary"].(string); ok && s != "" {
		res.Summary = s
	}
	if points, ok := stringList(raw["keyPoints"]); ok {
		res.KeyPoints = points
	}
	if s, ok := raw["sentiment"].(string); ok && domain.Sentiment(s).Valid() {
		res.Sentiment = domain.Sentiment(s)
	}
	if n, ok := raw["wordCount"].(float64); ok && n >= 0 {
		res.WordCount = int(n)
	}
	return res, true
}

// stringList accepts only a JSON array whose every element is a string.
func stringList(v any) ([]string, bool) {
	items, ok := v.([]any)
	if !ok {
		return nil, false
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, false
		}
		out = append(out, s)
	}
	return out, true
}

func parseLines(reply, originalContent string) domain.AnalysisResult {
	var lines []string
	for _, line := range strings.Split(reply, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}

	res := domain.AnalysisResult{
		Summary:   noSummary,
		KeyPoints: []string{},
		Sentiment: domain.SentimentNeutral,
		WordCount: countWords(originalContent),
	}
	if len(lines) > 0 {
		res.Summary = lines[0]
		rest := lines[1:]
		if len(rest) > maxLinePoints {
			rest = rest[:maxLinePoints]
		}
		res.KeyPoints = append(res.KeyPoints, rest...)
	}
	return res
}

func countWords(s string) int {
	return len(strings.Fields(s))
}
