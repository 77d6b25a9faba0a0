package llmengine

import (
	"encoding/json"
	"regexp"
	"strings"
)

var fencedBlockPattern = regexp.MustCompile("(?s)```(?:json)?\\s*\\n?(.*?)\\n?```")

var validChartTypes = map[string]bool{"bar": true, "line": true, "pie": true}

type rawEnvelope struct {
	Thinking      string         `json:"thinking"`
	SQL           string         `json:"sql"`
	ChartType     string         `json:"chart_type"`
	EchartsOption map[string]any `json:"echarts_option"`
}

// extractEnvelope applies the three-step JSON extraction policy against the
// full accumulated model output, in order, keeping the first that parses:
// the whole body, the first fenced code block, then the substring between
// the first '{' and the last '}'. An unrecognized or absent chart_type
// coerces to "bar".
func extractEnvelope(body string) (Envelope, bool) {
	candidates := []string{body}

	if m := fencedBlockPattern.FindStringSubmatch(body); m != nil {
		candidates = append(candidates, m[1])
	}

	if start := strings.Index(body, "{"); start != -1 {
		if end := strings.LastIndex(body, "}"); end > start {
			candidates = append(candidates, body[start:end+1])
		}
	}

	for _, c := range candidates {
		var raw rawEnvelope
		if err := json.Unmarshal([]byte(c), &raw); err != nil {
			continue
		}
		return Envelope{
			Thinking:  raw.Thinking,
			SQL:       strings.TrimSpace(raw.SQL),
			ChartType: normalizeChartType(raw.ChartType),
			VizConfig: raw.EchartsOption,
		}, true
	}

	return Envelope{}, false
}

// normalizeChartType coerces an absent or unrecognized chart type to "bar".
func normalizeChartType(chartType string) string {
	if validChartTypes[chartType] {
		return chartType
	}
	return "bar"
}
