package news

import (
	"regexp"
	"strconv"
	"strings"
)

const defaultWindowDays = 30

var allowedWindows = map[int]bool{7: true, 14: true, 30: true}

var lastDaysPattern = regexp.MustCompile(`(?i)last\s+(\d+)\s+days`)
var weekPattern = regexp.MustCompile(`(?i)\bweek\b`)
var monthPattern = regexp.MustCompile(`(?i)\bmonth\b`)

// ExtractDays parses a recency window out of the prompt. Only 7, 14 and
// 30 day windows are honored; anything else falls back to 30.
func ExtractDays(prompt string) int {
	if prompt == "" {
		return defaultWindowDays
	}
	if m := lastDaysPattern.FindStringSubmatch(prompt); m != nil {
		if d, err := strconv.Atoi(m[1]); err == nil && allowedWindows[d] {
			return d
		}
	}
	if weekPattern.MatchString(prompt) {
		return 7
	}
	if monthPattern.MatchString(prompt) {
		return 30
	}
	return defaultWindowDays
}

// IsIndustryQuestion reports whether a prompt touches any mortgage or
// housing industry topic.
func IsIndustryQuestion(prompt string) bool {
	p := strings.ToLower(prompt)
	for _, t := range industryContextTerms {
		if strings.Contains(p, t) {
			return true
		}
	}
	return false
}

// IsConsumerIntent reports whether the prompt is asking for personal
// financial advice rather than industry reporting.
func IsConsumerIntent(prompt string) bool {
	p := strings.ToLower(prompt)
	for _, t := range consumerIntentTerms {
		if strings.Contains(p, t) {
			return true
		}
	}
	return false
}

func classifyCluster(title, snippet string) string {
	text := strings.ToLower(title + " " + snippet)
	for _, c := range clusters {
		for _, k := range c.keywords {
			if strings.Contains(text, k) {
				return c.name
			}
		}
	}
	return "Market"
}
