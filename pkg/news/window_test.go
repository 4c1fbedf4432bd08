package news

import (
	"testing"
	"time"
)

func TestExtractDays(t *testing.T) {
	tests := []struct {
		name   string
		prompt string
		want   int
	}{
		{"explicit allowed window", "news from the last 7 days", 7},
		{"explicit fourteen", "what happened in the last 14 days", 14},
		{"disallowed window falls back", "news from the last 3 days", 30},
		{"week keyword", "mortgage news this week", 7},
		{"month keyword", "roundup for the month", 30},
		{"weekly is not week", "the weekly report", 30},
		{"no cue", "latest mortgage industry news", 30},
		{"empty", "", 30},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractDays(tt.prompt); got != tt.want {
				t.Errorf("ExtractDays(%q) = %d, want %d", tt.prompt, got, tt.want)
			}
		})
	}
}

func TestIsIndustryQuestion(t *testing.T) {
	tests := []struct {
		prompt string
		want   bool
	}{
		{"what is happening with mortgage rates", true},
		{"any FHFA news this month", true},
		{"latest on the housing market", true},
		{"what stocks should I buy", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsIndustryQuestion(tt.prompt); got != tt.want {
			t.Errorf("IsIndustryQuestion(%q) = %v, want %v", tt.prompt, got, tt.want)
		}
	}
}

func TestIsConsumerIntent(t *testing.T) {
	tests := []struct {
		prompt string
		want   bool
	}{
		{"should I refinance my mortgage now", true},
		{"is now a good time to buy a house", true},
		{"mortgage origination volume trends", false},
	}
	for _, tt := range tests {
		if got := IsConsumerIntent(tt.prompt); got != tt.want {
			t.Errorf("IsConsumerIntent(%q) = %v, want %v", tt.prompt, got, tt.want)
		}
	}
}

func TestClassifyCluster(t *testing.T) {
	tests := []struct {
		name    string
		title   string
		snippet string
		want    string
	}{
		{"regulatory", "CFPB issues new rule", "", "Regulatory"},
		{"policy beats market", "Federal Reserve holds interest rate steady", "", "Policy"},
		{"guidelines", "Fannie updates eligibility", "", "Guidelines"},
		{"default", "Quiet day in housing", "nothing notable", "Market"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifyCluster(tt.title, tt.snippet); got != tt.want {
				t.Errorf("classifyCluster = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFreshnessScore(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		item Item
		want int
	}{
		{
			"preferred and fresh",
			Item{Domain: "housingwire.com", Published: now.AddDate(0, 0, -2)},
			4,
		},
		{
			"preferred and older",
			Item{Domain: "housingwire.com", Published: now.AddDate(0, 0, -20)},
			3,
		},
		{
			"unknown outlet fresh",
			Item{Domain: "example.com", Published: now.AddDate(0, 0, -1)},
			2,
		},
		{
			"unknown outlet stale",
			Item{Domain: "example.com", Published: now.AddDate(0, 0, -60)},
			0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := freshnessScore(tt.item, now); got != tt.want {
				t.Errorf("freshnessScore = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestIsDenied(t *testing.T) {
	if !isDenied(deniedDomains[0]) {
		t.Errorf("%q should be denied", deniedDomains[0])
	}
	if isDenied("housingwire.com") {
		t.Error("housingwire.com should not be denied")
	}
}
