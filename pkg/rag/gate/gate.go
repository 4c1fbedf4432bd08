package gate

import (
	"regexp"
	"strings"
)

// Terms are mortgage-industry specific (avoid generic words like "pricing",
// "yield", "rate" that would let unrelated prompts through). This is the
// single canonical list: the orchestrator's refusal gate and the web-search
// gate both match against it.
var mortgageTerms = []string{
	"mortgage",
	"home loan",
	"refinance",
	"cash-out refinance",
	"heloc",
	"fhfa",
	"gse",
	"fannie",
	"freddie",
	"ginnie",
	"gnma",
	"fha",
	"va loan",
	"usda loan",
	"conforming loan limit",
	"jumbo loan",
	"underwriting",
	"origination",
	"servicing",
	"loss mitigation",
	"forbearance",
	"foreclosure",
	"mbs",
	"mortgage-backed",
	"loan estimate",
	"closing disclosure",
	"trid",
	"tila",
	"respa",
	"hmda",
	"cfpb",
	"escrow",
	"pmi",
	"mip",
	"llpa",
	"dti",
	"ltv",
	"fico",
}

// Gate is the keyword-based domain-relevance filter applied before any
// retrieval or generation. It is a pure function over static data and
// never fails.
type Gate struct {
	patterns []*regexp.Regexp
}

func New() *Gate {
	patterns := make([]*regexp.Regexp, 0, len(mortgageTerms))
	for _, term := range mortgageTerms {
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}
		patterns = append(patterns, compilePhrase(term))
	}
	return &Gate{patterns: patterns}
}

// compilePhrase builds a whole-word, case-insensitive matcher for a phrase,
// tolerating arbitrary whitespace between its words.
func compilePhrase(phrase string) *regexp.Regexp {
	escaped := regexp.QuoteMeta(phrase)
	escaped = strings.ReplaceAll(escaped, `\ `, `\s+`)
	return regexp.MustCompile(`(?i)\b` + escaped + `\b`)
}

// IsInDomain reports whether the prompt mentions at least one
// mortgage-industry phrase as a whole word.
func (g *Gate) IsInDomain(prompt string) bool {
	if prompt == "" {
		return false
	}
	for _, rx := range g.patterns {
		if rx.MatchString(prompt) {
			return true
		}
	}
	return false
}
