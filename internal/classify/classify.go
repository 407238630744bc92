// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package classify decides whether an author affiliation belongs to a
// commercial organization. Matching is lexical: a compiled Lexicon of
// company names, business keywords and legal-entity suffixes signals a
// company, and any academic term overrides that signal.
package classify

import (
	"fmt"
	"regexp"
	"strings"

	ahocorasick "github.com/cloudflare/ahocorasick"
)

// Verdict explains a classification.
type Verdict struct {
	Commercial bool `json:"commercial" yaml:"commercial"`
	// AcademicTerms lists the academic lexicon terms found.
	AcademicTerms []string `json:"academic_terms,omitempty" yaml:"academic_terms,omitempty"`
	// CommercialTerms lists company names and business keywords found.
	CommercialTerms []string `json:"commercial_terms,omitempty" yaml:"commercial_terms,omitempty"`
	// Suffix is the legal-entity suffix token found, if any.
	Suffix string `json:"suffix,omitempty" yaml:"suffix,omitempty"`
}

// Classifier is an immutable compiled Lexicon. It is safe for concurrent use.
type Classifier struct {
	academic      *termSet
	commercial    *termSet
	suffixPattern *regexp.Regexp
}

// termSet is an Aho-Corasick automaton over lowercased terms.
type termSet struct {
	matcher *ahocorasick.Matcher
	terms   []string
}

func newTermSet(lists ...[]string) *termSet {
	seen := make(map[string]bool)
	var terms []string
	for _, list := range lists {
		for _, t := range list {
			// Surrounding spaces are part of the term: "institut " must not
			// match "Institutes".
			t = strings.ToLower(t)
			if strings.TrimSpace(t) == "" || seen[t] {
				continue
			}
			seen[t] = true
			terms = append(terms, t)
		}
	}
	ts := &termSet{terms: terms}
	if len(terms) > 0 {
		ts.matcher = ahocorasick.NewStringMatcher(terms)
	}
	return ts
}

// find returns the terms contained in text, in lexicon order.
func (ts *termSet) find(text []byte) []string {
	if ts.matcher == nil {
		return nil
	}
	hits := ts.matcher.MatchThreadSafe(text)
	if len(hits) == 0 {
		return nil
	}
	found := make([]string, 0, len(hits))
	for _, idx := range hits {
		if idx < len(ts.terms) {
			found = append(found, ts.terms[idx])
		}
	}
	return found
}

// New compiles lex into a Classifier.
func New(lex Lexicon) (*Classifier, error) {
	c := &Classifier{
		academic:   newTermSet(lex.AcademicTerms),
		commercial: newTermSet(lex.Companies, lex.BusinessKeywords),
	}
	re, err := suffixRegexp(lex.LegalSuffixes)
	if err != nil {
		return nil, err
	}
	c.suffixPattern = re
	return c, nil
}

// MustDefault compiles DefaultLexicon and panics on failure.
func MustDefault() *Classifier {
	c, err := New(DefaultLexicon())
	if err != nil {
		panic(err)
	}
	return c
}

// suffixRegexp matches a suffix token that follows a name on the same
// comma-delimited segment and ends the string or that segment, so
// "Pfizer Inc." and "Takeda Pharmaceutical Co., Ltd." match but a bare state
// code like "Boulder, CO, USA" does not.
func suffixRegexp(suffixes []string) (*regexp.Regexp, error) {
	var alts []string
	for _, s := range suffixes {
		s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "."))
		if s != "" {
			alts = append(alts, regexp.QuoteMeta(s))
		}
	}
	if len(alts) == 0 {
		return nil, nil
	}
	pattern := `(?i)[\p{L}\p{N}.&)]\s+(` + strings.Join(alts, "|") + `)\.?\s*(?:[,;]|$)`
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("compiling legal suffix pattern: %w", err)
	}
	return re, nil
}

// IsCommercial reports whether affiliation names a commercial organization:
// it carries a commercial signal and no academic marker.
func (c *Classifier) IsCommercial(affiliation string) bool {
	return c.Explain(affiliation).Commercial
}

// Explain classifies affiliation and reports which terms decided it.
func (c *Classifier) Explain(affiliation string) Verdict {
	affiliation = strings.TrimSpace(affiliation)
	if affiliation == "" {
		return Verdict{}
	}
	lower := []byte(strings.ToLower(affiliation))

	v := Verdict{
		AcademicTerms:   c.academic.find(lower),
		CommercialTerms: c.commercial.find(lower),
	}
	if c.suffixPattern != nil {
		if m := c.suffixPattern.FindStringSubmatch(affiliation); m != nil {
			v.Suffix = m[1]
		}
	}

	hasCommercialSignal := len(v.CommercialTerms) > 0 || v.Suffix != ""
	hasAcademicMarker := len(v.AcademicTerms) > 0
	v.Commercial = hasCommercialSignal && !hasAcademicMarker
	return v
}
