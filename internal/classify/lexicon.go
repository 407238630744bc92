// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package classify

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"
)

// Lexicon is the term data the Classifier matches against. Terms are
// compared case-insensitively as substrings, except LegalSuffixes, which
// must stand as a trailing or comma-delimited token.
type Lexicon struct {
	Companies        []string `yaml:"companies"`
	BusinessKeywords []string `yaml:"business_keywords"`
	LegalSuffixes    []string `yaml:"legal_suffixes"`
	AcademicTerms    []string `yaml:"academic_terms"`
}

// DefaultLexicon returns a fresh copy of the built-in lexicon.
func DefaultLexicon() Lexicon {
	return Lexicon{
		Companies:        clone(defaultCompanies),
		BusinessKeywords: clone(defaultBusinessKeywords),
		LegalSuffixes:    clone(defaultLegalSuffixes),
		AcademicTerms:    clone(defaultAcademicTerms),
	}
}

// LoadLexicon reads a YAML lexicon from path. Sections that are absent or
// empty in the file keep their built-in terms.
func LoadLexicon(path string) (Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Lexicon{}, fmt.Errorf("reading lexicon file: %w", err)
	}
	var file Lexicon
	if err := yaml.Unmarshal(data, &file); err != nil {
		return Lexicon{}, fmt.Errorf("parsing lexicon file %s: %w", path, err)
	}
	return file.merge(DefaultLexicon()), nil
}

// merge fills empty sections of l from fallback.
func (l Lexicon) merge(fallback Lexicon) Lexicon {
	if len(l.Companies) == 0 {
		l.Companies = fallback.Companies
	}
	if len(l.BusinessKeywords) == 0 {
		l.BusinessKeywords = fallback.BusinessKeywords
	}
	if len(l.LegalSuffixes) == 0 {
		l.LegalSuffixes = fallback.LegalSuffixes
	}
	if len(l.AcademicTerms) == 0 {
		l.AcademicTerms = fallback.AcademicTerms
	}
	return l
}

// YAML renders the lexicon in the same layout LoadLexicon reads.
func (l Lexicon) YAML() ([]byte, error) {
	return yaml.Marshal(l)
}

func clone(s []string) []string {
	out := make([]string, len(s))
	copy(out, s)
	return out
}

var defaultCompanies = []string{
	"pfizer", "moderna", "novartis", "roche", "genentech", "merck", "msd",
	"johnson & johnson", "janssen", "astrazeneca", "glaxosmithkline", "gsk",
	"sanofi", "bayer", "boehringer ingelheim", "eli lilly", "lilly research",
	"abbvie", "abbott", "amgen", "gilead", "biogen", "regeneron", "vertex",
	"bristol-myers", "bristol myers", "novo nordisk", "takeda", "astellas",
	"daiichi sankyo", "eisai", "otsuka", "chugai", "shionogi", "teva",
	"biontech", "curevac", "illumina", "thermo fisher", "qiagen", "bgi genomics",
	"alnylam", "incyte", "seagen", "biomarin", "allergan", "celgene", "servier",
	"ipsen", "lundbeck", "ucb pharma", "grifols", "csl behring", "medimmune",
	"genmab", "beigene", "hengrui", "sinovac", "wuxi", "samsung bioepis",
	"google", "deepmind", "microsoft research", "ibm research", "insitro",
	"recursion pharmaceuticals", "exscientia", "iqvia", "parexel", "icon plc",
	"labcorp", "quest diagnostics", "23andme", "grail", "guardant", "foundation medicine",
}

var defaultBusinessKeywords = []string{
	"pharmaceutical", "pharmaceuticals", "pharma", "biopharma", "biotech",
	"biotechnology company", "therapeutics", "biosciences", "biologics",
	"diagnostics", "healthcare company", "life sciences company", "genomics inc",
	"inc", "corp", "corporation", "gmbh", "ltd", "limited", "co.", "llc", "plc",
	"k.k.", "company", "r&d center",
}

var defaultLegalSuffixes = []string{
	"inc", "ltd", "co", "corp", "gmbh", "ag", "sa", "nv", "llc", "plc",
	"bv", "srl", "spa", "kk", "pty",
}

var defaultAcademicTerms = []string{
	"universit", "universidad", "universidade", "college", "school of medicine",
	"medical school", "institute of technology", "research institute", "institut ",
	"hospital", "medical center", "medical centre", "mayo clinic", "cleveland clinic",
	"faculty of", "national institute", "national laboratory", "academy of sciences",
	"cnrs", "inserm", "max planck", "national institutes of health",
	"centers for disease control", "ministry of health", "polytechnic", "école",
	"ecole", "hochschule", "nhs foundation trust",
}
