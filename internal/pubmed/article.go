// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pubmed

import (
	"encoding/xml"
	"html"
	"regexp"
	"strings"
)

// PubMed EFetch XML structures. Every element is optional: PubMed omits
// absent data rather than sending empty elements, so pointers and slices
// distinguish "missing" from "empty".
type articleSet struct {
	XMLName  xml.Name  `xml:"PubmedArticleSet"`
	Articles []Article `xml:"PubmedArticle"`
}

// Article is one raw <PubmedArticle> record.
type Article struct {
	Citation *medlineCitation `xml:"MedlineCitation"`
	Data     *pubmedData      `xml:"PubmedData"`
}

type medlineCitation struct {
	PMID    *markup      `xml:"PMID"`
	Article *articleBody `xml:"Article"`
}

type articleBody struct {
	Journal      *journal      `xml:"Journal"`
	ArticleTitle *markup       `xml:"ArticleTitle"`
	AuthorList   *authorList   `xml:"AuthorList"`
	ELocationIDs []eLocationID `xml:"ELocationID"`
	ArticleDates []pubDate     `xml:"ArticleDate"`
}

type journal struct {
	Title        *markup       `xml:"Title"`
	ISOAbbrev    *markup       `xml:"ISOAbbreviation"`
	JournalIssue *journalIssue `xml:"JournalIssue"`
}

type journalIssue struct {
	PubDate *pubDate `xml:"PubDate"`
}

type pubDate struct {
	Year        string `xml:"Year"`
	Month       string `xml:"Month"`
	Day         string `xml:"Day"`
	MedlineDate string `xml:"MedlineDate"`
}

type authorList struct {
	Authors []Author `xml:"Author"`
}

// Author is one raw <Author> element.
type Author struct {
	LastName       *markup           `xml:"LastName"`
	ForeName       *markup           `xml:"ForeName"`
	Initials       *markup           `xml:"Initials"`
	CollectiveName *markup           `xml:"CollectiveName"`
	Affiliations   []affiliationInfo `xml:"AffiliationInfo"`
}

type affiliationInfo struct {
	Affiliation *markup `xml:"Affiliation"`
}

type eLocationID struct {
	Type  string `xml:"EIdType,attr"`
	Value string `xml:",chardata"`
}

type pubmedData struct {
	ArticleIDs []articleID `xml:"ArticleIdList>ArticleId"`
}

type articleID struct {
	Type  string `xml:"IdType,attr"`
	Value string `xml:",chardata"`
}

// markup captures an element's inner XML so inline tags such as <i> and
// <sup> in titles and affiliations do not drop text.
type markup struct {
	Inner string `xml:",innerxml"`
}

var (
	tagPattern        = regexp.MustCompile(`<[^>]*>`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// text returns the element's text with tags stripped, entities decoded and
// whitespace collapsed. A nil element or blank text reports false.
func (m *markup) text() (string, bool) {
	if m == nil {
		return "", false
	}
	s := tagPattern.ReplaceAllString(m.Inner, "")
	s = html.UnescapeString(s)
	s = strings.TrimSpace(whitespacePattern.ReplaceAllString(s, " "))
	return s, s != ""
}

func (a *Article) body() *articleBody {
	if a == nil || a.Citation == nil {
		return nil
	}
	return a.Citation.Article
}

// PMID returns the record identifier.
func (a *Article) PMID() (string, bool) {
	if a == nil || a.Citation == nil {
		return "", false
	}
	return a.Citation.PMID.text()
}

// Title returns the article title.
func (a *Article) Title() (string, bool) {
	b := a.body()
	if b == nil {
		return "", false
	}
	return b.ArticleTitle.text()
}

// Journal returns the full journal title, falling back to the ISO abbreviation.
func (a *Article) Journal() (string, bool) {
	b := a.body()
	if b == nil || b.Journal == nil {
		return "", false
	}
	if t, ok := b.Journal.Title.text(); ok {
		return t, true
	}
	return b.Journal.ISOAbbrev.text()
}

// RawDate holds the date parts exactly as PubMed sent them.
type RawDate struct {
	Year, Month, Day string
	// MedlineDate is a free-text date used when no structured date exists.
	MedlineDate string
}

// PublicationDate returns the journal issue PubDate, falling back to the
// first electronic ArticleDate.
func (a *Article) PublicationDate() (RawDate, bool) {
	b := a.body()
	if b == nil {
		return RawDate{}, false
	}
	if b.Journal != nil && b.Journal.JournalIssue != nil && b.Journal.JournalIssue.PubDate != nil {
		if d, ok := b.Journal.JournalIssue.PubDate.raw(); ok {
			return d, true
		}
	}
	for _, ad := range b.ArticleDates {
		if d, ok := ad.raw(); ok {
			return d, true
		}
	}
	return RawDate{}, false
}

func (p pubDate) raw() (RawDate, bool) {
	d := RawDate{
		Year:        strings.TrimSpace(p.Year),
		Month:       strings.TrimSpace(p.Month),
		Day:         strings.TrimSpace(p.Day),
		MedlineDate: strings.TrimSpace(p.MedlineDate),
	}
	return d, d.Year != "" || d.MedlineDate != ""
}

// DOI returns the article DOI from PubmedData, falling back to ELocationID.
func (a *Article) DOI() (string, bool) {
	if a != nil && a.Data != nil {
		for _, id := range a.Data.ArticleIDs {
			if strings.EqualFold(id.Type, "doi") {
				if v := strings.TrimSpace(id.Value); v != "" {
					return v, true
				}
			}
		}
	}
	if b := a.body(); b != nil {
		for _, loc := range b.ELocationIDs {
			if strings.EqualFold(loc.Type, "doi") {
				if v := strings.TrimSpace(loc.Value); v != "" {
					return v, true
				}
			}
		}
	}
	return "", false
}

// Authors returns the author list in source order, or nil when absent.
func (a *Article) Authors() []Author {
	b := a.body()
	if b == nil || b.AuthorList == nil {
		return nil
	}
	return b.AuthorList.Authors
}

// Name returns the author's display name: "ForeName LastName", then
// "Initials LastName", then LastName alone, then the collective name.
func (au Author) Name() (string, bool) {
	last, hasLast := au.LastName.text()
	if fore, ok := au.ForeName.text(); ok && hasLast {
		return fore + " " + last, true
	}
	if initials, ok := au.Initials.text(); ok && hasLast {
		return initials + " " + last, true
	}
	if hasLast {
		return last, true
	}
	return au.CollectiveName.text()
}

// AffiliationStrings returns the author's non-blank affiliation strings in
// source order without duplicates.
func (au Author) AffiliationStrings() []string {
	var out []string
	seen := make(map[string]bool)
	for _, info := range au.Affiliations {
		s, ok := info.Affiliation.text()
		if !ok || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
