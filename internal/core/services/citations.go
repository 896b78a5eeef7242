package services

import (
	"regexp"
	"strings"

	"github.com/23f2000673/tds-virtual-ta/internal/core/domain"
)

var (
	urlPattern    = regexp.MustCompile(`https?://[^\s<>"'\[\]()]+`)
	bulletPattern = regexp.MustCompile(`^\s*(?:[-*•+]|\d+[.)])\s*`)
	textLabel     = regexp.MustCompile(`(?i)\btext\s*:\s*`)
	urlLabel      = regexp.MustCompile(`(?i)\burl\s*:\s*`)
	markdownLink  = regexp.MustCompile(`\[([^\]]+)\]\((https?://[^)\s]+)\)`)
)

// sourceMarkers are the section headers that introduce citations.
var sourceMarkers = []string{"sources", "source", "references", "reference"}

// CitationParser splits a model response into answer text and citations,
// keeping only citations that point at an allowed URL.
type CitationParser struct {
	allowed  map[string]string // normalised URL -> canonical URL
	titles   map[string]string // canonical URL -> passage title
	maxLinks int
}

// NewCitationParser accepts citations to the passages' URLs, at most one per passage.
func NewCitationParser(passages []domain.EnrichedPassage) *CitationParser {
	p := &CitationParser{
		allowed: make(map[string]string, len(passages)),
		titles:  make(map[string]string, len(passages)),
	}
	for _, passage := range passages {
		if passage.URL == "" {
			continue
		}
		norm := normaliseURL(passage.URL)
		if _, dup := p.allowed[norm]; dup {
			continue
		}
		p.allowed[norm] = passage.URL
		p.titles[passage.URL] = passage.Title
	}
	p.maxLinks = len(p.allowed)
	return p
}

// Parse returns the answer and its validated citations.
// A response without a sources section is returned verbatim with no links.
func (p *CitationParser) Parse(raw string) domain.Answer {
	raw = strings.TrimSpace(raw)
	lines := strings.Split(raw, "\n")

	markerLine, rest := -1, ""
	for i := len(lines) - 1; i >= 0; i-- {
		if r, ok := matchMarker(lines[i]); ok {
			markerLine, rest = i, r
			break
		}
	}
	if markerLine < 0 {
		return domain.Answer{Text: raw, Links: []domain.CitationLink{}}
	}

	text := strings.TrimSpace(strings.Join(lines[:markerLine], "\n"))
	if text == "" {
		text = raw
	}

	citationLines := lines[markerLine+1:]
	if rest != "" {
		citationLines = append([]string{rest}, citationLines...)
	}

	links := []domain.CitationLink{}
	seen := make(map[string]bool)
	for _, line := range citationLines {
		if len(links) >= p.maxLinks {
			break
		}
		link, ok := p.parseLine(line)
		if !ok || seen[link.URL] {
			continue
		}
		seen[link.URL] = true
		links = append(links, link)
	}

	return domain.Answer{Text: text, Links: links}
}

// parseLine extracts one citation. Lines without an allowed URL are rejected.
func (p *CitationParser) parseLine(line string) (domain.CitationLink, bool) {
	line = bulletPattern.ReplaceAllString(strings.TrimSpace(line), "")
	if line == "" {
		return domain.CitationLink{}, false
	}

	var found, label string
	if m := markdownLink.FindStringSubmatch(line); m != nil {
		found, label = m[2], m[1]
	} else {
		found = urlPattern.FindString(line)
	}
	if found == "" {
		return domain.CitationLink{}, false
	}
	canonical, ok := p.allowed[normaliseURL(found)]
	if !ok {
		return domain.CitationLink{}, false
	}

	var text string
	if label != "" {
		text = label
	} else if loc := textLabel.FindStringIndex(line); loc != nil {
		text = line[loc[1]:]
	} else {
		text = strings.Replace(line, found, "", 1)
		text = urlLabel.ReplaceAllString(text, "")
	}
	text = cleanCitationText(text)
	if text == "" {
		text = p.titles[canonical]
	}
	if text == "" {
		text = canonical
	}

	return domain.CitationLink{URL: canonical, Text: text}, true
}

// matchMarker reports whether line is a sources header and returns any
// content after its colon.
func matchMarker(line string) (string, bool) {
	s := strings.TrimLeft(strings.TrimSpace(line), "#>*_ \t")
	lower := strings.ToLower(s)

	for _, marker := range sourceMarkers {
		if !strings.HasPrefix(lower, marker) {
			continue
		}
		after := strings.TrimLeft(s[len(marker):], "*_ \t")
		switch {
		case after == "":
			return "", true
		case after[0] == ':':
			return strings.TrimSpace(strings.Trim(after[1:], "*_")), true
		}
		return "", false
	}
	return "", false
}

// cleanCitationText strips brackets, quotes and separators around a citation.
func cleanCitationText(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, " \t,;:-–—|")
	for {
		trimmed := strings.TrimSpace(s)
		if len(trimmed) >= 2 {
			first, last := trimmed[0], trimmed[len(trimmed)-1]
			if (first == '[' && last == ']') || (first == '"' && last == '"') ||
				(first == '\'' && last == '\'') || (first == '(' && last == ')') {
				s = trimmed[1 : len(trimmed)-1]
				continue
			}
		}
		s = trimmed
		break
	}
	s = strings.Trim(s, "“”\"'`*_ ")
	return strings.TrimSpace(s)
}

// normaliseURL drops trailing punctuation and slashes for comparison.
func normaliseURL(u string) string {
	u = strings.TrimSpace(u)
	u = strings.TrimRight(u, ".,;:!?'\")]}>")
	return strings.TrimRight(u, "/")
}
