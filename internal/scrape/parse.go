package scrape

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"

	"github.com/prepdeck/problembank/internal/bank"
)

// Content is the structured part of a problem extracted from the HTML
// body LeetCode returns: the prose statement, the worked examples, the
// constraints and the input/output formats.
type Content struct {
	Statement    string
	Examples     []bank.Example
	Constraints  []string
	InputFormat  string
	OutputFormat string
}

var (
	exampleHeaderRe  = regexp.MustCompile(`Example\s*\d*:`)
	sectionEndRe     = regexp.MustCompile(`Constraints?:|Note:|Follow[- ]?up:`)
	spaceRunRe       = regexp.MustCompile(`\s+`)
	constraintsRe    = regexp.MustCompile(`Constraints?:`)
	constraintsEndRe = regexp.MustCompile(`Example\s*\d*:|Note:|Follow[- ]?up:`)
	// A bare leading dash is part of a negative bound, not a bullet.
	bulletRe = regexp.MustCompile(`^[-*]\s+|^•\s*`)
)

// ParseContent extracts structured content from a problem's HTML body.
// Text is normalized to NFC so scraped datasets are byte-stable.
func ParseContent(rawHTML string) Content {
	if rawHTML == "" {
		return Content{}
	}

	text := norm.NFC.String(htmlToText(rawHTML))
	flat := collapse(text)

	c := Content{
		Statement:   extractStatement(flat),
		Examples:    extractExamples(flat),
		Constraints: extractConstraints(text),
	}

	// The formats default to the first worked example; curation refines
	// them into prose before a dataset ships.
	if len(c.Examples) > 0 {
		c.InputFormat = c.Examples[0].Input
		c.OutputFormat = c.Examples[0].Output
	}
	return c
}

// htmlToText flattens an HTML fragment to plain text, inserting line
// breaks at block elements so list items stay separable.
func htmlToText(input string) string {
	node, err := html.Parse(strings.NewReader(input))
	if err != nil {
		return input
	}
	var b strings.Builder
	walkText(node, &b)
	return b.String()
}

func walkText(node *html.Node, b *strings.Builder) {
	switch node.Type {
	case html.TextNode:
		b.WriteString(node.Data)
	case html.ElementNode:
		if node.Data == "br" || node.Data == "p" || node.Data == "li" {
			b.WriteRune('\n')
		}
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		walkText(child, b)
	}
	if node.Type == html.ElementNode && (node.Data == "p" || node.Data == "li") {
		b.WriteRune('\n')
	}
}

func collapse(s string) string {
	return strings.TrimSpace(spaceRunRe.ReplaceAllString(s, " "))
}

// extractStatement returns everything before the first example or the
// constraints section, whichever comes first.
func extractStatement(flat string) string {
	end := len(flat)
	if loc := exampleHeaderRe.FindStringIndex(flat); loc != nil && loc[0] < end {
		end = loc[0]
	}
	if loc := sectionEndRe.FindStringIndex(flat); loc != nil && loc[0] < end {
		end = loc[0]
	}
	return strings.TrimSpace(flat[:end])
}

// extractExamples splits the flattened text at "Example N:" headers and
// pulls Input/Output/Explanation out of each segment. Numbers are
// assigned sequentially from 1 regardless of the header's own number.
func extractExamples(flat string) []bank.Example {
	headers := exampleHeaderRe.FindAllStringIndex(flat, -1)
	if len(headers) == 0 {
		return nil
	}

	var examples []bank.Example
	for i, h := range headers {
		start := h[1]
		end := len(flat)
		if i+1 < len(headers) {
			end = headers[i+1][0]
		}
		if loc := sectionEndRe.FindStringIndex(flat[start:end]); loc != nil {
			end = start + loc[0]
		}

		seg := flat[start:end]
		examples = append(examples, bank.Example{
			Number:      i + 1,
			Input:       between(seg, "Input:", "Output:", "Explanation:"),
			Output:      between(seg, "Output:", "Explanation:"),
			Explanation: between(seg, "Explanation:"),
		})
	}
	return examples
}

// between returns the trimmed text after the first occurrence of marker,
// cut at the earliest of the given terminators.
func between(s, marker string, terminators ...string) string {
	start := strings.Index(s, marker)
	if start < 0 {
		return ""
	}
	rest := s[start+len(marker):]

	end := len(rest)
	for _, term := range terminators {
		if idx := strings.Index(rest, term); idx >= 0 && idx < end {
			end = idx
		}
	}
	return strings.TrimSpace(rest[:end])
}

// extractConstraints works on the line-broken text so individual
// constraint bullets survive as separate entries.
func extractConstraints(text string) []string {
	loc := constraintsRe.FindStringIndex(text)
	if loc == nil {
		return nil
	}
	section := text[loc[1]:]
	if end := constraintsEndRe.FindStringIndex(section); end != nil {
		section = section[:end[0]]
	}

	var out []string
	for _, line := range strings.Split(section, "\n") {
		line = collapse(bulletRe.ReplaceAllString(strings.TrimSpace(line), ""))
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	return out
}
