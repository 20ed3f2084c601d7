// Package bank holds the curated coding-interview problem dataset: the
// record types, the validating loader, and read-only queries over the
// loaded collection.
package bank

import (
	"fmt"
	"strings"
)

// Difficulty is one of the three tiers a problem belongs to.
type Difficulty string

const (
	Easy   Difficulty = "Easy"
	Medium Difficulty = "Medium"
	Hard   Difficulty = "Hard"
)

// Difficulties returns the tiers in canonical order.
func Difficulties() []Difficulty {
	return []Difficulty{Easy, Medium, Hard}
}

// Valid reports whether d is a known tier.
func (d Difficulty) Valid() bool {
	return d == Easy || d == Medium || d == Hard
}

// ParseDifficulty converts a case-insensitive tier name to a Difficulty.
func ParseDifficulty(s string) (Difficulty, error) {
	switch strings.ToLower(s) {
	case "easy":
		return Easy, nil
	case "medium":
		return Medium, nil
	case "hard":
		return Hard, nil
	}
	return "", fmt.Errorf("unknown difficulty %q", s)
}

// Example is one worked input/output pair attached to a problem.
// Explanation may be empty.
type Example struct {
	Number      int    `json:"example_number"`
	Input       string `json:"input"`
	Output      string `json:"output"`
	Explanation string `json:"explanation"`
}

// Problem is a single coding-interview problem record. Field order here
// is the serialization order of the dataset file.
type Problem struct {
	QuestionID   string     `json:"question_id"`
	FrontendID   string     `json:"frontend_id"`
	Title        string     `json:"title"`
	TitleSlug    string     `json:"title_slug"`
	Difficulty   Difficulty `json:"difficulty"`
	Topics       []string   `json:"topics"`
	Statement    string     `json:"problem_statement"`
	Examples     []Example  `json:"examples"`
	Constraints  []string   `json:"constraints"`
	InputFormat  string     `json:"input_format"`
	OutputFormat string     `json:"output_format"`
}

// HasTopic reports whether the problem carries the given topic tag,
// compared case-insensitively.
func (p Problem) HasTopic(topic string) bool {
	for _, t := range p.Topics {
		if strings.EqualFold(t, topic) {
			return true
		}
	}
	return false
}

// Document is the root shape of the dataset file: the three tiers in
// fixed order, each an ordered list of problems. Using a struct rather
// than a map keeps tier order stable across decode/encode cycles.
type Document struct {
	Easy   []Problem `json:"Easy"`
	Medium []Problem `json:"Medium"`
	Hard   []Problem `json:"Hard"`
}

// Tier returns the problems stored under the given difficulty.
func (d Document) Tier(diff Difficulty) []Problem {
	switch diff {
	case Easy:
		return d.Easy
	case Medium:
		return d.Medium
	case Hard:
		return d.Hard
	}
	return nil
}

// Add appends a problem to the tier matching its difficulty.
func (d *Document) Add(p Problem) error {
	switch p.Difficulty {
	case Easy:
		d.Easy = append(d.Easy, p)
	case Medium:
		d.Medium = append(d.Medium, p)
	case Hard:
		d.Hard = append(d.Hard, p)
	default:
		return fmt.Errorf("problem %s: unknown difficulty %q", p.TitleSlug, p.Difficulty)
	}
	return nil
}

// Len returns the total number of problems across all tiers.
func (d Document) Len() int {
	return len(d.Easy) + len(d.Medium) + len(d.Hard)
}
