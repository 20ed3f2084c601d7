package bank

import (
	_ "embed"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"sort"
	"strings"
)

//go:embed data/questions.json
var embeddedData []byte

//go:embed data/schema.json
var schemaData []byte

// ErrNotFound is returned by lookups when no problem matches.
var ErrNotFound = errors.New("problem not found")

// Bank is an immutable, indexed view over a validated dataset. It is
// built once at load time and is safe for concurrent readers without
// locking, since nothing mutates it afterwards.
type Bank struct {
	doc        Document
	byQuestion map[string]Problem
	byFrontend map[string]Problem
	bySlug     map[string]Problem
	topics     []string
}

// New validates a document and builds the indexed bank from it.
func New(doc Document) (*Bank, error) {
	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("invalid dataset: %w", err)
	}

	b := &Bank{
		doc:        doc,
		byQuestion: make(map[string]Problem, doc.Len()),
		byFrontend: make(map[string]Problem, doc.Len()),
		bySlug:     make(map[string]Problem, doc.Len()),
	}

	topicSet := make(map[string]struct{})
	for _, tier := range Difficulties() {
		for _, p := range doc.Tier(tier) {
			b.byQuestion[p.QuestionID] = p
			b.byFrontend[p.FrontendID] = p
			b.bySlug[p.TitleSlug] = p
			for _, t := range p.Topics {
				topicSet[t] = struct{}{}
			}
		}
	}

	b.topics = make([]string, 0, len(topicSet))
	for t := range topicSet {
		b.topics = append(b.topics, t)
	}
	sort.Strings(b.topics)

	return b, nil
}

// Load decodes and validates raw dataset bytes.
func Load(data []byte) (*Bank, error) {
	doc, err := Decode(data)
	if err != nil {
		return nil, err
	}
	return New(doc)
}

// LoadFile loads a dataset from disk.
func LoadFile(path string) (*Bank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading dataset: %w", err)
	}
	return Load(data)
}

// Embedded loads the dataset shipped with the binary.
func Embedded() (*Bank, error) {
	return Load(embeddedData)
}

// EmbeddedData returns the raw bytes of the shipped dataset.
func EmbeddedData() []byte {
	return embeddedData
}

// Document returns the underlying tiered document.
func (b *Bank) Document() Document {
	return b.doc
}

// Len returns the total number of problems.
func (b *Bank) Len() int {
	return b.doc.Len()
}

// Tier returns the problems in the given difficulty tier, in dataset order.
func (b *Bank) Tier(d Difficulty) []Problem {
	return b.doc.Tier(d)
}

// All returns every problem in tier order (Easy, Medium, Hard).
func (b *Bank) All() []Problem {
	out := make([]Problem, 0, b.doc.Len())
	for _, tier := range Difficulties() {
		out = append(out, b.doc.Tier(tier)...)
	}
	return out
}

// ByQuestionID looks a problem up by its internal identifier.
func (b *Bank) ByQuestionID(id string) (Problem, error) {
	p, ok := b.byQuestion[id]
	if !ok {
		return Problem{}, fmt.Errorf("question_id %q: %w", id, ErrNotFound)
	}
	return p, nil
}

// ByFrontendID looks a problem up by its public-facing number.
func (b *Bank) ByFrontendID(id string) (Problem, error) {
	p, ok := b.byFrontend[id]
	if !ok {
		return Problem{}, fmt.Errorf("frontend_id %q: %w", id, ErrNotFound)
	}
	return p, nil
}

// BySlug looks a problem up by its URL-safe title slug.
func (b *Bank) BySlug(s string) (Problem, error) {
	p, ok := b.bySlug[strings.ToLower(s)]
	if !ok {
		return Problem{}, fmt.Errorf("slug %q: %w", s, ErrNotFound)
	}
	return p, nil
}

// Topics returns the distinct topic tags across the collection, sorted.
func (b *Bank) Topics() []string {
	out := make([]string, len(b.topics))
	copy(out, b.topics)
	return out
}

// Filter returns problems matching the given difficulty and topic.
// An empty difficulty matches every tier; an empty topic matches every
// problem. Results keep dataset order.
func (b *Bank) Filter(d Difficulty, topic string) []Problem {
	tiers := Difficulties()
	if d != "" {
		tiers = []Difficulty{d}
	}

	var out []Problem
	for _, tier := range tiers {
		for _, p := range b.doc.Tier(tier) {
			if topic != "" && !p.HasTopic(topic) {
				continue
			}
			out = append(out, p)
		}
	}
	return out
}

// RandomSet draws up to the requested number of problems per tier without
// replacement. Counts larger than a tier are clamped to the tier size.
func (b *Bank) RandomSet(easy, medium, hard int, rnd *rand.Rand) Document {
	return Document{
		Easy:   sample(b.doc.Easy, easy, rnd),
		Medium: sample(b.doc.Medium, medium, rnd),
		Hard:   sample(b.doc.Hard, hard, rnd),
	}
}

func sample(pool []Problem, n int, rnd *rand.Rand) []Problem {
	if n <= 0 || len(pool) == 0 {
		return nil
	}
	if n > len(pool) {
		n = len(pool)
	}
	out := make([]Problem, 0, n)
	for _, idx := range rnd.Perm(len(pool))[:n] {
		out = append(out, pool[idx])
	}
	return out
}
