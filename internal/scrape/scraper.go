// Package scrape builds problem bank datasets from the public LeetCode
// GraphQL endpoint: list the free problemset, draw a random sample per
// difficulty tier, fetch each problem's content and parse it into the
// dataset record shape.
package scrape

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/gosimple/slug"

	"github.com/prepdeck/problembank/internal/bank"
)

// Scraper runs a scrape plan against a client and assembles a validated
// dataset document.
type Scraper struct {
	client *Client
	plan   Plan
	rnd    *rand.Rand
	logger *slog.Logger
}

// New creates a scraper for the given plan.
func New(client *Client, plan Plan, logger *slog.Logger) *Scraper {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scraper{
		client: client,
		plan:   plan,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		logger: logger,
	}
}

// Run executes the plan and returns a document that already passed full
// dataset validation.
func (s *Scraper) Run(ctx context.Context) (bank.Document, error) {
	listing, err := s.client.ProblemList(ctx)
	if err != nil {
		return bank.Document{}, err
	}

	s.logger.Info("problemset listed",
		"easy", len(listing[bank.Easy]),
		"medium", len(listing[bank.Medium]),
		"hard", len(listing[bank.Hard]))

	wanted := map[bank.Difficulty]int{
		bank.Easy:   s.plan.Easy,
		bank.Medium: s.plan.Medium,
		bank.Hard:   s.plan.Hard,
	}

	var doc bank.Document
	for _, tier := range bank.Difficulties() {
		stubs := s.draw(listing[tier], wanted[tier])
		for _, stub := range stubs {
			if err := s.pause(ctx); err != nil {
				return bank.Document{}, err
			}

			p, err := s.client.Problem(ctx, stub.TitleSlug)
			if err != nil {
				return bank.Document{}, fmt.Errorf("scraping %s: %w", stub.TitleSlug, err)
			}
			if err := doc.Add(p); err != nil {
				return bank.Document{}, err
			}
			s.logger.Info("problem scraped", "slug", p.TitleSlug, "difficulty", p.Difficulty)
		}
	}

	if err := doc.Validate(); err != nil {
		return bank.Document{}, fmt.Errorf("scraped dataset failed validation: %w", err)
	}
	return doc, nil
}

// draw samples up to n stubs without replacement, skipping problems
// whose remote slug cannot be derived from the title. Those would fail
// dataset validation later, so they are excluded up front.
func (s *Scraper) draw(pool []Stub, n int) []Stub {
	if n <= 0 || len(pool) == 0 {
		return nil
	}

	var out []Stub
	for _, idx := range s.rnd.Perm(len(pool)) {
		if len(out) == n {
			break
		}
		stub := pool[idx]
		if slug.Make(stub.Title) != stub.TitleSlug {
			s.logger.Warn("skipping problem with underivable slug",
				"title", stub.Title, "slug", stub.TitleSlug)
			continue
		}
		out = append(out, stub)
	}
	return out
}

func (s *Scraper) pause(ctx context.Context) error {
	delay := s.plan.Delay()
	if delay == 0 {
		return ctx.Err()
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(delay):
		return nil
	}
}
