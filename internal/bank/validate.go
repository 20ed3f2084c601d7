package bank

import (
	"fmt"

	"github.com/gosimple/slug"
)

// Validate checks the dataset invariants and fails on the first
// violation. A dataset that fails validation is rejected as a whole;
// consumers must never see a partially valid collection.
//
// Invariants:
//   - question_id, frontend_id and title_slug are unique across all tiers
//   - a record's difficulty matches the tier it is stored under
//   - example numbers form exactly [1..k] with k >= 1
//   - topics is non-empty
//   - title_slug is the slug derived from title
func (d Document) Validate() error {
	seenQuestion := make(map[string]string, d.Len())
	seenFrontend := make(map[string]string, d.Len())
	seenSlug := make(map[string]string, d.Len())

	for _, tier := range Difficulties() {
		for i, p := range d.Tier(tier) {
			where := fmt.Sprintf("%s[%d] (%s)", tier, i, p.TitleSlug)

			if p.Difficulty != tier {
				return fmt.Errorf("%s: difficulty %q does not match tier %q", where, p.Difficulty, tier)
			}
			if prev, ok := seenQuestion[p.QuestionID]; ok {
				return fmt.Errorf("%s: duplicate question_id %q (also on %s)", where, p.QuestionID, prev)
			}
			if prev, ok := seenFrontend[p.FrontendID]; ok {
				return fmt.Errorf("%s: duplicate frontend_id %q (also on %s)", where, p.FrontendID, prev)
			}
			if prev, ok := seenSlug[p.TitleSlug]; ok {
				return fmt.Errorf("%s: duplicate title_slug %q (also on %s)", where, p.TitleSlug, prev)
			}
			seenQuestion[p.QuestionID] = p.TitleSlug
			seenFrontend[p.FrontendID] = p.TitleSlug
			seenSlug[p.TitleSlug] = p.TitleSlug

			if want := slug.Make(p.Title); want != p.TitleSlug {
				return fmt.Errorf("%s: title_slug %q does not match title %q (want %q)", where, p.TitleSlug, p.Title, want)
			}
			if len(p.Topics) == 0 {
				return fmt.Errorf("%s: topics is empty", where)
			}
			for j, topic := range p.Topics {
				if topic == "" {
					return fmt.Errorf("%s: topics[%d] is empty", where, j)
				}
			}

			if len(p.Examples) == 0 {
				return fmt.Errorf("%s: no examples", where)
			}
			for j, ex := range p.Examples {
				if ex.Number != j+1 {
					return fmt.Errorf("%s: examples[%d] has example_number %d, want %d", where, j, ex.Number, j+1)
				}
			}
		}
	}
	return nil
}
