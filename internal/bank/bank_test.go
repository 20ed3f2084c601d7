package bank_test

import (
	"bytes"
	"errors"
	"math/rand"
	"testing"

	"github.com/prepdeck/problembank/internal/bank"
)

func loadEmbedded(t *testing.T) *bank.Bank {
	t.Helper()
	b, err := bank.Embedded()
	if err != nil {
		t.Fatalf("Embedded() error = %v", err)
	}
	return b
}

func TestEmbedded_Loads(t *testing.T) {
	b := loadEmbedded(t)

	if b.Len() == 0 {
		t.Fatal("embedded bank is empty")
	}
	if got := len(b.Tier(bank.Hard)); got != 1 {
		t.Errorf("Hard tier has %d problems, want 1", got)
	}
}

func TestEmbedded_EasyFirstRecord(t *testing.T) {
	b := loadEmbedded(t)

	easy := b.Tier(bank.Easy)
	if len(easy) == 0 {
		t.Fatal("Easy tier is empty")
	}

	first := easy[0]
	if first.FrontendID != "872" {
		t.Errorf("FrontendID = %q, want 872", first.FrontendID)
	}
	if first.Title != "Leaf-Similar Trees" {
		t.Errorf("Title = %q, want Leaf-Similar Trees", first.Title)
	}
	if len(first.Examples) == 0 {
		t.Fatal("no examples")
	}
	if first.Examples[0].Output != "true" {
		t.Errorf("first example output = %q, want true", first.Examples[0].Output)
	}
}

func TestEmbedded_HardRecord(t *testing.T) {
	b := loadEmbedded(t)

	hard := b.Tier(bank.Hard)
	if len(hard) != 1 {
		t.Fatalf("Hard tier has %d problems, want 1", len(hard))
	}
	if hard[0].FrontendID != "1766" {
		t.Errorf("FrontendID = %q, want 1766", hard[0].FrontendID)
	}
	if got := hard[0].Examples[0].Output; got != "[-1,0,0,1]" {
		t.Errorf("first example output = %q, want [-1,0,0,1]", got)
	}
}

func TestEmbedded_RoundTrip(t *testing.T) {
	b := loadEmbedded(t)

	out, err := bank.EncodeCanonical(b.Document())
	if err != nil {
		t.Fatalf("EncodeCanonical() error = %v", err)
	}
	if !bytes.Equal(out, bank.EmbeddedData()) {
		t.Error("re-encoded dataset is not byte-equivalent to the shipped file")
	}
}

func TestBank_Lookups(t *testing.T) {
	b := loadEmbedded(t)

	p, err := b.BySlug("two-sum")
	if err != nil {
		t.Fatalf("BySlug(two-sum) error = %v", err)
	}
	if p.FrontendID != "1" {
		t.Errorf("FrontendID = %q, want 1", p.FrontendID)
	}

	p, err = b.ByFrontendID("1766")
	if err != nil {
		t.Fatalf("ByFrontendID(1766) error = %v", err)
	}
	if p.TitleSlug != "tree-of-coprimes" {
		t.Errorf("TitleSlug = %q, want tree-of-coprimes", p.TitleSlug)
	}

	p, err = b.ByQuestionID("904")
	if err != nil {
		t.Fatalf("ByQuestionID(904) error = %v", err)
	}
	if p.FrontendID != "872" {
		t.Errorf("FrontendID = %q, want 872", p.FrontendID)
	}
}

func TestBank_Lookups_NotFound(t *testing.T) {
	b := loadEmbedded(t)

	if _, err := b.BySlug("no-such-problem"); !errors.Is(err, bank.ErrNotFound) {
		t.Errorf("BySlug() error = %v, want ErrNotFound", err)
	}
	if _, err := b.ByFrontendID("99999"); !errors.Is(err, bank.ErrNotFound) {
		t.Errorf("ByFrontendID() error = %v, want ErrNotFound", err)
	}
}

func TestBank_Filter(t *testing.T) {
	b := loadEmbedded(t)

	tests := []struct {
		name       string
		difficulty bank.Difficulty
		topic      string
		want       int
	}{
		{"all", "", "", b.Len()},
		{"easy-only", bank.Easy, "", 2},
		{"topic-array", "", "Array", 2},
		{"topic-case-insensitive", "", "array", 2},
		{"easy-and-topic", bank.Easy, "Tree", 1},
		{"no-match", bank.Hard, "Array", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := b.Filter(tt.difficulty, tt.topic)
			if len(got) != tt.want {
				t.Errorf("Filter(%q, %q) = %d problems, want %d", tt.difficulty, tt.topic, len(got), tt.want)
			}
		})
	}
}

func TestBank_Filter_KeepsTierOrder(t *testing.T) {
	b := loadEmbedded(t)

	all := b.Filter("", "")
	if all[0].FrontendID != "872" {
		t.Errorf("first problem = %q, want 872 (Easy tier first)", all[0].FrontendID)
	}
	if all[len(all)-1].Difficulty != bank.Hard {
		t.Errorf("last problem difficulty = %q, want Hard", all[len(all)-1].Difficulty)
	}
}

func TestBank_Topics(t *testing.T) {
	b := loadEmbedded(t)

	topics := b.Topics()
	if len(topics) == 0 {
		t.Fatal("Topics() is empty")
	}
	for i := 1; i < len(topics); i++ {
		if topics[i-1] >= topics[i] {
			t.Fatalf("topics not sorted or not distinct: %q before %q", topics[i-1], topics[i])
		}
	}
}

func TestBank_RandomSet(t *testing.T) {
	b := loadEmbedded(t)
	rnd := rand.New(rand.NewSource(1))

	set := b.RandomSet(2, 2, 1, rnd)
	if len(set.Easy) != 2 || len(set.Medium) != 2 || len(set.Hard) != 1 {
		t.Errorf("RandomSet(2,2,1) sizes = %d/%d/%d, want 2/2/1",
			len(set.Easy), len(set.Medium), len(set.Hard))
	}
	if err := set.Validate(); err != nil {
		t.Errorf("random set failed validation: %v", err)
	}
}

func TestBank_RandomSet_Clamps(t *testing.T) {
	b := loadEmbedded(t)
	rnd := rand.New(rand.NewSource(1))

	set := b.RandomSet(100, 0, 5, rnd)
	if len(set.Easy) != len(b.Tier(bank.Easy)) {
		t.Errorf("Easy = %d, want clamp to %d", len(set.Easy), len(b.Tier(bank.Easy)))
	}
	if set.Medium != nil {
		t.Errorf("Medium = %d problems, want none", len(set.Medium))
	}
	if len(set.Hard) != 1 {
		t.Errorf("Hard = %d, want clamp to 1", len(set.Hard))
	}
}

func TestParseDifficulty(t *testing.T) {
	tests := []struct {
		in      string
		want    bank.Difficulty
		wantErr bool
	}{
		{"Easy", bank.Easy, false},
		{"easy", bank.Easy, false},
		{"MEDIUM", bank.Medium, false},
		{"hard", bank.Hard, false},
		{"extreme", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := bank.ParseDifficulty(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDifficulty(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseDifficulty(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
