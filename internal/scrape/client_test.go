package scrape

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prepdeck/problembank/internal/bank"
)

const listResponse = `{
  "data": {
    "problemsetQuestionList": {
      "questions": [
        {"difficulty": "Easy", "frontendQuestionId": "1", "paidOnly": false, "title": "Two Sum", "titleSlug": "two-sum"},
        {"difficulty": "Easy", "frontendQuestionId": "6", "paidOnly": true, "title": "Paid Problem", "titleSlug": "paid-problem"},
        {"difficulty": "Medium", "frontendQuestionId": "2", "paidOnly": false, "title": "Add Two Numbers", "titleSlug": "add-two-numbers"},
        {"difficulty": "Hard", "frontendQuestionId": "4", "paidOnly": false, "title": "Median of Two Sorted Arrays", "titleSlug": "median-of-two-sorted-arrays"}
      ]
    }
  }
}`

const detailResponse = `{
  "data": {
    "question": {
      "questionId": "1",
      "questionFrontendId": "1",
      "title": "Two Sum",
      "titleSlug": "two-sum",
      "content": "<p>Given an array.</p><p><strong>Example 1:</strong></p><pre><strong>Input:</strong> nums = [2,7], target = 9\n<strong>Output:</strong> [0,1]\n</pre><p><strong>Constraints:</strong></p><ul><li>2 &lt;= nums.length</li></ul>",
      "difficulty": "Easy",
      "topicTags": [{"name": "Array"}, {"name": "Hash Table"}]
    }
  }
}`

func testClient(t *testing.T) *Client {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Query string `json:"query"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.Contains(payload.Query, "problemsetQuestionList"):
			w.Write([]byte(listResponse))
		case strings.Contains(payload.Query, "getQuestionDetail"):
			w.Write([]byte(detailResponse))
		default:
			http.Error(w, "unknown query", http.StatusBadRequest)
		}
	}))
	t.Cleanup(srv.Close)

	c := NewClient(5*time.Second, nil)
	c.SetEndpoint(srv.URL)
	return c
}

func TestClient_ProblemList(t *testing.T) {
	c := testClient(t)

	listing, err := c.ProblemList(t.Context())
	if err != nil {
		t.Fatalf("ProblemList() error = %v", err)
	}

	if len(listing[bank.Easy]) != 1 {
		t.Errorf("Easy stubs = %d, want 1 (paid problems excluded)", len(listing[bank.Easy]))
	}
	if len(listing[bank.Medium]) != 1 || len(listing[bank.Hard]) != 1 {
		t.Errorf("Medium/Hard stubs = %d/%d, want 1/1",
			len(listing[bank.Medium]), len(listing[bank.Hard]))
	}
	if got := listing[bank.Easy][0].TitleSlug; got != "two-sum" {
		t.Errorf("Easy stub slug = %q, want two-sum", got)
	}
}

func TestClient_Problem(t *testing.T) {
	c := testClient(t)

	p, err := c.Problem(t.Context(), "two-sum")
	if err != nil {
		t.Fatalf("Problem() error = %v", err)
	}

	if p.QuestionID != "1" || p.FrontendID != "1" {
		t.Errorf("ids = %q/%q, want 1/1", p.QuestionID, p.FrontendID)
	}
	if p.Difficulty != bank.Easy {
		t.Errorf("difficulty = %q, want Easy", p.Difficulty)
	}
	if len(p.Topics) != 2 || p.Topics[0] != "Array" {
		t.Errorf("topics = %q", p.Topics)
	}
	if len(p.Examples) != 1 || p.Examples[0].Output != "[0,1]" {
		t.Errorf("examples = %+v", p.Examples)
	}
	if len(p.Constraints) != 1 || p.Constraints[0] != "2 <= nums.length" {
		t.Errorf("constraints = %q", p.Constraints)
	}
}

func TestClient_Problem_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data": {"question": null}}`))
	}))
	t.Cleanup(srv.Close)

	c := NewClient(5*time.Second, nil)
	c.SetEndpoint(srv.URL)

	if _, err := c.Problem(t.Context(), "no-such-slug"); err == nil {
		t.Fatal("Problem() = nil, want error for null question")
	}
}

func TestClient_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	t.Cleanup(srv.Close)

	c := NewClient(5*time.Second, nil)
	c.SetEndpoint(srv.URL)

	_, err := c.ProblemList(t.Context())
	if err == nil {
		t.Fatal("ProblemList() = nil, want error for non-200 status")
	}
	if !strings.Contains(err.Error(), "429") {
		t.Errorf("error = %v, want status code in message", err)
	}
}

func TestScraper_Run(t *testing.T) {
	c := testClient(t)

	plan := Plan{Easy: 1, DelaySeconds: 0, Output: "questions.json"}
	s := New(c, plan, nil)

	doc, err := s.Run(t.Context())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(doc.Easy) != 1 {
		t.Fatalf("Easy = %d problems, want 1", len(doc.Easy))
	}
	if doc.Easy[0].TitleSlug != "two-sum" {
		t.Errorf("slug = %q, want two-sum", doc.Easy[0].TitleSlug)
	}
	if err := doc.Validate(); err != nil {
		t.Errorf("scraped document failed validation: %v", err)
	}
}

func TestScraper_Run_Cancelled(t *testing.T) {
	c := testClient(t)

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	plan := Plan{Easy: 1, DelaySeconds: 1, Output: "questions.json"}
	s := New(c, plan, nil)

	if _, err := s.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
}
