package scrape

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/prepdeck/problembank/internal/bank"
)

const defaultEndpoint = "https://leetcode.com/graphql"

const listQuery = `query problemsetQuestionList($categorySlug: String, $limit: Int, $skip: Int, $filters: QuestionListFilterInput) {
  problemsetQuestionList: questionList(categorySlug: $categorySlug, limit: $limit, skip: $skip, filters: $filters) {
    questions: data {
      difficulty
      frontendQuestionId: questionFrontendId
      paidOnly: isPaidOnly
      title
      titleSlug
    }
  }
}`

const detailQuery = `query getQuestionDetail($titleSlug: String!) {
  question(titleSlug: $titleSlug) {
    questionId
    questionFrontendId
    title
    titleSlug
    content
    difficulty
    topicTags { name }
  }
}`

// Stub identifies a problem in the remote problemset listing before its
// full content has been fetched.
type Stub struct {
	Title      string
	TitleSlug  string
	FrontendID string
}

// Client fetches problems from the LeetCode GraphQL endpoint.
type Client struct {
	httpClient *http.Client
	endpoint   string
	logger     *slog.Logger
}

// NewClient creates a client with the given request timeout.
func NewClient(timeout time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		endpoint:   defaultEndpoint,
		logger:     logger,
	}
}

// SetEndpoint overrides the GraphQL endpoint. Used by tests.
func (c *Client) SetEndpoint(url string) {
	c.endpoint = url
}

// ProblemList returns the free problems of the global problemset grouped
// by difficulty, in listing order.
func (c *Client) ProblemList(ctx context.Context) (map[bank.Difficulty][]Stub, error) {
	variables := map[string]any{
		"categorySlug": "",
		"skip":         0,
		"limit":        3000,
		"filters":      map[string]any{},
	}

	var resp struct {
		Data struct {
			ProblemsetQuestionList struct {
				Questions []struct {
					Difficulty string `json:"difficulty"`
					FrontendID string `json:"frontendQuestionId"`
					PaidOnly   bool   `json:"paidOnly"`
					Title      string `json:"title"`
					TitleSlug  string `json:"titleSlug"`
				} `json:"questions"`
			} `json:"problemsetQuestionList"`
		} `json:"data"`
	}
	if err := c.post(ctx, listQuery, variables, &resp); err != nil {
		return nil, fmt.Errorf("fetching problem list: %w", err)
	}

	grouped := map[bank.Difficulty][]Stub{}
	for _, q := range resp.Data.ProblemsetQuestionList.Questions {
		if q.PaidOnly || q.TitleSlug == "" {
			continue
		}
		d := bank.Difficulty(q.Difficulty)
		if !d.Valid() {
			continue
		}
		grouped[d] = append(grouped[d], Stub{
			Title:      q.Title,
			TitleSlug:  q.TitleSlug,
			FrontendID: q.FrontendID,
		})
	}

	if len(grouped) == 0 {
		return nil, fmt.Errorf("problem list is empty")
	}
	return grouped, nil
}

// Problem fetches one problem's full content and parses it into a
// dataset record.
func (c *Client) Problem(ctx context.Context, titleSlug string) (bank.Problem, error) {
	variables := map[string]any{"titleSlug": titleSlug}

	var resp struct {
		Data struct {
			Question *struct {
				QuestionID string `json:"questionId"`
				FrontendID string `json:"questionFrontendId"`
				Title      string `json:"title"`
				TitleSlug  string `json:"titleSlug"`
				Content    string `json:"content"`
				Difficulty string `json:"difficulty"`
				TopicTags  []struct {
					Name string `json:"name"`
				} `json:"topicTags"`
			} `json:"question"`
		} `json:"data"`
	}
	if err := c.post(ctx, detailQuery, variables, &resp); err != nil {
		return bank.Problem{}, fmt.Errorf("fetching %s: %w", titleSlug, err)
	}

	q := resp.Data.Question
	if q == nil || q.TitleSlug == "" {
		return bank.Problem{}, fmt.Errorf("question %s not found", titleSlug)
	}

	topics := make([]string, 0, len(q.TopicTags))
	for _, tag := range q.TopicTags {
		topics = append(topics, tag.Name)
	}

	content := ParseContent(q.Content)

	return bank.Problem{
		QuestionID:   q.QuestionID,
		FrontendID:   q.FrontendID,
		Title:        q.Title,
		TitleSlug:    q.TitleSlug,
		Difficulty:   bank.Difficulty(q.Difficulty),
		Topics:       topics,
		Statement:    content.Statement,
		Examples:     content.Examples,
		Constraints:  content.Constraints,
		InputFormat:  content.InputFormat,
		OutputFormat: content.OutputFormat,
	}, nil
}

func (c *Client) post(ctx context.Context, query string, variables map[string]any, out any) error {
	payload, err := json.Marshal(map[string]any{
		"query":     query,
		"variables": variables,
	})
	if err != nil {
		return fmt.Errorf("marshal graphql payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Referer", "https://leetcode.com")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("perform request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(data))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
