package leetcode

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	// DefaultEndpoint is the graphql gateway of leetcode.cn.
	DefaultEndpoint = "https://leetcode.cn/graphql/"
	// DefaultReferer is required by the gateway alongside a
	// strict-origin-when-cross-origin referrer policy.
	DefaultReferer = "https://leetcode.cn/"
)

// FetchError wraps any transport, HTTP or response-shape failure from the
// remote service. Op names the operation that failed.
type FetchError struct {
	Op  string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("leetcode: %s: %v", e.Op, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Client talks to the LeetCode graphql endpoint.
type Client struct {
	endpoint string
	referer  string
	client   *http.Client
}

func NewClient(endpoint, referer string, timeout time.Duration) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if referer == "" {
		referer = DefaultReferer
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		endpoint: endpoint,
		referer:  referer,
		client:   &http.Client{Timeout: timeout},
	}
}

const dailyQuestionQuery = `
query CalendarTaskSchedule($days: Int!) {
  calendarTaskSchedule(days: $days) {
    dailyQuestions {
      id
      name
      slug
      link
      premiumOnly
      progress
    }
  }
}`

const questionTranslationQuery = `
query questionTranslations($titleSlug: String!) {
  question(titleSlug: $titleSlug) {
    translatedTitle
    translatedContent
  }
}`

type gqlRequest struct {
	Query         string         `json:"query"`
	Variables     map[string]any `json:"variables"`
	OperationName string         `json:"operationName"`
}

type gqlError struct {
	Message string `json:"message"`
}

// DailyQuestion asks the remote schedule for today's question. "Today" here is
// whatever the remote service's own clock considers day 0, which may disagree
// with the local calendar date around midnight.
func (c *Client) DailyQuestion(ctx context.Context) (*DailyQuestion, error) {
	var resp struct {
		Data struct {
			CalendarTaskSchedule struct {
				DailyQuestions []DailyQuestion `json:"dailyQuestions"`
			} `json:"calendarTaskSchedule"`
		} `json:"data"`
		Errors []gqlError `json:"errors"`
	}

	req := gqlRequest{
		Query:         dailyQuestionQuery,
		Variables:     map[string]any{"days": 0},
		OperationName: "CalendarTaskSchedule",
	}
	if err := c.do(ctx, req, &resp); err != nil {
		return nil, &FetchError{Op: "daily question", Err: err}
	}
	if len(resp.Errors) > 0 {
		return nil, &FetchError{Op: "daily question", Err: fmt.Errorf("graphql: %s", resp.Errors[0].Message)}
	}

	questions := resp.Data.CalendarTaskSchedule.DailyQuestions
	if len(questions) == 0 {
		return nil, &FetchError{Op: "daily question", Err: fmt.Errorf("empty dailyQuestions list")}
	}
	q := questions[0]
	if q.Slug == "" {
		return nil, &FetchError{Op: "daily question", Err: fmt.Errorf("daily question has no slug")}
	}
	return &q, nil
}

// QuestionDetail fetches the translated title and statement body for a slug.
func (c *Client) QuestionDetail(ctx context.Context, slug string) (*QuestionDetail, error) {
	if slug == "" {
		return nil, &FetchError{Op: "question detail", Err: fmt.Errorf("empty slug")}
	}

	var resp struct {
		Data struct {
			Question *QuestionDetail `json:"question"`
		} `json:"data"`
		Errors []gqlError `json:"errors"`
	}

	req := gqlRequest{
		Query:         questionTranslationQuery,
		Variables:     map[string]any{"titleSlug": slug},
		OperationName: "questionTranslations",
	}
	if err := c.do(ctx, req, &resp); err != nil {
		return nil, &FetchError{Op: "question detail", Err: err}
	}
	if len(resp.Errors) > 0 {
		return nil, &FetchError{Op: "question detail", Err: fmt.Errorf("graphql: %s", resp.Errors[0].Message)}
	}
	if resp.Data.Question == nil {
		return nil, &FetchError{Op: "question detail", Err: fmt.Errorf("no question for slug %q", slug)}
	}
	return resp.Data.Question, nil
}

func (c *Client) do(ctx context.Context, req gqlRequest, out any) error {
	payload, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Referer", c.referer)
	httpReq.Header.Set("Referrer-Policy", "strict-origin-when-cross-origin")

	res, err := c.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d: %s", res.StatusCode, truncate(string(body), 200))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
