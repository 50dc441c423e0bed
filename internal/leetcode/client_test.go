package leetcode

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func decodeRequest(t *testing.T, r *http.Request) gqlRequest {
	t.Helper()
	var req gqlRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		t.Fatalf("decoding request: %v", err)
	}
	return req
}

func TestDailyQuestion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		if ref := r.Header.Get("Referer"); ref != "https://leetcode.cn/" {
			t.Errorf("Referer = %q", ref)
		}
		if rp := r.Header.Get("Referrer-Policy"); rp != "strict-origin-when-cross-origin" {
			t.Errorf("Referrer-Policy = %q", rp)
		}

		req := decodeRequest(t, r)
		if req.OperationName != "CalendarTaskSchedule" {
			t.Errorf("operationName = %q", req.OperationName)
		}
		if days, ok := req.Variables["days"].(float64); !ok || days != 0 {
			t.Errorf("days variable = %v, want 0", req.Variables["days"])
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"calendarTaskSchedule":{"dailyQuestions":[
			{"id":42,"name":"Two Sum","slug":"two-sum","link":"https://leetcode.cn/problems/two-sum/","premiumOnly":false}
		]}}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", 5*time.Second)
	q, err := c.DailyQuestion(context.Background())
	if err != nil {
		t.Fatalf("DailyQuestion: %v", err)
	}
	if q.Name != "Two Sum" || q.Slug != "two-sum" {
		t.Errorf("unexpected question: %+v", q)
	}
	if q.PremiumOnly {
		t.Error("premiumOnly should be false")
	}
}

func TestDailyQuestionEmptyList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"calendarTaskSchedule":{"dailyQuestions":[]}}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", 5*time.Second)
	if _, err := c.DailyQuestion(context.Background()); err == nil {
		t.Fatal("expected error for empty dailyQuestions")
	}
}

func TestDailyQuestionHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", 5*time.Second)
	_, err := c.DailyQuestion(context.Background())
	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("expected FetchError, got %v", err)
	}
	if fe.Op != "daily question" {
		t.Errorf("Op = %q", fe.Op)
	}
}

func TestDailyQuestionGraphQLError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"errors":[{"message":"rate limited"}]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", 5*time.Second)
	if _, err := c.DailyQuestion(context.Background()); err == nil {
		t.Fatal("expected error from graphql errors array")
	}
}

func TestQuestionDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req := decodeRequest(t, r)
		if req.OperationName != "questionTranslations" {
			t.Errorf("operationName = %q", req.OperationName)
		}
		if slug := req.Variables["titleSlug"]; slug != "two-sum" {
			t.Errorf("titleSlug = %v", slug)
		}
		w.Write([]byte(`{"data":{"question":{"translatedTitle":"两数之和","translatedContent":"<p>给定一个整数数组</p>"}}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", 5*time.Second)
	d, err := c.QuestionDetail(context.Background(), "two-sum")
	if err != nil {
		t.Fatalf("QuestionDetail: %v", err)
	}
	if d.TranslatedTitle != "两数之和" {
		t.Errorf("title = %q", d.TranslatedTitle)
	}
	if d.TranslatedContent == "" {
		t.Error("content should not be empty")
	}
}

func TestQuestionDetailUnknownSlug(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"question":null}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", 5*time.Second)
	if _, err := c.QuestionDetail(context.Background(), "no-such-slug"); err == nil {
		t.Fatal("expected error for null question")
	}
}

func TestQuestionDetailEmptySlug(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", "", time.Second)
	if _, err := c.QuestionDetail(context.Background(), ""); err == nil {
		t.Fatal("expected error for empty slug")
	}
}
