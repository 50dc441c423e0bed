package leetcode

import "encoding/json"

// DailyQuestion is the summary record for one scheduled day. The field set
// mirrors the provider's calendarTaskSchedule payload; ID and Progress are
// provider-defined and carried opaquely.
type DailyQuestion struct {
	ID          json.Number     `json:"id"`
	Name        string          `json:"name"`
	Slug        string          `json:"slug"`
	Link        string          `json:"link"`
	PremiumOnly bool            `json:"premiumOnly"`
	Progress    json.RawMessage `json:"progress,omitempty"`
}

// QuestionDetail is the localized statement for one question. The content is
// either HTML markup or plain/markdown text depending on the question.
type QuestionDetail struct {
	TranslatedTitle   string `json:"translatedTitle"`
	TranslatedContent string `json:"translatedContent"`
}
