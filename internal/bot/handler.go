package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/okatu-loli/leetcode-daily/internal/cache"
	"github.com/okatu-loli/leetcode-daily/internal/leetcode"
	"github.com/okatu-loli/leetcode-daily/internal/render"
)

// Canned replies, one per failure tier so a user report localizes where the
// pipeline broke.
const (
	msgDailyUnavailable  = "今日题目获取失败，请稍后再试。"
	msgDetailUnavailable = "题目详情获取失败，请稍后再试。"
	msgRenderFailed      = "题目图片生成失败，请稍后再试。"
)

// Session is one chat conversation the handler can reply into.
type Session interface {
	SendText(ctx context.Context, text string) error
	SendAttachment(ctx context.Context, mime string, data []byte) error
}

// ProblemProvider is the remote problem-set boundary.
type ProblemProvider interface {
	DailyQuestion(ctx context.Context) (*leetcode.DailyQuestion, error)
	QuestionDetail(ctx context.Context, slug string) (*leetcode.QuestionDetail, error)
}

// Handler runs the daily-question pipeline for each command invocation. It
// owns the in-memory cache entry, loaded once at startup and written through
// to the store after every successful summary fetch.
type Handler struct {
	provider ProblemProvider
	store    *cache.Store
	renderer render.Renderer
	log      *logrus.Logger
	now      func() time.Time

	mu    sync.Mutex
	entry cache.Entry
}

func NewHandler(provider ProblemProvider, store *cache.Store, renderer render.Renderer, log *logrus.Logger) *Handler {
	entry, err := store.Load()
	if err != nil {
		// A corrupt cache file is downgraded to "no cache": the next
		// successful fetch overwrites it.
		var corrupt *cache.CorruptError
		if errors.As(err, &corrupt) {
			log.Warnf("discarding corrupt cache: %v", corrupt)
		} else {
			log.Warnf("loading cache: %v", err)
		}
		entry = cache.Entry{}
	}
	return &Handler{
		provider: provider,
		store:    store,
		renderer: renderer,
		log:      log,
		now:      time.Now,
		entry:    entry,
	}
}

// Handle runs one invocation end to end. Pipeline failures never propagate;
// they are logged and replaced by a canned reply. The returned error only
// reports transport trouble delivering the reply itself.
func (h *Handler) Handle(ctx context.Context, s Session) error {
	question := h.todaysQuestion(ctx)
	if question == nil {
		return s.SendText(ctx, msgDailyUnavailable)
	}

	detail, err := h.provider.QuestionDetail(ctx, question.Slug)
	if err != nil {
		h.log.Errorf("fetching detail for %s: %v", question.Slug, err)
		return s.SendText(ctx, msgDetailUnavailable)
	}

	result, err := h.renderer.Render(ctx, detail.TranslatedTitle, detail.TranslatedContent)
	if err != nil {
		h.log.Errorf("rendering %s: %v", question.Slug, err)
		return s.SendText(ctx, msgRenderFailed)
	}

	if err := s.SendText(ctx, fmt.Sprintf("今日题目: %s\n链接: %s", question.Name, question.Link)); err != nil {
		return err
	}
	if strings.HasPrefix(result.MIME, "text/") {
		return s.SendText(ctx, string(result.Data))
	}
	return s.SendAttachment(ctx, result.MIME, result.Data)
}

// todaysQuestion resolves the daily record: a fresh cached entry short-circuits
// the remote call; otherwise the schedule is fetched and written through. A
// failed fetch falls back to whatever is cached, stale included, which may be
// nothing.
func (h *Handler) todaysQuestion(ctx context.Context) *leetcode.DailyQuestion {
	h.mu.Lock()
	defer h.mu.Unlock()

	now := h.now()
	if h.entry.FreshAt(now) {
		return h.entry.Question
	}

	question, err := h.provider.DailyQuestion(ctx)
	if err != nil {
		h.log.Errorf("fetching daily question: %v", err)
		return h.entry.Question
	}

	h.entry = cache.Entry{Question: question, LastUpdate: &now}
	if err := h.store.Save(h.entry); err != nil {
		h.log.Errorf("persisting cache: %v", err)
	}
	return question
}
