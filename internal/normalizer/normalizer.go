// Package normalizer приводит уведомления GitHub разных типов к каноническому storage.Event.
//
// Результат нормализации - одно из трёх: принятое событие, осознанный пропуск
// (Ignored) или ErrMalformedPayload для пустого/некорректного тела.
// Отсутствующие поля и битые timestamp никогда не приводят к ошибке.
package normalizer

import (
	"errors"
	"strings"
	"time"

	"github.com/go-playground/webhooks/v6/github"
	"go.uber.org/zap"

	"github.com/VechkanovVV/webhook-repo/internal/storage"
)

// ErrMalformedPayload - тело уведомления пустое, не JSON или не объект.
var ErrMalformedPayload = errors.New("malformed notification payload")

// UnknownAuthor подставляется, когда в уведомлении нет sender.login.
const UnknownAuthor = "Unknown"

// Kind - тип уведомления из заголовка X-GitHub-Event.
type Kind string

const (
	// KindPush - push в репозиторий.
	KindPush = Kind(github.PushEvent)
	// KindPullRequest - изменение pull request.
	KindPullRequest = Kind(github.PullRequestEvent)
)

// prAction - под-действие pull_request уведомления.
type prAction string

const (
	prOpened      prAction = "opened"
	prReopened    prAction = "reopened"
	prSynchronize prAction = "synchronize"
	prClosed      prAction = "closed"
)

// Decision - итог классификации уведомления.
type Decision int

const (
	// Accepted - уведомление превращено в событие и должно быть сохранено.
	Accepted Decision = iota + 1
	// Ignored - уведомление понятно, но намеренно не сохраняется.
	Ignored
)

// IgnoreReason - причина пропуска уведомления.
type IgnoreReason string

const (
	// ReasonUnsupportedKind - тип уведомления не отслеживается.
	ReasonUnsupportedKind IgnoreReason = "unsupported notification kind"
	// ReasonUnhandledSubAction - под-действие pull request не отслеживается.
	ReasonUnhandledSubAction IgnoreReason = "unhandled pull-request sub-action"
)

// Result - результат нормализации.
// Для Accepted заполнено Event, для Ignored - Reason и Detail
// (исходный kind или под-действие PR).
type Result struct {
	Event    storage.Event
	Reason   IgnoreReason
	Detail   string
	Decision Decision
}

// Normalizer - чистое преобразование уведомлений в события.
// Безопасен для конкурентного использования.
type Normalizer struct {
	now    func() time.Time
	logger *zap.Logger
}

// Option настраивает Normalizer.
type Option func(*Normalizer)

// WithClock подменяет источник текущего времени.
func WithClock(now func() time.Time) Option {
	return func(n *Normalizer) {
		n.now = now
	}
}

// WithLogger задаёт логгер для отладочных сообщений.
func WithLogger(logger *zap.Logger) Option {
	return func(n *Normalizer) {
		n.logger = logger
	}
}

// New создаёт Normalizer.
func New(opts ...Option) *Normalizer {
	n := &Normalizer{
		now:    time.Now,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Normalize классифицирует уведомление kind с телом body.
// Ошибку возвращает только для некорректного тела.
func (n *Normalizer) Normalize(kind string, body []byte) (Result, error) {
	p, ok := parsePayload(body)
	if !ok {
		return Result{}, ErrMalformedPayload
	}

	switch Kind(kind) {
	case KindPush:
		return n.push(p), nil
	case KindPullRequest:
		return n.pullRequest(p), nil
	default:
		return Result{Decision: Ignored, Reason: ReasonUnsupportedKind, Detail: kind}, nil
	}
}

func (n *Normalizer) push(p payload) Result {
	return Result{
		Decision: Accepted,
		Event: storage.Event{
			RequestID:  p.str("after", ""),
			Author:     p.str("sender.login", UnknownAuthor),
			Action:     storage.ActionPush,
			FromBranch: "",
			ToBranch:   branchFromRef(p.str("ref", "")),
			Timestamp:  n.timestamp(p, "head_commit.timestamp"),
		},
	}
}

func (n *Normalizer) pullRequest(p payload) Result {
	sub := p.str("action", "")

	var (
		action storage.Action
		source string
	)

	switch prAction(sub) {
	case prClosed:
		if !p.flag("pull_request.merged") {
			return Result{Decision: Ignored, Reason: ReasonUnhandledSubAction, Detail: sub}
		}
		action, source = storage.ActionMerge, "pull_request.merged_at"
	case prOpened, prReopened, prSynchronize:
		action, source = storage.ActionPullRequest, "pull_request.created_at"
	default:
		return Result{Decision: Ignored, Reason: ReasonUnhandledSubAction, Detail: sub}
	}

	return Result{
		Decision: Accepted,
		Event: storage.Event{
			RequestID:  p.str("pull_request.id", ""),
			Author:     p.str("sender.login", UnknownAuthor),
			Action:     action,
			FromBranch: p.str("pull_request.head.ref", ""),
			ToBranch:   p.str("pull_request.base.ref", ""),
			Timestamp:  n.timestamp(p, source),
		},
	}
}

// timestamp берёт время из поля path, при отсутствии или ошибке разбора - текущее.
func (n *Normalizer) timestamp(p payload, path string) string {
	raw := p.str(path, "")
	if raw == "" {
		return FormatTimestamp(n.now())
	}

	t, ok := parseTimestamp(raw)
	if !ok {
		n.logger.Debug("unparsable timestamp, using current time",
			zap.String("field", path), zap.String("value", raw))
		return FormatTimestamp(n.now())
	}
	return FormatTimestamp(t)
}

// branchFromRef возвращает последний сегмент ref ("refs/heads/staging" -> "staging").
func branchFromRef(ref string) string {
	if i := strings.LastIndex(ref, "/"); i >= 0 {
		return ref[i+1:]
	}
	return ref
}
