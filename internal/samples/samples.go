// Package samples отправляет на /webhook тестовые уведомления:
// push, открытие pull request и merge.
package samples

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultURL - адрес локально запущенного сервиса.
const DefaultURL = "http://localhost:8080/webhook"

// Sample - одно тестовое уведомление.
type Sample struct {
	Name    string
	Kind    string
	Payload map[string]any
}

// Result - ответ сервиса на отправленный Sample.
type Result struct {
	Name   string
	Status int
	Body   string
}

// All возвращает уведомления в порядке отправки.
// Каждый вызов генерирует новый хеш коммита для push.
func All() []Sample {
	return []Sample{Push(), PullRequestOpened(), Merge()}
}

// Push - push в staging.
func Push() Sample {
	return Sample{
		Name: "push",
		Kind: "push",
		Payload: map[string]any{
			"after":  strings.ReplaceAll(uuid.NewString(), "-", ""),
			"ref":    "refs/heads/staging",
			"sender": map[string]any{"login": "Travis"},
			"head_commit": map[string]any{
				"timestamp": "2021-04-01T21:30:00Z",
			},
		},
	}
}

// PullRequestOpened - открытие PR staging -> master.
func PullRequestOpened() Sample {
	return Sample{
		Name: "pull request",
		Kind: "pull_request",
		Payload: map[string]any{
			"action": "opened",
			"pull_request": map[string]any{
				"id":         1234567,
				"head":       map[string]any{"ref": "staging"},
				"base":       map[string]any{"ref": "master"},
				"created_at": "2021-04-01T09:00:00Z",
				"merged":     false,
			},
			"sender": map[string]any{"login": "Travis"},
		},
	}
}

// Merge - слияние PR dev -> master.
func Merge() Sample {
	return Sample{
		Name: "merge",
		Kind: "pull_request",
		Payload: map[string]any{
			"action": "closed",
			"pull_request": map[string]any{
				"id":        7654321,
				"head":      map[string]any{"ref": "dev"},
				"base":      map[string]any{"ref": "master"},
				"merged_at": "2021-04-02T12:00:00Z",
				"merged":    true,
			},
			"sender": map[string]any{"login": "Travis"},
		},
	}
}

// Sender отправляет Sample на адрес вебхука.
type Sender struct {
	client *http.Client
	logger *zap.Logger
	url    string
	delay  time.Duration
}

// NewSender создаёт Sender. delay - пауза между уведомлениями в SendAll.
func NewSender(url string, delay time.Duration, logger *zap.Logger) *Sender {
	return &Sender{
		client: &http.Client{Timeout: 30 * time.Second},
		logger: logger,
		url:    url,
		delay:  delay,
	}
}

// Send отправляет одно уведомление с заголовками GitHub.
func (s *Sender) Send(ctx context.Context, sample Sample) (Result, error) {
	body, err := json.Marshal(sample.Payload)
	if err != nil {
		return Result{}, fmt.Errorf("encoding %s payload failed: %w", sample.Name, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return Result{}, fmt.Errorf("building %s request failed: %w", sample.Name, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-GitHub-Event", sample.Kind)
	req.Header.Set("X-GitHub-Delivery", uuid.NewString())

	resp, err := s.client.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("sending %s failed: %w", sample.Name, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, fmt.Errorf("reading %s response failed: %w", sample.Name, err)
	}

	res := Result{Name: sample.Name, Status: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	s.logger.Info("sample sent",
		zap.String("sample", res.Name),
		zap.Int("status", res.Status),
		zap.String("response", res.Body))
	return res, nil
}

// SendAll отправляет All() по очереди с паузой delay между ними.
// Останавливается на первой ошибке транспорта; ответы с любым статусом ошибкой не считаются.
func (s *Sender) SendAll(ctx context.Context) ([]Result, error) {
	all := All()
	results := make([]Result, 0, len(all))

	for i, sample := range all {
		if i > 0 && s.delay > 0 {
			select {
			case <-ctx.Done():
				return results, ctx.Err()
			case <-time.After(s.delay):
			}
		}

		res, err := s.Send(ctx, sample)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}

	return results, nil
}
