// Package service содержит бизнес-логику приёма и выдачи событий.
package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/VechkanovVV/webhook-repo/internal/apperrors"
	"github.com/VechkanovVV/webhook-repo/internal/normalizer"
	"github.com/VechkanovVV/webhook-repo/internal/storage"
)

// Publisher получает каждое сохранённое событие (live feed).
type Publisher interface {
	Publish(ev storage.Event)
}

// Notification - входящее уведомление GitHub.
type Notification struct {
	Kind       string
	DeliveryID string
	Body       []byte
}

// EventService нормализует уведомления, сохраняет события и отдаёт последние.
type EventService struct {
	repo       storage.EventRepository
	normalizer *normalizer.Normalizer
	publisher  Publisher
	logger     *zap.Logger
	limit      int
}

// NewEventService создаёт новый EventService. publisher может быть nil.
func NewEventService(
	repo storage.EventRepository,
	n *normalizer.Normalizer,
	publisher Publisher,
	logger *zap.Logger,
	limit int,
) *EventService {
	if limit <= 0 {
		limit = storage.DefaultRecentLimit
	}
	return &EventService{
		repo:       repo,
		normalizer: n,
		publisher:  publisher,
		logger:     logger,
		limit:      limit,
	}
}

// Record обрабатывает одно уведомление. Для Ignored возвращает результат без ошибки;
// ошибка означает некорректное тело или сбой хранилища.
func (s *EventService) Record(ctx context.Context, n Notification) (normalizer.Result, *apperrors.AppError) {
	log := s.logger.With(zap.String("kind", n.Kind), zap.String("delivery", n.DeliveryID))

	res, err := s.normalizer.Normalize(n.Kind, n.Body)
	if err != nil {
		if errors.Is(err, normalizer.ErrMalformedPayload) {
			log.Info("rejected malformed notification", zap.Int("bytes", len(n.Body)))
			return normalizer.Result{}, apperrors.New(apperrors.ErrInvalidRequest)
		}
		log.Error("normalization failed", zap.Error(err))
		return normalizer.Result{}, apperrors.New(apperrors.ErrInternalIssue)
	}

	if res.Decision == normalizer.Ignored {
		log.Debug("notification ignored", zap.String("reason", string(res.Reason)), zap.String("detail", res.Detail))
		return res, nil
	}

	if err := s.repo.Append(ctx, res.Event); err != nil {
		log.Error("storing event failed",
			zap.String("action", string(res.Event.Action)),
			zap.String("request_id", res.Event.RequestID),
			zap.Error(err))
		return res, apperrors.New(apperrors.ErrStorageWrite)
	}

	log.Info("event recorded",
		zap.String("action", string(res.Event.Action)),
		zap.String("request_id", res.Event.RequestID),
		zap.String("author", res.Event.Author))

	if s.publisher != nil {
		s.publisher.Publish(res.Event)
	}
	return res, nil
}

// Recent возвращает последние события по убыванию timestamp.
func (s *EventService) Recent(ctx context.Context) ([]storage.Event, *apperrors.AppError) {
	events, err := s.repo.Recent(ctx, s.limit)
	if err != nil {
		s.logger.Error("loading events failed", zap.Error(err))
		return nil, apperrors.WithMessage(apperrors.ErrStorageRead, err.Error())
	}
	return events, nil
}

// Clear удаляет все события. Административная операция, через HTTP не доступна.
func (s *EventService) Clear(ctx context.Context) error {
	if err := s.repo.Clear(ctx); err != nil {
		s.logger.Error("clearing events failed", zap.Error(err))
		return err
	}
	s.logger.Info("events cleared")
	return nil
}
