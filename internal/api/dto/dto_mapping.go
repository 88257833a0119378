package dto

import "github.com/VechkanovVV/webhook-repo/internal/storage"

// FromStorageEvent storage.Event -> DTO.
func FromStorageEvent(ev storage.Event) EventResponse {
	return EventResponse{
		RequestID:  ev.RequestID,
		Author:     ev.Author,
		Action:     string(ev.Action),
		FromBranch: ev.FromBranch,
		ToBranch:   ev.ToBranch,
		Timestamp:  ev.Timestamp,
	}
}

// FromStorageEventList []storage.Event -> []EventResponse. Никогда не возвращает nil.
func FromStorageEventList(events []storage.Event) []EventResponse {
	res := make([]EventResponse, 0, len(events))

	for _, ev := range events {
		res = append(res, FromStorageEvent(ev))
	}

	return res
}
