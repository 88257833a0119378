// Package storage содержит модели данных и интерфейсы репозиториев.
package storage

// Action - тип действия в репозитории.
type Action string

const (
	// ActionPush - push в ветку.
	ActionPush Action = "PUSH"
	// ActionPullRequest - открытие, переоткрытие или обновление PR.
	ActionPullRequest Action = "PULL_REQUEST"
	// ActionMerge - PR смержен.
	ActionMerge Action = "MERGE"
)

// IsValid возвращает true, если значение является допустимым действием.
func (a Action) IsValid() bool {
	switch a {
	case ActionPush, ActionPullRequest, ActionMerge:
		return true
	default:
		return false
	}
}

// Event - каноническое событие, единственная сохраняемая сущность.
// Timestamp хранится строкой ISO-8601 в UTC.
type Event struct {
	RequestID  string `json:"request_id" bson:"request_id"`
	Author     string `json:"author" bson:"author"`
	Action     Action `json:"action" bson:"action"`
	FromBranch string `json:"from_branch" bson:"from_branch"`
	ToBranch   string `json:"to_branch" bson:"to_branch"`
	Timestamp  string `json:"timestamp" bson:"timestamp"`
}
