package normalizer

import (
	"bytes"

	"github.com/tidwall/gjson"
)

// payload - обёртка над JSON-телом уведомления с безопасным доступом к полям.
// Любое отсутствующее звено пути, null или не скалярное значение даёт значение по умолчанию.
type payload struct {
	root gjson.Result
}

// parsePayload проверяет, что тело - непустой JSON-объект.
func parsePayload(body []byte) (payload, bool) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || !gjson.ValidBytes(body) {
		return payload{}, false
	}

	root := gjson.ParseBytes(body)
	if !root.IsObject() {
		return payload{}, false
	}

	empty := true
	root.ForEach(func(_, _ gjson.Result) bool {
		empty = false
		return false
	})
	if empty {
		return payload{}, false
	}

	return payload{root: root}, true
}

// str возвращает строковое значение по пути или def.
// Числа отдаются в исходной записи, так что 1234567 остаётся "1234567".
func (p payload) str(path, def string) string {
	r := p.root.Get(path)
	switch r.Type {
	case gjson.String, gjson.Number:
		return r.String()
	default:
		return def
	}
}

// flag возвращает true только для JSON true.
func (p payload) flag(path string) bool {
	return p.root.Get(path).Type == gjson.True
}
