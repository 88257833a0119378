package normalizer

import (
	"time"
)

// TimestampLayout - формат хранимого timestamp: UTC со смещением +00:00
// и до шести знаков дробной части без хвостовых нулей. У всех значений
// одинаковая форма, поэтому лексикографический порядок совпадает с хронологическим.
const TimestampLayout = "2006-01-02T15:04:05.999999-07:00"

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999Z0700",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04",
	"2006-01-02",
}

// FormatTimestamp приводит время к хранимому виду.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// parseTimestamp разбирает ISO-8601 строку. Значения без смещения считаются UTC.
func parseTimestamp(value string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
