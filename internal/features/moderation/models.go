// Package moderation реализует модераторские инструменты группы:
// предупреждения, мут, бан, очистку сообщений, пины и опросы.
// models.go описывает формат warnings.json.
package moderation

// Doc — документ warnings.json: userId → количество предупреждений.
type Doc = map[string]int
