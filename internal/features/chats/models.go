// Package chats ведёт реестр чатов, в которых видели бота,
// и реализует рассылку по всем группам.
// models.go описывает формат chats.json.
package chats

// Doc — документ chats.json. Группы и личные чаты хранятся отдельно:
// рассылка идёт только по группам.
type Doc struct {
	Groups []int64 `json:"groups"`
	Users  []int64 `json:"users"`
}

// NewDoc возвращает пустой реестр.
func NewDoc() *Doc {
	return &Doc{Groups: []int64{}, Users: []int64{}}
}
