// Package ranking реализует систему рангов «аур» по количеству сообщений.
// models.go описывает лестницу рангов и запись пользователя в чате.
package ranking

// Tier — один ранг в фиксированной лестнице.
type Tier struct {
	Level       int    // Индекс ранга, 0..9
	Name        string // Отображаемое имя
	MinMessages int    // Порог сообщений для получения ранга
}

// Tiers — лестница рангов, упорядочена по возрастанию порога.
// Конфигурация статична и не хранится на диске.
var Tiers = []Tier{
	{Level: 0, Name: "⚪ Dormant Aura", MinMessages: 0},
	{Level: 1, Name: "🔵 Ethereal Aura", MinMessages: 100},
	{Level: 2, Name: "🟣 Mystic Aura", MinMessages: 500},
	{Level: 3, Name: "🟡 Celestial Aura", MinMessages: 1000},
	{Level: 4, Name: "🔴 Phoenix Aura", MinMessages: 2500},
	{Level: 5, Name: "⚡ Thunder Aura", MinMessages: 5000},
	{Level: 6, Name: "🌟 Astral Aura", MinMessages: 10000},
	{Level: 7, Name: "👑 Divine Aura", MinMessages: 25000},
	{Level: 8, Name: "🌈 Legendary Aura", MinMessages: 50000},
	{Level: 9, Name: "✨ Immortal Aura", MinMessages: 100000},
}

// RankFor возвращает самый высокий ранг, порог которого не превышает
// messages. Для любого messages >= 0 результат определён: нулевой ранг
// имеет порог 0.
func RankFor(messages int) Tier {
	current := Tiers[0]
	for _, t := range Tiers[1:] {
		if messages < t.MinMessages {
			break
		}
		current = t
	}
	return current
}

// NextTier возвращает следующий ранг после t, или nil для максимального.
func NextTier(t Tier) *Tier {
	if t.Level+1 >= len(Tiers) {
		return nil
	}
	next := Tiers[t.Level+1]
	return &next
}

// Record — состояние пользователя в одном чате.
// CurrentLevel кеширует RankFor(Messages).Level, чтобы не пересчитывать
// ранг при каждом чтении; инвариант поддерживается в RecordMessage.
type Record struct {
	Messages        int    `json:"messages"`
	Username        string `json:"username"`
	LastMessageTime int64  `json:"lastMessageTime"` // unix-миллисекунды
	CurrentLevel    int    `json:"currentLevel"`
}

// Doc — документ ranks.json: chatId → userId → Record.
type Doc = map[string]map[string]*Record
