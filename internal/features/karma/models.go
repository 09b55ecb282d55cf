// Package karma реализует экономику кармы: ежедневные награды, переводы,
// магазин статусов и лидерборд по купленным статусам.
// models.go описывает каталог товаров и формат документов karma.json
// и cooldowns.json.
package karma

import "time"

// Product — статус из магазина. Каталог статичен и не хранится на диске.
type Product struct {
	ID    string
	Name  string
	Price int // цена в карме, > 0
	Rank  int // вес для лидерборда статусов, > 0
}

// Catalog — доступные статусы, в порядке убывания цены.
var Catalog = []Product{
	{ID: "P001", Name: "⚡ Alpha Status", Price: 5000, Rank: 5},
	{ID: "P002", Name: "🌟 Sigma Status", Price: 3000, Rank: 4},
	{ID: "P003", Name: "💫 Beta Status", Price: 2000, Rank: 3},
	{ID: "P004", Name: "✨ Omega Status", Price: 1000, Rank: 2},
	{ID: "P005", Name: "🌙 Nova Status", Price: 500, Rank: 1},
}

// ProductByID ищет товар в каталоге.
func ProductByID(id string) (Product, bool) {
	for _, p := range Catalog {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}

// Account — аккаунт кармы пользователя.
// Username хранится как последнее виденное отображаемое имя,
// чтобы лидерборды работали без обращений к Telegram API.
type Account struct {
	Karma    int    `json:"karma"`
	Username string `json:"username"`
}

// LedgerDoc — документ karma.json.
// Purchases append-only: запись (userId, productId) создаётся один раз
// и никогда не удаляется и не перезаписывается.
type LedgerDoc struct {
	Users     map[string]*Account          `json:"users"`
	Purchases map[string]map[string]string `json:"purchases"` // userId → productId → ISO-время покупки
}

// NewLedgerDoc возвращает пустой документ karma.json.
func NewLedgerDoc() *LedgerDoc {
	return &LedgerDoc{
		Users:     make(map[string]*Account),
		Purchases: make(map[string]map[string]string),
	}
}

// CooldownDoc — документ cooldowns.json: userId → ISO-время последней награды.
type CooldownDoc = map[string]string

// TimeLayout — формат времени в документах (ISO 8601, как у оригинала).
const TimeLayout = time.RFC3339
