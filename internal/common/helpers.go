// Package common содержит общие утилиты, используемые во всём проекте.
// Сюда входят: форматирование чисел, остатка времени и прогресс-баров.
package common

import (
	"fmt"
	"strings"
	"time"
)

// FormatNumber форматирует число с разделителями тысяч (запятыми).
// Пример: FormatNumber(2350) → "2,350"
func FormatNumber(n int) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	return fmt.Sprintf("%s,%03d", FormatNumber(n/1000), n%1000)
}

// FormatRemaining форматирует остаток времени в виде "23h 59m".
// Используется в ответе на повторный /rewards до истечения кулдауна.
func FormatRemaining(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	return fmt.Sprintf("%dh %dm", hours, minutes)
}

// ProgressBar строит текстовый прогресс-бар из 10 сегментов.
// value ограничивается диапазоном [lo, hi]; при lo == hi бар полный.
//
// Пример: ProgressBar(150, 100, 500) → "█▒▒▒▒▒▒▒▒▒"
func ProgressBar(value, lo, hi int) string {
	const width = 10
	if hi <= lo {
		return strings.Repeat("█", width)
	}
	if value < lo {
		value = lo
	}
	if value > hi {
		value = hi
	}
	filled := (value - lo) * width / (hi - lo)
	return strings.Repeat("█", filled) + strings.Repeat("▒", width-filled)
}

// Medal возвращает медаль или номер для позиции в лидерборде (с нуля).
func Medal(position int) string {
	switch position {
	case 0:
		return "🥇"
	case 1:
		return "🥈"
	case 2:
		return "🥉"
	default:
		return fmt.Sprintf("%d.", position+1)
	}
}
