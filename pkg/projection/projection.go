// Пакет projection содержит вычисления поверх снимка меню:
// фильтры и агрегаты. Функции не меняют входной срез.
package projection

import (
	"strings"

	"github.com/rtemka/menu/domain"
)

type item = domain.MenuItem

// ByCategory оставляет позиции категории category,
// пустая категория - без фильтра.
func ByCategory(items []item, category string) []item {
	if category == "" {
		return clone(items)
	}
	return filter(items, func(it item) bool { return it.Category == category })
}

// ByName оставляет позиции, в имени которых есть query
// без учета регистра. Пустой query пропускает все.
func ByName(items []item, query string) []item {
	if query == "" {
		return clone(items)
	}
	q := strings.ToLower(query)
	return filter(items, func(it item) bool {
		return strings.Contains(strings.ToLower(it.Name), q)
	})
}

// Query фильтр экрана меню: категория и поиск по имени.
type Query struct {
	Category string
	Text     string
}

// Apply применяет оба фильтра одновременно.
func (q Query) Apply(items []item) []item {
	return Filter(items, q.Category, q.Text)
}

// Filter логическое И фильтров ByCategory и ByName.
func Filter(items []item, category, query string) []item {
	q := strings.ToLower(query)
	return filter(items, func(it item) bool {
		return (category == "" || it.Category == category) &&
			strings.Contains(strings.ToLower(it.Name), q)
	})
}

func filter(items []item, keep func(item) bool) []item {
	out := make([]item, 0, len(items))
	for _, it := range items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}

func clone(items []item) []item {
	out := make([]item, len(items))
	_ = copy(out, items)
	return out
}

// Count количество позиций.
func Count(items []item) int { return len(items) }

// Total сумма цен, 0 для пустого меню.
func Total(items []item) float64 {
	var sum float64
	for _, it := range items {
		sum += it.Price
	}
	return sum
}

// Average средняя цена, 0 для пустого меню.
func Average(items []item) float64 {
	if len(items) == 0 {
		return 0
	}
	return Total(items) / float64(len(items))
}

// Stats сводка по меню для экрана.
type Stats struct {
	Count   int     `json:"count"`
	Total   float64 `json:"total"`
	Average float64 `json:"average"`
}

func Summarize(items []item) Stats {
	return Stats{
		Count:   Count(items),
		Total:   Total(items),
		Average: Average(items),
	}
}

// Categories возвращает категории позиций без повторов
// в порядке первого появления.
func Categories(items []item) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, it := range items {
		if _, ok := seen[it.Category]; ok {
			continue
		}
		seen[it.Category] = struct{}{}
		out = append(out, it.Category)
	}
	return out
}

// AverageByCategory средняя цена по каждой категории.
func AverageByCategory(items []item) map[string]float64 {
	groups := make(map[string][]item)
	for _, it := range items {
		groups[it.Category] = append(groups[it.Category], it)
	}
	out := make(map[string]float64, len(groups))
	for c, g := range groups {
		out[c] = Average(g)
	}
	return out
}
