package projection

import (
	"reflect"
	"testing"

	"github.com/rtemka/menu/domain"
	"pgregory.net/rapid"
)

var (
	soup  = item{Name: "Soup", Description: "Hot", Category: domain.CategoryStarter, Price: 25}
	cake  = item{Name: "Cake", Description: "Sweet", Category: domain.CategoryDessert, Price: 40}
	stew  = item{Name: "Stew", Description: "Thick", Category: domain.CategoryMain, Price: 55}
	tart  = item{Name: "Tart", Description: "Crisp", Category: domain.CategoryDessert, Price: 20}
	menu  = []item{soup, cake, stew, tart}
	empty = []item{}
)

func TestFilters(t *testing.T) {
	tests := []struct {
		name string
		got  []item
		want []item
	}{
		{name: "ByCategory", got: ByCategory(menu, domain.CategoryDessert), want: []item{cake, tart}},
		{name: "ByCategoryAll", got: ByCategory(menu, ""), want: menu},
		{name: "ByCategoryNone", got: ByCategory(menu, "Drinks"), want: empty},
		{name: "ByName", got: ByName(menu, "ca"), want: []item{cake}},
		{name: "ByNameCase", got: ByName(menu, "ST"), want: []item{stew}},
		{name: "ByNameEmpty", got: ByName(menu, ""), want: menu},
		{name: "Filter", got: Filter(menu, domain.CategoryDessert, "t"), want: []item{tart}},
		{name: "FilterAll", got: Filter(menu, "", ""), want: menu},
		{name: "Query", got: Query{Category: domain.CategoryStarter, Text: "so"}.Apply(menu), want: []item{soup}},
		{name: "FilterEmpty", got: Filter(nil, "", ""), want: empty},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !reflect.DeepEqual(tt.got, tt.want) {
				t.Errorf("%s() = %v, want %v", tt.name, tt.got, tt.want)
			}
		})
	}
}

func TestAggregates(t *testing.T) {
	if got := Average(nil); got != 0 {
		t.Errorf("Average([]) = %v, want 0", got)
	}
	if got := Average([]item{{Price: 10}, {Price: 20}}); got != 15 {
		t.Errorf("Average() = %v, want 15", got)
	}
	if got := Total([]item{soup, cake}); got != 65 {
		t.Errorf("Total() = %v, want 65", got)
	}
	if got := Total(nil); got != 0 {
		t.Errorf("Total([]) = %v, want 0", got)
	}

	want := Stats{Count: 4, Total: 140, Average: 35}
	if got := Summarize(menu); got != want {
		t.Errorf("Summarize() = %+v, want %+v", got, want)
	}
}

func TestCategories(t *testing.T) {
	want := []string{domain.CategoryStarter, domain.CategoryDessert, domain.CategoryMain}
	if got := Categories(menu); !reflect.DeepEqual(got, want) {
		t.Errorf("Categories() = %v, want %v", got, want)
	}

	avg := AverageByCategory(menu)
	if avg[domain.CategoryDessert] != 30 || avg[domain.CategoryStarter] != 25 || len(avg) != 3 {
		t.Errorf("AverageByCategory() = %v", avg)
	}
}

func TestFilterDoesNotMutate(t *testing.T) {
	in := []item{soup, cake}
	out := ByCategory(in, "")
	out[0].Name = "Changed"
	if in[0].Name != soup.Name {
		t.Errorf("ByCategory() shares memory with its input")
	}
}

func genMenu() *rapid.Generator[[]item] {
	return rapid.SliceOf(rapid.Custom(func(t *rapid.T) item {
		return item{
			Name:     rapid.StringMatching(`[A-Za-z]{1,8}`).Draw(t, "name"),
			Category: rapid.SampledFrom(domain.Categories).Draw(t, "category"),
			Price:    float64(rapid.IntRange(0, 1000).Draw(t, "price")),
		}
	}))
}

func TestFilterProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		items := genMenu().Draw(t, "items")
		category := rapid.SampledFrom(domain.Categories).Draw(t, "category")
		query := rapid.StringMatching(`[a-z]{0,2}`).Draw(t, "query")

		got := ByCategory(items, category)
		// ровно подмножество категории с сохранением порядка
		var want []item
		for _, it := range items {
			if it.Category == category {
				want = append(want, it)
			}
		}
		if len(got) != len(want) {
			t.Fatalf("ByCategory() len = %d, want %d", len(got), len(want))
		}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("ByCategory()[%d] = %v, want %v", i, got[i], want[i])
			}
		}

		combined := Filter(items, category, query)
		chained := ByName(ByCategory(items, category), query)
		if !reflect.DeepEqual(combined, chained) {
			t.Fatalf("Filter() = %v, want %v", combined, chained)
		}

		// повторный вызов дает тот же результат
		if again := Filter(items, category, query); !reflect.DeepEqual(again, combined) {
			t.Fatalf("Filter() is not deterministic: %v vs %v", again, combined)
		}

		if s := Summarize(items); s.Count != len(items) || (len(items) == 0 && s.Average != 0) {
			t.Fatalf("Summarize() = %+v for %d items", s, len(items))
		}
	})
}
