package domain

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Ключ, под которым меню хранится в хранилище.
const MenuKey = "menuItems"

var (
	// ErrNotFound возвращается, когда объект или ключ не найден.
	ErrNotFound = errors.New("not found")
	// ErrInvalidItem возвращается при попытке сохранить некорректную позицию меню.
	ErrInvalidItem = errors.New("invalid menu item")
)

// Категории, которые предлагает интерфейс. Список открытый,
// позиция может иметь любую непустую категорию.
const (
	CategoryStarter    = "Starter"
	CategoryAppetizer  = "Appetizer"
	CategoryMain       = "Main"
	CategoryMainCourse = "Main Course"
	CategoryDessert    = "Dessert"
)

var Categories = []string{
	CategoryStarter,
	CategoryAppetizer,
	CategoryMain,
	CategoryMainCourse,
	CategoryDessert,
}

// MenuItem позиция меню. Отдельного id нет,
// роль ключа играет Name.
type MenuItem struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	// пустая строка - картинки нет
	ImageURI string `json:"imageUri,omitempty"`
}

// Gateway контракт хранилища ключ-значение, в котором
// меню переживает перезапуск приложения.
type Gateway interface {
	// Load возвращает значение по ключу или ErrNotFound.
	Load(ctx context.Context, key string) ([]byte, error)
	// Save записывает значение по ключу, перезаписывая старое.
	Save(ctx context.Context, key string, value []byte) error
	Close() error
}

// Validate проверяет обязательные поля и цену.
func Validate(item MenuItem) error {
	// JSON заменяет битые байты на U+FFFD, такая позиция
	// после перезапуска не нашлась бы по имени
	for _, f := range []struct{ name, value string }{
		{"name", item.Name},
		{"description", item.Description},
		{"category", item.Category},
		{"imageUri", item.ImageURI},
	} {
		if !utf8.ValidString(f.value) {
			return fmt.Errorf("%w: %s is not valid UTF-8", ErrInvalidItem, f.name)
		}
	}

	switch {
	case strings.TrimSpace(item.Name) == "":
		return fmt.Errorf("%w: name is required", ErrInvalidItem)
	case strings.TrimSpace(item.Description) == "":
		return fmt.Errorf("%w: description is required", ErrInvalidItem)
	case strings.TrimSpace(item.Category) == "":
		return fmt.Errorf("%w: category is required", ErrInvalidItem)
	case math.IsNaN(item.Price) || math.IsInf(item.Price, 0):
		return fmt.Errorf("%w: price must be a number", ErrInvalidItem)
	case item.Price < 0:
		return fmt.Errorf("%w: price must be >= 0", ErrInvalidItem)
	}
	return nil
}

// ParsePrice разбирает цену, введенную пользователем.
func ParsePrice(s string) (float64, error) {
	p, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(p) || math.IsInf(p, 0) {
		return 0, fmt.Errorf("%w: price %q is not a number", ErrInvalidItem, s)
	}
	return p, nil
}

// Encode сериализует меню целиком для записи в хранилище.
func Encode(items []MenuItem) ([]byte, error) {
	if items == nil {
		items = []MenuItem{}
	}
	return json.Marshal(items)
}

// Decode восстанавливает меню из формата Encode.
func Decode(b []byte) ([]MenuItem, error) {
	var items []MenuItem
	if err := json.Unmarshal(b, &items); err != nil {
		return nil, fmt.Errorf("decode menu: %w", err)
	}
	if items == nil {
		items = []MenuItem{}
	}
	return items, nil
}
