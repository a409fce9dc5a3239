package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/rtemka/menu/domain"
)

// itemRequest тело запроса на добавление или изменение.
// Цена приходит числом или строкой из поля ввода.
type itemRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Price       json.RawMessage `json:"price"`
	ImageURI    string          `json:"imageUri"`
}

func (req itemRequest) item() (item, error) {
	price, err := parsePrice(req.Price)
	if err != nil {
		return item{}, fmt.Errorf("%w: %v", ErrBadInput, err)
	}

	return item{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Price:       price,
		ImageURI:    req.ImageURI,
	}, nil
}

func decodeItem(r *http.Request) (item, error) {
	var req itemRequest
	err := json.NewDecoder(io.LimitReader(r.Body, maxBody)).Decode(&req)
	if err != nil {
		return item{}, fmt.Errorf("%w: bad JSON string in request body", ErrBadInput)
	}
	return req.item()
}

// decodeItems читает массив позиций для замены меню.
func decodeItems(r *http.Request) ([]item, error) {
	var reqs []itemRequest
	err := json.NewDecoder(io.LimitReader(r.Body, maxBody)).Decode(&reqs)
	if err != nil || reqs == nil {
		return nil, fmt.Errorf("%w: request body must be a JSON array of items", ErrBadInput)
	}

	items := make([]item, 0, len(reqs))
	for i, req := range reqs {
		it, err := req.item()
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		items = append(items, it)
	}
	return items, nil
}

func parsePrice(raw json.RawMessage) (float64, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, fmt.Errorf("price is required")
	}

	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, err
		}
		return domain.ParsePrice(s)
	}

	var p float64
	if err := json.Unmarshal(raw, &p); err != nil {
		return 0, fmt.Errorf("price must be a number")
	}
	return p, nil
}
