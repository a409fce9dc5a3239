package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"

	"github.com/gorilla/mux"
	"github.com/rtemka/menu/domain"
	"github.com/rtemka/menu/pkg/projection"
)

type item = domain.MenuItem

var (
	ErrInternal = errors.New("internal server error")
	ErrBadInput = errors.New("invalid input")
	ErrNotFound = errors.New("menu item not found")
)

// максимальный размер тела запроса
const maxBody = 1 << 20

// Menu то, что API требует от хранилища меню.
type Menu interface {
	Snapshot() []item
	Get(name string) (item, bool)
	Add(item) error
	Update(name string, it item) (bool, error)
	DeleteByName(name string) bool
	ReplaceAll(items []item) error
}

// API приложения.
type API struct {
	router *mux.Router
	menu   Menu
	logger *log.Logger
}

// Возвращает новый объект *API
func New(menu Menu, logger *log.Logger) *API {
	api := API{
		// имя позиции может содержать '/', поэтому маршруты
		// сопоставляются по закодированному пути
		router: mux.NewRouter().UseEncodedPath(),
		menu:   menu,
		logger: logger,
	}
	api.endpoints()

	return &api
}

// Router возвращает маршрутизатор запросов.
func (api *API) Router() *mux.Router {
	return api.router
}

func (api *API) endpoints() {
	api.router.Use(
		api.logRequestMiddleware,
		api.closerMiddleware,
		api.headersMiddleware,
	)

	api.router.HandleFunc("/items", api.itemsHandlerList()).Methods(http.MethodGet, http.MethodOptions)
	api.router.HandleFunc("/items", api.itemsHandlerPost()).Methods(http.MethodPost, http.MethodOptions)
	api.router.HandleFunc("/items", api.itemsHandlerReplace()).Methods(http.MethodPut, http.MethodOptions)
	api.router.HandleFunc("/items/{name}", api.itemsHandlerGet()).Methods(http.MethodGet, http.MethodOptions)
	api.router.HandleFunc("/items/{name}", api.itemsHandlerPut()).Methods(http.MethodPut, http.MethodOptions)
	api.router.HandleFunc("/items/{name}", api.itemsHandlerDelete()).Methods(http.MethodDelete, http.MethodOptions)
	api.router.HandleFunc("/stats", api.statsHandler()).Methods(http.MethodGet, http.MethodOptions)
	api.router.HandleFunc("/categories", api.categoriesHandler()).Methods(http.MethodGet, http.MethodOptions)
}

// headersMiddleware задает обычные заголовки для всех ответов.
func (api *API) headersMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			return
		}
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

// closerMiddleware считывает и закрывает тело запроса
// для повторного использования TCP-соединения.
func (api *API) closerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r)
		_, _ = io.Copy(io.Discard, r.Body)
		_ = r.Body.Close()
	})
}

// logRequestMiddleware логирует request
func (api *API) logRequestMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r)
		api.logger.Printf("method=%s path=%s query=%s vars=%s remote=%s",
			r.Method, r.URL.Path, r.URL.Query(), mux.Vars(r), r.RemoteAddr)
	})
}

func (api *API) WriteJSONError(w http.ResponseWriter, err error, code int) {
	w.WriteHeader(code)
	msg := map[string]string{"error": err.Error()}
	_ = json.NewEncoder(w).Encode(&msg)
}

func (api *API) WriteJSON(w http.ResponseWriter, data any, code int) {
	w.WriteHeader(code)
	if data == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(data)
}

// nameVar возвращает раскодированное имя позиции из пути.
func nameVar(r *http.Request) (string, error) {
	name, err := url.PathUnescape(mux.Vars(r)["name"])
	if err != nil {
		return "", fmt.Errorf("%w: bad 'name' path parameter", ErrBadInput)
	}
	return name, nil
}

// query читает фильтр экрана из параметров запроса.
func query(r *http.Request) projection.Query {
	return projection.Query{
		Category: r.URL.Query().Get("category"),
		Text:     r.URL.Query().Get("q"),
	}
}

// itemsHandlerList возвращает меню с учетом фильтров.
func (api *API) itemsHandlerList() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items := query(r).Apply(api.menu.Snapshot())
		api.WriteJSON(w, items, http.StatusOK)
	}
}

// itemsHandlerGet возвращает позицию по имени.
func (api *API) itemsHandlerGet() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name, err := nameVar(r)
		if err != nil {
			api.WriteJSONError(w, err, http.StatusBadRequest)
			return
		}

		it, ok := api.menu.Get(name)
		if !ok {
			api.WriteJSONError(w, fmt.Errorf("%w: %q", ErrNotFound, name), http.StatusNotFound)
			return
		}
		api.WriteJSON(w, it, http.StatusOK)
	}
}

// itemsHandlerPost добавляет позицию в меню.
func (api *API) itemsHandlerPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		it, err := decodeItem(r)
		if err != nil {
			api.WriteJSONError(w, err, http.StatusBadRequest)
			return
		}

		err = api.menu.Add(it)
		if err != nil {
			api.writeStoreError(w, err)
			return
		}
		api.WriteJSON(w, it, http.StatusCreated)
	}
}

// itemsHandlerReplace заменяет меню целиком.
func (api *API) itemsHandlerReplace() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := decodeItems(r)
		if err != nil {
			api.WriteJSONError(w, err, http.StatusBadRequest)
			return
		}

		err = api.menu.ReplaceAll(items)
		if err != nil {
			api.writeStoreError(w, err)
			return
		}
		api.WriteJSON(w, map[string]any{"replaced": map[string]int{"count": len(items)}}, http.StatusOK)
	}
}

// itemsHandlerPut заменяет позицию целиком.
func (api *API) itemsHandlerPut() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name, err := nameVar(r)
		if err != nil {
			api.WriteJSONError(w, err, http.StatusBadRequest)
			return
		}

		it, err := decodeItem(r)
		if err != nil {
			api.WriteJSONError(w, err, http.StatusBadRequest)
			return
		}

		found, err := api.menu.Update(name, it)
		if err != nil {
			api.writeStoreError(w, err)
			return
		}
		if !found {
			api.WriteJSONError(w, fmt.Errorf("%w: %q", ErrNotFound, name), http.StatusNotFound)
			return
		}
		api.WriteJSON(w, map[string]any{"updated": map[string]string{"name": name}}, http.StatusOK)
	}
}

// itemsHandlerDelete удаляет позицию по имени.
func (api *API) itemsHandlerDelete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name, err := nameVar(r)
		if err != nil {
			api.WriteJSONError(w, err, http.StatusBadRequest)
			return
		}

		if !api.menu.DeleteByName(name) {
			api.WriteJSONError(w, fmt.Errorf("%w: %q", ErrNotFound, name), http.StatusNotFound)
			return
		}
		api.WriteJSON(w, map[string]any{"deleted": map[string]string{"name": name}}, http.StatusOK)
	}
}

// statsHandler возвращает количество, сумму и среднюю цену.
func (api *API) statsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items := query(r).Apply(api.menu.Snapshot())
		api.WriteJSON(w, projection.Summarize(items), http.StatusOK)
	}
}

// categoriesHandler возвращает известные категории и
// категории, которые есть в меню.
func (api *API) categoriesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items := api.menu.Snapshot()
		api.WriteJSON(w, map[string]any{
			"known":   domain.Categories,
			"present": projection.Categories(items),
			"average": projection.AverageByCategory(items),
		}, http.StatusOK)
	}
}

func (api *API) writeStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, domain.ErrInvalidItem) {
		api.WriteJSONError(w, fmt.Errorf("%w: %v", ErrBadInput, err), http.StatusBadRequest)
		return
	}
	api.logger.Println(err)
	api.WriteJSONError(w, ErrInternal, http.StatusInternalServerError)
}
