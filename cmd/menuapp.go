package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/rtemka/menu/domain"
	"github.com/rtemka/menu/pkg/api"
	"github.com/rtemka/menu/pkg/config"
	"github.com/rtemka/menu/pkg/gateway/file"
	"github.com/rtemka/menu/pkg/gateway/memdb"
	"github.com/rtemka/menu/pkg/gateway/mongo"
	"github.com/rtemka/menu/pkg/gateway/postgres"
	"github.com/rtemka/menu/pkg/projection"
	"github.com/rtemka/menu/pkg/store"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	gw, err := gateway(cfg)
	if err != nil {
		return err
	}
	defer gw.Close()

	// создание контекста для регулирования
	// закрытие всех подсистем
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sl := log.New(os.Stdout, "Store:", log.Lmsgprefix|log.LstdFlags)
	menu := store.New(ctx, gw, cfg.Key, sl)
	unsubscribe := menu.Subscribe(func(items []domain.MenuItem) {
		st := projection.Summarize(items)
		sl.Printf("menu: %d items, total price %.2f, average price %.2f", st.Count, st.Total, st.Average)
	})
	defer unsubscribe()
	menu.Initialize(ctx)

	var wg sync.WaitGroup
	wg.Add(1)

	al := log.New(os.Stdout, "API:", log.Lmsgprefix|log.LstdFlags)

	servers := []*http.Server{
		startRestServer(menu, al, cfg.Port, &wg),
	}

	// логика закрытия сервера
	cancelation(cancel, servers)

	wg.Wait()
	menu.Flush() // дописываем последнее изменение меню

	return nil
}

// gateway открывает хранилище, выбранное в настройках.
func gateway(cfg *config.Config) (domain.Gateway, error) {
	switch cfg.Storage {
	case config.StorageMemory:
		return memdb.New(), nil
	case config.StorageMongo:
		return mongo.New(cfg.DB.URL, cfg.DB.Database, cfg.DB.Collection)
	case config.StoragePostgres:
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return postgres.New(ctx, cfg.DB.URL, cfg.DB.Table)
	default:
		return file.New(cfg.FileDir)
	}
}

// cancellation отслеживает сигналы прерывания и,
// если они получены, "мягко" отменяет контекст приложения и
// гасит серверы.
func cancelation(cancel context.CancelFunc, servers []*http.Server) {
	// ловим сигналов прерывания, типа CTRL-C
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGHUP, syscall.SIGTERM, syscall.SIGQUIT)
	go func() {
		sig := <-stop // получили сигнал
		log.Printf("got signal %q", sig)

		// закрываем серверы
		for i := range servers {
			if err := servers[i].Shutdown(context.Background()); err != nil {
				log.Fatal(err)
			}
		}

		cancel() // закрываем контекст приложения
	}()
}

// startRestServer запускает сервер REST API.
func startRestServer(menu api.Menu, logger *log.Logger, addr string, wg *sync.WaitGroup) *http.Server {
	// REST API
	api := api.New(menu, logger)

	// конфигурируем сервер
	srv := &http.Server{
		Addr:              addr,
		Handler:           api.Router(),
		IdleTimeout:       3 * time.Minute,
		ReadHeaderTimeout: time.Minute,
	}

	go func() {
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatal(err)
		}
		logger.Println("server is shut down")
		wg.Done()
	}()
	return srv
}
