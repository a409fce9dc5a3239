// Пакет config собирает настройки приложения из окружения.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rtemka/menu/domain"
)

// переменные окружения.
const (
	PortEnv       = "APP_PORT"
	StorageEnv    = "MENU_STORAGE"
	FileDirEnv    = "MENU_FILE_DIR"
	DBEnv         = "DB_URL"
	MongoDBEnv    = "MONGO_DATABASE"
	MongoColEnv   = "MONGO_COLLECTION"
	PostgresTbEnv = "PG_TABLE"
	KeyEnv        = "MENU_KEY"
)

// Виды хранилища.
const (
	StorageMemory   = "memory"
	StorageFile     = "file"
	StorageMongo    = "mongo"
	StoragePostgres = "postgres"
)

type Config struct {
	Port    string
	Storage string
	Key     string
	FileDir string
	DB      DBConfig
}

type DBConfig struct {
	URL        string
	Database   string // mongo
	Collection string // mongo
	Table      string // postgres
}

// Load загружает .env, если он есть, и читает окружение.
func Load() (*Config, error) {
	_ = godotenv.Load() // загружаем переменные окружения

	em, err := envs(PortEnv)
	if err != nil {
		return nil, err
	}

	cfg := Config{
		Port:    em[PortEnv],
		Storage: getEnv(StorageEnv, StorageFile),
		Key:     getEnv(KeyEnv, domain.MenuKey),
		FileDir: getEnv(FileDirEnv, "./data"),
		DB: DBConfig{
			URL:        os.Getenv(DBEnv),
			Database:   getEnv(MongoDBEnv, "menu"),
			Collection: getEnv(MongoColEnv, "kv"),
			Table:      getEnv(PostgresTbEnv, "menu_kv"),
		},
	}

	switch cfg.Storage {
	case StorageMemory, StorageFile:
	case StorageMongo, StoragePostgres:
		if cfg.DB.URL == "" {
			return nil, fmt.Errorf("environment variable %q must be set for %s storage", DBEnv, cfg.Storage)
		}
	default:
		return nil, fmt.Errorf("unknown storage %q", cfg.Storage)
	}

	return &cfg, nil
}

// envs собирает ожидаемые переменные окружения,
// возвращает ошибку, если какая-либо из переменных env не задана.
func envs(envs ...string) (map[string]string, error) {
	em := make(map[string]string, len(envs))
	var ok bool
	for _, env := range envs {
		if em[env], ok = os.LookupEnv(env); !ok {
			return nil, fmt.Errorf("environment variable %q must be set", env)
		}
	}
	return em, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
