package config

import (
	"testing"

	"github.com/rtemka/menu/domain"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		want    Config
		wantErr bool
	}{
		{
			name: "defaults",
			env:  map[string]string{PortEnv: ":8080"},
			want: Config{
				Port:    ":8080",
				Storage: StorageFile,
				Key:     domain.MenuKey,
				FileDir: "./data",
				DB:      DBConfig{Database: "menu", Collection: "kv", Table: "menu_kv"},
			},
		},
		{
			name: "mongo",
			env: map[string]string{
				PortEnv:     ":9000",
				StorageEnv:  StorageMongo,
				DBEnv:       "mongodb://localhost:27017",
				MongoColEnv: "items",
				KeyEnv:      "menu",
			},
			want: Config{
				Port:    ":9000",
				Storage: StorageMongo,
				Key:     "menu",
				FileDir: "./data",
				DB: DBConfig{
					URL:        "mongodb://localhost:27017",
					Database:   "menu",
					Collection: "items",
					Table:      "menu_kv",
				},
			},
		},
		{
			name:    "postgres without url",
			env:     map[string]string{PortEnv: ":8080", StorageEnv: StoragePostgres},
			wantErr: true,
		},
		{
			name:    "unknown storage",
			env:     map[string]string{PortEnv: ":8080", StorageEnv: "redis"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, k := range []string{PortEnv, StorageEnv, FileDirEnv, DBEnv, MongoDBEnv, MongoColEnv, PostgresTbEnv, KeyEnv} {
				t.Setenv(k, tt.env[k])
			}

			got, err := Load()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Load() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && *got != tt.want {
				t.Errorf("Load() = %+v, want %+v", *got, tt.want)
			}
		})
	}
}
