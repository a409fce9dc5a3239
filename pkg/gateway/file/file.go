// Пакет file хранит значения в файлах каталога,
// по файлу на ключ.
package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"

	"github.com/rtemka/menu/domain"
)

var validKey = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// Dir хранилище в каталоге dir.
type Dir struct {
	dir string
}

// New создает каталог, если его нет.
func New(dir string) (*Dir, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Dir{dir: dir}, nil
}

func (d *Dir) path(key string) (string, error) {
	if !validKey.MatchString(key) || key == "." || key == ".." {
		return "", fmt.Errorf("invalid key %q", key)
	}
	return filepath.Join(d.dir, key+".json"), nil
}

// Load читает значение по ключу или возвращает domain.ErrNotFound.
func (d *Dir) Load(_ context.Context, key string) ([]byte, error) {
	p, err := d.path(key)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, domain.ErrNotFound
	}
	return b, err
}

// Save пишет значение во временный файл и переименовывает
// его, чтобы при сбое не остался обрезанный файл.
func (d *Dir) Save(_ context.Context, key string, value []byte) error {
	p, err := d.path(key)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(d.dir, key+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(value); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), p)
}

// Close ничего не делает.
func (d *Dir) Close() error { return nil }
