package dotenv

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// Load подгружает переменные из существующих файлов в порядке приоритета:
// godotenv не перезаписывает уже выставленные значения, поэтому выигрывает
// окружение процесса, затем первый файл в списке. Отсутствующие файлы пропускаются.
func Load(files ...string) ([]string, error) {
	loaded := make([]string, 0, len(files))
	for _, file := range files {
		if _, err := os.Stat(file); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return loaded, fmt.Errorf("stat %s: %w", file, err)
		}

		if err := godotenv.Load(file); err != nil {
			return loaded, fmt.Errorf("load %s: %w", file, err)
		}
		loaded = append(loaded, file)
	}
	return loaded, nil
}

// OverrideEnv выставляет значение из флага командной строки поверх окружения.
func OverrideEnv(key, value string) error {
	if value == "" {
		return nil
	}
	if err := os.Setenv(key, value); err != nil {
		return fmt.Errorf("failed to set %s environment variable: %w", key, err)
	}
	return nil
}
