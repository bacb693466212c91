package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"punch-payroll/internal/domain"
)

// DefaultFileName пишется рядом с входным файлом, если путь вывода не задан.
const DefaultFileName = "results.json"

// Encode выводит результаты JSON-объектом с отступом в два пробела, в порядке входа.
func Encode(results domain.Results) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(results); err != nil {
		return nil, fmt.Errorf("encode results: %w", err)
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte{'\n'}), nil
}

// DefaultOutputPath возвращает путь к файлу результатов рядом с input.
func DefaultOutputPath(input string) string {
	return filepath.Join(filepath.Dir(input), DefaultFileName)
}

// WriteFile пишет данные в path через временный файл: при ошибке недописанный файл не остаётся.
func WriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".results-*.json")
	if err != nil {
		return fmt.Errorf("create temp file in %s: %w", dir, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename to %s: %w", path, err)
	}
	return nil
}

// Emit кодирует результаты, дублирует их в echo (если не nil) и пишет в path.
// Если кодирование не удалось, ничего не пишется.
func Emit(results domain.Results, path string, echo io.Writer) error {
	data, err := Encode(results)
	if err != nil {
		return err
	}
	if echo != nil {
		if _, err := fmt.Fprintln(echo, string(data)); err != nil {
			return err
		}
	}
	return WriteFile(path, data)
}
