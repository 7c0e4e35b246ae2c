package storage

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"focusconsole/internal/domain/ports"
)

// DefaultHistoryLimit - сколько последних команд хранится в файле истории.
const DefaultHistoryLimit = 1000

// FileHistory реализует интерфейс ports.History: текстовый файл, одна команда на строку.
// Новые команды дописываются в конец файла.
type FileHistory struct {
	mu       sync.Mutex
	filePath string
	limit    int
	entries  []string
}

// NewFileHistory загружает историю из filePath. Если записей больше limit,
// файл перезаписывается последними limit записями.
func NewFileHistory(filePath string, limit int) (ports.History, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	h := &FileHistory{
		filePath: filePath,
		limit:    limit,
	}

	if err := h.loadFromFile(); err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}

	if len(h.entries) > h.limit {
		h.entries = h.entries[len(h.entries)-h.limit:]
		if err := h.saveToFile(); err != nil {
			return nil, fmt.Errorf("compact history: %w", err)
		}
	}

	return h, nil
}

// Entries возвращает копию загруженных записей.
func (h *FileHistory) Entries() []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	result := make([]string, len(h.entries))
	copy(result, h.entries)
	return result
}

// Append дописывает команду в историю. Пустые строки и повтор последней команды пропускаются.
func (h *FileHistory) Append(line string) error {
	line = strings.TrimRight(line, "\r\n")
	if strings.TrimSpace(line) == "" {
		return nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if n := len(h.entries); n > 0 && h.entries[n-1] == line {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(h.filePath), 0o755); err != nil {
		return fmt.Errorf("create history dir: %w", err)
	}
	f, err := os.OpenFile(h.filePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(line + "\n"); err != nil {
		return fmt.Errorf("write history: %w", err)
	}

	h.entries = append(h.entries, line)
	if len(h.entries) > h.limit {
		h.entries = h.entries[len(h.entries)-h.limit:]
	}
	return nil
}

// loadFromFile читает файл истории; отсутствие файла - не ошибка
func (h *FileHistory) loadFromFile() error {
	f, err := os.Open(h.filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			h.entries = nil
			return nil
		}
		return err
	}
	defer f.Close()

	var entries []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if line := strings.TrimRight(scanner.Text(), "\r"); line != "" {
			entries = append(entries, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	h.entries = entries
	return nil
}

// saveToFile перезаписывает файл текущими записями через временный файл
func (h *FileHistory) saveToFile() error {
	var sb strings.Builder
	for _, e := range h.entries {
		sb.WriteString(e)
		sb.WriteByte('\n')
	}

	tmp := h.filePath + ".tmp"
	if err := os.WriteFile(tmp, []byte(sb.String()), 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, h.filePath)
}
