// Package jsonstore управляет хранением данных бота в JSON-файлах.
// Один файл — один логический набор данных (ранги, карма, кулдауны и т.д.).
//
// Жизненный цикл: файл читается один раз при старте, все изменения
// происходят в памяти и синхронно сбрасываются на диск после каждой
// мутации. Хранилище рассчитано ровно на один живой процесс: при
// нескольких экземплярах, разделяющих файлы, целостность не гарантируется.
package jsonstore

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	log "github.com/sirupsen/logrus"
)

// Store хранит один JSON-документ типа T и путь к его файлу.
// Mutex защищает документ от гонки между циклом обработки апдейтов
// и фоновыми задачами (бэкап, чистка кулдаунов).
type Store[T any] struct {
	path string
	mu   sync.Mutex
	doc  T
}

// Open загружает документ из файла или создаёт файл с пустым документом.
// Нечитаемый или битый файл НЕ фатален: документ сбрасывается в пустой
// и файл пересоздаётся (поведение оригинального бота).
func Open[T any](path string, empty func() T) (*Store[T], error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("не удалось создать папку данных: %w", err)
	}

	s := &Store[T]{path: path, doc: empty()}

	raw, err := os.ReadFile(path)
	if err == nil {
		err = json.Unmarshal(raw, &s.doc)
	}
	if err != nil {
		if !os.IsNotExist(err) {
			log.WithError(err).WithField("file", path).Warn("Файл данных не прочитан, начинаем с пустого")
			s.doc = empty()
		}
		if err := s.flushLocked(); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Path возвращает путь к файлу хранилища.
func (s *Store[T]) Path() string { return s.path }

// View выполняет fn с документом под блокировкой, только для чтения.
// fn не должна сохранять ссылки на внутренности документа.
func (s *Store[T]) View(fn func(doc T)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.doc)
}

// Update выполняет fn с документом под блокировкой.
// Если fn вернула ошибку — изменений на диске нет и ошибка отдаётся
// вызывающему. Если fn вернула changed=false (например, отклонённая
// предусловием операция) — файл не трогаем. Иначе документ синхронно
// сбрасывается на диск до возврата.
func (s *Store[T]) Update(fn func(doc T) (changed bool, err error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	changed, err := fn(s.doc)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}
	return s.flushLocked()
}

// flushLocked пишет документ атомарно: во временный файл, затем rename.
// Вызывается только под s.mu.
func (s *Store[T]) flushLocked() error {
	data, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("ошибка сериализации %s: %w", s.path, err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("ошибка записи %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("ошибка сохранения %s: %w", s.path, err)
	}
	return nil
}

// Backup копирует текущий файл хранилища в <path>.bak.
// Используется ежедневной фоновой задачей.
func (s *Store[T]) Backup() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	src, err := os.Open(s.path)
	if err != nil {
		return fmt.Errorf("бэкап %s: %w", s.path, err)
	}
	defer src.Close()

	dst, err := os.Create(s.path + ".bak")
	if err != nil {
		return fmt.Errorf("бэкап %s: %w", s.path, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("бэкап %s: %w", s.path, err)
	}
	return nil
}
