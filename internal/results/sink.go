package results

import (
	"context"
	"errors"
)

// Sink принимает результаты по мере их появления.
type Sink interface {
	Save(ctx context.Context, r TestResult) error
}

// DirSink пишет каждый результат JSON-файлом в каталог.
type DirSink string

func (d DirSink) Save(_ context.Context, r TestResult) error {
	_, err := WriteJSON(string(d), r)
	return err
}

// MultiSink раздаёт результат всем приёмникам; ошибка одного не останавливает остальные.
type MultiSink []Sink

func (ms MultiSink) Save(ctx context.Context, r TestResult) error {
	var errs []error
	for _, s := range ms {
		if err := s.Save(ctx, r); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
