package results

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9_.-]+`)

// FileName возвращает имя файла результата: result_<name>.json.
func FileName(testName string) string {
	name := strings.Trim(unsafeName.ReplaceAllString(testName, "_"), "_")
	if name == "" {
		name = "unnamed"
	}
	return "result_" + name + ".json"
}

// WriteJSON пишет результат в dir/result_<name>.json и возвращает путь.
func WriteJSON(dir string, r TestResult) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create results dir: %w", err)
	}
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal result %q: %w", r.TestName, err)
	}
	path := filepath.Join(dir, FileName(r.TestName))
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

// ReadDir читает все *.json из dir, упорядочивая по n, затем по m.
// Нечитаемые файлы пропускаются; их ошибки возвращаются вместе с прочитанным.
func ReadDir(dir string) ([]TestResult, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read results dir: %w", err)
	}

	var (
		out  []TestResult
		errs []error
	)
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		var r TestResult
		if err := json.Unmarshal(data, &r); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", e.Name(), err))
			continue
		}
		out = append(out, r)
	}

	SortBySize(out)
	return out, errors.Join(errs...)
}

// SortBySize упорядочивает результаты по n, затем по m, затем по имени.
func SortBySize(rs []TestResult) {
	sort.SliceStable(rs, func(i, j int) bool {
		a, b := rs[i].Parameters, rs[j].Parameters
		if a.Jobs != b.Jobs {
			return a.Jobs < b.Jobs
		}
		if a.Machines != b.Machines {
			return a.Machines < b.Machines
		}
		return rs[i].TestName < rs[j].TestName
	})
}
