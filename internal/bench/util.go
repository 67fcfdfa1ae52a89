package bench

import (
	"fmt"
	"math/rand"
	"path/filepath"
	"strconv"
	"strings"
)

func randForSeed(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// ParsePairs разбирает список "50x10,100x20" в случаи. Случай k получает
// сид экземпляров instanceSeed + 1000*k, чтобы серии не пересекались.
func ParsePairs(s string, instanceSeed int64) ([]Case, error) {
	var cases []Case
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		nStr, mStr, ok := strings.Cut(strings.ToLower(part), "x")
		if !ok {
			return nil, fmt.Errorf("invalid pair %q: want NxM", part)
		}
		n, err := strconv.Atoi(strings.TrimSpace(nStr))
		if err != nil {
			return nil, fmt.Errorf("invalid pair %q: %w", part, err)
		}
		m, err := strconv.Atoi(strings.TrimSpace(mStr))
		if err != nil {
			return nil, fmt.Errorf("invalid pair %q: %w", part, err)
		}
		if m < 1 || n <= m {
			return nil, fmt.Errorf("invalid pair %q: need n > m >= 1", part)
		}
		cases = append(cases, Case{
			Jobs:         n,
			Machines:     m,
			InstanceSeed: instanceSeed + 1000*int64(len(cases)),
		})
	}
	if len(cases) == 0 {
		return nil, fmt.Errorf("no pairs given")
	}
	return cases, nil
}

func dirOf(path string) string {
	d := filepath.Dir(path)
	if d == "." {
		return ""
	}
	return d
}

func itoa(v int) string { return strconv.Itoa(v) }

func ftoa(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}
