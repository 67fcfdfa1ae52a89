package opt

import (
	"context"
	"time"

	"chainShop/internal/chain"
)

// Solver — общая способность «решить задачу о разбиении на цепочки».
// Комбинаторный поиск, целочисленная модель и эвристики реализуют один интерфейс,
// и стенд сравнения зависит только от него.
type Solver interface {
	Solve(ctx context.Context, inst *chain.Instance) (Outcome, error)
}

type Status string

const (
	StatusOptimal      Status = "optimal"
	StatusFeasible     Status = "feasible"
	StatusInfeasible   Status = "infeasible"
	StatusTimeLimit    Status = "time_limit"
	StatusInvalidInput Status = "invalid_input"
	StatusError        Status = "error"
)

// HasSolution сообщает, содержит ли результат makespan и разбиение.
// time_limit с найденным решением тоже считается: значение — верхняя оценка оптимума.
func (s Status) HasSolution() bool {
	switch s {
	case StatusOptimal, StatusFeasible, StatusTimeLimit:
		return true
	}
	return false
}

// Outcome — результат одного запуска солвера.
// Makespan и Partition заполнены только если Status.HasSolution(); иначе проверяйте Status.
type Outcome struct {
	Algorithm string          `json:"algorithm"`
	Status    Status          `json:"status"`
	Makespan  int             `json:"makespan"`
	Partition chain.Partition `json:"partition,omitempty"`

	// BlockMachines[b] — номер машины блока b; nil означает блок b на машине b.
	BlockMachines []int         `json:"block_machines,omitempty"`
	Loads         []int         `json:"machine_loads,omitempty"`
	Elapsed       time.Duration `json:"elapsed"`

	// комбинаторный поиск
	OracleCalls int `json:"oracle_calls,omitempty"`

	// целочисленная модель
	Gap   float64 `json:"gap,omitempty"`
	Nodes int     `json:"nodes,omitempty"`

	Meta map[string]any `json:"meta,omitempty"`
}

func (o Outcome) Valid() bool {
	return o.Status.HasSolution() && len(o.Partition) > 0
}

// Machine возвращает номер машины блока b.
func (o Outcome) Machine(b int) int {
	if b < len(o.BlockMachines) {
		return o.BlockMachines[b]
	}
	return b
}
