// =============================================
// File: internal/task/task.go
// =============================================

// Package task loads swap task definitions from a YAML file for batch runs.
package task

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Operation names the side of a task's swap.
type Operation string

const (
	OperationBuy  Operation = "buy"
	OperationSell Operation = "sell"
)

const defaultSlippageBPS = 100

// Task is one swap to execute in a batch run.
type Task struct {
	ID          int
	Name        string
	Mint        string
	Operation   Operation
	AmountIn    uint64
	SlippageBPS uint64
}

// Manager loads and parses task definitions.
type Manager struct {
	logger *zap.Logger
}

// NewManager constructs a Manager with the given logger.
func NewManager(logger *zap.Logger) *Manager {
	return &Manager{logger: logger.Named("task")}
}

type taskFile struct {
	Tasks []struct {
		TaskName    string `yaml:"task_name"`
		TokenMint   string `yaml:"token_mint"`
		Operation   string `yaml:"operation"`
		Amount      uint64 `yaml:"amount"`
		SlippageBPS uint64 `yaml:"slippage_bps"`
	} `yaml:"tasks"`
}

func parseOperation(s string) (Operation, error) {
	op := Operation(s)
	switch op {
	case OperationBuy, OperationSell:
		return op, nil
	default:
		return "", fmt.Errorf("unsupported operation: %q", s)
	}
}

// LoadTasks reads task definitions from a YAML file. Malformed tasks are
// skipped with a warning; an empty result is an error.
func (m *Manager) LoadTasks(path string) ([]*Task, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var file taskFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if len(file.Tasks) == 0 {
		return nil, fmt.Errorf("no tasks found in configuration")
	}

	tasks := make([]*Task, 0, len(file.Tasks))
	for i, raw := range file.Tasks {
		op, err := parseOperation(raw.Operation)
		if err != nil {
			m.logger.Warn("Skipping invalid task",
				zap.String("task_name", raw.TaskName),
				zap.Error(err))
			continue
		}
		if raw.Amount == 0 {
			m.logger.Warn("Skipping task with zero amount",
				zap.String("task_name", raw.TaskName))
			continue
		}

		slippage := raw.SlippageBPS
		if slippage == 0 {
			slippage = defaultSlippageBPS
		}

		tasks = append(tasks, &Task{
			ID:          i,
			Name:        raw.TaskName,
			Mint:        raw.TokenMint,
			Operation:   op,
			AmountIn:    raw.Amount,
			SlippageBPS: slippage,
		})
	}

	if len(tasks) == 0 {
		return nil, fmt.Errorf("no valid tasks in configuration")
	}
	return tasks, nil
}
