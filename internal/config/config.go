// Package config loads scheduler-wide defaults from TOML: the
// branch-and-bound budget and bounding epsilon, MCTS defaults, the rollout
// swap default, and observability toggles. This configures scheduler
// options, not a CLI — no flags, no command dispatch.
package config

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
)

// BranchAndBound holds the branch-and-bound driver's default options.
type BranchAndBound struct {
	// BudgetSeconds is the default wall-clock search budget; zero means
	// unbounded.
	BudgetSeconds float64 `toml:"budget_seconds"`
	// Eps is the bound-invariant tolerance (loss_lower <= loss_upper + eps).
	Eps float64 `toml:"eps"`
}

// MCTS holds the default Monte-Carlo tree search parameters.
type MCTS struct {
	NMC  int     `toml:"n_mc"`
	CUCT float64 `toml:"c_uct"`
}

// Rollout holds the default rollout-heuristic options.
type Rollout struct {
	DoSwap bool `toml:"do_swap"`
}

// Observability holds metrics/diagnostics toggles.
type Observability struct {
	MetricsEnabled bool   `toml:"metrics_enabled"`
	DiagnosticsDB  string `toml:"diagnostics_db"`
}

// Config is the top-level scheduler configuration.
type Config struct {
	BranchAndBound BranchAndBound `toml:"branch_and_bound"`
	MCTS           MCTS           `toml:"mcts"`
	Rollout        Rollout        `toml:"rollout"`
	Observability  Observability  `toml:"observability"`
}

// DefaultConfig returns the built-in defaults used when no config file is
// supplied.
func DefaultConfig() Config {
	return Config{
		BranchAndBound: BranchAndBound{
			BudgetSeconds: 0,
			Eps:           1e-9,
		},
		MCTS: MCTS{
			NMC:  1000,
			CUCT: 1.0,
		},
		Rollout: Rollout{
			DoSwap: true,
		},
		Observability: Observability{
			MetricsEnabled: true,
			DiagnosticsDB:  "chansched.sqlite",
		},
	}
}

// Load reads and parses a TOML configuration file at path, filling in
// defaults for any section left unset.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: load %s: %w", path, err)
	}
	return cfg, nil
}

// Budget converts BudgetSeconds into a time.Duration; zero means unbounded.
func (b BranchAndBound) Budget() time.Duration {
	if b.BudgetSeconds <= 0 {
		return 0
	}
	return time.Duration(b.BudgetSeconds * float64(time.Second))
}
