// Package all imports all transaction sub-packages to trigger their init() registrations.
// Import this package in the main application to ensure all transaction types are registered.
package all

import (
	"github.com/LeJamon/goEscrowd/internal/core/tx"
	_ "github.com/LeJamon/goEscrowd/internal/core/tx/escrow"
	"github.com/LeJamon/goEscrowd/internal/core/tx/system"
	"github.com/LeJamon/goEscrowd/internal/core/tx/token"
)

// Wire fills in the system and token programs on cfg.
func Wire(cfg tx.EngineConfig) tx.EngineConfig {
	cfg.System = system.NewProgram()
	cfg.Assets = token.NewProgram(cfg.TokenProgramID)
	return cfg
}

// DefaultEngineConfig returns tx.DefaultEngineConfig with both programs wired.
func DefaultEngineConfig() tx.EngineConfig {
	return Wire(tx.DefaultEngineConfig())
}
