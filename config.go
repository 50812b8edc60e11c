//////////////////////////////////////////////////////////////////////////////
//
// Config contains configuration data for Engine
//
// Copyright 2019 Lanikai Labs. All rights reserved.
//
//////////////////////////////////////////////////////////////////////////////

package alohactr

import (
	"runtime"

	"github.com/lanikai/alohactr/internal/logging"
)

// DefaultMaxWorkers is the scratch table capacity used when Config leaves
// MaxWorkers unset.
const DefaultMaxWorkers = 256

type Config struct {
	// Number of entries in the engine's shared scratch table. UnpaddedArray
	// and PaddedArray calls may not request more workers than this.
	MaxWorkers int

	// Destination for engine logs. Defaults to the "ctr" tagged logger.
	Logger *logging.Logger
}

func DefaultConfig() Config {
	return Config{
		MaxWorkers: DefaultMaxWorkers,
		Logger:     log,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.MaxWorkers == 0 {
		c.MaxWorkers = d.MaxWorkers
	}
	if c.Logger == nil {
		c.Logger = d.Logger
	}
	return c
}

// DefaultWorkers is the worker count a caller gets by not choosing one: one
// worker per schedulable CPU.
func DefaultWorkers() int {
	return runtime.GOMAXPROCS(0)
}
