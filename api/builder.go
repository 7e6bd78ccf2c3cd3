package api

import (
	"github.com/iREALLYhateGit/MyCompiler/config"
	"github.com/iREALLYhateGit/MyCompiler/core"
)

// DriverBuilder creates a new instance of Driver.
type DriverBuilder struct {
	cfg config.Config
	io  core.IODevice
}

// NewDriverBuilder returns a builder that uses the default configuration.
func NewDriverBuilder() DriverBuilder {
	return DriverBuilder{cfg: config.Default()}
}

// WithConfig sets the configuration.
func (b DriverBuilder) WithConfig(cfg config.Config) DriverBuilder {
	b.cfg = cfg
	return b
}

// WithIODevice sets the device executed images read from and write to.
func (b DriverBuilder) WithIODevice(io core.IODevice) DriverBuilder {
	b.io = io
	return b
}

// Build creates a driver.
func (b DriverBuilder) Build(name string) Driver {
	if b.cfg.Concurrency < 1 {
		b.cfg.Concurrency = 1
	}
	if b.cfg.FreqGHz <= 0 {
		b.cfg.FreqGHz = 1
	}

	return &driverImpl{
		name: name,
		cfg:  b.cfg,
		io:   b.io,
	}
}
