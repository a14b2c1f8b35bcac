// Package config provides configuration management for the conscious
// binaries.
//
// # Configuration File
//
// The configuration is stored at ~/.conscious/config.yaml and is created
// with defaults on first use. The file structure mirrors the structs in this
// package: kernel, logging, persistence, server and dream sections.
//
// # Environment Variables
//
// Every key can be overridden with a CONSCIOUS_ environment variable. Nested
// keys are joined by underscores.
//
// Examples:
//   - CONSCIOUS_KERNEL_MAX_STEPS=12
//   - CONSCIOUS_KERNEL_ENABLE_CIPS=true
//   - CONSCIOUS_PERSISTENCE_DRIVER=sqlite
//   - CONSCIOUS_LOGGING_LEVEL=debug
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    return err
//	}
//	if err := cfg.Validate(); err != nil {
//	    return err
//	}
//	k, err := kernel.New(cfg.Kernel.ToOptions())
package config
