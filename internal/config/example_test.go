package config_test

import (
	"fmt"

	"github.com/Mukesh1q2/Brahm-sub001/internal/config"
)

func ExampleKernelConfig_ToOptions() {
	cfg := config.Default()
	cfg.Kernel.MaxSteps = 3
	cfg.Kernel.EnableCIPS = true

	opts := cfg.Kernel.ToOptions()
	fmt.Println(opts.MaxSteps, opts.EnableCIPS, opts.ModuleProfile)
	// Output: 3 true enhanced
}
