package main

import (
	"fmt"
	"os"

	"github.com/TEENet-io/kbridge-go/cmd"
	"github.com/TEENet-io/kbridge-go/logconfig"
)

func main() {
	cfg, err := cmd.LoadConfig()
	if err != nil {
		fmt.Printf("Error loading configuration: %s\n", err)
		os.Exit(1)
	}
	if !logconfig.ConfigLogger(cfg.LogLevel) {
		fmt.Printf("Unknown LOG_LEVEL %q, using info\n", cfg.LogLevel)
	}

	fmt.Println("Starting reporter... press Ctrl+C to stop")
	if err := cmd.StartReporterServerAndWait(cfg); err != nil {
		fmt.Printf("Reporter error: %s\n", err)
		os.Exit(1)
	}
}
