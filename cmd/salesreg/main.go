package main

import (
	"os"

	"salesreg/internal/report"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		report.NewConsole(os.Stderr).Error("%v", err)
		os.Exit(1)
	}
}
