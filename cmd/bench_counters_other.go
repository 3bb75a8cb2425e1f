//go:build !linux

package cmd

import "fmt"

func countInstructions(f func() error) (uint64, error) {
	return 0, fmt.Errorf("instruction counters need Linux perf events")
}
