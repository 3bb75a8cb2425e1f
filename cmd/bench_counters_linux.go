//go:build linux

package cmd

import perf "github.com/hodgesds/perf-utils"

func countInstructions(f func() error) (instructions uint64, err error) {
	pv, err := perf.CPUInstructions(f)
	if err != nil {
		return
	}
	return pv.Value, nil
}
