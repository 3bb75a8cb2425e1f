package utils

import (
	"fmt"
	"runtime"
)

func GetMemUsage() string {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	// For info on each, see: https://golang.org/pkg/runtime/#MemStats
	return fmt.Sprintf("Alloc = %v MiB TotalAlloc = %v MiB Sys = %v MiB NumGC = %v",
		BytesToMiB(m.Alloc), BytesToMiB(m.TotalAlloc), BytesToMiB(m.Sys), m.NumGC)
}

func BytesToMiB(b uint64) uint64 {
	return b / 1024 / 1024
}

// CheckMemoryBudget verifies that allocating required more bytes on top of the
// live heap stays within budget. A zero budget disables the check.
func CheckMemoryBudget(required, budget uint64) (err error) {
	if budget == 0 {
		return
	}
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	if m.HeapAlloc+required > budget {
		err = fmt.Errorf("need %d MiB on top of %d MiB in use, budget is %d MiB",
			BytesToMiB(required), BytesToMiB(m.HeapAlloc), BytesToMiB(budget))
	}
	return
}
