package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckMemoryBudget(t *testing.T) {
	assert.NoError(t, CheckMemoryBudget(1<<40, 0))
	assert.NoError(t, CheckMemoryBudget(0, 1<<50))
	err := CheckMemoryBudget(1<<40, 1<<20)
	if assert.Error(t, err) {
		assert.Contains(t, err.Error(), "budget is 1 MiB")
	}
	assert.True(t, strings.HasPrefix(GetMemUsage(), "Alloc = "))
	assert.Equal(t, uint64(3), BytesToMiB(3*1024*1024+5))
}
