package flagx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	args := []string{"-a", ":8080", "-unknown", "x", "-d=dsn", "--other=1", "-v"}

	got := FilterArgs(args, []string{"-a", "-d", "-v"})
	assert.Equal(t, []string{"-a", ":8080", "-d=dsn", "-v"}, got)
}

func TestFilterArgs_Empty(t *testing.T) {
	assert.Empty(t, FilterArgs(nil, []string{"-a"}))
	assert.Empty(t, FilterArgs([]string{"-b", "1"}, []string{"-a"}))
}
