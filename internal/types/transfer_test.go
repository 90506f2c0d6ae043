package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransferStateIsTerminal(t *testing.T) {
	assert.False(t, Pending.IsTerminal())
	assert.False(t, Settled.IsTerminal())
	assert.False(t, Watching.IsTerminal())

	assert.True(t, Arrived.IsTerminal())
	assert.True(t, Failed.IsTerminal())
	assert.True(t, Timeout.IsTerminal())
}
