package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidTxHash(t *testing.T) {
	assert.True(t, IsValidTxHash("A1B2C3D4E5F6A7B8C9D0A1B2C3D4E5F6A7B8C9D0A1B2C3D4E5F6A7B8C9D0A1B2"))
	assert.True(t, IsValidTxHash("a1b2c3d4e5f6a7b8c9d0a1b2c3d4e5f6a7b8c9d0a1b2c3d4e5f6a7b8c9d0a1b2"))

	assert.False(t, IsValidTxHash(""))
	assert.False(t, IsValidTxHash("A1B2C3"))
	// 63 chars
	assert.False(t, IsValidTxHash("A1B2C3D4E5F6A7B8C9D0A1B2C3D4E5F6A7B8C9D0A1B2C3D4E5F6A7B8C9D0A1B"))
	// non-hex char
	assert.False(t, IsValidTxHash("G1B2C3D4E5F6A7B8C9D0A1B2C3D4E5F6A7B8C9D0A1B2C3D4E5F6A7B8C9D0A1B2"))
}

func TestIsValidEvmAddress(t *testing.T) {
	assert.True(t, IsValidEvmAddress("0x1d4C88F4d876b93E0d969cB31a332CeC9e5A2cE2"))
	assert.True(t, IsValidEvmAddress("0x0000000000000000000000000000000000000000"))

	assert.False(t, IsValidEvmAddress(""))
	assert.False(t, IsValidEvmAddress("1d4C88F4d876b93E0d969cB31a332CeC9e5A2cE2"))
	assert.False(t, IsValidEvmAddress("0x1d4C88F4d876b93E0d969cB31a332CeC9e5A2cE"))
	assert.False(t, IsValidEvmAddress("0xZd4C88F4d876b93E0d969cB31a332CeC9e5A2cE2"))
}

func TestNormalizeEvmAddress(t *testing.T) {
	assert.Equal(
		t,
		"0x1d4c88f4d876b93e0d969cb31a332cec9e5a2ce2",
		NormalizeEvmAddress("0x1D4C88F4D876B93E0D969CB31A332CEC9E5A2CE2"),
	)
}
