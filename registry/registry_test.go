package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryLookups(t *testing.T) {
	r := Defaults()

	devnet, ok := r.Network("grid-devnet")
	require.True(t, ok)
	assert.Equal(t, FamilyGrid, devnet.Family)
	assert.Equal(t, 6, devnet.NativeDecimals)

	_, ok = r.Network("grid-betanet")
	assert.False(t, ok)

	usdg, ok := r.Asset("grid-devnet", "USDG")
	require.True(t, ok)
	assert.Equal(t, "ct:1201/0", usdg.Descriptor)

	// The empty descriptor always resolves to the native asset.
	native, ok := r.AssetByDescriptor("grid-devnet", "")
	require.True(t, ok)
	assert.Equal(t, "GRID", native.Symbol)
	assert.Empty(t, native.Descriptor)

	byAddr, ok := r.AssetByDescriptor("grid-devnet", "ct:1201/0")
	require.True(t, ok)
	assert.Equal(t, "USDG", byAddr.Symbol)

	assert.Equal(t, []string{"grid-devnet", "grid-mainnet", "stellar-pubnet", "stellar-testnet"}, r.Networks())
}

func TestToBaseUnits(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		decimals int
		want     string
		wantErr  bool
	}{
		{name: "whole amount", value: "10", decimals: 6, want: "10000000"},
		{name: "fractional amount", value: "10.5", decimals: 6, want: "10500000"},
		{name: "smallest unit", value: "0.000001", decimals: 6, want: "1"},
		{name: "zero", value: "0", decimals: 6, want: "0"},
		{name: "stellar precision", value: "125.0000001", decimals: 7, want: "1250000001"},
		{name: "too precise", value: "0.0000001", decimals: 6, wantErr: true},
		{name: "negative", value: "-3", decimals: 6, wantErr: true},
		{name: "not a number", value: "ten", decimals: 6, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ToBaseUnits(tc.value, tc.decimals)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestFromBaseUnits(t *testing.T) {
	got, err := FromBaseUnits("10500000", 6)
	require.NoError(t, err)
	assert.Equal(t, "10.5", got)

	got, err = FromBaseUnits("1", 7)
	require.NoError(t, err)
	assert.Equal(t, "0.0000001", got)

	_, err = FromBaseUnits("10.5", 6)
	require.Error(t, err)

	_, err = FromBaseUnits("-1", 6)
	require.Error(t, err)
}
