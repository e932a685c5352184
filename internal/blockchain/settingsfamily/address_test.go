package settingsfamily_test

import (
	"dao-governance/internal/blockchain/settingsfamily"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetAddress(t *testing.T) {
	name := "proposal.vote.threshold"
	expectedAddr := "000000ecd1378bc9dc1300ab274474a6aa82c1497e22fe854a24bce3b0c44298fc1c14"
	assert.Equal(t, expectedAddr, settingsfamily.GetAddress(name))

	addr := settingsfamily.GetAddress(settingsfamily.KeyActivePeriod)
	assert.Len(t, addr, 70)
	assert.Equal(t, settingsfamily.Namespace, addr[:6])
	assert.NotEqual(t, addr, settingsfamily.GetAddress(settingsfamily.KeyPendingPeriod))
}

func TestLookup(t *testing.T) {
	data, err := settingsfamily.Encode(settingsfamily.KeyPendingPeriod, "48h")
	require.NoError(t, err)

	value, found, err := settingsfamily.Lookup(data, settingsfamily.KeyPendingPeriod)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "48h", value)

	_, found, err = settingsfamily.Lookup(data, settingsfamily.KeyExecutePeriod)
	require.NoError(t, err)
	assert.False(t, found)

	_, found, err = settingsfamily.Lookup(nil, settingsfamily.KeyExecutePeriod)
	require.NoError(t, err)
	assert.False(t, found)
}
