package access

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"roxtor-ops/models"
)

func TestMain(m *testing.M) {
	HashCost = bcrypt.MinCost
	os.Exit(m.Run())
}

func testGate(t *testing.T) (Gate, models.AppSettings) {
	t.Helper()
	settings := models.DefaultSettings()
	var err error
	settings.AccessPinHash, err = HashPIN("1234")
	require.NoError(t, err)
	settings.MasterPinHash, err = HashPIN("2025")
	require.NoError(t, err)
	return NewGate(settings), settings
}

func TestUnlock(t *testing.T) {
	gate, settings := testGate(t)
	hashBefore := settings.AccessPinHash

	s, err := gate.Unlock(Lock(), "9999")
	assert.ErrorIs(t, err, ErrIncorrectPIN)
	assert.Equal(t, Locked, s.Tier)
	assert.Equal(t, hashBefore, settings.AccessPinHash)

	s, err = gate.Unlock(Lock(), "1234")
	require.NoError(t, err)
	assert.Equal(t, General, s.Tier)
	assert.True(t, s.Allows(TabOrders))
	assert.False(t, s.Allows(TabReports))
}

func TestElevate(t *testing.T) {
	gate, _ := testGate(t)

	general, err := gate.Unlock(Lock(), "1234")
	require.NoError(t, err)

	s, err := gate.Elevate(general, "1234")
	assert.ErrorIs(t, err, ErrIncorrectPIN)
	assert.Equal(t, General, s.Tier, "wrong master PIN keeps the prior state")

	s, err = gate.Elevate(general, "2025")
	require.NoError(t, err)
	assert.Equal(t, Management, s.Tier)
	assert.True(t, s.Allows(TabReports))
	assert.True(t, s.Allows(TabStock))

	s, err = gate.Elevate(Lock(), "2025")
	require.NoError(t, err)
	assert.Equal(t, Management, s.Tier)

	assert.Equal(t, Locked, Lock().Tier)
	assert.False(t, Lock().Allows(TabOrders))
}

func TestLoginStaff(t *testing.T) {
	gate, settings := testGate(t)

	s, err := gate.LoginStaff(settings, "t1")
	require.NoError(t, err)
	assert.Equal(t, General, s.Tier)
	assert.True(t, s.Scoped())
	assert.True(t, s.Allows(TabOrders))
	assert.False(t, s.Allows(TabCatalog))
	assert.False(t, s.Allows(TabRadar))

	_, err = gate.LoginStaff(settings, "nobody")
	assert.ErrorIs(t, err, ErrUnknownStaff)

	s, err = gate.Unlock(s, "1234")
	require.NoError(t, err)
	assert.False(t, s.Scoped(), "shared PIN lifts staff scoping")
}

func TestHashPIN(t *testing.T) {
	_, err := HashPIN("  ")
	assert.ErrorIs(t, err, ErrEmptyPIN)

	h, err := HashPIN("4321")
	require.NoError(t, err)
	assert.NotEqual(t, "4321", h)
	assert.True(t, CheckPIN(h, " 4321 "))
	assert.False(t, CheckPIN("", "4321"))
}

func TestParseTier(t *testing.T) {
	for _, tier := range []Tier{Locked, General, Management} {
		got, err := ParseTier(tier.String())
		require.NoError(t, err)
		assert.Equal(t, tier, got)
	}
	_, err := ParseTier("root")
	assert.Error(t, err)
}
