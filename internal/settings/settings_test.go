package settings

import (
	"testing"

	"github.com/cinepedia/cinepedia/internal/domain"
	"github.com/cinepedia/cinepedia/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type lastNotice struct {
	message string
}

func (l *lastNotice) Notify(_ domain.Severity, message, _ string) { l.message = message }

func newTestService(t *testing.T, fallback string) (*Service, *store.LocalStore, *lastNotice) {
	t.Helper()
	st, err := store.Open("")
	require.NoError(t, err)
	n := &lastNotice{}
	return NewService(st, fallback, n, nil), st, n
}

func TestThemeDefaults(t *testing.T) {
	svc, _, _ := newTestService(t, "")
	assert.Equal(t, DefaultTheme, svc.Theme())

	svc, _, _ = newTestService(t, "forest")
	assert.Equal(t, "forest", svc.Theme())
}

func TestSetTheme(t *testing.T) {
	svc, st, n := newTestService(t, "")

	require.NoError(t, svc.SetTheme("Neon"))
	assert.Equal(t, "neon", svc.Theme())
	assert.Equal(t, "Switched to NEON style", n.message)

	v, ok := st.GetSetting(store.KeyTheme)
	require.True(t, ok)
	assert.Equal(t, "neon", v)
}

func TestSetThemeRejectsUnknown(t *testing.T) {
	svc, _, n := newTestService(t, "")
	err := svc.SetTheme("sepia")
	assert.ErrorIs(t, err, domain.ErrInvalidTheme)
	assert.Equal(t, DefaultTheme, svc.Theme())
	assert.Empty(t, n.message)
}

func TestStoredGarbageThemeFallsBack(t *testing.T) {
	svc, st, _ := newTestService(t, "day")
	require.NoError(t, st.SaveSetting(store.KeyTheme, "sepia"))
	assert.Equal(t, "day", svc.Theme())
}

func TestMaintenanceAndAnnouncement(t *testing.T) {
	svc, st, _ := newTestService(t, "")
	assert.False(t, svc.Maintenance())
	assert.Empty(t, svc.Announcement())

	require.NoError(t, svc.SetMaintenance(true))
	assert.True(t, svc.Maintenance())
	v, _ := st.GetSetting(store.KeyMaintenance)
	assert.Equal(t, "true", v)

	require.NoError(t, svc.SetMaintenance(false))
	assert.False(t, svc.Maintenance())

	require.NoError(t, svc.SetAnnouncement("Scheduled downtime at noon"))
	assert.Equal(t, "Scheduled downtime at noon", svc.Announcement())
}

func TestThemesList(t *testing.T) {
	assert.Len(t, Themes, 9)
	for _, th := range Themes {
		assert.True(t, ValidTheme(th))
	}
}
