package tzdata

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coolbeans/chronocore/pkg/civil"
	"github.com/coolbeans/chronocore/pkg/temporal"
	"github.com/coolbeans/chronocore/pkg/zone"
)

func TestEmbedded(t *testing.T) {
	p, err := Embedded()
	require.NoError(t, err)
	assert.Equal(t, EmbeddedName, p.Name())
	assert.Empty(t, p.Dir())
	assert.Equal(t, []string{
		"America/New_York",
		"Asia/Kolkata",
		"Asia/Tokyo",
		"Australia/Sydney",
		"Europe/London",
		"Europe/Paris",
		"UTC",
	}, p.ZoneIDs())

	changed, err := p.Refresh()
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestEmbeddedOffsets(t *testing.T) {
	p, err := Embedded()
	require.NoError(t, err)

	tests := []struct {
		name   string
		zoneID string
		utc    civil.LocalDateTime
		want   zone.ZoneOffset
	}{
		{"new_york_before_gap", "America/New_York", civil.MustDateTime(2024, 3, 10, 6, 59, 59), zone.MustOffset(-5, 0)},
		{"new_york_after_gap", "America/New_York", civil.MustDateTime(2024, 3, 10, 7, 0, 0), zone.MustOffset(-4, 0)},
		{"new_york_history", "America/New_York", civil.MustDateTime(2006, 7, 1, 0, 0, 0), zone.MustOffset(-4, 0)},
		{"london_winter", "Europe/London", civil.MustDateTime(2024, 3, 31, 0, 59, 59), zone.UTC},
		{"london_summer", "Europe/London", civil.MustDateTime(2024, 3, 31, 1, 0, 0), zone.MustOffset(1, 0)},
		{"paris_summer", "Europe/Paris", civil.MustDateTime(2030, 7, 1, 0, 0, 0), zone.MustOffset(2, 0)},
		{"sydney_summer", "Australia/Sydney", civil.MustDateTime(2024, 1, 15, 0, 0, 0), zone.MustOffset(11, 0)},
		{"sydney_winter", "Australia/Sydney", civil.MustDateTime(2024, 7, 1, 0, 0, 0), zone.MustOffset(10, 0)},
		{"sydney_before_history", "Australia/Sydney", civil.MustDateTime(2023, 1, 1, 0, 0, 0), zone.MustOffset(11, 0)},
		{"tokyo", "Asia/Tokyo", civil.MustDateTime(2024, 7, 1, 0, 0, 0), zone.MustOffset(9, 0)},
		{"kolkata", "Asia/Kolkata", civil.MustDateTime(1999, 1, 1, 0, 0, 0), zone.MustOffset(5, 30)},
		{"utc", "UTC", civil.MustDateTime(2024, 7, 1, 0, 0, 0), zone.UTC},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rules, err := p.Rules(tt.zoneID)
			require.NoError(t, err)
			got := rules.Offset(civil.MustInstant(tt.utc.ToEpochSecond(0)))
			assert.Equal(t, tt.want, got, "offset at %sZ", tt.utc)
		})
	}
}

func TestEmbeddedGapsAndOverlaps(t *testing.T) {
	p, err := Embedded()
	require.NoError(t, err)

	paris, err := p.Rules("Europe/Paris")
	require.NoError(t, err)
	info := paris.OffsetInfo(civil.MustDateTime(2024, 3, 31, 2, 30, 0))
	assert.True(t, info.IsGap())
	assert.Empty(t, info.ValidOffsets())

	sydney, err := p.Rules("Australia/Sydney")
	require.NoError(t, err)
	info = sydney.OffsetInfo(civil.MustDateTime(2024, 4, 7, 2, 30, 0))
	assert.True(t, info.IsOverlap())
	assert.Equal(t, []zone.ZoneOffset{zone.MustOffset(10, 0), zone.MustOffset(11, 0)}, info.ValidOffsets())

	tokyo, err := p.Rules("Asia/Tokyo")
	require.NoError(t, err)
	assert.True(t, tokyo.IsFixedOffset())

	_, err = p.Rules("Mars/Olympus_Mons")
	assert.ErrorIs(t, err, zone.ErrZoneNotFound)
}

func TestNewProvider(t *testing.T) {
	fsys := fstest.MapFS{
		"a.yaml":       {Data: []byte("id: A\nstandard_offset: \"+01:00\"\n")},
		"b.yml":        {Data: []byte("id: B\nstandard_offset: \"-02:00\"\n")},
		"README.md":    {Data: []byte("not a zone")},
		"nested/c.yml": {Data: []byte("id: C\nstandard_offset: Z\n")},
	}
	p, err := NewProvider("mem", fsys)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, p.ZoneIDs())

	zf, ok := p.Zone("B")
	require.True(t, ok)
	assert.Equal(t, "-02:00", zf.StandardOffset)

	_, err = NewProvider("", fsys)
	assert.Error(t, err)
	_, err = NewProvider("nil", nil)
	assert.Error(t, err)
}

func TestNewProviderRejectsBadFiles(t *testing.T) {
	tests := []struct {
		name     string
		fsys     fstest.MapFS
		contains string
	}{
		{
			name: "duplicate_id",
			fsys: fstest.MapFS{
				"a.yaml": {Data: []byte("id: A\nstandard_offset: Z\n")},
				"b.yaml": {Data: []byte("id: A\nstandard_offset: Z\n")},
			},
			contains: "zone A already defined in a.yaml",
		},
		{
			name:     "invalid_yaml",
			fsys:     fstest.MapFS{"a.yaml": {Data: []byte("id: [\n")}},
			contains: "a.yaml",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewProvider("bad", tt.fsys)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidZoneFile)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestNewProviderKeepsFileErrors(t *testing.T) {
	fsys := fstest.MapFS{
		"good.yaml":  {Data: []byte("id: Good\nstandard_offset: Z\n")},
		"feb.yaml":   {Data: []byte("id: Feb\nstandard_offset: Z\ntransitions:\n  - {local: \"2020-02-30T00:00\", before: Z, after: \"+01:00\"}\n")},
		"offset.yml": {Data: []byte("id: Offset\nstandard_offset: \"+1x:00\"\n")},
	}
	_, err := NewProvider("bad", fsys)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidZoneFile)
	assert.ErrorIs(t, err, temporal.ErrDateTimeRange)
	assert.ErrorIs(t, err, temporal.ErrInvalidArgument)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, []string{"feb.yaml", "offset.yml"}, verr.File)
	assert.Contains(t, err.Error(), "feb.yaml: transitions[0].local")
	assert.Contains(t, err.Error(), "offset.yml: standard_offset")
}

func writeZone(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestDirectoryProviderRefresh(t *testing.T) {
	dir := t.TempDir()
	writeZone(t, dir, "a.yaml", "id: A\nstandard_offset: \"+01:00\"\n")

	p, err := NewDirectoryProvider("dir", dir)
	require.NoError(t, err)
	assert.Equal(t, dir, p.Dir())
	assert.Equal(t, []string{"A"}, p.ZoneIDs())

	changed, err := p.Refresh()
	require.NoError(t, err)
	assert.False(t, changed, "nothing changed on disk")

	writeZone(t, dir, "a.yaml", "id: A\nstandard_offset: \"+02:00\"\n")
	writeZone(t, dir, "b.yaml", "id: B\nstandard_offset: Z\n")
	changed, err = p.Refresh()
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, []string{"A", "B"}, p.ZoneIDs())

	rules, err := p.Rules("A")
	require.NoError(t, err)
	assert.Equal(t, zone.MustOffset(2, 0), rules.Offset(civil.EpochInstant))

	writeZone(t, dir, "b.yaml", "id: B\nstandard_offset: nonsense\n")
	changed, err = p.Refresh()
	assert.ErrorIs(t, err, ErrInvalidZoneFile)
	assert.False(t, changed)
	assert.Equal(t, []string{"A", "B"}, p.ZoneIDs(), "a failed reload keeps the previous zones")

	require.NoError(t, os.Remove(filepath.Join(dir, "b.yaml")))
	changed, err = p.Refresh()
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, []string{"A"}, p.ZoneIDs())
}

func TestNewDirectoryProviderErrors(t *testing.T) {
	_, err := NewDirectoryProvider("missing", filepath.Join(t.TempDir(), "missing"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	dir := t.TempDir()
	writeZone(t, dir, "file.yaml", "id: A\nstandard_offset: Z\n")
	_, err = NewDirectoryProvider("file", filepath.Join(dir, "file.yaml"))
	assert.ErrorContains(t, err, "is not a directory")
}

func TestRegistryRefreshReplacesCachedRules(t *testing.T) {
	dir := t.TempDir()
	writeZone(t, dir, "x.yaml", "id: X/Zone\nstandard_offset: \"+03:00\"\n")

	p, err := NewDirectoryProvider("dir", dir)
	require.NoError(t, err)
	registry := zone.NewRegistry()
	require.NoError(t, registry.RegisterProvider(p))

	before, err := registry.Rules("X/Zone")
	require.NoError(t, err)
	again, err := registry.Rules("X/Zone")
	require.NoError(t, err)
	assert.Same(t, before, again)

	writeZone(t, dir, "x.yaml", "id: X/Zone\nstandard_offset: \"+04:00\"\n")
	changed, err := registry.Refresh()
	require.NoError(t, err)
	assert.True(t, changed)

	after, err := registry.Rules("X/Zone")
	require.NoError(t, err)
	assert.NotSame(t, before, after)
	assert.Equal(t, zone.MustOffset(3, 0), before.Offset(civil.EpochInstant), "held rules do not change")
	assert.Equal(t, zone.MustOffset(4, 0), after.Offset(civil.EpochInstant))
}
