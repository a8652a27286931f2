package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alexanderramin/prodsched/internal/calendar"
	"github.com/alexanderramin/prodsched/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	c := Default()
	assert.Equal(t, 8, c.Schedule.WorkingHours)
	assert.Equal(t, "0.7", c.Schedule.SafetyFactor)
	assert.Equal(t, 28, c.Schedule.DemandWindowDays)
	assert.True(t, c.Schedule.Constraints[domain.MachinePress].Enabled)
	assert.Equal(t, "warn", c.Log.Level)
	require.NoError(t, c.Validate())
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
}

func TestLoad_OverridesOnlyGivenKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
timezone: Asia/Bangkok
schedule:
  working_hours: 10
  constraints:
    TAP:
      enabled: true
      capacity: 2
`), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 10, c.Schedule.WorkingHours)
	assert.Equal(t, "Asia/Bangkok", c.Timezone)
	assert.Equal(t, 28, c.Schedule.DemandWindowDays)
	assert.Equal(t, ConstraintConfig{Enabled: true, Capacity: 2}, c.Schedule.Constraints["TAP"])
	// yaml.v3 merges into the existing map.
	assert.True(t, c.Schedule.Constraints["PRESS"].Enabled)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("schedule: [unclosed"), 0o644))

	_, err := Load(path)
	assert.ErrorContains(t, err, "parsing config")
}

func TestApplyEnv(t *testing.T) {
	c := Default()
	env := map[string]string{
		EnvDatabase: "postgres://plant@db/prodsched",
		EnvLogLevel: "debug",
		EnvTimezone: "Asia/Tokyo",
	}
	c.ApplyEnv(func(k string) string { return env[k] })

	assert.Equal(t, "postgres://plant@db/prodsched", c.Database)
	assert.Equal(t, "debug", c.Log.Level)
	assert.Equal(t, "Asia/Tokyo", c.Timezone)
	assert.Equal(t, "postgres://plant@db/prodsched", c.DatabasePath())
}

func TestValidate_Rejects(t *testing.T) {
	c := Default()
	c.Schedule.WorkingHours = 13
	assert.ErrorIs(t, c.Validate(), calendar.ErrInvalidWorkingHours)

	c = Default()
	c.Timezone = "Mars/Olympus"
	assert.ErrorContains(t, c.Validate(), "Mars/Olympus")

	c = Default()
	c.Schedule.SafetyFactor = "1.5"
	assert.ErrorContains(t, c.Validate(), "safety_factor")

	c = Default()
	c.Schedule.RiskBufferDays = -1
	assert.Error(t, c.Validate())
}

func TestScheduleOptions(t *testing.T) {
	s := Default().Schedule
	s.Constraints = map[string]ConstraintConfig{"press": {Enabled: true, Capacity: 3}}

	opts, err := s.Options()
	require.NoError(t, err)
	assert.Equal(t, "0.7", opts.SafetyFactor.String())
	assert.Equal(t, 28, opts.DemandWindowDays)
	assert.Equal(t, 60.0, opts.MinDeferredSetup)
	assert.True(t, opts.Constraints.IsConstrained("PRESS"))
	assert.Equal(t, 3, opts.Constraints.Capacity("PRESS"))
}

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	written, err := WriteDefault(path)
	require.NoError(t, err)
	assert.True(t, written)

	written, err = WriteDefault(path)
	require.NoError(t, err)
	assert.False(t, written)

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
}

func TestMarshalRoundTrip(t *testing.T) {
	c := Default()
	c.Schedule.WorkingHours = 12

	data, err := c.Marshal()
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 12, loaded.Schedule.WorkingHours)
}
