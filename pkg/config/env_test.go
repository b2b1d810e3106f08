package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetEnv(t *testing.T) {
	t.Setenv("FF_STR", "hello")
	t.Setenv("FF_INT", " 42 ")
	t.Setenv("FF_BAD_INT", "4.2")
	t.Setenv("FF_FLOAT", "0.25")
	t.Setenv("FF_BOOL", "TRUE")
	t.Setenv("FF_BAD_BOOL", "yes")
	t.Setenv("FF_DUR", "1m30s")
	t.Setenv("FF_BAD_DUR", "90")
	t.Setenv("FF_LIST", " a, ,b ,")

	assert.Equal(t, "hello", GetEnvString("FF_STR", "x"))
	assert.Equal(t, "x", GetEnvString("FF_UNSET", "x"))

	assert.Equal(t, 42, GetEnvInt("FF_INT", 1))
	assert.Equal(t, 1, GetEnvInt("FF_BAD_INT", 1))
	assert.Equal(t, 7, GetEnvInt("FF_UNSET", 7))

	assert.Equal(t, 0.25, GetEnvFloat("FF_FLOAT", 1))

	assert.True(t, GetEnvBool("FF_BOOL", false))
	assert.False(t, GetEnvBool("FF_BAD_BOOL", false))

	assert.Equal(t, 90*time.Second, GetEnvDuration("FF_DUR", time.Second))
	assert.Equal(t, time.Second, GetEnvDuration("FF_BAD_DUR", time.Second))

	assert.Equal(t, []string{"a", "b"}, GetEnvStringList("FF_LIST", nil))
	assert.Equal(t, []string{"d"}, GetEnvStringList("FF_UNSET", []string{"d"}))
}

func TestValidators(t *testing.T) {
	assert.NoError(t, ValidatePositiveDuration(time.Second))
	assert.Error(t, ValidatePositiveDuration(0))

	assert.NoError(t, ValidateDurationRange(time.Minute, time.Second, time.Hour))
	assert.Error(t, ValidateDurationRange(2*time.Hour, time.Second, time.Hour))
	assert.Error(t, ValidateDurationRange(time.Minute, time.Hour, time.Second))

	assert.NoError(t, ValidateIntRange(4, 1, 64))
	assert.Error(t, ValidateIntRange(0, 1, 64))
	assert.Error(t, ValidateIntRange(65, 1, 64))
}
