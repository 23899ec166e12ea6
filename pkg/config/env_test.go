package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetEnvString(t *testing.T) {
	t.Setenv("NL_TEST_STRING", "  value  ")
	assert.Equal(t, "value", GetEnvString("NL_TEST_STRING", "default"))

	t.Setenv("NL_TEST_STRING", "   ")
	assert.Equal(t, "default", GetEnvString("NL_TEST_STRING", "default"))

	assert.Equal(t, "default", GetEnvString("NL_TEST_UNSET", "default"))
}

func TestGetEnvInt(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{raw: "", want: 7},
		{raw: "42", want: 42},
		{raw: "-3", want: -3},
		{raw: "4.5", want: 7},
		{raw: "abc", want: 7},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			t.Setenv("NL_TEST_INT", tt.raw)
			assert.Equal(t, tt.want, GetEnvInt("NL_TEST_INT", 7))
		})
	}
}

func TestGetEnvFloat(t *testing.T) {
	t.Setenv("NL_TEST_FLOAT", "0.5")
	assert.InDelta(t, 0.5, GetEnvFloat("NL_TEST_FLOAT", 1), 1e-9)

	t.Setenv("NL_TEST_FLOAT", "fast")
	assert.InDelta(t, 1.0, GetEnvFloat("NL_TEST_FLOAT", 1), 1e-9)
}

func TestGetEnvBool(t *testing.T) {
	tests := []struct {
		raw  string
		want bool
	}{
		{raw: "true", want: true},
		{raw: "1", want: true},
		{raw: "FALSE", want: false},
		{raw: "yes", want: true}, // invalid, default
		{raw: "", want: true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			t.Setenv("NL_TEST_BOOL", tt.raw)
			assert.Equal(t, tt.want, GetEnvBool("NL_TEST_BOOL", true))
		})
	}
}

func TestGetEnvDuration(t *testing.T) {
	t.Setenv("NL_TEST_DURATION", "1h30m")
	assert.Equal(t, 90*time.Minute, GetEnvDuration("NL_TEST_DURATION", time.Second))

	t.Setenv("NL_TEST_DURATION", "30")
	assert.Equal(t, time.Second, GetEnvDuration("NL_TEST_DURATION", time.Second))
}

func TestGetEnvStringList(t *testing.T) {
	t.Setenv("NL_TEST_LIST", " https://a.example, ,https://b.example ")
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, GetEnvStringList("NL_TEST_LIST", nil))

	t.Setenv("NL_TEST_LIST", " , ")
	assert.Equal(t, []string{"x"}, GetEnvStringList("NL_TEST_LIST", []string{"x"}))

	assert.Nil(t, GetEnvStringList("NL_TEST_UNSET_LIST", nil))
}
