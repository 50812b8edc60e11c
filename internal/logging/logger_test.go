package logging

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func init() {
	color.NoColor = true
}

func TestParseLevel(t *testing.T) {
	for s, want := range map[string]Level{
		"e": Error, "WARN": Warn, "info": Info, "D": Debug, "trace": MaxLevel, "5": 5, "-2": Error,
	} {
		got, err := ParseLevel(s)
		assert.NoError(t, err, s)
		assert.Equal(t, want, got, s)
	}

	_, err := ParseLevel("10")
	assert.Error(t, err)
	_, err = ParseLevel("loud")
	assert.Error(t, err)
}

func TestLogFiltersByLevel(t *testing.T) {
	var out bytes.Buffer
	log := New("test", &out)
	log.Level = Info

	log.Debug("hidden %d", 1)
	assert.Equal(t, 0, out.Len())

	log.Info("shown %d", 2)
	assert.Contains(t, out.String(), "I/test[logger_test.go:")
	assert.Contains(t, out.String(), "shown 2\n")
	assert.True(t, log.Enabled(Warn))
	assert.False(t, log.Enabled(Debug))
}

func TestConfigureTagLevels(t *testing.T) {
	defer Configure("")

	err := Configure("warn,ctr=5,bogus=nope")
	assert.Error(t, err)

	var out bytes.Buffer
	root := New("", &out)
	assert.Equal(t, Warn, root.Level)
	assert.Equal(t, Level(5), root.WithTag("ctr").Level)
	assert.Equal(t, Warn, root.WithTag("bench").Level)

	ctr := root.WithTag("ctr")
	ctr.Trace(5, "worker %d done", 3)
	assert.Contains(t, out.String(), "5/ctr[")
}
