package logging

import (
	"fmt"
	"os"
	"strings"
)

// EnvVar holds comma-separated "tag=level" directives. A directive without
// "tag=" sets the default level, e.g. LOGLEVEL=info,ctr=5,bench=debug.
const EnvVar = "LOGLEVEL"

type tagLevel struct {
	tag   string
	level Level
}

var tagLevels []tagLevel

func init() {
	if err := Configure(os.Getenv(EnvVar)); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", EnvVar, err)
	}
}

// Configure replaces the per-tag levels with the given directives. Invalid
// directives are skipped and reported in the returned error; the valid ones
// still take effect. Loggers derived before the call keep their level.
func Configure(directives string) error {
	var bad []string
	defaultLevel = Info
	tagLevels = nil
	for _, d := range strings.Split(directives, ",") {
		if d == "" {
			continue
		}
		v := strings.SplitN(d, "=", 2)
		level, err := ParseLevel(v[len(v)-1])
		if err != nil {
			bad = append(bad, fmt.Sprintf("'%s' (%v)", d, err))
			continue
		}
		if len(v) == 1 {
			defaultLevel = level
		} else {
			tagLevels = append(tagLevels, tagLevel{v[0], level})
		}
	}

	DefaultLogger.Level = defaultLevel
	if len(bad) > 0 {
		return fmt.Errorf("invalid directives: %s", strings.Join(bad, ", "))
	}
	return nil
}

func determineLevel(tag string, fallback Level) Level {
	for _, e := range tagLevels {
		if e.tag == tag {
			return e.level
		}
	}
	return fallback
}
