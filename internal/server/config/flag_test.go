package config

import (
	"flag"
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{name: "all flags", args: []string{"cmd",
			"-a", "127.0.0.1:9090", "-b", "postgres", "-m", "mongodb://mongo:27017",
			"-n", "testdb", "-d", "dsn", "-s", "secret", "-t", "15",
		}, expectPanic: false,
			expected: &Config{
				EndpointAddr:          "127.0.0.1:9090",
				StorageBackend:        BackendPostgres,
				MongoURI:              "mongodb://mongo:27017",
				MongoDatabase:         "testdb",
				DatabaseDSN:           "dsn",
				SecretKey:             "secret",
				TokenValidityDuration: 15 * time.Minute,
			}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.PanicOnError)

			oldArgs := os.Args
			defer func() { os.Args = oldArgs }()
			os.Args = tt.args

			config := &Config{}

			if !tt.expectPanic {
				require.NotPanics(t, func() { parseFlags(config) })
				assert.Empty(t, cmp.Diff(config, tt.expected))
			} else {
				require.Panics(t, func() { parseFlags(config) })
			}
		})
	}
}
