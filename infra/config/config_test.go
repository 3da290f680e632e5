package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {

	type test struct {
		content string
		cfg     Config
		err     bool
	}

	tests := map[string]test{
		"defaults": {
			content: `{}`,
			cfg:     Default(),
		},
		"override": {
			content: `{"workers":4,"trim":true,"metrics_port":6021,"plot":"curves.png","progress":false}`,
			cfg: Config{
				Workers:     4,
				Trim:        true,
				MetricsPort: 6021,
				Plot:        "curves.png",
			},
		},
		"invalid-workers": {
			content: `{"workers":0}`,
			cfg:     Default(),
		},
		"malformed": {
			content: `{"workers":`,
			err:     true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.json")
			assert.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))
			cfg, err := Load(path)
			if tt.err {
				assert.Error(t, err)
				assert.Panics(t, func() {
					MustLoad(path)
				})
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.cfg, cfg)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
