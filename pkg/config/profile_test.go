package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleProfile = `
tabs:
  - name: main
  - name: alt
    url: https://universe.flyff.com/play?server=2
presets:
  - name: healer
    match: "https://universe.flyff.com/*"
    controls:
      - {key: F1, min: 3, max: 6, active: true}
      - {key: "2"}
  - name: elsewhere
    match: "https://example.com/*"
    controls:
      - {key: F9, min: 30, max: 60}
`

func TestParseProfile(t *testing.T) {
	p, err := ParseProfile([]byte(sampleProfile))
	require.NoError(t, err)

	require.Len(t, p.Tabs, 2)
	assert.Equal(t, "main", p.Tabs[0].Name)
	assert.Empty(t, p.Tabs[0].URL)
	assert.Equal(t, "https://universe.flyff.com/play?server=2", p.Tabs[1].URL)

	controls := p.ControlsFor("https://universe.flyff.com/play")
	require.Len(t, controls, 2)
	assert.Equal(t, "F1", controls[0].Key)
	assert.True(t, controls[0].Active)

	cfg, err := controls[1].PressConfig()
	require.NoError(t, err)
	assert.Equal(t, "2", cfg.Key.DisplayKey)
	assert.Equal(t, 3, cfg.MinIntervalSeconds)
	assert.Equal(t, 6, cfg.MaxIntervalSeconds)

	assert.Len(t, p.ControlsFor("https://example.com/game"), 1)
	assert.Empty(t, p.ControlsFor("https://other.org/"))
}

func TestParseProfile_EmptyMatchMatchesEverything(t *testing.T) {
	p, err := ParseProfile([]byte("presets:\n  - controls:\n      - {key: \"5\"}\n"))
	require.NoError(t, err)
	assert.Len(t, p.ControlsFor("about:blank"), 1)
}

func TestParseProfile_Errors(t *testing.T) {
	tests := map[string]string{
		"unknown key":    "presets:\n  - controls:\n      - {key: F13}\n",
		"bad bounds":     "presets:\n  - controls:\n      - {key: F1, min: -1}\n",
		"missing name":   "tabs:\n  - url: https://a.b/\n",
		"duplicate name": "tabs:\n  - name: a\n  - name: a\n",
		"not yaml":       "tabs: [",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseProfile([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestLoadProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleProfile), 0600))

	p, err := LoadProfile(path)
	require.NoError(t, err)
	assert.Len(t, p.Presets, 2)

	_, err = LoadProfile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestControlsFor_NilProfile(t *testing.T) {
	var p *Profile
	assert.Nil(t, p.ControlsFor("https://universe.flyff.com/play"))
}
