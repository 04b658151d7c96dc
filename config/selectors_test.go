package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSelectorsValidate(t *testing.T) {
	assert.NoError(t, DefaultSelectors().Validate())
}

func TestLoadSelectorsEmptyPathReturnsDefaults(t *testing.T) {
	sel, err := LoadSelectors("")
	require.NoError(t, err)
	assert.Equal(t, DefaultSelectors(), sel)
}

func TestLoadSelectorsOverridesAndFillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "selectors.yaml")
	require.NoError(t, os.WriteFile(path, []byte("modal_close: \"div.close-btn\"\n"), 0o644))

	sel, err := LoadSelectors(path)
	require.NoError(t, err)
	assert.Equal(t, "div.close-btn", sel.ModalClose)
	assert.Equal(t, DefaultSelectors().WaitReady, sel.WaitReady)
	assert.Equal(t, DefaultSelectors().ModalImages, sel.ModalImages)
}

func TestLoadSelectorsRejectsInvalidCSS(t *testing.T) {
	path := filepath.Join(t.TempDir(), "selectors.yaml")
	require.NoError(t, os.WriteFile(path, []byte("modal_close: \"div[\"\n"), 0o644))

	_, err := LoadSelectors(path)
	assert.Error(t, err)
}

func TestLoadSelectorsMissingFile(t *testing.T) {
	_, err := LoadSelectors(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
