package config

import (
	"fmt"
	"os"

	"github.com/andybalholm/cascadia"
	"gopkg.in/yaml.v3"
)

// Selectors holds the driver-level selectors the session uses on the ad
// library page. The ad library ships no stable classes or test IDs, so
// these lean on functional attributes (aria-label, role) and content CDN
// hostnames; a YAML profile can override them when the page changes
// without a rebuild.
type Selectors struct {
	// WaitReady is awaited after navigation before scrolling starts.
	WaitReady string `yaml:"wait_ready"`

	// ModalClose matches the detail overlay's close control.
	ModalClose string `yaml:"modal_close"`

	// ModalImages matches creative images inside the detail overlay.
	ModalImages string `yaml:"modal_images"`
}

// DefaultSelectors returns the selector profile observed on the Korean
// and English ad library variants.
func DefaultSelectors() *Selectors {
	return &Selectors{
		WaitReady:   "body",
		ModalClose:  `div[aria-label="Close"], div[aria-label="닫기"]`,
		ModalImages: `img[src*="scontent"], img[src*="fbcdn"]`,
	}
}

// LoadSelectors reads a YAML selector profile, filling omitted fields
// from the defaults. An empty path returns the defaults unchanged.
func LoadSelectors(path string) (*Selectors, error) {
	sel := DefaultSelectors()
	if path == "" {
		return sel, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read selector profile: %w", err)
	}
	if err := yaml.Unmarshal(data, sel); err != nil {
		return nil, fmt.Errorf("parse selector profile: %w", err)
	}
	if err := sel.Validate(); err != nil {
		return nil, err
	}
	return sel, nil
}

// Validate checks that every configured CSS selector parses, so a broken
// profile fails at startup instead of mid-run.
func (s *Selectors) Validate() error {
	for name, sel := range map[string]string{
		"wait_ready":   s.WaitReady,
		"modal_close":  s.ModalClose,
		"modal_images": s.ModalImages,
	} {
		if sel == "" {
			return fmt.Errorf("selector %s must not be empty", name)
		}
		if _, err := cascadia.ParseGroup(sel); err != nil {
			return fmt.Errorf("selector %s: %w", name, err)
		}
	}
	return nil
}
