package stage

import (
	"fmt"
	"os"

	"github.com/endzone-defense/campaign-engine/pkg/common"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// CatalogConfig is the YAML layout of a stage catalog file.
type CatalogConfig struct {
	Stages []Stage `yaml:"stages"`
}

// LoadCatalog reads a catalog from a YAML file.
// Supports environment variable expansion in the form ${VAR_NAME} or ${VAR_NAME:default}.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read stage catalog %s: %w", path, err)
	}

	catalog, err := ParseCatalog(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load stage catalog %s: %w", path, err)
	}

	logrus.Infof("loaded %d stages from %s", catalog.Len(), path)
	return catalog, nil
}

// ParseCatalog builds a catalog from YAML content.
func ParseCatalog(data []byte) (*Catalog, error) {
	expanded := common.ExpandEnvVars(string(data))

	var cfg CatalogConfig
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML catalog: %w", err)
	}

	return NewCatalog(cfg.Stages)
}

// LoadCatalogOrDefault loads the catalog at path, or returns the built-in
// catalog when path is empty.
func LoadCatalogOrDefault(path string) (*Catalog, error) {
	if path == "" {
		logrus.Infof("no stage catalog path configured, using built-in season")
		return DefaultCatalog(), nil
	}
	return LoadCatalog(path)
}
