// Package run records what a conversion run did: which input, which
// ruleset, which sheets, and where the outputs landed.
package run

import (
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"phenomatrix/internal/utils"
)

// ManifestFileName is the manifest's file name inside the output directory.
const ManifestFileName = "run_manifest.yaml"

// SheetSummary is the manifest entry for one processed worksheet.
type SheetSummary struct {
	Name             string `yaml:"name"`
	Rows             int    `yaml:"rows"`
	Subjects         int    `yaml:"subjects"`
	BinaryFile       string `yaml:"binary_file"`
	QuantitativeFile string `yaml:"quantitative_file"`
}

// Manifest describes one conversion run.
type Manifest struct {
	RunID       string         `yaml:"run_id"`
	CreatedAt   time.Time      `yaml:"created_at"`
	InputFile   string         `yaml:"input_file"`
	RulesetFile string         `yaml:"ruleset_file"`
	Dataset     string         `yaml:"dataset,omitempty"`
	Sheets      []SheetSummary `yaml:"sheets"`
}

// NewManifest creates a manifest with a fresh run ID.
func NewManifest(inputFile, rulesetFile, dataset string) *Manifest {
	return &Manifest{
		RunID:       uuid.NewString(),
		CreatedAt:   time.Now().UTC(),
		InputFile:   inputFile,
		RulesetFile: rulesetFile,
		Dataset:     dataset,
	}
}

// AddSheet appends one worksheet summary.
func (m *Manifest) AddSheet(s SheetSummary) {
	m.Sheets = append(m.Sheets, s)
}

// Write saves the manifest into the output directory.
func (m *Manifest) Write(outdir string) (string, error) {
	b, err := yaml.Marshal(m)
	if err != nil {
		return "", err
	}
	path := filepath.Join(outdir, ManifestFileName)
	if err := utils.SafeWriteFile(path, b); err != nil {
		return "", err
	}
	return path, nil
}

// Load reads a manifest back from disk.
func Load(path string) (*Manifest, error) {
	b, err := utils.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := yaml.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	return &m, nil
}
