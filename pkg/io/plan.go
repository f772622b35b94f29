package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/craftplan/pkg/errors"
	"github.com/matzehuels/craftplan/pkg/planner"
)

// Plan formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// WritePlanJSON writes p as indented JSON.
func WritePlanJSON(p *planner.ProductionPlan, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(p); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WritePlanYAML writes p as YAML.
func WritePlanYAML(p *planner.ProductionPlan, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(p); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return enc.Close()
}

// WritePlan writes p in format, "json" or "yaml".
func WritePlan(p *planner.ProductionPlan, format string, w io.Writer) error {
	switch strings.ToLower(format) {
	case FormatJSON:
		return WritePlanJSON(p, w)
	case FormatYAML, "yml":
		return WritePlanYAML(p, w)
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unsupported plan format %q (use json or yaml)", format)
	}
}

// ExportPlan writes p to path, choosing the format from the extension.
// Unknown extensions get JSON.
func ExportPlan(p *planner.ProductionPlan, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	format := FormatJSON
	if ext := strings.ToLower(filepath.Ext(path)); ext == ".yaml" || ext == ".yml" {
		format = FormatYAML
	}
	return WritePlan(p, format, f)
}

// ReadPlanJSON decodes a plan written by [WritePlanJSON] and recomputes
// its display fields.
func ReadPlanJSON(r io.Reader) (*planner.ProductionPlan, error) {
	var p planner.ProductionPlan
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode plan")
	}
	if p.Target.ID == "" {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "plan has no target product")
	}
	planner.Present(&p)
	return &p, nil
}

// ImportPlan reads a JSON plan file.
func ImportPlan(path string) (*planner.ProductionPlan, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.New(errors.ErrCodeFileNotFound, "plan file not found: %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadPlanJSON(f)
}
