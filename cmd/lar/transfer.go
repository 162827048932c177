package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/larsproject/lars"
	"gopkg.in/yaml.v3"
)

// ExportCmd implements the 'export' command.
type ExportCmd struct {
	Output string `short:"o" help:"Output file (stdout if not specified)"`
	Format string `default:"json" enum:"json,yaml" help:"Output format (json or yaml)"`
}

func (c *ExportCmd) Run(a *app) error {
	reg, err := a.Store.Load()
	if err != nil {
		return err
	}

	var data []byte
	switch c.Format {
	case "yaml":
		data, err = yaml.Marshal(reg)
	default:
		data, err = json.MarshalIndent(reg, "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return fmt.Errorf("encoding registry: %w", err)
	}

	if c.Output == "" {
		_, err = os.Stdout.Write(data)
		return err
	}

	if err := os.WriteFile(c.Output, data, 0o644); err != nil {
		return err
	}
	a.infof("Exported registry to %s", c.Output)
	return nil
}

// ImportCmd implements the 'import' command.
type ImportCmd struct {
	File  string `arg:"" help:"Registry file to import (json or yaml)"`
	Merge bool   `short:"m" help:"Merge with the existing registry instead of replacing it"`
}

func (c *ImportCmd) Run(a *app) error {
	data, err := os.ReadFile(c.File)
	if err != nil {
		return err
	}

	var imported lars.Registry
	if err := json.Unmarshal(data, &imported); err != nil {
		if yerr := yaml.Unmarshal(data, &imported); yerr != nil {
			return fmt.Errorf("%w: not valid json (%v) or yaml (%v)", lars.ErrConfigParse, err, yerr)
		}
	}

	// Identity is process-unique: imported records always get fresh ids
	for i := range imported.Services {
		imported.Services[i].ID = uuid.New()
	}

	if !c.Merge {
		imported.ConfigVersion = lars.CurrentConfigVersion
		if err := a.Store.Save(&imported); err != nil {
			return err
		}
		a.infof("Imported registry with %d service(s)", len(imported.Services))
		return nil
	}

	existing, err := a.Store.Load()
	if err != nil {
		return err
	}

	added := 0
	for i := range imported.Services {
		svc := imported.Services[i]
		if existing.NameExists(svc.Name) {
			slog.Warn("Skipping service, name already exists", "name", svc.Name)
			continue
		}
		existing.Add(svc)
		added++
	}

	if err := a.Store.Save(existing); err != nil {
		return err
	}

	a.infof("Merged %d service(s); registry now holds %d", added, len(existing.Services))
	return nil
}
