package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Load reads a worker spec from the provided path.
func Load(path string) (*Spec, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve spec path: %w", err)
	}

	f, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("open worker spec: %w", err)
	}
	defer f.Close()

	decoder := yaml.NewDecoder(f)
	decoder.KnownFields(true)
	var spec Spec
	if err := decoder.Decode(&spec); err != nil {
		return nil, fmt.Errorf("%s: decode: %w", absPath, err)
	}

	if spec.Name == "" {
		spec.Name = trimSpecExt(filepath.Base(absPath))
	}
	if spec.InterruptMode == "" {
		spec.InterruptMode = SignalInterrupt
	}

	if len(spec.Env) > 0 {
		expanded := make(map[string]string, len(spec.Env))
		for k, v := range spec.Env {
			expanded[k] = os.ExpandEnv(v)
		}
		spec.Env = expanded
	}

	specDir := filepath.Dir(absPath)
	spec.ResolvedWorkdir = resolveWorkdir(specDir, os.ExpandEnv(spec.Workdir))

	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return &spec, nil
}

func resolveWorkdir(baseDir, workdir string) string {
	if workdir == "" {
		return baseDir
	}
	if filepath.IsAbs(workdir) {
		return filepath.Clean(workdir)
	}
	return filepath.Clean(filepath.Join(baseDir, workdir))
}

func trimSpecExt(name string) string {
	ext := filepath.Ext(name)
	return name[:len(name)-len(ext)]
}
