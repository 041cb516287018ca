package config

import (
	"fmt"
	"time"
)

// Interrupt modes supported by worker specs. SignalInterrupt delivers the
// platform interrupt mechanism to the process; MessageInterrupt defers to an
// out-of-band protocol owned by a higher layer.
const (
	SignalInterrupt  = "signal"
	MessageInterrupt = "message"
)

// Duration wraps time.Duration so specs can express intervals as strings.
type Duration struct {
	time.Duration
	explicit bool
}

// UnmarshalText parses a textual duration, accepting empty strings.
func (d *Duration) UnmarshalText(text []byte) error {
	d.explicit = true
	if len(text) == 0 {
		d.Duration = 0
		return nil
	}
	dur, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(text), err)
	}
	d.Duration = dur
	return nil
}

// MarshalText renders the duration using time.Duration formatting.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// IsSet reports whether the duration was explicitly provided or non-zero.
func (d Duration) IsSet() bool {
	return d.explicit || d.Duration != 0
}

// Spec mirrors the worker spec document structure.
type Spec struct {
	Name          string            `yaml:"name"`
	DisplayName   string            `yaml:"displayName"`
	Argv          []string          `yaml:"argv"`
	Env           map[string]string `yaml:"env"`
	Workdir       string            `yaml:"workdir"`
	IP            string            `yaml:"ip"`
	InterruptMode string            `yaml:"interruptMode"`
	Provisioner   string            `yaml:"provisioner"`
	PollInterval  Duration          `yaml:"pollInterval"`

	// ResolvedWorkdir is the absolute working directory computed at load
	// time relative to the spec file.
	ResolvedWorkdir string `yaml:"-"`
}

// Validate checks structural constraints that the YAML decoder cannot.
func (s *Spec) Validate() error {
	if len(s.Argv) == 0 {
		return fmt.Errorf("worker spec %q: argv must not be empty", s.Name)
	}
	switch s.InterruptMode {
	case "", SignalInterrupt, MessageInterrupt:
	default:
		return fmt.Errorf("worker spec %q: unknown interruptMode %q", s.Name, s.InterruptMode)
	}
	return nil
}
