package emu

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/kirsle/configdir"

	"nescore/emu/log"
	"nescore/hw"
)

type Config struct {
	CPU CPUConfig `toml:"cpu"`
	Run RunConfig `toml:"run"`
	Log LogConfig `toml:"log"`
}

type CPUConfig struct {
	StartPC string `toml:"start_pc"` // hexadecimal, empty for the reset vector
	Cycles  int64  `toml:"cycles"`
	Status  uint8  `toml:"status"`
}

type RunConfig struct {
	MaxSteps int    `toml:"max_steps"`
	OnError  Policy `toml:"on_error"`
}

type LogConfig struct {
	Modules []string `toml:"modules"`
}

// DefaultConfig returns the CPU power-up state, with no step limit.
func DefaultConfig() Config {
	return Config{
		CPU: CPUConfig{
			Cycles: 7,
			Status: uint8(hw.Interrupt | hw.Unused),
		},
		Run: RunConfig{OnError: Abort},
	}
}

const cfgFilename = "config.toml"

// ConfigDir returns the per-user nescore configuration directory.
func ConfigDir() string {
	return configdir.LocalConfig("nescore")
}

// LoadConfig loads the configuration file at path, on top of the default
// configuration. An empty path designates the file in ConfigDir, which may not
// exist.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	optional := path == ""
	if optional {
		path = filepath.Join(ConfigDir(), cfgFilename)
	}

	md, err := toml.DecodeFile(path, &cfg)
	switch {
	case optional && errors.Is(err, fs.ErrNotExist):
		return DefaultConfig(), nil
	case err != nil:
		return Config{}, fmt.Errorf("config: %w", err)
	}
	for _, key := range md.Undecoded() {
		log.ModEmu.WarnZ("unknown configuration key").
			String("file", path).
			String("key", key.String()).
			End()
	}
	return cfg, nil
}

// Marshal encodes the configuration in TOML.
func (cfg Config) Marshal() ([]byte, error) {
	return toml.Marshal(cfg)
}

// SaveConfig writes the configuration in ConfigDir.
func SaveConfig(cfg Config) error {
	buf, err := cfg.Marshal()
	if err != nil {
		return err
	}

	dir := ConfigDir()
	if err := configdir.MakePath(dir); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return os.WriteFile(filepath.Join(dir, cfgFilename), buf, 0644)
}

// ParseAddr parses a 16-bit hexadecimal address, with an optional '$' or '0x'
// prefix.
func ParseAddr(s string) (uint16, error) {
	s = strings.TrimPrefix(s, "$")
	s = strings.TrimPrefix(strings.ToLower(s), "0x")
	addr, err := strconv.ParseUint(s, 16, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid address %q: %w", s, err)
	}
	return uint16(addr), nil
}

// Apply sets the CPU registers from the configuration.
func (c CPUConfig) Apply(cpu *hw.CPU) error {
	if c.StartPC != "" {
		pc, err := ParseAddr(c.StartPC)
		if err != nil {
			return fmt.Errorf("start_pc: %w", err)
		}
		cpu.PC = pc
	}
	cpu.Cycles = c.Cycles
	cpu.P = hw.P(c.Status)
	return nil
}
