package maincmd

import (
	"github.com/caarlos0/env/v6"

	"shrek/lang/machine"
)

// Config holds the runtime knobs spec.md leaves to "configuration"
// rather than to a command-line flag or a language construct: where
// extensions live, what file suffix identifies one, and how deep the
// operand stack is allowed to grow (spec.md §4.4, §4.5). It is loaded
// from the environment with github.com/caarlos0/env/v6, the way the
// teacher's go.mod already pulls the library in (indirectly, through
// mna/mainer) before this repo promotes it to direct use.
type Config struct {
	ExtensionDir      string `env:"SHREK_EXTENSION_DIR" envDefault:"."`
	ExtensionSuffix   string `env:"SHREK_EXTENSION_SUFFIX" envDefault:".dnky"`
	ReservedThreshold uint32 `env:"SHREK_RESERVED_THRESHOLD" envDefault:"255"`
	MaxStackDepth     int    `env:"SHREK_MAX_STACK_DEPTH" envDefault:"1048576"`
}

// LoadConfig reads Config from the environment, falling back to the
// defaults above when a variable is unset.
func LoadConfig() (Config, error) {
	var c Config
	if err := env.Parse(&c); err != nil {
		return Config{}, err
	}
	return c, nil
}

// NewRuntime builds a machine.Runtime configured per c.
func (c Config) NewRuntime() *machine.Runtime {
	rt := machine.NewRuntime()
	if c.MaxStackDepth > 0 {
		rt.MaxStack = c.MaxStackDepth
	}
	if c.ReservedThreshold > 0 {
		rt.ReservedThreshold = c.ReservedThreshold
	}
	return rt
}
