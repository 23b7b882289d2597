package machine

import (
	"fmt"
	"path/filepath"
	"plugin"
	"strings"
)

// DefaultExtensionSuffix is the file extension extension libraries are
// discovered by (spec.md §4.5, Open Question resolved as ".dnky").
const DefaultExtensionSuffix = ".dnky"

// registerSymbol is the exported name a plugin must provide: its
// <name>_register function, named after the base filename with the
// suffix stripped.
func registerSymbol(path, suffix string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, suffix)
	return base + "_register"
}

// LoadExtensions opens every file in dir matching suffix as a Go plugin
// (the only part of this runtime built on the standard library rather
// than a pack dependency — DESIGN.md records why no third-party plugin
// loader in the examples covers native code loading), resolves its
// `<name>_register` symbol as a func(*Runtime) int32, and calls it so it
// can register callables through rt.RegisterFunction (spec.md §4.5).
//
// A register function returning non-zero is a load failure for that one
// extension; LoadExtensions continues with the rest and returns a
// combined error naming every extension that failed.
func LoadExtensions(rt *Runtime, dir, suffix string) error {
	if suffix == "" {
		suffix = DefaultExtensionSuffix
	}
	matches, err := filepath.Glob(filepath.Join(dir, "*"+suffix))
	if err != nil {
		return fmt.Errorf("extension: glob %s: %w", dir, err)
	}

	var failures []string
	for _, path := range matches {
		if err := loadOne(rt, path, suffix); err != nil {
			failures = append(failures, fmt.Sprintf("%s: %s", path, err))
		}
	}
	if len(failures) > 0 {
		return fmt.Errorf("extension: %d failure(s): %s", len(failures), strings.Join(failures, "; "))
	}
	return nil
}

func loadOne(rt *Runtime, path, suffix string) error {
	p, err := plugin.Open(path)
	if err != nil {
		return fmt.Errorf("open: %w", err)
	}

	sym := registerSymbol(path, suffix)
	raw, err := p.Lookup(sym)
	if err != nil {
		return fmt.Errorf("missing entry point %s: %w", sym, err)
	}

	register, ok := raw.(func(*Runtime) int32)
	if !ok {
		return fmt.Errorf("entry point %s has the wrong signature", sym)
	}

	if rc := register(rt); rc != 0 {
		msg := rt.exception
		if msg == "" {
			msg = "no additional information"
		}
		return fmt.Errorf("register returned code %d: %s", rc, msg)
	}
	return nil
}
