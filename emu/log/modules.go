package log

import (
	"fmt"
	"sync"
	"sync/atomic"

	"gopkg.in/Sirupsen/logrus.v0"
)

// A Module is a named log source. Entries below WarnLevel are only emitted
// for modules enabled with EnableDebugModules.
type Module uint

// ModuleMask is a set of modules, bit n standing for Module(n).
type ModuleMask uint64

const ModuleMaskAll ModuleMask = 1<<64 - 1

// Standard modules. Packages may define additional modules with NewModule.
const (
	ModEmu Module = iota + 1
	ModCPU
	ModMem
	ModHwIo
	ModPPU
)

var (
	mu       sync.RWMutex // protects modNames
	modNames = []string{"<error>", "emu", "cpu", "mem", "hwio", "ppu"}

	debugMask atomic.Uint64
)

// NewModule registers a module, it's meant to be called at package
// initialization.
func NewModule(name string) Module {
	mu.Lock()
	defer mu.Unlock()

	if len(modNames) == 64 {
		panic("log: too many modules")
	}
	modNames = append(modNames, name)
	return Module(len(modNames) - 1)
}

func ModuleByName(name string) (Module, bool) {
	mu.RLock()
	defer mu.RUnlock()

	for i := 1; i < len(modNames); i++ {
		if modNames[i] == name {
			return Module(i), true
		}
	}
	return 0, false
}

// ModuleNames returns the names of all registered modules.
func ModuleNames() []string {
	mu.RLock()
	defer mu.RUnlock()

	return append([]string(nil), modNames[1:]...)
}

func EnableDebugModules(mask ModuleMask) {
	debugMask.Or(uint64(mask))
	if mask != 0 {
		logrus.SetLevel(logrus.DebugLevel)
	}
}

func DisableDebugModules(mask ModuleMask) {
	debugMask.And(^uint64(mask))
}

func (mod Module) Mask() ModuleMask {
	return 1 << ModuleMask(mod)
}

func (mod Module) Enabled(level Level) bool {
	if disabled.Load() {
		return false
	}
	return level <= WarnLevel || ModuleMask(debugMask.Load())&mod.Mask() != 0
}

func (mod Module) String() string {
	mu.RLock()
	defer mu.RUnlock()

	if int(mod) < len(modNames) {
		return modNames[mod]
	}
	return modNames[0]
}

func (mod Module) logz(lvl Level, msg string) *EntryZ {
	if !mod.Enabled(lvl) {
		return nil
	}
	e := NewEntryZ()
	e.lvl = lvl
	e.msg = msg
	e.mod = mod
	return e
}

func (mod Module) DebugZ(msg string) *EntryZ { return mod.logz(DebugLevel, msg) }
func (mod Module) InfoZ(msg string) *EntryZ  { return mod.logz(InfoLevel, msg) }
func (mod Module) WarnZ(msg string) *EntryZ  { return mod.logz(WarnLevel, msg) }

// Logf emits a message without fields. Arguments are only formatted when
// the level is enabled for the module.
func (mod Module) Logf(lvl Level, format string, args ...any) {
	if e := mod.logz(lvl, ""); e != nil {
		e.msg = fmt.Sprintf(format, args...)
		e.End()
	}
}

func (mod Module) Infof(format string, args ...any) { mod.Logf(InfoLevel, format, args...) }
