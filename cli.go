package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"nescore/emu/log"
)

type mode byte

const (
	runMode      mode = iota // Run a ROM
	verifyMode               // Compare ROM executions with golden traces
	romInfosMode             // Show ROM infos
	configMode               // Show configuration
	versionMode              // Show nescore version
)

var commandModes = map[string]mode{
	"run":       runMode,
	"verify":    verifyMode,
	"rom-infos": romInfosMode,
	"config":    configMode,
	"version":   versionMode,
}

type (
	CLI struct {
		Run      Run       `cmd:"" help:"Run ROM in emulator."`
		Verify   Verify    `cmd:"" help:"Compare ROM executions with their golden trace logs."`
		RomInfos RomInfos  `cmd:"" help:"Show ROM infos." name:"rom-infos"`
		Config   ConfigCmd `cmd:"" help:"Show the configuration."`
		Version  Version   `cmd:"" help:"Show nescore version."`

		Log logModMask `help:"Enable debug logs for the given modules." placeholder:"mod0,mod1,..."`

		mode mode
	}

	Run struct {
		RomPath string `arg:"" name:"/path/to/rom" type:"existingfile"`

		Config    string   `help:"${config_help}" type:"existingfile"`
		Steps     int      `help:"Stop after N instructions (0: no limit)."`
		StartPC   string   `name:"start-pc" help:"Start execution at this address instead of the reset vector." placeholder:"HEX"`
		Trace     *outfile `help:"Write CPU trace log." placeholder:"FILE|stdout|stderr"`
		OnError   string   `name:"on-error" help:"Action on illegal opcodes: abort, continue or reset." placeholder:"POLICY"`
		DumpState string   `name:"dump-state" help:"Write the machine state as JSON once stopped." type:"path"`
	}

	Verify struct {
		Files   []string `arg:"" name:"rom log" help:"Pairs of ROM and golden trace log." type:"existingfile"`
		StartPC string   `name:"start-pc" help:"Start execution at this address." default:"C000" placeholder:"HEX"`
		Limit   int      `help:"Compare at most N lines of each log (0: whole log)."`
	}

	RomInfos struct {
		RomPath string `arg:"" name:"/path/to/rom" type:"existingfile"`
	}

	ConfigCmd struct {
		Path string `arg:"" optional:"" name:"/path/to/config" help:"${config_help}" type:"existingfile"`
		Save bool   `help:"Save the configuration in the user configuration directory."`
	}

	Version struct{}
)

func parseArgs(args []string) CLI {
	var cli CLI
	parser, err := kong.New(&cli,
		kong.Name("nescore"),
		kong.Description("NES 6502 CPU core and bus emulator."),
		kong.UsageOnError(),
		kong.Help(printHelp),
		kong.Vars{"config_help": "Configuration file, defaults to config.toml in the user configuration directory."})
	if err != nil {
		panic(err)
	}

	ctx, err := parser.Parse(args)
	checkf(err, "failed to parse command line")

	// ctx.Command() is the command followed by its positional arguments.
	name, _, _ := strings.Cut(ctx.Command(), " ")
	cli.mode = commandModes[name]
	return cli
}

const logHelp = `
Log modules:
  --log accepts a comma-separated list of modules among:
%s
  'all' enables all of them, 'no' disables logging, warnings included.
`

func printHelp(options kong.HelpOptions, ctx *kong.Context) error {
	if err := kong.DefaultHelpPrinter(options, ctx); err != nil {
		return err
	}
	if ctx.Selected() == nil || ctx.Selected().Name == "run" {
		var sb strings.Builder
		for _, name := range log.ModuleNames() {
			fmt.Fprintf(&sb, "    - %s\n", name)
		}
		fmt.Fprintf(ctx.Stdout, logHelp, sb.String())
	}
	return nil
}

type logModMask log.ModuleMask

// Decode implements kong.MapperValue.
func (lm *logModMask) Decode(ctx *kong.DecodeContext) error {
	var list string
	if err := ctx.Scan.PopValueInto("modules", &list); err != nil {
		return err
	}
	mask, err := enableLogModules(strings.Split(list, ","))
	*lm = logModMask(mask)
	return err
}

// enableLogModules enables debug logging for the named modules, 'all'
// standing for all of them. 'no' disables logging altogether and can't be
// combined.
func enableLogModules(names []string) (log.ModuleMask, error) {
	var (
		mask  log.ModuleMask
		nolog bool
	)
	for _, name := range names {
		switch name {
		case "all":
			mask |= log.ModuleMaskAll
		case "no":
			nolog = true
		default:
			mod, ok := log.ModuleByName(name)
			if !ok {
				return 0, fmt.Errorf("unknown log module %s", name)
			}
			mask |= mod.Mask()
		}
	}

	if nolog {
		if mask != 0 {
			return 0, fmt.Errorf("'no' can't be combined with other log modules")
		}
		log.Disable()
		return 0, nil
	}
	log.EnableDebugModules(mask)
	return mask, nil
}

// outfile is a FILE|stdout|stderr flag value.
type outfile struct {
	io.Writer
	name string
	file *os.File // nil for standard streams
}

// Decode implements kong.MapperValue.
func (f *outfile) Decode(ctx *kong.DecodeContext) error {
	if err := ctx.Scan.PopValueInto("file", &f.name); err != nil {
		return err
	}

	switch f.name {
	case "stdout":
		f.Writer = os.Stdout
	case "stderr":
		f.Writer = os.Stderr
	default:
		fd, err := os.Create(f.name)
		if err != nil {
			return err
		}
		f.Writer, f.file = fd, fd
	}
	return nil
}

func (f *outfile) String() string { return f.name }

func (f *outfile) Close() error {
	if f.file == nil {
		return nil
	}
	return f.file.Close()
}

func checkf(err error, format string, args ...any) {
	if err != nil {
		fatalf("%s: %s", fmt.Sprintf(format, args...), err)
	}
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "nescore: "+format+"\n", args...)
	os.Exit(1)
}
