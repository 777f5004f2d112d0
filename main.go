package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime/debug"

	"nescore/emu"
	"nescore/emu/log"
	"nescore/hw/snapshot"
	"nescore/ines"
)

func main() {
	cfg := parseArgs(os.Args[1:])

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	switch cfg.mode {
	case romInfosMode:
		rom, err := ines.Open(cfg.RomInfos.RomPath)
		checkf(err, "failed to open rom")
		rom.PrintInfos(os.Stdout)
	case configMode:
		checkf(showConfig(os.Stdout, cfg.Config), "config")
	case versionMode:
		fmt.Println("nescore", version())
	case verifyMode:
		checkf(verify(ctx, os.Stdout, cfg.Verify), "verify")
	case runMode:
		checkf(run(ctx, os.Stdout, cfg.Run), "run")
	}
}

func version() string {
	bi, ok := debug.ReadBuildInfo()
	if !ok || bi.Main.Version == "" {
		return "(devel)"
	}
	return bi.Main.Version
}

func showConfig(w io.Writer, cmd ConfigCmd) error {
	conf, err := emu.LoadConfig(cmd.Path)
	if err != nil {
		return err
	}
	if cmd.Save {
		if err := emu.SaveConfig(conf); err != nil {
			return err
		}
		log.ModEmu.InfoZ("configuration saved").String("dir", emu.ConfigDir()).End()
	}
	buf, err := conf.Marshal()
	if err != nil {
		return err
	}
	_, err = w.Write(buf)
	return err
}

func run(ctx context.Context, w io.Writer, args Run) error {
	conf, err := emu.LoadConfig(args.Config)
	if err != nil {
		return err
	}
	if args.Steps != 0 {
		conf.Run.MaxSteps = args.Steps
	}
	if args.StartPC != "" {
		conf.CPU.StartPC = args.StartPC
	}
	if args.OnError != "" {
		if err := conf.Run.OnError.UnmarshalText([]byte(args.OnError)); err != nil {
			return err
		}
	}
	if len(conf.Log.Modules) != 0 {
		if _, err := enableLogModules(conf.Log.Modules); err != nil {
			return fmt.Errorf("config: %w", err)
		}
	}

	rom, err := ines.Open(args.RomPath)
	if err != nil {
		return err
	}
	log.ModEmu.Infof("loaded %s: mapper %d, %s mirroring", args.RomPath, rom.Mapper(), rom.Mirroring())
	cpu, bus, err := emu.Load(rom)
	if err != nil {
		return err
	}
	if err := conf.CPU.Apply(cpu); err != nil {
		return err
	}

	r := emu.Runner{
		CPU:      cpu,
		Bus:      bus,
		Policy:   conf.Run.OnError,
		MaxSteps: conf.Run.MaxSteps,
	}
	if args.Trace != nil {
		defer args.Trace.Close()
		bw := bufio.NewWriterSize(args.Trace, 1<<16)
		defer bw.Flush()
		r.Trace = bw
	}

	st, runErr := r.Run(ctx)
	fmt.Fprintf(w, "steps: %d, cycles: %d, errors: %d\n", st.Steps, st.Cycles, st.Errors)

	if args.DumpState != "" {
		buf, err := snapshot.Capture(cpu, bus).MarshalJSON()
		if err != nil {
			return err
		}
		if err := os.WriteFile(args.DumpState, buf, 0644); err != nil {
			return err
		}
	}
	return runErr
}

func verify(ctx context.Context, w io.Writer, args Verify) error {
	if len(args.Files)%2 != 0 {
		return fmt.Errorf("expected pairs of rom and log files, got %d files", len(args.Files))
	}
	pc, err := emu.ParseAddr(args.StartPC)
	if err != nil {
		return err
	}

	var jobs []emu.VerifyJob
	for i := 0; i < len(args.Files); i += 2 {
		jobs = append(jobs, emu.VerifyJob{
			RomPath: args.Files[i],
			LogPath: args.Files[i+1],
			StartPC: pc,
			Limit:   args.Limit,
		})
	}

	results, err := emu.VerifyAll(ctx, jobs)
	if err != nil {
		return err
	}

	nfailed := 0
	for _, res := range results {
		if res.Err != nil {
			nfailed++
			fmt.Fprintf(w, "FAIL %s (%d lines ok): %v\n", res.Job.RomPath, res.Lines, res.Err)
			continue
		}
		fmt.Fprintf(w, "ok   %s (%d lines)\n", res.Job.RomPath, res.Lines)
	}
	if nfailed != 0 {
		return fmt.Errorf("%d/%d golden traces failed", nfailed, len(results))
	}
	return nil
}
