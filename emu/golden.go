package emu

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"nescore/emu/log"
	"nescore/hw"
	"nescore/ines"
)

// TraceLine is the CPU state before an instruction executes, as found in an
// execution trace, either the one written by hw.Tracer or the nestest.log
// format.
type TraceLine struct {
	PC        uint16
	Bytes     []byte
	A, X, Y   uint8
	P         uint8
	SP        uint8
	Cycles    int64
	HasCycles bool
}

func (tl TraceLine) String() string {
	s := fmt.Sprintf("%04X % X A:%02X X:%02X Y:%02X P:%02X SP:%02X", tl.PC, tl.Bytes, tl.A, tl.X, tl.Y, tl.P, tl.SP)
	if tl.HasCycles {
		s += " CYC:" + strconv.FormatInt(tl.Cycles, 10)
	}
	return s
}

func ishex2(s string) bool {
	if len(s) != 2 {
		return false
	}
	_, err := strconv.ParseUint(s, 16, 8)
	return err == nil
}

// ParseTraceLine parses a line of execution trace. Fields it does not know
// about, such as the disassembly or PPU positions, are ignored. Cycles are
// ignored in the old nestest format, where CYC counts PPU dots.
func ParseTraceLine(line string) (TraceLine, error) {
	var tl TraceLine

	toks := strings.Fields(line)
	if len(toks) == 0 {
		return tl, errors.New("empty line")
	}
	pc, err := strconv.ParseUint(toks[0], 16, 16)
	if err != nil || len(toks[0]) != 4 {
		return tl, fmt.Errorf("invalid PC %q", toks[0])
	}
	tl.PC = uint16(pc)

	toks = toks[1:]
	for len(toks) > 0 && len(tl.Bytes) < 3 && ishex2(toks[0]) {
		b, _ := strconv.ParseUint(toks[0], 16, 8)
		tl.Bytes = append(tl.Bytes, uint8(b))
		toks = toks[1:]
	}
	if len(tl.Bytes) == 0 {
		return tl, errors.New("missing instruction bytes")
	}

	regs := []struct {
		prefix string
		val    *uint8
		found  bool
	}{
		{prefix: "A:", val: &tl.A},
		{prefix: "X:", val: &tl.X},
		{prefix: "Y:", val: &tl.Y},
		{prefix: "P:", val: &tl.P},
		{prefix: "SP:", val: &tl.SP},
	}

	oldfmt := false
	for i, tok := range toks {
		switch {
		case strings.HasPrefix(tok, "SL:"):
			oldfmt = true
		case strings.HasPrefix(tok, "CYC:"):
			s := tok[len("CYC:"):]
			if s == "" && i+1 < len(toks) {
				s = toks[i+1]
			}
			cyc, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				return tl, fmt.Errorf("invalid cycles %q", s)
			}
			tl.Cycles, tl.HasCycles = cyc, true
		default:
			for j := range regs {
				if !strings.HasPrefix(tok, regs[j].prefix) {
					continue
				}
				v, err := strconv.ParseUint(tok[len(regs[j].prefix):], 16, 8)
				if err != nil {
					return tl, fmt.Errorf("invalid register %q", tok)
				}
				*regs[j].val = uint8(v)
				regs[j].found = true
			}
		}
	}
	for _, r := range regs {
		if !r.found {
			return tl, fmt.Errorf("missing register %s", strings.TrimSuffix(r.prefix, ":"))
		}
	}
	if oldfmt {
		tl.Cycles, tl.HasCycles = 0, false
	}
	return tl, nil
}

// MismatchError reports the first difference between an execution and its
// golden trace.
type MismatchError struct {
	Line int // 1-based
	Want TraceLine
	Got  TraceLine
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("golden trace mismatch at line %d\nwant: %s\ngot:  %s", e.Line, e.Want, e.Got)
}

func (tl TraceLine) equal(o TraceLine) bool {
	if tl.HasCycles && o.HasCycles && tl.Cycles != o.Cycles {
		return false
	}
	return tl.PC == o.PC && bytes.Equal(tl.Bytes, o.Bytes) &&
		tl.A == o.A && tl.X == o.X && tl.Y == o.Y && tl.P == o.P && tl.SP == o.SP
}

// Verify executes the CPU and compares its state, before each instruction,
// with the lines of the golden trace. Comparison stops after limit lines, if
// limit is positive, or once the CPU halts. It returns the number of matching
// lines and a *MismatchError at the first difference.
func Verify(ctx context.Context, cpu *hw.CPU, bus *hw.Bus, golden io.Reader, limit int) (int, error) {
	scan := bufio.NewScanner(golden)
	nlines := 0
	for scan.Scan() {
		if limit > 0 && nlines >= limit {
			break
		}
		if strings.TrimSpace(scan.Text()) == "" {
			continue
		}
		if nlines&0x3FF == 0 {
			if err := ctx.Err(); err != nil {
				return nlines, err
			}
		}

		want, err := ParseTraceLine(scan.Text())
		if err != nil {
			return nlines, fmt.Errorf("golden trace line %d: %w", nlines+1, err)
		}

		got := TraceLine{
			PC:        cpu.ProgramCounter(),
			P:         uint8(cpu.Status()),
			SP:        cpu.StackPointer(),
			Cycles:    cpu.Cycles,
			HasCycles: true,
		}
		got.A, got.X, got.Y = cpu.Registers()

		tr, err := cpu.StepTrace(bus)
		got.Bytes = tr.Bytes()
		if !want.equal(got) {
			return nlines, &MismatchError{Line: nlines + 1, Want: want, Got: got}
		}
		nlines++
		if errors.Is(err, hw.ErrHalted) {
			return nlines, nil
		}
		if err != nil {
			return nlines - 1, fmt.Errorf("line %d: %w", nlines, err)
		}
	}
	if err := scan.Err(); err != nil {
		return nlines, err
	}
	return nlines, nil
}

// VerifyJob is a ROM to check against its golden trace.
type VerifyJob struct {
	RomPath string
	LogPath string
	StartPC uint16
	Limit   int
}

// VerifyResult is the outcome of a VerifyJob.
type VerifyResult struct {
	Job   VerifyJob
	Lines int
	Err   error
}

// VerifyAll runs the jobs concurrently, each on its own machine. The returned
// error is only set if ctx is canceled, per-job errors are reported in
// results.
func VerifyAll(ctx context.Context, jobs []VerifyJob) ([]VerifyResult, error) {
	results := make([]VerifyResult, len(jobs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for i, job := range jobs {
		g.Go(func() error {
			results[i] = verifyOne(ctx, job)
			return ctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

func verifyOne(ctx context.Context, job VerifyJob) VerifyResult {
	res := VerifyResult{Job: job}

	rom, err := ines.Open(job.RomPath)
	if err != nil {
		res.Err = err
		return res
	}
	cpu, bus, err := Load(rom)
	if err != nil {
		res.Err = err
		return res
	}
	cpu.PC = job.StartPC

	f, err := os.Open(job.LogPath)
	if err != nil {
		res.Err = err
		return res
	}
	defer f.Close()

	res.Lines, res.Err = Verify(ctx, cpu, bus, f, job.Limit)
	log.ModEmu.InfoZ("golden trace verified").
		String("rom", job.RomPath).
		Int("lines", res.Lines).
		Error("err", res.Err).
		End()
	return res
}
