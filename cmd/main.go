package main

import (
	"flag"
	"fmt"
	"strconv"
	"time"

	"github.com/golang/glog"
	"github.com/pkg/profile"

	"github.com/nevisdale/nescore/internal/nes"
)

var (
	romPath     = flag.String("rom", "", "path to NES ROM file (iNES)")
	cycles      = flag.Uint64("cycles", nes.CPUFrequency, "number of CPU cycles to run, 0 runs until -duration expires")
	duration    = flag.Duration("duration", 0, "wall-clock budget, used when -cycles is 0")
	start       = flag.String("start", "", "hex start address overriding the reset vector, e.g. C000")
	disasm      = flag.Int("disasm", 0, "print this many instructions from the start address and exit")
	profileMode = flag.String("profile", "", "write a profile: cpu, mem or trace")
)

func profileOption(mode string) (func(*profile.Profile), error) {
	switch mode {
	case "cpu":
		return profile.CPUProfile, nil
	case "mem":
		return profile.MemProfile, nil
	case "trace":
		return profile.TraceProfile, nil
	}
	return nil, fmt.Errorf("unknown profile mode %q", mode)
}

func config() (nes.Config, error) {
	var cfg nes.Config
	if *start == "" {
		return cfg, nil
	}
	addr, err := strconv.ParseUint(*start, 16, 16)
	if err != nil {
		return cfg, fmt.Errorf("invalid start address %q: %w", *start, err)
	}
	cfg.StartAddr = uint16(addr)
	cfg.UseStartAddr = true
	return cfg, nil
}

func run() error {
	if *romPath == "" {
		return fmt.Errorf("-rom is required")
	}

	if *profileMode != "" {
		opt, err := profileOption(*profileMode)
		if err != nil {
			return err
		}
		defer profile.Start(opt, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	}

	cfg, err := config()
	if err != nil {
		return err
	}

	console, err := nes.NewConsoleFromFile(*romPath, cfg)
	if err != nil {
		return err
	}

	cpu := console.CPU()
	if *disasm > 0 {
		for _, line := range cpu.Disassemble(cpu.Registers().PC, *disasm) {
			fmt.Println(line)
		}
		return nil
	}

	began := time.Now()
	switch {
	case *cycles > 0:
		console.Run(*cycles)
	case *duration > 0:
		for time.Since(began) < *duration {
			console.Run(nes.CPUFrequency / 60)
		}
	default:
		for {
			console.Run(nes.CPUFrequency / 60)
		}
	}

	glog.Infof("ran %d cycles in %s: %s, %d unrecognized opcodes",
		cpu.Cycles(), time.Since(began), cpu.Registers(), cpu.UnrecognizedOpcodes())
	return nil
}

func main() {
	flag.Parse()
	defer glog.Flush()

	if err := run(); err != nil {
		glog.Exitf("nescore: %s", err)
	}
}
