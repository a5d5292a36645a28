// Copyright 2021 the System Transparency Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

// stmsr reads and writes model specific registers through the device
// nodes of the msr kernel module.

import (
	"io"
	"os"

	"gopkg.in/alecthomas/kingpin.v2"
	"system-transparency.org/stmsr/opts"
	"system-transparency.org/stmsr/stlog"
)

const (
	// HelpText is the command line help
	HelpText = "stmsr reads and writes x86 model specific registers from user space"

	configHelp   = "JSON configuration file, skipped if missing"
	logLevelHelp = "Log level: e 'errors' w 'warn', i 'info', d 'debug'."
	syslogHelp   = "Log to the kernel syslog instead of stderr"
	rootHelp     = "Directory holding the <cpu>/msr device nodes"
	cpuHelp      = "Logical CPU index"
	regHelp      = "Register address, 0x prefix for hex"
	valueHelp    = "Value to write, 0x prefix for hex"
)

// Exit codes.
const (
	exitOK            = 0
	exitFailure       = 1
	exitMissingModule = 2
)

var goversion string

type cli struct {
	app *kingpin.Application

	config   *string
	logLevel *string
	syslog   *bool
	root     *string

	read    *kingpin.CmdClause
	readCPU *uint16
	readReg *string

	write      *kingpin.CmdClause
	writeCPU   *uint16
	writeReg   *string
	writeValue *string

	probe    *kingpin.CmdClause
	probeCPU *uint16
}

func newCLI(stderr io.Writer) *cli {
	app := kingpin.New("stmsr", HelpText)
	app.UsageTemplate(kingpin.CompactUsageTemplate).Version(goversion)
	app.ErrorWriter(stderr)
	app.UsageWriter(stderr)

	c := &cli{app: app}

	c.config = app.Flag("config", configHelp).Default(opts.DefaultConfigFile).String()
	c.logLevel = app.Flag("loglevel", logLevelHelp).String()
	c.syslog = app.Flag("syslog", syslogHelp).Bool()
	c.root = app.Flag("root", rootHelp).String()

	c.read = app.Command("read", "Read a register and print its value")
	c.readCPU = c.read.Flag("cpu", cpuHelp).Short('c').Default("0").Uint16()
	c.readReg = c.read.Arg("register", regHelp).Required().String()

	c.write = app.Command("write", "Write a value to a register")
	c.writeCPU = c.write.Flag("cpu", cpuHelp).Short('c').Default("0").Uint16()
	c.writeReg = c.write.Arg("register", regHelp).Required().String()
	c.writeValue = c.write.Arg("value", valueHelp).Required().String()

	c.probe = app.Command("probe", "Check whether the device node of a CPU can be opened")
	c.probeCPU = c.probe.Flag("cpu", cpuHelp).Short('c').Default("0").Uint16()

	return c
}

// run executes the command line args and returns the exit code.
func (c *cli) run(args []string, stdout io.Writer) int {
	command, err := c.app.Parse(args)
	if err != nil {
		stlog.Error("%v, try --help", err)

		return exitFailure
	}

	o, err := opts.NewOpts(
		opts.WithFile(*c.config),
		opts.WithDeviceRoot(*c.root),
		opts.WithLogLevel(*c.logLevel),
		opts.WithSyslog(*c.syslog))
	if err != nil {
		stlog.Error("load opts: %v", err)

		return exitFailure
	}

	if err := o.Validate(); err != nil {
		stlog.Error("invalid opts: %v", err)

		return exitFailure
	}

	if err := o.Apply(); err != nil {
		stlog.Warn("apply opts: %v", err)
	}

	stlog.Debug("Opts: %+v", *o)

	opener := o.Opener()

	switch command {
	case c.read.FullCommand():
		err = readCmd(opener, *c.readCPU, *c.readReg, stdout)
	case c.write.FullCommand():
		err = writeCmd(opener, *c.writeCPU, *c.writeReg, *c.writeValue)
	case c.probe.FullCommand():
		err = probeCmd(opener, *c.probeCPU, stdout)
	default:
		stlog.Error("command not found")

		return exitFailure
	}

	return exitCode(err)
}

func main() {
	os.Exit(newCLI(os.Stderr).run(os.Args[1:], os.Stdout))
}
