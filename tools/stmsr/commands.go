// Copyright 2021 the System Transparency Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"strconv"

	"system-transparency.org/stmsr/msr"
	"system-transparency.org/stmsr/sterror"
	"system-transparency.org/stmsr/stlog"
)

// Operations used for raising Errors of this package.
const (
	ErrOpParse sterror.Op = "parse argument"
)

func parseReg(s string) (uint32, error) {
	reg, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, sterror.E(sterror.Tool, ErrOpParse, err, "register "+s)
	}

	return uint32(reg), nil
}

func parseValue(s string) (uint64, error) {
	val, err := strconv.ParseUint(s, 0, 64)
	if err != nil {
		return 0, sterror.E(sterror.Tool, ErrOpParse, err, "value "+s)
	}

	return val, nil
}

func readCmd(o msr.Opener, cpu uint16, regArg string, out io.Writer) error {
	reg, err := parseReg(regArg)
	if err != nil {
		return err
	}

	a, err := msr.NewWithOpener(reg, cpu, o)
	if err != nil {
		return err
	}
	defer a.Close()

	val, err := a.Read()
	if err != nil {
		return err
	}

	stlog.Debug("read %#x from register %#x on cpu %d", val, reg, cpu)

	_, err = fmt.Fprintf(out, "0x%016x\n", val)

	return err
}

func writeCmd(o msr.Opener, cpu uint16, regArg, valArg string) error {
	reg, err := parseReg(regArg)
	if err != nil {
		return err
	}

	val, err := parseValue(valArg)
	if err != nil {
		return err
	}

	a, err := msr.NewWithOpener(reg, cpu, o)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.WriteValue(val); err != nil {
		return err
	}

	stlog.Info("wrote %#x to register %#x on cpu %d", val, reg, cpu)

	return nil
}

func probeCmd(o msr.Opener, cpu uint16, out io.Writer) error {
	a, err := msr.NewWithOpener(0, cpu, o)
	if err != nil {
		return err
	}

	if err := a.Close(); err != nil {
		return err
	}

	_, err = fmt.Fprintf(out, "%s: available\n", a.Path())

	return err
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case msr.IsMissingKernelModule(err):
		stlog.Error("%v", err)
		stlog.Info("load the kernel module with 'modprobe msr'")

		return exitMissingModule
	default:
		stlog.Error("%v", err)

		return exitFailure
	}
}
