// Package main is the entry point for the rfleet CLI.
//
// rfleet provisions three loosely-coupled units of AWS infrastructure from a
// single declarative YAML file: a VPC network, a fixed-size EC2 fleet for a
// Redis-like data store, and a managed EKS cluster with optional add-ons.
//
// Commands: init, apply, destroy, validate, outputs, version.
//
// For detailed usage information, run:
//
//	rfleet --help
package main

import (
	"fmt"
	"os"

	"github.com/rfleet/rfleet/cmd/rfleet/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
