package main

import (
	"fmt"
	"os"

	"github.com/IBM/SVCheck/internal/app"
	"github.com/IBM/SVCheck/internal/exitcode"
	"github.com/spf13/pflag"
)

// version is overridden at build time via -ldflags
var version = "2.0.0"

func main() {
	var (
		ip          string
		username    string
		password    string
		configPath  string
		outputRoot  string
		verbose     bool
		showVersion bool
		showHelp    bool
	)

	pflag.StringVarP(&ip, "ip", "i", "", "IPv4 address of the managed system (required)")
	pflag.StringVarP(&username, "username", "u", "", "management API username (required)")
	pflag.StringVarP(&password, "password", "p", "", "management API password (prompted when omitted)")
	pflag.BoolVarP(&verbose, "verbose", "v", false, "debug output on the console")
	pflag.BoolVarP(&showVersion, "version", "V", false, "print version and exit")
	pflag.BoolVarP(&showHelp, "help", "h", false, "print this help and exit")
	pflag.StringVar(&configPath, "config", "", "path to svcheck.yaml")
	pflag.StringVar(&outputRoot, "output", "", "output directory root (default ./output)")
	pflag.Usage = usage
	pflag.Parse()

	if showHelp {
		usage()
		os.Exit(exitcode.Success)
	}
	if showVersion {
		fmt.Printf("svcheck %s\n", version)
		os.Exit(exitcode.Success)
	}
	if ip == "" || username == "" {
		fmt.Fprintln(os.Stderr, "svcheck: --ip and --username are required")
		usage()
		os.Exit(exitcode.GenericError)
	}

	os.Exit(app.Run(version, app.Options{
		ConfigPath: configPath,
		Target:     ip,
		Username:   username,
		Password:   password,
		OutputRoot: outputRoot,
		Verbose:    verbose,
	}))
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: svcheck -i <ip> -u <username> [-p <password>] [flags]\n\nFlags:\n%s", pflag.CommandLine.FlagUsages())
}
