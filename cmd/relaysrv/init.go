package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/wtask/relay/pkg/semver"
)

type (
	// Configuration - server configuration.
	// Values come from the environment (optionally seeded from a .env
	// file) and may be overridden with command-line flags.
	Configuration struct {
		// IPAddress - bind the address
		IPAddress string `env:"RELAY_IP" envDefault:""`
		// Port - bind the port
		Port uint `env:"RELAY_PORT" envDefault:"20000"`
		// BusCapacity - num of recent messages retained for lagging clients
		BusCapacity int `env:"RELAY_BUS_CAPACITY" envDefault:"10"`
		// WriteTimeout - deadline for a single outbound write, 0 disables
		WriteTimeout time.Duration `env:"RELAY_WRITE_TIMEOUT" envDefault:"0s"`
	}
)

var (
	// Config - current configuration of the server
	Config = Configuration{}

	// BinaryName - name of run application binary
	BinaryName = strings.TrimSuffix(filepath.Base(os.Args[0]), filepath.Ext(os.Args[0]))

	// Version - app version fingerprint
	Version = semver.V{Minor: 1, Patch: 0}.String()
)

func init() {
	out := flag.CommandLine.Output()
	printUsage := func() {
		fmt.Fprintf(out, "Launch line relay server over TCP\n\n\t%s [options]\nOptions:\n\n", BinaryName)
		flag.PrintDefaults()
		fmt.Fprint(out, "\n")
	}
	printError := func(msg string) {
		fmt.Fprintf(out, "%s (v%s) error:\n\n\t%s\n", BinaryName, Version, msg)
	}

	// flag defaults are the environment values
	godotenv.Load()
	if err := env.Parse(&Config); err != nil {
		printError(fmt.Sprintf("invalid environment: %v", err))
		os.Exit(1)
	}

	help := false
	flag.BoolVar(&help, "help", false, "Print usage help")
	flag.StringVar(&Config.IPAddress, "ip", Config.IPAddress, "Listen address")
	flag.UintVar(&Config.Port, "port", Config.Port, "Listen port")
	flag.IntVar(
		&Config.BusCapacity,
		"bus-capacity",
		Config.BusCapacity,
		"Num of recent messages retained for clients which fall behind.",
	)
	flag.DurationVar(
		&Config.WriteTimeout,
		"write-timeout",
		Config.WriteTimeout,
		"Deadline for a single outbound write, 0 disables deadlines.",
	)

	flag.Parse()

	if help {
		printUsage()
		os.Exit(0)
	}

	if Config.Port == 0 || Config.Port > 65535 {
		printError("port value should be in range 1-65535")
		os.Exit(1)
	}

	if Config.BusCapacity < 1 {
		printError("bus-capacity value should be greater 0")
		os.Exit(1)
	}

	if Config.WriteTimeout < 0 {
		printError("write-timeout value should not be negative")
		os.Exit(1)
	}

	fmt.Fprint(out, "TCP line relay server is launching, press Ctrl-C to stop...\n")
}
