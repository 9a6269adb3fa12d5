package main

import (
	"os"

	"github.com/urfave/cli/v3"

	"github.com/Antorya/abootimg/internal/blockdev"
	"github.com/Antorya/abootimg/internal/logger"
	"github.com/Antorya/abootimg/pkg/bootimg"
)

var (
	// update/create inputs
	configFile  string
	kernelFile  string
	ramdiskFile string
	secondFile  string

	// extract outputs
	configOut  string
	kernelOut  string
	ramdiskOut string
	secondOut  string

	logLevel  string
	logFormat string
)

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "log level (debug, info, warn, error)",
			Value:       "info",
			Destination: &logLevel,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "log output format (pretty, text, json)",
			Value:       "pretty",
			Destination: &logFormat,
		},
	}
}

// configFlags are the header-edit inputs shared by update and create.
func configFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config-file",
			Aliases:     []string{"f"},
			Usage:       "config file with \"key = value\" lines",
			Destination: &configFile,
		},
		&cli.StringSliceFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "inline config entry, e.g. \"pagesize = 0x1000\" (repeatable)",
		},
	}
}

// segmentFlags are the replacement payloads shared by update and create.
func segmentFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "kernel",
			Aliases:     []string{"k"},
			Usage:       "replacement kernel image",
			Destination: &kernelFile,
		},
		&cli.StringFlag{
			Name:        "ramdisk",
			Aliases:     []string{"r"},
			Usage:       "replacement ramdisk image",
			Destination: &ramdiskFile,
		},
		&cli.StringFlag{
			Name:        "second",
			Aliases:     []string{"s"},
			Usage:       "replacement second stage image",
			Destination: &secondFile,
		},
	}
}

func newLogger() logger.Logger {
	level := logger.ParseLevel(logLevel)
	switch logFormat {
	case "json":
		return logger.JSON(os.Stderr, level)
	case "text":
		return logger.Text(os.Stderr, level)
	default:
		return logger.Pretty(os.Stderr, level)
	}
}

// describeTarget probes path and fills in the block device capacity when
// the target is a fixed-capacity device.
func describeTarget(path string) (bootimg.Target, error) {
	info, err := blockdev.Describe(path)
	if err != nil {
		return bootimg.Target{}, err
	}
	return bootimg.Target{Path: path, Size: info.Size, BlockDev: info.BlockDev}, nil
}
