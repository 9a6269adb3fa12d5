package main

import (
	"context"
	"errors"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/Antorya/abootimg/pkg/bootimg"
)

func extractCmd() *cli.Command {
	return &cli.Command{
		Name:      "extract",
		Aliases:   []string{"x"},
		Usage:     "Unpack a boot image into its config and payload files",
		ArgsUsage: "<bootimg>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config-file",
				Aliases:     []string{"f"},
				Usage:       "output config file",
				Value:       "boot.info",
				Destination: &configOut,
			},
			&cli.StringFlag{
				Name:        "kernel",
				Aliases:     []string{"k"},
				Usage:       "output kernel file",
				Value:       "Image",
				Destination: &kernelOut,
			},
			&cli.StringFlag{
				Name:        "ramdisk",
				Aliases:     []string{"r"},
				Usage:       "output ramdisk file",
				Value:       "ramdisk.img",
				Destination: &ramdiskOut,
			},
			&cli.StringFlag{
				Name:        "second",
				Aliases:     []string{"s"},
				Usage:       "output second stage file",
				Value:       "stage2.img",
				Destination: &secondOut,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 1 {
				return errors.New("extract: exactly one boot image path is required")
			}
			applyConfig(cmd, loadConfig())
			log := newLogger()
			path := cmd.Args().First()

			tgt, err := describeTarget(path)
			if err != nil {
				return err
			}
			img, err := bootimg.Open(tgt, false)
			if err != nil {
				return err
			}
			defer func() { _ = img.Close() }()

			if img.Header.RamdiskSize == 0 {
				log.Warn("ramdisk size is null", "image", path)
			}

			cf, err := os.Create(configOut)
			if err != nil {
				return err
			}
			if err := img.WriteConfig(cf); err != nil {
				_ = cf.Close()
				return err
			}
			if err := cf.Close(); err != nil {
				return err
			}
			log.Info("wrote boot image config", "file", configOut)

			outputs := []struct {
				kind bootimg.SegmentKind
				path string
			}{
				{bootimg.Kernel, kernelOut},
				{bootimg.Ramdisk, ramdiskOut},
				{bootimg.Second, secondOut},
			}
			for _, out := range outputs {
				written, err := img.ExtractTo(out.kind, out.path)
				if err != nil {
					return err
				}
				if written {
					log.Info("extracted segment", "segment", out.kind.String(), "file", out.path)
				}
			}
			return nil
		},
	}
}
