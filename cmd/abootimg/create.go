package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/Antorya/abootimg/internal/blockdev"
	"github.com/Antorya/abootimg/pkg/bootimg"
)

func createCmd() *cli.Command {
	return &cli.Command{
		Name:      "create",
		Aliases:   []string{"t"},
		Usage:     "Create a boot image from a kernel and optional payloads",
		ArgsUsage: "<bootimg>",
		Flags:     append(configFlags(), segmentFlags()...),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 1 {
				return errors.New("create: exactly one boot image path is required")
			}
			if !cmd.IsSet("kernel") {
				return errors.New("create: a kernel image is required (-k)")
			}
			applyConfig(cmd, loadConfig())
			log := newLogger()
			path := cmd.Args().First()

			tgt, err := describeTarget(path)
			if err != nil {
				return err
			}
			if tgt.BlockDev {
				fstype, err := blockdev.ProbeFilesystem(path)
				if err != nil {
					return err
				}
				if fstype != "" {
					return fmt.Errorf("%s: refusing to write over a valid partition type (%s)", path, fstype)
				}
			}

			img, err := bootimg.Create(tgt)
			if err != nil {
				return err
			}
			defer func() { _ = img.Close() }()

			if err := applyConfigSources(cmd, img, log); err != nil {
				return err
			}
			if err := img.ResolveSegments(kernelFile, ramdiskFile, secondFile); err != nil {
				return err
			}
			if ramdiskFile == "" {
				log.Warn("creating image without a ramdisk", "image", path)
			}
			if err := img.WriteImage(); err != nil {
				return err
			}
			log.Info("boot image created", "image", path, "size", img.Size)
			return nil
		},
	}
}
