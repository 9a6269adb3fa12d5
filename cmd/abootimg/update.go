package main

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/Antorya/abootimg/internal/logger"
	"github.com/Antorya/abootimg/pkg/bootimg"
)

func updateCmd() *cli.Command {
	return &cli.Command{
		Name:      "update",
		Aliases:   []string{"u"},
		Usage:     "Update a boot image in place",
		ArgsUsage: "<bootimg>",
		Flags:     append(configFlags(), segmentFlags()...),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 1 {
				return errors.New("update: exactly one boot image path is required")
			}
			applyConfig(cmd, loadConfig())
			log := newLogger()
			path := cmd.Args().First()

			tgt, err := describeTarget(path)
			if err != nil {
				return err
			}
			img, err := bootimg.Open(tgt, true)
			if err != nil {
				return err
			}
			defer func() { _ = img.Close() }()

			if img.Header.RamdiskSize == 0 {
				log.Warn("ramdisk size is null", "image", path)
			}

			if err := applyConfigSources(cmd, img, log); err != nil {
				return err
			}
			if err := img.ResolveSegments(kernelFile, ramdiskFile, secondFile); err != nil {
				return err
			}
			if err := img.WriteImage(); err != nil {
				return err
			}
			log.Info("boot image updated", "image", path, "size", img.Size)
			return nil
		},
	}
}

// applyConfigSources feeds the config file (if any) and then the inline
// -c directives, in that order, into the image's header.
func applyConfigSources(cmd *cli.Command, img *bootimg.Image, log logger.Logger) error {
	var sources []io.Reader

	if configFile != "" {
		log.Info("reading config file", "file", configFile)
		f, err := os.Open(configFile)
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()
		sources = append(sources, f)
	}
	if entries := cmd.StringSlice("config"); len(entries) > 0 {
		log.Debug("reading inline config entries", "count", len(entries))
		sources = append(sources, strings.NewReader(strings.Join(entries, "\n")))
	}
	if len(sources) == 0 {
		return nil
	}
	return img.ApplyConfig(sources...)
}
