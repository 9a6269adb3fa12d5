package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"github.com/Antorya/abootimg/pkg/bootimg"
)

type segmentInfo struct {
	Size     uint32 `json:"size"`
	LoadAddr string `json:"load_addr"`
	Offset   uint64 `json:"offset"`
}

type imageInfo struct {
	Path        string       `json:"path"`
	BlockDevice bool         `json:"block_device"`
	ImageSize   uint64       `json:"image_size"`
	ContentSize uint64       `json:"content_size"`
	PageSize    uint32       `json:"page_size"`
	Name        string       `json:"name,omitempty"`
	Cmdline     string       `json:"cmdline"`
	TagsAddr    string       `json:"tags_addr"`
	Kernel      segmentInfo  `json:"kernel"`
	Ramdisk     segmentInfo  `json:"ramdisk"`
	Second      *segmentInfo `json:"second,omitempty"`
}

func inspectCmd() *cli.Command {
	return &cli.Command{
		Name:      "inspect",
		Aliases:   []string{"i"},
		Usage:     "Print boot image header information",
		ArgsUsage: "<bootimg>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "emit machine-readable JSON",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 1 {
				return errors.New("inspect: exactly one boot image path is required")
			}
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

			info := collectInfo(img)
			if cmd.Bool("json") {
				out, err := json.MarshalIndent(info, "", "  ")
				if err != nil {
					return err
				}
				fmt.Println(string(out))
				return nil
			}
			printInfo(info)
			return nil
		},
	}
}

func collectInfo(img *bootimg.Image) imageInfo {
	h := &img.Header
	layout := h.Layout()

	info := imageInfo{
		Path:        img.Path,
		BlockDevice: img.BlockDev,
		ImageSize:   img.Size,
		ContentSize: layout.TotalSize,
		PageSize:    h.PageSize,
		Name:        h.NameString(),
		Cmdline:     h.CmdlineString(),
		TagsAddr:    fmt.Sprintf("0x%08x", h.TagsAddr),
		Kernel: segmentInfo{
			Size:     h.KernelSize,
			LoadAddr: fmt.Sprintf("0x%08x", h.KernelAddr),
			Offset:   layout.KernelOffset,
		},
		Ramdisk: segmentInfo{
			Size:     h.RamdiskSize,
			LoadAddr: fmt.Sprintf("0x%08x", h.RamdiskAddr),
			Offset:   layout.RamdiskOffset,
		},
	}
	if h.SecondSize != 0 {
		info.Second = &segmentInfo{
			Size:     h.SecondSize,
			LoadAddr: fmt.Sprintf("0x%08x", h.SecondAddr),
			Offset:   layout.SecondOffset,
		}
	}
	return info
}

func printInfo(info imageInfo) {
	w := os.Stdout
	fmt.Fprintf(w, "Android Boot Image Info:\n\n")
	fmt.Fprintf(w, "* file name = %s\n\n", info.Path)
	fmt.Fprintf(w, "* image size = %d bytes\n", info.ImageSize)
	fmt.Fprintf(w, "  page size  = %d bytes\n\n", info.PageSize)
	if info.Name != "" {
		fmt.Fprintf(w, "* Boot Name = %q\n\n", info.Name)
	}
	fmt.Fprintf(w, "* kernel size  = %d bytes\n", info.Kernel.Size)
	fmt.Fprintf(w, "  ramdisk size = %d bytes\n", info.Ramdisk.Size)
	if info.Second != nil {
		fmt.Fprintf(w, "  second size  = %d bytes\n", info.Second.Size)
	}
	fmt.Fprintf(w, "\n* load addresses:\n")
	fmt.Fprintf(w, "  kernel:  %s\n", info.Kernel.LoadAddr)
	fmt.Fprintf(w, "  ramdisk: %s\n", info.Ramdisk.LoadAddr)
	if info.Second != nil {
		fmt.Fprintf(w, "  second:  %s\n", info.Second.LoadAddr)
	}
	fmt.Fprintf(w, "  tags:    %s\n\n", info.TagsAddr)
	fmt.Fprintf(w, "* cmdline = %s\n", info.Cmdline)
}
