package blockdev

import (
	"bytes"
	"errors"
	"io"
	"os"
)

// probeLen covers every signature offset below, including the btrfs
// superblock at 64 KiB.
const probeLen = 68 * 1024

type signature struct {
	name   string
	offset int64
	magic  []byte
}

// Superblock magics of filesystems commonly found on flashable
// partitions. The set mirrors what blkid would flag on such devices; an
// existing Android boot image ("ANDROID!") matches none of them.
var signatures = []signature{
	{"ext", 1080, []byte{0x53, 0xEF}},
	{"xfs", 0, []byte("XFSB")},
	{"squashfs", 0, []byte("hsqs")},
	{"f2fs", 1024, []byte{0x10, 0x20, 0xF5, 0xF2}},
	{"btrfs", 65600, []byte("_BHRfS_M")},
	{"vfat", 82, []byte("FAT32   ")},
	{"vfat", 54, []byte("FAT16   ")},
	{"vfat", 54, []byte("FAT12   ")},
	{"ntfs", 3, []byte("NTFS    ")},
	{"gpt", 512, []byte("EFI PART")},
	{"iso9660", 32769, []byte("CD001")},
	{"swap", 4086, []byte("SWAPSPACE2")},
}

// ProbeFilesystem reports the name of a recognised filesystem signature
// on the target, or "" when none is found. Create passes use it to refuse
// overwriting a live partition.
func ProbeFilesystem(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", err
	}
	defer func() { _ = f.Close() }()

	buf := make([]byte, probeLen)
	n, err := f.ReadAt(buf, 0)
	if err != nil && err != io.EOF {
		return "", err
	}
	buf = buf[:n]

	for _, sig := range signatures {
		end := sig.offset + int64(len(sig.magic))
		if end > int64(len(buf)) {
			continue
		}
		if bytes.Equal(buf[sig.offset:end], sig.magic) {
			return sig.name, nil
		}
	}
	return "", nil
}
