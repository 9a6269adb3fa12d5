//go:build linux

package blockdev

import (
	"errors"
	"os"

	"golang.org/x/sys/unix"
)

// Describe stats path and, for block devices, queries the exact byte
// capacity with the BLKGETSIZE64 ioctl. A missing path is not an error:
// the image will simply be created as a regular file.
func Describe(path string) (Info, error) {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		if errors.Is(err, unix.ENOENT) {
			return Info{}, nil
		}
		return Info{}, &os.PathError{Op: "stat", Path: path, Err: err}
	}
	if st.Mode&unix.S_IFMT != unix.S_IFBLK {
		return Info{}, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return Info{}, err
	}
	defer func() { _ = f.Close() }()

	size, err := unix.IoctlGetInt(int(f.Fd()), unix.BLKGETSIZE64)
	if err != nil {
		return Info{}, &os.PathError{Op: "ioctl", Path: path, Err: err}
	}
	return Info{BlockDev: true, Size: uint64(size)}, nil
}
