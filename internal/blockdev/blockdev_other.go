//go:build !linux

package blockdev

// Describe reports a regular file on platforms without block device
// ioctls.
func Describe(path string) (Info, error) {
	return Info{}, nil
}
