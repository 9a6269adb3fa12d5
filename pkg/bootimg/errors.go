package bootimg

import "errors"

var (
	ErrBadMagic       = errors.New("no Android magic value")
	ErrTruncated      = errors.New("cannot read boot image header")
	ErrNoKernel       = errors.New("kernel size is null")
	ErrNoPageSize     = errors.New("image page size is null")
	ErrPageTooSmall   = errors.New("page size smaller than header record")
	ErrOversize       = errors.New("image content is too big for the boot image")
	ErrImmutableSize  = errors.New("cannot change boot image size for a block device")
	ErrBadConfigEntry = errors.New("bad config entry")
	ErrCmdlineTooLong = errors.New("cmdline is too long")
	ErrNoSource       = errors.New("no source image to carry segment from")
)
