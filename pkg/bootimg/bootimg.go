// Package bootimg implements the Android boot image container format.
//
// A boot image is a fixed-size header followed by up to three payload
// segments (kernel, ramdisk, optional second stage). The header occupies
// page zero and every segment starts on a page boundary; all placement is
// derived arithmetically from the segment sizes and the page size declared
// in the header.
package bootimg

// Boot image format constants. These are fixed by the format and must
// never change.
const (
	// BootMagic is the header magic for all Android boot images.
	BootMagic = "ANDROID!"

	BootMagicSize = 8
	BootNameSize  = 16
	BootArgsSize  = 512
	BootIDSize    = 8

	// HeaderSize is the size of the encoded header record in bytes.
	HeaderSize = 608

	// DefaultPageSize is stamped into freshly initialised headers.
	DefaultPageSize = 2048
)

// Header is the fixed-layout boot image header record.
//
// Unused, Name and ID are reserved fields: they are decoded, carried
// through unmodified and re-encoded, but never interpreted.
type Header struct {
	Magic       [BootMagicSize]byte
	KernelSize  uint32
	KernelAddr  uint32
	RamdiskSize uint32
	RamdiskAddr uint32
	SecondSize  uint32
	SecondAddr  uint32
	TagsAddr    uint32
	PageSize    uint32
	Unused      [2]uint32
	Name        [BootNameSize]byte
	Cmdline     [BootArgsSize]byte
	ID          [BootIDSize]uint32
}

// NewHeader returns a header for a freshly created image: magic stamped,
// default page size, everything else zero.
func NewHeader() Header {
	var h Header
	copy(h.Magic[:], BootMagic)
	h.PageSize = DefaultPageSize
	return h
}
