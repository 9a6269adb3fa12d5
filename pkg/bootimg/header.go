package bootimg

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Encoded field offsets within the header record.
const (
	offKernelSize  = 8
	offKernelAddr  = 12
	offRamdiskSize = 16
	offRamdiskAddr = 20
	offSecondSize  = 24
	offSecondAddr  = 28
	offTagsAddr    = 32
	offPageSize    = 36
	offUnused      = 40
	offName        = 48
	offCmdline     = 64
	offID          = 576
)

// encodeHeader writes the exact fixed-size little-endian header record
// into dst. It reports false if dst is too small.
func encodeHeader(dst []byte, h Header) bool {
	if len(dst) < HeaderSize {
		return false
	}
	le := binary.LittleEndian
	copy(dst[0:BootMagicSize], h.Magic[:])
	le.PutUint32(dst[offKernelSize:], h.KernelSize)
	le.PutUint32(dst[offKernelAddr:], h.KernelAddr)
	le.PutUint32(dst[offRamdiskSize:], h.RamdiskSize)
	le.PutUint32(dst[offRamdiskAddr:], h.RamdiskAddr)
	le.PutUint32(dst[offSecondSize:], h.SecondSize)
	le.PutUint32(dst[offSecondAddr:], h.SecondAddr)
	le.PutUint32(dst[offTagsAddr:], h.TagsAddr)
	le.PutUint32(dst[offPageSize:], h.PageSize)
	le.PutUint32(dst[offUnused:], h.Unused[0])
	le.PutUint32(dst[offUnused+4:], h.Unused[1])
	copy(dst[offName:offName+BootNameSize], h.Name[:])
	copy(dst[offCmdline:offCmdline+BootArgsSize], h.Cmdline[:])
	for i, v := range h.ID {
		le.PutUint32(dst[offID+i*4:], v)
	}
	return true
}

// decodeHeader parses the fixed-size header record at the start of src.
// It reports false if src is too short; field validation is Check's job.
func decodeHeader(src []byte) (Header, bool) {
	if len(src) < HeaderSize {
		return Header{}, false
	}
	le := binary.LittleEndian
	var h Header
	copy(h.Magic[:], src[0:BootMagicSize])
	h.KernelSize = le.Uint32(src[offKernelSize:])
	h.KernelAddr = le.Uint32(src[offKernelAddr:])
	h.RamdiskSize = le.Uint32(src[offRamdiskSize:])
	h.RamdiskAddr = le.Uint32(src[offRamdiskAddr:])
	h.SecondSize = le.Uint32(src[offSecondSize:])
	h.SecondAddr = le.Uint32(src[offSecondAddr:])
	h.TagsAddr = le.Uint32(src[offTagsAddr:])
	h.PageSize = le.Uint32(src[offPageSize:])
	h.Unused[0] = le.Uint32(src[offUnused:])
	h.Unused[1] = le.Uint32(src[offUnused+4:])
	copy(h.Name[:], src[offName:offName+BootNameSize])
	copy(h.Cmdline[:], src[offCmdline:offCmdline+BootArgsSize])
	for i := range h.ID {
		h.ID[i] = le.Uint32(src[offID+i*4:])
	}
	return h, true
}

// EncodeHeader returns the encoded fixed-size header record.
func EncodeHeader(h Header) []byte {
	buf := make([]byte, HeaderSize)
	encodeHeader(buf, h)
	return buf
}

// DecodeHeader parses and validates a header record from the start of src.
// A zero ramdisk size is legal (rootfs-in-system images) and does not fail
// here; callers that care should warn on it.
func DecodeHeader(src []byte) (Header, error) {
	h, ok := decodeHeader(src)
	if !ok {
		return Header{}, ErrTruncated
	}
	if err := h.Check(); err != nil {
		return Header{}, err
	}
	return h, nil
}

// Check validates the invariants unpacking depends on: magic, a non-empty
// kernel and a usable page size.
func (h *Header) Check() error {
	if string(h.Magic[:]) != BootMagic {
		return ErrBadMagic
	}
	if h.KernelSize == 0 {
		return ErrNoKernel
	}
	if h.PageSize == 0 {
		return ErrNoPageSize
	}
	if h.PageSize < HeaderSize {
		return fmt.Errorf("%w: %d bytes", ErrPageTooSmall, h.PageSize)
	}
	return nil
}

// CheckCapacity fails if the computed layout does not fit in available bytes.
func (h *Header) CheckCapacity(available uint64) error {
	total := h.Layout().TotalSize
	if total > available {
		return fmt.Errorf("%w (%d vs %d bytes)", ErrOversize, total, available)
	}
	return nil
}

// CmdlineString returns the kernel command line without its zero-filled tail.
func (h *Header) CmdlineString() string {
	if i := bytes.IndexByte(h.Cmdline[:], 0); i >= 0 {
		return string(h.Cmdline[:i])
	}
	return string(h.Cmdline[:])
}

// SetCmdline replaces the kernel command line. The encoded form must leave
// room for the terminating zero byte.
func (h *Header) SetCmdline(s string) error {
	if len(s) >= BootArgsSize {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrCmdlineTooLong, len(s), BootArgsSize-1)
	}
	h.Cmdline = [BootArgsSize]byte{}
	copy(h.Cmdline[:], s)
	return nil
}

// NameString returns the reserved product name field without its zero tail.
func (h *Header) NameString() string {
	if i := bytes.IndexByte(h.Name[:], 0); i >= 0 {
		return string(h.Name[:i])
	}
	return string(h.Name[:])
}
