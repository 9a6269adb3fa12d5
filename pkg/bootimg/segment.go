package bootimg

import "fmt"

// SegmentKind identifies one payload region of a boot image.
type SegmentKind int

const (
	Kernel SegmentKind = iota
	Ramdisk
	Second

	segmentKinds
)

func (k SegmentKind) String() string {
	switch k {
	case Kernel:
		return "kernel"
	case Ramdisk:
		return "ramdisk"
	case Second:
		return "second stage"
	}
	return fmt.Sprintf("segment(%d)", int(k))
}

// SegmentSize returns the header size field for the given segment.
func (h *Header) SegmentSize(kind SegmentKind) uint32 {
	switch kind {
	case Kernel:
		return h.KernelSize
	case Ramdisk:
		return h.RamdiskSize
	case Second:
		return h.SecondSize
	}
	return 0
}

// SetSegmentSize updates the header size field for the given segment.
func (h *Header) SetSegmentSize(kind SegmentKind, size uint32) {
	switch kind {
	case Kernel:
		h.KernelSize = size
	case Ramdisk:
		h.RamdiskSize = size
	case Second:
		h.SecondSize = size
	}
}

// SegmentStore holds the materialised payload buffers for one assembly
// pass. A nil buffer means the segment was neither replaced nor carried
// over and its on-disk region stays untouched; a non-nil empty buffer
// counts as materialised.
type SegmentStore struct {
	buf [segmentKinds][]byte
}

// Set stores the payload buffer for a segment.
func (s *SegmentStore) Set(kind SegmentKind, data []byte) {
	s.buf[kind] = data
}

// Data returns the stored payload buffer, or nil.
func (s *SegmentStore) Data(kind SegmentKind) []byte {
	return s.buf[kind]
}

// Present reports whether the segment has been materialised.
func (s *SegmentStore) Present(kind SegmentKind) bool {
	return s.buf[kind] != nil
}

// Release drops every buffer.
func (s *SegmentStore) Release() {
	for i := range s.buf {
		s.buf[i] = nil
	}
}
