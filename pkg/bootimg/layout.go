package bootimg

// Layout is the page-aligned placement of every segment within an image.
// All offsets and the total are in bytes.
type Layout struct {
	KernelOffset  uint64
	RamdiskOffset uint64
	SecondOffset  uint64
	TotalSize     uint64
}

// ImageLayout computes segment placement from sizes and page size. The
// header occupies exactly one page; each segment occupies ceil(size/page)
// pages, so a zero-size segment occupies no space at all. This is the
// single source of truth for offset math: extraction and assembly must
// both go through it with the same inputs so stored and recomputed
// layouts can never diverge.
func ImageLayout(pageSize, kernelSize, ramdiskSize, secondSize uint32) Layout {
	if pageSize == 0 {
		return Layout{}
	}
	ps := uint64(pageSize)
	kernelPages := pages(kernelSize, pageSize)
	ramdiskPages := pages(ramdiskSize, pageSize)
	secondPages := pages(secondSize, pageSize)

	l := Layout{
		KernelOffset:  ps,
		RamdiskOffset: (1 + kernelPages) * ps,
		SecondOffset:  (1 + kernelPages + ramdiskPages) * ps,
	}
	l.TotalSize = (1 + kernelPages + ramdiskPages + secondPages) * ps
	return l
}

func pages(size, pageSize uint32) uint64 {
	return (uint64(size) + uint64(pageSize) - 1) / uint64(pageSize)
}

// Layout computes the image layout declared by the header.
func (h *Header) Layout() Layout {
	return ImageLayout(h.PageSize, h.KernelSize, h.RamdiskSize, h.SecondSize)
}

// SegmentOffset returns the byte offset of the given segment.
func (l Layout) SegmentOffset(kind SegmentKind) uint64 {
	switch kind {
	case Kernel:
		return l.KernelOffset
	case Ramdisk:
		return l.RamdiskOffset
	case Second:
		return l.SecondOffset
	}
	return 0
}
