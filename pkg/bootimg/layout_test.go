package bootimg

import "testing"

func TestImageLayoutTotalIsPageMultiple(t *testing.T) {
	t.Parallel()

	cases := []struct{ page, kernel, ramdisk, second uint32 }{
		{2048, 1, 0, 0},
		{2048, 2048, 2048, 2048},
		{4096, 5000, 1639402, 0},
		{4096, 4088504, 1639402, 77},
		{16384, 7, 12, 99999},
	}
	for _, c := range cases {
		l := ImageLayout(c.page, c.kernel, c.ramdisk, c.second)
		if l.TotalSize%uint64(c.page) != 0 {
			t.Fatalf("total %d not a multiple of page %d", l.TotalSize, c.page)
		}
	}
}

func TestImageLayoutMonotonic(t *testing.T) {
	t.Parallel()

	const page = 2048
	base := ImageLayout(page, 5000, 3000, 1000)

	// Growing any segment never shrinks the image, and growing it past a
	// page boundary strictly increases the total.
	if got := ImageLayout(page, 5001, 3000, 1000); got.TotalSize < base.TotalSize {
		t.Fatalf("total shrank when kernel grew: %d -> %d", base.TotalSize, got.TotalSize)
	}
	if got := ImageLayout(page, 5000+page, 3000, 1000); got.TotalSize != base.TotalSize+page {
		t.Fatalf("kernel +1 page: got total %d want %d", got.TotalSize, base.TotalSize+page)
	}
	if got := ImageLayout(page, 5000, 3000+page, 1000); got.TotalSize != base.TotalSize+page {
		t.Fatalf("ramdisk +1 page: got total %d want %d", got.TotalSize, base.TotalSize+page)
	}
	if got := ImageLayout(page, 5000, 3000, 1000+page); got.TotalSize != base.TotalSize+page {
		t.Fatalf("second +1 page: got total %d want %d", got.TotalSize, base.TotalSize+page)
	}
}

func TestImageLayoutOffsets(t *testing.T) {
	t.Parallel()

	// 5000 bytes > one 0x1000 page, so the kernel occupies two pages and
	// the ramdisk starts at page three.
	l := ImageLayout(0x1000, 5000, 100, 100)
	if l.KernelOffset != 0x1000 {
		t.Fatalf("kernel offset: got %#x want %#x", l.KernelOffset, 0x1000)
	}
	if l.RamdiskOffset != 3*0x1000 {
		t.Fatalf("ramdisk offset: got %#x want %#x", l.RamdiskOffset, 3*0x1000)
	}
	if l.SecondOffset != 4*0x1000 {
		t.Fatalf("second offset: got %#x want %#x", l.SecondOffset, 4*0x1000)
	}
	if l.TotalSize != 5*0x1000 {
		t.Fatalf("total: got %#x want %#x", l.TotalSize, 5*0x1000)
	}
}

func TestImageLayoutAbsentSegments(t *testing.T) {
	t.Parallel()

	// Absent segments occupy no pages: header + kernel only.
	l := ImageLayout(2048, 2000, 0, 0)
	if l.TotalSize != 2*2048 {
		t.Fatalf("total: got %d want %d", l.TotalSize, 2*2048)
	}
	if l.SecondOffset != l.RamdiskOffset {
		t.Fatalf("zero-size ramdisk got a phantom page: ramdisk %#x second %#x",
			l.RamdiskOffset, l.SecondOffset)
	}
}

func TestImageLayoutZeroPageSize(t *testing.T) {
	t.Parallel()

	if l := ImageLayout(0, 100, 100, 100); l != (Layout{}) {
		t.Fatalf("zero page size: got %+v want zero layout", l)
	}
}

func TestSegmentOffsetSelection(t *testing.T) {
	t.Parallel()

	l := ImageLayout(2048, 2048, 2048, 2048)
	if got := l.SegmentOffset(Kernel); got != l.KernelOffset {
		t.Fatalf("kernel: got %d want %d", got, l.KernelOffset)
	}
	if got := l.SegmentOffset(Ramdisk); got != l.RamdiskOffset {
		t.Fatalf("ramdisk: got %d want %d", got, l.RamdiskOffset)
	}
	if got := l.SegmentOffset(Second); got != l.SecondOffset {
		t.Fatalf("second: got %d want %d", got, l.SecondOffset)
	}
}
