package bootimg

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestParseEntry(t *testing.T) {
	t.Parallel()

	e, err := ParseEntry("pagesize = 0x1000\n")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if e.Key != "pagesize" || e.Value != "0x1000" {
		t.Fatalf("got %+v", e)
	}

	// Only the first '=' splits; the value may contain more of them.
	e, err = ParseEntry("cmdline = console=ttyS0 root=/dev/ram")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if e.Value != "console=ttyS0 root=/dev/ram" {
		t.Fatalf("value split on wrong '=': %q", e.Value)
	}

	e, err = ParseEntry("\t kerneladdr\t=  0x10008000  ")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if e.Key != "kerneladdr" || e.Value != "0x10008000" {
		t.Fatalf("whitespace not trimmed: %+v", e)
	}
}

func TestParseEntryErrors(t *testing.T) {
	t.Parallel()

	if _, err := ParseEntry("pagesize 0x1000"); !errors.Is(err, ErrBadConfigEntry) {
		t.Fatalf("missing '=': got %v", err)
	}
	if _, err := ParseEntry("colour = blue"); !errors.Is(err, ErrBadConfigEntry) {
		t.Fatalf("unknown key: got %v", err)
	}
}

func TestParseNum(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want uint32
	}{
		{"0x1000", 0x1000},
		{"4096", 4096},
		{"0", 0},
		// Unparsable values silently become zero, strtoul-style.
		{"bogus", 0},
		{"0x", 0},
		{"-5", 0},
	}
	for _, c := range cases {
		if got := parseNum(c.in); got != c.want {
			t.Fatalf("parseNum(%q): got %d want %d", c.in, got, c.want)
		}
	}
}

func TestParseConfig(t *testing.T) {
	t.Parallel()

	// Blank lines are skipped and the final line needs no newline.
	src := "pagesize = 0x800\n\n\nkerneladdr = 0x10008000"
	entries, err := ParseConfig(strings.NewReader(src))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries want 2", len(entries))
	}
	if entries[1].Key != "kerneladdr" {
		t.Fatalf("unterminated last line lost: %+v", entries)
	}
}

func TestApplyConfigSources(t *testing.T) {
	t.Parallel()

	img := &Image{Target: Target{Path: "test.img"}, Header: NewHeader()}

	file := strings.NewReader("pagesize = 0x800\nkerneladdr = 0x100\n")
	inline := strings.NewReader("kerneladdr = 0x200\ntagsaddr = 0x300")
	if err := img.ApplyConfig(file, inline); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if img.Header.PageSize != 0x800 {
		t.Fatalf("pagesize: got %#x", img.Header.PageSize)
	}
	// Later sources win: the inline directive overrides the file.
	if img.Header.KernelAddr != 0x200 {
		t.Fatalf("kerneladdr: got %#x want 0x200", img.Header.KernelAddr)
	}
	if img.Header.TagsAddr != 0x300 {
		t.Fatalf("tagsaddr: got %#x", img.Header.TagsAddr)
	}
}

func TestApplyConfigNoPartialMutation(t *testing.T) {
	t.Parallel()

	img := &Image{Target: Target{Path: "test.img"}, Header: NewHeader()}
	before := img.Header

	src := strings.NewReader("pagesize = 0x1000\nnotakey = 1\n")
	if err := img.ApplyConfig(src); !errors.Is(err, ErrBadConfigEntry) {
		t.Fatalf("got %v want ErrBadConfigEntry", err)
	}
	if img.Header != before {
		t.Fatalf("header mutated by failing config: %+v", img.Header)
	}

	// Failures during the fold roll back too.
	long := "cmdline = " + strings.Repeat("x", BootArgsSize)
	if err := img.ApplyConfig(strings.NewReader("tagsaddr = 0x99\n" + long)); !errors.Is(err, ErrCmdlineTooLong) {
		t.Fatalf("got %v want ErrCmdlineTooLong", err)
	}
	if img.Header.TagsAddr != 0 {
		t.Fatalf("tagsaddr leaked from failed apply: %#x", img.Header.TagsAddr)
	}
}

func TestApplyConfigBootsize(t *testing.T) {
	t.Parallel()

	img := &Image{Target: Target{Path: "test.img"}, Header: NewHeader()}
	if err := img.ApplyConfig(strings.NewReader("bootsize = 0x800000")); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if img.Size != 0x800000 {
		t.Fatalf("size: got %#x", img.Size)
	}

	dev := &Image{
		Target: Target{Path: "/dev/mmcblk0p1", Size: 0x800000, BlockDev: true},
		Header: NewHeader(),
	}
	// Restating the device's own size is fine; changing it is not.
	if err := dev.ApplyConfig(strings.NewReader("bootsize = 0x800000")); err != nil {
		t.Fatalf("matching bootsize on block device: %v", err)
	}
	if err := dev.ApplyConfig(strings.NewReader("bootsize = 0x400000")); !errors.Is(err, ErrImmutableSize) {
		t.Fatalf("got %v want ErrImmutableSize", err)
	}
	if dev.Size != 0x800000 {
		t.Fatalf("device size changed: %#x", dev.Size)
	}
}

func TestConfigRoundTrip(t *testing.T) {
	t.Parallel()

	src := &Image{Target: Target{Path: "a.img"}, Header: testHeader()}
	var buf bytes.Buffer
	if err := src.WriteConfig(&buf); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if strings.Contains(buf.String(), "bootsize") {
		t.Fatalf("serialized config must not contain bootsize:\n%s", buf.String())
	}

	dst := &Image{Target: Target{Path: "b.img"}, Header: NewHeader()}
	if err := dst.ApplyConfig(&buf); err != nil {
		t.Fatalf("apply: %v", err)
	}

	h, want := dst.Header, src.Header
	if h.PageSize != want.PageSize {
		t.Fatalf("pagesize: got %#x want %#x", h.PageSize, want.PageSize)
	}
	if h.KernelAddr != want.KernelAddr || h.RamdiskAddr != want.RamdiskAddr ||
		h.SecondAddr != want.SecondAddr || h.TagsAddr != want.TagsAddr {
		t.Fatalf("addresses did not round-trip: %+v", h)
	}
	if h.CmdlineString() != want.CmdlineString() {
		t.Fatalf("cmdline: got %q want %q", h.CmdlineString(), want.CmdlineString())
	}
}
