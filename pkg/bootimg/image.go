package bootimg

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
)

// Target describes the image file an Image operates on.
type Target struct {
	Path string

	// Size is the declared total image size in bytes. Zero means the
	// image grows to fit its content. For a block device it is the device
	// capacity, supplied by the caller, and can never change.
	Size uint64

	// BlockDev marks a fixed-capacity target: Size is immutable and the
	// file is never truncated.
	BlockDev bool
}

// Image is one open boot image and the state of a single extract, update
// or create pass over it. It owns the file handle exclusively for the
// duration of the pass.
type Image struct {
	Target
	Header Header

	file *os.File
	segs SegmentStore

	// source is the layout of the image as it was opened, captured before
	// any config edit or segment replacement. All reads of pre-existing
	// segment bytes use these offsets.
	source    Layout
	hasSource bool

	replaced [segmentKinds]bool
}

// Open opens an existing boot image and reads and validates its header.
// Extraction opens read-only; update passes writable=true.
func Open(t Target, writable bool) (*Image, error) {
	flag := os.O_RDONLY
	if writable {
		flag = os.O_RDWR
	}
	f, err := os.OpenFile(t.Path, flag, 0)
	if err != nil {
		return nil, err
	}
	img := &Image{Target: t, file: f}
	if err := img.readHeader(); err != nil {
		_ = f.Close()
		return nil, err
	}
	return img, nil
}

// Create opens (creating if needed) the target for a from-scratch image
// with a freshly initialised header. The caller must supply at least a
// kernel before WriteImage.
func Create(t Target) (*Image, error) {
	f, err := os.OpenFile(t.Path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, err
	}
	return &Image{Target: t, Header: NewHeader(), file: f}, nil
}

// Close releases the file handle and any segment buffers.
func (img *Image) Close() error {
	if img == nil || img.file == nil {
		return nil
	}
	err := img.file.Close()
	img.file = nil
	img.segs.Release()
	return err
}

func (img *Image) readHeader() error {
	var buf [HeaderSize]byte
	if _, err := io.ReadFull(img.file, buf[:]); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return fmt.Errorf("%s: %w", img.Path, ErrTruncated)
		}
		return fmt.Errorf("%s: %w", img.Path, err)
	}
	hdr, err := DecodeHeader(buf[:])
	if err != nil {
		return fmt.Errorf("%s: %w", img.Path, err)
	}

	if !img.BlockDev {
		st, err := img.file.Stat()
		if err != nil {
			return fmt.Errorf("%s: %w", img.Path, err)
		}
		img.Size = uint64(st.Size())
	}
	if err := hdr.CheckCapacity(img.Size); err != nil {
		return fmt.Errorf("%s: %w", img.Path, err)
	}

	img.Header = hdr
	img.source = hdr.Layout()
	img.hasSource = true
	return nil
}

// ReadSegment reads one segment's payload from the source image at the
// offset it had when the image was opened. An absent segment yields nil.
func (img *Image) ReadSegment(kind SegmentKind) ([]byte, error) {
	if !img.hasSource {
		return nil, fmt.Errorf("%s: %s: %w", img.Path, kind, ErrNoSource)
	}
	size := img.Header.SegmentSize(kind)
	if size == 0 {
		return nil, nil
	}
	buf := make([]byte, size)
	if _, err := img.file.ReadAt(buf, int64(img.source.SegmentOffset(kind))); err != nil {
		return nil, fmt.Errorf("%s: read %s: %w", img.Path, kind, err)
	}
	return buf, nil
}

// ExtractTo writes one segment's payload to a standalone file. Absent
// segments are skipped; the return value reports whether anything was
// written.
func (img *Image) ExtractTo(kind SegmentKind, path string) (bool, error) {
	data, err := img.ReadSegment(kind)
	if err != nil {
		return false, err
	}
	if data == nil {
		return false, nil
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return false, err
	}
	return true, nil
}

// LoadSegment reads a replacement payload from path and updates the
// header size field for the segment.
func (img *Image) LoadSegment(kind SegmentKind, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if len(data) > math.MaxUint32 {
		return fmt.Errorf("%s: %s is too large for a boot image", path, kind)
	}
	img.Header.SetSegmentSize(kind, uint32(len(data)))
	img.segs.Set(kind, data)
	img.replaced[kind] = true
	return nil
}

// ResolveSegments decides, for every segment, whether its bytes come from
// a replacement file, are carried over from the source image, or stay
// untouched on disk. Assembly rewrites the file from offset zero, so any
// segment whose placement may shift must be re-read here, before
// WriteImage destroys the old layout. The carry-over cascade:
//
//   - kernel: replacement file, otherwise always carried (mandatory);
//   - ramdisk: replacement file, otherwise carried only when the kernel
//     was replaced; untouched when nothing before it changed;
//   - second stage: replacement file, otherwise carried when the ramdisk
//     was materialised and the header declares a second stage.
func (img *Image) ResolveSegments(kernelPath, ramdiskPath, secondPath string) error {
	if kernelPath != "" {
		if err := img.LoadSegment(Kernel, kernelPath); err != nil {
			return err
		}
	} else if err := img.carryOver(Kernel); err != nil {
		return err
	}

	if ramdiskPath != "" {
		if err := img.LoadSegment(Ramdisk, ramdiskPath); err != nil {
			return err
		}
	} else if img.replaced[Kernel] && img.hasSource {
		if err := img.carryOver(Ramdisk); err != nil {
			return err
		}
	}

	if secondPath != "" {
		if err := img.LoadSegment(Second, secondPath); err != nil {
			return err
		}
	} else if img.segs.Present(Ramdisk) && img.Header.SecondSize != 0 {
		if err := img.carryOver(Second); err != nil {
			return err
		}
	}
	return nil
}

// carryOver materialises a segment from the source image. A zero-size
// segment still counts as materialised so the cascade can continue past
// it.
func (img *Image) carryOver(kind SegmentKind) error {
	if !img.hasSource {
		return fmt.Errorf("%s: %s: %w", img.Path, kind, ErrNoSource)
	}
	size := img.Header.SegmentSize(kind)
	buf := make([]byte, size)
	if size > 0 {
		if _, err := img.file.ReadAt(buf, int64(img.source.SegmentOffset(kind))); err != nil {
			return fmt.Errorf("%s: read %s: %w", img.Path, kind, err)
		}
	}
	img.segs.Set(kind, buf)
	return nil
}

// WriteImage validates the final layout and rewrites the image in place:
// header padded to one page, then every materialised segment at its
// computed offset padded to its page boundary, then a truncate to the
// exact total size. Nothing is written unless the layout fits the
// declared size, so a failing pass leaves the target untouched.
func (img *Image) WriteImage() error {
	if err := img.Header.Check(); err != nil {
		return fmt.Errorf("%s: %w", img.Path, err)
	}
	if !img.segs.Present(Kernel) {
		return fmt.Errorf("%s: kernel: %w", img.Path, ErrNoSource)
	}

	layout := img.Header.Layout()
	if img.Size == 0 {
		img.Size = layout.TotalSize
	} else if layout.TotalSize > img.Size {
		return fmt.Errorf("%s: %w (%d vs %d bytes)", img.Path, ErrOversize, layout.TotalSize, img.Size)
	}

	var hdr [HeaderSize]byte
	encodeHeader(hdr[:], img.Header)
	if err := img.writePadded(0, hdr[:]); err != nil {
		return err
	}

	for kind := Kernel; kind < segmentKinds; kind++ {
		data := img.segs.Data(kind)
		if len(data) == 0 {
			continue
		}
		if err := img.writePadded(int64(layout.SegmentOffset(kind)), data); err != nil {
			return err
		}
	}

	// Block devices keep their fixed capacity; regular files are cut (or
	// grown) to exactly the declared size, discarding stale trailing data.
	if !img.BlockDev {
		if err := img.file.Truncate(int64(img.Size)); err != nil {
			return fmt.Errorf("%s: %w", img.Path, err)
		}
	}
	if err := img.file.Sync(); err != nil {
		return fmt.Errorf("%s: %w", img.Path, err)
	}
	img.segs.Release()
	return nil
}

// writePadded writes data at off and zero-fills up to the next page
// boundary.
func (img *Image) writePadded(off int64, data []byte) error {
	if _, err := img.file.WriteAt(data, off); err != nil {
		return fmt.Errorf("%s: %w", img.Path, err)
	}
	psize := int64(img.Header.PageSize)
	if rem := int64(len(data)) % psize; rem != 0 {
		pad := make([]byte, psize-rem)
		if _, err := img.file.WriteAt(pad, off+int64(len(data))); err != nil {
			return fmt.Errorf("%s: %w", img.Path, err)
		}
	}
	return nil
}
