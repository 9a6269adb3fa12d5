package bootimg

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Entry is a single "key = value" config directive.
type Entry struct {
	Key   string
	Value string
}

var configKeys = map[string]struct{}{
	"cmdline":     {},
	"bootsize":    {},
	"pagesize":    {},
	"kerneladdr":  {},
	"ramdiskaddr": {},
	"secondaddr":  {},
	"tagsaddr":    {},
}

// ParseEntry parses one config line. The line is split on the first '=',
// key and value are trimmed of surrounding whitespace, and the key must be
// one of the recognised directives.
func ParseEntry(line string) (Entry, error) {
	line = strings.TrimSuffix(line, "\n")
	k, v, ok := strings.Cut(line, "=")
	if !ok {
		return Entry{}, fmt.Errorf("%w: %q", ErrBadConfigEntry, strings.TrimSpace(line))
	}
	key := strings.TrimSpace(k)
	if _, known := configKeys[key]; !known {
		return Entry{}, fmt.Errorf("%w: %q", ErrBadConfigEntry, key)
	}
	return Entry{Key: key, Value: strings.TrimSpace(v)}, nil
}

// ParseConfig reads config entries from r, one per line. Blank lines are
// ignored and a final line without a trailing newline is still accepted.
func ParseConfig(r io.Reader) ([]Entry, error) {
	var entries []Entry
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := sc.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		e, err := ParseEntry(line)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// parseNum parses a base-prefixed unsigned value ("0x1000" or "4096").
// Unparsable text deliberately degrades to zero: existing boot.info files
// rely on that strtoul-compatible behaviour.
func parseNum(s string) uint32 {
	v, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0
	}
	return uint32(v)
}

// ApplyConfig parses every source fully and then folds the entries over a
// copy of the header and target size, committing only on full success. A
// malformed directive therefore leaves the image untouched. Sources are
// applied in the order given; the CLI passes the config file before any
// inline directives.
func (img *Image) ApplyConfig(sources ...io.Reader) error {
	var entries []Entry
	for _, src := range sources {
		es, err := ParseConfig(src)
		if err != nil {
			return err
		}
		entries = append(entries, es...)
	}

	hdr := img.Header
	size := img.Size
	for _, e := range entries {
		if err := img.applyEntry(&hdr, &size, e); err != nil {
			return err
		}
	}
	img.Header = hdr
	img.Size = size
	return nil
}

func (img *Image) applyEntry(h *Header, size *uint64, e Entry) error {
	switch e.Key {
	case "cmdline":
		return h.SetCmdline(e.Value)
	case "bootsize":
		// The format's size fields are 32-bit, so the declared image size
		// caps at 4 GiB.
		v := uint64(parseNum(e.Value))
		if img.BlockDev && v != *size {
			return fmt.Errorf("%s: %w", img.Path, ErrImmutableSize)
		}
		*size = v
	case "pagesize":
		h.PageSize = parseNum(e.Value)
	case "kerneladdr":
		h.KernelAddr = parseNum(e.Value)
	case "ramdiskaddr":
		h.RamdiskAddr = parseNum(e.Value)
	case "secondaddr":
		h.SecondAddr = parseNum(e.Value)
	case "tagsaddr":
		h.TagsAddr = parseNum(e.Value)
	default:
		return fmt.Errorf("%w: %q", ErrBadConfigEntry, e.Key)
	}
	return nil
}

// WriteConfig emits the editable header fields as "key = value" lines in a
// fixed order. The image size is deliberately not emitted: a config
// extracted from one image must not pin the size of whatever image it is
// later applied to.
func (img *Image) WriteConfig(w io.Writer) error {
	h := &img.Header
	_, err := fmt.Fprintf(w,
		"pagesize = 0x%x\n"+
			"kerneladdr = 0x%x\n"+
			"ramdiskaddr = 0x%x\n"+
			"secondaddr = 0x%x\n"+
			"tagsaddr = 0x%x\n"+
			"cmdline = %s\n",
		h.PageSize, h.KernelAddr, h.RamdiskAddr, h.SecondAddr, h.TagsAddr,
		h.CmdlineString())
	return err
}
