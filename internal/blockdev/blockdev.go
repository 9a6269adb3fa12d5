// Package blockdev answers two questions the boot image codec must not
// answer for itself: is a target path a fixed-capacity block device (and
// how large is it exactly), and does it already carry a recognisable
// foreign filesystem that a create pass should refuse to clobber.
package blockdev

// Info describes a probed target path.
type Info struct {
	// BlockDev reports whether the path is a block device.
	BlockDev bool
	// Size is the exact device capacity in bytes when BlockDev is set.
	Size uint64
}
