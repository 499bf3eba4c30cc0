package lending

import "lendcore/native/numeric"

// ReserveStatus mirrors the reserve configuration flags that gate actions
// regardless of the amount involved.
type ReserveStatus struct {
	Active           bool
	Paused           bool
	Frozen           bool
	BorrowingEnabled bool
}

// BorrowCaps captures the reserve level limits applied to new debt.
type BorrowCaps struct {
	// BorrowCap constrains the aggregate outstanding borrows of the reserve.
	// numeric.Unbounded() disables the cap.
	BorrowCap numeric.Amount
	// TotalBorrowed is the reserve's outstanding debt.
	TotalBorrowed numeric.Amount
}

// Remaining returns the headroom under the cap, floored at zero.
func (c BorrowCaps) Remaining() numeric.Amount {
	return c.BorrowCap.Sub(c.TotalBorrowed).FloorZero()
}

// ModeGates captures the user level risk mode constraints evaluated before
// any amount based check.
type ModeGates struct {
	// BorrowableInIsolation reports whether the asset may be borrowed while the
	// user is in isolation mode.
	BorrowableInIsolation bool
	// AssetSiloed marks assets that may only be borrowed alone.
	AssetSiloed bool
	// BorrowingOtherAssets is set when the user already has debt in another
	// asset.
	BorrowingOtherAssets bool
	// InSiloedMode is set when the user already borrows a siloed asset
	// different from the requested one.
	InSiloedMode bool
	// EModeCategory is the user's active efficiency mode category; zero means
	// no e-mode.
	EModeCategory uint8
	// AssetEModeCategory is the category the requested asset belongs to.
	AssetEModeCategory uint8
}

func (g ModeGates) eModeMismatch() bool {
	return g.EModeCategory != 0 && g.EModeCategory != g.AssetEModeCategory
}
