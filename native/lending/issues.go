package lending

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownValidationIssue is returned when decoding an issue name outside the
// closed set.
var ErrUnknownValidationIssue = errors.New("lending: unknown validation issue")

// ValidationIssue enumerates the reasons a borrow or supply action is blocked.
// The zero value IssueNone means the action is allowed.
type ValidationIssue uint8

const (
	IssueNone ValidationIssue = iota
	IssueValueNotPositive
	IssueReserveNotActive
	IssueReservePaused
	IssueReserveFrozen
	IssueReserveBorrowingDisabled
	IssueAssetNotBorrowableInIsolation
	IssueIsolationModeDebtCeilingExceeded
	IssueSiloedModeCannotEnable
	IssueSiloedModeEnabled
	IssueEModeCategoryMismatch
	IssueBorrowCapReached
	IssueSupplyCapReached
	IssueInsufficientCollateral
	IssueExceedsLiquidity
	IssueExceedsBalance

	issueSentinel
)

var issueNames = [...]string{
	IssueNone:                             "",
	IssueValueNotPositive:                 "value-not-positive",
	IssueReserveNotActive:                 "reserve-not-active",
	IssueReservePaused:                    "reserve-paused",
	IssueReserveFrozen:                    "reserve-frozen",
	IssueReserveBorrowingDisabled:         "reserve-borrowing-disabled",
	IssueAssetNotBorrowableInIsolation:    "asset-not-borrowable-in-isolation",
	IssueIsolationModeDebtCeilingExceeded: "isolation-mode-debt-ceiling-exceeded",
	IssueSiloedModeCannotEnable:           "siloed-mode-cannot-enable",
	IssueSiloedModeEnabled:                "siloed-mode-enabled",
	IssueEModeCategoryMismatch:            "emode-category-mismatch",
	IssueBorrowCapReached:                 "borrow-cap-reached",
	IssueSupplyCapReached:                 "supply-cap-reached",
	IssueInsufficientCollateral:           "insufficient-collateral",
	IssueExceedsLiquidity:                 "exceeds-liquidity",
	IssueExceedsBalance:                   "exceeds-balance",
}

// AllValidationIssues lists every member of the closed set, excluding
// IssueNone, in declaration order.
func AllValidationIssues() []ValidationIssue {
	out := make([]ValidationIssue, 0, int(issueSentinel)-1)
	for issue := IssueNone + 1; issue < issueSentinel; issue++ {
		out = append(out, issue)
	}
	return out
}

// ValidationIssueToMessage maps every issue to its user facing message.
var ValidationIssueToMessage = func() map[ValidationIssue]string {
	out := make(map[ValidationIssue]string, int(issueSentinel)-1)
	for _, issue := range AllValidationIssues() {
		out[issue] = issue.Message()
	}
	return out
}()

// Present reports whether the value names an actual issue.
func (v ValidationIssue) Present() bool { return v != IssueNone }

// Valid reports whether the value belongs to the closed set (IssueNone
// included).
func (v ValidationIssue) Valid() bool { return v < issueSentinel }

// Message returns the user facing explanation for the issue. IssueNone maps to
// the empty string.
func (v ValidationIssue) Message() string {
	switch v {
	case IssueNone:
		return ""
	case IssueValueNotPositive:
		return "Value must be greater than zero"
	case IssueReserveNotActive:
		return "This reserve is not active"
	case IssueReservePaused:
		return "This reserve is paused"
	case IssueReserveFrozen:
		return "This reserve is frozen and accepts no new positions"
	case IssueReserveBorrowingDisabled:
		return "Borrowing is disabled for this asset"
	case IssueAssetNotBorrowableInIsolation:
		return "Asset cannot be borrowed in isolation mode"
	case IssueIsolationModeDebtCeilingExceeded:
		return "Borrow would exceed the isolation mode debt ceiling"
	case IssueSiloedModeCannotEnable:
		return "Siloed borrowing cannot be enabled while other assets are borrowed"
	case IssueSiloedModeEnabled:
		return "Siloed borrowing is enabled, other assets cannot be borrowed"
	case IssueEModeCategoryMismatch:
		return "Asset does not belong to the active e-mode category"
	case IssueBorrowCapReached:
		return "Borrow cap reached for this asset"
	case IssueSupplyCapReached:
		return "Supply cap reached for this asset"
	case IssueInsufficientCollateral:
		return "Not enough collateral to borrow this amount"
	case IssueExceedsLiquidity:
		return "Not enough liquidity to borrow this amount"
	case IssueExceedsBalance:
		return "Exceeds your balance"
	default:
		panic(fmt.Sprintf("lending: validation issue %d has no message", uint8(v)))
	}
}

// String returns the kebab-case name, e.g. "reserve-not-active".
func (v ValidationIssue) String() string {
	if !v.Valid() {
		return fmt.Sprintf("ValidationIssue(%d)", uint8(v))
	}
	if v == IssueNone {
		return "none"
	}
	return issueNames[v]
}

// ParseValidationIssue decodes a kebab-case issue name. The empty string and
// "none" decode to IssueNone.
func ParseValidationIssue(name string) (ValidationIssue, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	if normalized == "" || normalized == "none" {
		return IssueNone, nil
	}
	for issue := IssueNone + 1; issue < issueSentinel; issue++ {
		if issueNames[issue] == normalized {
			return issue, nil
		}
	}
	return IssueNone, fmt.Errorf("%w: %q", ErrUnknownValidationIssue, name)
}

// MarshalText implements encoding.TextMarshaler.
func (v ValidationIssue) MarshalText() ([]byte, error) {
	if !v.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownValidationIssue, uint8(v))
	}
	return []byte(v.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (v *ValidationIssue) UnmarshalText(text []byte) error {
	parsed, err := ParseValidationIssue(string(text))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
