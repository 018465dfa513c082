package settlement

import "errors"

// Settlement rejection reasons. Every rejection is atomic: a call that
// returns one of these moved no funds, consumed no credit and left no
// idempotency mark, so the caller may correct and resubmit. Only
// ErrDuplicateSettlement is terminal for its digest.
var (
	// ErrTaxExceedsGross rejects assessments whose tax components sum
	// above the invoice gross amount.
	ErrTaxExceedsGross = errors.New("tax exceeds gross: assessed components sum above invoice amount")

	// ErrInsufficientFunds rejects settlements the payer cannot cover in
	// full.
	ErrInsufficientFunds = errors.New("insufficient funds: payer balance below gross amount")

	// ErrCompensationExceedsTax rejects credit offsets larger than the
	// total assessed tax.
	ErrCompensationExceedsTax = errors.New("compensation exceeds tax: credit offset above total assessed tax")

	// ErrInsufficientCredit rejects offsets larger than the seller's
	// accumulated credit position.
	ErrInsufficientCredit = errors.New("insufficient credit: seller position below requested offset")

	// ErrDuplicateSettlement rejects assessments whose digest has
	// already been settled. Resubmitting a settled assessment is always
	// safe and always ends here.
	ErrDuplicateSettlement = errors.New("duplicate settlement: assessment digest already processed")

	// ErrUnauthorized rejects assessments that are not covered by a
	// valid signature of an active fiscal authority. Malformed
	// signatures, signatures by unregistered or revoked keys, and
	// assessments tampered after signing all end here; the engine
	// deliberately does not tell those cases apart.
	ErrUnauthorized = errors.New("unauthorized: assessment is not covered by an active authority signature")

	// ErrInvalidRate rejects simplified assessments with a flat rate
	// above 100%.
	ErrInvalidRate = errors.New("invalid rate: basis points above denominator")

	// ErrCreditAboveCap rejects credit grants larger than the per-grant
	// cap of the active rules.
	ErrCreditAboveCap = errors.New("credit above cap: grant larger than rules allow")
)
