package domain

// ProcessKind selects how a step's processing time is derived from quantity.
type ProcessKind string

const (
	// KindSPM steps run at a strokes-per-minute rate (items per minute).
	KindSPM ProcessKind = "SPM"
	// KindDay steps run in fixed batches that each occupy whole working days.
	KindDay ProcessKind = "DAY"
)

// ValidProcessKinds is the canonical set of accepted process kind strings.
var ValidProcessKinds = map[string]bool{
	string(KindSPM): true,
	string(KindDay): true,
}

// Machine type labels recognised by default.
const (
	MachinePress  = "PRESS"
	MachineTap    = "TAP"
	MachineBarrel = "BARREL"
)

// DeliveryRisk grades a product's planned completion against its delivery date.
type DeliveryRisk string

const (
	RiskOnTrack DeliveryRisk = "on_track"
	RiskAtRisk  DeliveryRisk = "at_risk"
	RiskLate    DeliveryRisk = "late"
)
