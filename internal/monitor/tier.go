package monitor

import "github.com/finsight-event-ledger/internal/domain/notification"

// Tier describes budget utilization. Boundaries are closed from below:
// exactly 50.0% is HalfUsed, exactly 100.0% is Exceeded.
type Tier string

const (
	TierNormal   Tier = "Normal"
	TierHalfUsed Tier = "HalfUsed"
	TierWarning  Tier = "Warning"
	TierCritical Tier = "Critical"
	TierExceeded Tier = "Exceeded"
)

// rank orders tiers for upward comparison; unknown tiers rank lowest
func (t Tier) rank() int {
	switch t {
	case TierNormal:
		return 0
	case TierHalfUsed:
		return 1
	case TierWarning:
		return 2
	case TierCritical:
		return 3
	case TierExceeded:
		return 4
	default:
		return -1
	}
}

// Above reports whether t is a higher utilization tier than other
func (t Tier) Above(other Tier) bool {
	return t.rank() > other.rank()
}

// Severity maps a tier to the notification severity it is announced with
func (t Tier) Severity() notification.Severity {
	switch t {
	case TierWarning:
		return notification.SeverityWarning
	case TierCritical, TierExceeded:
		return notification.SeverityDanger
	default:
		return notification.SeverityInfo
	}
}

// ClassifyBasisPoints maps utilization, expressed in basis points of the
// allocation (spent*10000/allocated), to a tier. Basis points keep the
// boundary comparisons exact where floating point would not.
func ClassifyBasisPoints(bp int64) Tier {
	switch {
	case bp >= 10000:
		return TierExceeded
	case bp >= 9000:
		return TierCritical
	case bp >= 7500:
		return TierWarning
	case bp >= 5000:
		return TierHalfUsed
	default:
		return TierNormal
	}
}

// UtilizationBasisPoints computes spent/allocated in basis points,
// truncating toward zero. Zero allocation is treated as 0% utilization.
func UtilizationBasisPoints(spent, allocated int64) int64 {
	if allocated <= 0 {
		return 0
	}
	return spent * 10000 / allocated
}
