package diagnosis

// RiskLevel is the coarse severity label attached to a result.
type RiskLevel string

const (
	RiskLow      RiskLevel = "Low"
	RiskMedium   RiskLevel = "Medium"
	RiskHigh     RiskLevel = "High"
	RiskCritical RiskLevel = "Critical"
)

// classifyRisk maps the top score and emergency flag to a risk level. The
// branches are evaluated in order; the second Critical branch only matters on
// the non-emergency path.
func classifyRisk(maxProb int, isEmergency bool) RiskLevel {
	switch {
	case isEmergency && maxProb >= 70:
		return RiskCritical
	case maxProb >= 75:
		return RiskCritical
	case maxProb >= 60 || (isEmergency && maxProb >= 50):
		return RiskHigh
	case maxProb >= 30:
		return RiskMedium
	default:
		return RiskLow
	}
}
