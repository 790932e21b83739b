package issues_enums

type IssueSeverity string

const (
	IssueSeverityTrivial  IssueSeverity = "TRIVIAL"
	IssueSeverityMinor    IssueSeverity = "MINOR"
	IssueSeverityMajor    IssueSeverity = "MAJOR"
	IssueSeverityCritical IssueSeverity = "CRITICAL"
	IssueSeverityBlocker  IssueSeverity = "BLOCKER"
)

func (s IssueSeverity) IsValid() bool {
	switch s {
	case IssueSeverityTrivial, IssueSeverityMinor, IssueSeverityMajor, IssueSeverityCritical, IssueSeverityBlocker:
		return true
	default:
		return false
	}
}
