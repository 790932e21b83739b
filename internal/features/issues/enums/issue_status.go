package issues_enums

type IssueStatus string

const (
	IssueStatusOpen       IssueStatus = "OPEN"
	IssueStatusInProgress IssueStatus = "IN_PROGRESS"
	IssueStatusInReview   IssueStatus = "IN_REVIEW"
	IssueStatusResolved   IssueStatus = "RESOLVED"
	IssueStatusClosed     IssueStatus = "CLOSED"
	IssueStatusReopened   IssueStatus = "REOPENED"
)

func (s IssueStatus) IsValid() bool {
	switch s {
	case IssueStatusOpen, IssueStatusInProgress, IssueStatusInReview,
		IssueStatusResolved, IssueStatusClosed, IssueStatusReopened:
		return true
	default:
		return false
	}
}

// IsResolvedClass reports whether resolvedAt must be set in this status.
func (s IssueStatus) IsResolvedClass() bool {
	return s == IssueStatusResolved || s == IssueStatusClosed
}
