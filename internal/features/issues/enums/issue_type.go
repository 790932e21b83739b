package issues_enums

type IssueType string

const (
	IssueTypeBug         IssueType = "BUG"
	IssueTypeFeature     IssueType = "FEATURE"
	IssueTypeImprovement IssueType = "IMPROVEMENT"
	IssueTypeTask        IssueType = "TASK"
	IssueTypeStory       IssueType = "STORY"
	IssueTypeEpic        IssueType = "EPIC"
)

func (t IssueType) IsValid() bool {
	switch t {
	case IssueTypeBug, IssueTypeFeature, IssueTypeImprovement, IssueTypeTask, IssueTypeStory, IssueTypeEpic:
		return true
	default:
		return false
	}
}
