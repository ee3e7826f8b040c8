package scoring

import "strings"

// Label is the leading decision word of a verdict.
type Label string

const (
	LabelBuild       Label = "BUILD"
	LabelDontBuild   Label = "DON'T BUILD"
	LabelBuildOnlyIf Label = "BUILD ONLY IF"
)

// VerdictLabel reads the label a verdict starts with. It is for display only
// and returns "" when the verdict follows none of the formats.
func VerdictLabel(verdict string) Label {
	normalized := strings.ToUpper(strings.TrimSpace(verdict))
	normalized = strings.ReplaceAll(normalized, "’", "'")
	switch {
	case strings.HasPrefix(normalized, string(LabelBuildOnlyIf)):
		return LabelBuildOnlyIf
	case strings.HasPrefix(normalized, string(LabelDontBuild)):
		return LabelDontBuild
	case strings.HasPrefix(normalized, string(LabelBuild)):
		return LabelBuild
	}
	return ""
}
