package models

import "strings"

// Label categorizes a task. The set is closed.
type Label string

const (
	LabelFeature   Label = "Feature"
	LabelBug       Label = "Bug"
	LabelIssue     Label = "Issue"
	LabelUndefined Label = "Undefined"
)

// Labels returns every valid label
func Labels() []Label {
	return []Label{LabelFeature, LabelBug, LabelIssue, LabelUndefined}
}

// ParseLabel resolves a label case-insensitively. Empty input is Undefined.
func ParseLabel(s string) (Label, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return LabelUndefined, true
	}
	for _, l := range Labels() {
		if strings.EqualFold(string(l), s) {
			return l, true
		}
	}
	return "", false
}
