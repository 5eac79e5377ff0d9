package resumes

import (
	"fmt"
	"strings"
)

// Status is a resume's position in the application workflow.
type Status string

const (
	StatusApply      Status = "APPLY"
	StatusDrop       Status = "DROP"
	StatusPass       Status = "PASS"
	StatusInterview1 Status = "INTERVIEW1"
	StatusInterview2 Status = "INTERVIEW2"
	StatusFinalPass  Status = "FINAL_PASS"
)

var validStatuses = map[Status]struct{}{
	StatusApply:      {},
	StatusDrop:       {},
	StatusPass:       {},
	StatusInterview1: {},
	StatusInterview2: {},
	StatusFinalPass:  {},
}

// Sort is a listing direction over creation time.
type Sort string

const (
	SortAsc  Sort = "ASC"
	SortDesc Sort = "DESC"
)

// MinIntroductionLength is the character floor for resume introductions.
const MinIntroductionLength = 150

// ParseStatus matches input case-insensitively against the workflow statuses.
// There is no transition graph: any status may follow any other.
func ParseStatus(input string) (Status, error) {
	s := Status(strings.ToUpper(strings.TrimSpace(input)))
	if _, ok := validStatuses[s]; !ok {
		return "", fmt.Errorf("%w: invalid status %q", ErrInvalidInput, input)
	}
	return s, nil
}

// ParseSort matches input case-insensitively; empty input defaults to DESC.
func ParseSort(input string) (Sort, error) {
	if strings.TrimSpace(input) == "" {
		return SortDesc, nil
	}
	switch Sort(strings.ToUpper(strings.TrimSpace(input))) {
	case SortAsc:
		return SortAsc, nil
	case SortDesc:
		return SortDesc, nil
	default:
		return "", fmt.Errorf("%w: sort must be ASC or DESC", ErrInvalidInput)
	}
}
