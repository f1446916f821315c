package harness

import (
	"fmt"
	"slices"

	"github.com/roach88/doomhost/internal/store"
)

// EvaluateExpectations checks a run against its expect block.
// Returns one message per failed expectation.
func EvaluateExpectations(result *Result, expect Expect, summary store.Summary) []string {
	var errs []string

	if result.ExitCode != expect.ExitCode {
		errs = append(errs, fmt.Sprintf("exit_code: got %d, want %d", result.ExitCode, expect.ExitCode))
	}

	if expect.Notifications != nil {
		if got := result.Amounts(); !slices.Equal(got, expect.Notifications) {
			errs = append(errs, fmt.Sprintf("notifications: got %v, want %v", got, expect.Notifications))
		}
	}

	if expect.Count != nil && summary.Count != *expect.Count {
		errs = append(errs, fmt.Sprintf("count: got %d, want %d", summary.Count, *expect.Count))
	}

	if expect.Total != nil && summary.Total != *expect.Total {
		errs = append(errs, fmt.Sprintf("total: got %d, want %d", summary.Total, *expect.Total))
	}

	if expect.Args != nil && !slices.Equal(result.Args, expect.Args) {
		errs = append(errs, fmt.Sprintf("args: got %q, want %q", result.Args, expect.Args))
	}

	return errs
}
