package harness

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/entrada/internal/ir"
)

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string
	Expected string
	Actual   string
	// State is the final storage order, for context.
	State []string
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)
	if len(e.State) > 0 {
		fmt.Fprintf(&buf, "\nFinal state: [%s]\n", strings.Join(e.State, ", "))
	}
	return buf.String()
}

// EvaluateAssertions checks every assertion and returns one message per
// failure, in assertion order.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var failures []string
	for i, a := range assertions {
		if err := evaluate(result, a); err != nil {
			failures = append(failures, fmt.Sprintf("assertion[%d]: %s", i, err))
		}
	}
	return failures
}

func evaluate(result *Result, a Assertion) error {
	switch a.Type {
	case AssertStateOrder:
		return assertStateOrder(result, a)
	case AssertDisplayOrder:
		return assertDisplayOrder(result, a)
	case AssertOverlay:
		return assertOverlay(result, a)
	case AssertItemCount:
		return assertCount(result, a, result.Final.Len())
	case AssertNotifications:
		return assertCount(result, a, len(result.Notifications))
	case AssertUniqueIDs:
		return assertUniqueIDs(result)
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

func fail(result *Result, typ, expected, actual string) error {
	return &AssertionError{
		Type:     typ,
		Expected: expected,
		Actual:   actual,
		State:    itemIDs(result.Final.Items()),
	}
}

func assertStateOrder(result *Result, a Assertion) error {
	got := itemIDs(result.Final.Items())
	if slices.Equal(got, a.IDs) {
		return nil
	}
	return fail(result, AssertStateOrder, fmt.Sprintf("%q", a.IDs), fmt.Sprintf("%q", got))
}

func assertDisplayOrder(result *Result, a Assertion) error {
	got := result.View.Names()
	if slices.Equal(got, a.Names) {
		return nil
	}
	return fail(result, AssertDisplayOrder, fmt.Sprintf("%q", a.Names), fmt.Sprintf("%q", got))
}

func assertOverlay(result *Result, a Assertion) error {
	ov := result.Final.Overlay()
	item, has := ir.OverlayItem(ov)
	switch {
	case a.None && ov == nil:
		return nil
	case a.None:
		return fail(result, AssertOverlay, "no overlay", fmt.Sprintf("overlay on %q", item.ID))
	case !has:
		return fail(result, AssertOverlay, fmt.Sprintf("overlay on %q", a.Item), "no overlay")
	case string(item.ID) != a.Item:
		return fail(result, AssertOverlay, fmt.Sprintf("overlay on %q", a.Item), fmt.Sprintf("overlay on %q", item.ID))
	}
	return nil
}

func assertCount(result *Result, a Assertion, got int) error {
	if a.Count != nil && *a.Count == got {
		return nil
	}
	want := "<unset>"
	if a.Count != nil {
		want = fmt.Sprint(*a.Count)
	}
	return fail(result, a.Type, want, fmt.Sprint(got))
}

func assertUniqueIDs(result *Result) error {
	seen := make(map[ir.ItemID]bool)
	for _, it := range result.Final.Items() {
		if seen[it.ID] {
			return fail(result, AssertUniqueIDs, "unique ids", fmt.Sprintf("%q repeated", it.ID))
		}
		seen[it.ID] = true
	}
	return nil
}
