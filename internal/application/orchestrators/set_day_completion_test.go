package orchestrators

import (
	"context"
	"errors"
	"testing"

	assignmentstore "readspace/internal/adapters/storage/assignment"
	"readspace/internal/application/policy"
	domainAssignment "readspace/internal/domain/assignment"
	domainPathway "readspace/internal/domain/pathway"
)

type mockCompletionStore struct {
	assignments map[string]domainAssignment.Assignment // keyed by ID; UserID enforced on lookup
	completed   map[string]map[int]bool
}

func newMockCompletionStore() *mockCompletionStore {
	return &mockCompletionStore{
		assignments: make(map[string]domainAssignment.Assignment),
		completed:   make(map[string]map[int]bool),
	}
}

func (m *mockCompletionStore) GetByIDForUser(ctx context.Context, id, userID string) (domainAssignment.Assignment, error) {
	a, ok := m.assignments[id]
	if !ok || a.UserID != userID {
		return domainAssignment.Assignment{}, assignmentstore.ErrNotFound
	}
	return a, nil
}

func (m *mockCompletionStore) CompletedDays(ctx context.Context, assignmentID string) ([]int, error) {
	var days []int
	for d := range m.completed[assignmentID] {
		days = append(days, d)
	}
	return days, nil
}

func (m *mockCompletionStore) MarkDayComplete(ctx context.Context, value domainAssignment.CompletedDay) error {
	if m.completed[value.AssignmentID] == nil {
		m.completed[value.AssignmentID] = make(map[int]bool)
	}
	m.completed[value.AssignmentID][value.DayNumber] = true
	return nil
}

func (m *mockCompletionStore) UnmarkDayComplete(ctx context.Context, assignmentID string, dayNumber int) error {
	delete(m.completed[assignmentID], dayNumber)
	return nil
}

func completionDeps(t *testing.T) (SetDayCompletionDeps, *mockCompletionStore) {
	t.Helper()
	aStore := newMockCompletionStore()
	aStore.assignments["a1"] = domainAssignment.Assignment{
		ID: "a1", PathwayID: "p1", UserID: "u1", Status: domainAssignment.StatusActive,
	}
	pStore := &mockPathwayStore{pathways: map[string]domainPathway.Pathway{"p1": activeTestPathway("p1")}}
	return SetDayCompletionDeps{AssignmentStore: aStore, PathwayStore: pStore}, aStore
}

// TestExecuteSetDayCompletion_MarkAndUnmark tests the complete/incomplete toggle.
func TestExecuteSetDayCompletion_MarkAndUnmark(t *testing.T) {
	deps, aStore := completionDeps(t)
	viewer := policy.Viewer{UserID: "u1"}

	result, err := ExecuteSetDayCompletion(context.Background(), SetDayCompletionInput{
		AssignmentID: "a1", DayNumber: 1, Viewer: viewer, Complete: true,
	}, deps)
	if err != nil {
		t.Fatalf("mark error = %v", err)
	}
	if result.CompletionPercent != 50 {
		t.Errorf("CompletionPercent = %d, want 50", result.CompletionPercent)
	}
	if !aStore.completed["a1"][1] {
		t.Error("day 1 should be marked complete")
	}

	// Re-marking is idempotent
	result, err = ExecuteSetDayCompletion(context.Background(), SetDayCompletionInput{
		AssignmentID: "a1", DayNumber: 1, Viewer: viewer, Complete: true,
	}, deps)
	if err != nil {
		t.Fatalf("re-mark error = %v", err)
	}
	if len(result.CompletedDays) != 1 {
		t.Errorf("CompletedDays = %v after re-mark, want one day", result.CompletedDays)
	}

	result, err = ExecuteSetDayCompletion(context.Background(), SetDayCompletionInput{
		AssignmentID: "a1", DayNumber: 1, Viewer: viewer, Complete: false,
	}, deps)
	if err != nil {
		t.Fatalf("unmark error = %v", err)
	}
	if result.CompletionPercent != 0 {
		t.Errorf("CompletionPercent = %d after unmark, want 0", result.CompletionPercent)
	}
}

// TestExecuteSetDayCompletion_AuthRequired tests the anonymous viewer path.
func TestExecuteSetDayCompletion_AuthRequired(t *testing.T) {
	deps, _ := completionDeps(t)
	_, err := ExecuteSetDayCompletion(context.Background(), SetDayCompletionInput{
		AssignmentID: "a1", DayNumber: 1, Complete: true,
	}, deps)
	if !errors.Is(err, ErrAuthRequired) {
		t.Errorf("error = %v, want ErrAuthRequired", err)
	}
}

// TestExecuteSetDayCompletion_OtherUsersAssignment tests that the viewer-scoped
// lookup hides other users' assignments.
func TestExecuteSetDayCompletion_OtherUsersAssignment(t *testing.T) {
	deps, _ := completionDeps(t)
	_, err := ExecuteSetDayCompletion(context.Background(), SetDayCompletionInput{
		AssignmentID: "a1", DayNumber: 1, Viewer: policy.Viewer{UserID: "intruder"}, Complete: true,
	}, deps)
	if !errors.Is(err, ErrAssignmentNotFound) {
		t.Errorf("error = %v, want ErrAssignmentNotFound", err)
	}
}

// TestExecuteSetDayCompletion_DayOutOfRange tests day range validation.
func TestExecuteSetDayCompletion_DayOutOfRange(t *testing.T) {
	deps, _ := completionDeps(t)
	viewer := policy.Viewer{UserID: "u1"}

	for _, day := range []int{0, -1, 3, 99} {
		_, err := ExecuteSetDayCompletion(context.Background(), SetDayCompletionInput{
			AssignmentID: "a1", DayNumber: day, Viewer: viewer, Complete: true,
		}, deps)
		if !errors.Is(err, domainAssignment.ErrDayOutOfRange) {
			t.Errorf("day %d: error = %v, want ErrDayOutOfRange", day, err)
		}
	}
}

// TestExecuteSetDayCompletion_UnknownAssignment tests an unknown assignment ID.
func TestExecuteSetDayCompletion_UnknownAssignment(t *testing.T) {
	deps, _ := completionDeps(t)
	_, err := ExecuteSetDayCompletion(context.Background(), SetDayCompletionInput{
		AssignmentID: "missing", DayNumber: 1, Viewer: policy.Viewer{UserID: "u1"}, Complete: true,
	}, deps)
	if !errors.Is(err, ErrAssignmentNotFound) {
		t.Errorf("error = %v, want ErrAssignmentNotFound", err)
	}
}
