package orchestrators

import (
	"context"
	"errors"
	"testing"
	"time"

	assignmentstore "readspace/internal/adapters/storage/assignment"
	pathwaystore "readspace/internal/adapters/storage/pathway"
	"readspace/internal/application/policy"
	domainAssignment "readspace/internal/domain/assignment"
	domainPathway "readspace/internal/domain/pathway"
)

type mockPathwayStore struct {
	pathways map[string]domainPathway.Pathway
	err      error
}

func (m *mockPathwayStore) GetByID(ctx context.Context, id string) (domainPathway.Pathway, error) {
	if m.err != nil {
		return domainPathway.Pathway{}, m.err
	}
	p, ok := m.pathways[id]
	if !ok {
		return domainPathway.Pathway{}, pathwaystore.ErrNotFound
	}
	return p, nil
}

type mockAssignmentStore struct {
	active    map[string]domainAssignment.Assignment // key: pathwayID + "/" + userID
	created   []domainAssignment.Assignment
	createErr error
}

func newMockAssignmentStore() *mockAssignmentStore {
	return &mockAssignmentStore{active: make(map[string]domainAssignment.Assignment)}
}

func (m *mockAssignmentStore) FindActive(ctx context.Context, pathwayID, userID string) (domainAssignment.Assignment, error) {
	a, ok := m.active[pathwayID+"/"+userID]
	if !ok {
		return domainAssignment.Assignment{}, assignmentstore.ErrNotFound
	}
	return a, nil
}

func (m *mockAssignmentStore) Create(ctx context.Context, value domainAssignment.Assignment) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.created = append(m.created, value)
	m.active[value.PathwayID+"/"+value.UserID] = value
	return nil
}

func activeTestPathway(id string) domainPathway.Pathway {
	return domainPathway.Pathway{
		ID:        id,
		Kind:      domainPathway.KindPlatform,
		Status:    domainPathway.StatusActive,
		Title:     "Test Pathway",
		CreatedAt: time.Now(),
		Blocks: []domainPathway.Block{
			{ID: "b1", PathwayID: id, DayNumber: 1},
			{ID: "b2", PathwayID: id, DayNumber: 2},
		},
	}
}

// TestExecuteStartPathway_Success tests the happy path.
func TestExecuteStartPathway_Success(t *testing.T) {
	pStore := &mockPathwayStore{pathways: map[string]domainPathway.Pathway{"p1": activeTestPathway("p1")}}
	aStore := newMockAssignmentStore()
	deps := StartPathwayDeps{PathwayStore: pStore, AssignmentStore: aStore}

	created, err := ExecuteStartPathway(context.Background(), StartPathwayInput{
		PathwayID: "p1",
		Viewer:    policy.Viewer{UserID: "u1"},
	}, deps)
	if err != nil {
		t.Fatalf("ExecuteStartPathway() error = %v", err)
	}
	if created.ID == "" {
		t.Error("created assignment should have an ID")
	}
	if created.Status != domainAssignment.StatusActive {
		t.Errorf("Status = %q, want active", created.Status)
	}
	if created.UserID != "u1" || created.PathwayID != "p1" {
		t.Errorf("assignment = %+v", created)
	}
	if !created.MaterialsAcknowledged || created.MaterialsAcknowledgedAt.IsZero() {
		t.Error("every created assignment should record the acknowledgment with its timestamp")
	}
	if len(aStore.created) != 1 {
		t.Errorf("store received %d creates, want 1", len(aStore.created))
	}
}

// TestExecuteStartPathway_AcknowledgedWithoutRequirement tests that the
// acknowledgment is recorded even when the pathway never asked for it and
// the caller sent false.
func TestExecuteStartPathway_AcknowledgedWithoutRequirement(t *testing.T) {
	pStore := &mockPathwayStore{pathways: map[string]domainPathway.Pathway{"p1": activeTestPathway("p1")}}
	aStore := newMockAssignmentStore()
	deps := StartPathwayDeps{PathwayStore: pStore, AssignmentStore: aStore}

	created, err := ExecuteStartPathway(context.Background(), StartPathwayInput{
		PathwayID:             "p1",
		Viewer:                policy.Viewer{UserID: "u1"},
		MaterialsAcknowledged: false,
	}, deps)
	if err != nil {
		t.Fatalf("ExecuteStartPathway() error = %v", err)
	}
	if !created.MaterialsAcknowledged {
		t.Error("MaterialsAcknowledged should be true on every created assignment")
	}
	if created.MaterialsAcknowledgedAt.IsZero() {
		t.Error("MaterialsAcknowledgedAt should be set on every created assignment")
	}
	if len(aStore.created) != 1 || !aStore.created[0].MaterialsAcknowledged {
		t.Errorf("persisted assignment = %+v", aStore.created)
	}
}

// TestExecuteStartPathway_AuthRequired tests the anonymous viewer path.
func TestExecuteStartPathway_AuthRequired(t *testing.T) {
	deps := StartPathwayDeps{
		PathwayStore:    &mockPathwayStore{},
		AssignmentStore: newMockAssignmentStore(),
	}
	_, err := ExecuteStartPathway(context.Background(), StartPathwayInput{PathwayID: "p1"}, deps)
	if !errors.Is(err, ErrAuthRequired) {
		t.Errorf("error = %v, want ErrAuthRequired", err)
	}
}

// TestExecuteStartPathway_NotFound tests an unknown pathway.
func TestExecuteStartPathway_NotFound(t *testing.T) {
	deps := StartPathwayDeps{
		PathwayStore:    &mockPathwayStore{pathways: map[string]domainPathway.Pathway{}},
		AssignmentStore: newMockAssignmentStore(),
	}
	_, err := ExecuteStartPathway(context.Background(), StartPathwayInput{
		PathwayID: "missing",
		Viewer:    policy.Viewer{UserID: "u1"},
	}, deps)
	if !errors.Is(err, ErrPathwayNotFound) {
		t.Errorf("error = %v, want ErrPathwayNotFound", err)
	}
}

// TestExecuteStartPathway_ForbiddenPractitionerPathway tests that a user
// cannot start a practitioner pathway prescribed to someone else.
func TestExecuteStartPathway_ForbiddenPractitionerPathway(t *testing.T) {
	p := activeTestPathway("p1")
	p.Kind = domainPathway.KindPractitioner
	p.AssignedUserID = "other"
	deps := StartPathwayDeps{
		PathwayStore:    &mockPathwayStore{pathways: map[string]domainPathway.Pathway{"p1": p}},
		AssignmentStore: newMockAssignmentStore(),
	}
	_, err := ExecuteStartPathway(context.Background(), StartPathwayInput{
		PathwayID: "p1",
		Viewer:    policy.Viewer{UserID: "u1"},
	}, deps)
	if !errors.Is(err, ErrForbidden) {
		t.Errorf("error = %v, want ErrForbidden", err)
	}
}

// TestExecuteStartPathway_DraftForbidden tests that a draft pathway cannot
// be started.
func TestExecuteStartPathway_DraftForbidden(t *testing.T) {
	p := activeTestPathway("p1")
	p.Status = domainPathway.StatusDraft
	deps := StartPathwayDeps{
		PathwayStore:    &mockPathwayStore{pathways: map[string]domainPathway.Pathway{"p1": p}},
		AssignmentStore: newMockAssignmentStore(),
	}
	_, err := ExecuteStartPathway(context.Background(), StartPathwayInput{
		PathwayID: "p1",
		Viewer:    policy.Viewer{UserID: "u1"},
	}, deps)
	if !errors.Is(err, ErrForbidden) {
		t.Errorf("error = %v, want ErrForbidden", err)
	}
}

// TestExecuteStartPathway_AlreadyAssigned tests the duplicate-start check.
func TestExecuteStartPathway_AlreadyAssigned(t *testing.T) {
	pStore := &mockPathwayStore{pathways: map[string]domainPathway.Pathway{"p1": activeTestPathway("p1")}}
	aStore := newMockAssignmentStore()
	existing := domainAssignment.Assignment{ID: "a1", PathwayID: "p1", UserID: "u1", Status: domainAssignment.StatusActive}
	aStore.active["p1/u1"] = existing
	deps := StartPathwayDeps{PathwayStore: pStore, AssignmentStore: aStore}

	_, err := ExecuteStartPathway(context.Background(), StartPathwayInput{
		PathwayID: "p1",
		Viewer:    policy.Viewer{UserID: "u1"},
	}, deps)

	var already *AlreadyAssignedError
	if !errors.As(err, &already) {
		t.Fatalf("error = %v, want AlreadyAssignedError", err)
	}
	if already.Existing.ID != "a1" {
		t.Errorf("Existing.ID = %q, want a1", already.Existing.ID)
	}
	if len(aStore.created) != 0 {
		t.Error("no assignment should be created")
	}
}

// TestExecuteStartPathway_AcknowledgmentGate tests the materials gate.
func TestExecuteStartPathway_AcknowledgmentGate(t *testing.T) {
	p := activeTestPathway("p1")
	p.Requirement.AcknowledgementRequired = true
	pStore := &mockPathwayStore{pathways: map[string]domainPathway.Pathway{"p1": p}}

	t.Run("blocked without acknowledgment", func(t *testing.T) {
		deps := StartPathwayDeps{PathwayStore: pStore, AssignmentStore: newMockAssignmentStore()}
		_, err := ExecuteStartPathway(context.Background(), StartPathwayInput{
			PathwayID: "p1",
			Viewer:    policy.Viewer{UserID: "u1"},
		}, deps)
		if !errors.Is(err, ErrAcknowledgmentRequired) {
			t.Errorf("error = %v, want ErrAcknowledgmentRequired", err)
		}
	})

	t.Run("allowed with acknowledgment", func(t *testing.T) {
		deps := StartPathwayDeps{PathwayStore: pStore, AssignmentStore: newMockAssignmentStore()}
		created, err := ExecuteStartPathway(context.Background(), StartPathwayInput{
			PathwayID:             "p1",
			Viewer:                policy.Viewer{UserID: "u1"},
			MaterialsAcknowledged: true,
		}, deps)
		if err != nil {
			t.Fatalf("ExecuteStartPathway() error = %v", err)
		}
		if !created.MaterialsAcknowledged || created.MaterialsAcknowledgedAt.IsZero() {
			t.Error("acknowledgment should be recorded with its timestamp")
		}
	})
}

// TestExecuteStartPathway_ConcurrentDuplicate tests the race path where the
// insert itself hits the unique index.
func TestExecuteStartPathway_ConcurrentDuplicate(t *testing.T) {
	pStore := &mockPathwayStore{pathways: map[string]domainPathway.Pathway{"p1": activeTestPathway("p1")}}
	aStore := newMockAssignmentStore()
	aStore.createErr = assignmentstore.ErrDuplicateActive
	deps := StartPathwayDeps{PathwayStore: pStore, AssignmentStore: aStore}

	_, err := ExecuteStartPathway(context.Background(), StartPathwayInput{
		PathwayID: "p1",
		Viewer:    policy.Viewer{UserID: "u1"},
	}, deps)

	var already *AlreadyAssignedError
	if !errors.As(err, &already) {
		t.Errorf("error = %v, want AlreadyAssignedError", err)
	}
}
