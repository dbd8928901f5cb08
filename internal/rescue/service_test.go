package rescue

import (
	"context"
	"sort"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"straypaws/rescue-portal/rescue-portal-backend/internal/authz"
	"straypaws/rescue-portal/rescue-portal-backend/internal/dogs"
	"straypaws/rescue-portal/rescue-portal-backend/internal/notifications"
	"straypaws/rescue-portal/rescue-portal-backend/pkg/apperrors"
)

var urgencyRank = map[Urgency]int{
	UrgencyCritical: 0,
	UrgencyHigh:     1,
	UrgencyMedium:   2,
	UrgencyLow:      3,
}

// memoryRepository mirrors the conditional-write semantics of the gorm
// repository, including the one-shot dog_id stamp on promotion.
type memoryRepository struct {
	reports map[uuid.UUID]*RescueReport
	dogs    *memoryDogRepository
	seq     int
}

type memoryDogRepository struct {
	dogs map[uuid.UUID]*dogs.Dog
}

func (r *memoryDogRepository) Create(_ context.Context, dog *dogs.Dog) error {
	copied := *dog
	r.dogs[dog.ID] = &copied
	return nil
}

func (r *memoryDogRepository) GetByID(_ context.Context, id uuid.UUID) (*dogs.Dog, error) {
	dog, ok := r.dogs[id]
	if !ok {
		return nil, apperrors.NotFound("dog")
	}
	copied := *dog
	return &copied, nil
}

func (r *memoryDogRepository) List(_ context.Context, _ dogs.Filter) ([]dogs.Dog, error) {
	return nil, nil
}

func (r *memoryDogRepository) Update(_ context.Context, _ uuid.UUID, _ map[string]interface{}) error {
	return nil
}

func (r *memoryDogRepository) Delete(_ context.Context, _ uuid.UUID) error { return nil }

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{
		reports: map[uuid.UUID]*RescueReport{},
		dogs:    &memoryDogRepository{dogs: map[uuid.UUID]*dogs.Dog{}},
	}
}

func (r *memoryRepository) Create(_ context.Context, report *RescueReport) error {
	r.seq++
	copied := *report
	copied.CreatedAt = copied.CreatedAt.AddDate(0, 0, r.seq)
	r.reports[report.ID] = &copied
	return nil
}

func (r *memoryRepository) GetByID(_ context.Context, id uuid.UUID) (*RescueReport, error) {
	report, ok := r.reports[id]
	if !ok {
		return nil, apperrors.NotFound("rescue report")
	}
	copied := *report
	return &copied, nil
}

func (r *memoryRepository) List(_ context.Context, filter Filter) ([]RescueReport, error) {
	var items []RescueReport
	for _, report := range r.reports {
		if filter.Status != nil && report.Status != *filter.Status {
			continue
		}
		if filter.AssignedTo != nil && (report.AssignedTo == nil || *report.AssignedTo != *filter.AssignedTo) {
			continue
		}
		items = append(items, *report)
	}
	sort.Slice(items, func(i, j int) bool {
		if urgencyRank[items[i].Urgency] != urgencyRank[items[j].Urgency] {
			return urgencyRank[items[i].Urgency] < urgencyRank[items[j].Urgency]
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}

func (r *memoryRepository) SetStatus(_ context.Context, id uuid.UUID, from, to Status) error {
	report, ok := r.reports[id]
	if !ok {
		return apperrors.NotFound("rescue report")
	}
	if report.Status != from {
		return apperrors.Conflict("rescue report", "report status changed concurrently")
	}
	report.Status = to
	return nil
}

func (r *memoryRepository) SetAssignee(_ context.Context, id uuid.UUID, assignee *uuid.UUID) error {
	report, ok := r.reports[id]
	if !ok {
		return apperrors.NotFound("rescue report")
	}
	if report.Status == StatusCompleted || report.Status == StatusCancelled {
		return apperrors.Conflict("rescue report", "report is closed")
	}
	report.AssignedTo = assignee
	return nil
}

func (r *memoryRepository) Promote(_ context.Context, reportID uuid.UUID, dog *dogs.Dog) error {
	report, ok := r.reports[reportID]
	if !ok {
		return apperrors.NotFound("rescue report")
	}
	if report.DogID != nil {
		return apperrors.Conflict("rescue report", "report was already promoted")
	}
	if err := r.dogs.Create(context.Background(), dog); err != nil {
		return err
	}
	report.DogID = &dog.ID
	return nil
}

type recordingNotifier struct {
	events []notifications.Event
}

func (n *recordingNotifier) Dispatch(_ context.Context, events ...notifications.Event) {
	n.events = append(n.events, events...)
}

func newTestService() (*Service, *memoryRepository, *recordingNotifier) {
	repo := newMemoryRepository()
	notifier := &recordingNotifier{}
	return NewService(repo, repo.dogs, notifier, zap.NewNop()), repo, notifier
}

func orgAdmin() authz.Actor {
	return authz.Actor{ID: uuid.New(), Role: authz.RoleOrganizationAdmin}
}

func TestSubmitReport(t *testing.T) {
	svc, _, _ := newTestService()

	report, err := svc.Submit(context.Background(), SubmitReportRequest{
		Description:     "injured dog near the market",
		Location:        "Av. Central 123",
		Urgency:         "high",
		ReporterName:    "Ana",
		ReporterContact: "+51 999 000 111",
	})
	require.NoError(t, err)

	assert.Equal(t, StatusPending, report.Status)
	assert.Equal(t, UrgencyHigh, report.Urgency)
	assert.Nil(t, report.DogID)
}

func TestSubmitReportDefaultsUrgency(t *testing.T) {
	svc, _, _ := newTestService()

	report, err := svc.Submit(context.Background(), SubmitReportRequest{
		Description: "thin dog wandering",
		Location:    "park",
	})
	require.NoError(t, err)
	assert.Equal(t, UrgencyMedium, report.Urgency)
}

func TestSubmitReportValidation(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Submit(context.Background(), SubmitReportRequest{Location: "park"})
	assert.True(t, apperrors.IsValidation(err))

	_, err = svc.Submit(context.Background(), SubmitReportRequest{
		Description: "dog", Location: "park", Urgency: "extreme",
	})
	assert.True(t, apperrors.IsValidation(err))
}

func TestListOrdersByUrgencyThenRecency(t *testing.T) {
	svc, _, _ := newTestService()

	low, err := svc.Submit(context.Background(), SubmitReportRequest{
		Description: "a", Location: "x", Urgency: "low",
	})
	require.NoError(t, err)
	critical, err := svc.Submit(context.Background(), SubmitReportRequest{
		Description: "b", Location: "x", Urgency: "critical",
	})
	require.NoError(t, err)
	high, err := svc.Submit(context.Background(), SubmitReportRequest{
		Description: "c", Location: "x", Urgency: "high",
	})
	require.NoError(t, err)

	items, err := svc.List(context.Background(), orgAdmin(), Filter{})
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, critical.ID, items[0].ID)
	assert.Equal(t, high.ID, items[1].ID)
	assert.Equal(t, low.ID, items[2].ID)
}

func TestVolunteerListsOnlyAssignedReports(t *testing.T) {
	svc, _, _ := newTestService()
	admin := orgAdmin()

	mine, err := svc.Submit(context.Background(), SubmitReportRequest{
		Description: "a", Location: "x",
	})
	require.NoError(t, err)
	_, err = svc.Submit(context.Background(), SubmitReportRequest{
		Description: "b", Location: "y",
	})
	require.NoError(t, err)

	volunteerID := uuid.New()
	_, err = svc.Assign(context.Background(), admin, mine.ID, &volunteerID)
	require.NoError(t, err)

	items, err := svc.List(context.Background(),
		authz.Actor{ID: volunteerID, Role: authz.RoleVolunteer}, Filter{})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, mine.ID, items[0].ID)
}

func TestAssignMovesPendingToAssignedAndNotifies(t *testing.T) {
	svc, _, notifier := newTestService()
	admin := orgAdmin()

	report, err := svc.Submit(context.Background(), SubmitReportRequest{
		Description: "a", Location: "x",
	})
	require.NoError(t, err)

	volunteerID := uuid.New()
	updated, err := svc.Assign(context.Background(), admin, report.ID, &volunteerID)
	require.NoError(t, err)

	assert.Equal(t, StatusAssigned, updated.Status)
	require.NotNil(t, updated.AssignedTo)
	assert.Equal(t, volunteerID, *updated.AssignedTo)
	require.Len(t, notifier.events, 1)
	assert.Equal(t, volunteerID, notifier.events[0].AccountID)
}

func TestAssignClosedReportConflicts(t *testing.T) {
	svc, repo, notifier := newTestService()
	admin := orgAdmin()

	report, err := svc.Submit(context.Background(), SubmitReportRequest{
		Description: "a", Location: "x",
	})
	require.NoError(t, err)

	_, err = svc.SetStatus(context.Background(), admin, report.ID, StatusCancelled)
	require.NoError(t, err)

	volunteerID := uuid.New()
	_, err = svc.Assign(context.Background(), admin, report.ID, &volunteerID)
	assert.True(t, apperrors.IsConflict(err))
	assert.Empty(t, notifier.events)

	// The write itself rejects closed reports, so a report cancelled after
	// the service's terminality check still cannot gain an assignee.
	err = repo.SetAssignee(context.Background(), report.ID, &volunteerID)
	assert.True(t, apperrors.IsConflict(err))

	fresh, err := repo.GetByID(context.Background(), report.ID)
	require.NoError(t, err)
	assert.Nil(t, fresh.AssignedTo)
}

func TestSetStatusIllegalTransition(t *testing.T) {
	svc, _, _ := newTestService()
	admin := orgAdmin()

	report, err := svc.Submit(context.Background(), SubmitReportRequest{
		Description: "a", Location: "x",
	})
	require.NoError(t, err)

	_, err = svc.SetStatus(context.Background(), admin, report.ID, StatusCompleted)
	assert.True(t, apperrors.IsConflict(err))

	_, err = svc.SetStatus(context.Background(), admin, report.ID, StatusCancelled)
	require.NoError(t, err)

	_, err = svc.SetStatus(context.Background(), admin, report.ID, StatusPending)
	assert.True(t, apperrors.IsConflict(err))
}

func TestVolunteerAdvancesOwnReportOnly(t *testing.T) {
	svc, _, _ := newTestService()
	admin := orgAdmin()

	report, err := svc.Submit(context.Background(), SubmitReportRequest{
		Description: "a", Location: "x",
	})
	require.NoError(t, err)

	volunteerID := uuid.New()
	_, err = svc.Assign(context.Background(), admin, report.ID, &volunteerID)
	require.NoError(t, err)

	stranger := authz.Actor{ID: uuid.New(), Role: authz.RoleVolunteer}
	_, err = svc.SetStatus(context.Background(), stranger, report.ID, StatusInProgress)
	assert.True(t, apperrors.IsAuthorization(err))

	assignee := authz.Actor{ID: volunteerID, Role: authz.RoleVolunteer}
	updated, err := svc.SetStatus(context.Background(), assignee, report.ID, StatusInProgress)
	require.NoError(t, err)
	assert.Equal(t, StatusInProgress, updated.Status)
}

func TestPromoteCreatesDogOnce(t *testing.T) {
	svc, repo, _ := newTestService()
	admin := orgAdmin()

	report, err := svc.Submit(context.Background(), SubmitReportRequest{
		Description: "injured dog", Location: "Av. Central", PhotoURL: "https://img/1.jpg",
	})
	require.NoError(t, err)

	dog, err := svc.Promote(context.Background(), admin, report.ID, PromoteRequest{Name: "Canela"})
	require.NoError(t, err)

	assert.Equal(t, dogs.StatusReported, dog.Status)
	assert.Equal(t, "Canela", dog.Name)
	assert.Equal(t, report.Location, dog.Location)
	assert.Equal(t, report.PhotoURL, dog.PhotoURL)
	require.NotNil(t, dog.CreatedBy)
	assert.Equal(t, admin.ID, *dog.CreatedBy)

	stamped, err := repo.GetByID(context.Background(), report.ID)
	require.NoError(t, err)
	require.NotNil(t, stamped.DogID)
	assert.Equal(t, dog.ID, *stamped.DogID)

	// Second promotion returns the same dog and creates nothing new.
	again, err := svc.Promote(context.Background(), admin, report.ID, PromoteRequest{Name: "Otro"})
	require.NoError(t, err)
	assert.Equal(t, dog.ID, again.ID)
	assert.Equal(t, "Canela", again.Name)
	assert.Len(t, repo.dogs.dogs, 1)
}

func TestPromoteDefaultsName(t *testing.T) {
	svc, _, _ := newTestService()

	report, err := svc.Submit(context.Background(), SubmitReportRequest{
		Description: "a", Location: "x",
	})
	require.NoError(t, err)

	dog, err := svc.Promote(context.Background(), orgAdmin(), report.ID, PromoteRequest{})
	require.NoError(t, err)
	assert.Equal(t, "Unnamed", dog.Name)
	assert.Equal(t, dogs.GenderUnknown, dog.Gender)
}
