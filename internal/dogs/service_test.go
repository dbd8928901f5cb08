package dogs

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"straypaws/rescue-portal/rescue-portal-backend/internal/authz"
	"straypaws/rescue-portal/rescue-portal-backend/internal/notifications"
	"straypaws/rescue-portal/rescue-portal-backend/pkg/apperrors"
)

// memoryRepository mirrors the guarded-write semantics of the gorm repository.
type memoryRepository struct {
	dogs map[uuid.UUID]*Dog
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{dogs: map[uuid.UUID]*Dog{}}
}

func (r *memoryRepository) Create(_ context.Context, dog *Dog) error {
	copied := *dog
	r.dogs[dog.ID] = &copied
	return nil
}

func (r *memoryRepository) GetByID(_ context.Context, id uuid.UUID) (*Dog, error) {
	dog, ok := r.dogs[id]
	if !ok {
		return nil, apperrors.NotFound("dog")
	}
	copied := *dog
	return &copied, nil
}

func (r *memoryRepository) List(_ context.Context, filter Filter) ([]Dog, error) {
	var items []Dog
	for _, dog := range r.dogs {
		if filter.Status != nil && dog.Status != *filter.Status {
			continue
		}
		items = append(items, *dog)
	}
	return items, nil
}

func (r *memoryRepository) Update(_ context.Context, id uuid.UUID, fields map[string]interface{}) error {
	dog, ok := r.dogs[id]
	if !ok {
		return apperrors.NotFound("dog")
	}
	if dog.Status == StatusAdopted {
		return apperrors.Conflict("dog", "dog record is final after adoption")
	}
	for key, value := range fields {
		switch key {
		case "name":
			dog.Name = value.(string)
		case "breed":
			dog.Breed = value.(string)
		case "age_months":
			dog.AgeMonths = value.(int)
		case "gender":
			dog.Gender = value.(Gender)
		case "size":
			dog.Size = value.(Size)
		case "status":
			dog.Status = value.(Status)
		case "location":
			dog.Location = value.(string)
		case "photo_url":
			dog.PhotoURL = value.(string)
		case "medical_notes":
			dog.MedicalNotes = value.(string)
		case "vaccinated":
			dog.Vaccinated = value.(bool)
		case "sterilized":
			dog.Sterilized = value.(bool)
		case "treatment_status":
			dog.TreatmentStatus = value.(TreatmentStatus)
		case "assigned_vet":
			dog.AssignedVet = value.(*uuid.UUID)
		}
	}
	return nil
}

func (r *memoryRepository) Delete(_ context.Context, id uuid.UUID) error {
	dog, ok := r.dogs[id]
	if !ok {
		return apperrors.NotFound("dog")
	}
	if dog.Status == StatusAdopted {
		return apperrors.Conflict("dog", "dog record is final after adoption")
	}
	delete(r.dogs, id)
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
	return NewService(repo, notifier, zap.NewNop()), repo, notifier
}

func orgAdmin() authz.Actor {
	return authz.Actor{ID: uuid.New(), Role: authz.RoleOrganizationAdmin}
}

func TestCreateDog(t *testing.T) {
	svc, _, _ := newTestService()
	admin := orgAdmin()

	dog, err := svc.Create(context.Background(), admin, CreateDogRequest{Name: "Canela", Gender: "female"})
	require.NoError(t, err)

	assert.Equal(t, StatusReported, dog.Status)
	assert.Equal(t, TreatmentPending, dog.TreatmentStatus)
	assert.Equal(t, GenderFemale, dog.Gender)
	require.NotNil(t, dog.CreatedBy)
	assert.Equal(t, admin.ID, *dog.CreatedBy)
	assert.Nil(t, dog.AdopterID)
}

func TestCreateDogRequiresName(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Create(context.Background(), orgAdmin(), CreateDogRequest{Name: "   "})
	assert.True(t, apperrors.IsValidation(err))
}

func TestCreateDogForbiddenForAdopter(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Create(context.Background(), authz.Actor{ID: uuid.New(), Role: authz.RoleAdopter},
		CreateDogRequest{Name: "Rex"})
	assert.True(t, apperrors.IsAuthorization(err))
}

func TestUpdateDogStatusTransitions(t *testing.T) {
	svc, _, _ := newTestService()
	admin := orgAdmin()
	dog, err := svc.Create(context.Background(), admin, CreateDogRequest{Name: "Rex"})
	require.NoError(t, err)

	next := string(StatusAdoptable)
	updated, err := svc.Update(context.Background(), admin, dog.ID, UpdateDogRequest{Status: &next})
	require.NoError(t, err)
	assert.Equal(t, StatusAdoptable, updated.Status)
}

func TestUpdateDogCannotSetAdopted(t *testing.T) {
	svc, _, _ := newTestService()
	admin := orgAdmin()
	dog, err := svc.Create(context.Background(), admin, CreateDogRequest{Name: "Rex"})
	require.NoError(t, err)

	target := string(StatusAdopted)
	_, err = svc.Update(context.Background(), admin, dog.ID, UpdateDogRequest{Status: &target})
	assert.True(t, apperrors.IsValidation(err))
}

func TestUpdateAdoptedDogConflicts(t *testing.T) {
	svc, repo, _ := newTestService()
	admin := orgAdmin()
	dog, err := svc.Create(context.Background(), admin, CreateDogRequest{Name: "Rex"})
	require.NoError(t, err)

	adopter := uuid.New()
	repo.dogs[dog.ID].Status = StatusAdopted
	repo.dogs[dog.ID].AdopterID = &adopter

	name := "Max"
	_, err = svc.Update(context.Background(), admin, dog.ID, UpdateDogRequest{Name: &name})
	assert.True(t, apperrors.IsConflict(err))

	err = svc.Delete(context.Background(), admin, dog.ID)
	assert.True(t, apperrors.IsConflict(err))
}

func TestAssignVetResetsTreatment(t *testing.T) {
	svc, repo, notifier := newTestService()
	admin := orgAdmin()
	dog, err := svc.Create(context.Background(), admin, CreateDogRequest{Name: "Rex"})
	require.NoError(t, err)
	repo.dogs[dog.ID].TreatmentStatus = TreatmentCompleted

	vetID := uuid.New()
	updated, err := svc.AssignVet(context.Background(), admin, dog.ID, &vetID)
	require.NoError(t, err)

	require.NotNil(t, updated.AssignedVet)
	assert.Equal(t, vetID, *updated.AssignedVet)
	assert.Equal(t, TreatmentPending, updated.TreatmentStatus)

	require.Len(t, notifier.events, 1)
	assert.Equal(t, vetID, notifier.events[0].AccountID)
}

func TestUnassignVetKeepsTreatment(t *testing.T) {
	svc, repo, notifier := newTestService()
	admin := orgAdmin()
	dog, err := svc.Create(context.Background(), admin, CreateDogRequest{Name: "Rex"})
	require.NoError(t, err)

	vetID := uuid.New()
	_, err = svc.AssignVet(context.Background(), admin, dog.ID, &vetID)
	require.NoError(t, err)
	repo.dogs[dog.ID].TreatmentStatus = TreatmentInProgress
	notifier.events = nil

	updated, err := svc.AssignVet(context.Background(), admin, dog.ID, nil)
	require.NoError(t, err)

	assert.Nil(t, updated.AssignedVet)
	assert.Equal(t, TreatmentInProgress, updated.TreatmentStatus)
	assert.Empty(t, notifier.events)
}

func TestUpdateTreatmentAssignedVetOnly(t *testing.T) {
	svc, _, _ := newTestService()
	admin := orgAdmin()
	dog, err := svc.Create(context.Background(), admin, CreateDogRequest{Name: "Rex"})
	require.NoError(t, err)

	assignedVet := uuid.New()
	_, err = svc.AssignVet(context.Background(), admin, dog.ID, &assignedVet)
	require.NoError(t, err)

	otherVet := authz.Actor{ID: uuid.New(), Role: authz.RoleVeterinarian}
	_, err = svc.UpdateTreatment(context.Background(), otherVet, dog.ID, TreatmentUpdateRequest{
		Status: string(TreatmentInProgress),
	})
	assert.True(t, apperrors.IsAuthorization(err))

	vaccinated := true
	updated, err := svc.UpdateTreatment(context.Background(),
		authz.Actor{ID: assignedVet, Role: authz.RoleVeterinarian}, dog.ID, TreatmentUpdateRequest{
			Status:     string(TreatmentInProgress),
			Vaccinated: &vaccinated,
		})
	require.NoError(t, err)
	assert.Equal(t, TreatmentInProgress, updated.TreatmentStatus)
	assert.True(t, updated.Vaccinated)
}

func TestUpdateTreatmentCompletionNotifiesOrg(t *testing.T) {
	svc, _, notifier := newTestService()
	admin := orgAdmin()
	dog, err := svc.Create(context.Background(), admin, CreateDogRequest{Name: "Rex"})
	require.NoError(t, err)

	vetID := uuid.New()
	_, err = svc.AssignVet(context.Background(), admin, dog.ID, &vetID)
	require.NoError(t, err)
	notifier.events = nil

	_, err = svc.UpdateTreatment(context.Background(),
		authz.Actor{ID: vetID, Role: authz.RoleVeterinarian}, dog.ID, TreatmentUpdateRequest{
			Status: string(TreatmentCompleted),
		})
	require.NoError(t, err)

	require.Len(t, notifier.events, 1)
	assert.Equal(t, admin.ID, notifier.events[0].AccountID)
}
