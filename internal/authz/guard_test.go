package authz

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"straypaws/rescue-portal/rescue-portal-backend/pkg/apperrors"
)

func TestSuperadminPassesEverythingExceptApplying(t *testing.T) {
	super := Actor{ID: uuid.New(), Role: RoleSuperadmin}

	for _, action := range []Action{
		ActionManageDogs, ActionSetTreatment, ActionManageReports,
		ActionDecideApplication, ActionReviewAccounts, ActionExportAdoptions,
	} {
		assert.NoError(t, Authorize(super, action, nil), string(action))
	}

	err := Authorize(super, ActionSubmitApplication, nil)
	assert.True(t, apperrors.IsAuthorization(err))
}

func TestManageActionsRequireOrgAdmin(t *testing.T) {
	admin := Actor{ID: uuid.New(), Role: RoleOrganizationAdmin}
	assert.NoError(t, Authorize(admin, ActionManageDogs, nil))
	assert.NoError(t, Authorize(admin, ActionManageReports, nil))

	for _, role := range []Role{RoleVolunteer, RoleVeterinarian, RoleAdopter, RolePublic} {
		actor := Actor{ID: uuid.New(), Role: role}
		assert.Error(t, Authorize(actor, ActionManageDogs, nil), string(role))
	}
}

func TestTreatmentRequiresAssignedVet(t *testing.T) {
	vetID := uuid.New()
	vet := Actor{ID: vetID, Role: RoleVeterinarian}

	assert.NoError(t, Authorize(vet, ActionSetTreatment, DogTarget{AssignedVet: &vetID}))

	other := uuid.New()
	assert.Error(t, Authorize(vet, ActionSetTreatment, DogTarget{AssignedVet: &other}))
	assert.Error(t, Authorize(vet, ActionSetTreatment, DogTarget{}))

	admin := Actor{ID: vetID, Role: RoleOrganizationAdmin}
	assert.Error(t, Authorize(admin, ActionSetTreatment, DogTarget{AssignedVet: &vetID}))
}

func TestDecideRequiresOwningOrg(t *testing.T) {
	orgID := uuid.New()
	owner := Actor{ID: orgID, Role: RoleOrganizationAdmin}
	assert.NoError(t, Authorize(owner, ActionDecideApplication, ApplicationTarget{NGOID: &orgID}))

	stranger := Actor{ID: uuid.New(), Role: RoleOrganizationAdmin}
	assert.Error(t, Authorize(stranger, ActionDecideApplication, ApplicationTarget{NGOID: &orgID}))
	assert.Error(t, Authorize(owner, ActionDecideApplication, ApplicationTarget{}))
}

func TestVolunteerSeesOnlyAssignedReports(t *testing.T) {
	volunteerID := uuid.New()
	volunteer := Actor{ID: volunteerID, Role: RoleVolunteer}

	assert.NoError(t, Authorize(volunteer, ActionViewAssignedReport, ReportTarget{AssignedTo: &volunteerID}))

	other := uuid.New()
	assert.Error(t, Authorize(volunteer, ActionViewAssignedReport, ReportTarget{AssignedTo: &other}))
	assert.Error(t, Authorize(volunteer, ActionViewAssignedReport, ReportTarget{}))
}

func TestReviewAndExportAreSuperadminOnly(t *testing.T) {
	admin := Actor{ID: uuid.New(), Role: RoleOrganizationAdmin}
	assert.Error(t, Authorize(admin, ActionReviewAccounts, nil))
	assert.Error(t, Authorize(admin, ActionExportAdoptions, nil))
}

func TestGatedRoles(t *testing.T) {
	assert.True(t, IsGated(RoleOrganizationAdmin))
	assert.True(t, IsGated(RoleVeterinarian))
	assert.False(t, IsGated(RoleAdopter))
	assert.False(t, IsGated(RoleVolunteer))
}
