package authz

import (
	"github.com/google/uuid"

	"straypaws/rescue-portal/rescue-portal-backend/pkg/apperrors"
)

// Role is an account role.
type Role string

const (
	RolePublic            Role = "public"
	RoleVolunteer         Role = "volunteer"
	RoleOrganizationAdmin Role = "organization_admin"
	RoleVeterinarian      Role = "veterinarian"
	RoleAdopter           Role = "adopter"
	RoleSuperadmin        Role = "superadmin"
)

// GatedRoles require manual approval before the account may authenticate.
var GatedRoles = map[Role]bool{
	RoleOrganizationAdmin: true,
	RoleVeterinarian:      true,
}

// IsGated reports whether the role requires verification before login.
func IsGated(r Role) bool { return GatedRoles[r] }

// Actor is the authenticated identity attempting an operation.
type Actor struct {
	ID   uuid.UUID
	Role Role
}

// Action names a guarded operation.
type Action string

const (
	ActionManageDogs         Action = "dogs:manage"          // create/update/delete dogs, assign vets
	ActionSetTreatment       Action = "dogs:set_treatment"   // record treatment progress
	ActionManageReports      Action = "reports:manage"       // set status, promote to dog
	ActionViewAssignedReport Action = "reports:view_own"     // volunteer task view
	ActionSubmitApplication  Action = "adoptions:submit"     // apply to adopt
	ActionDecideApplication  Action = "adoptions:decide"     // approve/reject an application
	ActionReviewAccounts     Action = "accounts:review"      // approve/reject gated registrations
	ActionExportAdoptions    Action = "adoptions:export"     // admin data export
)

// DogTarget carries the ownership facts the guard needs about a dog.
type DogTarget struct {
	CreatedBy   *uuid.UUID
	AssignedVet *uuid.UUID
}

// ApplicationTarget carries the ownership facts about an adoption application.
type ApplicationTarget struct {
	NGOID       *uuid.UUID
	ApplicantID uuid.UUID
}

// ReportTarget carries the assignment facts about a rescue report.
type ReportTarget struct {
	AssignedTo *uuid.UUID
}

// Authorize decides allow/deny for an actor attempting an action. It has no
// side effects and must run before any state is touched. target may be nil
// for actions that need no ownership check.
func Authorize(actor Actor, action Action, target interface{}) error {
	if actor.Role == RoleSuperadmin && action != ActionSubmitApplication {
		return nil
	}

	switch action {
	case ActionManageDogs, ActionManageReports:
		if actor.Role == RoleOrganizationAdmin {
			return nil
		}
		return deny("requires an organization administrator")

	case ActionSetTreatment:
		if actor.Role != RoleVeterinarian {
			return deny("requires a veterinarian")
		}
		dog, ok := target.(DogTarget)
		if !ok || dog.AssignedVet == nil || *dog.AssignedVet != actor.ID {
			return deny("only the assigned veterinarian may record treatment")
		}
		return nil

	case ActionViewAssignedReport:
		if actor.Role != RoleVolunteer {
			return deny("requires a volunteer")
		}
		report, ok := target.(ReportTarget)
		if !ok || report.AssignedTo == nil || *report.AssignedTo != actor.ID {
			return deny("report is not assigned to this volunteer")
		}
		return nil

	case ActionSubmitApplication:
		if actor.Role == RoleSuperadmin || actor.ID == uuid.Nil {
			return deny("requires an authenticated non-administrator account")
		}
		return nil

	case ActionDecideApplication:
		if actor.Role != RoleOrganizationAdmin {
			return deny("requires the owning organization or a superadmin")
		}
		app, ok := target.(ApplicationTarget)
		if !ok || app.NGOID == nil || *app.NGOID != actor.ID {
			return deny("application belongs to a different organization")
		}
		return nil

	case ActionReviewAccounts, ActionExportAdoptions:
		return deny("requires a superadmin")

	default:
		return deny("unknown action")
	}
}

func deny(reason string) error {
	return apperrors.Authorization(reason)
}
