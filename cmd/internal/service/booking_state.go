package service

import (
	"slotly/cmd/internal/domain/entity"
	"slotly/cmd/internal/utils/apierror"
)

// CheckTransition applies the transition table for one requested status.
// Providers may accept or reject any appointment; requesters may only cancel
// their own. Everything else, unknown statuses included, is forbidden.
//
// The current status is not consulted: a terminal appointment can be moved
// again by whoever the table allows.
func CheckTransition(identity *entity.Identity, appt *entity.Appointment, requested entity.Status) apierror.ErrorResponse {
	if identity == nil {
		return apierror.ForbiddenError
	}

	switch identity.Role {
	case entity.RoleProvider:
		if requested == entity.StatusAccepted || requested == entity.StatusRejected {
			return nil
		}
	case entity.RoleRequester:
		if requested == entity.StatusCancelled && appt.OwnedBy(identity.ID) {
			return nil
		}
	}
	return apierror.ForbiddenError
}

// CanRemove reports whether identity may hard-delete appt.
func CanRemove(identity *entity.Identity, appt *entity.Appointment) bool {
	if identity.IsProvider() {
		return true
	}
	return identity != nil && identity.Role == entity.RoleRequester && appt.OwnedBy(identity.ID)
}
