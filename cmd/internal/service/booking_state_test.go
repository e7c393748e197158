package service

import (
	"slotly/cmd/internal/domain/entity"
	"slotly/cmd/internal/utils/apierror"
	"testing"
)

func TestCheckTransition(t *testing.T) {
	ownerID := "owner"
	owned := &entity.Appointment{ID: "a1", RequesterID: &ownerID, Status: entity.StatusPending}

	owner := &entity.Identity{ID: "owner", Role: entity.RoleRequester}
	stranger := &entity.Identity{ID: "stranger", Role: entity.RoleRequester}
	provider := &entity.Identity{ID: "prov", Role: entity.RoleProvider}
	unknownRole := &entity.Identity{ID: "owner", Role: entity.Role("admin")}

	tests := []struct {
		name      string
		identity  *entity.Identity
		requested entity.Status
		allowed   bool
	}{
		{"provider accepts", provider, entity.StatusAccepted, true},
		{"provider rejects", provider, entity.StatusRejected, true},
		{"provider cannot cancel", provider, entity.StatusCancelled, false},
		{"provider cannot set pending", provider, entity.StatusPending, false},
		{"owner cancels", owner, entity.StatusCancelled, true},
		{"owner cannot accept", owner, entity.StatusAccepted, false},
		{"owner cannot reject", owner, entity.StatusRejected, false},
		{"owner cannot set pending", owner, entity.StatusPending, false},
		{"stranger cannot cancel", stranger, entity.StatusCancelled, false},
		{"stranger cannot accept", stranger, entity.StatusAccepted, false},
		{"unknown status", provider, entity.Status("done"), false},
		{"empty status", owner, entity.Status(""), false},
		{"status is case sensitive", provider, entity.Status("Accepted"), false},
		{"unknown role", unknownRole, entity.StatusCancelled, false},
		{"no identity", nil, entity.StatusAccepted, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apierr := CheckTransition(tt.identity, owned, tt.requested)
			if tt.allowed && apierr != nil {
				t.Errorf("CheckTransition() = %v, want allowed", apierr)
			}
			if !tt.allowed && apierr != apierror.ForbiddenError {
				t.Errorf("CheckTransition() = %v, want ForbiddenError", apierr)
			}
		})
	}
}

func TestCheckTransition_RequesterNeverAcceptsOrRejects(t *testing.T) {
	ids := []string{"r1", "r2"}
	for _, ownerID := range ids {
		ownerID := ownerID
		appt := &entity.Appointment{RequesterID: &ownerID}
		for _, actorID := range ids {
			actor := &entity.Identity{ID: actorID, Role: entity.RoleRequester}
			for _, status := range []entity.Status{entity.StatusAccepted, entity.StatusRejected} {
				if CheckTransition(actor, appt, status) == nil {
					t.Errorf("requester %s moved %s's appointment to %s", actorID, ownerID, status)
				}
			}
		}
	}
}

func TestCheckTransition_LegacyAppointmentHasNoOwner(t *testing.T) {
	legacy := &entity.Appointment{ID: "legacy", Status: entity.StatusPending}

	if CheckTransition(&entity.Identity{ID: "", Role: entity.RoleRequester}, legacy, entity.StatusCancelled) == nil {
		t.Error("requester cancelled an appointment without an owner")
	}
	if apierr := CheckTransition(&entity.Identity{ID: "p", Role: entity.RoleProvider}, legacy, entity.StatusAccepted); apierr != nil {
		t.Errorf("provider accept on legacy appointment = %v", apierr)
	}
}

func TestCanRemove(t *testing.T) {
	ownerID := "owner"
	owned := &entity.Appointment{RequesterID: &ownerID}
	legacy := &entity.Appointment{}

	tests := []struct {
		name     string
		identity *entity.Identity
		appt     *entity.Appointment
		want     bool
	}{
		{"owner", &entity.Identity{ID: "owner", Role: entity.RoleRequester}, owned, true},
		{"other requester", &entity.Identity{ID: "x", Role: entity.RoleRequester}, owned, false},
		{"provider", &entity.Identity{ID: "p", Role: entity.RoleProvider}, owned, true},
		{"requester on legacy", &entity.Identity{ID: "owner", Role: entity.RoleRequester}, legacy, false},
		{"provider on legacy", &entity.Identity{ID: "p", Role: entity.RoleProvider}, legacy, true},
		{"unknown role", &entity.Identity{ID: "owner", Role: entity.Role("admin")}, owned, false},
		{"no identity", nil, owned, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanRemove(tt.identity, tt.appt); got != tt.want {
				t.Errorf("CanRemove() = %v, want %v", got, tt.want)
			}
		})
	}
}
