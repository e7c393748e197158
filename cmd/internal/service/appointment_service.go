package service

import (
	"context"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/gommon/log"
	"slotly/cmd/internal/domain/entity"
	"slotly/cmd/internal/metrics"
	"slotly/cmd/internal/utils"
	"slotly/cmd/internal/utils/apierror"
	"sync"
)

type AppointmentRepository interface {
	Save(ctx context.Context, appointment *entity.Appointment) error
	FindAll(ctx context.Context) ([]*entity.Appointment, error)
	FindByRequesterID(ctx context.Context, userID string) ([]*entity.Appointment, error)
	FindByID(ctx context.Context, id string) (*entity.Appointment, error)
	IsSlotTaken(ctx context.Context, slot, excludeID string) (bool, error)
	UpdateStatus(ctx context.Context, appointment *entity.Appointment, status entity.Status) error
	Delete(ctx context.Context, appointment *entity.Appointment) error
}

type AppointmentRequest struct {
	Time string `json:"time" validate:"required,notblank,max=64"`
}

type StatusRequest struct {
	Status string `json:"status"`
}

type AppointmentResponse struct {
	ID            string  `json:"id"`
	Time          string  `json:"time"`
	RequesterID   *string `json:"requesterId"`
	RequesterName string  `json:"requesterName"`
	Status        string  `json:"status"`
	CreatedAt     string  `json:"createdAt"`
}

type DefaultAppointmentService struct {
	AppointmentRepo AppointmentRepository
	Validate        *validator.Validate
	Metrics         *metrics.Metrics

	// guards every check-then-write on the ledger
	mu sync.Mutex
}

func NewAppointmentService(apptRepo AppointmentRepository, validate *validator.Validate, m *metrics.Metrics) *DefaultAppointmentService {
	return &DefaultAppointmentService{AppointmentRepo: apptRepo, Validate: validate, Metrics: m}
}

// ListAll returns every appointment, any status, in booking order.
func (a *DefaultAppointmentService) ListAll(ctx context.Context) ([]*AppointmentResponse, apierror.ErrorResponse) {
	appts, err := a.AppointmentRepo.FindAll(ctx)
	if err != nil {
		log.Errorf("failed to list appointments: %v", err)
		return nil, apierror.InternalServerError
	}
	return toAppointmentResponses(appts), nil
}

func (a *DefaultAppointmentService) ListForOwner(ctx context.Context, identity *entity.Identity) ([]*AppointmentResponse, apierror.ErrorResponse) {
	if identity == nil {
		return nil, apierror.MissingAuthTokenError
	}

	appts, err := a.AppointmentRepo.FindByRequesterID(ctx, identity.ID)
	if err != nil {
		log.Errorf("failed to find appointments for user %s: %v", identity.ID, err)
		return nil, apierror.InternalServerError
	}
	return toAppointmentResponses(appts), nil
}

// CreateAppointment books req.Time for the caller. Either role may book.
func (a *DefaultAppointmentService) CreateAppointment(ctx context.Context, req *AppointmentRequest, identity *entity.Identity) (*AppointmentResponse, apierror.ErrorResponse) {
	if identity == nil {
		return nil, apierror.MissingAuthTokenError
	}

	utils.TrimFields(req)
	if valerr := a.Validate.Struct(req); valerr != nil {
		return nil, apierror.FromValidationError(valerr)
	}

	requesterID := identity.ID
	appointment := &entity.Appointment{
		ID:            uuid.NewString(),
		Time:          req.Time,
		RequesterID:   &requesterID,
		RequesterName: identity.Username,
		Status:        entity.StatusPending,
		CreatedAt:     utils.NowUTC(),
	}

	if apierr := a.insert(ctx, appointment); apierr != nil {
		return nil, apierr
	}
	a.Metrics.AppointmentCreated()
	return toAppointmentResponse(appointment), nil
}

// SeedLegacyAppointment inserts a booking with no owning user. Only the
// requester name is known for such records, so no requester can cancel or
// remove them.
func (a *DefaultAppointmentService) SeedLegacyAppointment(ctx context.Context, slot, requesterName string, status entity.Status) (*AppointmentResponse, apierror.ErrorResponse) {
	appointment := &entity.Appointment{
		ID:            uuid.NewString(),
		Time:          slot,
		RequesterName: requesterName,
		Status:        status,
		CreatedAt:     utils.NowUTC(),
	}
	if apierr := a.insert(ctx, appointment); apierr != nil {
		return nil, apierr
	}
	return toAppointmentResponse(appointment), nil
}

func (a *DefaultAppointmentService) insert(ctx context.Context, appointment *entity.Appointment) apierror.ErrorResponse {
	a.mu.Lock()
	defer a.mu.Unlock()

	if appointment.Status.IsActive() {
		taken, err := a.AppointmentRepo.IsSlotTaken(ctx, appointment.Time, "")
		if err != nil {
			log.Errorf("failed to check if slot %q is available: %v", appointment.Time, err)
			return apierror.InternalServerError
		}
		if taken {
			return apierror.SlotConflictError
		}
	}

	if err := a.AppointmentRepo.Save(ctx, appointment); err != nil {
		log.Errorf("failed to save appointment: %v", err)
		return apierror.InternalServerError
	}
	return nil
}

// Transition moves one appointment to req.Status if the caller's role and
// ownership allow it. Unknown ids are reported before any permission check.
func (a *DefaultAppointmentService) Transition(ctx context.Context, id string, req *StatusRequest, identity *entity.Identity) (*AppointmentResponse, apierror.ErrorResponse) {
	if identity == nil {
		return nil, apierror.MissingAuthTokenError
	}
	requested := entity.Status(req.Status)

	a.mu.Lock()
	defer a.mu.Unlock()

	appt, err := a.AppointmentRepo.FindByID(ctx, id)
	if err != nil {
		log.Errorf("failed to fetch appointment by id %s: %v", id, err)
		return nil, apierror.InternalServerError
	}
	if appt == nil {
		return nil, apierror.NotFoundError
	}

	if apierr := CheckTransition(identity, appt, requested); apierr != nil {
		return nil, apierr
	}

	// a provider may revive a cancelled or rejected booking; it must not
	// land on a slot someone else has taken since
	if requested.IsActive() && !appt.Status.IsActive() {
		taken, err := a.AppointmentRepo.IsSlotTaken(ctx, appt.Time, appt.ID)
		if err != nil {
			log.Errorf("failed to check if slot %q is available: %v", appt.Time, err)
			return nil, apierror.InternalServerError
		}
		if taken {
			return nil, apierror.SlotConflictError
		}
	}

	if err := a.AppointmentRepo.UpdateStatus(ctx, appt, requested); err != nil {
		log.Errorf("failed to update appointment %s to %s: %v", id, requested, err)
		return nil, apierror.InternalServerError
	}
	a.Metrics.Transitioned(string(requested))
	return toAppointmentResponse(appt), nil
}

func (a *DefaultAppointmentService) DeleteAppointment(ctx context.Context, id string, identity *entity.Identity) apierror.ErrorResponse {
	if identity == nil {
		return apierror.MissingAuthTokenError
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	appt, err := a.AppointmentRepo.FindByID(ctx, id)
	if err != nil {
		log.Errorf("failed to fetch appointment by id %s: %v", id, err)
		return apierror.InternalServerError
	}
	if appt == nil {
		return apierror.NotFoundError
	}

	if !CanRemove(identity, appt) {
		return apierror.ForbiddenError
	}

	if err := a.AppointmentRepo.Delete(ctx, appt); err != nil {
		log.Errorf("failed to delete appointment by id %s: %v", id, err)
		return apierror.InternalServerError
	}
	a.Metrics.AppointmentRemoved()
	return nil
}

func toAppointmentResponses(appts []*entity.Appointment) []*AppointmentResponse {
	response := make([]*AppointmentResponse, len(appts))
	for i, appt := range appts {
		response[i] = toAppointmentResponse(appt)
	}
	return response
}

func toAppointmentResponse(appt *entity.Appointment) *AppointmentResponse {
	return &AppointmentResponse{
		ID:            appt.ID,
		Time:          appt.Time,
		RequesterID:   appt.RequesterID,
		RequesterName: appt.RequesterName,
		Status:        string(appt.Status),
		CreatedAt:     utils.FormatEpoch(appt.CreatedAt),
	}
}
