package reservation

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/Alejandro-Trvn/reservas-universidad-api/internal/domain"
	"github.com/Alejandro-Trvn/reservas-universidad-api/internal/pkg/apitime"
	"github.com/Alejandro-Trvn/reservas-universidad-api/internal/repository"

	"gorm.io/gorm"
)

const maxCommentLen = 500

// Service owns the reservation lifecycle: admission (validation,
// availability, overlap), state transitions and their side effects
// (history entries, notifications). History and notification writes
// happen after the transition is durable; their failures are logged
// and never roll back a committed transition.
type Service struct {
	reservations ReservationRepository
	resources    ResourceCatalog
	history      HistoryRecorder
	notifs       NotificationSender
	users        UserDirectory
}

func NewService(
	reservations ReservationRepository,
	resources ResourceCatalog,
	history HistoryRecorder,
	notifs NotificationSender,
	users UserDirectory,
) *Service {
	return &Service{
		reservations: reservations,
		resources:    resources,
		history:      history,
		notifs:       notifs,
		users:        users,
	}
}

func (s *Service) Create(ctx context.Context, actor Actor, req CreateRequest) (*domain.Reservation, error) {
	if err := validateComment(req.Comment); err != nil {
		return nil, err
	}
	if err := validateInterval(req.Start.Time, req.End.Time, true); err != nil {
		return nil, err
	}

	res, err := s.bookableResource(ctx, req.ResourceID)
	if err != nil {
		return nil, err
	}

	r := &domain.Reservation{
		UserID:     actor.ID,
		ResourceID: req.ResourceID,
		StartTime:  req.Start.Time,
		EndTime:    req.End.Time,
		State:      domain.ReservationActive,
		Comment:    req.Comment,
	}

	if err := s.reservations.Create(ctx, r); err != nil {
		if errors.Is(err, repository.ErrResourceNotBookable) {
			return nil, ErrResourceUnavailable
		}
		return nil, err
	}

	interval := formatInterval(r.StartTime, r.EndTime)
	s.recordHistory(ctx, r.ID, actor.ID, domain.HistoryCreated,
		fmt.Sprintf("Reserva creada para el recurso %s del %s.", res.Name, interval))
	s.notifyUser(ctx, actor.ID, domain.NotifReservationCreated,
		"Reserva creada correctamente",
		fmt.Sprintf("Has reservado el recurso %s del %s.", res.Name, interval))
	s.notifyAdmins(ctx, domain.NotifReservationCreated,
		"Nueva reserva creada",
		fmt.Sprintf("El usuario %s ha reservado el recurso %s del %s.", s.userName(ctx, actor.ID), res.Name, interval))

	return r, nil
}

func (s *Service) Get(ctx context.Context, actor Actor, id int64) (*domain.Reservation, error) {
	r, err := s.getByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && r.UserID != actor.ID {
		return nil, ErrForbidden
	}
	return r, nil
}

func (s *Service) List(ctx context.Context, actor Actor, q ListQuery) ([]domain.Reservation, error) {
	// Non-admins only ever see their own reservations; the admin-only
	// filters are ignored for them.
	if !actor.IsAdmin() {
		return s.reservations.List(ctx, repository.ListFilter{UserID: &actor.ID})
	}

	f := repository.ListFilter{
		UserID:     q.UserID,
		ResourceID: q.ResourceID,
		From:       q.From,
		Until:      q.Until,
	}
	if q.State != "" {
		state, err := domain.ParseReservationState(q.State)
		if err != nil {
			return nil, fmt.Errorf("%w: estado must be one of activa, cancelada, finalizada", ErrValidation)
		}
		f.State = &state
	}

	return s.reservations.List(ctx, f)
}

// UpdateByOwner lets the reservation owner move dates and edit the
// comment. Anything else is off limits; the handler rejects unknown
// fields before the request reaches here.
func (s *Service) UpdateByOwner(ctx context.Context, actor Actor, id int64, req OwnerUpdateRequest) (*domain.Reservation, error) {
	r, err := s.getByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && r.UserID != actor.ID {
		return nil, ErrForbidden
	}
	if r.State != domain.ReservationActive {
		return nil, ErrInvalidState
	}

	if req.Comment != nil {
		if err := validateComment(*req.Comment); err != nil {
			return nil, err
		}
	}
	if err := validateInterval(req.Start.Time, req.End.Time, true); err != nil {
		return nil, err
	}

	res, err := s.bookableResource(ctx, r.ResourceID)
	if err != nil {
		return nil, err
	}

	r.StartTime = req.Start.Time
	r.EndTime = req.End.Time
	if req.Comment != nil {
		r.Comment = *req.Comment
	}

	if err := s.applyUpdate(ctx, r, true); err != nil {
		return nil, err
	}

	s.recordHistory(ctx, r.ID, actor.ID, domain.HistoryUpdatedByUser,
		fmt.Sprintf("Reserva actualizada por el usuario. Nuevas fechas: %s.", formatInterval(r.StartTime, r.EndTime)))
	s.notifyAdmins(ctx, domain.NotifReservationUpdated,
		"Reserva modificada por el usuario",
		fmt.Sprintf("El usuario %s ha cambiado la reserva del recurso %s.", s.userName(ctx, actor.ID), res.Name))

	return r, nil
}

// UpdateByAdmin applies a partial update to any reservation that is
// still active. The owning user is immutable forever; terminal
// reservations reject every edit, including attempts to reactivate
// them. Setting estado=finalizada by hand is not a thing either: only
// the finalizer performs that transition.
func (s *Service) UpdateByAdmin(ctx context.Context, actor Actor, id int64, req AdminUpdateRequest) (*domain.Reservation, error) {
	r, err := s.getByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r.State.Terminal() {
		return nil, ErrInvalidState
	}

	state := r.State
	if req.State != nil {
		parsed, err := domain.ParseReservationState(*req.State)
		if err != nil || parsed == domain.ReservationFinalized {
			return nil, fmt.Errorf("%w: estado must be one of activa, cancelada", ErrValidation)
		}
		state = parsed
	}
	if req.Comment != nil {
		if err := validateComment(*req.Comment); err != nil {
			return nil, err
		}
	}

	resourceID := r.ResourceID
	if req.ResourceID != nil {
		resourceID = *req.ResourceID
	}
	start, end := r.StartTime, r.EndTime
	if req.Start != nil {
		start = req.Start.Time
	}
	if req.End != nil {
		end = req.End.Time
	}
	// Admins may backdate fecha_inicio; only the ordering is enforced.
	if err := validateInterval(start, end, false); err != nil {
		return nil, err
	}

	if state == domain.ReservationActive {
		if _, err := s.bookableResource(ctx, resourceID); err != nil {
			return nil, err
		}
	}

	r.ResourceID = resourceID
	r.StartTime = start
	r.EndTime = end
	r.State = state
	if req.Comment != nil {
		r.Comment = *req.Comment
	}

	if err := s.applyUpdate(ctx, r, state == domain.ReservationActive); err != nil {
		return nil, err
	}

	s.recordHistory(ctx, r.ID, actor.ID, domain.HistoryUpdatedByAdmin,
		fmt.Sprintf("Reserva actualizada por admin. Estado: %s, fechas: %s.", r.State, formatInterval(r.StartTime, r.EndTime)))
	if r.UserID != actor.ID {
		s.notifyUser(ctx, r.UserID, domain.NotifReservationUpdated,
			"Tu reserva ha sido modificada por un administrador",
			fmt.Sprintf("Tu reserva del recurso %s ha sido modificada por un administrador.", s.resourceName(ctx, r.ResourceID)))
	}

	return r, nil
}

func (s *Service) Cancel(ctx context.Context, actor Actor, id int64) (*domain.Reservation, error) {
	r, err := s.getByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && r.UserID != actor.ID {
		return nil, ErrForbidden
	}
	if r.State.Terminal() {
		return nil, ErrInvalidState
	}

	ok, err := s.reservations.UpdateState(ctx, r.ID, domain.ReservationActive, domain.ReservationCancelled)
	if err != nil {
		return nil, err
	}
	if !ok {
		// Lost the race against another cancel or the finalizer.
		return nil, ErrInvalidState
	}
	r.State = domain.ReservationCancelled

	resName := s.resourceName(ctx, r.ResourceID)
	if actor.ID != r.UserID {
		// Admin cancelling on behalf of the owner.
		s.recordHistory(ctx, r.ID, actor.ID, domain.HistoryCancelledAdmin,
			fmt.Sprintf("Reserva cancelada por el administrador %s.", s.userName(ctx, actor.ID)))
		s.notifyUser(ctx, r.UserID, domain.NotifReservationCancelled,
			"Tu reserva ha sido cancelada por un administrador",
			fmt.Sprintf("Tu reserva del recurso %s ha sido cancelada por un administrador.", resName))
	} else {
		s.recordHistory(ctx, r.ID, actor.ID, domain.HistoryCancelledUser,
			fmt.Sprintf("Reserva cancelada por el usuario %s.", s.userName(ctx, actor.ID)))
		s.notifyAdmins(ctx, domain.NotifReservationCancelled,
			"Reserva cancelada por el usuario",
			fmt.Sprintf("El usuario %s ha cancelado su reserva del recurso %s.", s.userName(ctx, actor.ID), resName))
	}

	return r, nil
}

func (s *Service) getByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	r, err := s.reservations.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return r, nil
}

func (s *Service) applyUpdate(ctx context.Context, r *domain.Reservation, checkConflicts bool) error {
	err := s.reservations.Update(ctx, r, checkConflicts)
	if err == nil {
		return nil
	}
	if errors.Is(err, repository.ErrResourceNotBookable) {
		return ErrResourceUnavailable
	}
	if errors.Is(err, repository.ErrReservationNotActive) {
		// Lost the race against a concurrent cancel or the finalizer;
		// the row is terminal now and the stale snapshot must not win.
		return ErrInvalidState
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func (s *Service) bookableResource(ctx context.Context, id int64) (*domain.Resource, error) {
	res, err := s.resources.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrResourceUnavailable
		}
		return nil, err
	}
	if !res.Bookable() {
		return nil, ErrResourceUnavailable
	}
	return res, nil
}

func (s *Service) recordHistory(ctx context.Context, reservationID, actorID int64, action domain.HistoryAction, detail string) {
	e := &domain.HistoryEntry{
		ReservationID: reservationID,
		UserID:        actorID,
		Action:        action,
		Detail:        detail,
	}
	if err := s.history.Append(ctx, e); err != nil {
		log.Printf("history append failed reserva=%d accion=%s: %v", reservationID, action, err)
	}
}

func (s *Service) notifyUser(ctx context.Context, userID int64, t domain.NotificationType, title, message string) {
	if s.notifs == nil {
		return
	}
	if err := s.notifs.Send(ctx, userID, t, title, message); err != nil {
		log.Printf("notification send failed user=%d tipo=%s: %v", userID, t, err)
	}
}

func (s *Service) notifyAdmins(ctx context.Context, t domain.NotificationType, title, message string) {
	ids, err := s.users.GetAdminIDs(ctx)
	if err != nil {
		log.Printf("admin lookup failed: %v", err)
		return
	}
	for _, id := range ids {
		s.notifyUser(ctx, id, t, title, message)
	}
}

func (s *Service) userName(ctx context.Context, id int64) string {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return fmt.Sprintf("usuario %d", id)
	}
	return u.Name
}

func (s *Service) resourceName(ctx context.Context, id int64) string {
	res, err := s.resources.GetByID(ctx, id)
	if err != nil {
		return fmt.Sprintf("recurso %d", id)
	}
	return res.Name
}

func validateInterval(start, end time.Time, requireFuture bool) error {
	if !end.After(start) {
		return fmt.Errorf("%w: fecha_fin must be after fecha_inicio", ErrValidation)
	}
	if requireFuture && !start.After(time.Now()) {
		return fmt.Errorf("%w: fecha_inicio must be in the future", ErrValidation)
	}
	return nil
}

func validateComment(comment string) error {
	if len(comment) > maxCommentLen {
		return fmt.Errorf("%w: comentarios must not exceed %d characters", ErrValidation, maxCommentLen)
	}
	return nil
}

func formatInterval(start, end time.Time) string {
	return fmt.Sprintf("%s al %s", start.Format(apitime.Layout), end.Format(apitime.Layout))
}
