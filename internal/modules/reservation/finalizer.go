package reservation

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/Alejandro-Trvn/reservas-universidad-api/internal/domain"
	"github.com/Alejandro-Trvn/reservas-universidad-api/internal/pkg/apitime"
)

// Finalizer sweeps reservations whose end time has passed and moves
// them from activa to finalizada. Each record is processed in
// isolation: one failure is logged and skipped, never aborting the
// sweep. The guarded state transition makes overlapping sweeps and
// concurrent cancels safe, whichever transition lands first wins and
// the loser is a silent no-op.
type Finalizer struct {
	reservations ReservationRepository
	resources    ResourceCatalog
	history      HistoryRecorder
	notifs       NotificationSender
	users        UserDirectory
}

func NewFinalizer(
	reservations ReservationRepository,
	resources ResourceCatalog,
	history HistoryRecorder,
	notifs NotificationSender,
	users UserDirectory,
) *Finalizer {
	return &Finalizer{
		reservations: reservations,
		resources:    resources,
		history:      history,
		notifs:       notifs,
		users:        users,
	}
}

// Run performs one sweep and reports how many reservations it
// finalized.
func (f *Finalizer) Run(ctx context.Context) (int, error) {
	expired, err := f.reservations.ListExpired(ctx, time.Now())
	if err != nil {
		return 0, fmt.Errorf("list expired reservations: %w", err)
	}
	if len(expired) == 0 {
		return 0, nil
	}

	// Admin set is resolved fresh on every sweep.
	adminIDs, err := f.users.GetAdminIDs(ctx)
	if err != nil {
		log.Printf("finalizer: admin lookup failed: %v", err)
		adminIDs = nil
	}

	finalized := 0
	for i := range expired {
		done, err := f.finalizeOne(ctx, &expired[i], adminIDs)
		if err != nil {
			log.Printf("finalizer: reserva=%d: %v", expired[i].ID, err)
			continue
		}
		if done {
			finalized++
		}
	}
	return finalized, nil
}

func (f *Finalizer) finalizeOne(ctx context.Context, r *domain.Reservation, adminIDs []int64) (bool, error) {
	ok, err := f.reservations.UpdateState(ctx, r.ID, domain.ReservationActive, domain.ReservationFinalized)
	if err != nil {
		return false, fmt.Errorf("update state: %w", err)
	}
	if !ok {
		// Someone else already moved it out of activa.
		return false, nil
	}
	r.State = domain.ReservationFinalized

	// The audit entry is attributed to an admin when one exists, since
	// the system acts on their behalf.
	actorID := r.UserID
	if len(adminIDs) > 0 {
		actorID = adminIDs[0]
	}
	e := &domain.HistoryEntry{
		ReservationID: r.ID,
		UserID:        actorID,
		Action:        domain.HistoryFinalized,
		Detail:        fmt.Sprintf("Reserva finalizada automaticamente al vencer el %s.", r.EndTime.Format(apitime.Layout)),
	}
	if err := f.history.Append(ctx, e); err != nil {
		log.Printf("finalizer: history append failed reserva=%d: %v", r.ID, err)
	}

	resName := f.resourceName(ctx, r.ResourceID)
	f.send(ctx, r.UserID, "Tu reserva ha finalizado",
		fmt.Sprintf("Tu reserva del recurso %s ha finalizado.", resName))
	for _, id := range adminIDs {
		f.send(ctx, id, "Reserva finalizada",
			fmt.Sprintf("La reserva %d del recurso %s ha finalizado.", r.ID, resName))
	}

	return true, nil
}

func (f *Finalizer) send(ctx context.Context, userID int64, title, message string) {
	if f.notifs == nil {
		return
	}
	if err := f.notifs.Send(ctx, userID, domain.NotifReservationFinalized, title, message); err != nil {
		log.Printf("finalizer: notification send failed user=%d: %v", userID, err)
	}
}

func (f *Finalizer) resourceName(ctx context.Context, id int64) string {
	res, err := f.resources.GetByID(ctx, id)
	if err != nil {
		return fmt.Sprintf("recurso %d", id)
	}
	return res.Name
}
