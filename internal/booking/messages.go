package booking

import (
	"errors"

	"github.com/iliyamo/terrace-reservation/internal/calendar"
)

// Message returns the Spanish text shown to residents for err.
func Message(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrIncompleteForm):
		return "Selecciona tu piso y departamento"
	case errors.Is(err, ErrInvalidFloor):
		return "Piso inválido"
	case errors.Is(err, ErrInvalidApartment):
		return "Departamento inválido"
	case errors.Is(err, ErrInvalidDate), errors.Is(err, ErrInvalidSlot), errors.Is(err, calendar.ErrNoSuchDay):
		return "Fecha u horario inválido"
	case errors.Is(err, ErrPastSlot):
		return "No se puede reservar ni cancelar una fecha pasada"
	case errors.Is(err, ErrSlotTaken):
		return "Este horario ya fue reservado"
	case errors.Is(err, ErrNotOwner):
		return calendar.NotOwnerNotice
	case errors.Is(err, ErrNotFound):
		return "La reserva no existe"
	case errors.Is(err, ErrCancelFailed):
		return "Error al cancelar la reserva. Por favor intenta nuevamente."
	}
	return "Error al crear la reserva"
}
