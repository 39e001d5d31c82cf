package dialog

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrBusy: hay un guardado en curso; campos y submit quedan bloqueados.
	ErrBusy = errors.New("dialog: save in progress")
	// ErrNotEditing: el diálogo no está abierto o todavía no terminó de entrar.
	ErrNotEditing = errors.New("dialog: not editing")
	// ErrNotNumeric: la cantidad ingresada no es un entero.
	ErrNotNumeric = errors.New("dialog: amount is not numeric")
	// ErrStale: el resultado llegó después de cerrar el diálogo y se descartó.
	ErrStale = errors.New("dialog: result for a closed dialog")
)

// ValidationError indica que el borrador no pasó la validación local.
// Fields mapea la etiqueta del campo a su mensaje.
type ValidationError struct {
	Fields map[string]string
}

func (err *ValidationError) Error() string {
	names := make([]string, 0, len(err.Fields))
	for name := range err.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return "dialog: invalid fields: " + strings.Join(names, ", ")
}
