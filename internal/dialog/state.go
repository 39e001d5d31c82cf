package dialog

// State es la etapa de una activación del diálogo.
type State int

const (
	StateClosed State = iota
	StateOpening
	StateEditing
	StateSubmitting
	StateSuccess
)

func (state State) String() string {
	switch state {
	case StateClosed:
		return "closed"
	case StateOpening:
		return "opening"
	case StateEditing:
		return "editing"
	case StateSubmitting:
		return "submitting"
	case StateSuccess:
		return "success"
	default:
		return "unknown"
	}
}
