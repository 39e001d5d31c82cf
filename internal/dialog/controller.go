// Package dialog coordina el diálogo de alta/edición de pedidos:
// abrir, poblar el borrador, validar, guardar, informar el resultado y cerrar.
//
// El borrador pertenece a una activación. Open lo adquiere y Close lo libera
// siempre; un guardado que termina después del Close se descarta sin efectos.
package dialog

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/Lelo88/request-admin/internal/model"
)

const (
	titleNew  = "Novo Pedido"
	titleEdit = "Editar Pedido"

	savedMessage    = "%s foi salvo"
	passwordMessage = ", um email foi enviado com a senha"
)

// Saver persiste el pedido y devuelve el registro canónico.
// *requestapi.Service lo implementa.
type Saver interface {
	Save(ctx context.Context, request model.Request) (model.Request, error)
}

// Notifier es la superficie de toasts del host.
type Notifier interface {
	Show(message string)
	Error(message string)
}

// Option configura el Controller.
type Option func(*Controller)

// WithLogger define el canal de diagnóstico para fallas de guardado.
func WithLogger(log *zap.Logger) Option {
	return func(controller *Controller) {
		controller.log = log
	}
}

// OnComplete se invoca una vez por guardado exitoso con el registro canónico.
func OnComplete(fn func(model.Request)) Option {
	return func(controller *Controller) {
		controller.onComplete = fn
	}
}

// OnCancel se invoca cuando el usuario descarta el diálogo sin guardar.
func OnCancel(fn func()) Option {
	return func(controller *Controller) {
		controller.onCancel = fn
	}
}

// Snapshot es una vista de sólo lectura para renderizar el diálogo.
type Snapshot struct {
	State      State
	Title      string
	Draft      model.Request
	AmountText string
	Loading    bool
	Errors     map[string]string
	LastError  string
}

// Controller maneja el ciclo de vida del diálogo y el envío del borrador.
// Es seguro usarlo desde varias goroutines: el guardado corre fuera del lock.
type Controller struct {
	saver      Saver
	notifier   Notifier
	log        *zap.Logger
	onComplete func(model.Request)
	onCancel   func()

	mu         sync.Mutex
	state      State
	activation uint64
	draft      *model.Request
	amountText string
	lastError  string
}

// New crea el controller con sus colaboradores inyectados.
func New(saver Saver, notifier Notifier, opts ...Option) *Controller {
	controller := &Controller{
		saver:      saver,
		notifier:   notifier,
		log:        zap.NewNop(),
		onComplete: func(model.Request) {},
		onCancel:   func() {},
	}
	for _, opt := range opts {
		opt(controller)
	}
	return controller
}

// Open inicia una activación. Con existing el diálogo edita una copia;
// sin él, arranca con un borrador vacío.
func (controller *Controller) Open(existing *model.Request) {
	controller.mu.Lock()
	defer controller.mu.Unlock()

	controller.activation++
	draft := model.Request{}
	if existing != nil {
		draft = existing.Clone()
	}
	controller.draft = &draft
	controller.amountText = ""
	if draft.Amount != 0 {
		controller.amountText = strconv.Itoa(draft.Amount)
	}
	controller.lastError = ""
	controller.state = StateOpening
}

// Entered marca el fin de la transición de entrada: los campos pasan a ser editables.
func (controller *Controller) Entered() {
	controller.mu.Lock()
	defer controller.mu.Unlock()

	if controller.state == StateOpening {
		controller.state = StateEditing
	}
}

// Close termina la activación y libera el borrador, haya o no un guardado en curso.
func (controller *Controller) Close() {
	controller.mu.Lock()
	defer controller.mu.Unlock()

	controller.activation++
	controller.draft = nil
	controller.amountText = ""
	controller.lastError = ""
	controller.state = StateClosed
}

// Cancel avisa al host que el usuario descartó el diálogo. No hay llamada de red.
func (controller *Controller) Cancel() {
	controller.mu.Lock()
	closed := controller.state == StateClosed
	controller.mu.Unlock()

	if !closed {
		controller.onCancel()
	}
}

// SetName actualiza el nombre del borrador.
func (controller *Controller) SetName(value string) error {
	return controller.edit(func(draft *model.Request) error {
		draft.Name = value
		return nil
	})
}

// SetType actualiza el tipo del borrador.
func (controller *Controller) SetType(value string) error {
	return controller.edit(func(draft *model.Request) error {
		draft.Type = value
		return nil
	})
}

// SetAmount interpreta el texto del campo cantidad. Un texto no numérico deja
// la cantidad en cero, que la validación rechaza.
func (controller *Controller) SetAmount(text string) error {
	return controller.edit(func(draft *model.Request) error {
		controller.amountText = text
		trimmed := strings.TrimSpace(text)
		if trimmed == "" {
			draft.Amount = 0
			return nil
		}
		amount, err := strconv.Atoi(trimmed)
		if err != nil {
			draft.Amount = 0
			return ErrNotNumeric
		}
		draft.Amount = amount
		return nil
	})
}

func (controller *Controller) edit(apply func(draft *model.Request) error) error {
	controller.mu.Lock()
	defer controller.mu.Unlock()

	switch controller.state {
	case StateEditing:
		return apply(controller.draft)
	case StateSubmitting:
		return ErrBusy
	default:
		return ErrNotEditing
	}
}

// Validate devuelve los mensajes de validación del borrador actual (vacío si es válido).
func (controller *Controller) Validate() map[string]string {
	controller.mu.Lock()
	defer controller.mu.Unlock()

	return controller.validateLocked()
}

func (controller *Controller) validateLocked() map[string]string {
	if controller.draft == nil {
		return map[string]string{}
	}
	fields := model.FieldErrors(model.Validate(normalized(*controller.draft)))
	if fields == nil {
		fields = map[string]string{}
	}
	return fields
}

// Submit valida el borrador y, si es válido, lo guarda.
//
// Un borrador inválido devuelve *ValidationError sin llamar a la red ni notificar.
// Mientras el guardado está en curso, otro Submit devuelve ErrBusy.
// Si el diálogo se cerró antes de que llegue la respuesta, devuelve ErrStale
// y no notifica ni invoca callbacks.
func (controller *Controller) Submit(ctx context.Context) error {
	controller.mu.Lock()
	switch controller.state {
	case StateEditing:
	case StateSubmitting:
		controller.mu.Unlock()
		return ErrBusy
	default:
		controller.mu.Unlock()
		return ErrNotEditing
	}

	if fields := controller.validateLocked(); len(fields) > 0 {
		controller.mu.Unlock()
		return &ValidationError{Fields: fields}
	}

	controller.state = StateSubmitting
	controller.lastError = ""
	activation := controller.activation
	record := normalized(*controller.draft)
	controller.mu.Unlock()

	saved, err := controller.saver.Save(ctx, record)

	controller.mu.Lock()
	if controller.activation != activation {
		controller.mu.Unlock()
		controller.log.Debug("discarding save result for closed dialog", zap.Error(err))
		return ErrStale
	}

	if err != nil {
		controller.state = StateEditing
		controller.lastError = err.Error()
		controller.mu.Unlock()

		controller.log.Error("request save failed",
			zap.Bool("new", record.IsNew()),
			zap.String("name", record.Name),
			zap.Error(err),
		)
		controller.notifier.Error(err.Error())
		return err
	}

	controller.state = StateSuccess
	controller.mu.Unlock()

	controller.notifier.Show(SavedMessage(saved, record.IsNew()))
	controller.onComplete(saved)
	return nil
}

// normalized aplica la misma limpieza que el servidor antes de validar:
// nombre y tipo sin espacios en los extremos.
func normalized(draft model.Request) model.Request {
	record := draft.Clone()
	record.Name = strings.TrimSpace(record.Name)
	record.Type = strings.TrimSpace(record.Type)
	return record
}

// SavedMessage arma la confirmación; en un alta además avisa del email con la contraseña.
func SavedMessage(saved model.Request, created bool) string {
	message := fmt.Sprintf(savedMessage, saved.Name)
	if created {
		message += passwordMessage
	}
	return message
}

// Snapshot devuelve el estado actual para renderizar.
func (controller *Controller) Snapshot() Snapshot {
	controller.mu.Lock()
	defer controller.mu.Unlock()

	snapshot := Snapshot{
		State:      controller.state,
		AmountText: controller.amountText,
		Loading:    controller.state == StateSubmitting,
		Errors:     controller.validateLocked(),
		LastError:  controller.lastError,
	}
	if controller.draft != nil {
		snapshot.Draft = controller.draft.Clone()
		snapshot.Title = titleNew
		if !snapshot.Draft.IsNew() {
			snapshot.Title = titleEdit
		}
	}
	return snapshot
}
