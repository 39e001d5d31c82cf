package tui

import (
	"errors"
	"sort"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/Lelo88/request-admin/internal/dialog"
	"github.com/Lelo88/request-admin/internal/model"
)

const fieldWidth = 40

// requestForm es la vista del diálogo: tres campos ligados al controller,
// una línea de progreso y los botones Cancelar/Salvar.
// Escape no cierra el diálogo; sólo Cancelar lo descarta.
type requestForm struct {
	layout   *tview.Flex
	form     *tview.Form
	progress *tview.TextView
	hints    *tview.TextView

	name   *tview.InputField
	kind   *tview.InputField
	amount *tview.InputField
	save   *tview.Button
}

func newRequestForm(controller *dialog.Controller, submit func()) *requestForm {
	view := &requestForm{
		form:     tview.NewForm(),
		progress: tview.NewTextView(),
		hints:    tview.NewTextView(),
	}

	// Los setters fallan mientras el diálogo no es editable; el error se ignora
	// porque el texto vuelve a sincronizarse al abrir.
	view.name = tview.NewInputField().
		SetLabel("Nome").
		SetFieldWidth(fieldWidth).
		SetChangedFunc(func(text string) { _ = controller.SetName(text) })
	view.kind = tview.NewInputField().
		SetLabel("Tipo").
		SetFieldWidth(fieldWidth).
		SetChangedFunc(func(text string) { _ = controller.SetType(text) })
	view.amount = tview.NewInputField().
		SetLabel("Quantidade").
		SetFieldWidth(10).
		SetAcceptanceFunc(tview.InputFieldInteger).
		SetChangedFunc(func(text string) { _ = controller.SetAmount(text) })

	view.form.
		AddFormItem(view.name).
		AddFormItem(view.kind).
		AddFormItem(view.amount).
		AddButton("Cancelar", controller.Cancel).
		AddButton("Salvar", submit)
	view.save = view.form.GetButton(view.form.GetButtonIndex("Salvar"))

	view.hints.SetTextColor(tcell.ColorRed)

	view.layout = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(view.progress, 1, 0, false).
		AddItem(view.form, 0, 1, true).
		AddItem(view.hints, 2, 0, false)
	view.layout.SetBorder(true)

	return view
}

// load copia el borrador a los campos.
func (view *requestForm) load(snapshot dialog.Snapshot) {
	view.name.SetText(snapshot.Draft.Name)
	view.kind.SetText(snapshot.Draft.Type)
	view.amount.SetText(snapshot.AmountText)
	view.layout.SetTitle(" " + snapshot.Title + " ")
	view.hints.SetText("")
	view.render(snapshot)
}

// render refleja el estado de carga: campos y Salvar deshabilitados, barra de
// progreso, y el último error de guardado cuando lo hay.
func (view *requestForm) render(snapshot dialog.Snapshot) {
	view.name.SetDisabled(snapshot.Loading)
	view.kind.SetDisabled(snapshot.Loading)
	view.amount.SetDisabled(snapshot.Loading)
	view.save.SetDisabled(snapshot.Loading)

	switch {
	case snapshot.Loading:
		view.progress.SetTextColor(tcell.ColorYellow)
		view.progress.SetText("Salvando...")
	case snapshot.LastError != "":
		view.progress.SetTextColor(tcell.ColorRed)
		view.progress.SetText(snapshot.LastError)
	default:
		view.progress.SetText("")
	}
}

func (view *requestForm) showErrors(fields map[string]string) {
	view.hints.SetText(formatFieldErrors(fields))
}

// formatFieldErrors arma "Campo: mensaje" ordenado por campo.
func formatFieldErrors(fields map[string]string) string {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	lines := make([]string, 0, len(names))
	for _, name := range names {
		lines = append(lines, name+": "+fields[name])
	}
	return strings.Join(lines, "  ")
}

// openDialog inicia una activación. La transición de entrada termina cuando
// los campos ya muestran el borrador.
func (a *App) openDialog(existing *model.Request) {
	a.dialog.Open(existing)
	a.form.load(a.dialog.Snapshot())
	a.pages.ShowPage(dialogPage)
	a.form.form.SetFocus(0)
	a.app.SetFocus(a.form.form)
	a.dialog.Entered()
}

// closeDialog libera el borrador y vuelve a la tabla.
func (a *App) closeDialog() {
	a.dialog.Close()
	a.pages.HidePage(dialogPage)
	a.app.SetFocus(a.table)
}

// submitDialog corre en el loop de UI. La validación local es silenciosa:
// sólo marca los campos. El guardado corre en otra goroutine.
func (a *App) submitDialog() {
	snapshot := a.dialog.Snapshot()
	if snapshot.Loading || snapshot.State != dialog.StateEditing {
		return
	}
	if len(snapshot.Errors) > 0 {
		a.form.showErrors(snapshot.Errors)
		return
	}

	a.form.showErrors(nil)
	loading := snapshot
	loading.Loading = true
	a.form.render(loading)

	go func() {
		err := a.dialog.Submit(a.ctx)

		var validationErr *dialog.ValidationError
		a.queue(func() {
			if errors.As(err, &validationErr) {
				a.form.showErrors(validationErr.Fields)
			}
			if errors.Is(err, dialog.ErrStale) {
				return
			}
			if current := a.dialog.Snapshot(); current.State != dialog.StateClosed {
				a.form.render(current)
			}
		})
	}()
}

// onDialogComplete llega desde la goroutine del guardado.
func (a *App) onDialogComplete(saved model.Request) {
	a.queue(func() {
		a.closeDialog()
		a.reload()
	})
}
