// Package tui es el host de terminal del panel de pedidos: lista, abre el
// diálogo de alta/edición, elimina y muestra los toasts.
package tui

import (
	"context"
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"go.uber.org/zap"

	"github.com/Lelo88/request-admin/internal/dialog"
	"github.com/Lelo88/request-admin/internal/model"
)

const (
	mainPage   = "main"
	dialogPage = "dialog"
	deletePage = "delete"

	keysHelp = "[n] novo  [e/enter] editar  [d] excluir  [r] recarregar  [[/]] página  [q] sair"
)

// RequestService es lo que la interfaz necesita del recurso request.
type RequestService interface {
	List(ctx context.Context, params model.PaginationParams) (model.PaginationResponse, error)
	Save(ctx context.Context, request model.Request) (model.Request, error)
	Delete(ctx context.Context, id int64) error
}

// App es la aplicación tview.
type App struct {
	ctx      context.Context
	service  RequestService
	log      *zap.Logger
	pageSize int

	app     *tview.Application
	enqueue func(func())
	pages   *tview.Pages
	table  *tview.Table
	status *tview.TextView
	notify *toast

	form     *requestForm
	dialog   *dialog.Controller
	page     int
	items    []model.Request
	lastPage model.Pagination
}

// New arma la interfaz. No dibuja nada hasta Run.
func New(ctx context.Context, service RequestService, pageSize int, log *zap.Logger) *App {
	if log == nil {
		log = zap.NewNop()
	}

	a := &App{
		ctx:      ctx,
		service:  service,
		log:      log,
		pageSize: pageSize,
		page:     1,
		app:      tview.NewApplication(),
		pages:    tview.NewPages(),
		table:    tview.NewTable(),
		status:   tview.NewTextView(),
	}
	a.enqueue = func(fn func()) { a.app.QueueUpdateDraw(fn) }
	a.notify = &toast{queue: a.queue, status: a.status, log: log}
	a.dialog = dialog.New(service, a.notify,
		dialog.WithLogger(log.Named("dialog")),
		dialog.OnComplete(a.onDialogComplete),
		dialog.OnCancel(a.closeDialog),
	)

	a.setupLayout()
	return a
}

// Run carga la primera página y bloquea hasta que el usuario sale o ctx termina.
func (a *App) Run() error {
	go func() {
		<-a.ctx.Done()
		a.app.Stop()
	}()

	a.reload()
	return a.app.SetRoot(a.pages, true).EnableMouse(true).Run()
}

// queue ejecuta fn en el loop de UI.
func (a *App) queue(fn func()) {
	a.enqueue(fn)
}

func (a *App) setupLayout() {
	a.table.SetBorders(false).
		SetSelectable(true, false).
		SetFixed(1, 0)
	a.table.SetBorder(true).SetTitle(" Pedidos ")
	a.table.SetSelectedFunc(func(row, column int) {
		a.openSelected()
	})
	a.table.SetInputCapture(a.handleTableKey)

	a.status.SetBorder(true).SetTitle(" Status ")

	keys := tview.NewTextView().SetText(keysHelp)

	root := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(a.table, 0, 1, true).
		AddItem(keys, 1, 0, false).
		AddItem(a.status, 3, 0, false)

	a.form = newRequestForm(a.dialog, a.submitDialog)

	a.pages.AddPage(mainPage, root, true, true)
	a.pages.AddPage(dialogPage, center(a.form.layout, 60, 13), true, false)
}

func (a *App) handleTableKey(event *tcell.EventKey) *tcell.EventKey {
	if event.Key() != tcell.KeyRune {
		return event
	}

	switch event.Rune() {
	case 'n':
		a.openDialog(nil)
	case 'e':
		a.openSelected()
	case 'd':
		a.confirmDelete()
	case 'r':
		a.reload()
	case ']':
		if a.page < pageCount(a.lastPage.Total, a.lastPage.Limit) {
			a.page++
			a.reload()
		}
	case '[':
		if a.page > 1 {
			a.page--
			a.reload()
		}
	case 'q':
		a.app.Stop()
	default:
		return event
	}
	return nil
}

func (a *App) selected() *model.Request {
	row, _ := a.table.GetSelection()
	if row < 1 || row > len(a.items) {
		return nil
	}
	request := a.items[row-1].Clone()
	return &request
}

func (a *App) openSelected() {
	if request := a.selected(); request != nil {
		a.openDialog(request)
	}
}

// reload pide la página actual fuera del loop de UI.
func (a *App) reload() {
	params := model.PaginationParams{Page: a.page, Limit: a.pageSize}
	go func() {
		page, err := a.service.List(a.ctx, params)
		if err != nil {
			a.log.Error("list requests failed", zap.Error(err))
			a.notify.Error(err.Error())
			return
		}
		a.queue(func() {
			a.items = page.Items
			a.lastPage = page.Pagination
			fillTable(a.table, page.Items)
			a.table.SetTitle(pageTitle(page.Pagination))
		})
	}()
}

func (a *App) confirmDelete() {
	request := a.selected()
	if request == nil || request.ID == nil {
		return
	}

	modal := tview.NewModal().
		SetText(fmt.Sprintf("Excluir o pedido %s?", request.Name)).
		AddButtons([]string{"Cancelar", "Excluir"}).
		SetDoneFunc(func(buttonIndex int, buttonLabel string) {
			a.pages.RemovePage(deletePage)
			a.app.SetFocus(a.table)
			if buttonLabel != "Excluir" {
				return
			}
			go a.delete(*request)
		})

	a.pages.AddPage(deletePage, modal, true, true)
	a.app.SetFocus(modal)
}

func (a *App) delete(request model.Request) {
	if err := a.service.Delete(a.ctx, *request.ID); err != nil {
		a.log.Error("delete request failed", zap.Int64("id", *request.ID), zap.Error(err))
		a.notify.Error(err.Error())
		return
	}
	a.notify.Show(fmt.Sprintf("%s foi excluído", request.Name))
	a.queue(a.reload)
}

// center ubica p en el medio de la pantalla con el tamaño dado.
func center(p tview.Primitive, width, height int) tview.Primitive {
	return tview.NewFlex().
		AddItem(nil, 0, 1, false).
		AddItem(tview.NewFlex().SetDirection(tview.FlexRow).
			AddItem(nil, 0, 1, false).
			AddItem(p, height, 1, true).
			AddItem(nil, 0, 1, false), width, 1, true).
		AddItem(nil, 0, 1, false)
}
