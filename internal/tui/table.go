package tui

import (
	"strconv"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/Lelo88/request-admin/internal/model"
)

var tableHeaders = []string{"ID", "Nome", "Tipo", "Quantidade"}

// rowCells devuelve el texto de cada columna para un pedido.
func rowCells(request model.Request) []string {
	id := ""
	if request.ID != nil {
		id = strconv.FormatInt(*request.ID, 10)
	}
	kind := request.Type
	if kind == "" {
		kind = "-"
	}
	return []string{id, request.Name, kind, strconv.Itoa(request.Amount)}
}

// pageCount devuelve cuántas páginas hay; al menos una aunque no haya pedidos.
func pageCount(total, limit int) int {
	if limit < 1 || total <= limit {
		return 1
	}
	return (total + limit - 1) / limit
}

// pageTitle arma el título del panel con la posición en la paginación.
func pageTitle(pagination model.Pagination) string {
	pages := pageCount(pagination.Total, pagination.Limit)
	return " Pedidos (" + strconv.Itoa(pagination.Total) + ") - página " +
		strconv.Itoa(pagination.Page) + "/" + strconv.Itoa(pages) + " "
}

// fillTable reemplaza el contenido de la tabla. La fila 0 es el encabezado.
func fillTable(table *tview.Table, items []model.Request) {
	table.Clear()
	for column, header := range tableHeaders {
		table.SetCell(0, column, tview.NewTableCell(header).
			SetTextColor(tcell.ColorYellow).
			SetSelectable(false).
			SetExpansion(1))
	}
	for row, request := range items {
		for column, text := range rowCells(request) {
			table.SetCell(row+1, column, tview.NewTableCell(text).SetExpansion(1))
		}
	}
	if len(items) > 0 {
		table.Select(1, 0)
	}
}
