package tui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"go.uber.org/zap"
)

// toast muestra notificaciones en la línea de estado.
// Show y Error pueden llamarse desde cualquier goroutine.
type toast struct {
	queue  func(func())
	status *tview.TextView
	log    *zap.Logger
}

func (notifier *toast) Show(message string) {
	notifier.log.Info("toast", zap.String("message", message))
	notifier.queue(func() {
		notifier.status.SetTextColor(tcell.ColorGreen)
		notifier.status.SetText(message)
	})
}

func (notifier *toast) Error(message string) {
	notifier.log.Warn("toast error", zap.String("message", message))
	notifier.queue(func() {
		notifier.status.SetTextColor(tcell.ColorRed)
		notifier.status.SetText(message)
	})
}
