// Package notify contiene despachadores de notificaciones salientes.
package notify

import (
	"context"

	"github.com/tu-usuario/suite-pro/internal/application/usecase"
	"github.com/tu-usuario/suite-pro/pkg/logger"
)

var _ usecase.Notifier = (*LogNotifier)(nil)

// LogNotifier despachador que solo loguea. Reemplazable por un adaptador SMTP o
// de proveedor transaccional sin tocar los casos de uso.
type LogNotifier struct {
	log *logger.Logger
}

// NewLogNotifier construye el despachador.
func NewLogNotifier(log *logger.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

// Send registra la notificación. Nunca falla ni bloquea.
func (n *LogNotifier) Send(ctx context.Context, to, subject, body string) {
	n.log.Info().Str("to", to).Str("subject", subject).Msg("notificación despachada")
}
