package arena

import (
	"github.com/google/uuid"

	"github.com/triviarena/triviarena/internal/events"
)

// Notifier delivers server events to individual client connections. The
// gateway implements it; the engine never touches sockets directly.
type Notifier interface {
	Send(connID uuid.UUID, event events.Event)
}
