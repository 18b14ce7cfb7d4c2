package llm

import "context"

// Titler names finished demo videos. Separate from the script agent so a
// cheap text model can do it.
type Titler interface {
	GenerateTitle(ctx context.Context, script string) (string, error)
}
