package capabilities

import (
	"context"
)

// Capability is a single data operation a specialist agent may call during
// its analysis loop. Arguments arrive as the decoded JSON object from the
// model's function call; results are maps so they serialize cleanly into the
// tool message fed back to the model.
type Capability interface {
	Name() string
	Description() string
	Execute(ctx context.Context, args map[string]interface{}) (map[string]interface{}, error)
}

// HandlerFunc is the signature capability handlers implement.
type HandlerFunc func(ctx context.Context, args map[string]interface{}) (map[string]interface{}, error)

// Func adapts a plain function into a Capability.
type Func struct {
	name        string
	description string
	handler     HandlerFunc
}

// New creates a function-backed capability.
func New(name, description string, handler HandlerFunc) *Func {
	return &Func{
		name:        name,
		description: description,
		handler:     handler,
	}
}

// Name returns the capability name.
func (f *Func) Name() string {
	return f.name
}

// Description returns the capability description.
func (f *Func) Description() string {
	return f.description
}

// Execute runs the underlying handler.
func (f *Func) Execute(ctx context.Context, args map[string]interface{}) (map[string]interface{}, error) {
	if args == nil {
		args = map[string]interface{}{}
	}
	return f.handler(ctx, args)
}
