package platform

import (
	"context"
	"fmt"

	"github.com/aretw0/serlyo/pkg/planner"
	"github.com/aretw0/serlyo/pkg/typed"
)

// New opens the store at uri and returns a loaded planner over it.
//
//	p, err := platform.New(ctx, "./calendar", platform.WithAdapter("sqlite"))
func New(ctx context.Context, uri string, opts ...Option) (*planner.Planner, error) {
	o := buildOptions(opts)

	serializer, err := typed.SerializerFor(o.format)
	if err != nil {
		return nil, err
	}
	if _, ok := serializer.(*typed.JSONSerializer); ok && o.strict {
		serializer = typed.NewJSONSerializer(true)
	}

	store, err := openStore(ctx, uri, o)
	if err != nil {
		return nil, err
	}

	plannerOpts := append([]planner.Option{
		planner.WithLogger(o.logger),
		planner.WithSerializer(serializer),
	}, o.planner...)

	p := planner.New(store, plannerOpts...)
	if err := p.Load(ctx); err != nil {
		_ = p.Close()
		return nil, fmt.Errorf("failed to load planner: %w", err)
	}
	return p, nil
}
