package capsule

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/memora-app/memora/internal/errors"
	"github.com/memora-app/memora/internal/llm"
	"github.com/memora-app/memora/internal/memory"
	"github.com/memora-app/memora/internal/prompt"
)

// Generator orchestrates capsule generation against an injected model
// client. It is stateless and safe for concurrent use.
type Generator struct {
	client llm.Client
}

// NewGenerator creates a Generator backed by the given client.
func NewGenerator(client llm.Client) *Generator {
	return &Generator{client: client}
}

// Generate produces a full Result for one memory collection. The caller
// must reject an empty collection first; behavior on zero records is
// undefined here.
//
// The five section generations run concurrently and join all-or-nothing:
// the first failure cancels the group context and becomes the returned
// error, and no partial Result is observable. Outstanding calls are
// cancelled best-effort through the context; their results are discarded.
func (g *Generator) Generate(ctx context.Context, records memory.Collection) (*Result, error) {
	shared := prompt.RenderMemories(records)

	sections := make([]Section, len(prompt.Sections))

	eg, ctx := errgroup.WithContext(ctx)
	for i, spec := range prompt.Sections {
		eg.Go(func() error {
			content, err := g.client.Generate(ctx, prompt.SystemInstruction, spec.Build(shared, records))
			if err != nil {
				return err
			}
			sections[i] = Section{
				Type:    spec.Type,
				Title:   spec.Title,
				Icon:    spec.Icon,
				Content: content,
			}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, errors.NewGenerationFailed(err)
	}

	capsules := make(map[prompt.SectionKey]Section, len(prompt.Sections))
	for i, spec := range prompt.Sections {
		capsules[spec.Key] = sections[i]
	}

	return &Result{
		TotalMemories: len(records),
		Capsules:      capsules,
		GeneratedAt:   time.Now().UTC(),
	}, nil
}
