// Package chain runs ordered fallback strategies until one of them produces a result.
package chain

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/spigell/interview-coach/internal/ai"
)

// Capability tags a strategy with the kind of source it draws from.
type Capability string

const (
	RemoteGenerate   Capability = "remote-generate"
	StaticTable      Capability = "static-table"
	HardCodedDefault Capability = "hard-coded-default"
	LocalHeuristic   Capability = "local-heuristic"
)

var (
	// ErrNotApplicable is returned by a strategy that declines the request.
	ErrNotApplicable = errors.New("strategy not applicable")
	// ErrExhausted is returned when no strategy produced a result.
	ErrExhausted = errors.New("all strategies exhausted")
)

// Strategy is a single step of a fallback chain.
type Strategy[Req, Res any] interface {
	Capability() Capability
	Attempt(ctx context.Context, req Req) (Res, error)
}

// Func adapts a function to the Strategy interface.
type Func[Req, Res any] struct {
	Cap Capability
	Fn  func(ctx context.Context, req Req) (Res, error)
}

func (f Func[Req, Res]) Capability() Capability { return f.Cap }

func (f Func[Req, Res]) Attempt(ctx context.Context, req Req) (Res, error) {
	return f.Fn(ctx, req)
}

// Run attempts the steps in order and returns the first result together with
// the capability that produced it. Steps returning ErrNotApplicable are
// skipped, recoverable failures (see ai.IsRecoverable) fall through to the
// next step. Any other error stops the chain and is returned.
func Run[Req, Res any](ctx context.Context, logger *zap.Logger, steps []Strategy[Req, Res], req Req) (Res, Capability, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var zero Res
	for _, step := range steps {
		capability := step.Capability()

		res, err := step.Attempt(ctx, req)
		switch {
		case err == nil:
			logger.Debug("strategy succeeded", zap.String("capability", string(capability)))
			return res, capability, nil
		case errors.Is(err, ErrNotApplicable):
			logger.Debug("strategy skipped", zap.String("capability", string(capability)))
		case ai.IsRecoverable(err):
			logger.Warn("strategy failed, falling back",
				zap.String("capability", string(capability)),
				zap.Error(err),
			)
		default:
			return zero, capability, fmt.Errorf("%s: %w", capability, err)
		}
	}

	return zero, "", ErrExhausted
}

// Capabilities lists the capabilities of the steps in order.
func Capabilities[Req, Res any](steps []Strategy[Req, Res]) []Capability {
	caps := make([]Capability, 0, len(steps))
	for _, step := range steps {
		caps = append(caps, step.Capability())
	}
	return caps
}
