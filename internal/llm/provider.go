// Package llm is the boundary to the hosted language model.
package llm

import (
	"context"

	"github.com/liliang-cn/askpdf/internal/domain"
)

// Generator produces a completion for a single prompt and reports the tokens the call consumed.
type Generator interface {
	Generate(ctx context.Context, prompt string) (domain.Completion, error)
}
