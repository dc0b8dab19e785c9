package generate

import (
	"context"
	"fmt"

	"github.com/uicraft/uicraft/internal/domain"
)

// MockGenerator is a mock implementation of Generator for development and
// testing without a live backend.
type MockGenerator struct{}

// NewMockGenerator creates a new mock generator.
func NewMockGenerator() *MockGenerator {
	return &MockGenerator{}
}

// Ensure MockGenerator implements Generator interface.
var _ Generator = (*MockGenerator)(nil)

// Generate returns a deterministic placeholder component for the prompt.
func (m *MockGenerator) Generate(ctx context.Context, prompt string) (domain.Artifact, error) {
	select {
	case <-ctx.Done():
		return domain.Artifact{}, fmt.Errorf("%w: %v", domain.ErrBackend, ctx.Err())
	default:
	}

	text := fmt.Sprintf(`JSX:
<div className="mock-component">
  <p>%s</p>
</div>

CSS:
.mock-component { display: flex; padding: 16px; }
.mock-component:hover { opacity: 0.9; }`, truncate(prompt, 100))

	return Parse(text), nil
}
