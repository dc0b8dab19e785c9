package v1

import (
	"context"
	"fmt"
	"net/textproto"
	"testing"

	"github.com/uicraft/uicraft/internal/domain"
	"github.com/uicraft/uicraft/internal/generate"
	"github.com/uicraft/uicraft/internal/service"
	"github.com/uicraft/uicraft/internal/store"
	"github.com/uicraft/uicraft/internal/upload"
	"github.com/uicraft/uicraft/tests/helpers"
)

// stubGenerator returns a fixed raw completion, or a fixed error.
type stubGenerator struct {
	raw string
	err error
}

func (g *stubGenerator) Generate(ctx context.Context, prompt string) (domain.Artifact, error) {
	if g.err != nil {
		return domain.Artifact{}, g.err
	}
	return generate.Parse(g.raw), nil
}

func newTestHandler(t *testing.T, gen generate.Generator) (*Handler, store.Store) {
	t.Helper()

	st := helpers.NewTestSQLiteStore(t)
	uploads, err := upload.NewLocalStorage(t.TempDir(), "http://localhost:8080")
	if err != nil {
		t.Fatalf("failed to create upload storage: %v", err)
	}
	return NewHandler(service.New(st, gen), uploads), st
}

// textprotoHeader builds a multipart part header with an explicit
// content type, which FormFile validation depends on.
func textprotoHeader(field, filename, contentType string) textproto.MIMEHeader {
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, filename))
	header.Set("Content-Type", contentType)
	return header
}
