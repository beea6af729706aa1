package remote

import (
	"context"
	"testing"

	"github.com/olegiv/olp-go/internal/model"
)

func TestOpenEmptyDSN(t *testing.T) {
	g, err := Open("")
	if err != nil {
		t.Fatalf("Open(\"\") = %v, want nil error", err)
	}
	if g != nil {
		t.Fatal("Open(\"\") should return a nil gateway")
	}
}

func TestNilGatewayIsInert(t *testing.T) {
	var g *Gateway
	ctx := context.Background()

	if doc := g.FetchLatest(ctx); doc != nil {
		t.Error("nil gateway FetchLatest should return nil")
	}
	if err := g.Upsert(ctx, model.Default()); err != nil {
		t.Errorf("nil gateway Upsert = %v, want nil", err)
	}
	if err := g.Close(); err != nil {
		t.Errorf("nil gateway Close = %v, want nil", err)
	}
}
