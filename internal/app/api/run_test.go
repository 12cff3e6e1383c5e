package api

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/client"

	checkoutworkflows "github.com/crafty-aquatics/storefront/internal/domains/checkout/adapters/workflows"
	"github.com/crafty-aquatics/storefront/internal/domains/checkout/ports"
	ordersdomain "github.com/crafty-aquatics/storefront/internal/domains/orders/domain"
)

type noopSteps struct{}

func (noopSteps) Checkout(context.Context, ports.CheckoutInput) (*ordersdomain.Order, error) {
	return &ordersdomain.Order{ID: "o-1"}, nil
}

type fakeTemporal struct {
	client.Client
	closed bool
}

func (f *fakeTemporal) Close() { f.closed = true }

func TestSelectOrchestrator_ProcessLocalStorageStaysInline(t *testing.T) {
	cases := map[string]*Storage{
		"memory by choice":     {Backend: BackendMemory},
		"degraded to memory":   {Backend: BackendMemory, Degraded: true},
		"degraded flag alone":  {Backend: BackendPostgres, Degraded: true},
		"no storage described": nil,
	}
	for name, storage := range cases {
		t.Run(name, func(t *testing.T) {
			connect := func() (client.Client, error) {
				t.Fatal("temporal must not be dialled for process-local storage")
				return nil, nil
			}
			orchestrator, cleanup := selectOrchestrator(storage, noopSteps{}, connect, quietLogger())
			defer cleanup()
			assert.IsType(t, &checkoutworkflows.InlineCheckout{}, orchestrator)
		})
	}
}

func TestSelectOrchestrator_SharedStorageUsesTemporal(t *testing.T) {
	fake := &fakeTemporal{}
	orchestrator, cleanup := selectOrchestrator(&Storage{Backend: BackendPostgres}, noopSteps{},
		func() (client.Client, error) { return fake, nil }, quietLogger())
	assert.IsType(t, &checkoutworkflows.TemporalCheckout{}, orchestrator)
	cleanup()
	assert.True(t, fake.closed)

	orchestrator, cleanup = selectOrchestrator(&Storage{Backend: BackendSQLite}, noopSteps{},
		func() (client.Client, error) { return nil, errors.New("dial tcp: refused") }, quietLogger())
	defer cleanup()
	require.IsType(t, &checkoutworkflows.InlineCheckout{}, orchestrator)
	order, err := orchestrator.Checkout(context.Background(), ports.CheckoutInput{UserID: "u-1"})
	require.NoError(t, err)
	assert.Equal(t, "o-1", order.ID)
}
