package memory

import (
	"testing"

	"github.com/crafty-aquatics/storefront/internal/domains/catalog/adapters/repositorytest"
	"github.com/crafty-aquatics/storefront/internal/domains/catalog/ports"
)

func TestRepository_Contract(t *testing.T) {
	repositorytest.Run(t, func(*testing.T) ports.Repository { return NewRepository() })
}
