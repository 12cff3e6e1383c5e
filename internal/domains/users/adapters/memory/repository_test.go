package memory

import (
	"testing"

	"github.com/crafty-aquatics/storefront/internal/domains/users/adapters/repositorytest"
	"github.com/crafty-aquatics/storefront/internal/domains/users/ports"
)

func TestRepository_Contract(t *testing.T) {
	repositorytest.Run(t, func(*testing.T) ports.Repository { return NewRepository() })
}

func TestSessionStore_Contract(t *testing.T) {
	repositorytest.RunSessions(t, func(*testing.T) ports.SessionStore { return NewSessionStore() })
}
