package storefrontserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// StorageStatus reports which persistence backend the process ended up with.
type StorageStatus struct {
	Backend  string
	Degraded bool
	Reason   string
}

type HealthResponse struct {
	Status   string `json:"status"`
	Backend  string `json:"backend"`
	Degraded bool   `json:"degraded"`
	Reason   string `json:"reason,omitempty"`
}

type HealthAPI struct {
	storage StorageStatus
}

func NewHealthAPI(storage StorageStatus) HealthAPI {
	return HealthAPI{storage: storage}
}

// Get /healthz
// A fallback to the memory backend answers 200 with degraded set.
func (api *HealthAPI) Healthz(c *gin.Context) {
	status := "ok"
	if api.storage.Degraded {
		status = "degraded"
	}
	c.JSON(http.StatusOK, HealthResponse{
		Status:   status,
		Backend:  api.storage.Backend,
		Degraded: api.storage.Degraded,
		Reason:   api.storage.Reason,
	})
}
