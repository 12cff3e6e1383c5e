package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errOutOfStock = stderrors.New("quantity exceeds available stock")

func serve(t *testing.T, responder interface {
	RespondError(*gin.Context, error)
}, err error) (*httptest.ResponseRecorder, ProblemDetail) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/api/cart", func(c *gin.Context) { responder.RespondError(c, err) })

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/cart", nil))
	var problem ProblemDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	return rec, problem
}

func TestChainedResponder_MapsSentinels(t *testing.T) {
	responder := NewChainedResponder("", MapSentinels(ErrConflict, errOutOfStock))

	rec, problem := serve(t, responder, fmt.Errorf("add line: %w", errOutOfStock))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, ContentTypeProblemJSON, rec.Header().Get("Content-Type"))
	assert.Equal(t, TypeConflict, problem.Type)
	assert.Equal(t, "/api/cart", problem.Instance)
	assert.Contains(t, problem.Detail, "exceeds available stock")
}

func TestResponder_UnknownErrorsDoNotLeak(t *testing.T) {
	rec, problem := serve(t, NewChainedResponder("https://aquastore.test"), stderrors.New("dial tcp 10.0.0.4:5432"))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "https://aquastore.test"+TypeInternal, problem.Type)
	assert.NotContains(t, problem.Detail, "10.0.0.4")
}

func TestResponder_ValidatorFieldErrors(t *testing.T) {
	type shipping struct {
		FullName string `validate:"required,min=3"`
		Email    string `validate:"email"`
	}
	err := validator.New().Struct(shipping{FullName: "Al", Email: "nope"})
	require.Error(t, err)

	rec, problem := serve(t, DefaultResponder, err)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "must be at least 3", problem.Fields["fullName"])
	assert.Equal(t, "must be a valid email address", problem.Fields["email"])
	assert.Equal(t, http.StatusBadRequest, HTTPStatusFromError(err))
}

func TestWithExtension_DoesNotShareMaps(t *testing.T) {
	base := ErrNotFound.WithExtension("resourceType", "product")
	a := base.WithExtension("identifier", "p-1")
	b := base.WithExtension("identifier", "p-2")
	assert.Equal(t, "p-1", a.Extensions["identifier"])
	assert.Equal(t, "p-2", b.Extensions["identifier"])
	assert.NotContains(t, base.Extensions, "identifier")
}
