package core

import (
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

type namedService struct {
	name string
	tag  string
}

func (s namedService) Name() string { return s.name }

func (s namedService) RegisterRoutes(router chi.Router) {
	router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(s.tag))
	})
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry(namedService{name: "files", tag: "v1"}, namedService{name: "admin"})
	reg.Register(namedService{name: "files", tag: "v2"})

	services := reg.Services()
	assert.Len(t, services, 2)
	assert.Equal(t, "files", services[0].Name())
	assert.Equal(t, "v2", services[0].(namedService).tag)
	assert.Equal(t, "admin", services[1].Name())

	services[0] = nil
	assert.NotNil(t, reg.Services()[0], "Services returns a copy")
}
