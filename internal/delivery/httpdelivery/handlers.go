package httpdelivery

import (
	"context"
	"net/http"

	"github.com/AnderssonLeandro09/baloncesto-backend/internal/domain/shared"
)

// resource binds the standard routes of one entity.
type resource struct {
	name       string
	service    crudService
	deactivate func(ctx context.Context, id int64) *shared.Result
	reactivate func(ctx context.Context, id int64) *shared.Result
}

func (res resource) create(w http.ResponseWriter, r *http.Request) {
	body, ok := decodeBody(w, r)
	if !ok {
		return
	}
	writeResult(w, r, res.name+".create", res.service.Create(r.Context(), body), true)
}

func (res resource) get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	writeResult(w, r, res.name+".get", res.service.Get(r.Context(), id), false)
}

func (res resource) list(w http.ResponseWriter, r *http.Request) {
	active, ok := activeOnly(w, r)
	if !ok {
		return
	}
	writeResult(w, r, res.name+".list", res.service.List(r.Context(), active), false)
}

func (res resource) update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	body, ok := decodeBody(w, r)
	if !ok {
		return
	}
	writeResult(w, r, res.name+".update", res.service.Update(r.Context(), id, body), false)
}

func (res resource) setActive(active bool) http.HandlerFunc {
	op, fn := res.name+".deactivate", res.deactivate
	if active {
		op, fn = res.name+".reactivate", res.reactivate
	}
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r, "id")
		if !ok {
			return
		}
		writeResult(w, r, op, fn(r.Context(), id), false)
	}
}

// byID adapts a lookup keyed by the {id} path value.
func byID(operation string, fn func(ctx context.Context, id int64) *shared.Result) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r, "id")
		if !ok {
			return
		}
		writeResult(w, r, operation, fn(r.Context(), id), false)
	}
}
