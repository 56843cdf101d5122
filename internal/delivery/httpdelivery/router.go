package httpdelivery

import (
	"net/http"
	"strings"

	"github.com/AnderssonLeandro09/baloncesto-backend/internal/application/common"
)

// APIPrefix is the root of every business route.
const APIPrefix = "/api/v1"

// Write access per resource. Reads only need a valid token.
var (
	coachWriters       = []string{common.RoleAdmin}
	managementWriters  = []string{common.RoleAdmin, common.RoleCoach}
	fieldworkWriters   = []string{common.RoleAdmin, common.RoleCoach, common.RoleStudent}
	auditReaders       = []string{common.RoleAdmin}
	defaultUploadLimit = int64(10 << 20)
)

// Router exposes the services as JSON routes.
type Router struct {
	services      Services
	verifier      *TokenVerifier
	importLimiter *RateLimiter
	maxUploadSize int64
}

// RouterOption configures a Router.
type RouterOption func(*Router)

// WithImportLimiter applies a dedicated limiter to spreadsheet imports.
func WithImportLimiter(l *RateLimiter) RouterOption {
	return func(rt *Router) { rt.importLimiter = l }
}

// WithMaxUploadSize bounds multipart uploads.
func WithMaxUploadSize(n int64) RouterOption {
	return func(rt *Router) {
		if n > 0 {
			rt.maxUploadSize = n
		}
	}
}

// NewRouter creates a Router.
func NewRouter(services Services, verifier *TokenVerifier, opts ...RouterOption) *Router {
	rt := &Router{services: services, verifier: verifier, maxUploadSize: defaultUploadLimit}
	for _, opt := range opts {
		opt(rt)
	}
	return rt
}

// Register mounts the API routes on mux.
func (rt *Router) Register(mux *http.ServeMux) {
	s := rt.services

	athletes := resource{name: "athletes", service: s.Athletes, deactivate: s.Athletes.Deactivate, reactivate: s.Athletes.Reactivate}
	rt.mountResource(mux, "/athletes", athletes, managementWriters)
	rt.handle(mux, "GET /athletes/search", rt.searchAthletes)
	rt.handle(mux, "GET /athletes/{id}/enrollment", byID("enrollments.by_athlete", s.Enrollments.GetByAthlete))
	rt.handle(mux, "GET /athletes/{id}/measurements", byID("measurements.by_athlete", s.Measurements.ByAthlete))
	rt.handle(mux, "GET /athletes/{id}/measurements/chart", byID("measurements.chart", s.Measurements.ChartData))
	rt.handle(mux, "GET /athletes/{id}/physical-tests", byID("physical_tests.by_athlete", s.PhysicalTests.ByAthlete))

	coaches := resource{name: "coaches", service: s.Coaches, deactivate: s.Coaches.Deactivate, reactivate: s.Coaches.Reactivate}
	rt.mountResource(mux, "/coaches", coaches, coachWriters)
	rt.handle(mux, "POST /coaches/{id}/photo", rt.uploadCoachPhoto, coachWriters...)
	rt.handle(mux, "GET /coaches/{id}/groups", byID("groups.by_coach", s.Groups.ListByCoach))

	groups := resource{name: "groups", service: s.Groups, deactivate: s.Groups.Deactivate, reactivate: s.Groups.Reactivate}
	rt.mountResource(mux, "/groups", groups, managementWriters)
	rt.handle(mux, "GET /groups/eligible-athletes", rt.eligibleAthletes)

	enrollments := resource{name: "enrollments", service: s.Enrollments, deactivate: s.Enrollments.Disable, reactivate: s.Enrollments.Enable}
	rt.mountResource(mux, "/enrollments", enrollments, fieldworkWriters)

	measurements := resource{name: "measurements", service: s.Measurements, deactivate: s.Measurements.Deactivate, reactivate: s.Measurements.Reactivate}
	rt.mountResource(mux, "/measurements", measurements, fieldworkWriters)
	rt.handle(mux, "GET /measurements/export", rt.exportMeasurements)
	rt.handle(mux, "GET /measurements/template", rt.measurementTemplate)
	rt.handle(mux, "POST /measurements/import", Chain(http.HandlerFunc(rt.importMeasurements), RateLimit(rt.importLimiter)).ServeHTTP, fieldworkWriters...)

	physicalTests := resource{name: "physical_tests", service: s.PhysicalTests, deactivate: s.PhysicalTests.Deactivate, reactivate: s.PhysicalTests.Reactivate}
	rt.mountResource(mux, "/physical-tests", physicalTests, fieldworkWriters)

	if s.Audit != nil {
		rt.handle(mux, "GET /audit/{table}/{id}", rt.auditTrail, auditReaders...)
		rt.handle(mux, "GET /audit/performers/{performer}", rt.performerActivity, auditReaders...)
	}
}

func (rt *Router) mountResource(mux *http.ServeMux, path string, res resource, writers []string) {
	rt.handle(mux, "GET "+path, res.list)
	rt.handle(mux, "POST "+path, res.create, writers...)
	rt.handle(mux, "GET "+path+"/{id}", res.get)
	rt.handle(mux, "PATCH "+path+"/{id}", res.update, writers...)
	rt.handle(mux, "POST "+path+"/{id}/deactivate", res.setActive(false), writers...)
	rt.handle(mux, "POST "+path+"/{id}/reactivate", res.setActive(true), writers...)
}

// handle registers "METHOD /path" under APIPrefix behind authentication and,
// when roles are given, a role check.
func (rt *Router) handle(mux *http.ServeMux, route string, h http.HandlerFunc, roles ...string) {
	method, path, _ := strings.Cut(route, " ")
	pattern := method + " " + APIPrefix + path

	mws := []Middleware{Instrument(pattern), Authenticate(rt.verifier)}
	if len(roles) > 0 {
		mws = append(mws, RequireRoles(roles...))
	}
	mux.Handle(pattern, Chain(h, mws...))
}
