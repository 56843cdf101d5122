package httpdelivery

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/AnderssonLeandro09/baloncesto-backend/internal/application/common"
	appgroup "github.com/AnderssonLeandro09/baloncesto-backend/internal/application/group"
	"github.com/AnderssonLeandro09/baloncesto-backend/internal/application/measurement"
	"github.com/AnderssonLeandro09/baloncesto-backend/internal/domain/shared"
	"github.com/AnderssonLeandro09/baloncesto-backend/internal/infrastructure/tracing"
	"github.com/AnderssonLeandro09/baloncesto-backend/pkg/response"
)

// auditTables are the tables whose history may be read.
var auditTables = map[string]bool{
	"athletes":             true,
	"coaches":              true,
	"athlete_groups":       true,
	"enrollments":          true,
	"anthropometric_tests": true,
	"physical_tests":       true,
}

func (rt *Router) searchAthletes(w http.ResponseWriter, r *http.Request) {
	params := searchParams{Query: strings.TrimSpace(r.URL.Query().Get("q"))}
	if errs := checkShape(params); len(errs) > 0 {
		response.Write(w, response.BadRequest("Parámetros de búsqueda inválidos", errs...))
		return
	}
	writeResult(w, r, "athletes.search", rt.services.Athletes.Search(r.Context(), params.Query), false)
}

func (rt *Router) uploadCoachPhoto(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, rt.maxUploadSize)
	file, header, err := r.FormFile("photo")
	if err != nil {
		response.Write(w, response.BadRequest("Debe adjuntar la foto en el campo 'photo'"))
		return
	}
	defer func() { _ = file.Close() }()

	upload := photoUpload{ContentType: header.Header.Get("Content-Type"), Size: header.Size}
	if errs := checkShape(upload); len(errs) > 0 {
		response.Write(w, response.BadRequest("Foto inválida", errs...))
		return
	}

	writeResult(w, r, "coaches.upload_photo",
		rt.services.Coaches.UploadPhoto(r.Context(), id, file, upload.Size, upload.ContentType), false)
}

func (rt *Router) eligibleAthletes(w http.ResponseWriter, r *http.Request) {
	p := queryParser{values: r.URL.Query()}
	params := eligibilityParams{
		GroupID: p.int64Ptr("group_id"),
		MinAge:  p.intPtr("min_age"),
		MaxAge:  p.intPtr("max_age"),
	}
	errs := p.errs
	if len(errs) == 0 {
		errs = checkShape(params)
	}
	if len(errs) > 0 {
		response.Write(w, response.BadRequest("Parámetros de consulta inválidos", errs...))
		return
	}

	q := appgroup.EligibilityQuery{GroupID: params.GroupID, MinAge: params.MinAge, MaxAge: params.MaxAge}
	writeResult(w, r, "groups.eligible_athletes", rt.services.Groups.EligibleAthletes(r.Context(), q), false)
}

func (rt *Router) exportMeasurements(w http.ResponseWriter, r *http.Request) {
	p := queryParser{values: r.URL.Query()}
	params := exportParams{AthleteID: p.int64Ptr("athlete_id"), IsActive: p.boolPtr("is_active")}
	errs := p.errs
	if len(errs) == 0 {
		errs = checkShape(params)
	}
	if len(errs) > 0 {
		response.Write(w, response.BadRequest("Parámetros de consulta inválidos", errs...))
		return
	}

	res := rt.services.Measurements.Export(r.Context(), measurement.ExportQuery{AthleteID: params.AthleteID, IsActive: params.IsActive})
	writeFile(w, r, "measurements.export", res)
}

func (rt *Router) measurementTemplate(w http.ResponseWriter, r *http.Request) {
	writeFile(w, r, "measurements.template", rt.services.Measurements.Template())
}

func (rt *Router) importMeasurements(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, rt.maxUploadSize)
	file, header, err := r.FormFile("file")
	if err != nil {
		response.Write(w, response.BadRequest("Debe adjuntar el archivo Excel en el campo 'file'"))
		return
	}
	defer func() { _ = file.Close() }()

	content, err := io.ReadAll(file)
	if err != nil {
		response.Write(w, response.BadRequest("No se pudo leer el archivo adjunto"))
		return
	}

	cmd := measurement.ImportCommand{FileContent: content, FileName: header.Filename}
	writeResult(w, r, "measurements.import", rt.services.Measurements.Import(r.Context(), cmd), false)
}

func (rt *Router) auditTrail(w http.ResponseWriter, r *http.Request) {
	table := r.PathValue("table")
	if !auditTables[table] {
		response.Write(w, response.NotFound(fmt.Sprintf("La tabla '%s' no tiene historial de auditoría", table)))
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	entries, err := rt.services.Audit.GetByRecordID(r.Context(), table, id)
	if err != nil {
		writeResult(w, r, "audit.get", common.StorageError(err, "Error al obtener el historial de auditoría", table, id), false)
		return
	}
	writeResult(w, r, "audit.get", shared.Success(entries, ""), false)
}

// defaultPerformerLimit caps GET /audit/performers/{performer} without ?limit.
const defaultPerformerLimit = 50

func (rt *Router) performerActivity(w http.ResponseWriter, r *http.Request) {
	p := queryParser{values: r.URL.Query()}
	params := performerParams{
		Performer: strings.TrimSpace(r.PathValue("performer")),
		Limit:     p.intPtr("limit"),
	}
	errs := p.errs
	if len(errs) == 0 {
		errs = checkShape(params)
	}
	if len(errs) > 0 {
		response.Write(w, response.BadRequest("Parámetros de consulta inválidos", errs...))
		return
	}

	limit := defaultPerformerLimit
	if params.Limit != nil {
		limit = *params.Limit
	}
	entries, err := rt.services.Audit.GetByPerformer(r.Context(), params.Performer, limit)
	if err != nil {
		writeResult(w, r, "audit.by_performer", common.StorageError(err, "Error al obtener la actividad del usuario", "audit_logs", 0), false)
		return
	}
	writeResult(w, r, "audit.by_performer", shared.Success(entries, ""), false)
}

// writeFile streams a file Result, or renders the envelope on failure.
func writeFile(w http.ResponseWriter, r *http.Request, operation string, res *shared.Result) {
	file, ok := res.Data().(*measurement.File)
	if !res.IsSuccess() || !ok {
		writeResult(w, r, operation, res, false)
		return
	}
	RecordOperation(operation, res.Status())
	tracing.Operation(r.Context(), operation, string(res.Status()))
	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Name))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(file.Content)
}
