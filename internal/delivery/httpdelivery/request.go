package httpdelivery

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/AnderssonLeandro09/baloncesto-backend/internal/domain/shared"
	"github.com/AnderssonLeandro09/baloncesto-backend/internal/infrastructure/tracing"
	"github.com/AnderssonLeandro09/baloncesto-backend/pkg/response"
	"github.com/AnderssonLeandro09/baloncesto-backend/pkg/safeconv"
)

const maxJSONBody = 1 << 20

var errEmptyBody = errors.New("empty body")

// validate checks the shape of query and form DTOs. Business rules stay in
// the services.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if name := f.Tag.Get("param"); name != "" {
			return name
		}
		return f.Name
	})
	return v
}

// searchParams are the query parameters of GET /athletes/search.
type searchParams struct {
	Query string `param:"q" validate:"required,min=2,max=100"`
}

// eligibilityParams are the query parameters of GET /groups/eligible-athletes.
type eligibilityParams struct {
	GroupID *int64 `param:"group_id" validate:"required_without_all=MinAge MaxAge,omitempty,gt=0"`
	MinAge  *int   `param:"min_age" validate:"required_with=MaxAge,omitempty,gte=0,lte=150"`
	MaxAge  *int   `param:"max_age" validate:"required_with=MinAge,omitempty,gte=0,lte=150"`
}

// exportParams are the query parameters of GET /measurements/export.
type exportParams struct {
	AthleteID *int64 `param:"athlete_id" validate:"omitempty,gt=0"`
	IsActive  *bool  `param:"is_active"`
}

// performerParams address GET /audit/performers/{performer}.
type performerParams struct {
	Performer string `param:"performer" validate:"required,max=100"`
	Limit     *int   `param:"limit" validate:"omitempty,gte=1,lte=200"`
}

// photoUpload describes the file part of POST /coaches/{id}/photo.
type photoUpload struct {
	ContentType string `param:"content_type" validate:"required,oneof=image/jpeg image/png image/webp"`
	Size        int64  `param:"size" validate:"gt=0"`
}

// checkShape validates dto and converts failures into field errors.
func checkShape(dto any) []response.ValidationError {
	err := validate.Struct(dto)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []response.ValidationError{{Field: "request", Message: err.Error()}}
	}
	out := make([]response.ValidationError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, response.ValidationError{Field: fe.Field(), Message: shapeMessage(fe)})
	}
	return out
}

func shapeMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_with", "required_without_all":
		return fmt.Sprintf("El campo '%s' es requerido", fe.Field())
	case "min":
		return fmt.Sprintf("El campo '%s' debe tener al menos %s caracteres", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("El campo '%s' no puede exceder %s caracteres", fe.Field(), fe.Param())
	case "gt":
		return fmt.Sprintf("El campo '%s' debe ser mayor que %s", fe.Field(), fe.Param())
	case "gte":
		return fmt.Sprintf("El campo '%s' debe ser mayor o igual a %s", fe.Field(), fe.Param())
	case "lte":
		return fmt.Sprintf("El campo '%s' debe ser menor o igual a %s", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("El campo '%s' debe ser uno de: %s", fe.Field(), strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return fmt.Sprintf("El campo '%s' no es válido", fe.Field())
	}
}

// decodeBody reads a JSON object. Numbers are kept as json.Number so the
// services coerce them without float rounding.
func decodeBody(w http.ResponseWriter, r *http.Request) (map[string]any, bool) {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	dec.UseNumber()

	var body map[string]any
	err := dec.Decode(&body)
	if errors.Is(err, io.EOF) {
		err = errEmptyBody
	}
	if err != nil || body == nil {
		response.Write(w, response.BadRequest("El cuerpo de la solicitud debe ser un objeto JSON válido"))
		return nil, false
	}
	return body, true
}

// pathID reads the {name} path segment as a positive id.
func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, ok := safeconv.ParseID(r.PathValue(name))
	if !ok {
		response.Write(w, response.BadRequest("Identificador inválido", response.ValidationError{
			Field:   name,
			Message: fmt.Sprintf("El campo '%s' debe ser un entero positivo", name),
		}))
		return 0, false
	}
	return id, true
}

// queryParser accumulates query parameter conversion errors.
type queryParser struct {
	values url.Values
	errs   []response.ValidationError
}

func (p *queryParser) int64Ptr(key string) *int64 {
	raw := strings.TrimSpace(p.values.Get(key))
	if raw == "" {
		return nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		p.errs = append(p.errs, response.ValidationError{Field: key, Message: fmt.Sprintf("El campo '%s' debe ser un número entero", key)})
		return nil
	}
	return &n
}

func (p *queryParser) intPtr(key string) *int {
	n := p.int64Ptr(key)
	if n == nil {
		return nil
	}
	v := int(*n)
	return &v
}

func (p *queryParser) boolPtr(key string) *bool {
	raw := strings.TrimSpace(p.values.Get(key))
	if raw == "" {
		return nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		p.errs = append(p.errs, response.ValidationError{Field: key, Message: fmt.Sprintf("El campo '%s' debe ser true o false", key)})
		return nil
	}
	return &b
}

// activeOnly reads ?active=, defaulting to true.
func activeOnly(w http.ResponseWriter, r *http.Request) (bool, bool) {
	p := queryParser{values: r.URL.Query()}
	active := p.boolPtr("active")
	if len(p.errs) > 0 {
		response.Write(w, response.BadRequest("Parámetros de consulta inválidos", p.errs...))
		return false, false
	}
	return active == nil || *active, true
}

// writeResult renders a service Result and counts it under operation.
func writeResult(w http.ResponseWriter, req *http.Request, operation string, res *shared.Result, created bool) {
	RecordOperation(operation, res.Status())
	tracing.Operation(req.Context(), operation, string(res.Status()))
	response.Write(w, response.FromResult(res, created))
}
