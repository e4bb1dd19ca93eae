package api

import (
	"cmp"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/tasks-api/internal/api/shared"
	"github.com/phrazzld/tasks-api/internal/domain"
)

// ErrMalformedRequest is returned when a request body is not a JSON object.
var ErrMalformedRequest = fmt.Errorf("%w: malformed request body", domain.ErrInvalidFormat)

// ValidationError lists every field of a request that failed validation.
type ValidationError struct {
	Fields []shared.FieldError
}

// Error implements the error interface for ValidationError.
func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Unwrap makes every ValidationError match domain.ErrValidation.
func (e *ValidationError) Unwrap() error {
	return domain.ErrValidation
}

// fieldOrder is the order fields are reported in, matching the request bodies.
var fieldOrder = map[string]int{
	"title":       0,
	"description": 1,
	"priority":    2,
	"status":      3,
	"due_date":    4,
}

// RequestValidator turns raw request bodies into validated domain values.
type RequestValidator struct {
	validate *validator.Validate
}

// NewRequestValidator creates a validator with the task rules registered.
func NewRequestValidator() *RequestValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonFieldName)
	mustRegister(v, "notblank", notBlank)
	mustRegister(v, "calendar_date", calendarDate)
	return &RequestValidator{validate: v}
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		// ALLOW-PANIC: tags are constants; failure is a programming error
		panic(fmt.Sprintf("register %s validation: %v", tag, err))
	}
}

// jsonFieldName reports fields by their JSON names.
func jsonFieldName(fld reflect.StructField) string {
	name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
	switch name {
	case "-":
		return ""
	case "":
		return fld.Name
	default:
		return name
	}
}

// notBlank fails strings that are empty after trimming whitespace.
func notBlank(fl validator.FieldLevel) bool {
	field := fl.Field()
	for field.Kind() == reflect.Ptr || field.Kind() == reflect.Interface {
		if field.IsNil() {
			return false
		}
		field = field.Elem()
	}
	if field.Kind() == reflect.String {
		return strings.TrimSpace(field.String()) != ""
	}
	return !field.IsZero()
}

// calendarDate accepts anything domain.ParseDate accepts.
func calendarDate(fl validator.FieldLevel) bool {
	field := fl.Field()
	for field.Kind() == reflect.Ptr {
		if field.IsNil() {
			return false
		}
		field = field.Elem()
	}
	if field.Kind() != reflect.String {
		return false
	}
	_, err := domain.ParseDate(field.String())
	return err == nil
}

// ValidateCreateTask checks a create request and converts it to domain fields.
// On failure the error is a *ValidationError.
func (v *RequestValidator) ValidateCreateTask(req CreateTaskRequest) (domain.TaskFields, error) {
	if err := v.validate.Struct(req); err != nil {
		return domain.TaskFields{}, toValidationError(err)
	}

	dueDate, err := domain.ParseDate(req.DueDate)
	if err != nil {
		return domain.TaskFields{}, toValidationError(err)
	}

	return domain.TaskFields{
		Title:       req.Title,
		Description: req.Description,
		Priority:    domain.Priority(req.Priority),
		Status:      domain.Status(req.Status),
		DueDate:     dueDate,
	}, nil
}

// ValidateUpdateTask checks an update request and converts it to a partial update.
// On failure the error is a *ValidationError.
func (v *RequestValidator) ValidateUpdateTask(req UpdateTaskRequest) (domain.TaskUpdate, error) {
	if err := v.validate.Struct(req); err != nil {
		return domain.TaskUpdate{}, toValidationError(err)
	}

	update := domain.TaskUpdate{
		Title:       req.Title,
		Description: req.Description,
	}
	if req.Priority != nil {
		p := domain.Priority(*req.Priority)
		update.Priority = &p
	}
	if req.Status != nil {
		s := domain.Status(*req.Status)
		update.Status = &s
	}
	if req.DueDate != nil {
		d, err := domain.ParseDate(*req.DueDate)
		if err != nil {
			return domain.TaskUpdate{}, toValidationError(err)
		}
		update.DueDate = &d
	}
	return update, nil
}

// ParseCreateTask decodes and validates a create request body.
// It returns ErrMalformedRequest for bodies that are not JSON objects and a
// *ValidationError for field problems, including JSON type mismatches.
func (v *RequestValidator) ParseCreateTask(w http.ResponseWriter, r *http.Request) (domain.TaskFields, error) {
	var req CreateTaskRequest
	typeErrs, err := decodeRequest(w, r, &req)
	if err != nil {
		return domain.TaskFields{}, err
	}

	fields, err := v.ValidateCreateTask(req)
	if err := mergeFieldErrors(typeErrs, err); err != nil {
		return domain.TaskFields{}, err
	}
	return fields, nil
}

// ParseUpdateTask decodes and validates an update request body.
// Errors are reported the same way as ParseCreateTask.
func (v *RequestValidator) ParseUpdateTask(w http.ResponseWriter, r *http.Request) (domain.TaskUpdate, error) {
	var req UpdateTaskRequest
	typeErrs, err := decodeRequest(w, r, &req)
	if err != nil {
		return domain.TaskUpdate{}, err
	}

	update, err := v.ValidateUpdateTask(req)
	if err := mergeFieldErrors(typeErrs, err); err != nil {
		return domain.TaskUpdate{}, err
	}
	return update, nil
}

// decodeRequest decodes the body into dst. A type mismatch on a named field
// is returned as a field error; the rest of the body is still decoded.
func decodeRequest(w http.ResponseWriter, r *http.Request, dst any) ([]shared.FieldError, error) {
	err := shared.DecodeJSON(w, r, dst)
	if err == nil {
		return nil, nil
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return []shared.FieldError{{
			Field:   typeErr.Field,
			Rule:    "type",
			Message: fmt.Sprintf("%s must be a %s", typeErr.Field, jsonTypeName(typeErr.Type)),
		}}, nil
	}

	return nil, fmt.Errorf("%w: %v", ErrMalformedRequest, err)
}

func jsonTypeName(t reflect.Type) string {
	if t == nil {
		return "valid value"
	}
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return "number"
	default:
		return t.String()
	}
}

// mergeFieldErrors combines decode-time type errors with the validation
// result. A field with a type error is reported only once.
func mergeFieldErrors(typeErrs []shared.FieldError, err error) error {
	if len(typeErrs) == 0 {
		return err
	}

	fields := slices.Clone(typeErrs)
	if err != nil {
		var verr *ValidationError
		if !errors.As(err, &verr) {
			return err
		}
		for _, f := range verr.Fields {
			if !slices.ContainsFunc(typeErrs, func(te shared.FieldError) bool { return te.Field == f.Field }) {
				fields = append(fields, f)
			}
		}
	}

	sortFieldErrors(fields)
	return &ValidationError{Fields: fields}
}

func sortFieldErrors(fields []shared.FieldError) {
	slices.SortStableFunc(fields, func(a, b shared.FieldError) int {
		ai, aok := fieldOrder[a.Field]
		bi, bok := fieldOrder[b.Field]
		if !aok {
			ai = len(fieldOrder)
		}
		if !bok {
			bi = len(fieldOrder)
		}
		return cmp.Compare(ai, bi)
	})
}

// toValidationError converts validator output into a *ValidationError.
func toValidationError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]shared.FieldError, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, shared.FieldError{
				Field:   fe.Field(),
				Rule:    fe.Tag(),
				Message: fieldErrorMessage(fe),
			})
		}
		sortFieldErrors(fields)
		return &ValidationError{Fields: fields}
	}

	if errors.Is(err, domain.ErrInvalidFormat) {
		return &ValidationError{Fields: []shared.FieldError{{
			Field:   "due_date",
			Rule:    "calendar_date",
			Message: "due_date must be a date in YYYY-MM-DD format",
		}}}
	}

	return err
}

func fieldErrorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "notblank":
		return fmt.Sprintf("%s must not be blank", fe.Field())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), strings.ReplaceAll(fe.Param(), " ", ", "))
	case "calendar_date":
		return fmt.Sprintf("%s must be a date in YYYY-MM-DD format", fe.Field())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
