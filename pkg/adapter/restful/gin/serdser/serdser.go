// Package serdser contains the (de)serialization helpers which are
// shared by the resource packages. Errors are reported to the clients
// as problem documents, having a title, status, and detail fields.
package serdser

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/momeni/flightagg/pkg/core/cerr"
	"github.com/momeni/flightagg/pkg/core/log"
)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(jsonName)
	}
}

// jsonName makes validation errors to use the json names of fields.
func jsonName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	switch name {
	case "-":
		return ""
	case "":
		return f.Name
	}
	return name
}

// Problem is the body of all error responses.
type Problem struct {
	Title  string              `json:"title"`
	Status int                 `json:"status"`
	Detail string              `json:"detail,omitempty"`
	Errors map[string][]string `json:"errors,omitempty"`
}

// NewProblem creates a Problem with the given status code and detail.
// Its title is the upper snake case of the status text, for example,
// BAD_REQUEST for the 400 status code.
func NewProblem(status int, detail string) *Problem {
	return &Problem{Title: Title(status), Status: status, Detail: detail}
}

func Title(status int) string {
	text := http.StatusText(status)
	if text == "" {
		return "ERROR"
	}
	text = strings.ReplaceAll(text, "-", " ")
	return strings.ToUpper(strings.Join(strings.Fields(text), "_"))
}

// Abort writes p as the response and stops the next handlers.
func Abort(c *gin.Context, p *Problem) {
	c.AbortWithStatusJSON(p.Status, p)
}

func Bind(c *gin.Context, req any, b binding.Binding) bool {
	switch err := c.ShouldBindWith(req, b).(type) {
	case *validator.InvalidValidationError:
		SerErr(c, err)
	case validator.ValidationErrors:
		var nameToErrs map[string][]string
		for _, ferr := range err {
			AddErr(&nameToErrs, ferr.Field(), fieldMessage(ferr))
		}
		p := NewProblem(http.StatusBadRequest, "Request validation failed")
		p.Errors = nameToErrs
		Abort(c, p)
	default:
		if err == nil {
			return true
		}
		Abort(c, NewProblem(http.StatusBadRequest, err.Error()))
	}
	return false
}

func fieldMessage(ferr validator.FieldError) string {
	switch ferr.Tag() {
	case "required":
		return "is required"
	case "datetime":
		return fmt.Sprintf("must be formatted as %s", ferr.Param())
	}
	if p := ferr.Param(); p != "" {
		return fmt.Sprintf("must satisfy %s=%s", ferr.Tag(), p)
	}
	return "must satisfy " + ferr.Tag()
}

func AddErr(errs *map[string][]string, name string, msgs ...string) {
	if (*errs) == nil {
		*errs = make(map[string][]string)
	}
	(*errs)[name] = append((*errs)[name], msgs...)
}

// SerErr reports err as a problem. A cerr.Error carries its own status
// code and its wrapped error message is used as the detail. Other errors
// are logged and reported as internal server errors without details.
func SerErr(c *gin.Context, err error) {
	var ce *cerr.Error
	if errors.As(err, &ce) {
		Abort(c, NewProblem(ce.HTTPStatusCode, ce.Err.Error()))
		return
	}
	log.Error(c.Request.Context(), "request failed", log.Err("error", err))
	Abort(c, NewProblem(
		http.StatusInternalServerError, "An unexpected error occurred",
	))
}
