package handler

import (
    "errors"
    "net/http"
    "reflect"
    "strings"

    "github.com/go-playground/validator/v10"
    "github.com/labstack/echo/v4"

    "github.com/StuFleisher/lunchly/internal/model"
    "github.com/StuFleisher/lunchly/internal/repository"
)

// errInvalidBody is returned when a request body cannot be decoded.
var errInvalidBody = errors.New("invalid request body")

// RequestValidator adapts go-playground/validator to echo.Validator so
// handlers can call c.Validate on bound request bodies.
type RequestValidator struct {
    v *validator.Validate
}

// NewRequestValidator returns a validator reporting fields by their JSON
// names.
func NewRequestValidator() *RequestValidator {
    v := validator.New()
    v.RegisterTagNameFunc(func(f reflect.StructField) string {
        name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
        if name == "-" {
            return ""
        }
        return name
    })
    return &RequestValidator{v: v}
}

// Validate implements echo.Validator.
func (rv *RequestValidator) Validate(i any) error {
    return rv.v.Struct(i)
}

// respondError writes the JSON error response for err.  Missing
// resources answer with the status carried by the error, rejected input
// with 400, and everything else with a logged 500.
func respondError(c echo.Context, err error) error {
    var nf *repository.NotFoundError
    var ve *model.ValidationError
    var fields validator.ValidationErrors
    switch {
    case errors.Is(err, errInvalidBody):
        return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
    case errors.As(err, &nf):
        return c.JSON(nf.Status(), echo.Map{"error": nf.Msg})
    case errors.As(err, &ve):
        return c.JSON(http.StatusBadRequest, echo.Map{"error": ve.Error()})
    case errors.As(err, &fields):
        msgs := make([]string, 0, len(fields))
        for _, fe := range fields {
            msgs = append(msgs, fe.Field()+" failed "+fe.Tag())
        }
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request", "fields": msgs})
    default:
        c.Logger().Errorf("%s %s: %v", c.Request().Method, c.Path(), err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
}
