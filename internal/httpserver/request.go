package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/util"
	middleware "github.com/Skotchmaster/storefront/pkg/middleware/auth"
)

const paginationHeader = "X-Pagination"

// RequestValidator plugs go-playground/validator into echo's Validate hook.
type RequestValidator struct {
	v *validator.Validate
}

func NewValidator() *RequestValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return &RequestValidator{v: v}
}

func (rv *RequestValidator) Validate(i any) error {
	err := rv.v.Struct(i)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &service.Error{Kind: service.ErrValidation, Msg: err.Error()}
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return &service.Error{Kind: service.ErrValidation, Msg: strings.Join(msgs, " ")}
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", fe.Field())
	case "email":
		return fmt.Sprintf("The %s field is not a valid e-mail address.", fe.Field())
	case "min", "gte", "gt":
		return fmt.Sprintf("The %s field must be at least %s.", fe.Field(), fe.Param())
	case "max", "lte":
		return fmt.Sprintf("The %s field must be at most %s.", fe.Field(), fe.Param())
	}
	return fmt.Sprintf("The %s field is invalid.", fe.Field())
}

// bind decodes the body into req and runs the registered validator.
func bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return &service.Error{Kind: service.ErrValidation, Msg: "Request body is invalid."}
	}
	if err := c.Validate(req); err != nil {
		var se *service.Error
		if errors.As(err, &se) {
			return se
		}
		return &service.Error{Kind: service.ErrValidation, Msg: err.Error()}
	}
	return nil
}

// callerFrom reads the identity the bearer middleware stored on c. Requests
// without one act as the anonymous caller.
func callerFrom(c echo.Context) service.Caller {
	sub, _ := c.Get(middleware.ContextUserID).(string)
	id, err := strconv.ParseUint(sub, 10, 64)
	if err != nil || id == 0 {
		return service.Caller{}
	}
	role, _ := c.Get(middleware.ContextRole).(string)
	return service.Caller{AccountID: uint(id), Role: role}
}

func pathID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, &service.Error{Kind: service.ErrValidation, Msg: fmt.Sprintf("Path parameter '%s' must be a positive integer.", name)}
	}
	return uint(id), nil
}

func queryBool(c echo.Context, name string, def bool) (bool, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, &service.Error{Kind: service.ErrValidation, Msg: fmt.Sprintf("Query parameter '%s' must be true or false.", name)}
	}
	return v, nil
}

func queryBoolPtr(c echo.Context, name string) (*bool, error) {
	if c.QueryParam(name) == "" {
		return nil, nil
	}
	v, err := queryBool(c, name, false)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func queryUintPtr(c echo.Context, name string) (*uint, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil, &service.Error{Kind: service.ErrValidation, Msg: fmt.Sprintf("Query parameter '%s' must be a positive integer.", name)}
	}
	id := uint(v)
	return &id, nil
}

func queryDecimalPtr(c echo.Context, name string) (*decimal.Decimal, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, &service.Error{Kind: service.ErrValidation, Msg: fmt.Sprintf("Query parameter '%s' must be a number.", name)}
	}
	return &d, nil
}

func pageParams(c echo.Context) (int, int) {
	page := util.ParseIntDefault(c.QueryParam("pageNumber"), 1)
	size := util.ParseIntDefault(c.QueryParam("pageSize"), util.DefaultPageSize)
	return page, size
}

func setPagination(c echo.Context, meta util.PaginationMetadata) {
	raw, err := json.Marshal(meta)
	if err != nil {
		return
	}
	c.Response().Header().Set(paginationHeader, string(raw))
}
