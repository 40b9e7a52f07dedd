package httputil

import (
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/warped-finance/backend/internal/types"
	"github.com/warped-finance/backend/pkg/models"
)

var (
	ErrBodyEmpty   = fmt.Errorf("%w: request body must not be empty", models.ErrValidation)
	ErrBodyInvalid = fmt.Errorf("%w: the body of your request contains invalid or un-parseable data. Please check and try again", models.ErrValidation)
)

// Validation errors name fields by their JSON name, which is what clients send.
func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "" || name == "-" {
				return f.Name
			}
			return name
		})
	}
}

// BindData binds the JSON body of the request to data and validates it
// with the binding tags of data.
func BindData(c *gin.Context, data any) error {
	if err := c.ShouldBindJSON(data); err != nil {
		if errors.Is(err, io.EOF) {
			return ErrBodyEmpty
		}

		var fieldErrors validator.ValidationErrors
		if errors.As(err, &fieldErrors) {
			return validationError(fieldErrors)
		}

		log.Debug().Str("request-id", requestid.Get(c)).Msgf("%T: %v", err, err.Error())
		return ErrBodyInvalid
	}

	return nil
}

// validationError describes all failed field validations in one error.
func validationError(fieldErrors validator.ValidationErrors) error {
	texts := make([]string, 0, len(fieldErrors))
	for _, e := range fieldErrors {
		texts = append(texts, fieldErrorText(e))
	}

	return fmt.Errorf("%w: %s", models.ErrValidation, strings.Join(texts, ", "))
}

func fieldErrorText(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", e.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s", e.Field(), e.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", e.Field(), e.Param())
	}
	return fmt.Sprintf("%s is not valid", e.Field())
}

// TransactionID returns the path parameter as transaction ID.
func TransactionID(c *gin.Context, param string) (string, error) {
	id := c.Param(param)
	if !models.ValidTransactionID(id) {
		return "", fmt.Errorf("%w: %q", models.ErrInvalidTransactionID, id)
	}

	return id, nil
}

// QueryDate parses the query parameter as date. An unset parameter
// returns the zero date.
func QueryDate(c *gin.Context, param string) (types.Date, error) {
	value := c.Query(param)
	if value == "" {
		return types.Date{}, nil
	}

	date, err := types.ParseDate(value)
	if err != nil {
		return types.Date{}, fmt.Errorf("%w: the %s parameter is not a valid date", models.ErrValidation, param)
	}

	return date, nil
}

// QueryDecimal parses the query parameter as decimal. An unset parameter
// returns nil.
func QueryDecimal(c *gin.Context, param string) (*decimal.Decimal, error) {
	value := c.Query(param)
	if value == "" {
		return nil, nil
	}

	d, err := decimal.NewFromString(value)
	if err != nil {
		return nil, fmt.Errorf("%w: the %s parameter is not a valid amount", models.ErrValidation, param)
	}

	return &d, nil
}
