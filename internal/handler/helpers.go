package handler

import (
	"net/http"
	"reflect"

	"github.com/naimlawani01/facturerapide-api/internal/apierror"
	"github.com/naimlawani01/facturerapide-api/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails —
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON invalide : "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// respondServiceError maps a business error kind to its HTTP status and
// writes the canonical envelope. Unexpected errors become an opaque 500.
func respondServiceError(c *gin.Context, err error) {
	kind := service.KindOf(err)
	switch kind {
	case service.KindNotFound:
		c.JSON(http.StatusNotFound, apierror.NewWithCode(string(kind), err.Error()))
	case service.KindValidation:
		c.JSON(http.StatusUnprocessableEntity, apierror.NewWithCode(string(kind), err.Error()))
	case service.KindConflict:
		c.JSON(http.StatusConflict, apierror.NewWithCode(string(kind), err.Error()))
	case service.KindUnauthorized:
		c.JSON(http.StatusUnauthorized, apierror.NewWithCode(string(kind), err.Error()))
	case service.KindInvalidState, service.KindInvalidTransition,
		service.KindAlreadyConverted, service.KindAlreadyPaid, service.KindExceedsBalance:
		c.JSON(http.StatusBadRequest, apierror.NewWithCode(string(kind), err.Error()))
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, apierror.New("Erreur interne du serveur"))
	}
}

// parseUUIDParam extracts and validates a UUID path parameter. Writes the
// 400 response itself when invalid.
func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalide"))
		return uuid.Nil, false
	}
	return id, true
}
