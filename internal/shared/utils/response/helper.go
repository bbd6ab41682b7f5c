package response

import (
	"errors"
	"net/http"

	"boxoffice/internal/shared/apperrors"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

func RespondJSON(c *gin.Context, status string, code int, message string, data interface{}, errors interface{}) {
	c.JSON(code, StandardApiResponse{
		Status:     status,
		StatusCode: code,
		Message:    message,
		Data:       data,
		Errors:     errors,
	})
}

// RespondError maps a taxonomy error onto the standard envelope using the
// status code the error class dictates.
func RespondError(c *gin.Context, message string, err error) {
	RespondJSON(c, "error", apperrors.HTTPStatus(err), message, nil, err.Error())
}

// RespondBindingError renders a request binding failure. Validator errors
// become a field -> failed-rule map so clients see every offending field
// at once.
func RespondBindingError(c *gin.Context, err error) {
	var fieldErrors validator.ValidationErrors
	if errors.As(err, &fieldErrors) {
		details := make(map[string]string, len(fieldErrors))
		for _, fe := range fieldErrors {
			details[fe.Field()] = fe.Tag()
		}
		RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, details)
		return
	}
	RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
}
