package serverutils

import (
	"fmt"
	"strings"

	"clinical-eval-be/internal/pkg/apperror"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateRequest runs struct-tag validation and converts failures into the
// 400 branch of the error taxonomy.
func ValidateRequest(req any) error {
	if err := validate.Struct(req); err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return apperror.NewValidation("invalid request payload")
		}
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
		}
		return apperror.NewValidation("validation failed: " + strings.Join(fields, ", "))
	}
	return nil
}
