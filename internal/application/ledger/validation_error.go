package ledger

import (
	"strings"

	"github.com/tu-usuario/brigada-api/internal/domain"
	"github.com/tu-usuario/brigada-api/internal/domain/validation"
)

// ValidationError transporta el resultado estructurado del motor de validación
// como error de aplicación. Unwrap a domain.ErrInvalidInput para que los
// callers puedan seguir usando errors.Is sin conocer este tipo.
type ValidationError struct {
	Result validation.Result
}

func (e *ValidationError) Error() string {
	codes := make([]string, 0, len(e.Result.Errors))
	for _, v := range e.Result.Errors {
		codes = append(codes, v.Code)
	}
	return "validación fallida: " + strings.Join(codes, ", ")
}

func (e *ValidationError) Unwrap() error { return domain.ErrInvalidInput }
