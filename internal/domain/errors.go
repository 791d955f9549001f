package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrModuleUnavailable  = errors.New("módulo no disponible para la organización")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
)

// Recursos sobre los que aplican los cupos por organización.
const (
	LimitResourceUsers     = "users"
	LimitResourceEmployees = "employees"
)

// LimitViolationError indica que una operación superaría el cupo de la organización
// (maxUsers o maxEmployees). Lleva el conteo actual y el tope para que el caller
// pueda reaccionar (ej: sugerir cambio de plan). Se detecta con errors.As.
type LimitViolationError struct {
	Resource string // users | employees
	Current  int    // conteo activo al momento del chequeo
	Cap      int    // tope vigente (o prospectivo, en asignación de bundle)
}

func (e *LimitViolationError) Error() string {
	return fmt.Sprintf("cupo de %s excedido: %d activos, tope %d", e.Resource, e.Current, e.Cap)
}
