package domain

import "errors"

// Errores de dominio (sin dependencias externas).
//
// Se agrupan según la taxonomía del motor de snapshots: errores de
// configuración de catálogo (fatales para la operación; reintentar no los
// corrige), errores transitorios de sincronización (reintentables sin pérdida
// de datos locales) y errores genéricos de persistencia/validación.
var (
	ErrNotFound      = errors.New("recurso no encontrado")
	ErrDuplicate     = errors.New("recurso duplicado")
	ErrInvalidInput  = errors.New("entrada inválida")
	ErrUnauthorized  = errors.New("no autorizado")
	ErrForbidden     = errors.New("acceso denegado")
	ErrUserNotFound  = errors.New("usuario no encontrado")
	ErrUsernameTaken = errors.New("el nombre de usuario ya está registrado")

	// Configuración de catálogo: desfase entre el catálogo importado y los
	// datos locales. Nunca es un fallo transitorio.
	ErrActivityNotConfigured = errors.New("el insumo no tiene configurada la actividad solicitada")
	ErrStockItemNotFound     = errors.New("no existe fila de stock para el insumo")
	ErrStockItemDuplicated   = errors.New("existe más de una fila de stock para el insumo")

	// Sincronización: el estado local queda intacto y el siguiente intento
	// reenvía el mismo lote (entrega at-least-once).
	ErrSyncFailed     = errors.New("sincronización con el servidor fallida")
	ErrSyncInProgress = errors.New("ya hay una sincronización en curso")
)
