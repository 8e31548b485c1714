package dto

import "time"

// DispensingItemRequest línea de una dispensación.
type DispensingItemRequest struct {
	CommodityID string `json:"commodity_id" validate:"required,uuid"`
	Quantity    int    `json:"quantity" validate:"required,min=1"`
}

// CreateDispensingRequest body para POST /api/dispensings. Si PrescriptionID
// viene vacío y no es una entrega interna, el sistema genera el consecutivo
// del mes.
type CreateDispensingRequest struct {
	PrescriptionID string                  `json:"prescription_id,omitempty"`
	ToFacility     bool                    `json:"to_facility"`
	Items          []DispensingItemRequest `json:"items" validate:"required,min=1,dive"`
}

// DispensingResponse salida de una dispensación creada.
type DispensingResponse struct {
	ID             string    `json:"id"`
	PrescriptionID string    `json:"prescription_id,omitempty"`
	ToFacility     bool      `json:"to_facility"`
	Items          int       `json:"items"`
	Created        time.Time `json:"created"`
}

// NextPrescriptionResponse consecutivo de receta sugerido para el mes actual.
type NextPrescriptionResponse struct {
	PrescriptionID string `json:"prescription_id"`
}
