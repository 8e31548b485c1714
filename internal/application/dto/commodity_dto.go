package dto

import "time"

// CommodityResponse insumo del catálogo local.
type CommodityResponse struct {
	ID              string    `json:"id"`
	CategoryID      string    `json:"category_id"`
	Name            string    `json:"name"`
	Active          bool      `json:"active"`
	MinimumQuantity int       `json:"minimum_quantity"`
	MaximumQuantity int       `json:"maximum_quantity"`
	CreatedAt       time.Time `json:"created_at"`
}

// CategoryResponse categoría del catálogo local.
type CategoryResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ActivityResponse actividad configurada de un insumo. ID es el dataElement remoto.
type ActivityResponse struct {
	ID           string `json:"id"`
	CommodityID  string `json:"commodity_id"`
	Name         string `json:"name"`
	ActivityType string `json:"activity_type"`
	DataSetID    string `json:"data_set_id"`
}
