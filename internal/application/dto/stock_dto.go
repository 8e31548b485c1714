package dto

// StockAdjustmentRequest body para registrar una pérdida o una recepción.
type StockAdjustmentRequest struct {
	CommodityID string `json:"commodity_id" validate:"required,uuid"`
	Quantity    int    `json:"quantity" validate:"required,min=1"`
}

// StockLevelResponse existencia actual de un insumo.
type StockLevelResponse struct {
	CommodityID string `json:"commodity_id"`
	Quantity    int    `json:"quantity"`
}
