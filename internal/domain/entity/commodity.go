package entity

import "time"

// Category agrupa insumos del catálogo remoto (ej: "Malaria", "Esenciales").
type Category struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

// Commodity representa un insumo de salud del catálogo remoto.
// Se crea en la importación de catálogo; nunca se borra, solo se desactiva.
// MinimumQuantity y MaximumQuantity son los parámetros de reorden del insumo.
type Commodity struct {
	ID              string
	CategoryID      string
	Name            string
	Active          bool
	MinimumQuantity int
	MaximumQuantity int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
