package stock_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/healthstack/lmis-facility-api/internal/application/stock"
	"github.com/healthstack/lmis-facility-api/internal/domain"
	"github.com/healthstack/lmis-facility-api/internal/domain/entity"
	"github.com/healthstack/lmis-facility-api/internal/infrastructure/memstore"
)

const commodityID = "00000000-0000-0000-0000-00000000000a"

func storeWithStock(t *testing.T, qty int) *memstore.Store {
	t.Helper()
	store := memstore.New()
	item, err := entity.NewStockItem("stock-1", commodityID, qty)
	require.NoError(t, err)
	require.NoError(t, store.Stock().Create(item))
	return store
}

func TestLedger_AjustePositivoYNegativo(t *testing.T) {
	store := storeWithStock(t, 10)
	ledger := stock.NewLedger(store.Stock())

	item, err := ledger.Adjust(commodityID, 5)
	require.NoError(t, err)
	assert.Equal(t, 15, item.Quantity)

	item, err = ledger.Adjust(commodityID, -7)
	require.NoError(t, err)
	assert.Equal(t, 8, item.Quantity)

	level, err := ledger.LevelFor(commodityID)
	require.NoError(t, err)
	assert.Equal(t, 8, level, "LevelFor debe reflejar los ajustes persistidos")
}

// La sobre-dispensación deja la existencia en negativo: es una condición de
// negocio visible, no un error.
func TestLedger_PermiteExistenciaNegativa(t *testing.T) {
	store := storeWithStock(t, 3)
	ledger := stock.NewLedger(store.Stock())

	item, err := ledger.Adjust(commodityID, -10)
	require.NoError(t, err)
	assert.Equal(t, -7, item.Quantity, "el libro registra lo que realmente salió")
}

func TestLedger_InsumoSinFilaDeStock(t *testing.T) {
	ledger := stock.NewLedger(memstore.New().Stock())

	_, err := ledger.Adjust(commodityID, -1)
	assert.ErrorIs(t, err, domain.ErrStockItemNotFound)

	_, err = ledger.LevelFor(commodityID)
	assert.ErrorIs(t, err, domain.ErrStockItemNotFound)
}

// Más de una fila por insumo es una violación de integridad, nunca se
// resuelve en silencio.
func TestLedger_FilasDuplicadas(t *testing.T) {
	store := storeWithStock(t, 5)
	extra, err := entity.NewStockItem("stock-2", commodityID, 9)
	require.NoError(t, err)
	require.NoError(t, store.Stock().Create(extra))

	ledger := stock.NewLedger(store.Stock())
	_, err = ledger.Adjust(commodityID, -1)
	assert.ErrorIs(t, err, domain.ErrStockItemDuplicated)
}

// La cantidad inicial de una fila de stock no puede ser negativa.
func TestNewStockItem_CantidadInicialNegativa(t *testing.T) {
	_, err := entity.NewStockItem("stock-1", commodityID, -1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
