// Package memstore implementa los puertos de persistencia en memoria.
// Lo usan los tests de casos de uso y sirve de modo demo sin PostgreSQL.
// El TxRunner clona el estado antes de ejecutar el callback: un error
// descarta el clon completo, igual que un rollback.
package memstore

import (
	"sort"
	"sync"
	"time"

	"github.com/healthstack/lmis-facility-api/internal/domain"
	"github.com/healthstack/lmis-facility-api/internal/domain/entity"
)

// Store contiene todas las tablas en memoria. Las operaciones copian las
// entidades al entrar y al salir para que los llamadores no puedan mutar el
// estado interno por referencia.
type Store struct {
	mu sync.Mutex

	categories  map[string]entity.Category
	commodities map[string]entity.Commodity
	dataSets    map[string]entity.DataSet
	activities  map[string]entity.CommodityActivity
	stockItems  map[string]entity.StockItem
	dispensings map[string]entity.Dispensing
	items       map[string]entity.DispensingItem
	snapshots   map[string]entity.CommoditySnapshot
	users       map[string]entity.User
}

// New construye un Store vacío.
func New() *Store {
	return &Store{
		categories:  make(map[string]entity.Category),
		commodities: make(map[string]entity.Commodity),
		dataSets:    make(map[string]entity.DataSet),
		activities:  make(map[string]entity.CommodityActivity),
		stockItems:  make(map[string]entity.StockItem),
		dispensings: make(map[string]entity.Dispensing),
		items:       make(map[string]entity.DispensingItem),
		snapshots:   make(map[string]entity.CommoditySnapshot),
		users:       make(map[string]entity.User),
	}
}

// clone copia el estado completo (las entidades son structs planos, la copia
// de mapa alcanza).
func (s *Store) clone() *Store {
	c := New()
	for k, v := range s.categories {
		c.categories[k] = v
	}
	for k, v := range s.commodities {
		c.commodities[k] = v
	}
	for k, v := range s.dataSets {
		c.dataSets[k] = v
	}
	for k, v := range s.activities {
		c.activities[k] = v
	}
	for k, v := range s.stockItems {
		c.stockItems[k] = v
	}
	for k, v := range s.dispensings {
		d := v
		d.Items = append([]entity.DispensingItem(nil), v.Items...)
		c.dispensings[k] = d
	}
	for k, v := range s.items {
		c.items[k] = v
	}
	for k, v := range s.snapshots {
		c.snapshots[k] = v
	}
	for k, v := range s.users {
		c.users[k] = v
	}
	return c
}

// adopt reemplaza el estado propio por el de other (commit del clon).
func (s *Store) adopt(other *Store) {
	s.categories = other.categories
	s.commodities = other.commodities
	s.dataSets = other.dataSets
	s.activities = other.activities
	s.stockItems = other.stockItems
	s.dispensings = other.dispensings
	s.items = other.items
	s.snapshots = other.snapshots
	s.users = other.users
}

// ── Commodities y categorías ──────────────────────────────────────────────────

// CommodityRepo vista de catálogo sobre el Store.
type CommodityRepo struct{ s *Store }

// Commodities devuelve el repo de catálogo.
func (s *Store) Commodities() *CommodityRepo { return &CommodityRepo{s: s} }

func (r *CommodityRepo) Create(c *entity.Commodity) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.commodities[c.ID]; ok {
		return domain.ErrDuplicate
	}
	for _, existing := range r.s.commodities {
		if existing.Name == c.Name {
			return domain.ErrDuplicate
		}
	}
	now := time.Now()
	stored := *c
	stored.CreatedAt = now
	stored.UpdatedAt = now
	r.s.commodities[c.ID] = stored
	return nil
}

func (r *CommodityRepo) GetByID(id string) (*entity.Commodity, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if c, ok := r.s.commodities[id]; ok {
		out := c
		return &out, nil
	}
	return nil, nil
}

func (r *CommodityRepo) GetByName(name string) (*entity.Commodity, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.commodities {
		if c.Name == name {
			out := c
			return &out, nil
		}
	}
	return nil, nil
}

func (r *CommodityRepo) List(onlyActive bool) ([]*entity.Commodity, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.Commodity
	for _, c := range r.s.commodities {
		if onlyActive && !c.Active {
			continue
		}
		out := c
		list = append(list, &out)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

func (r *CommodityRepo) Deactivate(id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.commodities[id]
	if !ok {
		return domain.ErrNotFound
	}
	c.Active = false
	c.UpdatedAt = time.Now()
	r.s.commodities[id] = c
	return nil
}

func (r *CommodityRepo) CreateCategory(cat *entity.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.categories {
		if existing.Name == cat.Name {
			return domain.ErrDuplicate
		}
	}
	stored := *cat
	stored.CreatedAt = time.Now()
	r.s.categories[cat.ID] = stored
	return nil
}

func (r *CommodityRepo) ListCategories() ([]*entity.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.Category
	for _, c := range r.s.categories {
		out := c
		list = append(list, &out)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

// ── Actividades y dataSets ────────────────────────────────────────────────────

// ActivityRepo vista de actividades sobre el Store.
type ActivityRepo struct{ s *Store }

// Activities devuelve el repo de actividades.
func (s *Store) Activities() *ActivityRepo { return &ActivityRepo{s: s} }

func (r *ActivityRepo) Create(a *entity.CommodityActivity) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.activities[a.ID]; ok {
		return domain.ErrDuplicate
	}
	for _, existing := range r.s.activities {
		if existing.CommodityID == a.CommodityID && existing.ActivityType == a.ActivityType {
			return domain.ErrDuplicate
		}
	}
	r.s.activities[a.ID] = *a
	return nil
}

func (r *ActivityRepo) GetByCommodityAndType(commodityID, activityType string) (*entity.CommodityActivity, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, a := range r.s.activities {
		if a.CommodityID == commodityID && a.ActivityType == activityType {
			out := a
			return &out, nil
		}
	}
	return nil, nil
}

func (r *ActivityRepo) ListByCommodity(commodityID string) ([]*entity.CommodityActivity, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.CommodityActivity
	for _, a := range r.s.activities {
		if a.CommodityID == commodityID {
			out := a
			list = append(list, &out)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ActivityType < list[j].ActivityType })
	return list, nil
}

func (r *ActivityRepo) UpsertDataSet(ds *entity.DataSet) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.dataSets[ds.ID] = *ds
	return nil
}

func (r *ActivityRepo) GetDataSet(id string) (*entity.DataSet, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if ds, ok := r.s.dataSets[id]; ok {
		out := ds
		return &out, nil
	}
	return nil, nil
}

// ── Stock ─────────────────────────────────────────────────────────────────────

// StockRepo vista de stock sobre el Store.
type StockRepo struct{ s *Store }

// Stock devuelve el repo de stock.
func (s *Store) Stock() *StockRepo { return &StockRepo{s: s} }

func (r *StockRepo) Create(item *entity.StockItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.stockItems[item.ID]; ok {
		return domain.ErrDuplicate
	}
	stored := *item
	stored.UpdatedAt = time.Now()
	r.s.stockItems[item.ID] = stored
	return nil
}

func (r *StockRepo) FindByCommodity(commodityID string) ([]*entity.StockItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.StockItem
	for _, item := range r.s.stockItems {
		if item.CommodityID == commodityID {
			out := item
			list = append(list, &out)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (r *StockRepo) Update(item *entity.StockItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.stockItems[item.ID]; !ok {
		return domain.ErrNotFound
	}
	stored := *item
	stored.UpdatedAt = time.Now()
	r.s.stockItems[item.ID] = stored
	return nil
}

// ── Dispensaciones ────────────────────────────────────────────────────────────

// DispensingRepo vista de dispensaciones sobre el Store.
type DispensingRepo struct{ s *Store }

// Dispensings devuelve el repo de dispensaciones.
func (s *Store) Dispensings() *DispensingRepo { return &DispensingRepo{s: s} }

func (r *DispensingRepo) CreateDispensing(d *entity.Dispensing) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.dispensings[d.ID]; ok {
		return domain.ErrDuplicate
	}
	stored := *d
	stored.Items = nil // las líneas viven en su propia tabla
	r.s.dispensings[d.ID] = stored
	return nil
}

func (r *DispensingRepo) CreateItem(item *entity.DispensingItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.dispensings[item.DispensingID]; !ok {
		return domain.ErrNotFound
	}
	r.s.items[item.ID] = *item
	return nil
}

func (r *DispensingRepo) CountToPatientsBetween(from, to time.Time) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	count := 0
	for _, d := range r.s.dispensings {
		if d.ToFacility {
			continue
		}
		if !d.Created.Before(from) && !d.Created.After(to) {
			count++
		}
	}
	return count, nil
}

func (r *DispensingRepo) SumQuantityForCommodity(commodityID string, from, to time.Time) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	total := 0
	for _, item := range r.s.items {
		if item.CommodityID != commodityID {
			continue
		}
		d, ok := r.s.dispensings[item.DispensingID]
		if !ok {
			continue
		}
		if !d.Created.Before(from) && !d.Created.After(to) {
			total += item.Quantity
		}
	}
	return total, nil
}

// ── Snapshots ─────────────────────────────────────────────────────────────────

// SnapshotRepo vista de snapshots sobre el Store.
type SnapshotRepo struct{ s *Store }

// Snapshots devuelve el repo de snapshots.
func (s *Store) Snapshots() *SnapshotRepo { return &SnapshotRepo{s: s} }

func (r *SnapshotRepo) Create(snap *entity.CommoditySnapshot) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.snapshots {
		if existing.CommodityID == snap.CommodityID &&
			existing.ActivityID == snap.ActivityID &&
			existing.Day == snap.Day {
			return domain.ErrDuplicate
		}
	}
	stored := *snap
	stored.UpdatedAt = time.Now()
	r.s.snapshots[snap.ID] = stored
	return nil
}

func (r *SnapshotRepo) Update(snap *entity.CommoditySnapshot) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.snapshots[snap.ID]; !ok {
		return domain.ErrNotFound
	}
	stored := *snap
	stored.UpdatedAt = time.Now()
	r.s.snapshots[snap.ID] = stored
	return nil
}

func (r *SnapshotRepo) GetByKey(commodityID, activityID, day string) (*entity.CommoditySnapshot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, snap := range r.s.snapshots {
		if snap.CommodityID == commodityID && snap.ActivityID == activityID && snap.Day == day {
			out := snap
			return &out, nil
		}
	}
	return nil, nil
}

func (r *SnapshotRepo) ListUnsynced() ([]*entity.CommoditySnapshot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.CommoditySnapshot
	for _, snap := range r.s.snapshots {
		if !snap.Synced {
			out := snap
			list = append(list, &out)
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Day != list[j].Day {
			return list[i].Day < list[j].Day
		}
		if list[i].CommodityID != list[j].CommodityID {
			return list[i].CommodityID < list[j].CommodityID
		}
		return list[i].ActivityID < list[j].ActivityID
	})
	return list, nil
}

func (r *SnapshotRepo) MarkSynced(ids []string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	// Validar primero: o se marcan todos o ninguno.
	for _, id := range ids {
		if _, ok := r.s.snapshots[id]; !ok {
			return domain.ErrNotFound
		}
	}
	now := time.Now()
	for _, id := range ids {
		snap := r.s.snapshots[id]
		snap.Synced = true
		snap.UpdatedAt = now
		r.s.snapshots[id] = snap
	}
	return nil
}

// ── Usuarios ──────────────────────────────────────────────────────────────────

// UserRepo vista de usuarios sobre el Store.
type UserRepo struct{ s *Store }

// Users devuelve el repo de usuarios.
func (s *Store) Users() *UserRepo { return &UserRepo{s: s} }

func (r *UserRepo) Create(user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.users {
		if existing.Username == user.Username {
			return domain.ErrUsernameTaken
		}
	}
	r.s.users[user.ID] = *user
	return nil
}

func (r *UserRepo) GetByID(id string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if u, ok := r.s.users[id]; ok {
		out := u
		return &out, nil
	}
	return nil, nil
}

func (r *UserRepo) FindByUsername(username string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Username == username {
			out := u
			return &out, nil
		}
	}
	return nil, nil
}
