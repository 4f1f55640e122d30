package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/barstock-api/internal/application/dto"
	"github.com/jhoicas/barstock-api/internal/application/inventory"
	"github.com/jhoicas/barstock-api/internal/domain"
	"github.com/jhoicas/barstock-api/internal/domain/entity"
	"github.com/jhoicas/barstock-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria para los puertos de persistencia
// ──────────────────────────────────────────────────────────────────────────────

type fakeProductRepo struct {
	products map[string]*entity.Product
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: map[string]*entity.Product{}}
}

func (r *fakeProductRepo) Create(p *entity.Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *fakeProductRepo) GetByID(id string) (*entity.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProductRepo) GetByOrganizationAndName(organizationID, name string) (*entity.Product, error) {
	for _, p := range r.products {
		if p.OrganizationID == organizationID && p.Name == name {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeProductRepo) Update(p *entity.Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *fakeProductRepo) SetActive(id string, active bool) error {
	p, ok := r.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.Active = active
	return nil
}

func (r *fakeProductRepo) ListByOrganization(organizationID string, limit, offset int) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.products {
		if p.OrganizationID == organizationID {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

type fakeInventoryRepo struct {
	rows map[string]*entity.Inventory // clave organizationID + "|" + productID
}

func newFakeInventoryRepo() *fakeInventoryRepo {
	return &fakeInventoryRepo{rows: map[string]*entity.Inventory{}}
}

func invKey(organizationID, productID string) string {
	return organizationID + "|" + productID
}

func (r *fakeInventoryRepo) Get(organizationID, productID string) (*entity.Inventory, error) {
	inv, ok := r.rows[invKey(organizationID, productID)]
	if !ok {
		return nil, nil
	}
	cp := *inv
	return &cp, nil
}

func (r *fakeInventoryRepo) GetForUpdate(organizationID, productID string) (*entity.Inventory, error) {
	return r.Get(organizationID, productID)
}

func (r *fakeInventoryRepo) CreateIfAbsent(inv *entity.Inventory) error {
	key := invKey(inv.OrganizationID, inv.ProductID)
	if _, ok := r.rows[key]; ok {
		return nil
	}
	if inv.ID == "" {
		inv.ID = uuid.New().String()
	}
	inv.UpdatedAt = time.Now()
	cp := *inv
	r.rows[key] = &cp
	return nil
}

func (r *fakeInventoryRepo) ListByOrganization(organizationID string) ([]*entity.Inventory, error) {
	var out []*entity.Inventory
	for _, inv := range r.rows {
		if inv.OrganizationID == organizationID {
			cp := *inv
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeInventoryRepo) Upsert(inv *entity.Inventory) error {
	if inv.ID == "" {
		inv.ID = uuid.New().String()
	}
	inv.UpdatedAt = time.Now()
	cp := *inv
	r.rows[invKey(inv.OrganizationID, inv.ProductID)] = &cp
	return nil
}

type fakeLedgerRepo struct {
	entries []*entity.InventoryTransaction
}

func (r *fakeLedgerRepo) Create(t *entity.InventoryTransaction) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	cp := *t
	r.entries = append(r.entries, &cp)
	return nil
}

func (r *fakeLedgerRepo) ListByInventory(inventoryID string, limit, offset int) ([]*entity.InventoryTransaction, error) {
	var filtered []*entity.InventoryTransaction
	for _, e := range r.entries {
		if e.InventoryID == inventoryID {
			filtered = append(filtered, e)
		}
	}
	// más recientes primero (orden de inserción invertido)
	var out []*entity.InventoryTransaction
	for i := len(filtered) - 1; i >= 0; i-- {
		out = append(out, filtered[i])
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeLedgerRepo) SumDeltas(inventoryID string) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, e := range r.entries {
		if e.InventoryID == inventoryID {
			sum = sum.Add(e.QuantityDelta)
		}
	}
	return sum, nil
}

func (r *fakeLedgerRepo) byInventory(inventoryID string) []*entity.InventoryTransaction {
	var out []*entity.InventoryTransaction
	for _, e := range r.entries {
		if e.InventoryID == inventoryID {
			out = append(out, e)
		}
	}
	return out
}

// fakeTxRunner ejecuta el callback directamente contra los fakes (sin tx real).
type fakeTxRunner struct {
	inv    repository.InventoryRepository
	ledger repository.InventoryTransactionRepository
}

func (r *fakeTxRunner) Run(ctx context.Context, fn func(
	invRepo repository.InventoryRepository,
	ledgerRepo repository.InventoryTransactionRepository,
) error) error {
	return fn(r.inv, r.ledger)
}

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

const (
	orgID      = "org-1"
	otherOrgID = "org-2"
	testUserID = "user-1"
)

type testEnv struct {
	uc       *inventory.StockUseCase
	products *fakeProductRepo
	invRepo  *fakeInventoryRepo
	ledger   *fakeLedgerRepo
}

func newTestEnv() *testEnv {
	products := newFakeProductRepo()
	invRepo := newFakeInventoryRepo()
	ledger := &fakeLedgerRepo{}
	txRunner := &fakeTxRunner{inv: invRepo, ledger: ledger}
	return &testEnv{
		uc:       inventory.NewStockUseCase(txRunner, products, invRepo, ledger),
		products: products,
		invRepo:  invRepo,
		ledger:   ledger,
	}
}

func (e *testEnv) seedProduct(id string, active bool, basePrice int64) *entity.Product {
	p := &entity.Product{
		ID:             id,
		OrganizationID: orgID,
		Name:           "Producto " + id,
		BasePrice:      decimal.NewFromInt(basePrice),
		Active:         active,
	}
	e.products.products[id] = p
	return p
}

func dec(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

func requireDecimal(t *testing.T, expected, actual decimal.Decimal, msg string) {
	t.Helper()
	require.Truef(t, expected.Equal(actual), "%s: esperado %s, recibido %s", msg, expected, actual)
}

// ──────────────────────────────────────────────────────────────────────────────
// AddStock
// ──────────────────────────────────────────────────────────────────────────────

func TestAddStock_CreaInventarioSiNoExiste(t *testing.T) {
	env := newTestEnv()
	env.seedProduct("prod-5", true, 2)

	out, err := env.uc.AddStock(context.Background(), dto.AddStockRequest{
		ProductID: "prod-5", Amount: dec(10), Notes: "entrada inicial",
	}, testUserID, orgID)
	require.NoError(t, err)
	requireDecimal(t, dec(10), out.Quantity, "cantidad tras primer Add")
	requireDecimal(t, dec(2), out.EffectivePrice, "precio efectivo = precio base")
	assert.NotEmpty(t, out.ID, "el upsert debe asignar ID a la fila")

	entries := env.ledger.byInventory(out.ID)
	require.Len(t, entries, 1, "exactamente una transacción por mutación")
	assert.Equal(t, entity.TransactionTypeADD, entries[0].Type)
	requireDecimal(t, dec(10), entries[0].QuantityDelta, "delta del ADD")
	requireDecimal(t, dec(10), entries[0].ResultingQuantity, "snapshot post-mutación")
	requireDecimal(t, dec(2), entries[0].UnitPrice, "precio unitario snapshot")
	assert.Equal(t, testUserID, entries[0].UserID)
}

// racingInventoryRepo simula la carrera de la primera entrada: la lectura
// inicial no ve fila, y un competidor confirma su Add(10) antes de que esta
// transacción inserte la suya.
type racingInventoryRepo struct {
	*fakeInventoryRepo
	ledger *fakeLedgerRepo
	raced  bool
}

func (r *racingInventoryRepo) GetForUpdate(organizationID, productID string) (*entity.Inventory, error) {
	if !r.raced {
		r.raced = true
		competitor := &entity.Inventory{
			OrganizationID: organizationID,
			ProductID:      productID,
			Quantity:       dec(10),
		}
		if err := r.fakeInventoryRepo.Upsert(competitor); err != nil {
			return nil, err
		}
		if err := r.ledger.Create(&entity.InventoryTransaction{
			InventoryID:       competitor.ID,
			Type:              entity.TransactionTypeADD,
			QuantityDelta:     dec(10),
			ResultingQuantity: dec(10),
			UnitPrice:         dec(2),
			UserID:            "user-2",
			CreatedAt:         time.Now(),
		}); err != nil {
			return nil, err
		}
		return nil, nil
	}
	return r.fakeInventoryRepo.GetForUpdate(organizationID, productID)
}

func TestAddStock_PrimeraEntradaConcurrente_NoPierdeNinguna(t *testing.T) {
	products := newFakeProductRepo()
	base := newFakeInventoryRepo()
	ledger := &fakeLedgerRepo{}
	racing := &racingInventoryRepo{fakeInventoryRepo: base, ledger: ledger}
	uc := inventory.NewStockUseCase(&fakeTxRunner{inv: racing, ledger: ledger}, products, racing, ledger)
	products.products["prod-5"] = &entity.Product{
		ID: "prod-5", OrganizationID: orgID, Name: "Producto prod-5",
		BasePrice: dec(2), Active: true,
	}

	// Dos Add(10) simultáneos sobre un producto sin fila de inventario:
	// ambos deltas deben sobrevivir, nunca pisarse.
	out, err := uc.AddStock(context.Background(), dto.AddStockRequest{ProductID: "prod-5", Amount: dec(10)}, testUserID, orgID)
	require.NoError(t, err)
	requireDecimal(t, dec(20), out.Quantity, "dos primeras entradas de 10 suman 20")

	inv, err := base.Get(orgID, "prod-5")
	require.NoError(t, err)
	requireDecimal(t, dec(20), inv.Quantity, "cantidad materializada")

	sum, err := ledger.SumDeltas(inv.ID)
	require.NoError(t, err)
	requireDecimal(t, dec(20), sum, "suma del ledger = cantidad")
	entries := ledger.byInventory(inv.ID)
	require.Len(t, entries, 2)
	requireDecimal(t, dec(20), entries[1].ResultingQuantity, "snapshot de la entrada perdedora sobre la fila ya bloqueada")
}

func TestAddStock_AcumulaEntradas(t *testing.T) {
	env := newTestEnv()
	env.seedProduct("prod-5", true, 2)
	ctx := context.Background()

	for _, amount := range []int64{3, 7, 5} {
		_, err := env.uc.AddStock(ctx, dto.AddStockRequest{ProductID: "prod-5", Amount: dec(amount)}, testUserID, orgID)
		require.NoError(t, err)
	}
	inv, err := env.invRepo.Get(orgID, "prod-5")
	require.NoError(t, err)
	requireDecimal(t, dec(15), inv.Quantity, "cantidad final = suma de entradas")
	require.Len(t, env.ledger.byInventory(inv.ID), 3)
}

func TestAddStock_MontoInvalido_BadRequest(t *testing.T) {
	env := newTestEnv()
	env.seedProduct("prod-5", true, 2)
	ctx := context.Background()

	for _, amount := range []decimal.Decimal{decimal.Zero, dec(-1)} {
		_, err := env.uc.AddStock(ctx, dto.AddStockRequest{ProductID: "prod-5", Amount: amount}, testUserID, orgID)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	}
	assert.Empty(t, env.ledger.entries, "una precondición fallida no escribe nada")
}

func TestAddStock_ProductoInactivo_Gone(t *testing.T) {
	env := newTestEnv()
	env.seedProduct("prod-5", false, 2)

	_, err := env.uc.AddStock(context.Background(), dto.AddStockRequest{ProductID: "prod-5", Amount: dec(1)}, testUserID, orgID)
	assert.ErrorIs(t, err, domain.ErrProductGone)
	assert.Empty(t, env.ledger.entries)
}

func TestAddStock_ProductoDeOtraOrganizacion_NotFound(t *testing.T) {
	env := newTestEnv()
	p := env.seedProduct("prod-5", true, 2)
	p.OrganizationID = otherOrgID

	// Aislación de tenants: se responde como ausencia, no como prohibido.
	_, err := env.uc.AddStock(context.Background(), dto.AddStockRequest{ProductID: "prod-5", Amount: dec(1)}, testUserID, orgID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAddStock_ProductoInexistente_NotFound(t *testing.T) {
	env := newTestEnv()
	_, err := env.uc.AddStock(context.Background(), dto.AddStockRequest{ProductID: "no-existe", Amount: dec(1)}, testUserID, orgID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// RemoveStock
// ──────────────────────────────────────────────────────────────────────────────

func TestRemoveStock_EscenarioCompleto(t *testing.T) {
	env := newTestEnv()
	env.seedProduct("prod-5", true, 2)
	ctx := context.Background()

	// Add 10 sobre inventario vacío
	out, err := env.uc.AddStock(ctx, dto.AddStockRequest{ProductID: "prod-5", Amount: dec(10)}, testUserID, orgID)
	require.NoError(t, err)
	requireDecimal(t, dec(10), out.Quantity, "tras Add")

	// Remove 5
	out, err = env.uc.RemoveStock(ctx, dto.RemoveStockRequest{ProductID: "prod-5", Amount: dec(5)}, testUserID, orgID)
	require.NoError(t, err)
	requireDecimal(t, dec(5), out.Quantity, "tras Remove")

	entries := env.ledger.byInventory(out.ID)
	require.Len(t, entries, 2)
	assert.Equal(t, entity.TransactionTypeREMOVE, entries[1].Type)
	requireDecimal(t, dec(-5), entries[1].QuantityDelta, "delta del REMOVE")
	requireDecimal(t, dec(5), entries[1].ResultingQuantity, "snapshot tras REMOVE")

	// Remove 100: stock insuficiente, cantidad intacta, sin entrada nueva
	_, err = env.uc.RemoveStock(ctx, dto.RemoveStockRequest{ProductID: "prod-5", Amount: dec(100)}, testUserID, orgID)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	inv, err := env.invRepo.Get(orgID, "prod-5")
	require.NoError(t, err)
	requireDecimal(t, dec(5), inv.Quantity, "cantidad intacta tras fallo")
	require.Len(t, env.ledger.byInventory(inv.ID), 2, "el fallo no anexa al ledger")
}

func TestRemoveStock_SinInventario_NotFound(t *testing.T) {
	env := newTestEnv()
	env.seedProduct("prod-5", true, 2)

	// No se puede sacar stock que nunca entró.
	_, err := env.uc.RemoveStock(context.Background(), dto.RemoveStockRequest{ProductID: "prod-5", Amount: dec(1)}, testUserID, orgID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRemoveStock_MontoInvalido_BadRequest(t *testing.T) {
	env := newTestEnv()
	env.seedProduct("prod-5", true, 2)

	_, err := env.uc.RemoveStock(context.Background(), dto.RemoveStockRequest{ProductID: "prod-5", Amount: decimal.Zero}, testUserID, orgID)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRemoveStock_ProductoInactivo_Gone(t *testing.T) {
	env := newTestEnv()
	env.seedProduct("prod-5", true, 2)
	ctx := context.Background()
	_, err := env.uc.AddStock(ctx, dto.AddStockRequest{ProductID: "prod-5", Amount: dec(10)}, testUserID, orgID)
	require.NoError(t, err)

	// El producto se retira: su stock ya no se puede mover aunque exista fila.
	require.NoError(t, env.products.SetActive("prod-5", false))
	_, err = env.uc.RemoveStock(ctx, dto.RemoveStockRequest{ProductID: "prod-5", Amount: dec(1)}, testUserID, orgID)
	assert.ErrorIs(t, err, domain.ErrProductGone)
}

// ──────────────────────────────────────────────────────────────────────────────
// AdjustStock
// ──────────────────────────────────────────────────────────────────────────────

func TestAdjustStock_RegistraDeltaConSigno(t *testing.T) {
	env := newTestEnv()
	env.seedProduct("prod-5", true, 2)
	ctx := context.Background()
	_, err := env.uc.AddStock(ctx, dto.AddStockRequest{ProductID: "prod-5", Amount: dec(5)}, testUserID, orgID)
	require.NoError(t, err)

	// Inventario en 5, target 8 → delta +3
	out, err := env.uc.AdjustStock(ctx, dto.AdjustStockRequest{ProductID: "prod-5", TargetQuantity: dec(8), Notes: "conteo físico"}, testUserID, orgID)
	require.NoError(t, err)
	requireDecimal(t, dec(8), out.Quantity, "cantidad tras Adjust")

	entries := env.ledger.byInventory(out.ID)
	require.Len(t, entries, 2)
	last := entries[len(entries)-1]
	assert.Equal(t, entity.TransactionTypeADJUST, last.Type)
	requireDecimal(t, dec(3), last.QuantityDelta, "delta = target - actual")
	requireDecimal(t, dec(8), last.ResultingQuantity, "snapshot = target")
}

func TestAdjustStock_IdempotenteEnResultado(t *testing.T) {
	env := newTestEnv()
	env.seedProduct("prod-5", true, 2)
	ctx := context.Background()
	_, err := env.uc.AddStock(ctx, dto.AddStockRequest{ProductID: "prod-5", Amount: dec(5)}, testUserID, orgID)
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		out, err := env.uc.AdjustStock(ctx, dto.AdjustStockRequest{ProductID: "prod-5", TargetQuantity: dec(8)}, testUserID, orgID)
		require.NoError(t, err)
		requireDecimal(t, dec(8), out.Quantity, "misma cantidad final en ambos ajustes")
	}
	inv, err := env.invRepo.Get(orgID, "prod-5")
	require.NoError(t, err)
	entries := env.ledger.byInventory(inv.ID)
	// El segundo ajuste deja constancia igual, con delta 0.
	require.Len(t, entries, 3)
	requireDecimal(t, decimal.Zero, entries[2].QuantityDelta, "segundo ajuste con delta 0")
}

func TestAdjustStock_TargetNegativo_BadRequest(t *testing.T) {
	env := newTestEnv()
	env.seedProduct("prod-5", true, 2)

	_, err := env.uc.AdjustStock(context.Background(), dto.AdjustStockRequest{ProductID: "prod-5", TargetQuantity: dec(-1)}, testUserID, orgID)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAdjustStock_SinInventario_NotFound(t *testing.T) {
	env := newTestEnv()
	env.seedProduct("prod-5", true, 2)

	_, err := env.uc.AdjustStock(context.Background(), dto.AdjustStockRequest{ProductID: "prod-5", TargetQuantity: dec(8)}, testUserID, orgID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAdjustStock_PriceOverrideSoloHaciaAdelante(t *testing.T) {
	env := newTestEnv()
	env.seedProduct("prod-5", true, 2)
	ctx := context.Background()
	_, err := env.uc.AddStock(ctx, dto.AddStockRequest{ProductID: "prod-5", Amount: dec(5)}, testUserID, orgID)
	require.NoError(t, err)

	override := dec(7)
	out, err := env.uc.AdjustStock(ctx, dto.AdjustStockRequest{ProductID: "prod-5", TargetQuantity: dec(5), PriceOverride: &override}, testUserID, orgID)
	require.NoError(t, err)
	requireDecimal(t, dec(7), out.EffectivePrice, "el override pasa a ser el precio efectivo")

	entries := env.ledger.byInventory(out.ID)
	require.Len(t, entries, 2)
	// El snapshot del ADD previo es inmutable; el del ADJUST ya usa el override.
	requireDecimal(t, dec(2), entries[0].UnitPrice, "snapshot pasado intacto")
	requireDecimal(t, dec(7), entries[1].UnitPrice, "snapshot nuevo con override")

	// Un Add posterior también usa el precio ajustado.
	out, err = env.uc.AddStock(ctx, dto.AddStockRequest{ProductID: "prod-5", Amount: dec(1)}, testUserID, orgID)
	require.NoError(t, err)
	requireDecimal(t, dec(7), out.EffectivePrice, "precio ajustado persiste")
}

// ──────────────────────────────────────────────────────────────────────────────
// Propiedades del ledger
// ──────────────────────────────────────────────────────────────────────────────

func TestLedger_SnapshotsCoherentesConLosDeltas(t *testing.T) {
	env := newTestEnv()
	env.seedProduct("prod-5", true, 2)
	ctx := context.Background()

	_, err := env.uc.AddStock(ctx, dto.AddStockRequest{ProductID: "prod-5", Amount: dec(10)}, testUserID, orgID)
	require.NoError(t, err)
	_, err = env.uc.RemoveStock(ctx, dto.RemoveStockRequest{ProductID: "prod-5", Amount: dec(4)}, testUserID, orgID)
	require.NoError(t, err)
	_, err = env.uc.AdjustStock(ctx, dto.AdjustStockRequest{ProductID: "prod-5", TargetQuantity: dec(9)}, testUserID, orgID)
	require.NoError(t, err)
	_, err = env.uc.RemoveStock(ctx, dto.RemoveStockRequest{ProductID: "prod-5", Amount: dec(9)}, testUserID, orgID)
	require.NoError(t, err)

	inv, err := env.invRepo.Get(orgID, "prod-5")
	require.NoError(t, err)

	// Reproducir el ledger en orden de commit: cada snapshot debe coincidir
	// con la suma acumulada, y la suma total con la cantidad materializada.
	running := decimal.Zero
	for _, e := range env.ledger.byInventory(inv.ID) {
		running = running.Add(e.QuantityDelta)
		requireDecimal(t, running, e.ResultingQuantity, "snapshot = suma acumulada")
		assert.False(t, e.ResultingQuantity.IsNegative(), "la cantidad nunca es negativa")
	}
	requireDecimal(t, running, inv.Quantity, "cantidad materializada = suma del ledger")
}

// ──────────────────────────────────────────────────────────────────────────────
// Proyecciones
// ──────────────────────────────────────────────────────────────────────────────

func TestGetByOrganization_ExcluyeProductosInactivos(t *testing.T) {
	env := newTestEnv()
	env.seedProduct("prod-10", true, 1)
	env.seedProduct("prod-11", true, 1)
	ctx := context.Background()
	_, err := env.uc.AddStock(ctx, dto.AddStockRequest{ProductID: "prod-10", Amount: dec(1)}, testUserID, orgID)
	require.NoError(t, err)
	_, err = env.uc.AddStock(ctx, dto.AddStockRequest{ProductID: "prod-11", Amount: dec(1)}, testUserID, orgID)
	require.NoError(t, err)

	// prod-11 se retira: su fila se conserva pero deja de listarse.
	require.NoError(t, env.products.SetActive("prod-11", false))

	list, err := env.uc.GetByOrganization(ctx, orgID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "prod-10", list[0].ProductID)
}

func TestGetByOrganization_NoFiltraPorOtraOrganizacion(t *testing.T) {
	env := newTestEnv()
	env.seedProduct("prod-10", true, 1)
	ctx := context.Background()
	_, err := env.uc.AddStock(ctx, dto.AddStockRequest{ProductID: "prod-10", Amount: dec(1)}, testUserID, orgID)
	require.NoError(t, err)

	list, err := env.uc.GetByOrganization(ctx, otherOrgID)
	require.NoError(t, err)
	assert.Empty(t, list, "otra organización no ve este inventario")
}

func TestGetByProductAndOrganization_Proyeccion(t *testing.T) {
	env := newTestEnv()
	env.seedProduct("prod-10", true, 3)
	ctx := context.Background()
	_, err := env.uc.AddStock(ctx, dto.AddStockRequest{ProductID: "prod-10", Amount: dec(4)}, testUserID, orgID)
	require.NoError(t, err)

	out, err := env.uc.GetByProductAndOrganization(ctx, "prod-10", orgID)
	require.NoError(t, err)
	assert.Equal(t, "Producto prod-10", out.ProductName)
	requireDecimal(t, dec(4), out.Quantity, "cantidad proyectada")
	requireDecimal(t, dec(3), out.EffectivePrice, "precio efectivo = base sin override")
	assert.NotEmpty(t, out.LastUpdated)
}

func TestGetByProductAndOrganization_Inactivo_Gone(t *testing.T) {
	env := newTestEnv()
	env.seedProduct("prod-11", true, 1)
	ctx := context.Background()
	_, err := env.uc.AddStock(ctx, dto.AddStockRequest{ProductID: "prod-11", Amount: dec(1)}, testUserID, orgID)
	require.NoError(t, err)
	require.NoError(t, env.products.SetActive("prod-11", false))

	_, err = env.uc.GetByProductAndOrganization(ctx, "prod-11", orgID)
	assert.ErrorIs(t, err, domain.ErrProductGone)
}

func TestGetByProductAndOrganization_SinFila_NotFound(t *testing.T) {
	env := newTestEnv()
	env.seedProduct("prod-10", true, 1)

	_, err := env.uc.GetByProductAndOrganization(context.Background(), "prod-10", orgID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Ledger: listado y reconciliación
// ──────────────────────────────────────────────────────────────────────────────

func TestListTransactions_MasRecientesPrimero(t *testing.T) {
	env := newTestEnv()
	env.seedProduct("prod-5", true, 2)
	ctx := context.Background()
	_, err := env.uc.AddStock(ctx, dto.AddStockRequest{ProductID: "prod-5", Amount: dec(10)}, testUserID, orgID)
	require.NoError(t, err)
	_, err = env.uc.RemoveStock(ctx, dto.RemoveStockRequest{ProductID: "prod-5", Amount: dec(3)}, testUserID, orgID)
	require.NoError(t, err)

	list, err := env.uc.ListTransactions(ctx, "prod-5", orgID, 20, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, entity.TransactionTypeREMOVE, list[0].Type, "la más reciente primero")
	assert.Equal(t, entity.TransactionTypeADD, list[1].Type)
}

func TestListTransactions_ProductoInactivo_Permitido(t *testing.T) {
	env := newTestEnv()
	env.seedProduct("prod-5", true, 2)
	ctx := context.Background()
	_, err := env.uc.AddStock(ctx, dto.AddStockRequest{ProductID: "prod-5", Amount: dec(10)}, testUserID, orgID)
	require.NoError(t, err)
	require.NoError(t, env.products.SetActive("prod-5", false))

	// El historial sigue siendo consultable: existe para auditoría.
	list, err := env.uc.ListTransactions(ctx, "prod-5", orgID, 20, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestReconcile_Consistente(t *testing.T) {
	env := newTestEnv()
	env.seedProduct("prod-5", true, 2)
	ctx := context.Background()
	_, err := env.uc.AddStock(ctx, dto.AddStockRequest{ProductID: "prod-5", Amount: dec(10)}, testUserID, orgID)
	require.NoError(t, err)

	out, err := env.uc.Reconcile(ctx, "prod-5", orgID, false)
	require.NoError(t, err)
	assert.True(t, out.Consistent)
	assert.False(t, out.Repaired)
	requireDecimal(t, out.StoredQuantity, out.LedgerQuantity, "cacheada = ledger")
}

func TestReconcile_DetectaYReparaCorrupcion(t *testing.T) {
	env := newTestEnv()
	env.seedProduct("prod-5", true, 2)
	ctx := context.Background()
	_, err := env.uc.AddStock(ctx, dto.AddStockRequest{ProductID: "prod-5", Amount: dec(10)}, testUserID, orgID)
	require.NoError(t, err)

	// Corromper la cantidad materializada directamente en el store.
	row := env.invRepo.rows[invKey(orgID, "prod-5")]
	row.Quantity = dec(42)

	out, err := env.uc.Reconcile(ctx, "prod-5", orgID, false)
	require.NoError(t, err)
	assert.False(t, out.Consistent)
	assert.False(t, out.Repaired)
	requireDecimal(t, dec(42), out.StoredQuantity, "reporta la cantidad corrupta")
	requireDecimal(t, dec(10), out.LedgerQuantity, "el ledger es la fuente de verdad")

	out, err = env.uc.Reconcile(ctx, "prod-5", orgID, true)
	require.NoError(t, err)
	assert.True(t, out.Repaired)

	inv, err := env.invRepo.Get(orgID, "prod-5")
	require.NoError(t, err)
	requireDecimal(t, dec(10), inv.Quantity, "cantidad reescrita desde el ledger")
	// La reparación corrige la vista materializada sin anexar al ledger.
	require.Len(t, env.ledger.byInventory(inv.ID), 1)
}

func TestReconcile_SinInventario_NotFound(t *testing.T) {
	env := newTestEnv()
	env.seedProduct("prod-5", true, 2)

	_, err := env.uc.Reconcile(context.Background(), "prod-5", orgID, false)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
