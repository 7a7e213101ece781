package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Cafeteria-api/internal/application/dto"
	"github.com/jhoicas/Cafeteria-api/internal/domain"
	"github.com/jhoicas/Cafeteria-api/internal/domain/entity"
	"github.com/jhoicas/Cafeteria-api/internal/domain/repository"
	"github.com/jhoicas/Cafeteria-api/pkg/kra"
)

// IngredientUseCase casos de uso para ingredientes. El stock inicial se fija al crear; después
// solo cambia con movimientos de inventario.
type IngredientUseCase struct {
	repo         repository.IngredientRepository
	supplierRepo repository.SupplierRepository
}

func NewIngredientUseCase(repo repository.IngredientRepository, supplierRepo repository.SupplierRepository) *IngredientUseCase {
	return &IngredientUseCase{repo: repo, supplierRepo: supplierRepo}
}

// taxItemFrom toma del request solo lo que el usuario puede fijar: tipo de impuesto, unidades
// y clasificación. El código de artículo lo asigna el registro en eTIMS.
func taxItemFrom(in dto.TaxItemDTO, current entity.TaxItem) (entity.TaxItem, error) {
	t := current
	if in.TaxType != "" {
		if !kra.ValidTaxType(in.TaxType) {
			return t, fmt.Errorf("%w: tipo de impuesto %q", domain.ErrInvalidInput, in.TaxType)
		}
		t.TaxType = in.TaxType
	}
	if t.TaxType == "" {
		t.TaxType = kra.TaxTypeB
	}
	if in.PkgUnitCd != "" {
		t.PkgUnitCd = in.PkgUnitCd
	}
	if in.QtyUnitCd != "" {
		t.QtyUnitCd = in.QtyUnitCd
	}
	if in.ItemClsCd != "" && t.ItemCd == "" {
		t.ItemClsCd = in.ItemClsCd
	}
	return t, nil
}

func (uc *IngredientUseCase) checkSupplier(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	s, err := uc.supplierRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if s == nil {
		return fmt.Errorf("%w: proveedor %s no existe", domain.ErrInvalidInput, id)
	}
	return nil
}

func (uc *IngredientUseCase) Create(ctx context.Context, in dto.IngredientRequest) (*dto.IngredientResponse, error) {
	if in.StockQty.IsNegative() || in.ReorderLevel.IsNegative() || in.UnitCost.IsNegative() {
		return nil, fmt.Errorf("%w: cantidades y costos no pueden ser negativos", domain.ErrInvalidInput)
	}
	if err := uc.checkSupplier(ctx, in.SupplierID); err != nil {
		return nil, err
	}
	item, err := taxItemFrom(in.TaxItemDTO, entity.TaxItem{})
	if err != nil {
		return nil, err
	}
	now := time.Now()
	ing := &entity.Ingredient{
		ID:           uuid.New().String(),
		Name:         strings.TrimSpace(in.Name),
		Unit:         in.Unit,
		StockQty:     in.StockQty,
		ReorderLevel: in.ReorderLevel,
		UnitCost:     in.UnitCost,
		SupplierID:   in.SupplierID,
		TaxItem:      item,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(ctx, ing); err != nil {
		return nil, err
	}
	return toIngredientResponse(ing), nil
}

func (uc *IngredientUseCase) GetByID(ctx context.Context, id string) (*dto.IngredientResponse, error) {
	ing, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ing == nil {
		return nil, domain.ErrNotFound
	}
	return toIngredientResponse(ing), nil
}

func (uc *IngredientUseCase) List(ctx context.Context, page dto.PageRequest) ([]dto.IngredientResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.IngredientResponse, 0, len(list))
	for _, ing := range list {
		out = append(out, *toIngredientResponse(ing))
	}
	return out, nil
}

// Update cambia los datos del ingrediente; StockQty del request se ignora.
func (uc *IngredientUseCase) Update(ctx context.Context, id string, in dto.IngredientRequest) (*dto.IngredientResponse, error) {
	ing, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ing == nil {
		return nil, domain.ErrNotFound
	}
	if in.ReorderLevel.IsNegative() || in.UnitCost.IsNegative() {
		return nil, fmt.Errorf("%w: cantidades y costos no pueden ser negativos", domain.ErrInvalidInput)
	}
	if err := uc.checkSupplier(ctx, in.SupplierID); err != nil {
		return nil, err
	}
	item, err := taxItemFrom(in.TaxItemDTO, ing.TaxItem)
	if err != nil {
		return nil, err
	}
	ing.Name = strings.TrimSpace(in.Name)
	ing.Unit = in.Unit
	ing.ReorderLevel = in.ReorderLevel
	ing.UnitCost = in.UnitCost
	ing.SupplierID = in.SupplierID
	ing.TaxItem = item
	ing.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, ing); err != nil {
		return nil, err
	}
	return toIngredientResponse(ing), nil
}

func toTaxItemDTO(t entity.TaxItem) dto.TaxItemDTO {
	return dto.TaxItemDTO{ItemCd: t.ItemCd, ItemClsCd: t.ItemClsCd, TaxType: t.TaxType, PkgUnitCd: t.PkgUnitCd, QtyUnitCd: t.QtyUnitCd}
}

func toIngredientResponse(ing *entity.Ingredient) *dto.IngredientResponse {
	return &dto.IngredientResponse{
		ID:            ing.ID,
		Name:          ing.Name,
		Unit:          ing.Unit,
		StockQty:      ing.StockQty,
		ReorderLevel:  ing.ReorderLevel,
		UnitCost:      ing.UnitCost,
		SupplierID:    ing.SupplierID,
		KRARegistered: ing.Registered(),
		TaxItemDTO:    toTaxItemDTO(ing.TaxItem),
	}
}
