package etims

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Cafeteria-api/internal/application/dto"
	"github.com/jhoicas/Cafeteria-api/internal/domain"
	"github.com/jhoicas/Cafeteria-api/internal/domain/entity"
	domainetims "github.com/jhoicas/Cafeteria-api/internal/domain/etims"
	"github.com/jhoicas/Cafeteria-api/pkg/kra"
)

const (
	ItemKindRecipe     = "recipe"
	ItemKindIngredient = "ingredient"
)

// RegisterItem genera el código de artículo, lo registra con /saveItem y lo guarda en la
// receta o ingrediente. Las recetas se registran como producto terminado y los ingredientes
// como materia prima.
func (uc *UseCase) RegisterItem(ctx context.Context, userID string, in dto.RegisterItemRequest) (*dto.RegisterItemResponse, error) {
	if strings.TrimSpace(in.ItemClsCd) == "" {
		return nil, fmt.Errorf("%w: item_cls_cd es obligatorio", domain.ErrInvalidInput)
	}

	var (
		item        entity.TaxItem
		name        string
		price       decimal.Decimal
		productType string
	)
	switch in.Kind {
	case ItemKindRecipe:
		r, err := uc.recipeRepo.GetByID(ctx, in.ID)
		if err != nil {
			return nil, err
		}
		if r == nil {
			return nil, domain.ErrNotFound
		}
		if r.ItemCd != "" {
			return nil, fmt.Errorf("%w: la receta ya tiene el código %s", domain.ErrConflict, r.ItemCd)
		}
		item, name, price, productType = r.TaxItem, r.Name, r.Price, kra.ProductTypeFinished
		if item.QtyUnitCd == "" {
			item.QtyUnitCd = kra.QtyUnitPiece
		}
	case ItemKindIngredient:
		ing, err := uc.ingredientRepo.GetByID(ctx, in.ID)
		if err != nil {
			return nil, err
		}
		if ing == nil {
			return nil, domain.ErrNotFound
		}
		if ing.ItemCd != "" {
			return nil, fmt.Errorf("%w: el ingrediente ya tiene el código %s", domain.ErrConflict, ing.ItemCd)
		}
		item, name, price, productType = ing.TaxItem, ing.Name, ing.UnitCost, kra.ProductTypeRawMaterial
		if item.QtyUnitCd == "" {
			item.QtyUnitCd = qtyUnitFor(ing.Unit)
		}
	default:
		return nil, fmt.Errorf("%w: tipo de artículo %q", domain.ErrInvalidInput, in.Kind)
	}
	if item.PkgUnitCd == "" {
		item.PkgUnitCd = kra.PackagingNet
	}
	if item.TaxType == "" {
		item.TaxType = kra.TaxTypeB
	}
	if !kra.ValidTaxType(item.TaxType) {
		return nil, fmt.Errorf("%w: tipo de impuesto %q", domain.ErrInvalidInput, item.TaxType)
	}
	item.ItemClsCd = strings.TrimSpace(in.ItemClsCd)

	reg, err := uc.creds.Current(ctx)
	if err != nil {
		return nil, err
	}

	seq, err := uc.seqRepo.Next(ctx, domainetims.ScopeItem)
	if err != nil {
		return nil, err
	}
	code, err := kra.ItemCode(productType, item.PkgUnitCd, item.QtyUnitCd, seq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	item.ItemCd = code

	req := domainetims.ItemPayload(item, productType, name, price, reg.Credential(), domainetims.Operator{ID: userID})
	ex, callErr := uc.gateway.SaveItem(ctx, reg.Credential(), req)
	uc.recordTransaction(ctx, entity.KRATxItem, in.ID, req, ex, callErr)
	if callErr != nil {
		return nil, fmt.Errorf("registrar artículo %s: %w", code, callErr)
	}
	if !ex.Response.OK() {
		uc.log.Warn().Str("item_cd", code).Str("result_cd", ex.Response.ResultCd).Msg("etims: saveItem rechazado")
		return nil, fmt.Errorf("%w: artículo %s: [%s] %s", domain.ErrUpstream, code, ex.Response.ResultCd, ex.Response.ResultMsg)
	}

	if in.Kind == ItemKindRecipe {
		err = uc.recipeRepo.UpdateTaxItem(ctx, in.ID, item)
	} else {
		err = uc.ingredientRepo.UpdateTaxItem(ctx, in.ID, item)
	}
	if err != nil {
		uc.log.Error().Err(err).Str("item_cd", code).Str("id", in.ID).
			Msg("etims: artículo registrado en la KRA pero no se pudo guardar el código")
		return nil, err
	}

	uc.log.Info().Str("kind", in.Kind).Str("id", in.ID).Str("item_cd", code).Msg("etims: artículo registrado")
	return &dto.RegisterItemResponse{Kind: in.Kind, ID: in.ID, ItemCd: code, ItemClsCd: item.ItemClsCd}, nil
}

// qtyUnitFor traduce la unidad local del ingrediente a la unidad de cantidad KRA.
func qtyUnitFor(unit string) string {
	switch strings.ToLower(strings.TrimSpace(unit)) {
	case "kg", "kilo", "kilogramo":
		return kra.QtyUnitKg
	case "g", "gr", "gramo":
		return kra.QtyUnitGram
	case "l", "lt", "litro":
		return kra.QtyUnitLitre
	case "ml":
		return kra.QtyUnitMl
	case "paquete", "pack":
		return kra.QtyUnitPack
	}
	return kra.QtyUnitPiece
}
