package etims

import (
	"context"
	"fmt"

	"github.com/jhoicas/Cafeteria-api/internal/application/dto"
	"github.com/jhoicas/Cafeteria-api/internal/domain"
	"github.com/jhoicas/Cafeteria-api/pkg/kra"
)

const (
	cacheKeyItemClasses = "item_classes"
	cacheKeyCustomer    = "customer:"

	// itemClassesSince pide el catálogo completo.
	itemClassesSince = "20180520000000"
)

// ItemClassifications catálogo de clasificaciones de artículos vigentes.
func (uc *UseCase) ItemClassifications(ctx context.Context) ([]dto.ItemClassResponse, error) {
	var classes []kra.ItemClass
	if !uc.cacheGet(ctx, cacheKeyItemClasses, &classes) {
		reg, err := uc.creds.Current(ctx)
		if err != nil {
			return nil, err
		}
		ex, err := uc.gateway.SelectItemClasses(ctx, reg.Credential(), kra.ItemClassRequest{
			Tin: reg.TIN, BhfID: reg.BhfID, LastReqDt: itemClassesSince,
		})
		if err != nil {
			return nil, err
		}
		if !ex.Response.OK() {
			return nil, fmt.Errorf("%w: [%s] %s", domain.ErrUpstream, ex.Response.ResultCd, ex.Response.ResultMsg)
		}
		var data kra.ItemClassData
		if err := ex.Response.DecodeData(&data); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamTransport, err)
		}
		classes = data.ItemClsList
		uc.cacheSet(ctx, cacheKeyItemClasses, classes)
	}

	out := make([]dto.ItemClassResponse, 0, len(classes))
	for _, c := range classes {
		if c.UseYn == "N" {
			continue
		}
		out = append(out, dto.ItemClassResponse{Code: c.ItemClsCd, Name: c.ItemClsNm, Level: c.ItemClsLvl, TaxType: c.TaxTyCd})
	}
	return out, nil
}

// LookupCustomer consulta un contribuyente por PIN. Sin resultados devuelve domain.ErrNotFound.
func (uc *UseCase) LookupCustomer(ctx context.Context, pin string) (*dto.TaxpayerResponse, error) {
	pin = kra.NormalizePIN(pin)
	if err := kra.ValidatePIN(pin); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	var info kra.TaxpayerInfo
	if !uc.cacheGet(ctx, cacheKeyCustomer+pin, &info) {
		reg, err := uc.creds.Current(ctx)
		if err != nil {
			return nil, err
		}
		ex, err := uc.gateway.SelectCustomer(ctx, reg.Credential(), kra.CustomerRequest{
			Tin: reg.TIN, BhfID: reg.BhfID, CustmTin: pin,
		})
		if err != nil {
			return nil, err
		}
		if ex.Response.ResultCd == kra.ResultCodeNoData {
			return nil, domain.ErrNotFound
		}
		if !ex.Response.OK() {
			return nil, fmt.Errorf("%w: [%s] %s", domain.ErrUpstream, ex.Response.ResultCd, ex.Response.ResultMsg)
		}
		var data kra.CustomerData
		if err := ex.Response.DecodeData(&data); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamTransport, err)
		}
		if len(data.CustList) == 0 {
			return nil, domain.ErrNotFound
		}
		info = data.CustList[0]
		uc.cacheSet(ctx, cacheKeyCustomer+pin, info)
	}

	return &dto.TaxpayerResponse{
		PIN:      info.Tin,
		Name:     info.TaxprNm,
		Status:   info.TaxprSttsCd,
		Location: info.LocDesc,
	}, nil
}

// cacheGet un error de caché se trata como miss.
func (uc *UseCase) cacheGet(ctx context.Context, key string, v any) bool {
	if uc.cache == nil {
		return false
	}
	hit, err := uc.cache.Get(ctx, key, v)
	if err != nil {
		uc.log.Warn().Err(err).Str("key", key).Msg("etims: lectura de caché fallida")
		return false
	}
	return hit
}

func (uc *UseCase) cacheSet(ctx context.Context, key string, v any) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.Set(ctx, key, v); err != nil {
		uc.log.Warn().Err(err).Str("key", key).Msg("etims: escritura de caché fallida")
	}
}
