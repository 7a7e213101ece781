package etims

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/Cafeteria-api/internal/application/dto"
	"github.com/jhoicas/Cafeteria-api/internal/domain"
	"github.com/jhoicas/Cafeteria-api/internal/domain/entity"
	"github.com/jhoicas/Cafeteria-api/pkg/kra"
)

// InitializeDevice llama selectInitOsdcInfo y guarda el resultado. Con 000, o 902 (ya
// inicializado) trayendo la info, queda una fila success que pasa a ser la credencial vigente.
func (uc *UseCase) InitializeDevice(ctx context.Context, in dto.InitializeDeviceRequest) (*dto.RegistrationResponse, error) {
	tin := kra.NormalizePIN(firstNonEmpty(in.TIN, uc.cfg.TIN))
	bhfID := firstNonEmpty(in.BhfID, uc.cfg.BhfID, "00")
	serial := firstNonEmpty(in.DeviceSerial, uc.cfg.DeviceSerial)
	if err := kra.ValidatePIN(tin); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if serial == "" {
		return nil, fmt.Errorf("%w: device_serial es obligatorio", domain.ErrInvalidInput)
	}

	reg := &entity.KRARegistration{
		ID:           uuid.New().String(),
		TIN:          tin,
		BhfID:        bhfID,
		DeviceSerial: serial,
		Status:       entity.RegistrationFailed,
		CreatedAt:    uc.now(),
	}

	ex, err := uc.gateway.InitDevice(ctx, kra.InitRequest{Tin: tin, BhfID: bhfID, DvcSrlNo: serial})
	if err != nil {
		reg.ResultMsg = err.Error()
		uc.saveRegistration(ctx, reg)
		return nil, err
	}
	reg.ResultCode = ex.Response.ResultCd
	reg.ResultMsg = ex.Response.ResultMsg

	var data kra.InitData
	if err := ex.Response.DecodeData(&data); err != nil {
		uc.log.Warn().Err(err).Str("result_cd", reg.ResultCode).Msg("etims: data de inicialización ilegible")
	}
	accepted := ex.Response.OK() || ex.Response.ResultCd == kra.ResultCodeAlreadyInitialized
	if accepted && data.Info.CmcKey != "" {
		reg.Status = entity.RegistrationSuccess
		reg.CmcKey = data.Info.CmcKey
		reg.SdcID = data.Info.SdcID
		reg.MrcNo = data.Info.MrcNo
		reg.TaxpayerName = data.Info.TaxprNm
		reg.BranchName = data.Info.BhfNm
	}
	if err := uc.regRepo.Create(ctx, reg); err != nil {
		return nil, err
	}

	ev := uc.log.Info()
	if reg.Status != entity.RegistrationSuccess {
		ev = uc.log.Warn()
	}
	ev.Str("tin", tin).Str("bhf_id", bhfID).Str("result_cd", reg.ResultCode).Str("status", reg.Status).
		Msg("etims: inicialización de dispositivo")

	if reg.Status != entity.RegistrationSuccess {
		return toRegistrationResponse(reg), fmt.Errorf("%w: %s %s", domain.ErrUpstream, reg.ResultCode, reg.ResultMsg)
	}
	return toRegistrationResponse(reg), nil
}

// ListRegistrations historial de inicializaciones.
func (uc *UseCase) ListRegistrations(ctx context.Context, page dto.PageRequest) ([]dto.RegistrationResponse, error) {
	page.DefaultPage()
	list, err := uc.regRepo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.RegistrationResponse, 0, len(list))
	for _, r := range list {
		out = append(out, *toRegistrationResponse(r))
	}
	return out, nil
}

func (uc *UseCase) saveRegistration(ctx context.Context, reg *entity.KRARegistration) {
	if err := uc.regRepo.Create(ctx, reg); err != nil {
		uc.log.Error().Err(err).Str("tin", reg.TIN).Msg("etims: no se pudo guardar la inicialización fallida")
	}
}

func toRegistrationResponse(r *entity.KRARegistration) *dto.RegistrationResponse {
	return &dto.RegistrationResponse{
		ID:           r.ID,
		TIN:          r.TIN,
		BhfID:        r.BhfID,
		DeviceSerial: r.DeviceSerial,
		SdcID:        r.SdcID,
		MrcNo:        r.MrcNo,
		TaxpayerName: r.TaxpayerName,
		Status:       r.Status,
		ResultCode:   r.ResultCode,
		ResultMsg:    r.ResultMsg,
		CreatedAt:    r.CreatedAt,
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
