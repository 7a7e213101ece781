package etims

import (
	"context"
	"fmt"

	"github.com/jhoicas/Cafeteria-api/internal/domain"
	"github.com/jhoicas/Cafeteria-api/internal/domain/entity"
	"github.com/jhoicas/Cafeteria-api/internal/domain/repository"
)

// CredentialProvider resuelve la credencial vigente (tin, bhfId, cmcKey) desde la última
// inicialización exitosa del dispositivo.
type CredentialProvider struct {
	regRepo repository.KRARegistrationRepository
}

func NewCredentialProvider(regRepo repository.KRARegistrationRepository) *CredentialProvider {
	return &CredentialProvider{regRepo: regRepo}
}

// Current devuelve la inicialización activa, o domain.ErrNotConfigured si no hay ninguna.
func (p *CredentialProvider) Current(ctx context.Context) (*entity.KRARegistration, error) {
	reg, err := p.regRepo.GetActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolver credencial KRA: %w", err)
	}
	if reg == nil || reg.CmcKey == "" {
		return nil, domain.ErrNotConfigured
	}
	return reg, nil
}
