package billing

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jhoicas/Cobranza-api/internal/application/dto"
	"github.com/jhoicas/Cobranza-api/internal/domain"
	"github.com/jhoicas/Cobranza-api/internal/domain/entity"
	"github.com/jhoicas/Cobranza-api/internal/domain/repository"
)

// ClientUseCase casos de uso para clientes facturables.
type ClientUseCase struct {
	repo  repository.ClientRepository
	clock Clock
	cfg   Config
}

// NewClientUseCase construye el caso de uso.
func NewClientUseCase(repo repository.ClientRepository, clock Clock, cfg Config) *ClientUseCase {
	if clock == nil {
		clock = SystemClock{}
	}
	return &ClientUseCase{repo: repo, clock: clock, cfg: cfg.withDefaults()}
}

// Create crea un nuevo cliente.
func (uc *ClientUseCase) Create(ctx context.Context, in dto.CreateClientRequest) (*dto.ClientResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}
	cur, err := normalizeCurrency(in.Currency, uc.cfg.DefaultCurrency)
	if err != nil {
		return nil, err
	}
	now := uc.clock.Now()
	client := &entity.Client{
		ID:        uuid.New().String(),
		Name:      name,
		Email:     in.Email,
		Phone:     in.Phone,
		TaxID:     in.TaxID,
		Currency:  cur,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, client); err != nil {
		return nil, err
	}
	return toClientResponse(client), nil
}

// Get obtiene un cliente por ID.
func (uc *ClientUseCase) Get(ctx context.Context, id string) (*dto.ClientResponse, error) {
	client, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, domain.ErrClientNotFound
	}
	return toClientResponse(client), nil
}

// List lista clientes con paginación.
func (uc *ClientUseCase) List(ctx context.Context, limit, offset int) ([]*dto.ClientResponse, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	list, err := uc.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ClientResponse, 0, len(list))
	for _, c := range list {
		out = append(out, toClientResponse(c))
	}
	return out, nil
}
