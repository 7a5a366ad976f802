package service

import (
	"context"
	"time"

	"github.com/naimlawani01/facturerapide-api/internal/dto"
	"github.com/naimlawani01/facturerapide-api/internal/model"
	"github.com/naimlawani01/facturerapide-api/internal/repository"

	"github.com/google/uuid"
)

type ClientService interface {
	Create(ctx context.Context, ownerID uuid.UUID, req dto.ClientCreateRequest) (*dto.ClientResponse, error)
	Get(ctx context.Context, id, ownerID uuid.UUID) (*dto.ClientResponse, error)
	List(ctx context.Context, ownerID uuid.UUID, filter dto.ClientFilter) (*dto.ClientListResponse, error)
	Update(ctx context.Context, id, ownerID uuid.UUID, req dto.ClientUpdateRequest) (*dto.ClientResponse, error)
	Delete(ctx context.Context, id, ownerID uuid.UUID) error
}

type clientService struct {
	repo repository.ClientRepository
}

func NewClientService(repo repository.ClientRepository) ClientService {
	return &clientService{repo: repo}
}

func (s *clientService) Create(ctx context.Context, ownerID uuid.UUID, req dto.ClientCreateRequest) (*dto.ClientResponse, error) {
	client := &model.Client{
		OwnerID:    ownerID,
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		Address:    req.Address,
		City:       req.City,
		PostalCode: req.PostalCode,
		Country:    req.Country,
		TaxID:      req.TaxID,
		Notes:      req.Notes,
	}
	if client.Country == "" {
		client.Country = "France"
	}
	if err := s.repo.Create(ctx, client); err != nil {
		return nil, err
	}
	resp := clientToResponse(client)
	return &resp, nil
}

func (s *clientService) Get(ctx context.Context, id, ownerID uuid.UUID) (*dto.ClientResponse, error) {
	client, err := s.repo.FindByID(ctx, id, ownerID)
	if err != nil {
		return nil, notFound("client introuvable")
	}
	resp := clientToResponse(client)
	return &resp, nil
}

func (s *clientService) List(ctx context.Context, ownerID uuid.UUID, filter dto.ClientFilter) (*dto.ClientListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}
	clients, total, err := s.repo.List(ctx, ownerID, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.ClientResponse, 0, len(clients))
	for i := range clients {
		data = append(data, clientToResponse(&clients[i]))
	}
	return &dto.ClientListResponse{
		Data:  data,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func (s *clientService) Update(ctx context.Context, id, ownerID uuid.UUID, req dto.ClientUpdateRequest) (*dto.ClientResponse, error) {
	client, err := s.repo.FindByID(ctx, id, ownerID)
	if err != nil {
		return nil, notFound("client introuvable")
	}
	if req.Name != nil {
		client.Name = *req.Name
	}
	if req.Email != nil {
		client.Email = req.Email
	}
	if req.Phone != nil {
		client.Phone = req.Phone
	}
	if req.Address != nil {
		client.Address = req.Address
	}
	if req.City != nil {
		client.City = req.City
	}
	if req.PostalCode != nil {
		client.PostalCode = req.PostalCode
	}
	if req.Country != nil {
		client.Country = *req.Country
	}
	if req.TaxID != nil {
		client.TaxID = req.TaxID
	}
	if req.Notes != nil {
		client.Notes = req.Notes
	}
	if err := s.repo.Update(ctx, client); err != nil {
		return nil, err
	}
	resp := clientToResponse(client)
	return &resp, nil
}

func (s *clientService) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	if err := s.repo.Delete(ctx, id, ownerID); err != nil {
		return notFound("client introuvable")
	}
	return nil
}

func clientToResponse(c *model.Client) dto.ClientResponse {
	return dto.ClientResponse{
		ID:         c.ID.String(),
		Name:       c.Name,
		Email:      c.Email,
		Phone:      c.Phone,
		Address:    c.Address,
		City:       c.City,
		PostalCode: c.PostalCode,
		Country:    c.Country,
		TaxID:      c.TaxID,
		Notes:      c.Notes,
		CreatedAt:  c.CreatedAt.Format(time.RFC3339),
	}
}
