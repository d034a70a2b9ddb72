package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/15palle/membership/internal/auth"
	"github.com/15palle/membership/internal/cache"
	errs "github.com/15palle/membership/internal/errors"
	"github.com/15palle/membership/internal/model"
	"github.com/15palle/membership/internal/repository"
)

// CustomerService is the directory (read side) and verification workflow
// (write side) over the customer store. Mutations require an owner
// identity in context; FindByID additionally allows a customer reading its
// own record.
type CustomerService interface {
	List(context.Context, model.CustomerFilter) (*model.CustomerPage, error)
	FindByID(context.Context, string) (*model.Customer, error)
	Create(context.Context, *model.NewCustomer) (*model.Customer, error)
	Verify(context.Context, string) (*model.Customer, error)
	Revoke(context.Context, string) (*model.Customer, error)
	UpdateNotes(ctx context.Context, id string, notes string) (*model.Customer, error)
	ExportCSV(context.Context, model.CustomerFilter) ([]byte, error)
}

type customerService struct {
	customerRepo  repository.CustomerRepository
	customerCache cache.CustomerCache
}

// NewCustomerService builds CustomerService
func NewCustomerService(customerRepo repository.CustomerRepository, customerCache cache.CustomerCache) CustomerService {
	return &customerService{customerRepo: customerRepo, customerCache: customerCache}
}

func (s *customerService) List(ctx context.Context, filter model.CustomerFilter) (*model.CustomerPage, error) {
	if _, err := auth.RequireRole(ctx, auth.RoleOwner); err != nil {
		return nil, err
	}

	filter = filter.Normalized()

	matched, err := s.filtered(ctx, filter)
	if err != nil {
		return nil, err
	}

	total := len(matched)

	start := (filter.Page - 1) * filter.PageSize
	if start > total {
		start = total
	}
	end := start + filter.PageSize
	if end > total {
		end = total
	}

	return &model.CustomerPage{
		Data:     matched[start:end],
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}, nil
}

func (s *customerService) FindByID(ctx context.Context, id string) (*model.Customer, error) {
	if err := requireSelfOrOwner(ctx, id); err != nil {
		return nil, err
	}

	c, err := s.customerCache.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if c != nil {
		return c, nil
	}

	c, err = s.customerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if c == nil {
		return nil, errs.NewNotFoundErr("customer not found")
	}

	if err := s.customerCache.Cache(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *customerService) Create(ctx context.Context, nc *model.NewCustomer) (*model.Customer, error) {
	if _, err := auth.RequireRole(ctx, auth.RoleOwner); err != nil {
		return nil, err
	}

	if strings.TrimSpace(nc.Name) == "" {
		return nil, errs.NewValidationErr("name", "name is required")
	}

	if strings.TrimSpace(nc.Email) == "" {
		return nil, errs.NewValidationErr("email", "email is required")
	}

	existing, err := s.customerRepo.FindByEmail(ctx, nc.Email)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		return nil, errs.NewValidationErr("email", "email is already registered")
	}

	c := &model.Customer{
		ID:        uuid.NewString(),
		Name:      nc.Name,
		Email:     nc.Email,
		Phone:     nc.Phone,
		CreatedAt: time.Now().UTC(),
		Notes:     nc.Notes,
	}

	if err := s.customerRepo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Verify is idempotent in effect, a repeated call only restamps verifiedAt
func (s *customerService) Verify(ctx context.Context, id string) (*model.Customer, error) {
	if _, err := auth.RequireRole(ctx, auth.RoleOwner); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	c, err := s.customerRepo.SetVerified(ctx, id, true, &now)
	if err != nil {
		return nil, err
	}

	if c == nil {
		return nil, errs.NewNotFoundErr("customer not found")
	}

	// evict only after the row is updated, a read between an earlier evict
	// and the write would re-cache the stale record for the full ttl
	if err := s.customerCache.EvictByID(ctx, id); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *customerService) Revoke(ctx context.Context, id string) (*model.Customer, error) {
	if _, err := auth.RequireRole(ctx, auth.RoleOwner); err != nil {
		return nil, err
	}

	c, err := s.customerRepo.SetVerified(ctx, id, false, nil)
	if err != nil {
		return nil, err
	}

	if c == nil {
		return nil, errs.NewNotFoundErr("customer not found")
	}

	if err := s.customerCache.EvictByID(ctx, id); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *customerService) UpdateNotes(ctx context.Context, id string, notes string) (*model.Customer, error) {
	if _, err := auth.RequireRole(ctx, auth.RoleOwner); err != nil {
		return nil, err
	}

	c, err := s.customerRepo.SetNotes(ctx, id, notes)
	if err != nil {
		return nil, err
	}

	if c == nil {
		return nil, errs.NewNotFoundErr("customer not found")
	}

	if err := s.customerCache.EvictByID(ctx, id); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *customerService) ExportCSV(ctx context.Context, filter model.CustomerFilter) ([]byte, error) {
	if _, err := auth.RequireRole(ctx, auth.RoleOwner); err != nil {
		return nil, err
	}

	matched, err := s.filtered(ctx, filter)
	if err != nil {
		return nil, err
	}
	return renderCSV(matched), nil
}

// filtered loads all records and applies the verified/query filters and the
// newest-first order. Ties on createdAt keep storage order, hence the
// stable sort over FindAll.
func (s *customerService) filtered(ctx context.Context, filter model.CustomerFilter) ([]*model.Customer, error) {
	all, err := s.customerRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	matched := make([]*model.Customer, 0, len(all))
	query := strings.ToLower(filter.Query)
	for _, c := range all {
		if filter.Verified != nil && c.Verified != *filter.Verified {
			continue
		}

		if query != "" &&
			!strings.Contains(strings.ToLower(c.Name), query) &&
			!strings.Contains(strings.ToLower(c.Email), query) {
			continue
		}

		matched = append(matched, c)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	return matched, nil
}

func requireSelfOrOwner(ctx context.Context, id string) error {
	ident, ok := auth.IdentityFromContext(ctx)
	if !ok {
		return errs.NewUnauthorizedErr("authentication required")
	}

	if ident.Role == auth.RoleOwner {
		return nil
	}

	if ident.Role == auth.RoleCustomer && ident.ID == id {
		return nil
	}
	return errs.NewForbiddenErr("customers may only access their own record")
}
