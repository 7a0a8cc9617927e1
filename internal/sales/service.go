package sales

import (
	"context"
	"fmt"

	"github.com/catcoin/pos-backend/pkg/db"
	"github.com/catcoin/pos-backend/pkg/db/models"
	pkgerrors "github.com/catcoin/pos-backend/pkg/errors"
)

// Service exposes the read side of the ledger.
type Service interface {
	List(ctx context.Context) ([]models.Sale, error)
	Get(ctx context.Context, id int64) (*models.Sale, error)
}

type service struct {
	repo Repository
}

// NewService builds the ledger read service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("sales repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context) ([]models.Sale, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list sales")
	}
	return rows, nil
}

func (s *service) Get(ctx context.Context, id int64) (*models.Sale, error) {
	sale, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "sale not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load sale")
	}
	return sale, nil
}
