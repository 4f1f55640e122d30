package usecase

import (
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/barstock-api/internal/application/dto"
	"github.com/jhoicas/barstock-api/internal/domain"
	"github.com/jhoicas/barstock-api/internal/domain/entity"
	"github.com/jhoicas/barstock-api/internal/domain/repository"
)

// ProductUseCase casos de uso CRUD para productos. El stock no se toca aquí:
// se muta solo vía el motor de inventario. Borrar un producto es desactivarlo;
// su inventario y su ledger se conservan.
type ProductUseCase struct {
	repo         repository.ProductRepository
	categoryRepo repository.CategoryRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, categoryRepo repository.CategoryRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo, categoryRepo: categoryRepo}
}

// Create crea un nuevo producto activo.
func (uc *ProductUseCase) Create(organizationID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if in.Name == "" || in.BasePrice.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	existing, _ := uc.repo.GetByOrganizationAndName(organizationID, in.Name)
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	if in.CategoryID != nil {
		category, err := uc.categoryRepo.GetByID(*in.CategoryID)
		if err != nil {
			return nil, err
		}
		if category == nil || category.OrganizationID != organizationID {
			return nil, domain.ErrNotFound
		}
	}
	now := time.Now()
	product := &entity.Product{
		ID:             uuid.New().String(),
		OrganizationID: organizationID,
		CategoryID:     in.CategoryID,
		Name:           in.Name,
		Description:    in.Description,
		BasePrice:      in.BasePrice,
		Active:         true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.repo.Create(product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto de la organización.
func (uc *ProductUseCase) GetByID(id, organizationID string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil || product.OrganizationID != organizationID {
		return nil, domain.ErrNotFound
	}
	return toProductResponse(product), nil
}

// List lista los productos de la organización.
func (uc *ProductUseCase) List(organizationID string, page dto.PageRequest) ([]*dto.ProductResponse, error) {
	page.DefaultPage()
	products, err := uc.repo.ListByOrganization(organizationID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResponse(p))
	}
	return out, nil
}

// Update actualiza nombre, descripción, precio base o categoría. Campos nil no se tocan.
func (uc *ProductUseCase) Update(id, organizationID string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil || product.OrganizationID != organizationID {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		product.Name = *in.Name
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.BasePrice != nil {
		if in.BasePrice.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		product.BasePrice = *in.BasePrice
	}
	if in.CategoryID != nil {
		category, err := uc.categoryRepo.GetByID(*in.CategoryID)
		if err != nil {
			return nil, err
		}
		if category == nil || category.OrganizationID != organizationID {
			return nil, domain.ErrNotFound
		}
		product.CategoryID = in.CategoryID
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// Deactivate retira un producto (borrado lógico). A partir de aquí su stock
// no se puede mover y desaparece de los listados de inventario.
func (uc *ProductUseCase) Deactivate(id, organizationID string) error {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if product == nil || product.OrganizationID != organizationID {
		return domain.ErrNotFound
	}
	if !product.Active {
		return domain.ErrProductGone
	}
	return uc.repo.SetActive(id, false)
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:             p.ID,
		OrganizationID: p.OrganizationID,
		CategoryID:     p.CategoryID,
		Name:           p.Name,
		Description:    p.Description,
		BasePrice:      p.BasePrice,
		Active:         p.Active,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}
