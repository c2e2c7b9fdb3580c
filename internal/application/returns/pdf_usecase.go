package returns

import (
	"context"

	"github.com/hcsmart/surgimart-api/internal/domain"
	"github.com/hcsmart/surgimart-api/internal/domain/repository"
)

// PDFUseCase genera la nota crédito imprimible de una devolución.
type PDFUseCase struct {
	returnRepo repository.ReturnRepository
	generator  CreditNotePDFGenerator
}

// NewPDFUseCase construye el caso de uso.
func NewPDFUseCase(returnRepo repository.ReturnRepository, generator CreditNotePDFGenerator) *PDFUseCase {
	return &PDFUseCase{returnRepo: returnRepo, generator: generator}
}

// GenerateCreditNote carga la devolución con sus líneas y genera el PDF.
func (uc *PDFUseCase) GenerateCreditNote(ctx context.Context, id string) ([]byte, error) {
	ret, err := uc.returnRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if ret == nil {
		return nil, domain.ErrNotFound
	}
	items, err := uc.returnRepo.GetItemsByReturnID(id)
	if err != nil {
		return nil, err
	}
	for _, it := range items {
		ret.Items = append(ret.Items, *it)
	}
	return uc.generator.GenerateCreditNotePDF(ctx, ret)
}
