package service

import (
	"context"

	"github.com/billforge/billforge/internal/api/dto"
	"github.com/billforge/billforge/internal/domain/receipt"
	"github.com/billforge/billforge/internal/types"
	"github.com/samber/lo"
)

// ReceiptService reads receipts. Receipts are created and deleted only as
// part of payment mutations.
type ReceiptService interface {
	GetReceipt(ctx context.Context, id string) (*dto.ReceiptResponse, error)
	ListReceipts(ctx context.Context, filter *types.ReceiptFilter) (*dto.ListReceiptsResponse, error)
}

type receiptService struct {
	ServiceParams
}

func NewReceiptService(params ServiceParams) ReceiptService {
	return &receiptService{ServiceParams: params}
}

func (s *receiptService) GetReceipt(ctx context.Context, id string) (*dto.ReceiptResponse, error) {
	r, err := s.ReceiptRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.NewReceiptResponse(r), nil
}

func (s *receiptService) ListReceipts(ctx context.Context, filter *types.ReceiptFilter) (*dto.ListReceiptsResponse, error) {
	if filter == nil {
		filter = types.NewReceiptFilter()
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	receipts, err := s.ReceiptRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	count, err := s.ReceiptRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &dto.ListReceiptsResponse{
		Items: lo.Map(receipts, func(r *receipt.Receipt, _ int) *dto.ReceiptResponse {
			return dto.NewReceiptResponse(r)
		}),
		Pagination: types.NewPaginationResponse(count, filter),
	}, nil
}
