package service

import (
	"context"

	"library-backend/internal/domains/member/model"
	"library-backend/internal/shared"
)

// ServiceInterface - business logic cho members
type ServiceInterface interface {
	CreateMember(ctx context.Context, req model.MemberRequest) (*model.Member, error)
	GetMember(ctx context.Context, id int64) (*model.Member, error)
	ListMembers(ctx context.Context, search string, page shared.Pagination) ([]model.Member, int, error)
	UpdateMember(ctx context.Context, id int64, req model.MemberRequest) (*model.Member, error)
	DeleteMember(ctx context.Context, id int64) error
}
