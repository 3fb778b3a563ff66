package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"library-backend/internal/domains/member/model"
	"library-backend/internal/domains/member/repository"
	"library-backend/internal/shared"
	"library-backend/internal/shared/apperror"
)

type MemberService struct {
	repo repository.RepositoryInterface
}

func NewService(repo repository.RepositoryInterface) ServiceInterface {
	return &MemberService{repo: repo}
}

func (s *MemberService) CreateMember(ctx context.Context, req model.MemberRequest) (*model.Member, error) {
	req = req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, apperror.FromValidation(err)
	}

	if err := s.ensureUniversityIDFree(ctx, req.UniversityID, 0); err != nil {
		return nil, err
	}

	member := req.ToMember()
	if err := s.repo.Create(ctx, member); err != nil {
		return nil, err
	}

	log.Info().Int64("member_id", member.ID).Msg("Member created")
	return member, nil
}

func (s *MemberService) GetMember(ctx context.Context, id int64) (*model.Member, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *MemberService) ListMembers(ctx context.Context, search string, page shared.Pagination) ([]model.Member, int, error) {
	return s.repo.List(ctx, model.ListFilter{
		Search: strings.TrimSpace(search),
		Limit:  page.Limit,
		Offset: page.Offset(),
	})
}

func (s *MemberService) UpdateMember(ctx context.Context, id int64, req model.MemberRequest) (*model.Member, error) {
	req = req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, apperror.FromValidation(err)
	}

	member, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.ensureUniversityIDFree(ctx, req.UniversityID, id); err != nil {
		return nil, err
	}

	member.Name = req.Name
	member.Email = req.Email
	member.UniversityID = req.UniversityID
	member.Phone = req.Phone

	if err := s.repo.Update(ctx, member); err != nil {
		return nil, err
	}

	log.Info().Int64("member_id", id).Msg("Member updated")
	return member, nil
}

func (s *MemberService) DeleteMember(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	log.Info().Int64("member_id", id).Msg("Member deleted")
	return nil
}

// ensureUniversityIDFree báo lỗi sớm nếu university id đã thuộc member khác
// Unique index trong DB vẫn là chốt chặn cuối khi có race
func (s *MemberService) ensureUniversityIDFree(ctx context.Context, universityID *string, selfID int64) error {
	if universityID == nil {
		return nil
	}

	existing, err := s.repo.GetByUniversityID(ctx, *universityID)
	if err != nil {
		if apperror.IsKind(err, apperror.KindNotFound) {
			return nil
		}
		return err
	}
	if existing.ID == selfID {
		return nil
	}

	return apperror.New(apperror.KindUniquenessViolation,
		fmt.Sprintf("University ID %q is already registered to another member", *universityID)).
		WithDetail("field", "university_id")
}
