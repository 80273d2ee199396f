package service

import (
	"context"
	"time"

	"github.com/billforge/billforge/internal/api/dto"
	"github.com/billforge/billforge/internal/domain/organization"
	ierr "github.com/billforge/billforge/internal/errors"
	"github.com/billforge/billforge/internal/types"
	"github.com/samber/lo"
)

// OrganizationService exposes the requesting user's organizations
type OrganizationService interface {
	ListMine(ctx context.Context) (*dto.ListOrganizationsResponse, error)
	Get(ctx context.Context, id string) (*dto.OrganizationResponse, error)
	Update(ctx context.Context, req *dto.UpdateOrganizationRequest) (*dto.OrganizationResponse, error)

	// ResolveMembership verifies that the user belongs to the organization.
	// Results are cached briefly since this runs on every scoped request.
	ResolveMembership(ctx context.Context, orgID, userID string) (*organization.Membership, error)
	ListMemberships(ctx context.Context, userID string) ([]*organization.Membership, error)
}

type organizationService struct {
	ServiceParams
}

func NewOrganizationService(params ServiceParams) OrganizationService {
	return &organizationService{ServiceParams: params}
}

func (s *organizationService) ListMine(ctx context.Context) (*dto.ListOrganizationsResponse, error) {
	userID := types.GetUserID(ctx)
	memberships, err := s.OrgRepo.ListMembershipsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	orgIDs := lo.Map(memberships, func(m *organization.Membership, _ int) string {
		return m.OrganizationID
	})
	orgs, err := s.OrgRepo.List(ctx, orgIDs)
	if err != nil {
		return nil, err
	}

	roleByOrg := make(map[string]types.MembershipRole, len(memberships))
	for _, m := range memberships {
		roleByOrg[m.OrganizationID] = m.Role
	}

	items := make([]*dto.OrganizationResponse, 0, len(orgs))
	for _, org := range orgs {
		resp := dto.NewOrganizationResponse(org)
		resp.Role = roleByOrg[org.ID]
		items = append(items, resp)
	}
	return &dto.ListOrganizationsResponse{Items: items}, nil
}

func (s *organizationService) Get(ctx context.Context, id string) (*dto.OrganizationResponse, error) {
	// Membership gates visibility: a foreign organization is not found
	membership, err := s.ResolveMembership(ctx, id, types.GetUserID(ctx))
	if err != nil {
		return nil, err
	}

	org, err := s.OrgRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := dto.NewOrganizationResponse(org)
	resp.Role = membership.Role
	return resp, nil
}

func (s *organizationService) Update(ctx context.Context, req *dto.UpdateOrganizationRequest) (*dto.OrganizationResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	orgID := types.GetOrganizationID(ctx)
	membership, err := s.ResolveMembership(ctx, orgID, types.GetUserID(ctx))
	if err != nil {
		return nil, err
	}
	if !membership.Role.CanManageSettings() {
		return nil, ierr.NewError("insufficient role").
			WithHint("only owners and admins can update the organization").
			Mark(ierr.ErrPermissionDenied)
	}

	org, err := s.OrgRepo.Get(ctx, orgID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		org.Name = *req.Name
	}
	if req.Email != nil {
		org.Email = *req.Email
	}
	if req.Phone != nil {
		org.Phone = *req.Phone
	}
	if req.Address != nil {
		org.Address = *req.Address
	}
	if req.GSTIN != nil {
		org.GSTIN = *req.GSTIN
	}
	org.UpdatedAt = time.Now().UTC()
	org.UpdatedBy = types.GetUserID(ctx)

	if err := s.OrgRepo.Update(ctx, org); err != nil {
		return nil, err
	}

	resp := dto.NewOrganizationResponse(org)
	resp.Role = membership.Role
	return resp, nil
}

func (s *organizationService) ResolveMembership(ctx context.Context, orgID, userID string) (*organization.Membership, error) {
	cacheKey := "membership:" + orgID + ":" + userID
	if s.Cache != nil {
		if cached, ok := s.Cache.Get(ctx, cacheKey); ok {
			if m, ok := cached.(*organization.Membership); ok {
				return m, nil
			}
		}
	}

	m, err := s.OrgRepo.GetMembership(ctx, orgID, userID)
	if err != nil {
		return nil, err
	}
	if s.Cache != nil {
		s.Cache.Set(ctx, cacheKey, m, 0)
	}
	return m, nil
}

func (s *organizationService) ListMemberships(ctx context.Context, userID string) ([]*organization.Membership, error) {
	return s.OrgRepo.ListMembershipsByUser(ctx, userID)
}
