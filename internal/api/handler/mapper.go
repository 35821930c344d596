package handler

import (
	"github.com/99minutos/user-admin/internal/core/domain"
	"github.com/99minutos/user-admin/internal/core/ports"
)

// --- Request → Service input ---

func toRegisterInput(req registerOperatorRequest) ports.RegisterOperatorInput {
	return ports.RegisterOperatorInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     domain.Role(req.Role),
		Active:   boolOr(req.IsActive, true),
	}
}

func toOperatorPatch(req updateOperatorRequest) domain.OperatorPatch {
	patch := domain.OperatorPatch{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Active:   req.IsActive,
	}
	if req.Role != nil {
		role := domain.Role(*req.Role)
		patch.Role = &role
	}
	return patch
}

func toCreateProfileInput(req createProfileRequest) ports.CreateProfileInput {
	return ports.CreateProfileInput{
		Name:       req.Name,
		Email:      req.Email,
		Password:   req.Password,
		Active:     boolOr(req.IsActive, true),
		RFC:        req.RFC,
		CURP:       req.CURP,
		PostalCode: req.PostalCode,
		Phone:      req.Phone,
		Address:    req.Address,
		Date:       req.Date,
	}
}

func toProfilePatch(req updateProfileRequest) domain.ProfilePatch {
	return domain.ProfilePatch{
		Name:       req.Name,
		Email:      req.Email,
		Password:   req.Password,
		Active:     req.IsActive,
		RFC:        req.RFC,
		CURP:       req.CURP,
		PostalCode: req.PostalCode,
		Phone:      req.Phone,
		Address:    req.Address,
		Date:       req.Date,
	}
}

func boolOr(b *bool, def bool) bool {
	if b == nil {
		return def
	}
	return *b
}

// --- Domain → Response ---

func toOperatorResponse(o *domain.Operator) operatorResponse {
	return operatorResponse{
		ID:        o.ID,
		Name:      o.Name,
		Email:     o.Email,
		Role:      string(o.Role),
		IsActive:  o.Active,
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
}

func toOperatorResponses(ops []*domain.Operator) []operatorResponse {
	out := make([]operatorResponse, 0, len(ops))
	for _, o := range ops {
		out = append(out, toOperatorResponse(o))
	}
	return out
}

func toProfileResponse(p *domain.Profile) profileResponse {
	return profileResponse{
		ID:         p.ID,
		Name:       p.Name,
		Email:      p.Email,
		IsActive:   p.Active,
		RFC:        p.RFC,
		CURP:       p.CURP,
		PostalCode: p.PostalCode,
		Phone:      p.Phone,
		Address:    p.Address,
		Date:       p.Date,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

func toProfileResponses(ps []*domain.Profile) []profileResponse {
	out := make([]profileResponse, 0, len(ps))
	for _, p := range ps {
		out = append(out, toProfileResponse(p))
	}
	return out
}
