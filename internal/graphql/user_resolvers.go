package graphql

import (
	gql "github.com/graphql-go/graphql"

	"github.com/prepforge/cbt-backend/internal/model"
)

func (r *Resolver) resolveMe(p gql.ResolveParams) (any, error) {
	identity, err := requireIdentity(p)
	if err != nil {
		return nil, err
	}
	return r.users.Get(p.Context, identity.UserID)
}

func (r *Resolver) resolveUser(p gql.ResolveParams) (any, error) {
	identity, err := requireIdentity(p)
	if err != nil {
		return nil, err
	}
	id, err := argID(p, "id")
	if err != nil {
		return nil, err
	}
	if !identity.IsAdmin() && identity.UserID != id {
		return nil, errForbidden
	}
	return r.users.Get(p.Context, id)
}

func (r *Resolver) resolveUsers(p gql.ResolveParams) (any, error) {
	if _, err := requireAdmin(p); err != nil {
		return nil, err
	}
	page, limit := pageArgs(p)
	users, _, err := r.users.List(p.Context, page, limit)
	return users, err
}

func (r *Resolver) resolveLogin(p gql.ResolveParams) (any, error) {
	email, err := argString(p, "email")
	if err != nil {
		return nil, err
	}
	password, err := argString(p, "password")
	if err != nil {
		return nil, err
	}

	tokens, user, err := r.users.Login(p.Context, &model.LoginRequest{Email: email, Password: password})
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"accessToken":  tokens.AccessToken,
		"refreshToken": tokens.RefreshToken,
		"user":         user,
	}, nil
}

func (r *Resolver) resolveRegister(p gql.ResolveParams) (any, error) {
	email, err := argString(p, "email")
	if err != nil {
		return nil, err
	}
	password, err := argString(p, "password")
	if err != nil {
		return nil, err
	}
	fullName, err := argString(p, "fullName")
	if err != nil {
		return nil, err
	}

	req := &model.RegisterRequest{
		Email:       email,
		Password:    password,
		Role:        string(model.RoleStudent),
		FullName:    fullName,
		Institution: optString(p, "institution"),
		StudyLevel:  optString(p, "studyLevel"),
	}
	if role := optString(p, "role"); role != nil {
		req.Role = *role
	}
	return r.users.Register(p.Context, req)
}

func (r *Resolver) resolveRefreshToken(p gql.ResolveParams) (any, error) {
	refreshToken, err := argString(p, "refreshToken")
	if err != nil {
		return nil, err
	}
	tokens, err := r.users.Refresh(p.Context, refreshToken)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"accessToken":  tokens.AccessToken,
		"refreshToken": tokens.RefreshToken,
	}, nil
}

func (r *Resolver) resolveRequestPasswordReset(p gql.ResolveParams) (any, error) {
	email, err := argString(p, "email")
	if err != nil {
		return nil, err
	}
	if err := r.users.RequestPasswordReset(p.Context, email); err != nil {
		return nil, err
	}
	return true, nil
}

func (r *Resolver) resolveResetPassword(p gql.ResolveParams) (any, error) {
	token, err := argString(p, "token")
	if err != nil {
		return nil, err
	}
	newPassword, err := argString(p, "newPassword")
	if err != nil {
		return nil, err
	}
	if err := r.users.ResetPassword(p.Context, token, newPassword); err != nil {
		return nil, err
	}
	return true, nil
}

func (r *Resolver) resolveUpdateUserProfile(p gql.ResolveParams) (any, error) {
	identity, err := requireIdentity(p)
	if err != nil {
		return nil, err
	}
	id, err := argID(p, "userId")
	if err != nil {
		return nil, err
	}

	patch := &model.UserPatch{
		Email:       optString(p, "email"),
		Password:    optString(p, "password"),
		FullName:    optString(p, "fullName"),
		Institution: optString(p, "institution"),
		StudyLevel:  optString(p, "studyLevel"),
	}
	return r.users.Update(p.Context, identity, id, patch)
}

func (r *Resolver) resolveUpdateUserStatus(p gql.ResolveParams) (any, error) {
	identity, err := requireAdmin(p)
	if err != nil {
		return nil, err
	}
	id, err := argID(p, "userId")
	if err != nil {
		return nil, err
	}
	isActive, ok := p.Args["isActive"].(bool)
	if !ok {
		return nil, errMissingArg("isActive")
	}

	return r.users.Update(p.Context, identity, id, &model.UserPatch{IsActive: &isActive})
}
