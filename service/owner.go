package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/utpal74/ai-task-scheduler/common"
	"github.com/utpal74/ai-task-scheduler/db"
	"github.com/utpal74/ai-task-scheduler/model"
)

// OwnerResolver determines the acting user of a request.
type OwnerResolver struct {
	users        db.UserStore
	singleTenant bool
}

func NewOwnerResolver(users db.UserStore, singleTenant bool) *OwnerResolver {
	return &OwnerResolver{users: users, singleTenant: singleTenant}
}

// Resolve returns the user named by identity. With no identity the first
// stored user is used, but only when single-tenant mode is enabled.
// Failure to find anybody is ErrAuthResolution.
func (r *OwnerResolver) Resolve(ctx context.Context, identity string) (*model.User, error) {
	var (
		user *model.User
		err  error
	)
	switch {
	case identity != "":
		user, err = r.users.FindByIdentity(ctx, identity)
	case r.singleTenant:
		user, err = r.users.FindAny(ctx)
	default:
		return nil, fmt.Errorf("%w: no identity supplied", common.ErrAuthResolution)
	}

	if errors.Is(err, db.ErrNotFound) {
		return nil, common.ErrAuthResolution
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrPersistence, err)
	}
	return user, nil
}
