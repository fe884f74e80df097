package service

import (
	"context"
	"log"

	"jobmarket_backend/internals/features/users/users/model"

	"github.com/gofiber/fiber/v2"
)

type constructor func(user model.UserModel, deps *Deps) Account

// AccountService turns a stored user into its role variant.
type AccountService struct {
	deps         *Deps
	constructors map[string]constructor
}

func NewAccountService(deps *Deps) *AccountService {
	return &AccountService{
		deps: deps,
		constructors: map[string]constructor{
			model.RoleStudent:   newStudent,
			model.RolePublisher: newPublisher,
			model.RoleAdmin:     newAdmin,
		},
	}
}

// Resolve loads the caller. A zero id is an unauthenticated visitor.
func (s *AccountService) Resolve(ctx context.Context, userID int64) (Account, error) {
	if userID <= 0 {
		return Visitor{}, nil
	}
	user, err := loadUser(ctx, s.deps.Store, userID)
	if err != nil {
		return nil, err
	}
	return s.FromUser(*user)
}

// FromUser fails on a role without a variant instead of guessing one.
func (s *AccountService) FromUser(user model.UserModel) (Account, error) {
	build, ok := s.constructors[user.Role]
	if !ok {
		log.Printf("[WARN] user %d has unsupported role %q", user.ID, user.Role)
		return nil, fiber.NewError(fiber.StatusForbidden, "unsupported account role")
	}
	return build(user, s.deps), nil
}
