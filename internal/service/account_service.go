package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/quocanhngo/focushub/internal/model"
	"github.com/quocanhngo/focushub/internal/repository"
	"github.com/quocanhngo/focushub/pkg/auth"
)

// AccountService deletes accounts
type AccountService struct {
	accountRepo *repository.AccountRepository
	userRepo    *repository.UserRepository
	objects     ObjectRemover
	tokens      *AuthService
}

func NewAccountService(
	accountRepo *repository.AccountRepository,
	userRepo *repository.UserRepository,
	objects ObjectRemover,
	tokens *AuthService,
) *AccountService {
	return &AccountService{
		accountRepo: accountRepo,
		userRepo:    userRepo,
		objects:     objects,
		tokens:      tokens,
	}
}

// DeleteAccount removes the user and everything they own, then drops their
// avatar object and revokes the token used for the request
func (s *AccountService) DeleteAccount(ctx context.Context, userID uuid.UUID, claims *auth.Claims, tokenString string) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return lookupError(err, "User", userID)
	}

	if err := s.accountRepo.DeleteUserData(ctx, userID); err != nil {
		return model.NewInternalError(fmt.Errorf("delete account: %w", err))
	}

	// the rows are gone; storage and blacklist failures only leave garbage behind
	if user.AvatarKey != "" && s.objects != nil {
		if err := s.objects.Delete(ctx, user.AvatarKey); err != nil {
			slog.WarnContext(ctx, "failed to remove avatar object", "user_id", userID, "key", user.AvatarKey, "error", err)
		}
	}
	if s.tokens != nil {
		if err := s.tokens.RevokeToken(ctx, claims, tokenString); err != nil {
			slog.WarnContext(ctx, "failed to revoke token after account deletion", "user_id", userID, "error", err)
		}
	}

	slog.InfoContext(ctx, "account deleted", "user_id", userID)
	return nil
}
