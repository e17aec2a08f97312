package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/quocanhngo/focushub/internal/model"
	"github.com/quocanhngo/focushub/internal/repository"
	"github.com/quocanhngo/focushub/pkg/auth"
	"golang.org/x/crypto/bcrypt"
	"google.golang.org/api/idtoken"
)

const (
	otpLength        = 6
	otpExpiryMinutes = 5
	otpRateLimit     = 3 // max OTPs per otpRateWindow per purpose
	otpRateWindow    = time.Hour
	searchLimit      = 20
)

// Mailer sends one-time codes. *mailer.Mailer implements it.
type Mailer interface {
	SendOTP(toEmail, username, code string, expiryMinutes int) error
	SendPasswordReset(toEmail, username, code string, expiryMinutes int) error
}

// ObjectRemover deletes stored objects. storage.Storage implements it.
type ObjectRemover interface {
	Delete(ctx context.Context, objectName string) error
}

// GoogleVerifier validates a Google ID token for the given audience
type GoogleVerifier func(ctx context.Context, token, audience string) (*idtoken.Payload, error)

// AuthService handles authentication business logic
type AuthService struct {
	userRepo       *repository.UserRepository
	otpRepo        *repository.OTPRepository
	jwtManager     *auth.JWTManager
	blacklist      *auth.Blacklist
	mailer         Mailer
	objects        ObjectRemover
	googleClientID string
	verifyGoogle   GoogleVerifier
}

func NewAuthService(
	userRepo *repository.UserRepository,
	otpRepo *repository.OTPRepository,
	jwtManager *auth.JWTManager,
	blacklist *auth.Blacklist,
	mailer Mailer,
	objects ObjectRemover,
	googleClientID string,
) *AuthService {
	return &AuthService{
		userRepo:       userRepo,
		otpRepo:        otpRepo,
		jwtManager:     jwtManager,
		blacklist:      blacklist,
		mailer:         mailer,
		objects:        objects,
		googleClientID: googleClientID,
		verifyGoogle:   idtoken.Validate,
	}
}

// ==================== Register (Email + OTP) ====================

// Register creates a new unverified user account and sends OTP
func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (*model.OTPSentResponse, error) {
	existingUser, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err == nil {
		if existingUser.IsEmailVerified() {
			return nil, model.NewConflictError("email already registered")
		}
		// registered but never verified: resend
		return s.sendOTP(ctx, existingUser, model.OTPPurposeEmailVerification)
	}
	if !isNotFound(err) {
		return nil, model.NewInternalError(err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, model.NewInternalError(fmt.Errorf("hash password: %w", err))
	}

	user := &model.User{
		Name:                  req.Name,
		Email:                 strings.ToLower(req.Email),
		Password:              string(hashedPassword),
		AuthProvider:          model.AuthProviderEmail,
		IsNotificationEnabled: true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if isDuplicate(err) {
			return nil, model.NewConflictError("email already registered")
		}
		return nil, model.NewInternalError(fmt.Errorf("create user: %w", err))
	}

	return s.sendOTP(ctx, user, model.OTPPurposeEmailVerification)
}

// VerifyOTP verifies an OTP code and activates the account
func (s *AuthService) VerifyOTP(ctx context.Context, req model.VerifyOTPRequest) (*model.LoginResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, lookupError(err, "User", req.Email)
	}

	if err := s.consumeOTP(ctx, user.ID, req.Code, model.OTPPurposeEmailVerification); err != nil {
		return nil, err
	}

	if err := s.userRepo.VerifyEmail(ctx, user.ID); err != nil {
		return nil, model.NewInternalError(fmt.Errorf("verify email: %w", err))
	}

	user, err = s.userRepo.FindByID(ctx, user.ID)
	if err != nil {
		return nil, model.NewInternalError(err)
	}
	return s.loginResponse(user)
}

// ResendOTP generates and sends a new OTP code
func (s *AuthService) ResendOTP(ctx context.Context, req model.ResendOTPRequest) (*model.OTPSentResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, lookupError(err, "User", req.Email)
	}

	if user.IsEmailVerified() {
		return nil, model.NewValidationError("email already verified")
	}

	return s.sendOTP(ctx, user, model.OTPPurposeEmailVerification)
}

// ==================== Login (Email/Password) ====================

// Login authenticates a user and returns a JWT token
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (*model.LoginResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if isNotFound(err) {
			return nil, model.NewUnauthorizedError("invalid email or password")
		}
		return nil, model.NewInternalError(err)
	}

	if user.AuthProvider == model.AuthProviderGoogle && user.Password == "" {
		return nil, model.NewValidationError("this account uses Google login. Please sign in with Google")
	}

	if !user.IsEmailVerified() {
		return nil, model.NewForbiddenError("email not verified. Please check your inbox for the verification code")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, model.NewUnauthorizedError("invalid email or password")
	}

	return s.loginResponse(user)
}

// ==================== Login (Google OAuth2) ====================

// LoginWithGoogle verifies a Google ID token and signs the user in,
// creating the account on first use
func (s *AuthService) LoginWithGoogle(ctx context.Context, req model.GoogleLoginRequest) (*model.LoginResponse, error) {
	info, err := s.verifyGoogleToken(ctx, req.IDToken)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetOrCreateGoogleUser(ctx, *info)
	if err != nil {
		return nil, model.NewInternalError(fmt.Errorf("google user: %w", err))
	}

	return s.loginResponse(user)
}

// verifyGoogleToken validates a Google ID token and extracts user info
func (s *AuthService) verifyGoogleToken(ctx context.Context, tokenString string) (*model.GoogleUserInfo, error) {
	if s.googleClientID == "" {
		return nil, &model.AppError{Code: model.ErrCodeValidation, Message: errNoGoogleClient.Error(), Err: errNoGoogleClient}
	}
	payload, err := s.verifyGoogle(ctx, tokenString, s.googleClientID)
	if err != nil {
		return nil, &model.AppError{Code: model.ErrCodeUnauthorized, Message: "invalid google token", Err: err}
	}

	claims := payload.Claims
	email, ok := claims["email"].(string)
	if !ok || email == "" {
		return nil, model.NewUnauthorizedError("email not found in token")
	}

	name, _ := claims["name"].(string)
	picture, _ := claims["picture"].(string)
	verified, _ := claims["email_verified"].(bool)
	if name == "" {
		name = strings.Split(email, "@")[0]
	}

	return &model.GoogleUserInfo{
		GoogleID: payload.Subject,
		Email:    email,
		Name:     name,
		Picture:  picture,
		Verified: verified,
	}, nil
}

// ==================== Forgot/Reset Password ====================

// ForgotPassword sends a password reset OTP
func (s *AuthService) ForgotPassword(ctx context.Context, req model.ForgotPasswordRequest) (*model.OTPSentResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if !isNotFound(err) {
			return nil, model.NewInternalError(err)
		}
		// don't reveal whether the email exists
		return &model.OTPSentResponse{
			Message:   "If the email exists, a reset code has been sent",
			Email:     req.Email,
			ExpiresIn: otpExpiryMinutes * 60,
		}, nil
	}

	if user.AuthProvider == model.AuthProviderGoogle && user.Password == "" {
		return nil, model.NewValidationError("this account uses Google login. Password reset is not available")
	}

	return s.sendOTP(ctx, user, model.OTPPurposePasswordReset)
}

// ResetPassword verifies OTP and sets a new password
func (s *AuthService) ResetPassword(ctx context.Context, req model.ResetPasswordRequest) error {
	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return lookupError(err, "User", req.Email)
	}

	if err := s.consumeOTP(ctx, user.ID, req.Code, model.OTPPurposePasswordReset); err != nil {
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return model.NewInternalError(fmt.Errorf("hash password: %w", err))
	}

	if err := s.userRepo.UpdatePassword(ctx, user.ID, string(hashedPassword)); err != nil {
		return model.NewInternalError(err)
	}
	return nil
}

// ==================== Profile ====================

// GetProfile returns the current user's profile
func (s *AuthService) GetProfile(ctx context.Context, userID uuid.UUID) (*model.UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, lookupError(err, "User", userID)
	}
	resp := user.ToResponse()
	return &resp, nil
}

// SearchUsers searches for users by name or email
func (s *AuthService) SearchUsers(ctx context.Context, query string, excludeUserID uuid.UUID) ([]model.PublicUser, error) {
	query = strings.TrimSpace(query)
	if len(query) < 2 {
		return nil, model.NewValidationError("query must be at least 2 characters")
	}

	users, err := s.userRepo.SearchUsers(ctx, query, excludeUserID, searchLimit)
	if err != nil {
		return nil, model.NewInternalError(err)
	}

	result := make([]model.PublicUser, 0, len(users))
	for _, u := range users {
		result = append(result, u.Public())
	}
	return result, nil
}

// UpdateProfile updates user's profile. A replaced avatar object is removed from storage.
func (s *AuthService) UpdateProfile(ctx context.Context, userID uuid.UUID, req model.UpdateProfileRequest) (*model.UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, lookupError(err, "User", userID)
	}

	if err := s.userRepo.UpdateProfile(ctx, userID, req); err != nil {
		return nil, model.NewInternalError(err)
	}

	if req.Avatar != "" && user.AvatarKey != "" && user.AvatarKey != req.AvatarKey && s.objects != nil {
		if err := s.objects.Delete(ctx, user.AvatarKey); err != nil {
			slog.WarnContext(ctx, "failed to delete old avatar", "user_id", userID, "key", user.AvatarKey, "error", err)
		}
	}
	return s.GetProfile(ctx, userID)
}

// RegisterDevice registers a device for push notifications
func (s *AuthService) RegisterDevice(ctx context.Context, userID uuid.UUID, req model.RegisterDeviceRequest) error {
	if err := s.userRepo.AddDevice(ctx, userID, req.FCMToken, req.DeviceType); err != nil {
		return model.NewInternalError(err)
	}
	return nil
}

// Logout revokes the token and sets the user offline
func (s *AuthService) Logout(ctx context.Context, userID uuid.UUID, claims *auth.Claims, tokenString string) error {
	if err := s.userRepo.UpdateOnlineStatus(ctx, userID, false); err != nil {
		return model.NewInternalError(err)
	}
	return s.RevokeToken(ctx, claims, tokenString)
}

// RevokeToken blacklists the token until it expires
func (s *AuthService) RevokeToken(ctx context.Context, claims *auth.Claims, tokenString string) error {
	if claims == nil {
		return nil
	}
	if err := s.blacklist.Revoke(ctx, tokenString, claims.TTL()); err != nil {
		return model.NewInternalError(fmt.Errorf("revoke token: %w", err))
	}
	return nil
}

// ==================== Internal Helpers ====================

func (s *AuthService) loginResponse(user *model.User) (*model.LoginResponse, error) {
	token, err := s.jwtManager.GenerateToken(user.ID, user.Email, user.Name)
	if err != nil {
		return nil, model.NewInternalError(fmt.Errorf("generate token: %w", err))
	}
	return &model.LoginResponse{
		Token: token,
		User:  user.ToResponse(),
	}, nil
}

// consumeOTP checks a code and marks it used. Two concurrent uses of the
// same code cannot both succeed.
func (s *AuthService) consumeOTP(ctx context.Context, userID uuid.UUID, code string, purpose model.OTPPurpose) error {
	otp, err := s.otpRepo.FindLatestOTP(ctx, userID, code, purpose)
	if err != nil {
		if isNotFound(err) {
			return model.NewValidationError("invalid or expired code")
		}
		return model.NewInternalError(err)
	}
	if !otp.IsValid() {
		return model.NewValidationError("invalid or expired code")
	}

	ok, err := s.otpRepo.MarkAsUsed(ctx, otp.ID)
	if err != nil {
		return model.NewInternalError(err)
	}
	if !ok {
		return model.NewValidationError("invalid or expired code")
	}
	return nil
}

// sendOTP generates a code, saves it, and emails it
func (s *AuthService) sendOTP(ctx context.Context, user *model.User, purpose model.OTPPurpose) (*model.OTPSentResponse, error) {
	count, err := s.otpRepo.CountRecentOTPs(ctx, user.ID, purpose, time.Now().Add(-otpRateWindow))
	if err != nil {
		return nil, model.NewInternalError(err)
	}
	if count >= otpRateLimit {
		return nil, &model.AppError{Code: model.ErrCodeTooManyRequests, Message: "too many code requests. Please try again later"}
	}

	if err := s.otpRepo.InvalidateAllForUser(ctx, user.ID, purpose); err != nil {
		return nil, model.NewInternalError(err)
	}

	code, err := generateOTPCode(otpLength)
	if err != nil {
		return nil, model.NewInternalError(fmt.Errorf("generate code: %w", err))
	}

	otp := &model.OTPCode{
		UserID:    user.ID,
		Code:      code,
		Purpose:   purpose,
		ExpiresAt: time.Now().Add(otpExpiryMinutes * time.Minute),
	}
	if err := s.otpRepo.Create(ctx, otp); err != nil {
		return nil, model.NewInternalError(fmt.Errorf("save code: %w", err))
	}

	go func(email, name string) {
		var emailErr error
		switch purpose {
		case model.OTPPurposeEmailVerification:
			emailErr = s.mailer.SendOTP(email, name, code, otpExpiryMinutes)
		case model.OTPPurposePasswordReset:
			emailErr = s.mailer.SendPasswordReset(email, name, code, otpExpiryMinutes)
		}
		if emailErr != nil {
			slog.Error("failed to send code email", "user_id", user.ID, "purpose", purpose, "error", emailErr)
		}
	}(user.Email, user.Name)

	return &model.OTPSentResponse{
		Message:   "Verification code sent to your email",
		Email:     user.Email,
		ExpiresIn: otpExpiryMinutes * 60,
	}, nil
}

// generateOTPCode generates a cryptographically secure random numeric code
func generateOTPCode(length int) (string, error) {
	var b strings.Builder
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		b.WriteByte(byte('0' + n.Int64()))
	}
	return b.String(), nil
}

var errNoGoogleClient = errors.New("google sign-in is not configured")

// PurgeExpiredOTPs deletes codes that can no longer be used nor count
// towards the resend limit
func (s *AuthService) PurgeExpiredOTPs(ctx context.Context) (int64, error) {
	return s.otpRepo.CleanupExpired(ctx, time.Now().Add(-otpRateWindow))
}

// RunOTPCleanup purges stale codes every interval until ctx is done
func (s *AuthService) RunOTPCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.PurgeExpiredOTPs(ctx)
			if err != nil {
				slog.Error("otp cleanup failed", "error", err)
				continue
			}
			if n > 0 {
				slog.Debug("purged expired otp codes", "count", n)
			}
		}
	}
}
