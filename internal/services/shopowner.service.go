package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/MohdAnasQureshi/groceryshop/internal/auth"
	"github.com/MohdAnasQureshi/groceryshop/internal/model"
	"github.com/MohdAnasQureshi/groceryshop/internal/otp"
	"github.com/MohdAnasQureshi/groceryshop/internal/repository"
	"github.com/MohdAnasQureshi/groceryshop/pkg/logger"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailTaken         = errors.New("shop owner with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidOTP         = errors.New("otp invalid or expired")
	ErrShopOwnerNotFound  = errors.New("shop owner not found")
	ErrPasswordMismatch   = errors.New("new password and confirmation do not match")
)

type ShopOwnerRepository interface {
	Create(ctx context.Context, o *model.ShopOwner) (*model.ShopOwner, error)
	GetByID(ctx context.Context, id int64) (*model.ShopOwner, error)
	GetByEmail(ctx context.Context, email string) (*model.ShopOwner, error)
	UpdateRefreshToken(ctx context.Context, id int64, refreshToken string) error
	UpdatePasswordHash(ctx context.Context, id int64, passwordHash string) error
}

// OTPStore issues and verifies short-lived email verification codes.
type OTPStore interface {
	Generate(email string) (string, error)
	Verify(email, code string) error
}

// MailSender hands OTP mails to the delivery collaborator.
type MailSender interface {
	SendOTP(ctx context.Context, email, code string) error
}

type ShopOwnerService struct {
	shopOwnerRepo ShopOwnerRepository
	otpStore      OTPStore
	mail          MailSender
	tokens        *auth.TokenManager
}

func NewShopOwnerService(shopOwnerRepo ShopOwnerRepository, otpStore OTPStore, mail MailSender, tokens *auth.TokenManager) *ShopOwnerService {
	return &ShopOwnerService{
		shopOwnerRepo: shopOwnerRepo,
		otpStore:      otpStore,
		mail:          mail,
		tokens:        tokens,
	}
}

// SendVerificationOTP creates a code for an address that is not registered
// yet and dispatches it through the mail collaborator.
func (s *ShopOwnerService) SendVerificationOTP(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return model.ErrMissingEmail
	}

	_, err := s.shopOwnerRepo.GetByEmail(ctx, email)
	if err == nil {
		return ErrEmailTaken
	}
	if !errors.Is(err, repository.ErrShopOwnerNotFound) {
		return err
	}

	code, err := s.otpStore.Generate(email)
	if err != nil {
		return fmt.Errorf("generate otp: %w", err)
	}

	if err := s.mail.SendOTP(ctx, email, code); err != nil {
		return fmt.Errorf("send otp mail: %w", err)
	}

	logger.Info("verification otp dispatched", "email", email)
	return nil
}

func (s *ShopOwnerService) Register(ctx context.Context, p model.ShopOwnerRegisterRequest) (*model.ShopOwner, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	email := strings.ToLower(strings.TrimSpace(p.Email))

	if err := s.otpStore.Verify(email, strings.TrimSpace(p.OTP)); err != nil {
		if errors.Is(err, otp.ErrOTPExpired) || errors.Is(err, otp.ErrOTPMismatch) {
			return nil, ErrInvalidOTP
		}
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(p.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	created, err := s.shopOwnerRepo.Create(ctx, &model.ShopOwner{
		FullName:     strings.TrimSpace(p.FullName),
		Email:        email,
		ShopName:     strings.TrimSpace(p.ShopName),
		PasswordHash: string(hash),
	})
	if err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return created, nil
}

func (s *ShopOwnerService) Login(ctx context.Context, p model.ShopOwnerLoginRequest) (*model.ShopOwner, auth.TokenPair, error) {
	if err := p.Validate(); err != nil {
		return nil, auth.TokenPair{}, err
	}
	email := strings.ToLower(strings.TrimSpace(p.Email))

	owner, err := s.shopOwnerRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrShopOwnerNotFound) {
			return nil, auth.TokenPair{}, ErrInvalidCredentials
		}
		return nil, auth.TokenPair{}, err
	}

	if bcrypt.CompareHashAndPassword([]byte(owner.PasswordHash), []byte(p.Password)) != nil {
		return nil, auth.TokenPair{}, ErrInvalidCredentials
	}

	pair, err := s.tokens.Issue(owner.ID)
	if err != nil {
		return nil, auth.TokenPair{}, err
	}
	if err := s.shopOwnerRepo.UpdateRefreshToken(ctx, owner.ID, pair.RefreshToken); err != nil {
		return nil, auth.TokenPair{}, err
	}

	owner.RefreshToken = pair.RefreshToken
	return owner, pair, nil
}

// Refresh rotates the token pair if the presented refresh token is both
// valid and the one currently on record.
func (s *ShopOwnerService) Refresh(ctx context.Context, refreshToken string) (auth.TokenPair, error) {
	id, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return auth.TokenPair{}, auth.ErrInvalidToken
	}

	owner, err := s.shopOwnerRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrShopOwnerNotFound) {
			return auth.TokenPair{}, auth.ErrInvalidToken
		}
		return auth.TokenPair{}, err
	}
	if owner.RefreshToken == "" || owner.RefreshToken != refreshToken {
		return auth.TokenPair{}, auth.ErrInvalidToken
	}

	pair, err := s.tokens.Issue(owner.ID)
	if err != nil {
		return auth.TokenPair{}, err
	}
	if err := s.shopOwnerRepo.UpdateRefreshToken(ctx, owner.ID, pair.RefreshToken); err != nil {
		return auth.TokenPair{}, err
	}
	return pair, nil
}

// Logout drops the stored refresh token so the pair cannot be rotated again.
func (s *ShopOwnerService) Logout(ctx context.Context, shopOwnerID int64) error {
	err := s.shopOwnerRepo.UpdateRefreshToken(ctx, shopOwnerID, "")
	if errors.Is(err, repository.ErrShopOwnerNotFound) {
		return ErrShopOwnerNotFound
	}
	return err
}

func (s *ShopOwnerService) ChangePassword(ctx context.Context, shopOwnerID int64, current, newPassword, confirm string) error {
	if newPassword == "" {
		return model.ErrMissingPassword
	}
	if newPassword != confirm {
		return ErrPasswordMismatch
	}

	owner, err := s.shopOwnerRepo.GetByID(ctx, shopOwnerID)
	if err != nil {
		if errors.Is(err, repository.ErrShopOwnerNotFound) {
			return ErrShopOwnerNotFound
		}
		return err
	}

	if bcrypt.CompareHashAndPassword([]byte(owner.PasswordHash), []byte(current)) != nil {
		return ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.shopOwnerRepo.UpdatePasswordHash(ctx, shopOwnerID, string(hash))
}

func (s *ShopOwnerService) Current(ctx context.Context, shopOwnerID int64) (*model.ShopOwner, error) {
	owner, err := s.shopOwnerRepo.GetByID(ctx, shopOwnerID)
	if err != nil {
		if errors.Is(err, repository.ErrShopOwnerNotFound) {
			return nil, ErrShopOwnerNotFound
		}
		return nil, err
	}
	return owner, nil
}
