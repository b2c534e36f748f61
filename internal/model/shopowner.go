package model

import (
	"errors"
	"net/mail"
	"strings"
	"time"
)

var (
	ErrMissingEmail    = errors.New("email is required")
	ErrInvalidEmail    = errors.New("email is not valid")
	ErrMissingPassword = errors.New("password is required")
	ErrMissingOTP      = errors.New("verification otp is required")
)

// ShopOwner is the authenticated account operating a ledger.
type ShopOwner struct {
	ID           int64     `json:"id"`
	FullName     string    `json:"full_name"`
	Email        string    `json:"email"`
	ShopName     string    `json:"shop_name"`
	PasswordHash string    `json:"-"`
	RefreshToken string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

type ShopOwnerRegisterRequest struct {
	FullName string
	Email    string
	ShopName string
	Password string
	OTP      string
}

func (r ShopOwnerRegisterRequest) Validate() error {
	if err := validateEmail(r.Email); err != nil {
		return err
	}
	if strings.TrimSpace(r.Password) == "" {
		return ErrMissingPassword
	}
	if strings.TrimSpace(r.OTP) == "" {
		return ErrMissingOTP
	}
	return nil
}

type ShopOwnerLoginRequest struct {
	Email    string
	Password string
}

func (r ShopOwnerLoginRequest) Validate() error {
	if err := validateEmail(r.Email); err != nil {
		return err
	}
	if r.Password == "" {
		return ErrMissingPassword
	}
	return nil
}

func validateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return ErrMissingEmail
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return ErrInvalidEmail
	}
	return nil
}
