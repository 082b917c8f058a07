package service

import (
	"context"
	"strings"

	"marketplace/internal/models"
	"marketplace/internal/repository"
	"marketplace/internal/validation"
)

type UserService struct {
	userRepo     repository.UserRepository
	purchaseRepo repository.PurchaseRepository
}

type UpdateProfileInput struct {
	UserID     uint
	Username   string
	Address    string
	ProfilePic string
}

func NewUserService(userRepo repository.UserRepository, purchaseRepo repository.PurchaseRepository) *UserService {
	return &UserService{userRepo: userRepo, purchaseRepo: purchaseRepo}
}

func (s *UserService) GetProfile(ctx context.Context, userID uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

// UpdateProfile replaces username, address and profile picture. An empty
// picture clears it.
func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Address = strings.TrimSpace(in.Address)
	in.ProfilePic = strings.TrimSpace(in.ProfilePic)

	if err := validation.ValidateProfile(in.Username, in.Address, in.ProfilePic); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	if in.Username != user.Username {
		existing, err := s.userRepo.GetByUsername(ctx, in.Username)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != user.ID {
			return nil, models.NewConflictError("Username is already taken", nil)
		}
	}

	user.Username = in.Username
	user.Address = in.Address
	user.ProfilePic = in.ProfilePic
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// PreviousPurchases returns the user's purchase history, newest first.
func (s *UserService) PreviousPurchases(ctx context.Context, userID uint) ([]models.PreviousPurchase, error) {
	purchases, err := s.purchaseRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if purchases == nil {
		purchases = []models.PreviousPurchase{}
	}
	return purchases, nil
}
