package services

import (
	"context"
	"errors"
	"strings"

	"market/dto"
	apperrors "market/errors"
	"market/models"
	"market/services/logger"

	"gorm.io/gorm"
)

type UserService struct {
	db     *gorm.DB
	logger logger.Logger
}

func NewUserService(db *gorm.DB, log logger.Logger) *UserService {
	return &UserService{db: db, logger: log}
}

func (s *UserService) GetProfile(ctx context.Context, userID uint) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).
		Preload("Address.Province").
		Preload("Address.District").
		Preload("Address.Ward").
		First(&user, userID).Error
	if err != nil {
		return nil, dbError(err, apperrors.ErrUserNotFound)
	}
	return &user, nil
}

// UpdateProfile applies the non-nil fields and upserts the address.
func (s *UserService) UpdateProfile(ctx context.Context, userID uint, req dto.UpdateProfileRequest) (*models.User, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, userID).Error; err != nil {
			return dbError(err, apperrors.ErrUserNotFound)
		}

		updates := map[string]interface{}{}
		if req.Name != nil {
			updates["name"] = strings.TrimSpace(*req.Name)
		}
		if req.PhoneNumber != nil {
			phone := strings.TrimSpace(*req.PhoneNumber)
			if phone == "" {
				updates["phone_number"] = nil
			} else {
				var taken int64
				if err := tx.Model(&models.User{}).Where("phone_number = ? AND id <> ?", phone, userID).Count(&taken).Error; err != nil {
					return err
				}
				if taken > 0 {
					return apperrors.ErrUserAlreadyExists
				}
				updates["phone_number"] = phone
			}
		}
		if req.Avatar != nil {
			updates["avatar"] = *req.Avatar
		}
		if req.Bio != nil {
			updates["bio"] = *req.Bio
		}
		if len(updates) > 0 {
			if err := tx.Model(&models.User{}).Where("id = ?", userID).Updates(updates).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return apperrors.ErrUserAlreadyExists
				}
				return err
			}
		}

		if req.Address != nil {
			if err := upsertAddress(tx, userID, *req.Address); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, dbError(err, apperrors.ErrUserNotFound)
	}
	return s.GetProfile(ctx, userID)
}

// upsertAddress checks the province → district → ward chain before saving.
func upsertAddress(tx *gorm.DB, userID uint, in dto.AddressInput) error {
	if in.DistrictID != nil {
		var district models.District
		if err := tx.First(&district, *in.DistrictID).Error; err != nil {
			return dbError(err, apperrors.NewValidationError(map[string]string{"districtId": "unknown district"}))
		}
		if in.ProvinceID == nil || district.ProvinceID != *in.ProvinceID {
			return apperrors.NewValidationError(map[string]string{"districtId": "district is not in the selected province"})
		}
	}
	if in.WardID != nil {
		var ward models.Ward
		if err := tx.First(&ward, *in.WardID).Error; err != nil {
			return dbError(err, apperrors.NewValidationError(map[string]string{"wardId": "unknown ward"}))
		}
		if in.DistrictID == nil || ward.DistrictID != *in.DistrictID {
			return apperrors.NewValidationError(map[string]string{"wardId": "ward is not in the selected district"})
		}
	}

	var addr models.Address
	err := tx.Where("user_id = ?", userID).First(&addr).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	addr.UserID = userID
	addr.Street = strings.TrimSpace(in.Street)
	addr.ProvinceID = in.ProvinceID
	addr.DistrictID = in.DistrictID
	addr.WardID = in.WardID
	return tx.Save(&addr).Error
}

// ListUsers là danh sách user cho admin
func (s *UserService) ListUsers(ctx context.Context, filter dto.UserFilter) ([]models.User, int64, error) {
	filter.Normalize()
	q := s.db.WithContext(ctx).Model(&models.User{})
	if name := strings.TrimSpace(filter.Name); name != "" {
		like := "%" + strings.ToLower(name) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", like, like)
	}
	if filter.Role != nil {
		q = q.Where("role = ?", *filter.Role)
	}
	if filter.Status != nil {
		q = q.Where("status = ?", *filter.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, dbError(err, apperrors.ErrNotFound)
	}
	var users []models.User
	if err := paginate(q, filter.Page, filter.Limit).Order("id DESC").Find(&users).Error; err != nil {
		return nil, 0, dbError(err, apperrors.ErrNotFound)
	}
	return users, total, nil
}

// ChangeUserStatus blocks or unblocks a user. Admins can't block themselves.
func (s *UserService) ChangeUserStatus(ctx context.Context, actor Actor, userID uint, status int) error {
	if actor.ID == userID {
		return apperrors.NewAppError(apperrors.ErrCodeInvalidOperation, "You cannot change your own status", nil)
	}
	res := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).UpdateColumn("status", status)
	if res.Error != nil {
		return dbError(res.Error, apperrors.ErrUserNotFound)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrUserNotFound
	}
	s.logger.Info("user %d status set to %d by %d", userID, status, actor.ID)
	return nil
}
