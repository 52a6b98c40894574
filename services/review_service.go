package services

import (
	"context"
	"errors"
	"strings"

	"market/dto"
	apperrors "market/errors"
	"market/models"
	"market/services/logger"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type ReviewService struct {
	db     *gorm.DB
	rdb    *redis.Client
	logger logger.Logger
}

func NewReviewService(db *gorm.DB, rdb *redis.Client, log logger.Logger) *ReviewService {
	return &ReviewService{db: db, rdb: rdb, logger: log}
}

// Create đánh giá service, mỗi customer một lần
func (s *ReviewService) Create(ctx context.Context, customerID uint, req dto.CreateReviewRequest) (*models.Review, error) {
	db := s.db.WithContext(ctx)
	if err := db.First(&models.Service{}, req.ServiceID).Error; err != nil {
		return nil, dbError(err, apperrors.ErrServiceNotFound)
	}

	var exists int64
	if err := db.Model(&models.Review{}).
		Where("customer_id = ? AND service_id = ?", customerID, req.ServiceID).
		Count(&exists).Error; err != nil {
		return nil, dbError(err, apperrors.ErrReviewNotFound)
	}
	if exists > 0 {
		return nil, apperrors.ErrReviewExists
	}

	review := &models.Review{
		CustomerID: customerID,
		ServiceID:  req.ServiceID,
		Star:       req.Star,
		Comment:    strings.TrimSpace(req.Comment),
	}
	if err := db.Create(review).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrReviewExists
		}
		return nil, dbError(err, apperrors.ErrReviewNotFound)
	}
	s.invalidate(ctx, req.ServiceID)
	return review, nil
}

func (s *ReviewService) Update(ctx context.Context, actor Actor, id uint, req dto.UpdateReviewRequest) (*models.Review, error) {
	db := s.db.WithContext(ctx)
	var review models.Review
	if err := db.First(&review, id).Error; err != nil {
		return nil, dbError(err, apperrors.ErrReviewNotFound)
	}
	if review.CustomerID != actor.ID {
		return nil, apperrors.ErrForbidden
	}
	if req.Star != nil {
		review.Star = *req.Star
	}
	if req.Comment != nil {
		review.Comment = strings.TrimSpace(*req.Comment)
	}
	if err := db.Save(&review).Error; err != nil {
		return nil, dbError(err, apperrors.ErrReviewNotFound)
	}
	s.invalidate(ctx, review.ServiceID)
	return &review, nil
}

// Delete is allowed to the author and to admins.
func (s *ReviewService) Delete(ctx context.Context, actor Actor, id uint) error {
	db := s.db.WithContext(ctx)
	var review models.Review
	if err := db.First(&review, id).Error; err != nil {
		return dbError(err, apperrors.ErrReviewNotFound)
	}
	if !actor.Owns(review.CustomerID) {
		return apperrors.ErrForbidden
	}
	if err := db.Delete(&review).Error; err != nil {
		return dbError(err, apperrors.ErrReviewNotFound)
	}
	s.invalidate(ctx, review.ServiceID)
	return nil
}

func (s *ReviewService) ListByService(ctx context.Context, serviceID uint, page dto.PageQuery) ([]models.Review, int64, error) {
	page.Normalize()
	q := s.db.WithContext(ctx).Model(&models.Review{}).Where("service_id = ?", serviceID)
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, dbError(err, apperrors.ErrReviewNotFound)
	}
	var reviews []models.Review
	err := paginate(q, page.Page, page.Limit).Preload("Customer").Order("id DESC").Find(&reviews).Error
	if err != nil {
		return nil, 0, dbError(err, apperrors.ErrReviewNotFound)
	}
	return reviews, total, nil
}

// Ratings change with every review, so the cached service detail goes.
func (s *ReviewService) invalidate(ctx context.Context, serviceID uint) {
	if err := DeleteFromRedis(ctx, s.rdb, serviceKey(serviceID)); err != nil {
		s.logger.Warn("⚠️ redis del service %d: %v", serviceID, err)
	}
}
