package services

import (
	"context"
	"fmt"
	"time"

	apperrors "market/errors"
	"market/models"
	"market/services/logger"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	provincesCacheKey = "locations:provinces"
	districtsCacheKey = "locations:districts:%d"
	wardsCacheKey     = "locations:wards:%d"
	locationCacheTTL  = 24 * time.Hour
)

// LocationService serves the province → district → ward lists. The lists
// rarely change so they live in Redis for a day.
type LocationService struct {
	db     *gorm.DB
	rdb    *redis.Client
	logger logger.Logger
}

func NewLocationService(db *gorm.DB, rdb *redis.Client, log logger.Logger) *LocationService {
	return &LocationService{db: db, rdb: rdb, logger: log}
}

func (s *LocationService) Provinces(ctx context.Context) ([]models.Province, error) {
	var list []models.Province
	err := s.cached(ctx, provincesCacheKey, &list, func() error {
		return s.db.WithContext(ctx).Order("name ASC").Find(&list).Error
	})
	return list, err
}

func (s *LocationService) Districts(ctx context.Context, provinceID uint) ([]models.District, error) {
	var list []models.District
	err := s.cached(ctx, fmt.Sprintf(districtsCacheKey, provinceID), &list, func() error {
		if err := s.db.WithContext(ctx).First(&models.Province{}, provinceID).Error; err != nil {
			return dbError(err, apperrors.NewAppError(apperrors.ErrCodeDBNotFound, "Province not found", nil))
		}
		return s.db.WithContext(ctx).Where("province_id = ?", provinceID).Order("name ASC").Find(&list).Error
	})
	return list, err
}

func (s *LocationService) Wards(ctx context.Context, districtID uint) ([]models.Ward, error) {
	var list []models.Ward
	err := s.cached(ctx, fmt.Sprintf(wardsCacheKey, districtID), &list, func() error {
		if err := s.db.WithContext(ctx).First(&models.District{}, districtID).Error; err != nil {
			return dbError(err, apperrors.NewAppError(apperrors.ErrCodeDBNotFound, "District not found", nil))
		}
		return s.db.WithContext(ctx).Where("district_id = ?", districtID).Order("name ASC").Find(&list).Error
	})
	return list, err
}

// InvalidateCache drops every cached location list.
func (s *LocationService) InvalidateCache(ctx context.Context) error {
	return DeleteKeysByPattern(ctx, s.rdb, "locations:*")
}

// cached reads key into target, or runs load and stores the result. Redis
// errors only degrade to a DB read.
func (s *LocationService) cached(ctx context.Context, key string, target interface{}, load func() error) error {
	found, err := GetFromRedis(ctx, s.rdb, key, target)
	if err != nil {
		s.logger.Warn("⚠️ redis get %s: %v", key, err)
	}
	if found {
		return nil
	}
	if err := load(); err != nil {
		return dbError(err, apperrors.ErrNotFound)
	}
	if err := SetToRedis(ctx, s.rdb, key, target, locationCacheTTL); err != nil {
		s.logger.Warn("⚠️ redis set %s: %v", key, err)
	}
	return nil
}
