package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"market/constants"
	"market/dto"
	apperrors "market/errors"
	"market/models"
	"market/services/logger"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	serviceCacheKey = "service:%d"
	serviceCacheTTL = 10 * time.Minute
)

// CatalogService quản lý các service của provider
type CatalogService struct {
	db     *gorm.DB
	rdb    *redis.Client
	logger logger.Logger
}

func NewCatalogService(db *gorm.DB, rdb *redis.Client, log logger.Logger) *CatalogService {
	return &CatalogService{db: db, rdb: rdb, logger: log}
}

func serviceKey(id uint) string { return fmt.Sprintf(serviceCacheKey, id) }

// List returns published services. A provider listing its own services
// (providerId = self) also sees hidden ones. With a search term the
// candidates are ranked in memory and paginated afterwards.
func (s *CatalogService) List(ctx context.Context, viewer Actor, filter dto.ServiceFilter) ([]models.Service, int64, error) {
	filter.Normalize()
	q := s.db.WithContext(ctx).Model(&models.Service{})
	if filter.ProviderID != 0 {
		q = q.Where("provider_id = ?", filter.ProviderID)
	}
	if filter.ProviderID == 0 || !viewer.Owns(filter.ProviderID) {
		q = q.Where("status = ?", constants.ServiceStatusPublished)
	}
	if c := strings.TrimSpace(filter.Category); c != "" {
		q = q.Where("LOWER(category) = ?", strings.ToLower(c))
	}
	if filter.ProvinceID != 0 {
		q = q.Where("province_id = ?", filter.ProvinceID)
	}

	if strings.TrimSpace(filter.Search) != "" {
		var all []models.Service
		if err := q.Order("id DESC").Find(&all).Error; err != nil {
			return nil, 0, dbError(err, apperrors.ErrServiceNotFound)
		}
		ranked := rankServices(filter.Search, all)
		total := int64(len(ranked))
		start := filter.Offset()
		if start > len(ranked) {
			start = len(ranked)
		}
		end := start + filter.Limit
		if end > len(ranked) {
			end = len(ranked)
		}
		page := ranked[start:end]
		if err := attachRatings(s.db.WithContext(ctx), page); err != nil {
			return nil, 0, dbError(err, apperrors.ErrServiceNotFound)
		}
		return page, total, nil
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, dbError(err, apperrors.ErrServiceNotFound)
	}
	var list []models.Service
	if err := paginate(q, filter.Page, filter.Limit).Order("id DESC").Find(&list).Error; err != nil {
		return nil, 0, dbError(err, apperrors.ErrServiceNotFound)
	}
	if err := attachRatings(s.db.WithContext(ctx), list); err != nil {
		return nil, 0, dbError(err, apperrors.ErrServiceNotFound)
	}
	return list, total, nil
}

// Get trả về chi tiết service, cached in Redis while published.
func (s *CatalogService) Get(ctx context.Context, viewer Actor, id uint) (*models.Service, error) {
	var svc models.Service
	found, err := GetFromRedis(ctx, s.rdb, serviceKey(id), &svc)
	if err != nil {
		s.logger.Warn("⚠️ redis get service %d: %v", id, err)
	}
	if found {
		return &svc, nil
	}

	if err := s.db.WithContext(ctx).Preload("Provider").First(&svc, id).Error; err != nil {
		return nil, dbError(err, apperrors.ErrServiceNotFound)
	}
	published := svc.Status == constants.ServiceStatusPublished
	if !published && !viewer.Owns(svc.ProviderID) {
		return nil, apperrors.ErrServiceNotFound
	}

	list := []models.Service{svc}
	if err := attachRatings(s.db.WithContext(ctx), list); err != nil {
		return nil, dbError(err, apperrors.ErrServiceNotFound)
	}
	svc = list[0]
	if !published {
		return &svc, nil
	}
	if err := SetToRedis(ctx, s.rdb, serviceKey(id), svc, serviceCacheTTL); err != nil {
		s.logger.Warn("⚠️ redis set service %d: %v", id, err)
	}
	return &svc, nil
}

func (s *CatalogService) Create(ctx context.Context, actor Actor, req dto.CreateServiceRequest) (*models.Service, error) {
	if !actor.IsProvider() {
		return nil, apperrors.ErrForbidden
	}
	if req.Price.IsNegative() {
		return nil, apperrors.NewValidationError(map[string]string{"price": "must not be negative"})
	}
	svc := &models.Service{
		ProviderID:  actor.ID,
		Name:        strings.TrimSpace(req.Name),
		Slug:        Slugify(req.Name),
		Description: req.Description,
		Category:    strings.TrimSpace(req.Category),
		Price:       req.Price,
		Duration:    req.Duration,
		Images:      models.StringList(req.Images),
		ProvinceID:  req.ProvinceID,
		Status:      constants.ServiceStatusPublished,
	}
	if req.Status != nil {
		svc.Status = *req.Status
	}
	if err := svc.ValidateStatus(); err != nil {
		return nil, apperrors.NewValidationError(map[string]string{"status": err.Error()})
	}
	if err := s.db.WithContext(ctx).Create(svc).Error; err != nil {
		return nil, dbError(err, apperrors.ErrServiceNotFound)
	}
	s.logger.Info("✅ provider %d created service %d", actor.ID, svc.ID)
	return svc, nil
}

func (s *CatalogService) Update(ctx context.Context, actor Actor, id uint, req dto.UpdateServiceRequest) (*models.Service, error) {
	var svc models.Service
	db := s.db.WithContext(ctx)
	if err := db.First(&svc, id).Error; err != nil {
		return nil, dbError(err, apperrors.ErrServiceNotFound)
	}
	if !actor.Owns(svc.ProviderID) {
		return nil, apperrors.ErrForbidden
	}

	if req.Name != nil {
		svc.Name = strings.TrimSpace(*req.Name)
		svc.Slug = Slugify(svc.Name)
	}
	if req.Description != nil {
		svc.Description = *req.Description
	}
	if req.Category != nil {
		svc.Category = strings.TrimSpace(*req.Category)
	}
	if req.Price != nil {
		if req.Price.IsNegative() {
			return nil, apperrors.NewValidationError(map[string]string{"price": "must not be negative"})
		}
		svc.Price = *req.Price
	}
	if req.Duration != nil {
		svc.Duration = *req.Duration
	}
	if req.Images != nil {
		svc.Images = models.StringList(req.Images)
	}
	if req.ProvinceID != nil {
		svc.ProvinceID = req.ProvinceID
	}
	if req.Status != nil {
		svc.Status = *req.Status
	}
	if err := svc.ValidateStatus(); err != nil {
		return nil, apperrors.NewValidationError(map[string]string{"status": err.Error()})
	}

	if err := db.Save(&svc).Error; err != nil {
		return nil, dbError(err, apperrors.ErrServiceNotFound)
	}
	s.invalidate(ctx, id)
	return &svc, nil
}

// Delete soft-deletes the service; bookings and discounts keep pointing at it.
func (s *CatalogService) Delete(ctx context.Context, actor Actor, id uint) error {
	var svc models.Service
	db := s.db.WithContext(ctx)
	if err := db.First(&svc, id).Error; err != nil {
		return dbError(err, apperrors.ErrServiceNotFound)
	}
	if !actor.Owns(svc.ProviderID) {
		return apperrors.ErrForbidden
	}
	if err := db.Delete(&svc).Error; err != nil {
		return dbError(err, apperrors.ErrServiceNotFound)
	}
	s.invalidate(ctx, id)
	s.logger.Info("🗑️ service %d deleted by %d", id, actor.ID)
	return nil
}

func (s *CatalogService) invalidate(ctx context.Context, id uint) {
	if err := DeleteFromRedis(ctx, s.rdb, serviceKey(id)); err != nil {
		s.logger.Warn("⚠️ redis del service %d: %v", id, err)
	}
}

type ratingRow struct {
	ServiceID uint
	Average   float64
	Count     int64
}

// attachRatings fills AverageRating and ReviewCount in place.
func attachRatings(db *gorm.DB, list []models.Service) error {
	if len(list) == 0 {
		return nil
	}
	ids := make([]uint, len(list))
	for i, s := range list {
		ids[i] = s.ID
	}
	var rows []ratingRow
	err := db.Model(&models.Review{}).
		Select("service_id, AVG(star) AS average, COUNT(*) AS count").
		Where("service_id IN ?", ids).
		Group("service_id").
		Scan(&rows).Error
	if err != nil {
		return err
	}
	byID := make(map[uint]ratingRow, len(rows))
	for _, r := range rows {
		byID[r.ServiceID] = r
	}
	for i := range list {
		r := byID[list[i].ID]
		list[i].AverageRating = r.Average
		list[i].ReviewCount = r.Count
	}
	return nil
}
