package services

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"

	apperrors "market/errors"
	"market/models"

	"gorm.io/gorm"
)

// Bảng chữ cái mã khuyến mãi, bỏ 0/O và 1/I
const promoAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const (
	promoSuffixLen  = 8
	promoMaxRetries = 5
)

// GeneratePromoCode returns PREFIX-XXXXXXXX with a random suffix.
func GeneratePromoCode(prefix string) (string, error) {
	max := big.NewInt(int64(len(promoAlphabet)))
	var b strings.Builder
	b.WriteString(prefix)
	b.WriteByte('-')
	for i := 0; i < promoSuffixLen; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("promo code entropy: %w", err)
		}
		b.WriteByte(promoAlphabet[n.Int64()])
	}
	return b.String(), nil
}

func promoPrefix(d *models.Discount) string {
	return fmt.Sprintf("D%d", d.ID)
}

// issuePromoCode creates a PromoCode row with a code not used yet. The unique
// index on code still rejects a collision racing with another writer.
func issuePromoCode(tx *gorm.DB, d *models.Discount, customerID uint, gen func(string) (string, error)) (*models.PromoCode, error) {
	for attempt := 0; attempt < promoMaxRetries; attempt++ {
		code, err := gen(promoPrefix(d))
		if err != nil {
			return nil, err
		}
		var taken int64
		if err := tx.Model(&models.PromoCode{}).Where("code = ?", code).Count(&taken).Error; err != nil {
			return nil, err
		}
		if taken > 0 {
			continue
		}
		promo := &models.PromoCode{Code: code, DiscountID: d.ID, CustomerID: customerID}
		if err := tx.Create(promo).Error; err != nil {
			return nil, err
		}
		return promo, nil
	}
	return nil, fmt.Errorf("no free promo code for discount %d after %d attempts", d.ID, promoMaxRetries)
}

type PromoCodeService struct {
	db *gorm.DB
}

func NewPromoCodeService(db *gorm.DB) *PromoCodeService {
	return &PromoCodeService{db: db}
}

// ListMine returns the customer's codes, newest first.
func (s *PromoCodeService) ListMine(ctx context.Context, customerID uint) ([]models.PromoCode, error) {
	var codes []models.PromoCode
	err := s.db.WithContext(ctx).
		Preload("Discount.Service").
		Where("customer_id = ?", customerID).
		Order("id DESC").
		Find(&codes).Error
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrCodeDBError, "Could not load promo codes", err)
	}
	return codes, nil
}
