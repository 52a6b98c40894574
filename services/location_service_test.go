package services

import (
	"context"
	"testing"

	apperrors "market/errors"
	"market/models"
	"market/services/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocationServiceCachesLists(t *testing.T) {
	db := newTestDB(t)
	rdb, mr := newTestRedis(t)
	ctx := context.Background()

	hn := models.Province{Name: "Hà Nội", Code: "01"}
	dn := models.Province{Name: "Đà Nẵng", Code: "48"}
	require.NoError(t, db.Create(&hn).Error)
	require.NoError(t, db.Create(&dn).Error)
	district := models.District{ProvinceID: dn.ID, Name: "Hải Châu"}
	require.NoError(t, db.Create(&district).Error)
	require.NoError(t, db.Create(&models.Ward{DistrictID: district.ID, Name: "Thạch Thang"}).Error)

	svc := NewLocationService(db, rdb, logger.Nop{})

	provinces, err := svc.Provinces(ctx)
	require.NoError(t, err)
	assert.Len(t, provinces, 2)
	assert.True(t, mr.Exists(provincesCacheKey))

	// Served from Redis after the first read.
	require.NoError(t, db.Create(&models.Province{Name: "Huế", Code: "46"}).Error)
	provinces, err = svc.Provinces(ctx)
	require.NoError(t, err)
	assert.Len(t, provinces, 2)

	require.NoError(t, svc.InvalidateCache(ctx))
	provinces, err = svc.Provinces(ctx)
	require.NoError(t, err)
	assert.Len(t, provinces, 3)

	districts, err := svc.Districts(ctx, dn.ID)
	require.NoError(t, err)
	require.Len(t, districts, 1)
	assert.Equal(t, "Hải Châu", districts[0].Name)

	wards, err := svc.Wards(ctx, district.ID)
	require.NoError(t, err)
	assert.Len(t, wards, 1)

	_, err = svc.Districts(ctx, 999)
	appErr := apperrors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.ErrCodeDBNotFound, appErr.Code)
}

func TestLocationServiceWithoutRedis(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.Create(&models.Province{Name: "Cần Thơ", Code: "92"}).Error)

	provinces, err := NewLocationService(db, nil, logger.Nop{}).Provinces(context.Background())
	require.NoError(t, err)
	assert.Len(t, provinces, 1)
}
