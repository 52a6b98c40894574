package services

import (
	"context"
	"testing"

	"market/constants"
	"market/dto"
	apperrors "market/errors"
	"market/models"
	"market/services/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateProfile(t *testing.T) {
	db := newTestDB(t)
	users := NewUserService(db, logger.Nop{})
	ctx := context.Background()

	alice := createUser(t, db, constants.RoleCustomer, "alice")
	bob := createUser(t, db, constants.RoleCustomer, "bob")

	province := models.Province{Name: "Hà Nội", Code: "01"}
	require.NoError(t, db.Create(&province).Error)
	other := models.Province{Name: "Đà Nẵng", Code: "48"}
	require.NoError(t, db.Create(&other).Error)
	district := models.District{ProvinceID: province.ID, Name: "Ba Đình"}
	require.NoError(t, db.Create(&district).Error)
	ward := models.Ward{DistrictID: district.ID, Name: "Phúc Xá"}
	require.NoError(t, db.Create(&ward).Error)

	phone := "0901234567"
	name := " Alice Nguyen "
	got, err := users.UpdateProfile(ctx, alice.ID, dto.UpdateProfileRequest{
		Name:        &name,
		PhoneNumber: &phone,
		Address: &dto.AddressInput{
			Street:     "1 Hoàng Diệu",
			ProvinceID: &province.ID,
			DistrictID: &district.ID,
			WardID:     &ward.ID,
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "Alice Nguyen", got.Name)
	require.NotNil(t, got.PhoneNumber)
	assert.Equal(t, phone, *got.PhoneNumber)
	require.NotNil(t, got.Address)
	require.NotNil(t, got.Address.Ward)
	assert.Equal(t, "Phúc Xá", got.Address.Ward.Name)
	assert.Equal(t, "Hà Nội", got.Address.Province.Name)

	t.Run("phone taken by another user", func(t *testing.T) {
		_, err := users.UpdateProfile(ctx, bob.ID, dto.UpdateProfileRequest{PhoneNumber: &phone})
		assert.ErrorIs(t, err, apperrors.ErrUserAlreadyExists)
	})

	t.Run("district outside province", func(t *testing.T) {
		_, err := users.UpdateProfile(ctx, bob.ID, dto.UpdateProfileRequest{
			Address: &dto.AddressInput{ProvinceID: &other.ID, DistrictID: &district.ID},
		})
		appErr := apperrors.GetAppError(err)
		require.NotNil(t, appErr)
		assert.Equal(t, apperrors.ErrCodeValidation, appErr.Code)
		assert.Contains(t, appErr.Fields, "districtId")
	})

	t.Run("empty phone clears it", func(t *testing.T) {
		empty := ""
		got, err := users.UpdateProfile(ctx, alice.ID, dto.UpdateProfileRequest{PhoneNumber: &empty})
		require.NoError(t, err)
		assert.Nil(t, got.PhoneNumber)

		var count int64
		require.NoError(t, db.Model(&models.Address{}).Where("user_id = ?", alice.ID).Count(&count).Error)
		assert.EqualValues(t, 1, count)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := users.UpdateProfile(ctx, 9999, dto.UpdateProfileRequest{Name: &name})
		assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
	})
}

func TestListUsersAndChangeStatus(t *testing.T) {
	db := newTestDB(t)
	users := NewUserService(db, logger.Nop{})
	ctx := context.Background()

	admin := createUser(t, db, constants.RoleAdmin, "root")
	createUser(t, db, constants.RoleCustomer, "minh")
	provider := createUser(t, db, constants.RoleProvider, "spa-provider")

	role := constants.RoleProvider
	list, total, err := users.ListUsers(ctx, dto.UserFilter{Role: &role})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, list, 1)
	assert.Equal(t, provider.ID, list[0].ID)

	list, total, err = users.ListUsers(ctx, dto.UserFilter{Name: "MINH"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, "minh", list[0].Name)

	actor := Actor{ID: admin.ID, Role: constants.RoleAdmin}
	require.NoError(t, users.ChangeUserStatus(ctx, actor, provider.ID, constants.UserStatusBlocked))

	blocked := constants.UserStatusBlocked
	list, _, err = users.ListUsers(ctx, dto.UserFilter{Status: &blocked})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, provider.ID, list[0].ID)

	err = users.ChangeUserStatus(ctx, actor, admin.ID, constants.UserStatusBlocked)
	appErr := apperrors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.ErrCodeInvalidOperation, appErr.Code)

	assert.ErrorIs(t, users.ChangeUserStatus(ctx, actor, 9999, constants.UserStatusActive), apperrors.ErrUserNotFound)
}
