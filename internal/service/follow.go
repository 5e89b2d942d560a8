package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/cookbook-app/backend/internal/models"
)

// FollowService maintains the directed user-follow relation.
type FollowService struct {
	db *gorm.DB
}

func NewFollowService(db *gorm.DB) *FollowService {
	return &FollowService{db: db}
}

// Follow creates the edge userID -> targetID. The self-follow check
// runs before the duplicate check, so follow(U, U) always fails with
// ErrSelfFollow. An unknown target is ErrNotFound.
func (s *FollowService) Follow(ctx context.Context, userID, targetID uint) (*models.User, error) {
	var target models.User
	if err := s.db.WithContext(ctx).First(&target, "id = ?", targetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if userID == targetID {
		return nil, ErrSelfFollow
	}

	var count int64
	err := s.db.WithContext(ctx).Model(&models.Follow{}).
		Where("user_id = ? AND following_id = ?", userID, targetID).
		Count(&count).Error
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrAlreadyExists
	}

	follow := models.Follow{UserID: userID, FollowingID: targetID}
	if err := s.db.WithContext(ctx).Create(&follow).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyExists
		}
		return nil, err
	}

	return &target, nil
}

// Unfollow removes the edge userID -> targetID. An unknown target is
// ErrNotFound; a missing edge is a validation failure.
func (s *FollowService) Unfollow(ctx context.Context, userID, targetID uint) error {
	var target models.User
	if err := s.db.WithContext(ctx).First(&target, "id = ?", targetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	result := s.db.WithContext(ctx).
		Where("user_id = ? AND following_id = ?", userID, targetID).
		Delete(&models.Follow{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return invalid("subscription does not exist")
	}
	return nil
}

// Followees returns a page of users the given user follows, oldest
// subscription first, plus the total count.
func (s *FollowService) Followees(ctx context.Context, userID uint, limit, offset int) ([]models.User, int64, error) {
	base := s.db.WithContext(ctx).Model(&models.Follow{}).Where("user_id = ?", userID)

	var count int64
	if err := base.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	var users []models.User
	err := s.db.WithContext(ctx).Model(&models.User{}).
		Joins("JOIN follows ON follows.following_id = users.id").
		Where("follows.user_id = ?", userID).
		Order("follows.id ASC").
		Limit(limit).
		Offset(offset).
		Find(&users).Error
	if err != nil {
		return nil, 0, err
	}

	return users, count, nil
}

// IsSubscribed reports, for each of the given users, whether the viewer
// follows them. Empty for anonymous viewers.
func (s *FollowService) IsSubscribed(ctx context.Context, viewerID uint, userIDs []uint) (map[uint]bool, error) {
	subscribed := make(map[uint]bool)
	if viewerID == 0 || len(userIDs) == 0 {
		return subscribed, nil
	}

	var ids []uint
	err := s.db.WithContext(ctx).Model(&models.Follow{}).
		Where("user_id = ? AND following_id IN ?", viewerID, userIDs).
		Pluck("following_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		subscribed[id] = true
	}
	return subscribed, nil
}
