package repositories

import (
	"context"
	"fmt"
	"time"

	gormModels "astra/telemetry-backend/internal/models/gorm"

	"gorm.io/gorm"
)

type UserRepositoryGORM struct {
	db *gorm.DB
}

// NewUserRepositoryGORM creates a new GORM-based user repository
func NewUserRepositoryGORM(db *gorm.DB) *UserRepositoryGORM {
	return &UserRepositoryGORM{db: db}
}

// Create inserts the user and its default profile in one transaction.
func (r *UserRepositoryGORM) Create(ctx context.Context, user *gormModels.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Profile").Create(user).Error; err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		profile := gormModels.NewDefaultProfile(user.ID)
		if err := tx.Create(&profile).Error; err != nil {
			return fmt.Errorf("failed to create profile: %w", err)
		}
		user.Profile = &profile
		return nil
	})
}

// GetByID retrieves a user with its profile preloaded
func (r *UserRepositoryGORM) GetByID(ctx context.Context, id uint) (*gormModels.User, error) {
	var user gormModels.User

	err := r.db.WithContext(ctx).
		Preload("Profile").
		First(&user, id).Error
	if err != nil {
		return nil, wrapNotFound(err, "user")
	}

	return &user, nil
}

// GetByEmail looks the user up case-insensitively
func (r *UserRepositoryGORM) GetByEmail(ctx context.Context, email string) (*gormModels.User, error) {
	var user gormModels.User

	err := r.db.WithContext(ctx).
		Preload("Profile").
		Where("LOWER(email) = LOWER(?)", email).
		First(&user).Error
	if err != nil {
		return nil, wrapNotFound(err, "user")
	}

	return &user, nil
}

func (r *UserRepositoryGORM) List(ctx context.Context) ([]gormModels.User, error) {
	var users []gormModels.User
	if err := r.db.WithContext(ctx).Preload("Profile").Order("id").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// EmailTaken reports whether another user (not excludeID) already uses email.
func (r *UserRepositoryGORM) EmailTaken(ctx context.Context, email string, excludeID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&gormModels.User{}).
		Where("LOWER(email) = LOWER(?) AND id <> ?", email, excludeID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check email: %w", err)
	}
	return count > 0, nil
}

func (r *UserRepositoryGORM) UsernameTaken(ctx context.Context, username string, excludeID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&gormModels.User{}).
		Where("username = ? AND id <> ?", username, excludeID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check username: %w", err)
	}
	return count > 0, nil
}

// CountExisting returns how many of ids belong to existing users.
func (r *UserRepositoryGORM) CountExisting(ctx context.Context, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var count int64
	if err := r.db.WithContext(ctx).Model(&gormModels.User{}).Where("id IN ?", ids).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}

// Update applies column updates; unknown ids yield ErrNotFound.
func (r *UserRepositoryGORM) Update(ctx context.Context, id uint, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	res := r.db.WithContext(ctx).Model(&gormModels.User{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("failed to update user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("user: %w", ErrNotFound)
	}
	return nil
}

func (r *UserRepositoryGORM) SetPassword(ctx context.Context, id uint, hash string) error {
	return r.Update(ctx, id, map[string]any{"password_hash": hash})
}

func (r *UserRepositoryGORM) TouchLastLogin(ctx context.Context, id uint, at time.Time) error {
	return r.Update(ctx, id, map[string]any{"last_login": at})
}

// Delete removes the user and everything it owns. Alerts the user
// acknowledged stay acknowledged with acknowledged_by cleared.
func (r *UserRepositoryGORM) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user gormModels.User
		if err := tx.Select("id").First(&user, id).Error; err != nil {
			return wrapNotFound(err, "user")
		}

		if err := tx.Model(&gormModels.Alert{}).
			Where("acknowledged_by_id = ?", id).
			Update("acknowledged_by_id", nil).Error; err != nil {
			return fmt.Errorf("failed to detach acknowledgments: %w", err)
		}

		var missionIDs []uint
		if err := tx.Model(&gormModels.Mission{}).Where("created_by_id = ?", id).Pluck("id", &missionIDs).Error; err != nil {
			return fmt.Errorf("failed to collect missions: %w", err)
		}

		var flightIDs []uint
		flights := tx.Model(&gormModels.Flight{}).Where("pilot_id = ?", id)
		if len(missionIDs) > 0 {
			flights = flights.Or("mission_id IN ?", missionIDs)
		}
		if err := flights.Pluck("id", &flightIDs).Error; err != nil {
			return fmt.Errorf("failed to collect flights: %w", err)
		}
		if err := deleteFlightsTx(tx, flightIDs); err != nil {
			return err
		}

		if err := tx.Exec("DELETE FROM mission_assignees WHERE user_id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to remove assignments: %w", err)
		}
		if err := deleteMissionsTx(tx, missionIDs); err != nil {
			return err
		}

		if err := tx.Where("user_id = ?", id).Delete(&gormModels.UserProfile{}).Error; err != nil {
			return fmt.Errorf("failed to delete profile: %w", err)
		}
		if err := tx.Delete(&gormModels.User{}, id).Error; err != nil {
			return fmt.Errorf("failed to delete user: %w", err)
		}
		return nil
	})
}

// GetOrCreateProfile returns the user's profile, creating the default one on first access.
func (r *UserRepositoryGORM) GetOrCreateProfile(ctx context.Context, userID uint) (*gormModels.UserProfile, error) {
	profile := gormModels.NewDefaultProfile(userID)
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		FirstOrCreate(&profile).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	return &profile, nil
}

func (r *UserRepositoryGORM) UpdateProfile(ctx context.Context, userID uint, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).Model(&gormModels.UserProfile{}).
		Where("user_id = ?", userID).
		Updates(updates).Error
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	return nil
}
