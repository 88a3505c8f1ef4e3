package repositories

import (
	"context"
	"fmt"

	"astra/telemetry-backend/internal/constants"
	gormModels "astra/telemetry-backend/internal/models/gorm"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MissionFilter struct {
	Status   constants.MissionStatus
	Priority constants.MissionPriority
	Search   string
}

type MissionRepository struct {
	db *gorm.DB
}

func NewMissionRepository(db *gorm.DB) *MissionRepository {
	return &MissionRepository{db: db}
}

func (r *MissionRepository) List(ctx context.Context, f MissionFilter) ([]gormModels.Mission, error) {
	q := r.db.WithContext(ctx).
		Preload("CreatedBy").
		Preload("AssignedTo")

	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Priority != "" {
		q = q.Where("priority = ?", f.Priority)
	}
	if f.Search != "" {
		p := likePattern(f.Search)
		q = q.Where(likeClause("name", "description"), p, p)
	}

	var missions []gormModels.Mission
	if err := q.Order("created_at DESC").Order("id DESC").Find(&missions).Error; err != nil {
		return nil, fmt.Errorf("failed to list missions: %w", err)
	}
	return missions, nil
}

func (r *MissionRepository) GetByID(ctx context.Context, id uint) (*gormModels.Mission, error) {
	var mission gormModels.Mission
	err := r.db.WithContext(ctx).
		Preload("CreatedBy").
		Preload("AssignedTo").
		First(&mission, id).Error
	if err != nil {
		return nil, wrapNotFound(err, "mission")
	}
	return &mission, nil
}

func (r *MissionRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&gormModels.Mission{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check mission: %w", err)
	}
	return count > 0, nil
}

// FlightCounts returns the number of flights per mission id.
func (r *MissionRepository) FlightCounts(ctx context.Context, missionIDs []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(missionIDs))
	if len(missionIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		MissionID uint
		Count     int64
	}
	err := r.db.WithContext(ctx).Model(&gormModels.Flight{}).
		Select("mission_id, COUNT(*) AS count").
		Where("mission_id IN ?", missionIDs).
		Group("mission_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count flights: %w", err)
	}
	for _, row := range rows {
		counts[row.MissionID] = row.Count
	}
	return counts, nil
}

// Create inserts the mission and its assignee links.
func (r *MissionRepository) Create(ctx context.Context, mission *gormModels.Mission, assignees []uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(mission).Error; err != nil {
			return fmt.Errorf("failed to create mission: %w", err)
		}
		return replaceAssigneesTx(tx, mission.ID, assignees)
	})
}

// Update applies column updates and replaces the assignee set.
func (r *MissionRepository) Update(ctx context.Context, id uint, updates map[string]any, assignees []uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&gormModels.Mission{}).Where("id = ?", id).Updates(updates)
		if res.Error != nil {
			return fmt.Errorf("failed to update mission: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("mission: %w", ErrNotFound)
		}
		return replaceAssigneesTx(tx, id, assignees)
	})
}

// Delete removes the mission with its flights.
func (r *MissionRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var mission gormModels.Mission
		if err := tx.Select("id").First(&mission, id).Error; err != nil {
			return wrapNotFound(err, "mission")
		}

		var flightIDs []uint
		if err := tx.Model(&gormModels.Flight{}).Where("mission_id = ?", id).Pluck("id", &flightIDs).Error; err != nil {
			return fmt.Errorf("failed to collect flights: %w", err)
		}
		if err := deleteFlightsTx(tx, flightIDs); err != nil {
			return err
		}
		return deleteMissionsTx(tx, []uint{id})
	})
}

func replaceAssigneesTx(tx *gorm.DB, missionID uint, assignees []uint) error {
	if err := tx.Exec("DELETE FROM mission_assignees WHERE mission_id = ?", missionID).Error; err != nil {
		return fmt.Errorf("failed to clear assignees: %w", err)
	}
	for _, userID := range assignees {
		if err := tx.Exec("INSERT INTO mission_assignees (mission_id, user_id) VALUES (?, ?)", missionID, userID).Error; err != nil {
			return fmt.Errorf("failed to assign user %d: %w", userID, err)
		}
	}
	return nil
}

// deleteMissionsTx expects the missions' flights to be gone already.
func deleteMissionsTx(tx *gorm.DB, missionIDs []uint) error {
	if len(missionIDs) == 0 {
		return nil
	}
	if err := tx.Exec("DELETE FROM mission_assignees WHERE mission_id IN ?", missionIDs).Error; err != nil {
		return fmt.Errorf("failed to remove assignments: %w", err)
	}
	if err := tx.Where("id IN ?", missionIDs).Delete(&gormModels.Mission{}).Error; err != nil {
		return fmt.Errorf("failed to delete missions: %w", err)
	}
	return nil
}
