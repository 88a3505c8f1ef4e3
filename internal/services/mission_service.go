package services

import (
	"context"
	"slices"
	"strings"
	"time"

	"astra/telemetry-backend/internal/auth"
	"astra/telemetry-backend/internal/constants"
	"astra/telemetry-backend/internal/db/repositories"
	"astra/telemetry-backend/internal/logging"
	"astra/telemetry-backend/internal/models/dtos"
	gormModels "astra/telemetry-backend/internal/models/gorm"
)

type MissionService struct {
	missions    *repositories.MissionRepository
	users       *repositories.UserRepositoryGORM
	invalidator StatsInvalidator
}

func NewMissionService(missions *repositories.MissionRepository, users *repositories.UserRepositoryGORM, inv StatsInvalidator) *MissionService {
	return &MissionService{missions: missions, users: users, invalidator: invalidatorOrNoop(inv)}
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

func dedupeIDs(ids []uint) []uint {
	out := slices.Clone(ids)
	slices.Sort(out)
	return slices.Compact(out)
}

// validateMission normalizes req in place and returns field errors.
func (s *MissionService) validateMission(ctx context.Context, req *dtos.MissionReq) (FieldErrors, error) {
	fe := FieldErrors{}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		fe.Add("name", "This field is required")
	} else if len(req.Name) > 200 {
		fe.Add("name", "Ensure this field has no more than 200 characters")
	}

	if req.Status == "" {
		req.Status = constants.MissionPlanned
	}
	if !req.Status.Valid() {
		fe.Add("status", "Invalid mission status")
	}
	if req.Priority == "" {
		req.Priority = constants.PriorityMedium
	}
	if !req.Priority.Valid() {
		fe.Add("priority", "Invalid mission priority")
	}

	if req.PlannedStart == nil {
		fe.Add("planned_start", "This field is required")
	}
	if req.PlannedEnd == nil {
		fe.Add("planned_end", "This field is required")
	}
	if req.PlannedStart != nil && req.PlannedEnd != nil && req.PlannedEnd.Before(*req.PlannedStart) {
		fe.Add("planned_end", "planned_end must not be before planned_start")
	}
	if req.ActualStart != nil && req.ActualEnd != nil && req.ActualEnd.Before(*req.ActualStart) {
		fe.Add("actual_end", "actual_end must not be before actual_start")
	}

	req.AssignedTo = dedupeIDs(req.AssignedTo)
	if len(req.AssignedTo) > 0 {
		n, err := s.users.CountExisting(ctx, req.AssignedTo)
		if err != nil {
			return nil, fromRepo("user", err)
		}
		if n != int64(len(req.AssignedTo)) {
			fe.Add("assigned_to", "One or more assigned users do not exist")
		}
	}
	return fe, nil
}

func (s *MissionService) List(ctx context.Context, f repositories.MissionFilter) ([]dtos.MissionResponse, error) {
	fe := FieldErrors{}
	if f.Status != "" && !f.Status.Valid() {
		fe.Add("status", "Invalid mission status")
	}
	if f.Priority != "" && !f.Priority.Valid() {
		fe.Add("priority", "Invalid mission priority")
	}
	if err := fe.Err(); err != nil {
		return nil, err
	}

	missions, err := s.missions.List(ctx, f)
	if err != nil {
		return nil, fromRepo("mission", err)
	}

	ids := make([]uint, 0, len(missions))
	for _, m := range missions {
		ids = append(ids, m.ID)
	}
	counts, err := s.missions.FlightCounts(ctx, ids)
	if err != nil {
		return nil, fromRepo("mission", err)
	}

	out := make([]dtos.MissionResponse, 0, len(missions))
	for _, m := range missions {
		out = append(out, dtos.NewMissionResponse(m, counts[m.ID]))
	}
	return out, nil
}

func (s *MissionService) Get(ctx context.Context, id uint) (*dtos.MissionResponse, error) {
	mission, err := s.missions.GetByID(ctx, id)
	if err != nil {
		return nil, fromRepo("mission", err)
	}
	counts, err := s.missions.FlightCounts(ctx, []uint{id})
	if err != nil {
		return nil, fromRepo("mission", err)
	}
	resp := dtos.NewMissionResponse(*mission, counts[id])
	return &resp, nil
}

// Create stores a mission owned by the caller.
func (s *MissionService) Create(ctx context.Context, caller auth.UserClaims, req dtos.MissionReq) (*dtos.MissionResponse, error) {
	fe, err := s.validateMission(ctx, &req)
	if err != nil {
		return nil, err
	}
	if err := fe.Err(); err != nil {
		return nil, err
	}

	mission := &gormModels.Mission{
		Name:         req.Name,
		Description:  req.Description,
		Status:       req.Status,
		Priority:     req.Priority,
		PlannedStart: req.PlannedStart.UTC(),
		PlannedEnd:   req.PlannedEnd.UTC(),
		ActualStart:  utcPtr(req.ActualStart),
		ActualEnd:    utcPtr(req.ActualEnd),
		CreatedByID:  caller.UserID(),
	}
	if err := s.missions.Create(ctx, mission, req.AssignedTo); err != nil {
		return nil, fromRepo("mission", err)
	}
	s.invalidator.Invalidate()

	logging.Info("mission created", "mission_id", mission.ID, "created_by", caller.UserID())
	return s.Get(ctx, mission.ID)
}

// Update replaces every writable field, including the assignee set.
func (s *MissionService) Update(ctx context.Context, id uint, req dtos.MissionReq) (*dtos.MissionResponse, error) {
	if _, err := s.missions.GetByID(ctx, id); err != nil {
		return nil, fromRepo("mission", err)
	}

	fe, err := s.validateMission(ctx, &req)
	if err != nil {
		return nil, err
	}
	if err := fe.Err(); err != nil {
		return nil, err
	}

	updates := map[string]any{
		"name":          req.Name,
		"description":   req.Description,
		"status":        req.Status,
		"priority":      req.Priority,
		"planned_start": req.PlannedStart.UTC(),
		"planned_end":   req.PlannedEnd.UTC(),
		"actual_start":  utcPtr(req.ActualStart),
		"actual_end":    utcPtr(req.ActualEnd),
	}
	if err := s.missions.Update(ctx, id, updates, req.AssignedTo); err != nil {
		return nil, fromRepo("mission", err)
	}
	s.invalidator.Invalidate()
	return s.Get(ctx, id)
}

func (s *MissionService) Delete(ctx context.Context, id uint) error {
	if err := s.missions.Delete(ctx, id); err != nil {
		return fromRepo("mission", err)
	}
	s.invalidator.Invalidate()
	logging.Info("mission deleted", "mission_id", id)
	return nil
}
