package maintenance

import (
	"context"
	"log/slog"
	"strings"
)

type TechnicianCreate struct {
	Specialization string
	FullName       string
	Gender         Gender
	PhoneNumber    string
}

type TechnicianUpdate struct {
	Specialization string
	FullName       string
	PhoneNumber    string
}

func (in *TechnicianCreate) normalize() error {
	in.Specialization = SanitizeString(in.Specialization)
	in.FullName = SanitizeString(in.FullName)
	in.PhoneNumber = strings.TrimSpace(in.PhoneNumber)

	if err := validateText("specialization", in.Specialization, 1, 50); err != nil {
		return err
	}
	if err := validateText("full_name", in.FullName, 1, 100); err != nil {
		return err
	}
	if err := ValidateGender(in.Gender); err != nil {
		return err
	}
	return ValidatePhone(in.PhoneNumber)
}

func (in *TechnicianUpdate) normalize() error {
	in.Specialization = SanitizeString(in.Specialization)
	in.FullName = SanitizeString(in.FullName)
	in.PhoneNumber = strings.TrimSpace(in.PhoneNumber)

	if err := validateText("specialization", in.Specialization, 1, 50); err != nil {
		return err
	}
	if err := validateText("full_name", in.FullName, 1, 100); err != nil {
		return err
	}
	return ValidatePhone(in.PhoneNumber)
}

func (s *service) ListTechnicians(ctx context.Context) ([]Technician, error) {
	return s.repo.ListTechnicians(ctx)
}

func (s *service) GetTechnician(ctx context.Context, id int64) (Technician, error) {
	return cachedLoad(ctx, s, cacheKey(EntityTechnician, id), func() (Technician, error) {
		return s.repo.GetTechnician(ctx, id)
	})
}

func (s *service) CreateTechnician(ctx context.Context, in TechnicianCreate) (Technician, error) {
	if err := in.normalize(); err != nil {
		return Technician{}, err
	}

	technician := Technician{
		Specialization: in.Specialization,
		FullName:       in.FullName,
		Gender:         in.Gender,
		PhoneNumber:    in.PhoneNumber,
	}

	err := s.repo.Atomic(ctx, func(repo Repository) error {
		v := NewValidator(repo)
		if err := v.ValidatePersonPhone(ctx, technician.PhoneNumber, PersonRef{Entity: EntityTechnician}); err != nil {
			return err
		}
		return repo.CreateTechnician(ctx, &technician)
	})
	if err != nil {
		return Technician{}, err
	}

	s.logger.Info("technician created", slog.Int64("technician_id", technician.ID))
	return technician, nil
}

func (s *service) UpdateTechnician(ctx context.Context, id int64, in TechnicianUpdate) (Technician, error) {
	if err := in.normalize(); err != nil {
		return Technician{}, err
	}

	var updated Technician
	err := s.repo.Atomic(ctx, func(repo Repository) error {
		if _, err := repo.GetTechnician(ctx, id); err != nil {
			return err
		}

		v := NewValidator(repo)
		if err := v.ValidatePersonPhone(ctx, in.PhoneNumber, PersonRef{Entity: EntityTechnician, ID: id}); err != nil {
			return err
		}

		var err error
		updated, err = repo.UpdateTechnician(ctx, id, in)
		return err
	})
	if err != nil {
		return Technician{}, err
	}

	s.refresh(ctx, cacheKey(EntityTechnician, id), updated)
	s.logger.Info("technician updated", slog.Int64("technician_id", id))
	return updated, nil
}

// TechnicianTasks возвращает задачи работника, новые первыми
func (s *service) TechnicianTasks(ctx context.Context, technicianID int64) ([]Task, error) {
	if _, err := s.repo.GetTechnician(ctx, technicianID); err != nil {
		return nil, err
	}
	return s.repo.TasksByTechnician(ctx, technicianID)
}
