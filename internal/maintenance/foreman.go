package maintenance

import (
	"context"
	"log/slog"
	"strings"
)

type ForemanCreate struct {
	FullName    string
	Gender      Gender
	Workshop    string
	PhoneNumber string
}

// ForemanUpdate - полная замена изменяемых полей; пол после создания не меняется
type ForemanUpdate struct {
	FullName    string
	Workshop    string
	PhoneNumber string
}

func (in *ForemanCreate) normalize() error {
	in.FullName = SanitizeString(in.FullName)
	in.Workshop = SanitizeString(in.Workshop)
	in.PhoneNumber = strings.TrimSpace(in.PhoneNumber)

	if err := validateText("full_name", in.FullName, 1, 100); err != nil {
		return err
	}
	if err := ValidateGender(in.Gender); err != nil {
		return err
	}
	if err := validateText("workshop", in.Workshop, 0, 50); err != nil {
		return err
	}
	return ValidatePhone(in.PhoneNumber)
}

func (in *ForemanUpdate) normalize() error {
	in.FullName = SanitizeString(in.FullName)
	in.Workshop = SanitizeString(in.Workshop)
	in.PhoneNumber = strings.TrimSpace(in.PhoneNumber)

	if err := validateText("full_name", in.FullName, 1, 100); err != nil {
		return err
	}
	if err := validateText("workshop", in.Workshop, 0, 50); err != nil {
		return err
	}
	return ValidatePhone(in.PhoneNumber)
}

func (s *service) ListForemen(ctx context.Context) ([]Foreman, error) {
	return s.repo.ListForemen(ctx)
}

func (s *service) GetForeman(ctx context.Context, id int64) (Foreman, error) {
	return cachedLoad(ctx, s, cacheKey(EntityForeman, id), func() (Foreman, error) {
		return s.repo.GetForeman(ctx, id)
	})
}

func (s *service) CreateForeman(ctx context.Context, in ForemanCreate) (Foreman, error) {
	if err := in.normalize(); err != nil {
		return Foreman{}, err
	}

	foreman := Foreman{
		FullName:    in.FullName,
		Gender:      in.Gender,
		Workshop:    in.Workshop,
		PhoneNumber: in.PhoneNumber,
	}

	err := s.repo.Atomic(ctx, func(repo Repository) error {
		v := NewValidator(repo)
		if err := v.ValidatePersonPhone(ctx, foreman.PhoneNumber, PersonRef{Entity: EntityForeman}); err != nil {
			return err
		}
		if err := v.ValidateWorkshopExclusivity(ctx, foreman.Workshop, 0); err != nil {
			return err
		}
		return repo.CreateForeman(ctx, &foreman)
	})
	if err != nil {
		return Foreman{}, err
	}

	s.logger.Info("foreman created", slog.Int64("foreman_id", foreman.ID), slog.String("workshop", foreman.Workshop))
	return foreman, nil
}

func (s *service) UpdateForeman(ctx context.Context, id int64, in ForemanUpdate) (Foreman, error) {
	if err := in.normalize(); err != nil {
		return Foreman{}, err
	}

	var updated Foreman
	err := s.repo.Atomic(ctx, func(repo Repository) error {
		if _, err := repo.GetForeman(ctx, id); err != nil {
			return err
		}

		v := NewValidator(repo)
		if err := v.ValidatePersonPhone(ctx, in.PhoneNumber, PersonRef{Entity: EntityForeman, ID: id}); err != nil {
			return err
		}
		if err := v.ValidateWorkshopExclusivity(ctx, in.Workshop, id); err != nil {
			return err
		}

		var err error
		updated, err = repo.UpdateForeman(ctx, id, in)
		return err
	})
	if err != nil {
		return Foreman{}, err
	}

	s.refresh(ctx, cacheKey(EntityForeman, id), updated)
	s.logger.Info("foreman updated", slog.Int64("foreman_id", id))
	return updated, nil
}
