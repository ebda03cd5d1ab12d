package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/esc-directory/consultants/internal/models"
	"github.com/esc-directory/consultants/internal/repository"
	appErr "github.com/esc-directory/consultants/pkg/errors"
	"github.com/esc-directory/consultants/pkg/logger"
	"github.com/esc-directory/consultants/pkg/metrics"
)

var (
	ErrNotFound       = appErr.New(appErr.CodeNotFound, "consultant not found")
	ErrInvalidEmail   = appErr.New(appErr.CodeInvalid, "invalid email format")
	ErrDuplicateEmail = appErr.New(appErr.CodeConflict, "duplicate email")
	ErrBuiltInDelete  = appErr.New(appErr.CodeForbidden, "built-in records cannot be deleted")
)

// ConsultantService owns filtering and every mutation of the consultant collection.
type ConsultantService interface {
	List(ctx context.Context, filters ListFilters) ([]models.Consultant, error)
	Get(ctx context.Context, id uint) (*models.Consultant, error)
	Create(ctx context.Context, input ConsultantInput) (*models.Consultant, error)
	Update(ctx context.Context, id uint, input ConsultantInput) (*models.Consultant, error)
	Delete(ctx context.Context, id uint) (*DeleteResult, error)
	// Seed inserts built-in consultants, skipping emails already present.
	Seed(ctx context.Context, inputs []ConsultantInput) (int64, error)
}

// ConsultantInput carries the replaceable fields of a consultant.
type ConsultantInput struct {
	Firm    string   `json:"firm" validate:"required,storable"`
	Contact string   `json:"contact" validate:"required,storable"`
	Email   string   `json:"email" validate:"required,storable,basic_email"`
	Phone   *string  `json:"phone" validate:"omitempty,storable"`
	Service string   `json:"service" validate:"required,storable"`
	Regions []string `json:"regions" validate:"required,min=1,dive,required,storable"`
}

// ListFilters are the optional list constraints. Blank values impose none.
type ListFilters struct {
	Service string
	Region  string
	Search  string
}

type DeleteResult struct {
	DeletedID uint `json:"deletedId"`
}

type consultantService struct {
	repo    repository.ConsultantRepository
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewConsultantService(repo repository.ConsultantRepository, m *metrics.Metrics) ConsultantService {
	return &consultantService{repo: repo, metrics: m, now: defaultNow}
}

// Ensure interfaces are satisfied at compile time
var _ ConsultantService = (*consultantService)(nil)

// Postgres stores microseconds; truncating keeps returned and stored timestamps equal.
func defaultNow() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

func (s *consultantService) List(ctx context.Context, filters ListFilters) ([]models.Consultant, error) {
	f := repository.ConsultantFilter{
		Service: strings.TrimSpace(filters.Service),
		Region:  strings.TrimSpace(filters.Region),
		Search:  strings.TrimSpace(filters.Search),
	}
	logger.FromContext(ctx).Debug("list consultants",
		zap.String("service", f.Service), zap.String("region", f.Region), zap.String("search", f.Search))
	return s.repo.List(ctx, f)
}

func (s *consultantService) Get(ctx context.Context, id uint) (*models.Consultant, error) {
	var c models.Consultant
	if err := s.repo.GetByID(ctx, id, &c); err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

// Create validates input, then checks and inserts under the email lock.
func (s *consultantService) Create(ctx context.Context, input ConsultantInput) (*models.Consultant, error) {
	in, err := normalizeInput(input)
	if err != nil {
		return nil, err
	}

	now := s.now()
	c := &models.Consultant{
		Firm:      in.Firm,
		Contact:   in.Contact,
		Email:     in.Email,
		Phone:     in.Phone,
		Service:   in.Service,
		Regions:   datatypes.JSONSlice[string](in.Regions),
		IsCustom:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = s.repo.Transaction(ctx, func(tx repository.ConsultantRepository) error {
		if err := reserveEmail(ctx, tx, c.Email, 0); err != nil {
			return err
		}
		return tx.Create(ctx, c)
	})
	if err != nil {
		return nil, duplicate(err)
	}

	s.metrics.IncCreated()
	logger.FromContext(ctx).Info("consultant created", zap.Uint("consultant_id", c.ID), zap.String("email", c.Email))
	return c, nil
}

// Update replaces the editable fields of an existing consultant; id, createdAt
// and isCustom are preserved.
func (s *consultantService) Update(ctx context.Context, id uint, input ConsultantInput) (*models.Consultant, error) {
	in, err := normalizeInput(input)
	if err != nil {
		return nil, err
	}

	var out models.Consultant
	err = s.repo.Transaction(ctx, func(tx repository.ConsultantRepository) error {
		if err := tx.GetByID(ctx, id, &out); err != nil {
			return notFound(err)
		}
		if err := reserveEmail(ctx, tx, in.Email, id); err != nil {
			return err
		}

		out.Firm = in.Firm
		out.Contact = in.Contact
		out.Email = in.Email
		out.Phone = in.Phone
		out.Service = in.Service
		out.Regions = datatypes.JSONSlice[string](in.Regions)
		out.UpdatedAt = s.now()
		return tx.Update(ctx, &out)
	})
	if err != nil {
		return nil, duplicate(err)
	}

	s.metrics.IncUpdated()
	logger.FromContext(ctx).Info("consultant updated", zap.Uint("consultant_id", id))
	return &out, nil
}

func (s *consultantService) Delete(ctx context.Context, id uint) (*DeleteResult, error) {
	err := s.repo.Transaction(ctx, func(tx repository.ConsultantRepository) error {
		var c models.Consultant
		if err := tx.GetByID(ctx, id, &c); err != nil {
			return notFound(err)
		}
		if !c.IsCustom {
			return ErrBuiltInDelete
		}
		if err := tx.Delete(ctx, id); err != nil {
			return notFound(err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrBuiltInDelete) {
			logger.FromContext(ctx).Warn("refused to delete built-in consultant", zap.Uint("consultant_id", id))
		}
		return nil, err
	}

	s.metrics.IncDeleted()
	logger.FromContext(ctx).Info("consultant deleted", zap.Uint("consultant_id", id))
	return &DeleteResult{DeletedID: id}, nil
}

func (s *consultantService) Seed(ctx context.Context, inputs []ConsultantInput) (int64, error) {
	now := s.now()
	seen := make(map[string]bool, len(inputs))
	items := make([]models.Consultant, 0, len(inputs))
	for i, raw := range inputs {
		in, err := normalizeInput(raw)
		if err != nil {
			if ae, ok := appErr.As(err); ok {
				return 0, ae.WithMeta("index", i)
			}
			return 0, err
		}
		if seen[in.Email] {
			logger.FromContext(ctx).Warn("skipping repeated seed email", zap.String("email", in.Email), zap.Int("index", i))
			continue
		}
		seen[in.Email] = true
		items = append(items, models.Consultant{
			Firm:      in.Firm,
			Contact:   in.Contact,
			Email:     in.Email,
			Phone:     in.Phone,
			Service:   in.Service,
			Regions:   datatypes.JSONSlice[string](in.Regions),
			IsCustom:  false,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}

	n, err := s.repo.InsertIgnore(ctx, items)
	if err != nil {
		return 0, err
	}
	s.metrics.AddSeeded(n)
	logger.FromContext(ctx).Info("seed loaded", zap.Int("candidates", len(items)), zap.Int64("inserted", n))
	return n, nil
}

// reserveEmail takes the per-email lock and fails if another consultant already uses email.
func reserveEmail(ctx context.Context, tx repository.ConsultantRepository, email string, selfID uint) error {
	if err := tx.LockEmail(ctx, email); err != nil {
		return err
	}
	taken, err := tx.EmailTaken(ctx, email, selfID)
	if err != nil {
		return err
	}
	if taken {
		return ErrDuplicateEmail
	}
	return nil
}

func notFound(err error) error {
	if appErr.IsCode(err, appErr.CodeNotFound) {
		return ErrNotFound
	}
	return err
}

// duplicate maps a unique-index violation from the store onto ErrDuplicateEmail.
func duplicate(err error) error {
	if appErr.IsCode(err, appErr.CodeConflict) && !errors.Is(err, ErrDuplicateEmail) {
		return appErr.Wrap(err, appErr.CodeConflict, ErrDuplicateEmail.Message)
	}
	return err
}
