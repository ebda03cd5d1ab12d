package repository

import (
	"context"
	"encoding/json"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/esc-directory/consultants/internal/models"
	appErr "github.com/esc-directory/consultants/pkg/errors"
	"github.com/esc-directory/consultants/pkg/utils"
)

// ConsultantFilter narrows List. Empty fields are ignored; set fields combine with AND.
type ConsultantFilter struct {
	// Service must equal the consultant's service exactly.
	Service string
	// Region must be an element of the consultant's regions.
	Region string
	// Search is a case-insensitive substring of firm, contact, email or service.
	Search string
}

type ConsultantRepository interface {
	BaseRepository[models.Consultant]
	// List returns matching consultants ordered by firm, then id.
	List(ctx context.Context, f ConsultantFilter) ([]models.Consultant, error)
	// EmailTaken reports whether a consultant other than excludeID uses email.
	EmailTaken(ctx context.Context, email string, excludeID uint) (bool, error)
	// LockEmail serializes writers touching email until the enclosing transaction ends.
	LockEmail(ctx context.Context, email string) error
	// InsertIgnore inserts items, skipping any whose email already exists, and
	// returns the number of rows written.
	InsertIgnore(ctx context.Context, items []models.Consultant) (int64, error)
	// Transaction runs fn against a repository bound to a single transaction.
	Transaction(ctx context.Context, fn func(tx ConsultantRepository) error) error
}

type consultantRepository struct {
	BaseRepository[models.Consultant]
	db *gorm.DB
}

func NewConsultantRepository(db *gorm.DB) ConsultantRepository {
	return &consultantRepository{BaseRepository: NewBaseRepository[models.Consultant](db), db: db}
}

func (r *consultantRepository) List(ctx context.Context, f ConsultantFilter) ([]models.Consultant, error) {
	q := r.db.WithContext(ctx).Model(&models.Consultant{})
	if f.Service != "" {
		q = q.Where("service = ?", f.Service)
	}
	if f.Region != "" {
		// jsonb containment matches whole array elements, never substrings.
		needle, err := json.Marshal([]string{f.Region})
		if err != nil {
			return nil, appErr.Wrap(err, appErr.CodeInternal, "encode region filter failed")
		}
		q = q.Where("regions @> ?::jsonb", string(needle))
	}
	if f.Search != "" {
		pattern := "%" + escapeLike(f.Search) + "%"
		q = q.Where("(firm ILIKE ? OR contact ILIKE ? OR email ILIKE ? OR service ILIKE ?)", pattern, pattern, pattern, pattern)
	}

	out := []models.Consultant{}
	if err := q.Order("firm ASC").Order("id ASC").Find(&out).Error; err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "list consultants failed")
	}
	return out, nil
}

func (r *consultantRepository) EmailTaken(ctx context.Context, email string, excludeID uint) (bool, error) {
	var n int64
	q := r.db.WithContext(ctx).Model(&models.Consultant{}).Where("email = ?", email)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&n).Error; err != nil {
		return false, appErr.Wrap(err, appErr.CodeInternal, "check email failed")
	}
	return n > 0, nil
}

func (r *consultantRepository) LockEmail(ctx context.Context, email string) error {
	if err := r.db.WithContext(ctx).Exec("SELECT pg_advisory_xact_lock(?)", utils.LockKey(email)).Error; err != nil {
		return appErr.Wrap(err, appErr.CodeInternal, "lock email failed")
	}
	return nil
}

func (r *consultantRepository) InsertIgnore(ctx context.Context, items []models.Consultant) (int64, error) {
	if len(items) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "email"}}, DoNothing: true}).
		Create(&items)
	if res.Error != nil {
		return 0, appErr.Wrap(res.Error, appErr.CodeInternal, "insert consultants failed")
	}
	return res.RowsAffected, nil
}

func (r *consultantRepository) Transaction(ctx context.Context, fn func(tx ConsultantRepository) error) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewConsultantRepository(tx))
	})
	if err == nil {
		return nil
	}
	if _, ok := appErr.As(err); ok {
		return err
	}
	return appErr.Wrap(err, appErr.CodeInternal, "transaction failed")
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
