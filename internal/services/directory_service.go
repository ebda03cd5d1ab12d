package services

import (
	"context"
	"slices"
	"time"

	"github.com/esc-directory/consultants/internal/models"
	"github.com/esc-directory/consultants/internal/repository"
)

// DirectoryService derives read-only aggregate views from a full scan of the collection.
type DirectoryService interface {
	Services(ctx context.Context) ([]string, error)
	Regions(ctx context.Context) ([]string, error)
	Stats(ctx context.Context) (*Stats, error)
}

type Stats struct {
	TotalConsultants   int       `json:"totalConsultants"`
	CustomConsultants  int       `json:"customConsultants"`
	BuiltInConsultants int       `json:"builtInConsultants"`
	TotalServices      int       `json:"totalServices"`
	TotalRegions       int       `json:"totalRegions"`
	LastUpdated        time.Time `json:"lastUpdated"`
}

type directoryService struct {
	repo repository.ConsultantRepository
	now  func() time.Time
}

func NewDirectoryService(repo repository.ConsultantRepository) DirectoryService {
	return &directoryService{repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

var _ DirectoryService = (*directoryService)(nil)

func (s *directoryService) Services(ctx context.Context) ([]string, error) {
	all, err := s.repo.List(ctx, repository.ConsultantFilter{})
	if err != nil {
		return nil, err
	}
	return distinctServices(all), nil
}

func (s *directoryService) Regions(ctx context.Context) ([]string, error) {
	all, err := s.repo.List(ctx, repository.ConsultantFilter{})
	if err != nil {
		return nil, err
	}
	return distinctRegions(all), nil
}

func (s *directoryService) Stats(ctx context.Context) (*Stats, error) {
	all, err := s.repo.List(ctx, repository.ConsultantFilter{})
	if err != nil {
		return nil, err
	}

	custom := 0
	for i := range all {
		if all[i].IsCustom {
			custom++
		}
	}
	return &Stats{
		TotalConsultants:   len(all),
		CustomConsultants:  custom,
		BuiltInConsultants: len(all) - custom,
		TotalServices:      len(distinctServices(all)),
		TotalRegions:       len(distinctRegions(all)),
		LastUpdated:        s.now(),
	}, nil
}

func distinctServices(all []models.Consultant) []string {
	out := make([]string, 0, len(all))
	for i := range all {
		out = append(out, all[i].Service)
	}
	return sortedUnique(out)
}

func distinctRegions(all []models.Consultant) []string {
	out := []string{}
	for i := range all {
		out = append(out, all[i].Regions...)
	}
	return sortedUnique(out)
}

func sortedUnique(s []string) []string {
	slices.Sort(s)
	return slices.Compact(s)
}
