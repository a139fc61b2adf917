package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/agencydesk/billing-app/internal/models"
)

// ProfileService reads and writes the single business profile record.
type ProfileService struct{ DB *gorm.DB }

func NewProfileService(db *gorm.DB) *ProfileService { return &ProfileService{DB: db} }

// Get returns the business profile if present, otherwise nil.
func (s *ProfileService) Get() (*models.BusinessProfile, error) {
	var bp models.BusinessProfile
	err := s.DB.First(&bp).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &bp, nil
}

// Save creates the profile on first call and updates it afterwards (single
// business app).
func (s *ProfileService) Save(in *models.BusinessProfile) (*models.BusinessProfile, error) {
	existing, err := s.Get()
	if err != nil {
		return nil, err
	}
	if existing == nil {
		if err := s.DB.Create(in).Error; err != nil {
			return nil, err
		}
		return in, nil
	}
	in.ID = existing.ID
	in.CreatedAt = existing.CreatedAt
	if err := s.DB.Save(in).Error; err != nil {
		return nil, err
	}
	return in, nil
}
