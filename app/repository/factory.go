package repository

import (
	"sync"

	"gorm.io/gorm"
)

// Factory manages repository instances and ensures they are singletons
type Factory struct {
	db    *gorm.DB
	repos *Repositories
	once  sync.Once
}

// NewFactory creates a new repository factory
func NewFactory(db *gorm.DB) *Factory {
	return &Factory{
		db: db,
	}
}

// GetRepositories returns a singleton instance of all repositories
func (f *Factory) GetRepositories() *Repositories {
	f.once.Do(func() {
		f.repos = NewRepositories(f.db)
	})
	return f.repos
}

// GetActivationRepository returns the activation repository instance
func (f *Factory) GetActivationRepository() ActivationRepository {
	return f.GetRepositories().Activation
}

// GetInquiryMessageRepository returns the inquiry message repository instance
func (f *Factory) GetInquiryMessageRepository() InquiryMessageRepository {
	return f.GetRepositories().InquiryMessage
}
