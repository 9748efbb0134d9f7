package feed

import (
	"github.com/gofiber/fiber/v2"
)

// Feature wires the feed service into the application loader.
type Feature struct {
	service *Service
}

// NewFeature creates the loadable feed feature around an assembled service.
func NewFeature(service *Service) *Feature {
	return &Feature{service: service}
}

// Name identifies the feature.
func (f *Feature) Name() string {
	return "feed"
}

// IsEnabled reports whether the feature should be loaded.
func (f *Feature) IsEnabled() bool {
	return true
}

// Load registers the feature routes.
func (f *Feature) Load(app fiber.Router) error {
	handler := NewHandler(f.service)
	handler.RegisterRoutes(app)
	return nil
}
