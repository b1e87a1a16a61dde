package api

import (
	"github.com/bookden/bookden-server/internal/service"
)

// Services groups all business logic services used by the API server.
// This reduces the parameter count for NewServer and improves testability.
type Services struct {
	Location *service.LocationService
	Setup    *service.SetupService
	Picker   *service.PickerService
	Book     *service.BookService
}
