package providers

import (
	"github.com/samber/do/v2"

	"github.com/bookden/bookden-server/internal/logger"
	"github.com/bookden/bookden-server/internal/service"
)

// ProvideLocationService provides the storage location service.
func ProvideLocationService(i do.Injector) (*service.LocationService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewLocationService(storeHandle.Store, log.Logger), nil
}

// ProvideSetupService provides the preset seeding and legacy migration service.
func ProvideSetupService(i do.Injector) (*service.SetupService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	locationService := do.MustInvoke[*service.LocationService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewSetupService(storeHandle.Store, locationService, log.Logger), nil
}

// ProvidePickerService provides the guided location picker service.
func ProvidePickerService(i do.Injector) (*service.PickerService, error) {
	locationService := do.MustInvoke[*service.LocationService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewPickerService(locationService, log.Logger), nil
}

// ProvideBookService provides the book service.
func ProvideBookService(i do.Injector) (*service.BookService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	locationService := do.MustInvoke[*service.LocationService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewBookService(storeHandle.Store, locationService, log.Logger), nil
}
