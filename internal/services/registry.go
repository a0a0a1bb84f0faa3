package services

import (
	"onversed_backend/internal/cache"
	"onversed_backend/internal/imageprocessor"
	"onversed_backend/internal/repositories"
	"onversed_backend/internal/storage"
)

// ServiceContainer содержит все сервисы приложения.
type ServiceContainer struct {
	TokenService        TokenService
	CodeService         CodeVerificationService
	NotificationService NotificationService
	AuthService         AuthenticationService
	UserService         UserService
	CustomerService     CustomerService
	EmployeeService     EmployeeService
	ProfileService      ProfileService
	RoleService         RoleService
	ItemService         ItemService
	CollectionService   CollectionService
	ActivityService     ActivityService
	TableValueService   TableValueService
}

// Deps - внешние зависимости сервисов
type Deps struct {
	Token     TokenConfig
	Auth      AuthConfig
	Upload    UploadConfig
	Store     storage.AssetStore
	Cache     cache.Cache
	Processor *imageprocessor.Processor
}

// Repositories - все репозитории (без состояния, db передается в методы)
type Repositories struct {
	User       repositories.UserRepository
	Company    repositories.CompanyRepository
	Profile    repositories.ProfileRepository
	Role       repositories.RoleRepository
	Token      repositories.TokenRepository
	Code       repositories.CodeVerificationRepository
	Outbox     repositories.OutboxRepository
	Item       repositories.ItemRepository
	Collection repositories.CollectionRepository
	Blob       repositories.BlobRepository
	Activity   repositories.ActivityRepository
	Lookup     repositories.LookupRepository
}

func NewRepositories() *Repositories {
	return &Repositories{
		User:       repositories.NewUserRepository(),
		Company:    repositories.NewCompanyRepository(),
		Profile:    repositories.NewProfileRepository(),
		Role:       repositories.NewRoleRepository(),
		Token:      repositories.NewTokenRepository(),
		Code:       repositories.NewCodeVerificationRepository(),
		Outbox:     repositories.NewOutboxRepository(),
		Item:       repositories.NewItemRepository(),
		Collection: repositories.NewCollectionRepository(),
		Blob:       repositories.NewBlobRepository(),
		Activity:   repositories.NewActivityRepository(),
		Lookup:     repositories.NewLookupRepository(),
	}
}

// NewServiceContainer собирает сервисы в порядке зависимостей
func NewServiceContainer(repos *Repositories, deps Deps) *ServiceContainer {
	if deps.Processor == nil {
		deps.Processor = imageprocessor.NewProcessor(0)
	}

	tokenService := NewTokenService(deps.Token, repos.Token, repos.User)
	codeService := NewCodeVerificationService(repos.Code, repos.User)
	notificationService := NewNotificationService(repos.Outbox)

	return &ServiceContainer{
		TokenService:        tokenService,
		CodeService:         codeService,
		NotificationService: notificationService,
		AuthService: NewAuthenticationService(deps.Auth, repos.User, repos.Profile, repos.Token,
			tokenService, codeService, notificationService),
		UserService: NewUserService(repos.User, codeService, tokenService),
		CustomerService: NewCustomerService(repos.User, repos.Company, repos.Profile,
			codeService, tokenService, notificationService),
		EmployeeService: NewEmployeeService(repos.User, repos.Company, repos.Profile, repos.Role,
			tokenService, notificationService, deps.Auth.FrontendURL),
		ProfileService: NewProfileService(repos.Profile, repos.User, repos.Role,
			deps.Store, deps.Processor, deps.Upload),
		RoleService: NewRoleService(repos.Role),
		ItemService: NewItemService(repos.Item, repos.Collection, repos.Lookup, repos.Activity,
			repos.Blob, deps.Store, deps.Upload),
		CollectionService: NewCollectionService(repos.Collection, repos.Profile, repos.Activity,
			repos.Blob, deps.Store, deps.Upload),
		ActivityService:   NewActivityService(repos.Activity, repos.Item, repos.Collection),
		TableValueService: NewTableValueService(repos.Lookup, deps.Cache),
	}
}
