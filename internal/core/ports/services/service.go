package services

// ServiceContainer holds instances of all the application services. This is
// the entry point for accessing service functionality from the handlers.
type ServiceContainer struct {
	Account  AccountSvcFacade
	Rate     RateSvcFacade
	Exchange ExchangeSvcFacade
}
