package constants

const (
	AppMainStorefront       = "storefront"
	AppCatalogService       = "catalog-service"
	AppCartService          = "cart-service"
	AppOrderService         = "order-service"
	AppLeadService          = "lead-service"
	AppUserService          = "user-service"
	AppNotificationService  = "notification-service"
	AudienceStaff           = "audience-staff"
	DefaultCurrencySymbol   = "₹"
	DefaultCountry          = "India"
	TopicLeadCreated        = "lead.created"
	TopicOrderCreated       = "order.created"
	HeaderRequestID         = "X-Request-Id"
	HeaderAuthorization     = "Authorization"
	AuthorizationBearerType = "bearer "
)
