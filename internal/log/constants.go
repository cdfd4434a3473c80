package log

const (
	KeyAppName            = "app"
	KeyRequestID          = "requestId"
	KeyTraceID            = "traceId"
	KeySpanID             = "spanId"
	KeyProcess            = "process"
	KeyTag                = "tag"
	KeyToken              = "token"
	KeyEmail              = "email"
	KeyConfig             = "config"
	KeyRequest            = "request"
	KeyRequestBody        = "requestBody"
	KeyRequestHeader      = "requestHeader"
	KeyRequestHost        = "host"
	KeyRequestIp          = "requesterIP"
	KeyRequestMethod      = "requestMethod"
	KeyRequestURI         = "requestURI"
	KeyRequestURL         = "requestURL"
	KeyDbURL              = "dbUrl"
	KeyCacheKey           = "cacheKey"
	KeyTopic              = "topic"
	KeySessionID          = "sessionId"
	KeyUserID             = "userId"
	KeyProductID          = "productId"
	KeyProductSlug        = "productSlug"
	KeyProducts           = "products"
	KeyFilter             = "filter"
	KeyCart               = "cart"
	KeyQuotation          = "quotation"
	KeyOrder              = "order"
	KeyOrderID            = "orderId"
	KeyOrderNumber        = "orderNumber"
	KeyOrders             = "orders"
	KeyLead               = "lead"
	KeyLeadID             = "leadId"
	KeyLeads              = "leads"
	KeyPaymentMethod      = "paymentMethod"
	KeyRequestProcessedAt = "requestProcessedAt"
)
