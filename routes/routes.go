package routes

import (
	"net/http"

	"agriconnect/auth"
	"agriconnect/chat"
	"agriconnect/messages"
	"agriconnect/middleware"
	"agriconnect/notifications"
	"agriconnect/orders"
	"agriconnect/payments"
	"agriconnect/products"
	"agriconnect/ratelim"
	"agriconnect/reviews"
	"agriconnect/verification"

	"github.com/julienschmidt/httprouter"
)

func RoutesWrapper(router *httprouter.Router, rl *ratelim.RateLimiter, hub *chat.Hub) {
	AddAuthRoutes(router, rl)
	AddUserRoutes(router, rl)
	AddProductRoutes(router, rl)
	AddOrderRoutes(router, rl)
	AddReviewRoutes(router, rl)
	AddMessageRoutes(router, rl, hub)
	AddPaymentRoutes(router, rl)
	AddStaticRoutes(router)
}

func AddAuthRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.POST("/api/auth/register", rl.Limit(auth.Register))
	router.POST("/api/auth/login", rl.Limit(auth.Login))
	router.POST("/api/auth/logout", middleware.Authenticate(auth.Logout))
	router.POST("/api/auth/token/refresh", rl.Limit(auth.RefreshToken))
}

func AddUserRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.GET("/api/users/profile", middleware.Authenticate(auth.GetProfile))
	router.PUT("/api/users/profile", middleware.Authenticate(auth.UpdateProfile))

	router.GET("/api/users/farmers/:farmerId/products", products.GetFarmerProducts)

	router.POST("/api/users/verification", rl.Limit(middleware.Authenticate(verification.SubmitVerification)))
	router.GET("/api/users/verification", middleware.Authenticate(verification.GetVerificationStatus))
	router.PUT("/api/admin/users/:id/review", middleware.Authenticate(verification.ReviewVerification))

	router.GET("/api/users/notifications", middleware.Authenticate(notifications.GetNotifications))
	router.PUT("/api/users/notifications/:id/read", middleware.Authenticate(notifications.MarkNotificationRead))
}

func AddProductRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.GET("/api/products", products.GetProducts)
	router.POST("/api/products", rl.Limit(middleware.Authenticate(products.CreateProduct)))
	// "search" would collide with the :id wildcard in the GET tree,
	// so both endpoints share one route and dispatch on the segment.
	router.GET("/api/products/:id", getProductOrSearch)
	router.PUT("/api/products/:id", middleware.Authenticate(products.UpdateProduct))
	router.DELETE("/api/products/:id", middleware.Authenticate(products.DeleteProduct))
	router.POST("/api/products/:id/ratings", rl.Limit(middleware.Authenticate(products.AddRating)))
}

func getProductOrSearch(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if ps.ByName("id") == "search" {
		products.SearchProducts(w, r, ps)
		return
	}
	products.GetProduct(w, r, ps)
}

func AddOrderRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.POST("/api/orders", rl.Limit(middleware.Authenticate(orders.CreateOrder)))
	router.GET("/api/orders", middleware.Authenticate(orders.GetOrders))
	router.PUT("/api/orders/:id/status", middleware.Authenticate(orders.UpdateOrderStatus))
	router.GET("/api/orders/:id/receipt", middleware.Authenticate(orders.DownloadReceipt))
}

func AddReviewRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.POST("/api/reviews", rl.Limit(middleware.Authenticate(reviews.CreateReview)))
	router.GET("/api/reviews/product/:productId", reviews.GetProductReviews)
	router.PUT("/api/reviews/:id/helpful", middleware.Authenticate(reviews.MarkHelpful))
}

func AddMessageRoutes(router *httprouter.Router, rl *ratelim.RateLimiter, hub *chat.Hub) {
	router.POST("/api/messages", rl.Limit(middleware.Authenticate(messages.SendMessage(hub))))
	router.GET("/api/messages/conversations", middleware.Authenticate(messages.GetConversations))
	router.GET("/api/messages/conversations/:id", middleware.Authenticate(messages.GetMessages))

	router.GET("/ws/chat", chat.WebSocketHandler(hub))
}

func AddPaymentRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.POST("/api/payments/create-intent", rl.Limit(middleware.Authenticate(payments.CreateIntent)))
	router.POST("/api/payments/webhook", payments.Webhook)
}

func AddStaticRoutes(router *httprouter.Router) {
	router.ServeFiles("/uploads/profiles/*filepath", http.Dir("uploads/profiles"))
	router.ServeFiles("/uploads/products/*filepath", http.Dir("uploads/products"))
	router.ServeFiles("/uploads/verification/*filepath", http.Dir("uploads/verification"))
	router.ServeFiles("/uploads/reviews/*filepath", http.Dir("uploads/reviews"))
	router.ServeFiles("/uploads/chat/*filepath", http.Dir("uploads/chat"))
}
