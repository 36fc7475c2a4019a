package app

import (
	admin_order_status_patch "shop/internal/handlers/rest/admin_order_status_patch"
	admin_orders_get "shop/internal/handlers/rest/admin_orders_get"
	order_cancel_post "shop/internal/handlers/rest/order_cancel_post"
	order_get "shop/internal/handlers/rest/order_get"
	order_post "shop/internal/handlers/rest/order_post"
	orders_user_get "shop/internal/handlers/rest/orders_user_get"
	payment_create_post "shop/internal/handlers/rest/payment_create_post"
	payment_notify_post "shop/internal/handlers/rest/payment_notify_post"
	payment_query_get "shop/internal/handlers/rest/payment_query_get"
	payment_refund_post "shop/internal/handlers/rest/payment_refund_post"
	payment_return_get "shop/internal/handlers/rest/payment_return_get"
	product_get "shop/internal/handlers/rest/product_get"
	"shop/pkg/background"
)

type Application struct {
	ServiceOrder   ServiceOrder
	ServicePayment ServicePayment
}

type ServiceOrder interface {
	product_get.Service
	order_post.Service
	order_get.Service
	order_cancel_post.Service
	orders_user_get.Service
	admin_orders_get.Service
	admin_order_status_patch.Service
}

type ServicePayment interface {
	payment_create_post.Service
	payment_notify_post.Service
	payment_return_get.Service
	payment_query_get.Service
	payment_refund_post.Service
}

type OrderExpiryWorkerApp struct {
	BackgroundWorkers *background.Worker
}
