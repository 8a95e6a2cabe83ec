package main

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/m04kA/VenueBookingService/internal/api/middleware"
)

// apiRoutes обработчики, которые регистрирует newRouter
type apiRoutes struct {
	// Клиентские маршруты
	GetQuote      http.HandlerFunc
	SendOTP       http.HandlerFunc
	VerifyOTP     http.HandlerFunc
	VerifyPayment http.HandlerFunc

	FlowCreate          http.HandlerFunc
	FlowGet             http.HandlerFunc
	FlowDelete          http.HandlerFunc
	FlowCustomer        http.HandlerFunc
	FlowSchedule        http.HandlerFunc
	FlowCheckout        http.HandlerFunc
	FlowNext            http.HandlerFunc
	FlowBack            http.HandlerFunc
	FlowSendCode        http.HandlerFunc
	FlowEnterCode       http.HandlerFunc
	FlowPaymentFailed   http.HandlerFunc
	FlowRetryPayment    http.HandlerFunc
	FlowCompletePayment http.HandlerFunc

	// Администратор
	CreateBooking       http.HandlerFunc
	CreatePaymentOrder  http.HandlerFunc
	ListBookings        http.HandlerFunc
	GetBooking          http.HandlerFunc
	UpdateBookingStatus http.HandlerFunc
	GetInvoice          http.HandlerFunc
	GetInvoiceByNumber  http.HandlerFunc
}

// newRouter собирает маршруты /api/v1. При metrics == nil метрики не подключаются
func newRouter(h apiRoutes, metrics middleware.HTTPMetrics, metricsPath string) *mux.Router {
	r := mux.NewRouter()

	// Metrics middleware и endpoint (публичный, без аутентификации)
	if metrics != nil {
		r.Use(middleware.MetricsMiddleware(metrics))
		r.Handle(metricsPath, promhttp.Handler()).Methods(http.MethodGet)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// Бронирование и оплата клиентом идут только через /flows,
	// где подтверждение email и телефона обязательно
	// ============================================================

	public := api.PathPrefix("").Subrouter()

	public.HandleFunc("/quotes", h.GetQuote).Methods(http.MethodPost)

	// --- Подтверждение контактов ---
	public.HandleFunc("/otp/{channel}/send", h.SendOTP).Methods(http.MethodPost)
	public.HandleFunc("/otp/{channel}/verify", h.VerifyOTP).Methods(http.MethodPost)

	// --- Callback виджета оплаты (подпись проверяется в use case) ---
	public.HandleFunc("/payments/verify", h.VerifyPayment).Methods(http.MethodPost)

	// --- Пошаговый сценарий бронирования ---
	public.HandleFunc("/flows", h.FlowCreate).Methods(http.MethodPost)
	public.HandleFunc("/flows/{flowId}", h.FlowGet).Methods(http.MethodGet)
	public.HandleFunc("/flows/{flowId}", h.FlowDelete).Methods(http.MethodDelete)
	public.HandleFunc("/flows/{flowId}/customer", h.FlowCustomer).Methods(http.MethodPut)
	public.HandleFunc("/flows/{flowId}/schedule", h.FlowSchedule).Methods(http.MethodPut)
	public.HandleFunc("/flows/{flowId}/checkout", h.FlowCheckout).Methods(http.MethodPut)
	public.HandleFunc("/flows/{flowId}/next", h.FlowNext).Methods(http.MethodPost)
	public.HandleFunc("/flows/{flowId}/back", h.FlowBack).Methods(http.MethodPost)
	public.HandleFunc("/flows/{flowId}/otp/{channel}/send", h.FlowSendCode).Methods(http.MethodPost)
	public.HandleFunc("/flows/{flowId}/otp/{channel}/code", h.FlowEnterCode).Methods(http.MethodPost)
	public.HandleFunc("/flows/{flowId}/payment/failed", h.FlowPaymentFailed).Methods(http.MethodPost)
	public.HandleFunc("/flows/{flowId}/payment/retry", h.FlowRetryPayment).Methods(http.MethodPost)
	public.HandleFunc("/flows/{flowId}/payment/complete", h.FlowCompletePayment).Methods(http.MethodPost)

	// ============================================================
	// ADMIN ROUTES (X-User-ID + X-User-Role: admin)
	// ============================================================

	admin := api.PathPrefix("").Subrouter()
	admin.Use(middleware.Auth, middleware.RequireAdmin)

	// --- Бронирования ---
	admin.HandleFunc("/bookings", h.CreateBooking).Methods(http.MethodPost)
	admin.HandleFunc("/bookings", h.ListBookings).Methods(http.MethodGet)
	admin.HandleFunc("/bookings/{bookingId}", h.GetBooking).Methods(http.MethodGet)
	admin.HandleFunc("/bookings/{bookingId}", h.UpdateBookingStatus).Methods(http.MethodPut)

	// --- Оплата остатка и счета ---
	admin.HandleFunc("/payments/orders", h.CreatePaymentOrder).Methods(http.MethodPost)
	admin.HandleFunc("/bookings/{bookingId}/invoice", h.GetInvoice).Methods(http.MethodGet)
	admin.HandleFunc("/invoices/{invoiceNumber}", h.GetInvoiceByNumber).Methods(http.MethodGet)

	return r
}
