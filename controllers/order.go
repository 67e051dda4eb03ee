package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"dollers-electro/middleware"
	"dollers-electro/models"
	"dollers-electro/sms"
	"dollers-electro/utils"
)

// Stock level at which a low-stock alert goes out to operations.
const lowStockThreshold = 5

// OrderController handles order-related requests
type OrderController struct {
	OrderCollection   *mongo.Collection
	ProductCollection *mongo.Collection
	UserCollection    *mongo.Collection
	EmailService      *utils.EmailService
	SMSService        *sms.Service
	AlertPhone        string
	Log               zerolog.Logger
}

// NewOrderController creates a new OrderController
func NewOrderController(db *mongo.Database, emailService *utils.EmailService, smsService *sms.Service, alertPhone string, log zerolog.Logger) *OrderController {
	return &OrderController{
		OrderCollection:   db.Collection("orders"),
		ProductCollection: db.Collection("products"),
		UserCollection:    db.Collection("users"),
		EmailService:      emailService,
		SMSService:        smsService,
		AlertPhone:        alertPhone,
		Log:               log,
	}
}

type orderItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type createOrderRequest struct {
	Items         []orderItemRequest `json:"items"`
	PaymentMethod string             `json:"payment_method"` // "card" or "transfer"
	Delivery      struct {
		Method  string         `json:"method"`
		Address models.Address `json:"address"`
	} `json:"delivery"`
	Notes string `json:"notes"`
}

// CreateOrder creates a new order from the submitted line items
func (oc *OrderController) CreateOrder(w http.ResponseWriter, r *http.Request) {
	claims, ok := r.Context().Value(middleware.UserContextKey).(*utils.Claims)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(req.Items) == 0 {
		respondError(w, http.StatusBadRequest, "Order has no items")
		return
	}
	if req.PaymentMethod != "card" && req.PaymentMethod != "transfer" {
		respondError(w, http.StatusBadRequest, "Invalid payment method")
		return
	}

	// Find the user in the database
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()
	var user models.User
	if err := oc.UserCollection.FindOne(ctx, bson.M{"email": claims.Email}).Decode(&user); err != nil {
		respondError(w, http.StatusNotFound, "User not found")
		return
	}

	// Build line items with a unit-price snapshot and check stock.
	items := make([]models.OrderItem, 0, len(req.Items))
	total := decimal.Zero
	for _, item := range req.Items {
		if item.Quantity <= 0 {
			respondError(w, http.StatusBadRequest, "Item quantity must be positive")
			return
		}
		var product models.Product
		if err := oc.ProductCollection.FindOne(ctx, bson.M{"_id": item.ProductID}).Decode(&product); err != nil {
			respondError(w, http.StatusNotFound, fmt.Sprintf("Product %s not found", item.ProductID))
			return
		}
		if product.Stock < item.Quantity {
			respondError(w, http.StatusBadRequest, fmt.Sprintf("Insufficient stock for product: %s", product.Name))
			return
		}
		unit := decimal.NewFromFloat(product.Price)
		line := unit.Mul(decimal.NewFromInt(int64(item.Quantity)))
		total = total.Add(line)
		items = append(items, models.OrderItem{
			ProductID: product.ID,
			Name:      product.Name,
			Quantity:  item.Quantity,
			UnitPrice: unit.InexactFloat64(),
			LineTotal: line.InexactFloat64(),
		})
	}

	// Deduct stock for each product
	for _, item := range items {
		// FindOneAndUpdate returns the document before the decrement.
		var prev models.Product
		err := oc.ProductCollection.FindOneAndUpdate(ctx,
			bson.M{"_id": item.ProductID},
			bson.M{"$inc": bson.M{"stock": -item.Quantity}},
		).Decode(&prev)
		if err != nil {
			respondError(w, http.StatusInternalServerError, "Failed to update product stock")
			return
		}
		remaining := prev.Stock - item.Quantity
		if remaining <= lowStockThreshold && oc.AlertPhone != "" {
			go func(name string, stock int) {
				if _, err := oc.SMSService.SendLowStockAlert(oc.AlertPhone, name, stock); err != nil {
					oc.Log.Warn().Err(err).Str("product", name).Msg("failed to send low stock alert")
				}
			}(prev.Name, remaining)
		}
	}

	now := time.Now().UTC()
	delivery := req.Delivery
	if delivery.Method == "" {
		delivery.Method = "standard"
	}
	order := models.Order{
		ID:          uuid.NewString(),
		OrderNumber: fmt.Sprintf("DE-%d", now.UnixMilli()),
		CustomerID:  user.ID,
		Items:       items,
		Total:       total.InexactFloat64(),
		Status:      models.OrderStatusConfirmed,
		Delivery: models.Delivery{
			Method:  delivery.Method,
			Status:  "pending",
			Address: delivery.Address,
		},
		PaymentMethod: req.PaymentMethod,
		PaymentStatus: models.PaymentStatusPending,
		Notes:         req.Notes,
		OrderDate:     now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if _, err := oc.OrderCollection.InsertOne(ctx, order); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create order")
		return
	}

	// Confirmation email and SMS are best effort; the order already exists.
	go func(u models.User, o models.Order) {
		if err := oc.EmailService.SendOrderConfirmationEmail(u.Email, o); err != nil {
			oc.Log.Warn().Err(err).Str("email", u.Email).Msg("failed to send order confirmation email")
		}
		if u.Phone != "" {
			if _, err := oc.SMSService.SendOrderStatusUpdate(u.Phone, o.OrderNumber, o.Status); err != nil {
				oc.Log.Warn().Err(err).Str("phone", u.Phone).Msg("failed to send order confirmation SMS")
			}
		}
	}(user, order)

	respondData(w, http.StatusCreated, map[string]interface{}{"order": order})
}

// GetOrderHistory retrieves the authenticated user's orders, newest first
func (oc *OrderController) GetOrderHistory(w http.ResponseWriter, r *http.Request) {
	claims, ok := r.Context().Value(middleware.UserContextKey).(*utils.Claims)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()
	var user models.User
	if err := oc.UserCollection.FindOne(ctx, bson.M{"email": claims.Email}).Decode(&user); err != nil {
		respondError(w, http.StatusNotFound, "User not found")
		return
	}

	cursor, err := oc.OrderCollection.Find(ctx, bson.M{"customer_id": user.ID})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to retrieve orders")
		return
	}
	defer cursor.Close(ctx)

	orders := []models.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		respondError(w, http.StatusInternalServerError, "Error decoding orders")
		return
	}

	respondData(w, http.StatusOK, map[string]interface{}{"orders": orders})
}

type updateStatusRequest struct {
	Status        string `json:"status"`
	PaymentStatus string `json:"payment_status"`
	Tracking      string `json:"tracking_number"`
}

// UpdateOrderStatus allows staff to move an order through its lifecycle
func (oc *OrderController) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	orderID := vars["id"]

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	set := bson.M{"updated_at": time.Now().UTC()}
	if req.Status != "" {
		switch req.Status {
		case models.OrderStatusPending, models.OrderStatusConfirmed, models.OrderStatusProcessing,
			models.OrderStatusShipped, models.OrderStatusDelivered, models.OrderStatusCancelled:
			set["status"] = req.Status
		default:
			respondError(w, http.StatusBadRequest, "Invalid order status")
			return
		}
	}
	if req.PaymentStatus != "" {
		switch req.PaymentStatus {
		case models.PaymentStatusPending, models.PaymentStatusCompleted, models.PaymentStatusFailed:
			set["payment_status"] = req.PaymentStatus
		default:
			respondError(w, http.StatusBadRequest, "Invalid payment status")
			return
		}
	}
	if req.Tracking != "" {
		set["delivery.tracking_number"] = req.Tracking
		set["delivery.status"] = "in_transit"
	}
	if len(set) == 1 {
		respondError(w, http.StatusBadRequest, "Nothing to update")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()
	result, err := oc.OrderCollection.UpdateOne(ctx, bson.M{"_id": orderID}, bson.M{"$set": set})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to update order")
		return
	}
	if result.MatchedCount == 0 {
		respondError(w, http.StatusNotFound, "Order not found")
		return
	}

	var order models.Order
	if err := oc.OrderCollection.FindOne(ctx, bson.M{"_id": orderID}).Decode(&order); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to retrieve updated order")
		return
	}

	// Notify the customer of the status change, best effort.
	if req.Status != "" {
		var user models.User
		if err := oc.UserCollection.FindOne(ctx, bson.M{"_id": order.CustomerID}).Decode(&user); err == nil {
			go func(u models.User, o models.Order, status string) {
				if u.Phone != "" {
					if _, err := oc.SMSService.SendOrderStatusUpdate(u.Phone, o.OrderNumber, status); err != nil {
						oc.Log.Warn().Err(err).Str("phone", u.Phone).Msg("failed to send status SMS")
					}
				}
				content := fmt.Sprintf("<strong>Dear Customer,</strong><br><br>Your order <strong>%s</strong> is now <strong>%s</strong>.<br><br>Thank you for shopping with us!", o.OrderNumber, status)
				if err := oc.EmailService.SendEmail(u.Email, "Order Update", content); err != nil {
					oc.Log.Warn().Err(err).Str("email", u.Email).Msg("failed to send status email")
				}
			}(user, order, req.Status)
		}
	}

	respondData(w, http.StatusOK, map[string]interface{}{"order": order})
}
