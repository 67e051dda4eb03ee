package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"dollers-electro/images"
	"dollers-electro/models"
)

// ProductController handles product-related requests
type ProductController struct {
	Collection *mongo.Collection
	Images     *images.Service
	Log        zerolog.Logger
}

// NewProductController creates a new ProductController
func NewProductController(db *mongo.Database, imageService *images.Service, log zerolog.Logger) *ProductController {
	return &ProductController{
		Collection: db.Collection("products"),
		Images:     imageService,
		Log:        log,
	}
}

// CreateProduct handles adding a new product (Admin only)
func (pc *ProductController) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var product models.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if product.Price < 0 {
		respondError(w, http.StatusBadRequest, "Price must be non-negative")
		return
	}

	product.ID = uuid.NewString()
	now := time.Now().UTC()
	product.CreatedAt = now
	product.UpdatedAt = now

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	if _, err := pc.Collection.InsertOne(ctx, product); err != nil {
		respondError(w, http.StatusInternalServerError, "Error creating product")
		return
	}

	respondData(w, http.StatusCreated, map[string]interface{}{"product": product})
}

// GetProducts retrieves all products
func (pc *ProductController) GetProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	cursor, err := pc.Collection.Find(ctx, bson.M{})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Error fetching products")
		return
	}
	defer cursor.Close(ctx)

	products := []models.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		respondError(w, http.StatusInternalServerError, "Error reading products")
		return
	}

	respondData(w, http.StatusOK, map[string]interface{}{"products": products})
}

// GetProductByID retrieves a single product by ID, including gallery image
// URLs when image hosting is configured.
func (pc *ProductController) GetProductByID(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)

	var product models.Product
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	if err := pc.Collection.FindOne(ctx, bson.M{"_id": params["id"]}).Decode(&product); err != nil {
		respondError(w, http.StatusNotFound, "Product not found")
		return
	}

	data := map[string]interface{}{"product": product}
	if pc.Images.Available() && product.ImageURL != "" {
		gallery, err := pc.Images.GalleryURLs(product.ImageURL)
		if err != nil {
			pc.Log.Warn().Err(err).Str("product", product.ID).Msg("failed to build gallery URLs")
		} else {
			data["gallery"] = gallery
		}
	}

	respondData(w, http.StatusOK, data)
}

// UpdateProduct handles updating a product (Admin only)
func (pc *ProductController) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)

	var product models.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if product.Price < 0 {
		respondError(w, http.StatusBadRequest, "Price must be non-negative")
		return
	}

	product.ID = params["id"]
	product.UpdatedAt = time.Now().UTC()

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	result, err := pc.Collection.UpdateOne(ctx, bson.M{"_id": params["id"]}, bson.M{"$set": product})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Error updating product")
		return
	}
	if result.MatchedCount == 0 {
		respondError(w, http.StatusNotFound, "Product not found")
		return
	}

	respondData(w, http.StatusOK, map[string]interface{}{"product": product})
}

// DeleteProduct handles deleting a product (Admin only)
func (pc *ProductController) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var product models.Product
	if err := pc.Collection.FindOne(ctx, bson.M{"_id": params["id"]}).Decode(&product); err != nil {
		respondError(w, http.StatusNotFound, "Product not found")
		return
	}

	if _, err := pc.Collection.DeleteOne(ctx, bson.M{"_id": params["id"]}); err != nil {
		respondError(w, http.StatusInternalServerError, "Error deleting product")
		return
	}

	// Clean up hosted images best effort; the product record is already gone.
	if pc.Images.Available() && product.ImageURL != "" {
		if err := pc.Images.Delete(ctx, product.ImageURL); err != nil {
			pc.Log.Warn().Err(err).Str("product", params["id"]).Msg("failed to delete hosted image")
		}
	}

	respondMessage(w, http.StatusOK, "Product deleted successfully")
}
