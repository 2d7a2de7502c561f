// internal/domain/product/service.go
package product

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/your-org/food-ordering-backend/internal/config"
	"github.com/your-org/food-ordering-backend/internal/pkg/metrics"
	"gorm.io/gorm"
)

// Service handles menu catalog reads
type Service struct {
	db     *gorm.DB
	cache  Cache
	config *config.Config
	log    logrus.FieldLogger
}

// NewService creates a new product service. cache may be nil.
func NewService(db *gorm.DB, cache Cache, cfg *config.Config, log logrus.FieldLogger) *Service {
	return &Service{
		db:     db,
		cache:  cache,
		config: cfg,
		log:    log.WithField("service", "product"),
	}
}

// ProductListRequest represents product list query parameters
type ProductListRequest struct {
	Page     int    `form:"page,default=1"`
	Limit    int    `form:"limit"`
	Type     string `form:"type"`
	Category string `form:"category"`
	Search   string `form:"search"`
}

// ProductResponse represents product response with pagination
type ProductResponse struct {
	Products   []Product  `json:"products"`
	Pagination Pagination `json:"pagination"`
}

// Pagination represents pagination information
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

// NewPagination computes pagination info for a page of a result set
func NewPagination(page, limit int, total int64) Pagination {
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}

// GetProducts retrieves menu products with filtering and pagination
func (s *Service) GetProducts(ctx context.Context, req *ProductListRequest) (*ProductResponse, error) {
	s.normalize(req)

	key := req.cacheKey()
	if s.cache != nil {
		var cached ProductResponse
		hit, err := s.cache.Get(ctx, key, &cached)
		switch {
		case err != nil:
			metrics.CatalogCacheTotal.WithLabelValues("error").Inc()
			s.log.WithError(err).Warn("menu cache read failed, falling back to database")
		case hit:
			metrics.CatalogCacheTotal.WithLabelValues("hit").Inc()
			return &cached, nil
		default:
			metrics.CatalogCacheTotal.WithLabelValues("miss").Inc()
		}
	}

	var products []Product
	var total int64

	query := s.db.WithContext(ctx).Model(&Product{})

	if req.Type != "" {
		query = query.Where("type = ?", req.Type)
	}

	if req.Category != "" {
		query = query.Where("category = ?", req.Category)
	}

	if req.Search != "" {
		search := "%" + strings.ToLower(req.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ? OR LOWER(tag) LIKE ?", search, search, search)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	offset := (req.Page - 1) * req.Limit
	if err := query.Order("name ASC, id ASC").Offset(offset).Limit(req.Limit).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve products: %w", err)
	}

	response := &ProductResponse{
		Products:   products,
		Pagination: NewPagination(req.Page, req.Limit, total),
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, response, s.config.Catalog.CacheTTL); err != nil {
			s.log.WithError(err).Warn("menu cache write failed")
		}
	}

	return response, nil
}

// GetProduct retrieves a single product by ID
func (s *Service) GetProduct(ctx context.Context, id uint) (*Product, error) {
	var product Product
	result := s.db.WithContext(ctx).Where("id = ?", id).First(&product)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to retrieve product: %w", result.Error)
	}

	return &product, nil
}

// GetCategories lists the menu sections: every (type, category) pair with its product count
func (s *Service) GetCategories(ctx context.Context) ([]CategorySummary, error) {
	var summaries []CategorySummary
	err := s.db.WithContext(ctx).Model(&Product{}).
		Select("type, category, COUNT(*) AS product_count").
		Group("type, category").
		Order("type ASC, category ASC").
		Scan(&summaries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve categories: %w", err)
	}
	return summaries, nil
}

func (s *Service) normalize(req *ProductListRequest) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.Limit <= 0 {
		req.Limit = s.config.Catalog.DefaultLimit
	}
	if req.Limit > s.config.Catalog.MaxLimit {
		req.Limit = s.config.Catalog.MaxLimit
	}
	req.Search = strings.TrimSpace(req.Search)
}

func (r *ProductListRequest) cacheKey() string {
	return fmt.Sprintf("products:%s:%s:%s:%d:%d",
		r.Type, r.Category, strings.ToLower(r.Search), r.Page, r.Limit)
}
