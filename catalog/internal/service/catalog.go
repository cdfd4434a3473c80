package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/Alturino/storefront/catalog/internal/otel"
	"github.com/Alturino/storefront/catalog/pkg/filter"
	"github.com/Alturino/storefront/catalog/pkg/request"
	"github.com/Alturino/storefront/catalog/pkg/response"
	"github.com/Alturino/storefront/internal/constants"
	inErrors "github.com/Alturino/storefront/internal/errors"
	"github.com/Alturino/storefront/internal/format"
	"github.com/Alturino/storefront/internal/log"
	"github.com/Alturino/storefront/internal/metric"
	inOtel "github.com/Alturino/storefront/internal/otel"
	"github.com/Alturino/storefront/internal/repository"
	"github.com/Alturino/storefront/internal/validate"
)

const categoryLimit = 100

var (
	defaultMinPrice = decimal.Zero
	defaultMaxPrice = decimal.NewFromInt(1000)
)

// ProductStore is what the catalog needs from storage. *repository.Store implements it.
type ProductStore interface {
	SearchProducts(c context.Context, query filter.Query) ([]repository.ProductWithTags, error)
	CountProducts(c context.Context, criteria filter.Criteria) (int64, error)
	FindCategories(c context.Context, limit int32) ([]repository.Category, error)
	FindPriceBounds(c context.Context) (repository.FindPriceBoundsRow, error)
	FindDistinctTags(c context.Context) ([]string, error)
	FindProductBySlug(c context.Context, slug string) (repository.ProductWithTags, error)
	InsertCategory(c context.Context, title string, slug string) (repository.Category, error)
	CreateProduct(c context.Context, arg repository.InsertProductParams, tags []string) (repository.ProductWithTags, error)
}

type CatalogService struct {
	store ProductStore
	now   func() time.Time
}

func NewCatalogService(store ProductStore) *CatalogService {
	return &CatalogService{store: store, now: time.Now}
}

// Shop returns one page of products matching params together with the facets the listing page
// renders. The page, its count and every facet are queried concurrently.
func (s *CatalogService) Shop(c context.Context, params filter.Params) (res response.Shop, err error) {
	c, span := otel.Tracer.Start(c, "CatalogService Shop")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CatalogService Shop").
		Interface(log.KeyFilter, params).
		Logger()

	defer func() {
		outcome := metric.OutcomeSuccess
		if err != nil {
			outcome = metric.OutcomeFailed
		}
		metric.CatalogQueries.WithLabelValues(outcome).Inc()
	}()

	logger = logger.With().Str(log.KeyProcess, "building query").Logger()
	query := filter.Build(params)
	logger.Trace().Str("sort", query.Sort.String()).Int("page", query.Page).Msg("built query")

	logger = logger.With().Str(log.KeyProcess, "querying catalog").Logger()
	logger.Trace().Msg("querying catalog")
	var (
		products   []repository.ProductWithTags
		total      int64
		categories []repository.Category
		bounds     repository.FindPriceBoundsRow
		tags       []string
	)
	g, gc := errgroup.WithContext(c)
	g.Go(func() error {
		var err error
		if products, err = s.store.SearchProducts(gc, query); err != nil {
			return fmt.Errorf("failed searching products with error=%w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if total, err = s.store.CountProducts(gc, query.Where); err != nil {
			return fmt.Errorf("failed counting products with error=%w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if categories, err = s.store.FindCategories(gc, categoryLimit); err != nil {
			return fmt.Errorf("failed finding categories with error=%w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if bounds, err = s.store.FindPriceBounds(gc); err != nil {
			return fmt.Errorf("failed finding price bounds with error=%w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if tags, err = s.store.FindDistinctTags(gc); err != nil {
			return fmt.Errorf("failed finding tags with error=%w", err)
		}
		return nil
	})
	if err = g.Wait(); err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Shop{}, err
	}
	logger.Info().Int64("totalProducts", total).Int("returned", len(products)).Msg("queried catalog")

	res = response.Shop{
		Products:      make([]response.Product, 0, len(products)),
		TotalPages:    query.TotalPages(int(total)),
		CurrentPage:   query.Page,
		TotalProducts: total,
		Categories:    make([]response.Category, 0, len(categories)),
		PriceRange:    priceRange(bounds),
		AvailableTags: tags,
	}
	if res.AvailableTags == nil {
		res.AvailableTags = []string{}
	}
	for _, p := range products {
		res.Products = append(res.Products, mapProduct(p))
	}
	for _, category := range categories {
		res.Categories = append(res.Categories, response.Category{
			ID:    category.ID,
			Title: category.Title,
			Slug:  category.Slug,
		})
	}
	return res, nil
}

func (s *CatalogService) FindProductBySlug(c context.Context, slug string) (response.Product, error) {
	c, span := otel.Tracer.Start(c, "CatalogService FindProductBySlug")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CatalogService FindProductBySlug").
		Str(log.KeyProductSlug, slug).
		Str(log.KeyProcess, "finding product").
		Logger()

	logger.Trace().Msg("finding product")
	product, err := s.store.FindProductBySlug(c, slug)
	if errors.Is(err, pgx.ErrNoRows) {
		err = fmt.Errorf("failed finding product slug=%s with error=%w", slug, inErrors.ErrProductNotFound)
		logger.Info().Err(err).Msg(err.Error())
		return response.Product{}, err
	}
	if err != nil {
		err = fmt.Errorf("failed finding product slug=%s with error=%w", slug, err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Product{}, err
	}
	logger.Trace().Str(log.KeyProductID, product.ID.String()).Msg("found product")
	return mapProduct(product), nil
}

// CreateProduct adds a product. The slug defaults to the slugified name, publishing defaults to
// now and stock availability follows the quantity when not given.
func (s *CatalogService) CreateProduct(c context.Context, param request.CreateProduct) (response.Product, error) {
	c, span := otel.Tracer.Start(c, "CatalogService CreateProduct")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CatalogService CreateProduct").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "validating request").Logger()
	if err := validate.New().StructCtx(c, param); err != nil {
		field, tag, _ := validate.FirstFailed(err)
		err = fmt.Errorf("failed validating %s on %s with error=%w", field, tag, inErrors.ErrInvalidRequest)
		inOtel.RecordError(err, span)
		logger.Info().Err(err).Msg(err.Error())
		return response.Product{}, err
	}
	if param.Price != nil && param.Price.IsNegative() {
		err := fmt.Errorf("failed validating price on gte with error=%w", inErrors.ErrInvalidRequest)
		inOtel.RecordError(err, span)
		logger.Info().Err(err).Msg(err.Error())
		return response.Product{}, err
	}

	slug := param.Slug
	if slug == "" {
		slug = format.Slugify(param.Name)
	}
	if slug == "" {
		err := fmt.Errorf("failed deriving slug from name=%s with error=%w", param.Name, inErrors.ErrInvalidRequest)
		inOtel.RecordError(err, span)
		logger.Info().Err(err).Msg(err.Error())
		return response.Product{}, err
	}
	logger = logger.With().Str(log.KeyProductSlug, slug).Logger()

	arg := repository.InsertProductParams{
		Name:          param.Name,
		Slug:          slug,
		Image:         param.Image,
		Description:   param.Description,
		StockQuantity: param.StockQuantity,
		InStock:       param.StockQuantity > 0,
		Featured:      param.Featured,
		PublishedAt:   pgtype.Timestamptz{Time: s.now(), Valid: true},
	}
	if param.Category != nil {
		arg.CategoryID = pgtype.UUID{Bytes: *param.Category, Valid: true}
	}
	if param.Price != nil {
		arg.Price = repository.NumericFromDecimal(*param.Price)
	}
	if param.InStock != nil {
		arg.InStock = *param.InStock
	}
	if param.PublishedAt != nil {
		arg.PublishedAt.Time = *param.PublishedAt
	}

	logger = logger.With().Str(log.KeyProcess, "inserting product").Logger()
	logger.Trace().Msg("inserting product")
	c = logger.WithContext(c)
	product, err := s.store.CreateProduct(c, arg, param.Tags)
	if err != nil {
		err = fmt.Errorf("failed inserting product with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Product{}, err
	}
	logger.Info().Str(log.KeyProductID, product.ID.String()).Msg("inserted product")
	return mapProduct(product), nil
}

func (s *CatalogService) CreateCategory(c context.Context, param request.CreateCategory) (response.Category, error) {
	c, span := otel.Tracer.Start(c, "CatalogService CreateCategory")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CatalogService CreateCategory").
		Logger()

	if err := validate.New().StructCtx(c, param); err != nil {
		field, tag, _ := validate.FirstFailed(err)
		err = fmt.Errorf("failed validating %s on %s with error=%w", field, tag, inErrors.ErrInvalidRequest)
		inOtel.RecordError(err, span)
		logger.Info().Err(err).Msg(err.Error())
		return response.Category{}, err
	}
	slug := param.Slug
	if slug == "" {
		slug = format.Slugify(param.Title)
	}

	logger = logger.With().Str(log.KeyProcess, "inserting category").Logger()
	category, err := s.store.InsertCategory(c, param.Title, slug)
	if err != nil {
		err = fmt.Errorf("failed inserting category with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Category{}, err
	}
	logger.Info().Str("categoryId", category.ID.String()).Msg("inserted category")
	return response.Category{ID: category.ID, Title: category.Title, Slug: category.Slug}, nil
}

func priceRange(bounds repository.FindPriceBoundsRow) response.PriceRange {
	res := response.PriceRange{Min: defaultMinPrice, Max: defaultMaxPrice}
	if lo := repository.NullableDecimalFromNumeric(bounds.Min); lo != nil {
		res.Min = *lo
	}
	if hi := repository.NullableDecimalFromNumeric(bounds.Max); hi != nil {
		res.Max = *hi
	}
	return res
}

func mapProduct(p repository.ProductWithTags) response.Product {
	price := repository.NullableDecimalFromNumeric(p.Price)
	res := response.Product{
		ID:             p.ID,
		Name:           p.Name,
		Slug:           p.Slug,
		Image:          p.Image,
		Description:    p.Description,
		Price:          price,
		FormattedPrice: format.FormatPrice(price, constants.DefaultCurrencySymbol),
		StockQuantity:  p.StockQuantity,
		InStock:        p.InStock,
		Featured:       p.Featured,
		Tags:           make([]response.Tag, 0, len(p.Tags)),
		PublishedAt:    p.PublishedAt.Time,
		CreatedAt:      p.CreatedAt.Time,
		UpdatedAt:      p.UpdatedAt.Time,
	}
	if p.CategoryID.Valid {
		id := uuid.UUID(p.CategoryID.Bytes)
		res.Category = &id
	}
	for _, tag := range p.Tags {
		res.Tags = append(res.Tags, response.Tag{Tag: tag})
	}
	return res
}
