package httpserver

import (
	"context"
	"net/http"
	"strconv"

	"printshop/internal/domain"
	categoryrepo "printshop/internal/repository/category"
	productrepo "printshop/internal/repository/product"

	"github.com/gin-gonic/gin"
)

type productService interface {
	List(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, int64, error)
	Get(ctx context.Context, id int64) (*domain.Product, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Product, error)
	Suggestions(ctx context.Context, prefix string) ([]string, error)
	Create(ctx context.Context, in productrepo.CreateProductInput) (*domain.Product, error)
	Update(ctx context.Context, id int64, in productrepo.UpdateProductInput) (*domain.Product, error)
	Delete(ctx context.Context, id int64) error
	AddImage(ctx context.Context, img domain.ProductImage) (*domain.ProductImage, error)
	DeleteImage(ctx context.Context, productID, imageID int64) error
}

type categoryService interface {
	Tree(ctx context.Context) ([]domain.Category, error)
	ListAll(ctx context.Context) ([]domain.Category, error)
	Create(ctx context.Context, in categoryrepo.CreateCategoryInput) (*domain.Category, error)
	Update(ctx context.Context, id int64, in categoryrepo.UpdateCategoryInput) (*domain.Category, error)
	Reorder(ctx context.Context, id int64, in categoryrepo.ReorderInput) (*domain.Category, error)
	Delete(ctx context.Context, id int64) error
}

func categoryTreeHandler(categories categoryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tree, err := categories.Tree(c.Request.Context())
		if err != nil {
			respondServiceError(c, err)
			return
		}
		respondData(c, http.StatusOK, tree)
	}
}

func productFilterFromQuery(c *gin.Context) domain.ProductFilter {
	var f domain.ProductFilter
	f.Search = c.Query("search")
	f.Material = c.Query("material")
	f.Sort = domain.ProductSort(c.Query("sort"))
	f.CategorySlug = c.Query("category")
	if v, err := strconv.ParseFloat(c.Query("minPrice"), 64); err == nil {
		f.MinPrice = &v
	}
	if v, err := strconv.ParseFloat(c.Query("maxPrice"), 64); err == nil {
		f.MaxPrice = &v
	}
	f.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	f.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	return f
}

func listProductsHandler(products productService) gin.HandlerFunc {
	return func(c *gin.Context) {
		f := productFilterFromQuery(c)
		f.OnlyActive = true
		list, total, err := products.List(c.Request.Context(), f)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		respondPage(c, list, f.Page, f.Limit, total)
	}
}

func productBySlugHandler(products productService) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := products.GetBySlug(c.Request.Context(), c.Param("slug"))
		if err != nil {
			respondServiceError(c, err)
			return
		}
		respondData(c, http.StatusOK, p)
	}
}

func suggestionsHandler(products productService) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := products.Suggestions(c.Request.Context(), c.Query("q"))
		if err != nil {
			respondServiceError(c, err)
			return
		}
		respondData(c, http.StatusOK, out)
	}
}

func productReviewsHandler(products productService, reviews reviewService) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := products.GetBySlug(c.Request.Context(), c.Param("slug"))
		if err != nil {
			respondServiceError(c, err)
			return
		}
		list, err := reviews.ListForProduct(c.Request.Context(), p.ID)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		respondData(c, http.StatusOK, list)
	}
}

func adminListCategoriesHandler(categories categoryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := categories.ListAll(c.Request.Context())
		if err != nil {
			respondServiceError(c, err)
			return
		}
		respondData(c, http.StatusOK, list)
	}
}

func createCategoryHandler(categories categoryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req categoryrepo.CreateCategoryInput
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidation(c, "invalid request body")
			return
		}
		cat, err := categories.Create(c.Request.Context(), req)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		respondData(c, http.StatusCreated, cat)
	}
}

func updateCategoryHandler(categories categoryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		var req categoryrepo.UpdateCategoryInput
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidation(c, "invalid request body")
			return
		}
		cat, err := categories.Update(c.Request.Context(), id, req)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		respondData(c, http.StatusOK, cat)
	}
}

func reorderCategoryHandler(categories categoryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		var req categoryrepo.ReorderInput
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidation(c, "invalid request body")
			return
		}
		cat, err := categories.Reorder(c.Request.Context(), id, req)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		respondData(c, http.StatusOK, cat)
	}
}

func deleteCategoryHandler(categories categoryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		if err := categories.Delete(c.Request.Context(), id); err != nil {
			respondServiceError(c, err)
			return
		}
		respondData(c, http.StatusOK, gin.H{"deleted": true})
	}
}

func adminListProductsHandler(products productService) gin.HandlerFunc {
	return func(c *gin.Context) {
		f := productFilterFromQuery(c)
		list, total, err := products.List(c.Request.Context(), f)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		respondPage(c, list, f.Page, f.Limit, total)
	}
}

func createProductHandler(products productService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req productrepo.CreateProductInput
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidation(c, "invalid request body")
			return
		}
		p, err := products.Create(c.Request.Context(), req)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		respondData(c, http.StatusCreated, p)
	}
}

func updateProductHandler(products productService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		var req productrepo.UpdateProductInput
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidation(c, "invalid request body")
			return
		}
		p, err := products.Update(c.Request.Context(), id, req)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		respondData(c, http.StatusOK, p)
	}
}

func deleteProductHandler(products productService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		if err := products.Delete(c.Request.Context(), id); err != nil {
			respondServiceError(c, err)
			return
		}
		respondData(c, http.StatusOK, gin.H{"deleted": true})
	}
}

func addProductImageHandler(products productService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		var req struct {
			URL          string `json:"url" binding:"required"`
			URLThumbnail string `json:"urlThumbnail"`
			SortOrder    int    `json:"sortOrder"`
			IsMain       bool   `json:"isMain"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidation(c, "url required")
			return
		}
		img, err := products.AddImage(c.Request.Context(), domain.ProductImage{
			ProductID:    id,
			URL:          req.URL,
			URLThumbnail: req.URLThumbnail,
			SortOrder:    req.SortOrder,
			IsMain:       req.IsMain,
		})
		if err != nil {
			respondServiceError(c, err)
			return
		}
		respondData(c, http.StatusCreated, img)
	}
}

func deleteProductImageHandler(products productService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		imageID, ok := pathID(c, "imageID")
		if !ok {
			return
		}
		if err := products.DeleteImage(c.Request.Context(), id, imageID); err != nil {
			respondServiceError(c, err)
			return
		}
		respondData(c, http.StatusOK, gin.H{"deleted": true})
	}
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		respondValidation(c, "invalid id")
		return 0, false
	}
	return id, true
}
