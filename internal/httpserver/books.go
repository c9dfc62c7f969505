package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ataka-storefront/internal/domain"
)

type bookListResponse struct {
	Count   int           `json:"count"`
	Results []domain.Book `json:"results"`
}

func listBooksHandler(svc CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		books, err := svc.List(c.Request.Context(), c.Query("category"))
		if err != nil {
			writeError(c, err)
			return
		}
		if books == nil {
			books = []domain.Book{}
		}
		c.JSON(http.StatusOK, bookListResponse{Count: len(books), Results: books})
	}
}

func getBookHandler(svc CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		b, err := svc.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, b)
	}
}
