package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/NischalAcharya060/GearZone-sub001/internal/discovery"
	ierr "github.com/NischalAcharya060/GearZone-sub001/internal/errors"
	"github.com/NischalAcharya060/GearZone-sub001/internal/identity"
	"github.com/NischalAcharya060/GearZone-sub001/internal/model"
	notificationRepository "github.com/NischalAcharya060/GearZone-sub001/internal/repository/notification"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type Handlers struct {
	session       *discovery.Session
	identity      Identity
	verifier      identity.Verifier
	watcher       Watcher
	notifications notificationRepository.IRepository
}

func NewHandlers(deps Dependencies) *Handlers {
	return &Handlers{
		session:       deps.Session,
		identity:      deps.Identity,
		verifier:      deps.Verifier,
		watcher:       deps.Watcher,
		notifications: deps.Notifications,
	}
}

func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"loading":   h.session.Loading(),
		"timestamp": time.Now().Unix(),
	})
}

// GetProducts derives the product list for the filter given in the query
// string and makes it the session's current filter.
func (h *Handlers) GetProducts(c *gin.Context) {
	criteria, err := criteriaFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	products, err := h.session.View(criteria)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products":     products,
		"total":        len(products),
		"criteria":     h.session.Criteria(),
		"staleRatings": h.session.StaleRatings(),
	})
}

func (h *Handlers) RefreshCatalog(c *gin.Context) {
	if err := h.session.Refresh(c.Request.Context()); err != nil {
		status := http.StatusInternalServerError
		if ierr.IsCatalogFetch(err) {
			status = http.StatusBadGateway
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products":     len(h.session.Current()),
		"staleRatings": h.session.StaleRatings(),
	})
}

func (h *Handlers) GetCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": h.session.Categories()})
}

func (h *Handlers) GetBanners(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"banners": h.session.Banners()})
}

func (h *Handlers) GetRatings(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"ratings": h.session.Ratings(),
		"stale":   h.session.StaleRatings(),
	})
}

type signInRequest struct {
	IDToken string `json:"idToken"`
	UserID  string `json:"userId"`
}

// SignIn resolves the credential in the body and makes it the session's
// identity, which moves the notification watcher along with it.
func (h *Handlers) SignIn(c *gin.Context) {
	var req signInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	credential := req.IDToken
	if credential == "" {
		credential = req.UserID
	}

	userID, err := h.verifier.Verify(c.Request.Context(), credential)
	if err != nil {
		if ierr.IsValidation(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		log.Warn().Err(err).Msg("failed to verify credential")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credential"})
		return
	}

	h.identity.Set(c.Request.Context(), userID)
	c.JSON(http.StatusOK, gin.H{"userId": userID})
}

func (h *Handlers) SignOut(c *gin.Context) {
	h.identity.Set(c.Request.Context(), "")
	c.Status(http.StatusNoContent)
}

func (h *Handlers) GetUnread(c *gin.Context) {
	c.JSON(http.StatusOK, h.watcher.State())
}

func (h *Handlers) MarkNotificationAsRead(c *gin.Context) {
	id := c.Param("id")
	if err := h.notifications.MarkRead(c.Request.Context(), id); err != nil {
		if errors.Is(err, ierr.NotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "notification not found"})
			return
		}
		log.Error().Err(err).Str("id", id).Msg("failed to mark notification read")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to mark notification read"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "marked as read"})
}

// criteriaFromQuery starts from the neutral criteria and overrides what the
// query string sets: category, q, minPrice, maxPrice, minRating, inStock
// and sortBy.
func criteriaFromQuery(c *gin.Context) (model.FilterCriteria, error) {
	criteria := model.DefaultCriteria()

	if v, ok := c.GetQuery("category"); ok && v != "" {
		criteria.Category = v
	}
	criteria.SearchQuery = strings.TrimSpace(c.Query("q"))

	var err error
	if criteria.PriceRange[0], err = floatQuery(c, "minPrice", criteria.PriceRange[0]); err != nil {
		return criteria, err
	}
	if criteria.PriceRange[1], err = floatQuery(c, "maxPrice", criteria.PriceRange[1]); err != nil {
		return criteria, err
	}
	if criteria.MinRating, err = floatQuery(c, "minRating", 0); err != nil {
		return criteria, err
	}

	if v := c.Query("inStock"); v != "" {
		inStock, err := strconv.ParseBool(v)
		if err != nil {
			return criteria, ierr.Invalid("inStock", "must be a boolean")
		}
		criteria.InStockOnly = inStock
	}

	if v := c.Query("sortBy"); v != "" {
		criteria.SortBy = model.SortBy(v)
	}
	return criteria, nil
}

func floatQuery(c *gin.Context, name string, fallback float64) (float64, error) {
	v := c.Query(name)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback, ierr.Invalid(name, "must be a number")
	}
	return f, nil
}
