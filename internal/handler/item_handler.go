package handler

import (
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/ahmetclq/web-final-projesi/internal/model"
	"github.com/ahmetclq/web-final-projesi/internal/service"
	"github.com/labstack/echo/v4"
)

const detailMatchLimit = 4

type ItemHandler struct {
	svc      service.ItemService
	matchSvc service.MatchService
}

func NewItemHandler(svc service.ItemService, matchSvc service.MatchService) *ItemHandler {
	return &ItemHandler{svc: svc, matchSvc: matchSvc}
}

type ItemResponse struct {
	ID          uint64   `json:"id"`
	OwnerUID    string   `json:"ownerUid"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	MinValue    int      `json:"minValue"`
	MaxValue    int      `json:"maxValue"`
	WantedName  string   `json:"wantedName"`
	City        string   `json:"city"`
	District    string   `json:"district"`
	Status      string   `json:"status"`
	Images      []string `json:"images"`
	CreatedAt   string   `json:"createdAt"`
	UpdatedAt   string   `json:"updatedAt"`
}

type ItemDetailResponse struct {
	Item    ItemResponse   `json:"item"`
	Matches []ItemResponse `json:"matches"`
}

type ItemListResponse struct {
	Items []ItemResponse `json:"items"`
}

type RegionFeedResponse struct {
	City      string         `json:"city"`
	Districts []string       `json:"districts"`
	Items     []ItemResponse `json:"items"`
}

type UpdateItemRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	MinValue    int    `json:"minValue"`
	MaxValue    int    `json:"maxValue"`
	WantedName  string `json:"wantedName"`
}

// Create handles a multipart form: text fields plus one or more "images"
// file parts.
func (h *ItemHandler) Create(c echo.Context) error {
	uid, _ := c.Get("uid").(string)

	form, err := c.MultipartForm()
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "multipart form expected"))
	}
	minValue, err := strconv.Atoi(c.FormValue("minValue"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid minValue"))
	}
	maxValue, err := strconv.Atoi(c.FormValue("maxValue"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid maxValue"))
	}

	in := service.CreateItemInput{
		Title:       c.FormValue("title"),
		Description: c.FormValue("description"),
		MinValue:    minValue,
		MaxValue:    maxValue,
		WantedName:  c.FormValue("wantedName"),
	}
	for _, fh := range form.File["images"] {
		src, err := fh.Open()
		if err != nil {
			return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "unreadable image upload"))
		}
		data, err := io.ReadAll(src)
		src.Close()
		if err != nil {
			return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "unreadable image upload"))
		}
		if len(data) == 0 {
			continue
		}
		in.Photos = append(in.Photos, service.PhotoUpload{Data: data, Ext: filepath.Ext(fh.Filename)})
	}

	item, err := h.svc.Create(c.Request().Context(), uid, in)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, toItemResponse(item))
}

func (h *ItemHandler) Update(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid id"))
	}
	var req UpdateItemRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	item, err := h.svc.Update(c.Request().Context(), id, uid, service.UpdateItemInput{
		Title:       req.Title,
		Description: req.Description,
		MinValue:    req.MinValue,
		MaxValue:    req.MaxValue,
		WantedName:  req.WantedName,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusOK, toItemResponse(item))
}

func (h *ItemHandler) Delete(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid id"))
	}
	if err := h.svc.Delete(c.Request().Context(), id, uid); err != nil {
		return respondServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Get returns the listing plus up to four compatible active listings, the
// way the detail page shows them.
func (h *ItemHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid id"))
	}
	item, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	resp := ItemDetailResponse{Item: toItemResponse(item), Matches: []ItemResponse{}}
	if item.Status == model.ItemStatusActive {
		matches, err := h.matchSvc.FindMatches(c.Request().Context(), item, detailMatchLimit)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to find matches"))
		}
		for i := range matches {
			resp.Matches = append(resp.Matches, toItemResponse(&matches[i]))
		}
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *ItemHandler) ListMine(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	items, err := h.svc.ListMine(c.Request().Context(), uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch items"))
	}
	return c.JSON(http.StatusOK, toItemListResponse(items))
}

// ListRegion is the home feed: active listings in the caller's city with an
// optional exact district filter, plus the district list for the filter UI.
func (h *ItemHandler) ListRegion(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	items, districts, city, err := h.svc.RegionFeed(c.Request().Context(), uid, c.QueryParam("district"))
	if err != nil {
		return respondServiceError(c, err)
	}
	resp := RegionFeedResponse{City: city, Districts: districts, Items: make([]ItemResponse, 0, len(items))}
	if resp.Districts == nil {
		resp.Districts = []string{}
	}
	for i := range items {
		resp.Items = append(resp.Items, toItemResponse(&items[i]))
	}
	return c.JSON(http.StatusOK, resp)
}

// Recommended merges matches across all of the caller's active listings.
func (h *ItemHandler) Recommended(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	items, err := h.matchSvc.RecommendedForUser(c.Request().Context(), uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch recommendations"))
	}
	return c.JSON(http.StatusOK, toItemListResponse(items))
}

func toItemResponse(item *model.Item) ItemResponse {
	images := make([]string, 0, len(item.Images))
	for _, img := range item.Images {
		images = append(images, img.ImageURL)
	}
	return ItemResponse{
		ID:          item.ID,
		OwnerUID:    item.OwnerUID,
		Title:       item.Title,
		Description: item.Description,
		MinValue:    item.MinValue,
		MaxValue:    item.MaxValue,
		WantedName:  item.WantedName,
		City:        item.City,
		District:    item.District,
		Status:      string(item.Status),
		Images:      images,
		CreatedAt:   item.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   item.UpdatedAt.Format(time.RFC3339),
	}
}

func toItemListResponse(items []model.Item) ItemListResponse {
	resp := ItemListResponse{Items: make([]ItemResponse, 0, len(items))}
	for i := range items {
		resp.Items = append(resp.Items, toItemResponse(&items[i]))
	}
	return resp
}
