package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/ahmetclq/web-final-projesi/internal/model"
	"github.com/ahmetclq/web-final-projesi/internal/service"
	"github.com/labstack/echo/v4"
)

type TradeHandler struct {
	svc service.TradeService
}

func NewTradeHandler(svc service.TradeService) *TradeHandler {
	return &TradeHandler{svc: svc}
}

type SendOfferRequest struct {
	OfferedItemID   uint64 `json:"offeredItemId"`
	RequestedItemID uint64 `json:"requestedItemId"`
}

type OfferResponse struct {
	ID              uint64 `json:"id"`
	OfferedItemID   uint64 `json:"offeredItemId"`
	RequestedItemID uint64 `json:"requestedItemId"`
	SenderUID       string `json:"senderUid"`
	ReceiverUID     string `json:"receiverUid"`
	Status          string `json:"status"`
	ContactOpened   bool   `json:"contactOpened"`
	CreatedAt       string `json:"createdAt"`
}

type OfferDetailResponse struct {
	Offer            OfferResponse `json:"offer"`
	OfferedItem      *ItemResponse `json:"offeredItem,omitempty"`
	RequestedItem    *ItemResponse `json:"requestedItem,omitempty"`
	CounterpartyName string        `json:"counterpartyName,omitempty"`
	ContactLink      string        `json:"contactLink,omitempty"`
}

type OfferListResponse struct {
	Offers []OfferDetailResponse `json:"offers"`
}

func (h *TradeHandler) Send(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	var req SendOfferRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	if req.OfferedItemID == 0 || req.RequestedItemID == 0 {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "offeredItemId and requestedItemId are required"))
	}
	offer, err := h.svc.Send(c.Request().Context(), uid, req.OfferedItemID, req.RequestedItemID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, toOfferResponse(offer))
}

func (h *TradeHandler) Accept(c echo.Context) error {
	return h.transition(c, h.svc.Accept)
}

func (h *TradeHandler) Reject(c echo.Context) error {
	return h.transition(c, h.svc.Reject)
}

func (h *TradeHandler) Complete(c echo.Context) error {
	return h.transition(c, h.svc.Complete)
}

func (h *TradeHandler) ListIncoming(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	details, err := h.svc.ListIncoming(c.Request().Context(), uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch offers"))
	}
	return c.JSON(http.StatusOK, toOfferListResponse(details))
}

func (h *TradeHandler) ListOutgoing(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	details, err := h.svc.ListOutgoing(c.Request().Context(), uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch offers"))
	}
	return c.JSON(http.StatusOK, toOfferListResponse(details))
}

func (h *TradeHandler) transition(c echo.Context, op func(ctx context.Context, offerID uint64, actingUID string) (*model.TradeOffer, error)) error {
	uid, _ := c.Get("uid").(string)
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid id"))
	}
	offer, err := op(c.Request().Context(), id, uid)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(http.StatusOK, toOfferResponse(offer))
}

func toOfferResponse(offer *model.TradeOffer) OfferResponse {
	return OfferResponse{
		ID:              offer.ID,
		OfferedItemID:   offer.OfferedItemID,
		RequestedItemID: offer.RequestedItemID,
		SenderUID:       offer.SenderUID,
		ReceiverUID:     offer.ReceiverUID,
		Status:          string(offer.Status),
		ContactOpened:   offer.ContactOpened,
		CreatedAt:       offer.CreatedAt.Format(time.RFC3339),
	}
}

func toOfferListResponse(details []service.OfferDetail) OfferListResponse {
	resp := OfferListResponse{Offers: make([]OfferDetailResponse, 0, len(details))}
	for _, d := range details {
		item := OfferDetailResponse{
			Offer:       toOfferResponse(&d.Offer),
			ContactLink: d.ContactLink,
		}
		if d.OfferedItem != nil {
			r := toItemResponse(d.OfferedItem)
			item.OfferedItem = &r
		}
		if d.RequestedItem != nil {
			r := toItemResponse(d.RequestedItem)
			item.RequestedItem = &r
		}
		if d.Counterparty != nil {
			item.CounterpartyName = d.Counterparty.FullName
		}
		resp.Offers = append(resp.Offers, item)
	}
	return resp
}
