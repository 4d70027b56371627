package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/ahmetclq/web-final-projesi/internal/contact"
	"github.com/ahmetclq/web-final-projesi/internal/model"
	"github.com/ahmetclq/web-final-projesi/internal/repository"
	"gorm.io/gorm"
)

// Message preset on the contact link once an offer is accepted.
const acceptedContactMessage = "Takas teklifiniz kabul edildi. İletişime geçebiliriz."

// OfferDetail is an offer joined with both listings and, once contact is
// opened, a WhatsApp link to the counterparty.
type OfferDetail struct {
	Offer         model.TradeOffer
	OfferedItem   *model.Item
	RequestedItem *model.Item
	Counterparty  *model.User
	ContactLink   string
}

type TradeService interface {
	Send(ctx context.Context, senderUID string, offeredItemID, requestedItemID uint64) (*model.TradeOffer, error)
	Accept(ctx context.Context, offerID uint64, actingUID string) (*model.TradeOffer, error)
	Reject(ctx context.Context, offerID uint64, actingUID string) (*model.TradeOffer, error)
	Complete(ctx context.Context, offerID uint64, actingUID string) (*model.TradeOffer, error)
	ListIncoming(ctx context.Context, uid string) ([]OfferDetail, error)
	ListOutgoing(ctx context.Context, uid string) ([]OfferDetail, error)
}

type tradeService struct {
	db          *gorm.DB
	offerRepo   repository.TradeOfferRepository
	itemRepo    repository.ItemRepository
	userRepo    repository.UserRepository
	countryCode string
}

func NewTradeService(db *gorm.DB, offerRepo repository.TradeOfferRepository, itemRepo repository.ItemRepository, userRepo repository.UserRepository, countryCode string) TradeService {
	return &tradeService{
		db:          db,
		offerRepo:   offerRepo,
		itemRepo:    itemRepo,
		userRepo:    userRepo,
		countryCode: countryCode,
	}
}

func (s *tradeService) Send(ctx context.Context, senderUID string, offeredItemID, requestedItemID uint64) (*model.TradeOffer, error) {
	var offer *model.TradeOffer
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		items := s.itemRepo.WithTx(tx)
		offers := s.offerRepo.WithTx(tx)

		requested, err := items.FindByID(ctx, requestedItemID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: requested item not found", ErrNotFound)
			}
			return err
		}
		offered, err := items.FindByID(ctx, offeredItemID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: offered item not found", ErrNotFound)
			}
			return err
		}

		if requested.OwnerUID == senderUID {
			return fmt.Errorf("%w: cannot send an offer on your own item", ErrForbidden)
		}
		if requested.Status != model.ItemStatusActive {
			return fmt.Errorf("%w: requested item is not active", ErrInvalidState)
		}
		if offered.OwnerUID != senderUID {
			return fmt.Errorf("%w: offered item does not belong to you", ErrForbidden)
		}
		if offered.Status != model.ItemStatusActive {
			return fmt.Errorf("%w: offered item is not active", ErrInvalidState)
		}

		exists, err := offers.ExistsPending(ctx, offeredItemID, requestedItemID)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("%w: a pending offer already exists for these items", ErrConflict)
		}

		offer = &model.TradeOffer{
			OfferedItemID:   offeredItemID,
			RequestedItemID: requestedItemID,
			SenderUID:       senderUID,
			ReceiverUID:     requested.OwnerUID,
			Status:          model.TradeOfferStatusPending,
			ContactOpened:   false,
		}
		return offers.Create(ctx, offer)
	})
	if err != nil {
		return nil, err
	}
	return offer, nil
}

// Accept transitions the offer to accepted, rejects every other pending
// offer on the same requested item and locks both listings into the trade.
// The whole cascade is one transaction; of two concurrent accepts only one
// passes the guarded status flip.
func (s *tradeService) Accept(ctx context.Context, offerID uint64, actingUID string) (*model.TradeOffer, error) {
	var accepted *model.TradeOffer
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		offers := s.offerRepo.WithTx(tx)
		items := s.itemRepo.WithTx(tx)

		offer, err := offers.FindByID(ctx, offerID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: offer not found", ErrNotFound)
			}
			return err
		}
		if offer.ReceiverUID != actingUID {
			return fmt.Errorf("%w: only the receiver can accept this offer", ErrForbidden)
		}
		if offer.Status != model.TradeOfferStatusPending {
			return fmt.Errorf("%w: only pending offers can be accepted", ErrInvalidState)
		}

		rows, err := offers.MarkAcceptedIfPending(ctx, offerID)
		if err != nil {
			return err
		}
		if rows == 0 {
			return fmt.Errorf("%w: only pending offers can be accepted", ErrInvalidState)
		}

		if err := offers.RejectOtherPending(ctx, offer.RequestedItemID, offerID); err != nil {
			return err
		}
		if err := items.SetStatus(ctx, []uint64{offer.OfferedItemID, offer.RequestedItemID}, model.ItemStatusInTrade); err != nil {
			return err
		}

		accepted, err = offers.FindByID(ctx, offerID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return accepted, nil
}

func (s *tradeService) Reject(ctx context.Context, offerID uint64, actingUID string) (*model.TradeOffer, error) {
	var rejected *model.TradeOffer
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		offers := s.offerRepo.WithTx(tx)

		offer, err := offers.FindByID(ctx, offerID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: offer not found", ErrNotFound)
			}
			return err
		}
		if offer.ReceiverUID != actingUID {
			return fmt.Errorf("%w: only the receiver can reject this offer", ErrForbidden)
		}
		if offer.Status != model.TradeOfferStatusPending {
			return fmt.Errorf("%w: only pending offers can be rejected", ErrInvalidState)
		}

		rows, err := offers.MarkRejectedIfPending(ctx, offerID)
		if err != nil {
			return err
		}
		if rows == 0 {
			return fmt.Errorf("%w: only pending offers can be rejected", ErrInvalidState)
		}

		rejected, err = offers.FindByID(ctx, offerID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return rejected, nil
}

// Complete finishes an accepted trade by marking both listings completed.
// The offer itself stays accepted; it records the agreement, not the
// hand-over.
func (s *tradeService) Complete(ctx context.Context, offerID uint64, actingUID string) (*model.TradeOffer, error) {
	var offer *model.TradeOffer
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		offers := s.offerRepo.WithTx(tx)
		items := s.itemRepo.WithTx(tx)

		var err error
		offer, err = offers.FindByID(ctx, offerID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: offer not found", ErrNotFound)
			}
			return err
		}
		if offer.SenderUID != actingUID && offer.ReceiverUID != actingUID {
			return fmt.Errorf("%w: only the trade parties can complete it", ErrForbidden)
		}
		if offer.Status != model.TradeOfferStatusAccepted {
			return fmt.Errorf("%w: only accepted trades can be completed", ErrInvalidState)
		}

		return items.SetStatus(ctx, []uint64{offer.OfferedItemID, offer.RequestedItemID}, model.ItemStatusCompleted)
	})
	if err != nil {
		return nil, err
	}
	return offer, nil
}

func (s *tradeService) ListIncoming(ctx context.Context, uid string) ([]OfferDetail, error) {
	offers, err := s.offerRepo.ListByReceiver(ctx, uid)
	if err != nil {
		return nil, err
	}
	return s.annotate(ctx, offers, true)
}

func (s *tradeService) ListOutgoing(ctx context.Context, uid string) ([]OfferDetail, error) {
	offers, err := s.offerRepo.ListBySender(ctx, uid)
	if err != nil {
		return nil, err
	}
	return s.annotate(ctx, offers, false)
}

// annotate joins the listings and, when the offer is accepted with contact
// opened, the counterparty's WhatsApp link. For incoming offers the
// counterparty is the sender, for outgoing the receiver. A missing row leaves
// that detail nil; any other store failure aborts the listing.
func (s *tradeService) annotate(ctx context.Context, offers []model.TradeOffer, incoming bool) ([]OfferDetail, error) {
	details := make([]OfferDetail, 0, len(offers))
	for _, offer := range offers {
		d := OfferDetail{Offer: offer}
		var err error
		if d.OfferedItem, err = s.itemRepo.FindByID(ctx, offer.OfferedItemID); err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		if d.RequestedItem, err = s.itemRepo.FindByID(ctx, offer.RequestedItemID); err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}

		counterpartyUID := offer.ReceiverUID
		if incoming {
			counterpartyUID = offer.SenderUID
		}
		if d.Counterparty, err = s.userRepo.FindByUID(ctx, counterpartyUID); err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}

		if offer.Status == model.TradeOfferStatusAccepted && offer.ContactOpened && d.Counterparty != nil {
			d.ContactLink = contact.WhatsAppLink(d.Counterparty.Phone, s.countryCode, acceptedContactMessage)
		}
		details = append(details, d)
	}
	return details, nil
}
