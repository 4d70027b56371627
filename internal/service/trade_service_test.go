package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ahmetclq/web-final-projesi/internal/model"
	"github.com/ahmetclq/web-final-projesi/internal/repository"
	"gorm.io/gorm"
)

func newTradeService(db *gorm.DB) TradeService {
	return NewTradeService(
		db,
		repository.NewTradeOfferRepository(db),
		repository.NewItemRepository(db),
		repository.NewUserRepository(db),
		"90",
	)
}

func TestSendOffer(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := newTradeService(db)

	u1 := seedUser(t, db, "u1", "İstanbul", "Kadıköy", "05321112233")
	u2 := seedUser(t, db, "u2", "İstanbul", "Beşiktaş", "05424445566")

	requested := seedItemSpec(t, db, itemSpec{owner: u1, title: "Gitar", wantedName: "bisiklet", minValue: 100, maxValue: 200})
	offered := seedItemSpec(t, db, itemSpec{owner: u2, title: "Bisiklet", wantedName: "gitar", minValue: 120, maxValue: 180})

	offer, err := svc.Send(ctx, u2.UID, offered.ID, requested.ID)
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if offer.Status != model.TradeOfferStatusPending {
		t.Fatalf("status=%s want pending", offer.Status)
	}
	if offer.ReceiverUID != u1.UID {
		t.Fatalf("receiver=%s want %s", offer.ReceiverUID, u1.UID)
	}
	if offer.ContactOpened {
		t.Fatal("contact must not be opened on send")
	}
}

func TestSendOfferValidations(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := newTradeService(db)

	u1 := seedUser(t, db, "u1", "İstanbul", "Kadıköy", "05321112233")
	u2 := seedUser(t, db, "u2", "İstanbul", "Beşiktaş", "05424445566")

	requested := seedItemSpec(t, db, itemSpec{owner: u1, title: "Gitar", wantedName: "bisiklet", minValue: 100, maxValue: 200})
	offered := seedItemSpec(t, db, itemSpec{owner: u2, title: "Bisiklet", wantedName: "gitar", minValue: 120, maxValue: 180})
	ownActive := seedItemSpec(t, db, itemSpec{owner: u1, title: "Kitaplık", wantedName: "masa", minValue: 50, maxValue: 80})
	inTrade := seedItemSpec(t, db, itemSpec{owner: u2, title: "Kamera", wantedName: "lens", minValue: 500, maxValue: 900, status: model.ItemStatusInTrade})

	t.Run("self offer", func(t *testing.T) {
		_, err := svc.Send(ctx, u1.UID, ownActive.ID, requested.ID)
		if !errors.Is(err, ErrForbidden) {
			t.Fatalf("err=%v want ErrForbidden", err)
		}
	})
	t.Run("requested item not active", func(t *testing.T) {
		_, err := svc.Send(ctx, u1.UID, ownActive.ID, inTrade.ID)
		if !errors.Is(err, ErrInvalidState) {
			t.Fatalf("err=%v want ErrInvalidState", err)
		}
	})
	t.Run("offered item not owned by sender", func(t *testing.T) {
		_, err := svc.Send(ctx, u2.UID, ownActive.ID, requested.ID)
		if !errors.Is(err, ErrForbidden) {
			t.Fatalf("err=%v want ErrForbidden", err)
		}
	})
	t.Run("offered item not active", func(t *testing.T) {
		_, err := svc.Send(ctx, u2.UID, inTrade.ID, requested.ID)
		if !errors.Is(err, ErrInvalidState) {
			t.Fatalf("err=%v want ErrInvalidState", err)
		}
	})
	t.Run("duplicate pending offer", func(t *testing.T) {
		if _, err := svc.Send(ctx, u2.UID, offered.ID, requested.ID); err != nil {
			t.Fatalf("first Send: %v", err)
		}
		_, err := svc.Send(ctx, u2.UID, offered.ID, requested.ID)
		if !errors.Is(err, ErrConflict) {
			t.Fatalf("err=%v want ErrConflict", err)
		}
	})
	t.Run("missing item", func(t *testing.T) {
		_, err := svc.Send(ctx, u2.UID, offered.ID, 99999)
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("err=%v want ErrNotFound", err)
		}
	})
}

func TestAcceptRejectsCompetingOffersAndLocksItems(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := newTradeService(db)

	u1 := seedUser(t, db, "u1", "İstanbul", "Kadıköy", "05321112233")
	u2 := seedUser(t, db, "u2", "İstanbul", "Beşiktaş", "05424445566")
	u3 := seedUser(t, db, "u3", "İstanbul", "Üsküdar", "05537778899")

	requested := seedItemSpec(t, db, itemSpec{owner: u1, title: "Gitar", wantedName: "bisiklet", minValue: 100, maxValue: 200})
	offered := seedItemSpec(t, db, itemSpec{owner: u2, title: "Bisiklet", wantedName: "gitar", minValue: 120, maxValue: 180})
	competing := seedItemSpec(t, db, itemSpec{owner: u3, title: "Scooter", wantedName: "gitar", minValue: 100, maxValue: 150})

	winner, err := svc.Send(ctx, u2.UID, offered.ID, requested.ID)
	if err != nil {
		t.Fatalf("Send winner: %v", err)
	}
	loser, err := svc.Send(ctx, u3.UID, competing.ID, requested.ID)
	if err != nil {
		t.Fatalf("Send loser: %v", err)
	}

	accepted, err := svc.Accept(ctx, winner.ID, u1.UID)
	if err != nil {
		t.Fatalf("Accept: %v", err)
	}
	if accepted.Status != model.TradeOfferStatusAccepted || !accepted.ContactOpened {
		t.Fatalf("offer=%+v want accepted with contact opened", accepted)
	}
	if got := reloadOffer(t, db, loser.ID); got.Status != model.TradeOfferStatusRejected {
		t.Fatalf("competing offer status=%s want rejected", got.Status)
	}
	if got := reloadItem(t, db, requested.ID); got.Status != model.ItemStatusInTrade {
		t.Fatalf("requested item status=%s want in_trade", got.Status)
	}
	if got := reloadItem(t, db, offered.ID); got.Status != model.ItemStatusInTrade {
		t.Fatalf("offered item status=%s want in_trade", got.Status)
	}
	// The loser's own listing is untouched.
	if got := reloadItem(t, db, competing.ID); got.Status != model.ItemStatusActive {
		t.Fatalf("competing item status=%s want active", got.Status)
	}
}

func TestAcceptAuthorizationAndState(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := newTradeService(db)

	u1 := seedUser(t, db, "u1", "İstanbul", "Kadıköy", "05321112233")
	u2 := seedUser(t, db, "u2", "İstanbul", "Beşiktaş", "05424445566")

	requested := seedItemSpec(t, db, itemSpec{owner: u1, title: "Gitar", wantedName: "bisiklet", minValue: 100, maxValue: 200})
	offered := seedItemSpec(t, db, itemSpec{owner: u2, title: "Bisiklet", wantedName: "gitar", minValue: 120, maxValue: 180})

	offer, err := svc.Send(ctx, u2.UID, offered.ID, requested.ID)
	if err != nil {
		t.Fatalf("Send: %v", err)
	}

	if _, err := svc.Accept(ctx, offer.ID, u2.UID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("sender accept err=%v want ErrForbidden", err)
	}
	if _, err := svc.Accept(ctx, offer.ID, u1.UID); err != nil {
		t.Fatalf("Accept: %v", err)
	}
	if _, err := svc.Accept(ctx, offer.ID, u1.UID); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("second accept err=%v want ErrInvalidState", err)
	}
}

func TestReject(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := newTradeService(db)

	u1 := seedUser(t, db, "u1", "İstanbul", "Kadıköy", "05321112233")
	u2 := seedUser(t, db, "u2", "İstanbul", "Beşiktaş", "05424445566")

	requested := seedItemSpec(t, db, itemSpec{owner: u1, title: "Gitar", wantedName: "bisiklet", minValue: 100, maxValue: 200})
	offered := seedItemSpec(t, db, itemSpec{owner: u2, title: "Bisiklet", wantedName: "gitar", minValue: 120, maxValue: 180})

	offer, err := svc.Send(ctx, u2.UID, offered.ID, requested.ID)
	if err != nil {
		t.Fatalf("Send: %v", err)
	}

	if _, err := svc.Reject(ctx, offer.ID, u2.UID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("sender reject err=%v want ErrForbidden", err)
	}
	rejected, err := svc.Reject(ctx, offer.ID, u1.UID)
	if err != nil {
		t.Fatalf("Reject: %v", err)
	}
	if rejected.Status != model.TradeOfferStatusRejected {
		t.Fatalf("status=%s want rejected", rejected.Status)
	}
	// Rejecting does not touch the listings.
	if got := reloadItem(t, db, requested.ID); got.Status != model.ItemStatusActive {
		t.Fatalf("requested item status=%s want active", got.Status)
	}
	if _, err := svc.Reject(ctx, offer.ID, u1.UID); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("second reject err=%v want ErrInvalidState", err)
	}
}

func TestComplete(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := newTradeService(db)

	u1 := seedUser(t, db, "u1", "İstanbul", "Kadıköy", "05321112233")
	u2 := seedUser(t, db, "u2", "İstanbul", "Beşiktaş", "05424445566")
	u3 := seedUser(t, db, "u3", "İstanbul", "Üsküdar", "05537778899")

	requested := seedItemSpec(t, db, itemSpec{owner: u1, title: "Gitar", wantedName: "bisiklet", minValue: 100, maxValue: 200})
	offered := seedItemSpec(t, db, itemSpec{owner: u2, title: "Bisiklet", wantedName: "gitar", minValue: 120, maxValue: 180})

	offer, err := svc.Send(ctx, u2.UID, offered.ID, requested.ID)
	if err != nil {
		t.Fatalf("Send: %v", err)
	}

	if _, err := svc.Complete(ctx, offer.ID, u1.UID); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("complete pending err=%v want ErrInvalidState", err)
	}
	if _, err := svc.Accept(ctx, offer.ID, u1.UID); err != nil {
		t.Fatalf("Accept: %v", err)
	}
	if _, err := svc.Complete(ctx, offer.ID, u3.UID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("third party complete err=%v want ErrForbidden", err)
	}

	// Either party may complete; here the sender does.
	if _, err := svc.Complete(ctx, offer.ID, u2.UID); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if got := reloadItem(t, db, requested.ID); got.Status != model.ItemStatusCompleted {
		t.Fatalf("requested item status=%s want completed", got.Status)
	}
	if got := reloadItem(t, db, offered.ID); got.Status != model.ItemStatusCompleted {
		t.Fatalf("offered item status=%s want completed", got.Status)
	}
	// Completion is recorded on the items only.
	if got := reloadOffer(t, db, offer.ID); got.Status != model.TradeOfferStatusAccepted {
		t.Fatalf("offer status=%s want accepted after completion", got.Status)
	}
}

func TestListIncomingAnnotatesContactLink(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := newTradeService(db)

	u1 := seedUser(t, db, "u1", "İstanbul", "Kadıköy", "05321112233")
	u2 := seedUser(t, db, "u2", "İstanbul", "Beşiktaş", "05424445566")

	requested := seedItemSpec(t, db, itemSpec{owner: u1, title: "Gitar", wantedName: "bisiklet", minValue: 100, maxValue: 200})
	offered := seedItemSpec(t, db, itemSpec{owner: u2, title: "Bisiklet", wantedName: "gitar", minValue: 120, maxValue: 180})

	offer, err := svc.Send(ctx, u2.UID, offered.ID, requested.ID)
	if err != nil {
		t.Fatalf("Send: %v", err)
	}

	incoming, err := svc.ListIncoming(ctx, u1.UID)
	if err != nil {
		t.Fatalf("ListIncoming: %v", err)
	}
	if len(incoming) != 1 {
		t.Fatalf("got %d incoming offers, want 1", len(incoming))
	}
	if incoming[0].ContactLink != "" {
		t.Fatal("contact link must stay empty before accept")
	}

	if _, err := svc.Accept(ctx, offer.ID, u1.UID); err != nil {
		t.Fatalf("Accept: %v", err)
	}

	incoming, err = svc.ListIncoming(ctx, u1.UID)
	if err != nil {
		t.Fatalf("ListIncoming: %v", err)
	}
	// The incoming link points at the sender's phone (u2).
	if !strings.HasPrefix(incoming[0].ContactLink, "https://wa.me/905424445566?text=") {
		t.Fatalf("contact link=%q want sender's wa.me link", incoming[0].ContactLink)
	}

	outgoing, err := svc.ListOutgoing(ctx, u2.UID)
	if err != nil {
		t.Fatalf("ListOutgoing: %v", err)
	}
	if len(outgoing) != 1 {
		t.Fatalf("got %d outgoing offers, want 1", len(outgoing))
	}
	// The outgoing link points at the receiver's phone (u1).
	if !strings.HasPrefix(outgoing[0].ContactLink, "https://wa.me/905321112233?text=") {
		t.Fatalf("contact link=%q want receiver's wa.me link", outgoing[0].ContactLink)
	}
}

func TestListIncomingSurfacesStoreErrors(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := newTradeService(db)

	u1 := seedUser(t, db, "u1", "İstanbul", "Kadıköy", "05321112233")
	u2 := seedUser(t, db, "u2", "İstanbul", "Beşiktaş", "05424445566")

	requested := seedItemSpec(t, db, itemSpec{owner: u1, title: "Gitar", wantedName: "bisiklet", minValue: 100, maxValue: 200})
	offered := seedItemSpec(t, db, itemSpec{owner: u2, title: "Bisiklet", wantedName: "gitar", minValue: 120, maxValue: 180})

	if _, err := svc.Send(ctx, u2.UID, offered.ID, requested.ID); err != nil {
		t.Fatalf("Send: %v", err)
	}

	// Break the item lookups underneath the offer listing.
	if err := db.Migrator().DropTable(&model.Item{}); err != nil {
		t.Fatalf("drop items table: %v", err)
	}

	if _, err := svc.ListIncoming(ctx, u1.UID); err == nil {
		t.Fatal("expected a store error to surface, got nil")
	}
}
