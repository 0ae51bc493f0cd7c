package services

import (
	"net/http"
	"testing"

	"github.com/tradebridge/tradebridge-backend/internal/pkg/apperr"
)

func TestCreateDraft_PersistsProductRows(t *testing.T) {
	env := newTestEnv(t)

	draft, err := env.draftSvc.CreateDraft(ownerCtx(1, "Oceanic Exports"), CreateDraftInput{
		DraftName:    "Salmon base",
		PaymentTerms: "LC at sight",
		Products: []DraftProductInput{
			{ProductName: "Atlantic Salmon HOG", Quantity: 1000, GrandTotal: 52000},
			{ProductName: "Salmon Portions", Quantity: 300, GrandTotal: 21000},
		},
	})
	if err != nil {
		t.Fatalf("CreateDraft: %v", err)
	}
	if draft.ID == 0 || len(draft.Products) != 2 {
		t.Fatalf("draft not persisted with products: %+v", draft)
	}
	if draft.ConsumedAt != nil {
		t.Fatalf("fresh draft must be unconsumed")
	}
}

func TestCreateDraft_RequiresProducts(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.draftSvc.CreateDraft(ownerCtx(1, "Oceanic Exports"), CreateDraftInput{DraftName: "Empty"})
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestGetDraft_ScopedToOwner(t *testing.T) {
	env := newTestEnv(t)
	draft := env.seedDraft(t, 1)

	if _, err := env.draftSvc.GetDraft(ownerCtx(1, "Oceanic Exports"), draft.ID); err != nil {
		t.Fatalf("GetDraft own: %v", err)
	}
	_, err := env.draftSvc.GetDraft(ownerCtx(2, "Highland Trading"), draft.ID)
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("foreign draft must read as a bad request, got %v", err)
	}
	if appErr, ok := apperr.As(err); !ok || appErr.HTTPStatus() != http.StatusBadRequest {
		t.Fatalf("draft absence must map to 400, got %v", err)
	}
}

func TestRegisterBuyer_OwnerOnly(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.directory.RegisterBuyer(buyerCtx(1, 1, "Nordsee Imports"), RegisterBuyerInput{
		CompanyName:  "Shadow Corp",
		ContactEmail: "x@shadow.test",
	})
	if !apperr.IsKind(err, apperr.KindAuthorization) {
		t.Fatalf("expected authorization error, got %v", err)
	}
}

func TestListBuyers_ScopedToOwner(t *testing.T) {
	env := newTestEnv(t)
	buyers, err := env.directory.ListBuyers(ownerCtx(1, "Oceanic Exports"))
	if err != nil {
		t.Fatalf("ListBuyers: %v", err)
	}
	if len(buyers) != 2 {
		t.Fatalf("expected 2 buyers for owner 1, got %d", len(buyers))
	}
	for _, b := range buyers {
		if b.BusinessOwnerID != 1 {
			t.Fatalf("foreign buyer leaked: %+v", b)
		}
	}
}

func TestGetBuyer_BuyerSeesOnlySelf(t *testing.T) {
	env := newTestEnv(t)
	ctx := buyerCtx(1, 1, "Nordsee Imports")

	buyer, err := env.directory.GetBuyer(ctx, 1)
	if err != nil {
		t.Fatalf("GetBuyer self: %v", err)
	}
	if buyer.ID != 1 {
		t.Fatalf("unexpected buyer: %+v", buyer)
	}
	if _, err := env.directory.GetBuyer(ctx, 2); !apperr.IsKind(err, apperr.KindAuthorization) {
		t.Fatalf("expected authorization error, got %v", err)
	}
}
