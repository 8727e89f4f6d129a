package services

import (
	"testing"

	"github.com/sujinlee/moamall/app/repositories"
)

func TestCartAddMergesLines(t *testing.T) {
	var cart Cart
	cart.Add(1, 2)
	cart.Add(2, 1)
	cart.Add(1, 3)

	if len(cart.Items) != 2 {
		t.Fatalf("lines = %d, want 2", len(cart.Items))
	}
	if cart.Items[0].ProductID != 1 || cart.Items[0].Quantity != 5 {
		t.Errorf("line 0 = %+v, want product 1 x5", cart.Items[0])
	}
}

func TestCartSetQuantity(t *testing.T) {
	var cart Cart
	cart.Add(1, 2)
	cart.Add(2, 4)

	cart.SetQuantity(2, 7)
	if cart.Items[1].Quantity != 7 {
		t.Errorf("quantity = %d, want 7", cart.Items[1].Quantity)
	}

	cart.SetQuantity(1, 0)
	if len(cart.Items) != 1 || cart.Items[0].ProductID != 2 {
		t.Errorf("zero quantity should drop the line: %+v", cart.Items)
	}

	cart.Remove(2)
	if !cart.IsEmpty() {
		t.Error("cart should be empty after removing the last line")
	}
}

func TestCartPriceUsesCurrentCatalogue(t *testing.T) {
	db := testDB(t)
	products := repositories.NewProductRepository(db)
	svc := NewCartService(products)

	a := seedProduct(t, db, "notebook", 6.50, 10)
	b := seedProduct(t, db, "mug", 14.0, 5)

	var cart Cart
	cart.Add(a.ID, 2)
	cart.Add(b.ID, 1)
	cart.Add(9999, 1) // withdrawn or never existed

	view, err := svc.Price(cart)
	if err != nil {
		t.Fatalf("Price: %v", err)
	}

	if len(view.Lines) != 2 {
		t.Fatalf("lines = %d, want 2 (unknown product skipped)", len(view.Lines))
	}
	if view.Total != 27.0 {
		t.Errorf("total = %v, want 27.0", view.Total)
	}
	if view.Lines[0].LineTotal != 13.0 {
		t.Errorf("line total = %v, want 13.0", view.Lines[0].LineTotal)
	}
}

func TestProductAvailable(t *testing.T) {
	db := testDB(t)
	products := repositories.NewProductRepository(db)
	svc := NewCartService(products)

	p := seedProduct(t, db, "pen", 24.0, 3)

	if ok, err := svc.ProductAvailable(p.ID); err != nil || !ok {
		t.Errorf("ProductAvailable(%d) = %v, %v; want true", p.ID, ok, err)
	}
	if ok, err := svc.ProductAvailable(12345); err != nil || ok {
		t.Errorf("ProductAvailable(missing) = %v, %v; want false, nil", ok, err)
	}
}
