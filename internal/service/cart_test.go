package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motorepuestos/shop/internal/models"
)

func TestAddItemSnapshotsDiscountPrice(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := &CartService{Repo: r}
	ctx := context.Background()

	p := seedProduct(t, r, func(p *models.Product) {
		p.DiscountPrice = decimal.NewNullDecimal(decimal.NewFromInt(80))
	})

	item, err := svc.AddItem(ctx, "guest:abc", p.ID, 3)
	require.NoError(t, err)

	assert.Equal(t, 3, item.Quantity)
	assert.True(t, item.ProductPrice.Equal(decimal.NewFromInt(80)), "got %s", item.ProductPrice)
	assert.Equal(t, "MOT-KP-150", item.ProductSKU)

	items, err := svc.GetCart(ctx, "guest:abc")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.True(t, CartTotal(items).Equal(decimal.NewFromInt(240)), "got %s", CartTotal(items))
}

func TestAddItemMergesExistingLine(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := &CartService{Repo: r}
	ctx := context.Background()

	p := seedProduct(t, r, nil)

	_, err := svc.AddItem(ctx, "guest:abc", p.ID, 2)
	require.NoError(t, err)

	// The product gets cheaper between the two adds; the snapshot taken
	// at the first add must survive the merge.
	require.NoError(t, r.DB.Model(p).Update("price", decimal.NewFromInt(50)).Error)

	item, err := svc.AddItem(ctx, "guest:abc", p.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, 5, item.Quantity)
	assert.True(t, item.ProductPrice.Equal(decimal.NewFromInt(100)), "got %s", item.ProductPrice)

	items, err := svc.GetCart(ctx, "guest:abc")
	require.NoError(t, err)
	require.Len(t, items, 1, "same product must merge into one line")
}

func TestAddItemUnknownProduct(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := &CartService{Repo: r}

	_, err := svc.AddItem(context.Background(), "guest:abc", uuid.New(), 1)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestAddItemQuantityFloor(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := &CartService{Repo: r}

	p := seedProduct(t, r, nil)

	item, err := svc.AddItem(context.Background(), "guest:abc", p.ID, -4)
	require.NoError(t, err)
	assert.Equal(t, 1, item.Quantity)
}

func TestUpdateQuantityZeroRemovesLine(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := &CartService{Repo: r}
	ctx := context.Background()

	p := seedProduct(t, r, nil)

	_, err := svc.AddItem(ctx, "guest:abc", p.ID, 2)
	require.NoError(t, err)

	item, err := svc.UpdateQuantity(ctx, "guest:abc", p.ID, 0)
	require.NoError(t, err)
	assert.Nil(t, item)

	items, err := svc.GetCart(ctx, "guest:abc")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestUpdateQuantityReplacesExactly(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := &CartService{Repo: r}
	ctx := context.Background()

	p := seedProduct(t, r, nil)

	_, err := svc.AddItem(ctx, "guest:abc", p.ID, 2)
	require.NoError(t, err)

	item, err := svc.UpdateQuantity(ctx, "guest:abc", p.ID, 7)
	require.NoError(t, err)
	assert.Equal(t, 7, item.Quantity)

	_, err = svc.UpdateQuantity(ctx, "guest:abc", uuid.New(), 7)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRemoveMissingLineIsNoOp(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := &CartService{Repo: r}

	require.NoError(t, svc.RemoveItem(context.Background(), "guest:abc", uuid.New()))
}

func TestCartsArePartitionedByOwner(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := &CartService{Repo: r}
	ctx := context.Background()

	p := seedProduct(t, r, nil)

	guestKey := "guest:" + uuid.NewString()
	userKey := "user:" + uuid.NewString()

	// Guest fills a cart, then logs in: the user cart starts empty and
	// the guest lines stay where they are.
	_, err := svc.AddItem(ctx, guestKey, p.ID, 2)
	require.NoError(t, err)

	userItems, err := svc.GetCart(ctx, userKey)
	require.NoError(t, err)
	assert.Empty(t, userItems)

	_, err = svc.AddItem(ctx, userKey, p.ID, 5)
	require.NoError(t, err)
	require.NoError(t, svc.Clear(ctx, userKey))

	// Logging out switches back to the guest key with the old cart intact.
	guestItems, err := svc.GetCart(ctx, guestKey)
	require.NoError(t, err)
	require.Len(t, guestItems, 1)
	assert.Equal(t, "MOT-KP-150", guestItems[0].ProductSKU)
	assert.Equal(t, 2, guestItems[0].Quantity)
}

func TestCartTotalEmpty(t *testing.T) {
	t.Parallel()

	assert.True(t, CartTotal(nil).IsZero())
	assert.Equal(t, 0, CartItemCount(nil))
}

func TestClearCart(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := &CartService{Repo: r}
	ctx := context.Background()

	p1 := seedProduct(t, r, nil)
	p2 := seedProduct(t, r, func(p *models.Product) { p.SKU = "FRE-PAS-01"; p.Category = models.CategoryFrenos })

	_, err := svc.AddItem(ctx, "guest:abc", p1.ID, 1)
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, "guest:abc", p2.ID, 2)
	require.NoError(t, err)

	require.NoError(t, svc.Clear(ctx, "guest:abc"))

	items, err := svc.GetCart(ctx, "guest:abc")
	require.NoError(t, err)
	assert.Empty(t, items)
}
