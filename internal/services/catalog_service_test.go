package services

import (
	"bytes"
	"context"
	"testing"

	"gasflow/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestCartMergesSameProductAndType(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()
	user := seedUser(t, repos, "cart@example.com", models.RoleCustomer)
	product := seedProduct(t, repos, "11kg", 10)
	cart := NewCartService(repos)

	first, err := cart.AddItem(ctx, user.ID, product.ID, models.OrderTypeNew, 1)
	require.NoError(t, err)
	merged, err := cart.AddItem(ctx, user.ID, product.ID, models.OrderTypeNew, 2)
	require.NoError(t, err)
	assert.Equal(t, first.ID, merged.ID)
	assert.Equal(t, 3, merged.Quantity)

	_, err = cart.AddItem(ctx, user.ID, product.ID, models.OrderTypeSwap, 1)
	require.NoError(t, err)

	items, err := cart.GetCart(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, items, 2)

	_, err = cart.AddItem(ctx, user.ID, product.ID, models.OrderTypeNew, 0)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCartItemsBelongToOwner(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()
	owner := seedUser(t, repos, "owner@example.com", models.RoleCustomer)
	other := seedUser(t, repos, "other@example.com", models.RoleCustomer)
	product := seedProduct(t, repos, "11kg", 10)
	cart := NewCartService(repos)

	item, err := cart.AddItem(ctx, owner.ID, product.ID, models.OrderTypeNew, 1)
	require.NoError(t, err)

	_, err = cart.UpdateQuantity(ctx, other.ID, item.ID, 5)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, cart.RemoveItem(ctx, other.ID, item.ID), ErrNotFound)

	updated, err := cart.UpdateQuantity(ctx, owner.ID, item.ID, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, updated.Quantity)

	require.NoError(t, cart.Clear(ctx, owner.ID))
	items, err := cart.GetCart(ctx, owner.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestDeletedProductsAreHiddenFromCatalog(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()
	products := NewProductService(repos, nil)

	created, err := products.CreateProduct(ctx, ProductInput{
		Name:      "LPG Cylinder",
		Weight:    "22kg",
		NewPrice:  decimal.NewFromInt(4800),
		SwapPrice: decimal.NewFromInt(2100),
		Stock:     12,
	})
	require.NoError(t, err)
	assert.True(t, created.IsActive)

	require.NoError(t, products.DeleteProduct(ctx, created.ID))

	active, err := products.ListProducts(ctx, false)
	require.NoError(t, err)
	assert.Empty(t, active)

	all, err := products.ListProducts(ctx, true)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.False(t, all[0].IsActive)

	customer := seedUser(t, repos, "c@example.com", models.RoleCustomer)
	_, err = NewCartService(repos).AddItem(ctx, customer.ID, created.ID, models.OrderTypeNew, 1)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, products.DeleteProduct(ctx, "missing"), ErrNotFound)
}

func TestUpdateProductValidates(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()
	product := seedProduct(t, repos, "11kg", 5)
	products := NewProductService(repos, nil)

	negative := -1
	_, err := products.UpdateProduct(ctx, product.ID, ProductUpdate{Stock: &negative})
	assert.ErrorIs(t, err, ErrValidation)

	price := decimal.RequireFromString("2799.50")
	inactive := false
	updated, err := products.UpdateProduct(ctx, product.ID, ProductUpdate{NewPrice: &price, IsActive: &inactive})
	require.NoError(t, err)
	assert.True(t, updated.NewPrice.Equal(price))
	assert.False(t, updated.IsActive)
}

func TestImportProductsUpserts(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()
	existing := seedProduct(t, repos, "11kg", 5)
	products := NewProductService(repos, nil)

	book := excelize.NewFile()
	sheet := book.GetSheetName(0)
	rows := [][]interface{}{
		{"name", "weight", "newPrice", "swapPrice", "stock"},
		{"LPG Cylinder", "11kg", "2700", "1100", "40"},
		{"LPG Cylinder", "50kg", "9500", "4750", "8"},
		{"Broken row", "2.7kg", "cheap", "350", "1"},
		{"", "", "", "", ""},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, book.SetSheetRow(sheet, cell, &row))
	}
	var buf bytes.Buffer
	require.NoError(t, book.Write(&buf))

	result, err := products.ImportProducts(ctx, &buf)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Created)
	assert.Equal(t, 1, result.Updated)
	require.Len(t, result.Skipped, 1)
	assert.Equal(t, 4, result.Skipped[0].Row)

	updated, err := repos.Products.GetByID(ctx, existing.ID)
	require.NoError(t, err)
	assert.Equal(t, 40, updated.Stock)
	assert.True(t, updated.NewPrice.Equal(decimal.NewFromInt(2700)))

	all, err := products.ListProducts(ctx, true)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestImportRejectsNonExcel(t *testing.T) {
	products := NewProductService(newTestRepos(t), nil)
	_, err := products.ImportProducts(context.Background(), bytes.NewBufferString("name,weight\n"))
	assert.ErrorIs(t, err, ErrValidation)
}
