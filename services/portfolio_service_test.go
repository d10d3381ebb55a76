package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ferreirogomes/fracoes/services"
	"github.com/ferreirogomes/fracoes/storage/storagetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHoldingsAndTransactions(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	manager := storagetest.Manager(t, fx.db, "gestor")
	seller := storagetest.Owner(t, fx.db, "vendedor")
	buyer := storagetest.Owner(t, fx.db, "comprador")

	house, err := fx.assets.Create(ctx, actor(manager), services.AssetInput{
		Name: "Casa", TotalUnit: 100, UnitMin: 1, UnitMax: 100,
		InitialValue: dec("1000.00"), InitialOwnership: map[int64]int64{seller.ID: 80},
	})
	require.NoError(t, err)
	shop, err := fx.assets.Create(ctx, actor(manager), services.AssetInput{
		Name: "Loja", TotalUnit: 10, UnitMin: 1, UnitMax: 10,
		InitialValue: dec("50.00"), InitialOwnership: map[int64]int64{seller.ID: 4},
	})
	require.NoError(t, err)

	offer := fx.sellOffer(t, seller, house.Asset.ID, 30, "12.00")
	_, err = fx.trading.ExecuteTrade(ctx, actor(buyer), offer.ID, buyer.ID)
	require.NoError(t, err)

	holdings, err := fx.portfolio.Holdings(ctx, seller.ID)
	require.NoError(t, err)
	require.Len(t, holdings, 2)
	assert.Equal(t, house.Asset.ID, holdings[0].AssetID)
	assert.Equal(t, "Casa", holdings[0].AssetName)
	assert.Equal(t, int64(50), holdings[0].Units)
	assert.True(t, holdings[0].PerUnit.Equal(dec("10")))
	assert.True(t, holdings[0].EstimatedValue.Equal(dec("500")))
	assert.Equal(t, shop.Asset.ID, holdings[1].AssetID)
	assert.True(t, holdings[1].EstimatedValue.Equal(dec("20")))
	assert.True(t, services.Total(holdings).Equal(dec("520")))

	buyerHoldings, err := fx.portfolio.Holdings(ctx, buyer.ID)
	require.NoError(t, err)
	require.Len(t, buyerHoldings, 1)
	assert.Equal(t, int64(30), buyerHoldings[0].Units)

	for _, owner := range []int64{seller.ID, buyer.ID} {
		txs, err := fx.portfolio.Transactions(ctx, owner, nil, 0)
		require.NoError(t, err)
		require.Len(t, txs, 1)
		assert.Equal(t, int64(30), txs[0].UnitsMoved)
	}

	txs, err := fx.portfolio.Transactions(ctx, seller.ID, &shop.Asset.ID, 10)
	require.NoError(t, err)
	assert.Empty(t, txs)
}

func TestTransactionsNewestFirst(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	seller := storagetest.Owner(t, fx.db, "vendedor")
	buyer := storagetest.Owner(t, fx.db, "comprador")
	asset := storagetest.Asset(t, fx.db, "Sala", 1000)
	storagetest.Fraction(t, fx.db, asset.ID, seller.ID, 100, "1.00", time.Now().Add(-time.Hour))

	var offerIDs []int64
	for i := 0; i < 3; i++ {
		offer := fx.sellOffer(t, seller, asset.ID, 10, "2.00")
		_, err := fx.trading.ExecuteTrade(ctx, actor(buyer), offer.ID, buyer.ID)
		require.NoError(t, err)
		offerIDs = append(offerIDs, offer.ID)
	}

	txs, err := fx.portfolio.Transactions(ctx, buyer.ID, nil, 2)
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.Equal(t, offerIDs[2], txs[0].OfferID)
	assert.Equal(t, offerIDs[1], txs[1].OfferID)
}

func TestPortfolioUnknownOwner(t *testing.T) {
	fx := newFixture(t)
	_, err := fx.portfolio.Holdings(context.Background(), 404)
	assert.True(t, errors.Is(err, services.ErrNotFound))
	_, err = fx.portfolio.Transactions(context.Background(), 404, nil, 0)
	assert.True(t, errors.Is(err, services.ErrNotFound))
}
