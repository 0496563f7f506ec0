//go:build integration

package mongo

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/elmdemo/marketplace/internal/core/domain"
	"github.com/elmdemo/marketplace/internal/core/ports"
)

// Run with: MONGO_TEST_URI=mongodb://... go test -tags integration ./internal/infrastructure/db/mongo/
func newTestDB(t *testing.T) *mongo.Database {
	t.Helper()
	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		t.Skip("MONGO_TEST_URI not set")
	}

	ctx := context.Background()
	client, db, err := Connect(ctx, Config{URI: uri, Database: fmt.Sprintf("marketplace_test_%d", time.Now().UnixNano())})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Drop(context.Background())
		_ = client.Disconnect(context.Background())
	})
	return db
}

func newAccount(username string) *domain.Account {
	return &domain.Account{
		Username:     username,
		Email:        username + "@x.com",
		PasswordHash: "digest",
		Status:       domain.StatusActive,
		Role:         domain.RoleDealer,
	}
}

func TestAccountRepository_SaveFindAndUniqueness(t *testing.T) {
	ctx := context.Background()
	repo := NewAccountRepository(newTestDB(t))
	require.NoError(t, EnsureIndexes(ctx, repo))

	first, err := repo.Save(ctx, newAccount("dave"))
	require.NoError(t, err)
	second, err := repo.Save(ctx, newAccount("erin"))
	require.NoError(t, err)
	assert.Equal(t, first.ID+1, second.ID, "ids come from the counters sequence")

	sameEmail := newAccount("frank")
	sameEmail.Email = "dave@x.com"
	_, err = repo.Save(ctx, sameEmail)
	assert.ErrorIs(t, err, domain.ErrAccountAlreadyExists)

	first.Status = domain.StatusInactive
	_, err = repo.Save(ctx, first)
	require.NoError(t, err)

	reloaded, err := repo.FindByUsername(ctx, "dave")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInactive, reloaded.Status)

	ghost := newAccount("ghost")
	ghost.ID = 999
	_, err = repo.Save(ctx, ghost)
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)

	_, err = repo.FindByEmail(ctx, "nobody@x.com")
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestProductRepository_OwnershipAndPaging(t *testing.T) {
	ctx := context.Background()
	products := NewProductRepository(newTestDB(t))
	require.NoError(t, EnsureIndexes(ctx, products))

	var daves []int64
	for i, owner := range []int64{1, 2, 1, 1, 2} {
		p, err := products.Save(ctx, &domain.Product{
			OwnerID: owner,
			Name:    "item",
			Price:   float64(i + 1),
			Status:  domain.StatusActive,
		})
		require.NoError(t, err)
		if owner == 1 {
			daves = append(daves, p.ID)
		}
	}

	owned, err := products.ListOwnedIDs(ctx, 1)
	require.NoError(t, err)
	assert.ElementsMatch(t, daves, owned)

	toggled, err := products.FindByID(ctx, daves[0])
	require.NoError(t, err)
	toggled.Status = domain.StatusInactive
	_, err = products.Save(ctx, toggled)
	require.NoError(t, err)

	page, total, err := products.List(ctx, ports.ListProductsFilter{Status: domain.StatusActive, Limit: 2, Page: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
	require.Len(t, page, 2)
	assert.Less(t, page[0].ID, page[1].ID)

	_, err = products.FindByID(ctx, 999)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}
