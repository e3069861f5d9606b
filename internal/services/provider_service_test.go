package services

import (
	"context"
	"net/http"
	"testing"

	"chamaai_backend/internal/listing"
	"chamaai_backend/internal/models"
	"chamaai_backend/internal/services/dto"
	"chamaai_backend/pkg/apperrors"
	"chamaai_backend/test/testdb"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedProviders(t *testing.T, env *testEnv) map[string]*models.ServiceProvider {
	t.Helper()
	out := map[string]*models.ServiceProvider{}
	add := func(key, name string, opts testdb.ProviderOpts) {
		_, p := testdb.CreateProvider(t, env.db, name, key+"@example.com", opts)
		out[key] = p
	}
	add("rosa", "Rosa Faxinas", testdb.ProviderOpts{Category: "faxina", RatePerHour: 35, Rating: 4.8})
	add("lucia", "Lúcia Limpeza", testdb.ProviderOpts{Category: "faxina", RatePerHour: 60, Rating: 4.2, City: "Rio de Janeiro"})
	add("joao", "João Pintor", testdb.ProviderOpts{Category: "pintura", RatePerHour: 80, Rating: 3.9})
	add("pedro", "Pedro Eletricista", testdb.ProviderOpts{Category: "eletrica", RatePerHour: 120, Rating: 5})
	return out
}

func names(cards []dto.ProviderResponse) []string {
	out := make([]string, 0, len(cards))
	for _, c := range cards {
		out = append(out, c.FullName)
	}
	return out
}

func TestProviderService_ListProviders(t *testing.T) {
	env := newTestEnv(t)
	seedProviders(t, env)

	t.Run("synonym query", func(t *testing.T) {
		resp, err := env.svc.ProviderService.ListProviders(ctx(), env.db, &dto.ProviderSearchRequest{Query: "faxineira"})
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"Rosa Faxinas", "Lúcia Limpeza"}, names(resp.Data))
		assert.Nil(t, resp.Error)
	})

	t.Run("price medium", func(t *testing.T) {
		resp, err := env.svc.ProviderService.ListProviders(ctx(), env.db, &dto.ProviderSearchRequest{Price: "medium"})
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"Lúcia Limpeza", "João Pintor"}, names(resp.Data))
	})

	t.Run("category rating and location", func(t *testing.T) {
		resp, err := env.svc.ProviderService.ListProviders(ctx(), env.db, &dto.ProviderSearchRequest{Category: "faxina", Rating: "4.5+"})
		require.NoError(t, err)
		assert.Equal(t, []string{"Rosa Faxinas"}, names(resp.Data))

		resp, err = env.svc.ProviderService.ListProviders(ctx(), env.db, &dto.ProviderSearchRequest{Location: "rio-de-janeiro"})
		require.NoError(t, err)
		assert.Equal(t, []string{"Lúcia Limpeza"}, names(resp.Data))
	})

	t.Run("unknown filters mean all", func(t *testing.T) {
		resp, err := env.svc.ProviderService.ListProviders(ctx(), env.db, &dto.ProviderSearchRequest{
			Category: "astrologia",
			Location: "marte",
			Price:    "gratis",
			Rating:   "muito",
		})
		require.NoError(t, err)
		assert.Len(t, resp.Data, 4)
	})

	t.Run("sort by rating and paginate", func(t *testing.T) {
		req := &dto.ProviderSearchRequest{Sort: "rating", PageSize: 3}
		resp, err := env.svc.ProviderService.ListProviders(ctx(), env.db, req)
		require.NoError(t, err)
		assert.Equal(t, []string{"Pedro Eletricista", "Rosa Faxinas", "Lúcia Limpeza"}, names(resp.Data))
		require.NotNil(t, resp.Pagination)
		assert.Equal(t, 4, resp.Pagination.Total)
		assert.Equal(t, 2, resp.Pagination.TotalPages)
		assert.True(t, resp.Pagination.HasNext)

		req.Page = 2
		resp, err = env.svc.ProviderService.ListProviders(ctx(), env.db, req)
		require.NoError(t, err)
		assert.Equal(t, []string{"João Pintor"}, names(resp.Data))
		assert.False(t, resp.Pagination.HasNext)
		assert.True(t, resp.Pagination.HasPrev)

		req.Page = 9
		resp, err = env.svc.ProviderService.ListProviders(ctx(), env.db, req)
		require.NoError(t, err)
		assert.Empty(t, resp.Data)
		assert.NotNil(t, resp.Data)
		assert.Equal(t, 4, resp.Pagination.Total)
	})
}

func TestProviderService_SearchServiceProviders(t *testing.T) {
	env := newTestEnv(t)
	seedProviders(t, env)

	resp, err := env.svc.ProviderService.SearchServiceProviders(ctx(), env.db, "PINTOR")
	require.NoError(t, err)
	assert.Equal(t, []string{"João Pintor"}, names(resp.Data))

	resp, err = env.svc.ProviderService.SearchServiceProviders(ctx(), env.db, "")
	require.NoError(t, err)
	require.Len(t, resp.Data, 4)
	assert.Equal(t, "Pedro Eletricista", resp.Data[0].FullName)
}

func TestProviderService_GetProvider(t *testing.T) {
	env := newTestEnv(t)
	providers := seedProviders(t, env)

	detail, err := env.svc.ProviderService.GetProvider(env.db, providers["rosa"].ID)
	require.NoError(t, err)
	assert.Equal(t, "Rosa Faxinas", detail.FullName)
	assert.Equal(t, "faxina", detail.Category.Slug)
	assert.Contains(t, detail.Category.Synonyms, "faxineira")
	assert.NotNil(t, detail.Reviews)
	assert.Empty(t, detail.Reviews)

	_, err = env.svc.ProviderService.GetProvider(env.db, "00000000-0000-0000-0000-000000000000")
	assert.True(t, apperrors.Is(err, apperrors.ErrProviderNotFound))

	reviews, err := env.svc.ProviderService.ListReviews(ctx(), env.db, providers["rosa"].ID, 1, 10)
	require.NoError(t, err)
	assert.Empty(t, reviews.Data)
	assert.Equal(t, 0, reviews.Pagination.Total)
}

func TestListing_FailuresKeepEnvelope(t *testing.T) {
	t.Run("cancelled context is a network error", func(t *testing.T) {
		env := newTestEnv(t)
		seedProviders(t, env)

		cancelled, cancel := context.WithCancel(context.Background())
		cancel()

		resp, err := env.svc.ProviderService.ListProviders(cancelled, env.db, &dto.ProviderSearchRequest{})
		assertCode(t, err, apperrors.CodeNetworkError)
		appErr, _ := apperrors.AsAppError(err)
		assert.Equal(t, http.StatusServiceUnavailable, appErr.HTTPCode)

		require.NotNil(t, resp)
		assert.NotNil(t, resp.Data)
		assert.Empty(t, resp.Data)
		assert.False(t, resp.IsLoading)
		require.NotNil(t, resp.Error)
		assert.Equal(t, listing.NetworkError, resp.Error.Kind)
	})

	t.Run("broken storage is a query error", func(t *testing.T) {
		env := newTestEnv(t)
		sqlDB, err := env.db.DB()
		require.NoError(t, err)
		require.NoError(t, sqlDB.Close())

		resp, err := env.svc.CategoryService.ListCategories(ctx(), env.db)
		assertCode(t, err, apperrors.CodeQueryError)
		appErr, _ := apperrors.AsAppError(err)
		assert.Equal(t, http.StatusInternalServerError, appErr.HTTPCode)

		require.NotNil(t, resp)
		require.NotNil(t, resp.Error)
		assert.Equal(t, listing.QueryError, resp.Error.Kind)
		assert.Empty(t, resp.Data)
	})
}

func TestCatalogServices(t *testing.T) {
	env := newTestEnv(t)

	categories, err := env.svc.CategoryService.ListCategories(ctx(), env.db)
	require.NoError(t, err)
	assert.Len(t, categories.Data, 6)

	c, err := env.svc.CategoryService.ResolveCategory(env.db, "", "JARDINAGEM")
	require.NoError(t, err)
	assert.Equal(t, "jardinagem", c.Slug)

	_, err = env.svc.CategoryService.ResolveCategory(env.db, "", "")
	assertCode(t, err, apperrors.CodeValidationFailed)

	faq, err := env.svc.FAQService.ListFAQ(ctx(), env.db, "")
	require.NoError(t, err)
	assert.NotEmpty(t, faq.Data)
}
