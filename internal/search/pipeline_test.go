package search

import (
	"testing"
	"time"

	"chamaai_backend/internal/services/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func provider(id, name, slug, city, description string, rating, rate float64, age time.Duration) dto.ProviderResponse {
	labels := map[string]string{"faxina": "Faxina", "eletrica": "Elétrica", "pintura": "Pintura", "jardinagem": "Jardinagem"}
	return dto.ProviderResponse{
		ID:          id,
		FullName:    name,
		City:        city,
		Description: description,
		Category:    dto.CategoryResponse{Slug: slug, Name: labels[slug]},
		Rating:      rating,
		RatePerHour: rate,
		CreatedAt:   base.Add(-age),
	}
}

func fixtures() []dto.ProviderResponse {
	return []dto.ProviderResponse{
		provider("p1", "Ana Lima", "faxina", "São Paulo", "Limpeza residencial completa e organizada", 4.8, 35, 48*time.Hour),
		provider("p2", "Bruno Costa", "eletrica", "Rio de Janeiro", "Instalações e reparos elétricos", 4.2, 90, 24*time.Hour),
		provider("p3", "Carla Dias", "pintura", "São Paulo", "Pintura interna e externa", 3.9, 60, 72*time.Hour),
		provider("p4", "Diego Alves", "faxina", "Belo Horizonte", "Pós-obra e escritórios", 4.5, 40, time.Hour),
		provider("p5", "Elisa Prado", "jardinagem", "São Paulo", "Poda e paisagismo", 5.0, 80, 12*time.Hour),
	}
}

func ids(items []dto.ProviderResponse) []string {
	out := make([]string, 0, len(items))
	for _, p := range items {
		out = append(out, p.ID)
	}
	return out
}

func TestProviders_SynonymMatchesCategory(t *testing.T) {
	got := Providers(fixtures(), Criteria{Query: "faxineira"})
	assert.Equal(t, []string{"p1", "p4"}, ids(got))
	for _, p := range got {
		assert.NotContains(t, p.FullName+p.Description+p.Category.Slug, "faxineira")
	}
}

func TestProviders_TextMatchesNameDescriptionCategory(t *testing.T) {
	assert.Equal(t, []string{"p2"}, ids(Providers(fixtures(), Criteria{Query: "bruno"})))
	assert.Equal(t, []string{"p5"}, ids(Providers(fixtures(), Criteria{Query: "PAISAGISMO"})))
	assert.Equal(t, []string{"p2"}, ids(Providers(fixtures(), Criteria{Query: "eletrica"})))
	assert.Equal(t, []string{"p3"}, ids(Providers(fixtures(), Criteria{Query: "pintor"})))
}

func TestProviders_BlankQueryKeepsEverything(t *testing.T) {
	assert.Len(t, Providers(fixtures(), Criteria{Query: "   "}), 5)
	assert.Len(t, Providers(fixtures(), Criteria{}), 5)
}

func TestProviders_MediumPriceRange(t *testing.T) {
	got := Providers(fixtures(), Criteria{Price: "medium"})
	require.NotEmpty(t, got)
	assert.Equal(t, []string{"p3", "p4", "p5"}, ids(got))
	for _, p := range got {
		assert.GreaterOrEqual(t, p.RatePerHour, 40.0)
		assert.LessOrEqual(t, p.RatePerHour, 80.0)
	}
}

func TestProviders_LowAndHighPriceRanges(t *testing.T) {
	assert.Equal(t, []string{"p1"}, ids(Providers(fixtures(), Criteria{Price: "low"})))
	assert.Equal(t, []string{"p2"}, ids(Providers(fixtures(), Criteria{Price: "high"})))
}

func TestProviders_LocationAndRating(t *testing.T) {
	assert.Equal(t, []string{"p1", "p3", "p5"}, ids(Providers(fixtures(), Criteria{Location: "sao-paulo"})))
	assert.Equal(t, []string{"p1", "p2", "p4", "p5"}, ids(Providers(fixtures(), Criteria{Rating: "4+"})))
	assert.Equal(t, []string{"p1", "p5"}, ids(Providers(fixtures(), Criteria{Location: "sao-paulo", Rating: "4.5+"})))
}

func TestProviders_UnknownFiltersAreNoOps(t *testing.T) {
	all := ids(fixtures())
	for _, c := range []Criteria{
		{Location: "atlantis"},
		{Location: "all"},
		{Rating: "abc+"},
		{Rating: "9+"},
		{Rating: "all"},
		{Price: "cheapest"},
		{Price: "all"},
		{Sort: "random"},
	} {
		assert.Equal(t, all, ids(Providers(fixtures(), c)), "criteria %+v", c)
	}
}

func TestProviders_Sorting(t *testing.T) {
	assert.Equal(t, []string{"p5", "p1", "p4", "p2", "p3"}, ids(Providers(fixtures(), Criteria{Sort: "rating"})))
	assert.Equal(t, []string{"p4", "p5", "p2", "p1", "p3"}, ids(Providers(fixtures(), Criteria{Sort: "recent"})))
	assert.Equal(t, []string{"p1", "p2", "p3", "p4", "p5"}, ids(Providers(fixtures(), Criteria{Sort: "relevance"})))
}

func TestProviders_Idempotent(t *testing.T) {
	c := Criteria{Query: "faxina", Location: "sao-paulo", Rating: "4+", Price: "low", Sort: "rating"}
	once := Providers(fixtures(), c)
	twice := Providers(once, c)
	assert.Equal(t, once, twice)
	assert.Equal(t, once, Providers(fixtures(), c))
}

func TestProviders_LocationAndRatingCommute(t *testing.T) {
	for _, loc := range []string{"sao-paulo", "rio-de-janeiro", "belo-horizonte", "all"} {
		for _, rating := range []string{"3+", "4+", "4.5+", "5+", "all"} {
			a := FilterByRating(FilterByLocation(fixtures(), loc), rating)
			b := FilterByLocation(FilterByRating(fixtures(), rating), loc)
			assert.Equal(t, ids(a), ids(b), "location %s rating %s", loc, rating)
		}
	}
}

func TestProviders_DoesNotMutateInput(t *testing.T) {
	in := fixtures()
	_ = Providers(in, Criteria{Sort: "rating", Price: "medium"})
	assert.Equal(t, ids(fixtures()), ids(in))
}

func TestRequests_Pipeline(t *testing.T) {
	items := []dto.ServiceRequestResponse{
		{ID: "r1", Title: "Pintura de sala", Category: "pintura", CategoryName: "Pintura", City: "São Paulo", CreatedAt: base.Add(-time.Hour)},
		{ID: "r2", Title: "Limpeza pós mudança", Category: "faxina", CategoryName: "Faxina", City: "Curitiba", CreatedAt: base},
		{ID: "r3", Title: "Trocar tomadas", Category: "eletrica", CategoryName: "Elétrica", City: "são paulo", CreatedAt: base.Add(-2 * time.Hour)},
	}
	reqIDs := func(rs []dto.ServiceRequestResponse) []string {
		out := []string{}
		for _, r := range rs {
			out = append(out, r.ID)
		}
		return out
	}

	assert.Equal(t, []string{"r2"}, reqIDs(Requests(items, RequestCriteria{Query: "diarista"})))
	assert.Equal(t, []string{"r1", "r3"}, reqIDs(Requests(items, RequestCriteria{City: "São Paulo"})))
	assert.Equal(t, []string{"r3"}, reqIDs(Requests(items, RequestCriteria{Category: "eletrica"})))
	assert.Equal(t, []string{"r2", "r1", "r3"}, reqIDs(Requests(items, RequestCriteria{Sort: "recent"})))
	assert.Equal(t, []string{"r1", "r2", "r3"}, reqIDs(Requests(items, RequestCriteria{Category: "all", City: "all"})))
}
