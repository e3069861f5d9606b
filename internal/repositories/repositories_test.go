package repositories

import (
	"testing"
	"time"

	"chamaai_backend/internal/models"
	"chamaai_backend/test/testdb"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestUserRepository_EmailIsCaseInsensitive(t *testing.T) {
	db := testdb.New(t)
	repo := NewUserRepository()

	require.NoError(t, repo.Create(db, &models.User{Email: "Ana@Example.com", PasswordHash: "x"}))

	user, err := repo.FindByEmail(db, "ANA@example.COM")
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", user.Email)

	exists, err := repo.EmailExists(db, " ana@EXAMPLE.com ")
	require.NoError(t, err)
	assert.True(t, exists)

	err = repo.Create(db, &models.User{Email: "ana@example.com", PasswordHash: "y"})
	assert.ErrorIs(t, err, ErrDuplicate)

	_, err = repo.FindByEmail(db, "nobody@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserRepository_Verification(t *testing.T) {
	db := testdb.New(t)
	repo := NewUserRepository()
	user := &models.User{Email: "bia@example.com", PasswordHash: "x"}
	require.NoError(t, repo.Create(db, user))

	require.NoError(t, repo.SetVerificationToken(db, user.ID, "tok", time.Now().UTC()))
	found, err := repo.FindByVerificationToken(db, "tok")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)

	require.NoError(t, repo.MarkEmailVerified(db, user.ID))
	found, err = repo.FindByID(db, user.ID)
	require.NoError(t, err)
	assert.True(t, found.EmailVerified)
	assert.Nil(t, found.VerificationToken)

	_, err = repo.FindByVerificationToken(db, "tok")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestProfileRepository_PhoneTaken(t *testing.T) {
	db := testdb.New(t)
	repo := NewProfileRepository()
	_, ana := testdb.CreateUser(t, db, "Ana Souza", "ana@example.com")
	_, bia := testdb.CreateUser(t, db, "Bia Lima", "bia@example.com")

	require.NoError(t, repo.Update(db, ana.ID, map[string]interface{}{"phone": "(11) 98765-4321"}))

	taken, err := repo.PhoneTaken(db, "(11) 98765-4321", bia.ID)
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = repo.PhoneTaken(db, "(11) 98765-4321", ana.ID)
	require.NoError(t, err)
	assert.False(t, taken)

	err = repo.Update(db, bia.ID, map[string]interface{}{"phone": "(11) 98765-4321"})
	assert.ErrorIs(t, err, ErrDuplicate)

	err = repo.Update(db, "00000000-0000-0000-0000-000000000000", map[string]interface{}{"city": "Recife"})
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestProviderRepository_SearchServiceProviders(t *testing.T) {
	db := testdb.New(t)
	repo := NewProviderRepository()

	_, p1 := testdb.CreateProvider(t, db, "Maria Faxineira", "maria@example.com", testdb.ProviderOpts{Category: "faxina", Rating: 4.2})
	_, p2 := testdb.CreateProvider(t, db, "João Eletricista", "joao@example.com", testdb.ProviderOpts{
		Category: "eletrica", Rating: 4.9, Description: "Instalações elétricas e troca de disjuntores em geral.",
	})
	_, p3 := testdb.CreateProvider(t, db, "Carla Santos", "carla@example.com", testdb.ProviderOpts{
		Category: "faxina", Rating: 4.9, Description: "Limpeza pós-obra e faxina pesada em apartamentos.",
	})
	require.NoError(t, repo.UpdateRatingStats(db, p3.ID, 4.9, 10))

	found, err := repo.SearchServiceProviders(db, "FAXINA")
	require.NoError(t, err)
	require.Len(t, found, 2)
	// рейтинг, затем количество отзывов
	assert.Equal(t, p3.ID, found[0].ID)
	assert.Equal(t, p1.ID, found[1].ID)
	assert.Equal(t, "Carla Santos", found[0].Profile.FullName)

	found, err = repo.SearchServiceProviders(db, "disjuntores")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, p2.ID, found[0].ID)

	all, err := repo.SearchServiceProviders(db, "  ")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestProviderRepository_Counters(t *testing.T) {
	db := testdb.New(t)
	repo := NewProviderRepository()
	_, p := testdb.CreateProvider(t, db, "Paulo Pintor", "paulo@example.com", testdb.ProviderOpts{Category: "pintura"})

	require.NoError(t, repo.IncrementServicesCompleted(db, p.ID))
	require.NoError(t, repo.IncrementServicesCompleted(db, p.ID))

	got, err := repo.FindByID(db, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.ServicesCompleted)
	assert.Equal(t, "pintura", got.Category.Slug)

	assert.ErrorIs(t, repo.IncrementServicesCompleted(db, "missing"), ErrProviderNotFound)

	list, err := repo.List(db, ProviderFilter{CategoryID: testdb.Category(t, db, "eletrica").ID})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestRequestRepository_ConditionalTransition(t *testing.T) {
	db := testdb.New(t)
	repo := NewRequestRepository()
	client, _ := testdb.CreateUser(t, db, "Ana Souza", "ana@example.com")
	req := testdb.CreateRequest(t, db, client.ID, "Faxina completa", testdb.RequestOpts{})

	rows, err := repo.UpdateStatus(db, req.ID, models.RequestStatusPending, models.RequestStatusInProgress, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 1, rows)

	// второй раз из pending уже не выйдет
	rows, err = repo.UpdateStatus(db, req.ID, models.RequestStatusPending, models.RequestStatusCancelled, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 0, rows)

	got, err := repo.FindByID(db, req.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RequestStatusInProgress, got.Status)
}

func TestRequestRepository_FindByIDForUpdate(t *testing.T) {
	db := testdb.New(t)
	repo := NewRequestRepository()
	client, _ := testdb.CreateUser(t, db, "Ana Souza", "ana@example.com")
	req := testdb.CreateRequest(t, db, client.ID, "Pintura da sala", testdb.RequestOpts{})

	err := db.Transaction(func(tx *gorm.DB) error {
		got, err := repo.FindByIDForUpdate(tx, req.ID)
		require.NoError(t, err)
		assert.Equal(t, req.ID, got.ID)
		assert.NotEmpty(t, got.Category.ID)

		_, err = repo.FindByIDForUpdate(tx, "missing")
		assert.ErrorIs(t, err, ErrRequestNotFound)
		return nil
	})
	require.NoError(t, err)
}

func TestRequestRepository_ListOpenVisibility(t *testing.T) {
	db := testdb.New(t)
	repo := NewRequestRepository()
	client, _ := testdb.CreateUser(t, db, "Ana Souza", "ana@example.com")
	_, target := testdb.CreateProvider(t, db, "Bruno Lima", "bruno@example.com", testdb.ProviderOpts{})
	_, other := testdb.CreateProvider(t, db, "Carla Dias", "carla@example.com", testdb.ProviderOpts{})

	public := testdb.CreateRequest(t, db, client.ID, "Pública", testdb.RequestOpts{})
	private := testdb.CreateRequest(t, db, client.ID, "Privada", testdb.RequestOpts{TargetProviderID: target.ID})
	testdb.CreateRequest(t, db, client.ID, "Concluída", testdb.RequestOpts{Status: models.RequestStatusCompleted})

	list, err := repo.ListOpen(db, RequestFilter{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, public.ID, list[0].ID)

	list, err = repo.ListOpen(db, RequestFilter{ViewerProviderID: target.ID})
	require.NoError(t, err)
	assert.Len(t, list, 2)
	ids := []string{list[0].ID, list[1].ID}
	assert.Contains(t, ids, private.ID)

	list, err = repo.ListOpen(db, RequestFilter{ViewerProviderID: other.ID})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	mine, err := repo.ListByClient(db, client.ID, "")
	require.NoError(t, err)
	assert.Len(t, mine, 3)
}

func TestRequestRepository_CancelStalePending(t *testing.T) {
	db := testdb.New(t)
	repo := NewRequestRepository()
	proposals := NewProposalRepository()
	client, _ := testdb.CreateUser(t, db, "Ana Souza", "ana@example.com")
	_, provider := testdb.CreateProvider(t, db, "Bruno Lima", "bruno@example.com", testdb.ProviderOpts{})

	now := time.Now().UTC()
	stale := testdb.CreateRequest(t, db, client.ID, "Antiga", testdb.RequestOpts{ScheduledDate: now.Add(-10 * 24 * time.Hour)})
	fresh := testdb.CreateRequest(t, db, client.ID, "Nova", testdb.RequestOpts{ScheduledDate: now.Add(24 * time.Hour)})
	staleProposal := testdb.CreateProposal(t, db, stale.ID, provider.ID, 100)
	freshProposal := testdb.CreateProposal(t, db, fresh.ID, provider.ID, 100)

	rows, err := repo.CancelStalePending(db, now.Add(-72*time.Hour), now)
	require.NoError(t, err)
	assert.EqualValues(t, 1, rows)

	rejected, err := proposals.RejectPendingForCancelledRequests(db)
	require.NoError(t, err)
	assert.EqualValues(t, 1, rejected)

	got, _ := proposals.FindByID(db, staleProposal.ID)
	assert.Equal(t, models.ProposalStatusRejected, got.Status)
	got, _ = proposals.FindByID(db, freshProposal.ID)
	assert.Equal(t, models.ProposalStatusPending, got.Status)
}

func TestProposalRepository_UniqueAndSiblings(t *testing.T) {
	db := testdb.New(t)
	repo := NewProposalRepository()
	client, _ := testdb.CreateUser(t, db, "Ana Souza", "ana@example.com")
	_, p1 := testdb.CreateProvider(t, db, "Bruno Lima", "bruno@example.com", testdb.ProviderOpts{})
	_, p2 := testdb.CreateProvider(t, db, "Carla Dias", "carla@example.com", testdb.ProviderOpts{})
	_, p3 := testdb.CreateProvider(t, db, "Davi Rocha", "davi@example.com", testdb.ProviderOpts{})
	req := testdb.CreateRequest(t, db, client.ID, "Faxina", testdb.RequestOpts{})

	a := testdb.CreateProposal(t, db, req.ID, p1.ID, 120)
	b := testdb.CreateProposal(t, db, req.ID, p2.ID, 130)
	c := testdb.CreateProposal(t, db, req.ID, p3.ID, 140)

	err := repo.Create(db, &models.Proposal{RequestID: req.ID, ProviderID: p1.ID, Price: 99, Message: "de novo", Status: models.ProposalStatusPending})
	assert.ErrorIs(t, err, ErrDuplicate)

	exists, err := repo.ExistsForProvider(db, req.ID, p2.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	rows, err := repo.UpdateStatus(db, c.ID, models.ProposalStatusPending, models.ProposalStatusRejected)
	require.NoError(t, err)
	assert.EqualValues(t, 1, rows)

	rejected, err := repo.RejectSiblings(db, req.ID, a.ID)
	require.NoError(t, err)
	// c уже отклонено и не попадает в список
	assert.Equal(t, []string{b.ID}, rejected)

	list, err := repo.ListByRequest(db, req.ID)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "Bruno Lima", list[0].Provider.Profile.FullName)
}

func TestReviewRepository_RatingStats(t *testing.T) {
	db := testdb.New(t)
	repo := NewReviewRepository()
	_, provider := testdb.CreateProvider(t, db, "Bruno Lima", "bruno@example.com", testdb.ProviderOpts{})

	avg, count, err := repo.RatingStats(db, provider.ID)
	require.NoError(t, err)
	assert.Zero(t, avg)
	assert.Zero(t, count)

	for i, rating := range []int{5, 4, 4} {
		client, _ := testdb.CreateUser(t, db, "Cliente", "cliente"+string(rune('a'+i))+"@example.com")
		req := testdb.CreateRequest(t, db, client.ID, "Serviço", testdb.RequestOpts{Status: models.RequestStatusCompleted})
		require.NoError(t, repo.Create(db, &models.Review{
			ServiceProviderID: provider.ID, ReviewerID: client.ID, RequestID: req.ID, Rating: rating,
		}))
		if i == 0 {
			err := repo.Create(db, &models.Review{ServiceProviderID: provider.ID, ReviewerID: client.ID, RequestID: req.ID, Rating: 1})
			assert.ErrorIs(t, err, ErrDuplicate)
		}
	}

	avg, count, err = repo.RatingStats(db, provider.ID)
	require.NoError(t, err)
	assert.InDelta(t, 4.333, avg, 0.01)
	assert.EqualValues(t, 3, count)

	reviews, total, err := repo.FindByProvider(db, provider.ID, 2, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, reviews, 2)
	assert.Equal(t, "Cliente", reviews[0].Reviewer.FullName)
}

func TestSessionRepository(t *testing.T) {
	db := testdb.New(t)
	repo := NewSessionRepository()
	user, _ := testdb.CreateUser(t, db, "Ana Souza", "ana@example.com")
	now := time.Now().UTC()

	active := &models.AuthSession{UserID: user.ID, ExpiresAt: now.Add(time.Hour)}
	expired := &models.AuthSession{UserID: user.ID, ExpiresAt: now.Add(-time.Hour)}
	require.NoError(t, repo.Create(db, active))
	require.NoError(t, repo.Create(db, expired))

	require.NoError(t, repo.Revoke(db, active.ID, now))
	assert.ErrorIs(t, repo.Revoke(db, active.ID, now), ErrSessionNotFound)

	found, err := repo.FindByID(db, active.ID)
	require.NoError(t, err)
	assert.False(t, found.IsActive(now))

	purged, err := repo.PurgeInactive(db, now, now.Add(time.Minute))
	require.NoError(t, err)
	assert.EqualValues(t, 2, purged)

	_, err = repo.FindByID(db, active.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
