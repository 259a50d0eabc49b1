package auth

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"

	"plata/internal/models"
	"plata/internal/repositories"
	"plata/internal/services/wallet"
	"plata/internal/utils"
)

type fakeUserRepo struct {
	users  map[uint]*models.User
	nextID uint
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uint]*models.User), nextID: 1}
}

func (r *fakeUserRepo) Create(user *models.User) error {
	for _, u := range r.users {
		if u.Email == user.Email {
			return repositories.ErrEmailTaken
		}
		if u.Username == user.Username {
			return repositories.ErrUsernameTaken
		}
	}
	user.ID = r.nextID
	r.nextID++
	if user.TokenVersion == 0 {
		user.TokenVersion = 1
	}
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(id uint) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByEmail(email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) GetByUsername(username string) (*models.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) Update(user *models.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return repositories.ErrUserNotFound
	}
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) IncrementTokenVersion(userID uint) error {
	u, ok := r.users[userID]
	if !ok {
		return repositories.ErrUserNotFound
	}
	u.TokenVersion++
	return nil
}

// stubWalletService records wallet creations; nothing else is exercised
// through the auth service.
type stubWalletService struct {
	created []uint
}

func (s *stubWalletService) CreateWallet(ctx context.Context, userID uint) (*models.Wallet, error) {
	s.created = append(s.created, userID)
	return &models.Wallet{ID: uuid.New(), UserID: userID}, nil
}

func (s *stubWalletService) GetWalletByUserID(ctx context.Context, userID uint) (*models.Wallet, error) {
	return nil, repositories.ErrWalletNotFound
}

func (s *stubWalletService) GetWalletByID(ctx context.Context, walletID uuid.UUID) (*models.Wallet, error) {
	return nil, repositories.ErrWalletNotFound
}

func (s *stubWalletService) CreateTransaction(ctx context.Context, walletID uuid.UUID, req wallet.CreateTransactionRequest) (*models.Transaction, error) {
	return nil, repositories.ErrWalletNotFound
}

func (s *stubWalletService) GetTransactionsByWallet(ctx context.Context, walletID uuid.UUID) ([]models.Transaction, error) {
	return nil, repositories.ErrWalletNotFound
}

func (s *stubWalletService) ApplyExternalDebit(r repositories.WalletRepository, walletID uuid.UUID, amount float64, description, externalWalletInfo, externalReference string) (*models.Transaction, error) {
	return nil, repositories.ErrWalletNotFound
}

func validRegistration() RegisterRequest {
	return RegisterRequest{
		Email:    "ana@example.com",
		Username: "ana",
		Password: "correct horse",
	}
}

func TestRegister(t *testing.T) {
	t.Run("creates user and wallet", func(t *testing.T) {
		repo := newFakeUserRepo()
		wallets := &stubWalletService{}
		svc := NewService(repo, wallets)

		user, err := svc.Register(context.Background(), validRegistration())

		assert.NoError(t, err)
		assert.Equal(t, "ana", user.Username)
		assert.Equal(t, []uint{user.ID}, wallets.created)
		// Stored password is a hash, not the plaintext.
		assert.NotEqual(t, "correct horse", user.Password)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("correct horse")))
	})

	t.Run("invalid email", func(t *testing.T) {
		svc := NewService(newFakeUserRepo(), &stubWalletService{})
		req := validRegistration()
		req.Email = "not-an-email"
		_, err := svc.Register(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidEmail)
	})

	t.Run("weak password", func(t *testing.T) {
		svc := NewService(newFakeUserRepo(), &stubWalletService{})
		req := validRegistration()
		req.Password = "short"
		_, err := svc.Register(context.Background(), req)
		assert.ErrorIs(t, err, ErrWeakPassword)
	})

	t.Run("duplicate email", func(t *testing.T) {
		svc := NewService(newFakeUserRepo(), &stubWalletService{})
		_, err := svc.Register(context.Background(), validRegistration())
		assert.NoError(t, err)

		req := validRegistration()
		req.Username = "other"
		_, err = svc.Register(context.Background(), req)
		assert.ErrorIs(t, err, ErrEmailTaken)
	})

	t.Run("duplicate username", func(t *testing.T) {
		svc := NewService(newFakeUserRepo(), &stubWalletService{})
		_, err := svc.Register(context.Background(), validRegistration())
		assert.NoError(t, err)

		req := validRegistration()
		req.Email = "other@example.com"
		_, err = svc.Register(context.Background(), req)
		assert.ErrorIs(t, err, ErrUsernameTaken)
	})
}

func TestLogin(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	register := func(t *testing.T) (Service, *models.User) {
		t.Helper()
		svc := NewService(newFakeUserRepo(), &stubWalletService{})
		user, err := svc.Register(context.Background(), validRegistration())
		assert.NoError(t, err)
		return svc, user
	}

	t.Run("issues a parseable token", func(t *testing.T) {
		svc, user := register(t)

		got, token, err := svc.Login(context.Background(), "ana", "correct horse")

		assert.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)

		claims, err := utils.ParseToken(token)
		assert.NoError(t, err)
		assert.Equal(t, user.ID, claims.UserID)
		assert.Equal(t, "ana", claims.Username)
		assert.Equal(t, user.TokenVersion, claims.TokenVersion)
	})

	t.Run("wrong password", func(t *testing.T) {
		svc, _ := register(t)
		_, _, err := svc.Login(context.Background(), "ana", "wrong password")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown user", func(t *testing.T) {
		svc, _ := register(t)
		_, _, err := svc.Login(context.Background(), "nobody", "correct horse")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestGetUserTokenVersion(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewService(repo, &stubWalletService{})

	user, err := svc.Register(context.Background(), validRegistration())
	assert.NoError(t, err)

	version, err := svc.GetUserTokenVersion(user.ID)
	assert.NoError(t, err)
	assert.Equal(t, user.TokenVersion, version)

	assert.NoError(t, repo.IncrementTokenVersion(user.ID))
	version, err = svc.GetUserTokenVersion(user.ID)
	assert.NoError(t, err)
	assert.Equal(t, user.TokenVersion+1, version)

	_, err = svc.GetUserTokenVersion(999)
	assert.ErrorIs(t, err, repositories.ErrUserNotFound)
}
