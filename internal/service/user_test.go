package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Deba1597/backendProject/internal/auth"
	"github.com/Deba1597/backendProject/internal/domain"
	apperrors "github.com/Deba1597/backendProject/internal/errors"
	"github.com/Deba1597/backendProject/internal/storage"
	"github.com/Deba1597/backendProject/internal/storage/memory"
)

const (
	accessTestTTL  = 15 * time.Minute
	refreshTestTTL = 240 * time.Hour
)

// fakeUserRepo is an in-memory repository with error injection, so session
// lifecycle chains can be exercised against real stored state.
type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User

	failCreate             error
	failGetByID            error
	failUpdateRefreshToken error
	failClearRefreshToken  error
	refreshTokenWrites     int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*domain.User)}
}

func (f *fakeUserRepo) Create(_ context.Context, u *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failCreate != nil {
		return f.failCreate
	}
	for _, existing := range f.users {
		if existing.Username == u.Username || existing.Email == u.Email {
			return apperrors.AlreadyExists("user", "username or email", u.Username)
		}
	}
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failGetByID != nil {
		return nil, f.failGetByID
	}
	u, ok := f.users[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) GetByIdentifier(_ context.Context, identifier string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Username == identifier || u.Email == identifier {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (f *fakeUserRepo) ExistsByUsernameOrEmail(_ context.Context, username, email string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Username == username || u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserRepo) UpdateProfile(_ context.Context, u *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.users[u.ID]
	if !ok {
		return apperrors.NotFound("user", u.ID)
	}
	stored.FullName = u.FullName
	stored.Email = u.Email
	stored.UpdatedAt = u.UpdatedAt
	return nil
}

func (f *fakeUserRepo) UpdateAvatar(_ context.Context, id, avatarURL string) error {
	return f.setField(id, func(u *domain.User) { u.AvatarURL = avatarURL })
}

func (f *fakeUserRepo) UpdateCoverImage(_ context.Context, id, coverImageURL string) error {
	return f.setField(id, func(u *domain.User) { u.CoverImageURL = coverImageURL })
}

func (f *fakeUserRepo) UpdatePassword(_ context.Context, id, passwordHash string) error {
	return f.setField(id, func(u *domain.User) { u.PasswordHash = passwordHash })
}

func (f *fakeUserRepo) UpdateRefreshToken(_ context.Context, id, token string) error {
	f.mu.Lock()
	if err := f.failUpdateRefreshToken; err != nil {
		f.mu.Unlock()
		return err
	}
	f.mu.Unlock()
	if err := f.setField(id, func(u *domain.User) { u.RefreshToken = token }); err != nil {
		return err
	}
	f.mu.Lock()
	f.refreshTokenWrites++
	f.mu.Unlock()
	return nil
}

func (f *fakeUserRepo) ClearRefreshToken(_ context.Context, id string) error {
	f.mu.Lock()
	if err := f.failClearRefreshToken; err != nil {
		f.mu.Unlock()
		return err
	}
	f.mu.Unlock()
	return f.setField(id, func(u *domain.User) { u.RefreshToken = "" })
}

func (f *fakeUserRepo) setField(id string, set func(*domain.User)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return apperrors.NotFound("user", id)
	}
	set(u)
	return nil
}

func (f *fakeUserRepo) storedToken(id string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		return u.RefreshToken
	}
	return ""
}

// capturePublisher records published events; Publish never fails unless told to.
type capturePublisher struct {
	mu         sync.Mutex
	registered []string
	updated    []string
	fail       error
}

func (p *capturePublisher) PublishUserRegistered(_ context.Context, u *domain.User) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail != nil {
		return p.fail
	}
	p.registered = append(p.registered, u.ID)
	return nil
}

func (p *capturePublisher) PublishUserUpdated(_ context.Context, u *domain.User) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail != nil {
		return p.fail
	}
	p.updated = append(p.updated, u.ID)
	return nil
}

type testFixture struct {
	svc    *UserService
	repo   *fakeUserRepo
	store  *memory.Store
	events *capturePublisher
	tokens *auth.TokenManager
}

func newTestFixture(t *testing.T) *testFixture {
	t.Helper()
	repo := newFakeUserRepo()
	store := memory.New("http://localhost:8000/media")
	events := &capturePublisher{}
	tokens := auth.NewTokenManager(
		"test-access-secret-0123456789abcdef",
		"test-refresh-secret-0123456789abcdef",
		accessTestTTL, refreshTestTTL,
	)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return &testFixture{
		svc:    NewUserService(repo, tokens, store, events, logger),
		repo:   repo,
		store:  store,
		events: events,
		tokens: tokens,
	}
}

func avatarFile() *storage.UploadInput {
	return &storage.UploadInput{
		Filename:    "avatar.png",
		ContentType: "image/png",
		Content:     strings.NewReader("avatar-bytes"),
	}
}

func coverFile() *storage.UploadInput {
	return &storage.UploadInput{
		Filename:    "cover.jpg",
		ContentType: "image/jpeg",
		Content:     strings.NewReader("cover-bytes"),
	}
}

func validRegisterInput() RegisterInput {
	return RegisterInput{
		Username: "chaiaurcode",
		Email:    "chai@example.com",
		FullName: "Chai Aur Code",
		Password: "Sup3rSecret",
		Avatar:   avatarFile(),
	}
}

func registerUser(t *testing.T, f *testFixture) *domain.User {
	t.Helper()
	user, pair, err := f.svc.Register(context.Background(), validRegisterInput())
	require.NoError(t, err)
	require.NotNil(t, pair)
	return user
}

// --- Register ---

func TestRegister_Success(t *testing.T) {
	f := newTestFixture(t)

	in := validRegisterInput()
	in.CoverImage = coverFile()

	user, pair, err := f.svc.Register(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, "chaiaurcode", user.Username)
	assert.NotEmpty(t, user.AvatarURL)
	assert.NotEmpty(t, user.CoverImageURL)
	assert.NotEqual(t, "Sup3rSecret", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("Sup3rSecret")))

	// Registration starts a session through the same issuer path as login.
	require.NotNil(t, pair)
	assert.Equal(t, pair.RefreshToken, f.repo.storedToken(user.ID))

	assert.Equal(t, []string{user.ID}, f.events.registered)
	assert.Equal(t, 2, f.store.Len())
}

func TestRegister_UppercaseUsernameStoredLowercase(t *testing.T) {
	f := newTestFixture(t)

	in := validRegisterInput()
	in.Username = "ChaiAurCode"

	user, _, err := f.svc.Register(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "chaiaurcode", user.Username)
}

func TestRegister_MissingFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*RegisterInput)
	}{
		{"blank username", func(in *RegisterInput) { in.Username = "  " }},
		{"blank email", func(in *RegisterInput) { in.Email = "" }},
		{"invalid email", func(in *RegisterInput) { in.Email = "not-an-email" }},
		{"blank full name", func(in *RegisterInput) { in.FullName = "" }},
		{"blank password", func(in *RegisterInput) { in.Password = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newTestFixture(t)
			in := validRegisterInput()
			tt.mutate(&in)

			_, _, err := f.svc.Register(context.Background(), in)
			require.Error(t, err)
			assert.Equal(t, 400, apperrors.HTTPStatus(err))
		})
	}
}

func TestRegister_MissingAvatar(t *testing.T) {
	f := newTestFixture(t)

	in := validRegisterInput()
	in.Avatar = nil

	_, _, err := f.svc.Register(context.Background(), in)
	require.Error(t, err)
	assert.Equal(t, 400, apperrors.HTTPStatus(err))
	assert.Contains(t, err.Error(), "avatar")
}

func TestRegister_DuplicateUsername(t *testing.T) {
	f := newTestFixture(t)
	registerUser(t, f)

	in := validRegisterInput()
	in.Email = "other@example.com" // same username

	_, _, err := f.svc.Register(context.Background(), in)
	require.Error(t, err)
	assert.Equal(t, 409, apperrors.HTTPStatus(err))
}

func TestRegister_WeakPassword(t *testing.T) {
	f := newTestFixture(t)

	in := validRegisterInput()
	in.Password = "alllowercase"

	_, _, err := f.svc.Register(context.Background(), in)
	require.Error(t, err)
	assert.Equal(t, 400, apperrors.HTTPStatus(err))
}

func TestRegister_CreateFailureCleansUpAllUploads(t *testing.T) {
	// When the insert fails after the files landed in the blob store, both
	// the avatar and the cover image must be removed, not just the avatar.
	f := newTestFixture(t)
	f.repo.failCreate = apperrors.AlreadyExists("user", "username or email", "chaiaurcode")

	in := validRegisterInput()
	in.CoverImage = coverFile()

	_, _, err := f.svc.Register(context.Background(), in)
	require.Error(t, err)
	assert.Equal(t, 0, f.store.Len())
}

func TestRegister_EventPublishFailureDoesNotFailRequest(t *testing.T) {
	f := newTestFixture(t)
	f.events.fail = errors.New("broker down")

	_, pair, err := f.svc.Register(context.Background(), validRegisterInput())
	require.NoError(t, err)
	assert.NotNil(t, pair)
}

// --- Login ---

func TestLogin_ByUsernameAndByEmail(t *testing.T) {
	f := newTestFixture(t)
	u := registerUser(t, f)

	for _, identifier := range []string{"chaiaurcode", "chai@example.com"} {
		user, pair, err := f.svc.Login(context.Background(), LoginInput{
			Identifier: identifier,
			Password:   "Sup3rSecret",
		})
		require.NoError(t, err, "identifier %q", identifier)
		assert.Equal(t, u.ID, user.ID)

		// The returned renewal token is exactly the stored credential.
		assert.Equal(t, pair.RefreshToken, f.repo.storedToken(u.ID))
	}
}

func TestLogin_MissingIdentifierFailsBeforeLookup(t *testing.T) {
	f := newTestFixture(t)

	_, _, err := f.svc.Login(context.Background(), LoginInput{Identifier: "  ", Password: "x"})
	require.Error(t, err)
	assert.Equal(t, 400, apperrors.HTTPStatus(err))
}

func TestLogin_UnknownUser(t *testing.T) {
	f := newTestFixture(t)

	_, _, err := f.svc.Login(context.Background(), LoginInput{
		Identifier: "nobody",
		Password:   "Sup3rSecret",
	})
	require.Error(t, err)
	assert.Equal(t, 404, apperrors.HTTPStatus(err))
}

func TestLogin_WrongPasswordNoIssuance(t *testing.T) {
	f := newTestFixture(t)
	u := registerUser(t, f)
	writesBefore := f.repo.refreshTokenWrites
	tokenBefore := f.repo.storedToken(u.ID)

	_, _, err := f.svc.Login(context.Background(), LoginInput{
		Identifier: "chaiaurcode",
		Password:   "WrongPass1",
	})
	require.Error(t, err)
	assert.Equal(t, 401, apperrors.HTTPStatus(err))

	// No tokens minted and the stored credential did not change.
	assert.Equal(t, writesBefore, f.repo.refreshTokenWrites)
	assert.Equal(t, tokenBefore, f.repo.storedToken(u.ID))
}

func TestLogin_SupersedesPreviousSession(t *testing.T) {
	f := newTestFixture(t)
	u := registerUser(t, f)

	_, first, err := f.svc.Login(context.Background(), LoginInput{Identifier: "chaiaurcode", Password: "Sup3rSecret"})
	require.NoError(t, err)
	_, second, err := f.svc.Login(context.Background(), LoginInput{Identifier: "chaiaurcode", Password: "Sup3rSecret"})
	require.NoError(t, err)

	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)
	assert.Equal(t, second.RefreshToken, f.repo.storedToken(u.ID))

	// The first session's renewal token is now stale.
	_, err = f.svc.Refresh(context.Background(), first.RefreshToken)
	require.Error(t, err)
	assert.Equal(t, 401, apperrors.HTTPStatus(err))
}

func TestLogin_IssuanceFailureIsInternal(t *testing.T) {
	f := newTestFixture(t)
	u := registerUser(t, f)
	f.repo.failUpdateRefreshToken = errors.New("disk full")

	_, _, err := f.svc.Login(context.Background(), LoginInput{
		Identifier: u.Email,
		Password:   "Sup3rSecret",
	})
	require.Error(t, err)
	assert.Equal(t, 500, apperrors.HTTPStatus(err))
	assert.NotContains(t, err.Error(), "Sup3rSecret")
}

// --- Refresh ---

func TestRefresh_RotatesCredential(t *testing.T) {
	f := newTestFixture(t)
	u := registerUser(t, f)

	_, pair, err := f.svc.Login(context.Background(), LoginInput{Identifier: u.Username, Password: "Sup3rSecret"})
	require.NoError(t, err)

	renewed, err := f.svc.Refresh(context.Background(), pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, pair.RefreshToken, renewed.RefreshToken)
	assert.Equal(t, renewed.RefreshToken, f.repo.storedToken(u.ID))

	// The redeemed token is invalidated immediately.
	_, err = f.svc.Refresh(context.Background(), pair.RefreshToken)
	require.Error(t, err)
	assert.Equal(t, 401, apperrors.HTTPStatus(err))
	assert.Contains(t, err.Error(), "stale")

	// The fresh one keeps working.
	_, err = f.svc.Refresh(context.Background(), renewed.RefreshToken)
	assert.NoError(t, err)
}

func TestRefresh_EmptyToken(t *testing.T) {
	f := newTestFixture(t)

	_, err := f.svc.Refresh(context.Background(), "")
	require.Error(t, err)
	assert.Equal(t, 401, apperrors.HTTPStatus(err))
}

func TestRefresh_GarbageTokenNoMutation(t *testing.T) {
	f := newTestFixture(t)
	u := registerUser(t, f)
	tokenBefore := f.repo.storedToken(u.ID)

	_, err := f.svc.Refresh(context.Background(), "not.a.jwt")
	require.Error(t, err)
	assert.Equal(t, 401, apperrors.HTTPStatus(err))
	assert.Equal(t, tokenBefore, f.repo.storedToken(u.ID))
}

func TestRefresh_AccessTokenRejected(t *testing.T) {
	// An access token is signed with the other secret, so presenting it for
	// renewal must fail verification.
	f := newTestFixture(t)
	u := registerUser(t, f)

	accessToken, err := f.tokens.GenerateAccessToken(u.ID, u.Username, u.Email)
	require.NoError(t, err)

	_, err = f.svc.Refresh(context.Background(), accessToken)
	require.Error(t, err)
	assert.Equal(t, 401, apperrors.HTTPStatus(err))
}

func TestRefresh_UnknownSubject(t *testing.T) {
	f := newTestFixture(t)

	token, err := f.tokens.GenerateRefreshToken("ghost-user")
	require.NoError(t, err)

	_, err = f.svc.Refresh(context.Background(), token)
	require.Error(t, err)
	assert.Equal(t, 401, apperrors.HTTPStatus(err))
}

func TestRefresh_StoreFailureIsInternalNotUnauthorized(t *testing.T) {
	// A transient store outage during the subject lookup must surface as a
	// retryable 500, not a 401 that makes clients drop a valid session.
	f := newTestFixture(t)
	u := registerUser(t, f)
	stored := f.repo.storedToken(u.ID)

	f.repo.failGetByID = errors.New("pg: connection refused")

	_, err := f.svc.Refresh(context.Background(), stored)
	require.Error(t, err)
	assert.Equal(t, 500, apperrors.HTTPStatus(err))

	// The credential is untouched and renews fine once the store is back.
	f.repo.failGetByID = nil
	assert.Equal(t, stored, f.repo.storedToken(u.ID))
	_, err = f.svc.Refresh(context.Background(), stored)
	assert.NoError(t, err)
}

func TestRefresh_ValidJWTButNotStored(t *testing.T) {
	// A correctly signed token that does not byte-match the stored value is
	// stale, even though its signature verifies.
	f := newTestFixture(t)
	u := registerUser(t, f)

	forged, err := f.tokens.GenerateRefreshToken(u.ID)
	require.NoError(t, err)
	require.NotEqual(t, forged, f.repo.storedToken(u.ID))

	_, err = f.svc.Refresh(context.Background(), forged)
	require.Error(t, err)
	assert.Equal(t, 401, apperrors.HTTPStatus(err))
	assert.Contains(t, err.Error(), "stale")
}

func TestRefresh_FullLifecycleChain(t *testing.T) {
	// register -> login -> renew(R1)=ok(R2) -> renew(R1)=stale -> renew(R2)=ok
	f := newTestFixture(t)
	u := registerUser(t, f)

	_, login, err := f.svc.Login(context.Background(), LoginInput{Identifier: u.Username, Password: "Sup3rSecret"})
	require.NoError(t, err)
	r1 := login.RefreshToken

	renewed, err := f.svc.Refresh(context.Background(), r1)
	require.NoError(t, err)
	r2 := renewed.RefreshToken

	_, err = f.svc.Refresh(context.Background(), r1)
	require.Error(t, err, "redeemed token must be stale")

	_, err = f.svc.Refresh(context.Background(), r2)
	require.NoError(t, err, "current token must renew")
}

func TestRefresh_ConcurrentRedeemsLeaveOneValidCredential(t *testing.T) {
	// Two racing redeems of the same token are last-writer-wins: whatever
	// the interleaving, exactly one credential remains redeemable afterwards
	// and the presented token is dead.
	f := newTestFixture(t)
	u := registerUser(t, f)
	presented := f.repo.storedToken(u.ID)

	var wg sync.WaitGroup
	pairs := make([]*domain.TokenPair, 2)
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			pairs[i], errs[i] = f.svc.Refresh(context.Background(), presented)
		}(i)
	}
	wg.Wait()

	// At least one redeem wins; a loser fails with a 401-class error.
	successes := 0
	for i := range errs {
		if errs[i] == nil {
			successes++
		} else {
			assert.Equal(t, 401, apperrors.HTTPStatus(errs[i]))
		}
	}
	require.GreaterOrEqual(t, successes, 1)

	// The presented token was rotated away.
	_, err := f.svc.Refresh(context.Background(), presented)
	require.Error(t, err)

	// Only the pair matching the stored credential is still redeemable.
	stored := f.repo.storedToken(u.ID)
	valid := 0
	for i := range pairs {
		if errs[i] == nil && pairs[i].RefreshToken == stored {
			valid++
		}
	}
	assert.Equal(t, 1, valid)
}

// --- Logout ---

func TestLogout_InvalidatesSession(t *testing.T) {
	f := newTestFixture(t)
	u := registerUser(t, f)

	_, pair, err := f.svc.Login(context.Background(), LoginInput{Identifier: u.Username, Password: "Sup3rSecret"})
	require.NoError(t, err)

	require.NoError(t, f.svc.Logout(context.Background(), u.ID))
	assert.Empty(t, f.repo.storedToken(u.ID))

	_, err = f.svc.Refresh(context.Background(), pair.RefreshToken)
	require.Error(t, err)
	assert.Equal(t, 401, apperrors.HTTPStatus(err))
}

// --- ChangePassword ---

func TestChangePassword_Success(t *testing.T) {
	f := newTestFixture(t)
	u := registerUser(t, f)

	err := f.svc.ChangePassword(context.Background(), u.ID, "Sup3rSecret", "N3wSecret99")
	require.NoError(t, err)

	// Old sessions are ended.
	assert.Empty(t, f.repo.storedToken(u.ID))

	_, _, err = f.svc.Login(context.Background(), LoginInput{Identifier: u.Username, Password: "N3wSecret99"})
	assert.NoError(t, err)
	_, _, err = f.svc.Login(context.Background(), LoginInput{Identifier: u.Username, Password: "Sup3rSecret"})
	assert.Error(t, err)
}

func TestChangePassword_WrongCurrent(t *testing.T) {
	f := newTestFixture(t)
	u := registerUser(t, f)

	err := f.svc.ChangePassword(context.Background(), u.ID, "WrongPass1", "N3wSecret99")
	require.Error(t, err)
	assert.Equal(t, 401, apperrors.HTTPStatus(err))
}

func TestChangePassword_WeakNewPassword(t *testing.T) {
	f := newTestFixture(t)
	u := registerUser(t, f)

	err := f.svc.ChangePassword(context.Background(), u.ID, "Sup3rSecret", "short")
	require.Error(t, err)
	assert.Equal(t, 400, apperrors.HTTPStatus(err))
}

func TestChangePassword_ClearTokenFailureSurfaces(t *testing.T) {
	// If ending other sessions fails, the caller must hear about it even
	// though the new hash is already stored.
	f := newTestFixture(t)
	u := registerUser(t, f)
	f.repo.failClearRefreshToken = errors.New("pg: connection refused")

	err := f.svc.ChangePassword(context.Background(), u.ID, "Sup3rSecret", "N3wSecret99")
	require.Error(t, err)
	assert.Equal(t, 500, apperrors.HTTPStatus(err))

	// The password write already landed.
	f.repo.failClearRefreshToken = nil
	_, _, err = f.svc.Login(context.Background(), LoginInput{Identifier: u.Username, Password: "N3wSecret99"})
	assert.NoError(t, err)
}

// --- Profile ---

func TestUpdateProfile(t *testing.T) {
	f := newTestFixture(t)
	u := registerUser(t, f)

	newName := "Chai Reloaded"
	updated, err := f.svc.UpdateProfile(context.Background(), u.ID, UpdateProfileInput{FullName: &newName})
	require.NoError(t, err)
	assert.Equal(t, "Chai Reloaded", updated.FullName)
	assert.Contains(t, f.events.updated, u.ID)
}

func TestUpdateProfile_NoFields(t *testing.T) {
	f := newTestFixture(t)
	u := registerUser(t, f)

	_, err := f.svc.UpdateProfile(context.Background(), u.ID, UpdateProfileInput{})
	require.Error(t, err)
	assert.Equal(t, 400, apperrors.HTTPStatus(err))
}

func TestUpdateAvatar(t *testing.T) {
	f := newTestFixture(t)
	u := registerUser(t, f)
	oldURL := u.AvatarURL

	updated, err := f.svc.UpdateAvatar(context.Background(), u.ID, *avatarFile())
	require.NoError(t, err)
	assert.NotEqual(t, oldURL, updated.AvatarURL)

	stored, err := f.repo.GetByID(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, updated.AvatarURL, stored.AvatarURL)
}

func TestGetProfile(t *testing.T) {
	f := newTestFixture(t)
	u := registerUser(t, f)

	got, err := f.svc.GetProfile(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.Username, got.Username)
}
