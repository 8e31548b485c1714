package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/healthstack/lmis-facility-api/internal/application/auth"
	"github.com/healthstack/lmis-facility-api/internal/application/dto"
	"github.com/healthstack/lmis-facility-api/internal/domain"
	"github.com/healthstack/lmis-facility-api/internal/domain/entity"
	"github.com/healthstack/lmis-facility-api/internal/infrastructure/memstore"
	pkgjwt "github.com/healthstack/lmis-facility-api/pkg/jwt"
)

var jwtCfg = auth.JWTConfig{
	Secret:     "test-secret-key-for-unit-tests",
	ExpMinutes: 60,
	Issuer:     "lmis-facility-test",
}

func newUseCase() *auth.AuthUseCase {
	return auth.NewAuthUseCase(memstore.New().Users(), jwtCfg)
}

func registerRequest() dto.RegisterRequest {
	return dto.RegisterRequest{
		Username:     "farmacia",
		Password:     "contraseña-larga",
		FacilityCode: "OU-KAILAHUN",
		FacilityName: "Kailahun CHC",
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests RegisterUser
// ──────────────────────────────────────────────────────────────────────────────

func TestRegisterUser_CreaUsuarioActivo(t *testing.T) {
	uc := newUseCase()

	user, err := uc.RegisterUser(registerRequest())
	require.NoError(t, err)

	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "farmacia", user.Username)
	assert.Equal(t, "OU-KAILAHUN", user.FacilityCode)
	assert.Equal(t, entity.RoleDispenser, user.Role, "sin rol explícito el usuario nace dispenser")
	assert.Equal(t, "active", user.Status)
}

func TestRegisterUser_UsernameDuplicado(t *testing.T) {
	uc := newUseCase()
	_, err := uc.RegisterUser(registerRequest())
	require.NoError(t, err)

	_, err = uc.RegisterUser(registerRequest())
	assert.ErrorIs(t, err, domain.ErrUsernameTaken)
}

func TestRegisterUser_RespetaRolExplicito(t *testing.T) {
	uc := newUseCase()
	in := registerRequest()
	in.Role = entity.RoleAdmin

	user, err := uc.RegisterUser(in)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, user.Role)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests Login
// ──────────────────────────────────────────────────────────────────────────────

func TestLogin_TokenConClaimsDelUsuario(t *testing.T) {
	uc := newUseCase()
	_, err := uc.RegisterUser(registerRequest())
	require.NoError(t, err)

	resp, err := uc.Login(dto.LoginRequest{Username: "farmacia", Password: "contraseña-larga"})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)
	assert.Equal(t, "farmacia", resp.User.Username)

	userID, facilityCode, role, err := pkgjwt.Parse(jwtCfg.Secret, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, userID)
	assert.Equal(t, "OU-KAILAHUN", facilityCode, "el token carga el código del establecimiento")
	assert.Equal(t, entity.RoleDispenser, role)
}

func TestLogin_PasswordIncorrecta(t *testing.T) {
	uc := newUseCase()
	_, err := uc.RegisterUser(registerRequest())
	require.NoError(t, err)

	_, err = uc.Login(dto.LoginRequest{Username: "farmacia", Password: "otra"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogin_UsuarioInexistente(t *testing.T) {
	uc := newUseCase()
	_, err := uc.Login(dto.LoginRequest{Username: "nadie", Password: "x"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestLogin_UsuarioInactivo(t *testing.T) {
	store := memstore.New()
	hash, err := bcrypt.GenerateFromPassword([]byte("contraseña-larga"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, store.Users().Create(&entity.User{
		ID:           "u-1",
		Username:     "farmacia",
		PasswordHash: string(hash),
		FacilityCode: "OU-KAILAHUN",
		Role:         entity.RoleDispenser,
		Status:       "suspended",
	}))
	uc := auth.NewAuthUseCase(store.Users(), jwtCfg)

	_, err = uc.Login(dto.LoginRequest{Username: "farmacia", Password: "contraseña-larga"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests resolución de usuarios
// ──────────────────────────────────────────────────────────────────────────────

func TestGetUser_YGetUserByUsername(t *testing.T) {
	uc := newUseCase()
	created, err := uc.RegisterUser(registerRequest())
	require.NoError(t, err)

	byID, err := uc.GetUser(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "farmacia", byID.Username)

	byName, err := uc.GetUserByUsername("farmacia")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byName.ID)

	_, err = uc.GetUser("no-existe")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
	_, err = uc.GetUserByUsername("no-existe")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
