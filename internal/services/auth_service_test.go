package services

import (
	"errors"
	"testing"

	"inventory_backend/internal/models"
	"inventory_backend/internal/repositories"
)

// fakeAuthRepo is an in-memory AuthRepository for service tests.
type fakeAuthRepo struct {
	users  []models.User
	hashes map[int64]string
	nextID int64
}

func (f *fakeAuthRepo) CreateUser(_ repositories.SQLExecutor, user *models.User, hashedPassword string) (int64, error) {
	for _, u := range f.users {
		if u.Username == user.Username {
			return 0, repositories.ErrDuplicateKey
		}
	}
	f.nextID++
	user.ID = f.nextID
	user.IsActive = true
	f.users = append(f.users, *user)
	if f.hashes == nil {
		f.hashes = map[int64]string{}
	}
	f.hashes[user.ID] = hashedPassword
	return user.ID, nil
}

func (f *fakeAuthRepo) FindUserByUsername(username string) (*models.User, string, error) {
	for _, u := range f.users {
		if u.Username == username {
			user := u
			return &user, f.hashes[u.ID], nil
		}
	}
	return nil, "", repositories.ErrNotFound
}

func (f *fakeAuthRepo) FindUserByID(userID int64) (*models.User, error) {
	for _, u := range f.users {
		if u.ID == userID {
			user := u
			return &user, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func TestNormalizeRole(t *testing.T) {
	if role, err := normalizeRole(""); err != nil || role != models.RoleStaff {
		t.Errorf("normalizeRole(\"\") = %q, %v; want staff default", role, err)
	}
	if role, err := normalizeRole("Manager"); err != nil || role != models.RoleManager {
		t.Errorf("normalizeRole(Manager) = %q, %v; want manager", role, err)
	}
	if _, err := normalizeRole("superuser"); !errors.Is(err, ErrUnknownRole) {
		t.Errorf("normalizeRole(superuser): err = %v, want ErrUnknownRole", err)
	}
}

func TestRegisterAndLogin(t *testing.T) {
	repo := &fakeAuthRepo{}
	svc := NewAuthService(repo, nil)

	user, err := svc.RegisterUser(RegisterUserRequest{
		Username: "warehouse1",
		Password: "correct-horse",
		FullName: "Warehouse One",
	})
	if err != nil {
		t.Fatalf("RegisterUser: %v", err)
	}
	if user.Role != models.RoleStaff {
		t.Errorf("Role = %q, want staff default", user.Role)
	}

	resp, err := svc.LoginUser(LoginRequest{Username: "warehouse1", Password: "correct-horse"})
	if err != nil {
		t.Fatalf("LoginUser: %v", err)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Error("login should issue both tokens")
	}
	if resp.User.PasswordHash != "" {
		t.Error("login response must not carry the password hash")
	}

	if _, err := svc.LoginUser(LoginRequest{Username: "warehouse1", Password: "wrong"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password: err = %v, want ErrInvalidCredentials", err)
	}
	if _, err := svc.LoginUser(LoginRequest{Username: "nobody", Password: "x"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown user: err = %v, want ErrInvalidCredentials", err)
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	repo := &fakeAuthRepo{}
	svc := NewAuthService(repo, nil)

	if _, err := svc.RegisterUser(RegisterUserRequest{Username: "warehouse1", Password: "correct-horse"}); err != nil {
		t.Fatalf("RegisterUser: %v", err)
	}
	if _, err := svc.RegisterUser(RegisterUserRequest{Username: "warehouse1", Password: "other-secret"}); !errors.Is(err, ErrUsernameExists) {
		t.Errorf("err = %v, want ErrUsernameExists", err)
	}
}

func TestRefreshAccessToken(t *testing.T) {
	repo := &fakeAuthRepo{}
	svc := NewAuthService(repo, nil)

	if _, err := svc.RegisterUser(RegisterUserRequest{Username: "warehouse1", Password: "correct-horse"}); err != nil {
		t.Fatalf("RegisterUser: %v", err)
	}
	login, err := svc.LoginUser(LoginRequest{Username: "warehouse1", Password: "correct-horse"})
	if err != nil {
		t.Fatalf("LoginUser: %v", err)
	}

	resp, err := svc.RefreshAccessToken(login.RefreshToken)
	if err != nil {
		t.Fatalf("RefreshAccessToken: %v", err)
	}
	if resp.AccessToken == "" {
		t.Error("refresh should mint a new access token")
	}
	if resp.User == nil || resp.User.Username != "warehouse1" {
		t.Errorf("refresh user = %+v, want warehouse1", resp.User)
	}

	if _, err := svc.RefreshAccessToken("not-a-token"); !errors.Is(err, ErrInvalidRefresh) {
		t.Errorf("garbage token: err = %v, want ErrInvalidRefresh", err)
	}
}
