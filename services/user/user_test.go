package user

import (
	"context"
	"errors"
	"testing"

	"lefri/database"
	userRepo "lefri/database/repository/user"
	"lefri/models"
	"lefri/utils"
)

type fakeVerifier struct {
	profile *models.GoogleProfile
	err     error
}

func (f fakeVerifier) Verify(context.Context, string) (*models.GoogleProfile, error) {
	return f.profile, f.err
}

func strPtr(s string) *string { return &s }

func TestAuthenticateGoogleCreatesThenReuses(t *testing.T) {
	repo := userRepo.NewMemoryUserRepo()
	svc := &DefaultUserService{
		Repo:     repo,
		Verifier: fakeVerifier{profile: &models.GoogleProfile{Subject: "g-1", Email: "ana@example.com", Name: "Ana"}},
	}
	ctx := context.Background()

	first, err := svc.AuthenticateGoogle(ctx, models.GoogleAuthRequest{Credential: "tok"})
	if err != nil {
		t.Fatalf("AuthenticateGoogle: %v", err)
	}
	if first.Token == "" || first.User.Language != "es" || first.User.Country != "EC" {
		t.Errorf("unexpected response %+v", first.User)
	}
	sub, _, err := utils.ExtractIDFromToken(first.Token)
	if err != nil || sub != first.User.ID {
		t.Errorf("token sub = %q, err = %v", sub, err)
	}

	second, err := svc.AuthenticateGoogle(ctx, models.GoogleAuthRequest{Credential: "tok"})
	if err != nil {
		t.Fatalf("second sign-in: %v", err)
	}
	if second.User.ID != first.User.ID {
		t.Error("second sign-in created a new user")
	}
}

func TestAuthenticateGoogleLinksExistingEmail(t *testing.T) {
	repo := userRepo.NewMemoryUserRepo(models.User{ID: "u1", Email: "ana@example.com", Name: "Ana"})
	svc := &DefaultUserService{
		Repo:     repo,
		Verifier: fakeVerifier{profile: &models.GoogleProfile{Subject: "g-9", Email: "ana@example.com"}},
	}
	resp, err := svc.AuthenticateGoogle(context.Background(), models.GoogleAuthRequest{Credential: "tok"})
	if err != nil {
		t.Fatalf("AuthenticateGoogle: %v", err)
	}
	if resp.User.ID != "u1" || resp.User.GoogleID != "g-9" {
		t.Errorf("account not linked: %+v", resp.User)
	}
}

func TestAuthenticateGoogleRejections(t *testing.T) {
	repo := userRepo.NewMemoryUserRepo()
	ctx := context.Background()

	bad := &DefaultUserService{Repo: repo, Verifier: fakeVerifier{err: errors.New("bad signature")}}
	if _, err := bad.AuthenticateGoogle(ctx, models.GoogleAuthRequest{Credential: "x"}); !errors.Is(err, utils.ErrUnauthorized) {
		t.Errorf("bad credential: got %v", err)
	}

	strict := &DefaultUserService{Repo: repo}
	legacy := models.GoogleAuthRequest{Email: "demo@lefri.ai", Name: "Demo"}
	if _, err := strict.AuthenticateGoogle(ctx, legacy); !errors.Is(err, utils.ErrInvalidInput) {
		t.Errorf("legacy body without AllowLegacy: got %v", err)
	}

	lenient := &DefaultUserService{Repo: repo, AllowLegacy: true}
	resp, err := lenient.AuthenticateGoogle(ctx, legacy)
	if err != nil {
		t.Fatalf("legacy sign-in: %v", err)
	}
	if resp.User.Email != "demo@lefri.ai" {
		t.Errorf("unexpected user %+v", resp.User)
	}
}

func TestUpdateProfile(t *testing.T) {
	repo := userRepo.NewMemoryUserRepo(models.User{ID: "u1", Email: "a@b.c", Name: "A", Language: "es", Country: "EC"})
	svc := &DefaultUserService{Repo: repo}
	ctx := context.Background()

	u, err := svc.UpdateProfile(ctx, "u1", models.ProfileUpdate{Name: strPtr("Ana"), Country: strPtr("co")})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if u.Name != "Ana" || u.Country != "CO" || u.Email != "a@b.c" {
		t.Errorf("unexpected user %+v", u)
	}

	if _, err := svc.UpdateProfile(ctx, "u1", models.ProfileUpdate{}); !errors.Is(err, utils.ErrInvalidInput) {
		t.Errorf("empty update: got %v", err)
	}
	if _, err := svc.UpdateProfile(ctx, "u1", models.ProfileUpdate{Language: strPtr("de")}); !errors.Is(err, utils.ErrInvalidInput) {
		t.Errorf("bad language: got %v", err)
	}
	if _, err := svc.UpdateProfile(ctx, "missing", models.ProfileUpdate{Name: strPtr("x")}); !errors.Is(err, database.ErrNotFound) {
		t.Errorf("missing user: got %v", err)
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	svc := &DefaultUserService{Repo: userRepo.NewMemoryUserRepo()}
	token, err := utils.GenerateToken("u1", "a@b.c", utils.TokenTTL())
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	ctx := context.Background()
	if utils.IsTokenRevoked(ctx, token) {
		t.Fatal("fresh token reported revoked")
	}
	if err := svc.Logout(ctx, token); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if !utils.IsTokenRevoked(ctx, token) {
		t.Error("token still valid after logout")
	}
	if err := svc.Logout(ctx, "garbage"); !errors.Is(err, utils.ErrUnauthorized) {
		t.Errorf("garbage token: got %v", err)
	}
}
