package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/smallplatform/personnel-api/internal/core/domain"
	"github.com/smallplatform/personnel-api/internal/core/ports"
)

type stubLoginFeed struct {
	entries []ports.RecentLogin
	err     error
	pushed  []ports.LoginEvent
}

func (f *stubLoginFeed) Push(_ context.Context, event ports.LoginEvent) error {
	if f.err != nil {
		return f.err
	}
	f.pushed = append(f.pushed, event)
	return nil
}

func (f *stubLoginFeed) Latest(_ context.Context, limit int) ([]ports.RecentLogin, error) {
	if f.err != nil {
		return nil, f.err
	}
	if len(f.entries) > limit {
		return f.entries[:limit], nil
	}
	return f.entries, nil
}

func seedUser(t *testing.T, repo *stubUserRepo, name, email, role string, lastLogin *time.Time) *domain.User {
	t.Helper()
	created, err := repo.Create(context.Background(), &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: "$2a$04$fakehashfakehashfakehash",
		Role:         role,
		LastLoginAt:  lastLogin,
	})
	if err != nil {
		t.Fatalf("seed %s: %v", email, err)
	}
	return created
}

func newTestDirectoryService(repo *stubUserRepo, feed ports.LoginFeed) *DirectoryService {
	return NewDirectoryService(repo, feed, NewPasswordHasher(bcrypt.MinCost), zerolog.Nop())
}

func TestDirectoryService_Overview_Admin(t *testing.T) {
	repo := newStubUserRepo()
	at := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	admin := seedUser(t, repo, "Root", "root@x.com", domain.RoleAdmin, nil)
	seedUser(t, repo, "Ann", "ann@x.com", domain.RoleEmployee, &at)
	seedUser(t, repo, "Bob", "bob@x.com", domain.RoleEmployee, nil)

	feed := &stubLoginFeed{entries: []ports.RecentLogin{{UserID: "a", Name: "Ann", Email: "ann@x.com", At: at}}}
	svc := newTestDirectoryService(repo, feed)

	overview, err := svc.Overview(context.Background(), domain.Principal{ID: admin.ID, Role: domain.RoleAdmin})
	if err != nil {
		t.Fatalf("Overview returned error: %v", err)
	}
	if overview.TotalEmployees != 2 {
		t.Fatalf("expected 2 employees, got %d", overview.TotalEmployees)
	}
	if len(overview.RecentLogins) != 1 || overview.RecentLogins[0].Name != "Ann" {
		t.Fatalf("unexpected recent logins: %+v", overview.RecentLogins)
	}
	if overview.Profile != nil {
		t.Fatalf("admin overview must not carry a profile")
	}
}

func TestDirectoryService_Overview_FeedFallback(t *testing.T) {
	repo := newStubUserRepo()
	at := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	admin := seedUser(t, repo, "Root", "root@x.com", domain.RoleAdmin, nil)
	ann := seedUser(t, repo, "Ann", "ann@x.com", domain.RoleEmployee, &at)

	feed := &stubLoginFeed{err: errors.New("redis down")}
	svc := newTestDirectoryService(repo, feed)

	overview, err := svc.Overview(context.Background(), domain.Principal{ID: admin.ID, Role: domain.RoleAdmin})
	if err != nil {
		t.Fatalf("Overview must fall back to the store: %v", err)
	}
	if len(overview.RecentLogins) != 1 || overview.RecentLogins[0].UserID != ann.ID {
		t.Fatalf("expected store-backed recent logins, got %+v", overview.RecentLogins)
	}
}

func TestDirectoryService_Overview_Employee(t *testing.T) {
	repo := newStubUserRepo()
	ann := seedUser(t, repo, "Ann", "ann@x.com", domain.RoleEmployee, nil)
	svc := newTestDirectoryService(repo, &stubLoginFeed{})

	overview, err := svc.Overview(context.Background(), domain.Principal{ID: ann.ID, Role: domain.RoleEmployee})
	if err != nil {
		t.Fatalf("Overview returned error: %v", err)
	}
	if overview.Profile == nil || overview.Profile.ID != ann.ID {
		t.Fatalf("expected own profile, got %+v", overview.Profile)
	}
	if overview.Profile.PasswordHash != "" {
		t.Fatalf("profile must not carry the password hash")
	}
	if overview.WelcomeMessage != "Welcome back, Ann!" {
		t.Fatalf("unexpected welcome message: %q", overview.WelcomeMessage)
	}
	if overview.TotalEmployees != 0 || overview.RecentLogins != nil {
		t.Fatalf("employee overview must not carry admin fields")
	}
}

func TestDirectoryService_Report_AdminOnly(t *testing.T) {
	repo := newStubUserRepo()
	at := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	admin := seedUser(t, repo, "Root", "root@x.com", domain.RoleAdmin, &at)
	seedUser(t, repo, "Ann", "ann@x.com", domain.RoleEmployee, nil)
	svc := newTestDirectoryService(repo, &stubLoginFeed{})

	rows, err := svc.Report(context.Background(), domain.Principal{ID: admin.ID, Role: domain.RoleAdmin})
	if err != nil {
		t.Fatalf("Report returned error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows including the admin's own, got %d", len(rows))
	}

	if _, err := svc.Report(context.Background(), domain.Principal{ID: "x", Role: domain.RoleEmployee}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for employee, got %v", err)
	}
}

func TestDirectoryService_List(t *testing.T) {
	repo := newStubUserRepo()
	admin := seedUser(t, repo, "Root", "root@x.com", domain.RoleAdmin, nil)
	seedUser(t, repo, "Ann", "ann@x.com", domain.RoleEmployee, nil)
	svc := newTestDirectoryService(repo, &stubLoginFeed{})
	p := domain.Principal{ID: admin.ID, Role: domain.RoleAdmin}

	all, err := svc.List(context.Background(), p, "")
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 users, got %d", len(all))
	}
	for _, u := range all {
		if u.PasswordHash != "" {
			t.Fatalf("listing leaked a password hash for %s", u.Email)
		}
	}

	employees, err := svc.List(context.Background(), p, domain.RoleEmployee)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(employees) != 1 || employees[0].Role != domain.RoleEmployee {
		t.Fatalf("unexpected filtered listing: %+v", employees)
	}

	if _, err := svc.List(context.Background(), p, "superuser"); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for bad filter, got %v", err)
	}
	if _, err := svc.List(context.Background(), domain.Principal{ID: "x", Role: domain.RoleEmployee}, ""); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for employee, got %v", err)
	}
}

func TestDirectoryService_Get_SelfOrAdmin(t *testing.T) {
	repo := newStubUserRepo()
	admin := seedUser(t, repo, "Root", "root@x.com", domain.RoleAdmin, nil)
	ann := seedUser(t, repo, "Ann", "ann@x.com", domain.RoleEmployee, nil)
	bob := seedUser(t, repo, "Bob", "bob@x.com", domain.RoleEmployee, nil)
	svc := newTestDirectoryService(repo, &stubLoginFeed{})

	if _, err := svc.Get(context.Background(), domain.Principal{ID: ann.ID, Role: domain.RoleEmployee}, ann.ID); err != nil {
		t.Fatalf("self read failed: %v", err)
	}
	if _, err := svc.Get(context.Background(), domain.Principal{ID: admin.ID, Role: domain.RoleAdmin}, ann.ID); err != nil {
		t.Fatalf("admin read failed: %v", err)
	}
	if _, err := svc.Get(context.Background(), domain.Principal{ID: ann.ID, Role: domain.RoleEmployee}, bob.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for cross-user read, got %v", err)
	}
}

func TestDirectoryService_Update_NoEscalation(t *testing.T) {
	repo := newStubUserRepo()
	ann := seedUser(t, repo, "Ann", "ann@x.com", domain.RoleEmployee, nil)
	svc := newTestDirectoryService(repo, &stubLoginFeed{})
	self := domain.Principal{ID: ann.ID, Role: domain.RoleEmployee}

	// An employee changing their own role is a privilege escalation.
	if _, err := svc.Update(context.Background(), self, ann.ID, ports.DirectoryUpdate{Role: domain.RoleAdmin}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for self role change, got %v", err)
	}
	stored, _ := repo.FindByID(context.Background(), ann.ID)
	if stored.Role != domain.RoleEmployee {
		t.Fatalf("denied update left a side effect: role is %s", stored.Role)
	}

	// Plain profile edits on the own record are fine.
	updated, err := svc.Update(context.Background(), self, ann.ID, ports.DirectoryUpdate{Name: "Anna"})
	if err != nil {
		t.Fatalf("self profile update failed: %v", err)
	}
	if updated.Name != "Anna" {
		t.Fatalf("expected updated name, got %q", updated.Name)
	}
}

func TestDirectoryService_Update_AdminRoleChange(t *testing.T) {
	repo := newStubUserRepo()
	admin := seedUser(t, repo, "Root", "root@x.com", domain.RoleAdmin, nil)
	ann := seedUser(t, repo, "Ann", "ann@x.com", domain.RoleEmployee, nil)
	svc := newTestDirectoryService(repo, &stubLoginFeed{})

	updated, err := svc.Update(context.Background(), domain.Principal{ID: admin.ID, Role: domain.RoleAdmin}, ann.ID, ports.DirectoryUpdate{Role: domain.RoleAdmin})
	if err != nil {
		t.Fatalf("admin role change failed: %v", err)
	}
	if updated.Role != domain.RoleAdmin {
		t.Fatalf("expected role admin, got %s", updated.Role)
	}

	if _, err := svc.Update(context.Background(), domain.Principal{ID: admin.ID, Role: domain.RoleAdmin}, ann.ID, ports.DirectoryUpdate{Role: "superuser"}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for invalid role, got %v", err)
	}
}

func TestDirectoryService_Update_PasswordRehash(t *testing.T) {
	repo := newStubUserRepo()
	ann := seedUser(t, repo, "Ann", "ann@x.com", domain.RoleEmployee, nil)
	svc := newTestDirectoryService(repo, &stubLoginFeed{})

	if _, err := svc.Update(context.Background(), domain.Principal{ID: ann.ID, Role: domain.RoleEmployee}, ann.ID, ports.DirectoryUpdate{Password: "newpass"}); err != nil {
		t.Fatalf("password update failed: %v", err)
	}

	stored, _ := repo.FindByID(context.Background(), ann.ID)
	if stored.PasswordHash == "newpass" || stored.PasswordHash == "" {
		t.Fatalf("expected re-hashed password, got %q", stored.PasswordHash)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("newpass")); err != nil {
		t.Fatalf("stored hash does not match new password: %v", err)
	}
}
