package account

import (
	"context"
	"errors"
	"testing"

	"github.com/baechuer/account-service/internal/domain"
)

func TestRegister_Success_StoresHashAndSendsVerifyMail(t *testing.T) {
	t.Parallel()
	svc, d := newSvcForTest(t)

	res, err := svc.Register(context.Background(), RegisterInput{Name: "A", Email: "a@x.com", Role: "USER", Password: "p1"})
	requireNoErr(t, err)

	if res.Account.PasswordHash != "" {
		t.Fatalf("result must not carry the hash")
	}
	if !res.MailSent || res.Message != MsgRegisteredMailSent {
		t.Fatalf("unexpected result: %+v", res)
	}

	stored := d.repo.get(res.Account.ID)
	if stored.PasswordHash == "p1" || stored.PasswordHash != "hashed:p1" {
		t.Fatalf("expected hashed password, got %q", stored.PasswordHash)
	}
	if stored.IsVerified || stored.IsActive || stored.IsBlocked {
		t.Fatalf("unexpected flags: %+v", stored)
	}
	if stored.VerifyToken == "" || !stored.VerifyTokenExpiry.Equal(d.now.Add(svc.sideTokenTTL)) {
		t.Fatalf("expected verify token with 1h expiry, got %+v", stored)
	}

	msg := d.mailer.last()
	if msg.Kind != domain.MailVerify || msg.To != "a@x.com" || msg.Link != "https://app/verify?token="+stored.VerifyToken {
		t.Fatalf("unexpected mail: %+v", msg)
	}
	if d.lastAudit(t, "account.register").fields["result"] != "success" {
		t.Fatalf("expected success audit")
	}
}

func TestRegister_DefaultsToUserRole(t *testing.T) {
	t.Parallel()
	svc, _ := newSvcForTest(t)

	res, err := svc.Register(context.Background(), RegisterInput{Name: "A", Email: "a@x.com", Password: "p1"})
	requireNoErr(t, err)
	if res.Account.Role != domain.RoleUser {
		t.Fatalf("expected USER, got %q", res.Account.Role)
	}
}

func TestRegister_MailFailure_StillSucceeds(t *testing.T) {
	t.Parallel()
	svc, d := newSvcForTest(t)
	d.mailer.ok = false

	res, err := svc.Register(context.Background(), RegisterInput{Name: "A", Email: "a@x.com", Password: "p1"})
	requireNoErr(t, err)
	if res.MailSent || res.Message != MsgRegisteredMailError {
		t.Fatalf("expected distinguishing message, got %+v", res)
	}
	if d.repo.get(res.Account.ID).ID == "" {
		t.Fatalf("account must still be created")
	}
}

func TestRegister_WithoutVerification_NoTokenNoMail(t *testing.T) {
	t.Parallel()
	svc, d := newSvcWithConfig(t, Config{})

	res, err := svc.Register(context.Background(), RegisterInput{Name: "A", Email: "a@x.com", Password: "p1"})
	requireNoErr(t, err)
	if res.Message != MsgRegistered {
		t.Fatalf("unexpected message %q", res.Message)
	}
	if d.repo.get(res.Account.ID).VerifyToken != "" {
		t.Fatalf("expected no verify token")
	}
	if len(d.mailer.sent) != 0 {
		t.Fatalf("expected no mail")
	}
}

func TestRegister_DuplicateEmail_Conflict(t *testing.T) {
	t.Parallel()
	svc, d := newSvcForTest(t)
	d.seed(domain.Account{ID: "u0", Email: "a@x.com"}, "p")

	_, err := svc.Register(context.Background(), RegisterInput{Name: "A", Email: "a@x.com", Password: "p1"})
	requireErrCode(t, err, "email_already_exists")
	if d.lastAudit(t, "account.register").fields["error_code"] != "email_already_exists" {
		t.Fatalf("expected error audit")
	}
}

func TestRegister_MissingFields(t *testing.T) {
	t.Parallel()
	svc, _ := newSvcForTest(t)

	cases := []struct {
		in    RegisterInput
		field string
	}{
		{RegisterInput{Email: "a@x.com", Password: "p"}, "name"},
		{RegisterInput{Name: "A", Password: "p"}, "email"},
		{RegisterInput{Name: "A", Email: "a@x.com"}, "password"},
	}
	for _, c := range cases {
		_, err := svc.Register(context.Background(), c.in)
		requireErrCode(t, err, "missing_field")
		var de *domain.Error
		if !errors.As(err, &de) || de.Meta["field"] != c.field {
			t.Fatalf("expected field %s, got %v", c.field, err)
		}
	}
}

func TestRegister_UnknownRole_InvalidField(t *testing.T) {
	t.Parallel()
	svc, _ := newSvcForTest(t)

	_, err := svc.Register(context.Background(), RegisterInput{Name: "A", Email: "a@x.com", Role: "ROOT", Password: "p"})
	requireErrCode(t, err, "invalid_field")
}

func TestRegister_LookupInfraError_Propagates(t *testing.T) {
	t.Parallel()
	svc, d := newSvcForTest(t)
	d.repo.getByEmailErr = domain.ErrDBUnavailable(errors.New("down"))

	_, err := svc.Register(context.Background(), RegisterInput{Name: "A", Email: "a@x.com", Password: "p"})
	requireErrCode(t, err, "db_unavailable")
}

func TestRegister_HashFailure(t *testing.T) {
	t.Parallel()
	svc, d := newSvcForTest(t)
	d.hasher.hashErr = errors.New("boom")

	_, err := svc.Register(context.Background(), RegisterInput{Name: "A", Email: "a@x.com", Password: "p"})
	requireErrCode(t, err, "hash_failed")
	if len(d.mailer.sent) != 0 {
		t.Fatalf("no mail expected when creation fails")
	}
}

func TestLogin_Success_PersistsRefreshAndActivates(t *testing.T) {
	t.Parallel()
	svc, d := newSvcForTest(t)
	d.seed(domain.Account{ID: "u1", Email: "a@x.com", IsVerified: true}, "p1")

	res, err := svc.Login(context.Background(), "a@x.com", "p1")
	requireNoErr(t, err)

	if res.Tokens.AccessToken == "" || res.Tokens.RefreshToken == "" || res.Tokens.TokenType != "Bearer" {
		t.Fatalf("unexpected tokens: %+v", res.Tokens)
	}
	stored := d.repo.get("u1")
	if !stored.IsActive || stored.RefreshToken != res.Tokens.RefreshToken {
		t.Fatalf("expected active with stored refresh, got %+v", stored)
	}
	if res.Account.PasswordHash != "" {
		t.Fatalf("hash leaked")
	}
}

func TestLogin_UnknownEmail_NotFound(t *testing.T) {
	t.Parallel()
	svc, _ := newSvcForTest(t)

	_, err := svc.Login(context.Background(), "nobody@x.com", "p")
	requireErrCode(t, err, "account_not_found")
}

func TestLogin_BadPassword_InvalidCredentials(t *testing.T) {
	t.Parallel()
	svc, d := newSvcForTest(t)
	d.seed(domain.Account{ID: "u1", Email: "a@x.com", IsVerified: true}, "p1")

	_, err := svc.Login(context.Background(), "a@x.com", "wrong")
	requireErrCode(t, err, "invalid_credentials")
	if d.repo.get("u1").IsActive {
		t.Fatalf("failed login must not activate")
	}
}

func TestLogin_Precedence(t *testing.T) {
	t.Parallel()

	// unverified + blocked + wrong password: the password check wins
	svc, d := newSvcForTest(t)
	d.seed(domain.Account{ID: "u1", Email: "a@x.com", IsBlocked: true}, "p1")

	_, err := svc.Login(context.Background(), "a@x.com", "wrong")
	requireErrCode(t, err, "invalid_credentials")

	// correct password: verification is checked before blocked
	_, err = svc.Login(context.Background(), "a@x.com", "p1")
	requireErrCode(t, err, "email_not_verified")

	d.seed(domain.Account{ID: "u1", Email: "a@x.com", IsBlocked: true, IsVerified: true}, "p1")
	_, err = svc.Login(context.Background(), "a@x.com", "p1")
	requireErrCode(t, err, "account_blocked")
}

func TestLogin_VerificationDisabled_AllowsUnverified(t *testing.T) {
	t.Parallel()
	svc, d := newSvcWithConfig(t, Config{})
	d.seed(domain.Account{ID: "u1", Email: "a@x.com"}, "p1")

	_, err := svc.Login(context.Background(), "a@x.com", "p1")
	requireNoErr(t, err)
}

func TestLogin_MissingFields(t *testing.T) {
	t.Parallel()
	svc, _ := newSvcForTest(t)

	_, err := svc.Login(context.Background(), "", "p")
	requireErrCode(t, err, "missing_field")
	_, err = svc.Login(context.Background(), "a@x.com", "")
	requireErrCode(t, err, "missing_field")
}

func TestLogin_TokenIssueFailure_DoesNotActivate(t *testing.T) {
	t.Parallel()
	svc, d := newSvcForTest(t)
	d.seed(domain.Account{ID: "u1", Email: "a@x.com", IsVerified: true}, "p1")
	d.tokens.issueErr = domain.ErrTokenSignFailed(errors.New("x"))

	_, err := svc.Login(context.Background(), "a@x.com", "p1")
	requireErrCode(t, err, "token_sign_failed")
	if d.repo.get("u1").IsActive {
		t.Fatalf("must not activate on issue failure")
	}
}

// legacyHasher treats "legacy:" digests as valid but outdated.
type legacyHasher struct{ fakeHasher }

func (h *legacyHasher) Verify(pw, hash string) bool {
	return hash == "legacy:"+pw || h.fakeHasher.Verify(pw, hash)
}

func (h *legacyHasher) NeedsRehash(hash string) bool { return hasPrefix(hash, "legacy:") }

func TestLogin_UpgradesOutdatedHash(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	repo.put(domain.Account{ID: "u1", Email: "a@x.com", Role: domain.RoleUser, IsVerified: true, PasswordHash: "legacy:p1"})

	svc := NewService(NewStore(repo, &legacyHasher{}), newFakeIssuer(), &fakeMailer{ok: true}, Config{RequireEmailVerification: true})

	_, err := svc.Login(context.Background(), "a@x.com", "p1")
	requireNoErr(t, err)

	if got := repo.get("u1").PasswordHash; got != "hashed:p1" {
		t.Fatalf("expected upgraded hash, got %q", got)
	}

	_, err = svc.Login(context.Background(), "a@x.com", "p1")
	requireNoErr(t, err)
}
