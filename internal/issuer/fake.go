package issuer

import (
	"context"
	"sync"

	"github.com/google/uuid"

	id "carelink/pkg/domain"
	dErrors "carelink/pkg/domain-errors"
	"carelink/pkg/identity"
	"carelink/pkg/secrets"
)

// Fake is an in-memory account issuer for dev mode and tests. Issued
// credentials are stored bcrypt-hashed, mirroring what a real issuer would
// persist, with Verify exposed for login simulations.
type Fake struct {
	mu       sync.Mutex
	accounts map[id.SeniorID]fakeAccount

	failCreate error
	failDelete error
}

type fakeAccount struct {
	accountID    id.AccountID
	email        string
	passwordHash string
}

// FakeOption configures a Fake issuer.
type FakeOption func(*Fake)

// FailCreateWith makes every CreateAccount call fail with err. Used to
// reproduce the orphaned-profile state in saga tests.
func FailCreateWith(err error) FakeOption {
	return func(f *Fake) { f.failCreate = err }
}

// FailDeleteWith makes every DeleteAccount call fail with err.
func FailDeleteWith(err error) FakeOption {
	return func(f *Fake) { f.failDelete = err }
}

// NewFake constructs an empty fake issuer.
func NewFake(opts ...FakeOption) *Fake {
	f := &Fake{accounts: make(map[id.SeniorID]fakeAccount)}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *Fake) CreateAccount(_ context.Context, req CreateRequest) (*IssuedAccount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failCreate != nil {
		return nil, dErrors.Wrap(f.failCreate, dErrors.CodeExternalService, "account issuer refused creation")
	}

	password := req.Password
	if password == "" {
		generated, err := secrets.GeneratePassword(12)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeExternalService, "could not generate password")
		}
		password = generated
	}
	hash, err := secrets.Hash(password)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeExternalService, "could not hash password")
	}

	account := fakeAccount{
		accountID:    id.AccountID(uuid.NewString()),
		email:        identity.DeriveAddress(req.SeniorID),
		passwordHash: hash,
	}
	f.accounts[req.SeniorID] = account

	return &IssuedAccount{
		Email:     account.email,
		Password:  password,
		AccountID: account.accountID,
	}, nil
}

func (f *Fake) DeleteAccount(_ context.Context, seniorID id.SeniorID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failDelete != nil {
		return dErrors.Wrap(f.failDelete, dErrors.CodeExternalService, "account issuer refused deletion")
	}
	if _, ok := f.accounts[seniorID]; !ok {
		return dErrors.Newf(dErrors.CodeExternalService, "no account for senior %s", seniorID)
	}
	delete(f.accounts, seniorID)
	return nil
}

// HasAccount reports whether a credential exists for the senior.
func (f *Fake) HasAccount(seniorID id.SeniorID) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.accounts[seniorID]
	return ok
}

// Verify checks a password against the stored credential hash.
func (f *Fake) Verify(seniorID id.SeniorID, password string) error {
	f.mu.Lock()
	account, ok := f.accounts[seniorID]
	f.mu.Unlock()
	if !ok {
		return dErrors.Newf(dErrors.CodeUnauthorized, "no account for senior %s", seniorID)
	}
	return secrets.Verify(password, account.passwordHash)
}
