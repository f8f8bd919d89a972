package usecase

import (
	"context"
	"slices"
	"sync"

	"chatmarket/internal/domain/entity"
	"chatmarket/internal/domain/repository"
	"chatmarket/pkg/errors"
	"chatmarket/pkg/logger"
)

// AuthUseCase owns the registered accounts and the active session.
type AuthUseCase struct {
	mu       sync.RWMutex
	accounts []entity.Account
	session  string

	accountStore repository.Snapshot[[]entity.Account]
	sessionStore repository.Snapshot[string]
	hasher       PasswordHasher
	tokens       TokenIssuer
	now          Clock
	seedDemo     bool
}

func NewAuthUseCase(
	accountStore repository.Snapshot[[]entity.Account],
	sessionStore repository.Snapshot[string],
	hasher PasswordHasher,
	tokens TokenIssuer,
) *AuthUseCase {
	return &AuthUseCase{
		accountStore: accountStore,
		sessionStore: sessionStore,
		hasher:       hasher,
		tokens:       tokens,
		now:          SystemClock,
		seedDemo:     true,
	}
}

func (uc *AuthUseCase) WithClock(clock Clock) *AuthUseCase {
	uc.now = clock
	return uc
}

func (uc *AuthUseCase) WithDemoData(enabled bool) *AuthUseCase {
	uc.seedDemo = enabled
	return uc
}

type RegisterInput struct {
	Name     string      `json:"name" validate:"required"`
	Email    string      `json:"email" validate:"required,email"`
	Password string      `json:"password" validate:"required,min=4"`
	Role     entity.Role `json:"role" validate:"required,oneof=seller buyer"`
}

type AuthResult struct {
	Account entity.Account
	Token   string
}

// Init loads accounts, adds any missing demo account and restores the saved
// session. A session naming an unknown account is ignored.
func (uc *AuthUseCase) Init(ctx context.Context) error {
	accounts, _, err := uc.accountStore.Load(ctx)
	if err != nil {
		return err
	}

	if uc.seedDemo {
		accounts, err = uc.withDemoAccounts(accounts)
		if err != nil {
			return err
		}
		if err := uc.accountStore.Save(ctx, accounts); err != nil {
			return err
		}
	}

	sessionID, _, err := uc.sessionStore.Load(ctx)
	if err != nil {
		return err
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	uc.accounts = accounts
	uc.session = ""
	if sessionID != "" && indexOf(accounts, byAccountID(sessionID)) >= 0 {
		uc.session = sessionID
	}

	logger.Info("Loaded %d accounts", len(accounts))
	return nil
}

func (uc *AuthUseCase) withDemoAccounts(accounts []entity.Account) ([]entity.Account, error) {
	var hash string
	for _, demo := range demoAccounts(uc.now()) {
		if indexOf(accounts, byAccountID(demo.ID)) >= 0 {
			continue
		}
		if hash == "" {
			h, err := uc.hasher.Hash(DemoPassword)
			if err != nil {
				return nil, errors.Internal("Failed to hash demo password", err)
			}
			hash = h
		}
		demo.PasswordHash = hash
		accounts = append([]entity.Account{demo}, accounts...)
	}
	return accounts, nil
}

func (uc *AuthUseCase) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	hash, err := uc.hasher.Hash(input.Password)
	if err != nil {
		return nil, errors.Internal("Failed to hash password", err)
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	if indexOf(uc.accounts, byEmail(input.Email)) >= 0 {
		return nil, errors.DuplicateEmail()
	}

	account := entity.Account{
		ID:           newID(string(input.Role) + "-"),
		Email:        input.Email,
		PasswordHash: hash,
		Name:         input.Name,
		Avatar:       entity.AvatarGlyph(input.Name),
		Role:         input.Role,
		CreatedAt:    uc.now(),
	}

	token, err := uc.issue(account)
	if err != nil {
		return nil, err
	}

	accounts := append(slices.Clone(uc.accounts), account)
	if err := commit(ctx, uc.accountStore, repository.KeyAccounts, accounts, &uc.accounts); err != nil {
		return nil, err
	}

	if err := uc.setSession(ctx, account.ID); err != nil {
		return nil, err
	}

	logger.Info("Registered %s account %s", account.Role, account.ID)
	return &AuthResult{Account: account, Token: token}, nil
}

// Authenticate requires an exact email match and a matching password.
func (uc *AuthUseCase) Authenticate(ctx context.Context, email, password string) (*AuthResult, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	i := indexOf(uc.accounts, byEmail(email))
	if i < 0 || !uc.hasher.Matches(uc.accounts[i].PasswordHash, password) {
		return nil, errors.InvalidCredentials()
	}
	account := uc.accounts[i]

	token, err := uc.issue(account)
	if err != nil {
		return nil, err
	}
	if err := uc.setSession(ctx, account.ID); err != nil {
		return nil, err
	}

	return &AuthResult{Account: account, Token: token}, nil
}

// EndSession clears the active session. Calling it with no session is fine.
func (uc *AuthUseCase) EndSession(ctx context.Context) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if err := uc.sessionStore.Clear(ctx); err != nil {
		logger.LogPersistError(repository.KeySession, err)
		return err
	}
	uc.session = ""
	return nil
}

// SwitchAccount makes id the active session without a password, like the
// demo user switcher. Unknown ids leave the session alone and return nil.
func (uc *AuthUseCase) SwitchAccount(ctx context.Context, id string) (*AuthResult, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	i := indexOf(uc.accounts, byAccountID(id))
	if i < 0 {
		return nil, nil
	}
	account := uc.accounts[i]

	token, err := uc.issue(account)
	if err != nil {
		return nil, err
	}
	if err := uc.setSession(ctx, account.ID); err != nil {
		return nil, err
	}

	return &AuthResult{Account: account, Token: token}, nil
}

func (uc *AuthUseCase) CurrentAccount() (entity.Account, bool) {
	uc.mu.RLock()
	defer uc.mu.RUnlock()

	if uc.session == "" {
		return entity.Account{}, false
	}
	return uc.lookup(uc.session)
}

func (uc *AuthUseCase) GetAccount(id string) (entity.Account, bool) {
	uc.mu.RLock()
	defer uc.mu.RUnlock()

	return uc.lookup(id)
}

func (uc *AuthUseCase) ListAccounts() []entity.Account {
	uc.mu.RLock()
	defer uc.mu.RUnlock()

	return slices.Clone(uc.accounts)
}

func (uc *AuthUseCase) lookup(id string) (entity.Account, bool) {
	i := indexOf(uc.accounts, byAccountID(id))
	if i < 0 {
		return entity.Account{}, false
	}
	return uc.accounts[i], true
}

// setSession must be called with mu held.
func (uc *AuthUseCase) setSession(ctx context.Context, id string) error {
	if err := uc.sessionStore.Save(ctx, id); err != nil {
		logger.LogPersistError(repository.KeySession, err)
		return err
	}
	uc.session = id
	return nil
}

func (uc *AuthUseCase) issue(account entity.Account) (string, error) {
	if uc.tokens == nil {
		return "", nil
	}
	token, err := uc.tokens.Issue(account)
	if err != nil {
		return "", errors.Internal("Failed to issue token", err)
	}
	return token, nil
}

func byAccountID(id string) func(entity.Account) bool {
	return func(a entity.Account) bool { return a.ID == id }
}

func byEmail(email string) func(entity.Account) bool {
	return func(a entity.Account) bool { return a.Email == email }
}
