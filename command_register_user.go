package authgate

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/uptrace/bun"
)

// MaxUsernameLength caps the display handle
const MaxUsernameLength = 20

// RegisterUserMessage carries the registration input. Email may be any
// alias form, it is canonicalized before anything else happens.
type RegisterUserMessage struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

func (e RegisterUserMessage) Type() string { return "user.register" }

// RegisterHook runs inside the registration transaction after the user
// row exists. A hook error rolls back the whole registration.
type RegisterHook func(ctx context.Context, tx bun.IDB, user *User) error

// DefaultProfileHook creates the default profile for a new user
func DefaultProfileHook(repo RepositoryManager) RegisterHook {
	return func(ctx context.Context, tx bun.IDB, user *User) error {
		_, err := repo.Profiles().CreateTx(ctx, tx, NewProfile(user.ID))
		return err
	}
}

// RegisterUserHandler validates and persists new registrations
type RegisterUserHandler struct {
	repo  RepositoryManager
	hooks []RegisterHook
}

// NewRegisterUserHandler creates the registration handler. When no hooks
// are given the default profile hook is installed.
func NewRegisterUserHandler(repo RepositoryManager, hooks ...RegisterHook) *RegisterUserHandler {
	if len(hooks) == 0 {
		hooks = []RegisterHook{DefaultProfileHook(repo)}
	}
	return &RegisterUserHandler{
		repo:  repo,
		hooks: hooks,
	}
}

// Execute validates the message, checks uniqueness on the canonical email
// and the username, and creates the user plus its hook records in a
// single transaction. Validation failures come back as *FieldErrors with
// every failing field reported, not just the first.
func (h *RegisterUserHandler) Execute(ctx context.Context, event RegisterUserMessage) (*User, error) {
	select {
	case <-ctx.Done():
		return nil, goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during user registration",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *RegisterUserHandler) execute(ctx context.Context, event RegisterUserMessage) (*User, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	fieldErrs := NewFieldErrors()

	canonical, err := Canonicalize(event.Email)
	if err != nil {
		fieldErrs.Set("email", MsgInvalidEmail)
	}

	if event.Username == "" || len(event.Username) > MaxUsernameLength {
		fieldErrs.Set("username", MsgInvalidUsername)
	}

	if event.Password == "" {
		fieldErrs.Set("password", MsgInvalidPassword)
	}

	if canonical != "" {
		if _, err := h.repo.Users().GetByEmail(ctx, canonical); err == nil {
			fieldErrs.SetConflict("email", MsgEmailTaken)
		} else if !repository.IsRecordNotFound(err) && !goerrors.IsNotFound(err) {
			return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to check email uniqueness")
		}
	}

	if event.Username != "" {
		if _, err := h.repo.Users().GetByUsername(ctx, event.Username); err == nil {
			fieldErrs.SetConflict("username", MsgUsernameTaken)
		} else if !repository.IsRecordNotFound(err) && !goerrors.IsNotFound(err) {
			return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to check username uniqueness")
		}
	}

	if !fieldErrs.Empty() {
		return nil, fieldErrs
	}

	hash, err := HashPassword(event.Password)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
	}

	user := &User{
		Email:        canonical,
		Username:     event.Username,
		PasswordHash: hash,
	}

	// Deterministic id keyed by the canonical email
	if id, err := hashid.NewUUID(canonical); err == nil {
		user.ID = id
	}

	err = h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		created, err := h.repo.Users().RegisterTx(ctx, tx, user)
		if err != nil {
			// The pre-checks are advisory: a concurrent duplicate still
			// trips the UNIQUE constraints here.
			return goerrors.Wrap(err, goerrors.CategoryConflict, "could not create user")
		}
		user = created

		for _, hook := range h.hooks {
			if err := hook(ctx, tx, user); err != nil {
				return goerrors.Wrap(err, goerrors.CategoryInternal, "post register hook failed")
			}
		}

		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return nil, richErr
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "user registration transaction failed")
	}

	return user, nil
}
