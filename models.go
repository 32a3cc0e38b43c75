package authgate

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is the user model. Email holds the canonical form produced by
// Canonicalize and is the uniqueness anchor; Username is a mutable
// display handle.
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Email         string     `bun:"email,notnull,unique" json:"email,omitempty"`
	Username      string     `bun:"username,notnull,unique" json:"username,omitempty"`
	PasswordHash  string     `bun:"password_hash" json:"password_hash,omitempty"`
	IsStaff       bool       `bun:"is_staff" json:"is_staff,omitempty"`
	IsSuperuser   bool       `bun:"is_superuser" json:"is_superuser,omitempty"`
	LoggedInAt    *time.Time `bun:"loggedin_at" json:"loggedin_at,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt     *time.Time `bun:"deleted_at,soft_delete,nullzero" json:"deleted_at,omitempty"`
}

// DefaultProfileImage is the placeholder assigned to new profiles
const DefaultProfileImage = "default.jpg"

// Profile holds the public facing attributes of a user. One per user,
// created by the post register hook and removed with its owner.
type Profile struct {
	bun.BaseModel `bun:"table:profiles,alias:prf"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	UserID        *uuid.UUID `bun:"user_id,notnull,unique" json:"user_id,omitempty"`
	User          *User      `bun:"rel:has-one,join:user_id=id" json:"user,omitempty"`
	Image         string     `bun:"image,notnull" json:"image,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt     *time.Time `bun:"deleted_at,soft_delete,nullzero" json:"deleted_at,omitempty"`
}

// NewProfile creates the default profile for a user
func NewProfile(userID uuid.UUID) *Profile {
	return &Profile{
		ID:     uuid.New(),
		UserID: &userID,
		Image:  DefaultProfileImage,
	}
}

// RevocationEntry marks a refresh credential as revoked. Rows are never
// mutated, only inserted on logout and deleted by the sweeper once the
// credential would have expired on its own.
type RevocationEntry struct {
	bun.BaseModel `bun:"table:token_revocations,alias:trv"`
	JTI           string     `bun:"jti,pk,notnull" json:"jti,omitempty"`
	ExpiresAt     time.Time  `bun:"expires_at,notnull" json:"expires_at,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
}
