package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/example/grantmatch/database"
	domain "github.com/example/grantmatch/domain/user"
	"github.com/google/uuid"
)

// AnonymousSessionTTL is the fixed lifetime of an anonymous device session.
const AnonymousSessionTTL = 30 * 24 * time.Hour

var (
	// ErrInvalidCredentials is returned when login credentials are invalid.
	// It does not reveal which factor failed.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrRevoked is returned when a token is in the revocation ledger.
	ErrRevoked = errors.New("token has been revoked")
	// ErrInvalidEmail is returned when email format is invalid.
	ErrInvalidEmail = errors.New("invalid email format")
	// ErrInvalidUsername is returned for usernames outside 2-20 of [a-z0-9_-] or cyrillic.
	ErrInvalidUsername = errors.New("invalid username")
	// ErrInvalidName is returned for display names outside 2-30 characters.
	ErrInvalidName = errors.New("name must be 2 to 30 characters")
	// ErrInvalidINN is returned for tax IDs that are not 10-12 digits.
	ErrInvalidINN = errors.New("inn must be 10 to 12 digits")
	// ErrWeakPassword is returned when password is too weak.
	ErrWeakPassword = errors.New("password must be at least 8 characters")
	// ErrPasswordTooLong is returned when password exceeds bcrypt's 72-byte limit.
	ErrPasswordTooLong = errors.New("password must be at most 72 characters")
	// ErrOrganizationFields is returned when an organization registers without INN or name.
	ErrOrganizationFields = errors.New("organization accounts require inn and organization name")
	// ErrOrganizationUsername is returned when an organization tries to set a username.
	ErrOrganizationUsername = errors.New("organizations cannot have username")
	// ErrInvalidDeviceID is returned when a device ID is not a canonical UUID.
	ErrInvalidDeviceID = errors.New("device uuid must be a canonical 36-character uuid")
	// ErrForbidden is returned when the caller may not act on the target user.
	ErrForbidden = errors.New("forbidden")

	// Uniqueness violations on registration and update, all wrapping ErrUserExists.
	ErrEmailTaken    = fmt.Errorf("email is already registered: %w", ErrUserExists)
	ErrUsernameTaken = fmt.Errorf("username not available: %w", ErrUserExists)
	ErrINNTaken      = fmt.Errorf("inn is already registered: %w", ErrUserExists)
	ErrPhoneTaken    = fmt.Errorf("phone is already registered: %w", ErrUserExists)
)

var (
	usernamePattern = regexp.MustCompile(`^[a-zа-яё0-9_-]{2,20}$`)
	innPattern      = regexp.MustCompile(`^\d{10,12}$`)
)

// RegisterInput holds the fields of a new account.
type RegisterInput struct {
	Name             string
	Username         string
	Email            string
	Phone            string
	Password         string
	UserType         domain.Type
	INN              string
	OrganizationName string
}

// UpdateInput holds the self-editable fields of an account. Nil means unchanged.
type UpdateInput struct {
	Name            *string
	Username        *string
	Email           *string
	ProfileImageURL *string
}

// AuthService is the session authenticator: it resolves credentials to
// accounts, mints access, refresh and anonymous tokens, and verifies bearer
// tokens against the revocation ledger.
type AuthService struct {
	repo       *UserRepository
	ledger     *Ledger
	hasher     *PasswordHasher
	codec      *TokenCodec
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewAuthService creates a new AuthService.
func NewAuthService(repo *UserRepository, ledger *Ledger, hasher *PasswordHasher, codec *TokenCodec, accessTTL, refreshTTL time.Duration) *AuthService {
	return &AuthService{
		repo:       repo,
		ledger:     ledger,
		hasher:     hasher,
		codec:      codec,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// lookupField classifies a login identifier by shape: all digits is a tax
// ID, anything with "@" is an email, everything else is a username.
func lookupField(identifier string) domain.Field {
	switch {
	case digitsOnly(identifier) != "":
		return domain.FieldINN
	case strings.Contains(identifier, "@"):
		return domain.FieldEmail
	default:
		return domain.FieldUsername
	}
}

// Authenticate resolves identifier to a non-deleted user and checks password.
func (s *AuthService) Authenticate(ctx context.Context, identifier, password string) (*domain.User, error) {
	user, found, err := s.repo.GetOne(ctx, domain.By(lookupField(identifier), identifier))
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if !found {
		return nil, ErrInvalidCredentials
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// Login authenticates a user and returns an access and refresh token pair.
func (s *AuthService) Login(ctx context.Context, identifier, password string) (*domain.TokenPair, error) {
	user, err := s.Authenticate(ctx, identifier, password)
	if err != nil {
		return nil, err
	}
	return s.IssueTokenPair(user.Subject())
}

// IssueAccessToken mints an access token for subject.
func (s *AuthService) IssueAccessToken(subject string) (string, time.Time, error) {
	return s.codec.Encode(Claims{
		Type:             TokenAccess,
		RegisteredClaims: newRegisteredClaims(subject),
	}, s.accessTTL)
}

// IssueRefreshToken mints a refresh token for subject.
func (s *AuthService) IssueRefreshToken(subject string) (string, time.Time, error) {
	return s.codec.Encode(Claims{
		Type:             TokenRefresh,
		RegisteredClaims: newRegisteredClaims(subject),
	}, s.refreshTTL)
}

// IssueTokenPair mints both tokens for subject.
func (s *AuthService) IssueTokenPair(subject string) (*domain.TokenPair, error) {
	accessToken, _, err := s.IssueAccessToken(subject)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, _, err := s.IssueRefreshToken(subject)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return &domain.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.accessTTL.Seconds()),
		TokenType:    "bearer",
	}, nil
}

// IssueAnonymousSession mints a 30-day token for an unregistered device.
func (s *AuthService) IssueAnonymousSession(deviceID string) (string, time.Time, error) {
	if len(deviceID) != 36 {
		return "", time.Time{}, ErrInvalidDeviceID
	}
	if _, err := uuid.Parse(deviceID); err != nil {
		return "", time.Time{}, ErrInvalidDeviceID
	}

	return s.codec.Encode(Claims{
		Type:             TokenAnonymous,
		DeviceID:         deviceID,
		RegisteredClaims: newRegisteredClaims(domain.AnonymousSubject(deviceID)),
	}, AnonymousSessionTTL)
}

// Verify checks a bearer token on the access path. Revoked tokens fail with
// ErrRevoked before the token is even decoded; any decoding failure, and
// refresh tokens, fail with ErrInvalidToken.
func (s *AuthService) Verify(ctx context.Context, token string) (domain.Identity, error) {
	claims, err := s.verify(ctx, token)
	if err != nil {
		return domain.Identity{}, err
	}

	identity := domain.ParseSubject(claims.Subject)
	switch claims.Type {
	case TokenAccess:
		if identity.IsAnonymous() {
			return domain.Identity{}, ErrInvalidToken
		}
	case TokenAnonymous:
		if !identity.IsAnonymous() || identity.DeviceID != claims.DeviceID {
			return domain.Identity{}, ErrInvalidToken
		}
	default:
		return domain.Identity{}, ErrInvalidToken
	}
	return identity, nil
}

// VerifyRefresh checks a refresh token and returns its subject.
func (s *AuthService) VerifyRefresh(ctx context.Context, token string) (string, error) {
	claims, err := s.verify(ctx, token)
	if err != nil {
		return "", err
	}
	if claims.Type != TokenRefresh {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

func (s *AuthService) verify(ctx context.Context, token string) (*Claims, error) {
	revoked, err := s.ledger.Contains(ctx, token)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, ErrRevoked
	}
	return s.codec.Decode(token)
}

// RefreshTokens exchanges a refresh token for a new pair and revokes it.
func (s *AuthService) RefreshTokens(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	subject, err := s.VerifyRefresh(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	user, err := s.GetUserBySubject(ctx, subject)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := s.Revoke(ctx, refreshToken); err != nil {
		return nil, err
	}
	return s.IssueTokenPair(user.Subject())
}

// Revoke adds token to the ledger until its own expiry.
func (s *AuthService) Revoke(ctx context.Context, token string) error {
	expiresAt, err := s.codec.ExpiresAt(token)
	if err != nil {
		return err
	}
	return s.ledger.Add(ctx, token, expiresAt)
}

// Logout revokes the access token and, when given, the refresh token. A
// refresh token that does not decode is skipped: it cannot be used again.
func (s *AuthService) Logout(ctx context.Context, accessToken, refreshToken string) error {
	if err := s.Revoke(ctx, accessToken); err != nil {
		return err
	}
	if refreshToken == "" {
		return nil
	}
	if err := s.Revoke(ctx, refreshToken); err != nil && !errors.Is(err, ErrInvalidToken) {
		return err
	}
	return nil
}

// Register validates and creates a new account.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	if in.UserType == "" {
		in.UserType = domain.TypeIndividual
	}
	if err := validateRegistration(&in); err != nil {
		return nil, err
	}

	checks := []struct {
		field domain.Field
		value string
		err   error
	}{
		{domain.FieldEmail, in.Email, ErrEmailTaken},
		{domain.FieldUsername, in.Username, ErrUsernameTaken},
		{domain.FieldINN, in.INN, ErrINNTaken},
		{domain.FieldPhone, in.Phone, ErrPhoneTaken},
		// Digit-only identifiers log in as an INN, so usernames and INNs
		// share one namespace.
		{domain.FieldINN, digitsOnly(in.Username), ErrUsernameTaken},
		{domain.FieldUsername, in.INN, ErrINNTaken},
	}
	for _, c := range checks {
		if c.value == "" {
			continue
		}
		exists, err := s.repo.Exists(ctx, domain.By(c.field, c.value))
		if err != nil {
			return nil, fmt.Errorf("failed to check %s existence: %w", c.field, err)
		}
		if exists {
			return nil, c.err
		}
	}

	passwordHash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:              uuid.New().String(),
		Name:            in.Name,
		Username:        domain.StrPtr(in.Username),
		Email:           domain.StrPtr(in.Email),
		Phone:           domain.StrPtr(in.Phone),
		UserType:        in.UserType,
		PasswordHash:    passwordHash,
		ProfileImageURL: domain.DefaultProfileImageURL,
	}
	if in.UserType == domain.TypeOrganization {
		user.INN = domain.StrPtr(in.INN)
		user.OrganizationName = domain.StrPtr(in.OrganizationName)
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, ErrUserExists) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// validateRegistration checks in and rewrites its email to the bare address.
func validateRegistration(in *RegisterInput) error {
	if err := validateName(in.Name); err != nil {
		return err
	}

	switch in.UserType {
	case domain.TypeIndividual:
		if in.Username == "" {
			return ErrInvalidUsername
		}
	case domain.TypeOrganization:
		if in.INN == "" || strings.TrimSpace(in.OrganizationName) == "" {
			return ErrOrganizationFields
		}
		if !innPattern.MatchString(in.INN) {
			return ErrInvalidINN
		}
		if in.Username != "" {
			return ErrOrganizationUsername
		}
	default:
		return fmt.Errorf("unknown user type %q", in.UserType)
	}

	if in.Username != "" && !usernamePattern.MatchString(in.Username) {
		return ErrInvalidUsername
	}
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return err
	}
	in.Email = email

	if len(in.Password) < 8 {
		return ErrWeakPassword
	}
	if len(in.Password) > maxPasswordBytes {
		return ErrPasswordTooLong
	}
	return nil
}

// normalizeEmail returns the bare address of raw, dropping any display name.
func normalizeEmail(raw string) (string, error) {
	addr, err := mail.ParseAddress(raw)
	if err != nil {
		return "", ErrInvalidEmail
	}
	return addr.Address, nil
}

// digitsOnly returns s when it is non-empty and made of ASCII digits.
func digitsOnly(s string) string {
	if s == "" || strings.IndexFunc(s, func(r rune) bool { return r < '0' || r > '9' }) >= 0 {
		return ""
	}
	return s
}

func validateName(name string) error {
	n := len([]rune(strings.TrimSpace(name)))
	if n < 2 || n > 30 {
		return ErrInvalidName
	}
	return nil
}

// GetUser retrieves a non-deleted user by ID.
func (s *AuthService) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	return s.getOne(ctx, domain.By(domain.FieldID, userID))
}

// GetUserByUsername retrieves a non-deleted user by username.
func (s *AuthService) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.getOne(ctx, domain.By(domain.FieldUsername, username))
}

// GetUserBySubject retrieves the user a token subject names. A subject is
// an email when it contains "@" and a username otherwise.
func (s *AuthService) GetUserBySubject(ctx context.Context, subject string) (*domain.User, error) {
	field := domain.FieldUsername
	if strings.Contains(subject, "@") {
		field = domain.FieldEmail
	}
	return s.getOne(ctx, domain.By(field, subject))
}

func (s *AuthService) getOne(ctx context.Context, filter domain.Filter) (*domain.User, error) {
	user, found, err := s.repo.GetOne(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if !found {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// ListUsers returns a page of non-deleted users.
func (s *AuthService) ListUsers(ctx context.Context, page, perPage int) (database.Page[domain.User], error) {
	page, perPage = database.NormalizePaging(page, perPage)
	users, total, err := s.repo.List(ctx, database.Offset(page, perPage), perPage)
	if err != nil {
		return database.Page[domain.User]{}, fmt.Errorf("failed to list users: %w", err)
	}
	return database.NewPage(users, total, page, perPage), nil
}

// UpdateUser applies a self-update by the account named actorSubject to
// the user with the given ID.
func (s *AuthService) UpdateUser(ctx context.Context, actorSubject, userID string, in UpdateInput) (*domain.User, error) {
	actor, err := s.GetUserBySubject(ctx, actorSubject)
	if err != nil {
		return nil, err
	}
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.ID != actor.ID {
		return nil, ErrForbidden
	}

	if in.Username != nil && *in.Username != domain.Deref(user.Username) {
		if user.UserType == domain.TypeOrganization {
			return nil, ErrOrganizationUsername
		}
		if !usernamePattern.MatchString(*in.Username) {
			return nil, ErrInvalidUsername
		}
		taken := []domain.Filter{domain.By(domain.FieldUsername, *in.Username)}
		if digits := digitsOnly(*in.Username); digits != "" {
			taken = append(taken, domain.By(domain.FieldINN, digits))
		}
		for _, filter := range taken {
			exists, err := s.repo.Exists(ctx, filter)
			if err != nil {
				return nil, fmt.Errorf("failed to check username existence: %w", err)
			}
			if exists {
				return nil, ErrUsernameTaken
			}
		}
		user.Username = domain.StrPtr(*in.Username)
	}

	if in.Email != nil {
		email, err := normalizeEmail(*in.Email)
		if err != nil {
			return nil, err
		}
		if email != domain.Deref(user.Email) {
			exists, err := s.repo.Exists(ctx, domain.By(domain.FieldEmail, email))
			if err != nil {
				return nil, fmt.Errorf("failed to check email existence: %w", err)
			}
			if exists {
				return nil, ErrEmailTaken
			}
			user.Email = domain.StrPtr(email)
		}
	}

	if in.Name != nil && *in.Name != user.Name {
		if err := validateName(*in.Name); err != nil {
			return nil, err
		}
		user.Name = *in.Name
	}

	if in.ProfileImageURL != nil && *in.ProfileImageURL != user.ProfileImageURL {
		if !isHTTPURL(*in.ProfileImageURL) {
			return nil, errors.New("invalid profile image url")
		}
		user.ProfileImageURL = *in.ProfileImageURL
	}

	if err := s.repo.Update(ctx, user); err != nil {
		if errors.Is(err, ErrUserExists) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

// DeleteUser soft-deletes the caller's own account and revokes the token
// it was authenticated with.
func (s *AuthService) DeleteUser(ctx context.Context, actorSubject, username, token string) error {
	user, err := s.GetUserByUsername(ctx, username)
	if err != nil {
		return err
	}
	if user.Subject() != actorSubject {
		return ErrForbidden
	}

	if err := s.repo.Delete(ctx, user.ID); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return s.Revoke(ctx, token)
}

// EraseUser permanently removes a user, soft-deleted or not, and revokes
// the token of the superuser performing it.
func (s *AuthService) EraseUser(ctx context.Context, username, token string) error {
	user, found, err := s.repo.GetAny(ctx, domain.By(domain.FieldUsername, username))
	if err != nil {
		return fmt.Errorf("failed to find user: %w", err)
	}
	if !found {
		return ErrUserNotFound
	}

	if err := s.repo.HardDelete(ctx, user.ID); err != nil {
		return fmt.Errorf("failed to erase user: %w", err)
	}
	return s.Revoke(ctx, token)
}

func isHTTPURL(s string) bool {
	rest, ok := strings.CutPrefix(s, "https://")
	if !ok {
		rest, ok = strings.CutPrefix(s, "http://")
	}
	return ok && rest != "" && strings.IndexFunc(rest, unicode.IsSpace) < 0
}
