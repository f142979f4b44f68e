package services

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"time"

	intconfig "busbackend/internal/config"
	intdb "busbackend/internal/db"
	"busbackend/internal/domain"
	"busbackend/internal/domain/models"
	"busbackend/internal/events"
	"busbackend/internal/repositories"
	"busbackend/internal/utils"
)

// AccountService is the account directory: one auth_user row plus one
// booking_customer row per customer, always written together.
type AccountService struct {
	DB        *sql.DB
	Hasher    PasswordHasher
	Events    events.Publisher
	Now       func() time.Time
	RequestID string
}

func (s AccountService) db() *sql.DB {
	if s.DB != nil {
		return s.DB
	}
	return intconfig.DB
}

func (s AccountService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s AccountService) hasher() PasswordHasher {
	if s.Hasher != nil {
		return s.Hasher
	}
	return DefaultHasher{}
}

func (s AccountService) publish(ctx context.Context, topic string, payload any) {
	var p events.Publisher = events.NopPublisher{}
	if s.Events != nil {
		p = s.Events
	}
	if err := p.Publish(ctx, topic, payload); err != nil {
		utils.LogError(s.RequestID, "events", "publish_"+topic, err)
	}
}

func usernameConflict(err error) error {
	return domain.ConflictError{Resource: "user", Msg: "username already registered", Err: err}
}

// CreateUser registers a customer and returns its public profile.
func (s AccountService) CreateUser(ctx context.Context, in models.UserCreate) (models.UserPublic, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	if in.Username == "" {
		return models.UserPublic{}, domain.ValidationError{Field: "username", Msg: "is required"}
	}
	if err := ValidateNewPassword(in.Password, in.PasswordRepeat); err != nil {
		return models.UserPublic{}, err
	}

	hash, err := s.hasher().Hash(in.Password)
	if err != nil {
		return models.UserPublic{}, domain.InternalError{Err: err}
	}

	user := models.User{
		Password:   hash,
		Username:   in.Username,
		FirstName:  deref(in.FirstName),
		LastName:   deref(in.LastName),
		Email:      in.Email,
		IsActive:   true,
		DateJoined: s.now(),
	}
	customer := models.Customer{
		BirthDate:          in.BirthDate,
		HasLargeFamily:     in.HasLargeFamily,
		HasReducedMobility: in.HasReducedMobility,
	}

	err = intdb.WithTx(ctx, s.db(), func(tx *sql.Tx) error {
		users := repositories.UserRepository{}.WithTx(tx)
		id, err := users.InsertUser(ctx, user)
		if err != nil {
			if intdb.IsDuplicate(err) {
				return usernameConflict(err)
			}
			return err
		}
		user.ID = id
		customer.UserID = id
		customer.ID, err = users.InsertCustomer(ctx, customer)
		return err
	})
	if err != nil {
		return models.UserPublic{}, wrapInternal(err)
	}

	utils.LogEvent(s.RequestID, "account", "create", "user_id="+strconv.FormatInt(user.ID, 10))
	s.publish(ctx, events.TopicUserRegistered, events.UserRegistered{UserID: user.ID, Username: user.Username})
	return models.ToPublic(user, customer), nil
}

func (s AccountService) GetCurrentUser(ctx context.Context, userID int64) (models.UserPublic, error) {
	u, c, err := repositories.UserRepository{DB: s.db()}.GetProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.UserPublic{}, domain.NotFoundError{Resource: "user"}
		}
		return models.UserPublic{}, domain.InternalError{Err: err}
	}
	return models.ToPublic(u, c), nil
}

// UpdateCurrentUser writes only the fields present in upd and returns the
// resulting profile.
func (s AccountService) UpdateCurrentUser(ctx context.Context, userID int64, upd models.UserUpdate) (models.UserPublic, error) {
	if upd.Username != nil && strings.TrimSpace(*upd.Username) == "" {
		return models.UserPublic{}, domain.ValidationError{Field: "username", Msg: "must not be empty"}
	}

	var out models.UserPublic
	err := intdb.WithTx(ctx, s.db(), func(tx *sql.Tx) error {
		users := repositories.UserRepository{}.WithTx(tx)
		if upd.TouchesUser() {
			if err := users.UpdateUser(ctx, userID, upd); err != nil {
				if intdb.IsDuplicate(err) {
					return usernameConflict(err)
				}
				return err
			}
		}
		if upd.TouchesCustomer() {
			if err := users.UpdateCustomer(ctx, userID, upd); err != nil {
				return err
			}
		}
		u, c, err := users.GetProfile(ctx, userID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return domain.NotFoundError{Resource: "user"}
			}
			return err
		}
		out = models.ToPublic(u, c)
		return nil
	})
	if err != nil {
		return models.UserPublic{}, wrapInternal(err)
	}
	utils.LogEvent(s.RequestID, "account", "update", "user_id="+strconv.FormatInt(userID, 10))
	return out, nil
}

// ChangePassword replaces the stored hash after checking the current password.
func (s AccountService) ChangePassword(ctx context.Context, userID int64, in models.PasswordChange) error {
	users := repositories.UserRepository{DB: s.db()}
	user, err := users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.NotFoundError{Resource: "user"}
		}
		return domain.InternalError{Err: err}
	}
	if !s.hasher().Verify(user.Password, in.OldPassword) {
		return domain.InvalidCredentialsError{Msg: "incorrect password"}
	}
	if err := ValidateNewPassword(in.NewPassword, in.NewPasswordRepeat); err != nil {
		return err
	}

	hash, err := s.hasher().Hash(in.NewPassword)
	if err != nil {
		return domain.InternalError{Err: err}
	}
	if err := users.SetPassword(ctx, userID, hash); err != nil {
		return domain.InternalError{Err: err}
	}
	utils.LogEvent(s.RequestID, "account", "change_password", "user_id="+strconv.FormatInt(userID, 10))
	return nil
}

// DeleteCurrentUser removes the user's tickets, customer row and user row
// in one transaction. It refuses to run unless confirmed.
func (s AccountService) DeleteCurrentUser(ctx context.Context, userID int64, confirmed bool) error {
	if !confirmed {
		return domain.ValidationError{Field: "confirm", Msg: "account deletion must be confirmed"}
	}

	var username string
	err := intdb.WithTx(ctx, s.db(), func(tx *sql.Tx) error {
		users := repositories.UserRepository{}.WithTx(tx)
		user, err := users.GetByID(ctx, userID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return domain.NotFoundError{Resource: "user"}
			}
			return err
		}
		username = user.Username

		if _, err := (repositories.TicketRepository{}).WithTx(tx).DeleteByUser(ctx, userID); err != nil {
			return err
		}
		if _, err := users.DeleteCustomer(ctx, userID); err != nil {
			return err
		}
		_, err = users.DeleteUser(ctx, userID)
		return err
	})
	if err != nil {
		return wrapInternal(err)
	}

	utils.LogEvent(s.RequestID, "account", "delete", "user_id="+strconv.FormatInt(userID, 10))
	s.publish(ctx, events.TopicUserDeleted, events.UserDeleted{UserID: userID, Username: username})
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
