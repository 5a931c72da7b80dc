package partner

import (
	"testing"

	"github.com/google/uuid"
	"github.com/luminform/atelier/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	shared.PasswordCost = bcrypt.MinCost
}

func TestNewPartner(t *testing.T) {
	t.Run("creates pending partner with derived slug", func(t *testing.T) {
		p, err := NewPartner("Maison Lumière Events", "", BusinessTypePlanner, " Hello@Maison.EVENTS ")
		require.NoError(t, err)

		assert.NotEqual(t, uuid.Nil, p.ID)
		assert.Equal(t, "maison-lumiere-events", p.Slug)
		assert.Equal(t, StatusPending, p.Status)
		assert.Equal(t, "hello@maison.events", p.ContactEmail)
		assert.Equal(t, 1, p.Version)

		events := p.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypePartnerRegistered, events[0].EventType())
		assert.Equal(t, p.ID, events[0].PartnerID())
	})

	t.Run("rejects invalid input", func(t *testing.T) {
		_, err := NewPartner("", "", BusinessTypeVenue, "a@b.co")
		assert.Error(t, err)

		_, err = NewPartner("Venue", "Bad Slug", BusinessTypeVenue, "a@b.co")
		assert.Error(t, err)

		_, err = NewPartner("Venue", "", BusinessType("castle"), "a@b.co")
		assert.Error(t, err)

		_, err = NewPartner("Venue", "", BusinessTypeVenue, "not-an-email")
		assert.Error(t, err)
	})
}

func TestPartnerLifecycle(t *testing.T) {
	newPartner := func(t *testing.T) *Partner {
		p, err := NewPartner("Petal & Stem", "petal-stem", BusinessTypeFlorist, "hi@petal.co")
		require.NoError(t, err)
		p.ClearDomainEvents()
		return p
	}

	t.Run("activate suspend reactivate archive", func(t *testing.T) {
		p := newPartner(t)

		require.NoError(t, p.Activate())
		assert.Equal(t, StatusActive, p.Status)
		assert.NotNil(t, p.ActivatedAt)

		assert.Error(t, p.Suspend("  "))
		require.NoError(t, p.Suspend("unpaid invoices"))
		assert.Equal(t, StatusSuspended, p.Status)
		assert.False(t, p.CanSignIn())

		require.NoError(t, p.Reactivate())
		assert.Empty(t, p.SuspendedReason)

		require.NoError(t, p.Archive())
		assert.Equal(t, StatusArchived, p.Status)
		assert.Len(t, p.GetDomainEvents(), 4)
	})

	t.Run("invalid transitions return invalid state", func(t *testing.T) {
		p := newPartner(t)

		err := p.Suspend("reason")
		assert.ErrorIs(t, err, shared.ErrInvalidState)

		err = p.Reactivate()
		assert.ErrorIs(t, err, shared.ErrInvalidState)

		require.NoError(t, p.Archive())
		assert.ErrorIs(t, p.Archive(), shared.ErrInvalidState)
		assert.ErrorIs(t, p.Activate(), shared.ErrInvalidState)
	})

	t.Run("transition to routes to the right operation", func(t *testing.T) {
		p := newPartner(t)

		require.NoError(t, p.TransitionTo(StatusActive, ""))
		require.NoError(t, p.TransitionTo(StatusSuspended, "chargeback"))
		require.NoError(t, p.TransitionTo(StatusActive, ""))
		assert.Equal(t, StatusActive, p.Status)
		assert.ErrorIs(t, p.TransitionTo(StatusPending, ""), shared.ErrInvalidState)
	})
}

func TestPartnerUpdateProfile(t *testing.T) {
	p, err := NewPartner("Grand Hall", "", BusinessTypeVenue, "events@grandhall.com")
	require.NoError(t, err)

	name := "The Grand Hall"
	site := "https://grandhall.com"
	require.NoError(t, p.UpdateProfile(Profile{Name: &name, Website: &site}))
	assert.Equal(t, "The Grand Hall", p.Name)
	assert.Equal(t, "grand-hall", p.Slug)
	assert.Equal(t, 2, p.Version)

	bad := "javascript:alert(1)"
	assert.Error(t, p.UpdateProfile(Profile{Website: &bad}))

	require.NoError(t, p.Archive())
	assert.ErrorIs(t, p.UpdateProfile(Profile{Name: &name}), shared.ErrInvalidState)
}

func TestUser(t *testing.T) {
	partnerID := uuid.New()

	u, err := NewUser(partnerID, "Owner@Petal.co", "bloom2026", "Iris", UserRoleOwner)
	require.NoError(t, err)
	assert.Equal(t, "owner@petal.co", u.Email)
	assert.True(t, u.IsActive)
	assert.True(t, u.VerifyPassword("bloom2026"))
	assert.False(t, u.VerifyPassword("wrong"))

	assert.Error(t, u.ChangePassword("wrong", "newpass99"))
	require.NoError(t, u.ChangePassword("bloom2026", "newpass99"))
	assert.True(t, u.VerifyPassword("newpass99"))

	_, err = NewUser(partnerID, "x@y.co", "short", "", UserRoleMember)
	assert.Error(t, err)
	_, err = NewUser(uuid.Nil, "x@y.co", "longenough1", "", UserRoleMember)
	assert.Error(t, err)
	_, err = NewUser(partnerID, "x@y.co", "longenough1", "", UserRole("admin"))
	assert.Error(t, err)
}
