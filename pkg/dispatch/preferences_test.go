package dispatch

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(b bool) *bool    { return &b }
func strPtr(s string) *string { return &s }

func TestLoadPreferences(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("no rows returns defaults", func(t *testing.T) {
		t.Parallel()
		store := NewMemoryStorage()

		prefs, err := loadPreferences(ctx, store, "user-1")
		require.NoError(t, err)
		assert.Equal(t, DefaultPreferences(), prefs)
	})

	t.Run("canonical row overwrites its channel", func(t *testing.T) {
		t.Parallel()
		store := NewMemoryStorage()
		store.SeedPreference(PreferenceRecord{UserID: "user-1", Channel: strPtr("email"), Enabled: boolPtr(false)})
		store.SeedPreference(PreferenceRecord{UserID: "user-1", Channel: strPtr("push"), Enabled: boolPtr(true)})

		prefs, err := loadPreferences(ctx, store, "user-1")
		require.NoError(t, err)
		assert.False(t, prefs[ChannelEmail])
		assert.True(t, prefs[ChannelPush])
		assert.True(t, prefs[ChannelInApp])
	})

	t.Run("canonical row without enabled is ignored", func(t *testing.T) {
		t.Parallel()
		store := NewMemoryStorage()
		store.SeedPreference(PreferenceRecord{UserID: "user-1", Channel: strPtr("email")})

		prefs, err := loadPreferences(ctx, store, "user-1")
		require.NoError(t, err)
		assert.True(t, prefs[ChannelEmail])
	})

	t.Run("legacy flags map to email and whatsapp", func(t *testing.T) {
		t.Parallel()
		store := NewMemoryStorage()
		store.SeedPreference(PreferenceRecord{
			UserID:        "user-1",
			EmailOptIn:    boolPtr(false),
			WhatsAppOptIn: boolPtr(true),
		})

		prefs, err := loadPreferences(ctx, store, "user-1")
		require.NoError(t, err)
		assert.False(t, prefs[ChannelEmail])
		assert.True(t, prefs[ChannelWhatsApp])
	})

	t.Run("channels array only enables", func(t *testing.T) {
		t.Parallel()
		store := NewMemoryStorage()
		store.SeedPreference(PreferenceRecord{UserID: "user-1", Channel: strPtr("email"), Enabled: boolPtr(false)})
		store.SeedPreference(PreferenceRecord{UserID: "user-1", Channels: []string{"push", "whatsapp"}})

		prefs, err := loadPreferences(ctx, store, "user-1")
		require.NoError(t, err)
		assert.True(t, prefs[ChannelPush])
		assert.True(t, prefs[ChannelWhatsApp])
		// The array form never disables anything previously set.
		assert.False(t, prefs[ChannelEmail])
	})

	t.Run("channels array never touches in_app", func(t *testing.T) {
		t.Parallel()
		store := NewMemoryStorage()
		store.SeedPreference(PreferenceRecord{UserID: "user-1", Channels: []string{"in_app"}})

		prefs, err := loadPreferences(ctx, store, "user-1")
		require.NoError(t, err)
		assert.Equal(t, DefaultPreferences(), prefs)
	})

	t.Run("sms is a synonym for whatsapp", func(t *testing.T) {
		t.Parallel()
		store := NewMemoryStorage()
		store.SeedPreference(PreferenceRecord{UserID: "user-1", Channel: strPtr("sms"), Enabled: boolPtr(true)})

		prefs, err := loadPreferences(ctx, store, "user-1")
		require.NoError(t, err)
		assert.True(t, prefs[ChannelWhatsApp])
	})

	t.Run("unknown channel names are dropped silently", func(t *testing.T) {
		t.Parallel()
		store := NewMemoryStorage()
		store.SeedPreference(PreferenceRecord{UserID: "user-1", Channel: strPtr("pigeon"), Enabled: boolPtr(true)})
		store.SeedPreference(PreferenceRecord{UserID: "user-1", Channels: []string{"fax"}})

		prefs, err := loadPreferences(ctx, store, "user-1")
		require.NoError(t, err)
		assert.Equal(t, DefaultPreferences(), prefs)
	})

	t.Run("rows of other users are not read", func(t *testing.T) {
		t.Parallel()
		store := NewMemoryStorage()
		store.SeedPreference(PreferenceRecord{UserID: "user-2", Channel: strPtr("email"), Enabled: boolPtr(false)})

		prefs, err := loadPreferences(ctx, store, "user-1")
		require.NoError(t, err)
		assert.Equal(t, DefaultPreferences(), prefs)
	})
}
