// Property-based tests for the admin allowlist gate.
package bot

import (
	"testing"

	"pgregory.net/rapid"

	"telegram-quiz-bot/internal/config"
)

// TestAdminAllowlistProperty checks that a user is treated as admin if
// and only if their ID appears in the configured allowlist.
func TestAdminAllowlistProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		numAdmins := rapid.IntRange(1, 10).Draw(t, "numAdmins")
		adminIDs := make([]int64, numAdmins)
		for i := 0; i < numAdmins; i++ {
			adminIDs[i] = rapid.Int64Range(1, 1000000000).Draw(t, "adminID")
		}

		cfg := &config.Config{
			Admin: config.AdminConfig{IDs: adminIDs},
		}

		userID := rapid.Int64Range(1, 1000000000).Draw(t, "userID")

		expected := false
		for _, id := range adminIDs {
			if id == userID {
				expected = true
				break
			}
		}

		if got := cfg.IsAdmin(userID); got != expected {
			t.Fatalf("admin check mismatch: userID=%d, adminIDs=%v, expected=%v, got=%v",
				userID, adminIDs, expected, got)
		}
	})
}

// TestKnownAdminAlwaysRecognizedProperty checks that every configured
// admin passes the gate.
func TestKnownAdminAlwaysRecognizedProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		numAdmins := rapid.IntRange(1, 10).Draw(t, "numAdmins")
		adminIDs := make([]int64, numAdmins)
		for i := 0; i < numAdmins; i++ {
			adminIDs[i] = rapid.Int64Range(1, 1000000000).Draw(t, "adminID")
		}

		cfg := &config.Config{
			Admin: config.AdminConfig{IDs: adminIDs},
		}

		idx := rapid.IntRange(0, numAdmins-1).Draw(t, "adminIndex")
		if !cfg.IsAdmin(adminIDs[idx]) {
			t.Fatalf("known admin ID %d should pass the gate, adminIDs=%v", adminIDs[idx], adminIDs)
		}
	})
}

// TestEmptyAllowlistRejectsEveryoneProperty checks that with no admins
// configured nobody passes the gate.
func TestEmptyAllowlistRejectsEveryoneProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		cfg := &config.Config{}
		userID := rapid.Int64Range(1, 1000000000).Draw(t, "userID")

		if cfg.IsAdmin(userID) {
			t.Fatalf("user %d passed an empty allowlist", userID)
		}
	})
}
